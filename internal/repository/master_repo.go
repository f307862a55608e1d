package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Flat master records (payment terms, rental categories, manpower) share the
// same thin CRUD surface, so their repositories live together.

type PaymentTermRepository interface {
	Create(ctx context.Context, term *model.PaymentTerm) error
	Update(ctx context.Context, term *model.PaymentTerm) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PaymentTerm, error)
	List(ctx context.Context, page, limit int) ([]model.PaymentTerm, int64, error)
}

type paymentTermRepository struct {
	db *gorm.DB
}

func NewPaymentTermRepository(db *gorm.DB) PaymentTermRepository {
	return &paymentTermRepository{db: db}
}

func (r *paymentTermRepository) Create(ctx context.Context, term *model.PaymentTerm) error {
	return GetDB(ctx, r.db).Create(term).Error
}

func (r *paymentTermRepository) Update(ctx context.Context, term *model.PaymentTerm) error {
	return GetDB(ctx, r.db).Save(term).Error
}

func (r *paymentTermRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.PaymentTerm{}, "id = ?", id).Error
}

func (r *paymentTermRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PaymentTerm, error) {
	var term model.PaymentTerm
	if err := GetDB(ctx, r.db).First(&term, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &term, nil
}

func (r *paymentTermRepository) List(ctx context.Context, page, limit int) ([]model.PaymentTerm, int64, error) {
	var terms []model.PaymentTerm
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.PaymentTerm{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name ASC").Offset(offset).Limit(limit).Find(&terms).Error; err != nil {
		return nil, 0, err
	}
	return terms, total, nil
}

type RentalCategoryRepository interface {
	Create(ctx context.Context, category *model.RentalCategory) error
	Update(ctx context.Context, category *model.RentalCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RentalCategory, error)
	List(ctx context.Context, page, limit int) ([]model.RentalCategory, int64, error)
}

type rentalCategoryRepository struct {
	db *gorm.DB
}

func NewRentalCategoryRepository(db *gorm.DB) RentalCategoryRepository {
	return &rentalCategoryRepository{db: db}
}

func (r *rentalCategoryRepository) Create(ctx context.Context, category *model.RentalCategory) error {
	return GetDB(ctx, r.db).Create(category).Error
}

func (r *rentalCategoryRepository) Update(ctx context.Context, category *model.RentalCategory) error {
	return GetDB(ctx, r.db).Save(category).Error
}

func (r *rentalCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.RentalCategory{}).Error
}

func (r *rentalCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RentalCategory, error) {
	var category model.RentalCategory
	if err := GetDB(ctx, r.db).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *rentalCategoryRepository) List(ctx context.Context, page, limit int) ([]model.RentalCategory, int64, error) {
	var categories []model.RentalCategory
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.RentalCategory{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name ASC").Offset(offset).Limit(limit).Find(&categories).Error; err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

type ManpowerRepository interface {
	Create(ctx context.Context, entry *model.Manpower) error
	Update(ctx context.Context, entry *model.Manpower) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Manpower, error)
	List(ctx context.Context, siteID string, page, limit int) ([]model.Manpower, int64, error)
}

type manpowerRepository struct {
	db *gorm.DB
}

func NewManpowerRepository(db *gorm.DB) ManpowerRepository {
	return &manpowerRepository{db: db}
}

func (r *manpowerRepository) Create(ctx context.Context, entry *model.Manpower) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *manpowerRepository) Update(ctx context.Context, entry *model.Manpower) error {
	return GetDB(ctx, r.db).Save(entry).Error
}

func (r *manpowerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Manpower{}).Error
}

func (r *manpowerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Manpower, error) {
	var entry model.Manpower
	if err := GetDB(ctx, r.db).Preload("Site").First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *manpowerRepository) List(ctx context.Context, siteID string, page, limit int) ([]model.Manpower, int64, error) {
	var entries []model.Manpower
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Manpower{})
	if siteID != "" {
		query = query.Where("site_id = ?", siteID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("Site").Order("category ASC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
