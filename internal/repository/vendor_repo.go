package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VendorRepository interface {
	Create(ctx context.Context, vendor *model.Vendor) error
	Update(ctx context.Context, vendor *model.Vendor) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error)
	FindAddressByID(ctx context.Context, id uuid.UUID) (*model.VendorAddress, error)
	List(ctx context.Context, search string, page, limit int) ([]model.Vendor, int64, error)
	DeleteAddressesByVendorID(ctx context.Context, vendorID uuid.UUID) error
	CreateAddresses(ctx context.Context, addresses []model.VendorAddress) error
}

type vendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) Create(ctx context.Context, vendor *model.Vendor) error {
	return GetDB(ctx, r.db).Create(vendor).Error
}

func (r *vendorRepository) Update(ctx context.Context, vendor *model.Vendor) error {
	return GetDB(ctx, r.db).Save(vendor).Error
}

func (r *vendorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Vendor{}).Error
}

func (r *vendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error) {
	var vendor model.Vendor
	if err := GetDB(ctx, r.db).Preload("Addresses").First(&vendor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepository) FindAddressByID(ctx context.Context, id uuid.UUID) (*model.VendorAddress, error) {
	var addr model.VendorAddress
	if err := GetDB(ctx, r.db).First(&addr, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &addr, nil
}

func (r *vendorRepository) List(ctx context.Context, search string, page, limit int) ([]model.Vendor, int64, error) {
	var vendors []model.Vendor
	var total int64

	db := GetDB(ctx, r.db)

	applySearch := func(q *gorm.DB) *gorm.DB {
		if search != "" {
			q = q.Where("name ILIKE ? OR gstin ILIKE ? OR phone ILIKE ? OR email ILIKE ?",
				"%"+search+"%", "%"+search+"%", "%"+search+"%", "%"+search+"%")
		}
		return q
	}

	if err := applySearch(db.Model(&model.Vendor{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := applySearch(db.Model(&model.Vendor{}).Preload("Addresses")).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&vendors).Error; err != nil {
		return nil, 0, err
	}

	return vendors, total, nil
}

func (r *vendorRepository) DeleteAddressesByVendorID(ctx context.Context, vendorID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("vendor_id = ?", vendorID).Delete(&model.VendorAddress{}).Error
}

func (r *vendorRepository) CreateAddresses(ctx context.Context, addresses []model.VendorAddress) error {
	if len(addresses) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&addresses).Error
}
