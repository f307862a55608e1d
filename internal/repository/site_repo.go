package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SiteRepository interface {
	Create(ctx context.Context, site *model.Site) error
	Update(ctx context.Context, site *model.Site) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Site, error)
	List(ctx context.Context, search string, page, limit int) ([]model.Site, int64, error)
}

type siteRepository struct {
	db *gorm.DB
}

func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) Create(ctx context.Context, site *model.Site) error {
	return GetDB(ctx, r.db).Create(site).Error
}

func (r *siteRepository) Update(ctx context.Context, site *model.Site) error {
	return GetDB(ctx, r.db).Save(site).Error
}

func (r *siteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Site{}).Error
}

func (r *siteRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Site, error) {
	var site model.Site
	if err := GetDB(ctx, r.db).First(&site, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepository) List(ctx context.Context, search string, page, limit int) ([]model.Site, int64, error) {
	var sites []model.Site
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Site{})
	if search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&sites).Error; err != nil {
		return nil, 0, err
	}

	return sites, total, nil
}
