package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChallanRepository interface {
	Create(ctx context.Context, challan *model.InwardChallan) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InwardChallan, error)
	List(ctx context.Context, purchaseOrderID string, page, limit int) ([]model.InwardChallan, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type challanRepository struct {
	db *gorm.DB
}

func NewChallanRepository(db *gorm.DB) ChallanRepository {
	return &challanRepository{db: db}
}

func (r *challanRepository) Create(ctx context.Context, challan *model.InwardChallan) error {
	return GetDB(ctx, r.db).Create(challan).Error
}

func (r *challanRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.InwardChallan, error) {
	var challan model.InwardChallan
	if err := GetDB(ctx, r.db).Preload("Lines").Preload("Lines.PoLine").First(&challan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &challan, nil
}

func (r *challanRepository) List(ctx context.Context, purchaseOrderID string, page, limit int) ([]model.InwardChallan, int64, error) {
	var challans []model.InwardChallan
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.InwardChallan{})
	if purchaseOrderID != "" {
		query = query.Where("purchase_order_id = ?", purchaseOrderID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("Lines").Order("challan_date DESC").Offset(offset).Limit(limit).Find(&challans).Error; err != nil {
		return nil, 0, err
	}

	return challans, total, nil
}

func (r *challanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("challan_id = ?", id).Delete(&model.InwardChallanLine{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.InwardChallan{}, "id = ?", id).Error
}
