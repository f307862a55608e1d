package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BOQRepository interface {
	Create(ctx context.Context, boq *model.BOQ) error
	Update(ctx context.Context, boq *model.BOQ) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BOQ, error)
	FindLineByID(ctx context.Context, lineID uuid.UUID) (*model.BOQLine, error)
	List(ctx context.Context, siteID string, page, limit int) ([]model.BOQ, int64, error)
	ReplaceLines(ctx context.Context, boqID uuid.UUID, lines []model.BOQLine) error
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
}

type boqRepository struct {
	db *gorm.DB
}

func NewBOQRepository(db *gorm.DB) BOQRepository {
	return &boqRepository{db: db}
}

func (r *boqRepository) Create(ctx context.Context, boq *model.BOQ) error {
	return GetDB(ctx, r.db).Create(boq).Error
}

func (r *boqRepository) Update(ctx context.Context, boq *model.BOQ) error {
	return GetDB(ctx, r.db).Omit("Lines").Save(boq).Error
}

func (r *boqRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("boq_id = ?", id).Delete(&model.BOQLine{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.BOQ{}, "id = ?", id).Error
}

func (r *boqRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BOQ, error) {
	var boq model.BOQ
	if err := GetDB(ctx, r.db).Preload("Site").Preload("Lines").Preload("Lines.Item").First(&boq, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &boq, nil
}

func (r *boqRepository) FindLineByID(ctx context.Context, lineID uuid.UUID) (*model.BOQLine, error) {
	var line model.BOQLine
	if err := GetDB(ctx, r.db).First(&line, "id = ?", lineID).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *boqRepository) List(ctx context.Context, siteID string, page, limit int) ([]model.BOQ, int64, error) {
	var boqs []model.BOQ
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.BOQ{})
	if siteID != "" {
		query = query.Where("site_id = ?", siteID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("Site").Order("created_at DESC").Offset(offset).Limit(limit).Find(&boqs).Error; err != nil {
		return nil, 0, err
	}

	return boqs, total, nil
}

func (r *boqRepository) ReplaceLines(ctx context.Context, boqID uuid.UUID, lines []model.BOQLine) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("boq_id = ?", boqID).Delete(&model.BOQLine{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].BoqID = boqID
	}
	return db.Create(&lines).Error
}

func (r *boqRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.BOQ{}).Where("boq_number LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
