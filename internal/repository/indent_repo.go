package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IndentRepository interface {
	Create(ctx context.Context, indent *model.Indent) error
	Update(ctx context.Context, indent *model.Indent) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Indent, error)
	FindLineByID(ctx context.Context, lineID uuid.UUID) (*model.IndentLine, error)
	List(ctx context.Context, siteID, status string, page, limit int) ([]model.Indent, int64, error)
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
}

type indentRepository struct {
	db *gorm.DB
}

func NewIndentRepository(db *gorm.DB) IndentRepository {
	return &indentRepository{db: db}
}

func (r *indentRepository) Create(ctx context.Context, indent *model.Indent) error {
	return GetDB(ctx, r.db).Create(indent).Error
}

func (r *indentRepository) Update(ctx context.Context, indent *model.Indent) error {
	return GetDB(ctx, r.db).Omit("Lines").Save(indent).Error
}

func (r *indentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Indent, error) {
	var indent model.Indent
	if err := GetDB(ctx, r.db).Preload("Site").Preload("Lines").Preload("Lines.Item").First(&indent, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &indent, nil
}

func (r *indentRepository) FindLineByID(ctx context.Context, lineID uuid.UUID) (*model.IndentLine, error) {
	var line model.IndentLine
	if err := GetDB(ctx, r.db).First(&line, "id = ?", lineID).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *indentRepository) List(ctx context.Context, siteID, status string, page, limit int) ([]model.Indent, int64, error) {
	var indents []model.Indent
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Indent{})
	if siteID != "" {
		query = query.Where("site_id = ?", siteID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("Site").Order("created_at DESC").Offset(offset).Limit(limit).Find(&indents).Error; err != nil {
		return nil, 0, err
	}

	return indents, total, nil
}

func (r *indentRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Indent{}).Where("indent_number LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
