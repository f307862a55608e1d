package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateItemRequest struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Unit    string `json:"unit" binding:"required"`
	HsnCode string `json:"hsn_code"`
}

type UpdateItemRequest struct {
	Name    *string `json:"name"`
	Unit    *string `json:"unit"`
	HsnCode *string `json:"hsn_code"`
}

type ItemResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
	HsnCode   string    `json:"hsn_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- Interface ---

type ItemService interface {
	CreateItem(ctx context.Context, req CreateItemRequest) (ItemResponse, error)
	UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (ItemResponse, error)
	DeleteItem(ctx context.Context, id string) error
	GetItems(ctx context.Context, search string, page, limit int) ([]ItemResponse, int64, error)
}

type itemService struct {
	itemRepo repository.ItemRepository
}

func NewItemService(itemRepo repository.ItemRepository) ItemService {
	return &itemService{itemRepo: itemRepo}
}

// --- Implementation ---

func (s *itemService) CreateItem(ctx context.Context, req CreateItemRequest) (ItemResponse, error) {
	if req.Code == "" {
		return ItemResponse{}, &ValidationError{Field: "code", Message: "is required"}
	}
	if req.Name == "" {
		return ItemResponse{}, &ValidationError{Field: "name", Message: "is required"}
	}
	if req.Unit == "" {
		return ItemResponse{}, &ValidationError{Field: "unit", Message: "is required"}
	}

	item := &model.Item{
		Code:    req.Code,
		Name:    req.Name,
		Unit:    req.Unit,
		HsnCode: req.HsnCode,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return ItemResponse{}, fmt.Errorf("failed to create item: %w", err)
	}

	return toItemResponse(*item), nil
}

func (s *itemService) UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (ItemResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ItemResponse{}, &ValidationError{Field: "id", Message: "invalid uuid"}
	}

	item, err := s.itemRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemResponse{}, ErrNotFound
		}
		return ItemResponse{}, fmt.Errorf("failed to fetch item: %w", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return ItemResponse{}, &ValidationError{Field: "name", Message: "cannot be empty"}
		}
		item.Name = *req.Name
	}
	if req.Unit != nil {
		if *req.Unit == "" {
			return ItemResponse{}, &ValidationError{Field: "unit", Message: "cannot be empty"}
		}
		item.Unit = *req.Unit
	}
	if req.HsnCode != nil {
		item.HsnCode = *req.HsnCode
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return ItemResponse{}, fmt.Errorf("failed to update item: %w", err)
	}

	return toItemResponse(*item), nil
}

func (s *itemService) DeleteItem(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	return s.itemRepo.Delete(ctx, uid)
}

func (s *itemService) GetItems(ctx context.Context, search string, page, limit int) ([]ItemResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	items, total, err := s.itemRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch items: %w", err)
	}

	res := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		res = append(res, toItemResponse(item))
	}
	return res, total, nil
}

func toItemResponse(i model.Item) ItemResponse {
	return ItemResponse{
		ID:        i.ID,
		Code:      i.Code,
		Name:      i.Name,
		Unit:      i.Unit,
		HsnCode:   i.HsnCode,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}
