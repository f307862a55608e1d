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

type CreateSiteRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	InCharge string `json:"in_charge"`
}

type UpdateSiteRequest struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	InCharge *string `json:"in_charge"`
	IsActive *bool   `json:"is_active"`
}

type SiteResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	InCharge  string    `json:"in_charge"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- Interface ---

type SiteService interface {
	CreateSite(ctx context.Context, req CreateSiteRequest) (SiteResponse, error)
	UpdateSite(ctx context.Context, id string, req UpdateSiteRequest) (SiteResponse, error)
	DeleteSite(ctx context.Context, id string) error
	GetSite(ctx context.Context, id string) (SiteResponse, error)
	GetSites(ctx context.Context, search string, page, limit int) ([]SiteResponse, int64, error)
}

type siteService struct {
	siteRepo repository.SiteRepository
}

func NewSiteService(siteRepo repository.SiteRepository) SiteService {
	return &siteService{siteRepo: siteRepo}
}

// --- Implementation ---

func (s *siteService) CreateSite(ctx context.Context, req CreateSiteRequest) (SiteResponse, error) {
	if req.Code == "" {
		return SiteResponse{}, &ValidationError{Field: "code", Message: "is required"}
	}
	if req.Name == "" {
		return SiteResponse{}, &ValidationError{Field: "name", Message: "is required"}
	}

	site := &model.Site{
		Code:     req.Code,
		Name:     req.Name,
		Address:  req.Address,
		InCharge: req.InCharge,
		IsActive: true,
	}
	if err := s.siteRepo.Create(ctx, site); err != nil {
		return SiteResponse{}, fmt.Errorf("failed to create site: %w", err)
	}

	return toSiteResponse(*site), nil
}

func (s *siteService) UpdateSite(ctx context.Context, id string, req UpdateSiteRequest) (SiteResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return SiteResponse{}, &ValidationError{Field: "id", Message: "invalid uuid"}
	}

	site, err := s.siteRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SiteResponse{}, ErrNotFound
		}
		return SiteResponse{}, fmt.Errorf("failed to fetch site: %w", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return SiteResponse{}, &ValidationError{Field: "name", Message: "cannot be empty"}
		}
		site.Name = *req.Name
	}
	if req.Address != nil {
		site.Address = *req.Address
	}
	if req.InCharge != nil {
		site.InCharge = *req.InCharge
	}
	if req.IsActive != nil {
		site.IsActive = *req.IsActive
	}

	if err := s.siteRepo.Update(ctx, site); err != nil {
		return SiteResponse{}, fmt.Errorf("failed to update site: %w", err)
	}

	return toSiteResponse(*site), nil
}

func (s *siteService) DeleteSite(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	return s.siteRepo.Delete(ctx, uid)
}

func (s *siteService) GetSite(ctx context.Context, id string) (SiteResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return SiteResponse{}, &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	site, err := s.siteRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SiteResponse{}, ErrNotFound
		}
		return SiteResponse{}, fmt.Errorf("failed to fetch site: %w", err)
	}
	return toSiteResponse(*site), nil
}

func (s *siteService) GetSites(ctx context.Context, search string, page, limit int) ([]SiteResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	sites, total, err := s.siteRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch sites: %w", err)
	}

	res := make([]SiteResponse, 0, len(sites))
	for _, site := range sites {
		res = append(res, toSiteResponse(site))
	}
	return res, total, nil
}

func toSiteResponse(s model.Site) SiteResponse {
	return SiteResponse{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		Address:   s.Address,
		InCharge:  s.InCharge,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
