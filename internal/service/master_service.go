package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Flat master records share one service, mirroring the repository layout.

// --- Payment term DTOs ---

type PaymentTermPayload struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	CreditDays  int    `json:"credit_days"`
}

type PaymentTermResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreditDays  int       `json:"credit_days"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// --- Rental category DTOs ---

type RentalCategoryPayload struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	DailyRate   string `json:"daily_rate"`
}

type RentalCategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DailyRate   string    `json:"daily_rate"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// --- Manpower DTOs ---

type ManpowerPayload struct {
	Category  string `json:"category" binding:"required"`
	SiteID    string `json:"site_id"`
	Headcount int    `json:"headcount"`
	DailyWage string `json:"daily_wage"`
}

type ManpowerResponse struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	SiteID    *string   `json:"site_id"`
	SiteName  string    `json:"site_name,omitempty"`
	Headcount int       `json:"headcount"`
	DailyWage string    `json:"daily_wage"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- Interface ---

type MasterService interface {
	CreatePaymentTerm(ctx context.Context, req PaymentTermPayload) (PaymentTermResponse, error)
	UpdatePaymentTerm(ctx context.Context, id string, req PaymentTermPayload) (PaymentTermResponse, error)
	DeletePaymentTerm(ctx context.Context, id string) error
	GetPaymentTerms(ctx context.Context, page, limit int) ([]PaymentTermResponse, int64, error)

	CreateRentalCategory(ctx context.Context, req RentalCategoryPayload) (RentalCategoryResponse, error)
	UpdateRentalCategory(ctx context.Context, id string, req RentalCategoryPayload) (RentalCategoryResponse, error)
	DeleteRentalCategory(ctx context.Context, id string) error
	GetRentalCategories(ctx context.Context, page, limit int) ([]RentalCategoryResponse, int64, error)

	CreateManpower(ctx context.Context, req ManpowerPayload) (ManpowerResponse, error)
	UpdateManpower(ctx context.Context, id string, req ManpowerPayload) (ManpowerResponse, error)
	DeleteManpower(ctx context.Context, id string) error
	GetManpower(ctx context.Context, siteID string, page, limit int) ([]ManpowerResponse, int64, error)
}

type masterService struct {
	paymentTermRepo    repository.PaymentTermRepository
	rentalCategoryRepo repository.RentalCategoryRepository
	manpowerRepo       repository.ManpowerRepository
	siteRepo           repository.SiteRepository
}

func NewMasterService(
	paymentTermRepo repository.PaymentTermRepository,
	rentalCategoryRepo repository.RentalCategoryRepository,
	manpowerRepo repository.ManpowerRepository,
	siteRepo repository.SiteRepository,
) MasterService {
	return &masterService{
		paymentTermRepo:    paymentTermRepo,
		rentalCategoryRepo: rentalCategoryRepo,
		manpowerRepo:       manpowerRepo,
		siteRepo:           siteRepo,
	}
}

// --- Payment terms ---

func (s *masterService) CreatePaymentTerm(ctx context.Context, req PaymentTermPayload) (PaymentTermResponse, error) {
	if req.Name == "" {
		return PaymentTermResponse{}, &ValidationError{Field: "name", Message: "is required"}
	}
	if req.CreditDays < 0 {
		return PaymentTermResponse{}, &ValidationError{Field: "credit_days", Message: "must not be negative"}
	}

	term := &model.PaymentTerm{
		Name:        req.Name,
		Description: req.Description,
		CreditDays:  req.CreditDays,
	}
	if err := s.paymentTermRepo.Create(ctx, term); err != nil {
		return PaymentTermResponse{}, fmt.Errorf("failed to create payment term: %w", err)
	}
	return toPaymentTermResponse(*term), nil
}

func (s *masterService) UpdatePaymentTerm(ctx context.Context, id string, req PaymentTermPayload) (PaymentTermResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return PaymentTermResponse{}, &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	term, err := s.paymentTermRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PaymentTermResponse{}, ErrNotFound
		}
		return PaymentTermResponse{}, fmt.Errorf("failed to fetch payment term: %w", err)
	}

	if req.Name == "" {
		return PaymentTermResponse{}, &ValidationError{Field: "name", Message: "is required"}
	}
	if req.CreditDays < 0 {
		return PaymentTermResponse{}, &ValidationError{Field: "credit_days", Message: "must not be negative"}
	}

	term.Name = req.Name
	term.Description = req.Description
	term.CreditDays = req.CreditDays

	if err := s.paymentTermRepo.Update(ctx, term); err != nil {
		return PaymentTermResponse{}, fmt.Errorf("failed to update payment term: %w", err)
	}
	return toPaymentTermResponse(*term), nil
}

func (s *masterService) DeletePaymentTerm(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	return s.paymentTermRepo.Delete(ctx, uid)
}

func (s *masterService) GetPaymentTerms(ctx context.Context, page, limit int) ([]PaymentTermResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	terms, total, err := s.paymentTermRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payment terms: %w", err)
	}
	res := make([]PaymentTermResponse, 0, len(terms))
	for _, t := range terms {
		res = append(res, toPaymentTermResponse(t))
	}
	return res, total, nil
}

// --- Rental categories ---

func (s *masterService) CreateRentalCategory(ctx context.Context, req RentalCategoryPayload) (RentalCategoryResponse, error) {
	if req.Name == "" {
		return RentalCategoryResponse{}, &ValidationError{Field: "name", Message: "is required"}
	}
	rate := decimal.Zero
	if req.DailyRate != "" {
		var err error
		rate, err = parseNonNegativeDecimal("daily_rate", req.DailyRate)
		if err != nil {
			return RentalCategoryResponse{}, err
		}
	}

	category := &model.RentalCategory{
		Name:        req.Name,
		Description: req.Description,
		DailyRate:   rate,
		IsActive:    true,
	}
	if err := s.rentalCategoryRepo.Create(ctx, category); err != nil {
		return RentalCategoryResponse{}, fmt.Errorf("failed to create rental category: %w", err)
	}
	return toRentalCategoryResponse(*category), nil
}

func (s *masterService) UpdateRentalCategory(ctx context.Context, id string, req RentalCategoryPayload) (RentalCategoryResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return RentalCategoryResponse{}, &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	category, err := s.rentalCategoryRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RentalCategoryResponse{}, ErrNotFound
		}
		return RentalCategoryResponse{}, fmt.Errorf("failed to fetch rental category: %w", err)
	}

	if req.Name == "" {
		return RentalCategoryResponse{}, &ValidationError{Field: "name", Message: "is required"}
	}
	category.Name = req.Name
	category.Description = req.Description
	if req.DailyRate != "" {
		rate, rateErr := parseNonNegativeDecimal("daily_rate", req.DailyRate)
		if rateErr != nil {
			return RentalCategoryResponse{}, rateErr
		}
		category.DailyRate = rate
	}

	if err := s.rentalCategoryRepo.Update(ctx, category); err != nil {
		return RentalCategoryResponse{}, fmt.Errorf("failed to update rental category: %w", err)
	}
	return toRentalCategoryResponse(*category), nil
}

func (s *masterService) DeleteRentalCategory(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	return s.rentalCategoryRepo.Delete(ctx, uid)
}

func (s *masterService) GetRentalCategories(ctx context.Context, page, limit int) ([]RentalCategoryResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	categories, total, err := s.rentalCategoryRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch rental categories: %w", err)
	}
	res := make([]RentalCategoryResponse, 0, len(categories))
	for _, c := range categories {
		res = append(res, toRentalCategoryResponse(c))
	}
	return res, total, nil
}

// --- Manpower ---

func (s *masterService) CreateManpower(ctx context.Context, req ManpowerPayload) (ManpowerResponse, error) {
	if req.Category == "" {
		return ManpowerResponse{}, &ValidationError{Field: "category", Message: "is required"}
	}
	if req.Headcount < 0 {
		return ManpowerResponse{}, &ValidationError{Field: "headcount", Message: "must not be negative"}
	}

	entry := &model.Manpower{
		Category:  req.Category,
		Headcount: req.Headcount,
		DailyWage: decimal.Zero,
	}

	if req.SiteID != "" {
		siteID, err := uuid.Parse(req.SiteID)
		if err != nil {
			return ManpowerResponse{}, &ValidationError{Field: "site_id", Message: "invalid uuid"}
		}
		if _, err := s.siteRepo.FindByID(ctx, siteID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ManpowerResponse{}, &ValidationError{Field: "site_id", Message: "site not found"}
			}
			return ManpowerResponse{}, fmt.Errorf("failed to fetch site: %w", err)
		}
		entry.SiteID = &siteID
	}

	if req.DailyWage != "" {
		wage, err := parseNonNegativeDecimal("daily_wage", req.DailyWage)
		if err != nil {
			return ManpowerResponse{}, err
		}
		entry.DailyWage = wage
	}

	if err := s.manpowerRepo.Create(ctx, entry); err != nil {
		return ManpowerResponse{}, fmt.Errorf("failed to create manpower entry: %w", err)
	}
	return toManpowerResponse(*entry), nil
}

func (s *masterService) UpdateManpower(ctx context.Context, id string, req ManpowerPayload) (ManpowerResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ManpowerResponse{}, &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	entry, err := s.manpowerRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ManpowerResponse{}, ErrNotFound
		}
		return ManpowerResponse{}, fmt.Errorf("failed to fetch manpower entry: %w", err)
	}

	if req.Category == "" {
		return ManpowerResponse{}, &ValidationError{Field: "category", Message: "is required"}
	}
	if req.Headcount < 0 {
		return ManpowerResponse{}, &ValidationError{Field: "headcount", Message: "must not be negative"}
	}
	entry.Category = req.Category
	entry.Headcount = req.Headcount
	if req.DailyWage != "" {
		wage, wageErr := parseNonNegativeDecimal("daily_wage", req.DailyWage)
		if wageErr != nil {
			return ManpowerResponse{}, wageErr
		}
		entry.DailyWage = wage
	}

	if err := s.manpowerRepo.Update(ctx, entry); err != nil {
		return ManpowerResponse{}, fmt.Errorf("failed to update manpower entry: %w", err)
	}
	return toManpowerResponse(*entry), nil
}

func (s *masterService) DeleteManpower(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	return s.manpowerRepo.Delete(ctx, uid)
}

func (s *masterService) GetManpower(ctx context.Context, siteID string, page, limit int) ([]ManpowerResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	entries, total, err := s.manpowerRepo.List(ctx, siteID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch manpower entries: %w", err)
	}
	res := make([]ManpowerResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, toManpowerResponse(e))
	}
	return res, total, nil
}

// --- Response mappers ---

func toPaymentTermResponse(t model.PaymentTerm) PaymentTermResponse {
	return PaymentTermResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreditDays:  t.CreditDays,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toRentalCategoryResponse(c model.RentalCategory) RentalCategoryResponse {
	return RentalCategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		DailyRate:   c.DailyRate.StringFixed(2),
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toManpowerResponse(m model.Manpower) ManpowerResponse {
	resp := ManpowerResponse{
		ID:        m.ID,
		Category:  m.Category,
		Headcount: m.Headcount,
		DailyWage: m.DailyWage.StringFixed(2),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.SiteID != nil {
		s := m.SiteID.String()
		resp.SiteID = &s
	}
	if m.Site != nil {
		resp.SiteName = m.Site.Name
	}
	return resp
}
