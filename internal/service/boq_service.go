package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type BOQLineRequest struct {
	ItemID     string `json:"item_id" binding:"required"`
	TargetQty  string `json:"target_qty" binding:"required"`
	MonthlyQty string `json:"monthly_qty"`
	MaxRate    string `json:"max_rate"`
	MaxValue   string `json:"max_value"`
}

type CreateBOQRequest struct {
	SiteID string           `json:"site_id" binding:"required"`
	Name   string           `json:"name" binding:"required"`
	Note   string           `json:"note"`
	Lines  []BOQLineRequest `json:"lines" binding:"required,min=1,dive"`
}

type UpdateBOQRequest struct {
	Name  string           `json:"name" binding:"required"`
	Note  string           `json:"note"`
	Lines []BOQLineRequest `json:"lines" binding:"required,min=1,dive"`
}

type BOQLineResponse struct {
	ID         uuid.UUID `json:"id"`
	ItemID     uuid.UUID `json:"item_id"`
	ItemName   string    `json:"item_name,omitempty"`
	ItemUnit   string    `json:"item_unit,omitempty"`
	TargetQty  string    `json:"target_qty"`
	MonthlyQty string    `json:"monthly_qty"`
	MaxRate    string    `json:"max_rate"`
	MaxValue   string    `json:"max_value"`
}

type BOQResponse struct {
	ID        uuid.UUID         `json:"id"`
	BoqNumber string            `json:"boq_number"`
	SiteID    uuid.UUID         `json:"site_id"`
	SiteName  string            `json:"site_name,omitempty"`
	Name      string            `json:"name"`
	Note      string            `json:"note"`
	Lines     []BOQLineResponse `json:"lines"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// --- Interface ---

type BOQService interface {
	CreateBOQ(ctx context.Context, userID string, req CreateBOQRequest) (BOQResponse, error)
	UpdateBOQ(ctx context.Context, userID, id string, req UpdateBOQRequest) (BOQResponse, error)
	DeleteBOQ(ctx context.Context, id string) error
	GetBOQ(ctx context.Context, id string) (BOQResponse, error)
	GetBOQs(ctx context.Context, siteID string, page, limit int) ([]BOQResponse, int64, error)
}

type boqService struct {
	boqRepo   repository.BOQRepository
	siteRepo  repository.SiteRepository
	itemRepo  repository.ItemRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewBOQService(
	boqRepo repository.BOQRepository,
	siteRepo repository.SiteRepository,
	itemRepo repository.ItemRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) BOQService {
	return &boqService{
		boqRepo:   boqRepo,
		siteRepo:  siteRepo,
		itemRepo:  itemRepo,
		auditRepo: auditRepo,
		txManager: txManager,
	}
}

// --- Implementation ---

func (s *boqService) CreateBOQ(ctx context.Context, userID string, req CreateBOQRequest) (BOQResponse, error) {
	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return BOQResponse{}, &ValidationError{Field: "user_id", Message: "invalid uuid"}
	}
	siteID, err := uuid.Parse(req.SiteID)
	if err != nil {
		return BOQResponse{}, &ValidationError{Field: "site_id", Message: "invalid uuid"}
	}
	if req.Name == "" {
		return BOQResponse{}, &ValidationError{Field: "name", Message: "is required"}
	}

	if _, err := s.siteRepo.FindByID(ctx, siteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BOQResponse{}, &ValidationError{Field: "site_id", Message: "site not found"}
		}
		return BOQResponse{}, fmt.Errorf("failed to fetch site: %w", err)
	}

	lines, err := s.buildLines(ctx, req.Lines)
	if err != nil {
		return BOQResponse{}, err
	}

	boq := &model.BOQ{
		SiteID:    siteID,
		Name:      req.Name,
		Note:      req.Note,
		Lines:     lines,
		CreatedBy: &creatorID,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, numErr := s.generateBoqNumber(txCtx)
		if numErr != nil {
			return fmt.Errorf("failed to generate boq number: %w", numErr)
		}
		boq.BoqNumber = number

		if createErr := s.boqRepo.Create(txCtx, boq); createErr != nil {
			return fmt.Errorf("failed to create boq: %w", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"boq_number": boq.BoqNumber,
			"site_id":    boq.SiteID.String(),
			"line_count": len(boq.Lines),
		})
		audit := &model.AuditLog{
			UserID:     &creatorID,
			Action:     model.ActionCreateBOQ,
			EntityID:   boq.ID.String(),
			EntityName: boq.BoqNumber,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return BOQResponse{}, err
	}

	return s.GetBOQ(ctx, boq.ID.String())
}

func (s *boqService) UpdateBOQ(ctx context.Context, userID, id string, req UpdateBOQRequest) (BOQResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return BOQResponse{}, &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	actorID, err := uuid.Parse(userID)
	if err != nil {
		return BOQResponse{}, &ValidationError{Field: "user_id", Message: "invalid uuid"}
	}
	if req.Name == "" {
		return BOQResponse{}, &ValidationError{Field: "name", Message: "is required"}
	}

	lines, err := s.buildLines(ctx, req.Lines)
	if err != nil {
		return BOQResponse{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		boq, findErr := s.boqRepo.FindByID(txCtx, uid)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch boq: %w", findErr)
		}

		boq.Name = req.Name
		boq.Note = req.Note

		if updateErr := s.boqRepo.Update(txCtx, boq); updateErr != nil {
			return fmt.Errorf("failed to update boq: %w", updateErr)
		}
		if lineErr := s.boqRepo.ReplaceLines(txCtx, boq.ID, lines); lineErr != nil {
			return fmt.Errorf("failed to replace boq lines: %w", lineErr)
		}

		audit := &model.AuditLog{
			UserID:     &actorID,
			Action:     model.ActionUpdateBOQ,
			EntityID:   boq.ID.String(),
			EntityName: boq.BoqNumber,
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return BOQResponse{}, err
	}

	return s.GetBOQ(ctx, id)
}

func (s *boqService) DeleteBOQ(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	return s.boqRepo.Delete(ctx, uid)
}

func (s *boqService) GetBOQ(ctx context.Context, id string) (BOQResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return BOQResponse{}, &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	boq, err := s.boqRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BOQResponse{}, ErrNotFound
		}
		return BOQResponse{}, fmt.Errorf("failed to fetch boq: %w", err)
	}
	return toBOQResponse(boq), nil
}

func (s *boqService) GetBOQs(ctx context.Context, siteID string, page, limit int) ([]BOQResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	boqs, total, err := s.boqRepo.List(ctx, siteID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch boqs: %w", err)
	}
	res := make([]BOQResponse, 0, len(boqs))
	for i := range boqs {
		res = append(res, toBOQResponse(&boqs[i]))
	}
	return res, total, nil
}

// --- Internals ---

func (s *boqService) buildLines(ctx context.Context, reqs []BOQLineRequest) ([]model.BOQLine, error) {
	if len(reqs) == 0 {
		return nil, &ValidationError{Field: "lines", Message: "at least one line is required"}
	}

	itemIDs := make([]uuid.UUID, 0, len(reqs))
	lines := make([]model.BOQLine, 0, len(reqs))
	for i, req := range reqs {
		field := fmt.Sprintf("lines[%d]", i)

		itemID, err := uuid.Parse(req.ItemID)
		if err != nil {
			return nil, &ValidationError{Field: field + ".item_id", Message: "invalid uuid"}
		}
		itemIDs = append(itemIDs, itemID)

		targetQty, err := parsePositiveDecimal(field+".target_qty", req.TargetQty)
		if err != nil {
			return nil, err
		}

		line := model.BOQLine{ItemID: itemID, TargetQty: targetQty}

		if req.MonthlyQty != "" {
			qty, qtyErr := parseNonNegativeDecimal(field+".monthly_qty", req.MonthlyQty)
			if qtyErr != nil {
				return nil, qtyErr
			}
			line.MonthlyQty = qty
		}
		if req.MaxRate != "" {
			rate, rateErr := parseNonNegativeDecimal(field+".max_rate", req.MaxRate)
			if rateErr != nil {
				return nil, rateErr
			}
			line.MaxRate = rate
		}
		if req.MaxValue != "" {
			value, valueErr := parseNonNegativeDecimal(field+".max_value", req.MaxValue)
			if valueErr != nil {
				return nil, valueErr
			}
			line.MaxValue = value
		}

		lines = append(lines, line)
	}

	items, err := s.itemRepo.FindByIDs(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items: %w", err)
	}
	known := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		known[item.ID] = true
	}
	for i, line := range lines {
		if !known[line.ItemID] {
			return nil, &ValidationError{Field: fmt.Sprintf("lines[%d].item_id", i), Message: "item not found"}
		}
	}

	return lines, nil
}

func (s *boqService) generateBoqNumber(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "BOQ-" + today + "-"

	count, err := s.boqRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

func toBOQResponse(b *model.BOQ) BOQResponse {
	resp := BOQResponse{
		ID:        b.ID,
		BoqNumber: b.BoqNumber,
		SiteID:    b.SiteID,
		Name:      b.Name,
		Note:      b.Note,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.Site != nil {
		resp.SiteName = b.Site.Name
	}
	resp.Lines = make([]BOQLineResponse, 0, len(b.Lines))
	for _, line := range b.Lines {
		lr := BOQLineResponse{
			ID:         line.ID,
			ItemID:     line.ItemID,
			TargetQty:  line.TargetQty.String(),
			MonthlyQty: line.MonthlyQty.String(),
			MaxRate:    line.MaxRate.String(),
			MaxValue:   line.MaxValue.StringFixed(2),
		}
		if line.Item != nil {
			lr.ItemName = line.Item.Name
			lr.ItemUnit = line.Item.Unit
		}
		resp.Lines = append(resp.Lines, lr)
	}
	return resp
}
