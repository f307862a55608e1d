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

type IndentLineRequest struct {
	ItemID      string `json:"item_id" binding:"required"`
	ApprovedQty string `json:"approved_qty" binding:"required"`
	MaxRate     string `json:"max_rate"`
	MaxValue    string `json:"max_value"`
}

type CreateIndentRequest struct {
	SiteID string              `json:"site_id" binding:"required"`
	Note   string              `json:"note"`
	Lines  []IndentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

type IndentLineResponse struct {
	ID          uuid.UUID `json:"id"`
	ItemID      uuid.UUID `json:"item_id"`
	ItemName    string    `json:"item_name,omitempty"`
	ItemUnit    string    `json:"item_unit,omitempty"`
	ApprovedQty string    `json:"approved_qty"`
	MaxRate     string    `json:"max_rate"`
	MaxValue    string    `json:"max_value"`
}

type IndentResponse struct {
	ID           uuid.UUID            `json:"id"`
	IndentNumber string               `json:"indent_number"`
	SiteID       uuid.UUID            `json:"site_id"`
	SiteName     string               `json:"site_name,omitempty"`
	Status       string               `json:"status"`
	Note         string               `json:"note"`
	Lines        []IndentLineResponse `json:"lines"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// --- Interface ---

type IndentService interface {
	CreateIndent(ctx context.Context, userID string, req CreateIndentRequest) (IndentResponse, error)
	CloseIndent(ctx context.Context, id string) (IndentResponse, error)
	GetIndent(ctx context.Context, id string) (IndentResponse, error)
	GetIndents(ctx context.Context, siteID, status string, page, limit int) ([]IndentResponse, int64, error)
}

type indentService struct {
	indentRepo repository.IndentRepository
	siteRepo   repository.SiteRepository
	itemRepo   repository.ItemRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
}

func NewIndentService(
	indentRepo repository.IndentRepository,
	siteRepo repository.SiteRepository,
	itemRepo repository.ItemRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) IndentService {
	return &indentService{
		indentRepo: indentRepo,
		siteRepo:   siteRepo,
		itemRepo:   itemRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
	}
}

// --- Implementation ---

func (s *indentService) CreateIndent(ctx context.Context, userID string, req CreateIndentRequest) (IndentResponse, error) {
	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return IndentResponse{}, &ValidationError{Field: "user_id", Message: "invalid uuid"}
	}
	siteID, err := uuid.Parse(req.SiteID)
	if err != nil {
		return IndentResponse{}, &ValidationError{Field: "site_id", Message: "invalid uuid"}
	}

	if _, err := s.siteRepo.FindByID(ctx, siteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return IndentResponse{}, &ValidationError{Field: "site_id", Message: "site not found"}
		}
		return IndentResponse{}, fmt.Errorf("failed to fetch site: %w", err)
	}

	lines, err := s.buildLines(ctx, req.Lines)
	if err != nil {
		return IndentResponse{}, err
	}

	indent := &model.Indent{
		SiteID:    siteID,
		Status:    model.IndentStatusOpen,
		Note:      req.Note,
		Lines:     lines,
		CreatedBy: &creatorID,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, numErr := s.generateIndentNumber(txCtx)
		if numErr != nil {
			return fmt.Errorf("failed to generate indent number: %w", numErr)
		}
		indent.IndentNumber = number

		if createErr := s.indentRepo.Create(txCtx, indent); createErr != nil {
			return fmt.Errorf("failed to create indent: %w", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"indent_number": indent.IndentNumber,
			"site_id":       indent.SiteID.String(),
			"line_count":    len(indent.Lines),
		})
		audit := &model.AuditLog{
			UserID:     &creatorID,
			Action:     model.ActionCreateIndent,
			EntityID:   indent.ID.String(),
			EntityName: indent.IndentNumber,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return IndentResponse{}, err
	}

	return s.GetIndent(ctx, indent.ID.String())
}

func (s *indentService) CloseIndent(ctx context.Context, id string) (IndentResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return IndentResponse{}, &ValidationError{Field: "id", Message: "invalid uuid"}
	}

	indent, err := s.indentRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return IndentResponse{}, ErrNotFound
		}
		return IndentResponse{}, fmt.Errorf("failed to fetch indent: %w", err)
	}

	if indent.Status == model.IndentStatusClosed {
		return IndentResponse{}, &InvalidStateError{State: indent.Status, Reason: "indent is already closed"}
	}

	indent.Status = model.IndentStatusClosed
	if err := s.indentRepo.Update(ctx, indent); err != nil {
		return IndentResponse{}, fmt.Errorf("failed to close indent: %w", err)
	}

	return toIndentResponse(indent), nil
}

func (s *indentService) GetIndent(ctx context.Context, id string) (IndentResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return IndentResponse{}, &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	indent, err := s.indentRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return IndentResponse{}, ErrNotFound
		}
		return IndentResponse{}, fmt.Errorf("failed to fetch indent: %w", err)
	}
	return toIndentResponse(indent), nil
}

func (s *indentService) GetIndents(ctx context.Context, siteID, status string, page, limit int) ([]IndentResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	indents, total, err := s.indentRepo.List(ctx, siteID, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch indents: %w", err)
	}
	res := make([]IndentResponse, 0, len(indents))
	for i := range indents {
		res = append(res, toIndentResponse(&indents[i]))
	}
	return res, total, nil
}

// --- Internals ---

func (s *indentService) buildLines(ctx context.Context, reqs []IndentLineRequest) ([]model.IndentLine, error) {
	if len(reqs) == 0 {
		return nil, &ValidationError{Field: "lines", Message: "at least one line is required"}
	}

	itemIDs := make([]uuid.UUID, 0, len(reqs))
	lines := make([]model.IndentLine, 0, len(reqs))
	for i, req := range reqs {
		field := fmt.Sprintf("lines[%d]", i)

		itemID, err := uuid.Parse(req.ItemID)
		if err != nil {
			return nil, &ValidationError{Field: field + ".item_id", Message: "invalid uuid"}
		}
		itemIDs = append(itemIDs, itemID)

		approvedQty, err := parsePositiveDecimal(field+".approved_qty", req.ApprovedQty)
		if err != nil {
			return nil, err
		}

		line := model.IndentLine{ItemID: itemID, ApprovedQty: approvedQty}

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

func (s *indentService) generateIndentNumber(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "IND-" + today + "-"

	count, err := s.indentRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

func toIndentResponse(in *model.Indent) IndentResponse {
	resp := IndentResponse{
		ID:           in.ID,
		IndentNumber: in.IndentNumber,
		SiteID:       in.SiteID,
		Status:       in.Status,
		Note:         in.Note,
		CreatedAt:    in.CreatedAt,
		UpdatedAt:    in.UpdatedAt,
	}
	if in.Site != nil {
		resp.SiteName = in.Site.Name
	}
	resp.Lines = make([]IndentLineResponse, 0, len(in.Lines))
	for _, line := range in.Lines {
		lr := IndentLineResponse{
			ID:          line.ID,
			ItemID:      line.ItemID,
			ApprovedQty: line.ApprovedQty.String(),
			MaxRate:     line.MaxRate.String(),
			MaxValue:    line.MaxValue.StringFixed(2),
		}
		if line.Item != nil {
			lr.ItemName = line.Item.Name
			lr.ItemUnit = line.Item.Unit
		}
		resp.Lines = append(resp.Lines, lr)
	}
	return resp
}
