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

type ChallanLineRequest struct {
	PoLineID    string `json:"po_line_id" binding:"required"`
	ReceivedQty string `json:"received_qty" binding:"required"`
	Remark      string `json:"remark"`
}

type CreateChallanRequest struct {
	ChallanNumber   string               `json:"challan_number" binding:"required"`
	ChallanDate     string               `json:"challan_date" binding:"required"`
	PurchaseOrderID string               `json:"purchase_order_id" binding:"required"`
	VehicleNumber   string               `json:"vehicle_number"`
	DocumentURL     string               `json:"document_url"`
	Note            string               `json:"note"`
	Lines           []ChallanLineRequest `json:"lines" binding:"required,min=1,dive"`
}

type ChallanLineResponse struct {
	ID          uuid.UUID `json:"id"`
	PoLineID    uuid.UUID `json:"po_line_id"`
	ReceivedQty string    `json:"received_qty"`
	Remark      string    `json:"remark"`
}

type ChallanResponse struct {
	ID              uuid.UUID             `json:"id"`
	ChallanNumber   string                `json:"challan_number"`
	ChallanDate     string                `json:"challan_date"`
	PurchaseOrderID uuid.UUID             `json:"purchase_order_id"`
	VehicleNumber   string                `json:"vehicle_number"`
	DocumentURL     string                `json:"document_url"`
	Note            string                `json:"note"`
	Lines           []ChallanLineResponse `json:"lines"`
	CreatedAt       time.Time             `json:"created_at"`
}

// --- Interface ---

type ChallanService interface {
	CreateChallan(ctx context.Context, userID string, req CreateChallanRequest) (ChallanResponse, error)
	GetChallan(ctx context.Context, id string) (ChallanResponse, error)
	GetChallans(ctx context.Context, purchaseOrderID string, page, limit int) ([]ChallanResponse, int64, error)
	DeleteChallan(ctx context.Context, id string) error
}

type challanService struct {
	challanRepo repository.ChallanRepository
	poRepo      repository.PurchaseOrderRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewChallanService(
	challanRepo repository.ChallanRepository,
	poRepo repository.PurchaseOrderRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ChallanService {
	return &challanService{
		challanRepo: challanRepo,
		poRepo:      poRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// --- Implementation ---

func (s *challanService) CreateChallan(ctx context.Context, userID string, req CreateChallanRequest) (ChallanResponse, error) {
	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return ChallanResponse{}, &ValidationError{Field: "user_id", Message: "invalid uuid"}
	}
	poID, err := uuid.Parse(req.PurchaseOrderID)
	if err != nil {
		return ChallanResponse{}, &ValidationError{Field: "purchase_order_id", Message: "invalid uuid"}
	}
	challanDate, err := parseDate("challan_date", req.ChallanDate)
	if err != nil {
		return ChallanResponse{}, err
	}
	if req.ChallanNumber == "" {
		return ChallanResponse{}, &ValidationError{Field: "challan_number", Message: "is required"}
	}

	po, err := s.poRepo.FindByIDWithLines(ctx, poID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ChallanResponse{}, &ValidationError{Field: "purchase_order_id", Message: "purchase order not found"}
		}
		return ChallanResponse{}, fmt.Errorf("failed to fetch purchase order: %w", err)
	}

	// Goods are only received against fully approved, unsuspended orders
	if po.ApprovalStatus != model.POApprovalLevel2 && po.ApprovalStatus != model.POApprovalCompleted {
		return ChallanResponse{}, &InvalidStateError{State: po.ApprovalStatus, Reason: "order is not fully approved"}
	}
	if po.IsSuspended {
		return ChallanResponse{}, &InvalidStateError{State: po.ApprovalStatus, Reason: "order is suspended"}
	}

	poLines := make(map[uuid.UUID]bool, len(po.Lines))
	for _, line := range po.Lines {
		poLines[line.ID] = true
	}

	lines := make([]model.InwardChallanLine, 0, len(req.Lines))
	for i, lineReq := range req.Lines {
		field := fmt.Sprintf("lines[%d]", i)

		poLineID, parseErr := uuid.Parse(lineReq.PoLineID)
		if parseErr != nil {
			return ChallanResponse{}, &ValidationError{Field: field + ".po_line_id", Message: "invalid uuid"}
		}
		if !poLines[poLineID] {
			return ChallanResponse{}, &ValidationError{Field: field + ".po_line_id", Message: "line does not belong to this order"}
		}

		receivedQty, qtyErr := parsePositiveDecimal(field+".received_qty", lineReq.ReceivedQty)
		if qtyErr != nil {
			return ChallanResponse{}, qtyErr
		}

		lines = append(lines, model.InwardChallanLine{
			PoLineID:    poLineID,
			ReceivedQty: receivedQty,
			Remark:      lineReq.Remark,
		})
	}

	challan := &model.InwardChallan{
		ChallanNumber:   req.ChallanNumber,
		ChallanDate:     challanDate,
		PurchaseOrderID: poID,
		VehicleNumber:   req.VehicleNumber,
		DocumentURL:     req.DocumentURL,
		Note:            req.Note,
		Lines:           lines,
		CreatedBy:       &creatorID,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.challanRepo.Create(txCtx, challan); createErr != nil {
			return fmt.Errorf("failed to create challan: %w", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"challan_number": challan.ChallanNumber,
			"order_number":   po.OrderNumber,
			"line_count":     len(challan.Lines),
		})
		audit := &model.AuditLog{
			UserID:     &creatorID,
			Action:     model.ActionCreateChallan,
			EntityID:   challan.ID.String(),
			EntityName: challan.ChallanNumber,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return ChallanResponse{}, err
	}

	return toChallanResponse(challan), nil
}

func (s *challanService) GetChallan(ctx context.Context, id string) (ChallanResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ChallanResponse{}, &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	challan, err := s.challanRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ChallanResponse{}, ErrNotFound
		}
		return ChallanResponse{}, fmt.Errorf("failed to fetch challan: %w", err)
	}
	return toChallanResponse(challan), nil
}

func (s *challanService) GetChallans(ctx context.Context, purchaseOrderID string, page, limit int) ([]ChallanResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	challans, total, err := s.challanRepo.List(ctx, purchaseOrderID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch challans: %w", err)
	}
	res := make([]ChallanResponse, 0, len(challans))
	for i := range challans {
		res = append(res, toChallanResponse(&challans[i]))
	}
	return res, total, nil
}

func (s *challanService) DeleteChallan(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	return s.challanRepo.Delete(ctx, uid)
}

func toChallanResponse(c *model.InwardChallan) ChallanResponse {
	resp := ChallanResponse{
		ID:              c.ID,
		ChallanNumber:   c.ChallanNumber,
		ChallanDate:     c.ChallanDate.Format("2006-01-02"),
		PurchaseOrderID: c.PurchaseOrderID,
		VehicleNumber:   c.VehicleNumber,
		DocumentURL:     c.DocumentURL,
		Note:            c.Note,
		CreatedAt:       c.CreatedAt,
	}
	resp.Lines = make([]ChallanLineResponse, 0, len(c.Lines))
	for _, line := range c.Lines {
		resp.Lines = append(resp.Lines, ChallanLineResponse{
			ID:          line.ID,
			PoLineID:    line.PoLineID,
			ReceivedQty: line.ReceivedQty.String(),
			Remark:      line.Remark,
		})
	}
	return resp
}
