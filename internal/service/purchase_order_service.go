package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

// ChargeRequest carries one supplementary charge. An empty status defaults
// to NOT_APPLICABLE; the amount is ignored unless the status is EXCLUSIVE
// or INCLUSIVE.
type ChargeRequest struct {
	Status string `json:"status" binding:"omitempty,oneof=EXCLUSIVE INCLUSIVE NOT_APPLICABLE"`
	Amount string `json:"amount"`
}

type POLineRequest struct {
	ItemID          string `json:"item_id" binding:"required"`
	Quantity        string `json:"quantity" binding:"required"`
	Rate            string `json:"rate" binding:"required"`
	DiscountPercent string `json:"discount_percent"`
	CgstPercent     string `json:"cgst_percent"`
	SgstPercent     string `json:"sgst_percent"`
	IgstPercent     string `json:"igst_percent"`
	Remark          string `json:"remark"`
	IndentLineID    string `json:"indent_line_id"`
	BoqLineID       string `json:"boq_line_id"`
}

type CreatePurchaseOrderRequest struct {
	OrderDate         string          `json:"order_date" binding:"required"`
	DeliveryDate      string          `json:"delivery_date" binding:"required"`
	SiteID            string          `json:"site_id" binding:"required"`
	VendorID          string          `json:"vendor_id" binding:"required"`
	BillingAddressID  string          `json:"billing_address_id" binding:"required"`
	DeliveryAddressID string          `json:"delivery_address_id" binding:"required"`
	PaymentTermID     string          `json:"payment_term_id"`
	QuotationNumber   string          `json:"quotation_number" binding:"required"`
	QuotationDate     string          `json:"quotation_date" binding:"required"`
	Transport         string          `json:"transport"`
	DeliverySchedule  string          `json:"delivery_schedule"`
	Note              string          `json:"note"`
	Terms             string          `json:"terms"`
	TransitInsurance  ChargeRequest   `json:"transit_insurance"`
	TransportCharge   ChargeRequest   `json:"transport_charge"`
	GstReverse        ChargeRequest   `json:"gst_reverse"`
	Lines             []POLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdatePurchaseOrderRequest rewrites header fields and the full line set.
// Only DRAFT, non-suspended orders accept it; the order number never changes.
type UpdatePurchaseOrderRequest struct {
	OrderDate         string          `json:"order_date" binding:"required"`
	DeliveryDate      string          `json:"delivery_date" binding:"required"`
	VendorID          string          `json:"vendor_id" binding:"required"`
	BillingAddressID  string          `json:"billing_address_id" binding:"required"`
	DeliveryAddressID string          `json:"delivery_address_id" binding:"required"`
	PaymentTermID     string          `json:"payment_term_id"`
	QuotationNumber   string          `json:"quotation_number" binding:"required"`
	QuotationDate     string          `json:"quotation_date" binding:"required"`
	Transport         string          `json:"transport"`
	DeliverySchedule  string          `json:"delivery_schedule"`
	Note              string          `json:"note"`
	Terms             string          `json:"terms"`
	TransitInsurance  ChargeRequest   `json:"transit_insurance"`
	TransportCharge   ChargeRequest   `json:"transport_charge"`
	GstReverse        ChargeRequest   `json:"gst_reverse"`
	Lines             []POLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// TransitionLineRequest overrides the approved quantity of one line during
// an approve1/approve2 action. Omitted lines keep the previous stage's
// quantity.
type TransitionLineRequest struct {
	LineID      string `json:"line_id" binding:"required"`
	ApprovedQty string `json:"approved_qty" binding:"required"`
}

type TransitionRequest struct {
	Action string                  `json:"status_action" binding:"required,oneof=approve1 approve2 complete suspend unsuspend"`
	Lines  []TransitionLineRequest `json:"lines"`
}

// OperationalUpdateRequest changes the operational status fields, which move
// independently of the approval lifecycle.
type OperationalUpdateRequest struct {
	PoStatus   *string `json:"po_status"`
	BillStatus *string `json:"bill_status"`
	Remarks    *string `json:"remarks"`
}

type PurchaseOrderFilter struct {
	ApprovalStatus string
	PoStatus       string
	SiteID         string
	VendorID       string
	Suspended      *bool
	OrderNumber    string
	Page           int
	Limit          int
}

type POLineResponse struct {
	ID              string  `json:"id"`
	ItemID          string  `json:"item_id"`
	ItemName        string  `json:"item_name,omitempty"`
	ItemUnit        string  `json:"item_unit,omitempty"`
	Remark          string  `json:"remark"`
	Quantity        string  `json:"quantity"`
	OrderedQty      string  `json:"ordered_qty"`
	ApprovedQty1    *string `json:"approved_qty1"`
	ApprovedQty2    *string `json:"approved_qty2"`
	Rate            string  `json:"rate"`
	DiscountPercent string  `json:"discount_percent"`
	DisAmount       string  `json:"dis_amount"`
	CgstPercent     string  `json:"cgst_percent"`
	CgstAmount      string  `json:"cgst_amount"`
	SgstPercent     string  `json:"sgst_percent"`
	SgstAmount      string  `json:"sgst_amount"`
	IgstPercent     string  `json:"igst_percent"`
	IgstAmount      string  `json:"igst_amount"`
	Amount          string  `json:"amount"`
	IndentLineID    *string `json:"indent_line_id"`
	BoqLineID       *string `json:"boq_line_id"`
}

type ChargeResponse struct {
	Status string `json:"status"`
	Amount string `json:"amount"`
}

type PurchaseOrderResponse struct {
	ID                string           `json:"id"`
	OrderNumber       string           `json:"order_number"`
	OrderDate         string           `json:"order_date"`
	DeliveryDate      string           `json:"delivery_date"`
	SiteID            string           `json:"site_id"`
	SiteName          string           `json:"site_name,omitempty"`
	VendorID          string           `json:"vendor_id"`
	VendorName        string           `json:"vendor_name,omitempty"`
	BillingAddressID  string           `json:"billing_address_id"`
	BillingAddress    string           `json:"billing_address,omitempty"`
	DeliveryAddressID string           `json:"delivery_address_id"`
	DeliveryAddress   string           `json:"delivery_address,omitempty"`
	PaymentTermID     *string          `json:"payment_term_id"`
	PaymentTermName   string           `json:"payment_term_name,omitempty"`
	QuotationNumber   string           `json:"quotation_number"`
	QuotationDate     string           `json:"quotation_date"`
	Transport         string           `json:"transport"`
	DeliverySchedule  string           `json:"delivery_schedule"`
	Note              string           `json:"note"`
	Terms             string           `json:"terms"`
	ApprovalStatus    string           `json:"approval_status"`
	IsSuspended       bool             `json:"is_suspended"`
	IsComplete        bool             `json:"is_complete"`
	PoStatus          string           `json:"po_status"`
	BillStatus        string           `json:"bill_status"`
	Remarks           string           `json:"remarks"`
	TransitInsurance  ChargeResponse   `json:"transit_insurance"`
	TransportCharge   ChargeResponse   `json:"transport_charge"`
	GstReverse        ChargeResponse   `json:"gst_reverse"`
	TotalAmount       string           `json:"total_amount"`
	TotalCgst         string           `json:"total_cgst"`
	TotalSgst         string           `json:"total_sgst"`
	TotalIgst         string           `json:"total_igst"`
	TotalDiscount     string           `json:"total_discount"`
	CreatedBy         *string          `json:"created_by"`
	CreatorName       string           `json:"creator_name,omitempty"`
	Approved1By       *string          `json:"approved1_by"`
	Approved1At       *string          `json:"approved1_at"`
	Approved2By       *string          `json:"approved2_by"`
	Approved2At       *string          `json:"approved2_at"`
	SuspendedBy       *string          `json:"suspended_by"`
	SuspendedAt       *string          `json:"suspended_at"`
	CompletedBy       *string          `json:"completed_by"`
	CompletedAt       *string          `json:"completed_at"`
	Lines             []POLineResponse `json:"lines"`
	CreatedAt         string           `json:"created_at"`
	UpdatedAt         string           `json:"updated_at"`
}

// Websocket payload
type PurchaseOrderEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// --- Interface ---

type PurchaseOrderService interface {
	CreatePurchaseOrder(ctx context.Context, userID string, req CreatePurchaseOrderRequest) (PurchaseOrderResponse, error)
	GetPurchaseOrder(ctx context.Context, id string) (PurchaseOrderResponse, error)
	ListPurchaseOrders(ctx context.Context, filter PurchaseOrderFilter) ([]PurchaseOrderResponse, int64, error)
	UpdatePurchaseOrder(ctx context.Context, userID, id string, req UpdatePurchaseOrderRequest) (PurchaseOrderResponse, error)
	TransitionPurchaseOrder(ctx context.Context, userID, id string, req TransitionRequest) (PurchaseOrderResponse, error)
	UpdateOperationalStatus(ctx context.Context, userID, id string, req OperationalUpdateRequest) (PurchaseOrderResponse, error)
	DeletePurchaseOrder(ctx context.Context, userID, id string) error
}

type purchaseOrderService struct {
	poRepo          repository.PurchaseOrderRepository
	siteRepo        repository.SiteRepository
	vendorRepo      repository.VendorRepository
	itemRepo        repository.ItemRepository
	paymentTermRepo repository.PaymentTermRepository
	indentRepo      repository.IndentRepository
	boqRepo         repository.BOQRepository
	auditRepo       repository.AuditRepository
	txManager       repository.TransactionManager
	hub             *ws.Hub
	ceiling         CeilingStrategy
}

func NewPurchaseOrderService(
	poRepo repository.PurchaseOrderRepository,
	siteRepo repository.SiteRepository,
	vendorRepo repository.VendorRepository,
	itemRepo repository.ItemRepository,
	paymentTermRepo repository.PaymentTermRepository,
	indentRepo repository.IndentRepository,
	boqRepo repository.BOQRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) PurchaseOrderService {
	return &purchaseOrderService{
		poRepo:          poRepo,
		siteRepo:        siteRepo,
		vendorRepo:      vendorRepo,
		itemRepo:        itemRepo,
		paymentTermRepo: paymentTermRepo,
		indentRepo:      indentRepo,
		boqRepo:         boqRepo,
		auditRepo:       auditRepo,
		txManager:       txManager,
		hub:             hub,
		ceiling:         MonthlyQuotaCeiling,
	}
}

// --- Create ---

func (s *purchaseOrderService) CreatePurchaseOrder(ctx context.Context, userID string, req CreatePurchaseOrderRequest) (PurchaseOrderResponse, error) {
	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return PurchaseOrderResponse{}, &ValidationError{Field: "user_id", Message: "invalid uuid"}
	}

	header, err := s.buildHeader(headerInput{
		OrderDate:         req.OrderDate,
		DeliveryDate:      req.DeliveryDate,
		VendorID:          req.VendorID,
		BillingAddressID:  req.BillingAddressID,
		DeliveryAddressID: req.DeliveryAddressID,
		PaymentTermID:     req.PaymentTermID,
		QuotationNumber:   req.QuotationNumber,
		QuotationDate:     req.QuotationDate,
		Transport:         req.Transport,
		DeliverySchedule:  req.DeliverySchedule,
		Note:              req.Note,
		Terms:             req.Terms,
		TransitInsurance:  req.TransitInsurance,
		TransportCharge:   req.TransportCharge,
		GstReverse:        req.GstReverse,
	})
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	siteID, err := uuid.Parse(req.SiteID)
	if err != nil {
		return PurchaseOrderResponse{}, &ValidationError{Field: "site_id", Message: "invalid uuid"}
	}
	header.SiteID = siteID

	lines, err := s.buildLines(req.Lines)
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	if err := s.checkMasters(ctx, header, lines); err != nil {
		return PurchaseOrderResponse{}, err
	}

	po := header
	po.ApprovalStatus = model.POApprovalDraft
	po.PoStatus = model.POStatusOpen
	po.CreatedBy = &creatorID

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		limits, limErr := s.buildBudgetLimits(txCtx, lines, uuid.Nil, po.OrderDate, po.DeliveryDate)
		if limErr != nil {
			return limErr
		}
		if violation := ValidateBudget(toBudgetLines(lines, model.POApprovalDraft), limits); violation != nil {
			return violation
		}

		s.applyAmounts(&po, lines, model.POApprovalDraft)

		number, numErr := s.generateOrderNumber(txCtx)
		if numErr != nil {
			return fmt.Errorf("failed to generate order number: %w", numErr)
		}
		po.OrderNumber = number
		po.Lines = lines

		if createErr := s.poRepo.Create(txCtx, &po); createErr != nil {
			return fmt.Errorf("failed to create purchase order: %w", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"order_number": po.OrderNumber,
			"site_id":      po.SiteID.String(),
			"vendor_id":    po.VendorID.String(),
			"total_amount": po.TotalAmount.StringFixed(2),
			"line_count":   len(po.Lines),
		})
		audit := &model.AuditLog{
			UserID:     &creatorID,
			Action:     model.ActionCreatePO,
			EntityID:   po.ID.String(),
			EntityName: po.OrderNumber,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		return nil
	})
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	s.broadcast("po_created", po.ID, po.OrderNumber, po.ApprovalStatus)

	return s.GetPurchaseOrder(ctx, po.ID.String())
}

// --- Read ---

func (s *purchaseOrderService) GetPurchaseOrder(ctx context.Context, id string) (PurchaseOrderResponse, error) {
	poID, err := uuid.Parse(id)
	if err != nil {
		return PurchaseOrderResponse{}, &ValidationError{Field: "id", Message: "invalid uuid"}
	}

	po, err := s.poRepo.FindByIDFull(ctx, poID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PurchaseOrderResponse{}, ErrNotFound
		}
		return PurchaseOrderResponse{}, fmt.Errorf("failed to fetch purchase order: %w", err)
	}

	return toPurchaseOrderResponse(po), nil
}

func (s *purchaseOrderService) ListPurchaseOrders(ctx context.Context, filter PurchaseOrderFilter) ([]PurchaseOrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	orders, total, err := s.poRepo.List(ctx, repository.POListFilter{
		ApprovalStatus: filter.ApprovalStatus,
		PoStatus:       filter.PoStatus,
		SiteID:         filter.SiteID,
		VendorID:       filter.VendorID,
		Suspended:      filter.Suspended,
		OrderNumber:    filter.OrderNumber,
		Page:           filter.Page,
		Limit:          filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch purchase orders: %w", err)
	}

	result := make([]PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		result = append(result, toPurchaseOrderResponse(&orders[i]))
	}
	return result, total, nil
}

// --- Update (DRAFT only) ---

func (s *purchaseOrderService) UpdatePurchaseOrder(ctx context.Context, userID, id string, req UpdatePurchaseOrderRequest) (PurchaseOrderResponse, error) {
	poID, err := uuid.Parse(id)
	if err != nil {
		return PurchaseOrderResponse{}, &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	actorID, err := uuid.Parse(userID)
	if err != nil {
		return PurchaseOrderResponse{}, &ValidationError{Field: "user_id", Message: "invalid uuid"}
	}

	header, err := s.buildHeader(headerInput{
		OrderDate:         req.OrderDate,
		DeliveryDate:      req.DeliveryDate,
		VendorID:          req.VendorID,
		BillingAddressID:  req.BillingAddressID,
		DeliveryAddressID: req.DeliveryAddressID,
		PaymentTermID:     req.PaymentTermID,
		QuotationNumber:   req.QuotationNumber,
		QuotationDate:     req.QuotationDate,
		Transport:         req.Transport,
		DeliverySchedule:  req.DeliverySchedule,
		Note:              req.Note,
		Terms:             req.Terms,
		TransitInsurance:  req.TransitInsurance,
		TransportCharge:   req.TransportCharge,
		GstReverse:        req.GstReverse,
	})
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	lines, err := s.buildLines(req.Lines)
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		po, findErr := s.poRepo.FindByIDWithLines(txCtx, poID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch purchase order: %w", findErr)
		}

		if po.ApprovalStatus != model.POApprovalDraft {
			return &InvalidStateError{State: po.ApprovalStatus, Reason: "only draft orders can be edited"}
		}
		if po.IsSuspended {
			return &InvalidStateError{State: po.ApprovalStatus, Reason: "suspended orders cannot be edited"}
		}

		header.SiteID = po.SiteID // site is fixed at creation
		if masterErr := s.checkMasters(txCtx, header, lines); masterErr != nil {
			return masterErr
		}

		limits, limErr := s.buildBudgetLimits(txCtx, lines, po.ID, header.OrderDate, header.DeliveryDate)
		if limErr != nil {
			return limErr
		}
		if violation := ValidateBudget(toBudgetLines(lines, model.POApprovalDraft), limits); violation != nil {
			return violation
		}

		po.OrderDate = header.OrderDate
		po.DeliveryDate = header.DeliveryDate
		po.VendorID = header.VendorID
		po.BillingAddressID = header.BillingAddressID
		po.DeliveryAddressID = header.DeliveryAddressID
		po.PaymentTermID = header.PaymentTermID
		po.QuotationNumber = header.QuotationNumber
		po.QuotationDate = header.QuotationDate
		po.Transport = header.Transport
		po.DeliverySchedule = header.DeliverySchedule
		po.Note = header.Note
		po.Terms = header.Terms
		po.TransitInsuranceStatus = header.TransitInsuranceStatus
		po.TransitInsuranceAmount = header.TransitInsuranceAmount
		po.TransportChargeStatus = header.TransportChargeStatus
		po.TransportChargeAmount = header.TransportChargeAmount
		po.GstReverseStatus = header.GstReverseStatus
		po.GstReverseAmount = header.GstReverseAmount

		s.applyAmounts(po, lines, model.POApprovalDraft)

		ok, updateErr := s.poRepo.UpdateDraftHeader(txCtx, po)
		if updateErr != nil {
			return fmt.Errorf("failed to update purchase order: %w", updateErr)
		}
		if !ok {
			// Another request approved or suspended the order after our read.
			return &InvalidStateError{State: po.ApprovalStatus, Reason: "order was changed by another request"}
		}
		if lineErr := s.poRepo.ReplaceLines(txCtx, po.ID, lines); lineErr != nil {
			return fmt.Errorf("failed to replace order lines: %w", lineErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"order_number": po.OrderNumber,
			"total_amount": po.TotalAmount.StringFixed(2),
			"line_count":   len(lines),
		})
		audit := &model.AuditLog{
			UserID:     &actorID,
			Action:     model.ActionUpdatePO,
			EntityID:   po.ID.String(),
			EntityName: po.OrderNumber,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		return nil
	})
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	return s.GetPurchaseOrder(ctx, id)
}

// --- Approval transitions ---

func (s *purchaseOrderService) TransitionPurchaseOrder(ctx context.Context, userID, id string, req TransitionRequest) (PurchaseOrderResponse, error) {
	poID, err := uuid.Parse(id)
	if err != nil {
		return PurchaseOrderResponse{}, &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	actorID, err := uuid.Parse(userID)
	if err != nil {
		return PurchaseOrderResponse{}, &ValidationError{Field: "user_id", Message: "invalid uuid"}
	}

	overrides, err := parseQtyOverrides(req.Lines)
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	var orderNumber, newStatus string
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		po, findErr := s.poRepo.FindByIDWithLines(txCtx, poID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch purchase order: %w", findErr)
		}

		expectedStatus := po.ApprovalStatus
		expectedSuspended := po.IsSuspended

		target, checkErr := CheckTransition(po, req.Action, actorID)
		if checkErr != nil {
			return checkErr
		}

		now := time.Now()
		action := ""

		switch req.Action {
		case POActionSuspend:
			po.IsSuspended = true
			po.SuspendedBy = &actorID
			po.SuspendedAt = &now
			action = model.ActionSuspendPO

		case POActionUnsuspend:
			po.IsSuspended = false
			po.SuspendedBy = nil
			po.SuspendedAt = nil
			action = model.ActionUnsuspendPO

		case POActionApprove1, POActionApprove2:
			if applyErr := applyApprovedQtys(po, req.Action, overrides); applyErr != nil {
				return applyErr
			}
			limits, limErr := s.buildBudgetLimits(txCtx, po.Lines, po.ID, po.OrderDate, po.DeliveryDate)
			if limErr != nil {
				return limErr
			}
			if violation := ValidateBudget(toBudgetLines(po.Lines, target), limits); violation != nil {
				return violation
			}
			s.applyAmounts(po, po.Lines, target)
			po.ApprovalStatus = target
			if req.Action == POActionApprove1 {
				po.Approved1By = &actorID
				po.Approved1At = &now
				action = model.ActionApprovePO1
			} else {
				po.Approved2By = &actorID
				po.Approved2At = &now
				action = model.ActionApprovePO2
			}

		case POActionComplete:
			po.ApprovalStatus = target
			po.IsComplete = true
			po.CompletedBy = &actorID
			po.CompletedAt = &now
			action = model.ActionCompletePO
		}

		ok, updateErr := s.poRepo.UpdateStatusGuarded(txCtx, po, expectedStatus, expectedSuspended)
		if updateErr != nil {
			return fmt.Errorf("failed to update purchase order status: %w", updateErr)
		}
		if !ok {
			return &InvalidTransitionError{From: expectedStatus, Action: req.Action, Reason: "order was changed by another request"}
		}

		if req.Action == POActionApprove1 || req.Action == POActionApprove2 {
			if lineErr := s.poRepo.SaveLines(txCtx, po.Lines); lineErr != nil {
				return fmt.Errorf("failed to save order lines: %w", lineErr)
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"order_number": po.OrderNumber,
			"from_status":  expectedStatus,
			"to_status":    po.ApprovalStatus,
			"suspended":    po.IsSuspended,
			"total_amount": po.TotalAmount.StringFixed(2),
		})
		audit := &model.AuditLog{
			UserID:     &actorID,
			Action:     action,
			EntityID:   po.ID.String(),
			EntityName: po.OrderNumber,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		orderNumber = po.OrderNumber
		newStatus = po.ApprovalStatus
		return nil
	})
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	s.broadcast("po_"+req.Action, poID, orderNumber, newStatus)

	return s.GetPurchaseOrder(ctx, id)
}

// --- Operational status ---

func (s *purchaseOrderService) UpdateOperationalStatus(ctx context.Context, userID, id string, req OperationalUpdateRequest) (PurchaseOrderResponse, error) {
	poID, err := uuid.Parse(id)
	if err != nil {
		return PurchaseOrderResponse{}, &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	actorID, err := uuid.Parse(userID)
	if err != nil {
		return PurchaseOrderResponse{}, &ValidationError{Field: "user_id", Message: "invalid uuid"}
	}

	if req.PoStatus != nil {
		switch *req.PoStatus {
		case model.POStatusOpen, model.POStatusOrderPlaced, model.POStatusInTransit, model.POStatusReceived, model.POStatusHold:
		default:
			return PurchaseOrderResponse{}, &ValidationError{Field: "po_status", Message: "unknown operational status"}
		}
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		po, findErr := s.poRepo.FindByIDWithLines(txCtx, poID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch purchase order: %w", findErr)
		}

		// Only the provided columns are written; the approval lifecycle
		// columns stay untouched even if they moved after our read.
		fields := map[string]interface{}{}
		if req.PoStatus != nil {
			fields["po_status"] = *req.PoStatus
		}
		if req.BillStatus != nil {
			fields["bill_status"] = *req.BillStatus
		}
		if req.Remarks != nil {
			fields["remarks"] = *req.Remarks
		}
		if len(fields) > 0 {
			if updateErr := s.poRepo.UpdateOperational(txCtx, po.ID, fields); updateErr != nil {
				return fmt.Errorf("failed to update purchase order: %w", updateErr)
			}
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     &actorID,
			Action:     model.ActionUpdatePOStatus,
			EntityID:   po.ID.String(),
			EntityName: po.OrderNumber,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		return nil
	})
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	return s.GetPurchaseOrder(ctx, id)
}

// --- Delete ---

func (s *purchaseOrderService) DeletePurchaseOrder(ctx context.Context, userID, id string) error {
	poID, err := uuid.Parse(id)
	if err != nil {
		return &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	actorID, err := uuid.Parse(userID)
	if err != nil {
		return &ValidationError{Field: "user_id", Message: "invalid uuid"}
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		po, findErr := s.poRepo.FindByIDWithLines(txCtx, poID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch purchase order: %w", findErr)
		}

		if po.ApprovalStatus != model.POApprovalDraft {
			return &InvalidStateError{State: po.ApprovalStatus, Reason: "only draft orders can be deleted"}
		}
		if po.IsSuspended {
			return &InvalidStateError{State: po.ApprovalStatus, Reason: "suspended orders cannot be deleted"}
		}

		if deleteErr := s.poRepo.Delete(txCtx, poID); deleteErr != nil {
			return fmt.Errorf("failed to delete purchase order: %w", deleteErr)
		}

		audit := &model.AuditLog{
			UserID:     &actorID,
			Action:     model.ActionDeletePO,
			EntityID:   po.ID.String(),
			EntityName: po.OrderNumber,
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		return nil
	})
}

// --- Internals ---

type headerInput struct {
	OrderDate         string
	DeliveryDate      string
	VendorID          string
	BillingAddressID  string
	DeliveryAddressID string
	PaymentTermID     string
	QuotationNumber   string
	QuotationDate     string
	Transport         string
	DeliverySchedule  string
	Note              string
	Terms             string
	TransitInsurance  ChargeRequest
	TransportCharge   ChargeRequest
	GstReverse        ChargeRequest
}

func (s *purchaseOrderService) buildHeader(in headerInput) (model.PurchaseOrder, error) {
	var po model.PurchaseOrder

	orderDate, err := parseDate("order_date", in.OrderDate)
	if err != nil {
		return po, err
	}
	deliveryDate, err := parseDate("delivery_date", in.DeliveryDate)
	if err != nil {
		return po, err
	}
	if deliveryDate.Before(orderDate) {
		return po, &ValidationError{Field: "delivery_date", Message: "must not precede order_date"}
	}
	quotationDate, err := parseDate("quotation_date", in.QuotationDate)
	if err != nil {
		return po, err
	}

	vendorID, err := uuid.Parse(in.VendorID)
	if err != nil {
		return po, &ValidationError{Field: "vendor_id", Message: "invalid uuid"}
	}
	billingAddressID, err := uuid.Parse(in.BillingAddressID)
	if err != nil {
		return po, &ValidationError{Field: "billing_address_id", Message: "invalid uuid"}
	}
	deliveryAddressID, err := uuid.Parse(in.DeliveryAddressID)
	if err != nil {
		return po, &ValidationError{Field: "delivery_address_id", Message: "invalid uuid"}
	}

	var paymentTermID *uuid.UUID
	if in.PaymentTermID != "" {
		parsed, parseErr := uuid.Parse(in.PaymentTermID)
		if parseErr != nil {
			return po, &ValidationError{Field: "payment_term_id", Message: "invalid uuid"}
		}
		paymentTermID = &parsed
	}

	transitStatus, transitAmount, err := parseCharge("transit_insurance", in.TransitInsurance)
	if err != nil {
		return po, err
	}
	transportStatus, transportAmount, err := parseCharge("transport_charge", in.TransportCharge)
	if err != nil {
		return po, err
	}
	gstReverseStatus, gstReverseAmount, err := parseCharge("gst_reverse", in.GstReverse)
	if err != nil {
		return po, err
	}

	po.OrderDate = orderDate
	po.DeliveryDate = deliveryDate
	po.VendorID = vendorID
	po.BillingAddressID = billingAddressID
	po.DeliveryAddressID = deliveryAddressID
	po.PaymentTermID = paymentTermID
	po.QuotationNumber = in.QuotationNumber
	po.QuotationDate = quotationDate
	po.Transport = in.Transport
	po.DeliverySchedule = in.DeliverySchedule
	po.Note = in.Note
	po.Terms = in.Terms
	po.TransitInsuranceStatus = transitStatus
	po.TransitInsuranceAmount = transitAmount
	po.TransportChargeStatus = transportStatus
	po.TransportChargeAmount = transportAmount
	po.GstReverseStatus = gstReverseStatus
	po.GstReverseAmount = gstReverseAmount

	return po, nil
}

func (s *purchaseOrderService) buildLines(reqs []POLineRequest) ([]model.PurchaseOrderLine, error) {
	if len(reqs) == 0 {
		return nil, &ValidationError{Field: "lines", Message: "at least one line is required"}
	}

	lines := make([]model.PurchaseOrderLine, 0, len(reqs))
	for i, req := range reqs {
		field := fmt.Sprintf("lines[%d]", i)

		itemID, err := uuid.Parse(req.ItemID)
		if err != nil {
			return nil, &ValidationError{Field: field + ".item_id", Message: "invalid uuid"}
		}

		qty, err := parsePositiveDecimal(field+".quantity", req.Quantity)
		if err != nil {
			return nil, err
		}
		rate, err := parseNonNegativeDecimal(field+".rate", req.Rate)
		if err != nil {
			return nil, err
		}
		discountPct, err := parsePercent(field+".discount_percent", req.DiscountPercent)
		if err != nil {
			return nil, err
		}
		cgstPct, err := parsePercent(field+".cgst_percent", req.CgstPercent)
		if err != nil {
			return nil, err
		}
		sgstPct, err := parsePercent(field+".sgst_percent", req.SgstPercent)
		if err != nil {
			return nil, err
		}
		igstPct, err := parsePercent(field+".igst_percent", req.IgstPercent)
		if err != nil {
			return nil, err
		}

		line := model.PurchaseOrderLine{
			ItemID:          itemID,
			Remark:          req.Remark,
			Quantity:        qty,
			Rate:            rate,
			DiscountPercent: discountPct,
			CgstPercent:     cgstPct,
			SgstPercent:     sgstPct,
			IgstPercent:     igstPct,
		}

		if req.IndentLineID != "" {
			parsed, parseErr := uuid.Parse(req.IndentLineID)
			if parseErr != nil {
				return nil, &ValidationError{Field: field + ".indent_line_id", Message: "invalid uuid"}
			}
			line.IndentLineID = &parsed
		}
		if req.BoqLineID != "" {
			parsed, parseErr := uuid.Parse(req.BoqLineID)
			if parseErr != nil {
				return nil, &ValidationError{Field: field + ".boq_line_id", Message: "invalid uuid"}
			}
			line.BoqLineID = &parsed
		}

		lines = append(lines, line)
	}

	return lines, nil
}

// checkMasters verifies every referenced master record exists and that both
// addresses belong to the order's vendor.
func (s *purchaseOrderService) checkMasters(ctx context.Context, po model.PurchaseOrder, lines []model.PurchaseOrderLine) error {
	if _, err := s.siteRepo.FindByID(ctx, po.SiteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationError{Field: "site_id", Message: "site not found"}
		}
		return fmt.Errorf("failed to fetch site: %w", err)
	}

	vendor, err := s.vendorRepo.FindByID(ctx, po.VendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationError{Field: "vendor_id", Message: "vendor not found"}
		}
		return fmt.Errorf("failed to fetch vendor: %w", err)
	}

	billingOK, deliveryOK := false, false
	for _, addr := range vendor.Addresses {
		if addr.ID == po.BillingAddressID {
			billingOK = true
		}
		if addr.ID == po.DeliveryAddressID {
			deliveryOK = true
		}
	}
	if !billingOK {
		return &ValidationError{Field: "billing_address_id", Message: "address does not belong to vendor"}
	}
	if !deliveryOK {
		return &ValidationError{Field: "delivery_address_id", Message: "address does not belong to vendor"}
	}

	if po.PaymentTermID != nil {
		if _, err := s.paymentTermRepo.FindByID(ctx, *po.PaymentTermID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ValidationError{Field: "payment_term_id", Message: "payment term not found"}
			}
			return fmt.Errorf("failed to fetch payment term: %w", err)
		}
	}

	itemIDs := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		itemIDs = append(itemIDs, line.ItemID)
	}
	items, err := s.itemRepo.FindByIDs(ctx, itemIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch items: %w", err)
	}
	known := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		known[item.ID] = true
	}
	for i, line := range lines {
		if !known[line.ItemID] {
			return &ValidationError{Field: fmt.Sprintf("lines[%d].item_id", i), Message: "item not found"}
		}
	}

	return nil
}

// buildBudgetLimits derives the per-item ceilings from each line's source
// indent or BOQ line, including the quantity sibling orders have already
// consumed. Must run inside the transaction that writes the order.
func (s *purchaseOrderService) buildBudgetLimits(ctx context.Context, lines []model.PurchaseOrderLine, excludePO uuid.UUID, orderDate, deliveryDate time.Time) (map[uuid.UUID]BudgetLimits, error) {
	limits := make(map[uuid.UUID]BudgetLimits)

	for i, line := range lines {
		switch {
		case line.IndentLineID != nil:
			indentLine, err := s.indentRepo.FindLineByID(ctx, *line.IndentLineID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, &ValidationError{Field: fmt.Sprintf("lines[%d].indent_line_id", i), Message: "indent line not found"}
				}
				return nil, fmt.Errorf("failed to fetch indent line: %w", err)
			}
			if indentLine.ItemID != line.ItemID {
				return nil, &ValidationError{Field: fmt.Sprintf("lines[%d].indent_line_id", i), Message: "indent line is for a different item"}
			}

			consumed, err := s.poRepo.SumSiblingQtyForIndentLine(ctx, indentLine.ID, excludePO)
			if err != nil {
				return nil, fmt.Errorf("failed to sum indent consumption: %w", err)
			}

			maxQty := indentLine.ApprovedQty
			entry := BudgetLimits{MaxQty: &maxQty, ConsumedQty: consumed}
			if indentLine.MaxRate.IsPositive() {
				rate := indentLine.MaxRate
				entry.MaxRate = &rate
			}
			if indentLine.MaxValue.IsPositive() {
				value := indentLine.MaxValue
				entry.MaxValue = &value
			}
			limits[line.ItemID] = entry

		case line.BoqLineID != nil:
			boqLine, err := s.boqRepo.FindLineByID(ctx, *line.BoqLineID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, &ValidationError{Field: fmt.Sprintf("lines[%d].boq_line_id", i), Message: "boq line not found"}
				}
				return nil, fmt.Errorf("failed to fetch boq line: %w", err)
			}
			if boqLine.ItemID != line.ItemID {
				return nil, &ValidationError{Field: fmt.Sprintf("lines[%d].boq_line_id", i), Message: "boq line is for a different item"}
			}

			consumed, err := s.poRepo.SumSiblingQtyForBoqLine(ctx, boqLine.ID, excludePO)
			if err != nil {
				return nil, fmt.Errorf("failed to sum boq consumption: %w", err)
			}

			maxQty := boqLine.TargetQty
			if boqLine.MonthlyQty.IsPositive() {
				windowQty := s.ceiling(boqLine.MonthlyQty, orderDate, deliveryDate)
				if windowQty.LessThan(maxQty) {
					maxQty = windowQty
				}
			}
			entry := BudgetLimits{MaxQty: &maxQty, ConsumedQty: consumed}
			if boqLine.MaxRate.IsPositive() {
				rate := boqLine.MaxRate
				entry.MaxRate = &rate
			}
			if boqLine.MaxValue.IsPositive() {
				value := boqLine.MaxValue
				entry.MaxValue = &value
			}
			limits[line.ItemID] = entry
		}
	}

	return limits, nil
}

// applyAmounts recomputes every line's monetary fields at the given approval
// status and rewrites the header totals.
func (s *purchaseOrderService) applyAmounts(po *model.PurchaseOrder, lines []model.PurchaseOrderLine, approvalStatus string) {
	lineAmounts := make([]LineAmounts, 0, len(lines))
	for i := range lines {
		qty := lines[i].EffectiveQty(approvalStatus)
		amounts := ComputeLineAmounts(qty, lines[i].Rate, lines[i].DiscountPercent, lines[i].CgstPercent, lines[i].SgstPercent, lines[i].IgstPercent)
		lines[i].DisAmount = amounts.Discount
		lines[i].CgstAmount = amounts.Cgst
		lines[i].SgstAmount = amounts.Sgst
		lines[i].IgstAmount = amounts.Igst
		lines[i].Amount = amounts.Amount
		lineAmounts = append(lineAmounts, amounts)
	}

	totals := ComputeHeaderTotals(lineAmounts,
		Charge{Status: po.TransitInsuranceStatus, Amount: po.TransitInsuranceAmount},
		Charge{Status: po.TransportChargeStatus, Amount: po.TransportChargeAmount},
		Charge{Status: po.GstReverseStatus, Amount: po.GstReverseAmount},
	)
	po.TotalAmount = totals.TotalAmount
	po.TotalCgst = totals.TotalCgst
	po.TotalSgst = totals.TotalSgst
	po.TotalIgst = totals.TotalIgst
	po.TotalDiscount = totals.TotalDiscount
}

func (s *purchaseOrderService) generateOrderNumber(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "PO-" + today + "-"

	if err := s.poRepo.LockNumberPrefix(ctx, prefix); err != nil {
		return "", err
	}

	count, err := s.poRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

func (s *purchaseOrderService) broadcast(event string, poID uuid.UUID, orderNumber, approvalStatus string) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(PurchaseOrderEvent{
		Event: event,
		Data: map[string]interface{}{
			"id":              poID.String(),
			"order_number":    orderNumber,
			"approval_status": approvalStatus,
		},
	})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}

func parseQtyOverrides(reqs []TransitionLineRequest) (map[uuid.UUID]decimal.Decimal, error) {
	overrides := make(map[uuid.UUID]decimal.Decimal, len(reqs))
	for i, req := range reqs {
		lineID, err := uuid.Parse(req.LineID)
		if err != nil {
			return nil, &ValidationError{Field: fmt.Sprintf("lines[%d].line_id", i), Message: "invalid uuid"}
		}
		qty, err := parsePositiveDecimal(fmt.Sprintf("lines[%d].approved_qty", i), req.ApprovedQty)
		if err != nil {
			return nil, err
		}
		overrides[lineID] = qty
	}
	return overrides, nil
}

// applyApprovedQtys fills the stage quantity for every line: the override
// when given, otherwise the previous stage's effective quantity. Approve1
// also snapshots the requested quantity into OrderedQty.
func applyApprovedQtys(po *model.PurchaseOrder, action string, overrides map[uuid.UUID]decimal.Decimal) error {
	for lineID := range overrides {
		found := false
		for i := range po.Lines {
			if po.Lines[i].ID == lineID {
				found = true
				break
			}
		}
		if !found {
			return &ValidationError{Field: "lines", Message: "line " + lineID.String() + " does not belong to this order"}
		}
	}

	for i := range po.Lines {
		line := &po.Lines[i]
		qty, hasOverride := overrides[line.ID]

		switch action {
		case POActionApprove1:
			if !hasOverride {
				qty = line.Quantity
			}
			line.ApprovedQty1 = &qty
			line.OrderedQty = line.Quantity
		case POActionApprove2:
			if !hasOverride {
				qty = line.EffectiveQty(model.POApprovalLevel1)
			}
			line.ApprovedQty2 = &qty
		}
	}
	return nil
}

func toBudgetLines(lines []model.PurchaseOrderLine, approvalStatus string) []BudgetLine {
	result := make([]BudgetLine, 0, len(lines))
	for i := range lines {
		qty := lines[i].EffectiveQty(approvalStatus)
		amounts := ComputeLineAmounts(qty, lines[i].Rate, lines[i].DiscountPercent, lines[i].CgstPercent, lines[i].SgstPercent, lines[i].IgstPercent)
		result = append(result, BudgetLine{
			ItemID:   lines[i].ItemID,
			Quantity: qty,
			Rate:     lines[i].Rate,
			Amount:   amounts.Amount,
		})
	}
	return result
}

// --- Parse helpers ---

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, &ValidationError{Field: field, Message: "is required"}
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Message: "must be YYYY-MM-DD"}
	}
	return t, nil
}

func parsePositiveDecimal(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: field, Message: "invalid number"}
	}
	if !d.IsPositive() {
		return decimal.Zero, &ValidationError{Field: field, Message: "must be greater than zero"}
	}
	return d, nil
}

func parseNonNegativeDecimal(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: field, Message: "invalid number"}
	}
	if d.IsNegative() {
		return decimal.Zero, &ValidationError{Field: field, Message: "must not be negative"}
	}
	return d, nil
}

func parsePercent(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: field, Message: "invalid number"}
	}
	hundred := decimal.NewFromInt(100)
	if d.IsNegative() || d.GreaterThan(hundred) {
		return decimal.Zero, &ValidationError{Field: field, Message: "must be between 0 and 100"}
	}
	return d, nil
}

func parseCharge(field string, req ChargeRequest) (string, decimal.Decimal, error) {
	status := req.Status
	if status == "" {
		status = model.ChargeNotApplicable
	}
	switch status {
	case model.ChargeExclusive, model.ChargeInclusive, model.ChargeNotApplicable:
	default:
		return "", decimal.Zero, &ValidationError{Field: field + ".status", Message: "unknown charge status"}
	}

	amount := decimal.Zero
	if status != model.ChargeNotApplicable && req.Amount != "" {
		var err error
		amount, err = parseNonNegativeDecimal(field+".amount", req.Amount)
		if err != nil {
			return "", decimal.Zero, err
		}
	}
	return status, amount, nil
}

// --- Mapping ---

func toPurchaseOrderResponse(po *model.PurchaseOrder) PurchaseOrderResponse {
	resp := PurchaseOrderResponse{
		ID:                po.ID.String(),
		OrderNumber:       po.OrderNumber,
		OrderDate:         po.OrderDate.Format("2006-01-02"),
		DeliveryDate:      po.DeliveryDate.Format("2006-01-02"),
		SiteID:            po.SiteID.String(),
		VendorID:          po.VendorID.String(),
		BillingAddressID:  po.BillingAddressID.String(),
		DeliveryAddressID: po.DeliveryAddressID.String(),
		QuotationNumber:   po.QuotationNumber,
		QuotationDate:     po.QuotationDate.Format("2006-01-02"),
		Transport:         po.Transport,
		DeliverySchedule:  po.DeliverySchedule,
		Note:              po.Note,
		Terms:             po.Terms,
		ApprovalStatus:    po.ApprovalStatus,
		IsSuspended:       po.IsSuspended,
		IsComplete:        po.IsComplete,
		PoStatus:          po.PoStatus,
		BillStatus:        po.BillStatus,
		Remarks:           po.Remarks,
		TransitInsurance:  ChargeResponse{Status: po.TransitInsuranceStatus, Amount: po.TransitInsuranceAmount.StringFixed(2)},
		TransportCharge:   ChargeResponse{Status: po.TransportChargeStatus, Amount: po.TransportChargeAmount.StringFixed(2)},
		GstReverse:        ChargeResponse{Status: po.GstReverseStatus, Amount: po.GstReverseAmount.StringFixed(2)},
		TotalAmount:       po.TotalAmount.StringFixed(2),
		TotalCgst:         po.TotalCgst.StringFixed(2),
		TotalSgst:         po.TotalSgst.StringFixed(2),
		TotalIgst:         po.TotalIgst.StringFixed(2),
		TotalDiscount:     po.TotalDiscount.StringFixed(2),
		CreatedAt:         po.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         po.UpdatedAt.Format(time.RFC3339),
	}

	if po.Site != nil {
		resp.SiteName = po.Site.Name
	}
	if po.Vendor != nil {
		resp.VendorName = po.Vendor.Name
	}
	if po.BillingAddress != nil {
		resp.BillingAddress = po.BillingAddress.FullAddress
	}
	if po.DeliveryAddress != nil {
		resp.DeliveryAddress = po.DeliveryAddress.FullAddress
	}
	if po.PaymentTermID != nil {
		s := po.PaymentTermID.String()
		resp.PaymentTermID = &s
	}
	if po.PaymentTerm != nil {
		resp.PaymentTermName = po.PaymentTerm.Name
	}
	if po.CreatedBy != nil {
		s := po.CreatedBy.String()
		resp.CreatedBy = &s
	}
	if po.Creator != nil {
		resp.CreatorName = po.Creator.Username
	}
	resp.Approved1By = uuidPtrString(po.Approved1By)
	resp.Approved1At = timePtrString(po.Approved1At)
	resp.Approved2By = uuidPtrString(po.Approved2By)
	resp.Approved2At = timePtrString(po.Approved2At)
	resp.SuspendedBy = uuidPtrString(po.SuspendedBy)
	resp.SuspendedAt = timePtrString(po.SuspendedAt)
	resp.CompletedBy = uuidPtrString(po.CompletedBy)
	resp.CompletedAt = timePtrString(po.CompletedAt)

	resp.Lines = make([]POLineResponse, 0, len(po.Lines))
	for i := range po.Lines {
		resp.Lines = append(resp.Lines, toPOLineResponse(&po.Lines[i]))
	}

	return resp
}

func toPOLineResponse(line *model.PurchaseOrderLine) POLineResponse {
	resp := POLineResponse{
		ID:              line.ID.String(),
		ItemID:          line.ItemID.String(),
		Remark:          line.Remark,
		Quantity:        line.Quantity.String(),
		OrderedQty:      line.OrderedQty.String(),
		Rate:            line.Rate.String(),
		DiscountPercent: line.DiscountPercent.String(),
		DisAmount:       line.DisAmount.StringFixed(2),
		CgstPercent:     line.CgstPercent.String(),
		CgstAmount:      line.CgstAmount.StringFixed(2),
		SgstPercent:     line.SgstPercent.String(),
		SgstAmount:      line.SgstAmount.StringFixed(2),
		IgstPercent:     line.IgstPercent.String(),
		IgstAmount:      line.IgstAmount.StringFixed(2),
		Amount:          line.Amount.StringFixed(2),
	}

	if line.Item != nil {
		resp.ItemName = line.Item.Name
		resp.ItemUnit = line.Item.Unit
	}
	if line.ApprovedQty1 != nil {
		s := line.ApprovedQty1.String()
		resp.ApprovedQty1 = &s
	}
	if line.ApprovedQty2 != nil {
		s := line.ApprovedQty2.String()
		resp.ApprovedQty2 = &s
	}
	resp.IndentLineID = uuidPtrString(line.IndentLineID)
	resp.BoqLineID = uuidPtrString(line.BoqLineID)

	return resp
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func timePtrString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
