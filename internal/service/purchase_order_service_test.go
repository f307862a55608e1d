package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubPORepo implements repository.PurchaseOrderRepository with overridable
// functions; unset methods fail the test if called.
type stubPORepo struct {
	t *testing.T

	findByIDWithLines   func(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	findByIDFull        func(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	updateDraftHeader   func(ctx context.Context, po *model.PurchaseOrder) (bool, error)
	updateOperational   func(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	updateStatusGuarded func(ctx context.Context, po *model.PurchaseOrder, expectedStatus string, expectedSuspended bool) (bool, error)
	replaceLines        func(ctx context.Context, poID uuid.UUID, lines []model.PurchaseOrderLine) error
	saveLines           func(ctx context.Context, lines []model.PurchaseOrderLine) error
	countByPrefix       func(ctx context.Context, prefix string) (int64, error)
	sumSiblingIndent    func(ctx context.Context, indentLineID, excludePO uuid.UUID) (decimal.Decimal, error)
	sumSiblingBoq       func(ctx context.Context, boqLineID, excludePO uuid.UUID) (decimal.Decimal, error)
}

func (s *stubPORepo) Create(ctx context.Context, po *model.PurchaseOrder) error {
	s.t.Fatal("unexpected call: Create")
	return nil
}

func (s *stubPORepo) FindByIDWithLines(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	if s.findByIDWithLines == nil {
		s.t.Fatal("unexpected call: FindByIDWithLines")
	}
	return s.findByIDWithLines(ctx, id)
}

func (s *stubPORepo) FindByIDFull(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	if s.findByIDFull == nil {
		s.t.Fatal("unexpected call: FindByIDFull")
	}
	return s.findByIDFull(ctx, id)
}

func (s *stubPORepo) List(ctx context.Context, filter repository.POListFilter) ([]model.PurchaseOrder, int64, error) {
	s.t.Fatal("unexpected call: List")
	return nil, 0, nil
}

func (s *stubPORepo) UpdateDraftHeader(ctx context.Context, po *model.PurchaseOrder) (bool, error) {
	if s.updateDraftHeader == nil {
		s.t.Fatal("unexpected call: UpdateDraftHeader")
	}
	return s.updateDraftHeader(ctx, po)
}

func (s *stubPORepo) UpdateOperational(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if s.updateOperational == nil {
		s.t.Fatal("unexpected call: UpdateOperational")
	}
	return s.updateOperational(ctx, id, fields)
}

func (s *stubPORepo) UpdateStatusGuarded(ctx context.Context, po *model.PurchaseOrder, expectedStatus string, expectedSuspended bool) (bool, error) {
	if s.updateStatusGuarded == nil {
		s.t.Fatal("unexpected call: UpdateStatusGuarded")
	}
	return s.updateStatusGuarded(ctx, po, expectedStatus, expectedSuspended)
}

func (s *stubPORepo) ReplaceLines(ctx context.Context, poID uuid.UUID, lines []model.PurchaseOrderLine) error {
	if s.replaceLines == nil {
		s.t.Fatal("unexpected call: ReplaceLines")
	}
	return s.replaceLines(ctx, poID, lines)
}

func (s *stubPORepo) SaveLines(ctx context.Context, lines []model.PurchaseOrderLine) error {
	if s.saveLines == nil {
		s.t.Fatal("unexpected call: SaveLines")
	}
	return s.saveLines(ctx, lines)
}

func (s *stubPORepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.t.Fatal("unexpected call: Delete")
	return nil
}

func (s *stubPORepo) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	if s.countByPrefix == nil {
		s.t.Fatal("unexpected call: CountByPrefix")
	}
	return s.countByPrefix(ctx, prefix)
}

func (s *stubPORepo) LockNumberPrefix(ctx context.Context, prefix string) error {
	return nil
}

func (s *stubPORepo) SumSiblingQtyForIndentLine(ctx context.Context, indentLineID, excludePO uuid.UUID) (decimal.Decimal, error) {
	if s.sumSiblingIndent == nil {
		return decimal.Zero, nil
	}
	return s.sumSiblingIndent(ctx, indentLineID, excludePO)
}

func (s *stubPORepo) SumSiblingQtyForBoqLine(ctx context.Context, boqLineID, excludePO uuid.UUID) (decimal.Decimal, error) {
	if s.sumSiblingBoq == nil {
		return decimal.Zero, nil
	}
	return s.sumSiblingBoq(ctx, boqLineID, excludePO)
}

type stubAuditRepo struct {
	entries []model.AuditLog
}

func (s *stubAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *stubAuditRepo) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	return nil, 0, nil
}

// stubTxManager runs the function directly; there is no real transaction.
type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func newTestPOService(poRepo *stubPORepo, auditRepo *stubAuditRepo) PurchaseOrderService {
	return NewPurchaseOrderService(poRepo, nil, nil, nil, nil, nil, nil, auditRepo, stubTxManager{}, nil)
}

func draftPO(creator uuid.UUID) *model.PurchaseOrder {
	return &model.PurchaseOrder{
		ID:             uuid.New(),
		OrderNumber:    "PO-20260830-00001",
		ApprovalStatus: model.POApprovalDraft,
		CreatedBy:      &creator,
		Lines: []model.PurchaseOrderLine{
			{
				ID:          uuid.New(),
				ItemID:      uuid.New(),
				Quantity:    d("10"),
				Rate:        d("100"),
				CgstPercent: d("9"),
				SgstPercent: d("9"),
			},
		},
	}
}

func TestTransitionApprove1(t *testing.T) {
	creator := uuid.New()
	approver := uuid.New()
	po := draftPO(creator)

	var guarded *model.PurchaseOrder
	var savedLines []model.PurchaseOrderLine

	poRepo := &stubPORepo{
		t: t,
		findByIDWithLines: func(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
			require.Equal(t, po.ID, id)
			return po, nil
		},
		updateStatusGuarded: func(ctx context.Context, updated *model.PurchaseOrder, expectedStatus string, expectedSuspended bool) (bool, error) {
			assert.Equal(t, model.POApprovalDraft, expectedStatus)
			assert.False(t, expectedSuspended)
			guarded = updated
			return true, nil
		},
		saveLines: func(ctx context.Context, lines []model.PurchaseOrderLine) error {
			savedLines = lines
			return nil
		},
		findByIDFull: func(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
			return po, nil
		},
	}
	auditRepo := &stubAuditRepo{}
	svc := newTestPOService(poRepo, auditRepo)

	resp, err := svc.TransitionPurchaseOrder(context.Background(), approver.String(), po.ID.String(), TransitionRequest{Action: POActionApprove1})
	require.NoError(t, err)

	require.NotNil(t, guarded)
	assert.Equal(t, model.POApprovalLevel1, guarded.ApprovalStatus)
	assert.Equal(t, approver, *guarded.Approved1By)
	assert.NotNil(t, guarded.Approved1At)
	// Totals recomputed from the approved quantity: 10 × 100, 9% + 9%
	assert.Equal(t, "1180.00", guarded.TotalAmount.StringFixed(2))

	require.Len(t, savedLines, 1)
	require.NotNil(t, savedLines[0].ApprovedQty1)
	assert.True(t, savedLines[0].ApprovedQty1.Equal(d("10")))
	assert.True(t, savedLines[0].OrderedQty.Equal(d("10")))

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, model.ActionApprovePO1, auditRepo.entries[0].Action)

	assert.Equal(t, model.POApprovalLevel1, resp.ApprovalStatus)
}

func TestTransitionApprove1QtyOverride(t *testing.T) {
	creator := uuid.New()
	approver := uuid.New()
	po := draftPO(creator)
	lineID := po.Lines[0].ID

	var savedLines []model.PurchaseOrderLine
	poRepo := &stubPORepo{
		t: t,
		findByIDWithLines: func(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
			return po, nil
		},
		updateStatusGuarded: func(ctx context.Context, updated *model.PurchaseOrder, expectedStatus string, expectedSuspended bool) (bool, error) {
			return true, nil
		},
		saveLines: func(ctx context.Context, lines []model.PurchaseOrderLine) error {
			savedLines = lines
			return nil
		},
		findByIDFull: func(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
			return po, nil
		},
	}
	svc := newTestPOService(poRepo, &stubAuditRepo{})

	_, err := svc.TransitionPurchaseOrder(context.Background(), approver.String(), po.ID.String(), TransitionRequest{
		Action: POActionApprove1,
		Lines:  []TransitionLineRequest{{LineID: lineID.String(), ApprovedQty: "7"}},
	})
	require.NoError(t, err)

	require.Len(t, savedLines, 1)
	require.NotNil(t, savedLines[0].ApprovedQty1)
	assert.True(t, savedLines[0].ApprovedQty1.Equal(d("7")))
	// The ordered snapshot keeps the originally requested quantity
	assert.True(t, savedLines[0].OrderedQty.Equal(d("10")))
}

func TestTransitionConflictLoses(t *testing.T) {
	creator := uuid.New()
	approver := uuid.New()
	po := draftPO(creator)

	poRepo := &stubPORepo{
		t: t,
		findByIDWithLines: func(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
			return po, nil
		},
		updateStatusGuarded: func(ctx context.Context, updated *model.PurchaseOrder, expectedStatus string, expectedSuspended bool) (bool, error) {
			// Concurrent request already moved the order
			return false, nil
		},
	}
	svc := newTestPOService(poRepo, &stubAuditRepo{})

	_, err := svc.TransitionPurchaseOrder(context.Background(), approver.String(), po.ID.String(), TransitionRequest{Action: POActionApprove1})

	var transErr *InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, model.POApprovalDraft, transErr.From)
}

func TestTransitionCreatorRejected(t *testing.T) {
	creator := uuid.New()
	po := draftPO(creator)

	poRepo := &stubPORepo{
		t: t,
		findByIDWithLines: func(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
			return po, nil
		},
		// No updateStatusGuarded: the transition must fail before any write
	}
	auditRepo := &stubAuditRepo{}
	svc := newTestPOService(poRepo, auditRepo)

	_, err := svc.TransitionPurchaseOrder(context.Background(), creator.String(), po.ID.String(), TransitionRequest{Action: POActionApprove1})

	var transErr *InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Empty(t, auditRepo.entries)
}

func TestTransitionNotFound(t *testing.T) {
	poRepo := &stubPORepo{
		t: t,
		findByIDWithLines: func(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestPOService(poRepo, &stubAuditRepo{})

	_, err := svc.TransitionPurchaseOrder(context.Background(), uuid.NewString(), uuid.NewString(), TransitionRequest{Action: POActionApprove1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateOrderNumber(t *testing.T) {
	var lockedPrefix string
	poRepo := &stubPORepo{
		t: t,
		countByPrefix: func(ctx context.Context, prefix string) (int64, error) {
			lockedPrefix = prefix
			return 41, nil
		},
	}
	svc := newTestPOService(poRepo, &stubAuditRepo{}).(*purchaseOrderService)

	number, err := svc.generateOrderNumber(context.Background())
	require.NoError(t, err)

	today := time.Now().Format("20060102")
	assert.Equal(t, "PO-"+today+"-", lockedPrefix)
	assert.Equal(t, "PO-"+today+"-00042", number)
}

func TestTransitionSuspendAndUnsuspend(t *testing.T) {
	creator := uuid.New()
	actor := uuid.New()
	po := draftPO(creator)

	var guarded *model.PurchaseOrder
	poRepo := &stubPORepo{
		t: t,
		findByIDWithLines: func(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
			return po, nil
		},
		updateStatusGuarded: func(ctx context.Context, updated *model.PurchaseOrder, expectedStatus string, expectedSuspended bool) (bool, error) {
			guarded = updated
			return true, nil
		},
		findByIDFull: func(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
			return po, nil
		},
	}
	auditRepo := &stubAuditRepo{}
	svc := newTestPOService(poRepo, auditRepo)

	_, err := svc.TransitionPurchaseOrder(context.Background(), actor.String(), po.ID.String(), TransitionRequest{Action: POActionSuspend})
	require.NoError(t, err)

	require.NotNil(t, guarded)
	assert.True(t, guarded.IsSuspended)
	// Approval status survives suspension
	assert.Equal(t, model.POApprovalDraft, guarded.ApprovalStatus)
	assert.Equal(t, actor, *guarded.SuspendedBy)

	_, err = svc.TransitionPurchaseOrder(context.Background(), actor.String(), po.ID.String(), TransitionRequest{Action: POActionUnsuspend})
	require.NoError(t, err)

	assert.False(t, guarded.IsSuspended)
	assert.Nil(t, guarded.SuspendedBy)

	require.Len(t, auditRepo.entries, 2)
	assert.Equal(t, model.ActionSuspendPO, auditRepo.entries[0].Action)
	assert.Equal(t, model.ActionUnsuspendPO, auditRepo.entries[1].Action)
}

// Fixed-value master stubs for the paths that re-validate references.
type stubSiteRepo struct {
	t    *testing.T
	site *model.Site
}

func (s *stubSiteRepo) Create(ctx context.Context, site *model.Site) error {
	s.t.Fatal("unexpected call: Create")
	return nil
}

func (s *stubSiteRepo) Update(ctx context.Context, site *model.Site) error {
	s.t.Fatal("unexpected call: Update")
	return nil
}

func (s *stubSiteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.t.Fatal("unexpected call: Delete")
	return nil
}

func (s *stubSiteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Site, error) {
	return s.site, nil
}

func (s *stubSiteRepo) List(ctx context.Context, search string, page, limit int) ([]model.Site, int64, error) {
	s.t.Fatal("unexpected call: List")
	return nil, 0, nil
}

type stubVendorRepo struct {
	t      *testing.T
	vendor *model.Vendor
}

func (s *stubVendorRepo) Create(ctx context.Context, vendor *model.Vendor) error {
	s.t.Fatal("unexpected call: Create")
	return nil
}

func (s *stubVendorRepo) Update(ctx context.Context, vendor *model.Vendor) error {
	s.t.Fatal("unexpected call: Update")
	return nil
}

func (s *stubVendorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.t.Fatal("unexpected call: Delete")
	return nil
}

func (s *stubVendorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error) {
	return s.vendor, nil
}

func (s *stubVendorRepo) FindAddressByID(ctx context.Context, id uuid.UUID) (*model.VendorAddress, error) {
	s.t.Fatal("unexpected call: FindAddressByID")
	return nil, nil
}

func (s *stubVendorRepo) List(ctx context.Context, search string, page, limit int) ([]model.Vendor, int64, error) {
	s.t.Fatal("unexpected call: List")
	return nil, 0, nil
}

func (s *stubVendorRepo) DeleteAddressesByVendorID(ctx context.Context, vendorID uuid.UUID) error {
	s.t.Fatal("unexpected call: DeleteAddressesByVendorID")
	return nil
}

func (s *stubVendorRepo) CreateAddresses(ctx context.Context, addresses []model.VendorAddress) error {
	s.t.Fatal("unexpected call: CreateAddresses")
	return nil
}

type stubItemRepo struct {
	t     *testing.T
	items []model.Item
}

func (s *stubItemRepo) Create(ctx context.Context, item *model.Item) error {
	s.t.Fatal("unexpected call: Create")
	return nil
}

func (s *stubItemRepo) Update(ctx context.Context, item *model.Item) error {
	s.t.Fatal("unexpected call: Update")
	return nil
}

func (s *stubItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.t.Fatal("unexpected call: Delete")
	return nil
}

func (s *stubItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	s.t.Fatal("unexpected call: FindByID")
	return nil, nil
}

func (s *stubItemRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Item, error) {
	return s.items, nil
}

func (s *stubItemRepo) List(ctx context.Context, search string, page, limit int) ([]model.Item, int64, error) {
	s.t.Fatal("unexpected call: List")
	return nil, 0, nil
}

type stubIndentRepo struct {
	t    *testing.T
	line *model.IndentLine
}

func (s *stubIndentRepo) Create(ctx context.Context, indent *model.Indent) error {
	s.t.Fatal("unexpected call: Create")
	return nil
}

func (s *stubIndentRepo) Update(ctx context.Context, indent *model.Indent) error {
	s.t.Fatal("unexpected call: Update")
	return nil
}

func (s *stubIndentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Indent, error) {
	s.t.Fatal("unexpected call: FindByID")
	return nil, nil
}

func (s *stubIndentRepo) FindLineByID(ctx context.Context, lineID uuid.UUID) (*model.IndentLine, error) {
	return s.line, nil
}

func (s *stubIndentRepo) List(ctx context.Context, siteID, status string, page, limit int) ([]model.Indent, int64, error) {
	s.t.Fatal("unexpected call: List")
	return nil, 0, nil
}

func (s *stubIndentRepo) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	s.t.Fatal("unexpected call: CountByPrefix")
	return 0, nil
}

type stubBoqRepo struct {
	t    *testing.T
	line *model.BOQLine
}

func (s *stubBoqRepo) Create(ctx context.Context, boq *model.BOQ) error {
	s.t.Fatal("unexpected call: Create")
	return nil
}

func (s *stubBoqRepo) Update(ctx context.Context, boq *model.BOQ) error {
	s.t.Fatal("unexpected call: Update")
	return nil
}

func (s *stubBoqRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.t.Fatal("unexpected call: Delete")
	return nil
}

func (s *stubBoqRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.BOQ, error) {
	s.t.Fatal("unexpected call: FindByID")
	return nil, nil
}

func (s *stubBoqRepo) FindLineByID(ctx context.Context, lineID uuid.UUID) (*model.BOQLine, error) {
	return s.line, nil
}

func (s *stubBoqRepo) List(ctx context.Context, siteID string, page, limit int) ([]model.BOQ, int64, error) {
	s.t.Fatal("unexpected call: List")
	return nil, 0, nil
}

func (s *stubBoqRepo) ReplaceLines(ctx context.Context, boqID uuid.UUID, lines []model.BOQLine) error {
	s.t.Fatal("unexpected call: ReplaceLines")
	return nil
}

func (s *stubBoqRepo) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	s.t.Fatal("unexpected call: CountByPrefix")
	return 0, nil
}

func TestUpdateDraftEditConflict(t *testing.T) {
	creator := uuid.New()
	editor := uuid.New()
	po := draftPO(creator)
	billingID := uuid.New()
	deliveryID := uuid.New()
	vendor := &model.Vendor{
		ID: uuid.New(),
		Addresses: []model.VendorAddress{
			{ID: billingID, VendorID: po.VendorID},
			{ID: deliveryID, VendorID: po.VendorID},
		},
	}
	item := model.Item{ID: po.Lines[0].ItemID}

	poRepo := &stubPORepo{
		t: t,
		findByIDWithLines: func(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
			return po, nil
		},
		updateDraftHeader: func(ctx context.Context, updated *model.PurchaseOrder) (bool, error) {
			// The guarded UPDATE matched no row: a concurrent approval or
			// suspension landed between our read and the write.
			return false, nil
		},
		// No replaceLines: the edit must stop at the failed header write
	}
	auditRepo := &stubAuditRepo{}
	svc := NewPurchaseOrderService(
		poRepo,
		&stubSiteRepo{t: t, site: &model.Site{ID: po.SiteID}},
		&stubVendorRepo{t: t, vendor: vendor},
		&stubItemRepo{t: t, items: []model.Item{item}},
		nil,
		nil,
		nil,
		auditRepo,
		stubTxManager{},
		nil,
	)

	_, err := svc.UpdatePurchaseOrder(context.Background(), editor.String(), po.ID.String(), UpdatePurchaseOrderRequest{
		OrderDate:         "2026-08-01",
		DeliveryDate:      "2026-08-20",
		VendorID:          vendor.ID.String(),
		BillingAddressID:  billingID.String(),
		DeliveryAddressID: deliveryID.String(),
		QuotationNumber:   "Q-100",
		QuotationDate:     "2026-07-25",
		Lines: []POLineRequest{
			{ItemID: item.ID.String(), Quantity: "10", Rate: "100"},
		},
	})

	var stateErr *InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Contains(t, stateErr.Error(), "changed by another request")
	assert.Empty(t, auditRepo.entries)
}

func TestUpdateOperationalStatusWritesOnlyGivenColumns(t *testing.T) {
	creator := uuid.New()
	actor := uuid.New()
	po := draftPO(creator)
	po.ApprovalStatus = model.POApprovalLevel1

	var written map[string]interface{}
	poRepo := &stubPORepo{
		t: t,
		findByIDWithLines: func(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
			return po, nil
		},
		updateOperational: func(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
			require.Equal(t, po.ID, id)
			written = fields
			return nil
		},
		findByIDFull: func(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
			return po, nil
		},
	}
	auditRepo := &stubAuditRepo{}
	svc := newTestPOService(poRepo, auditRepo)

	status := model.POStatusInTransit
	_, err := svc.UpdateOperationalStatus(context.Background(), actor.String(), po.ID.String(), OperationalUpdateRequest{
		PoStatus: &status,
	})
	require.NoError(t, err)

	// Approval lifecycle columns are never part of the write, so a
	// concurrent transition cannot be reverted by this request.
	require.NotNil(t, written)
	assert.Equal(t, map[string]interface{}{"po_status": model.POStatusInTransit}, written)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, model.ActionUpdatePOStatus, auditRepo.entries[0].Action)
}

func TestApprove1RejectsIndentCeilingWithSiblingConsumption(t *testing.T) {
	creator := uuid.New()
	approver := uuid.New()
	po := draftPO(creator)
	indentLineID := uuid.New()
	po.Lines[0].IndentLineID = &indentLineID
	po.Lines[0].Quantity = d("20")

	poRepo := &stubPORepo{
		t: t,
		findByIDWithLines: func(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
			return po, nil
		},
		sumSiblingIndent: func(ctx context.Context, lineID, excludePO uuid.UUID) (decimal.Decimal, error) {
			require.Equal(t, indentLineID, lineID)
			require.Equal(t, po.ID, excludePO)
			// Sibling orders against the same indent line already hold 90
			return d("90"), nil
		},
		// No updateStatusGuarded: the violation must block before any write
	}
	auditRepo := &stubAuditRepo{}
	svc := NewPurchaseOrderService(
		poRepo, nil, nil, nil, nil,
		&stubIndentRepo{t: t, line: &model.IndentLine{
			ID:          indentLineID,
			ItemID:      po.Lines[0].ItemID,
			ApprovedQty: d("100"),
		}},
		nil, auditRepo, stubTxManager{}, nil,
	)

	_, err := svc.TransitionPurchaseOrder(context.Background(), approver.String(), po.ID.String(), TransitionRequest{Action: POActionApprove1})

	var limitsErr *ExceededLimitsError
	require.ErrorAs(t, err, &limitsErr)
	require.Len(t, limitsErr.Violations, 1)
	assert.Equal(t, LimitKindItem, limitsErr.Violations[0].Kind)
	assert.Equal(t, "110:100", limitsErr.Violations[0].Usage)
	assert.Empty(t, auditRepo.entries)
}

func TestBudgetLimitsWithoutMonthlyQuotaCapOnTargetOnly(t *testing.T) {
	creator := uuid.New()
	po := draftPO(creator)
	boqLineID := uuid.New()
	po.Lines[0].BoqLineID = &boqLineID

	poRepo := &stubPORepo{
		t: t,
		sumSiblingBoq: func(ctx context.Context, lineID, excludePO uuid.UUID) (decimal.Decimal, error) {
			return d("10"), nil
		},
	}
	svc := NewPurchaseOrderService(
		poRepo, nil, nil, nil, nil, nil,
		&stubBoqRepo{t: t, line: &model.BOQLine{
			ID:         boqLineID,
			ItemID:     po.Lines[0].ItemID,
			TargetQty:  d("50"),
			MonthlyQty: decimal.Zero,
		}},
		&stubAuditRepo{}, stubTxManager{}, nil,
	).(*purchaseOrderService)

	// A zero monthly quota means no date-window apportionment at all
	svc.ceiling = func(monthlyQty decimal.Decimal, from, to time.Time) decimal.Decimal {
		t.Fatal("window ceiling consulted without a monthly quota")
		return decimal.Zero
	}

	orderDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	deliveryDate := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	limits, err := svc.buildBudgetLimits(context.Background(), po.Lines, po.ID, orderDate, deliveryDate)
	require.NoError(t, err)

	entry, ok := limits[po.Lines[0].ItemID]
	require.True(t, ok)
	require.NotNil(t, entry.MaxQty)
	assert.True(t, entry.MaxQty.Equal(d("50")))
	assert.True(t, entry.ConsumedQty.Equal(d("10")))
	assert.Nil(t, entry.MaxRate)
	assert.Nil(t, entry.MaxValue)
}
