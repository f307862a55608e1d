package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// POListFilter narrows the purchase order list query
type POListFilter struct {
	ApprovalStatus string
	PoStatus       string
	SiteID         string
	VendorID       string
	Suspended      *bool
	OrderNumber    string // partial match
	Page           int
	Limit          int
}

type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *model.PurchaseOrder) error
	FindByIDWithLines(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	FindByIDFull(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	List(ctx context.Context, filter POListFilter) ([]model.PurchaseOrder, int64, error)
	// UpdateDraftHeader persists the editable header fields with a
	// conditional UPDATE keyed on the order still being an unsuspended
	// draft. Returns false when another request approved or suspended the
	// order between the caller's read and this write.
	UpdateDraftHeader(ctx context.Context, po *model.PurchaseOrder) (bool, error)
	// UpdateOperational writes only the given operational columns
	// (po_status, bill_status, remarks) so it cannot clobber a concurrent
	// approval transition.
	UpdateOperational(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	// UpdateStatusGuarded persists the status fields and totals with a
	// conditional UPDATE keyed on the expected current status and suspension
	// flag. Returns false when another request moved the order first.
	UpdateStatusGuarded(ctx context.Context, po *model.PurchaseOrder, expectedStatus string, expectedSuspended bool) (bool, error)
	ReplaceLines(ctx context.Context, poID uuid.UUID, lines []model.PurchaseOrderLine) error
	SaveLines(ctx context.Context, lines []model.PurchaseOrderLine) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
	// LockNumberPrefix serializes order number generation for a prefix within
	// the surrounding transaction. No-op outside one.
	LockNumberPrefix(ctx context.Context, prefix string) error
	SumSiblingQtyForIndentLine(ctx context.Context, indentLineID, excludePO uuid.UUID) (decimal.Decimal, error)
	SumSiblingQtyForBoqLine(ctx context.Context, boqLineID, excludePO uuid.UUID) (decimal.Decimal, error)
}

type purchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, po *model.PurchaseOrder) error {
	return GetDB(ctx, r.db).Create(po).Error
}

func (r *purchaseOrderRepository) FindByIDWithLines(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	if err := GetDB(ctx, r.db).Preload("Lines").First(&po, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *purchaseOrderRepository) FindByIDFull(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := GetDB(ctx, r.db).
		Preload("Site").
		Preload("Vendor").
		Preload("BillingAddress").
		Preload("DeliveryAddress").
		Preload("PaymentTerm").
		Preload("Creator").
		Preload("Approver1").
		Preload("Approver2").
		Preload("Lines").
		Preload("Lines.Item").
		First(&po, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *purchaseOrderRepository) List(ctx context.Context, filter POListFilter) ([]model.PurchaseOrder, int64, error) {
	db := GetDB(ctx, r.db)

	applyFilter := func(q *gorm.DB) *gorm.DB {
		if filter.ApprovalStatus != "" {
			q = q.Where("approval_status = ?", filter.ApprovalStatus)
		}
		if filter.PoStatus != "" {
			q = q.Where("po_status = ?", filter.PoStatus)
		}
		if filter.SiteID != "" {
			q = q.Where("site_id = ?", filter.SiteID)
		}
		if filter.VendorID != "" {
			q = q.Where("vendor_id = ?", filter.VendorID)
		}
		if filter.Suspended != nil {
			q = q.Where("is_suspended = ?", *filter.Suspended)
		}
		if filter.OrderNumber != "" {
			q = q.Where("order_number ILIKE ?", "%"+filter.OrderNumber+"%")
		}
		return q
	}

	var total int64
	if err := applyFilter(db.Model(&model.PurchaseOrder{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var orders []model.PurchaseOrder
	err := applyFilter(db.Preload("Site").Preload("Vendor")).
		Order("created_at desc").
		Offset(offset).
		Limit(filter.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *purchaseOrderRepository) UpdateDraftHeader(ctx context.Context, po *model.PurchaseOrder) (bool, error) {
	result := GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).
		Where("id = ? AND approval_status = ? AND is_suspended = ?", po.ID, model.POApprovalDraft, false).
		Updates(map[string]interface{}{
			"order_date":               po.OrderDate,
			"delivery_date":            po.DeliveryDate,
			"vendor_id":                po.VendorID,
			"billing_address_id":       po.BillingAddressID,
			"delivery_address_id":      po.DeliveryAddressID,
			"payment_term_id":          po.PaymentTermID,
			"quotation_number":         po.QuotationNumber,
			"quotation_date":           po.QuotationDate,
			"transport":                po.Transport,
			"delivery_schedule":        po.DeliverySchedule,
			"note":                     po.Note,
			"terms":                    po.Terms,
			"transit_insurance_status": po.TransitInsuranceStatus,
			"transit_insurance_amount": po.TransitInsuranceAmount,
			"transport_charge_status":  po.TransportChargeStatus,
			"transport_charge_amount":  po.TransportChargeAmount,
			"gst_reverse_status":       po.GstReverseStatus,
			"gst_reverse_amount":       po.GstReverseAmount,
			"total_amount":             po.TotalAmount,
			"total_cgst":               po.TotalCgst,
			"total_sgst":               po.TotalSgst,
			"total_igst":               po.TotalIgst,
			"total_discount":           po.TotalDiscount,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *purchaseOrderRepository) UpdateOperational(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *purchaseOrderRepository) UpdateStatusGuarded(ctx context.Context, po *model.PurchaseOrder, expectedStatus string, expectedSuspended bool) (bool, error) {
	result := GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).
		Where("id = ? AND approval_status = ? AND is_suspended = ?", po.ID, expectedStatus, expectedSuspended).
		Updates(map[string]interface{}{
			"approval_status": po.ApprovalStatus,
			"is_suspended":    po.IsSuspended,
			"is_complete":     po.IsComplete,
			"total_amount":    po.TotalAmount,
			"total_cgst":      po.TotalCgst,
			"total_sgst":      po.TotalSgst,
			"total_igst":      po.TotalIgst,
			"total_discount":  po.TotalDiscount,
			"approved1_by":    po.Approved1By,
			"approved1_at":    po.Approved1At,
			"approved2_by":    po.Approved2By,
			"approved2_at":    po.Approved2At,
			"suspended_by":    po.SuspendedBy,
			"suspended_at":    po.SuspendedAt,
			"completed_by":    po.CompletedBy,
			"completed_at":    po.CompletedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *purchaseOrderRepository) ReplaceLines(ctx context.Context, poID uuid.UUID, lines []model.PurchaseOrderLine) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("purchase_order_id = ?", poID).Delete(&model.PurchaseOrderLine{}).Error; err != nil {
		return err
	}
	for i := range lines {
		lines[i].PurchaseOrderID = poID
	}
	return db.Create(&lines).Error
}

func (r *purchaseOrderRepository) SaveLines(ctx context.Context, lines []model.PurchaseOrderLine) error {
	db := GetDB(ctx, r.db)
	for i := range lines {
		if err := db.Save(&lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *purchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("purchase_order_id = ?", id).Delete(&model.PurchaseOrderLine{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.PurchaseOrder{}, "id = ?", id).Error
}

func (r *purchaseOrderRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).Where("order_number LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *purchaseOrderRepository) LockNumberPrefix(ctx context.Context, prefix string) error {
	// Advisory lock prevents concurrent duplicate order numbers
	return GetDB(ctx, r.db).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix).Error
}

// Sibling consumption uses the stage-effective quantity: approved_qty2 when
// present, else approved_qty1, else the requested quantity. Must run inside
// the same transaction as the write that would increase consumption.
func (r *purchaseOrderRepository) SumSiblingQtyForIndentLine(ctx context.Context, indentLineID, excludePO uuid.UUID) (decimal.Decimal, error) {
	return r.sumSiblingQty(ctx, "indent_line_id", indentLineID, excludePO)
}

func (r *purchaseOrderRepository) SumSiblingQtyForBoqLine(ctx context.Context, boqLineID, excludePO uuid.UUID) (decimal.Decimal, error) {
	return r.sumSiblingQty(ctx, "boq_line_id", boqLineID, excludePO)
}

func (r *purchaseOrderRepository) sumSiblingQty(ctx context.Context, column string, sourceLineID, excludePO uuid.UUID) (decimal.Decimal, error) {
	db := GetDB(ctx, r.db)

	// Serialize consumers of the same budget source for the rest of the
	// transaction. Under READ COMMITTED two concurrent orders would each sum
	// only committed rows and jointly overshoot the ceiling.
	if err := db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", sourceLineID.String()).Error; err != nil {
		return decimal.Zero, err
	}

	var sum decimal.NullDecimal
	err := db.Model(&model.PurchaseOrderLine{}).
		Select("SUM(COALESCE(approved_qty2, approved_qty1, quantity))").
		Where(column+" = ? AND purchase_order_id <> ?", sourceLineID, excludePO).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}
