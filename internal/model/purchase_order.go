package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Approval status enum constants — exactly one holds at any time.
// IsSuspended overlays the first three and is tracked separately.
const (
	POApprovalDraft     = "DRAFT"
	POApprovalLevel1    = "APPROVED_LEVEL_1"
	POApprovalLevel2    = "APPROVED_LEVEL_2"
	POApprovalCompleted = "COMPLETED"
)

// Operational status enum constants — independent of the approval lifecycle
const (
	POStatusOpen        = "OPEN"
	POStatusOrderPlaced = "ORDER_PLACED"
	POStatusInTransit   = "IN_TRANSIT"
	POStatusReceived    = "RECEIVED"
	POStatusHold        = "HOLD"
)

// Charge status enum constants for transit insurance, transport charge and
// GST reverse charge. Only EXCLUSIVE charges are added to the header total.
const (
	ChargeExclusive     = "EXCLUSIVE"
	ChargeInclusive     = "INCLUSIVE"
	ChargeNotApplicable = "NOT_APPLICABLE"
)

// PurchaseOrder is the procurement document header. Financial totals are
// derived from the lines plus exclusive charges and are rewritten on every
// approval transition.
type PurchaseOrder struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber       string         `gorm:"type:varchar(30);uniqueIndex;not null" json:"order_number"` // Immutable once assigned
	OrderDate         time.Time      `gorm:"type:date;not null" json:"order_date"`
	DeliveryDate      time.Time      `gorm:"type:date;not null" json:"delivery_date"`
	SiteID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"site_id"`
	Site              *Site          `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	VendorID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor            *Vendor        `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	BillingAddressID  uuid.UUID      `gorm:"type:uuid;not null" json:"billing_address_id"`
	BillingAddress    *VendorAddress `gorm:"foreignKey:BillingAddressID" json:"billing_address,omitempty"`
	DeliveryAddressID uuid.UUID      `gorm:"type:uuid;not null" json:"delivery_address_id"`
	DeliveryAddress   *VendorAddress `gorm:"foreignKey:DeliveryAddressID" json:"delivery_address,omitempty"`
	PaymentTermID     *uuid.UUID     `gorm:"type:uuid" json:"payment_term_id"`
	PaymentTerm       *PaymentTerm   `gorm:"foreignKey:PaymentTermID" json:"payment_term,omitempty"`
	QuotationNumber   string         `gorm:"type:varchar(100);not null" json:"quotation_number"`
	QuotationDate     time.Time      `gorm:"type:date;not null" json:"quotation_date"`
	Transport         string         `gorm:"type:varchar(255)" json:"transport"`
	DeliverySchedule  string         `gorm:"type:text" json:"delivery_schedule"`
	Note              string         `gorm:"type:text" json:"note"`
	Terms             string         `gorm:"type:text" json:"terms"`

	ApprovalStatus string `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"approval_status"`
	IsSuspended    bool   `gorm:"not null;default:false" json:"is_suspended"`
	IsComplete     bool   `gorm:"not null;default:false" json:"is_complete"`
	PoStatus       string `gorm:"type:varchar(20);not null;default:'OPEN'" json:"po_status"` // OPEN, ORDER_PLACED, IN_TRANSIT, RECEIVED, HOLD
	BillStatus     string `gorm:"type:varchar(255)" json:"bill_status"`
	Remarks        string `gorm:"type:text" json:"remarks"`

	// Supplementary charges: status enum + amount kept in separate columns.
	TransitInsuranceStatus string          `gorm:"type:varchar(20);not null;default:'NOT_APPLICABLE'" json:"transit_insurance_status"`
	TransitInsuranceAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"transit_insurance_amount"`
	TransportChargeStatus  string          `gorm:"type:varchar(20);not null;default:'NOT_APPLICABLE'" json:"transport_charge_status"`
	TransportChargeAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"transport_charge_amount"`
	GstReverseStatus       string          `gorm:"type:varchar(20);not null;default:'NOT_APPLICABLE'" json:"gst_reverse_status"`
	GstReverseAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"gst_reverse_amount"`

	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_amount"`
	TotalCgst     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_cgst"`
	TotalSgst     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_sgst"`
	TotalIgst     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_igst"`
	TotalDiscount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_discount"`

	CreatedBy   *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	Creator     *User      `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Approved1By *uuid.UUID `gorm:"type:uuid" json:"approved1_by"`
	Approver1   *User      `gorm:"foreignKey:Approved1By" json:"approver1,omitempty"`
	Approved1At *time.Time `json:"approved1_at"`
	Approved2By *uuid.UUID `gorm:"type:uuid" json:"approved2_by"`
	Approver2   *User      `gorm:"foreignKey:Approved2By" json:"approver2,omitempty"`
	Approved2At *time.Time `json:"approved2_at"`
	SuspendedBy *uuid.UUID `gorm:"type:uuid" json:"suspended_by"`
	SuspendedAt *time.Time `json:"suspended_at"`
	CompletedBy *uuid.UUID `gorm:"type:uuid" json:"completed_by"`
	CompletedAt *time.Time `json:"completed_at"`

	Lines []PurchaseOrderLine `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE" json:"lines"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectiveQty returns the quantity the amounts of this line are based on at
// the given approval status: requested quantity while DRAFT, approved
// quantity 1 after level-1, approved quantity 2 after level-2.
func (l *PurchaseOrderLine) EffectiveQty(approvalStatus string) decimal.Decimal {
	switch approvalStatus {
	case POApprovalLevel1:
		if l.ApprovedQty1 != nil {
			return *l.ApprovedQty1
		}
	case POApprovalLevel2, POApprovalCompleted:
		if l.ApprovedQty2 != nil {
			return *l.ApprovedQty2
		}
		if l.ApprovedQty1 != nil {
			return *l.ApprovedQty1
		}
	}
	return l.Quantity
}

// PurchaseOrderLine is owned exclusively by one PurchaseOrder and deleted
// with it. ApprovedQty1/2 stay null until the corresponding approval stage.
type PurchaseOrderLine struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PurchaseOrderID uuid.UUID `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	ItemID          uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	Item            *Item     `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Remark          string    `gorm:"type:text" json:"remark"`

	Quantity     decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"quantity"` // Requested quantity
	OrderedQty   decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0" json:"ordered_qty"` // Snapshot taken at level-1 approval
	ApprovedQty1 *decimal.Decimal `gorm:"type:decimal(18,4)" json:"approved_qty1"`
	ApprovedQty2 *decimal.Decimal `gorm:"type:decimal(18,4)" json:"approved_qty2"`

	Rate            decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"rate"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(7,2);not null;default:0" json:"discount_percent"`
	DisAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"dis_amount"`
	CgstPercent     decimal.Decimal `gorm:"type:decimal(7,2);not null;default:0" json:"cgst_percent"`
	CgstAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"cgst_amount"`
	SgstPercent     decimal.Decimal `gorm:"type:decimal(7,2);not null;default:0" json:"sgst_percent"`
	SgstAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"sgst_amount"`
	IgstPercent     decimal.Decimal `gorm:"type:decimal(7,2);not null;default:0" json:"igst_percent"`
	IgstAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"igst_amount"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"amount"`

	// Optional back-references to the budget ceiling source
	IndentLineID *uuid.UUID `gorm:"type:uuid;index" json:"indent_line_id"`
	IndentLine   *IndentLine `gorm:"foreignKey:IndentLineID" json:"indent_line,omitempty"`
	BoqLineID    *uuid.UUID `gorm:"type:uuid;index" json:"boq_line_id"`
	BoqLine      *BOQLine   `gorm:"foreignKey:BoqLineID" json:"boq_line,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
