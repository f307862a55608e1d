package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InwardChallan records a delivery received against a purchase order.
// Document scans live in external storage; only the URL is kept here.
type InwardChallan struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ChallanNumber   string              `gorm:"type:varchar(100);not null" json:"challan_number"`
	ChallanDate     time.Time           `gorm:"type:date;not null" json:"challan_date"`
	PurchaseOrderID uuid.UUID           `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	PurchaseOrder   *PurchaseOrder      `gorm:"foreignKey:PurchaseOrderID" json:"purchase_order,omitempty"`
	VehicleNumber   string              `gorm:"type:varchar(30)" json:"vehicle_number"`
	DocumentURL     string              `gorm:"type:text" json:"document_url"`
	Note            string              `gorm:"type:text" json:"note"`
	Lines           []InwardChallanLine `gorm:"foreignKey:ChallanID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedBy       *uuid.UUID          `gorm:"type:uuid" json:"created_by"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// InwardChallanLine records the received quantity for one PO line
type InwardChallanLine struct {
	ID          uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ChallanID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"challan_id"`
	PoLineID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"po_line_id"`
	PoLine      *PurchaseOrderLine `gorm:"foreignKey:PoLineID" json:"po_line,omitempty"`
	ReceivedQty decimal.Decimal    `gorm:"type:decimal(18,4);not null" json:"received_qty"`
	Remark      string             `gorm:"type:text" json:"remark"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
