package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BOQ is a bill-of-quantities target for a site: the catalog of items and
// budgeted quantities purchase orders are raised against.
type BOQ struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BoqNumber string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"boq_number"`
	SiteID    uuid.UUID `gorm:"type:uuid;not null;index" json:"site_id"`
	Site      *Site     `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Note      string    `gorm:"type:text" json:"note"`
	Lines     []BOQLine `gorm:"foreignKey:BoqID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BOQLine carries the ceilings the budget guard validates against:
// target quantity per month, ceiling rate and ceiling value per item.
type BOQLine struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BoqID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"boq_id"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item       *Item           `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	TargetQty  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"target_qty"`   // Total allotted quantity
	MonthlyQty decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"monthly_qty"` // Monthly quota, apportioned by date window
	MaxRate    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"max_rate"`
	MaxValue   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"max_value"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
