package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IndentStatus enum constants
const (
	IndentStatusOpen   = "OPEN"
	IndentStatusClosed = "CLOSED"
)

// Indent is an internal material request a purchase order may be generated
// against. Its approved line quantities cap the quantities orderable from it.
type Indent struct {
	ID           uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	IndentNumber string       `gorm:"type:varchar(30);uniqueIndex;not null" json:"indent_number"`
	SiteID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"site_id"`
	Site         *Site        `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	Status       string       `gorm:"type:varchar(20);not null;default:'OPEN'" json:"status"`
	Note         string       `gorm:"type:text" json:"note"`
	Lines        []IndentLine `gorm:"foreignKey:IndentID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedBy    *uuid.UUID   `gorm:"type:uuid" json:"created_by"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IndentLine holds the approved quantity and rate ceiling for one item
type IndentLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	IndentID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"indent_id"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item        *Item           `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	ApprovedQty decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"approved_qty"`
	MaxRate     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"max_rate"`
	MaxValue    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"max_value"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
