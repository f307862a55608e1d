package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RentalCategory is a master record for rented equipment categories
type RentalCategory struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	DailyRate   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"daily_rate"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Manpower is a master record for site labour categories
type Manpower struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Category  string          `gorm:"type:varchar(255);not null" json:"category"` // mason, carpenter, helper...
	SiteID    *uuid.UUID      `gorm:"type:uuid;index" json:"site_id"`
	Site      *Site           `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	Headcount int             `gorm:"type:int;not null;default:0" json:"headcount"`
	DailyWage decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"daily_wage"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}
