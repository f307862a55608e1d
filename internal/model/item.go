package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item represents a material item in the procurement catalog
type Item struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code      string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Unit      string         `gorm:"type:varchar(20);not null" json:"unit"` // MT, CUM, BAG, NOS...
	HsnCode   string         `gorm:"type:varchar(20)" json:"hsn_code"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
