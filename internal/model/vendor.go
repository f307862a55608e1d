package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AddressType enum constants
const (
	AddressTypeBilling  = "BILLING"
	AddressTypeDelivery = "DELIVERY"
)

// Vendor represents a material or service supplier
type Vendor struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Gstin         string          `gorm:"type:varchar(15)" json:"gstin"`
	Pan           string          `gorm:"type:varchar(10)" json:"pan"`
	BankAccount   string          `gorm:"type:varchar(100)" json:"bank_account"`
	ContactPerson string          `gorm:"type:varchar(255)" json:"contact_person"`
	Phone         string          `gorm:"type:varchar(50)" json:"phone"`
	Email         string          `gorm:"type:varchar(255)" json:"email"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	Addresses     []VendorAddress `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"addresses"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// VendorAddress represents a vendor's address (Billing, Delivery)
type VendorAddress struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VendorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"vendor_id"`
	AddressType string    `gorm:"type:varchar(20);not null" json:"address_type"` // BILLING, DELIVERY
	FullAddress string    `gorm:"type:text;not null" json:"full_address"`
	IsDefault   bool      `gorm:"default:false" json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
