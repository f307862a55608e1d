package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreatePO       = "CREATE_PURCHASE_ORDER"
	ActionUpdatePO       = "UPDATE_PURCHASE_ORDER"
	ActionDeletePO       = "DELETE_PURCHASE_ORDER"
	ActionApprovePO1     = "APPROVE_PO_LEVEL_1"
	ActionApprovePO2     = "APPROVE_PO_LEVEL_2"
	ActionCompletePO     = "COMPLETE_PURCHASE_ORDER"
	ActionSuspendPO      = "SUSPEND_PURCHASE_ORDER"
	ActionUnsuspendPO    = "UNSUSPEND_PURCHASE_ORDER"
	ActionUpdatePOStatus = "UPDATE_PO_OPERATIONAL_STATUS"

	ActionCreateBOQ     = "CREATE_BOQ"
	ActionUpdateBOQ     = "UPDATE_BOQ"
	ActionCreateIndent  = "CREATE_INDENT"
	ActionCreateChallan = "CREATE_INWARD_CHALLAN"
	ActionCreateVendor  = "CREATE_VENDOR"
	ActionUpdateVendor  = "UPDATE_VENDOR"

	ActionCreateUser = "CREATE_USER"
	ActionUpdateUser = "UPDATE_USER"
	ActionDeleteUser = "DELETE_USER"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated bot
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/code)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
