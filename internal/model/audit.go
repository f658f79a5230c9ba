package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreatePurchaseOrder  = "CREATE_PURCHASE_ORDER"
	ActionUpdatePurchaseOrder  = "UPDATE_PURCHASE_ORDER"
	ActionApprovePurchaseOrder = "APPROVE_PURCHASE_ORDER"
	ActionDeletePurchaseOrder  = "DELETE_PURCHASE_ORDER"

	ActionCreateDeliveryNote = "CREATE_DELIVERY_NOTE"
	ActionReceiveDelivery    = "RECEIVE_DELIVERY"

	// Budget reconciliation side effects
	ActionSyncPlannedExpense  = "SYNC_PLANNED_EXPENSE"
	ActionSyncActualExpense   = "SYNC_ACTUAL_EXPENSE"
	ActionRemovePOExpenses    = "REMOVE_PURCHASE_ORDER_EXPENSES"

	ActionCreateSupplier    = "CREATE_SUPPLIER"
	ActionUpdateSupplier    = "UPDATE_SUPPLIER"
	ActionCreateTransaction = "CREATE_TRANSACTION"
	ActionDeleteTransaction = "DELETE_TRANSACTION"
	ActionCreateProject     = "CREATE_PROJECT"
	ActionCreatePriceItem   = "CREATE_PRICE_ITEM"
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
