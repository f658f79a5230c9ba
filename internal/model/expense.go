package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseStatus distinguishes committed-but-unfulfilled costs from realized ones.
type ExpenseStatus string

const (
	ExpensePlanned ExpenseStatus = "planned" // approved purchase order, nothing delivered yet
	ExpenseActual  ExpenseStatus = "actual"  // realized cost after a received delivery
)

// ExpenseCategory groups expenses for dashboard breakdowns.
type ExpenseCategory string

const (
	CategoryMaterials ExpenseCategory = "materials"
	CategoryEquipment ExpenseCategory = "equipment"
	CategoryLabor     ExpenseCategory = "labor"
	CategoryTransport ExpenseCategory = "transport"
	CategoryPermits   ExpenseCategory = "permits"
	CategoryOther     ExpenseCategory = "other"
)

// IsValid reports whether c is a known expense category.
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case CategoryMaterials, CategoryEquipment, CategoryLabor, CategoryTransport, CategoryPermits, CategoryOther:
		return true
	}
	return false
}

// CategoryForSupplierType maps a supplier type onto an expense category.
//
// This is the canonical table used by budget reconciliation: services buys are
// booked as labor, and every type outside the four mapped ones (including the
// legacy labor/permits/utilities supplier types) deliberately lands in "other".
func CategoryForSupplierType(t SupplierType) ExpenseCategory {
	switch t {
	case SupplierTypeMaterials:
		return CategoryMaterials
	case SupplierTypeEquipment:
		return CategoryEquipment
	case SupplierTypeServices:
		return CategoryLabor
	case SupplierTypeTransport:
		return CategoryTransport
	default:
		// Explicit policy: unknown and legacy supplier types are booked as "other".
		return CategoryOther
	}
}

// Expense is a financial record derived from purchase-order approvals and
// delivery receipts. Rows are owned by the budget integration service and are
// not edited directly by users.
//
// Note: the manual Transaction ledger is a separate, parallel set of records;
// the two are intentionally not reconciled with each other.
type Expense struct {
	ID       uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Type     string          `gorm:"type:varchar(20);not null;default:'expense'" json:"type"`
	Category ExpenseCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	Amount   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`

	Description string    `gorm:"type:text" json:"description"`
	Date        time.Time `gorm:"not null" json:"date"`

	ProjectID uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	PhaseID   *uuid.UUID `gorm:"type:uuid" json:"phase_id"`
	TaskID    *uuid.UUID `gorm:"type:uuid" json:"task_id"`

	PurchaseOrderID *uuid.UUID `gorm:"type:uuid;index" json:"purchase_order_id"`
	DeliveryNoteID  *uuid.UUID `gorm:"type:uuid;index" json:"delivery_note_id"`

	Status ExpenseStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	Tags        string `gorm:"type:jsonb" json:"tags"`        // JSON array of strings
	Attachments string `gorm:"type:jsonb" json:"attachments"` // JSON array of document URLs

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
