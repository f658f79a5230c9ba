package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType enum constants
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is a manually entered income/expense entry.
//
// This ledger is independent of the derived Expense records produced by
// budget reconciliation: the two are parallel and never reconciled with each
// other. Keep that in mind when reading project totals from either side.
type Transaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	Type          TransactionType `gorm:"type:varchar(10);not null;index" json:"type"`
	Category      string          `gorm:"type:varchar(50)" json:"category"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Description   string          `gorm:"type:text" json:"description"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	PaymentMethod string          `gorm:"type:varchar(30)" json:"payment_method"` // cash, bank_transfer, check, mobile_money
	Reference     string          `gorm:"type:varchar(100)" json:"reference"`     // external receipt / invoice number
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
