package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceItem is a reference price kept in the shared price library,
// used when drafting purchase orders and quotes.
type PriceItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Category  ExpenseCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	Unit      string          `gorm:"type:varchar(30);not null" json:"unit"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Currency  string          `gorm:"type:varchar(10);not null;default:'XOF'" json:"currency"`
	Region    string          `gorm:"type:varchar(100)" json:"region"`
	Source    string          `gorm:"type:varchar(255)" json:"source"` // where the reference price comes from
	ValidFrom time.Time       `json:"valid_from"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
