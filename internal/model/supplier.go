package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SupplierType classifies what a supplier provides.
type SupplierType string

const (
	SupplierTypeMaterials SupplierType = "materials"
	SupplierTypeEquipment SupplierType = "equipment"
	SupplierTypeServices  SupplierType = "services"
	SupplierTypeTransport SupplierType = "transport"

	// Legacy values still present in older supplier rows.
	SupplierTypeLabor     SupplierType = "labor"
	SupplierTypePermits   SupplierType = "permits"
	SupplierTypeUtilities SupplierType = "utilities"
)

// IsValid reports whether t is a known supplier type (legacy values included).
func (t SupplierType) IsValid() bool {
	switch t {
	case SupplierTypeMaterials, SupplierTypeEquipment, SupplierTypeServices,
		SupplierTypeTransport, SupplierTypeLabor, SupplierTypePermits, SupplierTypeUtilities:
		return true
	}
	return false
}

// Supplier represents a vendor that projects order materials, equipment or services from
type Supplier struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Type         SupplierType   `gorm:"type:varchar(20);not null;index" json:"type"` // materials, equipment, services, transport (+ legacy values)
	ContactName  string         `gorm:"type:varchar(255)" json:"contact_name"`
	Email        string         `gorm:"type:varchar(255)" json:"email"`
	Phone        string         `gorm:"type:varchar(50)" json:"phone"`
	Address      string         `gorm:"type:text" json:"address"`
	City         string         `gorm:"type:varchar(100)" json:"city"`
	PostalCode   string         `gorm:"type:varchar(20)" json:"postal_code"`
	Country      string         `gorm:"type:varchar(100)" json:"country"`
	TaxNumber    string         `gorm:"type:varchar(50)" json:"tax_number"`
	PaymentTerms int            `gorm:"default:30" json:"payment_terms"` // Days until payment is due
	Rating       int            `gorm:"default:0" json:"rating"`         // 1-5, 0 = unrated
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
