package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus is the lifecycle state of a purchase order.
type PurchaseOrderStatus string

const (
	POStatusDraft              PurchaseOrderStatus = "draft"
	POStatusPendingApproval    PurchaseOrderStatus = "pending_approval"
	POStatusApproved           PurchaseOrderStatus = "approved"
	POStatusOrdered            PurchaseOrderStatus = "ordered"
	POStatusPartiallyDelivered PurchaseOrderStatus = "partially_delivered"
	POStatusDelivered          PurchaseOrderStatus = "delivered"
	POStatusCancelled          PurchaseOrderStatus = "cancelled"
)

// IsValid reports whether s is a known purchase order status.
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case POStatusDraft, POStatusPendingApproval, POStatusApproved, POStatusOrdered,
		POStatusPartiallyDelivered, POStatusDelivered, POStatusCancelled:
		return true
	}
	return false
}

// PurchaseOrder represents a commitment to buy goods/services from a supplier
// for a project (optionally tied to a phase and task).
//
// SupplierName and SupplierType are snapshots taken when the order is created:
// they stay stable even if the supplier record changes afterwards. Later
// statuses (ordered, partially_delivered, delivered, cancelled) are set by
// explicit workflow actions, not derived from deliveries.
type PurchaseOrder struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber string     `gorm:"type:varchar(30);uniqueIndex;not null" json:"order_number"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	PhaseID     *uuid.UUID `gorm:"type:uuid;index" json:"phase_id"`
	TaskID      *uuid.UUID `gorm:"type:uuid" json:"task_id"`

	SupplierID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Supplier     *Supplier    `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	SupplierName string       `gorm:"type:varchar(255);not null" json:"supplier_name"`
	SupplierType SupplierType `gorm:"type:varchar(20);not null" json:"supplier_type"`

	Status PurchaseOrderStatus `gorm:"type:varchar(30);not null;default:'draft';index" json:"status"`
	Items  []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE" json:"items"`

	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"tax_amount"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_amount"` // subtotal + tax_amount
	Currency    string          `gorm:"type:varchar(10);not null;default:'XOF'" json:"currency"`

	OrderDate             time.Time  `gorm:"not null" json:"order_date"`
	RequestedDeliveryDate *time.Time `json:"requested_delivery_date"`
	ApprovedDate          *time.Time `json:"approved_date"`

	RequestedBy   string `gorm:"type:varchar(255);not null" json:"requested_by"`
	ApprovedBy    string `gorm:"type:varchar(255)" json:"approved_by"`
	ApprovalNotes string `gorm:"type:text" json:"approval_notes"`

	DeliveryAddress      string `gorm:"type:text" json:"delivery_address"`
	DeliveryInstructions string `gorm:"type:text" json:"delivery_instructions"`
	Notes                string `gorm:"type:text" json:"notes"`
	Attachments          string `gorm:"type:jsonb" json:"attachments"` // JSON array of document URLs

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PurchaseOrderItem is a single line of a purchase order.
// TotalPrice = Quantity * UnitPrice, computed at entry time and not re-validated.
type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	Description     string          `gorm:"type:text" json:"description"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	Unit            string          `gorm:"type:varchar(30);not null" json:"unit"` // m2, kg, piece, ...
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_price"`
	TaxRate         decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"tax_rate"`
	Notes           string          `gorm:"type:text" json:"notes"`
}
