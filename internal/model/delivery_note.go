package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryStatus is the lifecycle state of a delivery note.
type DeliveryStatus string

const (
	DeliveryStatusPending           DeliveryStatus = "pending"
	DeliveryStatusInTransit         DeliveryStatus = "in_transit"
	DeliveryStatusDelivered         DeliveryStatus = "delivered"
	DeliveryStatusPartiallyReceived DeliveryStatus = "partially_received"
	DeliveryStatusReceived          DeliveryStatus = "received"
	DeliveryStatusRejected          DeliveryStatus = "rejected"
)

// IsValid reports whether s is a known delivery status.
func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryStatusPending, DeliveryStatusInTransit, DeliveryStatusDelivered,
		DeliveryStatusPartiallyReceived, DeliveryStatusReceived, DeliveryStatusRejected:
		return true
	}
	return false
}

// DeliveryItemStatus is derived from delivered vs ordered quantity.
type DeliveryItemStatus string

const (
	DeliveryItemPending   DeliveryItemStatus = "pending"
	DeliveryItemPartial   DeliveryItemStatus = "partial"
	DeliveryItemDelivered DeliveryItemStatus = "delivered"
	DeliveryItemExcess    DeliveryItemStatus = "excess"
)

// ItemCondition describes the physical state of a received item.
type ItemCondition string

const (
	ConditionGood      ItemCondition = "good"
	ConditionDamaged   ItemCondition = "damaged"
	ConditionDefective ItemCondition = "defective"
)

// OverallCondition grades an entire delivery.
type OverallCondition string

const (
	OverallExcellent  OverallCondition = "excellent"
	OverallGood       OverallCondition = "good"
	OverallAcceptable OverallCondition = "acceptable"
	OverallPoor       OverallCondition = "poor"
	OverallRejected   OverallCondition = "rejected"
)

// surplusTolerance: delivering more than 110% of the ordered quantity is
// flagged to the caller but never rejected here.
var surplusTolerance = decimal.NewFromFloat(1.10)

// DeliveryNote records goods received against a purchase order, with
// per-item delivered quantity and condition.
type DeliveryNote struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DeliveryNumber  string         `gorm:"type:varchar(30);uniqueIndex;not null" json:"delivery_number"`
	PurchaseOrderID uuid.UUID      `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	PurchaseOrder   *PurchaseOrder `gorm:"foreignKey:PurchaseOrderID" json:"purchase_order,omitempty"`

	Status DeliveryStatus     `gorm:"type:varchar(30);not null;default:'pending';index" json:"status"`
	Items  []DeliveryNoteItem `gorm:"foreignKey:DeliveryNoteID;constraint:OnDelete:CASCADE" json:"items"`

	DeliveryDate       time.Time  `gorm:"not null" json:"delivery_date"`
	ActualDeliveryDate *time.Time `json:"actual_delivery_date"`

	DeliveredBy string `gorm:"type:varchar(255)" json:"delivered_by"`
	ReceivedBy  string `gorm:"type:varchar(255)" json:"received_by"`

	QualityCheck     bool             `gorm:"default:false" json:"quality_check"`
	QualityNotes     string           `gorm:"type:text" json:"quality_notes"`
	OverallCondition OverallCondition `gorm:"type:varchar(20)" json:"overall_condition"`

	DeliveryLocation string `gorm:"type:text" json:"delivery_location"`
	Notes            string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeliveryNoteItem tracks what was delivered against a single purchase order line.
type DeliveryNoteItem struct {
	ID                  uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DeliveryNoteID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"delivery_note_id"`
	PurchaseOrderItemID uuid.UUID          `gorm:"type:uuid;not null;index" json:"purchase_order_item_id"`
	Name                string             `gorm:"type:varchar(255);not null" json:"name"`
	OrderedQuantity     decimal.Decimal    `gorm:"type:decimal(18,4);not null" json:"ordered_quantity"`
	DeliveredQuantity   decimal.Decimal    `gorm:"type:decimal(18,4);not null" json:"delivered_quantity"`
	Unit                string             `gorm:"type:varchar(30);not null" json:"unit"`
	Status              DeliveryItemStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Condition           ItemCondition      `gorm:"type:varchar(20);not null;default:'good'" json:"condition"`
	Notes               string             `gorm:"type:text" json:"notes"`
}

// DeriveDeliveryItemStatus classifies a delivery line by comparing delivered
// and ordered quantities.
func DeriveDeliveryItemStatus(ordered, delivered decimal.Decimal) DeliveryItemStatus {
	switch {
	case delivered.LessThanOrEqual(decimal.Zero):
		return DeliveryItemPending
	case delivered.LessThan(ordered):
		return DeliveryItemPartial
	case delivered.Equal(ordered):
		return DeliveryItemDelivered
	default:
		return DeliveryItemExcess
	}
}

// ExceedsSurplusTolerance reports whether delivered is more than 10% above
// the ordered quantity. Zero ordered quantity never trips the tolerance.
func ExceedsSurplusTolerance(ordered, delivered decimal.Decimal) bool {
	if ordered.LessThanOrEqual(decimal.Zero) {
		return false
	}
	return delivered.GreaterThan(ordered.Mul(surplusTolerance))
}
