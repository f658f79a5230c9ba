package model

import "github.com/shopspring/decimal"

// CategoryTotal accumulates a count and a summed amount for one grouping key.
type CategoryTotal struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// ProjectFinancials is the integrated dashboard view combining purchase
// orders and the derived expense ledger for one project.
type ProjectFinancials struct {
	TotalPurchaseOrders      int             `json:"total_purchase_orders"`
	TotalPurchaseOrderAmount decimal.Decimal `json:"total_purchase_order_amount"`
	ApprovedPurchaseOrders   int             `json:"approved_purchase_orders"`
	PendingPurchaseOrders    int             `json:"pending_purchase_orders"`

	TotalPlannedExpenses decimal.Decimal `json:"total_planned_expenses"`
	TotalActualExpenses  decimal.Decimal `json:"total_actual_expenses"`

	ExpensesByCategory           map[ExpenseCategory]CategoryTotal `json:"expenses_by_category"`
	PurchaseOrdersBySupplierType map[SupplierType]CategoryTotal    `json:"purchase_orders_by_supplier_type"`
}

// PurchaseOrderStats summarizes purchase orders across one project or the whole account.
type PurchaseOrderStats struct {
	TotalOrders       int             `json:"total_orders"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	PendingApproval   int             `json:"pending_approval"`
	Approved          int             `json:"approved"`
	Delivered         int             `json:"delivered"`
	Cancelled         int             `json:"cancelled"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	TopSuppliers      []SupplierRank  `json:"top_suppliers"`
}

// SupplierRank ranks a supplier by order volume.
type SupplierRank struct {
	SupplierID   string          `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	OrderCount   int             `json:"order_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// DeliveryStats summarizes delivery performance.
type DeliveryStats struct {
	TotalDeliveries     int     `json:"total_deliveries"`
	OnTimeDeliveries    int     `json:"on_time_deliveries"`
	LateDeliveries      int     `json:"late_deliveries"`
	RejectedDeliveries  int     `json:"rejected_deliveries"`
	AverageDeliveryDays float64 `json:"average_delivery_days"`
	QualityScore        float64 `json:"quality_score"` // % of deliveries in good overall condition
}
