package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/logger"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// BudgetIntegrationService keeps a project's derived expense ledger consistent
// with purchase-order approvals and delivery receipts, and aggregates both
// sides for dashboards.
//
// Contract: the sync operations are NOT idempotent. Callers invoke them
// exactly once per approval/receive event; invoking SyncPurchaseOrderToBudget
// twice for the same order creates two planned expenses. Failures propagate to
// the caller without retry or rollback, so a retried half-failed flow can
// leave duplicate or missing expense rows. This matches the historical
// behavior of the budget module and is relied upon by its callers.
type BudgetIntegrationService interface {
	SyncPurchaseOrderToBudget(ctx context.Context, order *model.PurchaseOrder) error
	SyncDeliveryToActualExpense(ctx context.Context, note *model.DeliveryNote) error
	RemovePurchaseOrderExpenses(ctx context.Context, purchaseOrderID uuid.UUID) (int64, error)
	GetIntegratedProjectFinancials(ctx context.Context, projectID uuid.UUID) (*model.ProjectFinancials, error)
}

type budgetIntegrationService struct {
	expenseRepo repository.ExpenseRepository
	orderRepo   repository.PurchaseOrderRepository
	events      EventPublisher
	log         zerolog.Logger
}

func NewBudgetIntegrationService(
	expenseRepo repository.ExpenseRepository,
	orderRepo repository.PurchaseOrderRepository,
	events EventPublisher,
) BudgetIntegrationService {
	return &budgetIntegrationService{
		expenseRepo: expenseRepo,
		orderRepo:   orderRepo,
		events:      events,
		log:         logger.WithComponent("budget_integration"),
	}
}

// SyncPurchaseOrderToBudget books an approved purchase order as a planned
// expense on its project. Orders in any other status are skipped silently.
func (s *budgetIntegrationService) SyncPurchaseOrderToBudget(ctx context.Context, order *model.PurchaseOrder) error {
	if order.Status != model.POStatusApproved {
		s.log.Debug().Str("order", order.OrderNumber).Str("status", string(order.Status)).
			Msg("purchase order not approved, sync skipped")
		return nil
	}

	date := order.OrderDate
	if order.ApprovedDate != nil {
		date = *order.ApprovedDate
	}

	expense := &model.Expense{
		Type:            "expense",
		Category:        model.CategoryForSupplierType(order.SupplierType),
		Amount:          order.TotalAmount,
		Description:     fmt.Sprintf("Purchase order %s - %s", order.OrderNumber, order.SupplierName),
		Date:            date,
		ProjectID:       order.ProjectID,
		PhaseID:         order.PhaseID,
		TaskID:          order.TaskID,
		PurchaseOrderID: &order.ID,
		Status:          model.ExpensePlanned,
		Tags:            mustJSONTags("purchase_order", string(order.SupplierType)),
		Attachments:     order.Attachments,
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return fmt.Errorf("failed to create planned expense for order %s: %w", order.OrderNumber, err)
	}

	s.log.Info().Str("order", order.OrderNumber).Str("expense_id", expense.ID.String()).
		Str("amount", expense.Amount.String()).Msg("planned expense created for purchase order")
	notify(s.events, "expenses", ChangeCreated, expense.ID.String())
	return nil
}

// SyncDeliveryToActualExpense converts the purchase order's planned expense to
// an actual one when a delivery is received, using the proportionally
// delivered amount. The lookup matches only status=planned rows, so the first
// delivery converts the planned record and every later delivery against the
// same order creates a fresh actual record of its own. Deliveries in any
// status other than received are skipped silently.
func (s *budgetIntegrationService) SyncDeliveryToActualExpense(ctx context.Context, note *model.DeliveryNote) error {
	if note.Status != model.DeliveryStatusReceived {
		s.log.Debug().Str("delivery", note.DeliveryNumber).Str("status", string(note.Status)).
			Msg("delivery not received, sync skipped")
		return nil
	}
	if note.PurchaseOrder == nil {
		return apperror.New(apperror.KindInvalid, "delivery note is missing its purchase order")
	}

	order := note.PurchaseOrder
	actualAmount := deliveredAmount(note)

	deliveredOn := note.DeliveryDate
	if note.ActualDeliveryDate != nil {
		deliveredOn = *note.ActualDeliveryDate
	}

	planned, err := s.expenseRepo.FindByPurchaseOrder(ctx, note.PurchaseOrderID, model.ExpensePlanned)
	if err != nil {
		return fmt.Errorf("failed to look up planned expenses for order %s: %w", order.OrderNumber, err)
	}

	if len(planned) > 0 {
		expense := planned[0]
		expense.Amount = actualAmount
		expense.Status = model.ExpenseActual
		expense.Description = fmt.Sprintf("%s - delivered %s", expense.Description, deliveredOn.Format("2006-01-02"))
		expense.DeliveryNoteID = &note.ID
		expense.UpdatedAt = time.Now()

		if err := s.expenseRepo.Update(ctx, &expense); err != nil {
			return fmt.Errorf("failed to convert planned expense for order %s: %w", order.OrderNumber, err)
		}

		s.log.Info().Str("delivery", note.DeliveryNumber).Str("expense_id", expense.ID.String()).
			Str("amount", actualAmount.String()).Msg("planned expense converted to actual")
		notify(s.events, "expenses", ChangeUpdated, expense.ID.String())
		return nil
	}

	// No planned expense left to convert: book this delivery as its own actual expense.
	expense := &model.Expense{
		Type:            "expense",
		Category:        model.CategoryForSupplierType(order.SupplierType),
		Amount:          actualAmount,
		Description:     fmt.Sprintf("Delivery %s - %s", note.DeliveryNumber, order.SupplierName),
		Date:            deliveredOn,
		ProjectID:       order.ProjectID,
		PhaseID:         order.PhaseID,
		TaskID:          order.TaskID,
		PurchaseOrderID: &note.PurchaseOrderID,
		DeliveryNoteID:  &note.ID,
		Status:          model.ExpenseActual,
		Tags:            mustJSONTags("delivery", string(order.SupplierType)),
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return fmt.Errorf("failed to create actual expense for delivery %s: %w", note.DeliveryNumber, err)
	}

	s.log.Info().Str("delivery", note.DeliveryNumber).Str("expense_id", expense.ID.String()).
		Str("amount", actualAmount.String()).Msg("actual expense created for delivery")
	notify(s.events, "expenses", ChangeCreated, expense.ID.String())
	return nil
}

// RemovePurchaseOrderExpenses deletes every expense back-referencing the
// purchase order and returns how many were removed. Used when a purchase order
// is deleted; callers delete the expenses first, then the order. The two
// deletes are not atomic: a crash in between leaves the order without its
// expenses, never the reverse.
func (s *budgetIntegrationService) RemovePurchaseOrderExpenses(ctx context.Context, purchaseOrderID uuid.UUID) (int64, error) {
	removed, err := s.expenseRepo.DeleteByPurchaseOrder(ctx, purchaseOrderID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expenses for purchase order %s: %w", purchaseOrderID, err)
	}

	s.log.Info().Str("purchase_order_id", purchaseOrderID.String()).Int64("removed", removed).
		Msg("purchase order expenses removed")
	if removed > 0 {
		notify(s.events, "expenses", ChangeDeleted, purchaseOrderID.String())
	}
	return removed, nil
}

// GetIntegratedProjectFinancials aggregates purchase orders and expenses into
// the project dashboard metrics. Pure read; safe to call concurrently.
func (s *budgetIntegrationService) GetIntegratedProjectFinancials(ctx context.Context, projectID uuid.UUID) (*model.ProjectFinancials, error) {
	orders, err := s.orderRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch purchase orders for project %s: %w", projectID, err)
	}

	expenses, err := s.expenseRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expenses for project %s: %w", projectID, err)
	}

	financials := &model.ProjectFinancials{
		TotalPurchaseOrders:          len(orders),
		TotalPurchaseOrderAmount:     decimal.Zero,
		TotalPlannedExpenses:         decimal.Zero,
		TotalActualExpenses:          decimal.Zero,
		ExpensesByCategory:           make(map[model.ExpenseCategory]model.CategoryTotal),
		PurchaseOrdersBySupplierType: make(map[model.SupplierType]model.CategoryTotal),
	}

	for _, order := range orders {
		financials.TotalPurchaseOrderAmount = financials.TotalPurchaseOrderAmount.Add(order.TotalAmount)
		switch order.Status {
		case model.POStatusApproved:
			financials.ApprovedPurchaseOrders++
		case model.POStatusPendingApproval:
			financials.PendingPurchaseOrders++
		}

		byType := financials.PurchaseOrdersBySupplierType[order.SupplierType]
		byType.Count++
		byType.Amount = byType.Amount.Add(order.TotalAmount)
		financials.PurchaseOrdersBySupplierType[order.SupplierType] = byType
	}

	for _, expense := range expenses {
		switch expense.Status {
		case model.ExpensePlanned:
			financials.TotalPlannedExpenses = financials.TotalPlannedExpenses.Add(expense.Amount)
		case model.ExpenseActual:
			financials.TotalActualExpenses = financials.TotalActualExpenses.Add(expense.Amount)
		}

		category := expense.Category
		if category == "" {
			category = model.CategoryOther
		}
		byCategory := financials.ExpensesByCategory[category]
		byCategory.Count++
		byCategory.Amount = byCategory.Amount.Add(expense.Amount)
		financials.ExpensesByCategory[category] = byCategory
	}

	return financials, nil
}

// deliveredAmount sums purchaseOrderItem.totalPrice * delivered/ordered over
// the delivery lines. Lines with no matching purchase-order item or with a
// zero ordered quantity contribute nothing.
func deliveredAmount(note *model.DeliveryNote) decimal.Decimal {
	orderItems := make(map[uuid.UUID]model.PurchaseOrderItem, len(note.PurchaseOrder.Items))
	for _, item := range note.PurchaseOrder.Items {
		orderItems[item.ID] = item
	}

	total := decimal.Zero
	for _, item := range note.Items {
		orderItem, ok := orderItems[item.PurchaseOrderItemID]
		if !ok {
			continue
		}
		if item.OrderedQuantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		total = total.Add(orderItem.TotalPrice.Mul(item.DeliveredQuantity).Div(item.OrderedQuantity))
	}
	return total
}

// mustJSONTags marshals tags to the JSON array shape the jsonb column expects.
func mustJSONTags(tags ...string) string {
	data, _ := json.Marshal(tags)
	return string(data)
}
