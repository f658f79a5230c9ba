package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approvedOrder(supplierType model.SupplierType, total string) *model.PurchaseOrder {
	approvedAt := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	return &model.PurchaseOrder{
		ID:           uuid.New(),
		OrderNumber:  "BA-20240310-1234",
		ProjectID:    uuid.New(),
		SupplierID:   uuid.New(),
		SupplierName: "Ciments du Sahel",
		SupplierType: supplierType,
		Status:       model.POStatusApproved,
		TotalAmount:  decimal.RequireFromString(total),
		OrderDate:    approvedAt.AddDate(0, 0, -3),
		ApprovedDate: &approvedAt,
		Attachments:  "[]",
	}
}

func TestSyncPurchaseOrderToBudget_CreatesPlannedExpense(t *testing.T) {
	expenseRepo := &fakeExpenseRepo{}
	events := &fakeEvents{}
	svc := NewBudgetIntegrationService(expenseRepo, &fakeOrderRepo{}, events)

	order := approvedOrder(model.SupplierTypeMaterials, "150000")
	require.NoError(t, svc.SyncPurchaseOrderToBudget(context.Background(), order))

	require.Len(t, expenseRepo.expenses, 1)
	expense := expenseRepo.expenses[0]
	assert.Equal(t, model.ExpensePlanned, expense.Status)
	assert.Equal(t, model.CategoryMaterials, expense.Category)
	assert.True(t, expense.Amount.Equal(decimal.RequireFromString("150000")))
	assert.Equal(t, "Purchase order BA-20240310-1234 - Ciments du Sahel", expense.Description)
	assert.Equal(t, order.ProjectID, expense.ProjectID)
	require.NotNil(t, expense.PurchaseOrderID)
	assert.Equal(t, order.ID, *expense.PurchaseOrderID)
	assert.Equal(t, *order.ApprovedDate, expense.Date)
	assert.JSONEq(t, `["purchase_order","materials"]`, expense.Tags)

	require.Len(t, events.events, 1)
	assert.Equal(t, "expenses", events.events[0].Collection)
	assert.Equal(t, ChangeCreated, events.events[0].Action)
}

func TestSyncPurchaseOrderToBudget_ServicesBooksAsLabor(t *testing.T) {
	expenseRepo := &fakeExpenseRepo{}
	svc := NewBudgetIntegrationService(expenseRepo, &fakeOrderRepo{}, nil)

	order := approvedOrder(model.SupplierTypeServices, "80000")
	require.NoError(t, svc.SyncPurchaseOrderToBudget(context.Background(), order))

	require.Len(t, expenseRepo.expenses, 1)
	assert.Equal(t, model.CategoryLabor, expenseRepo.expenses[0].Category)
}

func TestSyncPurchaseOrderToBudget_SkipsNonApprovedStatuses(t *testing.T) {
	for _, status := range []model.PurchaseOrderStatus{
		model.POStatusDraft, model.POStatusPendingApproval, model.POStatusOrdered,
		model.POStatusDelivered, model.POStatusCancelled,
	} {
		expenseRepo := &fakeExpenseRepo{}
		svc := NewBudgetIntegrationService(expenseRepo, &fakeOrderRepo{}, nil)

		order := approvedOrder(model.SupplierTypeMaterials, "150000")
		order.Status = status

		require.NoError(t, svc.SyncPurchaseOrderToBudget(context.Background(), order))
		assert.Empty(t, expenseRepo.expenses, "status %s must not create an expense", status)
	}
}

func TestSyncPurchaseOrderToBudget_FallsBackToOrderDate(t *testing.T) {
	expenseRepo := &fakeExpenseRepo{}
	svc := NewBudgetIntegrationService(expenseRepo, &fakeOrderRepo{}, nil)

	order := approvedOrder(model.SupplierTypeEquipment, "5000")
	order.ApprovedDate = nil

	require.NoError(t, svc.SyncPurchaseOrderToBudget(context.Background(), order))
	require.Len(t, expenseRepo.expenses, 1)
	assert.Equal(t, order.OrderDate, expenseRepo.expenses[0].Date)
}

func TestSyncPurchaseOrderToBudget_NotIdempotent(t *testing.T) {
	expenseRepo := &fakeExpenseRepo{}
	svc := NewBudgetIntegrationService(expenseRepo, &fakeOrderRepo{}, nil)

	order := approvedOrder(model.SupplierTypeMaterials, "150000")
	require.NoError(t, svc.SyncPurchaseOrderToBudget(context.Background(), order))
	require.NoError(t, svc.SyncPurchaseOrderToBudget(context.Background(), order))

	// Two calls, two planned expenses: callers own the once-per-event contract.
	assert.Len(t, expenseRepo.expenses, 2)
}

// receivedNote builds a received delivery note against an order with two
// lines: 4 units at 100 (total 400) and 3 units at 200 (total 600).
func receivedNote() *model.DeliveryNote {
	order := approvedOrder(model.SupplierTypeMaterials, "1000")
	itemA := model.PurchaseOrderItem{
		ID: uuid.New(), PurchaseOrderID: order.ID, Name: "Cement",
		Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(100), TotalPrice: decimal.NewFromInt(400),
	}
	itemB := model.PurchaseOrderItem{
		ID: uuid.New(), PurchaseOrderID: order.ID, Name: "Rebar",
		Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(200), TotalPrice: decimal.NewFromInt(600),
	}
	order.Items = []model.PurchaseOrderItem{itemA, itemB}

	receivedAt := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	return &model.DeliveryNote{
		ID:              uuid.New(),
		DeliveryNumber:  "BL-20240402-5678",
		PurchaseOrderID: order.ID,
		PurchaseOrder:   order,
		Status:          model.DeliveryStatusReceived,
		DeliveryDate:    receivedAt.AddDate(0, 0, -1),
		ActualDeliveryDate: &receivedAt,
		Items: []model.DeliveryNoteItem{
			{PurchaseOrderItemID: itemA.ID, OrderedQuantity: itemA.Quantity, DeliveredQuantity: decimal.NewFromInt(2)},
			{PurchaseOrderItemID: itemB.ID, OrderedQuantity: itemB.Quantity, DeliveredQuantity: decimal.NewFromInt(1)},
		},
	}
}

func TestSyncDeliveryToActualExpense_ConvertsPlannedExpense(t *testing.T) {
	note := receivedNote()
	order := note.PurchaseOrder

	expenseRepo := &fakeExpenseRepo{}
	planned := &model.Expense{
		Type:            "expense",
		Category:        model.CategoryMaterials,
		Amount:          order.TotalAmount,
		Description:     "Purchase order BA-20240310-1234 - Ciments du Sahel",
		Date:            order.OrderDate,
		ProjectID:       order.ProjectID,
		PurchaseOrderID: &order.ID,
		Status:          model.ExpensePlanned,
	}
	require.NoError(t, expenseRepo.Create(context.Background(), planned))

	svc := NewBudgetIntegrationService(expenseRepo, &fakeOrderRepo{}, nil)
	require.NoError(t, svc.SyncDeliveryToActualExpense(context.Background(), note))

	require.Len(t, expenseRepo.expenses, 1)
	expense := expenseRepo.expenses[0]
	assert.Equal(t, model.ExpenseActual, expense.Status)
	// 400 * 2/4 + 600 * 1/3 = 200 + 200
	assert.True(t, expense.Amount.Equal(decimal.NewFromInt(400)), "got %s", expense.Amount)
	assert.Equal(t, "Purchase order BA-20240310-1234 - Ciments du Sahel - delivered 2024-04-02", expense.Description)
	require.NotNil(t, expense.DeliveryNoteID)
	assert.Equal(t, note.ID, *expense.DeliveryNoteID)
}

func TestSyncDeliveryToActualExpense_SecondDeliveryCreatesNewActual(t *testing.T) {
	note := receivedNote()
	order := note.PurchaseOrder

	expenseRepo := &fakeExpenseRepo{}
	actual := &model.Expense{
		Type:            "expense",
		Category:        model.CategoryMaterials,
		Amount:          decimal.NewFromInt(400),
		ProjectID:       order.ProjectID,
		PurchaseOrderID: &order.ID,
		Status:          model.ExpenseActual, // already converted by an earlier delivery
	}
	require.NoError(t, expenseRepo.Create(context.Background(), actual))

	svc := NewBudgetIntegrationService(expenseRepo, &fakeOrderRepo{}, nil)
	require.NoError(t, svc.SyncDeliveryToActualExpense(context.Background(), note))

	require.Len(t, expenseRepo.expenses, 2)
	created := expenseRepo.expenses[1]
	assert.Equal(t, model.ExpenseActual, created.Status)
	assert.Equal(t, "Delivery BL-20240402-5678 - Ciments du Sahel", created.Description)
	assert.True(t, created.Amount.Equal(decimal.NewFromInt(400)))
	assert.JSONEq(t, `["delivery","materials"]`, created.Tags)
}

func TestSyncDeliveryToActualExpense_SkipsNonReceived(t *testing.T) {
	note := receivedNote()
	note.Status = model.DeliveryStatusInTransit

	expenseRepo := &fakeExpenseRepo{}
	svc := NewBudgetIntegrationService(expenseRepo, &fakeOrderRepo{}, nil)

	require.NoError(t, svc.SyncDeliveryToActualExpense(context.Background(), note))
	assert.Empty(t, expenseRepo.expenses)
}

func TestSyncDeliveryToActualExpense_MissingOrderIsInvalid(t *testing.T) {
	note := receivedNote()
	note.PurchaseOrder = nil

	svc := NewBudgetIntegrationService(&fakeExpenseRepo{}, &fakeOrderRepo{}, nil)
	err := svc.SyncDeliveryToActualExpense(context.Background(), note)

	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalid, apperror.KindOf(err))
}

func TestSyncDeliveryToActualExpense_IgnoresUnmatchedAndZeroOrderedLines(t *testing.T) {
	note := receivedNote()

	// A line pointing at no known purchase order item and a line whose ordered
	// quantity is zero both contribute nothing.
	note.Items = append(note.Items,
		model.DeliveryNoteItem{PurchaseOrderItemID: uuid.New(), OrderedQuantity: decimal.NewFromInt(5), DeliveredQuantity: decimal.NewFromInt(5)},
		model.DeliveryNoteItem{PurchaseOrderItemID: note.PurchaseOrder.Items[0].ID, OrderedQuantity: decimal.Zero, DeliveredQuantity: decimal.NewFromInt(2)},
	)

	expenseRepo := &fakeExpenseRepo{}
	svc := NewBudgetIntegrationService(expenseRepo, &fakeOrderRepo{}, nil)
	require.NoError(t, svc.SyncDeliveryToActualExpense(context.Background(), note))

	require.Len(t, expenseRepo.expenses, 1)
	assert.True(t, expenseRepo.expenses[0].Amount.Equal(decimal.NewFromInt(400)), "got %s", expenseRepo.expenses[0].Amount)
}

func TestRemovePurchaseOrderExpenses(t *testing.T) {
	orderID := uuid.New()
	otherID := uuid.New()

	expenseRepo := &fakeExpenseRepo{}
	for _, poID := range []uuid.UUID{orderID, orderID, otherID} {
		id := poID
		require.NoError(t, expenseRepo.Create(context.Background(), &model.Expense{PurchaseOrderID: &id, Status: model.ExpensePlanned}))
	}

	svc := NewBudgetIntegrationService(expenseRepo, &fakeOrderRepo{}, nil)

	removed, err := svc.RemovePurchaseOrderExpenses(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.Len(t, expenseRepo.expenses, 1)

	// Removing again finds nothing; zero is not an error.
	removed, err = svc.RemovePurchaseOrderExpenses(context.Background(), orderID)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestGetIntegratedProjectFinancials(t *testing.T) {
	projectID := uuid.New()

	orderRepo := &fakeOrderRepo{}
	statuses := []model.PurchaseOrderStatus{model.POStatusApproved, model.POStatusApproved, model.POStatusPendingApproval, model.POStatusDraft}
	types := []model.SupplierType{model.SupplierTypeMaterials, model.SupplierTypeMaterials, model.SupplierTypeServices, model.SupplierTypeTransport}
	amounts := []int64{1000, 2000, 500, 300}
	for i := range statuses {
		require.NoError(t, orderRepo.Create(context.Background(), &model.PurchaseOrder{
			ProjectID:    projectID,
			SupplierID:   uuid.New(),
			Status:       statuses[i],
			SupplierType: types[i],
			TotalAmount:  decimal.NewFromInt(amounts[i]),
		}))
	}

	expenseRepo := &fakeExpenseRepo{}
	require.NoError(t, expenseRepo.Create(context.Background(), &model.Expense{
		ProjectID: projectID, Status: model.ExpensePlanned, Category: model.CategoryMaterials, Amount: decimal.NewFromInt(1000),
	}))
	require.NoError(t, expenseRepo.Create(context.Background(), &model.Expense{
		ProjectID: projectID, Status: model.ExpenseActual, Category: model.CategoryMaterials, Amount: decimal.NewFromInt(1800),
	}))
	require.NoError(t, expenseRepo.Create(context.Background(), &model.Expense{
		ProjectID: projectID, Status: model.ExpenseActual, Category: "", Amount: decimal.NewFromInt(200),
	}))

	svc := NewBudgetIntegrationService(expenseRepo, orderRepo, nil)
	financials, err := svc.GetIntegratedProjectFinancials(context.Background(), projectID)
	require.NoError(t, err)

	assert.Equal(t, 4, financials.TotalPurchaseOrders)
	assert.True(t, financials.TotalPurchaseOrderAmount.Equal(decimal.NewFromInt(3800)))
	assert.Equal(t, 2, financials.ApprovedPurchaseOrders)
	assert.Equal(t, 1, financials.PendingPurchaseOrders)
	assert.True(t, financials.TotalPlannedExpenses.Equal(decimal.NewFromInt(1000)))
	assert.True(t, financials.TotalActualExpenses.Equal(decimal.NewFromInt(2000)))

	materials := financials.ExpensesByCategory[model.CategoryMaterials]
	assert.Equal(t, 2, materials.Count)
	assert.True(t, materials.Amount.Equal(decimal.NewFromInt(2800)))

	// Uncategorized rows land in "other".
	other := financials.ExpensesByCategory[model.CategoryOther]
	assert.Equal(t, 1, other.Count)

	byMaterials := financials.PurchaseOrdersBySupplierType[model.SupplierTypeMaterials]
	assert.Equal(t, 2, byMaterials.Count)
	assert.True(t, byMaterials.Amount.Equal(decimal.NewFromInt(3000)))
}
