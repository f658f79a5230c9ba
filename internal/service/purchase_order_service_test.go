package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"backend/internal/model"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderServiceFixture struct {
	svc         PurchaseOrderService
	orderRepo   *fakeOrderRepo
	supplier    *model.Supplier
	expenseRepo *fakeExpenseRepo
	auditRepo   *fakeAuditRepo
	events      *fakeEvents
}

func newOrderServiceFixture(t *testing.T) *orderServiceFixture {
	t.Helper()

	supplierRepo := &fakeSupplierRepo{}
	supplier := &model.Supplier{Name: "Quincaillerie Ndiaye", Type: model.SupplierTypeMaterials}
	require.NoError(t, supplierRepo.Create(context.Background(), supplier))

	orderRepo := &fakeOrderRepo{}
	expenseRepo := &fakeExpenseRepo{}
	auditRepo := &fakeAuditRepo{}
	events := &fakeEvents{}
	budget := NewBudgetIntegrationService(expenseRepo, orderRepo, events)

	return &orderServiceFixture{
		svc:         NewPurchaseOrderService(orderRepo, supplierRepo, auditRepo, fakeTxManager{}, budget, events),
		orderRepo:   orderRepo,
		supplier:    supplier,
		expenseRepo: expenseRepo,
		auditRepo:   auditRepo,
		events:      events,
	}
}

func validCreateRequest(supplierID uuid.UUID) CreatePurchaseOrderRequest {
	return CreatePurchaseOrderRequest{
		ProjectID:  uuid.NewString(),
		SupplierID: supplierID.String(),
		Items: []PurchaseOrderItemRequest{
			{Name: "Cement 50kg", Quantity: "100", Unit: "bag", UnitPrice: "4500"},
			{Name: "Sand", Quantity: "10", Unit: "m3", UnitPrice: "15000"},
		},
		TaxRate:     "0.18",
		OrderDate:   "2024-05-01",
		RequestedBy: "Moussa Diop",
	}
}

func TestCreatePurchaseOrder_ComputesTotalsAndSnapshotsSupplier(t *testing.T) {
	f := newOrderServiceFixture(t)

	order, err := f.svc.CreatePurchaseOrder(context.Background(), "user-1", validCreateRequest(f.supplier.ID))
	require.NoError(t, err)

	// 100*4500 + 10*15000 = 600000; tax 18% = 108000
	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(600000)))
	assert.True(t, order.TaxAmount.Equal(decimal.NewFromInt(108000)))
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(708000)))

	assert.Equal(t, model.POStatusDraft, order.Status)
	assert.Equal(t, "Quincaillerie Ndiaye", order.SupplierName)
	assert.Equal(t, model.SupplierTypeMaterials, order.SupplierType)
	assert.Equal(t, "XOF", order.Currency)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), order.OrderDate)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "BA-"), "order number %q", order.OrderNumber)
	require.Len(t, order.Items, 2)
	assert.True(t, order.Items[0].TotalPrice.Equal(decimal.NewFromInt(450000)))

	require.Len(t, f.auditRepo.entries, 1)
	assert.Equal(t, model.ActionCreatePurchaseOrder, f.auditRepo.entries[0].Action)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, "purchaseOrders", f.events.events[0].Collection)
}

func TestCreatePurchaseOrder_SubmitForApproval(t *testing.T) {
	f := newOrderServiceFixture(t)

	req := validCreateRequest(f.supplier.ID)
	req.SubmitForApproval = true

	order, err := f.svc.CreatePurchaseOrder(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, model.POStatusPendingApproval, order.Status)
}

func TestCreatePurchaseOrder_RejectsBadInput(t *testing.T) {
	f := newOrderServiceFixture(t)

	bad := []func(r *CreatePurchaseOrderRequest){
		func(r *CreatePurchaseOrderRequest) { r.ProjectID = "not-a-uuid" },
		func(r *CreatePurchaseOrderRequest) { r.SupplierID = "not-a-uuid" },
		func(r *CreatePurchaseOrderRequest) { r.Items[0].Quantity = "ten" },
		func(r *CreatePurchaseOrderRequest) { r.Items[0].UnitPrice = "" },
		func(r *CreatePurchaseOrderRequest) { r.TaxRate = "18%" },
		func(r *CreatePurchaseOrderRequest) { r.OrderDate = "01/05/2024" },
	}
	for i, mutate := range bad {
		req := validCreateRequest(f.supplier.ID)
		mutate(&req)

		_, err := f.svc.CreatePurchaseOrder(context.Background(), "user-1", req)
		require.Error(t, err, "case %d", i)
		assert.Equal(t, apperror.KindInvalid, apperror.KindOf(err), "case %d", i)
	}
}

func TestCreatePurchaseOrder_UnknownSupplier(t *testing.T) {
	f := newOrderServiceFixture(t)

	req := validCreateRequest(uuid.New())
	_, err := f.svc.CreatePurchaseOrder(context.Background(), "user-1", req)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestApprovePurchaseOrder_BooksPlannedExpense(t *testing.T) {
	f := newOrderServiceFixture(t)

	req := validCreateRequest(f.supplier.ID)
	req.SubmitForApproval = true
	order, err := f.svc.CreatePurchaseOrder(context.Background(), "user-1", req)
	require.NoError(t, err)

	approved, err := f.svc.ApprovePurchaseOrder(context.Background(), "user-2", order.ID, ApprovePurchaseOrderRequest{
		ApprovedBy: "Awa Fall",
		Notes:      "within budget",
	})
	require.NoError(t, err)

	assert.Equal(t, model.POStatusApproved, approved.Status)
	assert.Equal(t, "Awa Fall", approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedDate)

	require.Len(t, f.expenseRepo.expenses, 1)
	expense := f.expenseRepo.expenses[0]
	assert.Equal(t, model.ExpensePlanned, expense.Status)
	assert.True(t, expense.Amount.Equal(approved.TotalAmount))
	require.NotNil(t, expense.PurchaseOrderID)
	assert.Equal(t, order.ID, *expense.PurchaseOrderID)
}

func TestApprovePurchaseOrder_CancelledRejected(t *testing.T) {
	f := newOrderServiceFixture(t)

	order, err := f.svc.CreatePurchaseOrder(context.Background(), "user-1", validCreateRequest(f.supplier.ID))
	require.NoError(t, err)
	require.NoError(t, f.svc.UpdateStatus(context.Background(), order.ID, model.POStatusCancelled))

	_, err = f.svc.ApprovePurchaseOrder(context.Background(), "user-2", order.ID, ApprovePurchaseOrderRequest{ApprovedBy: "Awa Fall"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalid, apperror.KindOf(err))
	assert.Empty(t, f.expenseRepo.expenses)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	f := newOrderServiceFixture(t)

	err := f.svc.UpdateStatus(context.Background(), uuid.New(), model.PurchaseOrderStatus("shipped"))
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalid, apperror.KindOf(err))
}

func TestDeletePurchaseOrder_RemovesDerivedExpensesFirst(t *testing.T) {
	f := newOrderServiceFixture(t)

	req := validCreateRequest(f.supplier.ID)
	req.SubmitForApproval = true
	order, err := f.svc.CreatePurchaseOrder(context.Background(), "user-1", req)
	require.NoError(t, err)
	_, err = f.svc.ApprovePurchaseOrder(context.Background(), "user-2", order.ID, ApprovePurchaseOrderRequest{ApprovedBy: "Awa Fall"})
	require.NoError(t, err)
	require.Len(t, f.expenseRepo.expenses, 1)

	require.NoError(t, f.svc.DeletePurchaseOrder(context.Background(), "user-1", order.ID))

	assert.Empty(t, f.expenseRepo.expenses)
	_, err = f.svc.GetPurchaseOrder(context.Background(), order.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestGetProjectStats(t *testing.T) {
	projectID := uuid.New()
	supplierA, supplierB := uuid.New(), uuid.New()

	orderRepo := &fakeOrderRepo{}
	seed := []struct {
		supplier uuid.UUID
		name     string
		status   model.PurchaseOrderStatus
		amount   int64
	}{
		{supplierA, "Supplier A", model.POStatusApproved, 1000},
		{supplierA, "Supplier A", model.POStatusDelivered, 2000},
		{supplierB, "Supplier B", model.POStatusPendingApproval, 5000},
		{supplierB, "Supplier B", model.POStatusCancelled, 100},
	}
	for _, s := range seed {
		require.NoError(t, orderRepo.Create(context.Background(), &model.PurchaseOrder{
			ProjectID:    projectID,
			SupplierID:   s.supplier,
			SupplierName: s.name,
			Status:       s.status,
			TotalAmount:  decimal.NewFromInt(s.amount),
		}))
	}

	svc := NewPurchaseOrderService(orderRepo, &fakeSupplierRepo{}, &fakeAuditRepo{}, fakeTxManager{}, nil, nil)

	stats, err := svc.GetProjectStats(context.Background(), projectID)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalOrders)
	assert.True(t, stats.TotalAmount.Equal(decimal.NewFromInt(8100)))
	assert.True(t, stats.AverageOrderValue.Equal(decimal.NewFromInt(2025)))
	assert.Equal(t, 1, stats.PendingApproval)
	assert.Equal(t, 1, stats.Approved)
	assert.Equal(t, 1, stats.Delivered)
	assert.Equal(t, 1, stats.Cancelled)

	require.Len(t, stats.TopSuppliers, 2)
	assert.Equal(t, "Supplier B", stats.TopSuppliers[0].SupplierName)
	assert.True(t, stats.TopSuppliers[0].TotalAmount.Equal(decimal.NewFromInt(5100)))
	assert.Equal(t, 2, stats.TopSuppliers[0].OrderCount)
}

func TestGenerateOrderNumber(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC)
	number := generateOrderNumber("BL", now)

	assert.True(t, strings.HasPrefix(number, "BL-20240501-"), "got %q", number)
	assert.Len(t, number, len("BL-20240501-")+4)
}
