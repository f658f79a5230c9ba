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

type deliveryServiceFixture struct {
	svc          DeliveryService
	deliveryRepo *fakeDeliveryRepo
	orderRepo    *fakeOrderRepo
	expenseRepo  *fakeExpenseRepo
	auditRepo    *fakeAuditRepo
	events       *fakeEvents
	order        *model.PurchaseOrder
}

// newDeliveryServiceFixture seeds an approved two-line order (4 x 100 and
// 3 x 200) with its planned expense already booked.
func newDeliveryServiceFixture(t *testing.T) *deliveryServiceFixture {
	t.Helper()

	orderRepo := &fakeOrderRepo{}
	order := &model.PurchaseOrder{
		OrderNumber:  "BA-20240510-0001",
		ProjectID:    uuid.New(),
		SupplierID:   uuid.New(),
		SupplierName: "Ciments du Sahel",
		SupplierType: model.SupplierTypeMaterials,
		Status:       model.POStatusApproved,
		TotalAmount:  decimal.NewFromInt(1000),
		OrderDate:    time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Items: []model.PurchaseOrderItem{
			{Name: "Cement", Quantity: decimal.NewFromInt(4), Unit: "bag", UnitPrice: decimal.NewFromInt(100), TotalPrice: decimal.NewFromInt(400)},
			{Name: "Rebar", Quantity: decimal.NewFromInt(3), Unit: "bar", UnitPrice: decimal.NewFromInt(200), TotalPrice: decimal.NewFromInt(600)},
		},
	}
	require.NoError(t, orderRepo.Create(context.Background(), order))

	expenseRepo := &fakeExpenseRepo{}
	require.NoError(t, expenseRepo.Create(context.Background(), &model.Expense{
		Type:            "expense",
		Category:        model.CategoryMaterials,
		Amount:          order.TotalAmount,
		Description:     "Purchase order BA-20240510-0001 - Ciments du Sahel",
		Date:            order.OrderDate,
		ProjectID:       order.ProjectID,
		PurchaseOrderID: &order.ID,
		Status:          model.ExpensePlanned,
	}))

	deliveryRepo := &fakeDeliveryRepo{}
	auditRepo := &fakeAuditRepo{}
	events := &fakeEvents{}
	budget := NewBudgetIntegrationService(expenseRepo, orderRepo, events)

	return &deliveryServiceFixture{
		svc:          NewDeliveryService(deliveryRepo, orderRepo, auditRepo, fakeTxManager{}, budget, events),
		deliveryRepo: deliveryRepo,
		orderRepo:    orderRepo,
		expenseRepo:  expenseRepo,
		auditRepo:    auditRepo,
		events:       events,
		order:        order,
	}
}

func (f *deliveryServiceFixture) createNote(t *testing.T, quantities ...string) *model.DeliveryNote {
	t.Helper()

	items := make([]DeliveryNoteItemRequest, len(quantities))
	for i, q := range quantities {
		items[i] = DeliveryNoteItemRequest{
			PurchaseOrderItemID: f.order.Items[i].ID.String(),
			DeliveredQuantity:   q,
		}
	}
	note, err := f.svc.CreateDeliveryNote(context.Background(), "user-1", CreateDeliveryNoteRequest{
		PurchaseOrderID: f.order.ID.String(),
		Items:           items,
		DeliveryDate:    "2024-05-15",
		DeliveredBy:     "Transport Sénégal",
	})
	require.NoError(t, err)
	// FindByIDWithOrder on the fake returns what was stored; preload the order
	// the way the gorm repository would.
	note.PurchaseOrder = f.order
	return note
}

func TestCreateDeliveryNote_SnapshotsOrderLines(t *testing.T) {
	f := newDeliveryServiceFixture(t)

	note := f.createNote(t, "2", "3")

	assert.True(t, strings.HasPrefix(note.DeliveryNumber, "BL-"), "delivery number %q", note.DeliveryNumber)
	assert.Equal(t, model.DeliveryStatusPending, note.Status)
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), note.DeliveryDate)

	require.Len(t, note.Items, 2)
	assert.Equal(t, "Cement", note.Items[0].Name)
	assert.True(t, note.Items[0].OrderedQuantity.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, model.DeliveryItemPartial, note.Items[0].Status)
	assert.Equal(t, model.ConditionGood, note.Items[0].Condition)
	assert.Equal(t, model.DeliveryItemDelivered, note.Items[1].Status)

	require.Len(t, f.auditRepo.entries, 1)
	assert.Equal(t, model.ActionCreateDeliveryNote, f.auditRepo.entries[0].Action)
}

func TestCreateDeliveryNote_RejectsForeignOrderItem(t *testing.T) {
	f := newDeliveryServiceFixture(t)

	_, err := f.svc.CreateDeliveryNote(context.Background(), "user-1", CreateDeliveryNoteRequest{
		PurchaseOrderID: f.order.ID.String(),
		Items: []DeliveryNoteItemRequest{
			{PurchaseOrderItemID: uuid.NewString(), DeliveredQuantity: "1"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalid, apperror.KindOf(err))
}

func TestCreateDeliveryNote_UnknownOrder(t *testing.T) {
	f := newDeliveryServiceFixture(t)

	_, err := f.svc.CreateDeliveryNote(context.Background(), "user-1", CreateDeliveryNoteRequest{
		PurchaseOrderID: uuid.NewString(),
		Items:           []DeliveryNoteItemRequest{{PurchaseOrderItemID: uuid.NewString(), DeliveredQuantity: "1"}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReceiveDelivery_ConvertsPlannedExpense(t *testing.T) {
	f := newDeliveryServiceFixture(t)
	note := f.createNote(t, "2", "1")

	result, err := f.svc.ReceiveDelivery(context.Background(), "user-2", note.ID, ReceiveDeliveryRequest{
		ReceivedBy:       "Chef de chantier",
		QualityCheck:     true,
		OverallCondition: "good",
	})
	require.NoError(t, err)

	assert.Equal(t, model.DeliveryStatusReceived, result.Note.Status)
	assert.Equal(t, "Chef de chantier", result.Note.ReceivedBy)
	require.NotNil(t, result.Note.ActualDeliveryDate)
	assert.Equal(t, model.OverallGood, result.Note.OverallCondition)
	assert.Empty(t, result.Warnings)

	// 400 * 2/4 + 600 * 1/3 = 400, converted in place on the planned expense.
	require.Len(t, f.expenseRepo.expenses, 1)
	expense := f.expenseRepo.expenses[0]
	assert.Equal(t, model.ExpenseActual, expense.Status)
	assert.True(t, expense.Amount.Equal(decimal.NewFromInt(400)), "got %s", expense.Amount)
	require.NotNil(t, expense.DeliveryNoteID)
	assert.Equal(t, note.ID, *expense.DeliveryNoteID)
}

func TestReceiveDelivery_AppliesCorrectionsAndWarnsOnSurplus(t *testing.T) {
	f := newDeliveryServiceFixture(t)
	note := f.createNote(t, "4", "3")

	result, err := f.svc.ReceiveDelivery(context.Background(), "user-2", note.ID, ReceiveDeliveryRequest{
		ReceivedBy: "Chef de chantier",
		Items: []DeliveryNoteItemRequest{
			// More than 110% of the 4 ordered.
			{PurchaseOrderItemID: f.order.Items[0].ID.String(), DeliveredQuantity: "5", Condition: "damaged", Notes: "2 bags torn"},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Cement")

	corrected := result.Note.Items[0]
	assert.True(t, corrected.DeliveredQuantity.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, model.DeliveryItemExcess, corrected.Status)
	assert.Equal(t, model.ConditionDamaged, corrected.Condition)
	assert.Equal(t, "2 bags torn", corrected.Notes)

	// 400 * 5/4 + 600 * 3/3 = 1100
	require.Len(t, f.expenseRepo.expenses, 1)
	assert.True(t, f.expenseRepo.expenses[0].Amount.Equal(decimal.NewFromInt(1100)), "got %s", f.expenseRepo.expenses[0].Amount)
}

func TestReceiveDelivery_AlreadyReceivedOrRejected(t *testing.T) {
	f := newDeliveryServiceFixture(t)

	for _, status := range []model.DeliveryStatus{model.DeliveryStatusReceived, model.DeliveryStatusRejected} {
		note := f.createNote(t, "1", "1")
		note.Status = status

		_, err := f.svc.ReceiveDelivery(context.Background(), "user-2", note.ID, ReceiveDeliveryRequest{ReceivedBy: "x"})
		require.Error(t, err, "status %s", status)
		assert.Equal(t, apperror.KindInvalid, apperror.KindOf(err))
	}
}

func TestReceiveDelivery_SecondDeliveryBooksOwnActual(t *testing.T) {
	f := newDeliveryServiceFixture(t)

	first := f.createNote(t, "2", "1")
	_, err := f.svc.ReceiveDelivery(context.Background(), "user-2", first.ID, ReceiveDeliveryRequest{ReceivedBy: "x"})
	require.NoError(t, err)

	second := f.createNote(t, "2", "2")
	_, err = f.svc.ReceiveDelivery(context.Background(), "user-2", second.ID, ReceiveDeliveryRequest{ReceivedBy: "x"})
	require.NoError(t, err)

	require.Len(t, f.expenseRepo.expenses, 2)
	assert.Equal(t, model.ExpenseActual, f.expenseRepo.expenses[0].Status)
	assert.Equal(t, model.ExpenseActual, f.expenseRepo.expenses[1].Status)
	// 400 * 2/4 + 600 * 2/3 = 600 for the second delivery.
	assert.True(t, f.expenseRepo.expenses[1].Amount.Equal(decimal.NewFromInt(600)), "got %s", f.expenseRepo.expenses[1].Amount)
	assert.Contains(t, f.expenseRepo.expenses[1].Description, "Delivery BL-")
}

func TestGetStats(t *testing.T) {
	deliveryRepo := &fakeDeliveryRepo{}
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	onTime := base
	late := base.AddDate(0, 0, 3)

	seed := []*model.DeliveryNote{
		{Status: model.DeliveryStatusReceived, DeliveryDate: base, ActualDeliveryDate: &onTime, OverallCondition: model.OverallGood},
		{Status: model.DeliveryStatusReceived, DeliveryDate: base, ActualDeliveryDate: &late, OverallCondition: model.OverallPoor},
		{Status: model.DeliveryStatusRejected, DeliveryDate: base},
		{Status: model.DeliveryStatusPending, DeliveryDate: base, OverallCondition: model.OverallExcellent},
	}
	for _, n := range seed {
		require.NoError(t, deliveryRepo.Create(context.Background(), n))
	}

	svc := NewDeliveryService(deliveryRepo, &fakeOrderRepo{}, &fakeAuditRepo{}, fakeTxManager{}, nil, nil)

	stats, err := svc.GetStats(context.Background(), 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalDeliveries)
	assert.Equal(t, 1, stats.OnTimeDeliveries)
	assert.Equal(t, 1, stats.LateDeliveries)
	assert.Equal(t, 1, stats.RejectedDeliveries)
	assert.InDelta(t, 1.5, stats.AverageDeliveryDays, 0.001)
	assert.InDelta(t, 50.0, stats.QualityScore, 0.001) // good + excellent out of 4
}
