package service

import (
	"context"
	"time"

	"backend/internal/model"
	"backend/pkg/apperror"

	"github.com/google/uuid"
)

// In-memory repository fakes. They implement just enough of the repository
// interfaces for service tests; no pagination semantics beyond slicing.

type fakeExpenseRepo struct {
	expenses []*model.Expense
}

func (f *fakeExpenseRepo) Create(_ context.Context, expense *model.Expense) error {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	expense.CreatedAt = time.Now()
	f.expenses = append(f.expenses, expense)
	return nil
}

func (f *fakeExpenseRepo) Update(_ context.Context, expense *model.Expense) error {
	for i, e := range f.expenses {
		if e.ID == expense.ID {
			f.expenses[i] = expense
			return nil
		}
	}
	return apperror.New(apperror.KindNotFound, "expense not found")
}

func (f *fakeExpenseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Expense, error) {
	for _, e := range f.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, apperror.New(apperror.KindNotFound, "expense not found")
}

func (f *fakeExpenseRepo) FindByPurchaseOrder(_ context.Context, purchaseOrderID uuid.UUID, status model.ExpenseStatus) ([]model.Expense, error) {
	var out []model.Expense
	for _, e := range f.expenses {
		if e.PurchaseOrderID == nil || *e.PurchaseOrderID != purchaseOrderID {
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeExpenseRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]model.Expense, error) {
	var out []model.Expense
	for _, e := range f.expenses {
		if e.ProjectID == projectID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeExpenseRepo) List(_ context.Context, _, _ int) ([]model.Expense, int64, error) {
	out := make([]model.Expense, 0, len(f.expenses))
	for _, e := range f.expenses {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeExpenseRepo) DeleteByPurchaseOrder(_ context.Context, purchaseOrderID uuid.UUID) (int64, error) {
	var kept []*model.Expense
	var removed int64
	for _, e := range f.expenses {
		if e.PurchaseOrderID != nil && *e.PurchaseOrderID == purchaseOrderID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	f.expenses = kept
	return removed, nil
}

type fakeOrderRepo struct {
	orders []*model.PurchaseOrder
}

func (f *fakeOrderRepo) Create(_ context.Context, order *model.PurchaseOrder) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].PurchaseOrderID = order.ID
	}
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeOrderRepo) Update(_ context.Context, order *model.PurchaseOrder) error {
	for i, o := range f.orders {
		if o.ID == order.ID {
			f.orders[i] = order
			return nil
		}
	}
	return apperror.New(apperror.KindNotFound, "purchase order not found")
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.PurchaseOrderStatus) error {
	for _, o := range f.orders {
		if o.ID == id {
			o.Status = status
			return nil
		}
	}
	return apperror.New(apperror.KindNotFound, "purchase order not found")
}

func (f *fakeOrderRepo) Approve(_ context.Context, id uuid.UUID, approvedBy, notes string, approvedAt time.Time) error {
	for _, o := range f.orders {
		if o.ID == id {
			o.Status = model.POStatusApproved
			o.ApprovedBy = approvedBy
			o.ApprovalNotes = notes
			o.ApprovedDate = &approvedAt
			return nil
		}
	}
	return apperror.New(apperror.KindNotFound, "purchase order not found")
}

func (f *fakeOrderRepo) FindByIDWithItems(_ context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, apperror.New(apperror.KindNotFound, "purchase order not found")
}

func (f *fakeOrderRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]model.PurchaseOrder, error) {
	var out []model.PurchaseOrder
	for _, o := range f.orders {
		if o.ProjectID == projectID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) List(_ context.Context, _, _ int) ([]model.PurchaseOrder, int64, error) {
	out := make([]model.PurchaseOrder, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, o := range f.orders {
		if o.ID == id {
			f.orders = append(f.orders[:i], f.orders[i+1:]...)
			return nil
		}
	}
	return apperror.New(apperror.KindNotFound, "purchase order not found")
}

type fakeDeliveryRepo struct {
	notes []*model.DeliveryNote
}

func (f *fakeDeliveryRepo) Create(_ context.Context, note *model.DeliveryNote) error {
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	for i := range note.Items {
		if note.Items[i].ID == uuid.Nil {
			note.Items[i].ID = uuid.New()
		}
		note.Items[i].DeliveryNoteID = note.ID
	}
	f.notes = append(f.notes, note)
	return nil
}

func (f *fakeDeliveryRepo) Update(_ context.Context, note *model.DeliveryNote) error {
	for i, n := range f.notes {
		if n.ID == note.ID {
			f.notes[i] = note
			return nil
		}
	}
	return apperror.New(apperror.KindNotFound, "delivery note not found")
}

func (f *fakeDeliveryRepo) FindByIDWithOrder(_ context.Context, id uuid.UUID) (*model.DeliveryNote, error) {
	for _, n := range f.notes {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, apperror.New(apperror.KindNotFound, "delivery note not found")
}

func (f *fakeDeliveryRepo) ListByPurchaseOrder(_ context.Context, purchaseOrderID uuid.UUID) ([]model.DeliveryNote, error) {
	var out []model.DeliveryNote
	for _, n := range f.notes {
		if n.PurchaseOrderID == purchaseOrderID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeDeliveryRepo) List(_ context.Context, _, _ int) ([]model.DeliveryNote, int64, error) {
	out := make([]model.DeliveryNote, 0, len(f.notes))
	for _, n := range f.notes {
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (f *fakeDeliveryRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, n := range f.notes {
		if n.ID == id {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return nil
		}
	}
	return apperror.New(apperror.KindNotFound, "delivery note not found")
}

type fakeSupplierRepo struct {
	suppliers []*model.Supplier
}

func (f *fakeSupplierRepo) Create(_ context.Context, supplier *model.Supplier) error {
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	f.suppliers = append(f.suppliers, supplier)
	return nil
}

func (f *fakeSupplierRepo) Update(_ context.Context, supplier *model.Supplier) error {
	for i, s := range f.suppliers {
		if s.ID == supplier.ID {
			f.suppliers[i] = supplier
			return nil
		}
	}
	return apperror.New(apperror.KindNotFound, "supplier not found")
}

func (f *fakeSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	for _, s := range f.suppliers {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, apperror.New(apperror.KindNotFound, "supplier not found")
}

func (f *fakeSupplierRepo) List(_ context.Context, supplierType model.SupplierType, _ string, _, _ int) ([]model.Supplier, int64, error) {
	var out []model.Supplier
	for _, s := range f.suppliers {
		if supplierType != "" && s.Type != supplierType {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (f *fakeSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, s := range f.suppliers {
		if s.ID == id {
			f.suppliers = append(f.suppliers[:i], f.suppliers[i+1:]...)
			return nil
		}
	}
	return apperror.New(apperror.KindNotFound, "supplier not found")
}

type fakeAuditRepo struct {
	entries []*model.AuditLog
}

func (f *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, _, _ int) ([]model.AuditLog, int64, error) {
	out := make([]model.AuditLog, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type publishedEvent struct {
	Collection string
	Action     string
	EntityID   string
}

type fakeEvents struct {
	events []publishedEvent
}

func (f *fakeEvents) PublishChange(collection, action, entityID string) {
	f.events = append(f.events, publishedEvent{Collection: collection, Action: action, EntityID: entityID})
}
