package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type PurchaseOrderItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Quantity    string `json:"quantity" binding:"required"` // Decimal string
	Unit        string `json:"unit" binding:"required"`
	UnitPrice   string `json:"unit_price" binding:"required"` // Decimal string
	TaxRate     string `json:"tax_rate"`
	Notes       string `json:"notes"`
}

type CreatePurchaseOrderRequest struct {
	ProjectID  string `json:"project_id" binding:"required"`
	PhaseID    string `json:"phase_id"`
	TaskID     string `json:"task_id"`
	SupplierID string `json:"supplier_id" binding:"required"`

	Items    []PurchaseOrderItemRequest `json:"items" binding:"required,min=1"`
	TaxRate  string                     `json:"tax_rate"` // Decimal string, applied on the subtotal
	Currency string                     `json:"currency"`

	OrderDate             string `json:"order_date"` // YYYY-MM-DD, defaults to today
	RequestedDeliveryDate string `json:"requested_delivery_date"`
	RequestedBy           string `json:"requested_by" binding:"required"`

	DeliveryAddress      string `json:"delivery_address"`
	DeliveryInstructions string `json:"delivery_instructions"`
	Notes                string `json:"notes"`
	SubmitForApproval    bool   `json:"submit_for_approval"` // false = keep as draft
}

type ApprovePurchaseOrderRequest struct {
	ApprovedBy string `json:"approved_by" binding:"required"`
	Notes      string `json:"notes"`
}

// --- Interface ---

type PurchaseOrderService interface {
	CreatePurchaseOrder(ctx context.Context, userID string, req CreatePurchaseOrderRequest) (*model.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, page, limit int) ([]model.PurchaseOrder, int64, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.PurchaseOrder, error)
	// ApprovePurchaseOrder flips the order to approved and books the planned
	// expense. Approval and expense creation are two sequential writes, not one
	// transaction: an error from the second leaves an approved order without
	// its planned expense, reported to the caller for a manual re-sync.
	ApprovePurchaseOrder(ctx context.Context, userID string, id uuid.UUID, req ApprovePurchaseOrderRequest) (*model.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.PurchaseOrderStatus) error
	// DeletePurchaseOrder removes the order's derived expenses first, then the
	// order itself (same sequencing contract as approval).
	DeletePurchaseOrder(ctx context.Context, userID string, id uuid.UUID) error
	GetProjectStats(ctx context.Context, projectID uuid.UUID) (*model.PurchaseOrderStats, error)
}

type purchaseOrderService struct {
	orderRepo    repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	budget       BudgetIntegrationService
	events       EventPublisher
}

func NewPurchaseOrderService(
	orderRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	budget BudgetIntegrationService,
	events EventPublisher,
) PurchaseOrderService {
	return &purchaseOrderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		budget:       budget,
		events:       events,
	}
}

// --- Implementation ---

func (s *purchaseOrderService) CreatePurchaseOrder(ctx context.Context, userID string, req CreatePurchaseOrderRequest) (*model.PurchaseOrder, error) {
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalid, "invalid project_id", err)
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalid, "invalid supplier_id", err)
	}

	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	items := make([]model.PurchaseOrderItem, 0, len(req.Items))
	subtotal := decimal.Zero
	for i, itemReq := range req.Items {
		quantity, qErr := decimal.NewFromString(itemReq.Quantity)
		if qErr != nil {
			return nil, apperror.Wrap(apperror.KindInvalid, fmt.Sprintf("invalid quantity on item %d", i+1), qErr)
		}
		unitPrice, pErr := decimal.NewFromString(itemReq.UnitPrice)
		if pErr != nil {
			return nil, apperror.Wrap(apperror.KindInvalid, fmt.Sprintf("invalid unit_price on item %d", i+1), pErr)
		}

		totalPrice := quantity.Mul(unitPrice)
		subtotal = subtotal.Add(totalPrice)

		taxRate := decimal.Zero
		if itemReq.TaxRate != "" {
			if taxRate, err = decimal.NewFromString(itemReq.TaxRate); err != nil {
				return nil, apperror.Wrap(apperror.KindInvalid, fmt.Sprintf("invalid tax_rate on item %d", i+1), err)
			}
		}

		items = append(items, model.PurchaseOrderItem{
			Name:        itemReq.Name,
			Description: itemReq.Description,
			Quantity:    quantity,
			Unit:        itemReq.Unit,
			UnitPrice:   unitPrice,
			TotalPrice:  totalPrice,
			TaxRate:     taxRate,
			Notes:       itemReq.Notes,
		})
	}

	taxAmount := decimal.Zero
	if req.TaxRate != "" {
		taxRate, tErr := decimal.NewFromString(req.TaxRate)
		if tErr != nil {
			return nil, apperror.Wrap(apperror.KindInvalid, "invalid tax_rate", tErr)
		}
		taxAmount = subtotal.Mul(taxRate)
	}

	orderDate := time.Now()
	if req.OrderDate != "" {
		if orderDate, err = time.Parse("2006-01-02", req.OrderDate); err != nil {
			return nil, apperror.Wrap(apperror.KindInvalid, "invalid order_date", err)
		}
	}

	status := model.POStatusDraft
	if req.SubmitForApproval {
		status = model.POStatusPendingApproval
	}

	currency := req.Currency
	if currency == "" {
		currency = "XOF"
	}

	order := &model.PurchaseOrder{
		OrderNumber:          generateOrderNumber("BA", time.Now()),
		ProjectID:            projectID,
		SupplierID:           supplier.ID,
		SupplierName:         supplier.Name,
		SupplierType:         supplier.Type,
		Status:               status,
		Items:                items,
		Subtotal:             subtotal,
		TaxAmount:            taxAmount,
		TotalAmount:          subtotal.Add(taxAmount),
		Currency:             currency,
		OrderDate:            orderDate,
		RequestedBy:          req.RequestedBy,
		DeliveryAddress:      req.DeliveryAddress,
		DeliveryInstructions: req.DeliveryInstructions,
		Notes:                req.Notes,
		Attachments:          "[]",
	}

	if req.PhaseID != "" {
		phaseID, pErr := uuid.Parse(req.PhaseID)
		if pErr != nil {
			return nil, apperror.Wrap(apperror.KindInvalid, "invalid phase_id", pErr)
		}
		order.PhaseID = &phaseID
	}
	if req.TaskID != "" {
		taskID, tErr := uuid.Parse(req.TaskID)
		if tErr != nil {
			return nil, apperror.Wrap(apperror.KindInvalid, "invalid task_id", tErr)
		}
		order.TaskID = &taskID
	}
	if req.RequestedDeliveryDate != "" {
		requested, dErr := time.Parse("2006-01-02", req.RequestedDeliveryDate)
		if dErr != nil {
			return nil, apperror.Wrap(apperror.KindInvalid, "invalid requested_delivery_date", dErr)
		}
		order.RequestedDeliveryDate = &requested
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.orderRepo.Create(txCtx, order); createErr != nil {
			return fmt.Errorf("failed to create purchase order: %w", createErr)
		}
		return writeAuditEntry(txCtx, s.auditRepo, userID, model.ActionCreatePurchaseOrder, order.ID.String(), order.OrderNumber, map[string]interface{}{
			"project_id":   order.ProjectID.String(),
			"supplier":     order.SupplierName,
			"total_amount": order.TotalAmount.String(),
			"status":       order.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	notify(s.events, "purchaseOrders", ChangeCreated, order.ID.String())
	return order, nil
}

func (s *purchaseOrderService) GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	return s.orderRepo.FindByIDWithItems(ctx, id)
}

func (s *purchaseOrderService) ListPurchaseOrders(ctx context.Context, page, limit int) ([]model.PurchaseOrder, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.orderRepo.List(ctx, page, limit)
}

func (s *purchaseOrderService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.PurchaseOrder, error) {
	return s.orderRepo.ListByProject(ctx, projectID)
}

func (s *purchaseOrderService) ApprovePurchaseOrder(ctx context.Context, userID string, id uuid.UUID, req ApprovePurchaseOrderRequest) (*model.PurchaseOrder, error) {
	order, err := s.orderRepo.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == model.POStatusCancelled {
		return nil, apperror.New(apperror.KindInvalid, "cannot approve a cancelled purchase order")
	}

	approvedAt := time.Now()
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if approveErr := s.orderRepo.Approve(txCtx, id, req.ApprovedBy, req.Notes, approvedAt); approveErr != nil {
			return fmt.Errorf("failed to approve purchase order: %w", approveErr)
		}
		return writeAuditEntry(txCtx, s.auditRepo, userID, model.ActionApprovePurchaseOrder, order.ID.String(), order.OrderNumber, map[string]interface{}{
			"approved_by": req.ApprovedBy,
			"notes":       req.Notes,
		})
	})
	if err != nil {
		return nil, err
	}

	order.Status = model.POStatusApproved
	order.ApprovedBy = req.ApprovedBy
	order.ApprovalNotes = req.Notes
	order.ApprovedDate = &approvedAt

	// Sequenced after the approval write on purpose; see interface docs.
	if err := s.budget.SyncPurchaseOrderToBudget(ctx, order); err != nil {
		return nil, fmt.Errorf("order %s approved but budget sync failed: %w", order.OrderNumber, err)
	}

	notify(s.events, "purchaseOrders", ChangeUpdated, order.ID.String())
	return order, nil
}

func (s *purchaseOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.PurchaseOrderStatus) error {
	if !status.IsValid() {
		return apperror.New(apperror.KindInvalid, fmt.Sprintf("unknown purchase order status %q", status))
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update purchase order status: %w", err)
	}
	notify(s.events, "purchaseOrders", ChangeUpdated, id.String())
	return nil
}

func (s *purchaseOrderService) DeletePurchaseOrder(ctx context.Context, userID string, id uuid.UUID) error {
	order, err := s.orderRepo.FindByIDWithItems(ctx, id)
	if err != nil {
		return err
	}

	// Expenses first, then the order; see interface docs for the crash contract.
	if _, err := s.budget.RemovePurchaseOrderExpenses(ctx, id); err != nil {
		return err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if delErr := s.orderRepo.Delete(txCtx, id); delErr != nil {
			return fmt.Errorf("failed to delete purchase order: %w", delErr)
		}
		return writeAuditEntry(txCtx, s.auditRepo, userID, model.ActionDeletePurchaseOrder, order.ID.String(), order.OrderNumber, map[string]interface{}{
			"total_amount": order.TotalAmount.String(),
		})
	})
	if err != nil {
		return err
	}

	notify(s.events, "purchaseOrders", ChangeDeleted, id.String())
	return nil
}

func (s *purchaseOrderService) GetProjectStats(ctx context.Context, projectID uuid.UUID) (*model.PurchaseOrderStats, error) {
	orders, err := s.orderRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch purchase orders: %w", err)
	}

	stats := &model.PurchaseOrderStats{
		TotalOrders:       len(orders),
		TotalAmount:       decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}

	type supplierAcc struct {
		name   string
		count  int
		amount decimal.Decimal
	}
	bySupplier := make(map[uuid.UUID]*supplierAcc)

	for _, order := range orders {
		stats.TotalAmount = stats.TotalAmount.Add(order.TotalAmount)
		switch order.Status {
		case model.POStatusPendingApproval:
			stats.PendingApproval++
		case model.POStatusApproved:
			stats.Approved++
		case model.POStatusDelivered:
			stats.Delivered++
		case model.POStatusCancelled:
			stats.Cancelled++
		}

		acc, ok := bySupplier[order.SupplierID]
		if !ok {
			acc = &supplierAcc{name: order.SupplierName, amount: decimal.Zero}
			bySupplier[order.SupplierID] = acc
		}
		acc.count++
		acc.amount = acc.amount.Add(order.TotalAmount)
	}

	if len(orders) > 0 {
		stats.AverageOrderValue = stats.TotalAmount.Div(decimal.NewFromInt(int64(len(orders))))
	}

	for id, acc := range bySupplier {
		stats.TopSuppliers = append(stats.TopSuppliers, model.SupplierRank{
			SupplierID:   id.String(),
			SupplierName: acc.name,
			OrderCount:   acc.count,
			TotalAmount:  acc.amount,
		})
	}
	// Highest volume first
	sort.Slice(stats.TopSuppliers, func(i, j int) bool {
		return stats.TopSuppliers[i].TotalAmount.GreaterThan(stats.TopSuppliers[j].TotalAmount)
	})
	if len(stats.TopSuppliers) > 5 {
		stats.TopSuppliers = stats.TopSuppliers[:5]
	}

	return stats, nil
}

// --- Helpers ---

// generateOrderNumber builds numbers like BA-20240110-4821: date plus the last
// four digits of the current unix milliseconds.
func generateOrderNumber(prefix string, now time.Time) string {
	millis := fmt.Sprintf("%d", now.UnixMilli())
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), millis[len(millis)-4:])
}
