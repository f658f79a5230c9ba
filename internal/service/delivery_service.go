package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"
	"backend/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type DeliveryNoteItemRequest struct {
	PurchaseOrderItemID string `json:"purchase_order_item_id" binding:"required"`
	DeliveredQuantity   string `json:"delivered_quantity" binding:"required"` // Decimal string
	Condition           string `json:"condition"`
	Notes               string `json:"notes"`
}

type CreateDeliveryNoteRequest struct {
	PurchaseOrderID string                    `json:"purchase_order_id" binding:"required"`
	Items           []DeliveryNoteItemRequest `json:"items" binding:"required,min=1"`
	DeliveryDate    string                    `json:"delivery_date"` // YYYY-MM-DD, defaults to today
	DeliveredBy     string                    `json:"delivered_by"`
	Notes           string                    `json:"notes"`
}

type ReceiveDeliveryRequest struct {
	ReceivedBy       string                    `json:"received_by" binding:"required"`
	Items            []DeliveryNoteItemRequest `json:"items"` // optional corrections to delivered quantities
	QualityCheck     bool                      `json:"quality_check"`
	QualityNotes     string                    `json:"quality_notes"`
	OverallCondition string                    `json:"overall_condition"`
}

// ReceiveDeliveryResult carries the updated note plus per-item surplus
// warnings (delivered > 110% of ordered). Warnings never block the receive.
type ReceiveDeliveryResult struct {
	Note     *model.DeliveryNote `json:"note"`
	Warnings []string            `json:"warnings,omitempty"`
}

// --- Interface ---

type DeliveryService interface {
	CreateDeliveryNote(ctx context.Context, userID string, req CreateDeliveryNoteRequest) (*model.DeliveryNote, error)
	GetDeliveryNote(ctx context.Context, id uuid.UUID) (*model.DeliveryNote, error)
	ListDeliveryNotes(ctx context.Context, page, limit int) ([]model.DeliveryNote, int64, error)
	ListByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]model.DeliveryNote, error)
	// ReceiveDelivery marks the note received and converts/creates the actual
	// expense via budget integration. The receive write and the expense write
	// are sequential, not atomic (same contract as purchase order approval).
	ReceiveDelivery(ctx context.Context, userID string, id uuid.UUID, req ReceiveDeliveryRequest) (*ReceiveDeliveryResult, error)
	GetStats(ctx context.Context, page, limit int) (*model.DeliveryStats, error)
}

type deliveryService struct {
	deliveryRepo repository.DeliveryNoteRepository
	orderRepo    repository.PurchaseOrderRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	budget       BudgetIntegrationService
	events       EventPublisher
}

func NewDeliveryService(
	deliveryRepo repository.DeliveryNoteRepository,
	orderRepo repository.PurchaseOrderRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	budget BudgetIntegrationService,
	events EventPublisher,
) DeliveryService {
	return &deliveryService{
		deliveryRepo: deliveryRepo,
		orderRepo:    orderRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		budget:       budget,
		events:       events,
	}
}

// --- Implementation ---

func (s *deliveryService) CreateDeliveryNote(ctx context.Context, userID string, req CreateDeliveryNoteRequest) (*model.DeliveryNote, error) {
	orderID, err := uuid.Parse(req.PurchaseOrderID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalid, "invalid purchase_order_id", err)
	}

	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	orderItems := make(map[uuid.UUID]model.PurchaseOrderItem, len(order.Items))
	for _, item := range order.Items {
		orderItems[item.ID] = item
	}

	items := make([]model.DeliveryNoteItem, 0, len(req.Items))
	for i, itemReq := range req.Items {
		orderItemID, idErr := uuid.Parse(itemReq.PurchaseOrderItemID)
		if idErr != nil {
			return nil, apperror.Wrap(apperror.KindInvalid, fmt.Sprintf("invalid purchase_order_item_id on item %d", i+1), idErr)
		}
		orderItem, ok := orderItems[orderItemID]
		if !ok {
			return nil, apperror.New(apperror.KindInvalid, fmt.Sprintf("item %d does not belong to purchase order %s", i+1, order.OrderNumber))
		}

		delivered, dErr := decimal.NewFromString(itemReq.DeliveredQuantity)
		if dErr != nil {
			return nil, apperror.Wrap(apperror.KindInvalid, fmt.Sprintf("invalid delivered_quantity on item %d", i+1), dErr)
		}

		condition := model.ItemCondition(itemReq.Condition)
		if condition == "" {
			condition = model.ConditionGood
		}

		items = append(items, model.DeliveryNoteItem{
			PurchaseOrderItemID: orderItemID,
			Name:                orderItem.Name,
			OrderedQuantity:     orderItem.Quantity,
			DeliveredQuantity:   delivered,
			Unit:                orderItem.Unit,
			Status:              model.DeriveDeliveryItemStatus(orderItem.Quantity, delivered),
			Condition:           condition,
			Notes:               itemReq.Notes,
		})
	}

	deliveryDate := time.Now()
	if req.DeliveryDate != "" {
		if deliveryDate, err = time.Parse("2006-01-02", req.DeliveryDate); err != nil {
			return nil, apperror.Wrap(apperror.KindInvalid, "invalid delivery_date", err)
		}
	}

	note := &model.DeliveryNote{
		DeliveryNumber:  generateOrderNumber("BL", time.Now()),
		PurchaseOrderID: order.ID,
		Status:          model.DeliveryStatusPending,
		Items:           items,
		DeliveryDate:    deliveryDate,
		DeliveredBy:     req.DeliveredBy,
		Notes:           req.Notes,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.deliveryRepo.Create(txCtx, note); createErr != nil {
			return fmt.Errorf("failed to create delivery note: %w", createErr)
		}
		return writeAuditEntry(txCtx, s.auditRepo, userID, model.ActionCreateDeliveryNote, note.ID.String(), note.DeliveryNumber, map[string]interface{}{
			"purchase_order": order.OrderNumber,
			"items":          len(note.Items),
		})
	})
	if err != nil {
		return nil, err
	}

	notify(s.events, "deliveryNotes", ChangeCreated, note.ID.String())
	return note, nil
}

func (s *deliveryService) GetDeliveryNote(ctx context.Context, id uuid.UUID) (*model.DeliveryNote, error) {
	return s.deliveryRepo.FindByIDWithOrder(ctx, id)
}

func (s *deliveryService) ListDeliveryNotes(ctx context.Context, page, limit int) ([]model.DeliveryNote, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.deliveryRepo.List(ctx, page, limit)
}

func (s *deliveryService) ListByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]model.DeliveryNote, error) {
	return s.deliveryRepo.ListByPurchaseOrder(ctx, purchaseOrderID)
}

func (s *deliveryService) ReceiveDelivery(ctx context.Context, userID string, id uuid.UUID, req ReceiveDeliveryRequest) (*ReceiveDeliveryResult, error) {
	note, err := s.deliveryRepo.FindByIDWithOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if note.Status == model.DeliveryStatusReceived {
		return nil, apperror.New(apperror.KindInvalid, fmt.Sprintf("delivery %s has already been received", note.DeliveryNumber))
	}
	if note.Status == model.DeliveryStatusRejected {
		return nil, apperror.New(apperror.KindInvalid, fmt.Sprintf("delivery %s was rejected", note.DeliveryNumber))
	}

	// Apply delivered-quantity corrections made during reception.
	corrections := make(map[uuid.UUID]DeliveryNoteItemRequest, len(req.Items))
	for _, itemReq := range req.Items {
		orderItemID, idErr := uuid.Parse(itemReq.PurchaseOrderItemID)
		if idErr != nil {
			return nil, apperror.Wrap(apperror.KindInvalid, "invalid purchase_order_item_id", idErr)
		}
		corrections[orderItemID] = itemReq
	}

	var warnings []string
	for i := range note.Items {
		item := &note.Items[i]
		if corr, ok := corrections[item.PurchaseOrderItemID]; ok {
			delivered, dErr := decimal.NewFromString(corr.DeliveredQuantity)
			if dErr != nil {
				return nil, apperror.Wrap(apperror.KindInvalid, fmt.Sprintf("invalid delivered_quantity for item %s", item.Name), dErr)
			}
			item.DeliveredQuantity = delivered
			if corr.Condition != "" {
				item.Condition = model.ItemCondition(corr.Condition)
			}
			if corr.Notes != "" {
				item.Notes = corr.Notes
			}
		}
		item.Status = model.DeriveDeliveryItemStatus(item.OrderedQuantity, item.DeliveredQuantity)
		if model.ExceedsSurplusTolerance(item.OrderedQuantity, item.DeliveredQuantity) {
			warnings = append(warnings, fmt.Sprintf("item %s: delivered %s exceeds ordered %s by more than 10%%",
				item.Name, item.DeliveredQuantity.String(), item.OrderedQuantity.String()))
		}
	}

	now := time.Now()
	note.Status = model.DeliveryStatusReceived
	note.ReceivedBy = req.ReceivedBy
	note.ActualDeliveryDate = &now
	note.QualityCheck = req.QualityCheck
	note.QualityNotes = req.QualityNotes
	if req.OverallCondition != "" {
		note.OverallCondition = model.OverallCondition(req.OverallCondition)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.deliveryRepo.Update(txCtx, note); updateErr != nil {
			return fmt.Errorf("failed to update delivery note: %w", updateErr)
		}
		return writeAuditEntry(txCtx, s.auditRepo, userID, model.ActionReceiveDelivery, note.ID.String(), note.DeliveryNumber, map[string]interface{}{
			"received_by": req.ReceivedBy,
			"warnings":    len(warnings),
		})
	})
	if err != nil {
		return nil, err
	}

	// Sequenced after the receive write on purpose; see interface docs.
	if err := s.budget.SyncDeliveryToActualExpense(ctx, note); err != nil {
		return nil, fmt.Errorf("delivery %s received but budget sync failed: %w", note.DeliveryNumber, err)
	}

	notify(s.events, "deliveryNotes", ChangeUpdated, note.ID.String())
	return &ReceiveDeliveryResult{Note: note, Warnings: warnings}, nil
}

func (s *deliveryService) GetStats(ctx context.Context, page, limit int) (*model.DeliveryStats, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = pagination.MaxLimit
	}
	notes, _, err := s.deliveryRepo.List(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch delivery notes: %w", err)
	}

	stats := &model.DeliveryStats{TotalDeliveries: len(notes)}
	goodCount := 0
	totalDays := 0.0
	timedCount := 0

	for _, note := range notes {
		if note.Status == model.DeliveryStatusRejected {
			stats.RejectedDeliveries++
		}
		if note.ActualDeliveryDate != nil {
			days := note.ActualDeliveryDate.Sub(note.DeliveryDate).Hours() / 24
			totalDays += days
			timedCount++
			if !note.ActualDeliveryDate.After(note.DeliveryDate) {
				stats.OnTimeDeliveries++
			} else {
				stats.LateDeliveries++
			}
		}
		if note.OverallCondition == model.OverallExcellent || note.OverallCondition == model.OverallGood {
			goodCount++
		}
	}

	if timedCount > 0 {
		stats.AverageDeliveryDays = totalDays / float64(timedCount)
	}
	if len(notes) > 0 {
		stats.QualityScore = float64(goodCount) / float64(len(notes)) * 100
	}

	return stats, nil
}
