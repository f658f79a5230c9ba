package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreatePriceItemRequest struct {
	Name      string `json:"name" binding:"required"`
	Category  string `json:"category" binding:"required"`
	Unit      string `json:"unit" binding:"required"`
	UnitPrice string `json:"unit_price" binding:"required"`
	Currency  string `json:"currency"`
	Region    string `json:"region"`
	Source    string `json:"source"`
	ValidFrom string `json:"valid_from"` // YYYY-MM-DD
}

type UpdatePriceItemRequest struct {
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	UnitPrice string `json:"unit_price"`
	Region    string `json:"region"`
	Source    string `json:"source"`
}

// --- Interface ---

type PriceLibraryService interface {
	CreatePriceItem(ctx context.Context, userID string, req CreatePriceItemRequest) (*model.PriceItem, error)
	GetPriceItem(ctx context.Context, id uuid.UUID) (*model.PriceItem, error)
	ListPriceItems(ctx context.Context, category, search string, page, limit int) ([]model.PriceItem, int64, error)
	UpdatePriceItem(ctx context.Context, id uuid.UUID, req UpdatePriceItemRequest) (*model.PriceItem, error)
	DeletePriceItem(ctx context.Context, id uuid.UUID) error
}

type priceLibraryService struct {
	priceRepo repository.PriceItemRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	events    EventPublisher
}

func NewPriceLibraryService(
	priceRepo repository.PriceItemRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	events EventPublisher,
) PriceLibraryService {
	return &priceLibraryService{
		priceRepo: priceRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		events:    events,
	}
}

// --- Implementation ---

func (s *priceLibraryService) CreatePriceItem(ctx context.Context, userID string, req CreatePriceItemRequest) (*model.PriceItem, error) {
	category := model.ExpenseCategory(req.Category)
	if !category.IsValid() {
		return nil, apperror.New(apperror.KindInvalid, fmt.Sprintf("unknown category %q", req.Category))
	}

	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return nil, apperror.New(apperror.KindInvalid, fmt.Sprintf("invalid unit price %q", req.UnitPrice))
	}
	if unitPrice.IsNegative() {
		return nil, apperror.New(apperror.KindInvalid, "unit price must not be negative")
	}

	validFrom := time.Now()
	if req.ValidFrom != "" {
		parsed, parseErr := time.Parse("2006-01-02", req.ValidFrom)
		if parseErr != nil {
			return nil, apperror.New(apperror.KindInvalid, fmt.Sprintf("invalid valid_from date %q", req.ValidFrom))
		}
		validFrom = parsed
	}

	currency := req.Currency
	if currency == "" {
		currency = "XOF"
	}

	item := &model.PriceItem{
		Name:      req.Name,
		Category:  category,
		Unit:      req.Unit,
		UnitPrice: unitPrice,
		Currency:  currency,
		Region:    req.Region,
		Source:    req.Source,
		ValidFrom: validFrom,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.priceRepo.Create(txCtx, item); createErr != nil {
			return fmt.Errorf("failed to create price item: %w", createErr)
		}
		return writeAuditEntry(txCtx, s.auditRepo, userID, model.ActionCreatePriceItem, item.ID.String(), item.Name, map[string]interface{}{
			"category":   item.Category,
			"unit_price": item.UnitPrice.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	notify(s.events, "price_items", ChangeCreated, item.ID.String())
	return item, nil
}

func (s *priceLibraryService) GetPriceItem(ctx context.Context, id uuid.UUID) (*model.PriceItem, error) {
	return s.priceRepo.FindByID(ctx, id)
}

func (s *priceLibraryService) ListPriceItems(ctx context.Context, category, search string, page, limit int) ([]model.PriceItem, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	return s.priceRepo.List(ctx, model.ExpenseCategory(category), search, page, limit)
}

func (s *priceLibraryService) UpdatePriceItem(ctx context.Context, id uuid.UUID, req UpdatePriceItemRequest) (*model.PriceItem, error) {
	item, err := s.priceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		item.Name = req.Name
	}
	if req.Unit != "" {
		item.Unit = req.Unit
	}
	if req.UnitPrice != "" {
		unitPrice, parseErr := decimal.NewFromString(req.UnitPrice)
		if parseErr != nil {
			return nil, apperror.New(apperror.KindInvalid, fmt.Sprintf("invalid unit price %q", req.UnitPrice))
		}
		item.UnitPrice = unitPrice
	}
	if req.Region != "" {
		item.Region = req.Region
	}
	if req.Source != "" {
		item.Source = req.Source
	}

	if err := s.priceRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update price item: %w", err)
	}

	notify(s.events, "price_items", ChangeUpdated, item.ID.String())
	return item, nil
}

func (s *priceLibraryService) DeletePriceItem(ctx context.Context, id uuid.UUID) error {
	if err := s.priceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete price item: %w", err)
	}
	notify(s.events, "price_items", ChangeDeleted, id.String())
	return nil
}
