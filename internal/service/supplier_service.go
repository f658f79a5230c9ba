package service

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateSupplierRequest struct {
	Name         string `json:"name" binding:"required"`
	Type         string `json:"type" binding:"required"`
	ContactName  string `json:"contact_name"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	TaxNumber    string `json:"tax_number"`
	PaymentTerms int    `json:"payment_terms"`
	Rating       int    `json:"rating" binding:"omitempty,min=1,max=5"`
}

type UpdateSupplierRequest struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	ContactName  string `json:"contact_name"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	PaymentTerms *int   `json:"payment_terms"`
	Rating       *int   `json:"rating" binding:"omitempty,min=1,max=5"`
	IsActive     *bool  `json:"is_active"`
}

// --- Interface ---

type SupplierService interface {
	CreateSupplier(ctx context.Context, userID string, req CreateSupplierRequest) (*model.Supplier, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	ListSuppliers(ctx context.Context, supplierType, search string, page, limit int) ([]model.Supplier, int64, error)
	UpdateSupplier(ctx context.Context, userID string, id uuid.UUID, req UpdateSupplierRequest) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	events       EventPublisher
}

func NewSupplierService(
	supplierRepo repository.SupplierRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	events EventPublisher,
) SupplierService {
	return &supplierService{
		supplierRepo: supplierRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		events:       events,
	}
}

// --- Implementation ---

func (s *supplierService) CreateSupplier(ctx context.Context, userID string, req CreateSupplierRequest) (*model.Supplier, error) {
	supplierType := model.SupplierType(req.Type)
	if !supplierType.IsValid() {
		return nil, apperror.New(apperror.KindInvalid, fmt.Sprintf("unknown supplier type %q", req.Type))
	}

	paymentTerms := req.PaymentTerms
	if paymentTerms == 0 {
		paymentTerms = 30
	}

	supplier := &model.Supplier{
		Name:         req.Name,
		Type:         supplierType,
		ContactName:  req.ContactName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		TaxNumber:    req.TaxNumber,
		PaymentTerms: paymentTerms,
		Rating:       req.Rating,
		IsActive:     true,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.supplierRepo.Create(txCtx, supplier); createErr != nil {
			return fmt.Errorf("failed to create supplier: %w", createErr)
		}
		return writeAuditEntry(txCtx, s.auditRepo, userID, model.ActionCreateSupplier, supplier.ID.String(), supplier.Name, map[string]interface{}{
			"type": supplier.Type,
		})
	})
	if err != nil {
		return nil, err
	}

	notify(s.events, "suppliers", ChangeCreated, supplier.ID.String())
	return supplier, nil
}

func (s *supplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	return s.supplierRepo.FindByID(ctx, id)
}

func (s *supplierService) ListSuppliers(ctx context.Context, supplierType, search string, page, limit int) ([]model.Supplier, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.supplierRepo.List(ctx, model.SupplierType(supplierType), search, page, limit)
}

func (s *supplierService) UpdateSupplier(ctx context.Context, userID string, id uuid.UUID, req UpdateSupplierRequest) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		supplier.Name = req.Name
	}
	if req.Type != "" {
		supplierType := model.SupplierType(req.Type)
		if !supplierType.IsValid() {
			return nil, apperror.New(apperror.KindInvalid, fmt.Sprintf("unknown supplier type %q", req.Type))
		}
		supplier.Type = supplierType
	}
	if req.ContactName != "" {
		supplier.ContactName = req.ContactName
	}
	if req.Email != "" {
		supplier.Email = req.Email
	}
	if req.Phone != "" {
		supplier.Phone = req.Phone
	}
	if req.Address != "" {
		supplier.Address = req.Address
	}
	if req.PaymentTerms != nil {
		supplier.PaymentTerms = *req.PaymentTerms
	}
	if req.Rating != nil {
		supplier.Rating = *req.Rating
	}
	if req.IsActive != nil {
		supplier.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.supplierRepo.Update(txCtx, supplier); updateErr != nil {
			return fmt.Errorf("failed to update supplier: %w", updateErr)
		}
		return writeAuditEntry(txCtx, s.auditRepo, userID, model.ActionUpdateSupplier, supplier.ID.String(), supplier.Name, nil)
	})
	if err != nil {
		return nil, err
	}

	notify(s.events, "suppliers", ChangeUpdated, supplier.ID.String())
	return supplier, nil
}

func (s *supplierService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	notify(s.events, "suppliers", ChangeDeleted, id.String())
	return nil
}
