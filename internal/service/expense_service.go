package service

import (
	"context"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// ExpenseService is the read side of the derived expense ledger. Writes go
// exclusively through BudgetIntegrationService; there is deliberately no
// create/update surface here.
type ExpenseService interface {
	GetExpense(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	ListExpenses(ctx context.Context, page, limit int) ([]model.Expense, int64, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Expense, error)
	ListByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID, status model.ExpenseStatus) ([]model.Expense, error)
}

type expenseService struct {
	expenseRepo repository.ExpenseRepository
}

func NewExpenseService(expenseRepo repository.ExpenseRepository) ExpenseService {
	return &expenseService{expenseRepo: expenseRepo}
}

func (s *expenseService) GetExpense(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	return s.expenseRepo.FindByID(ctx, id)
}

func (s *expenseService) ListExpenses(ctx context.Context, page, limit int) ([]model.Expense, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.expenseRepo.List(ctx, page, limit)
}

func (s *expenseService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Expense, error) {
	return s.expenseRepo.ListByProject(ctx, projectID)
}

func (s *expenseService) ListByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID, status model.ExpenseStatus) ([]model.Expense, error) {
	return s.expenseRepo.FindByPurchaseOrder(ctx, purchaseOrderID, status)
}
