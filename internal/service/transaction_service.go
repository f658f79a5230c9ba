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

type CreateTransactionRequest struct {
	ProjectID     string `json:"project_id" binding:"required,uuid"`
	Type          string `json:"type" binding:"required"`
	Category      string `json:"category"`
	Amount        string `json:"amount" binding:"required"`
	Description   string `json:"description"`
	Date          string `json:"date" binding:"required"` // YYYY-MM-DD
	PaymentMethod string `json:"payment_method"`
	Reference     string `json:"reference"`
}

// ProjectBalance summarizes the manual transaction ledger of one project.
// It deliberately ignores the derived expense records; the two ledgers are
// reported side by side, never merged.
type ProjectBalance struct {
	ProjectID    uuid.UUID       `json:"project_id"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
	Count        int             `json:"count"`
}

// --- Interface ---

type TransactionService interface {
	CreateTransaction(ctx context.Context, userID string, req CreateTransactionRequest) (*model.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Transaction, error)
	GetProjectBalance(ctx context.Context, projectID uuid.UUID) (*ProjectBalance, error)
	DeleteTransaction(ctx context.Context, userID string, id uuid.UUID) error
}

type transactionService struct {
	txRepo    repository.TransactionRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	events    EventPublisher
}

func NewTransactionService(
	txRepo repository.TransactionRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	events EventPublisher,
) TransactionService {
	return &transactionService{
		txRepo:    txRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		events:    events,
	}
}

// --- Implementation ---

func (s *transactionService) CreateTransaction(ctx context.Context, userID string, req CreateTransactionRequest) (*model.Transaction, error) {
	txType := model.TransactionType(req.Type)
	if !txType.IsValid() {
		return nil, apperror.New(apperror.KindInvalid, fmt.Sprintf("unknown transaction type %q", req.Type))
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, apperror.New(apperror.KindInvalid, fmt.Sprintf("invalid amount %q", req.Amount))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.New(apperror.KindInvalid, "amount must be positive")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperror.New(apperror.KindInvalid, fmt.Sprintf("invalid date %q", req.Date))
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, apperror.New(apperror.KindInvalid, "invalid project id")
	}

	tx := &model.Transaction{
		ProjectID:     projectID,
		Type:          txType,
		Category:      req.Category,
		Amount:        amount,
		Description:   req.Description,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
		Reference:     req.Reference,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.txRepo.Create(txCtx, tx); createErr != nil {
			return fmt.Errorf("failed to create transaction: %w", createErr)
		}
		return writeAuditEntry(txCtx, s.auditRepo, userID, model.ActionCreateTransaction, tx.ID.String(), tx.Description, map[string]interface{}{
			"type":   tx.Type,
			"amount": tx.Amount.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	notify(s.events, "transactions", ChangeCreated, tx.ID.String())
	return tx, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	return s.txRepo.FindByID(ctx, id)
}

func (s *transactionService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Transaction, error) {
	return s.txRepo.ListByProject(ctx, projectID)
}

func (s *transactionService) GetProjectBalance(ctx context.Context, projectID uuid.UUID) (*ProjectBalance, error) {
	txs, err := s.txRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for project %s: %w", projectID, err)
	}

	balance := &ProjectBalance{
		ProjectID:    projectID,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Count:        len(txs),
	}
	for _, tx := range txs {
		switch tx.Type {
		case model.TransactionIncome:
			balance.TotalIncome = balance.TotalIncome.Add(tx.Amount)
		case model.TransactionExpense:
			balance.TotalExpense = balance.TotalExpense.Add(tx.Amount)
		}
	}
	balance.Balance = balance.TotalIncome.Sub(balance.TotalExpense)
	return balance, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, userID string, id uuid.UUID) error {
	tx, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if deleteErr := s.txRepo.Delete(txCtx, id); deleteErr != nil {
			return fmt.Errorf("failed to delete transaction: %w", deleteErr)
		}
		return writeAuditEntry(txCtx, s.auditRepo, userID, model.ActionDeleteTransaction, id.String(), tx.Description, nil)
	})
	if err != nil {
		return err
	}

	notify(s.events, "transactions", ChangeDeleted, id.String())
	return nil
}
