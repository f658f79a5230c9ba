package repository

import (
	"context"
	"errors"

	"backend/internal/model"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	Update(ctx context.Context, expense *model.Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	// FindByPurchaseOrder returns expenses back-referencing the purchase order,
	// oldest first. A non-empty status narrows the match.
	FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID, status model.ExpenseStatus) ([]model.Expense, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Expense, error)
	List(ctx context.Context, page, limit int) ([]model.Expense, int64, error)
	// DeleteByPurchaseOrder removes every expense for the purchase order and
	// returns how many rows went away. Zero is not an error.
	DeleteByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) (int64, error)
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Create(expense).Error
}

func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Save(expense).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	if err := GetDB(ctx, r.db).First(&expense, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, "expense not found", err)
		}
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID, status model.ExpenseStatus) ([]model.Expense, error) {
	var expenses []model.Expense
	query := GetDB(ctx, r.db).Where("purchase_order_id = ?", purchaseOrderID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at asc").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *expenseRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := GetDB(ctx, r.db).Where("project_id = ?", projectID).Order("date desc").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *expenseRepository) List(ctx context.Context, page, limit int) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Expense{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&expenses).Error; err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

func (r *expenseRepository) DeleteByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) (int64, error) {
	result := GetDB(ctx, r.db).Where("purchase_order_id = ?", purchaseOrderID).Delete(&model.Expense{})
	return result.RowsAffected, result.Error
}
