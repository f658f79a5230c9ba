package repository

import (
	"context"
	"errors"

	"backend/internal/model"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PriceItemRepository interface {
	Create(ctx context.Context, item *model.PriceItem) error
	Update(ctx context.Context, item *model.PriceItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PriceItem, error)
	List(ctx context.Context, category model.ExpenseCategory, search string, page, limit int) ([]model.PriceItem, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type priceItemRepository struct {
	db *gorm.DB
}

func NewPriceItemRepository(db *gorm.DB) PriceItemRepository {
	return &priceItemRepository{db: db}
}

func (r *priceItemRepository) Create(ctx context.Context, item *model.PriceItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *priceItemRepository) Update(ctx context.Context, item *model.PriceItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *priceItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PriceItem, error) {
	var item model.PriceItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, "price item not found", err)
		}
		return nil, err
	}
	return &item, nil
}

func (r *priceItemRepository) List(ctx context.Context, category model.ExpenseCategory, search string, page, limit int) ([]model.PriceItem, int64, error) {
	var items []model.PriceItem
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.PriceItem{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *priceItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.PriceItem{}, "id = ?", id).Error
}
