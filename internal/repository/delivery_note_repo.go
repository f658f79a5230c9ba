package repository

import (
	"context"
	"errors"

	"backend/internal/model"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeliveryNoteRepository interface {
	Create(ctx context.Context, note *model.DeliveryNote) error
	Update(ctx context.Context, note *model.DeliveryNote) error
	// FindByIDWithOrder loads the note together with its items and the
	// referenced purchase order including its lines (needed to compute the
	// delivered amount).
	FindByIDWithOrder(ctx context.Context, id uuid.UUID) (*model.DeliveryNote, error)
	ListByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]model.DeliveryNote, error)
	List(ctx context.Context, page, limit int) ([]model.DeliveryNote, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type deliveryNoteRepository struct {
	db *gorm.DB
}

func NewDeliveryNoteRepository(db *gorm.DB) DeliveryNoteRepository {
	return &deliveryNoteRepository{db: db}
}

func (r *deliveryNoteRepository) Create(ctx context.Context, note *model.DeliveryNote) error {
	return GetDB(ctx, r.db).Create(note).Error
}

func (r *deliveryNoteRepository) Update(ctx context.Context, note *model.DeliveryNote) error {
	return GetDB(ctx, r.db).Save(note).Error
}

func (r *deliveryNoteRepository) FindByIDWithOrder(ctx context.Context, id uuid.UUID) (*model.DeliveryNote, error) {
	var note model.DeliveryNote
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("PurchaseOrder").
		Preload("PurchaseOrder.Items").
		First(&note, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, "delivery note not found", err)
		}
		return nil, err
	}
	return &note, nil
}

func (r *deliveryNoteRepository) ListByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]model.DeliveryNote, error) {
	var notes []model.DeliveryNote
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Where("purchase_order_id = ?", purchaseOrderID).
		Order("created_at DESC").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *deliveryNoteRepository) List(ctx context.Context, page, limit int) ([]model.DeliveryNote, int64, error) {
	var notes []model.DeliveryNote
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.DeliveryNote{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Items").
		Preload("PurchaseOrder").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notes).Error; err != nil {
		return nil, 0, err
	}

	return notes, total, nil
}

func (r *deliveryNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.DeliveryNote{}, "id = ?", id).Error
}
