package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReceiptRepository interface {
	// Create persists the receipt with all items and payments in one go.
	Create(ctx context.Context, receipt *model.Receipt) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error)
	List(ctx context.Context, page, limit int) ([]model.Receipt, int64, error)
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
}

type receiptRepository struct {
	db *gorm.DB
}

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *model.Receipt) error {
	return GetDB(ctx, r.db).Create(receipt).Error
}

func (r *receiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	var receipt model.Receipt
	if err := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Payments").
		First(&receipt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) List(ctx context.Context, page, limit int) ([]model.Receipt, int64, error) {
	var receipts []model.Receipt
	var total int64

	db := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).Model(&model.Receipt{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Items").Preload("Payments").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&receipts).Error; err != nil {
		return nil, 0, err
	}

	return receipts, total, nil
}

func (r *receiptRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).
		Model(&model.Receipt{}).
		Where("number LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}
