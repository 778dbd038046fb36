package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	// FindActiveByID resolves a currently sellable catalog item for the
	// context tenant.
	FindActiveByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	FindByCode(ctx context.Context, code string) (*model.Item, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Item, error)
	List(ctx context.Context, page, limit int) ([]model.Item, int64, error)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *itemRepository) Update(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Scopes(TenantScope(ctx)).Save(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Scopes(TenantScope(ctx)).Where("id = ?", id).Delete(&model.Item{}).Error
}

func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).Preload("Tax").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).
		Where("id = ? AND status = ?", id, model.ItemStatusActive).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindByCode(ctx context.Context, code string) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).First(&item, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindByBarcode(ctx context.Context, barcode string) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).First(&item, "barcode = ?", barcode).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context, page, limit int) ([]model.Item, int64, error) {
	var items []model.Item
	var total int64

	db := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).Model(&model.Item{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Tax").Order("code").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}
