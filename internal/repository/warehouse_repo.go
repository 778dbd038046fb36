package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *model.Warehouse) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error)
	List(ctx context.Context) ([]model.Warehouse, error)
	// FindStock resolves the current stock row of an item in a warehouse;
	// gorm.ErrRecordNotFound when the item was never stocked there.
	FindStock(ctx context.Context, warehouseID, itemID uuid.UUID) (*model.WarehouseStock, error)
	SaveStock(ctx context.Context, stock *model.WarehouseStock) error
}

type warehouseRepository struct {
	db *gorm.DB
}

func NewWarehouseRepository(db *gorm.DB) WarehouseRepository {
	return &warehouseRepository{db: db}
}

func (r *warehouseRepository) Create(ctx context.Context, warehouse *model.Warehouse) error {
	return GetDB(ctx, r.db).Create(warehouse).Error
}

func (r *warehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error) {
	var warehouse model.Warehouse
	if err := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).First(&warehouse, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func (r *warehouseRepository) List(ctx context.Context) ([]model.Warehouse, error) {
	var warehouses []model.Warehouse
	if err := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).Order("name").Find(&warehouses).Error; err != nil {
		return nil, err
	}
	return warehouses, nil
}

func (r *warehouseRepository) FindStock(ctx context.Context, warehouseID, itemID uuid.UUID) (*model.WarehouseStock, error) {
	var stock model.WarehouseStock
	if err := GetDB(ctx, r.db).
		Where("warehouse_id = ? AND item_id = ?", warehouseID, itemID).
		First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *warehouseRepository) SaveStock(ctx context.Context, stock *model.WarehouseStock) error {
	return GetDB(ctx, r.db).Save(stock).Error
}
