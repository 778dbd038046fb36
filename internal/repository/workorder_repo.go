package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkOrderRepository interface {
	Create(ctx context.Context, order *model.WorkOrder) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error)
	List(ctx context.Context, page, limit int) ([]model.WorkOrder, int64, error)
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
	CreateItem(ctx context.Context, item *model.WorkOrderItem) error
}

type workOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) WorkOrderRepository {
	return &workOrderRepository{db: db}
}

func (r *workOrderRepository) Create(ctx context.Context, order *model.WorkOrder) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *workOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Scopes(TenantScope(ctx)).
		Model(&model.WorkOrder{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *workOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error) {
	var order model.WorkOrder
	if err := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *workOrderRepository) List(ctx context.Context, page, limit int) ([]model.WorkOrder, int64, error) {
	var orders []model.WorkOrder
	var total int64

	db := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).Model(&model.WorkOrder{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *workOrderRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).
		Model(&model.WorkOrder{}).
		Where("number LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}

func (r *workOrderRepository) CreateItem(ctx context.Context, item *model.WorkOrderItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}
