package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaxRepository interface {
	Create(ctx context.Context, tax *model.Tax) error
	Update(ctx context.Context, tax *model.Tax) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Tax, error)
	List(ctx context.Context, page, limit int) ([]model.Tax, int64, error)
	// FindValid returns all tax definitions valid on the target date for the
	// context tenant. Callers fetch this snapshot once per transaction.
	FindValid(ctx context.Context, targetDate time.Time) ([]model.Tax, error)
}

type taxRepository struct {
	db *gorm.DB
}

func NewTaxRepository(db *gorm.DB) TaxRepository {
	return &taxRepository{db: db}
}

func (r *taxRepository) Create(ctx context.Context, tax *model.Tax) error {
	return GetDB(ctx, r.db).Create(tax).Error
}

func (r *taxRepository) Update(ctx context.Context, tax *model.Tax) error {
	return GetDB(ctx, r.db).Scopes(TenantScope(ctx)).Save(tax).Error
}

func (r *taxRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Tax, error) {
	var tax model.Tax
	if err := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).First(&tax, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tax, nil
}

func (r *taxRepository) List(ctx context.Context, page, limit int) ([]model.Tax, int64, error) {
	var taxes []model.Tax
	var total int64

	db := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).Model(&model.Tax{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("valid_from desc").Offset(offset).Limit(limit).Find(&taxes).Error; err != nil {
		return nil, 0, err
	}

	return taxes, total, nil
}

func (r *taxRepository) FindValid(ctx context.Context, targetDate time.Time) ([]model.Tax, error) {
	var taxes []model.Tax
	if err := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).
		Where("valid_from <= ? AND (valid_to IS NULL OR valid_to >= ?)", targetDate, targetDate).
		Order("valid_from DESC").
		Find(&taxes).Error; err != nil {
		return nil, err
	}
	return taxes, nil
}
