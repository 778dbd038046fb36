package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CalculationRepository interface {
	Create(ctx context.Context, calc *model.Calculation) error
	UpdateHeader(ctx context.Context, calc *model.Calculation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Calculation, error)
	// FindByIDWithChildren loads the aggregate with items (ordered by
	// position) and expenses for a full recompute.
	FindByIDWithChildren(ctx context.Context, id uuid.UUID) (*model.Calculation, error)
	List(ctx context.Context, page, limit int) ([]model.Calculation, int64, error)
	CountByPrefix(ctx context.Context, prefix string) (int64, error)

	CreateItem(ctx context.Context, item *model.CalculationItem) error
	SaveItem(ctx context.Context, item *model.CalculationItem) error
	DeleteItem(ctx context.Context, calcID, itemID uuid.UUID) error

	CreateExpense(ctx context.Context, expense *model.CalculationExpense) error
	SaveExpense(ctx context.Context, expense *model.CalculationExpense) error
	DeleteExpense(ctx context.Context, calcID, expenseID uuid.UUID) error
}

type calculationRepository struct {
	db *gorm.DB
}

func NewCalculationRepository(db *gorm.DB) CalculationRepository {
	return &calculationRepository{db: db}
}

func (r *calculationRepository) Create(ctx context.Context, calc *model.Calculation) error {
	return GetDB(ctx, r.db).Create(calc).Error
}

func (r *calculationRepository) UpdateHeader(ctx context.Context, calc *model.Calculation) error {
	return GetDB(ctx, r.db).Scopes(TenantScope(ctx)).
		Model(&model.Calculation{}).
		Where("id = ?", calc.ID).
		Updates(map[string]interface{}{
			"input_mode":       calc.InputMode,
			"status":           calc.Status,
			"total_finance_mp": calc.TotalFinanceMP,
			"note":             calc.Note,
		}).Error
}

func (r *calculationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Calculation, error) {
	var calc model.Calculation
	if err := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).First(&calc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &calc, nil
}

func (r *calculationRepository) FindByIDWithChildren(ctx context.Context, id uuid.UUID) (*model.Calculation, error) {
	var calc model.Calculation
	if err := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Items.Item").
		Preload("Expenses").
		First(&calc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &calc, nil
}

func (r *calculationRepository) List(ctx context.Context, page, limit int) ([]model.Calculation, int64, error) {
	var calcs []model.Calculation
	var total int64

	db := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).Model(&model.Calculation{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&calcs).Error; err != nil {
		return nil, 0, err
	}

	return calcs, total, nil
}

func (r *calculationRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).
		Model(&model.Calculation{}).
		Where("number LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}

func (r *calculationRepository) CreateItem(ctx context.Context, item *model.CalculationItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *calculationRepository) SaveItem(ctx context.Context, item *model.CalculationItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *calculationRepository) DeleteItem(ctx context.Context, calcID, itemID uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("calculation_id = ? AND id = ?", calcID, itemID).
		Delete(&model.CalculationItem{}).Error
}

func (r *calculationRepository) CreateExpense(ctx context.Context, expense *model.CalculationExpense) error {
	return GetDB(ctx, r.db).Create(expense).Error
}

func (r *calculationRepository) SaveExpense(ctx context.Context, expense *model.CalculationExpense) error {
	return GetDB(ctx, r.db).Save(expense).Error
}

func (r *calculationRepository) DeleteExpense(ctx context.Context, calcID, expenseID uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("calculation_id = ? AND id = ?", calcID, expenseID).
		Delete(&model.CalculationExpense{}).Error
}
