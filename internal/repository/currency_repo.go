package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"gorm.io/gorm"
)

type CurrencyRepository interface {
	Create(ctx context.Context, rate *model.CurrencyRate) error
	// FindOnDate returns the newest rate for the code on or before the date.
	FindOnDate(ctx context.Context, code string, date time.Time) (*model.CurrencyRate, error)
	ListOnDate(ctx context.Context, date time.Time) ([]model.CurrencyRate, error)
}

type currencyRepository struct {
	db *gorm.DB
}

func NewCurrencyRepository(db *gorm.DB) CurrencyRepository {
	return &currencyRepository{db: db}
}

func (r *currencyRepository) Create(ctx context.Context, rate *model.CurrencyRate) error {
	return GetDB(ctx, r.db).Create(rate).Error
}

func (r *currencyRepository) FindOnDate(ctx context.Context, code string, date time.Time) (*model.CurrencyRate, error) {
	var rate model.CurrencyRate
	if err := GetDB(ctx, r.db).
		Where("code = ? AND date <= ?", code, date).
		Order("date DESC").
		First(&rate).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *currencyRepository) ListOnDate(ctx context.Context, date time.Time) ([]model.CurrencyRate, error) {
	var rates []model.CurrencyRate
	if err := GetDB(ctx, r.db).
		Where("date = ?", date).
		Order("code").
		Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}
