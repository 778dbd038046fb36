package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"backend/internal/model"
	"backend/internal/pricing"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateCurrencyRateRequest struct {
	Code    string `json:"code" binding:"required,len=3"`
	Date    string `json:"date" binding:"required"` // YYYY-MM-DD
	MidRate string `json:"mid_rate" binding:"required"`
}

type CurrencyRateResponse struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Date    string `json:"date"`
	MidRate string `json:"mid_rate"`
}

type ConvertResponse struct {
	Code      string `json:"code"`
	Date      string `json:"date"`
	RateDate  string `json:"rate_date"` // date of the rate actually used
	MidRate   string `json:"mid_rate"`
	Amount    string `json:"amount"`
	Converted string `json:"converted"`
}

// --- Interface ---

type CurrencyService interface {
	CreateRate(ctx context.Context, req CreateCurrencyRateRequest) (CurrencyRateResponse, error)
	ListRates(ctx context.Context, date string) ([]CurrencyRateResponse, error)
	// Convert multiplies a foreign amount by the mid rate valid on the date.
	// When no rate exists for the exact date, the newest earlier rate is used.
	Convert(ctx context.Context, code, date, amount string) (ConvertResponse, error)
}

type currencyService struct {
	currencyRepo repository.CurrencyRepository
}

func NewCurrencyService(currencyRepo repository.CurrencyRepository) CurrencyService {
	return &currencyService{currencyRepo: currencyRepo}
}

// --- Implementation ---

func (s *currencyService) CreateRate(ctx context.Context, req CreateCurrencyRateRequest) (CurrencyRateResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return CurrencyRateResponse{}, apperror.Validation("invalid date: " + req.Date)
	}
	midRate, err := decimal.NewFromString(req.MidRate)
	if err != nil || !midRate.IsPositive() {
		return CurrencyRateResponse{}, apperror.Validation("mid_rate must be a positive number")
	}

	rate := model.CurrencyRate{
		Code:    strings.ToUpper(req.Code),
		Date:    date,
		MidRate: midRate,
	}
	if err := s.currencyRepo.Create(ctx, &rate); err != nil {
		return CurrencyRateResponse{}, fmt.Errorf("failed to create currency rate: %w", err)
	}

	return toCurrencyRateResponse(rate), nil
}

func (s *currencyService) ListRates(ctx context.Context, date string) ([]CurrencyRateResponse, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, apperror.Validation("invalid date: " + date)
	}

	rates, err := s.currencyRepo.ListOnDate(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch currency rates: %w", err)
	}

	result := make([]CurrencyRateResponse, 0, len(rates))
	for _, r := range rates {
		result = append(result, toCurrencyRateResponse(r))
	}
	return result, nil
}

func (s *currencyService) Convert(ctx context.Context, code, date, amount string) (ConvertResponse, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ConvertResponse{}, apperror.Validation("invalid date: " + date)
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return ConvertResponse{}, apperror.Validation("invalid amount: " + amount)
	}

	rate, err := s.currencyRepo.FindOnDate(ctx, strings.ToUpper(code), parsed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ConvertResponse{}, apperror.NotFound("currency rate")
		}
		return ConvertResponse{}, fmt.Errorf("failed to fetch currency rate: %w", err)
	}

	return ConvertResponse{
		Code:      rate.Code,
		Date:      date,
		RateDate:  rate.Date.Format("2006-01-02"),
		MidRate:   rate.MidRate.StringFixed(6),
		Amount:    value.StringFixed(2),
		Converted: pricing.Round2(value.Mul(rate.MidRate)).StringFixed(2),
	}, nil
}

// --- Mapping ---

func toCurrencyRateResponse(rate model.CurrencyRate) CurrencyRateResponse {
	return CurrencyRateResponse{
		ID:      rate.ID.String(),
		Code:    rate.Code,
		Date:    rate.Date.Format("2006-01-02"),
		MidRate: rate.MidRate.StringFixed(6),
	}
}
