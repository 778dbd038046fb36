package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTaxPercent(t *testing.T) {
	taxA := model.Tax{ID: uuid.New(), ShortName: "A", Percent: decimal.NewFromInt(20)}
	taxB := model.Tax{ID: uuid.New(), ShortName: "B", Percent: decimal.NewFromInt(10)}
	snapshot := []model.Tax{taxA, taxB}

	percent, err := FindTaxPercent(snapshot, taxB.ID)
	require.NoError(t, err)
	assert.True(t, percent.Equal(decimal.NewFromInt(10)))

	_, err = FindTaxPercent(snapshot, uuid.New())
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindPrecondition, appErr.Kind)
}

func TestTaxServiceValidTaxesIsTenantScoped(t *testing.T) {
	tenantA := uuid.New()
	tenantB := uuid.New()

	taxRepo := &fakeTaxRepo{taxes: []model.Tax{
		{ID: uuid.New(), TenantID: tenantA, ShortName: "A", Percent: decimal.NewFromInt(20), ValidFrom: time.Now().AddDate(-1, 0, 0)},
		{ID: uuid.New(), TenantID: tenantB, ShortName: "A", Percent: decimal.NewFromInt(25), ValidFrom: time.Now().AddDate(-1, 0, 0)},
	}}
	svc := NewTaxService(taxRepo)

	ctx := repository.WithTenant(context.Background(), tenantA)
	taxes, err := svc.ValidTaxes(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, taxes, 1)
	assert.Equal(t, tenantA, taxes[0].TenantID)
	assert.True(t, taxes[0].Percent.Equal(decimal.NewFromInt(20)))
}

func TestTaxServiceValidTaxesHonorsValidityWindow(t *testing.T) {
	tenantID := uuid.New()
	ctx := repository.WithTenant(context.Background(), tenantID)

	expired := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	taxRepo := &fakeTaxRepo{taxes: []model.Tax{
		{ID: uuid.New(), TenantID: tenantID, ShortName: "A", Percent: decimal.NewFromInt(22),
			ValidFrom: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), ValidTo: &expired},
		{ID: uuid.New(), TenantID: tenantID, ShortName: "A", Percent: decimal.NewFromInt(20),
			ValidFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewTaxService(taxRepo)

	taxes, err := svc.ValidTaxes(ctx, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, taxes, 1)
	assert.True(t, taxes[0].Percent.Equal(decimal.NewFromInt(20)))
}

func TestTaxServiceCreateTaxValidation(t *testing.T) {
	tenantID := uuid.New()
	ctx := repository.WithTenant(context.Background(), tenantID)
	svc := NewTaxService(&fakeTaxRepo{})

	tests := []struct {
		name string
		req  CreateTaxRequest
	}{
		{
			name: "bad percent",
			req:  CreateTaxRequest{Name: "VAT", ShortName: "A", Percent: "abc", ValidFrom: "2026-01-01"},
		},
		{
			name: "negative percent",
			req:  CreateTaxRequest{Name: "VAT", ShortName: "A", Percent: "-5", ValidFrom: "2026-01-01"},
		},
		{
			name: "valid_to before valid_from",
			req:  CreateTaxRequest{Name: "VAT", ShortName: "A", Percent: "20", ValidFrom: "2026-01-01", ValidTo: "2025-01-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTax(ctx, tt.req)
			require.Error(t, err)
			appErr, ok := apperror.As(err)
			require.True(t, ok)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
		})
	}
}
