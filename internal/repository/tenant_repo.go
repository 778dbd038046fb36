package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *model.Tenant) error
	Update(ctx context.Context, tenant *model.Tenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
	FindByRegistrationNumber(ctx context.Context, regNo string) (*model.Tenant, error)
	List(ctx context.Context) ([]model.Tenant, error)
	// ListActive returns tenants eligible for background jobs such as the
	// nightly sales summary mail.
	ListActive(ctx context.Context) ([]model.Tenant, error)
}

type tenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) Create(ctx context.Context, tenant *model.Tenant) error {
	return GetDB(ctx, r.db).Create(tenant).Error
}

func (r *tenantRepository) Update(ctx context.Context, tenant *model.Tenant) error {
	return GetDB(ctx, r.db).Save(tenant).Error
}

func (r *tenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := GetDB(ctx, r.db).First(&tenant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) FindByRegistrationNumber(ctx context.Context, regNo string) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := GetDB(ctx, r.db).First(&tenant, "registration_number = ?", regNo).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) List(ctx context.Context) ([]model.Tenant, error) {
	var tenants []model.Tenant
	if err := GetDB(ctx, r.db).Order("name").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *tenantRepository) ListActive(ctx context.Context) ([]model.Tenant, error) {
	var tenants []model.Tenant
	if err := GetDB(ctx, r.db).Where("status = ?", model.TenantStatusActive).Order("name").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}
