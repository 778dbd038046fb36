package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const tenantKey contextKey = "tenant_id"

// WithTenant adds the tenant ID to the context. The auth middleware calls
// this once per request from the token's tenant claim.
func WithTenant(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantKey, tenantID)
}

// TenantFrom extracts the tenant ID from context.
func TenantFrom(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(tenantKey).(uuid.UUID)
	return tenantID, ok
}

// TenantScope returns a GORM scope filtering by the context tenant. A
// missing tenant fails safe and matches nothing: cross-tenant reads must be
// impossible by construction, not by caller discipline.
func TenantScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		tenantID, ok := TenantFrom(ctx)
		if !ok {
			return db.Where("1 = 0")
		}
		return db.Where("tenant_id = ?", tenantID)
	}
}
