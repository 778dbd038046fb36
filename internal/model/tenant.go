package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantStatus enum constants
const (
	TenantStatusActive    = "ACTIVE"
	TenantStatusSuspended = "SUSPENDED"
)

// Tenant represents one client company whose data is isolated from all others.
// Every business table carries a tenant_id referencing this entity.
type Tenant struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name               string         `gorm:"type:varchar(255);not null" json:"name"`
	RegistrationNumber string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"registration_number"`
	TaxNumber          string         `gorm:"type:varchar(50)" json:"tax_number"`
	Email              string         `gorm:"type:varchar(255)" json:"email"`
	Status             string         `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}
