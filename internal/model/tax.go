package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tax stores a tenant's VAT rates with temporal validity. A line always
// snapshots the percent at creation time; the definition itself may be
// superseded later by a new row with a fresh validity window.
type Tax struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name      string          `gorm:"type:varchar(100);not null" json:"name"`
	ShortName string          `gorm:"type:varchar(10);not null" json:"short_name"` // e.g. "A", "B"
	Percent   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"percent"`  // e.g. 20.00 = 20%
	ValidFrom time.Time       `gorm:"type:date;not null;index" json:"valid_from"`
	ValidTo   *time.Time      `gorm:"type:date;index" json:"valid_to"` // nullable = currently active
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
