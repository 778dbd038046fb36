package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemStatus enum constants
const (
	ItemStatusActive   = "ACTIVE"
	ItemStatusInactive = "INACTIVE"
)

// Item represents a priced catalog article. NetPrice (VP) and GrossPrice (MP)
// seed new calculation and receipt lines; the VAT rate comes from the
// referenced Tax definition at line-creation time.
type Item struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_items_tenant_code;uniqueIndex:idx_items_tenant_barcode" json:"tenant_id"`
	Code       string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_items_tenant_code" json:"code"`
	Barcode    string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_items_tenant_barcode" json:"barcode"`
	Name       string          `gorm:"type:varchar(255);not null" json:"name"`
	UOM        string          `gorm:"type:varchar(20);default:'kom'" json:"uom"`
	TaxID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"tax_id"`
	Tax        *Tax            `gorm:"foreignKey:TaxID" json:"tax,omitempty"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index" json:"category_id"`
	NetPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"net_price"`   // VP
	GrossPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"gross_price"` // MP
	Status     string          `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}
