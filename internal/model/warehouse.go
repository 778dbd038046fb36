package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Warehouse is a tenant's stock location.
type Warehouse struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WarehouseStock tracks the current quantity and stacked (moving average)
// net price of one item in one warehouse. The price stack is the preferred
// price source for work order lines.
type WarehouseStock struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_warehouse_stock_item" json:"warehouse_id"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_warehouse_stock_item" json:"item_id"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"quantity"`
	PriceStack  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"price_stack"` // net unit price
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
