package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkOrderStatus enum constants
const (
	WorkOrderStatusOpen   = "OPEN"
	WorkOrderStatusClosed = "CLOSED"
)

// PriceSource enum constants
const (
	PriceSourceCatalog   = "CATALOG"
	PriceSourceWarehouse = "WAREHOUSE"
)

// WorkOrder groups lines whose net price can come from the current warehouse
// price stack instead of the catalog.
type WorkOrder struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_work_orders_tenant_number" json:"tenant_id"`
	Number      string          `gorm:"type:varchar(30);not null;uniqueIndex:idx_work_orders_tenant_number" json:"number"`
	WarehouseID *uuid.UUID      `gorm:"type:uuid;index" json:"warehouse_id"`
	Status      string          `gorm:"type:varchar(20);not null;default:'OPEN';index" json:"status"`
	Note        string          `gorm:"type:text" json:"note"`
	Items       []WorkOrderItem `gorm:"foreignKey:WorkOrderID" json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// WorkOrderItem is one line of a work order, priced net-first from the
// resolved price source.
type WorkOrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WorkOrderID uuid.UUID       `gorm:"type:uuid;not null;index" json:"work_order_id"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item        *Item           `gorm:"foreignKey:ItemID" json:"-"`
	Position    int             `gorm:"type:int;not null" json:"position"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	TaxPercent  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax_percent"`
	PriceSource string          `gorm:"type:varchar(20);not null" json:"price_source"` // CATALOG, WAREHOUSE
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"` // net unit price from the source
	FinanceVP   decimal.Decimal `gorm:"column:finance_vp;type:decimal(18,2);not null" json:"finance_vp"`
	FinanceMP   decimal.Decimal `gorm:"column:finance_mp;type:decimal(18,2);not null" json:"finance_mp"`
	CreatedAt   time.Time       `json:"created_at"`
}
