package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus enum constants
const (
	InvoiceStatusDraft  = "DRAFT"
	InvoiceStatusIssued = "ISSUED"
)

// Invoice is a customer-facing sales document. Its lines are priced exactly
// like receipt lines and feed the same reporting rollups.
type Invoice struct {
	ID         uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID   uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_invoices_tenant_number" json:"tenant_id"`
	Number     string        `gorm:"type:varchar(30);not null;uniqueIndex:idx_invoices_tenant_number" json:"number"`
	CustomerID uuid.UUID     `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer   *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Status     string        `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	Note       string        `gorm:"type:text" json:"note"`
	Items      []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// InvoiceItem mirrors ReceiptItem pricing: gross from quantity and unit
// price, optional discount (percent precedence), VAT from the final gross.
type InvoiceItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item       *Item           `gorm:"foreignKey:ItemID" json:"-"`
	Position   int             `gorm:"type:int;not null" json:"position"`
	Quantity   decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	TaxPercent decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax_percent"`

	DiscountPercent *decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount_percent"`
	DiscountValue   *decimal.Decimal `gorm:"type:decimal(18,2)" json:"discount_value"`

	FinanceMP      decimal.Decimal `gorm:"column:finance_mp;type:decimal(18,2);not null" json:"finance_mp"`
	FinanceFinalMP decimal.Decimal `gorm:"column:finance_final_mp;type:decimal(18,2);not null" json:"finance_final_mp"`
	FinanceVP      decimal.Decimal `gorm:"column:finance_vp;type:decimal(18,2);not null" json:"finance_vp"`
	TaxFinance     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"tax_finance"`

	CreatedAt time.Time `json:"created_at"`
}
