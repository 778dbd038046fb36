package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentKind enum constants
const (
	PaymentKindCash  = "CASH"
	PaymentKindCard  = "CARD"
	PaymentKindCheck = "CHECK"
)

// Receipt is a point-of-sale document: at least one line and at least one
// payment. Lines are immutable once the receipt is persisted.
type Receipt struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_receipts_tenant_number" json:"tenant_id"`
	Number     string           `gorm:"type:varchar(30);not null;uniqueIndex:idx_receipts_tenant_number" json:"number"`
	CustomerID *uuid.UUID       `gorm:"type:uuid;index" json:"customer_id"`
	UserID     *uuid.UUID       `gorm:"type:uuid;index" json:"user_id"` // cashier
	Items      []ReceiptItem    `gorm:"foreignKey:ReceiptID" json:"items"`
	Payments   []ReceiptPayment `gorm:"foreignKey:ReceiptID" json:"payments"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// ReceiptItem is one sold line. FinanceMP is the pre-discount gross,
// FinanceFinalMP the gross after discount, and TaxFinance the VAT portion of
// the final gross. DiscountPercent and DiscountValue are mutually exclusive;
// the percent path wins if a caller manages to set both.
type ReceiptItem struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReceiptID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"receipt_id"`
	ItemID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"item_id"`
	Item       *Item            `gorm:"foreignKey:ItemID" json:"-"`
	Position   int              `gorm:"type:int;not null" json:"position"`
	Quantity   decimal.Decimal  `gorm:"type:decimal(12,3);not null" json:"quantity"`
	UnitPrice  decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"unit_price"`  // gross catalog price at sale time
	TaxPercent decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"tax_percent"` // snapshot

	DiscountPercent *decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount_percent"`
	DiscountValue   *decimal.Decimal `gorm:"type:decimal(18,2)" json:"discount_value"`

	FinanceMP      decimal.Decimal `gorm:"column:finance_mp;type:decimal(18,2);not null" json:"finance_mp"`
	FinanceFinalMP decimal.Decimal `gorm:"column:finance_final_mp;type:decimal(18,2);not null" json:"finance_final_mp"`
	FinanceVP      decimal.Decimal `gorm:"column:finance_vp;type:decimal(18,2);not null" json:"finance_vp"`
	TaxFinance     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"tax_finance"`

	CreatedAt time.Time `json:"created_at"`
}

// ReceiptPayment is one tender entry settling a receipt.
type ReceiptPayment struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReceiptID uuid.UUID       `gorm:"type:uuid;not null;index" json:"receipt_id"`
	Kind      string          `gorm:"type:varchar(20);not null" json:"kind"` // CASH, CARD, CHECK
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}
