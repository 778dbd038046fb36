package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CalculationStatus enum constants
const (
	CalculationStatusOpen   = "OPEN"
	CalculationStatusClosed = "CLOSED"
)

// ExpenseKind enum constants
const (
	ExpenseKindInternal = "INTERNAL"
	ExpenseKindExternal = "EXTERNAL"
)

// Calculation is the costing document: an ordered set of priced lines plus
// internal/external expense entries distributed across them. Lines and
// expenses may only change while the calculation is OPEN; closing makes the
// whole aggregate immutable.
type Calculation struct {
	ID             uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID       uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_calculations_tenant_number" json:"tenant_id"`
	Number         string               `gorm:"type:varchar(30);not null;uniqueIndex:idx_calculations_tenant_number" json:"number"`
	InputMode      string               `gorm:"type:varchar(20);not null;default:'NET_FIRST'" json:"input_mode"` // NET_FIRST, GROSS_FIRST
	Status         string               `gorm:"type:varchar(20);not null;default:'OPEN';index" json:"status"`
	TotalFinanceMP decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0" json:"total_finance_mp"` // derived sum of line gross values
	Note           string               `gorm:"type:text" json:"note"`
	Items          []CalculationItem    `gorm:"foreignKey:CalculationID" json:"items"`
	Expenses       []CalculationExpense `gorm:"foreignKey:CalculationID" json:"expenses"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// CalculationItem is one priced line of a calculation. FinanceVP/FinanceMP
// hold the original totals; the Internal pair holds values after internal
// expense allocation, the Final pair after external allocation on top.
type CalculationItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CalculationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"calculation_id"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item          *Item           `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Position      int             `gorm:"type:int;not null" json:"position"`
	Quantity      decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	TaxPercent    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax_percent"` // snapshot at line creation

	FinanceVP decimal.Decimal `gorm:"column:finance_vp;type:decimal(18,2);not null;default:0" json:"finance_vp"` // net total
	FinanceMP decimal.Decimal `gorm:"column:finance_mp;type:decimal(18,2);not null;default:0" json:"finance_mp"` // gross total

	FinanceVPInternal decimal.Decimal `gorm:"column:finance_vp_internal;type:decimal(18,2);not null;default:0" json:"finance_vp_internal"`
	FinanceMPInternal decimal.Decimal `gorm:"column:finance_mp_internal;type:decimal(18,2);not null;default:0" json:"finance_mp_internal"`
	FinanceVPFinal    decimal.Decimal `gorm:"column:finance_vp_final;type:decimal(18,2);not null;default:0" json:"finance_vp_final"`
	FinanceMPFinal    decimal.Decimal `gorm:"column:finance_mp_final;type:decimal(18,2);not null;default:0" json:"finance_mp_final"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CalculationExpense is one cost entry distributed over the calculation's
// lines. Internal expenses allocate before external ones.
type CalculationExpense struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CalculationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"calculation_id"`
	Kind          string          `gorm:"type:varchar(20);not null" json:"kind"` // INTERNAL, EXTERNAL
	Description   string          `gorm:"type:varchar(255)" json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`       // gross amount
	TaxPercent    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax_percent"`  // the expense's own VAT rate
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
