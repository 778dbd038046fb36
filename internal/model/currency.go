package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrencyRate stores the daily mid rate for one ISO currency code. Rates
// are entered manually or imported by an external job; fetching them from a
// remote server is not this service's concern.
type CurrencyRate struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code      string          `gorm:"type:varchar(3);not null;uniqueIndex:idx_currency_rates_code_date" json:"code"`
	Date      time.Time       `gorm:"type:date;not null;uniqueIndex:idx_currency_rates_code_date" json:"date"`
	MidRate   decimal.Decimal `gorm:"type:decimal(18,6);not null" json:"mid_rate"`
	CreatedAt time.Time       `json:"created_at"`
}
