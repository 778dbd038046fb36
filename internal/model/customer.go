package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AddressType enum constants
const (
	AddressTypeBilling  = "BILLING"
	AddressTypeShipping = "SHIPPING"
)

// Customer is a tenant's client appearing on invoices and receipts.
type Customer struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID  uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_customers_tenant_code" json:"tenant_id"`
	Code      string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_customers_tenant_code" json:"code"`
	Name      string            `gorm:"type:varchar(255);not null" json:"name"`
	TaxCode   string            `gorm:"type:varchar(50)" json:"tax_code"`
	Email     string            `gorm:"type:varchar(255)" json:"email"`
	Addresses []CustomerAddress `gorm:"foreignKey:CustomerID" json:"addresses,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	DeletedAt gorm.DeletedAt    `gorm:"index" json:"-"`
}

// CustomerAddress is one postal address of a customer.
type CustomerAddress struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID  uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	AddressType string    `gorm:"type:varchar(20);not null;default:'BILLING'" json:"address_type"`
	FullAddress string    `gorm:"type:text;not null" json:"full_address"`
	CreatedAt   time.Time `json:"created_at"`
}
