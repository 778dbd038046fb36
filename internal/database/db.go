package database

import (
	"log"

	"backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.RefreshToken{},
		&model.Tax{},
		&model.Category{},
		&model.CategoryRelation{},
		&model.Item{},
		&model.Calculation{},
		&model.CalculationItem{},
		&model.CalculationExpense{},
		&model.Receipt{},
		&model.ReceiptItem{},
		&model.ReceiptPayment{},
		&model.Customer{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.Warehouse{},
		&model.WarehouseStock{},
		&model.WorkOrder{},
		&model.WorkOrderItem{},
		&model.CurrencyRate{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
