package repository

import (
	"context"
	"errors"

	"backend/pkg/apperror"

	"gorm.io/gorm"
)

type contextKey string

const txKey contextKey = "gorm_tx"

// TransactionManager manages database transactions via context injection.
// Every mutating aggregate operation runs inside exactly one transaction;
// an error on any path rolls back all writes of that call.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type transactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &transactionManager{db: db}
}

func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	var fnErr error
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey, tx)
		fnErr = fn(txCtx)
		return fnErr
	})
	if err == nil {
		return nil
	}
	// Errors raised by the callback propagate unmodified; only begin/commit
	// failures are classified as transaction errors.
	if errors.Is(err, fnErr) {
		return err
	}
	return apperror.Transaction(err)
}

// GetDB extracts the transaction DB from context if present, otherwise returns root DB.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}
