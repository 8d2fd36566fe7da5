package xcontext

import (
	"context"

	"gorm.io/gorm"
)

type dbTx struct {
	db *gorm.DB
}

// WithDBTransaction begins a database transaction. All subsequent calls of DB
// on the returned context use this transaction until it is committed or
// rolled back.
func WithDBTransaction(ctx context.Context) context.Context {
	if tx, ok := ctx.Value(dbTxKey{}).(*dbTx); ok && tx.db != nil {
		// Nested transactions join the outer one.
		return ctx
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		return ctx
	}

	return context.WithValue(ctx, dbTxKey{}, &dbTx{db: db.WithContext(ctx).Begin()})
}

func WithCommitDBTransaction(ctx context.Context) error {
	tx, ok := ctx.Value(dbTxKey{}).(*dbTx)
	if !ok || tx.db == nil {
		return nil
	}

	err := tx.db.Commit().Error
	tx.db = nil
	return err
}

// WithRollbackDBTransaction rollbacks the transaction if it has not been
// committed yet. It is safe to defer right after WithDBTransaction.
func WithRollbackDBTransaction(ctx context.Context) {
	tx, ok := ctx.Value(dbTxKey{}).(*dbTx)
	if !ok || tx.db == nil {
		return
	}

	tx.db.Rollback()
	tx.db = nil
}
