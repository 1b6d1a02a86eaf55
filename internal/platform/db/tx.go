package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

// TxKey carries an open transaction so repositories join it transparently.
const TxKey contextKey = "db_tx"

// TxFromContext retrieves the active transaction from context, if any.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(TxKey).(pgx.Tx)
	return tx
}

// WithTx begins a transaction on the pool and returns a derived context that
// repositories will use for every statement until cleanup runs. The caller
// must invoke cleanup with the final error to commit or roll back.
func WithTx(ctx context.Context, pool *pgxpool.Pool) (context.Context, func(error) error, error) {
	if tx := TxFromContext(ctx); tx != nil {
		// Already inside a transaction; join it and let the outer owner finish it.
		return ctx, func(err error) error { return err }, nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return ctx, nil, fmt.Errorf("begin transaction: %w", err)
	}

	txCtx := context.WithValue(ctx, TxKey, tx)
	cleanup := func(opErr error) error {
		if opErr != nil {
			_ = tx.Rollback(ctx)
			return opErr
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	}
	return txCtx, cleanup, nil
}
