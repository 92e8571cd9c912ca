package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is implemented by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txContextKey struct{}

// WithTx returns a context carrying tx. Incident writes made with that
// context join the transaction instead of using the pool.
func WithTx(ctx context.Context, tx DBTX) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxFromContext returns the transaction stored by WithTx.
func TxFromContext(ctx context.Context) (DBTX, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txContextKey{}).(DBTX)
	return tx, ok
}

func executor(ctx context.Context, fallback DBTX) (DBTX, error) {
	if tx, ok := TxFromContext(ctx); ok {
		return tx, nil
	}
	if fallback == nil {
		return nil, fmt.Errorf("%w: no database handle", ErrFailedToOpenDBConnection)
	}
	return fallback, nil
}
