package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the common query surface of a pgx pool and a pgx transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type txKey struct{}

// WithTx returns a context carrying the given transaction. Repositories
// resolve their executor from the context, so code inside Store.RunTx runs
// against the transaction without threading it explicitly.
func WithTx(ctx context.Context, tx DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// executor returns the transaction from ctx when present, else the pool.
func (s *Store) executor(ctx context.Context) DB {
	if tx, ok := ctx.Value(txKey{}).(DB); ok {
		return tx
	}
	return s.pool
}

// RunTx runs fn inside a transaction. The default isolation level is
// Serializable; partial application of multi-row mutations is the primary
// correctness risk in this system, so every booking+calendar write pair goes
// through here.
func (s *Store) RunTx(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context) error,
) error {
	txOpts := pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	}
	if opts != nil {
		txOpts = *opts
	}

	tx, err := s.pool.BeginTx(ctx, txOpts)
	if err != nil {
		return err
	}

	defer tx.Rollback(ctx)

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func (s *Store) Bookings() *BookingRepo  { return &BookingRepo{store: s} }
func (s *Store) Calendar() *CalendarRepo { return &CalendarRepo{store: s} }
func (s *Store) Query() *QueryRepo       { return &QueryRepo{store: s} }
