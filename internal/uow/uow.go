package uow

import (
	"context"

	"github.com/jackc/pgx/v5"

	postgres "github.com/ardenlx/book-go/internal/repository/postgres"
)

// AfterCommit is a function that runs after a successful transaction commit.
type AfterCommit func(ctx context.Context)

// maxRetries bounds retry attempts on serialization failures.
const maxRetries = 3

// UoW represents a unit of work over the postgres store.
type UoW struct {
	store *postgres.Store
}

func NewUoW(store *postgres.Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn inside a serializable transaction; the transaction travels in
// the context fn receives. Serialization failures are retried a bounded
// number of times. After a successful commit, all registered after-commit
// hooks run.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, after func(AfterCommit)) error,
) error {
	return u.DoWithOpts(ctx, nil, fn)
}

// DoWithOpts is Do with explicit transaction options.
func (u *UoW) DoWithOpts(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, after func(AfterCommit)) error,
) error {
	var hooks []AfterCommit

	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		hooks = hooks[:0]

		err = u.store.RunTx(ctx, opts, func(ctx context.Context) error {
			return fn(ctx, func(h AfterCommit) {
				hooks = append(hooks, h)
			})
		})
		if err == nil {
			break
		}
		if !postgres.IsRetryable(err) {
			return err
		}
	}
	if err != nil {
		return err
	}

	for _, h := range hooks {
		h(ctx)
	}

	return nil
}
