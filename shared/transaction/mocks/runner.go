package mocks

import (
	"context"
	"eventhub/shared/transaction"

	"github.com/jmoiron/sqlx"
)

type runnerImpl struct{}

// WithinTx implements transaction.Runner without a database; fn receives a nil tx.
func (r *runnerImpl) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	return fn(ctx, nil)
}

func NewRunner() transaction.Runner {
	return &runnerImpl{}
}
