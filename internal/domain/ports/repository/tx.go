package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

// TransactionManager executes a function within a database transaction,
// passing the transaction handle to repositories via `tx`.
//
// Repositories MUST gracefully accept a nil tx (non-transactional path); the
// concrete type of tx is infra-defined (pgx.Tx for Postgres). Keeping the
// handle opaque here stops transaction types from leaking into use cases.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
