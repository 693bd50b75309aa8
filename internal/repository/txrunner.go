package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/rachnit/blog-backend/internal/repository/common"
)

// TxRunner gives services a way to group repository calls into one
// transaction without holding the database handle themselves.
type TxRunner struct {
	db *sqlx.DB
}

func NewTxRunner(db *sqlx.DB) *TxRunner {
	return &TxRunner{db: db}
}

// WithTx runs fn inside a transaction; see common.WithTransaction.
func (t *TxRunner) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return common.WithTransaction(ctx, t.db, fn)
}
