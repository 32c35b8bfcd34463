package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agromart/agromart/internal/checkout/app"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// TxManager runs one checkout per SQL transaction. Serialization conflicts
// and deadlocks retry the whole closure, never a prefix of it.
type TxManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{db: db}
}

const maxTxAttempts = 3

func (m *TxManager) InTx(ctx context.Context, fn func(app.Stores) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = m.runOnce(ctx, fn)
		if err == nil || !isRetryableTxError(err) {
			return err
		}
	}
	return err
}

func (m *TxManager) runOnce(ctx context.Context, fn func(app.Stores) error) error {
	tx, err := m.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(&txStores{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w; rollback err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

func isRetryableTxError(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	// serialization_failure, deadlock_detected
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}
