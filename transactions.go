package grantkit

import (
	"context"
	"fmt"
	"time"

	"github.com/fernandezvara/dbkit"
)

// Transaction executes fn within a database transaction with automatic
// commit/rollback. fn receives a Manager bound to the transaction; the
// receiver is left untouched, so concurrent callers are unaffected. Nested
// calls run inside a savepoint.
//
// Multi-statement mutations — item removal cascades, edge insertion with its
// loop probe — run through here so a concurrent reader never observes an
// inconsistent intermediate state.
//
// Example:
//
//	err := manager.Transaction(ctx, func(ctx context.Context, tx *grantkit.Manager) error {
//	    if _, err := tx.Assign(ctx, editor, "42"); err != nil {
//	        return err // rolls back
//	    }
//	    _, err := tx.Revoke(ctx, writer, "42")
//	    return err // nil commits
//	})
func (m *Manager) Transaction(ctx context.Context, fn func(ctx context.Context, tx *Manager) error) error {
	start := time.Now()
	var err error

	switch db := m.db.(type) {
	case *dbkit.Tx:
		// Already transactional; nest via savepoint.
		err = db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx, m.withDB(tx))
		})
	case *dbkit.DBKit:
		err = db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx, m.withDB(tx))
		})
	default:
		err = fmt.Errorf("grantkit: transaction support requires a dbkit.DBKit or dbkit.Tx instance")
	}

	m.txMonitor.recordTransaction(time.Since(start), err == nil)
	return err
}

// TransactionWithOptions executes fn within a transaction with custom
// options: read-only, isolation level, and other transaction parameters.
// Options are ignored when already nested inside a transaction.
func (m *Manager) TransactionWithOptions(ctx context.Context, opts dbkit.TxOptions, fn func(ctx context.Context, tx *Manager) error) error {
	switch db := m.db.(type) {
	case *dbkit.Tx:
		return db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx, m.withDB(tx))
		})
	case *dbkit.DBKit:
		return db.TransactionWithOptions(ctx, opts, func(tx *dbkit.Tx) error {
			return fn(ctx, m.withDB(tx))
		})
	}
	return fmt.Errorf("grantkit: transaction support requires a dbkit.DBKit or dbkit.Tx instance")
}

// ReadOnlyTransaction executes fn within a read-only transaction. Useful for
// multi-query reads that want one consistent snapshot, such as a bulk
// permission listing followed by per-item checks.
func (m *Manager) ReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context, tx *Manager) error) error {
	return m.TransactionWithOptions(ctx, dbkit.ReadOnlyTxOptions(), fn)
}
