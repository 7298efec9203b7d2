package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sangkips/retailpos-api/pkg/apperror"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type txKey struct{}

// TxManager hands out gorm handles bound to connections of a ConnPool.
// Statements either run on a connection held for one call (Run) or inside a
// transaction that owns its connection for its whole duration
// (WithinTransaction).
type TxManager struct {
	orm  *gorm.DB
	pool *ConnPool
	log  *zap.Logger
}

func NewTxManager(orm *gorm.DB, pool *ConnPool, log *zap.Logger) *TxManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &TxManager{orm: orm, pool: pool, log: log}
}

func (m *TxManager) Pool() *ConnPool {
	return m.pool
}

// WithinTransaction begins a transaction on a pooled connection and runs fn
// with a context carrying it. It commits when fn returns nil and rolls back
// on an error or a panic. The connection goes back to the pool in both cases.
// A ctx that already carries a transaction is reused, so nested calls join
// the outer unit of work.
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	return m.pool.WithConn(ctx, func(c *Conn) error {
		tx, err := c.Raw().BeginTx(ctx, nil)
		if err != nil {
			return apperror.NewStorageError("begin transaction", err)
		}

		done := false
		defer func() {
			if done {
				return
			}
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				m.log.Error("rollback failed", zap.Error(rbErr))
			}
		}()

		txCtx := context.WithValue(ctx, txKey{}, bind(ctx, m.orm, tx))
		if err := fn(txCtx); err != nil {
			return err
		}

		done = true
		if err := tx.Commit(); err != nil {
			return apperror.NewStorageError("commit transaction", err)
		}
		return nil
	})
}

// Run calls fn with the transaction carried by ctx, or with a handle bound to
// a pooled connection held until fn returns.
func (m *TxManager) Run(ctx context.Context, fn func(db *gorm.DB) error) error {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(tx.WithContext(ctx))
	}
	return m.pool.WithConn(ctx, func(c *Conn) error {
		return fn(bind(ctx, m.orm, c.Raw()))
	})
}

// InTransaction reports whether ctx carries a transaction.
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok
}

// bind returns a fresh gorm session whose statements go to cp.
func bind(ctx context.Context, orm *gorm.DB, cp gorm.ConnPool) *gorm.DB {
	s := orm.Session(&gorm.Session{
		NewDB:                  true,
		Context:                ctx,
		SkipDefaultTransaction: true,
	})
	s.Statement.ConnPool = cp
	return s
}
