// Package dbtest opens throwaway SQLite databases wired the same way as
// production: migrated schema, a ConnPool and a TxManager.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sangkips/retailpos-api/internal/config"
	"github.com/sangkips/retailpos-api/internal/infrastructure/database"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// DB is a migrated test database.
type DB struct {
	ORM  *gorm.DB
	Pool *database.ConnPool
	Tx   *database.TxManager
}

// New creates a database under t.TempDir with the given pool sizes. Everything
// is closed when the test ends.
func New(t *testing.T, pool config.PoolConfig) *DB {
	t.Helper()
	log := zaptest.NewLogger(t)

	path := filepath.Join(t.TempDir(), "pos.db")
	orm, err := database.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), false, log)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(orm, log))

	sqlDB, err := orm.DB()
	require.NoError(t, err)

	p, err := database.NewConnPool(context.Background(), sqlDB, pool, log)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = p.Shutdown(context.Background())
		_ = sqlDB.Close()
	})

	return &DB{
		ORM:  orm,
		Pool: p,
		Tx:   database.NewTxManager(orm, p, log),
	}
}

// Default is New with a small pool.
func Default(t *testing.T) *DB {
	return New(t, config.PoolConfig{InitialSize: 1, MaxSize: 4})
}
