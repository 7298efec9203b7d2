package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"time"

	"github.com/sangkips/retailpos-api/internal/config"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"go.uber.org/zap"
)

// ErrPoolClosed is returned by Acquire after Shutdown.
var ErrPoolClosed = errors.New("connection pool is closed")

const healthCheckTimeout = 2 * time.Second

// Conn is a dedicated database connection checked out of a ConnPool.
type Conn struct {
	raw    *sql.Conn
	closed bool
}

// Raw returns the underlying connection.
func (c *Conn) Raw() *sql.Conn {
	return c.raw
}

// Close closes the physical connection. The pool discards it on release.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return discard(c.raw)
}

// IsClosed reports whether Close was called.
func (c *Conn) IsClosed() bool {
	return c.closed
}

// PoolStats is a point-in-time view of a ConnPool.
type PoolStats struct {
	MaxSize   int    `json:"max_size"`
	Open      int    `json:"open"`
	InUse     int    `json:"in_use"`
	Idle      int    `json:"idle"`
	Opened    uint64 `json:"opened"`
	Discarded uint64 `json:"discarded"`
	Exhausted uint64 `json:"exhausted"`
}

// ConnPool is a bounded pool of dedicated connections. Acquire never waits:
// when every connection under MaxSize is checked out it fails with
// apperror.ErrPoolExhausted and the caller decides whether to retry.
type ConnPool struct {
	db      *sql.DB
	maxSize int
	log     *zap.Logger

	mu        sync.Mutex
	idle      []*Conn
	open      int
	inUse     int
	closed    bool
	opened    uint64
	discarded uint64
	exhausted uint64
}

// NewConnPool opens cfg.InitialSize connections up front.
func NewConnPool(ctx context.Context, db *sql.DB, cfg config.PoolConfig, log *zap.Logger) (*ConnPool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	p := &ConnPool{
		db:      db,
		maxSize: cfg.MaxSize,
		log:     log,
		idle:    make([]*Conn, 0, cfg.MaxSize),
	}

	for i := 0; i < cfg.InitialSize; i++ {
		raw, err := db.Conn(ctx)
		if err != nil {
			_ = p.Shutdown(ctx)
			return nil, apperror.NewStorageError("prewarm connection pool", err)
		}
		p.idle = append(p.idle, &Conn{raw: raw})
		p.open++
		p.opened++
	}

	log.Info("connection pool ready",
		zap.Int("initial_size", cfg.InitialSize),
		zap.Int("max_size", cfg.MaxSize),
	)
	return p, nil
}

// Acquire returns an idle connection, or opens a new one while under the ceiling.
func (p *ConnPool) Acquire(ctx context.Context) (*Conn, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if n := len(p.idle); n > 0 {
		c := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.inUse++
		p.mu.Unlock()
		return c, nil
	}
	if p.open >= p.maxSize {
		p.exhausted++
		p.mu.Unlock()
		p.log.Warn("connection pool exhausted", zap.Int("max_size", p.maxSize))
		return nil, apperror.ErrPoolExhausted
	}
	// reserve the slot before dialing so concurrent callers respect the ceiling
	p.open++
	p.inUse++
	p.mu.Unlock()

	raw, err := p.db.Conn(ctx)
	if err != nil {
		p.mu.Lock()
		p.open--
		p.inUse--
		p.mu.Unlock()
		return nil, apperror.NewStorageError("open connection", err)
	}

	p.mu.Lock()
	p.opened++
	p.mu.Unlock()
	return &Conn{raw: raw}, nil
}

// Release hands c back. A closed or broken connection is discarded and
// frees its slot; a healthy one goes back to the idle set.
func (p *ConnPool) Release(c *Conn) {
	if c == nil {
		return
	}

	healthy := !c.closed && ping(c.raw) == nil

	p.mu.Lock()
	p.inUse--
	if healthy && !p.closed {
		p.idle = append(p.idle, c)
		p.mu.Unlock()
		return
	}
	p.open--
	p.discarded++
	closed := p.closed
	p.mu.Unlock()

	if !c.closed {
		c.closed = true
		if closed {
			_ = c.raw.Close()
		} else {
			_ = discard(c.raw)
		}
	}
	if !closed {
		p.log.Warn("discarded broken connection")
	}
}

// WithConn runs fn with a connection that is released on every exit path,
// panics included.
func (p *ConnPool) WithConn(ctx context.Context, fn func(c *Conn) error) error {
	c, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(c)
	return fn(c)
}

func (p *ConnPool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PoolStats{
		MaxSize:   p.maxSize,
		Open:      p.open,
		InUse:     p.inUse,
		Idle:      len(p.idle),
		Opened:    p.opened,
		Discarded: p.discarded,
		Exhausted: p.exhausted,
	}
}

// Shutdown closes the idle connections and refuses further acquisitions.
// Connections still checked out are closed when they are released.
func (p *ConnPool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	idle := p.idle
	p.idle = nil
	p.open -= len(idle)
	inUse := p.inUse
	p.mu.Unlock()

	var errs []error
	for _, c := range idle {
		c.closed = true
		if err := c.raw.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.log.Info("connection pool shut down",
		zap.Int("closed", len(idle)),
		zap.Int("still_in_use", inUse),
	)
	return errors.Join(errs...)
}

func ping(raw *sql.Conn) error {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()
	return raw.PingContext(ctx)
}

// discard closes the physical connection instead of returning it to the
// driver's own pool.
func discard(raw *sql.Conn) error {
	_ = raw.Raw(func(any) error { return driver.ErrBadConn })
	err := raw.Close()
	if errors.Is(err, sql.ErrConnDone) {
		return nil
	}
	return err
}
