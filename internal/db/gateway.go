package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Skotchmaster/order_ledger/internal/domain"
)

// Schema is the set of tables EnsureSchema creates. Build it once and hand it
// to the gateway instead of registering models globally.
type Schema struct {
	tables []any
}

func NewSchema(tables ...any) Schema {
	return Schema{tables: tables}
}

func (s Schema) Tables() []any {
	return append([]any(nil), s.tables...)
}

// Gateway owns the store connection and the unit-of-work boundaries.
type Gateway struct {
	dsn string
	log *logrus.Entry

	mu      sync.Mutex
	db      *gorm.DB
	dialect Dialect
}

func NewGateway(dsn string, log *logrus.Entry) *Gateway {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Gateway{dsn: dsn, log: log.WithField("component", "db")}
}

// Connect opens the store on first use and returns the same handle afterwards.
func (g *Gateway) Connect(ctx context.Context) (*gorm.DB, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db != nil {
		return g.db, nil
	}

	db, dialect, err := Open(ctx, g.dsn, g.log)
	if err != nil {
		g.log.WithError(err).Error("db_connect_failed")
		return nil, err
	}

	g.db = db
	g.dialect = dialect
	g.log.WithField("dialect", dialect).Info("db_connected")
	return db, nil
}

func (g *Gateway) Dialect() Dialect {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dialect
}

// EnsureSchema creates missing tables, columns and indexes. Existing rows are
// left alone, so calling it repeatedly is safe.
func (g *Gateway) EnsureSchema(ctx context.Context, schema Schema) error {
	db, err := g.Connect(ctx)
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).AutoMigrate(schema.tables...); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// WithSession runs work inside one transaction. It commits when work returns
// nil and rolls back on an error or a panic. work must use the handle it is
// given and nothing else.
func (g *Gateway) WithSession(ctx context.Context, work func(tx *gorm.DB) error) error {
	db, err := g.Connect(ctx)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(work)
}

func (g *Gateway) Ping(ctx context.Context) error {
	db, err := g.Connect(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("%w: ping: %w", domain.ErrConnection, err)
	}
	return nil
}

// Close releases the connection pool. The gateway can be reconnected afterwards.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	g.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
