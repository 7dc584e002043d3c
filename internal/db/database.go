package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Skotchmaster/order_ledger/internal/domain"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

const pingTimeout = 3 * time.Second

func configurePool(sqlDB *sql.DB, dialect Dialect) {
	if dialect == DialectSQLite {
		// one long-lived connection: SQLite allows a single writer and an
		// in-memory database lives only as long as its connection
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
		return
	}

	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

// ParseDSN picks the dialect for a connection descriptor.
//
//	sqlite:///orders.db     -> sqlite file orders.db (relative)
//	sqlite:////var/orders.db -> sqlite file /var/orders.db
//	sqlite:// or :memory:    -> in-memory sqlite
//	postgres://u:p@h/db      -> postgres, converted to a keyword DSN
//	anything without a scheme is treated as a sqlite path
func ParseDSN(dsn string) (Dialect, string, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return "", "", fmt.Errorf("%w: DATABASE_URL is empty", domain.ErrConnection)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		conn, err := pq.ParseURL(dsn)
		if err != nil {
			return "", "", fmt.Errorf("%w: parse postgres url: %w", domain.ErrConnection, err)
		}
		return DialectPostgres, conn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		path := strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite://"), "/")
		if path == "" {
			path = ":memory:"
		}
		return DialectSQLite, path, nil
	case strings.Contains(dsn, "://"):
		scheme, _, _ := strings.Cut(dsn, "://")
		return "", "", fmt.Errorf("%w: unsupported store %q", domain.ErrConnection, scheme)
	default:
		return DialectSQLite, dsn, nil
	}
}

func dialector(dialect Dialect, conn string) gorm.Dialector {
	if dialect == DialectPostgres {
		return postgres.Open(conn)
	}
	return sqlite.Open(conn)
}

// Open connects to the store behind dsn and checks it answers a ping.
// Every failure is reported as domain.ErrConnection.
func Open(ctx context.Context, dsn string, log *logrus.Entry) (*gorm.DB, Dialect, error) {
	dialect, conn, err := ParseDSN(dsn)
	if err != nil {
		return nil, "", err
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	db, err := gorm.Open(dialector(dialect, conn), &gorm.Config{
		PrepareStmt:    dialect == DialectPostgres,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger: gormlogger.New(log.WithField("component", "gorm"), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: open %s: %w", domain.ErrConnection, dialect, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, "", fmt.Errorf("%w: get sql.DB: %w", domain.ErrConnection, err)
	}
	configurePool(sqlDB, dialect)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, "", fmt.Errorf("%w: ping %s: %w", domain.ErrConnection, dialect, err)
	}

	if dialect == DialectSQLite {
		if err := db.WithContext(ctx).Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			_ = sqlDB.Close()
			return nil, "", fmt.Errorf("%w: enable foreign keys: %w", domain.ErrConnection, err)
		}
	}

	return db, dialect, nil
}
