package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

type ConnectionType string

const (
	ConnectionPostgres ConnectionType = "postgres"
	ConnectionPgx      ConnectionType = "pgx"
	ConnectionSQLite   ConnectionType = "sqlite3"
)

func (ct ConnectionType) Valid() bool {
	switch ct {
	case ConnectionPostgres, ConnectionPgx, ConnectionSQLite:
		return true
	}
	return false
}

// ConnectionInfo describes the single database the editor works against.
type ConnectionInfo struct {
	Type ConnectionType
	URL  string
	// Database scopes the connection reset. Empty means "derive from URL".
	Database string
	// Driver overrides the database/sql driver name registered for Type.
	Driver string
}

// ConnectionManager hands out one short-lived handle per operation.
// Nothing is pooled across operations: every handle is capped at a
// single connection and closed by the caller.
type ConnectionManager struct {
	info    ConnectionInfo
	dialect Dialect
}

func NewConnectionManager(info ConnectionInfo) (*ConnectionManager, error) {
	if strings.TrimSpace(info.URL) == "" {
		return nil, fmt.Errorf("database url is required")
	}
	if info.Type == "" {
		info.Type = ConnectionPostgres
	}
	if !info.Type.Valid() {
		return nil, fmt.Errorf("unsupported connection type %q", info.Type)
	}

	return &ConnectionManager{
		info:    info,
		dialect: DialectFor(info.Type),
	}, nil
}

func (cm *ConnectionManager) driverName() string {
	if cm.info.Driver != "" {
		return cm.info.Driver
	}
	return string(cm.info.Type)
}

// Connect opens and pings a dedicated handle.
func (cm *ConnectionManager) Connect(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(cm.driverName(), cm.info.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func (cm *ConnectionManager) Dialect() Dialect {
	return cm.dialect
}

// DatabaseName returns the name connection resets are scoped to.
func (cm *ConnectionManager) DatabaseName() (string, error) {
	if cm.info.Database != "" {
		return cm.info.Database, nil
	}
	if cm.info.Type == ConnectionSQLite {
		return "", fmt.Errorf("sqlite connections have no server-side database name")
	}

	cfg, err := pgconn.ParseConfig(cm.info.URL)
	if err != nil {
		return "", fmt.Errorf("failed to parse database url: %w", err)
	}
	if cfg.Database == "" {
		return "", fmt.Errorf("database url does not name a database")
	}
	return cfg.Database, nil
}
