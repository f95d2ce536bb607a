// Package db is the optional run-history sink. When a DSN is configured,
// finished runs are persisted for later comparison; the pipeline itself
// never reads anything back, so every run still recomputes from scratch.
package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/viper"

	"ghstats/logger"
)

// DB represents a database connection
type DB struct {
	conn *sqlx.DB
	// Prepared statements cache
	stmtCache struct {
		sync.RWMutex
		statements map[string]*sqlx.Stmt
	}
}

// New creates a new database connection from a lib/pq DSN.
func New(dsn string) (*DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: empty DSN", ErrDatabaseConnection)
	}

	conn, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseConnection, err)
	}

	maxOpenConns := 10
	if v := viper.GetInt("GHSTATS_DB_MAX_OPEN_CONNS"); v > 0 {
		maxOpenConns = v
	}
	maxIdleConns := 10
	if v := viper.GetInt("GHSTATS_DB_MAX_IDLE_CONNS"); v > 0 {
		maxIdleConns = v
	}
	connMaxLifetime := 5 * time.Minute
	if v := viper.GetString("GHSTATS_DB_CONN_MAX_LIFETIME"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			connMaxLifetime = parsed
		}
	}

	conn.SetMaxOpenConns(maxOpenConns)
	conn.SetMaxIdleConns(maxIdleConns)
	conn.SetConnMaxLifetime(connMaxLifetime)

	database := &DB{conn: conn}
	database.stmtCache.statements = make(map[string]*sqlx.Stmt)

	logger.Info("run-history database connected",
		zap.Int("max_open_conns", maxOpenConns),
		zap.Int("max_idle_conns", maxIdleConns),
		zap.Duration("conn_max_lifetime", connMaxLifetime))
	return database, nil
}

// getStmt returns a prepared statement from cache or creates a new one
func (db *DB) getStmt(ctx context.Context, query string) (*sqlx.Stmt, error) {
	db.stmtCache.RLock()
	stmt, exists := db.stmtCache.statements[query]
	db.stmtCache.RUnlock()

	if exists {
		return stmt, nil
	}

	db.stmtCache.Lock()
	defer db.stmtCache.Unlock()

	// Double-check after acquiring write lock
	if stmt, exists = db.stmtCache.statements[query]; exists {
		return stmt, nil
	}

	stmt, err := db.conn.PreparexContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}

	db.stmtCache.statements[query] = stmt
	return stmt, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	db.stmtCache.Lock()
	for _, stmt := range db.stmtCache.statements {
		stmt.Close()
	}
	db.stmtCache.Unlock()

	return db.conn.Close()
}
