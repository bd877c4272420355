package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/newsletter/newsletter/internal/config"
)

// Postgres wraps the shared SQL connection pool
type Postgres struct {
	*sql.DB
}

// NewPostgres opens the connection pool and verifies it with a ping
func NewPostgres(cfg config.DatabaseConfig) (*Postgres, error) {
	return open(cfg.DSN(), cfg.MaxConnections)
}

// Open connects to the database at dsn with a small default pool
func Open(dsn string) (*Postgres, error) {
	return open(dsn, 10)
}

func open(dsn string, maxConns int) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(max(1, maxConns/4))
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{DB: db}, nil
}

// HealthCheck verifies the database connection is healthy
func (p *Postgres) HealthCheck(ctx context.Context) error {
	return p.PingContext(ctx)
}
