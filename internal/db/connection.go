// Package db contains code for connecting to the database.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/patchstream/rollout-server/internal/config"
)

const (
	defaultMaxConns        = 25
	defaultMinConns        = 5
	defaultConnMaxLifetime = 5 * time.Minute
	defaultSSLMode         = "require"
	defaultConnectTimeout  = 10 * time.Second
)

// Connection wraps the pgx connection pool the stores run on
type Connection struct {
	Pool *pgxpool.Pool
}

// ConnectionString builds a PostgreSQL connection URL from the provided
// configuration. The password is resolved using the secure priority order
// (file, then environment variable).
func ConnectionString(cfg *config.DatabaseConfig) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("database configuration is required")
	}

	// Validate required fields
	if cfg.Host == "" {
		return "", fmt.Errorf("database host is required")
	}
	if cfg.Port == 0 {
		return "", fmt.Errorf("database port is required")
	}
	if cfg.User == "" {
		return "", fmt.Errorf("database user is required")
	}
	if cfg.Database == "" {
		return "", fmt.Errorf("database name is required")
	}

	password, err := cfg.GetPassword()
	if err != nil {
		return "", fmt.Errorf("failed to get database password: %w", err)
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = defaultSSLMode
	}

	// url.UserPassword escapes the password, so special characters survive
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Database,
	}
	q := u.Query()
	q.Set("sslmode", sslMode)
	q.Set("connect_timeout", strconv.Itoa(int(defaultConnectTimeout.Seconds())))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// NewConnection creates a new database connection pool from the provided configuration
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig) (*Connection, error) {
	connString, err := ConnectionString(cfg)
	if err != nil {
		return nil, err
	}

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database configuration: %w", err)
	}

	// Configure connection pool
	poolConfig.MaxConns = cfg.MaxOpenConns
	if poolConfig.MaxConns == 0 {
		poolConfig.MaxConns = defaultMaxConns
	}
	poolConfig.MinConns = cfg.MaxIdleConns
	if poolConfig.MinConns == 0 {
		poolConfig.MinConns = defaultMinConns
	}

	poolConfig.MaxConnLifetime = defaultConnMaxLifetime
	if cfg.ConnMaxLifetime != "" {
		duration, err := time.ParseDuration(cfg.ConnMaxLifetime)
		if err != nil {
			return nil, fmt.Errorf("invalid connection max lifetime: %w", err)
		}
		poolConfig.MaxConnLifetime = duration
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connection established",
		"user", cfg.User,
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.Database,
	)

	return &Connection{
		Pool: pool,
	}, nil
}

// Close closes the database connection pool
func (c *Connection) Close() {
	if c.Pool != nil {
		slog.Info("Closing database connection")
		c.Pool.Close()
	}
}

// Ping verifies the database connection is still alive
func (c *Connection) Ping(ctx context.Context) error {
	if c.Pool == nil {
		return fmt.Errorf("database connection is nil")
	}
	return c.Pool.Ping(ctx)
}
