// Package database provides database migration tooling.
package database

import (
	"embed"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers the pgx5 database driver
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationsFromSource returns a migration source driver from the embedded migrations.
func migrationsFromSource() source.Driver {
	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		panic(err)
	}
	return d
}

// Migrator is the interface for the migration tooling.
type Migrator interface {
	Up() error
	Down() error
	Steps(int) error
	Version() (uint, bool, error)
	Close() (source error, database error)
}

// NewFromConnectionString returns a new migration instance from the given
// PostgreSQL connection string. Migrations run through migrate's pgx driver,
// so the standard postgres:// scheme is rewritten and multi-statement
// migration files are enabled.
func NewFromConnectionString(connString string) (Migrator, error) {
	u, err := url.Parse(connString)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}
	u.Scheme = "pgx5"
	q := u.Query()
	q.Set("x-multi-statement", "true")
	u.RawQuery = q.Encode()

	d := migrationsFromSource()
	return migrate.NewWithSourceInstance("iofs", d, u.String())
}
