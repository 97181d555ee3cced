//go:build integration

// Package containers manages shared test containers for integration suites.
// Containers are started once per test binary and reused across suites; Ryuk
// reaps them when the run ends.
package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"gatekeeper/internal/platform/postgres"
)

// PostgresContainer wraps a testcontainers Postgres instance with the
// service schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

var (
	pgOnce sync.Once
	pgInst *PostgresContainer
	pgErr  error
)

// GetPostgres returns the shared Postgres container, starting it on first
// use. Tests must isolate themselves with TruncateTables.
func GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()

	pgOnce.Do(func() {
		ctx := context.Background()

		container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
			tcpostgres.WithDatabase("gatekeeper_test"),
			tcpostgres.WithUsername("gatekeeper"),
			tcpostgres.WithPassword("gatekeeper"),
			tcpostgres.BasicWaitStrategies(),
			tcpostgres.WithSQLDriver("postgres"),
		)
		if err != nil {
			pgErr = fmt.Errorf("start postgres container: %w", err)
			return
		}

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			pgErr = fmt.Errorf("postgres connection string: %w", err)
			return
		}

		openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		db, err := postgres.Open(openCtx, dsn)
		if err != nil {
			pgErr = fmt.Errorf("open postgres: %w", err)
			return
		}

		pgInst = &PostgresContainer{Container: container, DSN: dsn, DB: db}
	})

	if pgErr != nil {
		t.Fatalf("postgres container unavailable: %v", pgErr)
	}
	return pgInst
}

// TruncateTables empties the given tables in order. Use in SetupTest to
// isolate suites sharing the container.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", "))
	_, err := p.DB.ExecContext(ctx, query)
	return err
}
