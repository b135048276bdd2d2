// Package dbtest starts a disposable PostgreSQL container with the service
// schema applied. Tests using it are skipped unless TEST_INTEGRATION is set.
package dbtest

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/JaimeStill/label-manager/internal/migrations"
	"github.com/JaimeStill/label-manager/pkg/database"
)

// EnvIntegration enables container-backed tests when non-empty.
const EnvIntegration = "TEST_INTEGRATION"

// Open starts PostgreSQL, applies migrations and returns a connection pool.
// The container and pool are released when the test finishes.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	if os.Getenv(EnvIntegration) == "" {
		t.Skip("skipping integration test: " + EnvIntegration + " not set")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("labels_test"),
		postgres.WithUsername("labels"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	portNum, _ := strconv.Atoi(port.Port())

	cfg := &database.Config{
		Host:     host,
		Port:     portNum,
		Name:     "labels_test",
		User:     "labels",
		Password: "test-password",
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("database config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := database.Migrate(cfg, migrations.FS, migrations.Dir, logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("ping database: %v", err)
	}

	return db
}
