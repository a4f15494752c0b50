// Package testutil prepares real databases for integration tests.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
)

func ProjectRoot() string {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(file), "../../")
	return root
}

// DbInit connects to TEST_DB_URL and resets the goose schema. The test is
// skipped when TEST_DB_URL is not set.
func DbInit(t *testing.T) (*pgxpool.Pool, *sql.DB, string) {
	t.Helper()

	root := ProjectRoot()

	if err := godotenv.Load(filepath.Join(root, ".env")); err != nil {
		t.Logf("failed to load .env file: %+v", err)
	}

	testURL := os.Getenv("TEST_DB_URL")
	if testURL == "" {
		t.Skip("TEST_DB_URL environment variable is not set")
	}

	migDir := filepath.Join(root, "sql", "schema")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	dbPool, err := pgxpool.New(ctx, testURL)
	if err != nil {
		t.Fatalf("could not connect to the postgresql database: %v", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("goose.SetDialect() error = %+v", err)
	}

	dbForGoose := stdlib.OpenDBFromPool(dbPool)
	if err := goose.Reset(dbForGoose, migDir); err != nil {
		dbForGoose.Close()
		t.Fatalf("goose.Reset() error = %+v", err)
	}

	return dbPool, dbForGoose, migDir
}

func DbGooseUp(t *testing.T, dbForGoose *sql.DB, migDir string) {
	t.Helper()

	if err := goose.Up(dbForGoose, migDir); err != nil {
		dbForGoose.Close()
		t.Fatalf("goose.Up() error = %+v", err)
	}
}

func DbGooseReset(t *testing.T, dbForGoose *sql.DB, migDir string) {
	t.Helper()

	if err := goose.Reset(dbForGoose, migDir); err != nil {
		dbForGoose.Close()
		t.Fatalf("goose.Reset() error = %+v", err)
	}
}

// DbCleanup drops the schema and closes both handles.
func DbCleanup(t *testing.T, db *pgxpool.Pool, dbForGoose *sql.DB, dir string) {
	t.Helper()

	DbGooseReset(t, dbForGoose, dir)

	if err := dbForGoose.Close(); err != nil {
		t.Errorf("db.Close() error = %+v", err)
	}
	db.Close()
}
