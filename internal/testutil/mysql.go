package testutil

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"go.uber.org/multierr"
)

const mysqlExpireSeconds = 120

type Cleanup func() error

// TestWithMySQL starts a throwaway mysql:8.0 container loaded with
// sql/mysql/schema.sql and returns its DSN. The test is skipped when Docker
// is not reachable.
func TestWithMySQL(t *testing.T) (_ string, _ Cleanup, err error) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not construct dockertest pool: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("could not connect to Docker: %v", err)
	}

	schemaPath := filepath.Join(ProjectRoot(), "sql", "mysql", "schema.sql")

	resource, err := pool.RunWithOptions(
		&dockertest.RunOptions{
			Repository: "mysql",
			Tag:        "8.0",
			Env: []string{
				"MYSQL_DATABASE=board",
				"MYSQL_PASSWORD=password",
				"MYSQL_USER=user",
				"MYSQL_ROOT_PASSWORD=password",
			},
			Mounts: []string{
				fmt.Sprintf("%s:/docker-entrypoint-initdb.d/00_schema.sql", schemaPath),
			},
		},
		func(config *docker.HostConfig) {
			config.AutoRemove = true
			config.RestartPolicy = docker.RestartPolicy{Name: "no"}
		},
	)
	if err != nil {
		return "", nil, fmt.Errorf("failed to run mysql container: %w", err)
	}

	cleanup := func() error {
		if purgeErr := pool.Purge(resource); purgeErr != nil {
			return fmt.Errorf("failed to purge mysql container: %w", purgeErr)
		}
		return nil
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, cleanup())
		}
	}()

	if err = resource.Expire(mysqlExpireSeconds); err != nil {
		return "", nil, fmt.Errorf("failed to set expire time: %w", err)
	}

	config := mysql.NewConfig()
	config.User = "user"
	config.Passwd = "password"
	config.Net = "tcp"
	config.Addr = resource.GetHostPort("3306/tcp")
	config.DBName = "board"
	config.ParseTime = true
	config.AllowNativePasswords = true
	dsn := config.FormatDSN()

	// The schema is applied by the entrypoint before the server accepts
	// connections on the exposed port.
	err = pool.Retry(func() error {
		db, retryErr := sql.Open("mysql", dsn)
		if retryErr != nil {
			return retryErr
		}
		defer db.Close()

		var n int
		return db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n)
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}

	return dsn, cleanup, nil
}
