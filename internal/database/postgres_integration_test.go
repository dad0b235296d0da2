package database

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"
)

// getPostgresTestConfig returns PostgreSQL config if available, nil otherwise.
// Set these environment variables to run PostgreSQL tests:
//
//	WFC_TEST_POSTGRES (any value enables the tests)
//	WFC_TEST_POSTGRES_HOST (default: localhost)
//	WFC_TEST_POSTGRES_PORT (default: 5432)
//	WFC_TEST_POSTGRES_USER (default: wfctiled)
//	WFC_TEST_POSTGRES_PASSWORD (default: wfctiled)
//	WFC_TEST_POSTGRES_DATABASE (default: wfctiled_test)
func getPostgresTestConfig() *Config {
	if os.Getenv("WFC_TEST_POSTGRES") == "" {
		return nil
	}

	host := os.Getenv("WFC_TEST_POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}

	port := 5432
	if portStr := os.Getenv("WFC_TEST_POSTGRES_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &port)
	}

	user := os.Getenv("WFC_TEST_POSTGRES_USER")
	if user == "" {
		user = "wfctiled"
	}

	password := os.Getenv("WFC_TEST_POSTGRES_PASSWORD")
	if password == "" {
		password = "wfctiled"
	}

	database := os.Getenv("WFC_TEST_POSTGRES_DATABASE")
	if database == "" {
		database = "wfctiled_test"
	}

	return &Config{
		Driver: "postgres",
		Postgres: PostgresConfig{
			Host:            host,
			Port:            port,
			User:            user,
			Password:        password,
			Database:        database,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 1 * time.Minute,
		},
	}
}

// skipIfNoPostgres skips the test if PostgreSQL is not available
func skipIfNoPostgres(t *testing.T) *Config {
	cfg := getPostgresTestConfig()
	if cfg == nil {
		t.Skip("Skipping PostgreSQL test: WFC_TEST_POSTGRES not set")
	}
	return cfg
}

// setupPostgresTestDB opens a PostgreSQL connection for testing and clears the journal
func setupPostgresTestDB(t *testing.T, cfg *Config) *Database {
	db, err := OpenWithConfig(*cfg)
	if err != nil {
		t.Fatalf("Failed to open PostgreSQL database: %v", err)
	}

	if _, err := db.db.Exec("DELETE FROM runs"); err != nil {
		t.Logf("Note: Could not clean runs: %v", err)
	}

	t.Cleanup(func() {
		db.db.Exec("DELETE FROM runs")
		db.Close()
	})

	return db
}

func TestPostgres_OpenWithConfig(t *testing.T) {
	cfg := skipIfNoPostgres(t)

	db, err := OpenWithConfig(*cfg)
	if err != nil {
		t.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer db.Close()

	var result int
	err = db.db.QueryRow("SELECT 1").Scan(&result)
	if err != nil {
		t.Fatalf("Failed to query PostgreSQL: %v", err)
	}
	if result != 1 {
		t.Errorf("Expected 1, got %d", result)
	}
}

func TestPostgres_ConnectionPoolSettings(t *testing.T) {
	cfg := skipIfNoPostgres(t)

	db, err := OpenWithConfig(*cfg)
	if err != nil {
		t.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer db.Close()

	stats := db.db.Stats()
	if stats.MaxOpenConnections != cfg.Postgres.MaxOpenConns {
		t.Errorf("Expected MaxOpenConns %d, got %d",
			cfg.Postgres.MaxOpenConns, stats.MaxOpenConnections)
	}
}

func TestPostgres_ConcurrentRecords(t *testing.T) {
	cfg := skipIfNoPostgres(t)
	db := setupPostgresTestDB(t, cfg)

	const numGoroutines = 10
	const writesPerGoroutine = 5

	var wg sync.WaitGroup
	errs := make(chan error, numGoroutines*writesPerGoroutine)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := 0; j < writesPerGoroutine; j++ {
				run := testRun(uint64(workerID*100 + j))
				if err := db.RecordRun(run); err != nil {
					errs <- fmt.Errorf("worker %d: failed to record run %d: %v", workerID, j, err)
				}
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}

	count, err := db.CountRuns()
	if err != nil {
		t.Fatalf("Failed to count runs: %v", err)
	}
	if expected := numGoroutines * writesPerGoroutine; count != expected {
		t.Errorf("Expected %d runs, got %d", expected, count)
	}
}
