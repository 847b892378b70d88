package migration

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/storage/sqldb"
)

// setupPostgresTestDB connects to POSTGRES_TEST_URL, e.g.
// postgres://user@localhost:5432/testdb?sslmode=disable
func setupPostgresTestDB(t *testing.T) *sql.DB {
	t.Helper()
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open postgres database: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("failed to ping postgres database: %v", err)
	}

	drop := func() {
		db.Exec("DROP TABLE IF EXISTS mig_test_meals")
		db.Exec("DROP TABLE IF EXISTS mig_test_plans")
		db.Exec("DROP TABLE IF EXISTS schema_version")
	}
	drop()
	t.Cleanup(func() {
		drop()
		db.Close()
	})
	return db
}

func TestPostgresApplyUsesNumberedPlaceholders(t *testing.T) {
	ctx := context.Background()
	db := setupPostgresTestDB(t)
	fsys := mapFS(map[string]string{
		"001_plans.sql": `CREATE TABLE mig_test_plans (id TEXT PRIMARY KEY);`,
		"002_meals.sql": `CREATE TABLE mig_test_meals (id TEXT PRIMARY KEY, plan_id TEXT NOT NULL REFERENCES mig_test_plans(id));`,
	})
	runner := NewRunner(db, fsys, sqldb.Postgres)

	count, err := runner.Apply(ctx, nil)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}
	if version, _ := runner.CurrentVersion(ctx); version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	var exists bool
	err = db.QueryRow("SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = 'mig_test_meals')").Scan(&exists)
	if err != nil || !exists {
		t.Errorf("mig_test_meals not created (err=%v)", err)
	}

	if count, err := runner.Apply(ctx, nil); err != nil || count != 0 {
		t.Errorf("second Apply = %d, %v; want 0, nil", count, err)
	}
}
