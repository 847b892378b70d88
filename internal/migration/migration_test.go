package migration

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/storage/sqldb"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mapFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&n); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	return n == 1
}

func setVersion(t *testing.T, db *sql.DB, version int) {
	t.Helper()
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
		t.Fatal(err)
	}
}

func TestCurrentVersionFreshDatabase(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, mapFS(nil), sqldb.SQLite)

	version, err := runner.CurrentVersion(context.Background())
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	setVersion(t, db, 5)
	if version, _ := runner.CurrentVersion(context.Background()); version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestMigrationsSorted(t *testing.T) {
	runner := NewRunner(setupTestDB(t), mapFS(map[string]string{
		"003_another.sql": "CREATE TABLE test2 (id INTEGER);",
		"001_init.sql":    "CREATE TABLE test1 (id INTEGER);",
		"002_update.sql":  "ALTER TABLE test1 ADD COLUMN name TEXT;",
		"README.md":       "ignored",
	}), sqldb.SQLite)

	migrations, err := runner.Migrations()
	if err != nil {
		t.Fatalf("Migrations failed: %v", err)
	}
	want := []struct {
		version int
		name    string
	}{{1, "init"}, {2, "update"}, {3, "another"}}
	if len(migrations) != len(want) {
		t.Fatalf("expected %d migrations, got %d", len(want), len(migrations))
	}
	for i, w := range want {
		if migrations[i].Version != w.version || migrations[i].Name != w.name {
			t.Errorf("migration %d = %d/%s, want %d/%s", i, migrations[i].Version, migrations[i].Name, w.version, w.name)
		}
	}

	latest, err := runner.LatestVersion()
	if err != nil || latest != 3 {
		t.Errorf("LatestVersion() = %d, %v; want 3", latest, err)
	}
}

func TestApplyFromScratchAndIncremental(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	fsys := mapFS(map[string]string{
		"001_init.sql": `CREATE TABLE meal_plans (id TEXT PRIMARY KEY, name TEXT);`,
	})
	runner := NewRunner(db, fsys, sqldb.SQLite)

	var lines []string
	count, err := runner.Apply(ctx, func(s string) { lines = append(lines, s) })
	if err != nil {
		t.Fatalf("Apply (1st) failed: %v", err)
	}
	if count != 1 || !tableExists(t, db, "meal_plans") {
		t.Fatalf("expected meal_plans created by 1 migration, count=%d", count)
	}
	if len(lines) == 0 {
		t.Error("expected progress output")
	}

	fsys["002_meals.sql"] = &fstest.MapFile{Data: []byte(`CREATE TABLE meals (id TEXT PRIMARY KEY, plan_id TEXT);`)}
	count, err = runner.Apply(ctx, nil)
	if err != nil {
		t.Fatalf("Apply (2nd) failed: %v", err)
	}
	if count != 1 || !tableExists(t, db, "meals") {
		t.Errorf("expected 1 more migration creating meals, got %d", count)
	}
	if version, _ := runner.CurrentVersion(ctx); version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	count, err = runner.Apply(ctx, nil)
	if err != nil || count != 0 {
		t.Errorf("Apply (no-op) = %d, %v; want 0, nil", count, err)
	}
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := NewRunner(db, mapFS(map[string]string{
		"001_init.sql": `CREATE TABLE ok (id INTEGER);`,
		"002_bad.sql": `
			CREATE TABLE partial (id INTEGER PRIMARY KEY);
			THIS IS INVALID SQL;
		`,
	}), sqldb.SQLite)

	count, err := runner.Apply(ctx, nil)
	if err == nil {
		t.Fatal("Apply should have failed with invalid SQL")
	}
	if count != 1 {
		t.Errorf("expected 1 migration applied before failure, got %d", count)
	}
	if version, _ := runner.CurrentVersion(ctx); version != 1 {
		t.Errorf("expected version 1 after failed migration, got %d", version)
	}
	if tableExists(t, db, "partial") {
		t.Error("table from failed migration should have been rolled back")
	}
}

func TestValidateNewerDatabase(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := NewRunner(db, mapFS(map[string]string{
		"001_init.sql": `CREATE TABLE users (id INTEGER PRIMARY KEY);`,
	}), sqldb.SQLite)

	if _, err := runner.CurrentVersion(ctx); err != nil {
		t.Fatal(err)
	}
	setVersion(t, db, 10)

	if err := runner.Validate(ctx); err == nil {
		t.Fatal("Validate should have failed with newer database version")
	}
	if _, err := runner.Apply(ctx, nil); err == nil {
		t.Fatal("Apply should have failed with newer database version")
	}
}

func TestMigrationFilenameErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{"missing underscore", map[string]string{"001init.sql": "SELECT 1;"}, "expected NNN_name.sql"},
		{"non numeric", map[string]string{"abc_init.sql": "SELECT 1;"}, "invalid version number"},
		{"zero version", map[string]string{"000_init.sql": "SELECT 1;"}, "version must be at least 1"},
		{"duplicate", map[string]string{"001_init.sql": "SELECT 1;", "001_other.sql": "SELECT 1;"}, "duplicate migration version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(setupTestDB(t), mapFS(tt.files), sqldb.SQLite)
			_, err := runner.Migrations()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Migrations() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
