package migration

import (
	"database/sql"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitquest/migrations"
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
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return m
}

func newRunner(t *testing.T, db *sql.DB, fsys fs.FS) *Runner {
	t.Helper()
	r, err := NewRunner(db, fsys, DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	return r
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&n); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return n == 1
}

func TestNewRunnerRejectsUnknownDriver(t *testing.T) {
	if _, err := NewRunner(setupTestDB(t), fstest.MapFS{}, Driver("mysql")); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestGetAndSetVersion(t *testing.T) {
	runner := newRunner(t, setupTestDB(t), mapFS(map[string]string{
		"001_test.sql": "CREATE TABLE test (id INTEGER);",
	}))

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if version, _ = runner.GetCurrentVersion(); version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	runner := newRunner(t, setupTestDB(t), mapFS(map[string]string{
		"003_another.sql": "CREATE TABLE test2 (id INTEGER);",
		"001_init.sql":    "CREATE TABLE test1 (id INTEGER);",
		"002_update.sql":  "ALTER TABLE test1 ADD COLUMN name TEXT;",
		"README.md":       "not a migration",
	}))

	got, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	want := []struct {
		version int
		name    string
	}{{1, "init"}, {2, "update"}, {3, "another"}}
	if len(got) != len(want) {
		t.Fatalf("expected %d migrations, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Version != w.version || got[i].Name != w.name {
			t.Errorf("migration %d = (%d, %q), want (%d, %q)", i, got[i].Version, got[i].Name, w.version, w.name)
		}
	}
}

func TestReadMigrationFilesErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "missing underscore",
			files:   map[string]string{"001init.sql": "SELECT 1;"},
			wantErr: "invalid migration filename format",
		},
		{
			name:    "zero version",
			files:   map[string]string{"000_init.sql": "SELECT 1;"},
			wantErr: "version must be at least 1",
		},
		{
			name:    "duplicate version",
			files:   map[string]string{"001_init.sql": "SELECT 1;", "001_other.sql": "SELECT 1;"},
			wantErr: "duplicate migration version",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newRunner(t, setupTestDB(t), mapFS(tt.files)).ReadMigrationFiles()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestApplyMigrations(t *testing.T) {
	db := setupTestDB(t)
	fsys := mapFS(map[string]string{
		"001_init.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);",
	})
	runner := newRunner(t, db, fsys)

	var logged []string
	count, err := runner.ApplyMigrations(func(msg string) { logged = append(logged, msg) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 1 || len(logged) == 0 {
		t.Errorf("applied %d, logged %v", count, logged)
	}

	// A new file is picked up incrementally.
	fsys["002_posts.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE posts (id INTEGER PRIMARY KEY);")}
	if pending, _ := runner.Pending(); pending != 1 {
		t.Errorf("Pending() = %d, want 1", pending)
	}
	if count, err = runner.ApplyMigrations(nil); err != nil || count != 1 {
		t.Fatalf("second ApplyMigrations = (%d, %v), want (1, nil)", count, err)
	}
	if version, _ := runner.GetCurrentVersion(); version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}
	if !tableExists(t, db, "users") || !tableExists(t, db, "posts") {
		t.Error("tables were not created")
	}

	if count, err = runner.ApplyMigrations(nil); err != nil || count != 0 {
		t.Errorf("no-op ApplyMigrations = (%d, %v), want (0, nil)", count, err)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	runner := newRunner(t, db, mapFS(map[string]string{
		"001_init.sql": `
			CREATE TABLE users (id INTEGER PRIMARY KEY);
			THIS IS INVALID SQL;
		`,
	}))

	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("ApplyMigrations should have failed with invalid SQL")
	}
	if version, _ := runner.GetCurrentVersion(); version != 0 {
		t.Errorf("expected version 0 after failed migration, got %d", version)
	}
	if tableExists(t, db, "users") {
		t.Error("table should not exist after failed migration")
	}
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	runner := newRunner(t, setupTestDB(t), mapFS(map[string]string{
		"001_init.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY);",
	}))
	if err := runner.SetVersion(10); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	if err := runner.ValidateVersion(); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("ValidateVersion() = %v, want ErrSchemaTooNew", err)
	}
	if _, err := runner.ApplyMigrations(nil); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("ApplyMigrations() = %v, want ErrSchemaTooNew", err)
	}
}

func TestEmbeddedSQLiteMigrations(t *testing.T) {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatalf("fs.Sub failed: %v", err)
	}
	db := setupTestDB(t)
	runner := newRunner(t, db, sub)
	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("embedded migrations failed: %v", err)
	}
	for _, table := range []string{"habits", "habit_entries", "unlocked_badges", "settings"} {
		if !tableExists(t, db, table) {
			t.Errorf("table %s missing", table)
		}
	}
}

func TestEmbeddedMigrationsMatchAcrossDrivers(t *testing.T) {
	versions := func(dir string) []int {
		sub, err := fs.Sub(migrations.FS, dir)
		if err != nil {
			t.Fatalf("fs.Sub(%s) failed: %v", dir, err)
		}
		ms, err := newRunner(t, setupTestDB(t), sub).ReadMigrationFiles()
		if err != nil {
			t.Fatalf("ReadMigrationFiles(%s) failed: %v", dir, err)
		}
		out := make([]int, len(ms))
		for i, m := range ms {
			out[i] = m.Version
		}
		return out
	}
	lite, pg := versions("sqlite"), versions("postgres")
	if len(lite) == 0 || len(lite) != len(pg) {
		t.Fatalf("sqlite versions %v, postgres versions %v", lite, pg)
	}
	for i := range lite {
		if lite[i] != pg[i] {
			t.Errorf("version mismatch at %d: %d vs %d", i, lite[i], pg[i])
		}
	}
}
