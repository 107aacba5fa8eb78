// Package repotest opens throwaway databases for tests.
package repotest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zenirmoveis/assistant/internal/models"
	pkgdb "github.com/zenirmoveis/assistant/pkg/db"
)

// NewSQLite returns a migrated SQLite database living in t.TempDir with
// foreign keys enforced.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "assistant.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := pkgdb.Open(context.Background(), pkgdb.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	t.Cleanup(func() { _ = pkgdb.Close(db) })
	return db
}

// NewPostgres connects to ASSISTANT_TEST_DATABASE_URL or skips the test.
func NewPostgres(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("ASSISTANT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("ASSISTANT_TEST_DATABASE_URL is required for tests")
	}

	db, err := pkgdb.Open(context.Background(), pkgdb.DriverPostgres, dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	truncate := func() {
		db.Exec("TRUNCATE TABLE products, clients RESTART IDENTITY CASCADE")
	}
	truncate()
	t.Cleanup(func() {
		truncate()
		_ = pkgdb.Close(db)
	})
	return db
}
