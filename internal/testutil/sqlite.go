// Package testutil opens throwaway relational stores for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/anonto42/circles/backend/internal/repositories"
	"github.com/anonto42/circles/backend/pkg/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB returns a migrated SQLite database in t's temp dir with foreign
// keys enforced. One open connection serializes writers the way row locks
// would in Postgres.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := config.GormConfig()
	cfg.Logger = logger.Default.LogMode(logger.Silent)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "circles.db")+"?_foreign_keys=on"), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := repositories.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
