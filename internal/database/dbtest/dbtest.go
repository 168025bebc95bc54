package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"tallysync-backend/internal/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// Open returns a migrated, isolated in-memory SQLite database for tests.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	// Shared cache keeps the in-memory database alive across the pool's connections.
	dsn := fmt.Sprintf("file:tallysync_test_%d?mode=memory&cache=shared&_foreign_keys=on", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
