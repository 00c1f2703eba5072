package database

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"
)

// NewTestDB 为单个测试创建一个已迁移的sqlite库
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := Open(Options{
		Driver:      "sqlite",
		DSN:         filepath.Join(t.TempDir(), "newtube_test.db") + "?_foreign_keys=on",
		AutoMigrate: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
