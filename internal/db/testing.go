package db

import (
	"fmt"
	"strings"
	"testing"

	"yatube/internal/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OpenTest returns a migrated, isolated in-memory SQLite database for tests.
func OpenTest(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := config.Default()
	cfg.DatabaseDriver = "sqlite"
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	cfg.DatabaseDSN = fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)

	conn, err := Open(cfg)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := Migrate(conn); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return conn
}
