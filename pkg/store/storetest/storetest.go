// Package storetest opens a migrated throwaway sqlite database for tests.
package storetest

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"agri/config"
	"agri/database"
)

// Open returns a file-backed sqlite DB under t.TempDir(), closed on cleanup.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := config.AppConfig{DBDriver: "sqlite", DBPath: filepath.Join(t.TempDir(), "test.db")}
	db, err := database.Open(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
