package repository

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"plain file", "checklists.db", "checklists.db?_txlock=immediate&_busy_timeout=5000&_journal_mode=WAL"},
		{"existing query", "file:data/app.db?cache=private", "file:data/app.db?cache=private&_txlock=immediate&_busy_timeout=5000&_journal_mode=WAL"},
		{"caller overrides", "app.db?_busy_timeout=100", "app.db?_busy_timeout=100&_txlock=immediate&_journal_mode=WAL"},
		{"memory", "file:x?mode=memory&cache=shared", "file:x?mode=memory&cache=shared"},
		{"memory alias", ":memory:", ":memory:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sqliteDSN(tt.dsn))
		})
	}
}

func TestNewDB_SQLiteUsesOneConnection(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "nested", "app.db"), zerolog.Nop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	var mode string
	require.NoError(t, db.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	assert.Equal(t, "wal", mode)
}
