package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/killallgit/audionote/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name   string
		dbPath string
	}{
		{name: "in-memory database", dbPath: ":memory:"},
		{name: "file database in nested directory", dbPath: filepath.Join(t.TempDir(), "data", "notes.db")},
		{name: "empty path falls back to memory", dbPath: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := Initialize(tt.dbPath, false)
			require.NoError(t, err)
			defer conn.Close()

			assert.Equal(t, DriverSQLite, conn.Driver())
			assert.NoError(t, conn.HealthCheck())
		})
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(Options{Driver: "postgres"})
	assert.Error(t, err)

	_, err = Open(Options{Driver: DriverMySQL})
	assert.Error(t, err, "mysql without a dsn should fail before dialing")
}

func TestHealthCheckNil(t *testing.T) {
	var db *DB
	assert.Error(t, db.HealthCheck())
}

func TestMigrate(t *testing.T) {
	conn, err := Initialize(":memory:", false)
	require.NoError(t, err)
	defer conn.Close()

	before, err := conn.MigrationStatus()
	require.NoError(t, err)
	require.Len(t, before, len(models.AllModels()))
	for _, s := range before {
		assert.False(t, s.Exists, s.Table)
	}

	require.NoError(t, conn.Migrate())

	after, err := conn.MigrationStatus()
	require.NoError(t, err)
	tables := make([]string, 0, len(after))
	for _, s := range after {
		assert.True(t, s.Exists, s.Table)
		tables = append(tables, s.Table)
	}
	assert.ElementsMatch(t, []string{"notes", "jobs", "notifications", "preferences"}, tables)

	note := models.NewNote(time.UnixMilli(1700000000000), 1)
	note.Title = "x"
	require.NoError(t, conn.Create(&note).Error)
	assert.NotZero(t, note.ID)
}
