package database_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"tallysync-backend/internal/config"
	"tallysync-backend/internal/database"
	"tallysync-backend/internal/database/dbtest"
	"tallysync-backend/internal/logging"
	"tallysync-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabaseDSN:    filepath.Join(t.TempDir(), "tally.db"),
		MaxOpenConns:   2,
		MaxIdleConns:   1,
	}
	log := logging.NewWithOutput("info", "json", &bytes.Buffer{})

	db, err := database.Open(cfg, log)
	require.NoError(t, err)
	defer database.Close(db)

	require.NoError(t, database.Migrate(db))
	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m), "%T table missing", m)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Ledger{}, "idx_ledgers_user_guid"))
	assert.True(t, db.Migrator().HasIndex(&models.Company{}, "idx_companies_user_guid"))

	// Running migrations twice is a no-op.
	require.NoError(t, database.Migrate(db))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	cfg := &config.Config{DatabaseDriver: "oracle", DatabaseDSN: "x"}
	_, err := database.Open(cfg, logging.NewWithOutput("info", "json", &bytes.Buffer{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestDBTestOpenIsolated(t *testing.T) {
	a := dbtest.Open(t)
	b := dbtest.Open(t)

	require.NoError(t, a.Create(&models.User{Name: "A", Email: "a@example.com", PasswordHash: "x"}).Error)

	var count int64
	require.NoError(t, b.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
