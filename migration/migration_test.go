package migration_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/beesaferoot/ams-store/migration"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func tableExists(t *testing.T, db *gorm.DB, name string) bool {
	var count int64
	err := db.Raw("SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?", name).Count(&count).Error
	require.NoError(t, err)
	return count == 1
}

func testMigration(version, table string) *migration.Migration {
	return &migration.Migration{
		Version: version,
		Name:    "create_" + table,
		Up: func(db *gorm.DB) error {
			return db.Exec("CREATE TABLE " + table + " (id INTEGER PRIMARY KEY)").Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec("DROP TABLE " + table).Error
		},
	}
}

func TestMigrator_UpDown(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	m := migration.NewMigrator(db, discard(),
		testMigration("20240315000002", "second"),
		testMigration("20240315000001", "first"))

	applied, err := m.Up(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.Equal(t, "20240315000001", applied[0].Version, "applied in version order")
	assert.True(t, tableExists(t, db, "first"))
	assert.True(t, tableExists(t, db, "second"))

	var record migration.MigrationRecord
	require.NoError(t, db.Where("version = ?", "20240315000001").First(&record).Error)
	assert.Equal(t, "create_first", record.Name)

	applied, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied, "nothing left to apply")

	reverted, err := m.Down(ctx)
	require.NoError(t, err)
	assert.Equal(t, "20240315000002", reverted.Version)
	assert.False(t, tableExists(t, db, "second"))
	assert.True(t, tableExists(t, db, "first"))

	_, err = m.Down(ctx)
	require.NoError(t, err)
	_, err = m.Down(ctx)
	assert.ErrorIs(t, err, migration.ErrNothingToRevert)
}

func TestMigrator_FailedMigrationRollsBack(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	broken := &migration.Migration{
		Version: "20240315000002",
		Name:    "broken",
		Up: func(db *gorm.DB) error {
			if err := db.Exec("CREATE TABLE half (id INTEGER PRIMARY KEY)").Error; err != nil {
				return err
			}
			return errors.New("boom")
		},
		Down: func(db *gorm.DB) error { return nil },
	}
	m := migration.NewMigrator(db, discard(), testMigration("20240315000001", "first"), broken)

	applied, err := m.Up(ctx)
	assert.Error(t, err)
	require.Len(t, applied, 1)
	assert.False(t, tableExists(t, db, "half"))

	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "broken", pending[0].Name)
}

func TestMigrator_Status(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	first := testMigration("20240315000001", "first")
	m := migration.NewMigrator(db, discard(), first)
	_, err := m.Up(ctx)
	require.NoError(t, err)

	m = migration.NewMigrator(db, discard(), first, testMigration("20240315000002", "second"))
	status, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 2)
	assert.True(t, status[0].Applied)
	assert.NotNil(t, status[0].AppliedAt)
	assert.False(t, status[1].Applied)
	assert.Nil(t, status[1].AppliedAt)
}

func TestAll_SQLite(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	m := migration.NewMigrator(db, discard(), migration.All()...)

	applied, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Len(t, applied, 3)
	for _, table := range []string{"apartments", "users", "bookings", "complaints", "payments", "announcements"} {
		assert.True(t, tableExists(t, db, table), table)
	}

	// the PostgreSQL-only steps are no-ops here but still revert in order
	for i := 0; i < 3; i++ {
		_, err := m.Down(ctx)
		require.NoError(t, err)
	}
	assert.False(t, tableExists(t, db, "apartments"))
	assert.False(t, tableExists(t, db, "users"))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, migration.Validate(migration.All()))

	dup := []*migration.Migration{testMigration("1", "a"), testMigration("1", "b")}
	assert.ErrorContains(t, migration.Validate(dup), "version 1")

	noDown := testMigration("2", "c")
	noDown.Down = nil
	assert.Error(t, migration.Validate([]*migration.Migration{noDown}))
}
