package commands_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/beesaferoot/ams-store/migration"
	"github.com/beesaferoot/ams-store/migration/commands"
)

func setup(t *testing.T) commands.Opener {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return func(*cobra.Command) (*migration.Migrator, func(), error) {
		return migration.NewMigrator(db, log, migration.All()...), func() {}, nil
	}
}

func run(t *testing.T, open commands.Opener, args ...string) (string, error) {
	cmd := commands.MigrateCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateCommands(t *testing.T) {
	open := setup(t)

	out, err := run(t, open, "check")
	require.Error(t, err)
	assert.Contains(t, out, "apartments: table missing")

	out, err = run(t, open, "up", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending migrations:")
	assert.Contains(t, out, "create_tables")

	out, err = run(t, open, "up")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully applied migration: stored_procedures")

	out, err = run(t, open, "up")
	require.NoError(t, err)
	assert.Contains(t, out, "No pending migrations.")

	out, err = run(t, open, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema is up to date")

	out, err = run(t, open, "status", "--json")
	require.NoError(t, err)
	var status []migration.Status
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	require.Len(t, status, 3)
	for _, s := range status {
		assert.True(t, s.Applied, s.Name)
	}

	out, err = run(t, open, "down")
	require.NoError(t, err)
	assert.Contains(t, out, "stored_procedures")

	out, err = run(t, open, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending")
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, setup(t), "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "All migrations are valid")
}
