package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beesaferoot/ams-store/migration"
	"github.com/beesaferoot/ams-store/model"
)

func TestDrift(t *testing.T) {
	db := setupTestDB(t)

	drift, err := migration.Drift(db, model.All()...)
	require.NoError(t, err)
	require.Len(t, drift, len(model.All()))
	for _, d := range drift {
		assert.True(t, d.Missing, d.Table)
	}

	require.NoError(t, db.AutoMigrate(model.All()...))
	require.NoError(t, db.Exec("ALTER TABLE payments DROP COLUMN payment_method").Error)

	drift, err = migration.Drift(db, model.All()...)
	require.NoError(t, err)
	require.Len(t, drift, 1)
	assert.Equal(t, "payments", drift[0].Table)
	assert.False(t, drift[0].Missing)
	assert.Equal(t, []string{"payment_method"}, drift[0].MissingColumns)
}
