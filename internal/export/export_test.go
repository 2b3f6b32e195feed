package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/beesaferoot/ams-store/internal/store"
)

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	overdue := Sheet{Name: "Overdue", Rows: []store.Row{
		{"id": 5, "amount": 1500.5, "first_name": "Rita"},
		{"id": 6, "amount": 900.0},
	}}
	empty := Sheet{Name: "Complaints"}
	require.NoError(t, Save(path, overdue, empty))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Overdue", "Complaints"}, f.GetSheetList())

	rows, err := f.GetRows("Overdue")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"amount", "first_name", "id"}, rows[0])
	assert.Equal(t, []string{"1500.5", "Rita", "5"}, rows[1])
	assert.Equal(t, "900", rows[2][0])
	assert.Equal(t, "6", rows[2][2])

	rows, err = f.GetRows("Complaints")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Sheet{Name: "Occupancy", Rows: []store.Row{{"occupied": 3, "total": 4}}}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Occupancy"}, f.GetSheetList())
	rows, err := f.GetRows("Occupancy")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"occupied", "total"}, {"3", "4"}}, rows)

	assert.Error(t, Write(&buf))
}

func TestSaveNoSheets(t *testing.T) {
	assert.Error(t, Save(filepath.Join(t.TempDir(), "x.xlsx")))
}

func TestColumns(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, columns([]store.Row{{"c": 1, "a": 2}, {"b": 3}}))
	assert.Empty(t, columns(nil))
}
