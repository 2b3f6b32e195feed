package migration

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/beesaferoot/ams-store/model"
)

// TableDrift lists what a model expects that the live database lacks.
type TableDrift struct {
	Table          string   `json:"table"`
	Missing        bool     `json:"missing"`
	MissingColumns []string `json:"missingColumns,omitempty"`
}

// Drift compares the persisted models against the connected database and
// reports every table or column that is absent. Extra columns are ignored.
func Drift(db *gorm.DB, models ...interface{}) ([]TableDrift, error) {
	var drift []TableDrift
	for _, m := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("parse %T: %w", m, err)
		}
		td, err := tableDrift(db, stmt.Schema, m)
		if err != nil {
			return nil, err
		}
		if td.Missing || len(td.MissingColumns) > 0 {
			drift = append(drift, td)
		}
	}
	return drift, nil
}

func tableDrift(db *gorm.DB, s *schema.Schema, m interface{}) (TableDrift, error) {
	td := TableDrift{Table: s.Table}
	mig := db.Migrator()
	if !mig.HasTable(s.Table) {
		td.Missing = true
		return td, nil
	}
	cols, err := mig.ColumnTypes(m)
	if err != nil {
		return td, fmt.Errorf("columns of %s: %w", s.Table, err)
	}
	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[strings.ToLower(c.Name())] = true
	}
	for _, name := range s.DBNames {
		if !have[strings.ToLower(name)] {
			td.MissingColumns = append(td.MissingColumns, name)
		}
	}
	sort.Strings(td.MissingColumns)
	return td, nil
}

// Drift reports schema drift of the application models.
func (m *Migrator) Drift() ([]TableDrift, error) {
	return Drift(m.db, model.All()...)
}
