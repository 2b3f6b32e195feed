package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/beesaferoot/ams-store/internal/store"
	"github.com/beesaferoot/ams-store/model"
)

// All returns the migrations of the apartment store, oldest first.
func All() []*Migration {
	return []*Migration{
		{
			Version: "20240315000001",
			Name:    "create_tables",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(model.All()...)
			},
			Down: func(tx *gorm.DB) error {
				models := model.All()
				for i := len(models) - 1; i >= 0; i-- {
					if err := tx.Migrator().DropTable(models[i]); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Version: "20240315000002",
			Name:    "full_text_indexes",
			Up:      postgresOnly(execAll(ftsIndexes(true)...)),
			Down:    postgresOnly(execAll(ftsIndexes(false)...)),
		},
		{
			Version: "20240315000003",
			Name:    "stored_procedures",
			Up:      postgresOnly(execAll(procedures...)),
			Down:    postgresOnly(execAll(dropProcedures...)),
		},
	}
}

type ftsIndex struct {
	table   string
	columns []string
}

var searchable = []ftsIndex{
	{"apartments", []string{"name", "description"}},
	{"complaints", []string{"title", "description"}},
	{"announcements", []string{"title", "content"}},
}

func ftsIndexes(create bool) []string {
	stmts := make([]string, 0, len(searchable))
	for _, idx := range searchable {
		name := "idx_" + idx.table + "_fts"
		if create {
			stmts = append(stmts, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s USING GIN (%s)",
				name, idx.table, store.Document(idx.columns...)))
		} else {
			stmts = append(stmts, "DROP INDEX IF EXISTS "+name)
		}
	}
	return stmts
}

// postgresOnly skips step on other dialects; SQLite has neither GIN
// indexes nor stored procedures.
func postgresOnly(step func(*gorm.DB) error) func(*gorm.DB) error {
	return func(tx *gorm.DB) error {
		if !store.IsPostgres(tx) {
			return nil
		}
		return step(tx)
	}
}

func execAll(stmts ...string) func(*gorm.DB) error {
	return func(tx *gorm.DB) error {
		for _, stmt := range stmts {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	}
}
