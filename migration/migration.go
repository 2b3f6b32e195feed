// Package migration versions the database schema. Each migration runs in
// its own transaction together with the bookkeeping row that records it.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"gorm.io/gorm"
)

var ErrNothingToRevert = errors.New("no migrations to revert")

type Migration struct {
	Version string
	Name    string
	Up      func(*gorm.DB) error
	Down    func(*gorm.DB) error
}

type MigrationRecord struct {
	Version   string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

// Status describes one known migration.
type Status struct {
	Version   string     `json:"version"`
	Name      string     `json:"name"`
	Applied   bool       `json:"applied"`
	AppliedAt *time.Time `json:"appliedAt,omitempty"`
}

type Migrator struct {
	db         *gorm.DB
	log        *slog.Logger
	now        func() time.Time
	migrations []*Migration
}

// NewMigrator returns a migrator for migrations, applied in version order.
func NewMigrator(db *gorm.DB, log *slog.Logger, migrations ...*Migration) *Migrator {
	sorted := append([]*Migration(nil), migrations...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })
	return &Migrator{
		db:         db,
		log:        log.With("component", "migration"),
		now:        func() time.Time { return time.Now().UTC() },
		migrations: sorted,
	}
}

func (m *Migrator) ensureVersionTable() error {
	return m.db.AutoMigrate(&MigrationRecord{})
}

func (m *Migrator) records(ctx context.Context) (map[string]MigrationRecord, error) {
	if err := m.ensureVersionTable(); err != nil {
		return nil, fmt.Errorf("failed to create migration table: %w", err)
	}
	var records []MigrationRecord
	if err := m.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	applied := make(map[string]MigrationRecord, len(records))
	for _, r := range records {
		applied[r.Version] = r
	}
	return applied, nil
}

// Pending lists migrations not yet applied.
func (m *Migrator) Pending(ctx context.Context) ([]*Migration, error) {
	applied, err := m.records(ctx)
	if err != nil {
		return nil, err
	}
	var pending []*Migration
	for _, mr := range m.migrations {
		if _, ok := applied[mr.Version]; !ok {
			pending = append(pending, mr)
		}
	}
	return pending, nil
}

// Up applies every pending migration and returns the ones it applied. It
// stops at the first failure; that migration is rolled back entirely.
func (m *Migrator) Up(ctx context.Context) ([]*Migration, error) {
	pending, err := m.Pending(ctx)
	if err != nil {
		return nil, err
	}
	var done []*Migration
	for _, mr := range pending {
		m.log.Info("applying migration", "version", mr.Version, "name", mr.Name)
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := mr.Up(tx); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", mr.Name, err)
			}
			record := MigrationRecord{Version: mr.Version, Name: mr.Name, AppliedAt: m.now()}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", mr.Name, err)
			}
			return nil
		})
		if err != nil {
			return done, err
		}
		done = append(done, mr)
	}
	return done, nil
}

// Down reverts the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) (*Migration, error) {
	if err := m.ensureVersionTable(); err != nil {
		return nil, err
	}
	var record MigrationRecord
	err := m.db.WithContext(ctx).Order("applied_at DESC").Order("version DESC").First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNothingToRevert
	}
	if err != nil {
		return nil, err
	}

	var target *Migration
	for _, mr := range m.migrations {
		if mr.Version == record.Version {
			target = mr
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("migration %s (%s) is applied but unknown", record.Version, record.Name)
	}

	m.log.Info("reverting migration", "version", target.Version, "name", target.Name)
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := target.Down(tx); err != nil {
			return fmt.Errorf("failed to revert migration %s: %w", target.Name, err)
		}
		if err := tx.Delete(&record).Error; err != nil {
			return fmt.Errorf("failed to remove migration record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

// Status reports every known migration in version order.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	applied, err := m.records(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(m.migrations))
	for _, mr := range m.migrations {
		s := Status{Version: mr.Version, Name: mr.Name}
		if r, ok := applied[mr.Version]; ok {
			at := r.AppliedAt
			s.Applied = true
			s.AppliedAt = &at
		}
		out = append(out, s)
	}
	return out, nil
}

// Validate checks that every migration has a unique version, a name and
// both directions.
func Validate(migrations []*Migration) error {
	seen := make(map[string]string, len(migrations))
	for _, mr := range migrations {
		switch {
		case mr.Version == "":
			return fmt.Errorf("migration %q has no version", mr.Name)
		case mr.Name == "":
			return fmt.Errorf("migration %s has no name", mr.Version)
		case mr.Up == nil || mr.Down == nil:
			return fmt.Errorf("migration %s (%s) must define Up and Down", mr.Version, mr.Name)
		}
		if other, dup := seen[mr.Version]; dup {
			return fmt.Errorf("version %s used by both %s and %s", mr.Version, other, mr.Name)
		}
		seen[mr.Version] = mr.Name
	}
	return nil
}
