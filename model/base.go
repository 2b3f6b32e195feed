package model

import (
	"time"

	"gorm.io/datatypes"
)

// Base holds the identifier and audit timestamps shared by all entities.
// Timestamps are written by OnCreate and OnUpdate, never implicitly by gorm.
type Base struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime:false;not null;index"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime:false;not null"`
}

// OnCreate stamps both timestamps for a new record.
func (b *Base) OnCreate(now time.Time) {
	b.CreatedAt = now
	b.UpdatedAt = now
}

// OnUpdate refreshes the modification timestamp.
func (b *Base) OnUpdate(now time.Time) {
	b.UpdatedAt = now
}

// PrimaryKey returns the record identifier, zero before the first write.
func (b *Base) PrimaryKey() uint {
	return b.ID
}

// Entity is implemented by every persisted model.
type Entity interface {
	Validate() error
	OnCreate(now time.Time)
	OnUpdate(now time.Time)
	PrimaryKey() uint
}

// Day returns the calendar date of t, as seen in t's location, pinned to UTC
// midnight so that dates compare equal regardless of the session time zone.
func Day(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// Date is a convenience constructor for calendar dates.
func Date(year int, month time.Month, day int) datatypes.Date {
	return datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}
