package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/beesaferoot/ams-store/model"
)

// BookingRepository persists bookings.
type BookingRepository struct {
	crud[model.Booking, *model.Booking]
}

// Approve accepts a pending booking and stores the admin notes.
func (r *BookingRepository) Approve(ctx context.Context, id uint, notes string) (*model.Booking, error) {
	return r.transition(ctx, id, func(b *model.Booking, now time.Time) error {
		return b.Approve(notes, now)
	})
}

// Reject declines a pending booking and stores the admin notes.
func (r *BookingRepository) Reject(ctx context.Context, id uint, notes string) (*model.Booking, error) {
	return r.transition(ctx, id, func(b *model.Booking, now time.Time) error {
		return b.Reject(notes, now)
	})
}

// Cancel withdraws a pending or approved booking.
func (r *BookingRepository) Cancel(ctx context.Context, id uint) (*model.Booking, error) {
	return r.transition(ctx, id, func(b *model.Booking, now time.Time) error {
		return b.Cancel(now)
	})
}

func (r *BookingRepository) FindByStatus(ctx context.Context, status model.BookingStatus) ([]model.Booking, error) {
	return r.find(ctx, "", "status = ?", status)
}

func (r *BookingRepository) FindByVisitor(ctx context.Context, visitorID uint) ([]model.Booking, error) {
	return r.find(ctx, "", "visitor_id = ?", visitorID)
}

func (r *BookingRepository) FindByApartment(ctx context.Context, apartmentID uint) ([]model.Booking, error) {
	return r.find(ctx, "", "apartment_id = ?", apartmentID)
}

// FindByMoveInBetween matches move-in dates in [start, end].
func (r *BookingRepository) FindByMoveInBetween(ctx context.Context, start, end datatypes.Date) ([]model.Booking, error) {
	return r.find(ctx, "", "move_in_date BETWEEN ? AND ?", start, end)
}

func (r *BookingRepository) FindByStatusAndVisitor(ctx context.Context, status model.BookingStatus, visitorID uint) ([]model.Booking, error) {
	return r.find(ctx, "", "status = ? AND visitor_id = ?", status, visitorID)
}

func (r *BookingRepository) FindByStatusAndApartment(ctx context.Context, status model.BookingStatus, apartmentID uint) ([]model.Booking, error) {
	return r.find(ctx, "", "status = ? AND apartment_id = ?", status, apartmentID)
}

// bookingLifecycle keeps Update away from what Approve, Reject and Cancel own.
func bookingLifecycle(stored, next *model.Booking) error {
	switch {
	case stored.Status != next.Status:
		return lifecycleChanged("booking", stored.ID, "status")
	case !sameInstant(stored.StatusChangedAt, next.StatusChangedAt):
		return lifecycleChanged("booking", stored.ID, "statusChangedAt")
	case stored.AdminNotes != next.AdminNotes:
		return lifecycleChanged("booking", stored.ID, "adminNotes")
	}
	return nil
}
