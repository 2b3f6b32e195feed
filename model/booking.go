package model

import (
	"time"

	"gorm.io/datatypes"
)

// BookingStatus is the state of a visitor's booking request.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingApproved  BookingStatus = "APPROVED"
	BookingRejected  BookingStatus = "REJECTED"
	BookingCancelled BookingStatus = "CANCELLED"
)

var bookingStatuses = []BookingStatus{BookingPending, BookingApproved, BookingRejected, BookingCancelled}

// Booking is a visitor's request to move into an apartment.
type Booking struct {
	Base
	ApartmentID     uint           `json:"apartmentId" gorm:"not null;index"`
	Apartment       *Apartment     `json:"apartment,omitempty" gorm:"foreignKey:ApartmentID;constraint:OnDelete:CASCADE"`
	VisitorID       uint           `json:"visitorId" gorm:"not null;index"`
	Visitor         *User          `json:"visitor,omitempty" gorm:"foreignKey:VisitorID;constraint:OnDelete:CASCADE"`
	MoveInDate      datatypes.Date `json:"moveInDate" gorm:"not null"`
	Status          BookingStatus  `json:"status" gorm:"size:20;not null;index"`
	Message         string         `json:"message,omitempty" gorm:"size:1000"`
	AdminNotes      string         `json:"adminNotes,omitempty" gorm:"size:1000"`
	StatusChangedAt *time.Time     `json:"statusChangedAt,omitempty"`
}

// NewBooking returns a pending booking.
func NewBooking(apartmentID, visitorID uint, moveIn datatypes.Date, message string) *Booking {
	return &Booking{
		ApartmentID: apartmentID,
		VisitorID:   visitorID,
		MoveInDate:  moveIn,
		Status:      BookingPending,
		Message:     message,
	}
}

func (b *Booking) Validate() error {
	return firstError(
		reference("apartmentId", b.ApartmentID),
		reference("visitorId", b.VisitorID),
		date("moveInDate", b.MoveInDate),
		oneOf("status", b.Status, bookingStatuses),
		maxLen("message", b.Message, 1000),
		maxLen("adminNotes", b.AdminNotes, 1000),
		b.stamped(),
	)
}

// stamped requires a status change time once the booking has left PENDING.
func (b *Booking) stamped() error {
	if b.Status != BookingPending && b.StatusChangedAt == nil {
		return invalid("statusChangedAt", "must be set for status %s", b.Status)
	}
	return nil
}

// Approve accepts a pending booking.
func (b *Booking) Approve(notes string, now time.Time) error {
	if b.Status != BookingPending {
		return transitionError("booking", b.ID, b.Status, "approve")
	}
	return b.decide(BookingApproved, notes, now)
}

// Reject declines a pending booking.
func (b *Booking) Reject(notes string, now time.Time) error {
	if b.Status != BookingPending {
		return transitionError("booking", b.ID, b.Status, "reject")
	}
	return b.decide(BookingRejected, notes, now)
}

// Cancel withdraws a booking that is pending or already approved. Admin
// notes are left as they were.
func (b *Booking) Cancel(now time.Time) error {
	if b.Status != BookingPending && b.Status != BookingApproved {
		return transitionError("booking", b.ID, b.Status, "cancel")
	}
	b.Status = BookingCancelled
	b.StatusChangedAt = &now
	return nil
}

func (b *Booking) decide(status BookingStatus, notes string, now time.Time) error {
	if err := maxLen("adminNotes", notes, 1000); err != nil {
		return err
	}
	b.Status = status
	b.AdminNotes = notes
	b.StatusChangedAt = &now
	return nil
}
