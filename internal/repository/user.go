package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/beesaferoot/ams-store/internal/store"
	"github.com/beesaferoot/ams-store/model"
)

// UserRepository persists users.
type UserRepository struct {
	crud[model.User, *model.User]
}

// Create inserts u, rejecting an email that is already registered.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if err := r.ensureEmailFree(ctx, u.Email, 0); err != nil {
		return err
	}
	return duplicateEmail(r.crud.Create(ctx, u))
}

// Update rewrites u, rejecting an email owned by another user.
func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if err := r.ensureEmailFree(ctx, u.Email, u.ID); err != nil {
		return err
	}
	return duplicateEmail(r.crud.Update(ctx, u))
}

// Delete removes the user together with the bookings, complaints, payments
// and announcements they own, and unassigns complaints assigned to them.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := releaseUsers(tx, id); err != nil {
			return err
		}
		return r.delete(tx, id)
	})
}

// releaseUsers clears every row that refers to the given users so the users
// themselves can be deleted.
func releaseUsers(tx *gorm.DB, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Model(&model.Complaint{}).Where("assigned_to_id IN ?", ids).
		Update("assigned_to_id", nil).Error; err != nil {
		return store.Wrap("unassign complaints", err)
	}
	owned := []struct {
		model  interface{}
		column string
	}{
		{&model.Booking{}, "visitor_id"},
		{&model.Complaint{}, "resident_id"},
		{&model.Payment{}, "resident_id"},
		{&model.Announcement{}, "created_by_id"},
	}
	for _, o := range owned {
		if err := tx.Where(o.column+" IN ?", ids).Delete(o.model).Error; err != nil {
			return store.Wrap("delete owned records", err)
		}
	}
	return nil
}

// FindByEmail returns the user registered under email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, store.Wrap("find user by email", err)
	}
	return &u, nil
}

// ExistsByEmail reports whether any user owns email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, store.Wrap("count users by email", err)
	}
	return n > 0, nil
}

func (r *UserRepository) FindByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	return r.find(ctx, "", "role = ?", role)
}

// FindByApartment returns the residents of an apartment.
func (r *UserRepository) FindByApartment(ctx context.Context, apartmentID uint) ([]model.User, error) {
	return r.find(ctx, "", "apartment_id = ?", apartmentID)
}

func (r *UserRepository) FindActive(ctx context.Context) ([]model.User, error) {
	return r.find(ctx, "", "active = ?", true)
}

func (r *UserRepository) ensureEmailFree(ctx context.Context, email string, self uint) error {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? AND id <> ?", email, self).Count(&n).Error
	if err != nil {
		return store.Wrap("check email", err)
	}
	if n > 0 {
		return &model.ValidationError{Field: "email", Message: "is already registered"}
	}
	return nil
}

// duplicateEmail maps a unique-index violation that slipped past the
// pre-check, e.g. under a concurrent insert, onto the email field.
func duplicateEmail(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &model.ValidationError{Field: "email", Message: "is already registered"}
	}
	return err
}
