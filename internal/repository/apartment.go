package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/beesaferoot/ams-store/internal/store"
	"github.com/beesaferoot/ams-store/model"
)

// ApartmentRepository persists apartments.
type ApartmentRepository struct {
	crud[model.Apartment, *model.Apartment]
}

// Delete removes the apartment with its bookings, complaints and payments.
// Its residents go too, along with everything they own, so no user is left
// pointing at a missing apartment.
func (r *ApartmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var residents []uint
		if err := tx.Model(&model.User{}).Where("apartment_id = ?", id).
			Pluck("id", &residents).Error; err != nil {
			return store.Wrap("list residents", err)
		}
		if err := releaseUsers(tx, residents...); err != nil {
			return err
		}
		if len(residents) > 0 {
			if err := tx.Delete(&model.User{}, residents).Error; err != nil {
				return store.Wrap("delete residents", err)
			}
		}
		for _, child := range []interface{}{&model.Booking{}, &model.Complaint{}, &model.Payment{}} {
			if err := tx.Where("apartment_id = ?", id).Delete(child).Error; err != nil {
				return store.Wrap("delete apartment children", err)
			}
		}
		return r.delete(tx, id)
	})
}

func (r *ApartmentRepository) FindByAvailability(ctx context.Context, available bool) ([]model.Apartment, error) {
	return r.find(ctx, "", "is_available = ?", available)
}

func (r *ApartmentRepository) FindByFloor(ctx context.Context, floor int) ([]model.Apartment, error) {
	return r.find(ctx, "", "floor_number = ?", floor)
}

func (r *ApartmentRepository) FindByMinBedrooms(ctx context.Context, bedrooms int) ([]model.Apartment, error) {
	return r.find(ctx, "", "bedrooms >= ?", bedrooms)
}

func (r *ApartmentRepository) FindByMinBathrooms(ctx context.Context, bathrooms int) ([]model.Apartment, error) {
	return r.find(ctx, "", "bathrooms >= ?", bathrooms)
}

// FindByRentBetween matches rent in [min, max].
func (r *ApartmentRepository) FindByRentBetween(ctx context.Context, min, max float64) ([]model.Apartment, error) {
	return r.find(ctx, "", "rent BETWEEN ? AND ?", min, max)
}

// FindAvailableWithRooms combines availability with minimum room counts.
func (r *ApartmentRepository) FindAvailableWithRooms(ctx context.Context, available bool, bedrooms, bathrooms int) ([]model.Apartment, error) {
	return r.find(ctx, "", "is_available = ? AND bedrooms >= ? AND bathrooms >= ?", available, bedrooms, bathrooms)
}
