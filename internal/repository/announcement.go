package repository

import (
	"context"
	"time"

	"github.com/beesaferoot/ams-store/model"
)

// AnnouncementRepository persists announcements.
type AnnouncementRepository struct {
	crud[model.Announcement, *model.Announcement]
}

func (r *AnnouncementRepository) FindByActive(ctx context.Context, active bool) ([]model.Announcement, error) {
	return r.find(ctx, "", "active = ?", active)
}

func (r *AnnouncementRepository) FindByType(ctx context.Context, typ model.AnnouncementType) ([]model.Announcement, error) {
	return r.find(ctx, "", "type = ?", typ)
}

// FindByCreator returns announcements published by an admin.
func (r *AnnouncementRepository) FindByCreator(ctx context.Context, adminID uint) ([]model.Announcement, error) {
	return r.find(ctx, "", "created_by_id = ?", adminID)
}

// FindExpiringAfter matches expiry dates strictly after t. Announcements
// without an expiry date never match. Expiry dates are stored in UTC, so t
// is compared in UTC too.
func (r *AnnouncementRepository) FindExpiringAfter(ctx context.Context, t time.Time) ([]model.Announcement, error) {
	return r.find(ctx, "", "expiry_date > ?", t.UTC())
}

// FindExpiringBefore matches expiry dates strictly before t.
func (r *AnnouncementRepository) FindExpiringBefore(ctx context.Context, t time.Time) ([]model.Announcement, error) {
	return r.find(ctx, "", "expiry_date < ?", t.UTC())
}

func (r *AnnouncementRepository) FindByActiveAndType(ctx context.Context, active bool, typ model.AnnouncementType) ([]model.Announcement, error) {
	return r.find(ctx, "", "active = ? AND type = ?", active, typ)
}

// FindActiveExpiringAfterNewestFirst orders by creation time, newest first.
func (r *AnnouncementRepository) FindActiveExpiringAfterNewestFirst(ctx context.Context, active bool, t time.Time) ([]model.Announcement, error) {
	return r.find(ctx, "created_at DESC", "active = ? AND expiry_date > ?", active, t.UTC())
}
