package repository

import (
	"context"
	"time"

	"github.com/beesaferoot/ams-store/model"
)

// ComplaintRepository persists complaints.
type ComplaintRepository struct {
	crud[model.Complaint, *model.Complaint]
}

// Resolve closes a complaint with the given resolution text.
func (r *ComplaintRepository) Resolve(ctx context.Context, id uint, resolution string) (*model.Complaint, error) {
	return r.transition(ctx, id, func(c *model.Complaint, now time.Time) error {
		return c.Resolve(resolution, now)
	})
}

// Assign hands a complaint to a staff member.
func (r *ComplaintRepository) Assign(ctx context.Context, id, staffID uint) (*model.Complaint, error) {
	return r.transition(ctx, id, func(c *model.Complaint, _ time.Time) error {
		return c.Assign(staffID)
	})
}

// Cancel withdraws a complaint that has not been resolved.
func (r *ComplaintRepository) Cancel(ctx context.Context, id uint) (*model.Complaint, error) {
	return r.transition(ctx, id, func(c *model.Complaint, _ time.Time) error {
		return c.Cancel()
	})
}

func (r *ComplaintRepository) FindByStatus(ctx context.Context, status model.ComplaintStatus) ([]model.Complaint, error) {
	return r.find(ctx, "", "status = ?", status)
}

func (r *ComplaintRepository) FindByPriority(ctx context.Context, priority model.Priority) ([]model.Complaint, error) {
	return r.find(ctx, "", "priority = ?", priority)
}

func (r *ComplaintRepository) FindByCategory(ctx context.Context, category model.ComplaintCategory) ([]model.Complaint, error) {
	return r.find(ctx, "", "category = ?", category)
}

func (r *ComplaintRepository) FindByResident(ctx context.Context, residentID uint) ([]model.Complaint, error) {
	return r.find(ctx, "", "resident_id = ?", residentID)
}

func (r *ComplaintRepository) FindByApartment(ctx context.Context, apartmentID uint) ([]model.Complaint, error) {
	return r.find(ctx, "", "apartment_id = ?", apartmentID)
}

// FindByAssignee returns complaints assigned to a staff member.
func (r *ComplaintRepository) FindByAssignee(ctx context.Context, staffID uint) ([]model.Complaint, error) {
	return r.find(ctx, "", "assigned_to_id = ?", staffID)
}

// FindByStatusAndPriorityNewestFirst orders by creation time, newest first.
func (r *ComplaintRepository) FindByStatusAndPriorityNewestFirst(ctx context.Context, status model.ComplaintStatus, priority model.Priority) ([]model.Complaint, error) {
	return r.find(ctx, "created_at DESC", "status = ? AND priority = ?", status, priority)
}

func complaintLifecycle(stored, next *model.Complaint) error {
	switch {
	case stored.Status != next.Status:
		return lifecycleChanged("complaint", stored.ID, "status")
	case !sameInstant(stored.ResolvedAt, next.ResolvedAt):
		return lifecycleChanged("complaint", stored.ID, "resolvedAt")
	case stored.Resolution != next.Resolution:
		return lifecycleChanged("complaint", stored.ID, "resolution")
	case !sameRef(stored.AssignedToID, next.AssignedToID):
		return lifecycleChanged("complaint", stored.ID, "assignedToId")
	}
	return nil
}

func sameRef(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
