package model

import "time"

// ComplaintCategory classifies what a complaint is about.
type ComplaintCategory string

const (
	CategoryMaintenance ComplaintCategory = "MAINTENANCE"
	CategoryPlumbing    ComplaintCategory = "PLUMBING"
	CategoryElectrical  ComplaintCategory = "ELECTRICAL"
	CategoryHVAC        ComplaintCategory = "HVAC"
	CategoryAppliance   ComplaintCategory = "APPLIANCE"
	CategoryNoise       ComplaintCategory = "NOISE"
	CategorySecurity    ComplaintCategory = "SECURITY"
	CategoryOther       ComplaintCategory = "OTHER"
)

var complaintCategories = []ComplaintCategory{
	CategoryMaintenance, CategoryPlumbing, CategoryElectrical, CategoryHVAC,
	CategoryAppliance, CategoryNoise, CategorySecurity, CategoryOther,
}

// Priority orders complaints by urgency.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

var priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// ComplaintStatus tracks a complaint from filing to resolution.
type ComplaintStatus string

const (
	ComplaintPending    ComplaintStatus = "PENDING"
	ComplaintInProgress ComplaintStatus = "IN_PROGRESS"
	ComplaintResolved   ComplaintStatus = "RESOLVED"
	ComplaintCancelled  ComplaintStatus = "CANCELLED"
)

var complaintStatuses = []ComplaintStatus{ComplaintPending, ComplaintInProgress, ComplaintResolved, ComplaintCancelled}

// Complaint is an issue raised by a resident about their apartment.
type Complaint struct {
	Base
	Title        string            `json:"title" gorm:"size:100;not null"`
	Description  string            `json:"description" gorm:"size:1000;not null"`
	Category     ComplaintCategory `json:"category" gorm:"size:20;not null;index"`
	Priority     Priority          `json:"priority" gorm:"size:20;not null;index"`
	Status       ComplaintStatus   `json:"status" gorm:"size:20;not null;index"`
	ResidentID   uint              `json:"residentId" gorm:"not null;index"`
	Resident     *User             `json:"resident,omitempty" gorm:"foreignKey:ResidentID;constraint:OnDelete:CASCADE"`
	ApartmentID  uint              `json:"apartmentId" gorm:"not null;index"`
	Apartment    *Apartment        `json:"apartment,omitempty" gorm:"foreignKey:ApartmentID;constraint:OnDelete:CASCADE"`
	AssignedToID *uint             `json:"assignedToId,omitempty" gorm:"index"`
	AssignedTo   *User             `json:"assignedTo,omitempty" gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL"`
	ImageURL     string            `json:"imageUrl,omitempty" gorm:"size:255"`
	Resolution   string            `json:"resolution,omitempty" gorm:"size:1000"`
	ResolvedAt   *time.Time        `json:"resolvedAt,omitempty"`
}

// NewComplaint returns a pending complaint.
func NewComplaint(residentID, apartmentID uint, title, description string, category ComplaintCategory, priority Priority) *Complaint {
	return &Complaint{
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		Status:      ComplaintPending,
		ResidentID:  residentID,
		ApartmentID: apartmentID,
	}
}

func (c *Complaint) Validate() error {
	return firstError(
		required("title", c.Title, 100),
		required("description", c.Description, 1000),
		oneOf("category", c.Category, complaintCategories),
		oneOf("priority", c.Priority, priorities),
		oneOf("status", c.Status, complaintStatuses),
		reference("residentId", c.ResidentID),
		reference("apartmentId", c.ApartmentID),
		maxLen("imageUrl", c.ImageURL, 255),
		maxLen("resolution", c.Resolution, 1000),
		c.resolvedOnce(),
	)
}

// resolvedOnce ties ResolvedAt to the RESOLVED status.
func (c *Complaint) resolvedOnce() error {
	if (c.Status == ComplaintResolved) != (c.ResolvedAt != nil) {
		return invalid("resolvedAt", "must be set exactly when the status is %s", ComplaintResolved)
	}
	return nil
}

// Assign hands an open complaint to a staff member and marks it in progress.
func (c *Complaint) Assign(staffID uint) error {
	if c.Status != ComplaintPending && c.Status != ComplaintInProgress {
		return transitionError("complaint", c.ID, c.Status, "assign")
	}
	if err := reference("assignedToId", staffID); err != nil {
		return err
	}
	c.AssignedToID = &staffID
	c.Status = ComplaintInProgress
	return nil
}

// Resolve closes an open complaint. ResolvedAt is written once; a complaint
// that is already resolved or cancelled is left untouched.
func (c *Complaint) Resolve(resolution string, now time.Time) error {
	if c.Status == ComplaintResolved || c.Status == ComplaintCancelled || c.ResolvedAt != nil {
		return transitionError("complaint", c.ID, c.Status, "resolve")
	}
	if err := maxLen("resolution", resolution, 1000); err != nil {
		return err
	}
	c.Status = ComplaintResolved
	c.Resolution = resolution
	c.ResolvedAt = &now
	return nil
}

// Cancel withdraws an open complaint.
func (c *Complaint) Cancel() error {
	if c.Status != ComplaintPending && c.Status != ComplaintInProgress {
		return transitionError("complaint", c.ID, c.Status, "cancel")
	}
	c.Status = ComplaintCancelled
	return nil
}
