package model

import "time"

// AnnouncementType classifies a building-wide notice.
type AnnouncementType string

const (
	AnnouncementGeneral     AnnouncementType = "GENERAL"
	AnnouncementMaintenance AnnouncementType = "MAINTENANCE"
	AnnouncementEvent       AnnouncementType = "EVENT"
	AnnouncementEmergency   AnnouncementType = "EMERGENCY"
	AnnouncementOther       AnnouncementType = "OTHER"
)

var announcementTypes = []AnnouncementType{
	AnnouncementGeneral, AnnouncementMaintenance, AnnouncementEvent, AnnouncementEmergency, AnnouncementOther,
}

// Announcement is a notice published by an administrator.
type Announcement struct {
	Base
	Title       string           `json:"title" gorm:"size:100;not null"`
	Content     string           `json:"content" gorm:"size:2000;not null"`
	CreatedByID uint             `json:"createdById" gorm:"not null;index"`
	CreatedBy   *User            `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE"`
	Type        AnnouncementType `json:"type" gorm:"size:20;not null;index"`
	Active      bool             `json:"active" gorm:"not null;index"`
	ExpiryDate  *time.Time       `json:"expiryDate,omitempty" gorm:"index"`
}

// NewAnnouncement returns an active general announcement.
func NewAnnouncement(createdByID uint, title, content string) *Announcement {
	return &Announcement{
		Title:       title,
		Content:     content,
		CreatedByID: createdByID,
		Type:        AnnouncementGeneral,
		Active:      true,
	}
}

func (a *Announcement) Validate() error {
	return firstError(
		required("title", a.Title, 100),
		required("content", a.Content, 2000),
		reference("createdById", a.CreatedByID),
		oneOf("type", a.Type, announcementTypes),
	)
}

// OnCreate stamps the record and stores the expiry date in UTC.
func (a *Announcement) OnCreate(now time.Time) {
	a.Base.OnCreate(now)
	a.normalizeExpiry()
}

func (a *Announcement) OnUpdate(now time.Time) {
	a.Base.OnUpdate(now)
	a.normalizeExpiry()
}

// normalizeExpiry keeps stored expiry dates comparable as text. SQLite
// compares timestamps lexically, so mixed offsets would order wrongly.
func (a *Announcement) normalizeExpiry() {
	if a.ExpiryDate != nil {
		utc := a.ExpiryDate.UTC()
		a.ExpiryDate = &utc
	}
}

// IsExpired is derived, never stored: the expiry date is set and lies
// strictly before now.
func (a *Announcement) IsExpired(now time.Time) bool {
	return a.ExpiryDate != nil && a.ExpiryDate.Before(now)
}
