package model

import "time"

// Announcement is a health-center notice active between StartDate and EndDate inclusive.
type Announcement struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	StartDate   Date      `json:"start_date" db:"start_date"`
	EndDate     Date      `json:"end_date" db:"end_date"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type AnnouncementState string

const (
	AnnouncementUpcoming AnnouncementState = "upcoming"
	AnnouncementOngoing  AnnouncementState = "ongoing"
	AnnouncementEnded    AnnouncementState = "ended"
)

// AnnouncementView is an announcement with its display state computed for a
// given instant. CalendarEnd is the exclusive end expected by calendar widgets.
type AnnouncementView struct {
	Announcement
	State       AnnouncementState `json:"state"`
	StatusText  string            `json:"status_text"`
	CalendarEnd Date              `json:"calendar_end"`
	IsPast      bool              `json:"is_past"`
}
