package model

import "time"

// Notification types recorded in the email log
const (
	NotificationTypeMedicineRequest = "medicine_request"
)

// EmailNotification is an audit-log entry for an attempted email.
type EmailNotification struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Type      string    `json:"type" db:"notification_type"`
	Subject   string    `json:"subject" db:"subject"`
	Message   string    `json:"message" db:"message"`
	Success   bool      `json:"success" db:"success"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
