package model

import (
	"strings"
	"time"
)

type RequestStatus string

// Lifecycle: submitted -> approved|rejected, approved -> ready_to_claim -> claimed.
// Only the submitted state is created by residents.
const (
	RequestStatusSubmitted    RequestStatus = "submitted"
	RequestStatusApproved     RequestStatus = "approved"
	RequestStatusRejected     RequestStatus = "rejected"
	RequestStatusReadyToClaim RequestStatus = "ready_to_claim"
	RequestStatusClaimed      RequestStatus = "claimed"
)

type RequestedFor string

const (
	RequestedForSelf   RequestedFor = "self"
	RequestedForFamily RequestedFor = "family"
)

// ParseRequestedFor normalizes a form value; anything unknown means self.
func ParseRequestedFor(s string) RequestedFor {
	switch RequestedFor(strings.ToLower(strings.TrimSpace(s))) {
	case RequestedForFamily:
		return RequestedForFamily
	default:
		return RequestedForSelf
	}
}

// Request is a resident's medicine request.
type Request struct {
	ID                 int64         `json:"id" db:"id"`
	ResidentID         int64         `json:"resident_id" db:"resident_id"`
	MedicineID         int64         `json:"medicine_id" db:"medicine_id"`
	RequestedFor       RequestedFor  `json:"requested_for" db:"requested_for"`
	FamilyMemberID     *int64        `json:"family_member_id" db:"family_member_id"`
	PatientName        string        `json:"patient_name" db:"patient_name"`
	PatientDateOfBirth *Date         `json:"patient_date_of_birth" db:"patient_date_of_birth"`
	Relationship       string        `json:"relationship" db:"relationship"`
	Reason             string        `json:"reason" db:"reason"`
	ProofImagePath     *string       `json:"proof_image_path" db:"proof_image_path"`
	Status             RequestStatus `json:"status" db:"status"`
	BHWID              *int64        `json:"bhw_id" db:"bhw_id"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
}

// RequestSummary is a request row joined with its medicine name, for history views.
type RequestSummary struct {
	Request
	MedicineName string `json:"medicine_name" db:"medicine_name"`
}

// RequestStats summarizes a resident's requests for the dashboard.
type RequestStats struct {
	Total              int64 `json:"total"`
	Pending            int64 `json:"pending"`
	Approved           int64 `json:"approved"`
	AvailableMedicines int64 `json:"available_medicines"`
	SuccessRate        int   `json:"success_rate"`
}
