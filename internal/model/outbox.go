package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "pending"
	OutboxStatusProcessing OutboxStatus = "processing"
	OutboxStatusRetry      OutboxStatus = "retry"
	OutboxStatusProcessed  OutboxStatus = "processed"
	OutboxStatusFailed     OutboxStatus = "failed"
)

// Outbox event types
const (
	EventRequestSubmitted = "REQUEST_SUBMITTED"
)

type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	RetryAt      *time.Time      `db:"retry_at" json:"retry_at,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// RequestSubmittedEvent is the payload of EventRequestSubmitted.
type RequestSubmittedEvent struct {
	RequestID    int64        `json:"request_id"`
	ResidentID   int64        `json:"resident_id"`
	MedicineID   int64        `json:"medicine_id"`
	RequestedFor RequestedFor `json:"requested_for"`
	BHWID        *int64       `json:"bhw_id,omitempty"`
	HasProof     bool         `json:"has_proof"`
	SubmittedAt  time.Time    `json:"submitted_at"`
}

// NewRequestSubmittedEvent builds the outbox event for a freshly inserted request.
func NewRequestSubmittedEvent(req *Request) (*OutboxEvent, error) {
	payload, err := json.Marshal(RequestSubmittedEvent{
		RequestID:    req.ID,
		ResidentID:   req.ResidentID,
		MedicineID:   req.MedicineID,
		RequestedFor: req.RequestedFor,
		BHWID:        req.BHWID,
		HasProof:     req.ProofImagePath != nil,
		SubmittedAt:  req.CreatedAt,
	})
	if err != nil {
		return nil, err
	}
	return &OutboxEvent{
		ID:        uuid.New(),
		EventType: EventRequestSubmitted,
		Payload:   payload,
		Status:    OutboxStatusPending,
		CreatedAt: req.CreatedAt,
		UpdatedAt: req.CreatedAt,
	}, nil
}
