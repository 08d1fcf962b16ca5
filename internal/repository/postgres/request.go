package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/meditrack/internal/model"
	"github.com/jwalitptl/meditrack/internal/repository"
)

type requestRepository struct {
	BaseRepository
}

func NewRequestRepository(base BaseRepository) repository.RequestRepository {
	return &requestRepository{base}
}

func (r *requestRepository) Create(ctx context.Context, req *model.Request) error {
	query := `
		INSERT INTO requests (
			resident_id, medicine_id, requested_for, family_member_id,
			patient_name, patient_date_of_birth, relationship, reason,
			proof_image_path, status, bhw_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING id, created_at
	`

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, query,
			req.ResidentID,
			req.MedicineID,
			req.RequestedFor,
			req.FamilyMemberID,
			req.PatientName,
			req.PatientDateOfBirth,
			req.Relationship,
			req.Reason,
			req.ProofImagePath,
			req.Status,
			req.BHWID,
		).Scan(&req.ID, &req.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		event, err := model.NewRequestSubmittedEvent(req)
		if err != nil {
			return fmt.Errorf("failed to build outbox event: %w", err)
		}
		return insertOutboxEvent(ctx, tx, event)
	})
}

// CountByResident counts the resident's requests, optionally restricted to one status.
func (r *requestRepository) CountByResident(ctx context.Context, residentID int64, status *model.RequestStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM requests WHERE resident_id = $1`
	args := []interface{}{residentID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count requests: %w", err)
	}
	return count, nil
}

func (r *requestRepository) ListByResident(ctx context.Context, residentID int64) ([]*model.RequestSummary, error) {
	query := `
		SELECT r.id, r.resident_id, r.medicine_id, r.requested_for, r.family_member_id,
			COALESCE(r.patient_name, '') AS patient_name, r.patient_date_of_birth,
			COALESCE(r.relationship, '') AS relationship, COALESCE(r.reason, '') AS reason,
			r.proof_image_path, r.status, r.bhw_id, r.created_at,
			m.name AS medicine_name
		FROM requests r
		JOIN medicines m ON m.id = r.medicine_id
		WHERE r.resident_id = $1
		ORDER BY r.created_at DESC, r.id DESC
	`

	requests := []*model.RequestSummary{}
	if err := r.db.SelectContext(ctx, &requests, query, residentID); err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}
