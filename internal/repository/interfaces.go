package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/meditrack/internal/model"
)

// ErrNotFound is returned when a scoped lookup matches no row.
var ErrNotFound = errors.New("record not found")

// All repository interfaces in one file
type (
	UserRepository interface {
		Get(ctx context.Context, id int64) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}

	ResidentRepository interface {
		GetByUserID(ctx context.Context, userID int64) (*model.Resident, error)
		GetProfile(ctx context.Context, residentID int64) (*model.ResidentProfile, error)
	}

	FamilyMemberRepository interface {
		// GetForResident returns ErrNotFound when the member does not exist or
		// belongs to another resident.
		GetForResident(ctx context.Context, residentID, memberID int64) (*model.FamilyMember, error)
		ListByResident(ctx context.Context, residentID int64) ([]*model.FamilyMember, error)
	}

	MedicineRepository interface {
		Get(ctx context.Context, id int64) (*model.Medicine, error)
		ListAvailable(ctx context.Context) ([]*model.Medicine, error)
		CountAvailable(ctx context.Context) (int64, error)
	}

	RequestRepository interface {
		// Create inserts the request together with its REQUEST_SUBMITTED outbox
		// event in one transaction and sets req.ID and req.CreatedAt.
		Create(ctx context.Context, req *model.Request) error
		CountByResident(ctx context.Context, residentID int64, status *model.RequestStatus) (int64, error)
		ListByResident(ctx context.Context, residentID int64) ([]*model.RequestSummary, error)
	}

	AnnouncementRepository interface {
		// ListActive returns active announcements whose end date is on or after
		// today, ordered by start date then newest first.
		ListActive(ctx context.Context, today model.Date) ([]*model.Announcement, error)
	}

	AssignmentRepository interface {
		// AssignedBHW returns the health worker assigned to the resident's purok,
		// or nil when none is assigned.
		AssignedBHW(ctx context.Context, residentID int64) (*model.User, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, n *model.EmailNotification) error
	}

	OutboxRepository interface {
		ClaimPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
