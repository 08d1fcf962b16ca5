package request

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/jwalitptl/meditrack/internal/model"
	"github.com/jwalitptl/meditrack/internal/repository"
	"github.com/jwalitptl/meditrack/internal/service/notification"
	apperrors "github.com/jwalitptl/meditrack/pkg/errors"
	"github.com/jwalitptl/meditrack/pkg/logger"
	"github.com/jwalitptl/meditrack/pkg/metrics"
	"github.com/jwalitptl/meditrack/pkg/storage"
)

// Outcome tags how a submission was handled.
type Outcome string

const (
	OutcomeSubmittedWithProof       Outcome = "submitted_with_proof"
	OutcomeSubmittedWithoutProof    Outcome = "submitted_without_proof"
	OutcomeRejectedInvalidRecipient Outcome = "rejected_invalid_recipient"
)

const selfRelationship = "Self"

// ProofStore persists proof-of-need uploads.
type ProofStore interface {
	Save(filename string, r io.Reader) (string, error)
}

// ProofFile is an uploaded proof. Open is called at most once.
type ProofFile struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

type SubmitInput struct {
	MedicineID         int64
	RequestedFor       string
	FamilyMemberID     *int64
	PatientName        string
	PatientDateOfBirth *model.Date
	Relationship       string
	Reason             string
	Proof              *ProofFile
}

type SubmitResult struct {
	Outcome    Outcome `json:"outcome"`
	RequestID  int64   `json:"request_id,omitempty"`
	ProofPath  *string `json:"proof_path"`
	ProofIssue string  `json:"proof_issue,omitempty"`
	Notified   bool    `json:"notified"`
}

// Accepted reports whether a request row was created.
func (r *SubmitResult) Accepted() bool {
	return r.Outcome == OutcomeSubmittedWithProof || r.Outcome == OutcomeSubmittedWithoutProof
}

type Service struct {
	requests    repository.RequestRepository
	medicines   repository.MedicineRepository
	families    repository.FamilyMemberRepository
	residents   repository.ResidentRepository
	assignments repository.AssignmentRepository
	proofs      ProofStore
	notifier    notification.Service
	logger      *logger.Logger
	metrics     *metrics.Metrics
}

func NewService(
	requests repository.RequestRepository,
	medicines repository.MedicineRepository,
	families repository.FamilyMemberRepository,
	residents repository.ResidentRepository,
	assignments repository.AssignmentRepository,
	proofs ProofStore,
	notifier notification.Service,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		requests:    requests,
		medicines:   medicines,
		families:    families,
		residents:   residents,
		assignments: assignments,
		proofs:      proofs,
		notifier:    notifier,
		logger:      logger,
		metrics:     metrics,
	}
}

// Submit creates a request in the submitted state on behalf of resident.
// Validation failures return a BadRequest AppError; an unknown family member
// returns a result tagged OutcomeRejectedInvalidRecipient and persists nothing.
func (s *Service) Submit(ctx context.Context, resident *model.Resident, in SubmitInput) (*SubmitResult, error) {
	log := s.logger.WithContext(ctx).WithFields(map[string]interface{}{"resident_id": resident.ID})

	if in.MedicineID <= 0 {
		return nil, apperrors.BadRequest("medicine_id is required", nil)
	}
	medicine, err := s.medicines.Get(ctx, in.MedicineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.BadRequest("medicine not found", err)
		}
		return nil, apperrors.Internal(err)
	}
	if !medicine.Available() {
		return nil, apperrors.BadRequest("medicine is not available", nil)
	}

	req := &model.Request{
		ResidentID:         resident.ID,
		MedicineID:         medicine.ID,
		RequestedFor:       model.ParseRequestedFor(in.RequestedFor),
		PatientName:        strings.TrimSpace(in.PatientName),
		PatientDateOfBirth: in.PatientDateOfBirth,
		Relationship:       strings.TrimSpace(in.Relationship),
		Reason:             strings.TrimSpace(in.Reason),
		Status:             model.RequestStatusSubmitted,
	}

	var residentName string
	switch req.RequestedFor {
	case model.RequestedForFamily:
		if in.FamilyMemberID != nil {
			member, err := s.families.GetForResident(ctx, resident.ID, *in.FamilyMemberID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					log.Info("Rejected request for unknown family member", "family_member_id", *in.FamilyMemberID)
					s.metrics.RequestsSubmitted.WithLabelValues(string(OutcomeRejectedInvalidRecipient)).Inc()
					return &SubmitResult{Outcome: OutcomeRejectedInvalidRecipient}, nil
				}
				return nil, apperrors.Internal(err)
			}
			req.FamilyMemberID = &member.ID
			req.PatientName = member.FullName()
			req.PatientDateOfBirth = member.DateOfBirth
			req.Relationship = member.Relationship
		}
	default:
		profile, err := s.residents.GetProfile(ctx, resident.ID)
		if err != nil {
			log.Warn(err, "Could not load resident profile for self request")
		} else {
			residentName = profile.FullName()
			if req.PatientName == "" {
				req.PatientName = residentName
			}
			if req.PatientDateOfBirth == nil {
				req.PatientDateOfBirth = profile.DateOfBirth
			}
		}
		if req.Relationship == "" {
			req.Relationship = selfRelationship
		}
	}

	if req.PatientName == "" {
		return nil, apperrors.BadRequest("patient_name is required", nil)
	}
	if req.Reason == "" {
		return nil, apperrors.BadRequest("reason is required", nil)
	}

	result := &SubmitResult{Outcome: OutcomeSubmittedWithoutProof}
	if path, issue := s.storeProof(in.Proof); issue == "" {
		req.ProofImagePath = &path
		result.ProofPath = &path
		result.Outcome = OutcomeSubmittedWithProof
	} else {
		result.ProofIssue = issue
		log.Info("Submitting request without proof", "proof_issue", issue)
	}

	bhw, err := s.assignments.AssignedBHW(ctx, resident.ID)
	if err != nil {
		log.Warn(err, "Health worker lookup failed, submitting unassigned")
		bhw = nil
	}
	if bhw != nil {
		req.BHWID = &bhw.ID
	}

	if err := s.requests.Create(ctx, req); err != nil {
		log.Error(err, "Failed to insert request")
		s.metrics.DatabaseOperations.WithLabelValues("create_request", "error").Inc()
		return nil, apperrors.Internal(err)
	}
	s.metrics.DatabaseOperations.WithLabelValues("create_request", "success").Inc()
	result.RequestID = req.ID

	if bhw != nil {
		if residentName == "" {
			residentName = s.residentName(ctx, resident.ID, req.PatientName)
		}
		result.Notified = s.notifier.NotifyRequestSubmitted(ctx, bhw, residentName, medicine.Name)
	}

	s.metrics.RequestsSubmitted.WithLabelValues(string(result.Outcome)).Inc()
	log.Info("Request submitted",
		"request_id", req.ID,
		"outcome", string(result.Outcome),
		"notified", result.Notified)

	return result, nil
}

// storeProof saves the upload and returns its path, or a non-empty issue
// describing why no proof was stored.
func (s *Service) storeProof(proof *ProofFile) (string, string) {
	if proof == nil || proof.Filename == "" || proof.Open == nil {
		s.metrics.ProofUploads.WithLabelValues("missing").Inc()
		return "", storage.ErrNoFile.Error()
	}

	f, err := proof.Open()
	if err != nil {
		s.metrics.ProofUploads.WithLabelValues("rejected").Inc()
		return "", storage.ErrWrite.Error()
	}
	defer f.Close()

	path, err := s.proofs.Save(proof.Filename, f)
	if err != nil {
		s.metrics.ProofUploads.WithLabelValues("rejected").Inc()
		return "", proofIssue(err)
	}
	s.metrics.ProofUploads.WithLabelValues("stored").Inc()
	return path, ""
}

// proofIssue keeps only the public reason of a storage error.
func proofIssue(err error) string {
	for _, known := range []error{storage.ErrNoFile, storage.ErrExtension, storage.ErrTooLarge, storage.ErrContentMismatch} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return storage.ErrWrite.Error()
}

func (s *Service) residentName(ctx context.Context, residentID int64, fallback string) string {
	profile, err := s.residents.GetProfile(ctx, residentID)
	if err != nil {
		return fallback
	}
	return profile.FullName()
}

// History lists the resident's requests newest first.
func (s *Service) History(ctx context.Context, residentID int64) ([]*model.RequestSummary, error) {
	requests, err := s.requests.ListByResident(ctx, residentID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return requests, nil
}

// FormData is what the request form needs to render.
type FormData struct {
	Profile       *model.ResidentProfile `json:"profile"`
	Medicines     []*model.Medicine      `json:"medicines"`
	FamilyMembers []*model.FamilyMember  `json:"family_members"`
}

func (s *Service) FormData(ctx context.Context, residentID int64) (*FormData, error) {
	medicines, err := s.medicines.ListAvailable(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	members, err := s.families.ListByResident(ctx, residentID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &FormData{Medicines: medicines, FamilyMembers: members}, nil
}
