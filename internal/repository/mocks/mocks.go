// Package mocks holds testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/meditrack/internal/model"
	"github.com/jwalitptl/meditrack/internal/repository"
)

var (
	_ repository.UserRepository         = (*UserRepository)(nil)
	_ repository.ResidentRepository     = (*ResidentRepository)(nil)
	_ repository.FamilyMemberRepository = (*FamilyMemberRepository)(nil)
	_ repository.MedicineRepository     = (*MedicineRepository)(nil)
	_ repository.RequestRepository      = (*RequestRepository)(nil)
	_ repository.AnnouncementRepository = (*AnnouncementRepository)(nil)
	_ repository.AssignmentRepository   = (*AssignmentRepository)(nil)
	_ repository.NotificationRepository = (*NotificationRepository)(nil)
	_ repository.OutboxRepository       = (*OutboxRepository)(nil)
)

type UserRepository struct{ mock.Mock }

func (m *UserRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

type ResidentRepository struct{ mock.Mock }

func (m *ResidentRepository) GetByUserID(ctx context.Context, userID int64) (*model.Resident, error) {
	args := m.Called(ctx, userID)
	r, _ := args.Get(0).(*model.Resident)
	return r, args.Error(1)
}

func (m *ResidentRepository) GetProfile(ctx context.Context, residentID int64) (*model.ResidentProfile, error) {
	args := m.Called(ctx, residentID)
	p, _ := args.Get(0).(*model.ResidentProfile)
	return p, args.Error(1)
}

type FamilyMemberRepository struct{ mock.Mock }

func (m *FamilyMemberRepository) GetForResident(ctx context.Context, residentID, memberID int64) (*model.FamilyMember, error) {
	args := m.Called(ctx, residentID, memberID)
	f, _ := args.Get(0).(*model.FamilyMember)
	return f, args.Error(1)
}

func (m *FamilyMemberRepository) ListByResident(ctx context.Context, residentID int64) ([]*model.FamilyMember, error) {
	args := m.Called(ctx, residentID)
	f, _ := args.Get(0).([]*model.FamilyMember)
	return f, args.Error(1)
}

type MedicineRepository struct{ mock.Mock }

func (m *MedicineRepository) Get(ctx context.Context, id int64) (*model.Medicine, error) {
	args := m.Called(ctx, id)
	med, _ := args.Get(0).(*model.Medicine)
	return med, args.Error(1)
}

func (m *MedicineRepository) ListAvailable(ctx context.Context) ([]*model.Medicine, error) {
	args := m.Called(ctx)
	meds, _ := args.Get(0).([]*model.Medicine)
	return meds, args.Error(1)
}

func (m *MedicineRepository) CountAvailable(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type RequestRepository struct{ mock.Mock }

func (m *RequestRepository) Create(ctx context.Context, req *model.Request) error {
	return m.Called(ctx, req).Error(0)
}

func (m *RequestRepository) CountByResident(ctx context.Context, residentID int64, status *model.RequestStatus) (int64, error) {
	args := m.Called(ctx, residentID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RequestRepository) ListByResident(ctx context.Context, residentID int64) ([]*model.RequestSummary, error) {
	args := m.Called(ctx, residentID)
	r, _ := args.Get(0).([]*model.RequestSummary)
	return r, args.Error(1)
}

type AnnouncementRepository struct{ mock.Mock }

func (m *AnnouncementRepository) ListActive(ctx context.Context, today model.Date) ([]*model.Announcement, error) {
	args := m.Called(ctx, today)
	a, _ := args.Get(0).([]*model.Announcement)
	return a, args.Error(1)
}

type AssignmentRepository struct{ mock.Mock }

func (m *AssignmentRepository) AssignedBHW(ctx context.Context, residentID int64) (*model.User, error) {
	args := m.Called(ctx, residentID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

type NotificationRepository struct{ mock.Mock }

func (m *NotificationRepository) Create(ctx context.Context, n *model.EmailNotification) error {
	return m.Called(ctx, n).Error(0)
}

type OutboxRepository struct{ mock.Mock }

func (m *OutboxRepository) ClaimPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	e, _ := args.Get(0).([]*model.OutboxEvent)
	return e, args.Error(1)
}

func (m *OutboxRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error {
	return m.Called(ctx, id, status, errorMessage, retryAt).Error(0)
}

func (m *OutboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}
