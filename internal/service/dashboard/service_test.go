package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/meditrack/internal/model"
	"github.com/jwalitptl/meditrack/internal/repository/mocks"
	"github.com/jwalitptl/meditrack/pkg/logger"
)

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		approved, total int64
		want            int
	}{
		{0, 0, 0},
		{3, 10, 30},
		{1, 3, 33},
		{2, 3, 67},
		{1, 40, 3}, // 2.5% rounds half up
		{1, 200, 1},
		{1, 201, 0},
		{5, 5, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SuccessRate(tt.approved, tt.total), "%d/%d", tt.approved, tt.total)
	}
}

func statusIs(s model.RequestStatus) interface{} {
	return mock.MatchedBy(func(p *model.RequestStatus) bool { return p != nil && *p == s })
}

func TestStats(t *testing.T) {
	requests := new(mocks.RequestRepository)
	medicines := new(mocks.MedicineRepository)

	requests.On("CountByResident", mock.Anything, int64(3), (*model.RequestStatus)(nil)).Return(int64(10), nil)
	requests.On("CountByResident", mock.Anything, int64(3), statusIs(model.RequestStatusSubmitted)).Return(int64(4), nil)
	requests.On("CountByResident", mock.Anything, int64(3), statusIs(model.RequestStatusApproved)).Return(int64(3), nil)
	medicines.On("CountAvailable", mock.Anything).Return(int64(12), nil)

	svc := NewService(requests, medicines, 0, logger.NewNop())
	stats := svc.Stats(context.Background(), 3)

	assert.Equal(t, model.RequestStats{
		Total:              10,
		Pending:            4,
		Approved:           3,
		AvailableMedicines: 12,
		SuccessRate:        30,
	}, stats)
}

func TestStatsDefaultsFailedCountsToZero(t *testing.T) {
	requests := new(mocks.RequestRepository)
	medicines := new(mocks.MedicineRepository)
	boom := errors.New("timeout")

	requests.On("CountByResident", mock.Anything, int64(3), (*model.RequestStatus)(nil)).Return(int64(8), nil)
	requests.On("CountByResident", mock.Anything, int64(3), statusIs(model.RequestStatusSubmitted)).Return(int64(0), boom)
	requests.On("CountByResident", mock.Anything, int64(3), statusIs(model.RequestStatusApproved)).Return(int64(2), nil)
	medicines.On("CountAvailable", mock.Anything).Return(int64(0), boom)

	stats := NewService(requests, medicines, 0, logger.NewNop()).Stats(context.Background(), 3)

	assert.Equal(t, int64(8), stats.Total)
	assert.Zero(t, stats.Pending)
	assert.Zero(t, stats.AvailableMedicines)
	assert.Equal(t, 25, stats.SuccessRate)
}

func TestStatsCachesAvailableMedicines(t *testing.T) {
	requests := new(mocks.RequestRepository)
	medicines := new(mocks.MedicineRepository)

	requests.On("CountByResident", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)
	medicines.On("CountAvailable", mock.Anything).Return(int64(7), nil).Once()

	svc := NewService(requests, medicines, time.Minute, logger.NewNop())
	assert.Equal(t, int64(7), svc.Stats(context.Background(), 1).AvailableMedicines)
	assert.Equal(t, int64(7), svc.Stats(context.Background(), 2).AvailableMedicines)

	medicines.AssertNumberOfCalls(t, "CountAvailable", 1)
}
