package dashboard

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/meditrack/internal/model"
	"github.com/jwalitptl/meditrack/internal/repository"
	"github.com/jwalitptl/meditrack/pkg/logger"
)

const availableMedicinesKey = "available_medicines"

// Service reads the dashboard statistics. Every count is independent; a
// failing count is logged and reported as zero.
type Service struct {
	requests  repository.RequestRepository
	medicines repository.MedicineRepository
	cache     *gocache.Cache
	logger    *logger.Logger
}

// NewService caches the global available-medicine count for cacheTTL; a
// non-positive TTL disables caching.
func NewService(
	requests repository.RequestRepository,
	medicines repository.MedicineRepository,
	cacheTTL time.Duration,
	logger *logger.Logger,
) *Service {
	var c *gocache.Cache
	if cacheTTL > 0 {
		c = gocache.New(cacheTTL, 2*cacheTTL)
	}
	return &Service{
		requests:  requests,
		medicines: medicines,
		cache:     c,
		logger:    logger,
	}
}

func (s *Service) Stats(ctx context.Context, residentID int64) model.RequestStats {
	log := s.logger.WithContext(ctx)
	pending := model.RequestStatusSubmitted
	approved := model.RequestStatusApproved

	stats := model.RequestStats{
		Total:              s.count(ctx, log, "total", residentID, nil),
		Pending:            s.count(ctx, log, "pending", residentID, &pending),
		Approved:           s.count(ctx, log, "approved", residentID, &approved),
		AvailableMedicines: s.availableMedicines(ctx, log),
	}
	stats.SuccessRate = SuccessRate(stats.Approved, stats.Total)
	return stats
}

func (s *Service) count(ctx context.Context, log *logger.Logger, name string, residentID int64, status *model.RequestStatus) int64 {
	n, err := s.requests.CountByResident(ctx, residentID, status)
	if err != nil {
		log.Warn(err, "Request count failed, defaulting to zero", "count", name, "resident_id", residentID)
		return 0
	}
	return n
}

func (s *Service) availableMedicines(ctx context.Context, log *logger.Logger) int64 {
	if s.cache != nil {
		if v, ok := s.cache.Get(availableMedicinesKey); ok {
			return v.(int64)
		}
	}

	n, err := s.medicines.CountAvailable(ctx)
	if err != nil {
		log.Warn(err, "Available medicine count failed, defaulting to zero")
		return 0
	}

	if s.cache != nil {
		s.cache.SetDefault(availableMedicinesKey, n)
	}
	return n
}

// SuccessRate is approved/total as a whole percentage, rounded half up.
// A resident with no requests has a rate of zero.
func SuccessRate(approved, total int64) int {
	if total <= 0 || approved <= 0 {
		return 0
	}
	return int((approved*200 + total) / (2 * total))
}
