package announcement

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/meditrack/internal/model"
	"github.com/jwalitptl/meditrack/internal/repository"
	"github.com/jwalitptl/meditrack/pkg/logger"
)

const (
	statusOngoing = "Ongoing"
	statusEnded   = "Ended"
)

type Service struct {
	repo   repository.AnnouncementRepository
	loc    *time.Location
	logger *logger.Logger
	now    func() time.Time
}

func NewService(repo repository.AnnouncementRepository, loc *time.Location, logger *logger.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		repo:   repo,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

// List returns the active, not yet ended announcements with their display
// state for the current instant. A failed query yields an empty list.
func (s *Service) List(ctx context.Context) []*model.AnnouncementView {
	now := s.now().In(s.loc)
	today := model.NewDate(now)

	announcements, err := s.repo.ListActive(ctx, today)
	if err != nil {
		s.logger.WithContext(ctx).Warn(err, "Failed to load announcements, returning empty list")
		return []*model.AnnouncementView{}
	}

	views := make([]*model.AnnouncementView, 0, len(announcements))
	for _, a := range announcements {
		views = append(views, s.view(a, now, today))
	}
	return views
}

func (s *Service) view(a *model.Announcement, now time.Time, today model.Date) *model.AnnouncementView {
	state, text := Classify(now, a.StartDate, a.EndDate)
	end := a.EndDate.In(s.loc)
	return &model.AnnouncementView{
		Announcement: *a,
		State:        state,
		StatusText:   text,
		CalendarEnd:  end.AddDays(1),
		IsPast:       end.Before(today.Time),
	}
}

// Classify computes the display state of an announcement running from start
// to end inclusive, as seen at now. Dates are interpreted in now's location.
func Classify(now time.Time, start, end model.Date) (model.AnnouncementState, string) {
	loc := now.Location()
	startAt := start.In(loc).Time
	endOfDay := end.In(loc).AddDays(1).Time

	switch {
	case now.Before(startAt):
		days := calendarDays(model.NewDate(now), start)
		if days == 1 {
			return model.AnnouncementUpcoming, "Starts in 1 day"
		}
		return model.AnnouncementUpcoming, fmt.Sprintf("Starts in %d days", days)
	case now.Before(endOfDay):
		return model.AnnouncementOngoing, statusOngoing
	default:
		return model.AnnouncementEnded, statusEnded
	}
}

// calendarDays counts the days from one calendar date to another, ignoring
// the length of days in between.
func calendarDays(from, to model.Date) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
