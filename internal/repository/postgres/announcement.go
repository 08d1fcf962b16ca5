package postgres

import (
	"context"
	"fmt"

	"github.com/jwalitptl/meditrack/internal/model"
	"github.com/jwalitptl/meditrack/internal/repository"
)

type announcementRepository struct {
	BaseRepository
}

func NewAnnouncementRepository(base BaseRepository) repository.AnnouncementRepository {
	return &announcementRepository{base}
}

func (r *announcementRepository) ListActive(ctx context.Context, today model.Date) ([]*model.Announcement, error) {
	query := `
		SELECT id, title, COALESCE(description, '') AS description,
			start_date, end_date, is_active, created_at
		FROM announcements
		WHERE is_active = TRUE AND end_date >= $1
		ORDER BY start_date ASC, created_at DESC
	`

	announcements := []*model.Announcement{}
	if err := r.db.SelectContext(ctx, &announcements, query, today); err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	return announcements, nil
}
