package postgres

import (
	"context"
	"fmt"

	"github.com/jwalitptl/meditrack/internal/model"
	"github.com/jwalitptl/meditrack/internal/repository"
)

type medicineRepository struct {
	BaseRepository
}

func NewMedicineRepository(base BaseRepository) repository.MedicineRepository {
	return &medicineRepository{base}
}

func (r *medicineRepository) Get(ctx context.Context, id int64) (*model.Medicine, error) {
	query := `
		SELECT m.id, m.name, COALESCE(m.description, '') AS description,
			COALESCE(SUM(b.quantity_available), 0) AS quantity_available
		FROM medicines m
		LEFT JOIN medicine_batches b ON b.medicine_id = m.id AND b.quantity_available > 0
		WHERE m.id = $1
		GROUP BY m.id, m.name, m.description
	`

	var medicine model.Medicine
	if err := r.db.GetContext(ctx, &medicine, query, id); err != nil {
		return nil, fmt.Errorf("failed to get medicine: %w", notFound(err))
	}
	return &medicine, nil
}

func (r *medicineRepository) ListAvailable(ctx context.Context) ([]*model.Medicine, error) {
	query := `
		SELECT m.id, m.name, COALESCE(m.description, '') AS description,
			SUM(b.quantity_available) AS quantity_available
		FROM medicines m
		JOIN medicine_batches b ON b.medicine_id = m.id
		WHERE b.quantity_available > 0
		GROUP BY m.id, m.name, m.description
		ORDER BY m.name
	`

	medicines := []*model.Medicine{}
	if err := r.db.SelectContext(ctx, &medicines, query); err != nil {
		return nil, fmt.Errorf("failed to list available medicines: %w", err)
	}
	return medicines, nil
}

// CountAvailable counts distinct medicines with at least one batch in stock.
func (r *medicineRepository) CountAvailable(ctx context.Context) (int64, error) {
	query := `
		SELECT COUNT(DISTINCT m.id)
		FROM medicines m
		JOIN medicine_batches b ON b.medicine_id = m.id
		WHERE b.quantity_available > 0
	`

	var count int64
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count available medicines: %w", err)
	}
	return count, nil
}
