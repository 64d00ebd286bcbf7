package repository

import (
	"context"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
)

// ApplicationHistoryRepository stores audit entries.
type ApplicationHistoryRepository interface {
	Create(ctx context.Context, history *domain.ApplicationHistory) error
	ListByApplication(ctx context.Context, applicationID string) ([]domain.ApplicationHistory, error)
}

type applicationHistoryRepository struct {
	db DBTX
}

// NewApplicationHistoryRepository builds repository.
func NewApplicationHistoryRepository(db DBTX) ApplicationHistoryRepository {
	return &applicationHistoryRepository{db: db}
}

func (r *applicationHistoryRepository) Create(ctx context.Context, history *domain.ApplicationHistory) error {
	const query = `
        INSERT INTO application_history (id, application_id, changed_by_type, changed_by_id, change_type, old_value, new_value, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.db.Exec(ctx, query,
		history.ID,
		history.ApplicationID,
		history.ChangedByType,
		history.ChangedByID,
		history.ChangeType,
		history.OldValue,
		history.NewValue,
		history.CreatedAt,
	)
	return err
}

func (r *applicationHistoryRepository) ListByApplication(ctx context.Context, applicationID string) ([]domain.ApplicationHistory, error) {
	const query = `
        SELECT id, application_id, changed_by_type, changed_by_id, change_type, old_value, new_value, created_at
        FROM application_history WHERE application_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.db.Query(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ApplicationHistory
	for rows.Next() {
		var history domain.ApplicationHistory
		if err := rows.Scan(
			&history.ID,
			&history.ApplicationID,
			&history.ChangedByType,
			&history.ChangedByID,
			&history.ChangeType,
			&history.OldValue,
			&history.NewValue,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}
