package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
)

// TaskFilter captures verification task listing parameters.
type TaskFilter struct {
	ApplicationID *string
	OfficerID     *string
	Statuses      []domain.TaskStatus
	Types         []domain.TaskType
}

// TaskRepository encapsulates verification task persistence.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.VerificationTask) error
	Update(ctx context.Context, task *domain.VerificationTask) error
	GetByID(ctx context.Context, id string) (*domain.VerificationTask, error)
	ListByApplication(ctx context.Context, applicationID string) ([]domain.VerificationTask, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.VerificationTask, error)
}

type taskRepository struct {
	db DBTX
}

// NewTaskRepository instantiates repository.
func NewTaskRepository(db DBTX) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, application_id, task_type, assigned_officer_id, status, priority, result, findings,
               required_documents, documents_received, notes, started_at, completed_at, due_date,
               created_at, updated_at, version`

func (r *taskRepository) Create(ctx context.Context, task *domain.VerificationTask) error {
	const query = `
        INSERT INTO verification_tasks (id, application_id, task_type, assigned_officer_id, status, priority, result,
            findings, required_documents, documents_received, notes, started_at, completed_at, due_date,
            created_at, updated_at, version)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`
	_, err := r.db.Exec(ctx, query,
		task.ID,
		task.ApplicationID,
		task.TaskType,
		task.AssignedOfficerID,
		task.Status,
		task.Priority,
		task.Result,
		task.Findings,
		task.RequiredDocuments,
		task.DocumentsReceived,
		task.Notes,
		task.StartedAt,
		task.CompletedAt,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
		task.Version,
	)
	return mapUniqueViolation(err)
}

// Update writes task if its version still matches and bumps the version.
func (r *taskRepository) Update(ctx context.Context, task *domain.VerificationTask) error {
	const query = `
        UPDATE verification_tasks SET assigned_officer_id=$1, status=$2, priority=$3, result=$4, findings=$5,
            required_documents=$6, documents_received=$7, notes=$8, started_at=$9, completed_at=$10,
            due_date=$11, updated_at=$12, version=version+1
        WHERE id=$13 AND version=$14`
	cmd, err := r.db.Exec(ctx, query,
		task.AssignedOfficerID,
		task.Status,
		task.Priority,
		task.Result,
		task.Findings,
		task.RequiredDocuments,
		task.DocumentsReceived,
		task.Notes,
		task.StartedAt,
		task.CompletedAt,
		task.DueDate,
		task.UpdatedAt,
		task.ID,
		task.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, task.ID); err != nil {
			return err
		}
		return ErrVersionConflict
	}
	task.Version++
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.VerificationTask, error) {
	query := `SELECT ` + taskColumns + ` FROM verification_tasks WHERE id=$1`
	task, err := scanTask(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return task, nil
}

func (r *taskRepository) ListByApplication(ctx context.Context, applicationID string) ([]domain.VerificationTask, error) {
	return r.List(ctx, TaskFilter{ApplicationID: &applicationID})
}

func (r *taskRepository) List(ctx context.Context, filter TaskFilter) ([]domain.VerificationTask, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ApplicationID != nil {
		args = append(args, *filter.ApplicationID)
		clauses = append(clauses, fmt.Sprintf("application_id=$%d", len(args)))
	}
	if filter.OfficerID != nil {
		args = append(args, *filter.OfficerID)
		clauses = append(clauses, fmt.Sprintf("assigned_officer_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		clauses = append(clauses, inClause("status", toAny(filter.Statuses), &args))
	}
	if len(filter.Types) > 0 {
		clauses = append(clauses, inClause("task_type", toAny(filter.Types), &args))
	}

	query := fmt.Sprintf(`SELECT %s FROM verification_tasks WHERE %s ORDER BY created_at ASC, id ASC`,
		taskColumns, strings.Join(clauses, " AND "))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.VerificationTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *task)
	}
	return result, rows.Err()
}

func scanTask(row pgx.Row) (*domain.VerificationTask, error) {
	var task domain.VerificationTask
	if err := row.Scan(
		&task.ID,
		&task.ApplicationID,
		&task.TaskType,
		&task.AssignedOfficerID,
		&task.Status,
		&task.Priority,
		&task.Result,
		&task.Findings,
		&task.RequiredDocuments,
		&task.DocumentsReceived,
		&task.Notes,
		&task.StartedAt,
		&task.CompletedAt,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.Version,
	); err != nil {
		return nil, err
	}
	return &task, nil
}
