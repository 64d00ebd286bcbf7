package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
)

// ApplicationScope restricts which applications a caller may see.
// A zero scope matches every application.
type ApplicationScope struct {
	CompanyID *string
	OfficerID *string
}

// ApplicationFilter captures listing parameters. Scope is applied before the user filters.
type ApplicationFilter struct {
	Scope      ApplicationScope
	Statuses   []domain.ApplicationStatus
	UserTypes  []domain.ApplicantType
	Priorities []domain.PriorityLevel
	Tiers      []domain.VettingTier
	CompanyID  *string
	OfficerID  *string
	Limit      int
	Offset     int
}

// ApplicationRepository encapsulates vetting application persistence.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.VettingApplication) error
	Update(ctx context.Context, app *domain.VettingApplication) error
	GetByID(ctx context.Context, id string) (*domain.VettingApplication, error)
	List(ctx context.Context, filter ApplicationFilter) ([]domain.VettingApplication, error)
	Count(ctx context.Context, filter ApplicationFilter) (int, error)
}

type applicationRepository struct {
	db DBTX
}

// NewApplicationRepository instantiates repository.
func NewApplicationRepository(db DBTX) ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `id, applicant_email, applicant_name, user_type, sub_type, vetting_tier, priority_level,
               current_status, assigned_company_id, primary_officer_id, secondary_officer_id, submitted_at,
               estimated_completion_date, actual_completion_date, admin_notes, updated_at, version`

// priorityOrder reproduces domain.PriorityLevel.Rank in SQL.
const priorityOrder = `CASE priority_level WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'standard' THEN 2 WHEN 'low' THEN 1 ELSE 0 END`

func (r *applicationRepository) Create(ctx context.Context, app *domain.VettingApplication) error {
	const query = `
        INSERT INTO vetting_applications (id, applicant_email, applicant_name, user_type, sub_type, vetting_tier,
            priority_level, current_status, assigned_company_id, primary_officer_id, secondary_officer_id,
            submitted_at, estimated_completion_date, actual_completion_date, admin_notes, updated_at, version)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`
	_, err := r.db.Exec(ctx, query,
		app.ID,
		app.ApplicantEmail,
		app.ApplicantName,
		app.UserType,
		app.SubType,
		app.VettingTier,
		app.PriorityLevel,
		app.CurrentStatus,
		app.AssignedCompanyID,
		app.PrimaryOfficerID,
		app.SecondaryOfficerID,
		app.SubmittedAt,
		app.EstimatedCompletionDate,
		app.ActualCompletionDate,
		app.AdminNotes,
		app.UpdatedAt,
		app.Version,
	)
	return mapUniqueViolation(err)
}

// Update writes app if its version still matches and bumps the version.
func (r *applicationRepository) Update(ctx context.Context, app *domain.VettingApplication) error {
	const query = `
        UPDATE vetting_applications SET priority_level=$1, current_status=$2, assigned_company_id=$3,
            primary_officer_id=$4, secondary_officer_id=$5, estimated_completion_date=$6,
            actual_completion_date=$7, admin_notes=$8, updated_at=$9, version=version+1
        WHERE id=$10 AND version=$11`
	cmd, err := r.db.Exec(ctx, query,
		app.PriorityLevel,
		app.CurrentStatus,
		app.AssignedCompanyID,
		app.PrimaryOfficerID,
		app.SecondaryOfficerID,
		app.EstimatedCompletionDate,
		app.ActualCompletionDate,
		app.AdminNotes,
		app.UpdatedAt,
		app.ID,
		app.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, app.ID); err != nil {
			return err
		}
		return ErrVersionConflict
	}
	app.Version++
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.VettingApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM vetting_applications WHERE id=$1`
	app, err := scanApplication(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return app, nil
}

func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]domain.VettingApplication, error) {
	where, args := buildApplicationWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM vetting_applications WHERE %s ORDER BY %s DESC, submitted_at DESC, id ASC`,
		applicationColumns, where, priorityOrder)
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.VettingApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *app)
	}
	return result, rows.Err()
}

func (r *applicationRepository) Count(ctx context.Context, filter ApplicationFilter) (int, error) {
	where, args := buildApplicationWhere(filter)
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vetting_applications WHERE `+where, args...).Scan(&total)
	return total, err
}

func buildApplicationWhere(filter ApplicationFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Scope.CompanyID != nil {
		args = append(args, *filter.Scope.CompanyID)
		clauses = append(clauses, fmt.Sprintf("assigned_company_id=$%d", len(args)))
	}
	if filter.Scope.OfficerID != nil {
		args = append(args, *filter.Scope.OfficerID)
		clauses = append(clauses, fmt.Sprintf("(primary_officer_id=$%d OR secondary_officer_id=$%d)", len(args), len(args)))
	}
	if len(filter.Statuses) > 0 {
		clauses = append(clauses, inClause("current_status", toAny(filter.Statuses), &args))
	}
	if len(filter.UserTypes) > 0 {
		clauses = append(clauses, inClause("user_type", toAny(filter.UserTypes), &args))
	}
	if len(filter.Priorities) > 0 {
		clauses = append(clauses, inClause("priority_level", toAny(filter.Priorities), &args))
	}
	if len(filter.Tiers) > 0 {
		clauses = append(clauses, inClause("vetting_tier", toAny(filter.Tiers), &args))
	}
	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		clauses = append(clauses, fmt.Sprintf("assigned_company_id=$%d", len(args)))
	}
	if filter.OfficerID != nil {
		args = append(args, *filter.OfficerID)
		clauses = append(clauses, fmt.Sprintf("(primary_officer_id=$%d OR secondary_officer_id=$%d)", len(args), len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func inClause(column string, values []any, args *[]any) string {
	placeholders := make([]string, len(values))
	for i, v := range values {
		*args = append(*args, v)
		placeholders[i] = fmt.Sprintf("$%d", len(*args))
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ","))
}

func toAny[T ~string](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func scanApplication(row pgx.Row) (*domain.VettingApplication, error) {
	var app domain.VettingApplication
	if err := row.Scan(
		&app.ID,
		&app.ApplicantEmail,
		&app.ApplicantName,
		&app.UserType,
		&app.SubType,
		&app.VettingTier,
		&app.PriorityLevel,
		&app.CurrentStatus,
		&app.AssignedCompanyID,
		&app.PrimaryOfficerID,
		&app.SecondaryOfficerID,
		&app.SubmittedAt,
		&app.EstimatedCompletionDate,
		&app.ActualCompletionDate,
		&app.AdminNotes,
		&app.UpdatedAt,
		&app.Version,
	); err != nil {
		return nil, err
	}
	return &app, nil
}
