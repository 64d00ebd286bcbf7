package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
)

// OfficerRepository handles persistence for vetting officers.
type OfficerRepository interface {
	Create(ctx context.Context, officer *domain.VettingOfficer) error
	GetByID(ctx context.Context, id string) (*domain.VettingOfficer, error)
	GetByEmail(ctx context.Context, email string) (*domain.VettingOfficer, error)
	List(ctx context.Context, filter OfficerFilter) ([]domain.VettingOfficer, error)
}

// OfficerFilter defines query params for officer listing.
type OfficerFilter struct {
	CompanyID   *string
	AccessLevel *domain.AccessLevel
	Active      *bool
	Limit       int
	Offset      int
}

type officerRepository struct {
	db DBTX
}

// NewOfficerRepository instantiates the repository.
func NewOfficerRepository(db DBTX) OfficerRepository {
	return &officerRepository{db: db}
}

const officerColumns = `id, vetting_company_id, email, first_name, last_name, access_level, clearance_level, specializations, is_active, created_at, updated_at`

func (r *officerRepository) Create(ctx context.Context, officer *domain.VettingOfficer) error {
	const query = `
        INSERT INTO vetting_officers (id, vetting_company_id, email, first_name, last_name, access_level, clearance_level, specializations, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		officer.ID,
		officer.VettingCompanyID,
		strings.ToLower(officer.Email),
		officer.FirstName,
		officer.LastName,
		officer.AccessLevel,
		officer.ClearanceLevel,
		officer.Specializations,
		officer.IsActive,
	).Scan(&officer.CreatedAt, &officer.UpdatedAt)
	return mapUniqueViolation(err)
}

func (r *officerRepository) GetByID(ctx context.Context, id string) (*domain.VettingOfficer, error) {
	return r.fetchSingle(ctx, `SELECT `+officerColumns+` FROM vetting_officers WHERE id=$1`, id)
}

func (r *officerRepository) GetByEmail(ctx context.Context, email string) (*domain.VettingOfficer, error) {
	return r.fetchSingle(ctx, `SELECT `+officerColumns+` FROM vetting_officers WHERE email=$1`, strings.ToLower(email))
}

func (r *officerRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.VettingOfficer, error) {
	officer, err := scanOfficer(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return officer, nil
}

func (r *officerRepository) List(ctx context.Context, filter OfficerFilter) ([]domain.VettingOfficer, error) {
	query := `SELECT ` + officerColumns + ` FROM vetting_officers`
	args := []any{}
	clauses := []string{}

	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		clauses = append(clauses, fmt.Sprintf("vetting_company_id=$%d", len(args)))
	}
	if filter.AccessLevel != nil {
		args = append(args, *filter.AccessLevel)
		clauses = append(clauses, fmt.Sprintf("access_level=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("is_active=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY last_name ASC, first_name ASC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.VettingOfficer
	for rows.Next() {
		officer, err := scanOfficer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *officer)
	}
	return result, rows.Err()
}

func scanOfficer(row pgx.Row) (*domain.VettingOfficer, error) {
	var o domain.VettingOfficer
	if err := row.Scan(
		&o.ID,
		&o.VettingCompanyID,
		&o.Email,
		&o.FirstName,
		&o.LastName,
		&o.AccessLevel,
		&o.ClearanceLevel,
		&o.Specializations,
		&o.IsActive,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}
