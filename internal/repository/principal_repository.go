package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
)

// PrincipalFilter narrows directory lookups.
type PrincipalFilter struct {
	Role    *domain.Role
	SubType *domain.SubType
	Active  *bool
	Limit   int
	Offset  int
}

// PrincipalRepository defines persistence access for the identity directory.
type PrincipalRepository interface {
	Create(ctx context.Context, principal *domain.Principal) error
	GetByID(ctx context.Context, id string) (*domain.Principal, error)
	GetByEmail(ctx context.Context, email string) (*domain.Principal, error)
	List(ctx context.Context, filter PrincipalFilter) ([]domain.Principal, error)
}

// PermissionRepository stores the principal permission table.
type PermissionRepository interface {
	Grant(ctx context.Context, grant *domain.PermissionGrant) error
	ListByPrincipal(ctx context.Context, principalID string) ([]string, error)
}

type principalRepository struct {
	db DBTX
}

// NewPrincipalRepository returns a Postgres-backed implementation.
func NewPrincipalRepository(db DBTX) PrincipalRepository {
	return &principalRepository{db: db}
}

const principalColumns = `id, email, display_name, role, sub_type, password_hash, is_active, profile, created_at, updated_at`

func (r *principalRepository) Create(ctx context.Context, principal *domain.Principal) error {
	const query = `
        INSERT INTO principals (id, email, display_name, role, sub_type, password_hash, is_active, profile)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		principal.ID,
		strings.ToLower(principal.Email),
		principal.DisplayName,
		principal.Role,
		principal.SubType,
		principal.PasswordHash,
		principal.IsActive,
		principal.Profile,
	).Scan(&principal.CreatedAt, &principal.UpdatedAt)
	return mapUniqueViolation(err)
}

func (r *principalRepository) GetByID(ctx context.Context, id string) (*domain.Principal, error) {
	return r.fetchSingle(ctx, `SELECT `+principalColumns+` FROM principals WHERE id=$1`, id)
}

func (r *principalRepository) GetByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	return r.fetchSingle(ctx, `SELECT `+principalColumns+` FROM principals WHERE email=$1`, strings.ToLower(email))
}

func (r *principalRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Principal, error) {
	var p domain.Principal
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&p.ID,
		&p.Email,
		&p.DisplayName,
		&p.Role,
		&p.SubType,
		&p.PasswordHash,
		&p.IsActive,
		&p.Profile,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, mapNoRows(err)
	}
	return &p, nil
}

func (r *principalRepository) List(ctx context.Context, filter PrincipalFilter) ([]domain.Principal, error) {
	query := `SELECT ` + principalColumns + ` FROM principals`
	args := []any{}
	clauses := []string{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.SubType != nil {
		args = append(args, *filter.SubType)
		clauses = append(clauses, fmt.Sprintf("sub_type=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("is_active=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
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

	var result []domain.Principal
	for rows.Next() {
		var p domain.Principal
		if err := rows.Scan(
			&p.ID,
			&p.Email,
			&p.DisplayName,
			&p.Role,
			&p.SubType,
			&p.PasswordHash,
			&p.IsActive,
			&p.Profile,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

type permissionRepository struct {
	db DBTX
}

// NewPermissionRepository returns a Postgres-backed permission table.
func NewPermissionRepository(db DBTX) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) Grant(ctx context.Context, grant *domain.PermissionGrant) error {
	const query = `
        INSERT INTO principal_permissions (principal_id, permission)
        VALUES ($1,$2)
        ON CONFLICT (principal_id, permission) DO NOTHING`
	_, err := r.db.Exec(ctx, query, grant.PrincipalID, grant.Permission)
	return err
}

func (r *permissionRepository) ListByPrincipal(ctx context.Context, principalID string) ([]string, error) {
	const query = `SELECT permission FROM principal_permissions WHERE principal_id=$1 ORDER BY permission`
	rows, err := r.db.Query(ctx, query, principalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []string
	for rows.Next() {
		var perm string
		if err := rows.Scan(&perm); err != nil {
			return nil, err
		}
		perms = append(perms, perm)
	}
	return perms, rows.Err()
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
