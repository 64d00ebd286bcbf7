package repository

import (
	"context"
	"fmt"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
)

// CompanyRepository handles persistence for vetting companies.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.VettingCompany) error
	GetByID(ctx context.Context, id string) (*domain.VettingCompany, error)
	List(ctx context.Context, activeOnly bool) ([]domain.VettingCompany, error)
}

type companyRepository struct {
	db DBTX
}

// NewCompanyRepository instantiates the repository.
func NewCompanyRepository(db DBTX) CompanyRepository {
	return &companyRepository{db: db}
}

const companyColumns = `id, company_name, license_number, specializations, is_active, contract_start_date, contract_end_date, created_at, updated_at`

func (r *companyRepository) Create(ctx context.Context, company *domain.VettingCompany) error {
	const query = `
        INSERT INTO vetting_companies (id, company_name, license_number, specializations, is_active, contract_start_date, contract_end_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		company.ID,
		company.CompanyName,
		company.LicenseNumber,
		company.Specializations,
		company.IsActive,
		company.ContractStartDate,
		company.ContractEndDate,
	).Scan(&company.CreatedAt, &company.UpdatedAt)
	return mapUniqueViolation(err)
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (*domain.VettingCompany, error) {
	query := `SELECT ` + companyColumns + ` FROM vetting_companies WHERE id=$1`
	var c domain.VettingCompany
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.CompanyName,
		&c.LicenseNumber,
		&c.Specializations,
		&c.IsActive,
		&c.ContractStartDate,
		&c.ContractEndDate,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, mapNoRows(err)
	}
	return &c, nil
}

func (r *companyRepository) List(ctx context.Context, activeOnly bool) ([]domain.VettingCompany, error) {
	query := `SELECT ` + companyColumns + ` FROM vetting_companies`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += fmt.Sprintf(` ORDER BY company_name ASC LIMIT %d`, 1000)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.VettingCompany
	for rows.Next() {
		var c domain.VettingCompany
		if err := rows.Scan(
			&c.ID,
			&c.CompanyName,
			&c.LicenseNumber,
			&c.Specializations,
			&c.IsActive,
			&c.ContractStartDate,
			&c.ContractEndDate,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
