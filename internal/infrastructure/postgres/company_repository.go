package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/facturasv/dte-api/internal/domain/entity"
	"github.com/facturasv/dte-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const selectCompany = `
	SELECT id, name, nit, nrc, actividad, cod_estable, ambiente,
	       api_password, certificate_key,
	       address, phone, email, status, created_at, updated_at
	FROM companies`

// Create persiste una nueva empresa emisora.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, nit, nrc, actividad, cod_estable, ambiente,
		                       api_password, certificate_key,
		                       address, phone, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		company.ID, company.Name, company.NIT, company.NRC, company.Actividad,
		nullIfEmpty(company.CodEstable), company.Ambiente,
		nullIfEmpty(company.APIPassword), nullIfEmpty(company.CertificateKey),
		nullIfEmpty(company.Address), nullIfEmpty(company.Phone), nullIfEmpty(company.Email),
		company.Status, company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("el NIT ya está registrado: %w", err)
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa; nil si no existe.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	company, err := scanCompany(r.q.QueryRow(ctx, selectCompany+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return company, nil
}

// Update actualiza datos generales y credenciales.
func (r *CompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	query := `
		UPDATE companies
		SET name = $2, nit = $3, nrc = $4, actividad = $5, cod_estable = $6, ambiente = $7,
		    api_password = $8, certificate_key = $9,
		    address = $10, phone = $11, email = $12, status = $13, updated_at = $14
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		company.ID, company.Name, company.NIT, company.NRC, company.Actividad,
		nullIfEmpty(company.CodEstable), company.Ambiente,
		nullIfEmpty(company.APIPassword), nullIfEmpty(company.CertificateKey),
		nullIfEmpty(company.Address), nullIfEmpty(company.Phone), nullIfEmpty(company.Email),
		company.Status, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// List pagina las empresas registradas.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	rows, err := r.q.Query(ctx, selectCompany+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, company)
	}
	return list, rows.Err()
}

func scanCompany(row pgxScanner) (*entity.Company, error) {
	var c entity.Company
	var codEstable, apiPassword, certificateKey, address, phone, email *string
	err := row.Scan(
		&c.ID, &c.Name, &c.NIT, &c.NRC, &c.Actividad, &codEstable, &c.Ambiente,
		&apiPassword, &certificateKey,
		&address, &phone, &email, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.CodEstable = derefStr(codEstable)
	c.APIPassword = derefStr(apiPassword)
	c.CertificateKey = derefStr(certificateKey)
	c.Address = derefStr(address)
	c.Phone = derefStr(phone)
	c.Email = derefStr(email)
	return &c, nil
}
