package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/facturasv/dte-api/internal/domain/entity"
	"github.com/facturasv/dte-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación del puerto CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const selectCustomer = `
	SELECT id, company_id, name, nit, dui, nrc, address, phone, email,
	       gran_contribuyente, created_at, updated_at
	FROM customers`

// Create persiste un receptor.
func (r *CustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, company_id, name, nit, dui, nrc, address, phone, email,
		                       gran_contribuyente, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		customer.ID, customer.CompanyID, customer.Name,
		nullIfEmpty(customer.NIT), nullIfEmpty(customer.DUI), nullIfEmpty(customer.NRC),
		nullIfEmpty(customer.Address), nullIfEmpty(customer.Phone), nullIfEmpty(customer.Email),
		customer.GranContribuyente, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un receptor; nil si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	customer, err := scanCustomer(r.q.QueryRow(ctx, selectCustomer+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return customer, nil
}

// Update actualiza los datos del receptor.
func (r *CustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, nit = $3, dui = $4, nrc = $5, address = $6, phone = $7, email = $8,
		    gran_contribuyente = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		customer.ID, customer.Name,
		nullIfEmpty(customer.NIT), nullIfEmpty(customer.DUI), nullIfEmpty(customer.NRC),
		nullIfEmpty(customer.Address), nullIfEmpty(customer.Phone), nullIfEmpty(customer.Email),
		customer.GranContribuyente, customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// ListByCompany pagina los receptores de una empresa por nombre.
func (r *CustomerRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Customer, error) {
	query := selectCustomer + ` WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, customer)
	}
	return list, rows.Err()
}

func scanCustomer(row pgxScanner) (*entity.Customer, error) {
	var c entity.Customer
	var nit, dui, nrc, address, phone, email *string
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Name, &nit, &dui, &nrc, &address, &phone, &email,
		&c.GranContribuyente, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.NIT = derefStr(nit)
	c.DUI = derefStr(dui)
	c.NRC = derefStr(nrc)
	c.Address = derefStr(address)
	c.Phone = derefStr(phone)
	c.Email = derefStr(email)
	return &c, nil
}
