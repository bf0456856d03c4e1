package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/facturasv/dte-api/internal/domain/entity"
	"github.com/facturasv/dte-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera del documento.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, company_id, customer_id, tipo_dte, number, date, status,
		                      codigo_generacion, numero_control, sello_recibido, observaciones,
		                      related_id, related_codigo_generacion, related_tipo_dte, related_date,
		                      contingency_id,
		                      net_total, tax_total, ret_total, grand_total, total_pagar,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID, inv.CustomerID, inv.TipoDte, inv.Number, inv.Date, inv.Status,
		nullIfEmpty(inv.CodigoGeneracion), nullIfEmpty(inv.NumeroControl),
		nullIfEmpty(inv.SelloRecibido), nullIfEmpty(inv.Observaciones),
		nullIfEmpty(inv.RelatedID), nullIfEmpty(inv.RelatedCodigoGeneracion),
		nullIfEmpty(inv.RelatedTipoDte), inv.RelatedDate,
		nullIfEmpty(inv.ContingencyID),
		inv.NetTotal, inv.TaxTotal, inv.RetTotal, inv.GrandTotal, inv.TotalPagar,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("documento duplicado: %w", err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea del documento.
func (r *InvoiceRepo) CreateItem(ctx context.Context, item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.InvoiceID, item.Description, item.Quantity, item.UnitPrice, item.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// Update persiste estado de transmisión, identificadores y referencias. El
// índice único sobre (company_id, tipo_dte, numero_control) convierte una
// asignación concurrente del mismo correlativo en violación 23505.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET status                    = $2,
		    codigo_generacion         = COALESCE($3, codigo_generacion),
		    numero_control            = COALESCE($4, numero_control),
		    sello_recibido            = COALESCE($5, sello_recibido),
		    observaciones             = $6,
		    related_codigo_generacion = COALESCE($7, related_codigo_generacion),
		    related_tipo_dte          = COALESCE($8, related_tipo_dte),
		    related_date              = $9,
		    contingency_id            = COALESCE($10, contingency_id),
		    updated_at                = $11
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		inv.ID,
		inv.Status,
		nullIfEmpty(inv.CodigoGeneracion),
		nullIfEmpty(inv.NumeroControl),
		nullIfEmpty(inv.SelloRecibido),
		nullIfEmpty(inv.Observaciones),
		nullIfEmpty(inv.RelatedCodigoGeneracion),
		nullIfEmpty(inv.RelatedTipoDte),
		inv.RelatedDate,
		nullIfEmpty(inv.ContingencyID),
		inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número de control duplicado: %w", err)
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// GetByID obtiene un documento completo por ID; nil si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := selectInvoice + ` WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetItems obtiene todas las líneas del documento.
func (r *InvoiceRepo) GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, description, quantity, unit_price, line_total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ListByCompany pagina los documentos de una empresa, más reciente primero.
func (r *InvoiceRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Invoice, error) {
	query := selectInvoice + ` WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// MaxControlNumber devuelve el correlativo más alto asignado para
// (empresa, tipoDte), 0 si no hay ninguno. Incluye documentos anulados: los
// números nunca se reutilizan.
func (r *InvoiceRepo) MaxControlNumber(ctx context.Context, companyID, tipoDte string) (int64, error) {
	const query = `
		SELECT COALESCE(MAX(numero_control::bigint), 0)
		FROM invoices
		WHERE company_id = $1 AND tipo_dte = $2 AND numero_control IS NOT NULL`
	var max int64
	if err := r.q.QueryRow(ctx, query, companyID, tipoDte).Scan(&max); err != nil {
		return 0, fmt.Errorf("max control number: %w", err)
	}
	return max, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

const selectInvoice = `
	SELECT id, company_id, customer_id, tipo_dte, number, date, status,
	       codigo_generacion, numero_control, sello_recibido, observaciones,
	       related_id, related_codigo_generacion, related_tipo_dte, related_date,
	       contingency_id,
	       net_total, tax_total, ret_total, grand_total, total_pagar,
	       created_at, updated_at
	FROM invoices`

// pgxScanner abstrae pgx.Row y pgx.Rows para reutilizar scanInvoice.
type pgxScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row pgxScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	var codigo, numero, sello, obs, relatedID, relatedCodigo, relatedTipo, contingencyID *string
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.CustomerID, &inv.TipoDte, &inv.Number, &inv.Date, &inv.Status,
		&codigo, &numero, &sello, &obs,
		&relatedID, &relatedCodigo, &relatedTipo, &inv.RelatedDate,
		&contingencyID,
		&inv.NetTotal, &inv.TaxTotal, &inv.RetTotal, &inv.GrandTotal, &inv.TotalPagar,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.CodigoGeneracion = derefStr(codigo)
	inv.NumeroControl = derefStr(numero)
	inv.SelloRecibido = derefStr(sello)
	inv.Observaciones = derefStr(obs)
	inv.RelatedID = derefStr(relatedID)
	inv.RelatedCodigoGeneracion = derefStr(relatedCodigo)
	inv.RelatedTipoDte = derefStr(relatedTipo)
	inv.ContingencyID = derefStr(contingencyID)
	return &inv, nil
}
