package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/facturasv/dte-api/internal/domain/entity"
	"github.com/facturasv/dte-api/internal/domain/repository"
)

var _ repository.ContingencyRepository = (*ContingencyRepo)(nil)

// ContingencyRepo implementación del puerto ContingencyRepository sobre PostgreSQL.
type ContingencyRepo struct {
	q Querier
}

// NewContingencyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContingencyRepository(q Querier) *ContingencyRepo {
	return &ContingencyRepo{q: q}
}

const selectContingency = `
	SELECT id, company_id, start_at, end_at, tipo, reason,
	       responsable_nombre, responsable_dui,
	       codigo_generacion, sello_recibido,
	       declared, succeeded, failed, total,
	       created_at, updated_at
	FROM contingency_events`

// Create persiste el evento recién armado, aún sin declarar.
func (r *ContingencyRepo) Create(ctx context.Context, event *entity.ContingencyEvent) error {
	query := `
		INSERT INTO contingency_events (id, company_id, start_at, end_at, tipo, reason,
		                                responsable_nombre, responsable_dui,
		                                codigo_generacion, sello_recibido,
		                                declared, succeeded, failed, total,
		                                created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		event.ID, event.CompanyID, event.Start, event.End, event.Tipo, event.Reason,
		event.ResponsableNombre, event.ResponsableDUI,
		event.CodigoGeneracion, nullIfEmpty(event.SelloRecibido),
		event.Declared, event.Succeeded, event.Failed, event.Total,
		event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contingency event: %w", err)
	}
	return nil
}

// Update persiste el resultado de la declaración y los contadores del reenvío.
func (r *ContingencyRepo) Update(ctx context.Context, event *entity.ContingencyEvent) error {
	query := `
		UPDATE contingency_events
		SET sello_recibido = COALESCE($2, sello_recibido),
		    declared = $3, succeeded = $4, failed = $5, total = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		event.ID, nullIfEmpty(event.SelloRecibido),
		event.Declared, event.Succeeded, event.Failed, event.Total, event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update contingency event: %w", err)
	}
	return nil
}

// GetByID obtiene un evento; nil si no existe.
func (r *ContingencyRepo) GetByID(ctx context.Context, id string) (*entity.ContingencyEvent, error) {
	event, err := scanContingency(r.q.QueryRow(ctx, selectContingency+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contingency event: %w", err)
	}
	return event, nil
}

// ListByCompany pagina los eventos de una empresa, más reciente primero.
func (r *ContingencyRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.ContingencyEvent, error) {
	query := selectContingency + ` WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contingency events: %w", err)
	}
	defer rows.Close()
	var list []*entity.ContingencyEvent
	for rows.Next() {
		event, err := scanContingency(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contingency event: %w", err)
		}
		list = append(list, event)
	}
	return list, rows.Err()
}

func scanContingency(row pgxScanner) (*entity.ContingencyEvent, error) {
	var e entity.ContingencyEvent
	var sello *string
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.Start, &e.End, &e.Tipo, &e.Reason,
		&e.ResponsableNombre, &e.ResponsableDUI,
		&e.CodigoGeneracion, &sello,
		&e.Declared, &e.Succeeded, &e.Failed, &e.Total,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.SelloRecibido = derefStr(sello)
	return &e, nil
}
