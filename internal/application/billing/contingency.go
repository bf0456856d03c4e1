package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/facturasv/dte-api/internal/application/dto"
	"github.com/facturasv/dte-api/internal/domain"
	"github.com/facturasv/dte-api/internal/domain/entity"
	"github.com/facturasv/dte-api/internal/domain/repository"
	"github.com/facturasv/dte-api/pkg/logger"
	pkgdte "github.com/facturasv/dte-api/pkg/dte"
)

// ProgressFunc recibe el avance del reenvío del lote: done de total.
type ProgressFunc func(done, total int)

// ContingencyUseCase reconcilia un lote emitido fuera de línea: declara el
// evento de contingencia ante Hacienda y reenvía cada documento en secuencia.
//
// El orden es estricto: primero todos los documentos reciben identificadores y
// quedan persistidos, después se declara el evento, y solo con la declaración
// sellada empieza el reenvío individual. Un rechazo de la declaración aborta
// el lote completo; un fallo individual durante el reenvío nunca detiene a los
// demás documentos.
type ContingencyUseCase struct {
	invoiceRepo     repository.InvoiceRepository
	companyRepo     repository.CompanyRepository
	contingencyRepo repository.ContingencyRepository

	allocator *Allocator
	declarer  ContingencyDeclarer
	sync      *SyncUseCase

	log         *logger.Logger
	replayDelay time.Duration
}

// NewContingencyUseCase construye el caso de uso. replayDelay es la pausa fija
// entre reenvíos consecutivos.
func NewContingencyUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	contingencyRepo repository.ContingencyRepository,
	allocator *Allocator,
	declarer ContingencyDeclarer,
	sync *SyncUseCase,
	log *logger.Logger,
	replayDelay time.Duration,
) *ContingencyUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if replayDelay <= 0 {
		replayDelay = 2 * time.Second
	}
	return &ContingencyUseCase{
		invoiceRepo:     invoiceRepo,
		companyRepo:     companyRepo,
		contingencyRepo: contingencyRepo,
		allocator:       allocator,
		declarer:        declarer,
		sync:            sync,
		log:             log.Named("contingency"),
		replayDelay:     replayDelay,
	}
}

// Submit declara el evento y reenvía el lote. progress es opcional.
//
// La cancelación del contexto se respeta entre documentos, nunca a mitad de un
// envío en vuelo; los contadores acumulados quedan persistidos en el evento.
func (c *ContingencyUseCase) Submit(ctx context.Context, companyID string, req dto.SubmitContingencyRequest, progress ProgressFunc) (*dto.ContingencyOutcomeResponse, error) {
	start, end, err := parseWindow(req.Start, req.End)
	if err != nil {
		return nil, err
	}
	if err := pkgdte.ValidateDUI(req.ResponsableDUI); err != nil {
		return nil, domain.NewValidationError("responsable_dui")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, domain.NewValidationError("reason")
	}
	if len(req.InvoiceIDs) == 0 {
		return nil, domain.NewValidationError("invoice_ids")
	}

	company, err := c.companyRepo.GetByID(ctx, companyID)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}
	if !company.HasCredentials() {
		return nil, domain.ErrCredentialsNotConfigured
	}
	creds := Credentials{NIT: pkgdte.OnlyDigits(company.NIT), Password: company.APIPassword, Ambiente: company.Ambiente}

	invoices, err := c.collectBatch(ctx, companyID, req.InvoiceIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	event := &entity.ContingencyEvent{
		ID:                uuid.NewString(),
		CompanyID:         companyID,
		Start:             start,
		End:               end,
		Tipo:              req.Tipo,
		Reason:            req.Reason,
		ResponsableNombre: req.ResponsableNombre,
		ResponsableDUI:    req.ResponsableDUI,
		CodigoGeneracion:  strings.ToUpper(uuid.NewString()),
		Total:             len(invoices),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := c.contingencyRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	// Todos los documentos del lote se numeran y persisten antes de declarar:
	// la declaración lleva los códigos de generación definitivos.
	codigos := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		inv.ContingencyID = event.ID
		_, codigo, err := c.allocator.Allocate(ctx, inv, company)
		if err != nil {
			return nil, err
		}
		// La asignación ignora documentos ya numerados, así que el vínculo con
		// el evento se persiste aparte; el reenvío relee la fila desde cero.
		inv.UpdatedAt = time.Now()
		if err := c.invoiceRepo.Update(ctx, inv); err != nil {
			return nil, fmt.Errorf("vincular documento al evento: %w", err)
		}
		codigos = append(codigos, codigo)
	}

	sello, err := c.declarer.Declare(ctx, event, codigos, creds)
	if err != nil {
		event.Declared = false
		event.UpdatedAt = time.Now()
		if uerr := c.contingencyRepo.Update(ctx, event); uerr != nil {
			c.log.Error().Err(uerr).Str("event_id", event.ID).Msg("no se pudo persistir el evento rechazado")
		}
		return nil, fmt.Errorf("declaración de contingencia: %w", err)
	}
	event.Declared = true
	event.SelloRecibido = sello
	event.UpdatedAt = time.Now()
	if err := c.contingencyRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	c.log.Info().
		Str("event_id", event.ID).
		Str("sello", sello).
		Int("total", event.Total).
		Msg("contingencia declarada")

	// Reenvío secuencial con pausa fija; un documento fallido no detiene a los
	// siguientes.
	for i, inv := range invoices {
		if ctx.Err() != nil {
			c.persistCounters(event)
			return nil, ctx.Err()
		}
		if i > 0 {
			time.Sleep(c.replayDelay)
		}

		if _, err := c.sync.SyncInContingency(ctx, inv.ID, event); err != nil {
			event.Failed++
			c.log.Warn().Err(err).
				Str("event_id", event.ID).
				Str("invoice_id", inv.ID).
				Msg("reenvío de documento en contingencia fallido")
		} else {
			event.Succeeded++
		}
		if progress != nil {
			progress(i+1, event.Total)
		}
	}

	c.persistCounters(event)
	return &dto.ContingencyOutcomeResponse{
		EventID:   event.ID,
		Declared:  event.Declared,
		Succeeded: event.Succeeded,
		Failed:    event.Failed,
		Total:     event.Total,
	}, nil
}

// Get devuelve un evento de contingencia de la empresa.
func (c *ContingencyUseCase) Get(ctx context.Context, companyID, eventID string) (*entity.ContingencyEvent, error) {
	event, err := c.contingencyRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil || event.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return event, nil
}

// List pagina los eventos de la empresa.
func (c *ContingencyUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) ([]*entity.ContingencyEvent, error) {
	return c.contingencyRepo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
}

// collectBatch carga y valida la selección: cada documento debe existir,
// pertenecer a la empresa y estar NUEVO.
func (c *ContingencyUseCase) collectBatch(ctx context.Context, companyID string, ids []string) ([]*entity.Invoice, error) {
	invoices := make([]*entity.Invoice, 0, len(ids))
	for _, id := range ids {
		inv, err := c.invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if inv == nil || inv.CompanyID != companyID {
			return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
		}
		if inv.Status != entity.StatusNew {
			return nil, fmt.Errorf("%w: la factura %s no está en estado NUEVO", domain.ErrConflict, id)
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

func (c *ContingencyUseCase) persistCounters(event *entity.ContingencyEvent) {
	event.UpdatedAt = time.Now()
	// Persistencia con contexto propio: los contadores no se pierden aunque el
	// contexto del lote ya esté cancelado.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.contingencyRepo.Update(ctx, event); err != nil {
		c.log.Error().Err(err).Str("event_id", event.ID).Msg("no se pudieron persistir los contadores del lote")
	}
}

func parseWindow(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := parseFlexibleTime(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewValidationError("start")
	}
	end, err := parseFlexibleTime(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewValidationError("end")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, domain.NewValidationError("end: anterior al inicio")
	}
	return start, end, nil
}

func parseFlexibleTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
