package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/facturasv/dte-api/internal/application/dto"
	"github.com/facturasv/dte-api/internal/domain"
	"github.com/facturasv/dte-api/internal/domain/dte"
	"github.com/facturasv/dte-api/internal/domain/entity"
	"github.com/facturasv/dte-api/internal/domain/repository"
	"github.com/facturasv/dte-api/pkg/logger"
)

// NotesUseCase crea notas de crédito/débito sobre un documento original y
// ejecuta la anulación en cascada cuando la nota queda PROCESADA.
type NotesUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	tx           TxRunner
	log          *logger.Logger
}

// NewNotesUseCase construye el caso de uso de notas.
func NewNotesUseCase(invoiceRepo repository.InvoiceRepository, customerRepo repository.CustomerRepository, tx TxRunner, log *logger.Logger) *NotesUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &NotesUseCase{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		tx:           tx,
		log:          log.Named("notes"),
	}
}

// CreateNote crea una nota de crédito (05) o débito (06) que copia por valor
// las líneas del documento original. La nota nace NUEVA y sin identificadores;
// se transmite después con el flujo normal de sincronización.
//
// El original no necesita estar PROCESADO para crear la nota: la referencia al
// código de generación se resuelve al transmitirla. Lo que sí es ilegal es
// anotar sobre otro documento anulado o sobre otra nota.
func (n *NotesUseCase) CreateNote(ctx context.Context, companyID string, req dto.CreateNoteRequest) (*dto.InvoiceResponse, error) {
	original, err := n.invoiceRepo.GetByID(ctx, req.OriginalID)
	if err != nil {
		return nil, err
	}
	if original == nil || original.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if original.IsNote() {
		return nil, fmt.Errorf("%w: no se puede emitir una nota sobre otra nota", domain.ErrInvalidInput)
	}
	if original.Status == entity.StatusVoided {
		return nil, fmt.Errorf("%w: el documento original está anulado", domain.ErrConflict)
	}

	originalItems, err := n.invoiceRepo.GetItems(ctx, original.ID)
	if err != nil {
		return nil, err
	}
	customer, err := n.customerRepo.GetByID(ctx, original.CustomerID)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	note := &entity.Invoice{
		ID:         uuid.NewString(),
		CompanyID:  original.CompanyID,
		CustomerID: original.CustomerID,
		TipoDte:    req.TipoDte,
		Number:     notePrefix(req.TipoDte) + original.Number,
		Date:       now,
		Status:     entity.StatusNew,

		RelatedID:               original.ID,
		RelatedCodigoGeneracion: original.CodigoGeneracion,
		RelatedTipoDte:          original.TipoDte,
		RelatedDate:             original.Date,

		CreatedAt: now,
		UpdatedAt: now,
	}

	// Copia por valor: cambios posteriores en el original no alteran la nota.
	items := make([]*entity.InvoiceItem, 0, len(originalItems))
	for _, it := range originalItems {
		items = append(items, &entity.InvoiceItem{
			ID:          uuid.NewString(),
			InvoiceID:   note.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   dte.ComputeLineTotal(it.Quantity, it.UnitPrice),
		})
	}

	summary, err := dte.ComputeSummary(note.TipoDte, items, customer.GranContribuyente)
	if err != nil {
		return nil, err
	}
	note.NetTotal = summary.Subtotal
	note.TaxTotal = summary.IVA
	note.RetTotal = summary.IvaRete1.Add(summary.ReteRenta)
	note.GrandTotal = summary.Total
	note.TotalPagar = summary.Pagar

	err = n.tx.RunBilling(ctx, func(repo repository.InvoiceRepository) error {
		if err := repo.Create(ctx, note); err != nil {
			return err
		}
		for _, it := range items {
			if err := repo.CreateItem(ctx, it); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	n.log.Info().
		Str("note_id", note.ID).
		Str("original_id", original.ID).
		Str("tipo_dte", note.TipoDte).
		Msg("nota creada")
	return invoiceResponse(note, items), nil
}

// VoidOriginal marca ANULADO el documento original referido por la nota. Solo
// es legal cuando la nota ya está PROCESADA; la transición del original pasa
// por la misma máquina de estados que la transmisión (PROCESADO -> ANULADO).
// Si el original ya estaba anulado la operación es idempotente.
func (n *NotesUseCase) VoidOriginal(ctx context.Context, note *entity.Invoice) error {
	if !note.IsNote() {
		return fmt.Errorf("%w: el documento no es una nota", domain.ErrInvalidInput)
	}
	if note.Status != entity.StatusCompleted {
		return fmt.Errorf("%w: la nota aún no está procesada", domain.ErrConflict)
	}

	original, err := n.invoiceRepo.GetByID(ctx, note.RelatedID)
	if err != nil {
		return err
	}
	if original == nil {
		return fmt.Errorf("%w: original %s de la nota %s", domain.ErrNotFound, note.RelatedID, note.ID)
	}
	if original.Status == entity.StatusVoided {
		return nil
	}

	machine := newTransmissionMachine(original.Status)
	if err := machine.Fire(triggerVoid); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	original.Status = entity.StatusVoided
	original.UpdatedAt = time.Now()
	if err := n.invoiceRepo.Update(ctx, original); err != nil {
		return err
	}

	n.log.Info().
		Str("original_id", original.ID).
		Str("note_id", note.ID).
		Msg("documento original anulado por nota")
	return nil
}

func notePrefix(tipoDte string) string {
	if tipoDte == "06" {
		return "ND-"
	}
	return "NC-"
}
