package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/facturasv/dte-api/internal/domain/entity"
	"github.com/facturasv/dte-api/internal/domain/repository"
	pkgdte "github.com/facturasv/dte-api/pkg/dte"
)

// Allocator asigna los identificadores tributarios del documento: el código de
// generación (UUID v4 en mayúsculas, único global) y el número de control
// (correlativo de ancho fijo por empresa y tipo de DTE, estrictamente creciente,
// que nunca se reutiliza aunque el documento se anule después).
//
// Precondición: un solo escritor por (empresa, tipoDte). La estrategia
// leer-máximo-e-incrementar no resuelve numeración concurrente entre réplicas;
// si dos procesos asignan a la vez pueden chocar en el mismo correlativo y el
// conflicto lo detecta recién el índice único de la base o el rechazo remoto
// (ErrNumberingConflict). Una implementación centralizada puede sustituir a
// esta detrás del mismo método sin tocar a los callers.
type Allocator struct {
	invoiceRepo repository.InvoiceRepository
}

// NewAllocator construye el asignador.
func NewAllocator(invoiceRepo repository.InvoiceRepository) *Allocator {
	return &Allocator{invoiceRepo: invoiceRepo}
}

// Allocate asigna y persiste numeroControl y codigoGeneracion si faltan.
// Idempotente: si la factura ya los tiene, los devuelve sin cambios.
func (a *Allocator) Allocate(ctx context.Context, inv *entity.Invoice, company *entity.Company) (numeroControl, codigoGeneracion string, err error) {
	if inv.HasIdentifiers() {
		return inv.NumeroControl, inv.CodigoGeneracion, nil
	}

	if inv.NumeroControl == "" {
		max, err := a.invoiceRepo.MaxControlNumber(ctx, company.ID, inv.TipoDte)
		if err != nil {
			return "", "", fmt.Errorf("consultar último correlativo: %w", err)
		}
		formatted, err := pkgdte.FormatControlNumber(max + 1)
		if err != nil {
			return "", "", err
		}
		inv.NumeroControl = formatted
	}
	if inv.CodigoGeneracion == "" {
		inv.CodigoGeneracion = strings.ToUpper(uuid.New().String())
	}

	inv.UpdatedAt = time.Now()
	if err := a.invoiceRepo.Update(ctx, inv); err != nil {
		return "", "", fmt.Errorf("persistir identificadores: %w", err)
	}
	return inv.NumeroControl, inv.CodigoGeneracion, nil
}
