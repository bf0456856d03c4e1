package repository

import (
	"context"

	"github.com/facturasv/dte-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia de facturas y sus líneas.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error

	// Update persiste estado de transmisión e identificadores tributarios:
	// status, codigo_generacion, numero_control, sello_recibido, observaciones,
	// contingency_id y totales no cambian fuera de este método.
	Update(ctx context.Context, invoice *entity.Invoice) error

	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Invoice, error)

	// MaxControlNumber devuelve el correlativo más alto ya asignado para
	// (empresa, tipoDte), 0 si no existe ninguno. Los números de documentos
	// anulados cuentan: un correlativo nunca se reutiliza.
	MaxControlNumber(ctx context.Context, companyID, tipoDte string) (int64, error)
}
