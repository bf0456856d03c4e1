package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/facturasv/dte-api/internal/application/dto"
	"github.com/facturasv/dte-api/internal/domain"
	"github.com/facturasv/dte-api/internal/domain/dte"
	"github.com/facturasv/dte-api/internal/domain/entity"
	"github.com/facturasv/dte-api/internal/domain/repository"
	"github.com/facturasv/dte-api/pkg/logger"
	pkgdte "github.com/facturasv/dte-api/pkg/dte"
)

// InvoiceUseCase alta y consulta de documentos. La creación es puramente
// local: el documento nace NUEVO, sin identificadores tributarios, y se
// transmite después con SyncUseCase.
type InvoiceUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	tx           TxRunner
	log          *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso de facturas.
func NewInvoiceUseCase(invoiceRepo repository.InvoiceRepository, customerRepo repository.CustomerRepository, tx TxRunner, log *logger.Logger) *InvoiceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceUseCase{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		tx:           tx,
		log:          log.Named("invoices"),
	}
}

// Create crea el documento con sus líneas y totales en una sola transacción.
// Las notas de crédito/débito no se crean por aquí: ver NotesUseCase.
func (u *InvoiceUseCase) Create(ctx context.Context, companyID string, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if req.TipoDte == pkgdte.TipoNotaCredito || req.TipoDte == pkgdte.TipoNotaDebito {
		return nil, domain.NewValidationError("tipo_dte: las notas se crean referenciando un original")
	}

	customer, err := u.customerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:         uuid.NewString(),
		CompanyID:  companyID,
		CustomerID: customer.ID,
		TipoDte:    req.TipoDte,
		Number:     req.Number,
		Date:       now,
		Status:     entity.StatusNew,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	items := make([]*entity.InvoiceItem, 0, len(req.Items))
	for _, line := range req.Items {
		items = append(items, &entity.InvoiceItem{
			ID:          uuid.NewString(),
			InvoiceID:   inv.ID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   dte.ComputeLineTotal(line.Quantity, line.UnitPrice),
		})
	}
	if err := dte.ValidateItems(items); err != nil {
		return nil, err
	}

	summary, err := dte.ComputeSummary(inv.TipoDte, items, customer.GranContribuyente)
	if err != nil {
		return nil, err
	}
	inv.NetTotal = summary.Subtotal
	inv.TaxTotal = summary.IVA
	inv.RetTotal = summary.IvaRete1.Add(summary.ReteRenta)
	inv.GrandTotal = summary.Total
	inv.TotalPagar = summary.Pagar

	err = u.tx.RunBilling(ctx, func(repo repository.InvoiceRepository) error {
		if err := repo.Create(ctx, inv); err != nil {
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

	u.log.Info().
		Str("invoice_id", inv.ID).
		Str("tipo_dte", inv.TipoDte).
		Str("total", inv.GrandTotal.StringFixed(2)).
		Msg("documento creado")
	return invoiceResponse(inv, items), nil
}

// Get devuelve el documento con sus líneas.
func (u *InvoiceUseCase) Get(ctx context.Context, companyID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := u.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	items, err := u.invoiceRepo.GetItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	return invoiceResponse(inv, items), nil
}

// List pagina los documentos de la empresa, sin líneas.
func (u *InvoiceUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) ([]*dto.InvoiceResponse, error) {
	invoices, err := u.invoiceRepo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, invoiceResponse(inv, nil))
	}
	return out, nil
}

func invoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:               inv.ID,
		CompanyID:        inv.CompanyID,
		CustomerID:       inv.CustomerID,
		TipoDte:          inv.TipoDte,
		Number:           inv.Number,
		Date:             inv.Date.Format("2006-01-02"),
		Status:           inv.Status,
		CodigoGeneracion: inv.CodigoGeneracion,
		NumeroControl:    inv.NumeroControl,
		SelloRecibido:    inv.SelloRecibido,
		NetTotal:         inv.NetTotal,
		TaxTotal:         inv.TaxTotal,
		RetTotal:         inv.RetTotal,
		GrandTotal:       inv.GrandTotal,
		TotalPagar:       inv.TotalPagar,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return resp
}
