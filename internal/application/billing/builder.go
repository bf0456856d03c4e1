package billing

import (
	"github.com/facturasv/dte-api/internal/domain"
	"github.com/facturasv/dte-api/internal/domain/dte"
	"github.com/facturasv/dte-api/internal/domain/entity"
	pkgdte "github.com/facturasv/dte-api/pkg/dte"
)

// DocumentBuilder mapea (factura, empresa, receptor) al esquema DTE de
// Hacienda. Es puro: no persiste ni asigna identificadores; la factura debe
// llegar ya numerada (ver Allocator) o Build falla con error de validación.
type DocumentBuilder struct{}

// NewDocumentBuilder construye el builder.
func NewDocumentBuilder() *DocumentBuilder {
	return &DocumentBuilder{}
}

// BuildInput insumos del mapeo. Original solo aplica a notas de crédito/débito
// (validación de tope). Contingency solo cuando el documento se emitió bajo un
// evento de contingencia.
type BuildInput struct {
	Invoice     *entity.Invoice
	Company     *entity.Company
	Customer    *entity.Customer
	Items       []*entity.InvoiceItem
	Original    *entity.Invoice
	Contingency *entity.ContingencyEvent
}

// Build produce el documento completo o un error de validación. Sin efectos
// secundarios.
func (b *DocumentBuilder) Build(in BuildInput) (*dte.Document, error) {
	inv := in.Invoice
	if inv == nil {
		return nil, domain.NewValidationError("factura")
	}
	if err := dte.ValidateParties(inv.TipoDte, in.Company, in.Customer); err != nil {
		return nil, err
	}
	if err := dte.ValidateItems(in.Items); err != nil {
		return nil, err
	}
	if !inv.HasIdentifiers() {
		return nil, domain.NewValidationError("numeroControl", "codigoGeneracion")
	}

	summary, err := dte.ComputeSummary(inv.TipoDte, in.Items, in.Customer.GranContribuyente)
	if err != nil {
		return nil, err
	}

	if inv.IsNote() {
		if in.Original == nil {
			return nil, domain.NewValidationError("documentoRelacionado")
		}
		if err := dte.ValidateNoteBound(summary.Total, in.Original.GrandTotal); err != nil {
			return nil, err
		}
	}

	doc := &dte.Document{
		Identificacion: b.identificacion(inv, in.Company, in.Contingency),
		Emisor:         b.emisor(in.Company),
		Receptor:       b.receptor(in.Customer),
		CuerpoDocumento: b.cuerpo(inv.TipoDte, in.Items),
		Resumen: dte.Resumen{
			SubTotal:           summary.Subtotal,
			TotalIva:           summary.IVA,
			IvaRete1:           summary.IvaRete1,
			ReteRenta:          summary.ReteRenta,
			MontoTotal:         summary.Total,
			TotalPagar:         summary.Pagar,
			TotalLetras:        summary.Letras,
			CondicionOperacion: pkgdte.CondicionContado,
		},
	}

	if inv.IsNote() {
		doc.DocumentoRelacionado = &dte.DocumentoRelacionado{
			TipoDocumento:   inv.RelatedTipoDte,
			TipoGeneracion:  2,
			NumeroDocumento: inv.RelatedCodigoGeneracion,
			FechaEmision:    inv.RelatedDate.Format("2006-01-02"),
		}
	}

	return doc, nil
}

func (b *DocumentBuilder) identificacion(inv *entity.Invoice, company *entity.Company, ev *entity.ContingencyEvent) dte.Identificacion {
	ident := dte.Identificacion{
		Version:          pkgdte.SchemaVersion(inv.TipoDte),
		Ambiente:         company.Ambiente,
		TipoDte:          inv.TipoDte,
		NumeroControl:    inv.NumeroControl,
		CodigoGeneracion: inv.CodigoGeneracion,
		FecEmi:           inv.Date.Format("2006-01-02"),
		HorEmi:           inv.Date.Format("15:04:05"),
		TipoMoneda:       "USD",
		TipoOperacion:    1,
	}
	if ev != nil {
		tipo := ev.Tipo
		motivo := ev.Reason
		ident.TipoOperacion = 2
		ident.TipoContingencia = &tipo
		ident.MotivoContin = &motivo
	}
	return ident
}

func (b *DocumentBuilder) emisor(company *entity.Company) dte.Emisor {
	return dte.Emisor{
		NIT:          pkgdte.OnlyDigits(company.NIT),
		NRC:          pkgdte.OnlyDigits(company.NRC),
		Nombre:       pkgdte.NormalizeText(company.Name),
		CodActividad: company.Actividad,
		CodEstable:   company.CodEstable,
		Direccion:    pkgdte.NormalizeText(company.Address),
		Telefono:     company.Phone,
		Correo:       company.Email,
	}
}

func (b *DocumentBuilder) receptor(customer *entity.Customer) *dte.Receptor {
	r := &dte.Receptor{
		Nombre:    pkgdte.NormalizeText(customer.Name),
		Direccion: pkgdte.NormalizeText(customer.Address),
		Telefono:  customer.Phone,
		Correo:    customer.Email,
	}
	switch {
	case customer.NIT != "":
		r.TipoDocumento = pkgdte.DocTipoNIT
		r.NumDocumento = pkgdte.OnlyDigits(customer.NIT)
	case customer.DUI != "":
		r.TipoDocumento = pkgdte.DocTipoDUI
		r.NumDocumento = pkgdte.OnlyDigits(customer.DUI)
	}
	if customer.NRC != "" {
		r.NRC = pkgdte.OnlyDigits(customer.NRC)
	}
	return r
}

func (b *DocumentBuilder) cuerpo(tipoDte string, items []*entity.InvoiceItem) []dte.Linea {
	lineas := make([]dte.Linea, len(items))
	for i, it := range items {
		linea := dte.Linea{
			NumItem:      i + 1,
			Descripcion:  pkgdte.NormalizeText(it.Description),
			Cantidad:     it.Quantity,
			PrecioUni:    it.UnitPrice,
			VentaGravada: dte.ComputeLineTotal(it.Quantity, it.UnitPrice),
		}
		if tipoDte != pkgdte.TipoSujetoExcluido {
			linea.Tributos = []string{pkgdte.TributoIVA}
		}
		lineas[i] = linea
	}
	return lineas
}
