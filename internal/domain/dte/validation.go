package dte

import (
	"github.com/shopspring/decimal"

	"github.com/facturasv/dte-api/internal/domain"
	"github.com/facturasv/dte-api/internal/domain/entity"
	pkgdte "github.com/facturasv/dte-api/pkg/dte"
)

// Campos exigibles del receptor, por tipo de DTE. La presencia se valida contra
// esta tabla, no con chequeos ad hoc por llamada: un CCF o una nota exigen NIT
// y NRC del receptor; la factura a consumidor final solo el nombre; el sujeto
// excluido no tiene NIT estándar pero sí documento de identidad.
type receiverRules struct {
	TaxID bool // NIT (o DUI homologado)
	NRC   bool
	DUI   bool // documento alterno para sujeto excluido
}

var receiverRequirements = map[string]receiverRules{
	pkgdte.TipoFactura:        {},
	pkgdte.TipoCCF:            {TaxID: true, NRC: true},
	pkgdte.TipoNotaCredito:    {TaxID: true, NRC: true},
	pkgdte.TipoNotaDebito:     {TaxID: true, NRC: true},
	pkgdte.TipoSujetoExcluido: {DUI: true},
}

// ValidateParties valida los campos obligatorios de emisor y receptor para el
// tipo de DTE dado. Devuelve *domain.ValidationError con todos los campos
// ausentes, nunca solo el primero.
func ValidateParties(tipoDte string, company *entity.Company, customer *entity.Customer) error {
	var missing []string

	if !pkgdte.ValidTipoDte[tipoDte] {
		missing = append(missing, "tipoDte")
	}

	// El emisor siempre exige identidad tributaria completa.
	if company == nil {
		missing = append(missing, "emisor")
	} else {
		if company.NIT == "" {
			missing = append(missing, "emisor.nit")
		}
		if company.NRC == "" {
			missing = append(missing, "emisor.nrc")
		}
		if company.Actividad == "" {
			missing = append(missing, "emisor.codActividad")
		}
		if company.Address == "" {
			missing = append(missing, "emisor.direccion")
		}
		if company.Name == "" {
			missing = append(missing, "emisor.nombre")
		}
	}

	rules := receiverRequirements[tipoDte]
	if customer == nil {
		missing = append(missing, "receptor")
	} else {
		if customer.Name == "" {
			missing = append(missing, "receptor.nombre")
		}
		if rules.TaxID && customer.NIT == "" {
			missing = append(missing, "receptor.nit")
		}
		if rules.NRC && customer.NRC == "" {
			missing = append(missing, "receptor.nrc")
		}
		if rules.DUI && customer.DUI == "" && customer.NIT == "" {
			missing = append(missing, "receptor.numDocumento")
		}
	}

	if len(missing) > 0 {
		return domain.NewValidationError(missing...)
	}
	return nil
}

// ValidateNoteBound verifica que el total de una nota de crédito/débito no
// exceda el total del documento original. Excederlo es error de validación,
// nunca un recorte silencioso.
func ValidateNoteBound(noteTotal, originalTotal decimal.Decimal) error {
	if noteTotal.GreaterThan(originalTotal) {
		return domain.NewValidationError("total: la nota excede el total del documento original")
	}
	return nil
}

// ValidateItems valida que las líneas existan y tengan cantidades y precios
// coherentes antes de transmitir.
func ValidateItems(items []*entity.InvoiceItem) error {
	if len(items) == 0 {
		return domain.NewValidationError("cuerpoDocumento: se requiere al menos una línea")
	}
	var bad []string
	for _, it := range items {
		if !it.Quantity.GreaterThan(decimal.Zero) {
			bad = append(bad, "cantidad")
		}
		if it.UnitPrice.IsNegative() {
			bad = append(bad, "precioUni")
		}
		if it.Description == "" {
			bad = append(bad, "descripcion")
		}
	}
	if len(bad) > 0 {
		return domain.NewValidationError(bad...)
	}
	return nil
}
