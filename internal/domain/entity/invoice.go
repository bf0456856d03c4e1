package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de transmisión a Hacienda.
// El estado solo avanza: NUEVO -> TRANSMITIENDO -> PROCESADO, con regreso a
// NUEVO únicamente ante fallo recuperable. ANULADO solo es alcanzable desde
// PROCESADO, cuando una nota de crédito/débito referida queda PROCESADA.
const (
	StatusNew          = "NUEVO"
	StatusTransmitting = "TRANSMITIENDO"
	StatusCompleted    = "PROCESADO"
	StatusVoided       = "ANULADO"
)

// Invoice representa la cabecera de un documento de venta (factura, CCF, nota
// de crédito/débito o factura de sujeto excluido).
//
// CodigoGeneracion y NumeroControl se asignan una sola vez, de forma perezosa
// en el primer intento de transmisión, y nunca se mutan después: un reintento
// reutiliza los identificadores ya asignados.
type Invoice struct {
	ID         string
	CompanyID  string
	CustomerID string
	TipoDte    string // ver pkg/dte: "01", "03", "05", "06", "14"
	Number     string // número interno legible (no es el numeroControl)
	Date       time.Time
	Status     string

	CodigoGeneracion string // UUID v4 en mayúsculas, único global
	NumeroControl    string // correlativo de ancho fijo por (empresa, tipoDte)
	SelloRecibido    string // sello de recepción devuelto por Hacienda
	Observaciones    string // observaciones del último rechazo (JSON o texto)

	// Referencia al documento original; solo notas de crédito/débito.
	RelatedID               string
	RelatedCodigoGeneracion string
	RelatedTipoDte          string
	RelatedDate             time.Time

	// ContingencyID referencia el evento de contingencia bajo el que se emitió
	// el documento, si aplica.
	ContingencyID string

	NetTotal   decimal.Decimal // gravado sin IVA
	TaxTotal   decimal.Decimal // IVA
	RetTotal   decimal.Decimal // retención (IVA 1% o renta 10%)
	GrandTotal decimal.Decimal // total de la operación
	TotalPagar decimal.Decimal // total − retenciones

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsNote indica si la factura es una nota de crédito o débito.
func (i *Invoice) IsNote() bool {
	return i.TipoDte == "05" || i.TipoDte == "06"
}

// HasIdentifiers indica si el documento ya tiene asignados sus identificadores
// tributarios.
func (i *Invoice) HasIdentifiers() bool {
	return i.CodigoGeneracion != "" && i.NumeroControl != ""
}

// InvoiceItem representa una línea del documento. LineTotal = Quantity × UnitPrice
// redondeado a 2 decimales; los precios son IVA incluido.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}
