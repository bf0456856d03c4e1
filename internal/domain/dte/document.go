// Package dte modela el Documento Tributario Electrónico (proyección JSON del
// esquema de Hacienda) y las reglas puras de cálculo y validación. Es dominio
// puro: sin persistencia, sin red.
package dte

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Los montos del DTE viajan como números JSON, no como strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Document es la proyección inmutable-una-vez-transmitida de una factura hacia
// el esquema de Hacienda. Se construye completo de una vez (ver el builder en
// application/billing) y no se muta tras la transmisión.
type Document struct {
	Identificacion       Identificacion        `json:"identificacion"`
	DocumentoRelacionado *DocumentoRelacionado `json:"documentoRelacionado,omitempty"`
	Emisor               Emisor                `json:"emisor"`
	Receptor             *Receptor             `json:"receptor,omitempty"`
	CuerpoDocumento      []Linea               `json:"cuerpoDocumento"`
	Resumen              Resumen               `json:"resumen"`
}

// Identificacion bloque de identificación del documento.
type Identificacion struct {
	Version          int     `json:"version"`
	Ambiente         string  `json:"ambiente"` // "00" pruebas, "01" producción
	TipoDte          string  `json:"tipoDte"`
	NumeroControl    string  `json:"numeroControl"`
	CodigoGeneracion string  `json:"codigoGeneracion"`
	FecEmi           string  `json:"fecEmi"` // YYYY-MM-DD
	HorEmi           string  `json:"horEmi"` // HH:MM:SS
	TipoMoneda       string  `json:"tipoMoneda"`
	TipoOperacion    int     `json:"tipoOperacion"`    // 1 = normal, 2 = contingencia
	TipoContingencia *int    `json:"tipoContingencia"` // solo emisión en contingencia
	MotivoContin     *string `json:"motivoContin"`
}

// DocumentoRelacionado referencia al documento original (solo notas).
type DocumentoRelacionado struct {
	TipoDocumento   string `json:"tipoDocumento"`
	TipoGeneracion  int    `json:"tipoGeneracion"` // 2 = electrónico
	NumeroDocumento string `json:"numeroDocumento"` // código de generación del original
	FechaEmision    string `json:"fechaEmision"`
}

// Emisor bloque del emisor.
type Emisor struct {
	NIT               string `json:"nit"`
	NRC               string `json:"nrc"`
	Nombre            string `json:"nombre"`
	CodActividad      string `json:"codActividad"`
	CodEstable        string `json:"codEstable,omitempty"`
	Direccion         string `json:"direccion"`
	Telefono          string `json:"telefono,omitempty"`
	Correo            string `json:"correo,omitempty"`
}

// Receptor bloque del receptor. NumDocumento/NRC son opcionales según el tipo
// de documento (ver tablas de campos obligatorios en validation.go).
type Receptor struct {
	TipoDocumento string `json:"tipoDocumento,omitempty"`
	NumDocumento  string `json:"numDocumento,omitempty"`
	NRC           string `json:"nrc,omitempty"`
	Nombre        string `json:"nombre"`
	Direccion     string `json:"direccion,omitempty"`
	Telefono      string `json:"telefono,omitempty"`
	Correo        string `json:"correo,omitempty"`
}

// Linea línea del cuerpo del documento.
type Linea struct {
	NumItem     int             `json:"numItem"`
	Descripcion string          `json:"descripcion"`
	Cantidad    decimal.Decimal `json:"cantidad"`
	PrecioUni   decimal.Decimal `json:"precioUni"`
	VentaGravada decimal.Decimal `json:"ventaGravada"`
	Tributos    []string        `json:"tributos,omitempty"`
}

// Resumen bloque de totales, impuestos y retenciones.
type Resumen struct {
	SubTotal       decimal.Decimal `json:"subTotal"`       // gravado sin IVA
	TotalIva       decimal.Decimal `json:"totalIva"`       // IVA 13% incluido en los precios
	IvaRete1       decimal.Decimal `json:"ivaRete1"`       // retención 1% (gran contribuyente)
	ReteRenta      decimal.Decimal `json:"reteRenta"`      // retención de renta 10% (sujeto excluido)
	MontoTotal     decimal.Decimal `json:"montoTotalOperacion"`
	TotalPagar     decimal.Decimal `json:"totalPagar"`
	TotalLetras    string          `json:"totalLetras"`
	CondicionOperacion int         `json:"condicionOperacion"` // 1 contado, 2 crédito
}
