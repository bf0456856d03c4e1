// Package dte contiene catálogos y validaciones alineados a la normativa de
// Documentos Tributarios Electrónicos del Ministerio de Hacienda de El Salvador
// (Ley de Facturación Electrónica, catálogos CAT-002 y siguientes).
package dte

// =============================================================================
// CAT-002 - Tipos de Documento Tributario Electrónico
// =============================================================================

const (
	TipoFactura        = "01" // Factura (consumidor final)
	TipoCCF            = "03" // Comprobante de Crédito Fiscal
	TipoNotaCredito    = "05" // Nota de Crédito electrónica
	TipoNotaDebito     = "06" // Nota de Débito electrónica
	TipoSujetoExcluido = "14" // Factura de Sujeto Excluido
)

// ValidTipoDte tipos de DTE soportados por el motor.
var ValidTipoDte = map[string]bool{
	TipoFactura:        true,
	TipoCCF:            true,
	TipoNotaCredito:    true,
	TipoNotaDebito:     true,
	TipoSujetoExcluido: true,
}

// SchemaVersion devuelve la versión de esquema JSON que exige Hacienda por tipo
// de DTE: los documentos de crédito fiscal (CCF y notas) usan el esquema v3,
// factura y sujeto excluido el v1.
func SchemaVersion(tipoDte string) int {
	switch tipoDte {
	case TipoCCF, TipoNotaCredito, TipoNotaDebito:
		return 3
	default:
		return 1
	}
}

// IsNota indica si el tipo referencia a un documento original (nota de crédito o débito).
func IsNota(tipoDte string) bool {
	return tipoDte == TipoNotaCredito || tipoDte == TipoNotaDebito
}

// =============================================================================
// CAT-001 - Ambiente de destino
// =============================================================================

const (
	AmbientePruebas    = "00" // Pruebas / certificación
	AmbienteProduccion = "01" // Producción
)

// =============================================================================
// Estados de recepción devueltos por el servicio recepciondte
// =============================================================================

const (
	EstadoProcesado = "PROCESADO" // Único literal de aceptación
	EstadoRechazado = "RECHAZADO"
)

// =============================================================================
// CAT-005 / CAT-006 - Tributos y condición de la operación
// =============================================================================

const (
	TributoIVA = "20" // IVA 13% (código de tributo en cuerpoDocumento)

	CondicionContado = 1
	CondicionCredito = 2
)

// =============================================================================
// CAT-003 - Tipos de contingencia
// =============================================================================

const (
	ContingenciaFallaMH        = 1 // No disponibilidad del sistema del MH
	ContingenciaFallaEmisor    = 2 // Falla en el sistema del emisor
	ContingenciaFallaConexion  = 3 // Falla en el suministro de internet
	ContingenciaFallaEnergia   = 4 // Falla en el suministro de energía
	ContingenciaOtro           = 5 // Otro motivo (requiere detalle)
)

// =============================================================================
// CAT-022 - Tipos de documento de identificación del receptor
// =============================================================================

const (
	DocTipoNIT   = "36" // NIT
	DocTipoDUI   = "13" // Documento Único de Identidad
	DocTipoOtro  = "37" // Otro
	DocTipoPasap = "03" // Pasaporte
)
