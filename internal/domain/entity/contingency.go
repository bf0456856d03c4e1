package entity

import "time"

// ContingencyEvent representa un evento de contingencia declarado ante Hacienda:
// una ventana de tiempo durante la cual se emitieron documentos sin transmisión
// en línea, que luego se reconcilian (declaración del lote + reenvío individual).
type ContingencyEvent struct {
	ID        string
	CompanyID string

	Start  time.Time
	End    time.Time
	Tipo   int    // motivo catalogado, ver pkg/dte Contingencia*
	Reason string // detalle del motivo

	ResponsableNombre string
	ResponsableDUI    string // exactamente 9 dígitos

	// CodigoGeneracion identifica el evento mismo; los documentos amparados se
	// referencian por sus propios códigos de generación.
	CodigoGeneracion string
	SelloRecibido    string

	Declared  bool
	Succeeded int
	Failed    int
	Total     int

	CreatedAt time.Time
	UpdatedAt time.Time
}
