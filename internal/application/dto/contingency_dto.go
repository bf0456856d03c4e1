package dto

// SubmitContingencyRequest petición de declaración de contingencia y reenvío
// del lote. El DUI del responsable debe tener exactamente 9 dígitos.
type SubmitContingencyRequest struct {
	Start             string   `json:"start" validate:"required"` // RFC 3339 o YYYY-MM-DD
	End               string   `json:"end" validate:"required"`
	Tipo              int      `json:"tipo" validate:"required,min=1,max=5"`
	Reason            string   `json:"reason" validate:"required"`
	ResponsableNombre string   `json:"responsable_nombre" validate:"required"`
	ResponsableDUI    string   `json:"responsable_dui" validate:"required,len=9,numeric"`
	InvoiceIDs        []string `json:"invoice_ids" validate:"required,min=1"`
}

// ContingencyEventResponse evento de contingencia en respuestas.
type ContingencyEventResponse struct {
	ID                string `json:"id"`
	CompanyID         string `json:"company_id"`
	Start             string `json:"start"`
	End               string `json:"end"`
	Tipo              int    `json:"tipo"`
	Reason            string `json:"reason"`
	ResponsableNombre string `json:"responsable_nombre"`
	ResponsableDUI    string `json:"responsable_dui"`
	CodigoGeneracion  string `json:"codigo_generacion"`
	SelloRecibido     string `json:"sello_recibido,omitempty"`
	Declared          bool   `json:"declared"`
	Succeeded         int    `json:"succeeded"`
	Failed            int    `json:"failed"`
	Total             int    `json:"total"`
}

// ContingencyOutcomeResponse resultado agregado del lote.
type ContingencyOutcomeResponse struct {
	EventID   string `json:"event_id"`
	Declared  bool   `json:"declared"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Total     int    `json:"total"`
}
