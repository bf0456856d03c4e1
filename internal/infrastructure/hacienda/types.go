// Package hacienda implementa los adaptadores HTTP contra los servicios de
// recepción de DTE del Ministerio de Hacienda y contra el firmador local.
package hacienda

// ── autenticación ─────────────────────────────────────────────────────────────

// authResponse respuesta de /seguridad/auth.
type authResponse struct {
	Status string   `json:"status"`
	Error  string   `json:"error"`
	Body   authBody `json:"body"`
}

type authBody struct {
	Token string `json:"token"`
}

// ── recepción de documentos ───────────────────────────────────────────────────

// receptionRequest cuerpo de /fesv/recepciondte. Documento lleva el DTE firmado (JWS).
type receptionRequest struct {
	Ambiente         string `json:"ambiente"`
	IDEnvio          int    `json:"idEnvio"`
	Version          int    `json:"version"`
	TipoDte          string `json:"tipoDte"`
	CodigoGeneracion string `json:"codigoGeneracion"`
	Documento        string `json:"documento"`
}

// receptionResponse respuesta de /fesv/recepciondte. Estado "PROCESADO" indica
// aceptación; cualquier otro valor es rechazo y Observaciones detalla por qué.
type receptionResponse struct {
	Estado           string   `json:"estado"`
	SelloRecibido    string   `json:"selloRecibido"`
	CodigoGeneracion string   `json:"codigoGeneracion"`
	DescripcionMsg   string   `json:"descripcionMsg"`
	Observaciones    []string `json:"observaciones"`
}

// ── contingencia ──────────────────────────────────────────────────────────────

// contingencyRequest cuerpo de /fesv/contingencia: el evento y los códigos de
// generación de los documentos amparados.
type contingencyRequest struct {
	NIT              string              `json:"nit"`
	CodigoGeneracion string              `json:"codigoGeneracion"`
	FechaInicio      string              `json:"fInicio"`
	HoraInicio       string              `json:"hInicio"`
	FechaFin         string              `json:"fFin"`
	HoraFin          string              `json:"hFin"`
	TipoContingencia int                 `json:"tipoContingencia"`
	MotivoCont       string              `json:"motivoContingencia"`
	NombreResp       string              `json:"nombreResponsable"`
	DUIResp          string              `json:"numDocumentoResponsable"`
	DetalleDTE       []contingencyDetail `json:"detalleDTE"`
}

type contingencyDetail struct {
	NoItem           int    `json:"noItem"`
	CodigoGeneracion string `json:"codigoGeneracion"`
}

// contingencyResponse respuesta de /fesv/contingencia.
type contingencyResponse struct {
	Estado        string   `json:"estado"`
	SelloRecibido string   `json:"selloRecibido"`
	Mensaje       string   `json:"mensaje"`
	Observaciones []string `json:"observaciones"`
}

// ── firmador ──────────────────────────────────────────────────────────────────

// firmadorRequest cuerpo del firmador local: firma dteJson con el certificado
// del NIT usando passwordPri como clave del material.
type firmadorRequest struct {
	NIT         string `json:"nit"`
	Activo      bool   `json:"activo"`
	PasswordPri string `json:"passwordPri"`
	DTEJson     any    `json:"dteJson"`
}

// firmadorResponse respuesta del firmador. Con status OK, Body es el JWS.
type firmadorResponse struct {
	Status string `json:"status"`
	Body   string `json:"body"`
}
