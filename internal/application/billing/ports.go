// Package billing contiene los casos de uso del ciclo de vida del DTE:
// construcción del documento, asignación de identificadores, máquina de
// estados de transmisión, notas relacionadas y contingencia.
package billing

import (
	"context"

	"github.com/facturasv/dte-api/internal/domain/dte"
	"github.com/facturasv/dte-api/internal/domain/entity"
	"github.com/facturasv/dte-api/internal/domain/repository"
)

// Credentials credenciales de la empresa ante Hacienda. Opacas para este
// núcleo: se pasan a los colaboradores tal cual. Ambiente viaja junto a las
// credenciales porque es atributo de la empresa, no del proceso: decide contra
// qué ambiente del MH se autentica y declara.
type Credentials struct {
	NIT      string
	Password string
	Ambiente string
}

// TransmitResult respuesta del servicio de recepción. Estado usa el literal de
// Hacienda ("PROCESADO" es el único de aceptación); las observaciones se
// conservan intactas para mostrarlas al usuario.
type TransmitResult struct {
	Estado           string
	SelloRecibido    string
	CodigoGeneracion string
	Observaciones    []string
}

// CredentialValidator valida credenciales y certificado contra Hacienda.
// El resultado positivo se cachea un tiempo acotado en el caso de uso de
// sincronización para no validar en cada documento.
type CredentialValidator interface {
	ValidateCredentials(ctx context.Context, creds Credentials) (bool, error)
	ValidateSigningCertificate(ctx context.Context, nit, certificateKey string) (bool, error)
}

// Signer capacidad remota de firma: recibe el documento y devuelve el JWS
// compacto listo para transmitir. La primitiva criptográfica no vive aquí.
type Signer interface {
	Sign(ctx context.Context, nit, certificateKey string, doc *dte.Document) (string, error)
}

// Transmitter entrega del documento firmado al servicio de recepción. Llamada
// de red bloqueante, sin reintentos internos: el caller decide si reintenta.
// Un error de la llamada es de transporte; un rechazo viene en el resultado.
type Transmitter interface {
	Transmit(ctx context.Context, signed string, ident dte.Identificacion, creds Credentials) (*TransmitResult, error)
}

// ContingencyDeclarer declara el evento de contingencia con los códigos de
// generación amparados. Devuelve el sello del evento; un rechazo de la
// declaración aborta todo el lote aguas arriba.
type ContingencyDeclarer interface {
	Declare(ctx context.Context, event *entity.ContingencyEvent, codigosGeneracion []string, creds Credentials) (sello string, err error)
}

// ArchivalRenderer genera la representación gráfica (PDF) del documento para
// el respaldo.
type ArchivalRenderer interface {
	Render(doc *dte.Document, company *entity.Company, customer *entity.Customer) ([]byte, error)
}

// ArchivalUploader respaldo de la representación gráfica: fire-and-forget, sus
// fallos se registran y nunca bloquean la máquina de estados.
type ArchivalUploader interface {
	Upload(ctx context.Context, rendered []byte, numeroControl string) error
}

// CreditGate colaborador de créditos de emisión; se consume como sí/no.
// La denegación no se reintenta automáticamente.
type CreditGate interface {
	Allows(ctx context.Context, companyID string) (bool, error)
}

// TxRunner ejecuta una función con repositorios atados a una misma transacción.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}
