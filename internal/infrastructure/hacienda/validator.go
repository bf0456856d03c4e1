package hacienda

import (
	"context"
	"errors"

	"github.com/facturasv/dte-api/internal/application/billing"
)

// errInvalidCredentials lo devuelve authenticate cuando el MH rechaza usuario
// o contraseña; no es un fallo de transporte.
var errInvalidCredentials = errors.New("credenciales inválidas")

var _ billing.CredentialValidator = (*Validator)(nil)

// Validator valida credenciales contra el MH y el material de firma contra el
// firmador, sin transmitir ningún documento.
type Validator struct {
	client   *Client
	firmador *Firmador
}

// NewValidator construye el validador con ambos clientes.
func NewValidator(client *Client, firmador *Firmador) *Validator {
	return &Validator{client: client, firmador: firmador}
}

// ValidateCredentials intenta autenticarse en el ambiente de las credenciales:
// rechazo explícito devuelve (false, nil); un fallo de red devuelve error.
func (v *Validator) ValidateCredentials(ctx context.Context, creds billing.Credentials) (bool, error) {
	_, err := v.client.authenticate(ctx, creds)
	if err != nil {
		if errors.Is(err, errInvalidCredentials) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ValidateSigningCertificate pide al firmador firmar una sonda mínima con el
// certificado del NIT. Si la firma sale, el material es utilizable.
func (v *Validator) ValidateSigningCertificate(ctx context.Context, nit, certificateKey string) (bool, error) {
	sonda := map[string]string{"nit": nit}
	if _, err := v.firmador.sign(ctx, nit, certificateKey, sonda); err != nil {
		if errors.Is(err, errMaterialRejected) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
