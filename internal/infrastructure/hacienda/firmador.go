package hacienda

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/facturasv/dte-api/internal/application/billing"
	"github.com/facturasv/dte-api/internal/domain/dte"
	"github.com/facturasv/dte-api/pkg/config"
)

// errMaterialRejected el firmador respondió pero no aceptó el documento o el
// material de firma; distinto de un fallo de transporte.
var errMaterialRejected = errors.New("firmador rechazó el documento")

var _ billing.Signer = (*Firmador)(nil)

// Firmador cliente del servicio local de firma. El material criptográfico vive
// en el firmador; este adaptador solo le entrega el documento y la clave.
type Firmador struct {
	http *resty.Client
	url  string
}

// NewFirmador construye el cliente del firmador.
func NewFirmador(cfg config.FirmadorConfig) *Firmador {
	return &Firmador{
		http: resty.New().SetTimeout(cfg.Timeout),
		url:  cfg.URL,
	}
}

// Sign firma el documento y devuelve el JWS compacto.
func (f *Firmador) Sign(ctx context.Context, nit, certificateKey string, doc *dte.Document) (string, error) {
	return f.sign(ctx, nit, certificateKey, doc)
}

func (f *Firmador) sign(ctx context.Context, nit, certificateKey string, payload any) (string, error) {
	req := firmadorRequest{
		NIT:         nit,
		Activo:      true,
		PasswordPri: certificateKey,
		DTEJson:     payload,
	}
	var out firmadorResponse
	resp, err := f.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&out).
		Post(f.url)
	if err != nil {
		return "", fmt.Errorf("firmador: %w", err)
	}
	if resp.IsError() || out.Status != "OK" || out.Body == "" {
		return "", fmt.Errorf("%w (status %s)", errMaterialRejected, out.Status)
	}
	return out.Body, nil
}
