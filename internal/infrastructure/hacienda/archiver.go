package hacienda

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/facturasv/dte-api/internal/application/billing"
	"github.com/facturasv/dte-api/pkg/config"
)

var _ billing.ArchivalUploader = (*Archiver)(nil)

// Archiver sube la representación gráfica al servicio de respaldo configurado.
type Archiver struct {
	http *resty.Client
	url  string
}

// NewArchiver construye el adaptador; devuelve nil si no hay URL configurada
// (el respaldo queda desactivado).
func NewArchiver(cfg config.ArchiveConfig) *Archiver {
	if cfg.URL == "" {
		return nil
	}
	return &Archiver{http: resty.New(), url: cfg.URL}
}

// Upload sube el PDF identificado por el número de control.
func (a *Archiver) Upload(ctx context.Context, rendered []byte, numeroControl string) error {
	resp, err := a.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/pdf").
		SetBody(rendered).
		Put(fmt.Sprintf("%s/%s.pdf", a.url, numeroControl))
	if err != nil {
		return fmt.Errorf("subir respaldo: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("subir respaldo: HTTP %d", resp.StatusCode())
	}
	return nil
}
