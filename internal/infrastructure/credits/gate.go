// Package credits implementa el colaborador externo de créditos de emisión.
// El servicio responde si la empresa tiene saldo para emitir; este adaptador
// lo consume como un sí/no sin interpretar montos.
package credits

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/facturasv/dte-api/internal/application/billing"
	"github.com/facturasv/dte-api/pkg/config"
)

var _ billing.CreditGate = (*Gate)(nil)

// Gate consulta el servicio de créditos por HTTP.
type Gate struct {
	http *resty.Client
}

// NewGate construye el adaptador; devuelve nil si no hay URL configurada
// (la verificación queda desactivada y toda emisión se permite).
func NewGate(cfg config.CreditsConfig) *Gate {
	if cfg.URL == "" {
		return nil
	}
	client := resty.New().
		SetBaseURL(cfg.URL).
		SetTimeout(cfg.Timeout)
	return &Gate{http: client}
}

type balanceResponse struct {
	Allowed bool `json:"allowed"`
}

// Allows consulta el saldo de emisión de la empresa. Un error de red se
// devuelve tal cual: el caller decide si tratarlo como denegación.
func (g *Gate) Allows(ctx context.Context, companyID string) (bool, error) {
	var out balanceResponse
	resp, err := g.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/balance/%s", companyID))
	if err != nil {
		return false, fmt.Errorf("consultar créditos: %w", err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("consultar créditos: HTTP %d", resp.StatusCode())
	}
	return out.Allowed, nil
}
