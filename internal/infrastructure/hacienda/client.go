package hacienda

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/facturasv/dte-api/internal/application/billing"
	"github.com/facturasv/dte-api/internal/domain/dte"
	"github.com/facturasv/dte-api/internal/domain/entity"
	"github.com/facturasv/dte-api/pkg/config"
	"github.com/facturasv/dte-api/pkg/logger"
	pkgdte "github.com/facturasv/dte-api/pkg/dte"
)

// URLs base por ambiente; MH_BASE_URL las sustituye si está definido.
const (
	baseURLPruebas    = "https://apitest.dtes.mh.gob.sv"
	baseURLProduccion = "https://api.dtes.mh.gob.sv"

	pathAuth         = "/seguridad/auth"
	pathRecepcion    = "/fesv/recepciondte"
	pathContingencia = "/fesv/contingencia"
)

var _ billing.Transmitter = (*Client)(nil)
var _ billing.ContingencyDeclarer = (*Client)(nil)

// Client cliente HTTP contra los servicios de recepción del MH. El token de
// autenticación se cachea por NIT y ambiente hasta su vencimiento. El ambiente
// es por empresa: cada llamada resuelve su URL base según el ambiente de las
// credenciales, cayendo al configurado cuando falta.
type Client struct {
	http     *resty.Client
	ambiente string // ambiente por defecto (MH_AMBIENTE)
	override string // MH_BASE_URL; sustituye la derivación por ambiente
	log      *logger.Logger

	mu     sync.Mutex
	tokens map[string]cachedToken
}

type cachedToken struct {
	value  string
	expiry time.Time
}

// tokenTTL vigencia local del token; el MH lo emite por 24 h, se renueva antes.
const tokenTTL = 12 * time.Hour

// NewClient construye el cliente según la configuración.
func NewClient(cfg config.HaciendaConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "dte-api")

	return &Client{
		http:     httpClient,
		ambiente: cfg.Ambiente,
		override: cfg.BaseURL,
		log:      log.Named("hacienda"),
		tokens:   make(map[string]cachedToken),
	}
}

// resolveAmbiente devuelve el ambiente efectivo: el indicado, o el configurado
// si viene vacío.
func (c *Client) resolveAmbiente(ambiente string) string {
	if ambiente == "" {
		return c.ambiente
	}
	return ambiente
}

// baseURL devuelve la URL base para el ambiente efectivo; MH_BASE_URL la
// sustituye por completo.
func (c *Client) baseURL(ambiente string) string {
	if c.override != "" {
		return c.override
	}
	if c.resolveAmbiente(ambiente) == pkgdte.AmbienteProduccion {
		return baseURLProduccion
	}
	return baseURLPruebas
}

// authenticate obtiene (o reutiliza) el token de acceso para el NIT en el
// ambiente de las credenciales.
func (c *Client) authenticate(ctx context.Context, creds billing.Credentials) (string, error) {
	key := c.resolveAmbiente(creds.Ambiente) + "|" + creds.NIT
	c.mu.Lock()
	cached, ok := c.tokens[key]
	c.mu.Unlock()
	if ok && time.Now().Before(cached.expiry) {
		return cached.value, nil
	}

	var out authResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"user": creds.NIT, "pwd": creds.Password}).
		SetResult(&out).
		Post(c.baseURL(creds.Ambiente) + pathAuth)
	if err != nil {
		return "", fmt.Errorf("auth: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized || out.Status != "OK" || out.Body.Token == "" {
		return "", errInvalidCredentials
	}

	c.mu.Lock()
	c.tokens[key] = cachedToken{value: out.Body.Token, expiry: time.Now().Add(tokenTTL)}
	c.mu.Unlock()
	return out.Body.Token, nil
}

// Transmit entrega el documento firmado. Los errores devueltos son solo de
// transporte; los rechazos de validación remota viajan dentro del resultado.
func (c *Client) Transmit(ctx context.Context, signed string, ident dte.Identificacion, creds billing.Credentials) (*billing.TransmitResult, error) {
	token, err := c.authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}

	// El sobre lleva el mismo ambiente que el documento firmado que envuelve:
	// el de la empresa emisora, no el del proceso.
	payload := receptionRequest{
		Ambiente:         ident.Ambiente,
		IDEnvio:          1,
		Version:          ident.Version,
		TipoDte:          ident.TipoDte,
		CodigoGeneracion: ident.CodigoGeneracion,
		Documento:        signed,
	}
	var out receptionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(payload).
		SetResult(&out).
		SetError(&out). // los rechazos llegan con 4xx y el mismo cuerpo
		Post(c.baseURL(ident.Ambiente) + pathRecepcion)
	if err != nil {
		return nil, fmt.Errorf("recepciondte: %w", err)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return nil, fmt.Errorf("recepciondte: HTTP %d", resp.StatusCode())
	}

	c.log.Debug().
		Str("codigo_generacion", ident.CodigoGeneracion).
		Str("estado", out.Estado).
		Msg("respuesta de recepción")
	return &billing.TransmitResult{
		Estado:           out.Estado,
		SelloRecibido:    out.SelloRecibido,
		CodigoGeneracion: out.CodigoGeneracion,
		Observaciones:    out.Observaciones,
	}, nil
}

// Declare informa el evento de contingencia con el detalle de los documentos
// amparados y devuelve el sello de aceptación.
func (c *Client) Declare(ctx context.Context, event *entity.ContingencyEvent, codigosGeneracion []string, creds billing.Credentials) (string, error) {
	token, err := c.authenticate(ctx, creds)
	if err != nil {
		return "", err
	}

	detalle := make([]contingencyDetail, len(codigosGeneracion))
	for i, codigo := range codigosGeneracion {
		detalle[i] = contingencyDetail{NoItem: i + 1, CodigoGeneracion: codigo}
	}
	payload := contingencyRequest{
		NIT:              creds.NIT,
		CodigoGeneracion: event.CodigoGeneracion,
		FechaInicio:      event.Start.Format("2006-01-02"),
		HoraInicio:       event.Start.Format("15:04:05"),
		FechaFin:         event.End.Format("2006-01-02"),
		HoraFin:          event.End.Format("15:04:05"),
		TipoContingencia: event.Tipo,
		MotivoCont:       event.Reason,
		NombreResp:       event.ResponsableNombre,
		DUIResp:          event.ResponsableDUI,
		DetalleDTE:       detalle,
	}

	var out contingencyResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(payload).
		SetResult(&out).
		SetError(&out).
		Post(c.baseURL(creds.Ambiente) + pathContingencia)
	if err != nil {
		return "", fmt.Errorf("contingencia: %w", err)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return "", fmt.Errorf("contingencia: HTTP %d", resp.StatusCode())
	}
	if out.Estado != "RECIBIDO" || out.SelloRecibido == "" {
		return "", fmt.Errorf("contingencia rechazada (estado %s): %s", out.Estado, out.Mensaje)
	}
	return out.SelloRecibido, nil
}
