package hacienda

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturasv/dte-api/internal/application/billing"
	"github.com/facturasv/dte-api/internal/domain/dte"
	"github.com/facturasv/dte-api/pkg/config"
	pkgdte "github.com/facturasv/dte-api/pkg/dte"
)

func newTestClient(baseURL, ambiente string) *Client {
	return NewClient(config.HaciendaConfig{
		BaseURL:  baseURL,
		Ambiente: ambiente,
		Timeout:  5 * time.Second,
	}, nil)
}

// receptionServer levanta un MH de mentira que autentica siempre y captura el
// último cuerpo recibido en recepción.
func receptionServer(t *testing.T) (*httptest.Server, *receptionRequest) {
	t.Helper()
	var captured receptionRequest
	mux := http.NewServeMux()
	mux.HandleFunc(pathAuth, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(authResponse{Status: "OK", Body: authBody{Token: "tok"}})
	})
	mux.HandleFunc(pathRecepcion, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(receptionResponse{Estado: "PROCESADO", SelloRecibido: "SELLO"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &captured
}

// El sobre de recepción lleva el ambiente del documento (atributo de la
// empresa emisora), no el configurado en el proceso.
func TestTransmitEnvelopeUsesDocumentAmbiente(t *testing.T) {
	srv, captured := receptionServer(t)

	// Proceso configurado en pruebas; la empresa emite en producción.
	client := newTestClient(srv.URL, pkgdte.AmbientePruebas)
	ident := dte.Identificacion{
		Version:          1,
		Ambiente:         pkgdte.AmbienteProduccion,
		TipoDte:          pkgdte.TipoFactura,
		CodigoGeneracion: "A3E1F2D4-0000-4000-8000-000000000001",
	}
	creds := billing.Credentials{NIT: "06142510871020", Password: "secreta", Ambiente: pkgdte.AmbienteProduccion}

	result, err := client.Transmit(context.Background(), "jws.firmado", ident, creds)
	require.NoError(t, err)
	assert.Equal(t, "PROCESADO", result.Estado)

	assert.Equal(t, pkgdte.AmbienteProduccion, captured.Ambiente,
		"el sobre debe coincidir con el ambiente del documento firmado")
	assert.Equal(t, ident.CodigoGeneracion, captured.CodigoGeneracion)
	assert.Equal(t, "jws.firmado", captured.Documento)
}

// Sin MH_BASE_URL, la URL base se deriva del ambiente de cada llamada; con
// override, este gana siempre.
func TestBaseURLDerivation(t *testing.T) {
	client := newTestClient("", pkgdte.AmbientePruebas)
	assert.Equal(t, baseURLPruebas, client.baseURL(pkgdte.AmbientePruebas))
	assert.Equal(t, baseURLProduccion, client.baseURL(pkgdte.AmbienteProduccion))
	// Ambiente vacío cae al configurado.
	assert.Equal(t, baseURLPruebas, client.baseURL(""))

	override := newTestClient("http://localhost:9999", pkgdte.AmbientePruebas)
	assert.Equal(t, "http://localhost:9999", override.baseURL(pkgdte.AmbienteProduccion))
}

// El token se cachea por NIT y ambiente: el mismo NIT en ambientes distintos
// no comparte token.
func TestAuthTokenCachedPerAmbiente(t *testing.T) {
	var authCalls int
	mux := http.NewServeMux()
	mux.HandleFunc(pathAuth, func(w http.ResponseWriter, r *http.Request) {
		authCalls++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(authResponse{Status: "OK", Body: authBody{Token: "tok"}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := newTestClient(srv.URL, pkgdte.AmbientePruebas)
	credsPruebas := billing.Credentials{NIT: "06142510871020", Password: "secreta", Ambiente: pkgdte.AmbientePruebas}
	credsProd := billing.Credentials{NIT: "06142510871020", Password: "secreta", Ambiente: pkgdte.AmbienteProduccion}

	for _, creds := range []billing.Credentials{credsPruebas, credsPruebas, credsProd} {
		_, err := client.authenticate(context.Background(), creds)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, authCalls, "misma pareja NIT/ambiente reutiliza el token")
}
