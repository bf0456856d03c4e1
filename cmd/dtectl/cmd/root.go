// Package cmd implementa dtectl, la herramienta de operación de la API de
// facturación: transmisión de documentos sueltos y declaración de contingencia
// contra una instancia en ejecución.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	// Flags globales
	apiURL string
	token  string
)

var rootCmd = &cobra.Command{
	Use:   "dtectl",
	Short: "Operación de la API de facturación electrónica",
	Long: `dtectl opera una instancia de la API de facturación electrónica.

Ejemplos:
  # Iniciar sesión y guardar el token en una variable
  export DTECTL_TOKEN=$(dtectl login -e admin@empresa.sv -p secreto)

  # Transmitir un documento
  dtectl sync 7f9c0f4e-...

  # Declarar contingencia y reenviar el lote
  dtectl contingencia --start 2026-08-28 --end 2026-08-29 \
    --tipo 1 --reason "caída del enlace" \
    --responsable "Ana Pérez" --dui 012345678 \
    --invoice 7f9c0f4e-... --invoice 8a1d22b0-...`,
	Version: version,
}

// Execute ejecuta el comando raíz.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "URL base de la API (env: DTECTL_API_URL)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token (env: DTECTL_TOKEN)")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if apiURL == "" {
		apiURL = os.Getenv("DTECTL_API_URL")
	}
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}
	if token == "" {
		token = os.Getenv("DTECTL_TOKEN")
	}
}

// apiClient devuelve el cliente HTTP apuntando a la API configurada.
func apiClient() *resty.Client {
	client := resty.New().
		SetBaseURL(apiURL).
		SetTimeout(10 * time.Minute) // el reenvío de contingencia es lento
	if token != "" {
		client.SetAuthToken(token)
	}
	return client
}

// apiError cuerpo de error devuelto por la API.
type apiError struct {
	Code          string   `json:"code"`
	Message       string   `json:"message"`
	Observaciones []string `json:"observaciones,omitempty"`
}

// fail construye el error a partir de la respuesta fallida.
func fail(resp *resty.Response, out *apiError) error {
	if out != nil && out.Message != "" {
		if len(out.Observaciones) > 0 {
			return fmt.Errorf("%s (%s): %v", out.Message, out.Code, out.Observaciones)
		}
		return fmt.Errorf("%s (%s)", out.Message, out.Code)
	}
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode(), resp.String())
}

// printJSON imprime v con indentación en stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
