// Package config agrupa la configuración de la aplicación (lectura vía Viper
// desde variables de entorno y opcionalmente archivo .env).
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa toda la configuración del servicio.
type Config struct {
	App      AppConfig
	DB       DBConfig
	HTTP     HTTPConfig
	JWT      JWTConfig
	Hacienda HaciendaConfig
	Firmador FirmadorConfig
	Archive  ArchiveConfig
	Credits  CreditsConfig
}

// AppConfig configuración general.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// DBConfig configuración de PostgreSQL. Si DatabaseURL no está vacío se usa como
// connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN construye el connection string con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig configuración de los tokens de la API.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HaciendaConfig configuración del cliente de servicios del Ministerio de Hacienda.
// Ambiente: "00" = pruebas/certificación, "01" = producción. La URL base por
// defecto se deriva del ambiente si queda vacía.
type HaciendaConfig struct {
	BaseURL         string
	Ambiente        string
	Timeout         time.Duration // timeout de red del cliente
	ReplayDelay     time.Duration // pausa entre envíos en el reintento de contingencia
	CredentialCache time.Duration // vigencia del resultado de validación de credenciales
}

// FirmadorConfig configuración del servicio local de firma (firmador).
type FirmadorConfig struct {
	URL     string
	Timeout time.Duration
}

// ArchiveConfig configuración del respaldo de representaciones gráficas.
// URL vacía desactiva el respaldo (se registra y se continúa).
type ArchiveConfig struct {
	URL string
}

// CreditsConfig configuración del colaborador de créditos de emisión.
// URL vacía desactiva la verificación (toda emisión se permite).
type CreditsConfig struct {
	URL     string
	Timeout time.Duration
}

// Load lee la configuración desde variables de entorno y opcionalmente un
// archivo .env en el directorio de trabajo. Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // el archivo es opcional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "dte-api"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "dte_api"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "dte-api"),
		},
		Hacienda: HaciendaConfig{
			BaseURL:         getString(v, "MH_BASE_URL", ""),
			Ambiente:        getString(v, "MH_AMBIENTE", "00"),
			Timeout:         getDuration(v, "MH_TIMEOUT", 60*time.Second),
			ReplayDelay:     getDuration(v, "MH_REPLAY_DELAY", 2*time.Second),
			CredentialCache: getDuration(v, "MH_CREDENTIAL_CACHE", 10*time.Minute),
		},
		Firmador: FirmadorConfig{
			URL:     getString(v, "FIRMADOR_URL", "http://localhost:8113/firmardocumento/"),
			Timeout: getDuration(v, "FIRMADOR_TIMEOUT", 30*time.Second),
		},
		Archive: ArchiveConfig{
			URL: getString(v, "ARCHIVE_URL", ""),
		},
		Credits: CreditsConfig{
			URL:     getString(v, "CREDITS_URL", ""),
			Timeout: getDuration(v, "CREDITS_TIMEOUT", 5*time.Second),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if v.IsSet(key) {
		if d := v.GetDuration(key); d > 0 {
			return d
		}
	}
	return def
}
