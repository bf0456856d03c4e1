package entity

import "time"

// Company representa al emisor (contribuyente) dueño de los documentos.
// El correlativo de numeración es por (empresa, tipo de DTE); ver el asignador
// de identificadores en application/billing.
type Company struct {
	ID         string
	Name       string // razón social
	NIT        string
	NRC        string // número de registro de contribuyente
	Actividad  string // código de actividad económica (CAT-019)
	CodEstable string // código de establecimiento asignado por el MH
	Ambiente   string // "00" pruebas, "01" producción

	// Credenciales opacas para este núcleo: contraseña del API de Hacienda y
	// clave del certificado de firma (las consume el firmador remoto).
	APIPassword    string
	CertificateKey string

	Address string
	Phone   string
	Email   string
	Status  string // active, suspended, inactive

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCredentials indica si la empresa tiene material de credenciales y de firma
// configurado. La transmisión falla rápido sin llamar a Hacienda cuando falta.
func (c *Company) HasCredentials() bool {
	return c.APIPassword != "" && c.CertificateKey != ""
}
