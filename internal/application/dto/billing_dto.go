package dto

import (
	"github.com/shopspring/decimal"
)

// CreateInvoiceItemRequest línea de la factura a crear.
type CreateInvoiceItemRequest struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"required"`
}

// CreateInvoiceRequest petición de creación de factura.
type CreateInvoiceRequest struct {
	CustomerID string                     `json:"customer_id" validate:"required"`
	TipoDte    string                     `json:"tipo_dte" validate:"required,oneof=01 03 05 06 14"`
	Number     string                     `json:"number"`
	Items      []CreateInvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreateNoteRequest petición de creación de nota de crédito/débito sobre un original.
type CreateNoteRequest struct {
	OriginalID string `json:"original_id" validate:"required"`
	TipoDte    string `json:"tipo_dte" validate:"required,oneof=05 06"`
}

// InvoiceItemResponse línea en respuestas.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// InvoiceResponse factura con estado de transmisión.
type InvoiceResponse struct {
	ID               string                `json:"id"`
	CompanyID        string                `json:"company_id"`
	CustomerID       string                `json:"customer_id"`
	TipoDte          string                `json:"tipo_dte"`
	Number           string                `json:"number"`
	Date             string                `json:"date"`
	Status           string                `json:"status"`
	CodigoGeneracion string                `json:"codigo_generacion,omitempty"`
	NumeroControl    string                `json:"numero_control,omitempty"`
	SelloRecibido    string                `json:"sello_recibido,omitempty"`
	NetTotal         decimal.Decimal       `json:"net_total"`
	TaxTotal         decimal.Decimal       `json:"tax_total"`
	RetTotal         decimal.Decimal       `json:"ret_total"`
	GrandTotal       decimal.Decimal       `json:"grand_total"`
	TotalPagar       decimal.Decimal       `json:"total_pagar"`
	Items            []InvoiceItemResponse `json:"items,omitempty"`
}

// SyncResponse resultado de un intento de transmisión.
type SyncResponse struct {
	InvoiceID        string `json:"invoice_id"`
	Status           string `json:"status"`
	AlreadyCompleted bool   `json:"already_completed,omitempty"`
	SelloRecibido    string `json:"sello_recibido,omitempty"`
}

// CreateCustomerRequest alta de receptor.
type CreateCustomerRequest struct {
	Name              string `json:"name" validate:"required"`
	NIT               string `json:"nit"`
	DUI               string `json:"dui"`
	NRC               string `json:"nrc"`
	Address           string `json:"address"`
	Phone             string `json:"phone"`
	Email             string `json:"email" validate:"omitempty,email"`
	GranContribuyente bool   `json:"gran_contribuyente"`
}

// CustomerResponse receptor en respuestas.
type CustomerResponse struct {
	ID                string `json:"id"`
	CompanyID         string `json:"company_id"`
	Name              string `json:"name"`
	NIT               string `json:"nit,omitempty"`
	DUI               string `json:"dui,omitempty"`
	NRC               string `json:"nrc,omitempty"`
	Address           string `json:"address,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Email             string `json:"email,omitempty"`
	GranContribuyente bool   `json:"gran_contribuyente"`
}

// CreateCompanyRequest alta de empresa emisora.
type CreateCompanyRequest struct {
	Name       string `json:"name" validate:"required"`
	NIT        string `json:"nit" validate:"required"`
	NRC        string `json:"nrc" validate:"required"`
	Actividad  string `json:"actividad" validate:"required"`
	CodEstable string `json:"cod_estable"`
	Ambiente   string `json:"ambiente" validate:"omitempty,oneof=00 01"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Email      string `json:"email" validate:"omitempty,email"`
}

// SetCredentialsRequest carga de credenciales de Hacienda y material de firma.
// Ambos valores son opacos para este servicio.
type SetCredentialsRequest struct {
	APIPassword    string `json:"api_password" validate:"required"`
	CertificateKey string `json:"certificate_key" validate:"required"`
}

// CompanyResponse empresa en respuestas. Nunca incluye credenciales; solo
// indica si están configuradas.
type CompanyResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	NIT            string `json:"nit"`
	NRC            string `json:"nrc"`
	Actividad      string `json:"actividad"`
	CodEstable     string `json:"cod_estable,omitempty"`
	Ambiente       string `json:"ambiente"`
	Address        string `json:"address,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Status         string `json:"status"`
	HasCredentials bool   `json:"has_credentials"`
}
