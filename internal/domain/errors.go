// Package domain define errores y reglas compartidas del núcleo, sin
// dependencias de infraestructura.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio generales.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
)

// Taxonomía de errores del ciclo de transmisión. Los errores locales de
// validación nunca llegan a la capa de red; los remotos y de transporte dejan
// la factura en NUEVO sin tocar los identificadores ya asignados. Ninguno de
// estos errores se reintenta aquí: la decisión de reintento es del caller.
var (
	// ErrValidation campo obligatorio ausente o inválido (local).
	ErrValidation = errors.New("documento inválido")
	// ErrCredentialsNotConfigured la empresa no tiene credenciales o material de firma.
	ErrCredentialsNotConfigured = errors.New("credenciales de Hacienda no configuradas")
	// ErrCredentialsRejected Hacienda rechazó las credenciales del API.
	ErrCredentialsRejected = errors.New("credenciales rechazadas por Hacienda")
	// ErrCertificateRejected Hacienda rechazó el certificado de firma.
	ErrCertificateRejected = errors.New("certificado de firma rechazado")
	// ErrTransport fallo de red o timeout; recuperable, la factura queda en NUEVO.
	ErrTransport = errors.New("error de transporte con Hacienda")
	// ErrSigning el servicio de firma no pudo firmar el documento.
	ErrSigning = errors.New("error del servicio de firma")
	// ErrDocumentRejected el documento fue rechazado por validación remota.
	ErrDocumentRejected = errors.New("documento rechazado por Hacienda")
	// ErrNumberingConflict el servicio remoto detectó número de control duplicado.
	ErrNumberingConflict = errors.New("número de control duplicado")
	// ErrInsufficientBalance el colaborador de créditos negó la emisión.
	ErrInsufficientBalance = errors.New("saldo de emisión insuficiente")
)

// ValidationError detalla los campos faltantes o inválidos de un documento.
// Envuelve ErrValidation para poder clasificarlo con errors.Is.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("documento inválido: %s", strings.Join(e.Fields, ", "))
}

// Unwrap permite errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError construye el error con los campos en cuestión.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// RejectionError detalla un rechazo remoto, con el estado devuelto y la lista
// de observaciones intacta para mostrarla al usuario.
type RejectionError struct {
	Estado        string
	Observaciones []string
}

func (e *RejectionError) Error() string {
	if len(e.Observaciones) == 0 {
		return fmt.Sprintf("rechazado por Hacienda (estado %s)", e.Estado)
	}
	return fmt.Sprintf("rechazado por Hacienda (estado %s): %s", e.Estado, strings.Join(e.Observaciones, "; "))
}

// Unwrap permite errors.Is(err, ErrDocumentRejected).
func (e *RejectionError) Unwrap() error { return ErrDocumentRejected }
