package dte

import (
	"fmt"
	"strconv"
	"strings"
)

// ControlNumberWidth ancho fijo del correlativo con ceros a la izquierda.
const ControlNumberWidth = 5

// FormatControlNumber formatea un correlativo como cadena de ancho fijo
// ("00001", "00042"). El correlativo es por (empresa, tipo de DTE) y arranca en 1.
func FormatControlNumber(seq int64) (string, error) {
	if seq < 1 {
		return "", fmt.Errorf("dte: correlativo debe ser >= 1, se recibió %d", seq)
	}
	s := strconv.FormatInt(seq, 10)
	if len(s) > ControlNumberWidth {
		return "", fmt.Errorf("dte: correlativo %d excede el ancho de %d dígitos", seq, ControlNumberWidth)
	}
	return strings.Repeat("0", ControlNumberWidth-len(s)) + s, nil
}

// ParseControlNumber devuelve el valor numérico de un número de control con ceros
// a la izquierda. Acepta la cadena vacía como 0 (factura aún sin numerar).
func ParseControlNumber(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("dte: número de control %q inválido: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("dte: número de control %q negativo", s)
	}
	return n, nil
}
