package dte

import (
	"fmt"
	"unicode"
)

// DUILength longitud exigida para el DUI (sin guión): 8 dígitos + verificador.
const DUILength = 9

// ValidateDUI valida que el DUI tenga exactamente 9 dígitos. Acepta el formato
// con guión ("12345678-9") o corrido ("123456789"). Hacienda exige la longitud
// exacta en el campo responsable de los eventos de contingencia.
func ValidateDUI(dui string) error {
	digits := extractDigits(dui)
	if len(digits) != DUILength {
		return fmt.Errorf("dte: DUI debe tener exactamente %d dígitos, se encontraron %d", DUILength, len(digits))
	}
	return nil
}

// ValidateNIT valida la forma del NIT salvadoreño: 14 dígitos (formato
// XXXX-XXXXXX-XXX-X) o 9 dígitos cuando el NIT es el DUI homologado.
func ValidateNIT(nit string) error {
	digits := extractDigits(nit)
	switch len(digits) {
	case 14, 9:
		return nil
	default:
		return fmt.Errorf("dte: NIT debe tener 14 o 9 dígitos, se encontraron %d", len(digits))
	}
}

// ValidateNRC valida el Número de Registro de Contribuyente: de 1 a 8 dígitos
// (se transmite sin guión ni ceros a la izquierda).
func ValidateNRC(nrc string) error {
	digits := extractDigits(nrc)
	if len(digits) == 0 || len(digits) > 8 {
		return fmt.Errorf("dte: NRC debe tener entre 1 y 8 dígitos, se encontraron %d", len(digits))
	}
	return nil
}

// OnlyDigits devuelve únicamente los dígitos de la cadena (para transmitir
// NIT/DUI/NRC sin separadores).
func OnlyDigits(s string) string {
	return string(extractDigits(s))
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
