package dte

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AmountInWords convierte un monto a su expresión en letras para el campo
// totalLetras del resumen, en el formato usado en El Salvador:
//
//	40.00  -> "CUARENTA 00/100 DÓLARES"
//	135.75 -> "CIENTO TREINTA Y CINCO 75/100 DÓLARES"
//
// Soporta montos hasta los miles de millones; los centavos se expresan como
// fracción NN/100.
func AmountInWords(amount decimal.Decimal) (string, error) {
	if amount.IsNegative() {
		return "", fmt.Errorf("dte: el monto en letras no admite negativos (%s)", amount.String())
	}
	rounded := amount.Round(2)
	entero := rounded.IntPart()
	centavos := rounded.Sub(decimal.NewFromInt(entero)).Mul(decimal.NewFromInt(100)).IntPart()

	words, err := cardinal(entero)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %02d/100 DÓLARES", strings.ToUpper(words), centavos), nil
}

var unidades = [...]string{
	"", "UNO", "DOS", "TRES", "CUATRO", "CINCO", "SEIS", "SIETE", "OCHO", "NUEVE",
	"DIEZ", "ONCE", "DOCE", "TRECE", "CATORCE", "QUINCE", "DIECISÉIS", "DIECISIETE",
	"DIECIOCHO", "DIECINUEVE", "VEINTE", "VEINTIUNO", "VEINTIDÓS", "VEINTITRÉS",
	"VEINTICUATRO", "VEINTICINCO", "VEINTISÉIS", "VEINTISIETE", "VEINTIOCHO", "VEINTINUEVE",
}

var decenas = [...]string{
	"", "", "", "TREINTA", "CUARENTA", "CINCUENTA", "SESENTA", "SETENTA", "OCHENTA", "NOVENTA",
}

var centenas = [...]string{
	"", "CIENTO", "DOSCIENTOS", "TRESCIENTOS", "CUATROCIENTOS", "QUINIENTOS",
	"SEISCIENTOS", "SETECIENTOS", "OCHOCIENTOS", "NOVECIENTOS",
}

// cardinal escribe n en cardinales castellanos (0 <= n < 1e12).
func cardinal(n int64) (string, error) {
	if n < 0 || n >= 1_000_000_000_000 {
		return "", fmt.Errorf("dte: monto fuera de rango para letras: %d", n)
	}
	if n == 0 {
		return "CERO", nil
	}
	var parts []string
	if millones := n / 1_000_000; millones > 0 {
		if millones == 1 {
			parts = append(parts, "UN MILLÓN")
		} else {
			s, _ := cardinal(millones)
			parts = append(parts, s+" MILLONES")
		}
		n %= 1_000_000
	}
	if miles := n / 1000; miles > 0 {
		if miles == 1 {
			parts = append(parts, "MIL")
		} else {
			parts = append(parts, hastaNovecientos(miles)+" MIL")
		}
		n %= 1000
	}
	if n > 0 {
		parts = append(parts, hastaNovecientos(n))
	}
	return strings.Join(parts, " "), nil
}

func hastaNovecientos(n int64) string {
	if n == 100 {
		return "CIEN"
	}
	var parts []string
	if c := n / 100; c > 0 {
		parts = append(parts, centenas[c])
		n %= 100
	}
	switch {
	case n == 0:
	case n < 30:
		parts = append(parts, unidades[n])
	default:
		d, u := n/10, n%10
		if u == 0 {
			parts = append(parts, decenas[d])
		} else {
			parts = append(parts, decenas[d]+" Y "+unidades[u])
		}
	}
	return strings.Join(parts, " ")
}

// NormalizeText elimina diacríticos y caracteres de control de nombres y
// descripciones antes de incluirlos en el JSON del DTE (el validador de
// Hacienda rechaza caracteres fuera del rango esperado en varios campos).
func NormalizeText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	clean := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, out)
	return strings.TrimSpace(clean)
}
