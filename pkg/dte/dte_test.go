package dte_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturasv/dte-api/pkg/dte"
)

func TestFormatControlNumber(t *testing.T) {
	cases := []struct {
		seq  int64
		want string
	}{
		{1, "00001"},
		{42, "00042"},
		{99999, "99999"},
	}
	for _, tc := range cases {
		got, err := dte.FormatControlNumber(tc.seq)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := dte.FormatControlNumber(0)
	assert.Error(t, err, "correlativo cero no es válido")
	_, err = dte.FormatControlNumber(100000)
	assert.Error(t, err, "correlativo que desborda el ancho fijo")
}

func TestParseControlNumber(t *testing.T) {
	n, err := dte.ParseControlNumber("00042")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	n, err = dte.ParseControlNumber("")
	require.NoError(t, err)
	assert.Zero(t, n, "cadena vacía = factura sin numerar")

	_, err = dte.ParseControlNumber("12a45")
	assert.Error(t, err)
}

func TestSchemaVersion(t *testing.T) {
	assert.Equal(t, 1, dte.SchemaVersion(dte.TipoFactura))
	assert.Equal(t, 1, dte.SchemaVersion(dte.TipoSujetoExcluido))
	assert.Equal(t, 3, dte.SchemaVersion(dte.TipoCCF))
	assert.Equal(t, 3, dte.SchemaVersion(dte.TipoNotaCredito))
	assert.Equal(t, 3, dte.SchemaVersion(dte.TipoNotaDebito))
}

func TestValidateDUI(t *testing.T) {
	assert.NoError(t, dte.ValidateDUI("123456789"))
	assert.NoError(t, dte.ValidateDUI("12345678-9"))
	assert.Error(t, dte.ValidateDUI("12345678"))
	assert.Error(t, dte.ValidateDUI("1234567890"))
	assert.Error(t, dte.ValidateDUI(""))
}

func TestValidateNIT(t *testing.T) {
	assert.NoError(t, dte.ValidateNIT("0614-290792-102-3"))
	assert.NoError(t, dte.ValidateNIT("06142907921023"))
	assert.NoError(t, dte.ValidateNIT("123456789"), "NIT homologado al DUI")
	assert.Error(t, dte.ValidateNIT("12345"))
}

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"40.00", "CUARENTA 00/100 DÓLARES"},
		{"135.75", "CIENTO TREINTA Y CINCO 75/100 DÓLARES"},
		{"0.50", "CERO 50/100 DÓLARES"},
		{"21.00", "VEINTIUNO 00/100 DÓLARES"},
		{"100.00", "CIEN 00/100 DÓLARES"},
		{"1000.01", "MIL 01/100 DÓLARES"},
		{"1000000.00", "UN MILLÓN 00/100 DÓLARES"},
		{"2534.10", "DOS MIL QUINIENTOS TREINTA Y CUATRO 10/100 DÓLARES"},
	}
	for _, tc := range cases {
		amount, err := decimal.NewFromString(tc.amount)
		require.NoError(t, err)
		got, err := dte.AmountInWords(amount)
		require.NoError(t, err, "monto %s", tc.amount)
		assert.Equal(t, tc.want, got, "monto %s", tc.amount)
	}

	_, err := dte.AmountInWords(decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "Cafe molido", dte.NormalizeText("Café molido"))
	assert.Equal(t, "PANADERIA EL AGUILA", dte.NormalizeText("PANADERÍA EL ÁGUILA"))
	assert.Equal(t, "sin cambios", dte.NormalizeText("  sin cambios "))
}
