package dte_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturasv/dte-api/internal/domain/dte"
	"github.com/facturasv/dte-api/internal/domain/entity"
	pkgdte "github.com/facturasv/dte-api/pkg/dte"
)

func item(qty, price string) *entity.InvoiceItem {
	return &entity.InvoiceItem{
		Description: "producto",
		Quantity:    decimal.RequireFromString(qty),
		UnitPrice:   decimal.RequireFromString(price),
	}
}

// Vector exacto: 2 × $10.00 + 1 × $20.00 con IVA incluido.
//
//	total    = 40.00
//	IVA      = 40.00 − round(40.00/1.13, 2) = 40.00 − 35.40 = 4.60
//	subtotal = 35.40
func TestComputeSummary_VectorFactura(t *testing.T) {
	items := []*entity.InvoiceItem{item("2", "10.00"), item("1", "20.00")}

	s, err := dte.ComputeSummary(pkgdte.TipoFactura, items, false)
	require.NoError(t, err)

	assert.True(t, s.Total.Equal(decimal.RequireFromString("40.00")), "total: %s", s.Total)
	assert.True(t, s.IVA.Equal(decimal.RequireFromString("4.60")), "iva: %s", s.IVA)
	assert.True(t, s.Subtotal.Equal(decimal.RequireFromString("35.40")), "subtotal: %s", s.Subtotal)
	assert.True(t, s.IvaRete1.IsZero())
	assert.True(t, s.ReteRenta.IsZero())
	assert.True(t, s.Pagar.Equal(s.Total))
	assert.Equal(t, "CUARENTA 00/100 DÓLARES", s.Letras)
}

// Identidad tributaria: subtotal + IVA == total, con tolerancia de redondeo 0.01.
func TestComputeSummary_TaxIdentity(t *testing.T) {
	cases := [][]*entity.InvoiceItem{
		{item("1", "0.01")},
		{item("3", "3.33")},
		{item("7", "19.99"), item("2", "0.45")},
		{item("1.5", "10.10"), item("0.25", "99.99")},
		{item("1000", "1.13")},
	}
	for _, items := range cases {
		s, err := dte.ComputeSummary(pkgdte.TipoCCF, items, false)
		require.NoError(t, err)
		assert.True(t, s.Subtotal.Add(s.IVA).Equal(s.Total),
			"subtotal %s + iva %s != total %s", s.Subtotal, s.IVA, s.Total)
		diff := s.Total.Sub(s.Total.Div(decimal.RequireFromString("1.13")).Round(2)).Sub(s.IVA).Abs()
		assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString("0.01")))
	}
}

func TestComputeSummary_GranContribuyente(t *testing.T) {
	items := []*entity.InvoiceItem{item("2", "10.00"), item("1", "20.00")}

	s, err := dte.ComputeSummary(pkgdte.TipoCCF, items, true)
	require.NoError(t, err)

	// 1% sobre el monto gravado sin IVA (35.40) = 0.35.
	assert.True(t, s.IvaRete1.Equal(decimal.RequireFromString("0.35")), "ivaRete1: %s", s.IvaRete1)
	assert.True(t, s.Pagar.Equal(decimal.RequireFromString("39.65")), "totalPagar: %s", s.Pagar)
}

func TestComputeSummary_SujetoExcluido(t *testing.T) {
	items := []*entity.InvoiceItem{item("2", "10.00"), item("1", "20.00")}

	s, err := dte.ComputeSummary(pkgdte.TipoSujetoExcluido, items, false)
	require.NoError(t, err)

	// Operación sin IVA: retención de renta 10% del total, a pagar total − retención.
	assert.True(t, s.IVA.IsZero())
	assert.True(t, s.Subtotal.Equal(decimal.RequireFromString("40.00")))
	assert.True(t, s.ReteRenta.Equal(decimal.RequireFromString("4.00")), "reteRenta: %s", s.ReteRenta)
	assert.True(t, s.Pagar.Equal(decimal.RequireFromString("36.00")), "totalPagar: %s", s.Pagar)
}

func TestComputeSummary_SinLineas(t *testing.T) {
	_, err := dte.ComputeSummary(pkgdte.TipoFactura, nil, false)
	assert.Error(t, err)
}

func TestComputeLineTotal_Redondeo(t *testing.T) {
	got := dte.ComputeLineTotal(decimal.RequireFromString("3"), decimal.RequireFromString("3.333"))
	assert.True(t, got.Equal(decimal.RequireFromString("10.00")), "line total: %s", got)
}
