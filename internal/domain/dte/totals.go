package dte

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/facturasv/dte-api/internal/domain/entity"
	pkgdte "github.com/facturasv/dte-api/pkg/dte"
)

// Tarifas fijas de la legislación vigente.
var (
	ivaDivisor    = decimal.NewFromFloat(1.13) // IVA 13%, precios IVA incluido
	tasaReteIVA   = decimal.NewFromFloat(0.01) // retención 1% a grandes contribuyentes
	tasaReteRenta = decimal.NewFromFloat(0.10) // retención de renta 10% a sujetos excluidos
)

// Summary totales calculados del documento.
type Summary struct {
	Total     decimal.Decimal // monto total de la operación (IVA incluido)
	IVA       decimal.Decimal // total − total/1.13, redondeado a 2 decimales
	Subtotal  decimal.Decimal // total − IVA
	IvaRete1  decimal.Decimal // 1% sobre el subtotal sin IVA (gran contribuyente)
	ReteRenta decimal.Decimal // 10% sobre el total (sujeto excluido)
	Pagar     decimal.Decimal // total − retenciones
	Letras    string
}

// ComputeLineTotal calcula el total de línea: cantidad × precio unitario,
// redondeado a 2 decimales.
func ComputeLineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(2)
}

// ComputeSummary calcula el resumen del documento a partir de las líneas, bajo
// las reglas fijas de redondeo:
//
//	total    = Σ round2(cantidad × precio), redondeado otra vez en la suma
//	IVA      = total − round2(total / 1.13)   (precios IVA incluido)
//	subtotal = total − IVA
//
// Para la factura de sujeto excluido (tipo 14) no hay IVA: se retiene renta del
// 10% sobre el total y el total a pagar es total − retención. Para receptores
// gran contribuyente se retiene además el 1% de IVA sobre el subtotal sin IVA.
func ComputeSummary(tipoDte string, items []*entity.InvoiceItem, granContribuyente bool) (*Summary, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("dte: el documento requiere al menos una línea")
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(ComputeLineTotal(it.Quantity, it.UnitPrice))
	}
	total = total.Round(2)

	s := &Summary{Total: total}

	if tipoDte == pkgdte.TipoSujetoExcluido {
		// Compra a sujeto excluido: operación sin IVA, retención de renta 10%.
		s.Subtotal = total
		s.ReteRenta = total.Mul(tasaReteRenta).Round(2)
		s.Pagar = total.Sub(s.ReteRenta)
	} else {
		s.IVA = total.Sub(total.Div(ivaDivisor).Round(2))
		s.Subtotal = total.Sub(s.IVA)
		if granContribuyente {
			s.IvaRete1 = s.Subtotal.Mul(tasaReteIVA).Round(2)
		}
		s.Pagar = total.Sub(s.IvaRete1)
	}

	letras, err := pkgdte.AmountInWords(s.Pagar)
	if err != nil {
		return nil, err
	}
	s.Letras = letras
	return s, nil
}
