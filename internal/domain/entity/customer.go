package entity

import "time"

// Customer representa al receptor del documento. NIT/NRC son opcionales: una
// factura a consumidor final no los exige, un CCF o una nota sí. Los sujetos
// excluidos no tienen NIT estándar y se documentan con DUI u otro documento.
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	NIT       string
	DUI       string
	NRC       string
	Address   string
	Phone     string
	Email     string

	// GranContribuyente marca a los receptores sujetos a retención del 1% de
	// IVA sobre el monto gravado sin impuesto.
	GranContribuyente bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
