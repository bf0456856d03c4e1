package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/facturasv/dte-api/internal/application/dto"
	"github.com/facturasv/dte-api/internal/domain"
	"github.com/facturasv/dte-api/internal/domain/entity"
	"github.com/facturasv/dte-api/internal/domain/repository"
	pkgdte "github.com/facturasv/dte-api/pkg/dte"
)

// CustomerUseCase alta y consulta de receptores.
type CustomerUseCase struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso de receptores.
func NewCustomerUseCase(customerRepo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{customerRepo: customerRepo}
}

// Create registra un receptor. NIT, DUI y NRC son opcionales pero, de venir,
// deben ser válidos: los documentos que los exigen fallan en la transmisión si
// faltan, no aquí.
func (u *CustomerUseCase) Create(ctx context.Context, companyID string, req dto.CreateCustomerRequest) (*entity.Customer, error) {
	var fields []string
	if req.NIT != "" {
		if err := pkgdte.ValidateNIT(req.NIT); err != nil {
			fields = append(fields, "nit")
		}
	}
	if req.DUI != "" {
		if err := pkgdte.ValidateDUI(pkgdte.OnlyDigits(req.DUI)); err != nil {
			fields = append(fields, "dui")
		}
	}
	if req.NRC != "" {
		if err := pkgdte.ValidateNRC(req.NRC); err != nil {
			fields = append(fields, "nrc")
		}
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}

	now := time.Now()
	customer := &entity.Customer{
		ID:                uuid.NewString(),
		CompanyID:         companyID,
		Name:              req.Name,
		NIT:               req.NIT,
		DUI:               pkgdte.OnlyDigits(req.DUI),
		NRC:               req.NRC,
		Address:           req.Address,
		Phone:             req.Phone,
		Email:             req.Email,
		GranContribuyente: req.GranContribuyente,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := u.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Get devuelve un receptor de la empresa.
func (u *CustomerUseCase) Get(ctx context.Context, companyID, customerID string) (*entity.Customer, error) {
	customer, err := u.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return customer, nil
}

// List pagina los receptores de la empresa.
func (u *CustomerUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) ([]*entity.Customer, error) {
	return u.customerRepo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
}
