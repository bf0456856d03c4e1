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

// CompanyUseCase alta, consulta y configuración de credenciales del emisor.
type CompanyUseCase struct {
	companyRepo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso de empresas.
func NewCompanyUseCase(companyRepo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{companyRepo: companyRepo}
}

// Create registra la empresa emisora. NIT y NRC son obligatorios y válidos; el
// ambiente por defecto es el de pruebas.
func (u *CompanyUseCase) Create(ctx context.Context, req dto.CreateCompanyRequest) (*entity.Company, error) {
	var fields []string
	if err := pkgdte.ValidateNIT(req.NIT); err != nil {
		fields = append(fields, "nit")
	}
	if err := pkgdte.ValidateNRC(req.NRC); err != nil {
		fields = append(fields, "nrc")
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}

	ambiente := req.Ambiente
	if ambiente == "" {
		ambiente = pkgdte.AmbientePruebas
	}

	now := time.Now()
	company := &entity.Company{
		ID:         uuid.NewString(),
		Name:       req.Name,
		NIT:        req.NIT,
		NRC:        req.NRC,
		Actividad:  req.Actividad,
		CodEstable: req.CodEstable,
		Ambiente:   ambiente,
		Address:    req.Address,
		Phone:      req.Phone,
		Email:      req.Email,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := u.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Get devuelve la empresa.
func (u *CompanyUseCase) Get(ctx context.Context, companyID string) (*entity.Company, error) {
	company, err := u.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

// SetCredentials configura las credenciales del API de Hacienda y la clave del
// certificado de firma. Se guardan opacas: solo las consumen el autenticador y
// el firmador remotos.
func (u *CompanyUseCase) SetCredentials(ctx context.Context, companyID, apiPassword, certificateKey string) error {
	company, err := u.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrNotFound
	}
	company.APIPassword = apiPassword
	company.CertificateKey = certificateKey
	company.UpdatedAt = time.Now()
	return u.companyRepo.Update(ctx, company)
}
