package repository

import (
	"context"

	"github.com/facturasv/dte-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para empresas emisoras.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
}
