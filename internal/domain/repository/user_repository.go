package repository

import (
	"context"

	"github.com/facturasv/dte-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para usuarios de la API.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByEmailAndCompany(ctx context.Context, email, companyID string) (*entity.User, error)
}
