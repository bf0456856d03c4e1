package repository

import (
	"context"

	"github.com/facturasv/dte-api/internal/domain/entity"
)

// ContingencyRepository define el puerto de persistencia para eventos de contingencia.
type ContingencyRepository interface {
	Create(ctx context.Context, event *entity.ContingencyEvent) error
	// Update persiste el resultado de la declaración y los contadores del reenvío.
	Update(ctx context.Context, event *entity.ContingencyEvent) error
	GetByID(ctx context.Context, id string) (*entity.ContingencyEvent, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.ContingencyEvent, error)
}
