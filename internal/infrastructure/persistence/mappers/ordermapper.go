package mappers

import (
	"fmt"

	"github.com/orris-inc/berth/internal/domain/order"
	"github.com/orris-inc/berth/internal/infrastructure/persistence/models"
)

type OrderMapper interface {
	ToEntity(model *models.OrderModel) (*order.Order, error)
	ToModel(entity *order.Order) (*models.OrderModel, error)
}

type OrderMapperImpl struct{}

func NewOrderMapper() OrderMapper {
	return &OrderMapperImpl{}
}

func (m *OrderMapperImpl) ToEntity(model *models.OrderModel) (*order.Order, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := order.ReconstructOrder(
		model.ID,
		model.SID,
		model.CustomerID,
		model.PlanID,
		model.SubscriptionID,
		order.OrderStatus(model.Status),
		model.AmountCents,
		model.Currency,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct order entity: %w", err)
	}

	return entity, nil
}

func (m *OrderMapperImpl) ToModel(entity *order.Order) (*models.OrderModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.OrderModel{
		ID:             entity.ID(),
		SID:            entity.SID(),
		CustomerID:     entity.CustomerID(),
		PlanID:         entity.PlanID(),
		SubscriptionID: entity.SubscriptionID(),
		Status:         entity.Status().String(),
		AmountCents:    entity.AmountCents(),
		Currency:       entity.Currency(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}, nil
}
