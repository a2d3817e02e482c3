package mappers

import (
	"fmt"

	"github.com/orris-inc/berth/internal/domain/port"
	vo "github.com/orris-inc/berth/internal/domain/port/valueobjects"
	"github.com/orris-inc/berth/internal/infrastructure/persistence/models"
)

type PortMapper interface {
	ToEntity(model *models.PortModel) (*port.Port, error)
	ToModel(entity *port.Port) (*models.PortModel, error)
	ToEntities(models []*models.PortModel) ([]*port.Port, error)
}

type PortMapperImpl struct{}

func NewPortMapper() PortMapper {
	return &PortMapperImpl{}
}

func (m *PortMapperImpl) ToEntity(model *models.PortModel) (*port.Port, error) {
	if model == nil {
		return nil, nil
	}

	status := vo.PortStatus(model.Status)
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid port status: %s", model.Status)
	}

	var assignment *vo.Assignment
	if model.AssignedSubscriptionID != nil {
		if model.AssignedCustomerID == nil || model.AssignedAt == nil {
			return nil, fmt.Errorf("port %d has a partial assignment record", model.ID)
		}
		a, err := vo.NewAssignment(*model.AssignedSubscriptionID, *model.AssignedCustomerID, *model.AssignedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to build assignment: %w", err)
		}
		assignment = a
	}

	entity, err := port.ReconstructPort(
		model.ID,
		model.SID,
		model.InstanceURL,
		model.Name,
		model.Region,
		status,
		assignment,
		model.CreatedAt,
		model.UpdatedAt,
		model.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct port entity: %w", err)
	}

	return entity, nil
}

func (m *PortMapperImpl) ToModel(entity *port.Port) (*models.PortModel, error) {
	if entity == nil {
		return nil, nil
	}

	model := &models.PortModel{
		ID:          entity.ID(),
		SID:         entity.SID(),
		InstanceURL: entity.InstanceURL(),
		Name:        entity.Name(),
		Region:      entity.Region(),
		Status:      entity.Status().String(),
		Version:     entity.Version(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}

	if assignment := entity.Assignment(); assignment != nil {
		subID := assignment.SubscriptionID()
		custID := assignment.CustomerID()
		assignedAt := assignment.AssignedAt()
		model.AssignedSubscriptionID = &subID
		model.AssignedCustomerID = &custID
		model.AssignedAt = &assignedAt
	}

	return model, nil
}

func (m *PortMapperImpl) ToEntities(portModels []*models.PortModel) ([]*port.Port, error) {
	entities := make([]*port.Port, 0, len(portModels))
	for _, model := range portModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
