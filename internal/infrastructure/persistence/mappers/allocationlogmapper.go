package mappers

import (
	"encoding/json"
	"fmt"

	"github.com/orris-inc/berth/internal/domain/allocation"
	"github.com/orris-inc/berth/internal/infrastructure/persistence/models"
)

type AllocationLogMapper interface {
	ToEntity(model *models.AllocationLogModel) (*allocation.LogEntry, error)
	ToModel(entity *allocation.LogEntry) (*models.AllocationLogModel, error)
	ToEntities(models []*models.AllocationLogModel) ([]*allocation.LogEntry, error)
}

type AllocationLogMapperImpl struct{}

func NewAllocationLogMapper() AllocationLogMapper {
	return &AllocationLogMapperImpl{}
}

func (m *AllocationLogMapperImpl) ToEntity(model *models.AllocationLogModel) (*allocation.LogEntry, error) {
	if model == nil {
		return nil, nil
	}

	var metadata map[string]interface{}
	if model.Metadata != nil {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal log metadata: %w", err)
		}
	}

	entity, err := allocation.ReconstructLogEntry(
		model.ID,
		model.PortID,
		model.SubscriptionID,
		model.CustomerID,
		allocation.Action(model.Action),
		model.PerformedBy,
		metadata,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct log entry: %w", err)
	}

	return entity, nil
}

func (m *AllocationLogMapperImpl) ToModel(entity *allocation.LogEntry) (*models.AllocationLogModel, error) {
	if entity == nil {
		return nil, nil
	}

	model := &models.AllocationLogModel{
		ID:             entity.ID(),
		PortID:         entity.PortID(),
		SubscriptionID: entity.SubscriptionID(),
		CustomerID:     entity.CustomerID(),
		Action:         entity.Action().String(),
		PerformedBy:    entity.PerformedBy(),
		CreatedAt:      entity.CreatedAt(),
	}

	if metadata := entity.Metadata(); metadata != nil {
		data, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal log metadata: %w", err)
		}
		model.Metadata = data
	}

	return model, nil
}

func (m *AllocationLogMapperImpl) ToEntities(logModels []*models.AllocationLogModel) ([]*allocation.LogEntry, error) {
	entities := make([]*allocation.LogEntry, 0, len(logModels))
	for _, model := range logModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
