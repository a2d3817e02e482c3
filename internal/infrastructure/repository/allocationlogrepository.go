package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/berth/internal/domain/allocation"
	"github.com/orris-inc/berth/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/berth/internal/infrastructure/persistence/models"
	"github.com/orris-inc/berth/internal/shared/db"
	"github.com/orris-inc/berth/internal/shared/logger"
)

// AllocationLogRepositoryImpl only ever inserts and selects; the audit trail
// has no update or delete path.
type AllocationLogRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AllocationLogMapper
	logger logger.Interface
}

func NewAllocationLogRepository(
	gormDB *gorm.DB,
	logger logger.Interface,
) allocation.LogRepository {
	return &AllocationLogRepositoryImpl{
		db:     gormDB,
		mapper: mappers.NewAllocationLogMapper(),
		logger: logger,
	}
}

func (r *AllocationLogRepositoryImpl) Append(ctx context.Context, entry *allocation.LogEntry) error {
	model, err := r.mapper.ToModel(entry)
	if err != nil {
		r.logger.Errorw("failed to map log entry to model", "error", err)
		return fmt.Errorf("failed to map log entry: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to append allocation log entry", "error", err)
		return fmt.Errorf("failed to append log entry: %w", err)
	}

	if err := entry.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set log entry ID: %w", err)
	}

	return nil
}

func (r *AllocationLogRepositoryImpl) ListByPort(ctx context.Context, portID uint) ([]*allocation.LogEntry, error) {
	var logModels []*models.AllocationLogModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("port_id = ?", portID).
		Order("id ASC").
		Find(&logModels).Error
	if err != nil {
		r.logger.Errorw("failed to list log entries by port", "port_id", portID, "error", err)
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}

	return r.mapper.ToEntities(logModels)
}

func (r *AllocationLogRepositoryImpl) ListBySubscription(ctx context.Context, subscriptionID uint) ([]*allocation.LogEntry, error) {
	var logModels []*models.AllocationLogModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("subscription_id = ?", subscriptionID).
		Order("id ASC").
		Find(&logModels).Error
	if err != nil {
		r.logger.Errorw("failed to list log entries by subscription", "subscription_id", subscriptionID, "error", err)
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}

	return r.mapper.ToEntities(logModels)
}

func (r *AllocationLogRepositoryImpl) List(ctx context.Context, filter allocation.ListFilter) ([]*allocation.LogEntry, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.AllocationLogModel{})

	if filter.PortID != nil {
		query = query.Where("port_id = ?", *filter.PortID)
	}
	if filter.SubscriptionID != nil {
		query = query.Where("subscription_id = ?", *filter.SubscriptionID)
	}
	if filter.Action != nil {
		query = query.Where("action = ?", filter.Action.String())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count log entries", "error", err)
		return nil, 0, fmt.Errorf("failed to count log entries: %w", err)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var logModels []*models.AllocationLogModel
	if err := query.Order("id DESC").Find(&logModels).Error; err != nil {
		r.logger.Errorw("failed to list log entries", "error", err)
		return nil, 0, fmt.Errorf("failed to list log entries: %w", err)
	}

	entities, err := r.mapper.ToEntities(logModels)
	if err != nil {
		return nil, 0, err
	}

	return entities, total, nil
}
