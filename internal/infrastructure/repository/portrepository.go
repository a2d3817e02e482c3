package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/berth/internal/domain/port"
	vo "github.com/orris-inc/berth/internal/domain/port/valueobjects"
	"github.com/orris-inc/berth/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/berth/internal/infrastructure/persistence/models"
	"github.com/orris-inc/berth/internal/shared/db"
	apperrors "github.com/orris-inc/berth/internal/shared/errors"
	"github.com/orris-inc/berth/internal/shared/logger"
)

type PortRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PortMapper
	logger logger.Interface
}

func NewPortRepository(
	gormDB *gorm.DB,
	logger logger.Interface,
) port.Repository {
	return &PortRepositoryImpl{
		db:     gormDB,
		mapper: mappers.NewPortMapper(),
		logger: logger,
	}
}

func (r *PortRepositoryImpl) Create(ctx context.Context, entity *port.Port) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		r.logger.Errorw("failed to map port entity to model", "error", err)
		return fmt.Errorf("failed to map port entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return fmt.Errorf("%w: %s", port.ErrInstanceURLExists, entity.InstanceURL())
		}
		r.logger.Errorw("failed to create port in database", "error", err)
		return fmt.Errorf("failed to create port: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set port ID", "error", err)
		return fmt.Errorf("failed to set port ID: %w", err)
	}

	r.logger.Infow("port created", "id", model.ID, "sid", model.SID, "instance_url", model.InstanceURL)
	return nil
}

func (r *PortRepositoryImpl) Update(ctx context.Context, entity *port.Port) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		r.logger.Errorw("failed to map port entity to model", "error", err)
		return fmt.Errorf("failed to map port entity: %w", err)
	}

	// Select forces NULLs through for cleared assignment columns.
	result := db.GetTxFromContext(ctx, r.db).Model(&models.PortModel{}).
		Where("id = ?", model.ID).
		Select("instance_url", "name", "region", "status",
			"assigned_subscription_id", "assigned_customer_id", "assigned_at",
			"version", "updated_at").
		Updates(model)
	if result.Error != nil {
		if apperrors.IsDuplicateError(result.Error) {
			return fmt.Errorf("%w: %s", port.ErrInstanceURLExists, entity.InstanceURL())
		}
		r.logger.Errorw("failed to update port", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update port: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return port.ErrPortNotFound
	}

	return nil
}

func (r *PortRepositoryImpl) Delete(ctx context.Context, portID uint) error {
	// Assigned ports must be released first; the condition keeps the check
	// and the delete in one statement.
	result := db.GetTxFromContext(ctx, r.db).
		Where("id = ? AND status <> ?", portID, vo.StatusAssigned.String()).
		Delete(&models.PortModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete port", "id", portID, "error", result.Error)
		return fmt.Errorf("failed to delete port: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.GetTxFromContext(ctx, r.db).Model(&models.PortModel{}).
			Where("id = ?", portID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check port existence: %w", err)
		}
		if count == 0 {
			return port.ErrPortNotFound
		}
		return port.ErrPortAssigned
	}

	r.logger.Infow("port deleted", "id", portID)
	return nil
}

func (r *PortRepositoryImpl) GetByID(ctx context.Context, portID uint) (*port.Port, error) {
	var model models.PortModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, portID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get port by ID", "id", portID, "error", err)
		return nil, fmt.Errorf("failed to get port: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *PortRepositoryImpl) GetBySID(ctx context.Context, sid string) (*port.Port, error) {
	var model models.PortModel

	if err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get port by SID", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get port: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *PortRepositoryImpl) GetBySubscriptionID(ctx context.Context, subscriptionID uint) (*port.Port, error) {
	var model models.PortModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("assigned_subscription_id = ?", subscriptionID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get port by subscription ID", "subscription_id", subscriptionID, "error", err)
		return nil, fmt.Errorf("failed to get port: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *PortRepositoryImpl) FindAvailable(ctx context.Context, limit int) ([]*port.Port, error) {
	var portModels []*models.PortModel

	query := db.GetTxFromContext(ctx, r.db).
		Where("status = ?", vo.StatusAvailable.String()).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&portModels).Error; err != nil {
		r.logger.Errorw("failed to find available ports", "error", err)
		return nil, fmt.Errorf("failed to find available ports: %w", err)
	}

	return r.mapper.ToEntities(portModels)
}

func (r *PortRepositoryImpl) CountAvailable(ctx context.Context) (int64, error) {
	var count int64

	err := db.GetTxFromContext(ctx, r.db).Model(&models.PortModel{}).
		Where("status = ?", vo.StatusAvailable.String()).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count available ports", "error", err)
		return 0, fmt.Errorf("failed to count available ports: %w", err)
	}

	return count, nil
}

// AssignAtomically is the compare-and-set at the heart of race-safe
// allocation: the WHERE clause re-checks availability inside the UPDATE
// itself, so of two concurrent allocators exactly one affects a row.
func (r *PortRepositoryImpl) AssignAtomically(ctx context.Context, portID, subscriptionID, customerID uint, at time.Time) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.PortModel{}).
		Where("id = ? AND status = ?", portID, vo.StatusAvailable.String()).
		Updates(map[string]interface{}{
			"status":                   vo.StatusAssigned.String(),
			"assigned_subscription_id": subscriptionID,
			"assigned_customer_id":     customerID,
			"assigned_at":              at,
			"version":                  gorm.Expr("version + 1"),
			"updated_at":               at,
		})
	if result.Error != nil {
		r.logger.Errorw("conditional port assignment failed",
			"port_id", portID, "subscription_id", subscriptionID, "error", result.Error)
		return false, fmt.Errorf("failed to assign port: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// ReleaseAtomically clears the assignment columns in one conditional update.
// Disabled ports never silently return to the pool.
func (r *PortRepositoryImpl) ReleaseAtomically(ctx context.Context, portID uint) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.PortModel{}).
		Where("id = ? AND status <> ?", portID, vo.StatusDisabled.String()).
		Updates(map[string]interface{}{
			"status":                   vo.StatusAvailable.String(),
			"assigned_subscription_id": nil,
			"assigned_customer_id":     nil,
			"assigned_at":              nil,
			"version":                  gorm.Expr("version + 1"),
			"updated_at":               time.Now().UTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("conditional port release failed", "port_id", portID, "error", result.Error)
		return false, fmt.Errorf("failed to release port: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *PortRepositoryImpl) ExistsByInstanceURL(ctx context.Context, instanceURL string) (bool, error) {
	var count int64

	err := db.GetTxFromContext(ctx, r.db).Model(&models.PortModel{}).
		Where("instance_url = ?", instanceURL).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to check instance URL existence", "instance_url", instanceURL, "error", err)
		return false, fmt.Errorf("failed to check instance URL: %w", err)
	}

	return count > 0, nil
}

func (r *PortRepositoryImpl) List(ctx context.Context, filter port.ListFilter) ([]*port.Port, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.PortModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Region != nil {
		query = query.Where("region = ?", *filter.Region)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR instance_url LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count ports", "error", err)
		return nil, 0, fmt.Errorf("failed to count ports: %w", err)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var portModels []*models.PortModel
	if err := query.Order("id ASC").Find(&portModels).Error; err != nil {
		r.logger.Errorw("failed to list ports", "error", err)
		return nil, 0, fmt.Errorf("failed to list ports: %w", err)
	}

	entities, err := r.mapper.ToEntities(portModels)
	if err != nil {
		return nil, 0, err
	}

	return entities, total, nil
}
