package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/berth/internal/infrastructure/persistence/models"
	"github.com/orris-inc/berth/internal/shared/logger"
)

// AutoMigrateModels returns the full model set in dependency order.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.PortModel{},
		&models.SubscriptionModel{},
		&models.OrderModel{},
		&models.AllocationLogModel{},
	}
}

// GormAutoMigrateStrategy migrates the schema straight from the model
// definitions. Development use only.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy() Strategy {
	return &GormAutoMigrateStrategy{
		logger: logger.NewLogger().With("component", "migration.gorm"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB, models ...interface{}) error {
	if len(models) == 0 {
		models = AutoMigrateModels()
	}

	s.logger.Infow("starting gorm auto migration", "models_count", len(models))

	if err := db.AutoMigrate(models...); err != nil {
		s.logger.Errorw("auto migration failed", "error", err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	s.logger.Infow("auto migration completed successfully")
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
