package migration

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"urbanincidents/internal/infrastructure/persistence/models"
	"urbanincidents/internal/infrastructure/persistence/seeds"
	"urbanincidents/internal/shared/constants"
	"urbanincidents/internal/shared/logger"
)

// GormAutoMigrateStrategy derives the schema from the persistence models and
// seeds the default catalog. It creates no foreign keys, so concurrent type
// deletion is only guarded by the reference check; use goose outside
// development.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy(log logger.Interface) *GormAutoMigrateStrategy {
	return &GormAutoMigrateStrategy{
		logger: log.With("component", "migration.auto"),
	}
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return constants.MigrationStrategyAuto
}

func (s *GormAutoMigrateStrategy) Migrate(ctx context.Context, db *gorm.DB) error {
	all := models.AllModels()
	s.logger.Infow("running gorm auto migrate", "models_count", len(all))

	tx := db.WithContext(ctx)
	if err := tx.AutoMigrate(all...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	if err := seeds.SeedIncidentTypes(tx); err != nil {
		return fmt.Errorf("failed to seed incident types: %w", err)
	}
	return nil
}
