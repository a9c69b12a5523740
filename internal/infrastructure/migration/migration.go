package migration

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"urbanincidents/internal/shared/constants"
	"urbanincidents/internal/shared/logger"
)

// Manager runs the configured migration strategy.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks the strategy by name; an empty name selects goose.
func NewManager(strategyName string, log logger.Interface) (*Manager, error) {
	var strategy Strategy
	switch strategyName {
	case constants.MigrationStrategyGoose, "":
		strategy = NewGooseStrategy(log)
	case constants.MigrationStrategyAuto:
		strategy = NewGormAutoMigrateStrategy(log)
	default:
		return nil, fmt.Errorf("unknown migration strategy: %q", strategyName)
	}
	return NewManagerWithStrategy(strategy, log), nil
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(ctx context.Context, db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(ctx, db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
