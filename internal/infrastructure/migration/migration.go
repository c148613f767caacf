package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/fixmysite/portal/internal/shared/logger"
)

// Manager runs one migration strategy and reports through the logger.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

func NewManager(driver string) (*Manager, error) {
	strategy, err := NewGooseStrategy(driver)
	if err != nil {
		return nil, err
	}
	return NewManagerWithStrategy(strategy), nil
}

func NewManagerWithStrategy(strategy Strategy) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   logger.WithComponent("migration.manager"),
	}
}

func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}

// Goose returns the strategy as a GooseStrategy when it is one, for the
// down and status commands.
func (m *Manager) Goose() (*GooseStrategy, bool) {
	g, ok := m.strategy.(*GooseStrategy)
	return g, ok
}
