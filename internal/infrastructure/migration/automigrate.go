package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/fixmysite/portal/internal/infrastructure/persistence/models"
	"github.com/fixmysite/portal/internal/shared/logger"
)

// GormAutoMigrateStrategy builds the schema from the persistence models.
// Used for throwaway SQLite databases.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy() *GormAutoMigrateStrategy {
	return &GormAutoMigrateStrategy{logger: logger.WithComponent("migration.automigrate")}
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	all := models.All()
	if err := db.AutoMigrate(all...); err != nil {
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}
	s.logger.Infow("auto-migration completed", "models_count", len(all))
	return nil
}
