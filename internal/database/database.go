package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/invtrack/invtrack/internal/config"
	"github.com/invtrack/invtrack/internal/models"
)

// Open connects to the configured database and runs migrations.
// Postgres is the production driver; SQLite is supported for local
// development and tests (the DSN must enable foreign keys, e.g.
// "file:dev.db?_foreign_keys=on", so that category deletes cascade).
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch cfg.Driver {
	case "postgres", "":
		dial = postgres.Open(cfg.DSN)
	case "sqlite":
		dial = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema for all entities. Order matters:
// referenced tables first so the foreign keys can be created.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.GitHubConnection{},
		&models.Category{},
		&models.Item{},
	); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}
	return nil
}
