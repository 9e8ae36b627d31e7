package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmaceachern/jarvis-api/internal/config"
	"github.com/dmaceachern/jarvis-api/internal/logger"
	"github.com/dmaceachern/jarvis-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New creates a new database connection. The default store is a local
// sqlite file; a postgres:// DSN switches to the postgres driver for
// shared deployments.
func New(cfg *config.Config) (*gorm.DB, error) {
	return connectWithRetry(cfg.EnvVars.DatabaseURL)
}

func connectWithRetry(databaseURL string) (*gorm.DB, error) {
	logger.Get().Info("connecting to database", zap.String("url", databaseURL))
	var database *gorm.DB
	var err error

	start := time.Now()
	for {
		database, err = open(databaseURL)
		if err == nil {
			break
		}
		if time.Since(start) > 1*time.Minute {
			return nil, fmt.Errorf("could not connect to database after 1 minute: %w", err)
		}
		logger.Get().Warn("could not connect to database, retrying...", zap.Error(err))
		time.Sleep(5 * time.Second)
	}

	if err := database.AutoMigrate(
		&models.ConversationTurn{},
		&models.SystemEvent{},
	); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return database, nil
}

func open(databaseURL string) (*gorm.DB, error) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(strings.TrimPrefix(databaseURL, "file:")), &gorm.Config{})
}
