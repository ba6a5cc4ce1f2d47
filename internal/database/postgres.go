package database

import (
	"fmt"
	"time"

	"github.com/dsaheb/dsahebapi/internal/config"
	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to PostgreSQL and, when enabled, migrates the listing schema.
func Open(cfg config.PostgresConfig, logger *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		logger.Info("Database schema migrated")
	}

	logger.Info("Database connected")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.State{},
		&models.City{},
		&models.Location{},
		&models.Service{},
		&models.Specialization{},
		&models.University{},
		&models.College{},
		&models.Degree{},
		&models.Membership{},
		&models.Registration{},
		&models.Education{},
		&models.Training{},
		&models.Experience{},
		&models.RegistrationEntry{},
		&models.Listing{},
		&models.Availability{},
		&models.Unavailability{},
		&models.Review{},
		&models.PatientProfile{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
