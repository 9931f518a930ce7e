package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"northwind-service/internal/model"
	"northwind-service/pkg/config"
)

var db *gorm.DB

// InitDB initializes the database connection with configuration and runs
// migrations. Transient connect failures are retried with a doubling backoff
// bounded by the configured cap.
func InitDB(config *config.Config) error {
	dsn := config.DB.GetDSN()

	pgConfig := postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	var err error
	backoff := time.Second
	for attempt := 0; ; attempt++ {
		db, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
			Logger: logger.Default.LogMode(config.DB.LogLevel),
		})
		if err == nil {
			break
		}
		if attempt >= config.DB.ConnectRetries {
			return fmt.Errorf("failed to connect to database after %d attempts: %w", attempt+1, err)
		}
		time.Sleep(backoff)
		backoff *= 2
		if backoff > config.DB.RetryBackoffCap {
			backoff = config.DB.RetryBackoffCap
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	// Set connection pool settings from config
	sqlDB.SetMaxIdleConns(config.DB.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.DB.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.DB.ConnMaxLifetime)

	// Run migrations
	if err := db.AutoMigrate(
		&model.Category{},
		&model.Supplier{},
		&model.Product{},
		&model.User{},
	); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}
