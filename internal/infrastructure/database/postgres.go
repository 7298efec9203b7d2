package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/sangkips/retailpos-api/internal/config"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool, log *zap.Logger) (*gorm.DB, error) {
	db, err := Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), debug, log)
	if err != nil {
		return nil, err
	}

	log.Info("connected to PostgreSQL", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

// Open opens a gorm handle over any dialector. Bills are stored in UTC.
// SQL logging goes to log; lookups that find nothing are not errors here.
func Open(dialector gorm.Dialector, debug bool, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(zap.NewStdLog(log), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all tables
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		&entity.User{},
		&ItemModel{},
		&BillModel{},
		&BillItemModel{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// SeedDefaultData creates the configured manager account unless it exists.
func SeedDefaultData(db *gorm.DB, admin config.AdminConfig, log *zap.Logger) error {
	if admin.Username == "" || admin.Password == "" {
		log.Info("no admin credentials configured, skipping seed")
		return nil
	}

	var existing entity.User
	err := db.Where("username = ?", admin.Username).First(&existing).Error
	if err == nil {
		log.Info("admin user already exists", zap.String("username", admin.Username))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hashedPassword, err := utils.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	fullName := admin.FullName
	if fullName == "" {
		fullName = "Store Manager"
	}
	user := entity.User{
		Username: admin.Username,
		FullName: fullName,
		Password: hashedPassword,
		Role:     entity.RoleManager,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Info("admin user created", zap.String("username", admin.Username))
	return nil
}
