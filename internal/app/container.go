package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/retailpos-api/internal/application/service"
	"github.com/sangkips/retailpos-api/internal/config"
	"github.com/sangkips/retailpos-api/internal/infrastructure/database"
	"github.com/sangkips/retailpos-api/internal/infrastructure/repository"
	"github.com/sangkips/retailpos-api/internal/presentation/http/handler"
	"github.com/sangkips/retailpos-api/internal/presentation/http/middleware"
	"github.com/sangkips/retailpos-api/internal/presentation/http/routes"
	"github.com/sangkips/retailpos-api/internal/scheduler"
	"github.com/sangkips/retailpos-api/pkg/email"
	"github.com/sangkips/retailpos-api/pkg/logger"
	"github.com/sangkips/retailpos-api/pkg/printer"
	"github.com/sangkips/retailpos-api/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Version is reported by /health
const Version = "1.0.0"

// Container holds the process-wide resources and the services built on them.
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Pool   *database.ConnPool

	Inventory *service.InventoryService
	Reports   *service.ReportService
	Orders    *service.OnlineOrderService
	Printer   *service.PrinterService
	Users     *service.UserService
	Auth      *service.AuthService

	Router *gin.Engine

	orm         *gorm.DB
	ownsDB      bool
	scheduler   *scheduler.Scheduler
	rateLimiter *middleware.ClientRateLimiter
	stopLimiter context.CancelFunc
	thermal     printer.Printer
}

// Open connects to PostgreSQL and builds the container on it.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Container, error) {
	orm, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, logger.Named(log, "database"))
	if err != nil {
		return nil, err
	}
	c, err := New(ctx, cfg, orm, log)
	if err != nil {
		if sqlDB, dbErr := orm.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	c.ownsDB = true
	return c, nil
}

// New migrates orm, seeds the manager account and wires every component.
func New(ctx context.Context, cfg *config.Config, orm *gorm.DB, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Container{Config: cfg, Logger: log, orm: orm}

	if err := database.AutoMigrate(orm, logger.Named(log, "database")); err != nil {
		return nil, err
	}
	if err := database.SeedDefaultData(orm, cfg.Admin, logger.Named(log, "database")); err != nil {
		log.Warn("failed to seed default data", zap.Error(err))
	}

	sqlDB, err := orm.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	c.Pool, err = database.NewConnPool(ctx, sqlDB, cfg.Pool, logger.Named(log, "pool"))
	if err != nil {
		return nil, err
	}
	tx := database.NewTxManager(orm, c.Pool, logger.Named(log, "tx"))

	items := repository.NewItemRepository(tx)
	bills := repository.NewBillRepository(tx)
	users := repository.NewUserRepository(tx)

	last, err := bills.MaxBillNumber(ctx)
	if err != nil {
		_ = c.Pool.Shutdown(ctx)
		return nil, err
	}

	c.thermal, err = printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Warn("failed to initialize printer, receipts will not be printed", zap.Error(err))
		c.thermal = printer.NewMemoryPrinter()
	}

	var sender email.Sender = email.NewNoopSender()
	if cfg.Email.Enabled() {
		sender = email.NewEmailService(email.EmailConfig{
			SMTPHost:     cfg.Email.SMTPHost,
			SMTPPort:     cfg.Email.SMTPPort,
			SMTPUsername: cfg.Email.SMTPUsername,
			SMTPPassword: cfg.Email.SMTPPassword,
			FromName:     cfg.Email.FromName,
			FromEmail:    cfg.Email.FromEmail,
		})
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	c.Inventory = service.NewInventoryService(tx, items, bills, service.NewBillSequence(last), logger.Named(log, "inventory"))
	c.Reports = service.NewReportService(items, bills, cfg.Store)
	c.Orders = service.NewOnlineOrderService(bills, sender, cfg.Store.Name, logger.Named(log, "orders"))
	c.Users = service.NewUserService(users, logger.Named(log, "users"))
	c.Auth = service.NewAuthService(users, jwtManager, logger.Named(log, "auth"))
	c.Printer = service.NewPrinterService(c.thermal, bills, c.Users, cfg.Store, cfg.Printer, logger.Named(log, "printer"))

	if cfg.Scheduler.Enabled {
		c.scheduler = scheduler.NewScheduler(cfg.Scheduler, c.Reports, c.Inventory, logger.Named(log, "scheduler"))
		if err := c.scheduler.Start(); err != nil {
			_ = c.Pool.Shutdown(ctx)
			return nil, err
		}
	}

	c.rateLimiter = middleware.NewClientRateLimiter(cfg.RateLimit)
	limiterCtx, stop := context.WithCancel(context.Background())
	c.stopLimiter = stop
	go c.rateLimiter.Run(limiterCtx, 5*time.Minute)

	c.Router = routes.Setup(&routes.Handlers{
		Auth:      handler.NewAuthHandler(c.Auth),
		User:      handler.NewUserHandler(c.Users),
		Inventory: handler.NewInventoryHandler(c.Inventory),
		Sale:      handler.NewSaleHandler(c.Inventory, c.Reports, c.Orders, c.Printer),
		Report:    handler.NewReportHandler(c.Reports),
		Printer:   handler.NewPrinterHandler(c.Printer),
		Health:    handler.NewHealthHandler(c.Pool, Version),
	}, &routes.Deps{
		JWTManager:  jwtManager,
		Cfg:         cfg,
		Log:         logger.Named(log, "http"),
		RateLimiter: c.rateLimiter,
	})

	log.Info("container ready",
		zap.Int64("last_bill_number", last),
		zap.String("printer", cfg.Printer.Type),
		zap.Bool("email", cfg.Email.Enabled()),
		zap.Bool("scheduler", cfg.Scheduler.Enabled),
	)
	return c, nil
}

// Shutdown stops the background jobs and releases every pooled connection.
func (c *Container) Shutdown(ctx context.Context) {
	c.Logger.Info("shutting down")

	if c.scheduler != nil {
		c.scheduler.Stop(ctx)
	}
	if c.stopLimiter != nil {
		c.stopLimiter()
	}
	if c.thermal != nil {
		if err := c.thermal.Close(); err != nil {
			c.Logger.Error("failed to close printer", zap.Error(err))
		}
	}
	if err := c.Pool.Shutdown(ctx); err != nil {
		c.Logger.Error("failed to shut down connection pool", zap.Error(err))
	}
	if c.ownsDB {
		if sqlDB, err := c.orm.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				c.Logger.Error("failed to close database", zap.Error(err))
			}
		}
	}
}
