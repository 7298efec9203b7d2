package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/retailpos-api/internal/config"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/presentation/http/handler"
	"github.com/sangkips/retailpos-api/internal/presentation/http/middleware"
	"github.com/sangkips/retailpos-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Inventory *handler.InventoryHandler
	Sale      *handler.SaleHandler
	Report    *handler.ReportHandler
	Printer   *handler.PrinterHandler
	Health    *handler.HealthHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager  *utils.JWTManager
	Cfg         *config.Config
	Log         *zap.Logger
	RateLimiter *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Health)

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		public.Use(deps.RateLimiter.Middleware())
		public.POST("/auth/login", h.Auth.Login)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(deps.RateLimiter.Middleware())

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerProtectedRoutes(rg *gin.RouterGroup, h *Handlers) {
	manager := middleware.RequireRole(entity.RoleManager)

	auth := rg.Group("/auth")
	{
		auth.GET("/me", h.Auth.Me)
		auth.POST("/change-password", h.Auth.ChangePassword)
	}

	users := rg.Group("/users", manager)
	{
		users.GET("", h.User.ListUsers)
		users.POST("", h.User.CreateUser)
	}

	items := rg.Group("/items")
	{
		items.GET("", h.Inventory.ListAvailable)
		items.GET("/:code/availability", h.Inventory.Availability)
		items.POST("/stock", manager, h.Inventory.AddStock)
		items.POST("/:code/shelve", h.Inventory.Shelve)
	}

	rg.POST("/sales", h.Sale.CreateSale)

	bills := rg.Group("/bills")
	{
		bills.GET("", h.Sale.ListBills)
		bills.GET("/:number/receipt", h.Printer.Receipt)
		bills.POST("/:number/online", h.Sale.PlaceOnlineOrder)
		bills.POST("/:number/print", h.Printer.PrintBill)
	}

	reports := rg.Group("/reports", manager)
	{
		reports.GET("/daily", h.Report.DailySales)
		reports.GET("/reorder", h.Report.Reorder)
		reports.GET("/stock", h.Report.Stock)
		reports.GET("/expiring", h.Report.Expiring)
	}

	printer := rg.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}
}
