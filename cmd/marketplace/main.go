package main

import (
	"github.com/sirsasha78/AdMarketplace/internal/handler"
	mid "github.com/sirsasha78/AdMarketplace/internal/middleware"
	"github.com/sirsasha78/AdMarketplace/internal/model"
	"github.com/sirsasha78/AdMarketplace/internal/repository"
	"github.com/sirsasha78/AdMarketplace/internal/usecase"
	"github.com/sirsasha78/AdMarketplace/pkg/config"
	"github.com/sirsasha78/AdMarketplace/pkg/database"
	"github.com/sirsasha78/AdMarketplace/pkg/jwtutil"
	"github.com/sirsasha78/AdMarketplace/pkg/logger"
	"github.com/sirsasha78/AdMarketplace/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting marketplace backend",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	db, err := database.InitDB(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(db,
		&model.User{},
		&model.Seller{},
		&model.Category{},
		&model.Announcement{},
		&model.ShippingAddress{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database migrations completed")

	// Repositories
	users := repository.NewSoftDelete[model.User](db)
	announcements := repository.NewSoftDelete[model.Announcement](db)
	sellers := repository.New[model.Seller](db)
	categories := repository.New[model.Category](db)
	addresses := repository.New[model.ShippingAddress](db)

	// Services and handlers
	userService := usecase.NewUserUsecase(users)
	authHandler := handler.NewAuthHandler(userService)
	userHandler := handler.NewUserHandler(users, sellers, addresses, db, appConfig)
	sellerHandler := handler.NewSellerHandler(sellers, users)
	categoryHandler := handler.NewCategoryHandler(categories, announcements, db, appConfig)
	announcementHandler := handler.NewAnnouncementHandler(announcements, categories, sellers, appConfig)
	addressHandler := handler.NewAddressHandler(addresses)
	healthHandler := handler.NewHealthHandler(db)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", healthHandler.HealthCheck)

	// Auth routes
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)

	// Public catalogue routes
	e.GET("/api/categories", categoryHandler.ListCategories)
	e.GET("/api/categories/:slug", categoryHandler.GetCategory)
	e.GET("/api/announcements", announcementHandler.ListAnnouncements)
	e.GET("/api/announcements/:slug", announcementHandler.GetAnnouncement)
	e.GET("/api/sellers", sellerHandler.ListSellers)
	e.GET("/api/sellers/:slug", sellerHandler.GetSeller)

	// Authenticated routes
	userAPI := e.Group("/api/users", mid.AuthMiddleware)
	userAPI.GET("/me", userHandler.Me)
	userAPI.POST("/me/avatar", userHandler.UploadAvatar)
	userAPI.DELETE("/me", userHandler.Deactivate)

	addressAPI := e.Group("/api/addresses", mid.AuthMiddleware)
	addressAPI.GET("", addressHandler.ListAddresses)
	addressAPI.POST("", addressHandler.CreateAddress)
	addressAPI.PUT("/:id", addressHandler.UpdateAddress)
	addressAPI.DELETE("/:id", addressHandler.DeleteAddress)

	sellerAPI := e.Group("/api/sellers", mid.AuthMiddleware)
	sellerAPI.POST("/apply", sellerHandler.ApplyAsSeller)
	sellerAPI.PUT("/me", sellerHandler.UpdateSellerProfile)

	announcementAPI := e.Group("/api/announcements", mid.AuthMiddleware)
	announcementAPI.POST("", announcementHandler.CreateAnnouncement)
	announcementAPI.DELETE("/:slug", announcementHandler.DeleteAnnouncement)

	// Administrative routes
	adminAPI := e.Group("/api/admin", mid.AuthMiddleware, mid.RequireAdmin)
	adminAPI.GET("/users", userHandler.ListUsers)
	adminAPI.POST("/users/:id/restore", userHandler.RestoreUser)
	adminAPI.DELETE("/users/:id", userHandler.PurgeUser)
	adminAPI.GET("/announcements", announcementHandler.ListAllAnnouncements)
	adminAPI.POST("/announcements/:slug/restore", announcementHandler.RestoreAnnouncement)
	adminAPI.DELETE("/announcements/:slug", announcementHandler.PurgeAnnouncement)
	adminAPI.POST("/sellers/:slug/approve", sellerHandler.ApproveSeller)
	adminAPI.POST("/categories", categoryHandler.CreateCategory)
	adminAPI.PUT("/categories/:slug", categoryHandler.UpdateCategory)
	adminAPI.DELETE("/categories/:slug", categoryHandler.DeleteCategory)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
