package main

import (
	"context"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"northwind-service/internal/handler"
	mid "northwind-service/internal/middleware"
	"northwind-service/internal/model"
	"northwind-service/internal/service"
	"northwind-service/internal/store"
	"northwind-service/pkg/cache"
	"northwind-service/pkg/config"
	"northwind-service/pkg/database"
	"northwind-service/pkg/jwtutil"
	"northwind-service/pkg/logger"
	"northwind-service/prometheus"
)

func main() {
	// Load .env file. Missing files are fine, production environments set
	// variables directly.
	_ = godotenv.Load()

	appConfig, err := config.Load("northwind-service")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting northwind-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	st := store.New(database.GetDB())

	ctx := context.Background()
	if err := st.Seed(ctx); err != nil {
		log.Fatal("Failed to seed reference data", zap.Error(err))
	}
	log.Info("Reference data ready")

	appCache, err := cache.New(ctx, &appConfig.Cache)
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}

	categoryService := service.NewCategoryService(st, appCache, log)
	productService := service.NewProductService(st, appCache, log)

	authHandler := handler.NewAuthHandler(st)
	categoryHandler := handler.NewCategoryHandler(categoryService, st)
	productHandler := handler.NewProductHandler(productService, st)
	supplierHandler := handler.NewSupplierHandler(st)

	e := echo.New()
	e.Validator = handler.NewValidator()

	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth routes
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/register", authHandler.Register)

	// Catalog reads are public; mutations need a valid token and deletes need
	// the admin role on top. The role check runs before any lookup, so a
	// role-less delete of a missing id is 403, not 404.
	auth := mid.AuthMiddleware
	admin := mid.RequireRole(model.RoleAdmin)

	// Product API routes
	productAPI := e.Group("/api/products")
	productAPI.GET("", productHandler.List)
	productAPI.GET("/search", productHandler.Search)
	productAPI.GET("/low-stock", productHandler.LowStock, auth)
	productAPI.GET("/:id", productHandler.Get)
	productAPI.POST("", productHandler.Create, auth)
	productAPI.PUT("/:id", productHandler.Update, auth)
	productAPI.POST("/:id/discontinue", productHandler.Discontinue, auth)
	productAPI.DELETE("/:id", productHandler.Delete, auth, admin)

	// Category API routes
	categoryAPI := e.Group("/api/categories")
	categoryAPI.GET("", categoryHandler.List)
	categoryAPI.GET("/:id", categoryHandler.Get)
	categoryAPI.POST("", categoryHandler.Create, auth)
	categoryAPI.PUT("/:id", categoryHandler.Update, auth)
	categoryAPI.DELETE("/:id", categoryHandler.Delete, auth, admin)

	// Supplier API routes
	supplierAPI := e.Group("/api/suppliers")
	supplierAPI.GET("", supplierHandler.List)
	supplierAPI.GET("/:id", supplierHandler.Get)
	supplierAPI.POST("", supplierHandler.Create, auth)
	supplierAPI.PUT("/:id", supplierHandler.Update, auth)
	supplierAPI.DELETE("/:id", supplierHandler.Delete, auth, admin)

	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
