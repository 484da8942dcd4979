package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/funtravel/tours-backend/internal/cache"
	"github.com/funtravel/tours-backend/internal/config"
	"github.com/funtravel/tours-backend/internal/database"
	"github.com/funtravel/tours-backend/internal/handlers"
	"github.com/funtravel/tours-backend/internal/middleware"
	"github.com/funtravel/tours-backend/internal/services"
	"github.com/funtravel/tours-backend/pkg/calcom"
	"github.com/funtravel/tours-backend/pkg/paypal"
	"github.com/funtravel/tours-backend/pkg/strapi"
	"github.com/funtravel/tours-backend/pkg/token"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting FunTravel Tours Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Optional redis-backed tour cache
	var tourCache *cache.TourCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.WithError(err).Warn("Redis unreachable, continuing without tour cache")
		} else {
			tourCache = cache.New(rdb, cfg.Redis.TourTTL, logger)
			logger.Infof("Tour cache enabled (TTL %s)", cfg.Redis.TourTTL)
		}
	} else {
		logger.Info("Tour cache disabled (REDIS_ADDR not set)")
	}

	// External service clients
	strapiClient := strapi.NewClient(cfg.Catalog.BaseURL)
	calcomClient := calcom.NewClient(calcom.Config{
		BaseURL:  cfg.Scheduling.BaseURL,
		APIKey:   cfg.Scheduling.APIKey,
		Username: cfg.Scheduling.Username,
		TimeZone: cfg.Scheduling.TimeZone,
	})
	paypalClient := paypal.NewClient(paypal.Config{
		BaseURL:      cfg.Payment.BaseURL,
		ClientID:     cfg.Payment.ClientID,
		ClientSecret: cfg.Payment.ClientSecret,
	})
	tokenService := token.NewService(cfg.Token.Secret, cfg.Token.Expiry)

	// Repositories
	customerRepo := database.NewCustomerRepository(db)
	cartRepo := database.NewCartRepository(db)
	orderRepo := database.NewOrderRepository(db)

	// Services
	logger.Info("Initializing services...")
	catalogService := services.NewCatalogService(strapiClient, tourCache, logger)
	availabilityService := services.NewAvailabilityService(calcomClient, logger)
	cartService := services.NewCartService(cartRepo, customerRepo, catalogService, logger)
	orderService := services.NewOrderService(orderRepo, cartRepo, catalogService, logger)
	paymentService := services.NewPaymentService(paypalClient, orderRepo, logger)
	reconcilerService := services.NewReconcilerService(orderRepo, customerRepo, catalogService, calcomClient, logger)
	syncService := services.NewSyncService(catalogService, calcomClient, logger)

	// Handlers
	cookieMaxAge := int(cfg.Token.Expiry / time.Second)
	cartHandler := handlers.NewCartHandler(cartService, tokenService, cfg.Token.CookieName, cookieMaxAge, logger)
	orderHandler := handlers.NewOrderHandler(orderService, paymentService, reconcilerService, logger)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService, logger)
	catalogHandler := handlers.NewCatalogHandler(catalogService, logger)
	syncHandler := handlers.NewSyncHandler(syncService, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	// CORS configuration. Credentials must be allowed for the identity cookie.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db.Ping))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.CustomerIdentity(tokenService, cfg.Token.CookieName, logger))
	{
		// Catalog passthroughs (public)
		v1.GET("/tours", catalogHandler.ListTours)
		v1.GET("/tours/:slug", catalogHandler.GetTour)
		v1.GET("/destinations", catalogHandler.ListDestinations)
		v1.GET("/destinations/:slug", catalogHandler.GetDestination)

		// Availability (public)
		v1.GET("/availability/:slug", availabilityHandler.IsAvailable)
		v1.GET("/availability/:slug/occupied", availabilityHandler.OccupiedDates)

		// Cart routes. Adding an item is open to anonymous requests and
		// issues the identity cookie; reads and removals need one.
		cart := v1.Group("/cart")
		{
			cart.POST("/items", cartHandler.UpsertItem)

			cartProtected := cart.Group("")
			cartProtected.Use(middleware.RequireCustomer())
			{
				cartProtected.GET("", cartHandler.GetCart)
				cartProtected.DELETE("/items/:item_id", cartHandler.RemoveItem)
			}
		}

		// Order routes (all require an identity)
		orders := v1.Group("/orders")
		orders.Use(middleware.RequireCustomer())
		{
			orders.POST("/checkout", orderHandler.Checkout)
			orders.GET("/draft", orderHandler.LatestDraft)
			orders.GET("/:order_id", orderHandler.GetOrder)
			orders.POST("/:order_id/confirm", orderHandler.Confirm)
			orders.DELETE("/:order_id", orderHandler.DiscardDraft)
		}

		// Catalog -> scheduling sync, triggered by the CMS webhook or by hand
		v1.POST("/sync/cal-com", syncHandler.Sync)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

// healthCheckHandler reports liveness plus database reachability
func healthCheckHandler(ping func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
