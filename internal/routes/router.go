package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"device-lending-backend/internal/config"
	"device-lending-backend/internal/delivery/http/handler"
	"device-lending-backend/internal/geocode"
	"device-lending-backend/internal/infrastructure/database/postgres"
	"device-lending-backend/internal/logger"
	"device-lending-backend/internal/middleware"
	"device-lending-backend/internal/usecase/borrow"
	"device-lending-backend/internal/usecase/device"
	"device-lending-backend/internal/usecase/eligibility"
	"device-lending-backend/internal/usecase/location"
	"device-lending-backend/internal/usecase/user"
)

func SetupRoutes(cfg *config.Config, db *postgres.DB) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware order: recovery, request ID, logging, security headers,
	// CORS, request size limit, general rate limit.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(10 << 20))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	userRepository := postgres.NewUserRepository(db)
	locationRepository := postgres.NewLocationRepository(db)
	deviceRepository := postgres.NewDeviceRepository(db)
	borrowRepository := postgres.NewBorrowRepository(db)

	geocoder := geocode.NewClient(cfg.Eligibility.GeocoderURL, cfg.Eligibility.GeocoderAPIKey)
	eligibilityService := eligibility.NewService(
		geocoder,
		cfg.Eligibility.RadiusMiles,
		time.Duration(cfg.Eligibility.CacheTTLMinutes)*time.Minute,
	)
	eligibilityHandler := handler.NewEligibilityHandler(eligibilityService)

	userService := user.NewService(
		userRepository,
		borrowRepository,
		eligibilityService,
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.ExpiryHours)*time.Hour,
	)
	userHandler := handler.NewUserHandler(userService)

	locationService := location.NewService(locationRepository)
	locationHandler := handler.NewLocationHandler(locationService)

	deviceService := device.NewService(deviceRepository, locationRepository, borrowRepository)
	deviceHandler := handler.NewDeviceHandler(deviceService)

	borrowService := borrow.NewService(borrowRepository, deviceRepository, userRepository)
	borrowHandler := handler.NewBorrowHandler(borrowService)

	v1 := router.Group("/api/v1")
	{
		userHandler.RegisterPublicRoutes(v1)
		eligibilityHandler.RegisterRoutes(v1)
		locationHandler.RegisterRoutes(v1)
		deviceHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			userHandler.RegisterRoutes(protected)
			borrowHandler.RegisterRoutes(protected)

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				userHandler.RegisterAdminRoutes(admin)
				locationHandler.RegisterAdminRoutes(admin)
				deviceHandler.RegisterAdminRoutes(admin)
				borrowHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	logger.Info("All routes initialized")
	return router
}
