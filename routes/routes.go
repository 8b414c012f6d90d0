package routes

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"helpnet/config"
	"helpnet/controllers"
	"helpnet/interfaces"
	"helpnet/middleware"
	"helpnet/models"
	"helpnet/repositories"
	"helpnet/services"
	"helpnet/utils"
	"helpnet/websocket"
)

// SetupRoutes wires repositories, services and controllers and mounts the
// API under /api/v1.
func SetupRoutes(router *gin.Engine, db *mongo.Database, redisClient *redis.Client, hub *websocket.Hub, cfg *config.Config) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	emergencyRepo := repositories.NewEmergencyRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// External services. Push and SMS stay nil when unconfigured; delivery
	// falls back to the realtime bus only.
	externalTimeout := time.Duration(cfg.ExternalTimeout) * time.Second
	geocoder := services.NewGeocodingService(cfg.NominatimBaseURL, externalTimeout)
	routeEstimator := services.NewRoutingService(cfg.OSRMBaseURL, externalTimeout)

	var push interfaces.PushSender
	if cfg.FirebaseCredentials != "" {
		ps, err := services.NewPushService(cfg.FirebaseCredentials)
		if err != nil {
			logrus.Warnf("Push service disabled: %v", err)
		} else {
			push = ps
		}
	}

	var sms interfaces.SMSSender
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		sms = services.NewSMSService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
	}

	// Core services
	jwtService := utils.NewJWTService(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTL)*time.Minute,
		time.Duration(cfg.JWTRefreshTTL)*time.Hour,
	)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, hub, push, sms)
	registry := services.NewEmergencyRegistry(emergencyRepo)
	emergencyService := services.NewEmergencyService(registry, userRepo, notificationService, hub, geocoder, routeEstimator)
	authService := services.NewAuthService(userRepo, jwtService)
	userService := services.NewUserService(userRepo)

	// Controllers
	authController := controllers.NewAuthController(authService)
	userController := controllers.NewUserController(userService)
	emergencyController := controllers.NewEmergencyController(emergencyService)
	notificationController := controllers.NewNotificationController(notificationService)
	wsController := controllers.NewWebSocketController(hub)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(strings.Split(cfg.AllowedOrigins, ",")))
	router.Use(middleware.GlobalRateLimit(redisClient, cfg.RateLimitRequest, time.Duration(cfg.RateLimitWindow)*time.Minute))

	router.GET("/health", func(c *gin.Context) {
		active, sent, dropped := hub.Stats()
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
			Services: map[string]string{
				"database":  "up",
				"redis":     "up",
				"websocket": fmt.Sprintf("%d connections, %d sent, %d dropped", active, sent, dropped),
			},
			Version: "1.0.0",
		})
	})

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
	}

	users := v1.Group("/users", authMiddleware.RequireAuth())
	{
		users.GET("/me", userController.GetProfile)
		users.PUT("/me", userController.UpdateProfile)
	}

	v1.PUT("/location", authMiddleware.RequireAuth(), userController.UpdateLocation)

	emergency := v1.Group("/emergency", authMiddleware.RequireAuth())
	{
		emergency.POST("/create", middleware.EmergencyRateLimit(redisClient), emergencyController.CreateEmergency)
		emergency.GET("", emergencyController.ListEmergencies)
		emergency.GET("/active", emergencyController.ListActive)
		emergency.GET("/nearby", emergencyController.ListNearby)
		emergency.GET("/:emergencyId", emergencyController.GetEmergency)
		emergency.POST("/:emergencyId/respond", emergencyController.Respond)
		emergency.PATCH("/:emergencyId/status", emergencyController.UpdateStatus)
	}

	notifications := v1.Group("/notifications", authMiddleware.RequireAuth())
	{
		notifications.GET("", notificationController.ListNotifications)
		notifications.GET("/unread-count", notificationController.UnreadCount)
		notifications.PATCH("/read-all", notificationController.MarkAllAsRead)
		notifications.PATCH("/:notificationId/read", notificationController.MarkAsRead)
		notifications.POST("/devices", userController.RegisterDeviceToken)
		notifications.DELETE("/devices", userController.RemoveDeviceToken)
	}

	v1.GET("/ws", authMiddleware.RequireAuth(), wsController.Connect)
}
