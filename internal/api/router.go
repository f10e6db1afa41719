package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/IamAKX/propso-v2-sub000/internal/api/handlers"
	"github.com/IamAKX/propso-v2-sub000/internal/api/middleware"
	"github.com/IamAKX/propso-v2-sub000/internal/captcha"
	"github.com/IamAKX/propso-v2-sub000/internal/config"
	"github.com/IamAKX/propso-v2-sub000/internal/services"
	"github.com/IamAKX/propso-v2-sub000/internal/storage"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, taskClient *asynq.Client) *gin.Engine {
	objectStorage, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatalf("CRITICAL: Failed to initialize S3 storage for API: %v", err)
	}

	cleanupService := services.NewCleanupService(db, objectStorage)
	propertyService := services.NewPropertyService(db, cfg, rdb, objectStorage, cleanupService)
	leadService := services.NewLeadService(db, cfg)
	favoriteService := services.NewFavoriteService(db)
	userService := services.NewUserService(db, cfg)
	settingsService := services.NewSettingsService(db, cfg, rdb)

	captchaVerifier := captcha.NewTurnstileVerifier(cfg)
	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)

	r := gin.Default()
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	propertyHandler := handlers.NewRestPropertyHandler(propertyService)
	leadHandler := handlers.NewRestLeadHandler(leadService, taskClient)
	favoriteHandler := handlers.NewRestFavoriteHandler(favoriteService)
	userHandler := handlers.NewRestUserHandler(userService, cfg)
	uploadHandler := handlers.NewRestUploadHandler(objectStorage, propertyService, taskClient)
	configHandler := handlers.NewRestConfigHandler(settingsService)

	v1 := r.Group("/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})
		v1.GET("/config", configHandler.GetConfig)

		v1.GET("/property/search", propertyHandler.SearchProperties)
		v1.GET("/property/:id", middleware.OptionalAuthMiddleware(cfg.JwtSecret), propertyHandler.GetProperty)

		// Lead capture serves anonymous visitors behind a captcha check and
		// authenticated users without one.
		v1.POST("/lead",
			middleware.OptionalAuthMiddleware(cfg.JwtSecret),
			middleware.RequireCaptcha(captchaVerifier),
			leadHandler.CreateLead)

		v1.POST("/user/register", middleware.RequireCaptcha(captchaVerifier), userHandler.Register)
		v1.POST("/user/login", userHandler.Login)

		authRequired := v1.Group("/")
		authRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret))
		{
			authRequired.POST("/property", propertyHandler.CreateProperty)
			authRequired.PATCH("/property/:id", propertyHandler.UpdateProperty)
			authRequired.POST("/property/:id/sold", propertyHandler.MarkPropertySold)
			authRequired.POST("/property/:id/media", propertyHandler.AddPropertyMedia)
			authRequired.DELETE("/property/:id/media/:file_id", propertyHandler.RemovePropertyMedia)
			authRequired.GET("/my/properties", propertyHandler.ListMyProperties)
			authRequired.GET("/my/leads", leadHandler.ListMyLeads)

			authRequired.GET("/lead/:id", leadHandler.GetLead)
			authRequired.POST("/lead/:id/status", leadHandler.SetLeadStatus)
			authRequired.POST("/lead/:id/comment", leadHandler.AddLeadComment)
			authRequired.DELETE("/lead/:id", leadHandler.DeleteLead)

			authRequired.GET("/favorite", favoriteHandler.ListFavorites)
			authRequired.PUT("/favorite/:id", favoriteHandler.AddFavorite)
			authRequired.DELETE("/favorite/:id", favoriteHandler.RemoveFavorite)

			authRequired.POST("/upload/presign", uploadHandler.PresignUpload)
			authRequired.POST("/upload/confirm", uploadHandler.ConfirmUpload)

			authRequired.GET("/user/me", userHandler.GetProfile)
			authRequired.POST("/user/:id/kyc", userHandler.AddKycDocument)
			authRequired.DELETE("/user/:id", userHandler.DeleteUser)
		}

		adminRequired := v1.Group("/admin")
		adminRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret), middleware.AdminMiddleware())
		{
			adminRequired.GET("/property/pending", propertyHandler.ListPendingProperties)
			adminRequired.POST("/property/:id/approve", propertyHandler.ApproveProperty)
			adminRequired.DELETE("/property/:id", propertyHandler.RejectProperty)

			adminRequired.GET("/lead", leadHandler.ListAllLeads)

			adminRequired.POST("/user/:id/verify", userHandler.VerifyUser)
			adminRequired.POST("/user/:id/status", userHandler.SetUserStatus)

			adminRequired.PUT("/config/:key", configHandler.SetSetting)
		}
	}

	return r
}
