package app

import (
	"net/http"
	"time"

	"bloodgroup/internal/config"
	"bloodgroup/internal/middleware"
	"bloodgroup/internal/modules/admin"
	"bloodgroup/internal/modules/auth"
	"bloodgroup/internal/modules/contact"
	"bloodgroup/internal/modules/prediction"
	"bloodgroup/internal/pkg/imaging"
	jwtsvc "bloodgroup/internal/pkg/jwt"
	"bloodgroup/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewRouter wires repositories, services and handlers into a gin engine.
// classifier may be unavailable; uploads are then stored unscored. rdb may be
// nil, which turns rate limiting off.
func NewRouter(cfg *config.Config, db *gorm.DB, classifier prediction.ImageClassifier, rdb *redis.Client) *gin.Engine {
	userRepo := repository.NewUserRepository(db)
	predictionRepo := repository.NewPredictionRepository(db)
	contactRepo := repository.NewContactRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService, cfg.JWTTTL, cfg.CookieSecure)

	pipeline := prediction.NewPipeline(
		imaging.NewDecoder(),
		classifier,
		prediction.NewDiskStore(cfg.UploadDir),
		prediction.NewRecorder(predictionRepo),
	)
	predictionService := prediction.NewService(pipeline, predictionRepo)
	predictionHandler := prediction.NewHandler(predictionService, cfg.StaticURLBase, cfg.MaxUploadBytes)

	contactHandler := contact.NewHandler(contact.NewService(contactRepo))

	adminService := admin.NewService(userRepo, predictionRepo)
	adminHandler := admin.NewHandler(adminService)

	var predictLimit, loginLimit *middleware.RedisLimiter
	if rdb != nil {
		predictLimit = middleware.NewRedisLimiter(rdb, "predict", cfg.PredictPerMinute, time.Minute)
		loginLimit = middleware.NewRedisLimiter(rdb, "login", cfg.LoginPerMinute, time.Minute)
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.Identify(j))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"model_loaded": predictionService.ModelAvailable(),
		})
	})

	r.Static(cfg.StaticURLBase, cfg.UploadDir)
	predictionHandler.RegisterUploadRedirect(r)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1, middleware.RateLimit(loginLimit))
		predictionHandler.RegisterRoutes(v1, middleware.RateLimit(predictLimit))
		contactHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.RequireAuth())
		{
			authHandler.RegisterProtectedRoutes(protected)
		}

		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.AdminOnly())
		{
			adminHandler.RegisterRoutes(adminGroup)
		}
	}

	return r
}
