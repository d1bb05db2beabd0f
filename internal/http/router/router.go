package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/classifieds-backend/internal/config"
	"github.com/ignatzorin/classifieds-backend/internal/http/handlers"
	"github.com/ignatzorin/classifieds-backend/internal/http/middleware"
)

// authAttemptsLimit ограничивает попытки входа и регистрации сильнее общего лимита.
const authAttemptsLimit = 5

// Handlers собирает все обработчики, которые публикует роутер.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Ads        *handlers.AdHandler
	Moderation *handlers.ModerationHandler
	Reviews    *handlers.ReviewHandler
	Payments   *handlers.PaymentHandler
	Media      *handlers.MediaHandler
	WS         *handlers.WSHandler
	Health     *handlers.HealthHandler
}

func SetupRouter(
	cfg *config.Config,
	h Handlers,
	tokens middleware.AccessTokenParser,
	limitStore limiter.Store,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	if cfg.MediaBackend == config.MediaBackendLocal {
		r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))
	}

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(limitStore, "api", cfg.RateLimitLimit, cfg.RateLimitPeriod))

	api.GET("/ws", h.WS.Handle)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(limitStore, "auth", authAttemptsLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
	}

	// Публичная выдача.
	api.GET("/ads", h.Ads.Browse)
	api.GET("/ads/filter", h.Ads.Filter)
	api.GET("/ads/:id", h.Ads.Get)
	api.GET("/ads/:id/reviews", h.Reviews.List)

	// Вебхук провайдера подписан HMAC, токен пользователя не нужен.
	api.POST("/payments/webhook", h.Payments.Webhook)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		protected.GET("/profile", h.Auth.Profile)

		protected.GET("/ads/my", h.Ads.MyAds)
		protected.POST("/ads", h.Ads.Create)
		protected.PUT("/ads/:id", h.Ads.Update)
		protected.DELETE("/ads/:id", h.Ads.Delete)
		protected.PUT("/ads/:id/active", h.Ads.SetActive)
		protected.POST("/ads/:id/renew", h.Ads.Renew)
		protected.POST("/ads/:id/boost", h.Ads.Boost)
		protected.POST("/ads/:id/reviews", h.Reviews.Create)

		protected.POST("/media/photos", h.Media.UploadPhoto)

		protected.GET("/payments/balance", h.Payments.Balance)
		protected.GET("/payments/transactions", h.Payments.Transactions)
	}

	admin := protected.Group("/admin")
	admin.Use(middleware.AdminOnly())
	{
		admin.GET("/ads/pending", h.Moderation.ListPending)
		admin.PUT("/ads/:id/approve", h.Moderation.Approve)
		admin.PUT("/ads/:id/reject", h.Moderation.Reject)

		admin.PUT("/reviews/:id/approve", middleware.UUIDValidator("id"), h.Reviews.Approve)
		admin.DELETE("/reviews/:id", middleware.UUIDValidator("id"), h.Reviews.Reject)
	}

	return r
}
