package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/classifieds-backend/internal/app"
	"github.com/ignatzorin/classifieds-backend/internal/config"
	"github.com/ignatzorin/classifieds-backend/internal/db"
	httpHandlers "github.com/ignatzorin/classifieds-backend/internal/http/handlers"
	"github.com/ignatzorin/classifieds-backend/internal/http/middleware"
	httpRouter "github.com/ignatzorin/classifieds-backend/internal/http/router"
	"github.com/ignatzorin/classifieds-backend/internal/logger"
	"github.com/ignatzorin/classifieds-backend/internal/repository"
	"github.com/ignatzorin/classifieds-backend/internal/service"
	"github.com/ignatzorin/classifieds-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	applied, err := db.RunMigrations(ctx, dbConn, app.MigrationsFS(cfg))
	if err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}
	if len(applied) > 0 {
		logger.Log.WithField("migrations", applied).Info("Миграции применены")
	}

	adStore, mongoClient, err := app.AdStore(ctx, cfg, dbConn)
	if err != nil {
		log.Fatalf("main: ошибка подключения хранилища объявлений: %v", err)
	}
	if mongoClient != nil {
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				logger.Log.WithError(err).Warn("Ошибка отключения от MongoDB")
			}
		}()
	}

	redisClient, err := app.Redis(ctx, cfg)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	limitStore, err := middleware.NewRateLimitStore(redisClient)
	if err != nil {
		log.Fatalf("main: %v", err)
	}

	mediaStore, err := app.MediaStore(cfg)
	if err != nil {
		log.Fatalf("main: не удалось подготовить хранилище медиа: %v", err)
	}

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run(ctx)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	paymentRepo := repository.NewPaymentRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)

	// Сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := service.NewAuthService(userRepo, tokenManager)
	adService := service.NewAdService(adStore, mediaStore, cfg.DefaultAdDurationDays)
	moderationService := service.NewModerationService(adStore, mediaStore, hub, cfg.DefaultAdDurationDays)
	boostService := service.NewBoostService(adStore, paymentRepo, cfg.PremiumDayPrice)
	paymentService := service.NewPaymentService(paymentRepo, cfg.PaymentWebhookSecret)
	reviewService := service.NewReviewService(reviewRepo, adStore, hub)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, httpRouter.Handlers{
		Auth:       httpHandlers.NewAuthHandler(authService),
		Ads:        httpHandlers.NewAdHandler(adService, boostService),
		Moderation: httpHandlers.NewModerationHandler(moderationService),
		Reviews:    httpHandlers.NewReviewHandler(reviewService),
		Payments:   httpHandlers.NewPaymentHandler(paymentService),
		Media:      httpHandlers.NewMediaHandler(mediaStore),
		WS:         httpHandlers.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins),
		Health:     httpHandlers.NewHealthHandler(dbConn, mongoClient),
	}, tokenManager, limitStore)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("Ошибка остановки http сервера")
		}
	}()

	logger.Log.WithField("port", cfg.HTTPPort).WithField("ad_store", cfg.AdStore).Info("HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
