// Package app собирает инфраструктурные зависимости, общие для сервера и adsctl.
package app

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ignatzorin/classifieds-backend/internal/config"
	"github.com/ignatzorin/classifieds-backend/internal/logger"
	"github.com/ignatzorin/classifieds-backend/internal/repository"
	"github.com/ignatzorin/classifieds-backend/internal/repository/mongostore"
	"github.com/ignatzorin/classifieds-backend/internal/service"
	"github.com/ignatzorin/classifieds-backend/internal/storage"
	"github.com/ignatzorin/classifieds-backend/migrations"
)

// MigrationsFS возвращает каталог миграций с диска или встроенный набор.
func MigrationsFS(cfg *config.Config) fs.FS {
	if cfg.MigrationsPath == "" {
		return migrations.FS
	}
	return os.DirFS(cfg.MigrationsPath)
}

// AdStore выбирает хранилище объявлений по AD_STORE.
// Для MongoDB возвращается клиент, который вызывающий обязан закрыть.
func AdStore(ctx context.Context, cfg *config.Config, db *sqlx.DB) (service.AdStore, *mongo.Client, error) {
	if cfg.AdStore != config.AdStoreMongo {
		return repository.NewAdRepository(db), nil, nil
	}

	client, err := mongostore.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}

	store := mongostore.NewAdStore(client, cfg.MongoDatabase)
	if err := mongostore.EnsureIndexes(ctx, store.Collection()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return store, client, nil
}

// MediaStore выбирает хранилище загрузок по MEDIA_BACKEND.
func MediaStore(cfg *config.Config) (storage.MediaStore, error) {
	if cfg.MediaBackend == config.MediaBackendS3 {
		return storage.NewS3Storage(storage.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
		}, cfg.MaxUploadSizeMB)
	}
	return storage.NewPhotoStorage(cfg.MediaStoragePath, "/media", cfg.MaxUploadSizeMB)
}

// Redis подключается к Redis, если задан REDIS_URL. Без него возвращается nil.
func Redis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: некорректный REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping не прошёл: %w", err)
	}

	logger.Log.Info("Подключение к Redis установлено")
	return client, nil
}
