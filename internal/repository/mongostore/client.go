// Package mongostore хранит объявления в MongoDB.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ignatzorin/classifieds-backend/internal/logger"
)

const connectTimeout = 10 * time.Second

// Connect подключается к MongoDB и проверяет соединение.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: не удалось подключиться: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping не прошёл: %w", err)
	}

	logger.Log.Info("Подключение к MongoDB установлено")
	return client, nil
}

// EnsureIndexes создаёт индексы коллекции объявлений. Операция идемпотентна.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("ads_fulltext").SetDefaultLanguage("none"),
		},
		{
			Keys:    bson.D{{Key: "type", Value: 1}, {Key: "endDate", Value: 1}, {Key: "startDate", Value: -1}},
			Options: options.Index().SetName("ads_browse"),
		},
		{
			Keys:    bson.D{{Key: "owner", Value: 1}},
			Options: options.Index().SetName("ads_owner"),
		},
		{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("ads_tags"),
		},
		{
			Keys:    bson.D{{Key: "regions", Value: 1}},
			Options: options.Index().SetName("ads_regions"),
		},
	}

	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("mongo: не удалось создать индексы: %w", err)
	}
	return nil
}
