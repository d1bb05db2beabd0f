package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/repository"
)

// CollectionName: коллекция объявлений.
const CollectionName = "ads"

// adDocument: документ коллекции ads. Отсутствующие даты и флаги не пишутся.
type adDocument struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty"`
	Owner                  string             `bson:"owner"`
	Type                   int                `bson:"type"`
	Title                  string             `bson:"title"`
	Description            string             `bson:"description"`
	Price                  float64            `bson:"price"`
	Images                 []string           `bson:"images"`
	Tags                   []int64            `bson:"tags"`
	Regions                []int64            `bson:"regions"`
	Offers                 []int64            `bson:"offers"`
	StartDate              *time.Time         `bson:"startDate,omitempty"`
	EndDate                *time.Time         `bson:"endDate,omitempty"`
	Active                 *bool              `bson:"active,omitempty"`
	PremiumEndDate         *time.Time         `bson:"premiumEndDate,omitempty"`
	Verified               *bool              `bson:"verified,omitempty"`
	VerificationAttachment *string            `bson:"verificationAttachment,omitempty"`
	DurationDays           int                `bson:"durationDays"`
	AverageRating          float64            `bson:"averageRating"`
	CreatedAt              time.Time          `bson:"createdAt"`
	UpdatedAt              time.Time          `bson:"updatedAt"`
}

func fromModel(ad *models.Ad) adDocument {
	return adDocument{
		Owner:                  ad.OwnerID.String(),
		Type:                   ad.Type,
		Title:                  ad.Title,
		Description:            ad.Description,
		Price:                  ad.Price,
		Images:                 orEmpty(ad.Images),
		Tags:                   orEmpty(ad.Tags),
		Regions:                orEmpty(ad.Regions),
		Offers:                 orEmpty(ad.Offers),
		StartDate:              ad.StartDate,
		EndDate:                ad.EndDate,
		Active:                 ad.Active,
		PremiumEndDate:         ad.PremiumEndDate,
		Verified:               ad.Verified,
		VerificationAttachment: ad.VerificationAttachment,
		DurationDays:           ad.DurationDays,
		AverageRating:          ad.AverageRating,
		CreatedAt:              ad.CreatedAt,
		UpdatedAt:              ad.UpdatedAt,
	}
}

func (d adDocument) toModel() models.Ad {
	// Некорректный owner в документе даёт uuid.Nil: такое объявление никому не принадлежит.
	owner, _ := uuid.Parse(d.Owner)
	return models.Ad{
		ID:                     d.ID.Hex(),
		OwnerID:                owner,
		Type:                   d.Type,
		Title:                  d.Title,
		Description:            d.Description,
		Price:                  d.Price,
		Images:                 orEmpty(d.Images),
		Tags:                   orEmpty(d.Tags),
		Regions:                orEmpty(d.Regions),
		Offers:                 orEmpty(d.Offers),
		StartDate:              d.StartDate,
		EndDate:                d.EndDate,
		Active:                 d.Active,
		PremiumEndDate:         d.PremiumEndDate,
		Verified:               d.Verified,
		VerificationAttachment: d.VerificationAttachment,
		DurationDays:           d.DurationDays,
		AverageRating:          d.AverageRating,
		CreatedAt:              d.CreatedAt,
		UpdatedAt:              d.UpdatedAt,
	}
}

func orEmpty[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

// AdStore: хранилище объявлений в коллекции MongoDB.
type AdStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewAdStore создаёт хранилище поверх базы dbName.
func NewAdStore(client *mongo.Client, dbName string) *AdStore {
	return &AdStore{
		coll: client.Database(dbName).Collection(CollectionName),
		now:  time.Now,
	}
}

// Collection возвращает коллекцию, например для создания индексов.
func (s *AdStore) Collection() *mongo.Collection {
	return s.coll
}

func (s *AdStore) Create(ctx context.Context, ad *models.Ad) error {
	now := s.now().UTC()
	ad.CreatedAt, ad.UpdatedAt = now, now

	res, err := s.coll.InsertOne(ctx, fromModel(ad))
	if err != nil {
		return fmt.Errorf("mongo ad store: create %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("mongo ad store: unexpected id type %T", res.InsertedID)
	}
	ad.ID = oid.Hex()
	return nil
}

func (s *AdStore) GetByID(ctx context.Context, id string) (*models.Ad, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrAdNotFound
	}

	var doc adDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrAdNotFound
		}
		return nil, fmt.Errorf("mongo ad store: get by id %w", err)
	}

	ad := doc.toModel()
	return &ad, nil
}

func (s *AdStore) Find(ctx context.Context, q models.AdQuery) ([]models.Ad, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}, {Key: "_id", Value: 1}})
	if q.Skip > 0 {
		opts.SetSkip(int64(q.Skip))
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.coll.Find(ctx, BuildFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("mongo ad store: find %w", err)
	}
	defer cursor.Close(ctx)

	var docs []adDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo ad store: decode %w", err)
	}

	ads := make([]models.Ad, 0, len(docs))
	for _, doc := range docs {
		ads = append(ads, doc.toModel())
	}
	return ads, nil
}

func (s *AdStore) Count(ctx context.Context, q models.AdQuery) (int64, error) {
	total, err := s.coll.CountDocuments(ctx, BuildFilter(q))
	if err != nil {
		return 0, fmt.Errorf("mongo ad store: count %w", err)
	}
	return total, nil
}

func (s *AdStore) UpdateOne(ctx context.Context, id string, patch models.AdPatch) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrAdNotFound
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, BuildUpdate(patch, s.now().UTC()))
	if err != nil {
		return fmt.Errorf("mongo ad store: update %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrAdNotFound
	}
	return nil
}

// ExtendPremium продлевает премиум одной командой и возвращает новый конец.
func (s *AdStore) ExtendPremium(ctx context.Context, id string, days int, now time.Time) (time.Time, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return time.Time{}, repository.ErrAdNotFound
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"premiumEndDate": 1})

	var doc struct {
		PremiumEndDate time.Time `bson:"premiumEndDate"`
	}
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, BuildPremiumExtension(days, now.UTC()), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return time.Time{}, repository.ErrAdNotFound
		}
		return time.Time{}, fmt.Errorf("mongo ad store: extend premium %w", err)
	}
	return doc.PremiumEndDate.UTC(), nil
}

func (s *AdStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrAdNotFound
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo ad store: delete %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrAdNotFound
	}
	return nil
}
