package mongostore

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ignatzorin/classifieds-backend/internal/models"
)

// BuildFilter переводит AdQuery в фильтр MongoDB.
// Пустые критерии условий не добавляют.
func BuildFilter(q models.AdQuery) bson.M {
	var conds []bson.M

	if q.OwnerID != nil {
		conds = append(conds, bson.M{"owner": q.OwnerID.String()})
	}
	if q.Type != nil {
		conds = append(conds, bson.M{"type": *q.Type})
	}
	if q.PendingOnly {
		// null совпадает и с отсутствующим полем
		conds = append(conds, bson.M{"endDate": nil})
	}
	if q.NotExpiredAt != nil {
		conds = append(conds, bson.M{"endDate": bson.M{"$gte": *q.NotExpiredAt}})
	}
	if q.ActiveOrAbsent {
		conds = append(conds, bson.M{"$or": bson.A{
			bson.M{"active": bson.M{"$exists": false}},
			bson.M{"active": nil},
			bson.M{"active": true},
		}})
	}
	if len(q.Regions) > 0 {
		conds = append(conds, bson.M{"regions": bson.M{"$in": q.Regions}})
	}
	if len(q.Tags) > 0 {
		conds = append(conds, bson.M{"tags": bson.M{"$in": q.Tags}})
	}
	if len(q.Offers) > 0 {
		conds = append(conds, bson.M{"offers": bson.M{"$in": q.Offers}})
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		conds = append(conds, bson.M{"$text": bson.M{"$search": search}})
	}
	if q.VerifiedOnly {
		conds = append(conds, bson.M{"verified": true})
	}

	switch len(conds) {
	case 0:
		return bson.M{}
	case 1:
		return conds[0]
	default:
		return bson.M{"$and": conds}
	}
}

// BuildUpdate переводит AdPatch в документ обновления с $set и $unset.
func BuildUpdate(p models.AdPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}

	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Images != nil {
		set["images"] = *p.Images
	}
	if p.Tags != nil {
		set["tags"] = *p.Tags
	}
	if p.Regions != nil {
		set["regions"] = *p.Regions
	}
	if p.Offers != nil {
		set["offers"] = *p.Offers
	}
	if p.Active != nil {
		set["active"] = *p.Active
	}
	if p.StartDate != nil {
		set["startDate"] = *p.StartDate
	}
	if p.EndDate != nil {
		set["endDate"] = *p.EndDate
	}
	if p.PremiumEndDate != nil {
		set["premiumEndDate"] = *p.PremiumEndDate
	}
	if p.Verified != nil {
		set["verified"] = *p.Verified
	}
	if p.AverageRating != nil {
		set["averageRating"] = *p.AverageRating
	}

	update := bson.M{"$set": set}
	if p.ClearVerificationAttachment {
		update["$unset"] = bson.M{"verificationAttachment": ""}
	}
	return update
}

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// BuildPremiumExtension собирает pipeline-обновление, которое продлевает премиум
// от max(now, premiumEndDate) на days дней на стороне сервера.
// Отсутствующий или null premiumEndDate $max пропускает.
func BuildPremiumExtension(days int, now time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "premiumEndDate", Value: bson.D{{Key: "$add", Value: bson.A{
				bson.D{{Key: "$max", Value: bson.A{"$premiumEndDate", now}}},
				int64(days) * dayMillis,
			}}}},
			{Key: "updatedAt", Value: now},
		}}},
	}
}
