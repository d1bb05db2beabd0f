package mongostore

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ignatzorin/classifieds-backend/internal/models"
)

func TestBuildFilter_Empty(t *testing.T) {
	assert.Equal(t, bson.M{}, BuildFilter(models.AdQuery{}))
}

func TestBuildFilter_SingleCondition(t *testing.T) {
	adType := 3
	assert.Equal(t, bson.M{"type": 3}, BuildFilter(models.AdQuery{Type: &adType}))
}

func TestBuildFilter_BrowsePredicate(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	adType := 1

	filter := BuildFilter(models.AdQuery{Type: &adType, NotExpiredAt: &now, ActiveOrAbsent: true})

	conds, ok := filter["$and"].([]bson.M)
	require.True(t, ok)
	require.Len(t, conds, 3)
	assert.Equal(t, bson.M{"type": 1}, conds[0])
	assert.Equal(t, bson.M{"endDate": bson.M{"$gte": now}}, conds[1])
	assert.Equal(t, bson.M{"$or": bson.A{
		bson.M{"active": bson.M{"$exists": false}},
		bson.M{"active": nil},
		bson.M{"active": true},
	}}, conds[2])
}

func TestBuildFilter_OmittedCriteriaAddNothing(t *testing.T) {
	now := time.Now()
	base := models.AdQuery{NotExpiredAt: &now, ActiveOrAbsent: true}

	withEmpty := base
	withEmpty.Tags = []int64{}
	withEmpty.Offers = nil
	withEmpty.Search = ""

	assert.Equal(t, BuildFilter(base), BuildFilter(withEmpty))
}

func TestBuildFilter_FilterCriteria(t *testing.T) {
	owner := uuid.New()
	filter := BuildFilter(models.AdQuery{
		OwnerID:      &owner,
		Regions:      []int64{1},
		Tags:         []int64{2, 3},
		Offers:       []int64{4},
		Search:       "диван",
		VerifiedOnly: true,
	})

	conds := filter["$and"].([]bson.M)
	assert.Contains(t, conds, bson.M{"owner": owner.String()})
	assert.Contains(t, conds, bson.M{"regions": bson.M{"$in": []int64{1}}})
	assert.Contains(t, conds, bson.M{"tags": bson.M{"$in": []int64{2, 3}}})
	assert.Contains(t, conds, bson.M{"offers": bson.M{"$in": []int64{4}}})
	assert.Contains(t, conds, bson.M{"$text": bson.M{"$search": "диван"}})
	assert.Contains(t, conds, bson.M{"verified": true})
}

func TestBuildFilter_PendingOnly(t *testing.T) {
	assert.Equal(t, bson.M{"endDate": nil}, BuildFilter(models.AdQuery{PendingOnly: true}))
}

func TestBuildUpdate(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	active := false
	rating := 4.5

	update := BuildUpdate(models.AdPatch{Active: &active, AverageRating: &rating, ClearVerificationAttachment: true}, now)

	assert.Equal(t, bson.M{"updatedAt": now, "active": false, "averageRating": 4.5}, update["$set"])
	assert.Equal(t, bson.M{"verificationAttachment": ""}, update["$unset"])
}

func TestBuildUpdate_NoUnsetByDefault(t *testing.T) {
	update := BuildUpdate(models.AdPatch{}, time.Now())

	_, hasUnset := update["$unset"]
	assert.False(t, hasUnset)
}

func TestDocumentRoundTripKeepsAbsentActive(t *testing.T) {
	owner := uuid.New()
	ad := &models.Ad{OwnerID: owner, Title: "t"}

	doc := fromModel(ad)
	assert.Nil(t, doc.Active)
	assert.Equal(t, owner.String(), doc.Owner)

	back := doc.toModel()
	assert.Nil(t, back.Active)
	assert.Equal(t, owner, back.OwnerID)
	assert.NotNil(t, back.Tags)
}

func TestBuildPremiumExtension(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	pipeline := BuildPremiumExtension(5, now)

	require.Len(t, pipeline, 1)
	stage := pipeline[0]
	require.Len(t, stage, 1)
	assert.Equal(t, "$set", stage[0].Key)

	set := stage[0].Value.(bson.D)
	assert.Equal(t, bson.E{Key: "updatedAt", Value: now}, set[1])

	// конец считается на сервере от max(текущий конец, now), а не передаётся готовым
	expected := bson.D{{Key: "$add", Value: bson.A{
		bson.D{{Key: "$max", Value: bson.A{"$premiumEndDate", now}}},
		int64(5 * 24 * 60 * 60 * 1000),
	}}}
	assert.Equal(t, "premiumEndDate", set[0].Key)
	assert.Equal(t, expected, set[0].Value)
}
