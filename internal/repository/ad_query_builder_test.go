package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/classifieds-backend/internal/models"
)

func TestBuildAdWhere_EmptyQueryHasNoClause(t *testing.T) {
	where, args := BuildAdWhere(models.AdQuery{})

	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildAdWhere_BrowsePredicate(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	adType := 2

	where, args := BuildAdWhere(models.AdQuery{Type: &adType, NotExpiredAt: &now, ActiveOrAbsent: true})

	assert.Equal(t, " WHERE type = $1 AND end_date >= $2 AND (active IS NULL OR active = TRUE)", where)
	assert.Equal(t, []interface{}{2, now}, args)
}

func TestBuildAdWhere_OmittedCriteriaAddNothing(t *testing.T) {
	now := time.Now()
	base := models.AdQuery{NotExpiredAt: &now, ActiveOrAbsent: true}
	baseWhere, baseArgs := BuildAdWhere(base)

	withEmpty := base
	withEmpty.Regions = []int64{}
	withEmpty.Tags = nil
	withEmpty.Search = "   "
	withEmpty.VerifiedOnly = false
	where, args := BuildAdWhere(withEmpty)

	assert.Equal(t, baseWhere, where)
	assert.Equal(t, baseArgs, args)
}

func TestBuildAdWhere_FilterClauses(t *testing.T) {
	owner := uuid.New()
	where, args := BuildAdWhere(models.AdQuery{
		OwnerID:      &owner,
		Regions:      []int64{1, 2},
		Tags:         []int64{7},
		Offers:       []int64{3},
		Search:       " велосипед ",
		VerifiedOnly: true,
	})

	assert.Contains(t, where, "owner_id = $1")
	assert.Contains(t, where, "regions && $2::integer[]")
	assert.Contains(t, where, "tags && $3::integer[]")
	assert.Contains(t, where, "offers && $4::integer[]")
	assert.Contains(t, where, "plainto_tsquery('simple', $5)")
	assert.Contains(t, where, "verified = TRUE")
	assert.Len(t, args, 5)
	assert.Equal(t, "велосипед", args[4])
}

func TestBuildAdWhere_PendingOnly(t *testing.T) {
	where, args := BuildAdWhere(models.AdQuery{PendingOnly: true})

	assert.Equal(t, " WHERE end_date IS NULL", where)
	assert.Empty(t, args)
}

func TestBuildAdSelect_SortAndWindow(t *testing.T) {
	adType := 1
	query, args := BuildAdSelect(models.AdQuery{Type: &adType, Skip: 26, Limit: 26})

	assert.Contains(t, query, "ORDER BY start_date DESC NULLS LAST, id LIMIT $2 OFFSET $3")
	assert.Equal(t, []interface{}{1, 26, 26}, args)
}

func TestBuildAdSelect_NoWindowWhenUnset(t *testing.T) {
	query, _ := BuildAdSelect(models.AdQuery{})

	assert.NotContains(t, query, "LIMIT")
	assert.NotContains(t, query, "OFFSET")
}

func TestBuildAdUpdate(t *testing.T) {
	active := false
	end := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	query, args := BuildAdUpdate("id-1", models.AdPatch{Active: &active, EndDate: &end, ClearVerificationAttachment: true})

	assert.Equal(t, "UPDATE ads SET active = $1, end_date = $2, verification_attachment = NULL, updated_at = NOW() WHERE id = $3", query)
	assert.Equal(t, []interface{}{false, end, "id-1"}, args)
}

func TestBuildAdUpdate_EmptyPatchTouchesTimestamp(t *testing.T) {
	query, args := BuildAdUpdate("id-1", models.AdPatch{})

	assert.Equal(t, "UPDATE ads SET updated_at = NOW() WHERE id = $1", query)
	assert.Equal(t, []interface{}{"id-1"}, args)
}
