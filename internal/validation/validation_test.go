package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("User.Name+ads@Example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("no-at-sign"))
	assert.Error(t, ValidateEmail("a@b@c.com"))
	assert.Error(t, ValidateEmail("user@localhost"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Secret123"))
	assert.Error(t, ValidatePassword("Short1"))
	assert.Error(t, ValidatePassword("alllowercase1"))
	assert.Error(t, ValidatePassword("ALLUPPERCASE1"))
	assert.Error(t, ValidatePassword("NoDigitsHere"))
	assert.Error(t, ValidatePassword("A1"+strings.Repeat("a", 80)))
}

func TestValidateAdTitle(t *testing.T) {
	assert.NoError(t, ValidateAdTitle("Велосипед"))
	assert.Error(t, ValidateAdTitle("  "))
	assert.Error(t, ValidateAdTitle("ab"))
	assert.Error(t, ValidateAdTitle(strings.Repeat("я", MaxAdTitleLength+1)))
}

func TestValidatePrice(t *testing.T) {
	assert.NoError(t, ValidatePrice(0))
	assert.NoError(t, ValidatePrice(199.99))
	assert.Error(t, ValidatePrice(-1))
	assert.Error(t, ValidatePrice(math.NaN()))
	assert.Error(t, ValidatePrice(MaxPrice+1))
}

func TestValidateDays(t *testing.T) {
	assert.NoError(t, ValidateDays("срок", 1))
	assert.NoError(t, ValidateDays("срок", MaxAdDays))
	assert.Error(t, ValidateDays("срок", 0))
	assert.Error(t, ValidateDays("срок", MaxAdDays+1))
}

func TestValidateAttributeIDs(t *testing.T) {
	assert.NoError(t, ValidateAttributeIDs("теги", nil))
	assert.NoError(t, ValidateAttributeIDs("теги", []int64{0, 5}))
	assert.Error(t, ValidateAttributeIDs("теги", []int64{-1}))
	assert.Error(t, ValidateAttributeIDs("теги", make([]int64, MaxAttributeIDsCount+1)))
}

func TestValidateImages(t *testing.T) {
	assert.NoError(t, ValidateImages([]string{"photos/u/a.jpg"}))
	assert.Error(t, ValidateImages([]string{""}))
	assert.Error(t, ValidateImages([]string{"../etc/passwd"}))
}

func TestValidateRating(t *testing.T) {
	for r := MinRating; r <= MaxRating; r++ {
		assert.NoError(t, ValidateRating(r))
	}
	assert.Error(t, ValidateRating(0))
	assert.Error(t, ValidateRating(6))
}
