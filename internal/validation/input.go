package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Константы валидации
const (
	MinUsernameLength      = 3
	MaxUsernameLength      = 30
	MinAdTitleLength       = 3
	MaxAdTitleLength       = 150
	MaxAdDescriptionLength = 5000
	MaxPrice               = 1000000000.0
	MaxAdDays              = 365
	MaxImagesCount         = 20
	MaxAttributeIDsCount   = 100
	MaxSearchLength        = 200
	MinRating              = 1
	MaxRating              = 5
	MaxReviewCommentLength = 2000
	MaxRejectReasonLength  = 500
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	usernameRegex    = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	localPart, domainPart, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domainPart, "@") {
		return fmt.Errorf("некорректный формат email")
	}
	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}
	if !emailLocalRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только буквы, цифры и подчеркивание")
	}
	if unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("имя пользователя не может начинаться с цифры")
	}
	return nil
}

// ValidateAdTitle проверяет заголовок объявления.
func ValidateAdTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("заголовок объявления обязателен")
	}
	return ValidateLength("заголовок", title, MinAdTitleLength, MaxAdTitleLength)
}

// ValidateAdDescription проверяет описание объявления. Пустое описание допустимо.
func ValidateAdDescription(description string) error {
	return ValidateLength("описание", description, 0, MaxAdDescriptionLength)
}

// ValidatePrice проверяет цену.
func ValidatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("некорректная цена")
	}
	if price < 0 {
		return fmt.Errorf("цена не может быть отрицательной")
	}
	if price > MaxPrice {
		return fmt.Errorf("цена не может превышать %.0f", MaxPrice)
	}
	return nil
}

// ValidateAdType проверяет категорию объявления.
func ValidateAdType(adType int) error {
	if adType < 0 {
		return fmt.Errorf("категория объявления не может быть отрицательной")
	}
	return nil
}

// ValidateDays проверяет срок в днях для публикации и поднятия.
func ValidateDays(fieldName string, days int) error {
	if days < 1 || days > MaxAdDays {
		return fmt.Errorf("%s должен быть от 1 до %d дней", fieldName, MaxAdDays)
	}
	return nil
}

// ValidateAttributeIDs проверяет списки тегов, регионов и предложений.
func ValidateAttributeIDs(fieldName string, ids []int64) error {
	if len(ids) > MaxAttributeIDsCount {
		return fmt.Errorf("%s: не более %d значений", fieldName, MaxAttributeIDsCount)
	}
	for _, id := range ids {
		if id < 0 {
			return fmt.Errorf("%s: значения не могут быть отрицательными", fieldName)
		}
	}
	return nil
}

// ValidateImages проверяет список путей к изображениям.
func ValidateImages(images []string) error {
	if len(images) > MaxImagesCount {
		return fmt.Errorf("не более %d изображений", MaxImagesCount)
	}
	for _, img := range images {
		if strings.TrimSpace(img) == "" {
			return fmt.Errorf("путь к изображению не может быть пустым")
		}
		if strings.Contains(img, "..") {
			return fmt.Errorf("некорректный путь к изображению")
		}
	}
	return nil
}

// ValidateRating проверяет оценку отзыва.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("оценка должна быть от %d до %d", MinRating, MaxRating)
	}
	return nil
}

// ValidateReviewComment проверяет текст отзыва.
func ValidateReviewComment(comment *string) error {
	if comment == nil {
		return nil
	}
	return ValidateLength("отзыв", *comment, 0, MaxReviewCommentLength)
}

// ValidateSearch ограничивает длину поисковой строки.
func ValidateSearch(search string) error {
	return ValidateLength("поисковый запрос", search, 0, MaxSearchLength)
}
