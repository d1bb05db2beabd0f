package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/classifieds-backend/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/logger"
	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/pkg/apperror"
	"github.com/ignatzorin/classifieds-backend/internal/validation"
)

// Размеры страниц.
const (
	BrowsePageSize     = 26
	MyAdsPageSize      = 50
	ModerationPageSize = 50
)

// AdStore описывает хранилище объявлений. Реализации: PostgreSQL и MongoDB.
type AdStore interface {
	Create(ctx context.Context, ad *models.Ad) error
	GetByID(ctx context.Context, id string) (*models.Ad, error)
	Find(ctx context.Context, q models.AdQuery) ([]models.Ad, error)
	Count(ctx context.Context, q models.AdQuery) (int64, error)
	UpdateOne(ctx context.Context, id string, patch models.AdPatch) error
	// ExtendPremium продлевает премиум от max(now, текущий конец) на days дней
	// одной командой хранилища и возвращает новый конец.
	ExtendPremium(ctx context.Context, id string, days int, now time.Time) (time.Time, error)
	Delete(ctx context.Context, id string) error
}

// MediaRemover удаляет загруженные файлы объявления.
type MediaRemover interface {
	Delete(ctx context.Context, path string) error
}

// AdService отвечает за жизненный цикл объявлений и выборки каталога.
type AdService struct {
	ads             AdStore
	media           MediaRemover
	defaultDuration int
	now             func() time.Time
}

// NewAdService создаёт сервис объявлений. media может быть nil.
func NewAdService(ads AdStore, media MediaRemover, defaultDurationDays int) *AdService {
	return &AdService{
		ads:             ads,
		media:           media,
		defaultDuration: defaultDurationDays,
		now:             time.Now,
	}
}

// Browse возвращает страницу публичного каталога: не истёкшие и не снятые объявления категории.
// Пустой adType снимает условие по категории.
func (s *AdService) Browse(ctx context.Context, adType *int, page int) (*dto.BrowseResponse, error) {
	page = valueobject.NormalizePage(page)
	now := s.now()

	q := models.AdQuery{Type: adType, NotExpiredAt: &now, ActiveOrAbsent: true}
	total, err := s.ads.Count(ctx, q)
	if err != nil {
		return nil, storeError("ad service: browse count", err)
	}

	ads := []models.Ad{}
	if !valueobject.PastLastPage(total, page, BrowsePageSize) {
		q.Skip = valueobject.PageOffset(page, BrowsePageSize)
		q.Limit = BrowsePageSize
		if ads, err = s.ads.Find(ctx, q); err != nil {
			return nil, storeError("ad service: browse", err)
		}
	}

	return &dto.BrowseResponse{
		Ads:         dto.NewAdViews(ads, now),
		Total:       total,
		CurrentPage: page,
		TotalPages:  valueobject.TotalPages(total, BrowsePageSize),
	}, nil
}

// MyAds возвращает объявления владельца с выбранным статусом и счётчики по всем статусам.
// Все объявления классифицируются по одному моменту now.
func (s *AdService) MyAds(ctx context.Context, owner uuid.UUID, status string, page int) (*dto.MyAdsResponse, error) {
	wanted := valueobject.ParseAdStatus(status)
	page = valueobject.NormalizePage(page)
	now := s.now()

	owned, err := s.ads.Find(ctx, models.AdQuery{OwnerID: &owner})
	if err != nil {
		return nil, storeError("ad service: my ads", err)
	}

	var counts valueobject.StatusCounts
	filtered := make([]models.Ad, 0, len(owned))
	for _, ad := range owned {
		st := ad.Status(now)
		counts.Add(st)
		if st == wanted {
			filtered = append(filtered, ad)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].StartUnixMilli() > filtered[j].StartUnixMilli()
	})

	return &dto.MyAdsResponse{
		Ads:         dto.NewAdViews(pageWindow(filtered, page, MyAdsPageSize), now),
		TotalCounts: counts,
		CurrentPage: page,
		TotalPages:  valueobject.TotalPages(int64(len(filtered)), MyAdsPageSize),
	}, nil
}

// Filter ищет в каталоге по регионам, тегам, предложениям, тексту и признаку проверки.
// Страница > 0 включает пагинацию с размером страницы каталога.
func (s *AdService) Filter(ctx context.Context, req dto.AdFilterRequest) ([]dto.AdView, error) {
	if err := validation.ValidateSearch(req.Search); err != nil {
		return nil, validationError(err)
	}

	now := s.now()
	q := models.AdQuery{
		Type:           req.Type,
		NotExpiredAt:   &now,
		ActiveOrAbsent: true,
		Regions:        req.Regions,
		Tags:           req.Tags,
		Offers:         req.Offers,
		Search:         req.Search,
		VerifiedOnly:   req.Verified,
	}
	if req.Page > 0 {
		q.Skip = valueobject.PageOffset(req.Page, BrowsePageSize)
		q.Limit = BrowsePageSize
	}

	ads, err := s.ads.Find(ctx, q)
	if err != nil {
		return nil, storeError("ad service: filter", err)
	}
	return dto.NewAdViews(ads, now), nil
}

// Create сохраняет объявление. С положительным сроком и без документа на проверку
// объявление публикуется сразу, иначе уходит на модерацию.
func (s *AdService) Create(ctx context.Context, owner uuid.UUID, req dto.CreateAdRequest) (*dto.AdView, error) {
	if err := validateAdContent(req.Title, req.Description, req.Price, req.Images, req.Tags, req.Regions, req.Offers); err != nil {
		return nil, err
	}
	if err := validation.ValidateAdType(req.Type); err != nil {
		return nil, validationError(err)
	}
	if req.DurationDays != 0 {
		if err := validation.ValidateDays("срок публикации", req.DurationDays); err != nil {
			return nil, validationError(err)
		}
	}

	now := s.now()
	active := true
	ad := &models.Ad{
		OwnerID:                owner,
		Type:                   req.Type,
		Title:                  req.Title,
		Description:            req.Description,
		Price:                  req.Price,
		Images:                 req.Images,
		Tags:                   req.Tags,
		Regions:                req.Regions,
		Offers:                 req.Offers,
		Active:                 &active,
		VerificationAttachment: req.VerificationAttachment,
		DurationDays:           s.defaultDuration,
	}
	if req.DurationDays > 0 {
		ad.DurationDays = req.DurationDays
		if req.VerificationAttachment == nil {
			start, end := publicationWindow(now, req.DurationDays)
			ad.StartDate, ad.EndDate = &start, &end
		}
	}

	if err := s.ads.Create(ctx, ad); err != nil {
		return nil, storeError("ad service: create", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"ad_id":  ad.ID,
		"owner":  owner,
		"status": ad.Status(now),
	}).Info("Объявление создано")

	view := dto.NewAdView(*ad, now)
	return &view, nil
}

// Get возвращает объявление с вычисленным статусом.
func (s *AdService) Get(ctx context.Context, id string) (*dto.AdView, error) {
	ad, err := s.ads.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("ad service: get", err)
	}
	view := dto.NewAdView(*ad, s.now())
	return &view, nil
}

// Update меняет содержимое объявления. Доступно только владельцу.
func (s *AdService) Update(ctx context.Context, owner uuid.UUID, id string, req dto.UpdateAdRequest) (*dto.AdView, error) {
	ad, err := s.loadOwned(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	title, description, price := ad.Title, ad.Description, ad.Price
	if req.Title != nil {
		title = *req.Title
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Price != nil {
		price = *req.Price
	}
	images, tags, regions, offers := derefOr(req.Images, ad.Images), derefOr(req.Tags, ad.Tags), derefOr(req.Regions, ad.Regions), derefOr(req.Offers, ad.Offers)
	if err := validateAdContent(title, description, price, images, tags, regions, offers); err != nil {
		return nil, err
	}

	patch := models.AdPatch{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
		Tags:        req.Tags,
		Regions:     req.Regions,
		Offers:      req.Offers,
	}
	if err := s.ads.UpdateOne(ctx, id, patch); err != nil {
		return nil, storeError("ad service: update", err)
	}

	ad.Title, ad.Description, ad.Price = title, description, price
	ad.Images, ad.Tags, ad.Regions, ad.Offers = images, tags, regions, offers
	view := dto.NewAdView(*ad, s.now())
	return &view, nil
}

// SetActive снимает объявление с показа или возвращает его. Доступно только владельцу.
func (s *AdService) SetActive(ctx context.Context, owner uuid.UUID, id string, active bool) (*dto.AdView, error) {
	ad, err := s.loadOwned(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if err := s.ads.UpdateOne(ctx, id, models.AdPatch{Active: &active}); err != nil {
		return nil, storeError("ad service: set active", err)
	}

	ad.Active = &active
	view := dto.NewAdView(*ad, s.now())
	return &view, nil
}

// Renew заново открывает окно публикации от текущего момента.
// Нулевой days берёт срок, сохранённый в объявлении.
func (s *AdService) Renew(ctx context.Context, owner uuid.UUID, id string, days int) (*dto.AdView, error) {
	ad, err := s.loadOwned(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if ad.Status(now) == valueobject.AdStatusPending {
		return nil, conflictError("объявление ещё на модерации")
	}

	if days == 0 {
		days = ad.DurationDays
		if days <= 0 {
			days = s.defaultDuration
		}
	}
	if err := validation.ValidateDays("срок публикации", days); err != nil {
		return nil, validationError(err)
	}

	start, end := publicationWindow(now, days)
	if err := s.ads.UpdateOne(ctx, id, models.AdPatch{StartDate: &start, EndDate: &end}); err != nil {
		return nil, storeError("ad service: renew", err)
	}

	ad.StartDate, ad.EndDate = &start, &end
	view := dto.NewAdView(*ad, now)
	return &view, nil
}

// Delete удаляет объявление безвозвратно. Удалить может владелец или администратор.
// Файлы удаляются после записи; ошибки удаления файлов только логируются.
func (s *AdService) Delete(ctx context.Context, requester uuid.UUID, isAdmin bool, id string) error {
	ad, err := s.ads.GetByID(ctx, id)
	if err != nil {
		return storeError("ad service: delete", err)
	}
	if ad.OwnerID != requester && !isAdmin {
		return apperror.ErrForbidden
	}

	if err := s.ads.Delete(ctx, id); err != nil {
		return storeError("ad service: delete", err)
	}

	removeAdMedia(ctx, s.media, ad)
	logger.Log.WithFields(logrus.Fields{"ad_id": id, "by": requester, "admin": isAdmin}).Info("Объявление удалено")
	return nil
}

func (s *AdService) loadOwned(ctx context.Context, owner uuid.UUID, id string) (*models.Ad, error) {
	return loadOwnedAd(ctx, s.ads, owner, id)
}

func loadOwnedAd(ctx context.Context, ads AdStore, owner uuid.UUID, id string) (*models.Ad, error) {
	ad, err := ads.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("load ad", err)
	}
	if ad.OwnerID != owner {
		return nil, apperror.ErrForbidden
	}
	return ad, nil
}

func removeAdMedia(ctx context.Context, media MediaRemover, ad *models.Ad) {
	if media == nil {
		return
	}

	paths := append([]string{}, ad.Images...)
	if ad.VerificationAttachment != nil {
		paths = append(paths, *ad.VerificationAttachment)
	}
	for _, path := range paths {
		if err := media.Delete(ctx, path); err != nil {
			logger.Log.WithError(err).WithFields(logrus.Fields{"ad_id": ad.ID, "path": path}).Warn("Не удалось удалить файл объявления")
		}
	}
}

func publicationWindow(now time.Time, days int) (time.Time, time.Time) {
	return now, now.AddDate(0, 0, days)
}

func pageWindow(ads []models.Ad, page, size int) []models.Ad {
	offset := valueobject.PageOffset(page, size)
	if offset < 0 || offset >= len(ads) {
		return []models.Ad{}
	}
	end := len(ads)
	if size < end-offset {
		end = offset + size
	}
	return ads[offset:end]
}

func derefOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}

func validateAdContent(title, description string, price float64, images []string, tags, regions, offers []int64) error {
	checks := []error{
		validation.ValidateAdTitle(title),
		validation.ValidateAdDescription(description),
		validation.ValidatePrice(price),
		validation.ValidateImages(images),
		validation.ValidateAttributeIDs("теги", tags),
		validation.ValidateAttributeIDs("регионы", regions),
		validation.ValidateAttributeIDs("предложения", offers),
	}
	for _, err := range checks {
		if err != nil {
			return validationError(err)
		}
	}
	return nil
}
