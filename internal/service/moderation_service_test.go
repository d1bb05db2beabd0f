package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/classifieds-backend/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/pkg/apperror"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, userID uuid.UUID, event string, data interface{}) error {
	args := m.Called(ctx, userID, event, data)
	return args.Error(0)
}

func syncNotifier(n Notifier) asyncNotifier {
	return asyncNotifier{notifier: n, spawn: func(fn func()) { fn() }}
}

func newTestModeration(store AdStore, n Notifier) *ModerationService {
	svc := NewModerationService(store, nil, n, 30)
	svc.now = func() time.Time { return testNow }
	svc.notify = syncNotifier(n)
	return svc
}

func TestModerationService_ListPending(t *testing.T) {
	store := new(mockAdStore)
	svc := newTestModeration(store, nil)

	store.On("Count", mock.Anything, models.AdQuery{PendingOnly: true}).Return(int64(51), nil)
	store.On("Find", mock.Anything, models.AdQuery{PendingOnly: true, Skip: 50, Limit: 50}).
		Return([]models.Ad{adAt("p", uuid.New(), nil, nil, ptr(true))}, nil)

	resp, err := svc.ListPending(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalPages)
	require.Len(t, resp.Ads, 1)
	assert.Equal(t, valueobject.AdStatusPending, resp.Ads[0].Status)
}

func TestModerationService_ListPending_HugePage(t *testing.T) {
	store := new(mockAdStore)
	svc := newTestModeration(store, nil)
	store.On("Count", mock.Anything, models.AdQuery{PendingOnly: true}).Return(int64(51), nil)

	resp, err := svc.ListPending(context.Background(), math.MaxInt)

	require.NoError(t, err)
	assert.Empty(t, resp.Ads)
	assert.Equal(t, int64(51), resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	store.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
}

func TestModerationService_Approve_WithVerification(t *testing.T) {
	store := new(mockAdStore)
	notifier := new(mockNotifier)
	svc := newTestModeration(store, notifier)
	owner := uuid.New()
	ad := adAt("a1", owner, nil, nil, ptr(true))
	ad.DurationDays = 10
	ad.VerificationAttachment = ptr("docs/a1.pdf")

	store.On("GetByID", mock.Anything, "a1").Return(&ad, nil)
	store.On("UpdateOne", mock.Anything, "a1", mock.MatchedBy(func(p models.AdPatch) bool {
		return p.StartDate.Equal(testNow) && p.EndDate.Equal(testNow.AddDate(0, 0, 10)) &&
			p.Verified != nil && *p.Verified
	})).Return(nil)
	notifier.On("Notify", mock.Anything, owner, EventAdApproved, mock.Anything).Return(nil)

	view, err := svc.Approve(context.Background(), "a1", dto.ApproveAdRequest{Verify: true})

	require.NoError(t, err)
	assert.Equal(t, valueobject.AdStatusActive, view.Status)
	assert.True(t, view.IsVerified())
	notifier.AssertExpectations(t)
}

func TestModerationService_Approve_VerifyWithoutAttachmentIgnored(t *testing.T) {
	store := new(mockAdStore)
	svc := newTestModeration(store, nil)
	ad := adAt("a1", uuid.New(), nil, nil, ptr(true))

	store.On("GetByID", mock.Anything, "a1").Return(&ad, nil)
	store.On("UpdateOne", mock.Anything, "a1", mock.MatchedBy(func(p models.AdPatch) bool {
		return p.Verified == nil && p.EndDate.Equal(testNow.AddDate(0, 0, 5))
	})).Return(nil)

	_, err := svc.Approve(context.Background(), "a1", dto.ApproveAdRequest{DurationDays: 5, Verify: true})

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestModerationService_Approve_AlreadyPublished(t *testing.T) {
	store := new(mockAdStore)
	svc := newTestModeration(store, nil)
	ad := adAt("a1", uuid.New(), dur(-time.Hour), dur(time.Hour), nil)
	store.On("GetByID", mock.Anything, "a1").Return(&ad, nil)

	_, err := svc.Approve(context.Background(), "a1", dto.ApproveAdRequest{})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ErrCodeConflict, appErr.Code)
}

func TestModerationService_Reject_DeletesAndNotifies(t *testing.T) {
	store := new(mockAdStore)
	notifier := new(mockNotifier)
	svc := newTestModeration(store, notifier)
	owner := uuid.New()
	ad := adAt("a1", owner, nil, nil, ptr(true))

	store.On("GetByID", mock.Anything, "a1").Return(&ad, nil)
	store.On("Delete", mock.Anything, "a1").Return(nil)
	notifier.On("Notify", mock.Anything, owner, EventAdRejected, mock.MatchedBy(func(data map[string]interface{}) bool {
		return data["reason"] == "запрещённый товар"
	})).Return(errors.New("offline"))

	err := svc.Reject(context.Background(), "a1", "запрещённый товар")

	require.NoError(t, err)
	store.AssertExpectations(t)
	notifier.AssertExpectations(t)
}
