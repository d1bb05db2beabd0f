package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/classifieds-backend/internal/goroutine"
	"github.com/ignatzorin/classifieds-backend/internal/logger"
)

// События, которые получают владельцы объявлений и авторы отзывов.
const (
	EventAdApproved     = "ad.approved"
	EventAdRejected     = "ad.rejected"
	EventReviewApproved = "review.approved"
	EventReviewRejected = "review.rejected"
)

const notifyTimeout = 5 * time.Second

// Notifier доставляет событие пользователю. Реализуется ws.Hub.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, event string, data interface{}) error
}

// asyncNotifier отправляет уведомления в фоне: ошибка доставки не влияет на результат операции.
type asyncNotifier struct {
	notifier Notifier
	spawn    func(func())
}

func newAsyncNotifier(n Notifier) asyncNotifier {
	return asyncNotifier{notifier: n, spawn: goroutine.SafeGo}
}

func (a asyncNotifier) send(userID uuid.UUID, event string, data interface{}) {
	if a.notifier == nil {
		return
	}
	a.spawn(func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := a.notifier.Notify(ctx, userID, event, data); err != nil {
			logger.Log.WithError(err).WithFields(logrus.Fields{
				"user_id": userID,
				"event":   event,
			}).Warn("Не удалось отправить уведомление")
		}
	})
}
