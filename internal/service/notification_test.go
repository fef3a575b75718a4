package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

func TestNotificationCenter_Notify(t *testing.T) {
	ctx := context.Background()

	t.Run("Persists then pushes", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		userRepo := new(MockUserRepo)
		push := new(MockPublisher)
		center := NewNotificationCenter(noteRepo, userRepo, push)

		noteRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == renterID && n.Kind == domain.EventRentalUpdated && !n.IsRead
		})).Return(nil)
		userRepo.On("GetByID", ctx, renterID).Return(&domain.User{ID: renterID, DeviceToken: "token-1"}, nil)
		push.On("Publish", ctx, "token-1", string(domain.EventRentalUpdated), "deposit received", mock.Anything).Return(nil)

		center.Notify(ctx, renterID, domain.EventRentalUpdated, "deposit received", map[string]string{"rental_id": "7"})

		noteRepo.AssertExpectations(t)
		push.AssertExpectations(t)
	})

	t.Run("Persist failure skips push", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		userRepo := new(MockUserRepo)
		push := new(MockPublisher)
		center := NewNotificationCenter(noteRepo, userRepo, push)

		noteRepo.On("Create", ctx, mock.Anything).Return(errors.New("db down"))

		center.Notify(ctx, renterID, domain.EventRentalUpdated, "msg", nil)

		push.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Push failure is swallowed", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		userRepo := new(MockUserRepo)
		push := new(MockPublisher)
		center := NewNotificationCenter(noteRepo, userRepo, push)

		noteRepo.On("Create", ctx, mock.Anything).Return(nil)
		userRepo.On("GetByID", ctx, renterID).Return(&domain.User{ID: renterID, DeviceToken: "token-1"}, nil)
		push.On("Publish", ctx, "token-1", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("fcm unreachable"))

		center.Notify(ctx, renterID, domain.EventRentalUpdated, "msg", nil)
	})
}

func TestNotificationCenter_Feed(t *testing.T) {
	ctx := context.Background()

	t.Run("List normalizes paging", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		center := NewNotificationCenter(noteRepo, new(MockUserRepo), new(MockPublisher))

		noteRepo.On("List", ctx, renterID, int32(20), int32(0)).
			Return([]domain.Notification{{ID: 1}}, int32(1), nil)

		notes, total, err := center.GetNotifications(ctx, renterID, 0, 0)
		assert.NoError(t, err)
		assert.Len(t, notes, 1)
		assert.Equal(t, int32(1), total)
	})

	t.Run("MarkAsRead maps missing rows", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		center := NewNotificationCenter(noteRepo, new(MockUserRepo), new(MockPublisher))

		noteRepo.On("MarkAsRead", ctx, int32(5), renterID).Return(repository.ErrNotFound)

		err := center.MarkAsRead(ctx, renterID, 5)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
