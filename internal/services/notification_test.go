package services

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	store := NewMockNotificationStore(ctrl)
	svc := NewNotificationService(store)

	items := []models.Notification{{NotificationID: uuid.New(), UserID: userID, Title: "Payout received"}}

	store.EXPECT().ListByUser(ctx, userID, DefaultNotificationsPerPage, 0, false).Return(items, 1, nil)
	page, err := svc.List(ctx, userID, 0, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultNotificationsPerPage, page.PerPage)
	assert.Equal(t, 1, page.Total)
	assert.Len(t, page.Items, 1)

	store.EXPECT().ListByUser(ctx, userID, MaxNotificationsPerPage, 200, true).Return([]models.Notification{}, 1, nil)
	page, err = svc.List(ctx, userID, 3, 500, true)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, MaxNotificationsPerPage, page.PerPage)
	assert.Empty(t, page.Items)

	boom := errors.New("db down")
	store.EXPECT().ListByUser(ctx, userID, 10, 10, false).Return(nil, 0, boom)
	_, err = svc.List(ctx, userID, 2, 10, false)
	assert.ErrorIs(t, err, boom)
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	id := uuid.New()

	tests := []struct {
		name    string
		setup   func(store *MockNotificationStore)
		wantErr error
	}{
		{
			name: "marks unread notification",
			setup: func(store *MockNotificationStore) {
				store.EXPECT().GetByID(ctx, id).Return(&models.Notification{NotificationID: id, UserID: userID}, nil)
				store.EXPECT().MarkRead(ctx, id).Return(nil)
			},
		},
		{
			name: "already read is a no-op",
			setup: func(store *MockNotificationStore) {
				store.EXPECT().GetByID(ctx, id).Return(&models.Notification{NotificationID: id, UserID: userID, IsRead: true}, nil)
			},
		},
		{
			name: "missing",
			setup: func(store *MockNotificationStore) {
				store.EXPECT().GetByID(ctx, id).Return(nil, nil)
			},
			wantErr: ErrNotificationNotFound,
		},
		{
			name: "someone else's",
			setup: func(store *MockNotificationStore) {
				store.EXPECT().GetByID(ctx, id).Return(&models.Notification{NotificationID: id, UserID: uuid.New()}, nil)
			},
			wantErr: ErrNotRecipient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := NewMockNotificationStore(ctrl)
			tt.setup(store)

			err := NewNotificationService(store).MarkRead(ctx, userID, id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
