package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sbilibin2017/gw-savings-circle/internal/events"
	"github.com/sbilibin2017/gw-savings-circle/internal/metrics"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(store NotificationWriter, publisher EventPublisher, m *metrics.Ledger, cfg Config) *Dispatcher {
	d := New(store, publisher, m, cfg)
	d.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2)
	}
	return d
}

func testEvent() models.Event {
	circleID := uuid.New()
	return models.Event{
		Type:        models.EventPayoutReceived,
		RecipientID: uuid.New(),
		CircleID:    &circleID,
		Payload:     map[string]any{"circle_name": "Family", "amount": 10000, "cycle_number": 1},
		OccurredAt:  time.Now(),
	}
}

func TestDispatcher_Delivers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := NewMockNotificationWriter(ctrl)
	publisher := NewMockEventPublisher(ctrl)
	m := metrics.New()
	event := testEvent()

	store.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, n *models.Notification) error {
		assert.Equal(t, event.RecipientID, n.UserID)
		assert.Equal(t, "Payout received", n.Title)
		assert.NotEqual(t, uuid.Nil, n.NotificationID)
		return nil
	})
	publisher.EXPECT().Publish(gomock.Any(), event.RecipientID.String(), event).Return(nil)

	d := newTestDispatcher(store, publisher, m, Config{Workers: 2, QueueSize: 8})
	d.Notify(context.Background(), event)
	d.Close()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsSent))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.NotificationsFailed))
}

func TestDispatcher_RetriesEachStep(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := NewMockNotificationWriter(ctrl)
	publisher := NewMockEventPublisher(ctrl)
	m := metrics.New()
	boom := errors.New("broker unavailable")

	gomock.InOrder(
		store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(boom),
		store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil),
	)
	gomock.InOrder(
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(boom),
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
	)

	d := newTestDispatcher(store, publisher, m, Config{Workers: 1, QueueSize: 1})
	d.Notify(context.Background(), testEvent())
	d.Close()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsSent))
}

func TestDispatcher_GivesUpAfterRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := NewMockNotificationWriter(ctrl)
	publisher := NewMockEventPublisher(ctrl)
	m := metrics.New()

	store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down")).Times(3)

	d := newTestDispatcher(store, publisher, m, Config{Workers: 1, QueueSize: 1})
	d.Notify(context.Background(), testEvent())
	d.Close()

	assert.Equal(t, 0.0, testutil.ToFloat64(m.NotificationsSent))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsFailed))
}

func TestDispatcher_PublishingDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := NewMockNotificationWriter(ctrl)
	publisher := NewMockEventPublisher(ctrl)
	m := metrics.New()

	store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(events.ErrDisabled).Times(1)

	d := newTestDispatcher(store, publisher, m, Config{Workers: 1, QueueSize: 1})
	d.Notify(context.Background(), testEvent())
	d.Close()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsSent))
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := NewMockNotificationWriter(ctrl)
	publisher := NewMockEventPublisher(ctrl)
	m := metrics.New()

	started := make(chan struct{})
	release := make(chan struct{})
	first := true

	store.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, n *models.Notification) error {
		if first {
			first = false
			close(started)
			<-release
		}
		return nil
	}).Times(2)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	d := newTestDispatcher(store, publisher, m, Config{Workers: 1, QueueSize: 1})

	d.Notify(context.Background(), testEvent())
	<-started
	d.Notify(context.Background(), testEvent())
	d.Notify(context.Background(), testEvent())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsDropped))

	close(release)
	d.Close()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.NotificationsSent))
}

func TestDispatcher_NotifyAfterClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := metrics.New()
	d := newTestDispatcher(NewMockNotificationWriter(ctrl), NewMockEventPublisher(ctrl), m, Config{})
	d.Close()
	d.Close()

	require.NotPanics(t, func() { d.Notify(context.Background(), testEvent()) })
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsDropped))
}

func TestRender(t *testing.T) {
	circleID := uuid.New()
	user := uuid.New()

	tests := []struct {
		name         string
		event        models.Event
		wantTitle    string
		wantType     models.NotificationType
		wantPriority models.NotificationPriority
		wantURL      string
	}{
		{
			name:         "cycle funded asks for action",
			event:        models.Event{Type: models.EventCycleFunded, RecipientID: user, CircleID: &circleID, Payload: map[string]any{"cycle_number": 2}},
			wantTitle:    "Your payout is ready",
			wantType:     models.NotificationTypeActionRequired,
			wantPriority: models.NotificationPriorityHigh,
			wantURL:      "/circles/" + circleID.String(),
		},
		{
			name:         "deposit links to wallet",
			event:        models.Event{Type: models.EventDepositConfirmed, RecipientID: user, Payload: map[string]any{"amount": 500}},
			wantTitle:    "Deposit confirmed",
			wantType:     models.NotificationTypeSuccess,
			wantPriority: models.NotificationPriorityNormal,
			wantURL:      "/wallet",
		},
		{
			name:         "member removed warns",
			event:        models.Event{Type: models.EventMemberRemoved, RecipientID: user, CircleID: &circleID},
			wantTitle:    "Removed from circle",
			wantType:     models.NotificationTypeWarning,
			wantPriority: models.NotificationPriorityNormal,
			wantURL:      "/circles/" + circleID.String(),
		},
		{
			name:         "unknown type",
			event:        models.Event{Type: "circle.renamed", RecipientID: user},
			wantTitle:    "circle.renamed",
			wantType:     models.NotificationTypeInfo,
			wantPriority: models.NotificationPriorityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Render(tt.event)
			assert.Equal(t, user, n.UserID)
			assert.Equal(t, tt.wantTitle, n.Title)
			assert.Equal(t, tt.wantType, n.Type)
			assert.Equal(t, tt.wantPriority, n.Priority)
			assert.False(t, n.IsRead)
			if tt.wantURL == "" {
				assert.Nil(t, n.ActionURL)
				return
			}
			require.NotNil(t, n.ActionURL)
			assert.Equal(t, tt.wantURL, *n.ActionURL)
		})
	}
}
