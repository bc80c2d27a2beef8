// Package notifier delivers circle and ledger events off the request path.
package notifier

//go:generate mockgen -source=dispatcher.go -destination=dispatcher_mock.go -package=notifier

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-savings-circle/internal/events"
	"github.com/sbilibin2017/gw-savings-circle/internal/logger"
	"github.com/sbilibin2017/gw-savings-circle/internal/metrics"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
)

// NotificationWriter persists in-app notifications.
type NotificationWriter interface {
	Create(ctx context.Context, n *models.Notification) error // Inserts a notification
}

// EventPublisher publishes an event to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value any) error // Publishes value under key
}

// Config tunes the dispatcher.
type Config struct {
	Workers   int           // Number of delivery goroutines
	QueueSize int           // Events buffered before Notify starts dropping
	MaxRetry  time.Duration // Total time spent retrying one delivery step
}

// Defaults used for zero Config fields
const (
	DefaultWorkers   = 4
	DefaultQueueSize = 1024
	DefaultMaxRetry  = 30 * time.Second
)

const deliveryTimeout = 5 * time.Second

// Dispatcher queues events and delivers them from a pool of workers.
type Dispatcher struct {
	store     NotificationWriter
	publisher EventPublisher
	metrics   *metrics.Ledger
	cfg       Config

	mu     sync.RWMutex
	closed bool
	queue  chan models.Event
	wg     sync.WaitGroup

	newBackOff func() backoff.BackOff
}

// New creates a Dispatcher and starts its workers.
func New(store NotificationWriter, publisher EventPublisher, m *metrics.Ledger, cfg Config) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.MaxRetry <= 0 {
		cfg.MaxRetry = DefaultMaxRetry
	}

	d := &Dispatcher{
		store:     store,
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
		queue:     make(chan models.Event, cfg.QueueSize),
	}
	d.newBackOff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 200 * time.Millisecond
		b.MaxElapsedTime = d.cfg.MaxRetry
		return b
	}

	d.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go d.worker()
	}
	return d
}

// Notify enqueues event without blocking. When the queue is full or the dispatcher is
// closed the event is dropped and logged.
func (d *Dispatcher) Notify(ctx context.Context, event models.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		logger.Log.Warnw("notifier closed, dropping event", "type", event.Type, "recipient", event.RecipientID)
		d.metrics.NotificationsDropped.Inc()
		return
	}

	select {
	case d.queue <- event:
	default:
		logger.Log.Warnw("notifier queue full, dropping event", "type", event.Type, "recipient", event.RecipientID)
		d.metrics.NotificationsDropped.Inc()
	}
}

// Close stops accepting events and waits until the queued ones are delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	logger.Log.Infow("notifier stopped")
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for event := range d.queue {
		if err := d.deliver(event); err != nil {
			logger.Log.Errorw("failed to deliver event", "type", event.Type, "recipient", event.RecipientID, "error", err)
			d.metrics.NotificationsFailed.Inc()
			continue
		}
		d.metrics.NotificationsSent.Inc()
	}
}

// deliver persists the in-app notification, then publishes the event. Steps retry separately.
func (d *Dispatcher) deliver(event models.Event) error {
	n := Render(event)
	n.NotificationID = uuid.New()

	err := d.retry(func(ctx context.Context) error {
		return d.store.Create(ctx, &n)
	})
	if err != nil {
		return err
	}

	return d.retry(func(ctx context.Context) error {
		err := d.publisher.Publish(ctx, event.RecipientID.String(), event)
		if errors.Is(err, events.ErrDisabled) {
			return nil
		}
		return err
	})
}

func (d *Dispatcher) retry(op func(ctx context.Context) error) error {
	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()
		return op(ctx)
	}, d.newBackOff(), func(err error, wait time.Duration) {
		logger.Log.Warnw("event delivery failed, retrying", "attempt", attempt, "wait", wait, "error", err)
	})
}
