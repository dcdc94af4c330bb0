package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/ecodeli/ecodeli-api/internal/events"
	"github.com/ecodeli/ecodeli-api/internal/service"
)

const defaultQueueSize = 256

// ErrQueueFull is returned by Publish when the worker cannot accept more events.
var ErrQueueFull = errors.New("notification queue full")

// ErrStopped is returned by Publish after Stop.
var ErrStopped = errors.New("notification worker stopped")

type queuedEvent struct {
	ctx   context.Context
	event events.Event
}

// NotificationWorker moves event delivery off the request path. It
// implements events.Dispatcher so services publish to it directly.
type NotificationWorker struct {
	inner  events.Dispatcher
	queue  chan queuedEvent
	logger *zap.Logger

	mu      sync.RWMutex
	stopped bool
	done    chan struct{}
}

// NewNotificationWorker wraps inner with a bounded queue drained by one goroutine.
func NewNotificationWorker(inner events.Dispatcher, queueSize int, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	w := &NotificationWorker{
		inner:  inner,
		queue:  make(chan queuedEvent, queueSize),
		logger: logger,
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

// StartNotificationWorker registers the notification handlers and returns
// a worker fronting inner.
func StartNotificationWorker(notifications *service.NotificationService, inner events.Dispatcher, logger *zap.Logger) *NotificationWorker {
	w := NewNotificationWorker(inner, defaultQueueSize, logger)
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	return w
}

// Publish enqueues the event. It never blocks the caller.
func (w *NotificationWorker) Publish(ctx context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return ErrStopped
	}

	select {
	case w.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	default:
		w.logger.Warn("dropping event, notification queue full",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		return ErrQueueFull
	}
}

// Subscribe registers the handler on the wrapped dispatcher.
func (w *NotificationWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.inner.Subscribe(eventType, handler)
}

// Stop refuses new events and waits until queued ones are delivered or ctx ends.
func (w *NotificationWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.queue)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *NotificationWorker) run() {
	defer close(w.done)
	for item := range w.queue {
		if err := w.inner.Publish(item.ctx, item.event); err != nil {
			w.logger.Warn("event delivery failed",
				zap.String("event_id", item.event.ID),
				zap.Error(err))
		}
	}
}
