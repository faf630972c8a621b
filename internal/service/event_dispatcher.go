package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/iyhunko/platforma-manager/internal/model"
)

// ErrDispatcherFull is returned when the event buffer has no room left.
var ErrDispatcherFull = errors.New("event buffer is full")

const defaultDispatchBuffer = 100

// EventDispatcher buffers catalog events and forwards them to a publisher in the background,
// so commands never wait on the message queue.
type EventDispatcher struct {
	publisher EventPublisher
	events    chan model.CatalogEvent
	done      chan struct{}
}

// NewEventDispatcher creates a dispatcher in front of publisher. A buffer size of zero uses the default.
func NewEventDispatcher(publisher EventPublisher, buffer int) *EventDispatcher {
	if buffer <= 0 {
		buffer = defaultDispatchBuffer
	}
	return &EventDispatcher{
		publisher: publisher,
		events:    make(chan model.CatalogEvent, buffer),
		done:      make(chan struct{}),
	}
}

// PublishEvent enqueues the event without blocking.
func (d *EventDispatcher) PublishEvent(_ context.Context, event model.CatalogEvent) error {
	select {
	case d.events <- event:
		return nil
	default:
		return ErrDispatcherFull
	}
}

// Start forwards events until ctx is done, then drains what is left in the buffer.
func (d *EventDispatcher) Start(ctx context.Context) {
	defer close(d.done)
	slog.Info("Event dispatcher started")

	for {
		select {
		case <-ctx.Done():
			d.drain()
			slog.Info("Event dispatcher stopped")
			return
		case event := <-d.events:
			d.forward(ctx, event)
		}
	}
}

// Done is closed once Start has returned.
func (d *EventDispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *EventDispatcher) drain() {
	for {
		select {
		case event := <-d.events:
			d.forward(context.Background(), event)
		default:
			return
		}
	}
}

func (d *EventDispatcher) forward(ctx context.Context, event model.CatalogEvent) {
	if err := d.publisher.PublishEvent(ctx, event); err != nil {
		slog.Error("Failed to publish event",
			slog.Any("err", err),
			slog.String("event_id", event.ID.String()),
			slog.String("action", string(event.Action)))
		return
	}
	slog.Debug("Event published", slog.String("event_id", event.ID.String()), slog.String("action", string(event.Action)))
}
