package notify

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"restauranthub/internal/domain"
	"restauranthub/internal/infrastructure/events"
	"restauranthub/internal/store"
)

// Forwarder relays store events to a broker from its own goroutine. Events that
// arrive while the queue is full are dropped and logged.
type Forwarder struct {
	publisher events.Publisher
	queue     chan store.Event
	logger    *zap.Logger
}

func NewForwarder(publisher events.Publisher, buffer int, logger *zap.Logger) *Forwarder {
	return &Forwarder{
		publisher: publisher,
		queue:     make(chan store.Event, buffer),
		logger:    logger,
	}
}

// Handle is a store.Listener.
func (f *Forwarder) Handle(e store.Event) {
	select {
	case f.queue <- e:
	default:
		f.logger.Warn("event queue full, dropping event", zap.String("type", string(e.Type)))
	}
}

// Run publishes queued events until ctx is cancelled, then drains what is left.
func (f *Forwarder) Run(ctx context.Context) error {
	for {
		select {
		case e := <-f.queue:
			f.publish(ctx, e)
		case <-ctx.Done():
			f.drain()
			return nil
		}
	}
}

func (f *Forwarder) drain() {
	for {
		select {
		case e := <-f.queue:
			f.publish(context.Background(), e)
		default:
			return
		}
	}
}

func (f *Forwarder) publish(ctx context.Context, e store.Event) {
	body, err := json.Marshal(e)
	if err != nil {
		f.logger.Error("failed to encode event", zap.String("type", string(e.Type)), zap.Error(err))
		return
	}

	msg := events.Message{Key: eventKey(e), Type: string(e.Type), Body: body}
	if err := f.publisher.Publish(ctx, msg); err != nil {
		f.logger.Error("failed to publish event", zap.String("type", msg.Type), zap.String("key", msg.Key), zap.Error(err))
	}
}

// eventKey names the entity an event is about.
func eventKey(e store.Event) string {
	switch p := e.Payload.(type) {
	case domain.Order:
		return "order:" + p.ID
	case domain.Draft[domain.Order]:
		return "draft:" + p.ID
	case domain.Draft[domain.PendingBooking]:
		return "booking:" + p.ID
	case domain.Table:
		return "table:" + p.ID
	case domain.RefundRequest:
		return "refund:" + p.ID
	case domain.Withdrawal:
		return "withdrawal:" + p.ID
	case domain.Branch:
		return "branch:" + p.ID
	default:
		return string(e.Type)
	}
}
