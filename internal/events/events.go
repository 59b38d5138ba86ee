// Package events fans domain events out to Kafka and live dashboards.
// Publishing happens after a record is persisted; a failed publish never
// undoes the write.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"carepoint/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

func NewEvent(eventType domain.EventType, payload any) domain.Event {
	return domain.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event domain.Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Bounded caps how long Publish may block the caller. The write outlives a
// cancelled request context but never the timeout.
type Bounded struct {
	Publisher Publisher
	Timeout   time.Duration
}

func (b Bounded) Publish(ctx context.Context, event domain.Event) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.Timeout)
	defer cancel()
	return b.Publisher.Publish(ctx, event)
}

type Noop struct{}

func (Noop) Publish(context.Context, domain.Event) error { return nil }
