package orders

import (
	"context"
	"time"

	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

type Producer interface {
	Publish(key, value []byte, headers ...kafkago.Header) error
}

// EventPublisher emits OrderPlaced envelopes on TopicOrderPlaced.
type EventPublisher struct {
	Producer Producer
	Service  string
}

func (p *EventPublisher) OrderPlaced(ctx context.Context, o *Order) error {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      p.Service,
		TraceID:       middleware.GetReqID(ctx),
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(OrderPlacedPayload{
			OrderID:    o.ID,
			UserID:     o.UserID,
			ProductID:  o.ProductID,
			Quantity:   o.Quantity,
			Size:       o.Size,
			UnitPrice:  o.UnitPrice,
			TotalPrice: o.TotalPrice,
			CreatedAt:  o.CreatedAt,
		}),
	}
	return p.Producer.Publish(PartitionKey(o.ID), kafkax.MustMarshal(ev), EventHeaders(EventOrderPlaced)...)
}

func EventHeaders(eventType string) []kafkago.Header {
	return []kafkago.Header{
		{Key: "x-event-type", Value: []byte(eventType)},
		{Key: "x-event-version", Value: []byte("1")},
	}
}
