package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type ProductReader interface {
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
}

type Dedup interface {
	Claim(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
}

type StockSnapshots interface {
	Forget(ctx context.Context, productID string) error
	Swap(ctx context.Context, productID string, stock int) (prev int, ok bool, err error)
}

// Service watches placed orders and raises ProductStockLow when a product's
// stock falls to Threshold or below. The previous snapshot decides whether the
// product has just crossed the threshold; products already known to be low
// are not alerted again until their stock recovers or the snapshot expires.
type Service struct {
	Products    ProductReader
	Dedup       Dedup
	Snapshots   StockSnapshots
	Alerts      orders.Producer // publishes on TopicProductStockLow
	Threshold   int
	ServiceName string
	Logger      *zap.Logger
}

// HandleOrderPlaced is the consumer handler for TopicOrderPlaced. A returned
// error makes the consumer retry the message; its offset is not committed
// until a call succeeds.
func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		s.logger().Error("drop undecodable event", zap.Int64("offset", m.Offset), zap.Error(err))
		return nil
	}
	if env.EventType != orders.EventOrderPlaced {
		return nil
	}

	first, err := s.Dedup.Claim(ctx, env.EventID)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	if err := s.process(ctx, env); err != nil {
		if rerr := s.Dedup.Release(ctx, env.EventID); rerr != nil {
			s.logger().Warn("release dedup key", zap.String("event_id", env.EventID), zap.Error(rerr))
		}
		return err
	}
	return nil
}

func (s *Service) process(ctx context.Context, env orders.Envelope) error {
	p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
	if err != nil {
		s.logger().Error("drop order placed payload", zap.String("event_id", env.EventID), zap.Error(err))
		return nil
	}

	prod, err := s.Products.GetProduct(ctx, p.ProductID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		s.logger().Warn("order for unknown product", zap.String("order_id", p.OrderID), zap.String("product_id", p.ProductID))
		return nil
	}
	if err != nil {
		return err
	}

	prev, known, err := s.Snapshots.Swap(ctx, prod.ID, prod.Stock)
	if err != nil {
		s.logger().Warn("swap stock snapshot", zap.String("product_id", prod.ID), zap.Error(err))
		known = false
	}

	if prod.Stock > s.Threshold {
		return nil
	}
	if known && prev <= s.Threshold {
		s.logger().Debug("product already low",
			zap.String("product_id", prod.ID),
			zap.Int("stock", prod.Stock))
		return nil
	}
	s.logger().Info("product stock low",
		zap.String("product_id", prod.ID),
		zap.Int("stock", prod.Stock),
		zap.Int("threshold", s.Threshold))
	if err := s.publishStockLow(prod, p.OrderID, env.TraceID); err != nil {
		// Without the snapshot the redelivered event sees a fresh crossing.
		if ferr := s.Snapshots.Forget(ctx, prod.ID); ferr != nil {
			s.logger().Warn("forget stock snapshot", zap.String("product_id", prod.ID), zap.Error(ferr))
		}
		return err
	}
	return nil
}

func (s *Service) publishStockLow(p catalog.Product, orderID, trace string) error {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventProductStockLow,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       trace,
		CorrelationID: p.ID,
		Payload: kafkax.MustMarshal(orders.ProductStockLowPayload{
			ProductID: p.ID,
			Name:      p.Name,
			Stock:     p.Stock,
			Threshold: s.Threshold,
			OrderID:   orderID,
		}),
	}
	return s.Alerts.Publish(orders.PartitionKey(p.ID), kafkax.MustMarshal(ev), orders.EventHeaders(orders.EventProductStockLow)...)
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
