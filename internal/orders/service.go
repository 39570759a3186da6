package orders

import (
	"context"
	"time"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store persists orders.
//
// CreateOrder must run as one atomic unit: read the product under a lock,
// reject with catalog.ErrProductNotFound or catalog.ErrInsufficientStock,
// decrement stock by qty, insert the order returned by build, and commit.
// Nothing is written when any step fails.
type Store interface {
	CreateOrder(ctx context.Context, productID string, qty int, build func(p catalog.Product) *Order) (*Order, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
	ListOrders(ctx context.Context, userID string) ([]Order, error)
}

// Cache is a best-effort order lookup cache. Orders never change once
// created, so entries need no invalidation.
type Cache interface {
	GetOrder(ctx context.Context, id string) (*Order, bool)
	SetOrder(ctx context.Context, o *Order)
}

type Notifier interface {
	OrderPlaced(ctx context.Context, o *Order) error
}

type Service struct {
	Store  Store
	Cache  Cache    // optional
	Events Notifier // optional
	Logger *zap.Logger

	Now   func() time.Time
	NewID func() string
}

// PlaceOrder validates req and creates the order for userID; an empty userID
// places an anonymous order.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest, userID string) (*Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	o, err := s.Store.CreateOrder(ctx, req.ProductID, req.Quantity, func(p catalog.Product) *Order {
		return s.newOrder(req, p, userID)
	})
	if err != nil {
		return nil, err
	}

	s.logger().Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("product_id", o.ProductID),
		zap.Int("quantity", o.Quantity),
		zap.Stringer("total_price", o.TotalPrice),
		zap.Bool("anonymous", o.UserID == nil))

	if s.Cache != nil {
		s.Cache.SetOrder(ctx, o)
	}
	if s.Events != nil {
		if err := s.Events.OrderPlaced(ctx, o); err != nil {
			s.logger().Warn("publish order placed", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	return o, nil
}

func (s *Service) newOrder(req PlaceOrderRequest, p catalog.Product, userID string) *Order {
	addr := *req.ShippingAddress
	if addr.Country == "" {
		addr.Country = DefaultCountry
	}
	o := &Order{
		ID:                s.newID(),
		ProductID:         p.ID,
		ProductName:       p.Name,
		ProductImage:      p.ImageURL,
		Quantity:          req.Quantity,
		Size:              req.Size,
		UnitPrice:         p.Price,
		TotalPrice:        p.Price.Mul(req.Quantity),
		CustomerInfo:      *req.CustomerInfo,
		ShippingAddress:   addr,
		PaymentMethod:     PaymentMethodCOD,
		OrderStatus:       StatusConfirmed,
		PaymentStatus:     PaymentPending,
		EstimatedDelivery: DefaultEstimatedDelivery,
		CreatedAt:         s.now().UTC().Truncate(time.Microsecond),
	}
	if userID != "" {
		uid := userID
		o.UserID = &uid
	}
	return o
}

func (s *Service) GetOrder(ctx context.Context, id, userID string) (*Order, error) {
	var (
		o  *Order
		ok bool
	)
	if s.Cache != nil {
		o, ok = s.Cache.GetOrder(ctx, id)
	}
	if !ok {
		var err error
		if o, err = s.Store.GetOrder(ctx, id); err != nil {
			return nil, err
		}
		if s.Cache != nil {
			s.Cache.SetOrder(ctx, o)
		}
	}

	if o.deniedTo(userID) {
		return nil, ErrAccessDenied
	}
	return o, nil
}

// ListOrders returns userID's orders, newest first. With an empty userID it
// returns every order in the store.
func (s *Service) ListOrders(ctx context.Context, userID string) ([]Order, error) {
	return s.Store.ListOrders(ctx, userID)
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}
