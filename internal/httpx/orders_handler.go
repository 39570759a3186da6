package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/session"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, req orders.PlaceOrderRequest, userID string) (*orders.Order, error)
	GetOrder(ctx context.Context, id, userID string) (*orders.Order, error)
	ListOrders(ctx context.Context, userID string) ([]orders.Order, error)
}

type OrdersHandler struct {
	Orders OrderService
	Logger *zap.Logger
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{order_id}", h.getOrder)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req orders.PlaceOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	o, err := h.Orders.PlaceOrder(r.Context(), req, session.UserID(r.Context()))
	if err != nil {
		fail(w, r, nopIfNil(h.Logger), err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Order created successfully",
		"order":   o,
	})
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.Orders.ListOrders(r.Context(), session.UserID(r.Context()))
	if err != nil {
		fail(w, r, nopIfNil(h.Logger), err)
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": list})
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.Orders.GetOrder(r.Context(), chi.URLParam(r, "order_id"), session.UserID(r.Context()))
	if err != nil {
		fail(w, r, nopIfNil(h.Logger), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": o})
}
