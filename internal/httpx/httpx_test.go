package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/money"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/session"
	"github.com/ariefcatur/go-storefront/internal/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrders struct {
	listCalls  int
	err        error
	order      *orders.Order
	list       []orders.Order
	lastUserID string
	lastID     string
}

func (f *fakeOrders) PlaceOrder(_ context.Context, _ orders.PlaceOrderRequest, userID string) (*orders.Order, error) {
	f.lastUserID = userID
	return f.order, f.err
}

func (f *fakeOrders) GetOrder(_ context.Context, id, userID string) (*orders.Order, error) {
	f.lastID, f.lastUserID = id, userID
	return f.order, f.err
}

func (f *fakeOrders) ListOrders(_ context.Context, userID string) ([]orders.Order, error) {
	f.listCalls++
	f.lastUserID = userID
	return f.list, f.err
}

type fakeCatalog struct {
	products []catalog.Product
}

func (f *fakeCatalog) ListCategories(context.Context) ([]catalog.Category, error) {
	return []catalog.Category{{ID: "c1", Name: "Women's Clothing"}}, nil
}

func (f *fakeCatalog) ListProducts(_ context.Context, categoryID string) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range f.products {
		if categoryID == "" || p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (catalog.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return catalog.Product{}, catalog.ErrProductNotFound
}

type fakeUsers struct {
	users map[string]*users.User
}

func (f *fakeUsers) Register(_ context.Context, req users.RegisterRequest) (*users.User, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, users.ErrMissingFields
	}
	u := &users.User{ID: "u-" + req.Username, Username: req.Username, Email: req.Email}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsers) Login(_ context.Context, req users.LoginRequest) (*users.User, error) {
	for _, u := range f.users {
		if u.Email == req.Email && req.Password == "pw" {
			return u, nil
		}
	}
	return nil, users.ErrInvalidCredentials
}

func (f *fakeUsers) Profile(_ context.Context, id string) (*users.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, users.ErrUserNotFound
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, id string, req users.UpdateProfileRequest) (*users.User, error) {
	u, err := f.Profile(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	return u, nil
}

type memSessions struct {
	mu  sync.Mutex
	m   map[string]session.Session
	n   int
	err error
}

func (s *memSessions) Create(_ context.Context, userID, username string) (session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	sess := session.Session{ID: fmt.Sprintf("s%d", s.n), UserID: userID, Username: username}
	s.m[sess.ID] = sess
	return sess, nil
}

func (s *memSessions) Get(_ context.Context, id string) (session.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return session.Session{}, false, s.err
	}
	sess, ok := s.m[id]
	return sess, ok, nil
}

func (s *memSessions) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

type testServer struct {
	h        http.Handler
	orders   *fakeOrders
	users    *fakeUsers
	sessions *memSessions
}

func newTestServer() *testServer {
	ts := &testServer{
		orders:   &fakeOrders{},
		users:    &fakeUsers{users: map[string]*users.User{}},
		sessions: &memSessions{m: map[string]session.Session{}},
	}
	cat := &fakeCatalog{products: []catalog.Product{
		{ID: "p1", Name: "Floral Summer Dress", CategoryID: "c1", Price: money.MustParse("29.99"), Stock: 5},
		{ID: "p2", Name: "Denim Jacket", CategoryID: "c2", Price: money.MustParse("59.99"), Stock: 3},
	}}
	ts.h = NewRouter(RouterConfig{CORSOrigins: []string{"*"}, Sessions: ts.sessions},
		&OrdersHandler{Orders: ts.orders},
		&CatalogHandler{Catalog: cat},
		&AuthHandler{Users: ts.users, Sessions: ts.sessions, SessionTTL: time.Hour},
	)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func sampleOrder() *orders.Order {
	return &orders.Order{
		ID:              "o1",
		ProductID:       "p1",
		Quantity:        2,
		UnitPrice:       money.MustParse("29.99"),
		TotalPrice:      money.MustParse("59.98"),
		CustomerInfo:    orders.CustomerInfo{Name: "Asha", Email: "asha@example.com", Phone: "99999"},
		ShippingAddress: orders.ShippingAddress{Street: "1 MG Road", City: "Pune", State: "MH", ZipCode: "411001", Country: "India"},
		OrderStatus:     orders.StatusConfirmed,
		PaymentStatus:   orders.PaymentPending,
	}
}

func TestAPIRoot(t *testing.T) {
	ts := newTestServer()
	for _, path := range []string{"/api", "/api/"} {
		rec := ts.do(t, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "StyleSphere Fashion API", decode(t, rec)["message"])
	}

	rec := ts.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCreateOrder(t *testing.T) {
	ts := newTestServer()
	ts.orders.order = sampleOrder()

	rec := ts.do(t, http.MethodPost, "/api/orders", `{"product_id":"p1","quantity":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "Order created successfully", body["message"])
	order := body["order"].(map[string]any)
	assert.Equal(t, 59.98, order["total_price"])
	assert.Equal(t, "India", order["shipping_address"].(map[string]any)["country"])
	assert.Equal(t, "Asha", order["customer_info"].(map[string]any)["name"])
	assert.Nil(t, order["user_id"])
	assert.Equal(t, "", ts.orders.lastUserID)
}

func TestCreateOrderMalformedJSON(t *testing.T) {
	ts := newTestServer()
	rec := ts.do(t, http.MethodPost, "/api/orders", `{"product_id":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON", decode(t, rec)["error"])
}

func TestOrderErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{&orders.ValidationError{Field: "size"}, http.StatusBadRequest, "size is required"},
		{catalog.ErrInsufficientStock, http.StatusBadRequest, "Insufficient stock"},
		{catalog.ErrProductNotFound, http.StatusNotFound, "Product not found"},
		{orders.ErrOrderNotFound, http.StatusNotFound, "Order not found"},
		{orders.ErrAccessDenied, http.StatusForbidden, "Access denied"},
		{errors.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			ts := newTestServer()
			ts.orders.err = tc.err

			rec := ts.do(t, http.MethodGet, "/api/orders/o1", "")
			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, tc.msg, decode(t, rec)["error"])
		})
	}
}

func TestOrdersUseSessionIdentity(t *testing.T) {
	ts := newTestServer()
	ts.orders.order = sampleOrder()
	sess, _ := ts.sessions.Create(context.Background(), "u1", "asha")
	cookie := &http.Cookie{Name: session.CookieName, Value: sess.ID}

	rec := ts.do(t, http.MethodGet, "/api/orders/o1", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "o1", ts.orders.lastID)
	assert.Equal(t, "u1", ts.orders.lastUserID)

	rec = ts.do(t, http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", ts.orders.lastUserID)
	assert.Equal(t, []any{}, decode(t, rec)["orders"])
}

func TestCatalogRoutes(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodGet, "/api/products?category_id=c2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ps := decode(t, rec)["products"].([]any)
	require.Len(t, ps, 1)
	assert.Equal(t, "Denim Jacket", ps[0].(map[string]any)["name"])

	rec = ts.do(t, http.MethodGet, "/api/products/p1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 29.99, decode(t, rec)["product"].(map[string]any)["price"])

	rec = ts.do(t, http.MethodGet, "/api/products/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["categories"], 1)
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodPost, "/api/register", `{"username":"asha"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username, email, and password are required", decode(t, rec)["error"])

	rec = ts.do(t, http.MethodPost, "/api/register", `{"username":"asha","email":"asha@example.com","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Registration successful", decode(t, rec)["message"])
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, session.CookieName, cookie.Name)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = ts.do(t, http.MethodGet, "/api/profile", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/profile", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "asha", decode(t, rec)["user"].(map[string]any)["username"])

	rec = ts.do(t, http.MethodPut, "/api/profile", `{"full_name":"Asha K"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Asha K", body["user"].(map[string]any)["full_name"])
	assert.NotContains(t, body, "message")

	rec = ts.do(t, http.MethodGet, "/api/check-auth", "", cookie)
	assert.Equal(t, true, decode(t, rec)["authenticated"])

	rec = ts.do(t, http.MethodPost, "/api/login", `{"email":"asha@example.com","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decode(t, rec)["error"])

	rec = ts.do(t, http.MethodPost, "/api/login", `{"email":"asha@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login successful", decode(t, rec)["message"])

	rec = ts.do(t, http.MethodPost, "/api/logout", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logout successful", decode(t, rec)["message"])

	rec = ts.do(t, http.MethodGet, "/api/check-auth", "", cookie)
	assert.Equal(t, false, decode(t, rec)["authenticated"])
}

func TestSessionStoreFailureIsNotAnonymous(t *testing.T) {
	ts := newTestServer()
	sess, _ := ts.sessions.Create(context.Background(), "u1", "asha")
	ts.sessions.err = errors.New("redis down")

	rec := ts.do(t, http.MethodGet, "/api/orders", "", &http.Cookie{Name: session.CookieName, Value: sess.ID})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decode(t, rec)["error"])
	assert.Zero(t, ts.orders.listCalls)
}
