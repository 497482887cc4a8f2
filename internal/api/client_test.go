package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetshop-admin/internal/models"
	"sweetshop-admin/internal/session"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	UserID string
	Body   string
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recorded
	handler  http.HandlerFunc
}

func newFakeBackend(t *testing.T, handler http.HandlerFunc) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{handler: handler}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.requests = append(fb.requests, recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			UserID: r.Header.Get(UserIDHeader),
			Body:   string(body),
		})
		fb.mu.Unlock()
		fb.handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) last() recorded {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.requests[len(fb.requests)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func signedIn(t *testing.T, uid string) *session.Session {
	t.Helper()
	s := session.New(nil)
	require.NoError(t, s.Login(context.Background(), session.Identity{UID: uid}))
	return s
}

func TestSessionHeader(t *testing.T) {
	fb, srv := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.Sweet{})
	})
	ctx := context.Background()

	t.Run("signed in", func(t *testing.T) {
		c := NewClient(srv.URL+"/api", signedIn(t, "uid-7"))
		_, err := c.ListSweets(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "uid-7", fb.last().UserID)
	})

	t.Run("signed out", func(t *testing.T) {
		c := NewClient(srv.URL+"/api", session.New(nil))
		_, err := c.ListSweets(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, fb.last().UserID)
	})

	t.Run("nil session", func(t *testing.T) {
		c := NewClient(srv.URL+"/api", nil)
		_, err := c.ListSweets(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, fb.last().UserID)
	})
}

func TestSessionTransportDoesNotMutateCaller(t *testing.T) {
	var seen string
	tr := &SessionTransport{
		Base: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			seen = r.Header.Get(UserIDHeader)
			return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
		}),
		Session: signedIn(t, "abc"),
	}

	req, err := http.NewRequest(http.MethodGet, "http://example.invalid/x", nil)
	require.NoError(t, err)
	resp, err := tr.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "abc", seen)
	assert.Empty(t, req.Header.Get(UserIDHeader))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestRoutes(t *testing.T) {
	fb, srv := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
		case http.MethodGet:
			if r.URL.Path == "/api/dashboard/stats" {
				writeJSON(w, http.StatusOK, map[string]any{"total_sweets": 2, "total_revenue": 10.5})
				return
			}
			writeJSON(w, http.StatusOK, []any{})
		default:
			writeJSON(w, http.StatusCreated, map[string]any{"id": 5})
		}
	})
	c := NewClient(srv.URL+"/api/", signedIn(t, "u"))
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func() error
		method string
		path   string
		query  string
		body   string
	}{
		{
			name:   "list sweets by category",
			call:   func() error { _, err := c.ListSweets(ctx, "Candy"); return err },
			method: http.MethodGet, path: "/api/sweets", query: "category=Candy",
		},
		{
			name: "create sweet",
			call: func() error {
				_, err := c.CreateSweet(ctx, models.SweetInput{Name: "Ladoo", Category: "Classic", Price: 4.5, Stock: 10})
				return err
			},
			method: http.MethodPost, path: "/api/sweets",
			body: `{"name":"Ladoo","category":"Classic","price":4.5,"stock":10,"description":"","image_url":""}`,
		},
		{
			name:   "update sweet",
			call:   func() error { _, err := c.UpdateSweet(ctx, 5, models.SweetInput{Name: "Barfi"}); return err },
			method: http.MethodPut, path: "/api/sweets/5",
		},
		{
			name:   "delete customer",
			call:   func() error { return c.DeleteCustomer(ctx, 7) },
			method: http.MethodDelete, path: "/api/customers/7",
		},
		{
			name:   "orders by customer",
			call:   func() error { _, err := c.ListOrders(ctx, 3); return err },
			method: http.MethodGet, path: "/api/orders", query: "customer_id=3",
		},
		{
			name: "create order with no items",
			call: func() error {
				_, err := c.CreateOrder(ctx, models.OrderCreate{CustomerID: 1})
				return err
			},
			method: http.MethodPost, path: "/api/orders",
			body: `{"customer_id":1,"items":[]}`,
		},
		{
			name: "update order status",
			call: func() error {
				_, err := c.UpdateOrderStatus(ctx, 9, models.StatusCompleted)
				return err
			},
			method: http.MethodPut, path: "/api/orders/9",
			body: `{"status":"completed"}`,
		},
		{
			name:   "categories",
			call:   func() error { _, err := c.ListCategories(ctx); return err },
			method: http.MethodGet, path: "/api/categories",
		},
		{
			name:   "dashboard",
			call:   func() error { _, err := c.DashboardStats(ctx); return err },
			method: http.MethodGet, path: "/api/dashboard/stats",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.call())
			got := fb.last()
			assert.Equal(t, tt.method, got.Method)
			assert.Equal(t, tt.path, got.Path)
			assert.Equal(t, tt.query, got.Query)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, got.Body)
			}
		})
	}
}

func TestErrorMessageExtraction(t *testing.T) {
	status := http.StatusBadRequest
	var body any = map[string]string{"error": "Cannot delete customer that has orders"}
	_, srv := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, body)
	})
	c := NewClient(srv.URL, nil)
	ctx := context.Background()

	err := c.DeleteCustomer(ctx, 7)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Cannot delete customer that has orders", Message(err, "Failed to delete customer"))

	status = http.StatusInternalServerError
	body = "boom"
	err = c.DeleteCustomer(ctx, 7)
	require.Error(t, err)
	assert.Equal(t, "Failed to delete customer", Message(err, "Failed to delete customer"))
}

func TestMessageFallbacks(t *testing.T) {
	assert.Equal(t, "fallback", Message(nil, "fallback"))
	assert.Equal(t, "fallback", Message(io.ErrUnexpectedEOF, "fallback"))
	assert.Equal(t, "fallback", Message(&Error{Op: "x", StatusCode: 500}, "fallback"))
}

func TestListNonArrayIsEmpty(t *testing.T) {
	_, srv := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "not a list"})
	})
	c := NewClient(srv.URL, nil)

	sweets, err := c.ListSweets(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, sweets)
	assert.Empty(t, sweets)
}

func TestRequestConstructionFailure(t *testing.T) {
	c := NewClient("http://bad host", nil)
	_, err := c.ListCustomers(context.Background())
	require.Error(t, err)

	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr))
	assert.Equal(t, "Failed to load customers", Message(err, "Failed to load customers"))
}
