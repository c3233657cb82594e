package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/configs"
	"github.com/Rakhulsr/go-perfumery/app/db/testdb"
	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/utils/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type client struct {
	t       *testing.T
	handler http.Handler
	metrics *metrics.Metrics
}

func newClient(t *testing.T) *client {
	t.Helper()
	cfg := &configs.Config{
		AppEnv:         "test",
		JWTSecret:      "router-test-secret-0123456789abcdef",
		TokenTTL:       time.Hour,
		CORSOrigins:    "http://localhost:3000",
		MaxPhotoBytes:  1 << 20,
		CurrencySymbol: "$",
	}
	m := metrics.New()
	return &client{t: t, handler: NewRouter(testdb.Open(t), cfg, zap.NewNop(), m), metrics: m}
}

func (c *client) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	c.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case url.Values:
		reader = bytes.NewReader([]byte(b.Encode()))
	default:
		raw, err := json.Marshal(b)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if _, ok := body.(url.Values); ok {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	out := map[string]any{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func (c *client) login(role, username string) string {
	c.t.Helper()
	rec, body := c.do(http.MethodPost, "/"+role+"/signup", "", map[string]string{
		"username":         username,
		"email":            username + "@example.com",
		"phone_number":     "555" + username,
		"password":         "secret123",
		"confirm_password": "secret123",
	})
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotZero(c.t, body["user_id"])

	rec, body = c.do(http.MethodPost, "/"+role+"/login", "", map[string]string{"username": username, "password": "secret123"})
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	return body["token"].(string)
}

func TestShoppingFlow(t *testing.T) {
	c := newClient(t)
	admin := c.login("admin", "root")
	ada := c.login("customer", "ada")

	rec, body := c.do(http.MethodPost, "/admin/perfumes", admin, url.Values{
		"name":     {"Rose Noir"},
		"price":    {"40.00"},
		"category": {"women"},
		"size":     {"50ml", "100ml"},
		"quantity": {"3"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Perfume added!", body["message"])
	id := uint(body["id"].(float64))

	rec, _ = c.do(http.MethodPost, "/admin/perfumes", ada, url.Values{"name": {"Nope"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = c.do(http.MethodGet, fmt.Sprintf("/perfumes/%d", id), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	perfume := body["perfume"].(map[string]any)
	assert.Equal(t, "low", perfume["stock_level"])
	assert.Equal(t, true, perfume["in_stock"])

	rec, body = c.do(http.MethodPost, "/cart", ada, map[string]any{"items": []any{
		map[string]any{"perfume_id": id, "quantity": 2, "size": "100ml"},
		map[string]any{"perfume_id": 999, "quantity": 1},
		"oops",
		map[string]any{"perfume_id": id, "size": true},
	}})
	assert.Equal(t, http.StatusMultiStatus, rec.Code, rec.Body.String())
	assert.Equal(t, "Partial success", body["message"])
	assert.Len(t, body["errors"], 3)

	rec, body = c.do(http.MethodGet, "/cart", ada, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["cart_items"], 1)

	checkout := map[string]any{
		"shipping": map[string]string{
			"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com", "phone": "0812",
			"address": "1 Main St", "city": "London", "state": "LDN", "zip": "10001",
		},
		"payment_method": "cod",
		"items":          []map[string]any{{"perfume_id": id, "quantity": 2, "price": 40, "selectedSize": "100ml"}},
		"totalPrice":     80,
		"tax":            8,
		"shippingCost":   5,
	}
	rec, body = c.do(http.MethodPost, "/checkout", ada, checkout)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Order placed successfully!", body["message"])
	assert.Equal(t, string(models.OrderStatusCODPending), body["status"])
	orderID := uint(body["order_id"].(float64))

	rec, body = c.do(http.MethodPost, "/checkout", ada, checkout)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Only 1 left of Rose Noir", body["error"])

	rec, body = c.do(http.MethodGet, "/cart", ada, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["cart_items"])

	rec, body = c.do(http.MethodGet, "/recent-orders?limit=3", ada, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Found 1 recent order(s)", body["message"])

	rec, body = c.do(http.MethodPost, fmt.Sprintf("/admin/orders/%d/cancel", orderID), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Order cancelled successfully", body["message"])

	rec, body = c.do(http.MethodGet, "/admin/sales/report?days=7", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 7, body["period_days"])

	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.OrdersPlaced.WithLabelValues("cod")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.CheckoutFailures.WithLabelValues("insufficient_stock")))
}

func TestReviewsOverHTTP(t *testing.T) {
	c := newClient(t)
	admin := c.login("admin", "root")
	ada := c.login("customer", "ada")

	rec, body := c.do(http.MethodPost, "/admin/perfumes", admin, url.Values{
		"name": {"Oud"}, "price": {"99.00"}, "category": {"unisex"}, "size": {"30ml"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := uint(body["id"].(float64))
	path := fmt.Sprintf("/perfumes/%d/reviews", id)

	rec, _ = c.do(http.MethodPost, path, admin, map[string]any{"rating": 5, "comment": "Mine"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = c.do(http.MethodPost, path, ada, map[string]any{"rating": 4, "comment": "Woody"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reviewID := uint(body["review_id"].(float64))

	rec, body = c.do(http.MethodPost, path, ada, map[string]any{"rating": "5", "comment": "Again"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "You have already reviewed this perfume", body["error"])

	rec, body = c.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 4, body["average_rating"])
	assert.EqualValues(t, 1, body["total_reviews"])

	rec, _ = c.do(http.MethodDelete, fmt.Sprintf("/admin/reviews/%d", reviewID), admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthAndErrors(t *testing.T) {
	c := newClient(t)
	ada := c.login("customer", "ada")

	rec, body := c.do(http.MethodGet, "/dashboard", ada, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome Customer ada!", body["message"])

	rec, body = c.do(http.MethodGet, "/profile", "Bearer "+ada, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Use raw token, not Bearer", body["error"])

	rec, _ = c.do(http.MethodPost, "/admin/login", "", map[string]string{"username": "ada", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = c.do(http.MethodGet, "/admin/orders", ada, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = c.do(http.MethodGet, "/no/such/route", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", body["error"])

	rec, body = c.do(http.MethodPost, "/customer/signup", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required", body["error"])

	rec, _ = c.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	c := newClient(t)
	req := httptest.NewRequest(http.MethodOptions, "/checkout", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
