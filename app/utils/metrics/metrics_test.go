package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.OrderPlaced("card")
	m.OrderPlaced("card")
	m.CheckoutFailed("insufficient_stock")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OrdersPlaced.WithLabelValues("card")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckoutFailures.WithLabelValues("insufficient_stock")))

	// registries are independent
	assert.Equal(t, 0.0, testutil.ToFloat64(New().OrdersPlaced.WithLabelValues("card")))
}

func TestHandlerExposesNamespace(t *testing.T) {
	m := New()
	m.OrderPlaced("cod")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `perfumery_orders_placed_total{payment_method="cod"} 1`)
}
