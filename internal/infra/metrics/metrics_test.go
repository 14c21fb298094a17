package metrics

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"library/internal/infra/persistence/postgres"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Handler(t *testing.T) {
	db, err := postgres.OpenSQLite(":memory:")
	require.NoError(t, err)

	m := New(Params{DB: db, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	m.OrdersPlaced.WithLabelValues("Borrow").Inc()
	m.ReviewsSubmitted.Inc()
	m.RequestsTotal.WithLabelValues(http.MethodGet, "/", "200").Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(m.OrdersPlaced.WithLabelValues("Borrow")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ReviewsSubmitted), 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `library_orders_placed_total{order_type="Borrow"} 1`)
	assert.Contains(t, body, `library_http_requests_total{method="GET",path="/",status="200"} 1`)
	assert.Contains(t, body, "go_sql_max_open_connections")
}

func TestMetrics_WithoutDB(t *testing.T) {
	m := New(Params{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		assert.NotContains(t, f.GetName(), "go_sql_")
	}
}
