package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"po-generator/internal/metrics"
)

func TestMetrics_CountersAndHandler(t *testing.T) {
	m := metrics.New()

	m.ObserveHTTP("GET", "/api/health", "200", 3*time.Millisecond)
	m.ObserveRender("ok", 10*time.Millisecond)
	m.AssetOmitted("logo")
	m.AssetOmitted("logo")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/health", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RendersTotal.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AssetWarnings.WithLabelValues("logo")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "po_generator_pdf_asset_warnings_total")
}

func TestNew_IndependentRegistries(t *testing.T) {
	a := metrics.New()
	b := metrics.New()
	a.PONumbersAllocated.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.PONumbersAllocated))
}
