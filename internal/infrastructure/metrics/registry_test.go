package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayMetrics_Observe(t *testing.T) {
	reg := NewRegistry()

	reg.Gateway.Observe("select", time.Now(), nil)
	reg.Gateway.Observe("select", time.Now(), nil)
	reg.Gateway.Observe("ask", time.Now(), errors.New("boom"))

	assert.Equal(t, float64(2), testutil.ToFloat64(reg.Gateway.Requests("select", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(reg.Gateway.Requests("ask", "error")))
	assert.Equal(t, float64(0), testutil.ToFloat64(reg.Gateway.Requests("ask", "ok")))
}

func TestGatewayMetrics_NilIsNoop(t *testing.T) {
	var m *GatewayMetrics
	assert.NotPanics(t, func() { m.Observe("search", time.Now(), nil) })
}

func TestCacheMetrics(t *testing.T) {
	reg := NewRegistry()

	reg.Cache.Hit("entity")
	reg.Cache.Miss("entity")
	reg.Cache.Miss("entity")
	reg.Cache.Set("people", 3)

	assert.Equal(t, float64(1), testutil.ToFloat64(reg.Cache.Hits("entity")))
	assert.Equal(t, float64(2), testutil.ToFloat64(reg.Cache.Misses("entity")))
	assert.Equal(t, float64(0), testutil.ToFloat64(reg.Cache.Hits("people")))
}

func TestSessionMetrics(t *testing.T) {
	reg := NewRegistry()

	reg.Sessions.SetActive(4)
	reg.Sessions.Search("found")

	assert.Equal(t, float64(4), testutil.ToFloat64(reg.Sessions.Active()))
	assert.Equal(t, float64(1), testutil.ToFloat64(reg.Sessions.Searches("found")))
}

func TestRegistry_RegisterTwice(t *testing.T) {
	reg := NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "extra_total", Help: "extra"})

	require.NoError(t, reg.Register(c))
	require.NoError(t, reg.Register(c))
}

func TestRegistry_Handler(t *testing.T) {
	reg := NewRegistry()
	reg.Gateway.Observe("search", time.Now(), nil)

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `placefolk_gateway_requests_total{kind="search",outcome="ok"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
