package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/platform/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDraftMetrics(reg)

	m.PickCommitted(draft.AssetDriver, false)
	m.PickCommitted(draft.AssetDriver, true)
	m.PickCommitted(draft.AssetConstructor, false)
	m.PickRejected("stale_turn")
	m.PickRejected("stale_turn")
	m.RoundStarted(16)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.picksCommitted.WithLabelValues("driver", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.picksCommitted.WithLabelValues("constructor", "false")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.pickRejections.WithLabelValues("stale_turn")))
	assert.Equal(t, 16.0, testutil.ToFloat64(m.boardSize))
}

func TestMetricsHandler_ExposesCacheStats(t *testing.T) {
	store := cache.NewStore(time.Minute)
	ctx := context.Background()
	_, _ = store.Get(ctx, "driver:list")
	store.Set(ctx, "driver:list", 1)
	_, _ = store.Get(ctx, "driver:list")

	reg := NewRegistry()
	reg.MustRegister(NewCacheCollector(store))

	rec := httptest.NewRecorder()
	MetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, "f1_fantasy_cache_hits_total 1"))
	assert.True(t, strings.Contains(text, "f1_fantasy_cache_misses_total 1"))
	assert.True(t, strings.Contains(text, "go_goroutines"))
}
