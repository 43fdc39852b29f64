package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/platform/cache"
)

const metricsNamespace = "f1_fantasy"

// DraftMetrics counts draft outcomes on a Prometheus registry.
type DraftMetrics struct {
	picksCommitted *prometheus.CounterVec
	pickRejections *prometheus.CounterVec
	roundsStarted  prometheus.Counter
	boardSize      prometheus.Gauge
}

func NewDraftMetrics(reg prometheus.Registerer) *DraftMetrics {
	m := &DraftMetrics{
		picksCommitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "draft_picks_committed_total",
			Help:      "Resolved draft picks by asset type and whether they were made automatically.",
		}, []string{"asset_type", "auto"}),
		pickRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "draft_pick_rejections_total",
			Help:      "Rejected pick attempts by reason.",
		}, []string{"reason"}),
		roundsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "draft_rounds_started_total",
			Help:      "Draft boards regenerated.",
		}),
		boardSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "draft_board_picks",
			Help:      "Picks on the board generated by the latest round start.",
		}),
	}
	reg.MustRegister(m.picksCommitted, m.pickRejections, m.roundsStarted, m.boardSize)
	return m
}

func (m *DraftMetrics) PickCommitted(assetType draft.AssetType, auto bool) {
	label := "false"
	if auto {
		label = "true"
	}
	m.picksCommitted.WithLabelValues(string(assetType), label).Inc()
}

func (m *DraftMetrics) PickRejected(reason string) {
	m.pickRejections.WithLabelValues(reason).Inc()
}

func (m *DraftMetrics) RoundStarted(totalPicks int) {
	m.roundsStarted.Inc()
	m.boardSize.Set(float64(totalPicks))
}

// cacheCollector exposes the lookup counters of a cache store.
type cacheCollector struct {
	store  *cache.Store
	hits   *prometheus.Desc
	misses *prometheus.Desc
	loads  *prometheus.Desc
}

func NewCacheCollector(store *cache.Store) prometheus.Collector {
	return &cacheCollector{
		store:  store,
		hits:   prometheus.NewDesc(metricsNamespace+"_cache_hits_total", "Cache lookups served from memory.", nil, nil),
		misses: prometheus.NewDesc(metricsNamespace+"_cache_misses_total", "Cache lookups that missed.", nil, nil),
		loads:  prometheus.NewDesc(metricsNamespace+"_cache_loads_total", "Loads run on behalf of missed lookups.", nil, nil),
	}
}

func (c *cacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.loads
}

func (c *cacheCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.store.Stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stats.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stats.Misses))
	ch <- prometheus.MustNewConstMetric(c.loads, prometheus.CounterValue, float64(stats.Loads))
}

// NewRegistry returns a registry preloaded with the Go runtime and process
// collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
