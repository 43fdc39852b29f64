package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/riskibarqy/f1-fantasy/internal/observability"
)

type prometheusRegistry struct {
	registry *prometheus.Registry
	draft    *observability.DraftMetrics
}

func newPrometheusRegistry(repos repositories) *prometheusRegistry {
	reg := observability.NewRegistry()
	out := &prometheusRegistry{
		registry: reg,
		draft:    observability.NewDraftMetrics(reg),
	}
	if repos.cache != nil {
		reg.MustRegister(observability.NewCacheCollector(repos.cache))
	}
	return out
}
