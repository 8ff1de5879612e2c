package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	FilesParsedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anino_files_parsed_total",
		Help: "Total number of source files handed to the front-end, by outcome.",
	}, []string{"outcome"})

	ParsingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "anino_parsing_seconds",
		Help:    "Time spent parsing a single source file.",
		Buckets: prometheus.DefBuckets,
	})

	ScanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "anino_scan_stage_seconds",
		Help:    "Time spent in each scan stage.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	EndpointsDiscoveredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anino_endpoints_discovered_total",
		Help: "Endpoints discovered, by declaration style.",
	}, []string{"style"})

	ResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anino_resolutions_total",
		Help: "Top-level return type resolutions, by resulting descriptor tag.",
	}, []string{"tag"})

	LookupStrategyHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anino_lookup_strategy_hits_total",
		Help: "Symbol lookups answered by each strategy.",
	}, []string{"strategy"})

	ReplayRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anino_replay_requests_total",
		Help: "Requests served by the replay server.",
	}, []string{"method", "status"})

	ReplayRateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anino_replay_rate_limited_total",
		Help: "Requests rejected by the replay server rate limiter.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anino_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
