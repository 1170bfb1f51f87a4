// SPDX-License-Identifier: MIT

// Package metrics provides Prometheus metrics for the discovery pipeline.
// No label here carries a session_id or artist name: cardinality stays
// bounded regardless of how many sessions run over the process lifetime.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "discovery_sessions_started_total",
		Help: "Total number of discovery sessions started.",
	})

	SessionsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "discovery_sessions_completed_total",
		Help: "Total number of discovery sessions ending, by terminal state.",
	}, []string{"state"})

	CandidatesSeen = promauto.NewCounter(prometheus.CounterOpts{
		Name: "discovery_candidates_seen_total",
		Help: "Total number of candidate videos observed by the harvester.",
	})

	CandidatesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "discovery_candidates_accepted_total",
		Help: "Total number of candidates passing the title filter and deduplication.",
	})

	ArtistsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "discovery_artists_stored_total",
		Help: "Total number of artist profiles persisted.",
	})

	ArtistsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "discovery_artists_rejected_total",
		Help: "Total number of candidate artists rejected, by reason.",
	}, []string{"reason"})

	EnrichmentSourceResult = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "discovery_enrichment_source_result_total",
		Help: "Enrichment source outcomes, by source and result kind.",
	}, []string{"source", "result"})

	EnrichmentSourceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "discovery_enrichment_source_duration_seconds",
		Help:    "Enrichment source call latency, by source.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	QuotaRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "discovery_quota_rejected_total",
		Help: "Total number of quota acquisitions denied, by operation.",
	}, []string{"op"})

	QuotaResetTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "discovery_quota_reset_total",
		Help: "Total number of wall-clock quota resets.",
	})

	CacheHit = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "discovery_cache_hit_total",
		Help: "Cache hits, by operation.",
	}, []string{"op"})

	CacheMiss = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "discovery_cache_miss_total",
		Help: "Cache misses, by operation.",
	}, []string{"op"})

	FetchStrategyAttempt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "discovery_fetch_strategy_attempt_total",
		Help: "Fetch strategy attempts, by strategy and outcome.",
	}, []string{"strategy", "outcome"})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "discovery_circuit_breaker_state",
		Help: "Current circuit breaker state (0=closed,1=open,2=half-open), by name.",
	}, []string{"name"})

	ProgressBusSubscriberDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "discovery_progressbus_subscriber_dropped_total",
		Help: "Total number of subscribers dropped for falling behind.",
	})

	DeduplicateHit = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "discovery_dedup_hit_total",
		Help: "Deduplication decisions, by outcome (fresh/duplicate).",
	}, []string{"outcome"})
)
