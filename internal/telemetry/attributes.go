// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the discovery
// pipeline. Session ID and artist name are deliberately never included
// here: they are high-cardinality and belong in the span name or a log
// line, not a metric-adjacent attribute set.
const (
	SessionStateKey       = "session.state"
	SessionTargetCountKey = "session.target_count"

	HarvestQueryKey    = "harvest.query"
	HarvestVideosSeen  = "harvest.videos_seen"
	HarvestNoProgress  = "harvest.no_progress_count"

	EnrichSourceKey   = "enrich.source"
	EnrichOutcomeKey  = "enrich.outcome"
	EnrichDurationKey = "enrich.duration_ms"

	QuotaOperationKey = "quota.operation"
	QuotaRemainingKey = "quota.remaining"

	ErrorKey     = "error"
	ErrorKindKey = "error.kind"
)

// SessionAttributes creates span attributes describing a session's static
// request shape.
func SessionAttributes(state string, targetCount int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(SessionStateKey, state),
		attribute.Int(SessionTargetCountKey, targetCount),
	}
}

// HarvestAttributes creates span attributes for one harvester run.
func HarvestAttributes(query string, videosSeen, noProgressCount int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HarvestQueryKey, query),
		attribute.Int(HarvestVideosSeen, videosSeen),
		attribute.Int(HarvestNoProgress, noProgressCount),
	}
}

// EnrichAttributes creates span attributes for one enrichment source call.
func EnrichAttributes(source, outcome string, durationMS int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(EnrichSourceKey, source),
		attribute.String(EnrichOutcomeKey, outcome),
		attribute.Int64(EnrichDurationKey, durationMS),
	}
}

// QuotaAttributes creates span attributes for a quota reservation decision.
func QuotaAttributes(operation string, remaining int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(QuotaOperationKey, operation),
		attribute.Int(QuotaRemainingKey, remaining),
	}
}

// ErrorAttributes creates error-related span attributes from a closed Kind
// string, matching internal/model.Kind.String().
func ErrorAttributes(kind string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorKindKey, kind),
	}
}
