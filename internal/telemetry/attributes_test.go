// SPDX-License-Identifier: MIT
package telemetry

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestSessionAttributes(t *testing.T) {
	attrs := SessionAttributes("running", 25)

	if len(attrs) != 2 {
		t.Fatalf("Expected 2 attributes, got %d", len(attrs))
	}

	verifyAttribute(t, attrs, SessionStateKey, "running")
	verifyIntAttribute(t, attrs, SessionTargetCountKey, 25)
}

func TestHarvestAttributes(t *testing.T) {
	attrs := HarvestAttributes("synthwave artist", 140, 2)

	if len(attrs) != 3 {
		t.Fatalf("Expected 3 attributes, got %d", len(attrs))
	}

	verifyAttribute(t, attrs, HarvestQueryKey, "synthwave artist")
	verifyIntAttribute(t, attrs, HarvestVideosSeen, 140)
	verifyIntAttribute(t, attrs, HarvestNoProgress, 2)
}

func TestEnrichAttributes(t *testing.T) {
	attrs := EnrichAttributes("spotify", "success", 312)

	if len(attrs) != 3 {
		t.Fatalf("Expected 3 attributes, got %d", len(attrs))
	}

	verifyAttribute(t, attrs, EnrichSourceKey, "spotify")
	verifyAttribute(t, attrs, EnrichOutcomeKey, "success")
	verifyInt64Attribute(t, attrs, EnrichDurationKey, 312)
}

func TestQuotaAttributes(t *testing.T) {
	attrs := QuotaAttributes("spotify_lookup", 9842)

	if len(attrs) != 2 {
		t.Fatalf("Expected 2 attributes, got %d", len(attrs))
	}

	verifyAttribute(t, attrs, QuotaOperationKey, "spotify_lookup")
	verifyIntAttribute(t, attrs, QuotaRemainingKey, 9842)
}

func TestErrorAttributes(t *testing.T) {
	attrs := ErrorAttributes("rate_limited")

	if len(attrs) != 2 {
		t.Fatalf("Expected 2 attributes, got %d", len(attrs))
	}

	verifyBoolAttribute(t, attrs, ErrorKey, true)
	verifyAttribute(t, attrs, ErrorKindKey, "rate_limited")
}

func TestAttributeKeys_Consistency(t *testing.T) {
	// Verify attribute keys follow OpenTelemetry conventions
	keys := []string{
		SessionStateKey,
		SessionTargetCountKey,
		HarvestQueryKey,
		HarvestVideosSeen,
		HarvestNoProgress,
		EnrichSourceKey,
		EnrichOutcomeKey,
		EnrichDurationKey,
		QuotaOperationKey,
		QuotaRemainingKey,
		ErrorKey,
		ErrorKindKey,
	}

	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key == "" {
			t.Errorf("Expected non-empty attribute key")
		}
		if seen[key] {
			t.Errorf("Duplicate attribute key %q", key)
		}
		seen[key] = true
	}
}

// Helper functions for attribute verification

func verifyAttribute(t *testing.T, attrs []attribute.KeyValue, key, expectedValue string) {
	t.Helper()
	for _, attr := range attrs {
		if string(attr.Key) == key {
			if attr.Value.AsString() != expectedValue {
				t.Errorf("Expected %s=%s, got %s", key, expectedValue, attr.Value.AsString())
			}
			return
		}
	}
	t.Errorf("Attribute %s not found", key)
}

func verifyIntAttribute(t *testing.T, attrs []attribute.KeyValue, key string, expectedValue int) {
	t.Helper()
	for _, attr := range attrs {
		if string(attr.Key) == key {
			if attr.Value.AsInt64() != int64(expectedValue) {
				t.Errorf("Expected %s=%d, got %d", key, expectedValue, attr.Value.AsInt64())
			}
			return
		}
	}
	t.Errorf("Attribute %s not found", key)
}

func verifyInt64Attribute(t *testing.T, attrs []attribute.KeyValue, key string, expectedValue int64) {
	t.Helper()
	for _, attr := range attrs {
		if string(attr.Key) == key {
			if attr.Value.AsInt64() != expectedValue {
				t.Errorf("Expected %s=%d, got %d", key, expectedValue, attr.Value.AsInt64())
			}
			return
		}
	}
	t.Errorf("Attribute %s not found", key)
}

func verifyBoolAttribute(t *testing.T, attrs []attribute.KeyValue, key string, expectedValue bool) {
	t.Helper()
	for _, attr := range attrs {
		if string(attr.Key) == key {
			if attr.Value.AsBool() != expectedValue {
				t.Errorf("Expected %s=%t, got %t", key, expectedValue, attr.Value.AsBool())
			}
			return
		}
	}
	t.Errorf("Attribute %s not found", key)
}
