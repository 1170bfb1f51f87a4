// SPDX-License-Identifier: MIT

package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fretline/discovery/internal/model"
)

func TestParseFilters_SplitsKeyValuePairs(t *testing.T) {
	filters, err := parseFilters([]string{"genre=synthwave", "region=de"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"genre": "synthwave", "region": "de"}, filters)
}

func TestParseFilters_RejectsMissingEquals(t *testing.T) {
	_, err := parseFilters([]string{"genresynthwave"})
	require.Error(t, err)
}

func TestParseFilters_RejectsEmptyKey(t *testing.T) {
	_, err := parseFilters([]string{"=synthwave"})
	require.Error(t, err)
}

func TestExitCodeFor_InvalidRequestMapsToUsage(t *testing.T) {
	err := model.NewError(model.KindInvalidRequest, "discover.flags", "bad", nil)
	require.Equal(t, exitUsageOrInvalid, exitCodeFor(err))
}

func TestExitCodeFor_OtherKindsMapToSessionFailed(t *testing.T) {
	err := model.NewError(model.KindFatal, "discover.session", "boom", nil)
	require.Equal(t, exitSessionFailed, exitCodeFor(err))
}
