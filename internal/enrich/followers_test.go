// SPDX-License-Identifier: MIT

package enrich

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFollowerCount(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"1.2K", 1200, true},
		{"3.4M", 3_400_000, true},
		{"2B", 2_000_000_000, true},
		{"1,234", 1234, true},
		{"512", 512, true},
		{"not a number", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseFollowerCount(c.raw)
		require.Equal(t, c.ok, ok, "raw=%q", c.raw)
		if c.ok {
			require.Equal(t, c.want, got, "raw=%q", c.raw)
		}
	}
}
