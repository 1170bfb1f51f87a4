// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRemoteBackend_GetSetRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	r := &RemoteBackend{
		client: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		logger: zerolog.Nop(),
	}
	defer r.Close()

	ctx := context.Background()
	require.NoError(t, r.Set(ctx, "spotify.search:artist", map[string]string{"id": "sp1"}, time.Hour))

	var out map[string]string
	ok, err := r.Get(ctx, "spotify.search:artist", &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "sp1", out["id"])

	ok, err = r.Get(ctx, "missing-key", &out)
	require.NoError(t, err)
	require.False(t, ok)
}
