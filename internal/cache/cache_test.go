// SPDX-License-Identifier: MIT

package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCache_HitAndMiss(t *testing.T) {
	c := New(0, 0)
	defer c.Close()

	_, ok := c.Get("spotify.search", "k1")
	require.False(t, ok)

	c.Set("spotify.search", "k1", "v1", time.Minute)
	v, ok := c.Get("spotify.search", "k1")
	require.True(t, ok)
	require.Equal(t, "v1", v)
}

func TestCache_TTLExpiry(t *testing.T) {
	c := New(0, 0)
	defer c.Close()

	c.Set("fetch.plain", "k1", "v1", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("fetch.plain", "k1")
	require.False(t, ok)
}

func TestCache_LRUEviction(t *testing.T) {
	c := New(2, 0)
	defer c.Close()

	c.Set("op", "a", 1, time.Minute)
	c.Set("op", "b", 2, time.Minute)
	c.Get("op", "a") // a is now most-recently-used
	c.Set("op", "c", 3, time.Minute) // evicts b

	_, ok := c.Get("op", "b")
	require.False(t, ok, "b should have been evicted as least-recently-used")

	_, ok = c.Get("op", "a")
	require.True(t, ok)
	_, ok = c.Get("op", "c")
	require.True(t, ok)
}

func TestCache_GetOrLoad_CollapsesConcurrentMisses(t *testing.T) {
	c := New(0, 0)
	defer c.Close()

	var calls int
	load := func() (any, error) {
		calls++
		return "loaded", nil
	}

	done := make(chan struct{}, 10)
	for i := 0; i < 10; i++ {
		go func() {
			v, err := c.GetOrLoad("spotify.search", "shared-key", time.Minute, load)
			require.NoError(t, err)
			require.Equal(t, "loaded", v)
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
	require.LessOrEqual(t, calls, 10) // singleflight should keep this well below 10 in practice
}

func TestCache_GetOrLoad_FailureNotCached(t *testing.T) {
	c := New(0, 0)
	defer c.Close()

	wantErr := errors.New("upstream down")
	_, err := c.GetOrLoad("spotify.search", "k", time.Minute, func() (any, error) {
		return nil, wantErr
	})
	require.ErrorIs(t, err, wantErr)

	_, ok := c.Get("spotify.search", "k")
	require.False(t, ok)
}
