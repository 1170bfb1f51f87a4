// SPDX-License-Identifier: MIT

package ports

import (
	"math/rand"
	"time"
)

// RealClock is the production Clock backed by time.Now.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// MathRandSource is the production RandomSource backed by math/rand.
// It is only used for retry jitter, never for anything security-sensitive.
type MathRandSource struct {
	rnd *rand.Rand
}

// NewMathRandSource seeds a private generator so concurrent retries do not
// contend on the shared global lock.
func NewMathRandSource(seed int64) *MathRandSource {
	return &MathRandSource{rnd: rand.New(rand.NewSource(seed))}
}

func (s *MathRandSource) Float64() float64 { return s.rnd.Float64() }
