package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name      string
		perMinute float64
		burst     int
		calls     int
		wantPass  int
	}{
		{"burst allows initial requests", 60, 3, 3, 3},
		{"exceeding burst blocks", 60, 2, 5, 2},
		{"zero burst still admits one", 60, 0, 3, 1},
		{"non-positive rate disables limiting", 0, 1, 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.perMinute, tt.burst, 0)
			defer rl.Stop()

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow("client") {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	rl := New(1, 1, 0)
	defer rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"), "first key should be exhausted")
	assert.True(t, rl.Allow("10.0.0.2"), "second key has its own bucket")
	assert.Equal(t, 2, rl.tracked())
}

func TestKeyedRateLimiter_SweepForgetsIdleKeys(t *testing.T) {
	rl := New(60, 1, time.Hour)
	defer rl.Stop()

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	rl.Allow("stale")
	clock = clock.Add(45 * time.Minute)
	rl.Allow("fresh")
	clock = clock.Add(30 * time.Minute)

	assert.Equal(t, 1, rl.Sweep())
	assert.Equal(t, 1, rl.tracked())

	// A forgotten key starts over with a full bucket.
	assert.True(t, rl.Allow("stale"))
}

func TestKeyedRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := New(60, 1, time.Millisecond)
	rl.Stop()
	rl.Stop()
}
