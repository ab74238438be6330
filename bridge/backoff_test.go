package bridge

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextBackoffDelay(t *testing.T) {
	cfg := BackoffConfig{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2}

	assert.Equal(t, 100*time.Millisecond, NextBackoffDelay(cfg, 1, nil))
	assert.Equal(t, 200*time.Millisecond, NextBackoffDelay(cfg, 2, nil))
	assert.Equal(t, 400*time.Millisecond, NextBackoffDelay(cfg, 3, nil))
	assert.Equal(t, time.Second, NextBackoffDelay(cfg, 10, nil), "capped at max")

	cfg.Multiplier = 0.5
	assert.Equal(t, 100*time.Millisecond, NextBackoffDelay(cfg, 4, nil), "multiplier below 1 is treated as 1")

	assert.Zero(t, NextBackoffDelay(BackoffConfig{}, 3, nil))
}

func TestNextBackoffDelayJitter(t *testing.T) {
	cfg := BackoffConfig{InitialDelay: 100 * time.Millisecond, Multiplier: 2, Jitter: true}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		d := NextBackoffDelay(cfg, 2, rng)
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.Less(t, d, 300*time.Millisecond)
	}
}

func TestNextBackoffDelayJitterRespectsMax(t *testing.T) {
	cfg := BackoffConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2,
		Jitter:       true,
	}
	rng := rand.New(rand.NewSource(7))
	for attempt := 2; attempt < 12; attempt++ {
		for i := 0; i < 50; i++ {
			assert.LessOrEqual(t, NextBackoffDelay(cfg, attempt, rng), time.Second)
		}
	}
}
