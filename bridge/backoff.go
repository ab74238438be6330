package bridge

import (
	"math"
	"math/rand"
	"time"
)

// BackoffConfig shapes the delay between console connection attempts.
type BackoffConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
}

// NextBackoffDelay returns the delay before console connection attempt N
// (1-based). The jittered delay is capped at MaxDelay.
func NextBackoffDelay(cfg BackoffConfig, attempt int, rng *rand.Rand) time.Duration {
	if attempt <= 1 {
		return cfg.InitialDelay
	}
	if cfg.InitialDelay <= 0 {
		return 0
	}
	if cfg.Multiplier < 1.0 {
		cfg.Multiplier = 1.0
	}
	delay := float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attempt-1))
	if cfg.Jitter {
		delay *= jitterFactor(rng)
	}
	if cfg.MaxDelay > 0 {
		delay = math.Min(delay, float64(cfg.MaxDelay))
	}
	return time.Duration(delay)
}

// jitterFactor is in [0.5, 1.5), or 0.5 for a nil rng.
func jitterFactor(rng *rand.Rand) float64 {
	if rng == nil {
		return 0.5
	}
	return 0.5 + rng.Float64()
}
