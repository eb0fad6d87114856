package clipjob

import (
	"context"
	"math/rand"
	"time"
)

// PacingConfig spaces out requests so a long batch does not hammer the
// source. Delays are uniform random within [Min, Max].
type PacingConfig struct {
	Enabled      bool
	ClipDelayMin time.Duration
	ClipDelayMax time.Duration
	RowDelayMin  time.Duration
	RowDelayMax  time.Duration
}

func DefaultPacing() PacingConfig {
	return PacingConfig{
		Enabled:      true,
		ClipDelayMin: 1 * time.Second,
		ClipDelayMax: 2 * time.Second,
		RowDelayMin:  10 * time.Second,
		RowDelayMax:  15 * time.Second,
	}
}

func (p PacingConfig) clipDelay() time.Duration {
	return randomDelay(p.ClipDelayMin, p.ClipDelayMax)
}

func (p PacingConfig) rowDelay() time.Duration {
	return randomDelay(p.RowDelayMin, p.RowDelayMax)
}

func randomDelay(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}

// sleepWithStop waits out d in short slices so a stop request or
// context cancellation cuts the wait short. Returns false when
// interrupted.
func sleepWithStop(ctx context.Context, stop *Stop, d time.Duration) bool {
	const slice = 100 * time.Millisecond
	deadline := time.Now().Add(d)
	for {
		if stop.Requested() || ctx.Err() != nil {
			return false
		}
		remain := time.Until(deadline)
		if remain <= 0 {
			return true
		}
		if remain > slice {
			remain = slice
		}
		time.Sleep(remain)
	}
}
