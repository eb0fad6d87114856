package clipjob

import (
	"context"
	"testing"
	"time"
)

func TestDefaultPacingBounds(t *testing.T) {
	p := DefaultPacing()
	if !p.Enabled {
		t.Fatalf("default pacing should be enabled")
	}
	for i := 0; i < 50; i++ {
		if d := p.clipDelay(); d < p.ClipDelayMin || d >= p.ClipDelayMax {
			t.Fatalf("clip delay out of bounds: %s", d)
		}
		if d := p.rowDelay(); d < p.RowDelayMin || d >= p.RowDelayMax {
			t.Fatalf("row delay out of bounds: %s", d)
		}
	}
}

func TestRandomDelay_DegenerateRange(t *testing.T) {
	if d := randomDelay(time.Second, time.Second); d != time.Second {
		t.Fatalf("degenerate range: %s", d)
	}
}

func TestSleepWithStop_InterruptedByStop(t *testing.T) {
	stop := &Stop{}
	go func() {
		time.Sleep(50 * time.Millisecond)
		stop.Request()
	}()

	start := time.Now()
	done := sleepWithStop(context.Background(), stop, 10*time.Second)
	if done {
		t.Fatalf("sleep should report interruption")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("sleep did not stop promptly: %s", elapsed)
	}
}

func TestSleepWithStop_CompletesShortSleep(t *testing.T) {
	if !sleepWithStop(context.Background(), nil, 20*time.Millisecond) {
		t.Fatalf("uninterrupted sleep should report completion")
	}
}

func TestSleepWithStop_InterruptedByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sleepWithStop(ctx, nil, time.Second) {
		t.Fatalf("canceled context should interrupt the sleep")
	}
}

func TestStop_NilSafe(t *testing.T) {
	var s *Stop
	s.Request()
	if s.Requested() {
		t.Fatalf("nil stop must never report a request")
	}
}
