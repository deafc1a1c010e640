package lives

import (
	"testing"
	"time"
)

var t0 = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestAtOrAboveCapPausesClock(t *testing.T) {
	cases := []struct {
		name    string
		balance int
	}{
		{"exactly at cap", SoftCap},
		{"above cap from event grants", SoftCap + 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			last := t0.Add(-3 * time.Hour) // stale elapsed time that must not be credited
			now := t0
			balance, clock, granted := Regenerate(tc.balance, last, now)
			if granted != 0 {
				t.Errorf("granted = %d, want 0", granted)
			}
			if balance != tc.balance {
				t.Errorf("balance = %d, want %d", balance, tc.balance)
			}
			if !clock.Equal(now) {
				t.Errorf("clock = %v, want reset to now %v", clock, now)
			}
		})
	}
}

func TestFirstCallEstablishesNoBaseline(t *testing.T) {
	balance, clock, granted := Regenerate(3, time.Time{}, t0)
	if granted != 0 || balance != 3 {
		t.Fatalf("granted=%d balance=%d, want 0 and 3", granted, balance)
	}
	// The original unset clock comes back; the caller's next write sets the
	// real baseline.
	if !clock.IsZero() {
		t.Fatalf("clock = %v, want zero", clock)
	}
}

func TestNoGrantBeforeOneInterval(t *testing.T) {
	last := t0
	now := t0.Add(Interval - time.Second)
	balance, clock, granted := Regenerate(5, last, now)
	if granted != 0 || balance != 5 {
		t.Fatalf("granted=%d balance=%d, want 0 and 5", granted, balance)
	}
	if !clock.Equal(last) {
		t.Fatalf("clock = %v, want unchanged %v", clock, last)
	}
}

func TestExactlyOneIntervalGrantsOne(t *testing.T) {
	last := t0
	now := t0.Add(Interval)
	balance, clock, granted := Regenerate(5, last, now)
	if granted != 1 || balance != 6 {
		t.Fatalf("granted=%d balance=%d, want 1 and 6", granted, balance)
	}
	if !clock.Equal(now) {
		t.Fatalf("clock = %v, want %v", clock, now)
	}
}

func TestGrantCappedAtSoftCap(t *testing.T) {
	// 24h elapsed is far more than the 2 intervals of room left.
	last := t0
	now := t0.Add(24 * time.Hour)
	balance, _, granted := Regenerate(8, last, now)
	if granted != 2 {
		t.Fatalf("granted = %d, want 2 (capped)", granted)
	}
	if balance != SoftCap {
		t.Fatalf("balance = %d, want %d", balance, SoftCap)
	}
}

func TestFractionalRemainderPreserved(t *testing.T) {
	last := t0
	now := t0.Add(2*Interval + 7*time.Minute)
	balance, clock, granted := Regenerate(3, last, now)
	if granted != 2 || balance != 5 {
		t.Fatalf("granted=%d balance=%d, want 2 and 5", granted, balance)
	}
	// Clock advances by the whole intervals only: the 7 minutes keep
	// counting toward the next life.
	want := t0.Add(2 * Interval)
	if !clock.Equal(want) {
		t.Fatalf("clock = %v, want %v", clock, want)
	}
	// Three minutes after the original now, the next life arrives.
	balance, _, granted = Regenerate(balance, clock, clock.Add(Interval))
	if granted != 1 || balance != 6 {
		t.Fatalf("follow-up granted=%d balance=%d, want 1 and 6", granted, balance)
	}
}

func TestClockSkewTreatedAsZeroElapsed(t *testing.T) {
	last := t0.Add(time.Hour) // clock in the future
	balance, clock, granted := Regenerate(4, last, t0)
	if granted != 0 || balance != 4 {
		t.Fatalf("granted=%d balance=%d, want 0 and 4", granted, balance)
	}
	if !clock.Equal(last) {
		t.Fatalf("clock = %v, want unchanged %v", clock, last)
	}
}

func TestUntilNextConsistentWithRegenerate(t *testing.T) {
	last := t0
	now := t0.Add(90 * time.Second)

	d := UntilNext(5, last, now)
	if d != Interval-90*time.Second {
		t.Fatalf("UntilNext = %v, want %v", d, Interval-90*time.Second)
	}
	// At that future instant, exactly one life is due.
	_, _, granted := Regenerate(5, last, now.Add(d))
	if granted != 1 {
		t.Fatalf("Regenerate at now+UntilNext granted %d, want 1", granted)
	}

	if d := UntilNext(SoftCap, last, now); d != 0 {
		t.Errorf("UntilNext at cap = %v, want 0", d)
	}
	if d := UntilNext(5, time.Time{}, now); d != Interval {
		t.Errorf("UntilNext with unset clock = %v, want full interval", d)
	}
	if d := UntilNext(5, last, t0.Add(Interval+time.Second)); d != 0 {
		t.Errorf("UntilNext with grant pending = %v, want 0", d)
	}
}

func TestUntilFullConsistentWithRegenerate(t *testing.T) {
	last := t0
	now := t0.Add(4 * time.Minute)

	d := UntilFull(8, last, now)
	want := 2*Interval - 4*time.Minute
	if d != want {
		t.Fatalf("UntilFull = %v, want %v", d, want)
	}
	balance, _, _ := Regenerate(8, last, now.Add(d))
	if balance != SoftCap {
		t.Fatalf("Regenerate at now+UntilFull balance = %d, want %d", balance, SoftCap)
	}

	if d := UntilFull(SoftCap+2, last, now); d != 0 {
		t.Errorf("UntilFull above cap = %v, want 0", d)
	}
	if d := UntilFull(7, time.Time{}, now); d != 3*Interval {
		t.Errorf("UntilFull with unset clock = %v, want %v", d, 3*Interval)
	}
}
