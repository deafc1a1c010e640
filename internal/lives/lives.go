// internal/lives/lives.go
//
// Passive regeneration for the lives resource.
// Responsibilities:
//   - Propose an updated life balance for a given wall-clock reading.
//   - Track the regen clock: the timestamp regeneration was last computed at.
//   - Answer read-only countdown queries (time to next life / to full).
//
// Rules:
//   - Lives regenerate one per Interval, but passive regen never pushes the
//     balance above SoftCap. Event grants elsewhere (level completion) may
//     exceed the cap; this package only proposes values, the caller persists.
//   - While the balance is at or above the cap the clock is paused: elapsed
//     time is not banked, and the clock resets to "now" so regen resumes
//     cleanly once the balance drops below the cap again.
//   - A zero clock means regeneration was never initialized. The first call
//     grants nothing and returns the original zero clock; the caller's next
//     write establishes the real baseline. Intentional asymmetry — do not
//     "fix" it by returning now here.
//   - All functions are pure: no side effects, safe for concurrent callers.
package lives

import "time"

const (
	// SoftCap is the ceiling passive regeneration will not exceed.
	SoftCap = 10

	// Interval is the time required to regenerate a single life.
	Interval = 10 * time.Minute
)

// Regenerate computes an updated balance and clock for the given instant.
// Returns the proposed balance, the clock value the caller should persist,
// and how many lives this call granted.
//
// The clock advances by exactly the whole intervals consumed, so a fractional
// remainder keeps counting toward the next life instead of being rounded
// away. Negative elapsed time (wall-clock skew) counts as zero.
func Regenerate(balance int, lastClock, now time.Time) (newBalance int, newClock time.Time, granted int) {
	if balance >= SoftCap {
		// Nothing is owed while full. Resetting the clock to now prevents
		// stale elapsed time from being credited once the balance drops.
		return balance, now, 0
	}

	base := lastClock
	if base.IsZero() {
		base = now
	}

	elapsed := now.Sub(base)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed < Interval {
		// No grant due. Return the original clock, not the synthesized base:
		// when lastClock was unset this leaves it unset, and the caller's
		// subsequent write establishes the baseline.
		return balance, lastClock, 0
	}

	intervals := int(elapsed / Interval)
	granted = intervals
	if room := SoftCap - balance; granted > room {
		granted = room
	}
	return balance + granted, base.Add(time.Duration(intervals) * Interval), granted
}

// UntilNext reports how long until the next single life would be granted.
// Zero when the balance is at or above the cap, or when a grant is already
// due (the caller should Regenerate first). With an unset clock a full
// Interval remains, matching what Regenerate would do after the baseline is
// established.
func UntilNext(balance int, lastClock, now time.Time) time.Duration {
	if balance >= SoftCap {
		return 0
	}
	if lastClock.IsZero() {
		return Interval
	}
	elapsed := now.Sub(lastClock)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= Interval {
		return 0
	}
	return Interval - elapsed
}

// UntilFull reports how long until passive regeneration alone would bring the
// balance up to SoftCap. Zero when already at or above the cap. Consistent
// with Regenerate: calling it at now+UntilFull yields a full balance.
func UntilFull(balance int, lastClock, now time.Time) time.Duration {
	deficit := SoftCap - balance
	if deficit <= 0 {
		return 0
	}
	if lastClock.IsZero() {
		return time.Duration(deficit) * Interval
	}
	elapsed := now.Sub(lastClock)
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := time.Duration(deficit)*Interval - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}
