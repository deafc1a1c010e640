// internal/rewards/rewards.go
//
// Daily reward accrual for subscribers.
// Responsibilities:
//   - Decide whether today's reward is still collectable (one claim per
//     UTC calendar day).
//   - Scale the reward bundle by the number of days accrued since the last
//     collection, capped to bound reward inflation from long absences.
//   - Split the item grant across the four hint types with nothing lost to
//     rounding.
//
// Degraded input policy: a malformed last-collected date, or one in the
// future (clock skew, corrupted state), degrades to a one-day bundle. Reward
// state corruption must never block the player, so this package has no error
// returns at all.
package rewards

import "time"

const (
	// MaxAccrualDays caps how many offline days a bundle can represent.
	MaxAccrualDays = 30

	// LivesPerDay and ItemsPerDay scale the bundle per accrued day.
	LivesPerDay = 2
	ItemsPerDay = 3
)

// ItemType identifies one of the four hint consumables.
type ItemType string

const (
	ItemRevealLetter     ItemType = "reveal_letter"
	ItemEliminateLetters ItemType = "eliminate_letters"
	ItemShowDefinition   ItemType = "show_definition"
	ItemSkipLevel        ItemType = "skip_level"
)

// ItemOrder is the fixed, stable order remainder items are assigned in.
// Distribution correctness depends on this order not changing.
var ItemOrder = [4]ItemType{
	ItemRevealLetter,
	ItemEliminateLetters,
	ItemShowDefinition,
	ItemSkipLevel,
}

// Bundle is one computed reward: either applied whole or not at all.
type Bundle struct {
	Days          int              `json:"days"`          // accrual days represented
	Lives         int              `json:"lives"`         // life grant (uncapped, event grant)
	Items         map[ItemType]int `json:"items"`         // per-type hint grants
	CollectedDate string           `json:"collectedDate"` // persist as the new last-collected date
}

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Calculate computes the reward bundle owed as of today.
// Returns ok=false when the reward was already collected today; otherwise a
// full bundle scaled by clamp(daysBetween, 1, MaxAccrualDays) days.
func Calculate(lastCollected string, today time.Time) (Bundle, bool) {
	todayKey := DateKey(today)
	if lastCollected == todayKey {
		return Bundle{}, false
	}

	days := 1
	if lastCollected != "" {
		if last, err := time.Parse("2006-01-02", lastCollected); err == nil {
			days = clampDays(daysBetween(last, today))
		}
		// Unparseable dates fall through with days=1: treated the same as a
		// first-ever collection.
	}

	return Bundle{
		Days:          days,
		Lives:         LivesPerDay * days,
		Items:         Distribute(ItemsPerDay * days),
		CollectedDate: todayKey,
	}, true
}

// Distribute splits total across the four item types as evenly as possible:
// base = total/4, and the first total%4 types (in ItemOrder) get one extra.
// The per-type counts always sum exactly to total and differ by at most 1.
func Distribute(total int) map[ItemType]int {
	base := total / 4
	rem := total % 4
	out := make(map[ItemType]int, len(ItemOrder))
	for i, it := range ItemOrder {
		n := base
		if i < rem {
			n++
		}
		out[it] = n
	}
	return out
}

// daysBetween counts whole UTC calendar days from a to b.
func daysBetween(a, b time.Time) int {
	au, bu := a.UTC(), b.UTC()
	ad := time.Date(au.Year(), au.Month(), au.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(bu.Year(), bu.Month(), bu.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad) / (24 * time.Hour))
}

// clampDays bounds accrual to [1, MaxAccrualDays].
// Values below 1 cover future last-collected dates (skew/corruption).
func clampDays(d int) int {
	if d < 1 {
		return 1
	}
	if d > MaxAccrualDays {
		return MaxAccrualDays
	}
	return d
}
