// internal/progress/store.go
//
// SQLite-backed repository for per-player progression state: lives, the
// regen clock, subscription reward bookkeeping, hint item counts, coins,
// and the current level number.
//
// Notes:
//   - One row per player in the player_state table, keyed by user ID (a
//     registered user ID or an anonymous cookie ID — guests have lives too).
//   - All methods take a DBTX so a handler can run its read-then-write
//     against a single *sql.Tx. Lives regen and reward claims must be
//     transactional: two concurrent requests reading the same stale row
//     would otherwise double-grant.
//   - The regen clock is stored as unix milliseconds; 0 means regeneration
//     was never initialized (maps to the zero time.Time).

package progress

import (
	"context"
	"database/sql"
	"time"

	"github.com/robalobadob/wordrise/internal/rewards"
)

// StartingLives seeds a fresh player_state row.
const StartingLives = 5

// DBTX is the subset of database/sql used by this store.
// Both *sql.DB and *sql.Tx satisfy it, so callers choose the transaction
// boundary.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// State mirrors one row of the player_state table.
type State struct {
	UserID         string
	Lives          int
	LastRegenMs    int64  // unix millis; 0 = regen never initialized
	LastRewardDate string // "YYYY-MM-DD"; "" = reward never collected
	Level          int    // next level to attempt (1-based)
	Coins          int
	Subscribed     bool
	Items          map[rewards.ItemType]int
}

// RegenClock converts the stored millis into the time.Time the lives
// package expects, preserving the unset sentinel.
func (s *State) RegenClock() time.Time {
	if s.LastRegenMs == 0 {
		return time.Time{}
	}
	return time.UnixMilli(s.LastRegenMs).UTC()
}

// ClockMs converts a regen clock back into storable millis, preserving the
// unset sentinel.
func ClockMs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// Store wraps the player_state queries.
type Store struct{}

// NewStore constructs a Store.
func NewStore() *Store { return &Store{} }

// GetOrCreate loads the player's state row, inserting the defaults first if
// the player has never been seen.
func (st *Store) GetOrCreate(ctx context.Context, q DBTX, userID string) (*State, error) {
	if _, err := q.ExecContext(ctx,
		`INSERT OR IGNORE INTO player_state (user_id, lives) VALUES (?, ?)`,
		userID, StartingLives,
	); err != nil {
		return nil, err
	}

	s := &State{UserID: userID, Items: make(map[rewards.ItemType]int, 4)}
	var subscribed int
	var reveal, eliminate, definition, skip int
	err := q.QueryRowContext(ctx, `
        SELECT lives, last_regen_ms, last_reward_date, level, coins, subscribed,
               item_reveal_letter, item_eliminate_letters, item_show_definition, item_skip_level
        FROM player_state WHERE user_id=?`, userID,
	).Scan(&s.Lives, &s.LastRegenMs, &s.LastRewardDate, &s.Level, &s.Coins, &subscribed,
		&reveal, &eliminate, &definition, &skip)
	if err != nil {
		return nil, err
	}
	s.Subscribed = subscribed == 1
	s.Items[rewards.ItemRevealLetter] = reveal
	s.Items[rewards.ItemEliminateLetters] = eliminate
	s.Items[rewards.ItemShowDefinition] = definition
	s.Items[rewards.ItemSkipLevel] = skip
	return s, nil
}

// SaveLives writes back the balance and regen clock proposed by the lives
// package. Call inside the same tx the state was read in.
func (st *Store) SaveLives(ctx context.Context, q DBTX, userID string, lives int, regenMs int64) error {
	_, err := q.ExecContext(ctx,
		`UPDATE player_state SET lives=?, last_regen_ms=? WHERE user_id=?`,
		lives, regenMs, userID,
	)
	return err
}

// ApplyReward applies a full bundle: lives (uncapped event grant), the four
// item counters, and the new last-collected date. Never applied partially.
func (st *Store) ApplyReward(ctx context.Context, q DBTX, userID string, b rewards.Bundle) error {
	_, err := q.ExecContext(ctx, `
        UPDATE player_state SET
            lives = lives + ?,
            item_reveal_letter = item_reveal_letter + ?,
            item_eliminate_letters = item_eliminate_letters + ?,
            item_show_definition = item_show_definition + ?,
            item_skip_level = item_skip_level + ?,
            last_reward_date = ?
        WHERE user_id=?`,
		b.Lives,
		b.Items[rewards.ItemRevealLetter],
		b.Items[rewards.ItemEliminateLetters],
		b.Items[rewards.ItemShowDefinition],
		b.Items[rewards.ItemSkipLevel],
		b.CollectedDate,
		userID,
	)
	return err
}

// CompleteLevel advances to the next level and applies the completion
// grants: bonus lives (allowed to exceed the lives soft cap) and coins.
func (st *Store) CompleteLevel(ctx context.Context, q DBTX, userID string, bonusLives, coins int) error {
	_, err := q.ExecContext(ctx,
		`UPDATE player_state SET level = level + 1, lives = lives + ?, coins = coins + ? WHERE user_id=?`,
		bonusLives, coins, userID,
	)
	return err
}

// SetSubscribed flips the subscriber flag. Purchase processing itself lives
// outside this server; this records the entitlement the billing collaborator
// reports.
func (st *Store) SetSubscribed(ctx context.Context, q DBTX, userID string, active bool) error {
	v := 0
	if active {
		v = 1
	}
	_, err := q.ExecContext(ctx,
		`UPDATE player_state SET subscribed=? WHERE user_id=?`, v, userID)
	return err
}

// SpendItem decrements one hint item if the player has any.
// Returns false (and changes nothing) when the count is already zero.
func (st *Store) SpendItem(ctx context.Context, q DBTX, userID string, item rewards.ItemType) (bool, error) {
	col, ok := itemColumn(item)
	if !ok {
		return false, nil
	}
	res, err := q.ExecContext(ctx,
		`UPDATE player_state SET `+col+` = `+col+` - 1 WHERE user_id=? AND `+col+` > 0`,
		userID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// itemColumn maps an item type to its fixed column name.
// Returns ok=false for unknown types so no dynamic SQL can sneak in.
func itemColumn(item rewards.ItemType) (string, bool) {
	switch item {
	case rewards.ItemRevealLetter:
		return "item_reveal_letter", true
	case rewards.ItemEliminateLetters:
		return "item_eliminate_letters", true
	case rewards.ItemShowDefinition:
		return "item_show_definition", true
	case rewards.ItemSkipLevel:
		return "item_skip_level", true
	}
	return "", false
}
