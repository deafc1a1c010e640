package progress

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/robalobadob/wordrise/internal/lives"
	"github.com/robalobadob/wordrise/internal/rewards"
)

// Schema kept in sync with sql/001_init.sql (player_state only).
const testSchema = `
CREATE TABLE player_state (
    user_id                TEXT PRIMARY KEY,
    lives                  INTEGER NOT NULL DEFAULT 5,
    last_regen_ms          INTEGER NOT NULL DEFAULT 0,
    last_reward_date       TEXT    NOT NULL DEFAULT '',
    level                  INTEGER NOT NULL DEFAULT 1,
    coins                  INTEGER NOT NULL DEFAULT 0,
    subscribed             INTEGER NOT NULL DEFAULT 0,
    item_reveal_letter     INTEGER NOT NULL DEFAULT 0,
    item_eliminate_letters INTEGER NOT NULL DEFAULT 0,
    item_show_definition   INTEGER NOT NULL DEFAULT 0,
    item_skip_level        INTEGER NOT NULL DEFAULT 0
);`

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func TestGetOrCreateSeedsDefaults(t *testing.T) {
	db := newTestDB(t)
	st := NewStore()
	ctx := context.Background()

	s, err := st.GetOrCreate(ctx, db, "user-1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if s.Lives != StartingLives || s.Level != 1 || s.LastRegenMs != 0 || s.LastRewardDate != "" {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if !s.RegenClock().IsZero() {
		t.Fatal("fresh state must map to the unset regen clock")
	}

	// Second call reuses the row.
	if err := st.SaveLives(ctx, db, "user-1", 7, 12345); err != nil {
		t.Fatalf("SaveLives: %v", err)
	}
	s, err = st.GetOrCreate(ctx, db, "user-1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if s.Lives != 7 || s.LastRegenMs != 12345 {
		t.Fatalf("row not reused: %+v", s)
	}
}

func TestClockMsRoundTrip(t *testing.T) {
	if ClockMs(time.Time{}) != 0 {
		t.Fatal("zero time must store as 0")
	}
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	s := &State{LastRegenMs: ClockMs(now)}
	if !s.RegenClock().Equal(now) {
		t.Fatalf("round trip: got %v, want %v", s.RegenClock(), now)
	}
}

func TestRegeneratePersistRoundTrip(t *testing.T) {
	db := newTestDB(t)
	st := NewStore()
	ctx := context.Background()

	s, err := st.GetOrCreate(ctx, db, "user-1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	balance, clock, granted := lives.Regenerate(s.Lives, s.RegenClock(), base)
	if granted != 0 {
		t.Fatalf("first call granted %d, want 0", granted)
	}
	// Unset clock comes back; the write establishes the baseline.
	if !clock.IsZero() {
		t.Fatalf("clock = %v, want zero", clock)
	}
	if err := st.SaveLives(ctx, db, "user-1", balance, ClockMs(base)); err != nil {
		t.Fatalf("SaveLives: %v", err)
	}

	// One interval later a life is granted and survives persistence.
	s, _ = st.GetOrCreate(ctx, db, "user-1")
	balance, clock, granted = lives.Regenerate(s.Lives, s.RegenClock(), base.Add(lives.Interval))
	if granted != 1 || balance != StartingLives+1 {
		t.Fatalf("granted=%d balance=%d", granted, balance)
	}
	if err := st.SaveLives(ctx, db, "user-1", balance, ClockMs(clock)); err != nil {
		t.Fatalf("SaveLives: %v", err)
	}
	s, _ = st.GetOrCreate(ctx, db, "user-1")
	if s.Lives != StartingLives+1 || !s.RegenClock().Equal(base.Add(lives.Interval)) {
		t.Fatalf("persisted state: %+v", s)
	}
}

func TestApplyRewardAndSpendItem(t *testing.T) {
	db := newTestDB(t)
	st := NewStore()
	ctx := context.Background()

	if _, err := st.GetOrCreate(ctx, db, "user-1"); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	today := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	b, ok := rewards.Calculate("2024-06-12", today) // 3 days accrued
	if !ok {
		t.Fatal("expected a bundle")
	}
	if err := st.ApplyReward(ctx, db, "user-1", b); err != nil {
		t.Fatalf("ApplyReward: %v", err)
	}

	s, _ := st.GetOrCreate(ctx, db, "user-1")
	if s.Lives != StartingLives+b.Lives {
		t.Fatalf("lives = %d, want %d", s.Lives, StartingLives+b.Lives)
	}
	if s.LastRewardDate != b.CollectedDate {
		t.Fatalf("last reward date = %q, want %q", s.LastRewardDate, b.CollectedDate)
	}
	total := 0
	for _, it := range rewards.ItemOrder {
		total += s.Items[it]
	}
	if total != rewards.ItemsPerDay*b.Days {
		t.Fatalf("items total = %d, want %d", total, rewards.ItemsPerDay*b.Days)
	}

	// Spending decrements, and stops at zero.
	n := s.Items[rewards.ItemRevealLetter]
	for i := 0; i < n; i++ {
		ok, err := st.SpendItem(ctx, db, "user-1", rewards.ItemRevealLetter)
		if err != nil || !ok {
			t.Fatalf("SpendItem %d: ok=%v err=%v", i, ok, err)
		}
	}
	if ok, _ := st.SpendItem(ctx, db, "user-1", rewards.ItemRevealLetter); ok {
		t.Fatal("SpendItem should fail at zero count")
	}
}

func TestCompleteLevelExceedsSoftCap(t *testing.T) {
	db := newTestDB(t)
	st := NewStore()
	ctx := context.Background()

	if _, err := st.GetOrCreate(ctx, db, "user-1"); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	// Put the player at the cap, then complete a level.
	if err := st.SaveLives(ctx, db, "user-1", lives.SoftCap, 0); err != nil {
		t.Fatalf("SaveLives: %v", err)
	}
	if err := st.CompleteLevel(ctx, db, "user-1", 1, 25); err != nil {
		t.Fatalf("CompleteLevel: %v", err)
	}
	s, _ := st.GetOrCreate(ctx, db, "user-1")
	if s.Lives != lives.SoftCap+1 {
		t.Fatalf("lives = %d, want %d (event grants may exceed the cap)", s.Lives, lives.SoftCap+1)
	}
	if s.Level != 2 || s.Coins != 25 {
		t.Fatalf("level=%d coins=%d", s.Level, s.Coins)
	}

	// Passive regen at the over-cap balance grants nothing.
	balance, _, granted := lives.Regenerate(s.Lives, s.RegenClock(), time.Now())
	if granted != 0 || balance != s.Lives {
		t.Fatalf("regen above cap: granted=%d balance=%d", granted, balance)
	}
}
