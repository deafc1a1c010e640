// internal/httpserver/routes_progress.go
//
// HTTP routes for player progression resources.
// Exposes:
//   - GET  /lives            → regen pass + balance and countdowns
//   - POST /rewards/claim    → daily subscriber reward bundle (auth)
//   - POST /subscription     → record subscription entitlement (auth)
//   - POST /items/spend      → consume one hint item
//
// Lives and rewards read-then-write against player_state inside a single
// SQL transaction: the regenerator and accumulator are pure, so the
// transaction boundary here is what prevents concurrent requests from
// double-granting off the same stale row.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordrise/internal/lives"
	"github.com/robalobadob/wordrise/internal/progress"
	"github.com/robalobadob/wordrise/internal/rewards"
)

// mountProgress registers the lives/rewards/subscription/items routes.
func (s *Server) mountProgress(r chi.Router) {
	r.Get("/lives", s.handleLives)
	r.Route("/rewards", func(r chi.Router) {
		r.With(s.requireAuth()).Post("/claim", s.handleClaimReward)
	})
	r.With(s.requireAuth()).Post("/subscription", s.handleSubscription)
	r.Post("/items/spend", s.handleSpendItem)
}

// -----------------------------------------------------------------------------
// GET /lives

// livesRes is returned by GET /lives.
type livesRes struct {
	Lives       int   `json:"lives"`
	SoftCap     int   `json:"softCap"`
	Granted     int   `json:"granted"`     // lives granted by this regen pass
	UntilNextMs int64 `json:"untilNextMs"` // 0 when at/above cap
	UntilFullMs int64 `json:"untilFullMs"` // 0 when at/above cap
}

// handleLives runs a regeneration pass for the caller and persists the
// proposed balance/clock pair before responding. Called by clients on
// screen entry and on a periodic tick.
func (s *Server) handleLives(w http.ResponseWriter, r *http.Request) {
	uid := s.ownerID(w, r)
	now := time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback() }()

	st, err := s.progress.GetOrCreate(r.Context(), tx, uid)
	if err != nil {
		log.Error().Err(err).Str("user", uid).Msg("load player state")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}

	balance, clock, granted := lives.Regenerate(st.Lives, st.RegenClock(), now)
	persistClock := clock
	if persistClock.IsZero() {
		persistClock = now // establish the regen baseline on first contact
	}
	if err := s.progress.SaveLives(r.Context(), tx, uid, balance, progress.ClockMs(persistClock)); err != nil {
		log.Error().Err(err).Str("user", uid).Msg("save lives")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(); err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(livesRes{
		Lives:       balance,
		SoftCap:     lives.SoftCap,
		Granted:     granted,
		UntilNextMs: lives.UntilNext(balance, persistClock, now).Milliseconds(),
		UntilFullMs: lives.UntilFull(balance, persistClock, now).Milliseconds(),
	})
}

// -----------------------------------------------------------------------------
// POST /rewards/claim

// claimRes is returned by a successful claim. The bundle is applied whole
// before the response is written.
type claimRes struct {
	Days          int                      `json:"days"`
	Lives         int                      `json:"lives"`
	Items         map[rewards.ItemType]int `json:"items"`
	CollectedDate string                   `json:"collectedDate"`
	Balance       int                      `json:"balance"` // lives after applying
}

// handleClaimReward computes and applies the daily subscriber bundle.
// Responses:
//   - 403 not_subscribed   → caller has no active subscription recorded.
//   - 409 already_collected → today's bundle was already claimed.
//   - 200 with the bundle otherwise.
func (s *Server) handleClaimReward(w http.ResponseWriter, r *http.Request) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	if me == nil {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}
	now := time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback() }()

	st, err := s.progress.GetOrCreate(r.Context(), tx, me.ID)
	if err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("load player state")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if !st.Subscribed {
		http.Error(w, `{"error":"not_subscribed"}`, http.StatusForbidden)
		return
	}

	bundle, ok := rewards.Calculate(st.LastRewardDate, now)
	if !ok {
		http.Error(w, `{"error":"already_collected"}`, http.StatusConflict)
		return
	}
	if err := s.progress.ApplyReward(r.Context(), tx, me.ID, bundle); err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("apply reward")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(); err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}

	log.Info().Str("user", me.ID).Int("days", bundle.Days).Msg("reward claimed")
	_ = json.NewEncoder(w).Encode(claimRes{
		Days:          bundle.Days,
		Lives:         bundle.Lives,
		Items:         bundle.Items,
		CollectedDate: bundle.CollectedDate,
		Balance:       st.Lives + bundle.Lives,
	})
}

// -----------------------------------------------------------------------------
// POST /subscription

// subscriptionReq records the entitlement reported by the billing
// collaborator. Purchase processing itself is out of scope for this server.
type subscriptionReq struct {
	Active bool `json:"active"`
}

func (s *Server) handleSubscription(w http.ResponseWriter, r *http.Request) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	if me == nil {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req subscriptionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if _, err := s.progress.GetOrCreate(r.Context(), s.db, me.ID); err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if err := s.progress.SetSubscribed(r.Context(), s.db, me.ID, req.Active); err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"active": req.Active})
}

// -----------------------------------------------------------------------------
// POST /items/spend

// spendItemReq/Res payloads for POST /items/spend.
type spendItemReq struct {
	Item rewards.ItemType `json:"item"`
}
type spendItemRes struct {
	Spent bool `json:"spent"`
}

// handleSpendItem consumes one hint item if the player has any.
func (s *Server) handleSpendItem(w http.ResponseWriter, r *http.Request) {
	var req spendItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	uid := s.ownerID(w, r)
	if _, err := s.progress.GetOrCreate(r.Context(), s.db, uid); err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	spent, err := s.progress.SpendItem(r.Context(), s.db, uid, req.Item)
	if err != nil {
		log.Error().Err(err).Str("user", uid).Msg("spend item")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if !spent {
		http.Error(w, `{"error":"no_items"}`, http.StatusConflict)
		return
	}
	_ = json.NewEncoder(w).Encode(spendItemRes{Spent: true})
}
