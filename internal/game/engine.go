// internal/game/engine.go
//
// Core engine for a single level attempt.
// Responsibilities:
//   - Create new attempts with deterministic dimensions (6x5).
//   - Validate and apply guesses (length, alphabetic, allowed list).
//   - Score guesses with the two-pass duplicate-letter-aware algorithm.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - Target words are supplied by the words package (or fixed by the caller
//     for testing).
//   - Evaluate is the pure scoring core; it holds no session state and is
//     exported on its own so callers can score a guess without a Level.
//   - randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/robalobadob/wordrise/internal/words"
)

const (
	defaultRows = 6
	defaultCols = 5
)

// ErrLengthMismatch is returned by Evaluate when guess and target differ in
// length. A mismatch means content selection upstream is broken, so it
// surfaces as a hard error rather than being truncated or padded away.
var ErrLengthMismatch = errors.New("game: guess and target lengths differ")

// New constructs a new attempt at the given level number.
// If withTarget is empty, the target is chosen by the words package.
func New(number int, withTarget string) *Level {
	target := withTarget
	if target == "" {
		target = words.RandomTarget()
	}
	return &Level{
		ID:      randomID(),
		Number:  number,
		Target:  strings.ToLower(target),
		Rows:    defaultRows,
		Cols:    defaultCols,
		Guesses: []string{},
	}
}

// ApplyGuess validates and scores a guess, mutating the attempt state.
// Returns: the per-letter results, the new state string ("playing"/"won"/"lost"),
// or an error.
//
// Validation rules:
//   - Attempt must not be finished.
//   - Guess must be exactly l.Cols letters and alphabetic a–z.
//   - Guess must be present in the allowed list.
//
// State transitions:
//   - If all tiles are correct → Finished = true, Won = true.
//   - Else if the number of guesses reaches l.Rows → Finished = true (loss).
func (l *Level) ApplyGuess(guess string) ([]LetterResult, string, error) {
	if l.Finished {
		return nil, l.State(), errors.New("level finished")
	}
	guess = strings.ToLower(strings.TrimSpace(guess))
	if len(guess) != l.Cols || !isAlpha(guess) {
		return nil, l.State(), errors.New("invalid guess")
	}
	if !words.IsAllowed(guess) {
		return nil, l.State(), errors.New("not in word list")
	}

	results, err := Evaluate(guess, l.Target)
	if err != nil {
		return nil, l.State(), err
	}
	l.Guesses = append(l.Guesses, guess)

	if allCorrect(results) {
		l.Finished, l.Won = true, true
	} else if len(l.Guesses) >= l.Rows {
		l.Finished = true
	}
	return results, l.State(), nil
}

// State reports a coarse string representation of the current attempt state.
func (l *Level) State() string {
	if l.Finished {
		if l.Won {
			return "won"
		}
		return "lost"
	}
	return "playing"
}

// Evaluate scores guess against target with the standard two-pass algorithm.
//
// Pass 1:
//   - Mark exact matches as correct.
//   - Count remaining (non-correct) target letters by letter index.
//
// Pass 2:
//   - For each non-correct guess letter: if there is remaining count for that
//     letter, mark present and decrement the count; otherwise mark absent.
//
// The exact-position pass runs to completion before any present credit is
// given: a correctly placed letter has priority claim on its count and can
// never be stolen by an earlier present check elsewhere in the guess. This
// keeps repeated letters honest in both target and guess — a letter never
// earns more non-absent tiles than it has occurrences in the target.
//
// The only failure mode is the equal-length precondition (ErrLengthMismatch).
func Evaluate(guess, target string) ([]LetterResult, error) {
	guessRunes := []rune(guess)
	targetRunes := []rune(target)
	if len(guessRunes) != len(targetRunes) {
		return nil, ErrLengthMismatch
	}
	n := len(guessRunes)
	res := make([]LetterResult, n)

	// Letter frequency for the non-correct positions (a–z).
	var counts [26]int

	// First pass: mark exact matches and collect counts for the rest.
	for i := 0; i < n; i++ {
		res[i].Letter = string(guessRunes[i])
		if guessRunes[i] == targetRunes[i] {
			res[i].Verdict = VerdictCorrect
		} else {
			if j := idx(targetRunes[i]); j >= 0 && j < 26 {
				counts[j]++
			}
		}
	}

	// Second pass: resolve present/absent for the remaining tiles.
	for i := 0; i < n; i++ {
		if res[i].Verdict == VerdictCorrect {
			continue
		}
		j := idx(guessRunes[i])
		if j >= 0 && j < 26 && counts[j] > 0 {
			res[i].Verdict = VerdictPresent
			counts[j]--
		} else {
			res[i].Verdict = VerdictAbsent
		}
	}
	return res, nil
}

// idx maps a lowercase ASCII letter rune to 0..25.
// Assumes inputs are validated to a–z elsewhere.
func idx(r rune) int { return int(r - 'a') }

// isAlpha checks that a string consists only of lowercase a–z.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// allCorrect returns true if every result tile is correct.
func allCorrect(rs []LetterResult) bool {
	for _, r := range rs {
		if r.Verdict != VerdictCorrect {
			return false
		}
	}
	return true
}

// randomID returns a compact 16-hex-char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
