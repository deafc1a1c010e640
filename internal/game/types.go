// internal/game/types.go
//
// Core type definitions for the WordRise level engine.
// Defines:
//   - Verdict: per-letter result of a guess (correct/present/absent/empty).
//   - LetterResult: a guessed letter paired with its verdict.
//   - Level: state for a single in-progress or finished level attempt.

package game

// Verdict represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "":        tile not yet evaluated (empty row in the client UI).
//   - "correct": letter is in the target and in the correct position.
//   - "present": letter exists in the target but in a different position.
//   - "absent":  letter is not in the target, or every copy of it in the
//     target has already been claimed by another tile.
type Verdict string

const (
	VerdictEmpty   Verdict = ""
	VerdictCorrect Verdict = "correct"
	VerdictPresent Verdict = "present"
	VerdictAbsent  Verdict = "absent"
)

// LetterResult pairs one guessed letter with its verdict.
// A full guess evaluation is an ordered []LetterResult, one per position,
// with length equal to the word length. Results are created fresh per guess
// and never mutated afterwards.
type LetterResult struct {
	Letter  string  `json:"letter"`
	Verdict Verdict `json:"verdict"`
}

// Level holds the state of a single level attempt.
type Level struct {
	ID       string   // Unique attempt identifier (random hex string).
	Number   int      // Level number the player is attempting.
	Target   string   // The hidden solution word (always lowercase).
	Rows     int      // Maximum number of guesses allowed (typically 6).
	Cols     int      // Number of letters per word (typically 5).
	Guesses  []string // Guesses made so far (lowercased).
	Finished bool     // True once the attempt is over (won or lost).
	Won      bool     // True if the attempt finished with a win.
}
