// internal/words/words.go
//
// Word list management for the level engine.
//
// Responsibilities:
//   - Load target and allowed guess lists from environment-provided files or
//     fall back to the embedded defaults in the assets package.
//   - Maintain sets for quick lookups (targets only, targets∪guesses).
//   - Pick the target word for a level deterministically (HMAC over the
//     level number) so every player sees the same word at the same level.
//
// Word Lists:
//   - "targets": canonical level solutions (exactly 5 lowercase letters).
//   - "allowed": valid guesses (always includes targets).
//
// Initialization behavior (Init):
//   1. If WORDS_TARGETS_FILE and WORDS_ALLOWED_FILE are both set,
//      load targets from the first and allowed guesses from the second.
//   2. If only WORDS_ALLOWED_FILE is set,
//      load that file and use it for both targets and allowed guesses.
//   3. If neither is set, fall back to the embedded lists.
//
// Environment variables:
//   WORDS_TARGETS_FILE=/path/to/targets.txt
//   WORDS_ALLOWED_FILE=/path/to/allowed.txt
//
// Constraints:
//   • Words must be 5 alphabetic letters (a–z).
//   • Lists are normalized to lowercase.
//   • Initialization is run once (sync.Once).

package words

import (
	"bufio"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"math/big"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/robalobadob/wordrise/assets"
)

var (
	initOnce   sync.Once
	targets    []string            // canonical level solutions
	allowedSet map[string]struct{} // targets ∪ guesses
	targetsSet map[string]struct{} // targets only
	initialErr error
)

// Init loads word lists exactly once.
// Returns an error if the targets list ends up empty.
func Init() error {
	initOnce.Do(func() {
		var targetList, allowList []string

		targetsPath := os.Getenv("WORDS_TARGETS_FILE")
		allowedPath := os.Getenv("WORDS_ALLOWED_FILE")

		switch {
		// Case 1: both lists provided
		case targetsPath != "" && allowedPath != "":
			var err error
			targetList, err = readWordFile(targetsPath)
			if err != nil {
				initialErr = err
				return
			}
			allowList, err = readWordFile(allowedPath)
			if err != nil {
				initialErr = err
				return
			}

		// Case 2: only allowed file provided → use for both
		case targetsPath == "" && allowedPath != "":
			var err error
			allowList, err = readWordFile(allowedPath)
			if err != nil {
				initialErr = err
				return
			}
			targetList = allowList

		// Case 3: fallback to embedded defaults
		default:
			var err error
			targetList, err = assets.TargetsList()
			if err != nil {
				initialErr = err
				return
			}
			allowList, err = assets.AllowedList()
			if err != nil {
				initialErr = err
				return
			}
		}

		targets = filterValid(targetList)
		targetsSet = toSet(targets)

		// Ensure all targets are also marked as allowed.
		allowedSet = toSet(targets)
		for _, w := range filterValid(allowList) {
			allowedSet[w] = struct{}{}
		}

		if len(targets) == 0 {
			initialErr = errors.New("words: targets list is empty")
		}
	})
	return initialErr
}

// readWordFile loads one word per line from a file,
// lowercases, trims, and keeps only valid 5-letter alphabetic words.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(strings.ToLower(sc.Text()))
		if len(w) == 5 && isAlpha(w) {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

// filterValid keeps only lowercase 5-letter alphabetic words.
func filterValid(list []string) []string {
	out := make([]string, 0, len(list))
	for _, w := range list {
		w = strings.TrimSpace(strings.ToLower(w))
		if len(w) == 5 && isAlpha(w) {
			out = append(out, w)
		}
	}
	return out
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// ForLevel returns the deterministic target word for a level number using
// HMAC(salt, level) % len(targets). The same (level, salt) pair always maps
// to the same word, so progression is stable across restarts and devices.
// Returns "" if the lists are not loaded.
func ForLevel(number int, salt string) string {
	if len(targets) == 0 {
		return ""
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte("level-" + strconv.Itoa(number)))
	sum := h.Sum(nil)
	// take first 8 bytes to uint64 for modulus distribution
	n := binary.BigEndian.Uint64(sum[:8])
	return targets[int(n%uint64(len(targets)))]
}

// RandomTarget returns a cryptographically random target word.
// If targets are not loaded yet or empty, falls back to "crane".
func RandomTarget() string {
	if len(targets) == 0 {
		return "crane"
	}
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(targets))))
	return targets[nBig.Int64()]
}

// IsAllowed reports whether w is a valid guess (targets ∪ guesses).
func IsAllowed(w string) bool {
	_, ok := allowedSet[strings.ToLower(w)]
	return ok
}

// IsTarget reports whether w is a target word.
func IsTarget(w string) bool {
	_, ok := targetsSet[strings.ToLower(w)]
	return ok
}

// Stats returns counts of loaded words: (targets, allowed).
func Stats() (targetsCount int, allowedCount int) {
	return len(targets), len(allowedSet)
}
