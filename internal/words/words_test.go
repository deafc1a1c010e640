package words

import "testing"

func TestInitLoadsEmbeddedLists(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	targets, allowed := Stats()
	if targets == 0 {
		t.Fatal("no targets loaded")
	}
	if allowed < targets {
		t.Fatalf("allowed (%d) must include all targets (%d)", allowed, targets)
	}
	if !IsTarget("crane") {
		t.Error("crane should be a target")
	}
	if !IsAllowed("CRACK") {
		t.Error("IsAllowed should be case-insensitive")
	}
	if IsAllowed("zzzzz") {
		t.Error("zzzzz should not be allowed")
	}
}

func TestForLevelDeterministic(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	a := ForLevel(7, "salt-a")
	if a == "" {
		t.Fatal("ForLevel returned empty word")
	}
	if b := ForLevel(7, "salt-a"); b != a {
		t.Fatalf("same level and salt gave %q then %q", a, b)
	}
	if !IsTarget(a) {
		t.Fatalf("ForLevel returned non-target %q", a)
	}

	// Different levels should not all collapse to one word.
	seen := map[string]bool{}
	for n := 1; n <= 20; n++ {
		seen[ForLevel(n, "salt-a")] = true
	}
	if len(seen) < 2 {
		t.Error("ForLevel maps 20 levels to a single word")
	}
}
