package runtime

import (
	"testing"

	"github.com/coregx/ahocorasick"
)

func buildAccelerator(t *testing.T, literals ...string) *ahoCorasickAccelerator {
	t.Helper()
	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		builder.AddPattern([]byte(lit))
	}
	automaton, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return newAhoCorasickAccelerator(automaton)
}

func TestAcceleratorFindsNextCandidate(t *testing.T) {
	acc := buildAccelerator(t, "foo", "bar")
	idx, ok := acc.nextCandidate([]byte("xxfooyy"), 0)
	if !ok {
		t.Fatal("expected a candidate to be found")
	}
	if idx != 2 {
		t.Fatalf("expected candidate at offset 2, got %d", idx)
	}
}

func TestAcceleratorNoCandidateReturnsFalse(t *testing.T) {
	acc := buildAccelerator(t, "foo", "bar")
	if _, ok := acc.nextCandidate([]byte("xxxxxxx"), 0); ok {
		t.Fatal("expected no candidate when neither literal occurs")
	}
}

func TestAcceleratorRespectsFromOffset(t *testing.T) {
	acc := buildAccelerator(t, "foo")
	idx, ok := acc.nextCandidate([]byte("xfooxfoo"), 2)
	if !ok || idx != 5 {
		t.Fatalf("expected the next candidate at or after offset 2 to be at 5, got (%d, %v)", idx, ok)
	}
	if _, ok := acc.nextCandidate([]byte("foo"), 10); ok {
		t.Fatal("an out-of-range from offset must never report a candidate")
	}
}
