package compiletime

import (
	"errors"
	"testing"

	"github.com/coregx/scangen/charclass"
)

func TestMultiPatternBuilderSharesStartState(t *testing.T) {
	b := NewMultiPatternBuilder()
	if _, err := b.AddPattern(0, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddPattern(1, "b"); err != nil {
		t.Fatal(err)
	}
	closure := b.nfa.epsilonClosure(0)
	if len(closure) < 2 {
		t.Fatalf("expected the shared start state to epsilon-reach both patterns' fragments, got closure %v", closure)
	}
}

func TestMultiPatternBuilderDedupsIdenticalPatternStrings(t *testing.T) {
	b := NewMultiPatternBuilder()
	id1, err := b.AddPattern(0, "abc")
	if err != nil {
		t.Fatal(err)
	}
	id2, err := b.AddPattern(1, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if id1 != id2 {
		t.Fatalf("expected identical pattern text to reuse the same PatternID, got %d and %d", id1, id2)
	}
	if len(b.Patterns()) != 1 {
		t.Fatalf("expected 1 distinct pattern, got %d", len(b.Patterns()))
	}
}

func TestMultiPatternBuilderAssignsEachPatternOwnAcceptingState(t *testing.T) {
	b := NewMultiPatternBuilder()
	if _, err := b.AddPattern(0, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddPattern(1, "bb"); err != nil {
		t.Fatal(err)
	}
	if len(b.accepting) != 2 {
		t.Fatalf("expected 2 distinct accepting states, got %d", len(b.accepting))
	}
	seenPatterns := make(map[PatternID]bool)
	for _, pid := range b.accepting {
		seenPatterns[pid] = true
	}
	if len(seenPatterns) != 2 {
		t.Fatalf("expected each pattern to own a distinct accepting state, got patterns %v", seenPatterns)
	}
}

func TestMultiPatternBuilderPropagatesUnsupportedFeatureError(t *testing.T) {
	b := NewMultiPatternBuilder()
	// Anchors parse fine but are outside the supported regex subset, so
	// the NFA construction rejects them as an unsupported feature.
	_, err := b.AddPattern(0, `^a`)
	var unsupported *charclass.UnsupportedFeatureError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected an UnsupportedFeatureError for an anchored pattern, got %v", err)
	}
}

func TestEpsilonClosureIsSortedAndDeduplicated(t *testing.T) {
	b := NewMultiPatternBuilder()
	if _, err := b.AddPattern(0, "a*"); err != nil {
		t.Fatal(err)
	}
	closure := b.nfa.epsilonClosureSeed([]StateID{0, 0})
	for i := 1; i < len(closure); i++ {
		if closure[i] <= closure[i-1] {
			t.Fatalf("expected strictly increasing sorted-deduplicated closure, got %v", closure)
		}
	}
}

func TestMoveReturnsOnlyMatchingClassTargets(t *testing.T) {
	b := NewMultiPatternBuilder()
	if _, err := b.AddPattern(0, "a"); err != nil {
		t.Fatal(err)
	}
	closure := b.nfa.epsilonClosure(0)
	var aClass int = -1
	for _, s := range closure {
		for _, tr := range b.nfa.states[s].trans {
			aClass = int(tr.class)
		}
	}
	if aClass == -1 {
		t.Fatal("expected to find the 'a' class transition from the start closure")
	}
	targets := b.nfa.move(closure, charclass.ID(aClass))
	if len(targets) == 0 {
		t.Fatal("expected move on the 'a' class to reach at least one state")
	}
}
