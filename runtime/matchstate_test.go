package runtime

import "testing"

func TestMatchingStateNoTransitionFromStartResets(t *testing.T) {
	var m MatchingState
	m.TransitionToNonAccepting(0)
	if m.IsNoMatch() {
		t.Fatal("expected state to leave None after a non-accepting transition")
	}
	m.NoTransition()
	if !m.IsNoMatch() {
		t.Fatal("a dead end from Start with no recorded accept must reset to None")
	}
}

func TestMatchingStateNoTransitionFromAcceptingBecomesLongest(t *testing.T) {
	var m MatchingState
	m.TransitionToAccepting(0, 1)
	m.NoTransition()
	if !m.IsLongestMatch() {
		t.Fatal("a dead end after an accepting match must latch to Longest")
	}
	span, ok := m.LastMatch()
	if !ok {
		t.Fatal("expected the previously recorded match to survive into Longest")
	}
	if span != (Span{Start: 0, End: 1}) {
		t.Fatalf("expected span {0,1}, got %+v", span)
	}
}

func TestMatchingStateLongestIsAbsorbing(t *testing.T) {
	var m MatchingState
	m.TransitionToAccepting(0, 1)
	m.NoTransition()
	if !m.IsLongestMatch() {
		t.Fatal("expected Longest")
	}
	m.TransitionToAccepting(5, 1)
	if !m.IsLongestMatch() {
		t.Fatal("Longest must be absorbing: no further transition leaves it")
	}
	span, _ := m.LastMatch()
	if span != (Span{Start: 0, End: 1}) {
		t.Fatalf("expected the original span to survive, got %+v", span)
	}
}

func TestMatchingStateExtendsMatchOnRepeatedAccepts(t *testing.T) {
	var m MatchingState
	m.TransitionToAccepting(0, 1)
	m.TransitionToAccepting(1, 1)
	m.TransitionToAccepting(2, 1)
	span, ok := m.LastMatch()
	if !ok {
		t.Fatal("expected a recorded match")
	}
	if span != (Span{Start: 0, End: 3}) {
		t.Fatalf("expected span {0,3} after three consecutive accepting transitions, got %+v", span)
	}
}

func TestMatchingStateSearchOnForLonger(t *testing.T) {
	var m MatchingState
	if !m.SearchOnForLonger() {
		t.Fatal("a fresh state must still be worth searching")
	}
	m.TransitionToAccepting(0, 1)
	m.NoTransition()
	if m.SearchOnForLonger() {
		t.Fatal("Longest must not search on")
	}
}

func TestMatchingStateLastMatchRequiresBothEnds(t *testing.T) {
	var m MatchingState
	if _, ok := m.LastMatch(); ok {
		t.Fatal("a fresh state has no match")
	}
	m.TransitionToNonAccepting(0)
	if _, ok := m.LastMatch(); ok {
		t.Fatal("a recorded start with no accept yet is not a match")
	}
}
