package runtime

// innerMatchingState is the four-state Mealy machine of SPEC_FULL.md
// section 4.H, ported from original_source/src/common/matching_state.rs's
// InnerMatchingState.
type innerMatchingState int

const (
	// stateNone: no match recorded so far; current state is not accepting.
	stateNone innerMatchingState = iota
	// stateStart: a non-accepting transition has been taken; a match's
	// start position is recorded but no accepting state reached yet.
	stateStart
	// stateAccepting: a match has been recorded; still searching for a
	// longer one.
	stateAccepting
	// stateLongest: the longest possible match has been found; absorbing.
	stateLongest
)

// Span is a byte-offset half-open range within the scanned input.
type Span struct {
	Start int
	End   int
}

// MatchingState tracks one DFA's progress toward a leftmost-longest match.
type MatchingState struct {
	state    innerMatchingState
	hasStart bool
	hasEnd   bool
	start    int
	end      int
}

// NoTransition is called when the DFA found no outgoing edge for the
// current input character.
func (m *MatchingState) NoTransition() {
	switch m.state {
	case stateNone:
	case stateStart:
		*m = MatchingState{}
	case stateAccepting:
		m.state = stateLongest
	case stateLongest:
	}
}

// TransitionToNonAccepting is called when the DFA advanced to a
// non-accepting state at byte offset i.
func (m *MatchingState) TransitionToNonAccepting(i int) {
	switch m.state {
	case stateNone:
		*m = MatchingState{state: stateStart, hasStart: true, start: i}
	case stateStart:
	case stateAccepting:
	case stateLongest:
	}
}

// TransitionToAccepting is called when the DFA advanced to an accepting
// state at byte offset i, having consumed a character of byteLen bytes.
func (m *MatchingState) TransitionToAccepting(i, byteLen int) {
	switch m.state {
	case stateNone:
		*m = MatchingState{state: stateAccepting, hasStart: true, start: i, hasEnd: true, end: i + byteLen}
	case stateStart:
		m.state = stateAccepting
		m.hasEnd = true
		m.end = i + byteLen
	case stateAccepting:
		m.hasEnd = true
		m.end = i + byteLen
	case stateLongest:
	}
}

// IsNoMatch reports whether no match has been recorded at all.
func (m *MatchingState) IsNoMatch() bool { return m.state == stateNone }

// IsLongestMatch reports whether the longest possible match has been
// found and the DFA can be skipped for the remainder of this search.
func (m *MatchingState) IsLongestMatch() bool { return m.state == stateLongest }

// SearchOnForLonger reports whether this DFA should still be advanced in
// the hope of a longer match.
func (m *MatchingState) SearchOnForLonger() bool { return m.state != stateLongest }

// LastMatch returns the recorded span, if both a start and end have been
// set.
func (m *MatchingState) LastMatch() (Span, bool) {
	if m.hasStart && m.hasEnd {
		return Span{Start: m.start, End: m.end}, true
	}
	return Span{}, false
}
