package compiletime

import (
	"sort"

	"github.com/coregx/scangen/charclass"
)

// Transition is one flattened outgoing edge of a CompiledDFA state: Class is
// the shared registry's class id, Target the state it leads to.
type Transition struct {
	Class  charclass.ID
	Target StateID
}

// stateSpan indexes the half-open run of a single state's outgoing edges
// within CompiledDFA.Transitions.
type stateSpan struct {
	Start int
	End   int
}

// CompiledDFA is the flattened, immutable form of one minimized DFA table,
// grounded on original_source/src/compiletime/compiled_dfa.rs's CompiledDfa
// and flattened per SPEC_FULL.md section 4.F/6.2: transitions live in one
// contiguous, state-id-ordered array instead of a map per state, so the
// runtime's hot advance loop never allocates or re-sorts to find an edge.
type CompiledDFA struct {
	// NumStates is the number of states in this DFA; state 0 is always the
	// start state.
	NumStates int
	// Accepting is the sorted list of accepting state ids. Since each
	// CompiledDFA is bound to exactly one pattern (see Compile), every
	// accepting state accepts that one pattern; no per-state pattern id is
	// needed here.
	Accepting []StateID
	// StateRange[s] indexes the slice of Transitions holding state s's
	// outgoing edges, sorted by Class.
	StateRange []stateSpan
	// Transitions is the concatenation, in state-id order, of every state's
	// outgoing edges.
	Transitions []Transition
	// Patterns is the ordered list of pattern strings bound to this DFA.
	Patterns []string
}

// TransitionsFor returns state's outgoing edges, sorted by Class.
func (c *CompiledDFA) TransitionsFor(state StateID) []Transition {
	if int(state) >= len(c.StateRange) {
		return nil
	}
	span := c.StateRange[state]
	return c.Transitions[span.Start:span.End]
}

// IsAccepting reports whether state is an accepting state, via binary
// search over the sorted Accepting list.
func (c *CompiledDFA) IsAccepting(state StateID) bool {
	lo, hi := 0, len(c.Accepting)
	for lo < hi {
		mid := (lo + hi) / 2
		if c.Accepting[mid] < state {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(c.Accepting) && c.Accepting[lo] == state
}

// Compiled is the immutable output of Compile: every pattern's minimized
// DFA table plus the shared character-class registry and scanner-mode
// table needed to drive the runtime matcher.
type Compiled struct {
	DFAs    []CompiledDFA
	Modes   []ScannerMode
	classes *charclass.Registry
}

// MatchesCharClass reports whether ch is a member of the class identified
// by class, per the shared registry populated during compilation.
func (c *Compiled) MatchesCharClass(ch rune, class charclass.ID) bool {
	return c.classes.Match(class, ch)
}

// ClassIsASCIIOnly reports whether class can only ever match runes below
// 128. The runtime scanner uses this to decide whether its byte-oriented
// first-byte skip-ahead stays sound for a given DFA.
func (c *Compiled) ClassIsASCIIOnly(class charclass.ID) bool {
	return c.classes.IsASCIIOnly(class)
}

// flatten converts a minimizedDFA into the table form the runtime consumes,
// sorting each state's edges by class once here so the runtime never has
// to at match time.
func flatten(m *minimizedDFA) CompiledDFA {
	out := CompiledDFA{
		NumStates:  len(m.states),
		StateRange: make([]stateSpan, len(m.states)),
		Patterns:   m.patterns,
	}
	for i := range m.states {
		trs := m.transitions[StateID(i)]
		classes := make([]charclass.ID, 0, len(trs))
		for c := range trs {
			classes = append(classes, c)
		}
		sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

		start := len(out.Transitions)
		for _, c := range classes {
			out.Transitions = append(out.Transitions, Transition{Class: c, Target: trs[c]})
		}
		out.StateRange[i] = stateSpan{Start: start, End: len(out.Transitions)}
	}

	accepting := make([]StateID, 0, len(m.accepting))
	for sid := range m.accepting {
		accepting = append(accepting, sid)
	}
	sort.Slice(accepting, func(i, j int) bool { return accepting[i] < accepting[j] })
	out.Accepting = accepting

	return out
}
