package runtime

import (
	"github.com/coregx/scangen/charclass"
	"github.com/coregx/scangen/compiletime"
)

// runtimeDFA is the mutable runtime counterpart of a compiletime.CompiledDFA,
// ported from original_source/src/runtime/dfa.rs's Dfa.
type runtimeDFA struct {
	table         compiletime.CompiledDFA
	currentState  compiletime.StateID
	matchingState MatchingState
}

func newRuntimeDFA(table compiletime.CompiledDFA) *runtimeDFA {
	return &runtimeDFA{table: table}
}

func (d *runtimeDFA) reset() {
	d.currentState = 0
	d.matchingState = MatchingState{}
}

// advance steps the DFA forward by one character at byte offset pos.
func (d *runtimeDFA) advance(pos int, ch rune, byteLen int, matchesClass func(rune, charclass.ID) bool) {
	if d.matchingState.IsLongestMatch() {
		return
	}
	next, ok := d.findTransition(ch, matchesClass)
	if !ok {
		d.matchingState.NoTransition()
		return
	}
	if d.table.IsAccepting(next) {
		d.matchingState.TransitionToAccepting(pos, byteLen)
	} else {
		d.matchingState.TransitionToNonAccepting(pos)
	}
	d.currentState = next
}

// findTransition scans the current state's pre-sorted, pre-flattened edge
// list for the first class matching ch. The edges were sorted by class once
// at compile time (see compiletime.flatten), so this never allocates or
// sorts on the hot path.
func (d *runtimeDFA) findTransition(ch rune, matchesClass func(rune, charclass.ID) bool) (compiletime.StateID, bool) {
	for _, tr := range d.table.TransitionsFor(d.currentState) {
		if matchesClass(ch, tr.Class) {
			return tr.Target, true
		}
	}
	return 0, false
}

// activeForSearch reports whether this DFA can still yield a longer match:
// it drops both the Longest state (already maximal) and the None state
// (lost its anchor, since NoTransition resets the matching state back to
// None but leaves currentState stale and un-advanceable).
func (d *runtimeDFA) activeForSearch() bool {
	return d.matchingState.SearchOnForLonger() && !d.matchingState.IsNoMatch()
}

func (d *runtimeDFA) currentMatch() (Span, bool) { return d.matchingState.LastMatch() }
