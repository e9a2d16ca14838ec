package runtime

import "github.com/coregx/ahocorasick"

// ahoCorasickAccelerator is a literal skip-ahead prefilter attached to a
// scanner mode whose bound patterns are all bare literals (see
// compiletime.compileMode), mirroring meta/compile.go's own Aho-Corasick
// strategy selection for large literal alternations. It never decides a
// match itself; it only reports the next byte offset at which some bound
// literal could possibly start, so regions with no literal occurrence at
// all are skipped without driving any DFA character by character.
type ahoCorasickAccelerator struct {
	automaton *ahocorasick.Automaton
}

func newAhoCorasickAccelerator(automaton *ahocorasick.Automaton) *ahoCorasickAccelerator {
	return &ahoCorasickAccelerator{automaton: automaton}
}

// nextCandidate returns the byte offset of the next position at or after
// from where some bound literal could start matching.
func (a *ahoCorasickAccelerator) nextCandidate(input []byte, from int) (int, bool) {
	if from >= len(input) {
		return 0, false
	}
	m := a.automaton.Find(input, from)
	if m == nil {
		return 0, false
	}
	return m.Start, true
}
