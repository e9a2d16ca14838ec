package compiletime

import (
	"regexp/syntax"
	"sort"

	"github.com/coregx/scangen/charclass"
	"github.com/coregx/scangen/internal/sparse"
)

// classTransition is a labeled edge in the combined multi-pattern NFA: the
// edge label has already been resolved to a class id shared across every
// pattern in the scanner.
type classTransition struct {
	class  charclass.ID
	target StateID
}

type multiState struct {
	epsilon []StateID
	trans   []classTransition
}

// multiNFA is the union of every pattern's Thompson-construction fragment
// under a single fresh start state (id 0), as built by MultiPatternBuilder.
type multiNFA struct {
	states []multiState
}

func newMultiNFA() *multiNFA {
	return &multiNFA{states: []multiState{{}}}
}

func (m *multiNFA) newState() StateID {
	id := StateID(len(m.states))
	m.states = append(m.states, multiState{})
	return id
}

func (m *multiNFA) addEpsilon(from, to StateID) {
	m.states[from].epsilon = append(m.states[from].epsilon, to)
}

// epsilonClosureSeed returns the sorted, deduplicated set of states
// reachable from the seed states using only epsilon edges; every seed
// state is always included.
func (m *multiNFA) epsilonClosureSeed(states []StateID) []StateID {
	seen := sparse.NewSparseSet(uint32(len(m.states)))
	var frontier []StateID
	for _, s := range states {
		if !seen.Contains(uint32(s)) {
			seen.Insert(uint32(s))
			frontier = append(frontier, s)
		}
	}
	for i := 0; i < len(frontier); i++ {
		for _, next := range m.states[frontier[i]].epsilon {
			if !seen.Contains(uint32(next)) {
				seen.Insert(uint32(next))
				frontier = append(frontier, next)
			}
		}
	}
	sort.Slice(frontier, func(i, j int) bool { return frontier[i] < frontier[j] })
	return frontier
}

// epsilonClosure returns the sorted, deduplicated set of states reachable
// from state using only epsilon edges; state is always included.
func (m *multiNFA) epsilonClosure(state StateID) []StateID {
	return m.epsilonClosureSeed([]StateID{state})
}

// epsilonClosureSet is the union of epsilonClosure over every state in
// states, sorted and deduplicated.
func (m *multiNFA) epsilonClosureSet(states []StateID) []StateID {
	return m.epsilonClosureSeed(states)
}

// move returns the set of states reachable from states by a single
// transition labeled with class.
func (m *multiNFA) move(states []StateID, class charclass.ID) []StateID {
	var out []StateID
	for _, s := range states {
		for _, tr := range m.states[s].trans {
			if tr.class == class {
				out = append(out, tr.target)
			}
		}
	}
	return out
}

// MultiPatternBuilder composes per-pattern Thompson fragments into a single
// NFA sharing a fresh start state (id 0), grounded in
// original_source/src/compiletime/multi_pattern_nfa.rs's MultiPatternNfa.
type MultiPatternBuilder struct {
	nfa       *multiNFA
	classes   *charclass.Registry
	patterns  []string
	byPattern map[string]PatternID
	accepting map[StateID]PatternID
}

// NewMultiPatternBuilder returns an empty composer with its own private
// character-class registry.
func NewMultiPatternBuilder() *MultiPatternBuilder {
	return NewMultiPatternBuilderWithRegistry(charclass.NewRegistry())
}

// NewMultiPatternBuilderWithRegistry returns an empty composer that interns
// classes into the supplied registry, letting several otherwise-independent
// compositions (Compile builds one per pattern; see compile.go) share a
// single global class-predicate table, per SPEC_FULL.md section 4.F's
// "Global class-predicate table".
func NewMultiPatternBuilderWithRegistry(classes *charclass.Registry) *MultiPatternBuilder {
	return &MultiPatternBuilder{
		nfa:       newMultiNFA(),
		classes:   classes,
		byPattern: make(map[string]PatternID),
		accepting: make(map[StateID]PatternID),
	}
}

// Classes returns the shared character-class registry populated so far.
func (b *MultiPatternBuilder) Classes() *charclass.Registry { return b.classes }

// AddPattern parses and composes pattern into the combined NFA, returning
// its PatternID. Adding an identical pattern string twice returns the
// existing id without modifying the NFA.
func (b *MultiPatternBuilder) AddPattern(index int, pattern string) (PatternID, error) {
	if id, ok := b.byPattern[pattern]; ok {
		return id, nil
	}

	ast, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return 0, newSyntaxError(index, err)
	}

	frag, err := buildFragment(ast)
	if err != nil {
		if uf, ok := err.(*charclass.UnsupportedFeatureError); ok {
			return 0, newUnsupportedFeature(index, uf.Description, uf)
		}
		return 0, err
	}

	patternID := PatternID(len(b.patterns))
	b.patterns = append(b.patterns, pattern)
	b.byPattern[pattern] = patternID

	offset := len(b.nfa.states)
	shiftedStart, shiftedEnd := frag.shiftIDs(offset)

	b.accepting[shiftedEnd] = patternID
	b.nfa.addEpsilon(0, shiftedStart)

	for _, st := range frag.states {
		newState := multiState{epsilon: st.epsilon}
		for _, tr := range st.trans {
			classID, err := b.classes.Intern(tr.chars)
			if err != nil {
				return 0, newUnsupportedFeature(index, err.Error(), err)
			}
			newState.trans = append(newState.trans, classTransition{class: classID, target: tr.target})
		}
		b.nfa.states = append(b.nfa.states, newState)
	}

	return patternID, nil
}

// Patterns returns the ordered list of distinct pattern strings added so far.
func (b *MultiPatternBuilder) Patterns() []string { return b.patterns }
