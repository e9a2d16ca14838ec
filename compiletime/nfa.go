package compiletime

import (
	"fmt"
	"regexp/syntax"

	"github.com/coregx/scangen/charclass"
)

// StateID identifies a state within an NFA or DFA graph. State spaces for
// NFAs and DFAs are disjoint despite sharing this type; a StateID from one
// graph is never valid in the other.
type StateID int

// PatternID identifies one of the patterns passed to Compile, in the order
// they were supplied.
type PatternID int

// nfaTransition is a labeled (non-epsilon) edge; chars is the AST fragment
// that must later be interned into a charclass.ID once the owning
// multi-pattern NFA's registry is known.
type nfaTransition struct {
	chars  *syntax.Regexp
	target StateID
}

type nfaState struct {
	epsilon []StateID
	trans   []nfaTransition
}

func (s *nfaState) isEmpty() bool {
	return len(s.epsilon) == 0 && len(s.trans) == 0
}

// fragment is a single pattern's Thompson-construction NFA: an arena of
// states with exactly one designated start and one designated end, built
// bottom-up from a *syntax.Regexp the same way nfa.rs's Nfa type is built
// from an Ast, one AST node at a time.
type fragment struct {
	states []nfaState
	start  StateID
	end    StateID
}

func newFragment() *fragment {
	return &fragment{states: []nfaState{{}}}
}

func (f *fragment) isEmpty() bool {
	return f.start == 0 && f.end == 0 && len(f.states) == 1 && f.states[0].isEmpty()
}

func (f *fragment) newState() StateID {
	id := StateID(len(f.states))
	f.states = append(f.states, nfaState{})
	return id
}

func (f *fragment) addEpsilon(from, to StateID) {
	f.states[from].epsilon = append(f.states[from].epsilon, to)
}

func (f *fragment) addTransition(from StateID, chars *syntax.Regexp, to StateID) {
	f.states[from].trans = append(f.states[from].trans, nfaTransition{chars: chars, target: to})
}

// shiftIDs relocates every state id in f by offset, returning the new
// (start, end) pair.
func (f *fragment) shiftIDs(offset int) (StateID, StateID) {
	for i := range f.states {
		st := &f.states[i]
		for j := range st.epsilon {
			st.epsilon[j] += StateID(offset)
		}
		for j := range st.trans {
			st.trans[j].target += StateID(offset)
		}
	}
	f.start += StateID(offset)
	f.end += StateID(offset)
	return f.start, f.end
}

// append moves other's states onto the end of f's arena without altering
// ids (caller must shiftIDs first if needed), consuming other.
func (f *fragment) append(other *fragment) {
	f.states = append(f.states, other.states...)
}

// concat sequences other after f: f matches followed immediately by other.
func (f *fragment) concat(other *fragment) {
	if f.isEmpty() {
		f.start, f.end, f.states = other.start, other.end, other.states
		return
	}
	otherStart, otherEnd := other.shiftIDs(len(f.states))
	f.append(other)
	f.addEpsilon(f.end, otherStart)
	f.end = otherEnd
}

// alternation unions other with f: f matches either f's original language
// or other's.
func (f *fragment) alternation(other *fragment) {
	if f.isEmpty() {
		f.start, f.end, f.states = other.start, other.end, other.states
		return
	}
	otherStart, otherEnd := other.shiftIDs(len(f.states))
	f.append(other)

	start := f.newState()
	f.addEpsilon(start, f.start)
	f.addEpsilon(start, otherStart)

	end := f.newState()
	f.addEpsilon(f.end, end)
	f.addEpsilon(otherEnd, end)

	f.start, f.end = start, end
}

func (f *fragment) zeroOrOne() {
	start := f.newState()
	f.addEpsilon(start, f.start)
	f.addEpsilon(start, f.end)
	f.start = start
}

func (f *fragment) oneOrMore() {
	start := f.newState()
	f.addEpsilon(start, f.start)
	end := f.newState()
	f.addEpsilon(f.end, end)
	f.addEpsilon(f.end, f.start)
	f.start, f.end = start, end
}

func (f *fragment) zeroOrMore() {
	start := f.newState()
	f.addEpsilon(start, f.start)
	f.addEpsilon(start, f.end)
	end := f.newState()
	f.addEpsilon(f.end, end)
	f.addEpsilon(f.end, f.start)
	f.start, f.end = start, end
}

func (f *fragment) clone() *fragment {
	states := make([]nfaState, len(f.states))
	for i, s := range f.states {
		states[i] = nfaState{
			epsilon: append([]StateID(nil), s.epsilon...),
			trans:   append([]nfaTransition(nil), s.trans...),
		}
	}
	return &fragment{states: states, start: f.start, end: f.end}
}

// buildFragment performs the Thompson construction of SPEC_FULL.md section
// 4.B over ast, the restricted *syntax.Regexp subset described in
// SPEC_FULL.md section 3.
func buildFragment(ast *syntax.Regexp) (*fragment, error) {
	f := newFragment()
	switch ast.Op {
	case syntax.OpEmptyMatch:
		return f, nil

	case syntax.OpLiteral:
		return buildLiteralChain(ast)

	case syntax.OpAnyChar, syntax.OpAnyCharNotNL, syntax.OpCharClass:
		start := f.end
		end := f.newState()
		f.end = end
		f.addTransition(start, ast, end)
		return f, nil

	case syntax.OpCapture:
		return buildFragment(ast.Sub[0])

	case syntax.OpStar:
		inner, err := buildFragment(ast.Sub[0])
		if err != nil {
			return nil, err
		}
		inner.zeroOrMore()
		return inner, nil

	case syntax.OpPlus:
		inner, err := buildFragment(ast.Sub[0])
		if err != nil {
			return nil, err
		}
		inner.oneOrMore()
		return inner, nil

	case syntax.OpQuest:
		inner, err := buildFragment(ast.Sub[0])
		if err != nil {
			return nil, err
		}
		inner.zeroOrOne()
		return inner, nil

	case syntax.OpRepeat:
		return buildRepeat(ast)

	case syntax.OpConcat:
		for _, sub := range ast.Sub {
			part, err := buildFragment(sub)
			if err != nil {
				return nil, err
			}
			f.concat(part)
		}
		return f, nil

	case syntax.OpAlternate:
		for i, sub := range ast.Sub {
			part, err := buildFragment(sub)
			if err != nil {
				return nil, err
			}
			switch {
			case i == 0:
				f = part
			case f.isEmpty():
				// An empty-match branch so far: "" | part is part?.
				part.zeroOrOne()
				f = part
			default:
				f.alternation(part)
			}
		}
		return f, nil

	default:
		return nil, &charclass.UnsupportedFeatureError{Description: fmt.Sprintf("AST op %v", ast.Op)}
	}
}

// buildLiteralChain expands a (possibly multi-rune) OpLiteral into a
// concatenation of single-rune class edges, since every edge label this
// NFA form supports matches exactly one character.
func buildLiteralChain(ast *syntax.Regexp) (*fragment, error) {
	f := newFragment()
	for _, r := range ast.Rune {
		lit := &syntax.Regexp{Op: syntax.OpLiteral, Flags: ast.Flags, Rune: []rune{r}}
		start := f.end
		end := f.newState()
		f.end = end
		f.addTransition(start, lit, end)
	}
	if len(ast.Rune) == 0 {
		return newFragment(), nil
	}
	return f, nil
}

func buildRepeat(ast *syntax.Regexp) (*fragment, error) {
	min, max := ast.Min, ast.Max
	sub := ast.Sub[0]

	copyFrag := func() (*fragment, error) { return buildFragment(sub) }

	switch {
	case max == -1:
		f := newFragment()
		for i := 0; i < min; i++ {
			part, err := copyFrag()
			if err != nil {
				return nil, err
			}
			f.concat(part)
		}
		star, err := copyFrag()
		if err != nil {
			return nil, err
		}
		star.zeroOrMore()
		if f.isEmpty() {
			return star, nil
		}
		f.concat(star)
		return f, nil

	default:
		f := newFragment()
		for i := 0; i < min; i++ {
			part, err := copyFrag()
			if err != nil {
				return nil, err
			}
			f.concat(part)
		}
		for i := min; i < max; i++ {
			part, err := copyFrag()
			if err != nil {
				return nil, err
			}
			part.zeroOrOne()
			f.concat(part)
		}
		return f, nil
	}
}
