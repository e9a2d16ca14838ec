// Package charclass implements the character-class registry: it turns the
// character-matching fragments of a regex AST (dot, literal, bracketed
// class) into small dense integer ids and a predicate per id.
//
// The input fragments are *regexp/syntax.Regexp nodes, the standard
// library's own parsed-AST representation. Unlike the grammar this design
// was originally distilled from, regexp/syntax resolves bracket
// expressions, Perl shorthands (\d, \s, \w) and named Unicode classes
// (\p{L}, \p{Greek}, ...) into a single OpCharClass rune-range list at
// parse time, so there is no separate "unresolved named class" case to
// special-case here the way an un-flattened AST would require: every
// OpCharClass that survives syntax.Parse already carries a concrete,
// correct set of inclusive rune ranges.
package charclass

import (
	"fmt"

	"regexp/syntax"
)

// ID identifies a character class within a Registry. Ids are dense,
// starting at 0, and assigned in first-interning order.
type ID int

// Registry canonicalizes regex character-class AST fragments into Ids and
// compiles a match predicate for each. Two fragments with the same
// canonical string form (fragment.String()) always receive the same Id,
// regardless of how many times or in what order they are interned.
type Registry struct {
	order      []string
	index      map[string]ID
	predicates []func(rune) bool
	asts       []*syntax.Regexp
	asciiOnly  []bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]ID),
	}
}

// Intern canonicalizes ast and returns its Id, compiling a new predicate
// only the first time a given canonical form is seen. The returned id is
// stable for the lifetime of the registry.
func (r *Registry) Intern(ast *syntax.Regexp) (ID, error) {
	key := ast.String()
	if id, ok := r.index[key]; ok {
		return id, nil
	}
	pred, err := compilePredicate(ast)
	if err != nil {
		return 0, err
	}
	id := ID(len(r.order))
	r.order = append(r.order, key)
	r.index[key] = id
	r.predicates = append(r.predicates, pred)
	r.asts = append(r.asts, ast)
	r.asciiOnly = append(r.asciiOnly, isASCIIOnly(ast))
	return id, nil
}

// IsASCIIOnly reports whether class id can only ever match runes below
// 128, determined statically from its AST at Intern time. Used by the
// runtime's first-byte skip-ahead to decide whether byte-granularity
// scanning stays sound for a given DFA.
func (r *Registry) IsASCIIOnly(id ID) bool {
	return r.asciiOnly[id]
}

// isASCIIOnly inspects ast's concrete rune ranges without needing to
// evaluate the compiled predicate.
func isASCIIOnly(ast *syntax.Regexp) bool {
	switch ast.Op {
	case syntax.OpEmptyMatch:
		return true
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return false
	case syntax.OpLiteral:
		for _, r := range ast.Rune {
			if r >= 128 {
				return false
			}
			if ast.Flags&syntax.FoldCase != 0 {
				lo, hi := foldPair(r)
				if lo >= 128 || hi >= 128 {
					return false
				}
			}
		}
		return true
	case syntax.OpCharClass:
		for _, r := range ast.Rune {
			if r >= 128 {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Len reports the number of distinct classes interned so far.
func (r *Registry) Len() int { return len(r.order) }

// Match reports whether ch belongs to class id.
func (r *Registry) Match(id ID, ch rune) bool {
	return r.predicates[id](ch)
}

// Predicate returns the compiled predicate function for id, primarily for
// testing; emitted dispatch code should prefer Match.
func (r *Registry) Predicate(id ID) func(rune) bool {
	return r.predicates[id]
}

// AST returns the AST fragment originally interned for id.
func (r *Registry) AST(id ID) *syntax.Regexp {
	return r.asts[id]
}

// UnsupportedFeatureError reports a regex construct outside the supported
// subset (see SPEC_FULL.md section 3 for the allowed Op set).
type UnsupportedFeatureError struct {
	Description string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("unsupported regex feature: %s", e.Description)
}

func compilePredicate(ast *syntax.Regexp) (func(rune) bool, error) {
	switch ast.Op {
	case syntax.OpEmptyMatch:
		return func(rune) bool { return true }, nil

	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		// Dot excludes both \n and \r uniformly, regardless of the (?s)
		// flag distinction regexp/syntax otherwise preserves.
		return func(ch rune) bool { return ch != '\n' && ch != '\r' }, nil

	case syntax.OpLiteral:
		if len(ast.Rune) != 1 {
			return nil, &UnsupportedFeatureError{
				Description: fmt.Sprintf("multi-rune literal %q used as a class edge", string(ast.Rune)),
			}
		}
		want := ast.Rune[0]
		if ast.Flags&syntax.FoldCase != 0 {
			lo, hi := foldPair(want)
			return func(ch rune) bool { return ch == lo || ch == hi }, nil
		}
		return func(ch rune) bool { return ch == want }, nil

	case syntax.OpCharClass:
		ranges := append([]rune(nil), ast.Rune...)
		return func(ch rune) bool { return inRanges(ranges, ch) }, nil

	default:
		return nil, &UnsupportedFeatureError{
			Description: fmt.Sprintf("AST node of kind %v used as a class edge", ast.Op),
		}
	}
}

// inRanges does a binary search over ranges, an even-length slice of
// inclusive [lo,hi] pairs sorted by lo, as produced by regexp/syntax.
func inRanges(ranges []rune, ch rune) bool {
	lo, hi := 0, len(ranges)/2
	for lo < hi {
		mid := (lo + hi) / 2
		rlo, rhi := ranges[2*mid], ranges[2*mid+1]
		switch {
		case ch < rlo:
			hi = mid
		case ch > rhi:
			lo = mid + 1
		default:
			return true
		}
	}
	return false
}

func foldPair(ch rune) (rune, rune) {
	lo, hi := ch, ch
	switch {
	case ch >= 'a' && ch <= 'z':
		hi = ch - ('a' - 'A')
	case ch >= 'A' && ch <= 'Z':
		hi = ch + ('a' - 'A')
	}
	return lo, hi
}
