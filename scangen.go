// Package scangen compiles multiple regular-expression patterns into a
// single lexical scanner and runs it over input text.
//
// scangen builds one minimized DFA per pattern ahead of time, then drives
// every DFA bound to the active scanner mode in parallel at match time,
// reporting the leftmost-longest token on each step, Flex-style. Matching
// never backtracks: advancing all bound DFAs one character costs
// O(active DFAs) per input character, so match-time cost grows with the
// number of patterns still active, and the declared pattern order only
// matters for breaking exact-length ties.
//
// Basic usage:
//
//	scanner, err := scangen.Compile([]string{`\d+`, `[a-zA-Z_]\w*`})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	it := scanner.FindIter("x1 + y2")
//	for tok, ok := it.Next(); ok; tok, ok = it.Next() {
//	    fmt.Println(tok.TokenType, tok.Span)
//	}
//
// Scanner modes (Flex "start conditions") let a set of patterns only
// participate while a particular mode is active, with token-triggered
// transitions between modes — see CompileModes.
package scangen

import (
	"github.com/coregx/scangen/charclass"
	"github.com/coregx/scangen/compiletime"
	"github.com/coregx/scangen/runtime"
)

// Config bundles compile-time tunables; see compiletime.Config.
type Config = compiletime.Config

// DefaultConfig returns sensible limits for interactive use.
func DefaultConfig() Config { return compiletime.DefaultConfig() }

// Stats reports pipeline-level counters from a successful compile.
type Stats = compiletime.Stats

// ModeSpec describes one scanner mode's pattern bindings and
// token-triggered transitions; see compiletime.ModeSpec.
type ModeSpec = compiletime.ModeSpec

// ModeBinding binds one pattern (by index into the patterns slice passed
// to Compile) to a token type within a ModeSpec.
type ModeBinding = compiletime.ModeBinding

// ModeTransition switches the active mode after a token of TokenType is
// emitted while Mode is active.
type ModeTransition = compiletime.ModeTransition

// Match is one token recognized by the scanner.
type Match = runtime.Match

// Span is a byte-offset half-open range within the scanned input.
type Span = runtime.Span

// PeekResult is the outcome of FindIter.PeekN.
type PeekResult = runtime.PeekResult

// Scanner drives every compiled pattern's DFA over input text, reporting
// leftmost-longest, priority-ordered matches one at a time through
// FindIter.
//
// A Scanner is not safe for concurrent use: every search updates the
// per-DFA match state, the active-mode index and a cached skip table
// shared by every FindIter derived from it.
type Scanner struct {
	rt      *runtime.Scanner
	classes *compiletime.Compiled
}

// Compile compiles patterns into a Scanner with a single implicit
// "INITIAL" mode binding every pattern, token type equal to its index in
// patterns.
//
// Example:
//
//	scanner, err := scangen.Compile([]string{`if`, `[a-zA-Z_]\w*`})
func Compile(patterns []string) (*Scanner, error) {
	return CompileWithConfig(patterns, DefaultConfig())
}

// MustCompile compiles patterns and panics if compilation fails.
//
// This is useful for pattern sets known to be valid at compile time.
func MustCompile(patterns []string) *Scanner {
	s, err := Compile(patterns)
	if err != nil {
		panic("scangen: Compile: " + err.Error())
	}
	return s
}

// CompileWithConfig compiles patterns with custom tunables, a single
// implicit INITIAL mode, and no declared scanner modes.
func CompileWithConfig(patterns []string, cfg Config) (*Scanner, error) {
	return CompileModes(patterns, nil, cfg)
}

// CompileModes compiles patterns into a Scanner with explicitly declared
// scanner modes. If modes is empty, a single implicit "INITIAL" mode is
// synthesized binding every pattern in declaration order.
//
// Example:
//
//	modes := []scangen.ModeSpec{
//	    {
//	        Name:        "INITIAL",
//	        Bindings:    []scangen.ModeBinding{{DFAIndex: 0, TokenType: 0}},
//	        Transitions: []scangen.ModeTransition{{TokenType: 0, NextMode: 1}},
//	    },
//	    {Name: "STRING", Bindings: []scangen.ModeBinding{{DFAIndex: 1, TokenType: 1}}},
//	}
//	scanner, err := scangen.CompileModes([]string{`"`, `[^"]+`}, modes, scangen.DefaultConfig())
func CompileModes(patterns []string, modes []ModeSpec, cfg Config) (*Scanner, error) {
	compiled, _, err := compiletime.Compile(patterns, modes, cfg)
	if err != nil {
		return nil, err
	}
	rt := runtime.NewScannerBuilder().
		AddDFAData(compiled.DFAs).
		AddScannerModeData(compiled.Modes).
		WithClassAnalysis(compiled.ClassIsASCIIOnly).
		Build()
	return &Scanner{rt: rt, classes: compiled}, nil
}

// dispatch adapts the compiled character-class registry to the runtime
// matcher's expected predicate shape.
func (s *Scanner) dispatch(ch rune, class charclass.ID) bool {
	return s.classes.MatchesCharClass(ch, class)
}

// FindIter returns an iterator over every non-overlapping,
// leftmost-longest match in input, applying any declared mode
// transitions as it goes.
//
// Example:
//
//	it := scanner.FindIter("if x then 1 else 2")
//	for {
//	    tok, ok := it.Next()
//	    if !ok {
//	        break
//	    }
//	    fmt.Println(tok.TokenType, tok.Span)
//	}
func (s *Scanner) FindIter(input string) *runtime.FindIter {
	return s.rt.FindIter(input, s.dispatch)
}

// CurrentMode returns the active mode index.
func (s *Scanner) CurrentMode() int { return s.rt.CurrentMode() }

// SetMode sets the active mode index explicitly, returning an error if i
// is out of range.
func (s *Scanner) SetMode(i int) error { return s.rt.SetMode(i) }

// HasTransition reports the mode-switch target registered for tokenType
// under the current mode, if any.
func (s *Scanner) HasTransition(tokenType int) (int, bool) { return s.rt.HasTransition(tokenType) }
