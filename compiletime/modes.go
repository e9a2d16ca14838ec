package compiletime

import (
	"sort"

	"github.com/coregx/ahocorasick"
)

// ModeBinding binds one compiled DFA to a token type within a ScannerMode.
type ModeBinding struct {
	DFAIndex  int
	TokenType int
}

// ModeTransition switches the active mode after a token of TokenType is
// emitted while Mode is active.
type ModeTransition struct {
	TokenType int
	NextMode  int
}

// ModeSpec is the caller-supplied description of a single scanner mode,
// the Go-concrete form of Flex's "start condition" blocks (SPEC_FULL.md
// section 4.G).
type ModeSpec struct {
	Name        string
	Bindings    []ModeBinding
	Transitions []ModeTransition
}

// ScannerMode is the compiled form of a ModeSpec: transitions sorted by
// TokenType for binary-search dispatch, plus an optional literal
// prefilter built when every pattern bound to this mode is a bare literal
// and the count clears Config.LiteralAcceleratorThreshold, mirroring
// meta/compile.go's own Aho-Corasick strategy selection.
type ScannerMode struct {
	Name               string
	Bindings           []ModeBinding
	Transitions        []ModeTransition
	LiteralAccelerator *ahocorasick.Automaton
}

// HasTransition looks up the mode switch, if any, for tokenType.
func (m *ScannerMode) HasTransition(tokenType int) (int, bool) {
	i := sort.Search(len(m.Transitions), func(i int) bool {
		return m.Transitions[i].TokenType >= tokenType
	})
	if i < len(m.Transitions) && m.Transitions[i].TokenType == tokenType {
		return m.Transitions[i].NextMode, true
	}
	return 0, false
}

// defaultModeSpec synthesizes the single implicit mode used when the
// caller supplies none: every pattern participates, token type equal to
// its PatternID, and no transitions, grounded on
// original_source/src/runtime/scanner_builder.rs's create_default_mode.
func defaultModeSpec(numPatterns int) ModeSpec {
	spec := ModeSpec{Name: "INITIAL"}
	for i := 0; i < numPatterns; i++ {
		spec.Bindings = append(spec.Bindings, ModeBinding{DFAIndex: i, TokenType: i})
	}
	return spec
}

// compileMode lowers a ModeSpec into a ScannerMode, optionally attaching a
// literal accelerator. literalPatterns supplies, per DFA index, the bare
// literal text the DFA matches when it is pure-literal (empty otherwise).
func compileMode(spec ModeSpec, cfg Config, literalPatterns []string) (ScannerMode, error) {
	mode := ScannerMode{Name: spec.Name, Bindings: spec.Bindings}
	mode.Transitions = append(mode.Transitions, spec.Transitions...)
	sort.Slice(mode.Transitions, func(i, j int) bool {
		return mode.Transitions[i].TokenType < mode.Transitions[j].TokenType
	})

	if cfg.LiteralAcceleratorThreshold <= 0 || len(spec.Bindings) < cfg.LiteralAcceleratorThreshold {
		return mode, nil
	}

	literals := make([][]byte, 0, len(spec.Bindings))
	for _, b := range spec.Bindings {
		if b.DFAIndex < 0 || b.DFAIndex >= len(literalPatterns) {
			return mode, nil
		}
		lit := literalPatterns[b.DFAIndex]
		if lit == "" {
			return mode, nil
		}
		literals = append(literals, []byte(lit))
	}

	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		builder.AddPattern(lit)
	}
	automaton, err := builder.Build()
	if err != nil {
		return mode, nil
	}
	mode.LiteralAccelerator = automaton
	return mode, nil
}
