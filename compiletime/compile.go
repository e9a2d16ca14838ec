package compiletime

import (
	"regexp/syntax"

	"github.com/coregx/scangen/charclass"
)

// Stats reports pipeline-level counters for a successful Compile call, the
// compile-time analogue of meta.Engine's runtime Stats struct.
type Stats struct {
	Patterns           int
	CharClasses        int
	UnminimizedStates  int
	MinimizedStates    int
	Modes              int
	LiteralAccelerated int
}

// Compile builds one minimized DFA per pattern, sharing a single global
// character-class registry across all of them (SPEC_FULL.md section 4.F's
// "Global class-predicate table"), then groups them into scanner modes per
// SPEC_FULL.md section 6.1. Each compiled DFA is grounded on
// original_source/src/compiletime/compiled_dfa.rs's CompiledDfa, which
// asserts exactly one pattern per Dfa (debug_assert_eq!(dfa.pattern().len(),
// 1)) even though the underlying subset-construction machinery in §4.C/D
// is itself capable of combining several patterns into one graph.
func Compile(patterns []string, modes []ModeSpec, cfg Config) (*Compiled, Stats, error) {
	var stats Stats

	if err := cfg.Validate(); err != nil {
		return nil, stats, err
	}
	if len(patterns) == 0 {
		return nil, stats, newDfaConstructionError("no patterns supplied")
	}
	if len(patterns) > cfg.MaxPatterns {
		return nil, stats, newDfaConstructionError("pattern count exceeded configured limit")
	}

	classes := charclass.NewRegistry()
	dfas := make([]CompiledDFA, len(patterns))
	literalText := make([]string, len(patterns))

	for i, pattern := range patterns {
		builder := NewMultiPatternBuilderWithRegistry(classes)
		if _, err := builder.AddPattern(i, pattern); err != nil {
			return nil, stats, err
		}
		if len(builder.nfa.states) > cfg.MaxNFAStates {
			return nil, stats, newDfaConstructionError("nfa state count exceeded configured limit")
		}

		unminimized, err := buildDFA(builder, cfg)
		if err != nil {
			return nil, stats, err
		}
		minimized, err := minimizeDFA(unminimized, cfg)
		if err != nil {
			return nil, stats, err
		}

		compiled := flatten(minimized)
		compiled.Patterns = []string{pattern}
		dfas[i] = compiled

		stats.UnminimizedStates += len(unminimized.states)
		stats.MinimizedStates += len(minimized.states)

		if lit, ok := bareLiteral(pattern); ok {
			literalText[i] = lit
		}
	}
	stats.Patterns = len(patterns)
	stats.CharClasses = classes.Len()

	specs := modes
	if len(specs) == 0 {
		specs = []ModeSpec{defaultModeSpec(len(patterns))}
	}

	compiledModes := make([]ScannerMode, len(specs))
	for i, spec := range specs {
		m, err := compileMode(spec, cfg, literalText)
		if err != nil {
			return nil, stats, err
		}
		compiledModes[i] = m
		if m.LiteralAccelerator != nil {
			stats.LiteralAccelerated += len(m.Bindings)
		}
	}
	stats.Modes = len(compiledModes)

	return &Compiled{
		DFAs:    dfas,
		Modes:   compiledModes,
		classes: classes,
	}, stats, nil
}

// bareLiteral reports whether pattern has no regex metacharacters once
// parsed, returning its literal text when so.
func bareLiteral(pattern string) (string, bool) {
	ast, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return "", false
	}
	ast = ast.Simplify()
	switch ast.Op {
	case syntax.OpLiteral:
		return string(ast.Rune), true
	case syntax.OpConcat:
		var out []rune
		for _, sub := range ast.Sub {
			if sub.Op != syntax.OpLiteral {
				return "", false
			}
			out = append(out, sub.Rune...)
		}
		return string(out), true
	default:
		return "", false
	}
}
