package runtime

import (
	"github.com/coregx/scangen/charclass"
	"github.com/coregx/scangen/compiletime"
)

// modeBinding pairs a runtime DFA with the token type it reports under the
// owning mode.
type modeBinding struct {
	dfa       *runtimeDFA
	tokenType int
}

// runtimeMode is the runtime-resident form of a compiletime.ScannerMode:
// its DFA bindings resolved to live *runtimeDFA instances plus its
// (already sorted) mode-transition table.
type runtimeMode struct {
	name        string
	bindings    []modeBinding
	transitions []compiletime.ModeTransition
	accelerator *ahoCorasickAccelerator
}

func (m *runtimeMode) hasTransition(tokenType int) (int, bool) {
	lo, hi := 0, len(m.transitions)
	for lo < hi {
		mid := (lo + hi) / 2
		if m.transitions[mid].TokenType < tokenType {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(m.transitions) && m.transitions[lo].TokenType == tokenType {
		return m.transitions[lo].NextMode, true
	}
	return 0, false
}

// ScannerBuilder assembles a Scanner in two independent stages, mirroring
// original_source/src/runtime/scanner_builder.rs's ScannerBuilder.
type ScannerBuilder struct {
	dfaTables    []compiletime.CompiledDFA
	modes        []compiletime.ScannerMode
	classASCII   func(charclass.ID) bool
}

// NewScannerBuilder returns an empty builder.
func NewScannerBuilder() *ScannerBuilder {
	return &ScannerBuilder{}
}

// WithClassAnalysis supplies the compile-time ASCII-only classifier
// (Compiled.ClassIsASCIIOnly) the scanner's first-byte skip-ahead uses to
// stay sound. Optional: without it, the skip-ahead optimization never
// activates and every character is still matched correctly, just without
// that fast path.
func (b *ScannerBuilder) WithClassAnalysis(isASCIIOnly func(charclass.ID) bool) *ScannerBuilder {
	b.classASCII = isASCIIOnly
	return b
}

// AddDFAData stages the compiled DFA tables. May be called before or after
// AddScannerModeData, but both must run before Build.
func (b *ScannerBuilder) AddDFAData(dfas []compiletime.CompiledDFA) *ScannerBuilder {
	b.dfaTables = dfas
	return b
}

// AddScannerModeData stages the compiled scanner-mode tables.
func (b *ScannerBuilder) AddScannerModeData(modes []compiletime.ScannerMode) *ScannerBuilder {
	b.modes = modes
	return b
}

// Build finalizes the scanner. If no modes were staged, a single "INITIAL"
// mode binding every DFA with token_type equal to its index is synthesized,
// per original_source's ScannerBuilder::create_default_mode.
func (b *ScannerBuilder) Build() *Scanner {
	dfas := make([]*runtimeDFA, len(b.dfaTables))
	for i, table := range b.dfaTables {
		dfas[i] = newRuntimeDFA(table)
	}

	modeSpecs := b.modes
	if len(modeSpecs) == 0 {
		bindings := make([]compiletime.ModeBinding, len(dfas))
		for i := range dfas {
			bindings[i] = compiletime.ModeBinding{DFAIndex: i, TokenType: i}
		}
		modeSpecs = []compiletime.ScannerMode{{Name: "INITIAL", Bindings: bindings}}
	}

	modes := make([]*runtimeMode, len(modeSpecs))
	for i, spec := range modeSpecs {
		rm := &runtimeMode{name: spec.Name, transitions: spec.Transitions}
		for _, bnd := range spec.Bindings {
			if bnd.DFAIndex < 0 || bnd.DFAIndex >= len(dfas) {
				continue
			}
			rm.bindings = append(rm.bindings, modeBinding{dfa: dfas[bnd.DFAIndex], tokenType: bnd.TokenType})
		}
		if spec.LiteralAccelerator != nil {
			rm.accelerator = newAhoCorasickAccelerator(spec.LiteralAccelerator)
		}
		modes[i] = rm
	}

	return &Scanner{dfas: dfas, modes: modes, currentMode: 0, classASCII: b.classASCII}
}

// Scanner holds every compiled DFA and scanner mode and the mutable
// current-mode index, per SPEC_FULL.md section 4.I.
type Scanner struct {
	dfas        []*runtimeDFA
	modes       []*runtimeMode
	currentMode int
	classASCII  func(charclass.ID) bool

	skipCache map[int]*firstByteSkip
}

// CurrentMode returns the active mode index.
func (s *Scanner) CurrentMode() int { return s.currentMode }

// SetMode sets the active mode index explicitly.
func (s *Scanner) SetMode(i int) error {
	if i < 0 || i >= len(s.modes) {
		return compiletime.ErrInvalidMode
	}
	s.currentMode = i
	return nil
}

// HasTransition reports the mode-switch target registered for tokenType
// under the current mode, if any.
func (s *Scanner) HasTransition(tokenType int) (int, bool) {
	return s.modes[s.currentMode].hasTransition(tokenType)
}

// Match is one token recognized by the scanner.
type Match struct {
	TokenType int
	Span      Span
}

// FindIter returns an iterator over every non-overlapping match in input.
func (s *Scanner) FindIter(input string, dispatcher func(rune, charclass.ID) bool) *FindIter {
	return newFindIter(s, input, dispatcher)
}

// nextLiteralCandidate consults the current mode's literal accelerator, if
// any, for the next byte offset at or after from where some bound literal
// could begin. Returns false if the mode has no accelerator.
func (s *Scanner) nextLiteralCandidate(input []byte, from int) (int, bool) {
	acc := s.modes[s.currentMode].accelerator
	if acc == nil {
		return 0, false
	}
	return acc.nextCandidate(input, from)
}

// firstByteSkipFor lazily computes and caches the current mode's
// first-byte skip set against dispatcher. Returns nil if classASCII was
// never supplied or the skip would be unsound or useless for this mode.
func (s *Scanner) firstByteSkipFor(dispatcher func(rune, charclass.ID) bool) *firstByteSkip {
	if s.classASCII == nil {
		return nil
	}
	if s.skipCache == nil {
		s.skipCache = make(map[int]*firstByteSkip)
	}
	if fb, ok := s.skipCache[s.currentMode]; ok {
		return fb
	}
	fb := computeFirstByteSkip(s.modes[s.currentMode], s.classASCII, dispatcher)
	s.skipCache[s.currentMode] = fb
	return fb
}

// findFrom executes one leftmost-longest search starting at character
// index cursor (an index into chars), advancing every DFA bound to the
// current mode in parallel. It follows
// original_source/src/runtime/scanner.rs's Scanner::find_from; the
// literal accelerator is not consulted here (FindIter.Next uses it).
func (s *Scanner) findFrom(chars []charAt, cursor int, dispatcher func(rune, charclass.ID) bool, applyModeSwitch bool) *Match {
	mode := s.modes[s.currentMode]

	for _, b := range mode.bindings {
		b.dfa.reset()
	}

	active := make([]int, len(mode.bindings))
	for i := range active {
		active[i] = i
	}

	for idx := cursor; idx < len(chars); idx++ {
		c := chars[idx]
		for _, bi := range active {
			mode.bindings[bi].dfa.advance(c.pos, c.ch, c.byteLen, dispatcher)
		}

		if idx == cursor {
			filtered := active[:0]
			for _, bi := range active {
				if !mode.bindings[bi].dfa.matchingState.IsNoMatch() {
					filtered = append(filtered, bi)
				}
			}
			active = filtered
		}

		filtered := active[:0]
		for _, bi := range active {
			if mode.bindings[bi].dfa.activeForSearch() {
				filtered = append(filtered, bi)
			}
		}
		active = filtered

		if len(active) == 0 {
			break
		}
	}

	winner := findFirstLongestMatch(mode)
	if winner != nil && applyModeSwitch {
		if next, ok := mode.hasTransition(winner.TokenType); ok {
			s.currentMode = next
		}
	}
	return winner
}

// findFirstLongestMatch implements the winner-selection rule of
// SPEC_FULL.md section 4.I step 4: smallest start, then largest length,
// then lowest binding index (earlier-listed patterns win ties).
func findFirstLongestMatch(mode *runtimeMode) *Match {
	var best *Match
	var bestSpan Span
	for _, b := range mode.bindings {
		span, ok := b.dfa.currentMatch()
		if !ok {
			continue
		}
		if best == nil || span.Start < bestSpan.Start ||
			(span.Start == bestSpan.Start && (span.End-span.Start) > (bestSpan.End-bestSpan.Start)) {
			best = &Match{TokenType: b.tokenType, Span: span}
			bestSpan = span
		}
	}
	return best
}
