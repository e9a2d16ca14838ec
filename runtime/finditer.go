package runtime

import (
	"sort"
	"unicode/utf8"

	"github.com/coregx/scangen/charclass"
	"github.com/coregx/scangen/simd"
)

// charAt is one decoded character of the scanned input, the Go analogue of
// Rust's CharIndices entry.
type charAt struct {
	pos     int
	ch      rune
	byteLen int
}

// decodeCharIndices decodes input into its per-character byte offsets,
// runes, and byte lengths. When the whole input is pure ASCII,
// simd.IsASCII lets us skip utf8.DecodeRuneInString's general multi-byte
// decoding entirely: every byte is its own one-byte rune.
func decodeCharIndices(input string) []charAt {
	out := make([]charAt, 0, len(input))
	if simd.IsASCII([]byte(input)) {
		for i := 0; i < len(input); i++ {
			out = append(out, charAt{pos: i, ch: rune(input[i]), byteLen: 1})
		}
		return out
	}
	for i, r := range input {
		out = append(out, charAt{pos: i, ch: r, byteLen: utf8.RuneLen(r)})
	}
	return out
}

// byteToCharIndex returns the index of the first entry whose byte offset
// is >= bytePos (len(chars) if none).
func byteToCharIndex(chars []charAt, bytePos int) int {
	return sort.Search(len(chars), func(i int) bool { return chars[i].pos >= bytePos })
}

// FindIter iterates non-overlapping matches over one input string,
// grounded on original_source/src/runtime/find_matches.rs's FindMatches
// and extended with the look-ahead PeekN described in SPEC_FULL.md section
// 4.J.
type FindIter struct {
	scanner    *Scanner
	chars      []charAt
	inputBytes []byte
	idx        int
	dispatcher func(rune, charclass.ID) bool
}

func newFindIter(s *Scanner, input string, dispatcher func(rune, charclass.ID) bool) *FindIter {
	return &FindIter{
		scanner:    s,
		chars:      decodeCharIndices(input),
		inputBytes: []byte(input),
		dispatcher: dispatcher,
	}
}

// Next returns the next match, advancing the cursor past it, or reports
// false once the input is exhausted.
func (it *FindIter) Next() (Match, bool) {
	for it.idx <= len(it.chars) {
		if it.idx < len(it.chars) && it.scanner.modes[it.scanner.currentMode].accelerator != nil {
			candidate, ok := it.scanner.nextLiteralCandidate(it.inputBytes, it.chars[it.idx].pos)
			if !ok {
				return Match{}, false
			}
			if candidate > it.chars[it.idx].pos {
				it.idx = byteToCharIndex(it.chars, candidate)
			}
			if it.idx >= len(it.chars) {
				break
			}
		} else if it.idx < len(it.chars) {
			if fb := it.scanner.firstByteSkipFor(it.dispatcher); fb != nil {
				candidate, ok := fb.next(it.inputBytes, it.chars[it.idx].pos)
				if !ok {
					return Match{}, false
				}
				if candidate > it.chars[it.idx].pos {
					it.idx = byteToCharIndex(it.chars, candidate)
				}
				if it.idx >= len(it.chars) {
					break
				}
			}
		}

		m := it.scanner.findFrom(it.chars, it.idx, it.dispatcher, true)
		if m != nil {
			it.idx = byteToCharIndex(it.chars, m.Span.End)
			return *m, true
		}
		if it.idx >= len(it.chars) {
			break
		}
		it.idx++
	}
	return Match{}, false
}

// PeekOutcomeKind classifies the result of PeekN.
type PeekOutcomeKind int

const (
	// PeekMatches: exactly the requested count was found.
	PeekMatches PeekOutcomeKind = iota
	// PeekReachedEnd: fewer than requested because input was exhausted.
	PeekReachedEnd
	// PeekReachedModeSwitch: stopped early because the last match found
	// would trigger a mode switch.
	PeekReachedModeSwitch
	// PeekNotFound: zero matches found.
	PeekNotFound
)

// PeekResult is the outcome of PeekN.
type PeekResult struct {
	Kind     PeekOutcomeKind
	Matches  []Match
	NextMode int
}

// PeekN looks ahead up to k matches without mutating scanner state (no
// mode switch is ever applied), per SPEC_FULL.md section 4.J.
func (it *FindIter) PeekN(k int) PeekResult {
	idx := it.idx
	mode := it.scanner.modes[it.scanner.currentMode]
	var matches []Match

	for {
		m := it.scanner.findFrom(it.chars, idx, it.dispatcher, false)
		if m == nil && idx < len(it.chars) {
			// No match anchored here; advance one character, as Next does.
			idx++
			continue
		}
		if m == nil {
			if len(matches) == 0 {
				return PeekResult{Kind: PeekNotFound}
			}
			return PeekResult{Kind: PeekReachedEnd, Matches: matches}
		}
		matches = append(matches, *m)
		idx = byteToCharIndex(it.chars, m.Span.End)

		if next, ok := mode.hasTransition(m.TokenType); ok {
			return PeekResult{Kind: PeekReachedModeSwitch, Matches: matches, NextMode: next}
		}
		if len(matches) == k {
			return PeekResult{Kind: PeekMatches, Matches: matches}
		}
		if idx >= len(it.chars) {
			return PeekResult{Kind: PeekReachedEnd, Matches: matches}
		}
	}
}
