package runtime

import (
	"github.com/coregx/scangen/charclass"
	"github.com/coregx/scangen/simd"
)

// firstByteSkip generalizes coregx's single-regex first-byte skip-ahead to
// "union of first bytes across all DFAs active in the current mode": when
// every DFA bound to a mode can only begin a match on one of at most three
// concrete ASCII bytes, the scanner can jump straight to the next
// occurrence of any of them via simd.Memchr/Memchr2/Memchr3 instead of
// driving every DFA forward one rune at a time through positions that
// cannot possibly start a match.
type firstByteSkip struct {
	bytes []byte
}

// computeFirstByteSkip inspects every binding's DFA start-state
// transitions. A class only contributes candidate bytes if isASCIIOnly
// reports it can never match a rune above 127 (Compiled.ClassIsASCIIOnly);
// otherwise the whole skip is disabled for this mode, since restricting to
// an ASCII candidate set would silently miss non-ASCII matches. Also
// disabled when more than three distinct candidate bytes exist (beyond
// Memchr3's capacity) or when any DFA's start state has no ASCII-only
// outgoing transition at all.
func computeFirstByteSkip(mode *runtimeMode, isASCIIOnly func(charclass.ID) bool, dispatcher func(rune, charclass.ID) bool) *firstByteSkip {
	candidates := map[byte]bool{}
	for _, b := range mode.bindings {
		trs := b.dfa.table.TransitionsFor(0)
		if len(trs) == 0 {
			return nil
		}
		matchedAny := false
		for _, tr := range trs {
			if !isASCIIOnly(tr.Class) {
				return nil
			}
			for c := rune(0); c < 128; c++ {
				if dispatcher(c, tr.Class) {
					candidates[byte(c)] = true
					matchedAny = true
				}
			}
		}
		if !matchedAny {
			return nil
		}
	}
	if len(candidates) == 0 || len(candidates) > 3 {
		return nil
	}
	out := &firstByteSkip{}
	for b := range candidates {
		out.bytes = append(out.bytes, b)
	}
	return out
}

// next returns the offset of the next byte in haystack at or after from
// that could start a match, or false if none remains.
func (f *firstByteSkip) next(haystack []byte, from int) (int, bool) {
	if from >= len(haystack) {
		return 0, false
	}
	rel := haystack[from:]
	var idx int
	switch len(f.bytes) {
	case 1:
		idx = simd.Memchr(rel, f.bytes[0])
	case 2:
		idx = simd.Memchr2(rel, f.bytes[0], f.bytes[1])
	case 3:
		idx = simd.Memchr3(rel, f.bytes[0], f.bytes[1], f.bytes[2])
	default:
		return 0, false
	}
	if idx < 0 {
		return 0, false
	}
	return from + idx, true
}
