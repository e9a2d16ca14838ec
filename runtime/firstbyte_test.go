package runtime

import (
	"testing"

	"github.com/coregx/scangen/compiletime"
)

func TestFirstByteSkipAcceleratesASCIIOnlyMode(t *testing.T) {
	// [0-9] alone has 10 candidate first bytes, beyond Memchr3's 3-byte
	// arity, so it never qualifies; [xyz] has exactly 3 and does.
	scanner, dispatch := mustBuildScanner(t, []string{"[xyz]+"}, nil)
	fb := scanner.firstByteSkipFor(dispatch)
	if fb == nil {
		t.Fatal("expected a first-byte skip set for a 3-candidate ASCII-only class")
	}
	for _, b := range fb.bytes {
		if b != 'x' && b != 'y' && b != 'z' {
			t.Fatalf("unexpected candidate byte %q outside [xyz]", b)
		}
	}
	idx, ok := fb.next([]byte("aaaayzzz"), 0)
	if !ok || idx != 4 {
		t.Fatalf("expected to find the first candidate at offset 4, got (%d, %v)", idx, ok)
	}
}

func TestFirstByteSkipDisabledWhenCandidateSetTooLarge(t *testing.T) {
	// [0-9] has 10 distinct possible first bytes, beyond what
	// simd.Memchr3 can represent; the optimization must decline rather
	// than silently truncate the candidate set.
	scanner, dispatch := mustBuildScanner(t, []string{"[0-9]+"}, nil)
	if fb := scanner.firstByteSkipFor(dispatch); fb != nil {
		t.Fatal("expected no first-byte skip when the candidate set exceeds 3 bytes")
	}
}

func TestFirstByteSkipDisabledWithoutClassAnalysis(t *testing.T) {
	compiled, _, err := compiletime.Compile([]string{"[0-9]+"}, nil, compiletime.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	scanner := NewScannerBuilder().
		AddDFAData(compiled.DFAs).
		AddScannerModeData(compiled.Modes).
		Build()
	if fb := scanner.firstByteSkipFor(compiled.MatchesCharClass); fb != nil {
		t.Fatal("expected no first-byte skip when WithClassAnalysis was never called")
	}
}

func TestFirstByteSkipDisabledForNonASCIIClass(t *testing.T) {
	scanner, dispatch := mustBuildScanner(t, []string{`\p{L}+`}, nil)
	if fb := scanner.firstByteSkipFor(dispatch); fb != nil {
		t.Fatal("expected no first-byte skip for a class that can match non-ASCII letters")
	}
}

func TestFirstByteSkipStillFindsCorrectMatchesEndToEnd(t *testing.T) {
	scanner, dispatch := mustBuildScanner(t, []string{"[xyz]+"}, nil)
	matches := collectMatches(scanner, "abcxyzdefyzx", dispatch)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(matches), matches)
	}
	if matches[0].Span != (Span{Start: 3, End: 6}) {
		t.Fatalf("expected first span {3,6}, got %+v", matches[0].Span)
	}
	if matches[1].Span != (Span{Start: 9, End: 12}) {
		t.Fatalf("expected second span {9,12}, got %+v", matches[1].Span)
	}
}
