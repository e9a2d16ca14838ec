package runtime

import "testing"

func TestPeekNReturnsExactCountWhenAvailable(t *testing.T) {
	scanner, dispatch := mustBuildScanner(t, []string{"[0-9]+"}, nil)
	it := scanner.FindIter("12 34 56", dispatch)
	peek := it.PeekN(2)
	if peek.Kind != PeekMatches {
		t.Fatalf("expected PeekMatches, got %v", peek.Kind)
	}
	if len(peek.Matches) != 2 {
		t.Fatalf("expected 2 peeked matches, got %d", len(peek.Matches))
	}
	if peek.Matches[0].Span != (Span{Start: 0, End: 2}) {
		t.Fatalf("expected first peeked span {0,2}, got %+v", peek.Matches[0].Span)
	}
}

func TestPeekNReachedEndWhenFewerMatchesThanRequested(t *testing.T) {
	scanner, dispatch := mustBuildScanner(t, []string{"[0-9]+"}, nil)
	it := scanner.FindIter("12", dispatch)
	peek := it.PeekN(5)
	if peek.Kind != PeekReachedEnd {
		t.Fatalf("expected PeekReachedEnd, got %v", peek.Kind)
	}
	if len(peek.Matches) != 1 {
		t.Fatalf("expected 1 match before input was exhausted, got %d", len(peek.Matches))
	}
}

func TestPeekNNotFoundWhenNothingMatches(t *testing.T) {
	scanner, dispatch := mustBuildScanner(t, []string{"[0-9]+"}, nil)
	it := scanner.FindIter("abcdef", dispatch)
	peek := it.PeekN(1)
	if peek.Kind != PeekNotFound {
		t.Fatalf("expected PeekNotFound, got %v", peek.Kind)
	}
	if len(peek.Matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(peek.Matches))
	}
}

func TestDecodeCharIndicesHandlesMultibyteRunes(t *testing.T) {
	chars := decodeCharIndices("aéb")
	if len(chars) != 3 {
		t.Fatalf("expected 3 decoded characters, got %d", len(chars))
	}
	if chars[0].pos != 0 || chars[0].byteLen != 1 {
		t.Fatalf("expected 'a' at byte 0 with length 1, got %+v", chars[0])
	}
	if chars[1].pos != 1 || chars[1].byteLen != 2 {
		t.Fatalf("expected the 2-byte accented character at byte 1, got %+v", chars[1])
	}
	if chars[2].pos != 3 || chars[2].byteLen != 1 {
		t.Fatalf("expected 'b' at byte 3, got %+v", chars[2])
	}
}

func TestByteToCharIndexFindsExactAndNearestBoundary(t *testing.T) {
	chars := decodeCharIndices("aéb")
	if idx := byteToCharIndex(chars, 0); idx != 0 {
		t.Fatalf("expected index 0 for byte offset 0, got %d", idx)
	}
	if idx := byteToCharIndex(chars, 3); idx != 2 {
		t.Fatalf("expected index 2 for byte offset 3, got %d", idx)
	}
	if idx := byteToCharIndex(chars, 4); idx != len(chars) {
		t.Fatalf("expected len(chars) for an out-of-range offset, got %d", idx)
	}
}
