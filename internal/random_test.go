package internal

import (
	"strconv"
	"testing"
)

func TestNewNumericCodeRange(t *testing.T) {
	for i := 0; i < 2000; i++ {
		code, err := NewNumericCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not 6 digits", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code %q is not numeric: %v", code, err)
		}
		if n < codeMin || n >= codeMin+codeSpan {
			t.Fatalf("code %d out of range", n)
		}
	}
}

// Uniformity over the domain, checked loosely by bucketing on the
// leading digit: each of 1-9 should receive about 1/9 of the samples.
func TestNewNumericCodeUniformLeadingDigit(t *testing.T) {
	const samples = 45000

	counts := make(map[byte]int, 9)
	for i := 0; i < samples; i++ {
		code, err := NewNumericCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		counts[code[0]]++
	}

	if counts['0'] != 0 {
		t.Fatalf("got %d codes with a leading zero", counts['0'])
	}

	expected := samples / 9
	for d := byte('1'); d <= '9'; d++ {
		got := counts[d]
		if got < expected*8/10 || got > expected*12/10 {
			t.Fatalf("leading digit %c: got %d, want about %d", d, got, expected)
		}
	}
}
