package songbook

import (
	"errors"
	"strings"
	"testing"
)

func TestRomanRoundTrip(t *testing.T) {
	for n := 1; n <= 3999; n++ {
		r, err := ToRoman(n)
		if err != nil {
			t.Fatalf("ToRoman(%d): %v", n, err)
		}
		got, err := FromRoman(r)
		if err != nil {
			t.Fatalf("FromRoman(%q): %v", r, err)
		}
		if got != n {
			t.Fatalf("FromRoman(ToRoman(%d)) = %d", n, got)
		}
		if got, err := FromRoman(strings.ToLower(r)); err != nil || got != n {
			t.Fatalf("FromRoman(%q) = %d, %v", strings.ToLower(r), got, err)
		}
	}
}

func TestToRoman(t *testing.T) {
	tests := map[int]string{
		1:    "I",
		4:    "IV",
		9:    "IX",
		14:   "XIV",
		40:   "XL",
		90:   "XC",
		400:  "CD",
		1994: "MCMXCIV",
		3999: "MMMCMXCIX",
	}
	for n, want := range tests {
		got, err := ToRoman(n)
		if err != nil || got != want {
			t.Errorf("ToRoman(%d) = %q, %v; want %q", n, got, err, want)
		}
	}
}

func TestToRomanRange(t *testing.T) {
	for _, n := range []int{-1, 0, 4000, 10000} {
		_, err := ToRoman(n)
		var rerr *NumeralRangeError
		if !errors.As(err, &rerr) || rerr.Value != n {
			t.Errorf("ToRoman(%d) error = %v, want NumeralRangeError", n, err)
		}
		if !errors.Is(err, ErrNumeralRange) {
			t.Errorf("ToRoman(%d) error does not match ErrNumeralRange", n)
		}
	}
}

func TestFromRomanInvalid(t *testing.T) {
	for _, s := range []string{"", "IIII", "VV", "IC", "MMMM", "XM", "ABC", "IXI"} {
		if _, err := FromRoman(s); !errors.Is(err, ErrInvalidRomanForm) {
			t.Errorf("FromRoman(%q) error = %v, want ErrInvalidRomanForm", s, err)
		}
	}
}

func TestSchemeFormat(t *testing.T) {
	got, err := SchemeRoman.Format(4)
	if err != nil || got != "iv" {
		t.Errorf("roman 4 = %q, %v", got, err)
	}
	got, err = SchemeArabic.Format(12)
	if err != nil || got != "12" {
		t.Errorf("arabic 12 = %q, %v", got, err)
	}
	if _, err := SchemeRoman.Format(0); !errors.Is(err, ErrNumeralRange) {
		t.Errorf("roman 0 error = %v", err)
	}
}

func TestBadgeOffset(t *testing.T) {
	tests := []struct {
		scheme Scheme
		label  string
		want   float64
	}{
		{SchemeArabic, "1", 0.25},
		{SchemeArabic, "12", 0.5},
		{SchemeArabic, "123", 0.75},
		{SchemeArabic, "1234", 1.0},
		{SchemeArabic, "12345", 2.0},
		{SchemeArabic, "123456", 2.0},
		{SchemeRoman, "i", 0.15},
		{SchemeRoman, "ii", 0.30},
		{SchemeRoman, "iii", 0.45},
		{SchemeRoman, "viii", 0.45},
	}
	for _, tt := range tests {
		if got := BadgeOffset(tt.scheme, tt.label); got != tt.want {
			t.Errorf("BadgeOffset(%v, %q) = %v, want %v", tt.scheme, tt.label, got, tt.want)
		}
	}
}

func TestNewBadge(t *testing.T) {
	b := NewBadge(SchemeArabic, "42", 100, 800, BadgeFontSize)
	want := Badge{CX: 100 + 0.5*11, CY: 800 - 0.35*11, R: 16.5}
	if b != want {
		t.Errorf("NewBadge = %+v, want %+v", b, want)
	}
}
