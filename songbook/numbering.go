package songbook

import (
	"strconv"
	"strings"
)

// Scheme is the way a page number is written.
type Scheme int

const (
	SchemeArabic Scheme = iota
	SchemeRoman
)

func (s Scheme) String() string {
	if s == SchemeRoman {
		return "roman"
	}
	return "arabic"
}

// Format writes n in the scheme. Roman numerals are lowercase.
func (s Scheme) Format(n int) (string, error) {
	if s == SchemeRoman {
		r, err := ToRoman(n)
		if err != nil {
			return "", err
		}
		return strings.ToLower(r), nil
	}
	return strconv.Itoa(n), nil
}

var romanValues = []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
var romanDigits = []string{"M", "CM", "D", "CD", "C", "XC", "L", "XL", "X", "IX", "V", "IV", "I"}

// ToRoman converts n in [1, 3999] to an uppercase roman numeral.
func ToRoman(n int) (string, error) {
	if n <= 0 || n >= 4000 {
		return "", &NumeralRangeError{Value: n}
	}
	var b strings.Builder
	for i, v := range romanValues {
		for n >= v {
			b.WriteString(romanDigits[i])
			n -= v
		}
	}
	return b.String(), nil
}

// FromRoman parses a roman numeral in either case. Only the canonical
// subtractive form produced by ToRoman is accepted.
func FromRoman(s string) (int, error) {
	upper := strings.ToUpper(s)
	rest := upper
	n := 0
	for i, d := range romanDigits {
		// M may repeat three times, the other single letters three times,
		// the subtractive pairs and D, L, V once.
		limit := 1
		if len(d) == 1 && (d == "M" || d == "C" || d == "X" || d == "I") {
			limit = 3
		}
		for k := 0; k < limit && strings.HasPrefix(rest, d); k++ {
			n += romanValues[i]
			rest = rest[len(d):]
		}
	}
	if rest != "" || n == 0 {
		return 0, ErrInvalidRomanForm
	}
	if canonical, _ := ToRoman(n); canonical != upper {
		return 0, ErrInvalidRomanForm
	}
	return n, nil
}

// BadgeFontSize is the font size of page numbers.
const BadgeFontSize = 11.0

// Badge centre offsets, in multiples of the font size, indexed by the
// number of characters of the label. They were tuned by eye.
var (
	songBadgeOffsets = []float64{0.25, 0.5, 0.75, 1.0}
	songBadgeWide    = 2.0

	tocBadgeOffsets = []float64{0.15, 0.30}
	tocBadgeWide    = 0.45
)

// BadgeOffset returns the horizontal distance between the text origin of a
// page number and the centre of its badge, in multiples of the font size.
func BadgeOffset(scheme Scheme, label string) float64 {
	n := len(label)
	offsets, wide := songBadgeOffsets, songBadgeWide
	if scheme == SchemeRoman {
		offsets, wide = tocBadgeOffsets, tocBadgeWide
	}
	if n >= 1 && n <= len(offsets) {
		return offsets[n-1]
	}
	return wide
}

// Badge is the circle drawn behind a page number.
type Badge struct {
	CX, CY float64
	R      float64
}

// NewBadge places the badge of label, whose text origin (baseline start) is
// at x, y in top-left page coordinates.
func NewBadge(scheme Scheme, label string, x, y, fontSize float64) Badge {
	return Badge{
		CX: x + BadgeOffset(scheme, label)*fontSize,
		CY: y - 0.35*fontSize,
		R:  1.5 * fontSize,
	}
}
