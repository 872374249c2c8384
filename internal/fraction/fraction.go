// ABOUTME: Converts ingredient amounts to and from kitchen fractions
// ABOUTME: Searches denominators up to a fixed bound and falls back to decimals

package fraction

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// MaxDenominator bounds the search; 16ths are the finest common kitchen measure
	MaxDenominator = 16
	// Tolerance is the largest error accepted for a fraction
	Tolerance = 0.01
)

// ErrInvalid is returned when text is not a number or fraction
var ErrInvalid = errors.New("invalid amount")

// Format renders amount as "2", "3/4" or "1 1/2", picking the closest
// fraction with a denominator up to MaxDenominator. Amounts with no fraction
// within Tolerance are shown with at most two decimal places.
func Format(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return strconv.FormatFloat(amount, 'f', -1, 64)
	}
	if amount < 0 {
		return "-" + Format(-amount)
	}

	whole := math.Floor(amount)
	frac := amount - whole
	if frac < Tolerance {
		return strconv.FormatFloat(whole, 'f', 0, 64)
	}
	if 1-frac < Tolerance {
		return strconv.FormatFloat(whole+1, 'f', 0, 64)
	}

	bestN, bestD, bestErr := 0, 0, Tolerance
	for d := 2; d <= MaxDenominator && bestErr > 0; d++ {
		n := int(math.Round(frac * float64(d)))
		if n <= 0 || n >= d {
			continue
		}
		if err := math.Abs(frac - float64(n)/float64(d)); err < bestErr {
			bestN, bestD, bestErr = n, d, err
		}
	}
	if bestD != 0 {
		if whole == 0 {
			return fmt.Sprintf("%d/%d", bestN, bestD)
		}
		return fmt.Sprintf("%.0f %d/%d", whole, bestN, bestD)
	}

	s := strconv.FormatFloat(amount, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// Parse reads "2", "1.5", "3/4" or "1 1/2"
func Parse(text string) (float64, error) {
	fields := strings.Fields(text)
	switch len(fields) {
	case 1:
		if strings.Contains(fields[0], "/") {
			return parseFraction(fields[0])
		}
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %q", ErrInvalid, text)
		}
		return v, nil
	case 2:
		whole, err := strconv.Atoi(fields[0])
		if err != nil || whole < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalid, text)
		}
		frac, err := parseFraction(fields[1])
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalid, text)
		}
		return float64(whole) + frac, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalid, text)
	}
}

func parseFraction(s string) (float64, error) {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	d, err := strconv.Atoi(den)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return float64(n) / float64(d), nil
}
