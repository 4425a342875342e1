package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRange is returned when a range is constructed with max < min.
var ErrInvalidRange = errors.New("invalid range")

// IntRange is an inclusive integer range [Min, Max].
//
// Use NewIntRange to build one; the zero value is the valid range [0, 0].
type IntRange struct {
	Min int
	Max int
}

// NewIntRange validates and returns the range [min, max].
func NewIntRange(min, max int) (IntRange, error) {
	if max < min {
		return IntRange{}, fmt.Errorf("%w: max %d < min %d", ErrInvalidRange, max, min)
	}
	return IntRange{Min: min, Max: max}, nil
}

// Fixed returns the single-value range [n, n].
func Fixed(n int) IntRange {
	return IntRange{Min: n, Max: n}
}

// Sample draws an integer uniformly from [Min, Max] inclusive.
func (r IntRange) Sample(s *Stream) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + s.IntN(r.Max-r.Min+1)
}

// IsFixed reports whether the range holds a single value.
func (r IntRange) IsFixed() bool {
	return r.Min == r.Max
}

// String returns "n" for fixed ranges and "min-max" otherwise.
func (r IntRange) String() string {
	if r.IsFixed() {
		return strconv.Itoa(r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// ParseIntRange parses "3" or "2-5" into a validated range.
func ParseIntRange(s string) (IntRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return IntRange{}, fmt.Errorf("%w: empty value", ErrInvalidRange)
	}

	minStr, maxStr, isRange := strings.Cut(s, "-")
	if !isRange {
		n, err := strconv.Atoi(s)
		if err != nil {
			return IntRange{}, fmt.Errorf("%w: %q is not a number", ErrInvalidRange, s)
		}
		return Fixed(n), nil
	}

	min, err := strconv.Atoi(strings.TrimSpace(minStr))
	if err != nil {
		return IntRange{}, fmt.Errorf("%w: invalid minimum in %q", ErrInvalidRange, s)
	}
	max, err := strconv.Atoi(strings.TrimSpace(maxStr))
	if err != nil {
		return IntRange{}, fmt.Errorf("%w: invalid maximum in %q", ErrInvalidRange, s)
	}
	return NewIntRange(min, max)
}
