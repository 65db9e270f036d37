package bytesize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrEmptySize    = errors.New("size string is empty")
	ErrInvalidSize  = errors.New("invalid size string")
	ErrUnknownUnit  = errors.New("unknown size unit")
	ErrNegativeSize = errors.New("size cannot be negative")
)

// unitMultipliers maps unit suffixes to their binary multipliers.
// Both single-letter and two-letter forms are accepted, case-insensitively.
var unitMultipliers = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
	"T":  1 << 40,
	"TB": 1 << 40,
}

// formatUnits in ascending order of magnitude, used by Format to pick the
// largest unit that keeps the value below 1024.
var formatUnits = []string{"B", "K", "M", "G", "T"}

// Parse converts a human-readable size string to a byte count.
// Accepts an integer or decimal magnitude followed by an optional unit
// suffix (K/KB, M/MB, G/GB, T/TB, or B), case-insensitive. Units are
// binary: "1K" is 1024 bytes, "1M" is 1048576.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptySize
	}

	// Split magnitude from unit suffix
	i := len(s)
	for i > 0 {
		c := s[i-1]
		if (c >= '0' && c <= '9') || c == '.' {
			break
		}
		i--
	}

	magnitude := strings.TrimSpace(s[:i])
	unit := strings.ToUpper(strings.TrimSpace(s[i:]))

	if magnitude == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	multiplier, ok := unitMultipliers[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}

	value, err := strconv.ParseFloat(magnitude, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	if value < 0 {
		return 0, fmt.Errorf("%w: %q", ErrNegativeSize, s)
	}

	return int64(math.Round(value * float64(multiplier))), nil
}

// MustParse is like Parse but panics on error. Intended for hard-coded
// defaults that are validated at startup.
func MustParse(s string) int64 {
	n, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("bytesize: failed to parse %q: %v", s, err))
	}
	return n
}

// Format converts a byte count to a human-readable string, choosing the
// largest unit for which the value stays below 1024 and rounding to the
// nearest integer. Format(5 * 1024 * 1024) returns "5M".
func Format(n int64) string {
	if n < 0 {
		return "0B"
	}

	value := float64(n)
	unit := formatUnits[0]
	for _, u := range formatUnits[1:] {
		if value < 1024 {
			break
		}
		value /= 1024
		unit = u
	}

	return strconv.FormatInt(int64(math.Round(value)), 10) + unit
}
