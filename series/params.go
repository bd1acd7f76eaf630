package series

import (
	"math"
	"math/rand"
	"strconv"
	"strings"

	"price-chart/config"
)

// DefaultDays is used when a request carries no usable day count.
const DefaultDays = 7

// Resolver turns raw, user-supplied day counts and seeds into generator inputs.
// It never fails: anything unusable falls back to a default.
type Resolver struct {
	DefaultDays int
	// MaxDays caps the day count; zero means no cap.
	MaxDays int
	// Random supplies seeds in [0,1) when none is given.
	Random func() float64
}

func NewResolver(defaultDays, maxDays int) *Resolver {
	if defaultDays < 1 {
		defaultDays = DefaultDays
	}
	return &Resolver{
		DefaultDays: defaultDays,
		MaxDays:     maxDays,
		Random:      rand.Float64,
	}
}

// Days parses raw as a number and truncates it toward zero. Missing,
// unparsable, non-finite or sub-1 values give DefaultDays.
func (r *Resolver) Days(raw string) int {
	v, ok := ParseNumber(raw)
	if !ok {
		return r.DefaultDays
	}
	n := math.Trunc(v)
	if n < 1 {
		return r.DefaultDays
	}
	if r.MaxDays > 0 && n > float64(r.MaxDays) {
		return r.MaxDays
	}
	return int(n)
}

// PeriodDays resolves a named period like "1w", falling back to Days(raw)
// when period is empty or unknown.
func (r *Resolver) PeriodDays(period, raw string) int {
	if strings.TrimSpace(raw) == "" && period != "" {
		if days, err := config.ParsePeriod(period); err == nil {
			return r.Days(strconv.Itoa(days))
		}
	}
	return r.Days(raw)
}

// Seed parses raw as a number. Missing, unparsable, non-finite or zero seeds are
// replaced by a fresh random value.
func (r *Resolver) Seed(raw string) float64 {
	v, ok := ParseNumber(raw)
	if !ok || v == 0 {
		return r.random()
	}
	return v
}

func (r *Resolver) random() float64 {
	if r.Random == nil {
		return rand.Float64()
	}
	return r.Random()
}

// ParseNumber accepts decimal and exponent notation plus 0x/0o/0b integers,
// ignoring surrounding whitespace. Non-finite results are rejected.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if !hasIntPrefix(s) {
			return 0, false
		}
		n, err := strconv.ParseUint(s[2:], intBase(s[1]), 64)
		if err != nil {
			return 0, false
		}
		v = float64(n)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func hasIntPrefix(s string) bool {
	if len(s) < 3 || s[0] != '0' || strings.Contains(s, "_") {
		return false
	}
	return intBase(s[1]) != 0
}

func intBase(c byte) int {
	switch c {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	case 'b', 'B':
		return 2
	}
	return 0
}
