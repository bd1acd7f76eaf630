package client

import (
	"fmt"
	"math/rand"
	"strconv"

	"price-chart/series"
)

// NewSessionSeed returns a random seed to be reused for a whole session.
func NewSessionSeed() string {
	return strconv.FormatFloat(rand.Float64(), 'f', -1, 64)
}

// ComparisonSeed adds one to a numeric seed string.
func ComparisonSeed(seed string) (string, error) {
	v, ok := series.ParseNumber(seed)
	if !ok {
		return "", fmt.Errorf("seed %q is not a number", seed)
	}
	return strconv.FormatFloat(series.ComparisonSeed(v), 'f', -1, 64), nil
}
