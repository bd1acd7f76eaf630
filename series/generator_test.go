package series

import (
	"math"
	"testing"
	"time"

	"price-chart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 2, 15, 4, 5, 0, time.UTC)

func TestGenerate_Length(t *testing.T) {
	for _, days := range []int{1, 2, 3, 7, 30, 365, 1825} {
		got := Generate(days, 0.42, fixedNow, nil)
		assert.Len(t, got, days, "days=%d", days)
	}
}

func TestGenerate_NonPositiveDays(t *testing.T) {
	assert.Empty(t, Generate(0, 1, fixedNow, nil))
	assert.Empty(t, Generate(-5, 1, fixedNow, nil))
}

func TestGenerate_LastPointIsNow(t *testing.T) {
	for _, days := range []int{1, 5, 30} {
		got := Generate(days, 3.3, fixedNow, nil)
		last, ok := got.Last()
		require.True(t, ok)
		assert.Equal(t, models.Now, last.Time)
	}
}

func TestGenerate_LabelsAscendingDistinctDates(t *testing.T) {
	f := LayoutFormatter(time.DateOnly)
	got := Generate(40, 1.7, fixedNow, f)

	seen := map[string]bool{}
	var prev time.Time
	for i, p := range got[:len(got)-1] {
		d, err := time.Parse(time.DateOnly, p.Time)
		require.NoError(t, err)
		assert.False(t, seen[p.Time], "duplicate label %s", p.Time)
		seen[p.Time] = true
		if i > 0 {
			assert.True(t, d.After(prev), "%s not after %s", d, prev)
		}
		prev = d
	}
	assert.Equal(t, "2024-03-01", got[len(got)-2].Time)
	assert.Equal(t, "2024-01-23", got[0].Time)
}

func TestGenerate_DefaultFormatterCrossesMonth(t *testing.T) {
	got := Generate(3, 2, fixedNow, nil)
	assert.Equal(t, []string{"2/29/2024", "3/1/2024", models.Now}, got.Labels())
}

func TestGenerate_PricesFollowFormula(t *testing.T) {
	got := Generate(3, 2, fixedNow, nil)
	want := []float64{
		math.Floor(60000 + (math.Sin(0)+1)*2500),
		math.Floor(60000 + (math.Sin(2)+1)*2500),
		math.Floor(60000 + (math.Sin(4)+1)*2500),
	}
	assert.Equal(t, want, got.Prices())
	assert.Equal(t, float64(62500), got[0].Price)
	assert.Equal(t, float64(64773), got[1].Price)
	assert.Equal(t, float64(60607), got[2].Price)
}

func TestGenerate_PriceBoundsAndIntegers(t *testing.T) {
	for _, seed := range []float64{0.001, 0.5, 1, 2, 3.14159, 17.25, -4, 1e6} {
		for _, p := range Generate(500, seed, fixedNow, nil) {
			assert.GreaterOrEqual(t, p.Price, float64(MinPrice))
			assert.LessOrEqual(t, p.Price, float64(MaxPrice))
			assert.Equal(t, math.Trunc(p.Price), p.Price)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(90, 0.731, fixedNow, nil)
	b := Generate(90, 0.731, fixedNow.Add(3*time.Hour), nil)
	assert.Equal(t, a, b)
}

func TestGenerator_UsesClockAndFormatter(t *testing.T) {
	g := NewGenerator(
		WithClock(func() time.Time { return fixedNow }),
		WithFormatter(LayoutFormatter(time.DateOnly)),
	)
	got := g.Generate(2, 1)
	assert.Equal(t, []string{"2024-03-01", models.Now}, got.Labels())
	assert.Equal(t, "2024-03-02", g.Today())
}

func TestGenerator_Compare(t *testing.T) {
	g := NewGenerator(WithClock(func() time.Time { return fixedNow }))
	primary, comparison := g.Compare(10, 0.5)

	assert.Equal(t, Generate(10, 0.5, fixedNow, nil), primary)
	assert.Equal(t, Generate(10, 1.5, fixedNow, nil), comparison)
	assert.Equal(t, primary.Labels(), comparison.Labels())
}

func TestComparisonSeed(t *testing.T) {
	assert.Equal(t, 1.25, ComparisonSeed(0.25))
}
