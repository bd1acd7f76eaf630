package series

import (
	"math"
	"time"

	"price-chart/models"
)

const (
	basePrice = 60000
	amplitude = 2500
)

// MinPrice and MaxPrice bound every generated price.
const (
	MinPrice = basePrice
	MaxPrice = basePrice + 2*amplitude
)

// Generate builds a series of days points ending at now. Point i is dated
// days-i-1 calendar days before now and priced at
// floor(60000 + (sin(i*seed)+1)*2500); the last point is labelled Now.
// days below 1 yields an empty series.
func Generate(days int, seed float64, now time.Time, f DateFormatter) models.Series {
	if days < 1 {
		return models.Series{}
	}
	if f == nil {
		f = DefaultFormatter
	}

	out := make(models.Series, days)
	for i := 0; i < days; i++ {
		label := models.Now
		if i != days-1 {
			label = f.Format(now.AddDate(0, 0, -(days - i - 1)))
		}
		out[i] = models.Point{
			Time:  label,
			Price: Price(i, seed),
		}
	}
	return out
}

func Price(i int, seed float64) float64 {
	return math.Floor(basePrice + (math.Sin(float64(i)*seed)+1)*amplitude)
}

// ComparisonSeed derives the seed of the overlay series drawn by Compare.
func ComparisonSeed(seed float64) float64 {
	return seed + 1
}

type Generator struct {
	now       func() time.Time
	formatter DateFormatter
}

type Option func(*Generator)

func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func WithFormatter(f DateFormatter) Option {
	return func(g *Generator) {
		g.formatter = f
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		now:       time.Now,
		formatter: DefaultFormatter,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Generate(days int, seed float64) models.Series {
	return Generate(days, seed, g.now(), g.formatter)
}

// Compare returns the series for seed and its comparison overlay, generated
// against the same clock reading so both share labels.
func (g *Generator) Compare(days int, seed float64) (models.Series, models.Series) {
	now := g.now()
	return Generate(days, seed, now, g.formatter), Generate(days, ComparisonSeed(seed), now, g.formatter)
}

// Today returns the generator's current calendar date as YYYY-MM-DD.
func (g *Generator) Today() string {
	return g.now().Format(time.DateOnly)
}
