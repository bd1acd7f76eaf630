package chart

import (
	"errors"

	"price-chart/models"

	"github.com/vicanso/go-charts/v2"
)

// pricePadding widens the y axis below the lowest and above the highest price.
const pricePadding = 1000

var ErrNoData = errors.New("no data")

type Options struct {
	Title  string
	Width  int
	Height int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 400
	}
	return o
}

// Render draws primary, and comparison when non-empty, as a PNG line chart.
// Both series share the primary's labels.
func Render(primary, comparison models.Series, opts Options) ([]byte, error) {
	if len(primary) == 0 {
		return nil, ErrNoData
	}
	opts = opts.withDefaults()

	values := [][]float64{primary.Prices()}
	names := []string{"Price"}
	yMin, yMax := primary.Bounds()
	if len(comparison) > 0 {
		values = append(values, alignTo(comparison.Prices(), len(primary)))
		names = append(names, "Comparison")
		lo, hi := comparison.Bounds()
		if lo < yMin {
			yMin = lo
		}
		if hi > yMax {
			yMax = hi
		}
	}
	yMin -= pricePadding
	yMax += pricePadding

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}

	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(opts.Title),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: primary.Labels(), BoundaryGap: charts.FalseFlag(), SplitNumber: splitNumber(len(primary))}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(opts.Width),
		charts.HeightOptionFunc(opts.Height),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}

func splitNumber(n int) int {
	if n > 7 {
		return 7
	}
	if n < 1 {
		return 1
	}
	return n
}

// alignTo pads or trims values to n entries, repeating the last value.
func alignTo(values []float64, n int) []float64 {
	if len(values) == n {
		return values
	}
	out := make([]float64, n)
	for i := range out {
		switch {
		case i < len(values):
			out[i] = values[i]
		case len(values) > 0:
			out[i] = values[len(values)-1]
		}
	}
	return out
}
