package models

// Now labels the most recent point of every series.
const Now = "Now"

type Point struct {
	Time  string  `json:"time"`
	Price float64 `json:"price"`
}

// Series is ordered oldest first; the last point carries the Now label.
type Series []Point

func (s Series) Prices() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Price
	}
	return out
}

func (s Series) Labels() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Time
	}
	return out
}

func (s Series) Last() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}

// Change returns the move from the first point to the last, absolute and in percent.
func (s Series) Change() (float64, float64) {
	if len(s) < 2 || s[0].Price == 0 {
		return 0, 0
	}
	first, last := s[0].Price, s[len(s)-1].Price
	diff := last - first
	return diff, diff / first * 100
}

// Bounds returns the lowest and highest price in the series.
func (s Series) Bounds() (float64, float64) {
	if len(s) == 0 {
		return 0, 0
	}
	lo, hi := s[0].Price, s[0].Price
	for _, p := range s[1:] {
		if p.Price < lo {
			lo = p.Price
		}
		if p.Price > hi {
			hi = p.Price
		}
	}
	return lo, hi
}
