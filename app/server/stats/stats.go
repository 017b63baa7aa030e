// Package stats reduces measurement series into report figures.
package stats

import (
	"errors"
	"math"
	"strconv"
)

var ErrEmptyInput = errors.New("stats: empty input")

type Summary struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Summarize returns the mean, minimum and maximum of values, each rounded
// with Round2.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrEmptyInput
	}

	sum, lo, hi := 0.0, values[0], values[0]
	for _, v := range values {
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	return Summary{
		Avg: Round2(sum / float64(len(values))),
		Min: Round2(lo),
		Max: Round2(hi),
	}, nil
}

// Round2 rounds the exact binary value of v to two decimal places.
// Only true ties round half to even, so 2.675 gives 2.67.
func Round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}
