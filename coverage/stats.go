package coverage

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	Rows   int
	Median float64
	Mean   float64
	Min    float64
	Max    float64
}

func Summarize(d *DepthTable) (Summary, error) {
	if d.Len() == 0 {
		return Summary{}, ErrEmptyDepth
	}
	depths := d.Depths()
	sorted := make([]float64, len(depths))
	copy(sorted, depths)
	sort.Float64s(sorted)

	return Summary{
		Rows:   len(depths),
		Median: median(sorted),
		Mean:   stat.Mean(depths, nil),
		Min:    floats.Min(depths),
		Max:    floats.Max(depths),
	}, nil
}

// median expects sorted input; even lengths average the two middle values.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Report writes the summary in the two-line-per-value layout downstream scripts grep for.
func (s Summary) Report(w io.Writer) error {
	_, err := fmt.Fprintf(w, "median depth of coverage\n%s\nmean depth of coverage\n%s\n",
		formatDepth(s.Median),
		formatDepth(s.Mean))
	return err
}

// formatDepth prints whole values with one decimal ("12.0"), as the depth reports
// of the coverage workflow always have.
func formatDepth(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
