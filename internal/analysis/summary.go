package analysis

import (
	"math"

	"github.com/KaramelBytes/pmaxreport/internal/results"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Row is the per-record summary printed in the report table.
type Row struct {
	Name       string
	P          string
	Ratios     []float64 // one mean per Options.Ratios entry
	Mismatches int
	Total      int
}

// Ratio returns the per-trial ratios Num[i]/Den[i]. Zero denominators give
// ±Inf or NaN.
func Ratio(r results.Record, spec RatioSpec) []float64 {
	num, den := spec.Num.Values(r), spec.Den.Values(r)
	if len(num) == 0 {
		return []float64{}
	}
	return floats.DivTo(make([]float64, len(num)), num, den)
}

// Mean is the arithmetic mean. The mean of an empty vector is NaN.
func Mean(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return stat.Mean(v, nil)
}

// Mismatches counts trials where |a[i]-b[i]| > threshold.
func Mismatches(a, b []float64, threshold float64) int {
	n := 0
	for i := range a {
		if math.Abs(a[i]-b[i]) > threshold {
			n++
		}
	}
	return n
}

// Summarize computes one Row per record, in input order.
func Summarize(recs []results.Record, opt Options) []Row {
	opt = opt.Normalize()
	rows := make([]Row, 0, len(recs))
	for _, r := range recs {
		row := Row{
			Name:       r.Name,
			P:          r.P,
			Ratios:     make([]float64, len(opt.Ratios)),
			Mismatches: Mismatches(opt.MismatchA.Values(r), opt.MismatchB.Values(r), opt.MismatchThreshold),
			Total:      r.Len(),
		}
		for i, spec := range opt.Ratios {
			row.Ratios[i] = Mean(Ratio(r, spec))
		}
		rows = append(rows, row)
	}
	return rows
}
