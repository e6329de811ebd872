package analysis

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/KaramelBytes/pmaxreport/internal/results"
)

// Figure is the data for one box plot: a distribution of per-trial ratios
// for every record sharing the same grouping key.
type Figure struct {
	Key    string
	Ratio  RatioSpec
	Title  string
	Labels []string
	Values [][]float64 // parallel to Labels
}

// Figures builds one Figure per ratio and grouping key. With GroupByParam
// boxes are labelled by record name; with GroupByName they are labelled by p.
// Labels keep input order within a figure.
func Figures(recs []results.Record, opt Options) []Figure {
	opt = opt.Normalize()
	type bucket struct {
		labels []string
		recs   []results.Record
	}
	buckets := map[string]*bucket{}
	var keys []string
	for _, r := range recs {
		key, label := r.P, r.Name
		if opt.GroupBy == GroupByName {
			key, label = r.Name, r.P
		}
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
			keys = append(keys, key)
		}
		b.labels = append(b.labels, label)
		b.recs = append(b.recs, r)
	}
	SortKeys(keys)

	var figs []Figure
	for _, key := range keys {
		b := buckets[key]
		for _, spec := range opt.Ratios {
			f := Figure{
				Key:    key,
				Ratio:  spec,
				Title:  figureTitle(spec, opt.GroupBy, key),
				Labels: append([]string(nil), b.labels...),
				Values: make([][]float64, len(b.recs)),
			}
			for i, r := range b.recs {
				f.Values[i] = Ratio(r, spec)
			}
			figs = append(figs, f)
		}
	}
	return figs
}

func figureTitle(spec RatioSpec, g GroupBy, key string) string {
	if g == GroupByName {
		return fmt.Sprintf("%s, %s", spec.Title, key)
	}
	return fmt.Sprintf("%s, p = %s", spec.Title, key)
}

// SortKeys orders grouping keys numerically when all of them are numbers and
// lexicographically otherwise.
func SortKeys(keys []string) {
	nums := make(map[string]float64, len(keys))
	for _, k := range keys {
		v, err := strconv.ParseFloat(k, 64)
		if err != nil {
			sort.Strings(keys)
			return
		}
		nums[k] = v
	}
	sort.SliceStable(keys, func(i, j int) bool { return nums[keys[i]] < nums[keys[j]] })
}
