package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/pmaxreport/internal/results"
)

// Metric selects one of the three per-trial measurements of a record.
type Metric int

const (
	MetricX Metric = iota // maxcut
	MetricY               // p-maxcut (LP)
	MetricZ               // p-maxcut* (ILP)
)

// MetricNames are the display names used when a ratio has no explicit title.
var MetricNames = map[Metric]string{
	MetricX: "maxcut",
	MetricY: "p-maxcut",
	MetricZ: "p-maxcut*",
}

func (m Metric) String() string {
	switch m {
	case MetricX:
		return "x"
	case MetricY:
		return "y"
	case MetricZ:
		return "z"
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

// Values returns the record's sequence for m.
func (m Metric) Values(r results.Record) []float64 {
	switch m {
	case MetricY:
		return r.Y
	case MetricZ:
		return r.Z
	default:
		return r.X
	}
}

// ParseMetric accepts x, y or z (case-insensitive).
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return MetricX, nil
	case "y":
		return MetricY, nil
	case "z":
		return MetricZ, nil
	}
	return 0, fmt.Errorf("unknown metric %q (use x, y or z)", s)
}

// RatioSpec describes one ratio column of the report: mean(Num[i]/Den[i]).
type RatioSpec struct {
	Num   Metric
	Den   Metric
	Label string // table column header
	Title string // plot title prefix
	Slug  string // token used in figure file names
}

// ParseRatio parses "num/den" or "num/den=Label".
func ParseRatio(s string) (RatioSpec, error) {
	expr, label, _ := strings.Cut(s, "=")
	a, b, ok := strings.Cut(expr, "/")
	if !ok {
		return RatioSpec{}, fmt.Errorf("invalid ratio %q (want num/den)", s)
	}
	num, err := ParseMetric(a)
	if err != nil {
		return RatioSpec{}, fmt.Errorf("invalid ratio %q: %w", s, err)
	}
	den, err := ParseMetric(b)
	if err != nil {
		return RatioSpec{}, fmt.Errorf("invalid ratio %q: %w", s, err)
	}
	return RatioSpec{Num: num, Den: den, Label: strings.TrimSpace(label)}.withDefaults(), nil
}

func (r RatioSpec) withDefaults() RatioSpec {
	if r.Slug == "" {
		r.Slug = r.Num.String() + r.Den.String()
	}
	if r.Title == "" {
		r.Title = fmt.Sprintf("Ratio %s/%s", MetricNames[r.Num], MetricNames[r.Den])
	}
	if r.Label == "" {
		r.Label = fmt.Sprintf("m %s/%s", r.Num, r.Den)
	}
	return r
}

// GroupBy selects how figures are split.
type GroupBy string

const (
	GroupByParam GroupBy = "param"
	GroupByName  GroupBy = "name"
)

// ParseGroupBy accepts param|p or name|folder.
func ParseGroupBy(s string) (GroupBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "param", "p":
		return GroupByParam, nil
	case "name", "folder":
		return GroupByName, nil
	}
	return "", fmt.Errorf("unsupported group-by %q (use param|name)", s)
}

// Options controls aggregation.
type Options struct {
	Ratios []RatioSpec
	// Mismatch counts trials where |A[i]-B[i]| > MismatchThreshold.
	MismatchA         Metric
	MismatchB         Metric
	MismatchThreshold float64
	GroupBy           GroupBy
}

// DefaultOptions reproduces the report used for the p-maxcut experiments.
func DefaultOptions() Options {
	return Options{
		Ratios: []RatioSpec{
			RatioSpec{Num: MetricX, Den: MetricY, Label: "m ILP/max", Title: "Ratio maxcut/p-maxcut"}.withDefaults(),
			RatioSpec{Num: MetricZ, Den: MetricY, Label: "m lin/maxcut", Title: "Ratio p-maxcut*/p-maxcut"}.withDefaults(),
		},
		MismatchA:         MetricY,
		MismatchB:         MetricZ,
		MismatchThreshold: 1,
		GroupBy:           GroupByParam,
	}
}

// Normalize fills unset ratio fields and the group key.
func (o Options) Normalize() Options {
	out := o
	out.Ratios = make([]RatioSpec, len(o.Ratios))
	for i, r := range o.Ratios {
		out.Ratios[i] = r.withDefaults()
	}
	if out.GroupBy == "" {
		out.GroupBy = GroupByParam
	}
	return out
}
