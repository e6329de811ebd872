package render

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/pmaxreport/internal/analysis"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableFormat selects how the summary table is written.
type TableFormat string

const (
	TableLaTeX TableFormat = "latex"
	TableText  TableFormat = "text"
)

// ParseTableFormat accepts latex|tex or text|plain.
func ParseTableFormat(s string) (TableFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "latex", "tex":
		return TableLaTeX, nil
	case "text", "plain":
		return TableText, nil
	}
	return "", fmt.Errorf("unsupported table format %q (use latex|text)", s)
}

const (
	hline       = "\t\\hline"
	rowEnd      = "\\\\"
	mismatchCol = "failures/total"
)

// LaTeXTable returns the table as lines: a rule, the header, a rule, then one
// row per record sorted by row text.
func LaTeXTable(rows []analysis.Row, ratios []analysis.RatioSpec) []string {
	body := make([]string, 0, len(rows))
	for _, r := range rows {
		cells := []string{r.Name, r.P}
		for _, v := range r.Ratios {
			cells = append(cells, FormatRatio(v))
		}
		cells = append(cells, fmt.Sprintf("%d/%d", r.Mismatches, r.Total))
		body = append(body, "\t"+strings.Join(cells, " & ")+rowEnd)
	}
	sort.Strings(body)

	out := make([]string, 0, len(body)+3)
	out = append(out, hline, "\t"+strings.Join(headerCells(ratios), " & ")+rowEnd, hline)
	return append(out, body...)
}

// WriteTable writes rows to w in the given format.
func WriteTable(w io.Writer, rows []analysis.Row, ratios []analysis.RatioSpec, format TableFormat) error {
	if format == TableText {
		return writeText(w, rows, ratios)
	}
	for _, line := range LaTeXTable(rows, ratios) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write table: %w", err)
		}
	}
	return nil
}

func writeText(w io.Writer, rows []analysis.Row, ratios []analysis.RatioSpec) error {
	sorted := append([]analysis.Row(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].P < sorted[j].P
	})
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	var header table.Row
	for _, h := range headerCells(ratios) {
		header = append(header, h)
	}
	t.AppendHeader(header)
	for _, r := range sorted {
		row := table.Row{r.Name, r.P}
		for _, v := range r.Ratios {
			row = append(row, FormatRatio(v))
		}
		row = append(row, fmt.Sprintf("%d/%d", r.Mismatches, r.Total))
		t.AppendRow(row)
	}
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

func headerCells(ratios []analysis.RatioSpec) []string {
	cells := []string{"Folder", "p"}
	for _, r := range ratios {
		cells = append(cells, r.Label)
	}
	return append(cells, mismatchCol)
}

// FormatRatio prints v with three decimals; non-finite values print as
// nan, inf and -inf.
func FormatRatio(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return fmt.Sprintf("%.3f", v)
}
