package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/pmaxreport/internal/analysis"
	"github.com/KaramelBytes/pmaxreport/internal/utils"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	// canvas backends for the supported formats
	_ "gonum.org/v1/plot/vg/vgeps"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"
	_ "gonum.org/v1/plot/vg/vgtex"
)

// PlotOptions controls figure rendering.
type PlotOptions struct {
	// Format is a file extension (png, svg, pdf, eps, tex) or one of the
	// aliases "image" (png) and "markup" (tex).
	Format       string
	ShowOutliers bool
	Width        vg.Length
	Height       vg.Length
	BoxWidth     vg.Length
	YLabel       string
	Log          logrus.FieldLogger
}

// DefaultPlotOptions renders 6.4x4.8in PNG figures with outliers hidden.
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{
		Format:   "png",
		Width:    6.4 * vg.Inch,
		Height:   4.8 * vg.Inch,
		BoxWidth: vg.Points(20),
		YLabel:   "ratio",
	}
}

// PlotExt resolves a format name to the file extension understood by gonum/plot.
func PlotExt(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), ".")); f {
	case "", "image", "png":
		return "png", nil
	case "markup", "tex", "tikz":
		return "tex", nil
	case "svg", "pdf", "eps":
		return f, nil
	default:
		return "", fmt.Errorf("unsupported plot format %q (use image|markup|png|svg|pdf|eps|tex)", format)
	}
}

// FigureFileName returns boxplot_<slug>_<key>.<ext>.
func FigureFileName(f analysis.Figure, ext string) string {
	return fmt.Sprintf("boxplot_%s_%s.%s", utils.SafeFileName(f.Ratio.Slug), utils.SafeFileName(f.Key), ext)
}

// SaveFigures renders every figure into dir and returns the written paths.
func SaveFigures(dir string, figs []analysis.Figure, opt PlotOptions) ([]string, error) {
	ext, err := PlotExt(opt.Format)
	if err != nil {
		return nil, err
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("mkdir output dir: %w", err)
	}
	paths := make([]string, 0, len(figs))
	for _, f := range figs {
		b, err := RenderFigure(f, ext, opt)
		if err != nil {
			return paths, fmt.Errorf("render %s: %w", f.Title, err)
		}
		p := filepath.Join(dir, FigureFileName(f, ext))
		if err := utils.SafeWriteFile(p, b); err != nil {
			return paths, fmt.Errorf("save %s: %w", p, err)
		}
		logger(opt).WithField("file", p).Debug("wrote figure")
		paths = append(paths, p)
	}
	return paths, nil
}

// RenderFigure draws one box per label and encodes the plot as ext.
func RenderFigure(f analysis.Figure, ext string, opt PlotOptions) ([]byte, error) {
	def := DefaultPlotOptions()
	if opt.Width <= 0 {
		opt.Width = def.Width
	}
	if opt.Height <= 0 {
		opt.Height = def.Height
	}
	p, _, err := buildPlot(f, opt)
	if err != nil {
		return nil, err
	}
	wt, err := p.WriterTo(opt.Width, opt.Height, ext)
	if err != nil {
		return nil, fmt.Errorf("create %s canvas: %w", ext, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode %s: %w", ext, err)
	}
	return buf.Bytes(), nil
}

// buildPlot lays out the boxes of f. Non-finite values are left out of each
// box since the plotter rejects them; a label with no finite values keeps its
// slot on the axis without a box.
func buildPlot(f analysis.Figure, opt PlotOptions) (*plot.Plot, []*plotter.BoxPlot, error) {
	if opt.BoxWidth <= 0 {
		opt.BoxWidth = DefaultPlotOptions().BoxWidth
	}
	log := logger(opt)

	p := plot.New()
	p.Title.Text = f.Title
	p.Y.Label.Text = opt.YLabel

	var boxes []*plotter.BoxPlot
	for i, vals := range f.Values {
		finite := finiteValues(vals)
		if dropped := len(vals) - len(finite); dropped > 0 {
			log.WithFields(logrus.Fields{"figure": f.Title, "label": f.Labels[i], "dropped": dropped}).
				Debug("non-finite ratios left out of box plot")
		}
		if len(finite) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(opt.BoxWidth, float64(i), finite)
		if err != nil {
			return nil, nil, fmt.Errorf("box %q: %w", f.Labels[i], err)
		}
		if !opt.ShowOutliers {
			b.GlyphStyle.Color = color.Transparent
		}
		p.Add(b)
		boxes = append(boxes, b)
	}
	if len(f.Labels) > 0 {
		p.NominalX(f.Labels...)
	}
	if !opt.ShowOutliers {
		clampToWhiskers(&p.Y, boxes)
	}
	return p, boxes, nil
}

// clampToWhiskers limits the axis to the adjacent values of the boxes so
// hidden outliers do not stretch it.
func clampToWhiskers(ax *plot.Axis, boxes []*plotter.BoxPlot) {
	if len(boxes) == 0 {
		return
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, b := range boxes {
		lo = math.Min(lo, b.AdjLow)
		hi = math.Max(hi, b.AdjHigh)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.05, 0.01)
	}
	ax.Min, ax.Max = lo-pad, hi+pad
}

func finiteValues(vals []float64) plotter.Values {
	out := make(plotter.Values, 0, len(vals))
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func logger(opt PlotOptions) logrus.FieldLogger {
	if opt.Log != nil {
		return opt.Log
	}
	return logrus.StandardLogger()
}
