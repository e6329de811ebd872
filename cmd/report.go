package cmd

import (
	"fmt"

	"github.com/KaramelBytes/pmaxreport/internal/analysis"
	cfgpkg "github.com/KaramelBytes/pmaxreport/internal/config"
	"github.com/KaramelBytes/pmaxreport/internal/render"
	"github.com/KaramelBytes/pmaxreport/internal/results"
	"github.com/KaramelBytes/pmaxreport/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

var tableCmd = &cobra.Command{
	Use:   "table <results-file>",
	Short: "Print only the summary table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, args[0], true, false)
	},
}

var plotsCmd = &cobra.Command{
	Use:   "plots <results-file>",
	Short: "Render only the box plots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, args[0], false, true)
	},
}

func init() {
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(plotsCmd)
}

// runReport is the whole pipeline: parse, print the table, save the plots.
func runReport(cmd *cobra.Command, path string, withTable, withPlots bool) error {
	if cfgErr != nil {
		return fmt.Errorf("load config: %w", cfgErr)
	}
	if cfg == nil {
		return fmt.Errorf("no config loaded")
	}
	opt, err := analysisOptions(cmd, cfg)
	if err != nil {
		return err
	}
	tf, err := render.ParseTableFormat(cfg.TableFormat)
	if err != nil {
		return err
	}
	popt := plotOptions(cfg)
	if _, err := render.PlotExt(popt.Format); err != nil {
		return err
	}
	if len(cfg.HeaderMarker) != 1 {
		return fmt.Errorf("invalid --marker %q (want a single character)", cfg.HeaderMarker)
	}

	recs, err := results.ParseFile(path, results.ParseOptions{HeaderMarker: cfg.HeaderMarker[0]})
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"file": path, "records": len(recs)}).Info("parsed results")
	if log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		if dump, err := utils.PrettyJSON(recs); err == nil {
			log.Debugf("records:\n%s", dump)
		} else {
			log.WithError(err).Debug("records not dumped")
		}
	}

	if withTable {
		rows := analysis.Summarize(recs, opt)
		if err := render.WriteTable(cmd.OutOrStdout(), rows, opt.Ratios, tf); err != nil {
			return err
		}
	}
	if withPlots {
		figs := analysis.Figures(recs, opt)
		paths, err := render.SaveFigures(cfg.OutputDir, figs, popt)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"dir": cfg.OutputDir, "figures": len(paths)}).Info("saved plots")
	}
	return nil
}

func analysisOptions(cmd *cobra.Command, c *cfgpkg.Global) (analysis.Options, error) {
	opt := analysis.DefaultOptions()
	g, err := analysis.ParseGroupBy(c.GroupBy)
	if err != nil {
		return opt, err
	}
	opt.GroupBy = g
	opt.MismatchThreshold = c.MismatchThreshold

	if cmd.Flags().Changed("ratio") {
		opt.Ratios = opt.Ratios[:0]
		for _, s := range flagRatios {
			r, err := analysis.ParseRatio(s)
			if err != nil {
				return opt, err
			}
			opt.Ratios = append(opt.Ratios, r)
		}
		return opt.Normalize(), nil
	}
	specs, err := ratioSpecs(c.Ratios)
	if err != nil {
		return opt, err
	}
	opt.Ratios = specs
	return opt.Normalize(), nil
}

func ratioSpecs(rs []cfgpkg.Ratio) ([]analysis.RatioSpec, error) {
	out := make([]analysis.RatioSpec, 0, len(rs))
	for i, r := range rs {
		num, err := analysis.ParseMetric(r.Num)
		if err != nil {
			return nil, fmt.Errorf("ratios[%d]: %w", i, err)
		}
		den, err := analysis.ParseMetric(r.Den)
		if err != nil {
			return nil, fmt.Errorf("ratios[%d]: %w", i, err)
		}
		out = append(out, analysis.RatioSpec{Num: num, Den: den, Label: r.Label, Title: r.Title, Slug: r.Slug})
	}
	return out, nil
}

func plotOptions(c *cfgpkg.Global) render.PlotOptions {
	popt := render.DefaultPlotOptions()
	popt.Format = c.PlotFormat
	popt.ShowOutliers = c.ShowOutliers
	if c.PlotWidthIn > 0 {
		popt.Width = vg.Length(c.PlotWidthIn) * vg.Inch
	}
	if c.PlotHeightIn > 0 {
		popt.Height = vg.Length(c.PlotHeightIn) * vg.Inch
	}
	popt.Log = log
	return popt
}
