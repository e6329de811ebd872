package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/pmaxreport/internal/analysis"
	cfgpkg "github.com/KaramelBytes/pmaxreport/internal/config"
	"github.com/KaramelBytes/pmaxreport/internal/render"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set pmaxreport configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgErr != nil {
			return fmt.Errorf("load config: %w", cfgErr)
		}
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "ratios:")
		for _, r := range cfg.Ratios {
			fmt.Fprintf(out, "  - %s/%s", r.Num, r.Den)
			if r.Label != "" {
				fmt.Fprintf(out, " label=%q", r.Label)
			}
			if r.Title != "" {
				fmt.Fprintf(out, " title=%q", r.Title)
			}
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "group_by: %s\n", cfg.GroupBy)
		fmt.Fprintf(out, "show_outliers: %t\n", cfg.ShowOutliers)
		fmt.Fprintf(out, "plot_format: %s\n", cfg.PlotFormat)
		fmt.Fprintf(out, "table_format: %s\n", cfg.TableFormat)
		fmt.Fprintf(out, "output_dir: %s\n", cfg.OutputDir)
		fmt.Fprintf(out, "header_marker: %s\n", cfg.HeaderMarker)
		fmt.Fprintf(out, "mismatch_threshold: %g\n", cfg.MismatchThreshold)
		fmt.Fprintf(out, "plot_size_in: %gx%g\n", cfg.PlotWidthIn, cfg.PlotHeightIn)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// reload so flag overrides of this invocation are not persisted
		cfg, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "ratios":
			// semicolon-separated so labels may contain commas
			var rs []cfgpkg.Ratio
			for _, part := range strings.Split(val, ";") {
				if strings.TrimSpace(part) == "" {
					continue
				}
				spec, err := analysis.ParseRatio(part)
				if err != nil {
					return err
				}
				rs = append(rs, cfgpkg.Ratio{Num: spec.Num.String(), Den: spec.Den.String(), Label: spec.Label})
			}
			if len(rs) == 0 {
				return fmt.Errorf("ratios: no ratio given (use e.g. \"x/y=m max/LP;z/y\")")
			}
			cfg.Ratios = rs
		case "group_by":
			g, err := analysis.ParseGroupBy(val)
			if err != nil {
				return err
			}
			cfg.GroupBy = string(g)
		case "show_outliers":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for show_outliers: %w", err)
			}
			cfg.ShowOutliers = b
		case "plot_format":
			if _, err := render.PlotExt(val); err != nil {
				return err
			}
			cfg.PlotFormat = val
		case "table_format":
			tf, err := render.ParseTableFormat(val)
			if err != nil {
				return err
			}
			cfg.TableFormat = string(tf)
		case "output_dir":
			cfg.OutputDir = val
		case "header_marker":
			if len(val) != 1 {
				return fmt.Errorf("invalid header_marker %q (want a single character)", val)
			}
			cfg.HeaderMarker = val
		case "mismatch_threshold", "plot_width_in", "plot_height_in":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid float for %s: %v", key, val)
			}
			switch key {
			case "mismatch_threshold":
				cfg.MismatchThreshold = f
			case "plot_width_in":
				cfg.PlotWidthIn = f
			default:
				cfg.PlotHeightIn = f
			}
		case "log_level":
			cfg.LogLevel = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
