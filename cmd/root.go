package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/pmaxreport/internal/config"
	"github.com/KaramelBytes/pmaxreport/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Report flags (override config if set)
	flagRatios       []string
	flagGroupBy      string
	flagShowOutliers bool
	flagPlotFormat   string
	flagTableFormat  string
	flagOutDir       string
	flagMarker       string
	flagThreshold    float64

	// Loaded configuration; cfgErr is reported by commands that need it
	cfg    *cfgpkg.Global
	cfgErr error
	log    *logrus.Entry
)

var rootCmd = &cobra.Command{
	Use:   "pmaxreport <results-file>",
	Short: "Summarize p-maxcut experiment results as a LaTeX table and box plots",
	Long: `pmaxreport reads the output of the p-maxcut experiment driver (groups of
trials introduced by "Folder <path> <p> ..." header lines), prints a table of
mean ratios and failure counts, and saves one box plot per group.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, args[0], true, true)
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default is ~/.pmaxreport/config.yaml)")
	f.BoolVar(&debug, "debug", false, "enable debug output")
	f.StringArrayVar(&flagRatios, "ratio", nil, "ratio column as num/den[=Label] over metrics x,y,z (repeatable, overrides config)")
	f.StringVar(&flagGroupBy, "group-by", "", "split plots by 'param' or 'name' (overrides config)")
	f.BoolVar(&flagShowOutliers, "show-outliers", false, "draw outlier points in box plots (overrides config)")
	f.StringVar(&flagPlotFormat, "format", "", "plot format: image|markup|png|svg|pdf|eps|tex (overrides config)")
	f.StringVar(&flagTableFormat, "table-format", "", "table format: latex|text (overrides config)")
	f.StringVarP(&flagOutDir, "out-dir", "o", "", "directory for plot files (overrides config)")
	f.StringVar(&flagMarker, "marker", "", "first character of group header lines (overrides config)")
	f.Float64Var(&flagThreshold, "threshold", 0, "failure threshold for |y-z| (overrides config)")
}

func loadConfig() {
	log = logging.New(rootCmd.ErrOrStderr(), "info", debug)
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		cfg, cfgErr = nil, err
		return
	}
	cfg, cfgErr = c, nil

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("group-by") {
		cfg.GroupBy = flagGroupBy
	}
	if f.Changed("show-outliers") {
		cfg.ShowOutliers = flagShowOutliers
	}
	if f.Changed("format") {
		cfg.PlotFormat = flagPlotFormat
	}
	if f.Changed("table-format") {
		cfg.TableFormat = flagTableFormat
	}
	if f.Changed("out-dir") && flagOutDir != "" {
		cfg.OutputDir = flagOutDir
	}
	if f.Changed("marker") {
		cfg.HeaderMarker = flagMarker
	}
	if f.Changed("threshold") {
		cfg.MismatchThreshold = flagThreshold
	}
	log = logging.New(rootCmd.ErrOrStderr(), cfg.LogLevel, debug)
}
