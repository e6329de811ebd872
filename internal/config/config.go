package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Ratio is a configured ratio column. Num and Den are metric letters (x, y, z).
type Ratio struct {
	Num   string `mapstructure:"num" yaml:"num"`
	Den   string `mapstructure:"den" yaml:"den"`
	Label string `mapstructure:"label" yaml:"label,omitempty"`
	Title string `mapstructure:"title" yaml:"title,omitempty"`
	Slug  string `mapstructure:"slug" yaml:"slug,omitempty"`
}

// Global configuration structure.
type Global struct {
	Ratios            []Ratio `mapstructure:"ratios" yaml:"ratios"`
	GroupBy           string  `mapstructure:"group_by" yaml:"group_by"`
	ShowOutliers      bool    `mapstructure:"show_outliers" yaml:"show_outliers"`
	PlotFormat        string  `mapstructure:"plot_format" yaml:"plot_format"`
	TableFormat       string  `mapstructure:"table_format" yaml:"table_format"`
	OutputDir         string  `mapstructure:"output_dir" yaml:"output_dir"`
	HeaderMarker      string  `mapstructure:"header_marker" yaml:"header_marker"`
	MismatchThreshold float64 `mapstructure:"mismatch_threshold" yaml:"mismatch_threshold"`

	// Figure size in inches
	PlotWidthIn  float64 `mapstructure:"plot_width_in" yaml:"plot_width_in"`
	PlotHeightIn float64 `mapstructure:"plot_height_in" yaml:"plot_height_in"`
	LogLevel     string  `mapstructure:"log_level" yaml:"log_level"`
}

// DefaultRatios are the two ratio columns of the p-maxcut report.
func DefaultRatios() []Ratio {
	return []Ratio{
		{Num: "x", Den: "y", Label: "m ILP/max", Title: "Ratio maxcut/p-maxcut"},
		{Num: "z", Den: "y", Label: "m lin/maxcut", Title: "Ratio p-maxcut*/p-maxcut"},
	}
}

const dirName = ".pmaxreport"

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.pmaxreport/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := defaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("PMAXREPORT")
	v.AutomaticEnv()

	v.SetDefault("group_by", "param")
	v.SetDefault("show_outliers", false)
	v.SetDefault("plot_format", "png")
	v.SetDefault("table_format", "latex")
	v.SetDefault("output_dir", ".")
	v.SetDefault("header_marker", "F")
	v.SetDefault("mismatch_threshold", 1.0)
	v.SetDefault("plot_width_in", 6.4)
	v.SetDefault("plot_height_in", 4.8)
	v.SetDefault("log_level", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, dirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.Ratios) == 0 {
		c.Ratios = DefaultRatios()
	}
	if len(c.HeaderMarker) != 1 {
		return nil, fmt.Errorf("header_marker must be a single character, got %q", c.HeaderMarker)
	}
	return &c, nil
}
