package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.GroupBy != "param" || c.PlotFormat != "png" || c.TableFormat != "latex" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.HeaderMarker != "F" || c.MismatchThreshold != 1 || c.ShowOutliers {
		t.Fatalf("unexpected parse defaults: %+v", c)
	}
	if len(c.Ratios) != 2 || c.Ratios[0].Num != "x" || c.Ratios[1].Num != "z" {
		t.Fatalf("unexpected default ratios: %+v", c.Ratios)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PMAXREPORT_GROUP_BY", "name")
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	body := "plot_format: tex\nshow_outliers: true\ngroup_by: param\n" +
		"ratios:\n  - num: x\n    den: z\n    label: m max/ILP\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.PlotFormat != "tex" || !c.ShowOutliers {
		t.Fatalf("file values not applied: %+v", c)
	}
	if c.GroupBy != "name" {
		t.Fatalf("env should override file, got %q", c.GroupBy)
	}
	if len(c.Ratios) != 1 || c.Ratios[0].Den != "z" || c.Ratios[0].Label != "m max/ILP" {
		t.Fatalf("unexpected ratios: %+v", c.Ratios)
	}
}

func TestSaveThenLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c.OutputDir = "figures"
	if err := Save(c, ""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".pmaxreport", "config.yaml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	again, err := Load("")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.OutputDir != "figures" {
		t.Fatalf("output_dir = %q", again.OutputDir)
	}
}

func TestLoadRejectsLongMarker(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PMAXREPORT_HEADER_MARKER", "FQ")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for multi-character marker")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}
