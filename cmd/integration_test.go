package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const driverOutput = `Folder ./tests/Pegasus/LIGO 1 MAXCUT LP ILP
./tests/Pegasus/LIGO/a.dot 10.00000 12.00000 12.00000
./tests/Pegasus/LIGO/b.dot 9.00000 10.00000 13.00000
Folder ./tests/Pegasus/GENOME 1 MAXCUT LP ILP
./tests/Pegasus/GENOME/a.dot 4.00000 4.00000 4.00000
Folder ./tests/Pegasus/LIGO 3 MAXCUT LP ILP
./tests/Pegasus/LIGO/a.dot 10.00000 11.00000 11.50000
`

// resetFlags clears persistent flag state that sticks across Execute calls.
func resetFlags() {
	f := rootCmd.PersistentFlags()
	for _, name := range []string{"config", "debug", "group-by", "show-outliers", "format", "table-format", "out-dir", "marker", "threshold"} {
		if fl := f.Lookup(name); fl != nil {
			_ = fl.Value.Set(fl.DefValue)
			fl.Changed = false
		}
	}
	if fl := f.Lookup("ratio"); fl != nil {
		fl.Changed = false
	}
	flagRatios = nil
}

// runCmd executes the root command with args and returns stdout.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func execCmd(args ...string) (string, error) {
	resetFlags()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func setup(t *testing.T) (input, outDir string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	input = filepath.Join(home, "results.txt")
	if err := os.WriteFile(input, []byte(driverOutput), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return input, filepath.Join(home, "figs")
}

func TestCLI_FullReport(t *testing.T) {
	input, outDir := setup(t)
	out := runCmd(t, input, "--out-dir", outDir)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3+3 {
		t.Fatalf("want 6 table lines, got %d:\n%s", len(lines), out)
	}
	if lines[3] != "\tGENOME & 1 & 1.000 & 1.000 & 0/1\\\\" {
		t.Fatalf("unexpected first row %q", lines[3])
	}
	// (10/12 + 9/10)/2 and (12/12 + 13/10)/2, one failure out of two
	if lines[4] != "\tLIGO & 1 & 0.867 & 1.150 & 1/2\\\\" {
		t.Fatalf("unexpected second row %q", lines[4])
	}
	for _, name := range []string{"boxplot_xy_1.png", "boxplot_zy_1.png", "boxplot_xy_3.png", "boxplot_zy_3.png"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}

func TestCLI_TableOnlyTextAndCustomRatio(t *testing.T) {
	input, outDir := setup(t)
	out := runCmd(t, "table", input, "--table-format", "text", "--ratio", "x/z=max/ILP", "--out-dir", outDir)
	if !strings.Contains(out, "max/ILP") || !strings.Contains(out, "LIGO") {
		t.Fatalf("unexpected text table:\n%s", out)
	}
	if strings.Contains(out, "m lin/maxcut") {
		t.Fatalf("--ratio should replace the default columns:\n%s", out)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Fatalf("table command should not write plots: %v", err)
	}
}

func TestCLI_PlotsByNameMarkup(t *testing.T) {
	input, outDir := setup(t)
	out := runCmd(t, "plots", input, "--group-by", "name", "--format", "markup", "--out-dir", outDir)
	if out != "" {
		t.Fatalf("plots command should not print the table, got:\n%s", out)
	}
	for _, name := range []string{"boxplot_xy_LIGO.tex", "boxplot_zy_GENOME.tex"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}

func TestCLI_Errors(t *testing.T) {
	input, outDir := setup(t)
	if _, err := execCmd(filepath.Join(outDir, "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	bad := filepath.Join(filepath.Dir(input), "bad.txt")
	if err := os.WriteFile(bad, []byte("Folder ./x 1 A B C\n0 1 2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := execCmd("table", bad); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected parse error on line 2, got %v", err)
	}
	if _, err := execCmd("table", input, "--group-by", "colour"); err == nil {
		t.Fatalf("expected error for bad --group-by")
	}
	if _, err := execCmd("table", input, "--ratio", "x/q"); err == nil {
		t.Fatalf("expected error for bad --ratio")
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	_, _ = setup(t)
	runCmd(t, "config", "set", "group_by", "name")
	runCmd(t, "config", "set", "ratios", "x/z=max/ILP;y/x")
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "group_by: name") {
		t.Fatalf("group_by not saved:\n%s", out)
	}
	if !strings.Contains(out, "x/z label=\"max/ILP\"") || !strings.Contains(out, "y/x") {
		t.Fatalf("ratios not saved:\n%s", out)
	}
	if _, err := execCmd("config", "set", "plot_format", "gif"); err == nil {
		t.Fatalf("expected error for unsupported plot format")
	}
}

func TestCLI_RootRatioFlag(t *testing.T) {
	input, outDir := setup(t)
	out := runCmd(t, input, "--ratio", "x/z=max/ILP", "--out-dir", outDir)
	if !strings.Contains(out, "& max/ILP & failures/total") {
		t.Fatalf("--ratio not applied to the root command:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(outDir, "boxplot_xz_1.png")); err != nil {
		t.Fatalf("missing figure for custom ratio: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "boxplot_xy_1.png")); !os.IsNotExist(err) {
		t.Fatalf("default ratio figure should not be written: %v", err)
	}
}

func TestCLI_ConfigSetKeepsFlagOverridesOut(t *testing.T) {
	_, _ = setup(t)
	runCmd(t, "config", "set", "group_by", "name", "--threshold", "3", "--table-format", "text")
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "group_by: name") {
		t.Fatalf("group_by not saved:\n%s", out)
	}
	if !strings.Contains(out, "mismatch_threshold: 1\n") || !strings.Contains(out, "table_format: latex\n") {
		t.Fatalf("flag overrides leaked into the saved config:\n%s", out)
	}
}

func TestCLI_ConfigShowLoadError(t *testing.T) {
	input, _ := setup(t)
	missing := filepath.Join(filepath.Dir(input), "nope.yaml")
	out, err := execCmd("config", "show", "--config", missing)
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("expected load config error, got %v (out %q)", err, out)
	}
	if strings.Contains(out, "No config loaded") {
		t.Fatalf("load error should not be reported as a missing config:\n%s", out)
	}
}
