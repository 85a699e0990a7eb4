package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lamim/fd-report/internal/config"
	"github.com/lamim/fd-report/internal/dataset"
	"github.com/lamim/fd-report/internal/dataset/testutil"
	"github.com/lamim/fd-report/internal/report"
)

func TestParseFormats_All(t *testing.T) {
	result, err := parseFormats("all")
	if err != nil {
		t.Fatalf("parseFormats failed: %v", err)
	}
	if diff := cmp.Diff(report.Formats, result.reports); diff != "" {
		t.Errorf("reports mismatch (-want +got):\n%s", diff)
	}
	if !result.plots {
		t.Error("expected plots for 'all'")
	}
}

func TestParseFormats_List(t *testing.T) {
	result, err := parseFormats("json, tex,md,json")
	if err != nil {
		t.Fatalf("parseFormats failed: %v", err)
	}
	want := []report.Format{report.FormatLaTeX, report.FormatMarkdown, report.FormatJSON}
	if diff := cmp.Diff(want, result.reports); diff != "" {
		t.Errorf("reports mismatch (-want +got):\n%s", diff)
	}
	if result.plots {
		t.Error("plots should not be selected")
	}
}

func TestParseFormats_PlotsOnly(t *testing.T) {
	result, err := parseFormats("plots")
	if err != nil {
		t.Fatalf("parseFormats failed: %v", err)
	}
	if len(result.reports) != 0 || !result.plots {
		t.Errorf("expected plots only, got %+v", result)
	}
	if result.count(3) != 6 {
		t.Errorf("expected 6 artifacts for 3 cases, got %d", result.count(3))
	}
}

func TestParseFormats_Invalid(t *testing.T) {
	for _, in := range []string{"pdf", "", " , "} {
		if _, err := parseFormats(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func writeDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	hs := testutil.Halving(0.1, 4)
	testutil.WriteMethod(t, dir, "exp_x", "forward", testutil.Method{
		H:      hs,
		Approx: []float64{2.858, 2.787, 2.752, 2.735},
		Err:    []float64{-0.1399, -0.0687, -0.0340, -0.0170},
	})
	testutil.WriteMethod(t, dir, "exp_x", "center", testutil.Method{
		H:      hs,
		Approx: []float64{2.7228, 2.7194, 2.71851, 2.71834},
		Err:    []float64{-0.00453, -0.00113, -0.000283, -0.0000708},
	})
	testutil.WriteExact(t, dir, "exp_x", 2.718281828459045)
	testutil.WriteArray(t, dir, "README.npy", []float64{1})
	return dir
}

func TestRun_GeneratesArtifacts(t *testing.T) {
	data := writeDataset(t)
	reports := filepath.Join(t.TempDir(), "reports")
	charts := filepath.Join(t.TempDir(), "charts")

	var stdout, stderr bytes.Buffer
	err := run([]string{
		"-data", data,
		"-output", reports,
		"-plots", charts,
		"-no-progress",
		"-log-level", "error",
	}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run failed: %v\nstderr: %s", err, stderr.String())
	}

	for _, path := range []string{
		filepath.Join(reports, "fd_tables.tex"),
		filepath.Join(reports, "fd_tables.html"),
		filepath.Join(reports, "fd_tables.md"),
		filepath.Join(reports, "fd_tables.json"),
		filepath.Join(charts, "exp_x_approx.png"),
		filepath.Join(charts, "exp_x_error.png"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
	}

	out := stdout.String()
	if !strings.Contains(out, "Loaded 1 cases") {
		t.Errorf("expected load line in output, got: %s", out)
	}
	if !strings.Contains(out, "6/6 artifacts written") {
		t.Errorf("expected artifact count in output, got: %s", out)
	}
	if !strings.Contains(out, "CONVERGENCE SUMMARY") || !strings.Contains(out, "centered") {
		t.Errorf("expected convergence summary in output, got: %s", out)
	}
}

func TestRun_TexOnly(t *testing.T) {
	data := writeDataset(t)
	reports := t.TempDir()
	charts := filepath.Join(t.TempDir(), "charts")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-data", data, "-output", reports, "-plots", charts, "-format", "tex", "-no-progress"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	tex, err := os.ReadFile(filepath.Join(reports, "fd_tables.tex"))
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	if !strings.Contains(string(tex), `\section{$e^x$}`) {
		t.Errorf("expected typeset case section, got:\n%s", tex)
	}
	if _, err := os.Stat(charts); !os.IsNotExist(err) {
		t.Error("charts directory should not be created for -format tex")
	}
}

func TestRun_StrictRejectsMalformedNames(t *testing.T) {
	data := writeDataset(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"-data", data, "-output", t.TempDir(), "-format", "json", "-no-progress", "-strict"}, &stdout, &stderr)
	if !errors.Is(err, dataset.ErrMalformedName) {
		t.Errorf("expected ErrMalformedName, got %v", err)
	}
}

func TestRun_MissingDataDir(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"-data", filepath.Join(t.TempDir(), "absent"), "-no-progress"}, &stdout, &stderr)
	if !errors.Is(err, dataset.ErrNoDataDir) {
		t.Errorf("expected ErrNoDataDir, got %v", err)
	}
}

func TestRun_ExplicitMissingConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"-config", filepath.Join(t.TempDir(), "absent.toml")}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "failed to load config") {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	data := writeDataset(t)
	reports := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "fdreport.toml")
	content := "[general]\ndata_dir = \"" + filepath.ToSlash(data) + "\"\nreport_dir = \"" + filepath.ToSlash(reports) + "\"\nreport_file = \"tables.tex\"\n\n[labels.cases]\nexp_x = \"Exponential\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-config", cfgPath, "-format", "tex", "-no-progress"}, &stdout, &stderr); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	tex, err := os.ReadFile(filepath.Join(reports, "tables.tex"))
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	if !strings.Contains(string(tex), `\section{Exponential}`) {
		t.Errorf("expected configured case label, got:\n%s", tex)
	}
}

func TestRun_InvalidFlags(t *testing.T) {
	tests := [][]string{
		{"-log-level", "loud"},
		{"-log-format", "xml"},
		{"-format", "pdf"},
	}
	for _, args := range tests {
		var stdout, stderr bytes.Buffer
		if err := run(args, &stdout, &stderr); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestRun_WriteConfig(t *testing.T) {
	out := filepath.Join(t.TempDir(), "fdreport.toml")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-data", "data/ch3", "-strict", "-write-config", out}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "Wrote configuration to") {
		t.Errorf("expected confirmation line, got: %s", stdout.String())
	}
	if strings.Contains(stdout.String(), "Finite-Difference Report Generator") {
		t.Error("write-config should exit before the pipeline runs")
	}

	cfg, err := config.Load(out)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.General.DataDir != "data/ch3" || !cfg.General.Strict {
		t.Errorf("expected flag overrides in written config, got %+v", cfg.General)
	}
	if cfg.General.ReportFile != "fd_tables.tex" {
		t.Errorf("expected defaults in written config, got %+v", cfg.General)
	}
}
