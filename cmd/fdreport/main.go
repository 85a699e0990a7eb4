// Package main provides the entry point for the finite-difference report tool.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/lamim/fd-report/internal/config"
	"github.com/lamim/fd-report/internal/dataset"
	"github.com/lamim/fd-report/internal/labels"
	"github.com/lamim/fd-report/internal/logging"
	"github.com/lamim/fd-report/internal/plots"
	"github.com/lamim/fd-report/internal/progress"
	"github.com/lamim/fd-report/internal/report"
)

const targetPlots = "plots"

type cliFlags struct {
	configPath  *string
	dataDir     *string
	outputDir   *string
	plotDir     *string
	format      *string
	noProgress  *bool
	logLevel    *string
	logFormat   *string
	strict      *bool
	writeConfig *string
}

func parseFlags(fs *flag.FlagSet) *cliFlags {
	return &cliFlags{
		configPath:  fs.String("config", "fdreport.toml", "Path to configuration file (optional unless given explicitly)"),
		dataDir:     fs.String("data", "", "Directory of .npy result files (overrides config)"),
		outputDir:   fs.String("output", "", "Output directory for reports (overrides config)"),
		plotDir:     fs.String("plots", "", "Output directory for charts (overrides config)"),
		format:      fs.String("format", "all", "Targets: all, or a list of tex, html, md, json, plots"),
		noProgress:  fs.Bool("no-progress", false, "Disable progress bar (useful for CI)"),
		logLevel:    fs.String("log-level", "warn", "Log level: debug, info, warn, error"),
		logFormat:   fs.String("log-format", "text", "Log format: text or json"),
		strict:      fs.Bool("strict", false, "Fail on data files whose names cannot be decoded"),
		writeConfig: fs.String("write-config", "", "Write the effective configuration (file, defaults and flags) to this path and exit"),
	}
}

// targets is the parsed -format flag.
type targets struct {
	reports []report.Format
	plots   bool
}

func (t targets) count(cases int) int {
	n := len(t.reports)
	if t.plots {
		n += 2 * cases
	}
	return n
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("fdreport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := parseFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	cfg, err := config.LoadOrDefault(*flags.configPath, explicit["config"])
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyOverrides(cfg, flags, explicit)

	if *flags.writeConfig != "" {
		if err := cfg.Save(*flags.writeConfig); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(stdout, "✓ Wrote configuration to %s\n", *flags.writeConfig)
		return nil
	}

	if err := logging.Setup(*flags.logLevel, *flags.logFormat, stderr); err != nil {
		return err
	}

	want, err := parseFormats(*flags.format)
	if err != nil {
		return err
	}

	printBanner(stdout)

	loader := dataset.NewLoader(
		dataset.WithStrict(cfg.General.Strict),
		dataset.WithLogger(logging.New("loader")),
	)
	model, err := loader.Load(cfg.General.DataDir)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	caseSlugs := model.CaseSlugs()
	_, _ = fmt.Fprintf(stdout, "✓ Loaded %d cases from %s\n", len(caseSlugs), cfg.General.DataDir)

	gen := report.NewGenerator(model, cfg.General.ReportDir, report.Options{
		FileName: cfg.General.ReportFile,
		Source:   cfg.General.DataDir,
		Typeset:  cfg.Labels,
		Plain:    cfg.PlotLabels,
		Headers:  cfg.Headers,
		Logger:   logging.New("report"),
	})

	prog := progress.NewManager(want.count(len(caseSlugs)), !*flags.noProgress, stderr)

	for _, f := range want.reports {
		if err := gen.Generate(f); err != nil {
			return fmt.Errorf("failed to generate %s report: %w", f, err)
		}
		prog.Advance(gen.Path(f))
	}

	if want.plots {
		renderer := plots.NewRenderer(cfg.General.PlotDir, plots.Options{
			WidthIn:    cfg.Plot.WidthIn,
			HeightIn:   cfg.Plot.HeightIn,
			DPI:        cfg.Plot.DPI,
			Labels:     cfg.PlotLabels,
			Logger:     logging.New("plots"),
			OnArtifact: prog.Advance,
		})
		if _, err := renderer.Render(model); err != nil {
			return fmt.Errorf("failed to render plots: %w", err)
		}
	}

	_, _ = fmt.Fprintf(stdout, "✓ %s\n\n", prog.Finish())
	printSummary(stdout, gen, cfg.PlotLabels)
	return nil
}

// applyOverrides copies explicitly set flags over the configuration.
func applyOverrides(cfg *config.Config, flags *cliFlags, explicit map[string]bool) {
	if *flags.dataDir != "" {
		cfg.General.DataDir = *flags.dataDir
	}
	if *flags.outputDir != "" {
		cfg.General.ReportDir = *flags.outputDir
	}
	if *flags.plotDir != "" {
		cfg.General.PlotDir = *flags.plotDir
	}
	if explicit["strict"] {
		cfg.General.Strict = *flags.strict
	}
}

func printBanner(out io.Writer) {
	_, _ = fmt.Fprintln(out, `
╔══════════════════════════════════════════════════════════════╗
║             Finite-Difference Report Generator               ║
║        LaTeX tables, convergence orders and error plots      ║
╚══════════════════════════════════════════════════════════════╝`)
	_, _ = fmt.Fprintln(out)
}

func printSummary(out io.Writer, gen *report.Generator, plain labels.Table) {
	_, _ = fmt.Fprintln(out, "                    CONVERGENCE SUMMARY")
	report.PrintSummary(out, gen.Collector(), labels.NewResolver(plain, labels.StylePlain))
}

// parseFormats turns the -format flag into report formats and a plots switch.
// Duplicates are ignored; output keeps report.Formats order.
func parseFormats(s string) (targets, error) {
	var t targets
	selected := make(map[report.Format]bool)

	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		switch name {
		case "all":
			for _, f := range report.Formats {
				selected[f] = true
			}
			t.plots = true
		case targetPlots:
			t.plots = true
		case "":
			continue
		default:
			f := report.Format(name)
			if !slices.Contains(report.Formats, f) {
				return targets{}, fmt.Errorf("unknown format %q", name)
			}
			selected[f] = true
		}
	}

	for _, f := range report.Formats {
		if selected[f] {
			t.reports = append(t.reports, f)
		}
	}
	if len(t.reports) == 0 && !t.plots {
		return targets{}, fmt.Errorf("no output format selected in %q", s)
	}
	return t, nil
}
