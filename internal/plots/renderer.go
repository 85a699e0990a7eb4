// Package plots draws the approximation and error charts of every case.
package plots

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/lamim/fd-report/internal/dataset"
	"github.com/lamim/fd-report/internal/labels"
	"github.com/lamim/fd-report/internal/output"
)

// Options configures a Renderer.
type Options struct {
	WidthIn  float64
	HeightIn float64
	DPI      int
	Labels   labels.Table
	Logger   *slog.Logger
	// OnArtifact is called after each image is written.
	OnArtifact func(path string)
}

// Renderer writes <case>_approx.png and <case>_error.png into one directory.
type Renderer struct {
	outputDir string
	width     vg.Length
	height    vg.Length
	dpi       int
	labels    *labels.Resolver
	logger    *slog.Logger
	onWrite   func(string)
}

// NewRenderer creates a renderer. Zero geometry falls back to 8x5 inches at 150 dpi.
func NewRenderer(outputDir string, opts Options) *Renderer {
	if opts.WidthIn <= 0 {
		opts.WidthIn = 8
	}
	if opts.HeightIn <= 0 {
		opts.HeightIn = 5
	}
	if opts.DPI <= 0 {
		opts.DPI = 150
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.OnArtifact == nil {
		opts.OnArtifact = func(string) {}
	}
	return &Renderer{
		outputDir: outputDir,
		width:     vg.Length(opts.WidthIn) * vg.Inch,
		height:    vg.Length(opts.HeightIn) * vg.Inch,
		dpi:       opts.DPI,
		labels:    labels.NewResolver(opts.Labels, labels.StylePlain),
		logger:    opts.Logger,
		onWrite:   opts.OnArtifact,
	}
}

// ApproxPath returns the approximation chart path of a case.
func (r *Renderer) ApproxPath(caseSlug string) string {
	return filepath.Join(r.outputDir, caseSlug+"_approx.png")
}

// ErrorPath returns the error chart path of a case.
func (r *Renderer) ErrorPath(caseSlug string) string {
	return filepath.Join(r.outputDir, caseSlug+"_error.png")
}

// Render draws both charts for every case and returns the written paths.
func (r *Renderer) Render(model *dataset.Model) ([]string, error) {
	var written []string
	for _, caseSlug := range model.CaseSlugs() {
		paths, err := r.RenderCase(caseSlug, model.Case(caseSlug))
		written = append(written, paths...)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// RenderCase draws the two charts of one case. A chart without any plottable
// method is skipped with a warning.
func (r *Renderer) RenderCase(caseSlug string, rec *dataset.CaseRecord) ([]string, error) {
	var written []string

	exact, fallback, ok := ReferenceValue(rec)
	if ok && fallback {
		r.logger.Info("no exact value stored, using approx[0] + err[0]",
			slog.String("case", caseSlug), slog.Float64("exact", exact))
	}
	if ok && !isFinite(exact) {
		r.logger.Warn("exact value is not finite, skipping reference line",
			slog.String("case", caseSlug), slog.Float64("exact", exact))
		ok = false
	}

	charts := []struct {
		path  string
		build func() (*plot.Plot, bool, error)
	}{
		{r.ApproxPath(caseSlug), func() (*plot.Plot, bool, error) { return r.ApproxChart(caseSlug, rec, exact, ok) }},
		{r.ErrorPath(caseSlug), func() (*plot.Plot, bool, error) { return r.ErrorChart(caseSlug, rec) }},
	}

	for _, c := range charts {
		p, drawn, err := c.build()
		if err != nil {
			return written, fmt.Errorf("failed to build chart for %s: %w", caseSlug, err)
		}
		if !drawn {
			r.logger.Warn("no plottable series, skipping chart",
				slog.String("case", caseSlug), slog.String("path", c.path))
			continue
		}
		if err := r.save(p, c.path); err != nil {
			return written, err
		}
		written = append(written, c.path)
		r.logger.Info("wrote chart", slog.String("path", c.path))
		r.onWrite(c.path)
	}
	return written, nil
}

// ReferenceValue returns the stored exact value of rec, or approx[0] + err[0]
// of the first method in slug order that has both. fallback is true in the
// second case; ok is false when neither is available.
func ReferenceValue(rec *dataset.CaseRecord) (exact float64, fallback bool, ok bool) {
	if v, has := rec.Reference(); has {
		return v, false, true
	}
	for _, method := range rec.MethodSlugs() {
		s := rec.Methods[method]
		approx, errs := s[dataset.KindApprox], s[dataset.KindErr]
		if len(approx) > 0 && len(errs) > 0 {
			return approx[0] + errs[0], true, true
		}
	}
	return 0, false, false
}

// ApproxChart plots approx against h with the exact value as a dashed line.
func (r *Renderer) ApproxChart(caseSlug string, rec *dataset.CaseRecord, exact float64, hasExact bool) (*plot.Plot, bool, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Finite-difference approximations for %s", r.labels.Case(caseSlug))
	p.X.Label.Text = "h"
	p.Y.Label.Text = "Derivative approximation"
	setReversedLogX(p)
	p.Legend.Top = true

	var hs []float64
	drawn := 0
	for i, method := range rec.MethodSlugs() {
		s := rec.Methods[method]
		pts := positiveXY(s[dataset.KindH], s[dataset.KindApprox], false)
		if len(pts) == 0 {
			continue
		}
		if err := addSeries(p, i, r.labels.Method(method), pts); err != nil {
			return nil, false, err
		}
		for _, pt := range pts {
			hs = append(hs, pt.X)
		}
		drawn++
	}
	if drawn == 0 {
		return p, false, nil
	}
	widenLogRange(&p.X)

	if hasExact && isFinite(exact) {
		ref, err := plotter.NewLine(plotter.XYs{
			{X: floats.Min(hs), Y: exact},
			{X: floats.Max(hs), Y: exact},
		})
		if err != nil {
			return nil, false, err
		}
		ref.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		ref.LineStyle.Color = plotutil.Color(len(rec.Methods))
		p.Add(ref)
		p.Legend.Add(fmt.Sprintf("exact = %.8e", exact), ref)
	}
	return p, true, nil
}

// ErrorChart plots |err| against h on log-log axes.
func (r *Renderer) ErrorChart(caseSlug string, rec *dataset.CaseRecord) (*plot.Plot, bool, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Finite-difference error for %s", r.labels.Case(caseSlug))
	p.X.Label.Text = "h"
	p.Y.Label.Text = "|error|"
	setReversedLogX(p)
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Legend.Top = true

	drawn := 0
	for i, method := range rec.MethodSlugs() {
		s := rec.Methods[method]
		pts := positiveXY(s[dataset.KindH], s.AbsErr(), true)
		if len(pts) == 0 {
			continue
		}
		if err := addSeries(p, i, r.labels.Method(method), pts); err != nil {
			return nil, false, err
		}
		drawn++
	}
	widenLogRange(&p.X)
	widenLogRange(&p.Y)
	return p, drawn > 0, nil
}

// setReversedLogX puts small step sizes on the right.
func setReversedLogX(p *plot.Plot) {
	p.X.Scale = plot.InvertedScale{Normalizer: plot.LogScale{}}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
}

// widenLogRange spreads a range that collapsed to one value (a single row,
// or a constant series) over one octave each side. Left alone, plot widens it
// by ±1 at draw time, which can reach zero on a log scale.
func widenLogRange(a *plot.Axis) {
	if a.Min == a.Max && a.Min > 0 {
		a.Min /= 2
		a.Max *= 2
	}
}

// addSeries draws a marked line; idx fixes its color and glyph so a method
// keeps its style across charts and runs.
func addSeries(p *plot.Plot, idx int, name string, pts plotter.XYs) error {
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(idx)
	points.Color = plotutil.Color(idx)
	points.Shape = plotutil.Shape(idx)
	p.Add(line, points)
	p.Legend.Add(name, line, points)
	return nil
}

// positiveXY pairs xs and ys, dropping points a log axis cannot show.
func positiveXY(xs, ys []float64, logY bool) plotter.XYs {
	n := min(len(xs), len(ys))
	pts := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		x, y := xs[i], ys[i]
		if !(x > 0) || !isFinite(x) || !isFinite(y) {
			continue
		}
		if logY && !(y > 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: x, Y: y})
	}
	return pts
}

func (r *Renderer) save(p *plot.Plot, path string) error {
	c := vgimg.NewWith(vgimg.UseWH(r.width, r.height), vgimg.UseDPI(r.dpi))
	p.Draw(draw.New(c))
	return output.WriteWith(path, func(w io.Writer) error {
		_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
		return err
	})
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
