package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/lamim/fd-report/internal/dataset"
	"github.com/lamim/fd-report/internal/labels"
	"github.com/lamim/fd-report/internal/metrics"
	"github.com/lamim/fd-report/internal/output"
)

// Format names a report target.
type Format string

// Supported report formats.
const (
	FormatLaTeX    Format = "tex"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
)

// Formats lists every format in generation order.
var Formats = []Format{FormatLaTeX, FormatHTML, FormatMarkdown, FormatJSON}

// Options configures a Generator.
type Options struct {
	// FileName is the LaTeX file name; the other formats reuse its stem.
	FileName string
	// Source names the input directory in generated headers.
	Source  string
	Typeset labels.Table
	Plain   labels.Table
	Headers Headers
	Logger  *slog.Logger
}

// Generator creates reports from one loaded model
type Generator struct {
	doc       Document
	collector *metrics.Collector
	outputDir string
	fileName  string
	source    string
	latex     *LaTeXWriter
	html      *HTMLWriter
	logger    *slog.Logger
}

// NewGenerator builds the document for model and prepares every writer.
func NewGenerator(model *dataset.Model, outputDir string, opts Options) *Generator {
	if opts.FileName == "" {
		opts.FileName = "fd_tables.tex"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	plain := labels.NewResolver(opts.Plain, labels.StylePlain)
	return &Generator{
		doc:       Build(model),
		collector: metrics.Collect(model),
		outputDir: outputDir,
		fileName:  opts.FileName,
		source:    opts.Source,
		latex:     NewLaTeXWriter(labels.NewResolver(opts.Typeset, labels.StyleLaTeX), opts.Headers, opts.Source),
		html:      NewHTMLWriter(plain, opts.Source),
		logger:    opts.Logger,
	}
}

// Document returns the assembled document.
func (g *Generator) Document() Document {
	return g.doc
}

// Collector returns the per-method metrics.
func (g *Generator) Collector() *metrics.Collector {
	return g.collector
}

// Path returns where the given format is written.
func (g *Generator) Path(f Format) string {
	stem := strings.TrimSuffix(g.fileName, filepath.Ext(g.fileName))
	if f == FormatLaTeX {
		return filepath.Join(g.outputDir, g.fileName)
	}
	return filepath.Join(g.outputDir, stem+"."+string(f))
}

// Generate writes one format.
func (g *Generator) Generate(f Format) error {
	switch f {
	case FormatLaTeX:
		return g.GenerateLaTeX()
	case FormatHTML:
		return g.GenerateHTML()
	case FormatMarkdown:
		return g.GenerateMarkdown()
	case FormatJSON:
		return g.GenerateJSON()
	default:
		return fmt.Errorf("unknown report format %q", f)
	}
}

// GenerateAll generates all report formats
func (g *Generator) GenerateAll() error {
	for _, f := range Formats {
		if err := g.Generate(f); err != nil {
			return fmt.Errorf("failed to generate %s report: %w", f, err)
		}
	}
	return nil
}

func (g *Generator) write(f Format, data []byte) error {
	path := g.Path(f)
	if err := output.WriteFile(path, data); err != nil {
		return err
	}
	g.logger.Info("wrote report", slog.String("format", string(f)), slog.String("path", path))
	return nil
}

// GenerateLaTeX writes the booktabs tables.
func (g *Generator) GenerateLaTeX() error {
	return g.write(FormatLaTeX, []byte(g.latex.Render(g.doc)))
}

// GenerateHTML writes a standalone HTML page with the same tables.
func (g *Generator) GenerateHTML() error {
	return g.write(FormatHTML, []byte(g.html.Render(g.doc)))
}

// GenerateMarkdown converts the plain-number HTML rendering into Markdown.
func (g *Generator) GenerateMarkdown() error {
	plain := *g.html
	plain.plain = true

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	content, err := conv.ConvertString(plain.Render(g.doc))
	if err != nil {
		return fmt.Errorf("failed to convert report to markdown: %w", err)
	}
	return g.write(FormatMarkdown, []byte(content+"\n"))
}

type jsonReport struct {
	Source string     `json:"source"`
	Cases  []jsonCase `json:"cases"`
}

type jsonCase struct {
	Case    string       `json:"case"`
	Exact   *float64     `json:"exact,omitempty"`
	Methods []jsonMethod `json:"methods"`
}

type jsonMethod struct {
	Method         string     `json:"method"`
	H              []*float64 `json:"h"`
	Approx         []*float64 `json:"approx"`
	Err            []*float64 `json:"err"`
	Order          []*float64 `json:"order"`
	StoredOrder    []*float64 `json:"stored_order,omitempty"`
	EstimatedOrder *float64   `json:"estimated_order"`
	MinAbsErr      *float64   `json:"min_abs_err"`
	BestH          *float64   `json:"best_h"`
}

// GenerateJSON writes the raw series and derived metrics. Undefined values
// are null. The output carries no timestamp so reruns are byte-identical.
func (g *Generator) GenerateJSON() error {
	data := jsonReport{Source: g.source, Cases: make([]jsonCase, 0)}

	for _, caseSlug := range g.collector.GetAllCases() {
		results := g.collector.GetResultsByCase(caseSlug)
		jc := jsonCase{Case: caseSlug, Methods: make([]jsonMethod, 0, len(results))}
		if results[0].HasExact {
			jc.Exact = nullable(results[0].Exact)
		}
		for _, r := range results {
			s := metrics.ComputeSummary(r)
			jc.Methods = append(jc.Methods, jsonMethod{
				Method:         r.Method,
				H:              nullables(r.H),
				Approx:         nullables(r.Approx),
				Err:            nullables(r.Err),
				Order:          nullables(r.Orders),
				StoredOrder:    nullables(r.StoredOrder),
				EstimatedOrder: nullable(s.EstimatedOrder),
				MinAbsErr:      nullable(s.MinAbsErr),
				BestH:          nullable(s.BestH),
			})
		}
		data.Cases = append(data.Cases, jc)
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return g.write(FormatJSON, jsonData)
}

func nullable(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

func nullables(xs []float64) []*float64 {
	if xs == nil {
		return nil
	}
	out := make([]*float64, len(xs))
	for i, x := range xs {
		out[i] = nullable(x)
	}
	return out
}
