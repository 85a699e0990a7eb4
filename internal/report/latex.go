package report

import (
	"fmt"
	"maps"
	"strings"

	"github.com/lamim/fd-report/internal/labels"
	"github.com/lamim/fd-report/internal/metrics"
)

// Headers holds the method-specific column headers of the LaTeX tables.
type Headers struct {
	HInverse string            `toml:"h_inverse"`
	Approx   map[string]string `toml:"approx"`
	Err      map[string]string `toml:"err"`
	Rate     string            `toml:"rate"`
}

// DefaultHeaders returns the headers for the built-in methods.
func DefaultHeaders() Headers {
	return Headers{
		HInverse: `$h^{-1}$`,
		Approx: map[string]string{
			"forward":  `$D_h^+ f(1)$`,
			"backward": `$D_h^- f(1)$`,
			"center":   `$D_h f(1)$`,
			"special":  `$\widetilde D_h^+ f(1)$`,
		},
		Err: map[string]string{
			"forward":  `$E_h = f'(1) - D_h^+ f(1)$`,
			"backward": `$E_h = f'(1) - D_h^- f(1)$`,
			"center":   `$E_h = f'(1) - D_h f(1)$`,
			"special":  `$E_h = f'(1) - \widetilde D_h^+ f(1)$`,
		},
		Rate: `$\frac{\ln\left|\frac{E_{2h}}{E_h}\right|}{\ln 2}$`,
	}
}

// Merge returns a copy of h with the non-empty entries of override applied.
func (h Headers) Merge(override Headers) Headers {
	out := Headers{
		HInverse: h.HInverse,
		Approx:   maps.Clone(h.Approx),
		Err:      maps.Clone(h.Err),
		Rate:     h.Rate,
	}
	if out.Approx == nil {
		out.Approx = make(map[string]string)
	}
	if out.Err == nil {
		out.Err = make(map[string]string)
	}
	if override.HInverse != "" {
		out.HInverse = override.HInverse
	}
	if override.Rate != "" {
		out.Rate = override.Rate
	}
	maps.Copy(out.Approx, override.Approx)
	maps.Copy(out.Err, override.Err)
	return out
}

// LaTeXWriter renders a Document as booktabs tables.
type LaTeXWriter struct {
	labels  *labels.Resolver
	headers Headers
	source  string
}

// NewLaTeXWriter creates a writer. source names the input in the preamble.
func NewLaTeXWriter(resolver *labels.Resolver, headers Headers, source string) *LaTeXWriter {
	return &LaTeXWriter{
		labels:  resolver,
		headers: headers.Merge(Headers{}),
		source:  source,
	}
}

// Render returns the full LaTeX fragment.
func (w *LaTeXWriter) Render(doc Document) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%% Auto-generated from %s/*.npy\n", w.source))
	sb.WriteString("% Requires \\usepackage{booktabs}\n")
	sb.WriteString("% Requires \\usepackage{graphicx} (for \\resizebox)\n")
	sb.WriteString("% Tables are forced to fit \\textwidth via \\resizebox{\\textwidth}{!}{...}\n")

	for _, section := range doc.Sections {
		sb.WriteString(fmt.Sprintf("\n\\section{%s}\n", w.labels.Case(section.Case)))
		for _, sub := range section.Subsections {
			sb.WriteString(fmt.Sprintf("\n\\subsection{%s}\n\n", w.labels.Method(sub.Method)))
			w.writeTable(&sb, section.Case, sub)
		}
	}
	return sb.String()
}

func (w *LaTeXWriter) approxHeader(method string) string {
	if h, ok := w.headers.Approx[method]; ok {
		return h
	}
	return labels.EscapeLaTeX(method)
}

func (w *LaTeXWriter) errHeader(method string) string {
	if h, ok := w.headers.Err[method]; ok {
		return h
	}
	return labels.EscapeLaTeX(method)
}

func (w *LaTeXWriter) writeTable(sb *strings.Builder, caseSlug string, sub Subsection) {
	sb.WriteString("\\begin{table}[htbp]\n")
	sb.WriteString("\\centering\n")
	sb.WriteString("\\scriptsize\n")
	sb.WriteString("\\setlength{\\tabcolsep}{3pt}\n")
	sb.WriteString("\\renewcommand{\\arraystretch}{1.15}\n")
	sb.WriteString(fmt.Sprintf("\\caption{%s for %s.}\n", w.labels.Method(sub.Method), w.labels.Case(caseSlug)))
	sb.WriteString(fmt.Sprintf("\\label{tab:%s_%s}\n", caseSlug, sub.Method))
	sb.WriteString("\\resizebox{\\textwidth}{!}{%\n")
	sb.WriteString("\\begin{tabular}{rrrr}\n")
	sb.WriteString("\\toprule\n")
	sb.WriteString(fmt.Sprintf("%s & %s & %s & %s \\\\\n",
		w.headers.HInverse,
		w.approxHeader(sub.Method),
		w.errHeader(sub.Method),
		w.headers.Rate,
	))
	sb.WriteString("\\midrule\n")

	for _, row := range sub.Table.Rows {
		sb.WriteString(fmt.Sprintf("%s & %s & %s & %s \\\\\n",
			metrics.FormatHInverse(row.H).LaTeX(),
			metrics.FormatNumber(row.Approx).LaTeX(),
			metrics.FormatNumber(row.Err).LaTeX(),
			formatOrder(row.Order).LaTeX(),
		))
	}

	sb.WriteString("\\bottomrule\n")
	sb.WriteString("\\end{tabular}%\n")
	sb.WriteString("}\n")
	sb.WriteString("\\end{table}\n")
}

func formatOrder(order float64) metrics.Number {
	if !metrics.IsDefined(order) {
		return metrics.Undefined()
	}
	return metrics.FormatNumber(order)
}
