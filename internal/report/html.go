package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/lamim/fd-report/internal/labels"
	"github.com/lamim/fd-report/internal/metrics"
)

// HTMLWriter renders a Document as a standalone HTML page.
type HTMLWriter struct {
	labels *labels.Resolver
	source string
	// plain renders numbers as text instead of <sup> markup, which survives
	// the Markdown conversion.
	plain bool
}

// NewHTMLWriter creates a writer using plain-text labels.
func NewHTMLWriter(resolver *labels.Resolver, source string) *HTMLWriter {
	return &HTMLWriter{labels: resolver, source: source}
}

func (w *HTMLWriter) number(n metrics.Number) string {
	if w.plain {
		return html.EscapeString(n.String())
	}
	return n.HTML()
}

// Render returns the HTML page.
func (w *HTMLWriter) Render(doc Document) string {
	var sb strings.Builder

	sb.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Finite-Difference Convergence Tables</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: #f5f5f5; color: #333; line-height: 1.6; padding: 20px; }
        .container { max-width: 1200px; margin: 0 auto; }
        h1 { color: #2c3e50; margin-bottom: 10px; }
        h2 { color: #2c3e50; margin: 30px 0 15px; padding-bottom: 10px; border-bottom: 2px solid #3498db; }
        h3 { color: #2c3e50; margin: 20px 0 10px; }
        .source { color: #666; margin-bottom: 30px; }
        table { width: 100%; border-collapse: collapse; background: white; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 4px rgba(0,0,0,0.1); margin-bottom: 20px; }
        caption { caption-side: top; text-align: left; color: #666; padding: 8px 0; }
        th, td { padding: 8px 12px; text-align: right; border-bottom: 1px solid #eee; font-variant-numeric: tabular-nums; }
        th { background: #2c3e50; color: white; font-weight: 600; }
        tr:hover { background: #f9f9f9; }
    </style>
</head>
<body>
<div class="container">
<h1>Finite-Difference Convergence Tables</h1>
`)
	sb.WriteString(fmt.Sprintf("<p class=\"source\">Generated from %s</p>\n", html.EscapeString(w.source)))

	for _, section := range doc.Sections {
		caseLabel := html.EscapeString(w.labels.Case(section.Case))
		sb.WriteString(fmt.Sprintf("<h2>%s</h2>\n", caseLabel))

		for _, sub := range section.Subsections {
			methodLabel := html.EscapeString(w.labels.Method(sub.Method))
			sb.WriteString(fmt.Sprintf("<h3>%s</h3>\n", methodLabel))
			sb.WriteString("<table>\n")
			sb.WriteString(fmt.Sprintf("<caption>%s for %s.</caption>\n", methodLabel, caseLabel))
			sb.WriteString("<thead><tr><th>1/h</th><th>Approximation</th><th>Error</th><th>Order</th></tr></thead>\n")
			sb.WriteString("<tbody>\n")
			for _, row := range sub.Table.Rows {
				sb.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
					w.number(metrics.FormatHInverse(row.H)),
					w.number(metrics.FormatNumber(row.Approx)),
					w.number(metrics.FormatNumber(row.Err)),
					w.number(formatOrder(row.Order)),
				))
			}
			sb.WriteString("</tbody>\n</table>\n")
		}
	}

	sb.WriteString("</div>\n</body>\n</html>\n")
	return sb.String()
}
