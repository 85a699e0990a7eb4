package report

import (
	"fmt"
	"io"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/lamim/fd-report/internal/labels"
	"github.com/lamim/fd-report/internal/metrics"
)

// ConvergenceTable renders one line per (case, method) with the estimated
// order and the smallest error reached.
func ConvergenceTable(collector *metrics.Collector, resolver *labels.Resolver) string {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.Style().Format.Header = text.FormatDefault
	w.AppendHeader(table.Row{"Case", "Method", "Rows", "Est. Order", "Min |Err|", "Best 1/h"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	for _, caseSlug := range collector.GetAllCases() {
		for _, r := range collector.GetResultsByCase(caseSlug) {
			s := metrics.ComputeSummary(r)
			order := metrics.Placeholder
			if metrics.IsDefined(s.EstimatedOrder) {
				order = fmt.Sprintf("%.2f", s.EstimatedOrder)
			}
			best := metrics.Placeholder
			if !math.IsNaN(s.BestH) {
				best = metrics.FormatHInverse(s.BestH).String()
			}
			w.AppendRow(table.Row{
				resolver.Case(caseSlug),
				resolver.Method(r.Method),
				s.Rows,
				order,
				metrics.FormatNumber(s.MinAbsErr).String(),
				best,
			})
		}
	}
	return w.Render()
}

// PrintSummary writes the convergence table to out.
func PrintSummary(out io.Writer, collector *metrics.Collector, resolver *labels.Resolver) {
	_, _ = fmt.Fprintln(out, ConvergenceTable(collector, resolver))
}
