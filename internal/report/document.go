// Package report renders the grouped experiment model into LaTeX, HTML,
// Markdown, and JSON reports.
package report

import (
	"github.com/lamim/fd-report/internal/dataset"
	"github.com/lamim/fd-report/internal/metrics"
)

// Document is the dialect-independent report: one section per case, one
// subsection per method, one table per subsection.
type Document struct {
	Sections []Section
}

// Section groups the tables of one case.
type Section struct {
	Case        string
	Subsections []Subsection
}

// Subsection holds the single table of one method.
type Subsection struct {
	Method string
	Table  Table
}

// Table is the convergence table of one (case, method) pair.
type Table struct {
	Rows []Row
}

// Row is one step size. Order is NaN where undefined.
type Row struct {
	H      float64
	Approx float64
	Err    float64
	Order  float64
}

// Build assembles the document in lexicographic case and method order.
// Methods without h, approx and err series are left out, and so are cases
// left without any table.
func Build(model *dataset.Model) Document {
	var doc Document
	for _, caseSlug := range model.CaseSlugs() {
		rec := model.Case(caseSlug)
		section := Section{Case: caseSlug}

		for _, method := range rec.MethodSlugs() {
			series := rec.Methods[method]
			if !series.Complete() {
				continue
			}
			section.Subsections = append(section.Subsections, Subsection{
				Method: method,
				Table:  buildTable(series),
			})
		}

		if len(section.Subsections) > 0 {
			doc.Sections = append(doc.Sections, section)
		}
	}
	return doc
}

func buildTable(series dataset.MethodSeries) Table {
	hs := series[dataset.KindH]
	approx := series[dataset.KindApprox]
	errs := series[dataset.KindErr]

	n := min(len(hs), len(approx), len(errs))
	orders := metrics.Orders(errs[:n])

	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{
			H:      hs[i],
			Approx: approx[i],
			Err:    errs[i],
			Order:  orders[i],
		}
	}
	return Table{Rows: rows}
}

// TableCount returns the number of tables in the document.
func (d Document) TableCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Subsections)
	}
	return n
}
