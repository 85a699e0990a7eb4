package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lamim/fd-report/internal/dataset"
)

// Result holds the derived metrics of one (case, method) pair.
type Result struct {
	Case        string
	Method      string
	H           []float64
	Approx      []float64
	Err         []float64
	AbsErr      []float64
	Orders      []float64
	StoredOrder []float64
	Exact       float64
	HasExact    bool
}

// Summary condenses a Result for terminal and JSON output.
type Summary struct {
	Case           string  `json:"case"`
	Method         string  `json:"method"`
	Rows           int     `json:"rows"`
	DefinedOrders  int     `json:"defined_orders"`
	EstimatedOrder float64 `json:"estimated_order"`
	MinAbsErr      float64 `json:"min_abs_err"`
	BestH          float64 `json:"best_h"`
}

// Collector gathers results for every case and method of a model.
type Collector struct {
	results []Result
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		results: make([]Result, 0),
	}
}

// Collect derives a Result for every method that has h, approx and err series.
func Collect(model *dataset.Model) *Collector {
	c := NewCollector()
	for _, caseSlug := range model.CaseSlugs() {
		rec := model.Case(caseSlug)
		for _, method := range rec.MethodSlugs() {
			series := rec.Methods[method]
			if !series.Complete() {
				continue
			}
			r := Result{
				Case:        caseSlug,
				Method:      method,
				H:           series[dataset.KindH],
				Approx:      series[dataset.KindApprox],
				Err:         series[dataset.KindErr],
				AbsErr:      series.AbsErr(),
				Orders:      Orders(series[dataset.KindErr]),
				StoredOrder: series[dataset.KindOrder],
			}
			r.Exact, r.HasExact = rec.Reference()
			c.AddResult(r)
		}
	}
	return c
}

// AddResult adds a result to the collector
func (c *Collector) AddResult(r Result) {
	c.results = append(c.results, r)
}

// GetResults returns all collected results
func (c *Collector) GetResults() []Result {
	results := make([]Result, len(c.results))
	copy(results, c.results)
	return results
}

// GetResultsByCase returns the results of one case ordered by method slug
func (c *Collector) GetResultsByCase(caseSlug string) []Result {
	var filtered []Result
	for _, r := range c.results {
		if r.Case == caseSlug {
			filtered = append(filtered, r)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Method < filtered[j].Method
	})
	return filtered
}

// GetAllCases returns a list of all unique case slugs
func (c *Collector) GetAllCases() []string {
	caseMap := make(map[string]bool)
	for _, r := range c.results {
		caseMap[r.Case] = true
	}

	cases := make([]string, 0, len(caseMap))
	for k := range caseMap {
		cases = append(cases, k)
	}
	sort.Strings(cases)
	return cases
}

// ComputeSummary condenses r. The estimated order is the mean of the defined
// orders over the second half of the rows, where the asymptotic regime is
// expected before rounding error takes over.
func ComputeSummary(r Result) *Summary {
	summary := &Summary{
		Case:           r.Case,
		Method:         r.Method,
		Rows:           len(r.H),
		EstimatedOrder: math.NaN(),
		MinAbsErr:      math.NaN(),
		BestH:          math.NaN(),
	}

	var tail []float64
	for i, o := range r.Orders {
		if !IsDefined(o) {
			continue
		}
		summary.DefinedOrders++
		if i >= len(r.Orders)/2 {
			tail = append(tail, o)
		}
	}
	if len(tail) > 0 {
		summary.EstimatedOrder = stat.Mean(tail, nil)
	}

	n := min(len(r.AbsErr), len(r.H))
	if n > 0 {
		idx := floats.MinIdx(r.AbsErr[:n])
		summary.MinAbsErr = r.AbsErr[idx]
		summary.BestH = r.H[idx]
	}
	return summary
}
