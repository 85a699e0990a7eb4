package dataset

import (
	"math"
	"sort"
)

// MethodSeries holds every array stored for one (case, method) pair.
type MethodSeries map[SeriesKind][]float64

// Has reports whether the kind was loaded.
func (s MethodSeries) Has(kind SeriesKind) bool {
	_, ok := s[kind]
	return ok
}

// Complete reports whether the method has the h, approx and err series a
// table row needs.
func (s MethodSeries) Complete() bool {
	return s.Has(KindH) && s.Has(KindApprox) && s.Has(KindErr)
}

// Len returns the shortest length over all loaded kinds.
func (s MethodSeries) Len() int {
	n := -1
	for _, v := range s {
		if n < 0 || len(v) < n {
			n = len(v)
		}
	}
	if n < 0 {
		return 0
	}
	return n
}

// Aligned reports whether all loaded kinds share one length.
func (s MethodSeries) Aligned() bool {
	n := s.Len()
	for _, v := range s {
		if len(v) != n {
			return false
		}
	}
	return true
}

func (s MethodSeries) truncate(n int) {
	for k, v := range s {
		if len(v) > n {
			s[k] = v[:n]
		}
	}
}

// AbsErr returns the stored abs_err series, or |err| when it was not stored.
// It returns nil when neither exists.
func (s MethodSeries) AbsErr() []float64 {
	if v, ok := s[KindAbsErr]; ok {
		return v
	}
	errs, ok := s[KindErr]
	if !ok {
		return nil
	}
	out := make([]float64, len(errs))
	for i, e := range errs {
		out[i] = math.Abs(e)
	}
	return out
}

// CaseRecord groups all methods of one case and its optional exact value.
type CaseRecord struct {
	Methods  map[string]MethodSeries
	Exact    float64
	HasExact bool
}

// MethodSlugs returns the method slugs in lexicographic order.
func (c *CaseRecord) MethodSlugs() []string {
	out := make([]string, 0, len(c.Methods))
	for m := range c.Methods {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Reference returns the exact value, if one was loaded.
func (c *CaseRecord) Reference() (float64, bool) {
	return c.Exact, c.HasExact
}

// Model is the grouped result of one load: case -> method -> kind -> array.
type Model struct {
	Cases map[string]*CaseRecord
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{Cases: make(map[string]*CaseRecord)}
}

// CaseSlugs returns the slugs of cases that have at least one method, sorted.
func (m *Model) CaseSlugs() []string {
	out := make([]string, 0, len(m.Cases))
	for slug, rec := range m.Cases {
		if len(rec.Methods) > 0 {
			out = append(out, slug)
		}
	}
	sort.Strings(out)
	return out
}

// Case returns the record for slug, or nil.
func (m *Model) Case(slug string) *CaseRecord {
	return m.Cases[slug]
}

// References returns case -> exact value for every case that has one.
func (m *Model) References() map[string]float64 {
	out := make(map[string]float64)
	for slug, rec := range m.Cases {
		if rec.HasExact {
			out[slug] = rec.Exact
		}
	}
	return out
}

func (m *Model) record(caseSlug string) *CaseRecord {
	rec, ok := m.Cases[caseSlug]
	if !ok {
		rec = &CaseRecord{Methods: make(map[string]MethodSeries)}
		m.Cases[caseSlug] = rec
	}
	return rec
}

// SetSeries stores values under key, replacing any earlier array.
func (m *Model) SetSeries(key SeriesKey, values []float64) {
	rec := m.record(key.Case)
	s, ok := rec.Methods[key.Method]
	if !ok {
		s = make(MethodSeries)
		rec.Methods[key.Method] = s
	}
	s[key.Kind] = values
}

// SetReference stores the exact value of a case.
func (m *Model) SetReference(caseSlug string, exact float64) {
	rec := m.record(caseSlug)
	rec.Exact = exact
	rec.HasExact = true
}
