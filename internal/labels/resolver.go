// Package labels maps case and method slugs to human-readable labels.
package labels

import (
	"maps"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind selects which override table a slug is looked up in.
type Kind int

const (
	// KindCase resolves test-function slugs.
	KindCase Kind = iota
	// KindMethod resolves finite-difference method slugs.
	KindMethod
)

// Style selects the fallback transform for slugs without an override.
type Style int

const (
	// StyleLaTeX escapes underscores in case slugs and title-cases method slugs.
	StyleLaTeX Style = iota
	// StylePlain replaces underscores with spaces.
	StylePlain
)

// Table holds the override labels for cases and methods.
type Table struct {
	Cases   map[string]string `toml:"cases"`
	Methods map[string]string `toml:"methods"`
}

// Merge returns a copy of t with every entry of override applied on top.
func (t Table) Merge(override Table) Table {
	out := Table{
		Cases:   maps.Clone(t.Cases),
		Methods: maps.Clone(t.Methods),
	}
	if out.Cases == nil {
		out.Cases = make(map[string]string)
	}
	if out.Methods == nil {
		out.Methods = make(map[string]string)
	}
	maps.Copy(out.Cases, override.Cases)
	maps.Copy(out.Methods, override.Methods)
	return out
}

// Resolver resolves slugs against a fixed table.
type Resolver struct {
	cases   map[string]string
	methods map[string]string
	style   Style
	title   cases.Caser
}

// NewResolver copies t so later changes to the caller's maps have no effect.
func NewResolver(t Table, style Style) *Resolver {
	r := &Resolver{
		cases:   maps.Clone(t.Cases),
		methods: maps.Clone(t.Methods),
		style:   style,
		title:   cases.Title(language.English),
	}
	return r
}

// Resolve returns the label for slug.
func (r *Resolver) Resolve(kind Kind, slug string) string {
	switch kind {
	case KindCase:
		return r.Case(slug)
	default:
		return r.Method(slug)
	}
}

// Case returns the label of a test-function slug.
func (r *Resolver) Case(slug string) string {
	if label, ok := r.cases[slug]; ok {
		return label
	}
	if r.style == StyleLaTeX {
		return EscapeLaTeX(slug)
	}
	return strings.ReplaceAll(slug, "_", " ")
}

// Method returns the label of a method slug.
func (r *Resolver) Method(slug string) string {
	if label, ok := r.methods[slug]; ok {
		return label
	}
	spaced := strings.ReplaceAll(slug, "_", " ")
	if r.style == StyleLaTeX {
		return EscapeLaTeX(r.title.String(spaced))
	}
	return spaced
}

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`_`, `\_`,
	`%`, `\%`,
	`&`, `\&`,
	`#`, `\#`,
	`$`, `\$`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// EscapeLaTeX escapes characters that are special in LaTeX text mode.
func EscapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}
