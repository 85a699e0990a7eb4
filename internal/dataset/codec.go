// Package dataset decodes a flat directory of finite-difference result arrays
// into a grouped experiment model.
package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// Separator bounds the fields of an encoded file name. Slugs must not contain it.
const Separator = "__"

// exactTag is the field that marks a reference (exact value) record.
const exactTag = "exact"

// ErrSeparatorInSlug is returned by Encode when a field would break decoding.
var ErrSeparatorInSlug = errors.New("slug contains field separator")

// SeriesKind identifies which array of a method a file holds.
type SeriesKind int

const (
	// KindH holds step sizes, strictly decreasing.
	KindH SeriesKind = iota
	// KindApprox holds the derivative approximations.
	KindApprox
	// KindErr holds signed errors (exact - approx).
	KindErr
	// KindAbsErr holds error magnitudes.
	KindAbsErr
	// KindOrder holds the producer's empirical convergence order (NaN where undefined).
	KindOrder
)

var kindNames = [...]string{
	KindH:      "h",
	KindApprox: "approx",
	KindErr:    "err",
	KindAbsErr: "abs_err",
	KindOrder:  "order",
}

// AllKinds lists every SeriesKind in declaration order.
var AllKinds = []SeriesKind{KindH, KindApprox, KindErr, KindAbsErr, KindOrder}

func (k SeriesKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("SeriesKind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText lets SeriesKind be used as a JSON map key.
func (k SeriesKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseSeriesKind maps a file name field to its kind.
func ParseSeriesKind(s string) (SeriesKind, bool) {
	for i, name := range kindNames {
		if name == s {
			return SeriesKind(i), true
		}
	}
	return 0, false
}

// Key is either a ReferenceKey or a SeriesKey.
type Key interface {
	CaseSlug() string
	isKey()
}

// ReferenceKey names the file holding the exact value of a case.
type ReferenceKey struct {
	Case string
}

// SeriesKey names one array of one method within a case.
type SeriesKey struct {
	Case   string
	Method string
	Kind   SeriesKind
}

// CaseSlug returns the case the key belongs to.
func (k ReferenceKey) CaseSlug() string { return k.Case }

// CaseSlug returns the case the key belongs to.
func (k SeriesKey) CaseSlug() string { return k.Case }

func (ReferenceKey) isKey() {}
func (SeriesKey) isKey()    {}

// Decode parses a file name of the form <case>__exact.<ext> or
// <case>__<method>__<kind>.<ext>. Case takes the longest prefix that still
// leaves a non-empty method. It returns false for anything else.
func Decode(filename string) (Key, bool) {
	dot := strings.LastIndexByte(filename, '.')
	if dot <= 0 || dot == len(filename)-1 {
		return nil, false
	}
	stem := filename[:dot]

	if c, ok := strings.CutSuffix(stem, Separator+exactTag); ok && c != "" {
		return ReferenceKey{Case: c}, true
	}

	for _, kind := range AllKinds {
		rest, ok := strings.CutSuffix(stem, Separator+kind.String())
		if !ok {
			continue
		}
		c, method, ok := splitLast(rest)
		if !ok {
			continue
		}
		return SeriesKey{Case: c, Method: method, Kind: kind}, true
	}
	return nil, false
}

// splitLast splits s at the right-most separator that leaves both sides non-empty.
func splitLast(s string) (string, string, bool) {
	for i := len(s) - len(Separator) - 1; i >= 1; i-- {
		if s[i:i+len(Separator)] == Separator {
			return s[:i], s[i+len(Separator):], true
		}
	}
	return "", "", false
}

// Encode builds the file name for key with the given extension (without dot).
func Encode(key Key, ext string) (string, error) {
	switch k := key.(type) {
	case ReferenceKey:
		if err := checkSlug(k.Case); err != nil {
			return "", err
		}
		return k.Case + Separator + exactTag + "." + ext, nil
	case SeriesKey:
		if err := checkSlug(k.Case); err != nil {
			return "", err
		}
		if err := checkSlug(k.Method); err != nil {
			return "", err
		}
		if _, ok := ParseSeriesKind(k.Kind.String()); !ok {
			return "", fmt.Errorf("unknown series kind %d", int(k.Kind))
		}
		return k.Case + Separator + k.Method + Separator + k.Kind.String() + "." + ext, nil
	default:
		return "", fmt.Errorf("unsupported key type %T", key)
	}
}

func checkSlug(s string) error {
	if s == "" {
		return errors.New("empty slug")
	}
	if strings.Contains(s, Separator) {
		return fmt.Errorf("%w: %q", ErrSeparatorInSlug, s)
	}
	return nil
}

// Slug lowercases ASCII letters and digits and collapses every run of other
// characters into a single underscore, trimming underscores at both ends.
func Slug(s string) string {
	var sb strings.Builder
	prevUnderscore := false
	for _, r := range s {
		switch {
		case r < 0x80 && (r >= 'a' && r <= 'z' || r >= '0' && r <= '9'):
			sb.WriteRune(r)
			prevUnderscore = false
		case r >= 'A' && r <= 'Z':
			sb.WriteRune(r + ('a' - 'A'))
			prevUnderscore = false
		default:
			if !prevUnderscore {
				sb.WriteByte('_')
				prevUnderscore = true
			}
		}
	}
	return strings.Trim(sb.String(), "_")
}
