// Package testutil writes .npy fixture directories for loader and renderer tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sbinet/npyio"

	"github.com/lamim/fd-report/internal/dataset"
)

// Method is a complete series set for one (case, method) pair.
type Method struct {
	H      []float64
	Approx []float64
	Err    []float64
	AbsErr []float64
	Order  []float64
}

// WriteArray writes values to dir/name as a 1-D float64 .npy file.
func WriteArray(t testing.TB, dir, name string, values []float64) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("failed to create fixture %s: %v", name, err)
	}
	defer func() {
		_ = f.Close()
	}()
	if err := npyio.Write(f, values); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
}

// WriteKey encodes key and writes values under the resulting file name.
func WriteKey(t testing.TB, dir string, key dataset.Key, values []float64) {
	t.Helper()
	name, err := dataset.Encode(key, "npy")
	if err != nil {
		t.Fatalf("failed to encode key %+v: %v", key, err)
	}
	WriteArray(t, dir, name, values)
}

// WriteMethod writes every non-nil series of m.
func WriteMethod(t testing.TB, dir, caseSlug, method string, m Method) {
	t.Helper()
	series := map[dataset.SeriesKind][]float64{
		dataset.KindH:      m.H,
		dataset.KindApprox: m.Approx,
		dataset.KindErr:    m.Err,
		dataset.KindAbsErr: m.AbsErr,
		dataset.KindOrder:  m.Order,
	}
	for kind, values := range series {
		if values == nil {
			continue
		}
		WriteKey(t, dir, dataset.SeriesKey{Case: caseSlug, Method: method, Kind: kind}, values)
	}
}

// WriteExact writes the reference value of a case.
func WriteExact(t testing.TB, dir, caseSlug string, exact float64) {
	t.Helper()
	WriteKey(t, dir, dataset.ReferenceKey{Case: caseSlug}, []float64{exact})
}

// Halving returns n step sizes starting at h0, each half the previous.
func Halving(h0 float64, n int) []float64 {
	hs := make([]float64, n)
	h := h0
	for i := range hs {
		hs[i] = h
		h /= 2
	}
	return hs
}
