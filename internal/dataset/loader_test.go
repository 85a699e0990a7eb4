package dataset_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamim/fd-report/internal/dataset"
	"github.com/lamim/fd-report/internal/dataset/testutil"
)

func TestLoad_GroupsSeriesAndReferences(t *testing.T) {
	dir := t.TempDir()
	hs := testutil.Halving(0.5, 4)
	testutil.WriteMethod(t, dir, "exp_x", "forward", testutil.Method{
		H:      hs,
		Approx: []float64{3.5, 3.1, 2.9, 2.8},
		Err:    []float64{-0.78, -0.38, -0.18, -0.08},
	})
	testutil.WriteMethod(t, dir, "exp_x", "center", testutil.Method{
		H:      hs,
		Approx: []float64{2.8, 2.73, 2.72, 2.718},
		Err:    []float64{-0.08, -0.01, -0.002, -0.0003},
		AbsErr: []float64{0.08, 0.01, 0.002, 0.0003},
	})
	testutil.WriteMethod(t, dir, "sqrt_x_1", "forward", testutil.Method{
		H:      hs,
		Approx: []float64{0.34, 0.35, 0.352, 0.353},
		Err:    []float64{0.013, 0.006, 0.003, 0.0015},
	})
	testutil.WriteExact(t, dir, "exp_x", 2.718281828459045)

	model, err := dataset.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"exp_x", "sqrt_x_1"}, model.CaseSlugs())

	rec := model.Case("exp_x")
	require.NotNil(t, rec)
	assert.Equal(t, []string{"center", "forward"}, rec.MethodSlugs())
	assert.Equal(t, hs, rec.Methods["forward"][dataset.KindH])
	assert.True(t, rec.Methods["center"].Has(dataset.KindAbsErr))
	assert.False(t, rec.Methods["forward"].Has(dataset.KindAbsErr))

	exact, ok := rec.Reference()
	assert.True(t, ok)
	assert.Equal(t, 2.718281828459045, exact)

	_, ok = model.Case("sqrt_x_1").Reference()
	assert.False(t, ok)
	assert.Equal(t, map[string]float64{"exp_x": 2.718281828459045}, model.References())
}

func TestLoad_SkipsMalformedNames(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteMethod(t, dir, "exp_x", "forward", testutil.Method{
		H:      []float64{0.5, 0.25},
		Approx: []float64{3.5, 3.1},
		Err:    []float64{-0.78, -0.38},
	})
	testutil.WriteArray(t, dir, "exp_x__forward__slope.npy", []float64{1, 2})
	testutil.WriteArray(t, dir, "garbage.npy", []float64{1})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an array"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested__exact.npy"), 0755))

	model, err := dataset.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"exp_x"}, model.CaseSlugs())
	series := model.Case("exp_x").Methods["forward"]
	assert.Len(t, series, 3)
	assert.Equal(t, []float64{3.5, 3.1}, series[dataset.KindApprox])
	assert.Empty(t, model.References())
}

func TestLoad_StrictRejectsMalformedNames(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteArray(t, dir, "garbage.npy", []float64{1})

	_, err := dataset.NewLoader(dataset.WithStrict(true)).Load(dir)
	assert.True(t, errors.Is(err, dataset.ErrMalformedName), "got %v", err)
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := dataset.Load(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.Is(err, dataset.ErrNoDataDir), "got %v", err)
}

func TestLoad_FileInsteadOfDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := dataset.Load(path)
	assert.True(t, errors.Is(err, dataset.ErrNoDataDir), "got %v", err)
}

func TestLoad_CorruptArrayAborts(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteMethod(t, dir, "exp_x", "forward", testutil.Method{H: []float64{0.5}})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "exp_x__forward__approx.npy"), []byte("corrupt"), 0644))

	_, err := dataset.Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exp_x__forward__approx.npy")
}

func TestLoad_EmptyReferenceAborts(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteArray(t, dir, "exp_x__exact.npy", []float64{})

	_, err := dataset.Load(dir)
	assert.True(t, errors.Is(err, dataset.ErrEmptyReference), "got %v", err)
}

func TestLoad_ReferenceOnlyCaseIsNotListed(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteExact(t, dir, "exp_x", 1)

	model, err := dataset.Load(dir)
	require.NoError(t, err)
	assert.Empty(t, model.CaseSlugs())
	assert.Equal(t, map[string]float64{"exp_x": 1}, model.References())
}

func TestLoad_TruncatesMismatchedLengths(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteMethod(t, dir, "exp_x", "forward", testutil.Method{
		H:      []float64{0.5, 0.25, 0.125},
		Approx: []float64{3.5, 3.1},
		Err:    []float64{-0.78, -0.38, -0.18},
	})

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	model, err := dataset.NewLoader(dataset.WithLogger(logger)).Load(dir)
	require.NoError(t, err)

	series := model.Case("exp_x").Methods["forward"]
	assert.True(t, series.Aligned())
	assert.Equal(t, 2, series.Len())
	assert.Equal(t, []float64{0.5, 0.25}, series[dataset.KindH])
	assert.Contains(t, buf.String(), "truncating")
	assert.Contains(t, buf.String(), "method=forward")
}

func TestMethodSeries_AbsErr(t *testing.T) {
	derived := dataset.MethodSeries{dataset.KindErr: {-0.5, 0.25}}
	assert.Equal(t, []float64{0.5, 0.25}, derived.AbsErr())

	stored := dataset.MethodSeries{
		dataset.KindErr:    {-0.5, 0.25},
		dataset.KindAbsErr: {9, 9},
	}
	assert.Equal(t, []float64{9, 9}, stored.AbsErr())

	assert.Nil(t, dataset.MethodSeries{}.AbsErr())
}

func TestModel_LaterWriteOverwrites(t *testing.T) {
	m := dataset.NewModel()
	key := dataset.SeriesKey{Case: "c", Method: "m", Kind: dataset.KindH}
	m.SetSeries(key, []float64{1})
	m.SetSeries(key, []float64{2})
	m.SetReference("c", 1)
	m.SetReference("c", 3)

	assert.Equal(t, []float64{2}, m.Case("c").Methods["m"][dataset.KindH])
	exact, _ := m.Case("c").Reference()
	assert.Equal(t, 3.0, exact)
}
