package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sbinet/npyio"
)

// FileExt is the extension of files the loader reads.
const FileExt = ".npy"

var (
	// ErrNoDataDir is returned when the input directory is missing or not a directory.
	ErrNoDataDir = errors.New("data directory not found")
	// ErrEmptyReference is returned when an exact file holds no values.
	ErrEmptyReference = errors.New("reference array is empty")
	// ErrMalformedName is returned in strict mode for undecodable file names.
	ErrMalformedName = errors.New("malformed data file name")
)

// Loader scans a single directory level and groups its arrays into a Model.
type Loader struct {
	strict bool
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithStrict makes undecodable .npy file names fatal instead of skipped.
func WithStrict(strict bool) LoaderOption {
	return func(l *Loader) { l.strict = strict }
}

// WithLogger sets the logger used for skip and truncation diagnostics.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a loader. Without options it skips malformed names silently
// and logs to slog.Default.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads dir with a default Loader.
func Load(dir string) (*Model, error) {
	return NewLoader().Load(dir)
}

// Load decodes every .npy file in dir. Any unreadable array aborts the load.
// Methods whose kinds disagree on length are truncated to the shortest kind.
func (l *Loader) Load(dir string) (*Model, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoDataDir, dir)
		}
		return nil, fmt.Errorf("failed to stat data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNoDataDir, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	model := NewModel()
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != FileExt {
			continue
		}

		key, ok := Decode(name)
		if !ok {
			if l.strict {
				return nil, fmt.Errorf("%w: %s", ErrMalformedName, name)
			}
			l.logger.Debug("skipping undecodable file", slog.String("file", name))
			continue
		}

		values, err := readArray(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}

		switch k := key.(type) {
		case ReferenceKey:
			if len(values) == 0 {
				return nil, fmt.Errorf("%w: %s", ErrEmptyReference, name)
			}
			model.SetReference(k.Case, values[0])
		case SeriesKey:
			model.SetSeries(k, values)
		}
	}

	l.alignLengths(model)
	return model, nil
}

func (l *Loader) alignLengths(model *Model) {
	for caseSlug, rec := range model.Cases {
		for method, series := range rec.Methods {
			if series.Aligned() {
				continue
			}
			n := series.Len()
			l.logger.Warn("series lengths differ, truncating",
				slog.String("case", caseSlug),
				slog.String("method", method),
				slog.Int("length", n),
			)
			series.truncate(n)
		}
	}
}

func readArray(path string) ([]float64, error) {
	// #nosec G304 - path is built from a directory listing
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var values []float64
	if err := npyio.Read(f, &values); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return values, nil
}
