// Package bands maps Landsat band identifiers to their raster files and loads
// band pixels on demand through a pluggable raster loader.
package bands

import (
	"errors"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// DefaultImageSuffix is the filename suffix of single-band image files.
const DefaultImageSuffix = "TIF"

// RasterLoader decodes the raster file at path into a 2D array of digital
// numbers, one row per image line.
type RasterLoader interface {
	Load(path string) (*mat.Dense, error)
}

// LoaderFunc adapts a function to the RasterLoader interface.
type LoaderFunc func(path string) (*mat.Dense, error)

// Load calls f(path).
func (f LoaderFunc) Load(path string) (*mat.Dense, error) {
	return f(path)
}

// Registry is the immutable band-identifier to file mapping of one scene.
// Pixels are never cached: every Load call goes back to the loader.
type Registry struct {
	dir    string
	files  map[string]string
	loader RasterLoader
	log    logrus.FieldLogger
}

type options struct {
	suffix string
	strict bool
	log    logrus.FieldLogger
}

// Option configures NewRegistry.
type Option func(*options)

// WithSuffix overrides DefaultImageSuffix.
func WithSuffix(suffix string) Option {
	return func(o *options) { o.suffix = suffix }
}

// WithStrict makes duplicate band identifiers a construction error instead
// of letting the later file replace the earlier one.
func WithStrict() Option {
	return func(o *options) { o.strict = true }
}

// WithLogger sets the logger used for registry events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

// NewRegistry builds the band mapping from the file names found in dir.
//
// Only names ending in the image suffix are considered. The band identifier
// is derived with BandID. When two files map to the same identifier the one
// appearing later in names wins, unless WithStrict is given.
func NewRegistry(dir string, names []string, loader RasterLoader, opts ...Option) (*Registry, error) {
	if loader == nil {
		return nil, errors.New("bands: a raster loader is required")
	}

	o := options{suffix: DefaultImageSuffix}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = discardLogger()
	}

	files := make(map[string]string)
	for _, name := range names {
		if !strings.HasSuffix(name, o.suffix) {
			continue
		}

		band := BandID(name)
		path := filepath.Join(dir, name)
		if previous, exists := files[band]; exists {
			if o.strict {
				return nil, &DuplicateBandError{Band: band, First: previous, Second: path}
			}
			o.log.WithFields(logrus.Fields{"band": band, "path": path}).
				Warnf("Band file replaces %s", previous)
		}
		files[band] = path
	}

	return &Registry{
		dir:    dir,
		files:  files,
		loader: loader,
		log:    o.log,
	}, nil
}

// BandID derives a band identifier from a file name: the last
// underscore-delimited segment, cut at its first dot.
//
//	LT05_L1TP_042034_20110704_20160831_01_T1_B3.TIF -> B3
func BandID(name string) string {
	base := filepath.Base(name)
	segment := base[strings.LastIndex(base, "_")+1:]
	id, _, _ := strings.Cut(segment, ".")
	return id
}

// Dir returns the scene directory the registry was built from.
func (r *Registry) Dir() string {
	return r.dir
}

// Len returns the number of registered bands.
func (r *Registry) Len() int {
	return len(r.files)
}

// IDs returns the registered band identifiers in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.files))
	for id := range r.files {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Path returns the raster file registered for band.
func (r *Registry) Path(band string) (string, error) {
	path, ok := r.files[band]
	if !ok {
		return "", &UnknownBandError{Band: band}
	}
	return path, nil
}

// Load reads the pixels of band. An unregistered band fails before the
// loader is invoked.
func (r *Registry) Load(band string) (*mat.Dense, error) {
	path, err := r.Path(band)
	if err != nil {
		return nil, err
	}

	data, err := r.loader.Load(path)
	if err != nil {
		return nil, &RasterLoadError{Band: band, Path: path, Err: err}
	}

	rows, cols := data.Dims()
	r.log.WithFields(logrus.Fields{"band": band, "path": path, "rows": rows, "cols": cols}).
		Debug("Loaded band raster")
	return data, nil
}

func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
