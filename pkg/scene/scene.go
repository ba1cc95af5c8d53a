// Package scene loads one satellite acquisition from a directory: its MTL
// metadata and its single-band raster files.
package scene

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"landsatlst/pkg/bands"
	"landsatlst/pkg/metadata"
	"landsatlst/pkg/raster"
)

// Scene is an immutable view of one acquisition directory.
type Scene struct {
	dir      string
	metadata *metadata.Store
	bands    *bands.Registry
}

type options struct {
	loader         bands.RasterLoader
	log            logrus.FieldLogger
	strictBands    bool
	metadataSuffix string
	imageSuffix    string
}

// Option configures Load.
type Option func(*options)

// WithLoader replaces the default TIFF raster loader.
func WithLoader(loader bands.RasterLoader) Option {
	return func(o *options) { o.loader = loader }
}

// WithLogger sets the logger for scene and band events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

// WithStrictBands rejects scenes in which two files map to the same band.
func WithStrictBands(strict bool) Option {
	return func(o *options) { o.strictBands = strict }
}

// WithMetadataSuffix overrides metadata.DefaultSuffix.
func WithMetadataSuffix(suffix string) Option {
	return func(o *options) { o.metadataSuffix = suffix }
}

// WithImageSuffix overrides bands.DefaultImageSuffix.
func WithImageSuffix(suffix string) Option {
	return func(o *options) { o.imageSuffix = suffix }
}

// Load reads the scene in dir. It fails with *metadata.MetadataNotFoundError
// unless exactly one metadata file is present.
func Load(dir string, opts ...Option) (*Scene, error) {
	o := options{
		metadataSuffix: metadata.DefaultSuffix,
		imageSuffix:    bands.DefaultImageSuffix,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.loader == nil {
		o.loader = raster.NewTIFFLoader()
	}
	if o.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		o.log = discard
	}
	log := o.log.WithField("scene", dir)

	names, err := listFiles(dir)
	if err != nil {
		return nil, err
	}

	metadataName, err := metadata.Locate(dir, names, o.metadataSuffix)
	if err != nil {
		return nil, err
	}
	store, err := metadata.Open(filepath.Join(dir, metadataName))
	if err != nil {
		return nil, err
	}
	log.WithField("path", store.Source()).Debugf("Parsed %d metadata fields", store.Len())

	bandOpts := []bands.Option{bands.WithSuffix(o.imageSuffix), bands.WithLogger(log)}
	if o.strictBands {
		bandOpts = append(bandOpts, bands.WithStrict())
	}
	registry, err := bands.NewRegistry(dir, names, o.loader, bandOpts...)
	if err != nil {
		return nil, err
	}
	log.Debugf("Discovered bands %v", registry.IDs())

	return &Scene{dir: dir, metadata: store, bands: registry}, nil
}

// New assembles a scene from already-built parts.
func New(dir string, store *metadata.Store, registry *bands.Registry) *Scene {
	return &Scene{dir: dir, metadata: store, bands: registry}
}

// Dir returns the source directory.
func (s *Scene) Dir() string { return s.dir }

// Metadata returns the scene's metadata store.
func (s *Scene) Metadata() *metadata.Store { return s.metadata }

// Bands returns the scene's band registry.
func (s *Scene) Bands() *bands.Registry { return s.bands }

// listFiles returns the names of the non-directory entries of dir, sorted by name.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading scene directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
