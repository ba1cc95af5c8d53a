// Package calibration turns raw Landsat digital numbers into calibrated
// radiometric and thermal products: top-of-atmosphere radiance and
// reflectance, NDVI, emissivity, brightness temperature and land surface
// temperature.
//
// Every product is a freshly allocated *mat.Dense with the shape of its source
// band(s). Degenerate arithmetic (division by zero, logarithm of a
// non-positive value) is not an error: it yields NaN or ±Inf pixels exactly as
// IEEE-754 prescribes. Lookup and I/O failures are returned unchanged from the
// metadata and bands packages.
//
// By default nothing is cached, so a high level product such as
// LandSurfaceTemperature reloads and recomputes its whole dependency chain on
// each call. WithMemoization enables a per-calculator cache.
package calibration

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"landsatlst/pkg/scene"
)

// ConstantSource supplies numeric calibration constants by metadata key.
// *metadata.Store implements it.
type ConstantSource interface {
	GetFloat(key string) (float64, error)
}

// BandSource resolves and loads band rasters. *bands.Registry implements it.
type BandSource interface {
	Path(band string) (string, error)
	Load(band string) (*mat.Dense, error)
}

// Calculator derives products for one scene.
type Calculator struct {
	constants ConstantSource
	bands     BandSource
	log       logrus.FieldLogger
	memo      *memo
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithLogger sets the logger used to report computed products.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Calculator) { c.log = log }
}

// WithMemoization caches band rasters and derived products for the lifetime
// of the calculator. Results are identical to the uncached path; callers
// always receive their own copy.
func WithMemoization() Option {
	return func(c *Calculator) { c.memo = newMemo() }
}

// New returns a calculator reading constants from constants and pixels from bands.
func New(constants ConstantSource, bands BandSource, opts ...Option) *Calculator {
	c := &Calculator{constants: constants, bands: bands}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		c.log = discard
	}
	return c
}

// ForScene returns a calculator over a loaded scene.
func ForScene(s *scene.Scene, opts ...Option) *Calculator {
	return New(s.Metadata(), s.Bands(), opts...)
}

// loadBand returns the raw pixels of band. Cached rasters are shared, never
// handed out: every product writes into a new matrix.
func (c *Calculator) loadBand(band string) (*mat.Dense, error) {
	if c.memo != nil {
		if data, ok := c.memo.raster(band); ok {
			return data, nil
		}
	}

	data, err := c.bands.Load(band)
	if err != nil {
		return nil, err
	}

	if c.memo != nil {
		c.memo.storeRaster(band, data)
	}
	return data, nil
}

// product runs compute, consulting the memo when enabled.
func (c *Calculator) product(key productKey, compute func() (*mat.Dense, error)) (*mat.Dense, error) {
	if c.memo != nil {
		if data, ok := c.memo.product(key); ok {
			return mat.DenseCopyOf(data), nil
		}
	}

	data, err := compute()
	if err != nil {
		return nil, err
	}

	rows, cols := data.Dims()
	c.log.WithFields(logrus.Fields{
		"product": key.String(),
		"rows":    rows,
		"cols":    cols,
	}).Debug("Computed product")

	if c.memo != nil {
		c.memo.storeProduct(key, mat.DenseCopyOf(data))
	}
	return data, nil
}

type productKey struct {
	op        string
	band      string
	corrected bool
}

func (k productKey) String() string {
	name := k.op
	if k.band != "" {
		name += ":" + k.band
	}
	if k.op == opReflectance && !k.corrected {
		name += " (uncorrected)"
	}
	return name
}

type memo struct {
	mu       sync.Mutex
	rasters  map[string]*mat.Dense
	products map[productKey]*mat.Dense
}

func newMemo() *memo {
	return &memo{
		rasters:  make(map[string]*mat.Dense),
		products: make(map[productKey]*mat.Dense),
	}
}

func (m *memo) raster(band string) (*mat.Dense, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.rasters[band]
	return data, ok
}

func (m *memo) storeRaster(band string, data *mat.Dense) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rasters[band] = data
}

func (m *memo) product(key productKey) (*mat.Dense, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.products[key]
	return data, ok
}

func (m *memo) storeProduct(key productKey, data *mat.Dense) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[key] = data
}
