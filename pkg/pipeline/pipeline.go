// Package pipeline computes a batch of named products for one scene,
// summarises each one and optionally writes quicklooks.
package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"landsatlst/internal/models"
	"landsatlst/pkg/preview"
)

// Calculator is the set of product operations the pipeline drives.
// *calibration.Calculator implements it.
type Calculator interface {
	TOARadiance(band string) (*mat.Dense, error)
	TOAReflectance(band string, corrected bool) (*mat.Dense, error)
	NDVI() (*mat.Dense, error)
	Emissivity() (*mat.Dense, error)
	BrightnessTemperature() (*mat.Dense, error)
	LandSurfaceTemperature() (*mat.Dense, error)
}

// Params holds the pipeline configuration.
type Params struct {
	// Products lists product names in the order they are computed
	Products []string

	// PreviewDir receives one quicklook TIFF per product. Empty disables
	// quicklooks.
	PreviewDir string

	// Logger receives progress entries; nil means silent
	Logger logrus.FieldLogger
}

// Result is the outcome of one requested product.
type Result struct {
	Product models.Product
	Stats   models.ProductStats
	// PreviewPath is empty unless a quicklook was written
	PreviewPath string
}

// Pipeline runs Params.Products through a Calculator.
type Pipeline struct {
	params   *Params
	calc     Calculator
	requests []Request
	log      logrus.FieldLogger
	results  []Result
}

// New validates every product name up front, so a typo fails before any
// raster is read.
func New(calc Calculator, params *Params) (*Pipeline, error) {
	if calc == nil {
		return nil, fmt.Errorf("pipeline needs a calculator")
	}
	if len(params.Products) == 0 {
		return nil, fmt.Errorf("no products requested")
	}

	requests := make([]Request, 0, len(params.Products))
	for _, name := range params.Products {
		req, err := ParseProduct(name)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	log := params.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	return &Pipeline{params: params, calc: calc, requests: requests, log: log}, nil
}

// Process computes every requested product in order. The first failure
// aborts the run and is returned unchanged, so callers can still match the
// calibration error kinds with errors.As. A failed run leaves no results.
func (p *Pipeline) Process() error {
	p.results = nil
	if p.params.PreviewDir != "" {
		if err := os.MkdirAll(p.params.PreviewDir, 0755); err != nil {
			return fmt.Errorf("failed to create preview directory: %w", err)
		}
	}

	results := make([]Result, 0, len(p.requests))
	for i, req := range p.requests {
		log := p.log.WithField("product", req.Name)
		log.Infof("Step %d/%d: computing %s", i+1, len(p.requests), req.Name)

		data, err := p.compute(req)
		if err != nil {
			return err
		}

		product := models.Product{Name: req.Name, Units: req.Units(), Data: data}
		result := Result{Product: product, Stats: Summarize(data)}
		log.WithFields(logrus.Fields{
			"rows":   result.Stats.Rows,
			"cols":   result.Stats.Cols,
			"finite": result.Stats.Finite,
			"nan":    result.Stats.NaN,
		}).Debug("Summarised product")

		if p.params.PreviewDir != "" {
			path, err := preview.SaveProduct(product, p.params.PreviewDir)
			if err != nil {
				return fmt.Errorf("failed to save quicklook for %s: %w", req.Name, err)
			}
			log.WithField("path", path).Info("Saved quicklook")
			result.PreviewPath = path
		}

		results = append(results, result)
	}
	p.results = results
	return nil
}

// Results returns the products computed by the last Process call, in
// request order.
func (p *Pipeline) Results() []Result {
	return p.results
}

func (p *Pipeline) compute(req Request) (*mat.Dense, error) {
	switch req.Op {
	case OpRadiance:
		return p.calc.TOARadiance(req.Band)
	case OpReflectance:
		return p.calc.TOAReflectance(req.Band, true)
	case OpReflectanceRaw:
		return p.calc.TOAReflectance(req.Band, false)
	case OpNDVI:
		return p.calc.NDVI()
	case OpEmissivity:
		return p.calc.Emissivity()
	case OpBT:
		return p.calc.BrightnessTemperature()
	case OpLST:
		return p.calc.LandSurfaceTemperature()
	}
	return nil, &UnknownProductError{Name: req.Name}
}
