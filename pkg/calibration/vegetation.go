package calibration

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Landsat 5 TM band assignments.
const (
	RedBand = "B3"
	NIRBand = "B4"
)

// Vegetation-proportion emissivity model: ε = EmissivitySlope·Pv + EmissivityBase.
const (
	EmissivitySlope = 0.004
	EmissivityBase  = 0.986
)

const (
	opNDVI       = "ndvi"
	opEmissivity = "emissivity"
)

// NDVI computes (NIR - red) / (NIR + red) from corrected TOA reflectance of
// RedBand and NIRBand. Pixels whose reflectance sum is exactly zero are NaN
// or ±Inf.
func (c *Calculator) NDVI() (*mat.Dense, error) {
	return c.product(productKey{op: opNDVI}, func() (*mat.Dense, error) {
		red, err := c.TOAReflectance(RedBand, true)
		if err != nil {
			return nil, err
		}
		nir, err := c.TOAReflectance(NIRBand, true)
		if err != nil {
			return nil, err
		}
		if err := sameShape(opNDVI, nir, red); err != nil {
			return nil, err
		}

		var difference, sum mat.Dense
		difference.Sub(nir, red)
		sum.Add(nir, red)
		difference.DivElem(&difference, &sum)
		return &difference, nil
	})
}

// Emissivity estimates surface emissivity from the scene's NDVI range:
//
//	Pv = ((ndvi - min) / (max - min))²
//	ε  = 0.004·Pv + 0.986
//
// min and max are taken over the whole scene and are NaN if any NDVI pixel is
// NaN. A uniform NDVI (max == min) makes every pixel NaN.
func (c *Calculator) Emissivity() (*mat.Dense, error) {
	return c.product(productKey{op: opEmissivity}, func() (*mat.Dense, error) {
		ndvi, err := c.NDVI()
		if err != nil {
			return nil, err
		}

		low, high := extrema(ndvi)
		span := high - low

		var emissivity mat.Dense
		emissivity.Apply(func(_, _ int, v float64) float64 {
			scaled := (v - low) / span
			proportion := scaled * scaled
			return float64(EmissivitySlope*proportion) + EmissivityBase
		}, ndvi)
		return &emissivity, nil
	})
}

// extrema returns the minimum and maximum of m. Unlike floats.Min and
// floats.Max, a single NaN makes both results NaN.
func extrema(m *mat.Dense) (low, high float64) {
	rows, _ := m.Dims()
	low, high = math.Inf(1), math.Inf(-1)
	for i := 0; i < rows; i++ {
		row := m.RawRowView(i)
		if floats.HasNaN(row) {
			return math.NaN(), math.NaN()
		}
		low = math.Min(low, floats.Min(row))
		high = math.Max(high, floats.Max(row))
	}
	return low, high
}
