package calibration

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"landsatlst/pkg/metadata"
)

// Metadata key prefixes, completed with the band's trailing digit.
const (
	radianceMultPrefix    = "RADIANCE_MULT_BAND_"
	radianceAddPrefix     = "RADIANCE_ADD_BAND_"
	reflectanceMultPrefix = "REFLECTANCE_MULT_BAND_"
	reflectanceAddPrefix  = "REFLECTANCE_ADD_BAND_"
)

// SunElevationKey holds the scene-wide solar elevation angle in degrees.
const SunElevationKey = "SUN_ELEVATION"

const (
	opRadiance    = "radiance"
	opReflectance = "reflectance"
)

// TOARadiance converts the digital numbers of band to top-of-atmosphere
// spectral radiance in W/(m² sr µm):
//
//	radiance = DN * RADIANCE_MULT_BAND_n + RADIANCE_ADD_BAND_n
func (c *Calculator) TOARadiance(band string) (*mat.Dense, error) {
	return c.product(productKey{op: opRadiance, band: band}, func() (*mat.Dense, error) {
		if _, err := c.bands.Path(band); err != nil {
			return nil, err
		}
		gain, bias, err := c.bandGainBias(radianceMultPrefix, radianceAddPrefix, band)
		if err != nil {
			return nil, err
		}

		dn, err := c.loadBand(band)
		if err != nil {
			return nil, err
		}
		return affine(dn, gain, bias), nil
	})
}

// TOAReflectance converts the digital numbers of band to top-of-atmosphere
// reflectance. When corrected is true the result is divided by the sine of
// the solar elevation; an elevation of 0° therefore yields ±Inf or NaN pixels.
//
// Gain, bias and SUN_ELEVATION are all read before the band is loaded, so a
// missing constant is reported as *metadata.MissingFieldError ahead of any
// *bands.RasterLoadError.
func (c *Calculator) TOAReflectance(band string, corrected bool) (*mat.Dense, error) {
	key := productKey{op: opReflectance, band: band, corrected: corrected}
	return c.product(key, func() (*mat.Dense, error) {
		if _, err := c.bands.Path(band); err != nil {
			return nil, err
		}
		gain, bias, err := c.bandGainBias(reflectanceMultPrefix, reflectanceAddPrefix, band)
		if err != nil {
			return nil, err
		}

		sinElevation := 1.0
		if corrected {
			elevation, err := c.constants.GetFloat(SunElevationKey)
			if err != nil {
				return nil, err
			}
			sinElevation = math.Sin(elevation * math.Pi / 180)
		}

		dn, err := c.loadBand(band)
		if err != nil {
			return nil, err
		}

		reflectance := affine(dn, gain, bias)
		if corrected {
			reflectance.Apply(func(_, _ int, v float64) float64 {
				return v / sinElevation
			}, reflectance)
		}
		return reflectance, nil
	})
}

func (c *Calculator) bandGainBias(gainPrefix, biasPrefix, band string) (gain, bias float64, err error) {
	gain, err = c.constants.GetFloat(metadata.BandKey(gainPrefix, band))
	if err != nil {
		return 0, 0, err
	}
	bias, err = c.constants.GetFloat(metadata.BandKey(biasPrefix, band))
	if err != nil {
		return 0, 0, err
	}
	return gain, bias, nil
}

// affine returns src*gain + bias in a new matrix. The product is rounded
// before the addition so no fused multiply-add alters the result.
func affine(src *mat.Dense, gain, bias float64) *mat.Dense {
	var dst mat.Dense
	dst.Apply(func(_, _ int, v float64) float64 {
		return float64(v*gain) + bias
	}, src)
	return &dst
}
