package calibration

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ThermalBand is the Landsat 5 TM thermal infrared band.
const ThermalBand = "B6"

// Thermal conversion constants of ThermalBand.
const (
	K1Key = "K1_CONSTANT_BAND_6"
	K2Key = "K2_CONSTANT_BAND_6"
)

// Physical constants of the single-channel LST correction.
const (
	// RadiationConstant is the ρ = h·c/σ term of the correction.
	RadiationConstant = 1.438e2
	// ThermalWavelength is the effective wavelength of ThermalBand in µm.
	ThermalWavelength = 11.45
)

const (
	opBrightnessTemperature = "bt"
	opSurfaceTemperature    = "lst"
)

// BrightnessTemperature computes the at-sensor brightness temperature in
// kelvin of ThermalBand: K2 / (ln(K1 / radiance) + 1).
// Non-positive radiance produces NaN or Inf pixels.
//
// K1 and K2 are read before the band is loaded, so a scene missing a
// constant fails with *metadata.MissingFieldError even when the raster is
// also unreadable.
func (c *Calculator) BrightnessTemperature() (*mat.Dense, error) {
	return c.product(productKey{op: opBrightnessTemperature}, func() (*mat.Dense, error) {
		if _, err := c.bands.Path(ThermalBand); err != nil {
			return nil, err
		}
		k1, err := c.constants.GetFloat(K1Key)
		if err != nil {
			return nil, err
		}
		k2, err := c.constants.GetFloat(K2Key)
		if err != nil {
			return nil, err
		}

		radiance, err := c.TOARadiance(ThermalBand)
		if err != nil {
			return nil, err
		}

		var bt mat.Dense
		bt.Apply(func(_, _ int, v float64) float64 {
			return k2 / (math.Log(k1/v) + 1)
		}, radiance)
		return &bt, nil
	})
}

// LandSurfaceTemperature corrects brightness temperature for emissivity:
//
//	LST = BT / (1 + ln(ε)·λ·BT / ρ)
//
// with λ = ThermalWavelength and ρ = RadiationConstant. NaN emissivity
// (for example from a uniform NDVI) propagates to the result.
func (c *Calculator) LandSurfaceTemperature() (*mat.Dense, error) {
	return c.product(productKey{op: opSurfaceTemperature}, func() (*mat.Dense, error) {
		bt, err := c.BrightnessTemperature()
		if err != nil {
			return nil, err
		}
		emissivity, err := c.Emissivity()
		if err != nil {
			return nil, err
		}
		if err := sameShape(opSurfaceTemperature, bt, emissivity); err != nil {
			return nil, err
		}

		var lst mat.Dense
		lst.Apply(func(i, j int, t float64) float64 {
			return t / (1 + math.Log(emissivity.At(i, j))*ThermalWavelength*t/RadiationConstant)
		}, bt)
		return &lst, nil
	})
}
