package models

import (
	"gonum.org/v1/gonum/mat"
)

// Product is one derived quantity for a scene, ready to be summarised or
// rendered.
type Product struct {
	// Name is the catalogue name the product was requested by, e.g. "ndvi"
	// or "radiance:B3"
	Name string

	// Units describes the physical unit of the values
	Units string

	// Data holds one value per pixel, rows being image lines
	Data *mat.Dense
}

// ProductStats summarises a product. Min, Max, Mean and StdDev are computed
// over finite pixels only and are NaN when there are none.
type ProductStats struct {
	Rows   int
	Cols   int
	Finite int
	NaN    int
	PosInf int
	NegInf int

	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}
