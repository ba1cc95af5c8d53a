package calibration

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DimensionMismatchError reports two input arrays of a product that do not
// share the same shape, e.g. a red band and a NIR band of different sizes.
type DimensionMismatchError struct {
	Product   string
	LeftRows  int
	LeftCols  int
	RightRows int
	RightCols int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: input shapes differ (%dx%d vs %dx%d)",
		e.Product, e.LeftRows, e.LeftCols, e.RightRows, e.RightCols)
}

func sameShape(product string, a, b mat.Matrix) error {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return &DimensionMismatchError{
			Product:   product,
			LeftRows:  ar,
			LeftCols:  ac,
			RightRows: br,
			RightCols: bc,
		}
	}
	return nil
}
