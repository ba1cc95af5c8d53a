package pipeline

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"landsatlst/internal/models"
)

// Summarize counts the non-finite pixels of data and describes the finite
// ones. StdDev is the sample standard deviation, so it needs at least two
// finite pixels; the summary fields are NaN when there are none.
func Summarize(data *mat.Dense) models.ProductStats {
	rows, cols := data.Dims()
	s := models.ProductStats{Rows: rows, Cols: cols}

	finite := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for _, v := range data.RawRowView(i) {
			switch {
			case math.IsNaN(v):
				s.NaN++
			case math.IsInf(v, 1):
				s.PosInf++
			case math.IsInf(v, -1):
				s.NegInf++
			default:
				finite = append(finite, v)
			}
		}
	}
	s.Finite = len(finite)

	if s.Finite == 0 {
		s.Min, s.Max, s.Mean, s.StdDev = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return s
	}

	s.Min = floats.Min(finite)
	s.Max = floats.Max(finite)
	s.Mean, s.StdDev = stat.MeanStdDev(finite, nil)
	return s
}
