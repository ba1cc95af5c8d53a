// Package raster decodes single-band TIFF/GeoTIFF files into matrices of
// digital numbers.
package raster

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/tiff"
	"gonum.org/v1/gonum/mat"
)

// TIFFLoader reads band files with golang.org/x/image/tiff. GeoTIFF tags are
// ignored; only the pixel samples are returned.
type TIFFLoader struct{}

// NewTIFFLoader returns a loader for TIFF band files.
func NewTIFFLoader() *TIFFLoader {
	return &TIFFLoader{}
}

// Load opens and decodes the TIFF at path.
func (l *TIFFLoader) Load(path string) (*mat.Dense, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening raster")
	}
	defer file.Close()

	return Decode(file)
}

// Decode reads one TIFF image from r and converts it to a rows x cols matrix.
func Decode(r io.Reader) (*mat.Dense, error) {
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "decoding TIFF")
	}
	return ToDense(img)
}

// ToDense extracts the stored sample of every pixel of a single-channel image.
// 8 and 16 bit grayscale images yield their gray level and paletted images
// yield the palette index, so the raw DN is preserved in every case.
func ToDense(img image.Image) (*mat.Dense, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster has no pixels (%dx%d)", width, height)
	}

	data := make([]float64, width*height)
	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				data[y*width+x] = float64(src.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)
			}
		}
	case *image.Gray16:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				data[y*width+x] = float64(src.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y)
			}
		}
	case *image.Paletted:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				data[y*width+x] = float64(src.ColorIndexAt(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
	default:
		return nil, fmt.Errorf("unsupported pixel layout %T: expected a single-band image", img)
	}

	return mat.NewDense(height, width, data), nil
}
