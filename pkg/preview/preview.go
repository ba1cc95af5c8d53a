// Package preview renders derived products as 16-bit grayscale quicklook
// TIFFs so a run can be inspected without a GIS.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"

	"landsatlst/internal/models"
)

// Renderer turns one product into a quicklook image.
type Renderer struct {
	product models.Product

	// finite value range used for the linear stretch
	low  float64
	high float64
	// any reports whether at least one pixel is finite
	any bool
}

// NewRenderer prepares a renderer for product, scanning it once for the
// finite value range.
func NewRenderer(product models.Product) *Renderer {
	r := &Renderer{product: product, low: math.Inf(1), high: math.Inf(-1)}

	rows, cols := product.Data.Dims()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := product.Data.At(y, x)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			r.any = true
			r.low = math.Min(r.low, v)
			r.high = math.Max(r.high, v)
		}
	}
	return r
}

// Range returns the finite value range and whether any finite pixel exists.
func (r *Renderer) Range() (low, high float64, ok bool) {
	return r.low, r.high, r.any
}

// Render stretches finite values linearly from the finite minimum (black) to
// the finite maximum (white). NaN and infinite pixels are black; a product
// with a single finite value renders mid-gray.
func (r *Renderer) Render() *image.Gray16 {
	rows, cols := r.product.Data.Dims()
	img := image.NewGray16(image.Rect(0, 0, cols, rows))

	span := r.high - r.low
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := r.product.Data.At(y, x)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}

			var level float64
			switch {
			case math.IsInf(span, 1):
				// halves cannot overflow
				level = (v/2 - r.low/2) / (r.high/2 - r.low/2) * 65535
			case span > 0:
				level = (v - r.low) / span * 65535
			default:
				level = 32768
			}
			if math.IsNaN(level) {
				continue
			}
			value := uint16(math.Max(0, math.Min(65535, math.Round(level))))
			img.SetGray16(x, y, color.Gray16{Y: value})
		}
	}
	return img
}

// Save renders the product and writes it to filename as a deflate
// compressed TIFF.
func (r *Renderer) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err := tiff.Encode(file, r.Render(), &tiff.Options{Compression: tiff.Deflate}); err != nil {
		file.Close()
		return fmt.Errorf("encoding quicklook %s: %w", filename, err)
	}
	return file.Close()
}

// Render is shorthand for NewRenderer(product).Render().
func Render(product models.Product) *image.Gray16 {
	return NewRenderer(product).Render()
}

// Save writes a quicklook of product to filename.
func Save(product models.Product, filename string) error {
	return NewRenderer(product).Save(filename)
}

// SaveProduct writes a quicklook of product into outputDir, naming the file
// after the product, and returns the file path.
func SaveProduct(product models.Product, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}

	filename := filepath.Join(outputDir, FileName(product.Name))
	if err := Save(product, filename); err != nil {
		return "", err
	}
	return filename, nil
}

// FileName maps a product name to a quicklook file name: "radiance:B3"
// becomes "radiance_B3.tif".
func FileName(productName string) string {
	replacer := strings.NewReplacer(":", "_", "/", "_", "\\", "_", " ", "_")
	return replacer.Replace(productName) + ".tif"
}
