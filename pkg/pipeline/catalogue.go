package pipeline

import (
	"fmt"
	"strings"
)

// Product operations understood by ParseProduct.
const (
	OpRadiance       = "radiance"
	OpReflectance    = "reflectance"
	OpReflectanceRaw = "reflectance-raw"
	OpNDVI           = "ndvi"
	OpEmissivity     = "emissivity"
	OpBT             = "bt"
	OpLST            = "lst"
)

var units = map[string]string{
	OpRadiance:       "W/(m² sr µm)",
	OpReflectance:    "1",
	OpReflectanceRaw: "1",
	OpNDVI:           "1",
	OpEmissivity:     "1",
	OpBT:             "K",
	OpLST:            "K",
}

// Request is a parsed product name.
type Request struct {
	Name string
	Op   string
	// Band is set for per-band operations only
	Band string
}

// Units returns the physical unit of the requested product.
func (r Request) Units() string {
	return units[r.Op]
}

// UnknownProductError reports a product name outside the catalogue.
type UnknownProductError struct {
	Name string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product %q (expected one of %s)", e.Name, strings.Join(Catalogue(), ", "))
}

// Catalogue lists the accepted product name forms.
func Catalogue() []string {
	return []string{
		OpRadiance + ":<band>",
		OpReflectance + ":<band>",
		OpReflectanceRaw + ":<band>",
		OpNDVI,
		OpEmissivity,
		OpBT,
		OpLST,
	}
}

// ParseProduct validates a product name. Per-band products take the form
// "op:band", for example "reflectance:B3"; scene products are bare names.
// Whether the band exists is only known once the product is computed.
func ParseProduct(name string) (Request, error) {
	op, band, perBand := strings.Cut(name, ":")

	switch op {
	case OpRadiance, OpReflectance, OpReflectanceRaw:
		if !perBand || band == "" {
			return Request{}, &UnknownProductError{Name: name}
		}
	case OpNDVI, OpEmissivity, OpBT, OpLST:
		if perBand {
			return Request{}, &UnknownProductError{Name: name}
		}
	default:
		return Request{}, &UnknownProductError{Name: name}
	}

	return Request{Name: name, Op: op, Band: band}, nil
}
