package bands

import "fmt"

// UnknownBandError reports a band identifier with no registered file.
type UnknownBandError struct {
	Band string
}

func (e *UnknownBandError) Error() string {
	return fmt.Sprintf("unknown band %q", e.Band)
}

// RasterLoadError reports a failure of the raster loader for a band file.
type RasterLoadError struct {
	Band string
	Path string
	Err  error
}

func (e *RasterLoadError) Error() string {
	return fmt.Sprintf("failed to load band %s from %s: %v", e.Band, e.Path, e.Err)
}

func (e *RasterLoadError) Unwrap() error {
	return e.Err
}

// DuplicateBandError reports two files mapping to the same band identifier
// when the registry is built in strict mode.
type DuplicateBandError struct {
	Band   string
	First  string
	Second string
}

func (e *DuplicateBandError) Error() string {
	return fmt.Sprintf("band %s is provided by both %s and %s", e.Band, e.First, e.Second)
}
