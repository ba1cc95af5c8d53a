// Package metadata parses Landsat MTL scene metadata files and exposes typed
// lookups of the calibration constants stored in them.
//
// An MTL file is plain text with one field per line in the form
//
//	KEY = VALUE
//
// Lines that do not contain the " = " delimiter are ignored. Values are kept
// as raw strings and only converted to numbers when a numeric accessor asks
// for them.
package metadata

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultSuffix is the filename suffix identifying the metadata file of a scene.
const DefaultSuffix = "MTL.txt"

// delimiter separates a key from its value on a metadata line.
const delimiter = " = "

// maxLineLength bounds a single metadata line.
const maxLineLength = 1 << 20

// Store is an immutable key/value view of one scene's metadata.
type Store struct {
	// source is the path the store was parsed from, empty for in-memory stores
	source string

	// fields maps the exact, case-sensitive key to its raw value
	fields map[string]string
}

// NewStore builds a store from an in-memory mapping. The map is copied.
func NewStore(fields map[string]string) *Store {
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &Store{fields: copied}
}

// Parse reads metadata lines from r.
//
// Each line is trimmed of surrounding whitespace. A line containing " = "
// contributes a field whose key is the text before the first delimiter and
// whose value is everything after it. Keys are not normalized. A key seen more
// than once keeps its last value.
func Parse(r io.Reader) (*Store, error) {
	store := &Store{fields: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, found := strings.Cut(line, delimiter)
		if !found {
			continue
		}
		store.fields[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading metadata: %w", err)
	}

	return store, nil
}

// Open parses the metadata file at path.
func Open(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening metadata file: %w", err)
	}
	defer file.Close()

	store, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	store.source = path
	return store, nil
}

// Locate picks the single name in names that ends with suffix. Zero or
// several matches yield a *MetadataNotFoundError naming dir.
func Locate(dir string, names []string, suffix string) (string, error) {
	var matches []string
	for _, name := range names {
		if strings.HasSuffix(name, suffix) {
			matches = append(matches, name)
		}
	}

	if len(matches) != 1 {
		return "", &MetadataNotFoundError{Dir: dir, Suffix: suffix, Matches: matches}
	}
	return matches[0], nil
}

// Source returns the path the store was read from.
func (s *Store) Source() string {
	return s.source
}

// Len returns the number of fields.
func (s *Store) Len() int {
	return len(s.fields)
}

// Keys returns all field keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.fields))
	for k := range s.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.fields[key]
	return ok
}

// GetString returns the raw value stored under key.
func (s *Store) GetString(key string) (string, error) {
	value, ok := s.fields[key]
	if !ok {
		return "", &MissingFieldError{Key: key}
	}
	return value, nil
}

// GetFloat returns the value stored under key parsed as a 64-bit float.
// Values that overflow parse to ±Inf rather than failing.
func (s *Store) GetFloat(key string) (float64, error) {
	raw, err := s.GetString(key)
	if err != nil {
		return 0, err
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, &MalformedValueError{Key: key, Value: raw, Err: err}
	}
	return value, nil
}

// BandFloat looks up prefix joined with the band's trailing character, e.g.
// ("RADIANCE_MULT_BAND_", "B3") reads RADIANCE_MULT_BAND_3.
func (s *Store) BandFloat(prefix, band string) (float64, error) {
	return s.GetFloat(BandKey(prefix, band))
}

// BandKey joins prefix with the last character of band. Multi-digit bands
// such as B10 therefore resolve to the suffix "0".
func BandKey(prefix, band string) string {
	if band == "" {
		return prefix
	}
	_, size := utf8.DecodeLastRuneInString(band)
	return prefix + band[len(band)-size:]
}
