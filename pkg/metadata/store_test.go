package metadata

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMTL = `GROUP = L1_METADATA_FILE
  GROUP = IMAGE_ATTRIBUTES
    SUN_AZIMUTH = 138.21438983
    SUN_ELEVATION = 52.49218512
  END_GROUP = IMAGE_ATTRIBUTES
  GROUP = RADIOMETRIC_RESCALING
    RADIANCE_MULT_BAND_3 = 1.0440E+00
    RADIANCE_ADD_BAND_3 = -1.17010
    REFLECTANCE_MULT_BAND_3 = 2.3734E-03
    REFLECTANCE_ADD_BAND_3 = -0.002660
  END_GROUP = RADIOMETRIC_RESCALING
  GROUP = TIRS_THERMAL_CONSTANTS
    K1_CONSTANT_BAND_6 = 607.76
    K2_CONSTANT_BAND_6 = 1260.56
  END_GROUP = TIRS_THERMAL_CONSTANTS
  FILE_NAME_BAND_3 = "LT05_L1TP_042034_20110704_20160831_01_T1_B3.TIF"
END_GROUP = L1_METADATA_FILE
END
`

// TestParse verifies that key/value lines are collected and other lines are ignored
func TestParse(t *testing.T) {
	store, err := Parse(strings.NewReader(sampleMTL))
	require.NoError(t, err)

	tests := map[string]string{
		"SUN_ELEVATION":        "52.49218512",
		"RADIANCE_MULT_BAND_3": "1.0440E+00",
		"K2_CONSTANT_BAND_6":   "1260.56",
		"FILE_NAME_BAND_3":     `"LT05_L1TP_042034_20110704_20160831_01_T1_B3.TIF"`,
		"GROUP":                "TIRS_THERMAL_CONSTANTS",
		"END_GROUP":            "L1_METADATA_FILE",
	}
	for key, expected := range tests {
		got, err := store.GetString(key)
		if assert.NoError(t, err, key) {
			assert.Equal(t, expected, got, key)
		}
	}

	assert.False(t, store.Has("END"), "line without delimiter should not produce a field")
}

// TestParseValueKeepsRemainder verifies that only the first delimiter splits the line
func TestParseValueKeepsRemainder(t *testing.T) {
	store, err := Parse(strings.NewReader("EQUATION = A = B\n"))
	require.NoError(t, err)

	value, err := store.GetString("EQUATION")
	require.NoError(t, err)
	assert.Equal(t, "A = B", value)
}

// TestParseRequiresSpacedDelimiter verifies that "KEY=VALUE" lines are ignored
func TestParseRequiresSpacedDelimiter(t *testing.T) {
	store, err := Parse(strings.NewReader("COMPACT=1\nSPACED = 2\r\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, store.Len(), "fields: %v", store.Keys())
	v, _ := store.GetString("SPACED")
	assert.Equal(t, "2", v, "trailing carriage return should be trimmed")
}

// TestParseDuplicateKeys verifies that the last occurrence of a key wins
func TestParseDuplicateKeys(t *testing.T) {
	store, err := Parse(strings.NewReader("A = 1\nA = 2\n"))
	require.NoError(t, err)

	v, _ := store.GetString("A")
	assert.Equal(t, "2", v)
}

// TestKeysAreCaseSensitive verifies that lookups do not normalize keys
func TestKeysAreCaseSensitive(t *testing.T) {
	store := NewStore(map[string]string{"SUN_ELEVATION": "45"})

	_, err := store.GetString("sun_elevation")

	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing), "expected MissingFieldError, got %v", err)
	assert.Equal(t, "sun_elevation", missing.Key)
}

// TestGetFloat verifies numeric parsing and its failure modes
func TestGetFloat(t *testing.T) {
	store := NewStore(map[string]string{
		"GOOD":     "2.3734E-03",
		"SPACED":   " 12.5 ",
		"HUGE":     "1e400",
		"QUOTED":   `"1.0"`,
		"TEXT":     "L1TP",
		"NEGATIVE": "-0.002660",
	})

	v, err := store.GetFloat("GOOD")
	assert.NoError(t, err)
	assert.Equal(t, 2.3734e-03, v)

	v, err = store.GetFloat("SPACED")
	assert.NoError(t, err)
	assert.Equal(t, 12.5, v)

	v, err = store.GetFloat("NEGATIVE")
	assert.NoError(t, err)
	assert.Equal(t, -0.002660, v)

	v, err = store.GetFloat("HUGE")
	assert.NoError(t, err)
	assert.True(t, math.IsInf(v, 1), "overflow should parse as +Inf, got %v", v)

	for _, key := range []string{"QUOTED", "TEXT"} {
		_, err := store.GetFloat(key)
		var malformed *MalformedValueError
		if assert.True(t, errors.As(err, &malformed), "GetFloat(%s): expected MalformedValueError, got %v", key, err) {
			assert.Equal(t, key, malformed.Key)
		}
	}

	_, err = store.GetFloat("ABSENT")
	var missing *MissingFieldError
	assert.True(t, errors.As(err, &missing), "expected MissingFieldError, got %v", err)
}

// TestBandKey verifies the band suffix concatenation
func TestBandKey(t *testing.T) {
	tests := []struct {
		prefix   string
		band     string
		expected string
	}{
		{"RADIANCE_MULT_BAND_", "B3", "RADIANCE_MULT_BAND_3"},
		{"K1_CONSTANT_BAND_", "B6", "K1_CONSTANT_BAND_6"},
		{"RADIANCE_ADD_BAND_", "B10", "RADIANCE_ADD_BAND_0"},
		{"REFLECTANCE_ADD_BAND_", "", "REFLECTANCE_ADD_BAND_"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, BandKey(test.prefix, test.band), "BandKey(%q, %q)", test.prefix, test.band)
	}
}

// TestLocate verifies that exactly one metadata file must be present
func TestLocate(t *testing.T) {
	name, err := Locate("/scene", []string{"a_B1.TIF", "LT05_MTL.txt", "README"}, DefaultSuffix)
	require.NoError(t, err)
	assert.Equal(t, "LT05_MTL.txt", name)

	_, err = Locate("/scene", []string{"a_B1.TIF", "MTL.txt.bak"}, DefaultSuffix)
	var notFound *MetadataNotFoundError
	require.True(t, errors.As(err, &notFound), "expected MetadataNotFoundError for no match, got %v", err)
	assert.Empty(t, notFound.Matches)

	_, err = Locate("/scene", []string{"a_MTL.txt", "b_MTL.txt"}, DefaultSuffix)
	require.True(t, errors.As(err, &notFound), "expected MetadataNotFoundError for two matches, got %v", err)
	assert.Len(t, notFound.Matches, 2)
}

// TestOpen verifies reading a metadata file from disk
func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LT05_MTL.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleMTL), 0644))

	store, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, store.Source())

	k1, err := store.BandFloat("K1_CONSTANT_BAND_", "B6")
	require.NoError(t, err)
	assert.Equal(t, 607.76, k1)

	_, err = Open(filepath.Join(t.TempDir(), "missing_MTL.txt"))
	assert.Error(t, err, "opening a missing file")
}
