package scene_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
	"gonum.org/v1/gonum/mat"

	"landsatlst/pkg/bands"
	"landsatlst/pkg/calibration"
	"landsatlst/pkg/metadata"
	"landsatlst/pkg/scene"
)

const sceneID = "LT05_L1TP_042034_20110704_20160831_01_T1"

const sampleMTL = `GROUP = L1_METADATA_FILE
  GROUP = IMAGE_ATTRIBUTES
    SUN_ELEVATION = 61.5
  END_GROUP = IMAGE_ATTRIBUTES
  GROUP = RADIOMETRIC_RESCALING
    RADIANCE_MULT_BAND_3 = 1.0440
    RADIANCE_ADD_BAND_3 = -1.17010
  END_GROUP = RADIOMETRIC_RESCALING
END_GROUP = L1_METADATA_FILE
END
`

func writeFile(t *testing.T, dir, name string, content []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), content, 0644))
}

func writeBand(t *testing.T, dir, name string, width, height int, value func(x, y int) uint16) {
	t.Helper()
	img := image.NewGray16(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray16(x, y, color.Gray16{Y: value(x, y)})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate}))
	writeFile(t, dir, name, buf.Bytes())
}

// newSceneDir lays out a minimal scene with bands B3, B4 and B6
func newSceneDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, sceneID+"_MTL.txt", []byte(sampleMTL))
	for i, band := range []string{"B3", "B4", "B6"} {
		offset := uint16(10 * (i + 1))
		writeBand(t, dir, sceneID+"_"+band+".TIF", 3, 2, func(x, y int) uint16 {
			return offset + uint16(3*y+x)
		})
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := newSceneDir(t)
	writeFile(t, dir, "README", []byte("not part of the scene"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested_B9.TIF"), 0755))

	s, err := scene.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, s.Dir())
	assert.Equal(t, []string{"B3", "B4", "B6"}, s.Bands().IDs())
	assert.Equal(t, filepath.Join(dir, sceneID+"_MTL.txt"), s.Metadata().Source())

	elevation, err := s.Metadata().GetFloat("SUN_ELEVATION")
	require.NoError(t, err)
	assert.Equal(t, 61.5, elevation)

	data, err := s.Bands().Load("B4")
	require.NoError(t, err)
	assert.True(t, mat.Equal(mat.NewDense(2, 3, []float64{20, 21, 22, 23, 24, 25}), data))
}

func TestLoad_MetadataCount(t *testing.T) {
	dir := t.TempDir()
	writeBand(t, dir, sceneID+"_B3.TIF", 1, 1, func(int, int) uint16 { return 1 })

	_, err := scene.Load(dir)
	var notFound *metadata.MetadataNotFoundError
	require.True(t, errors.As(err, &notFound), "got %v", err)
	assert.Empty(t, notFound.Matches)

	writeFile(t, dir, "A_MTL.txt", []byte(sampleMTL))
	writeFile(t, dir, "B_MTL.txt", []byte(sampleMTL))

	_, err = scene.Load(dir)
	require.True(t, errors.As(err, &notFound), "got %v", err)
	assert.Equal(t, []string{"A_MTL.txt", "B_MTL.txt"}, notFound.Matches)
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := scene.Load(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestLoad_DuplicateBands(t *testing.T) {
	dir := newSceneDir(t)
	writeBand(t, dir, "ZZ_B3.TIF", 3, 2, func(int, int) uint16 { return 999 })

	// Mock
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	// Tested code
	s, err := scene.Load(dir, scene.WithLogger(logger))

	// Asserts
	require.NoError(t, err)
	path, err := s.Bands().Path("B3")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ZZ_B3.TIF"), path, "later file in listing order wins")

	warned := false
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Data["band"] == "B3" {
			warned = true
		}
	}
	assert.True(t, warned, "duplicate band should be logged")

	_, err = scene.Load(dir, scene.WithStrictBands(true))
	var duplicate *bands.DuplicateBandError
	require.True(t, errors.As(err, &duplicate), "got %v", err)
	assert.Equal(t, "B3", duplicate.Band)
}

func TestLoad_Options(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scene_meta.cfg", []byte(sampleMTL))
	writeFile(t, dir, "scene_B3.raw", []byte("opaque"))

	var loaded []string
	loader := bands.LoaderFunc(func(path string) (*mat.Dense, error) {
		loaded = append(loaded, path)
		return mat.NewDense(1, 1, []float64{7}), nil
	})

	s, err := scene.Load(dir,
		scene.WithMetadataSuffix("_meta.cfg"),
		scene.WithImageSuffix(".raw"),
		scene.WithLoader(loader),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"B3"}, s.Bands().IDs())

	data, err := s.Bands().Load("B3")
	require.NoError(t, err)
	assert.Equal(t, 7.0, data.At(0, 0))
	assert.Equal(t, []string{filepath.Join(dir, "scene_B3.raw")}, loaded)
}

// TestForScene computes radiance end to end from files on disk
func TestForScene(t *testing.T) {
	s, err := scene.Load(newSceneDir(t))
	require.NoError(t, err)

	radiance, err := calibration.ForScene(s).TOARadiance("B3")
	require.NoError(t, err)

	gain, bias := 1.0440, -1.17010
	rows, cols := radiance.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, 3, cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			dn := float64(10 + 3*y + x)
			assert.Equal(t, float64(dn*gain)+bias, radiance.At(y, x))
		}
	}

	_, err = calibration.ForScene(s).TOARadiance("B7")
	var unknown *bands.UnknownBandError
	assert.True(t, errors.As(err, &unknown))
}
