package io

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/dmdpattern/pkg/dmd"
	"github.com/matzehuels/dmdpattern/pkg/errors"
	"github.com/matzehuels/dmdpattern/pkg/pattern"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 13), uint8(y * 7), uint8(x ^ y), 0xff})
		}
	}
	return img
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.bmp", FormatBMP, false},
		{"dir/A.BMP", FormatBMP, false},
		{"b.png", FormatPNG, false},
		{"c.jpg", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	// Odd width exercises BMP row padding.
	src := testImage(7, 5)
	for _, format := range []Format{FormatBMP, FormatPNG} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, src, format))

			img, got, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, format, got)
			assert.Equal(t, src.Bounds(), img.Bounds())
			for y := 0; y < 5; y++ {
				for x := 0; x < 7; x++ {
					assert.Equal(t, src.RGBAAt(x, y), color.RGBAModel.Convert(img.At(x, y)), "(%d, %d)", x, y)
				}
			}
		})
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, testImage(1, 1), "gif")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestDecodeGarbage(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("not an image")))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestLoadImageMissing(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "missing.bmp"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestSaveFrame(t *testing.T) {
	f, err := dmd.NewFrame(dmd.Geometry{Rows: 6, Cols: 4, Flip: true})
	require.NoError(t, err)
	require.NoError(t, f.DrawPattern(pattern.PointSet{{Row: 2, Col: 1}}, dmd.White))

	dir := filepath.Join(t.TempDir(), "out")
	paths, err := SaveFrame(dir, "dot.bmp", f, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pattern_dot.bmp"), paths.Pattern)
	assert.Equal(t, filepath.Join(dir, "template_dot.bmp"), paths.Template)

	mirror, err := LoadImage(paths.Pattern)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 6), mirror.Bounds())
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, color.RGBAModel.Convert(mirror.At(1, 2)))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, color.RGBAModel.Convert(mirror.At(0, 0)))

	tpl, err := LoadImage(paths.Template)
	require.NoError(t, err)
	rr, rc := f.RealSize()
	assert.Equal(t, image.Rect(0, 0, rc, rr), tpl.Bounds())

	t.Run("template loads back", func(t *testing.T) {
		g, err := dmd.NewFrame(f.Geometry())
		require.NoError(t, err)
		require.NoError(t, g.LoadReal(tpl))
		assert.Equal(t, f.Mirror().Pix, g.Mirror().Pix)
	})
}

func TestSaveFrameRejectsBadNames(t *testing.T) {
	f, err := dmd.NewFrame(dmd.Geometry{Rows: 2, Cols: 2})
	require.NoError(t, err)
	dir := t.TempDir()

	_, err = SaveFrame(dir, "../escape.bmp", f, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = SaveFrame(dir, "pattern.tiff", f, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
