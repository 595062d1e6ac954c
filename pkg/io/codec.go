package io

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/matzehuels/dmdpattern/pkg/errors"
)

// Format is an image file format.
type Format string

const (
	FormatBMP Format = "bmp"
	FormatPNG Format = "png"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return FormatBMP, nil
	case ".png":
		return FormatPNG, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported image extension %q (want .bmp or .png)", filepath.Ext(path))
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatPNG:
		err = png.Encode(w, img)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported image format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// Decode reads a BMP or PNG image from r, detecting the format from its
// header.
func Decode(r io.Reader) (image.Image, Format, error) {
	img, name, err := image.Decode(bufio.NewReader(r))
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode image")
	}
	return img, Format(name), nil
}

// ExportImage writes img to path in the format implied by its extension.
func ExportImage(img image.Image, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	w := bufio.NewWriter(f)
	if err := Encode(w, img, format); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return f.Close()
}

// LoadImage reads an image file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()

	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
