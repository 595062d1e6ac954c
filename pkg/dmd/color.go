package dmd

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/dmdpattern/pkg/errors"
)

// Color is a 24-bit RGB pixel value.
type Color struct {
	R, G, B uint8
}

// Well-known colors.
var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}

	// Boundary marks real-space pixels that have no mirror behind them.
	Boundary = Color{255, 0, 0}
)

// RGBA implements color.Color; colors are always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{c.R, c.G, c.B, 0xff}.RGBA()
}

// Inverse returns 255 minus each channel.
func (c Color) Inverse() Color {
	return Color{255 - c.R, 255 - c.G, 255 - c.B}
}

// String formats the color as "(r, g, b)".
func (c Color) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.R, c.G, c.B)
}

// Gray returns the color whose three channels are all v.
func Gray(v uint8) Color {
	return Color{v, v, v}
}

// ParseColor normalizes a loosely typed color value:
//   - bool: true is white, false is black
//   - numbers in [0, 1]: gray level floor(255·v), so 0 is off and 1 is on
//   - numbers in (1, 255]: gray level floor(v)
//   - three integers in [0, 255] ([]int, [3]int, []uint8, [3]uint8 or a
//     TOML/JSON []any): an explicit RGB triple
//   - a Color, returned as is
//
// Anything else fails with INVALID_COLOR.
func ParseColor(v any) (Color, error) {
	switch x := v.(type) {
	case Color:
		return x, nil
	case bool:
		if x {
			return White, nil
		}
		return Black, nil
	case int:
		return grayFromNumber(float64(x))
	case int64:
		return grayFromNumber(float64(x))
	case int32:
		return grayFromNumber(float64(x))
	case uint8:
		return Gray(x), nil
	case float64:
		return grayFromNumber(x)
	case float32:
		return grayFromNumber(float64(x))
	case [3]uint8:
		return Color{x[0], x[1], x[2]}, nil
	case []uint8:
		if len(x) != 3 {
			return Color{}, invalidColor(v)
		}
		return Color{x[0], x[1], x[2]}, nil
	case [3]int:
		return colorFromTriple(v, x[:])
	case []int:
		return colorFromTriple(v, x)
	case []int64:
		ints := make([]int, len(x))
		for i, n := range x {
			ints[i] = int(n)
		}
		return colorFromTriple(v, ints)
	case []any:
		ints := make([]int, len(x))
		for i, e := range x {
			switch n := e.(type) {
			case int:
				ints[i] = n
			case int64:
				ints[i] = int(n)
			case float64:
				if n != math.Trunc(n) {
					return Color{}, invalidColor(v)
				}
				ints[i] = int(n)
			default:
				return Color{}, invalidColor(v)
			}
		}
		return colorFromTriple(v, ints)
	}
	return Color{}, invalidColor(v)
}

// ParseColorString parses the textual forms accepted on the command line:
// "1", "0", "0.5", "128", "255,0,0" and "#ff0000".
func ParseColorString(s string) (Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		b, err := hex.DecodeString(s[1:])
		if err != nil || len(b) != 3 {
			return Color{}, invalidColor(s)
		}
		return Color{b[0], b[1], b[2]}, nil
	case strings.Contains(s, ","):
		parts := strings.Split(s, ",")
		ints := make([]int, len(parts))
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return Color{}, invalidColor(s)
			}
			ints[i] = n
		}
		return colorFromTriple(s, ints)
	}

	if n, err := strconv.Atoi(s); err == nil {
		return grayFromNumber(float64(n))
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Color{}, invalidColor(s)
	}
	return grayFromNumber(f)
}

func grayFromNumber(v float64) (Color, error) {
	switch {
	case v >= 0 && v <= 1:
		return Gray(uint8(math.Floor(255 * v))), nil
	case v > 1 && v <= 255:
		return Gray(uint8(math.Floor(v))), nil
	}
	return Color{}, invalidColor(v)
}

func colorFromTriple(orig any, ch []int) (Color, error) {
	if len(ch) != 3 {
		return Color{}, invalidColor(orig)
	}
	for _, n := range ch {
		if n < 0 || n > 255 {
			return Color{}, invalidColor(orig)
		}
	}
	return Color{uint8(ch[0]), uint8(ch[1]), uint8(ch[2])}, nil
}

func invalidColor(v any) error {
	return errors.New(errors.ErrCodeInvalidColor, "invalid color %v: want 0/1, a gray level in [0, 1] or (1, 255], or an RGB triple", v)
}
