package dmd

import (
	"github.com/matzehuels/dmdpattern/pkg/errors"
)

// Geometry describes a DMD: its mirror array size and mounting orientation.
type Geometry struct {
	Rows int  `toml:"rows" json:"rows"`
	Cols int  `toml:"cols" json:"cols"`
	Flip bool `toml:"flip" json:"flip"` // mirror rows are counted from the opposite edge
}

// DefaultGeometry is a 1140 × 912 device mounted flipped.
var DefaultGeometry = Geometry{Rows: 1140, Cols: 912, Flip: true}

// Validate checks that the device has at least one mirror.
func (g Geometry) Validate() error {
	if err := errors.ValidatePositive("device rows", g.Rows); err != nil {
		return err
	}
	return errors.ValidatePositive("device cols", g.Cols)
}

// RealSize returns the real-space buffer size:
// ceil((Rows-1)/2) + Cols rows by Cols + floor((Rows-1)/2) columns.
func (g Geometry) RealSize() (rows, cols int) {
	return g.Rows/2 + g.Cols, g.Cols + (g.Rows-1)/2
}

// RealIndex maps a mirror (row, col) to its real-space (row, col).
//
// Mirror rows of the diamond lattice alternate between two half-offset
// columns, so every pair of mirror rows advances one real row and one real
// column; moving along a mirror row walks the real-space anti-diagonal.
func (g Geometry) RealIndex(row, col int) (int, int) {
	if g.Flip {
		row = g.Rows - 1 - row
	}
	return (row+1)/2 + col, g.Cols - 1 + row/2 - col
}
