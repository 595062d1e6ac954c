package lattice

import (
	"math"

	"github.com/matzehuels/dmdpattern/pkg/errors"
)

// Vector is a lattice wave vector in cycles per mirror, as (row, col)
// components.
type Vector [2]float64

// ParseVector validates a loosely sized vector. It must have exactly two
// finite components.
func ParseVector(v []float64) (Vector, error) {
	if len(v) != 2 {
		return Vector{}, errors.New(errors.ErrCodeInvalidVector,
			"lattice vector must have 2 components, got %d", len(v))
	}
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Vector{}, errors.New(errors.ErrCodeInvalidVector,
				"lattice vector %v has a non-finite component", v)
		}
	}
	return Vector{v[0], v[1]}, nil
}

// Sub returns v - w.
func (v Vector) Sub(w Vector) Vector {
	return Vector{v[0] - w[0], v[1] - w[1]}
}

// phase returns 2π(k·(dr, dc)).
func (v Vector) phase(dr, dc int) float64 {
	return 2 * math.Pi * (v[0]*float64(dr) + v[1]*float64(dc))
}
