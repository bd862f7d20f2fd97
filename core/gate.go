package core

import (
	"math"

	"github.com/oqtopus-team/oqtopus-engine/shadowapp/linalg"
)

var (
	hadamard = linalg.NewMatrixFromRows([][]complex128{
		{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
		{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
	})
	sDagger = linalg.NewMatrixFromRows([][]complex128{
		{1, 0},
		{0, -1i},
	})
	identity2 = linalg.Identity(2)

	// S-dagger is applied first, then Hadamard.
	yRotation = linalg.Mul(hadamard, sDagger)

	basisRotations = map[Basis]*linalg.Matrix{
		BasisX: hadamard,
		BasisY: yRotation,
		BasisZ: identity2,
	}
	basisDaggers = map[Basis]*linalg.Matrix{
		BasisX: hadamard.H(),
		BasisY: yRotation.H(),
		BasisZ: identity2.H(),
	}
)

// Rotation returns the fixed single-qubit unitary applied before a Z-basis
// measurement to measure in b. The returned matrix must not be modified.
func (b Basis) Rotation() *linalg.Matrix {
	return basisRotations[b]
}

// Dagger returns the conjugate transpose of Rotation. The returned matrix
// must not be modified.
func (b Basis) Dagger() *linalg.Matrix {
	return basisDaggers[b]
}
