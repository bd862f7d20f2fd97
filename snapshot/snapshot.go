// Package snapshot builds single-shot classical snapshots by applying the
// inverse measurement channel to a measured outcome.
package snapshot

import (
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/linalg"
)

// BuildGlobalSnapshot returns (2^n+1)·U†|b><b|U − I for an outcome b measured
// after a global random unitary U, where dagger is U†.
func BuildGlobalSnapshot(outcome core.Outcome, dagger *linalg.Matrix, numQubits int) (*linalg.Matrix, error) {
	if numQubits < 1 {
		return nil, core.NewConfigError("qubits", "must be at least 1, got %d", numQubits)
	}
	if err := outcome.Validate(numQubits); err != nil {
		return nil, err
	}
	d := 1 << numQubits
	if dagger == nil {
		return nil, core.NewShapeError("unitary", "no unitary for %d qubits", numQubits)
	}
	if r, c := dagger.Dims(); r != d || c != d {
		return nil, core.NewShapeError("unitary", "%dx%d unitary for %d qubits, want %dx%d", r, c, numQubits, d, d)
	}

	b := linalg.OneHot(d, outcome.Index())
	rotated := dagger.MulVec(b)
	s := linalg.OuterConj(rotated).Scale(complex(float64(d+1), 0))
	return s.Sub(linalg.Identity(d)), nil
}

// BuildFactoredSnapshot returns the tensor product over qubits of
// 3·V_i†|b_i><b_i|V_i − I, where b_i is the bit of qubit i. Qubit 0 is the
// most significant tensor factor.
func BuildFactoredSnapshot(outcome core.Outcome, bases core.BasisAssignment, numQubits int) (*linalg.Matrix, error) {
	if numQubits < 1 {
		return nil, core.NewConfigError("qubits", "must be at least 1, got %d", numQubits)
	}
	if err := outcome.Validate(numQubits); err != nil {
		return nil, err
	}
	if err := bases.Validate(numQubits); err != nil {
		return nil, err
	}

	var s *linalg.Matrix
	for i := 0; i < numQubits; i++ {
		b := linalg.OneHot(2, outcome.QubitBit(i))
		rotated := bases[i].Dagger().MulVec(b)
		sub := linalg.OuterConj(rotated).Scale(3).Sub(linalg.Identity(2))
		if s == nil {
			s = sub
			continue
		}
		s = linalg.Kron(s, sub)
	}
	return s, nil
}
