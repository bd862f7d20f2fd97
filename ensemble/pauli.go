package ensemble

import (
	"math/rand/v2"

	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/linalg"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/snapshot"
)

// PauliBasis measures every qubit independently in a uniformly random Pauli
// basis (tensor product of single-qubit Clifford ensembles).
type PauliBasis struct{}

func (p *PauliBasis) Name() string {
	return PAULI
}

func (p *PauliBasis) Sample(rng *rand.Rand, numQubits int) (core.Choice, error) {
	bases, err := SamplePerQubitBasis(rng, numQubits)
	if err != nil {
		return core.Choice{}, err
	}
	return core.Choice{Ensemble: PAULI, Bases: bases}, nil
}

func (p *PauliBasis) Snapshot(outcome core.Outcome, choice core.Choice, numQubits int) (*linalg.Matrix, error) {
	if !choice.IsFactored() {
		return nil, core.NewShapeError("basis assignment", "choice of %q ensemble has no basis assignment", choice.Ensemble)
	}
	return snapshot.BuildFactoredSnapshot(outcome, choice.Bases, numQubits)
}

// ReversedQubitOrder is true: the outcome is consumed in qubit order and
// qubit 0 becomes the leading tensor factor.
func (p *PauliBasis) ReversedQubitOrder() bool {
	return true
}

// SamplePerQubitBasis draws, for every qubit, X below 1/3, Y below 2/3 and Z
// otherwise.
func SamplePerQubitBasis(rng *rand.Rand, numQubits int) (core.BasisAssignment, error) {
	if err := checkQubits(numQubits); err != nil {
		return nil, err
	}
	bases := make(core.BasisAssignment, numQubits)
	for i := range bases {
		u := rng.Float64()
		switch {
		case u < 1.0/3:
			bases[i] = core.BasisX
		case u < 2.0/3:
			bases[i] = core.BasisY
		default:
			bases[i] = core.BasisZ
		}
	}
	return bases, nil
}
