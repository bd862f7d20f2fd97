package ensemble

import (
	"math"
	"math/cmplx"
	"math/rand/v2"

	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/linalg"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/snapshot"
)

// GlobalHaar draws a Haar-random unitary. It shares the inverse channel of
// the Clifford ensemble.
type GlobalHaar struct{}

func (g *GlobalHaar) Name() string {
	return GLOBAL_HAAR
}

func (g *GlobalHaar) Sample(rng *rand.Rand, numQubits int) (core.Choice, error) {
	dagger, err := SampleHaar(rng, numQubits)
	if err != nil {
		return core.Choice{}, err
	}
	return core.Choice{Ensemble: GLOBAL_HAAR, Dagger: dagger}, nil
}

func (g *GlobalHaar) Snapshot(outcome core.Outcome, choice core.Choice, numQubits int) (*linalg.Matrix, error) {
	return snapshot.BuildGlobalSnapshot(outcome, choice.Dagger, numQubits)
}

// SampleHaar orthonormalizes the columns of a complex Ginibre matrix and
// returns the conjugate transpose of the result.
func SampleHaar(rng *rand.Rand, numQubits int) (*linalg.Matrix, error) {
	if err := checkQubits(numQubits); err != nil {
		return nil, err
	}
	d := 1 << numQubits
	cols := make([]linalg.Vector, d)
	for j := range cols {
		cols[j] = make(linalg.Vector, d)
		for i := range cols[j] {
			cols[j][i] = complex(rng.NormFloat64(), rng.NormFloat64()) / math.Sqrt2
		}
	}
	// modified Gram-Schmidt
	for j := 0; j < d; j++ {
		for k := 0; k < j; k++ {
			proj := cols[k].Dot(cols[j])
			for i := range cols[j] {
				cols[j][i] -= proj * cols[k][i]
			}
		}
		norm := cols[j].Norm()
		if norm == 0 {
			return nil, core.NewShapeError("unitary", "degenerate Ginibre column %d", j)
		}
		for i := range cols[j] {
			cols[j][i] /= complex(norm, 0)
		}
	}
	// dagger row k is the conjugate of column k
	dagger := linalg.NewMatrix(d, d)
	for k, col := range cols {
		for i, v := range col {
			dagger.Set(k, i, cmplx.Conj(v))
		}
	}
	return dagger, nil
}
