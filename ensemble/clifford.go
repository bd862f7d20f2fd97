package ensemble

import (
	"math"
	"math/rand/v2"

	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/linalg"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/snapshot"
)

type gate2 [2][2]complex128

var (
	gateH = gate2{
		{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
		{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
	}
	gateS = gate2{
		{1, 0},
		{0, 1i},
	}
)

// GlobalClifford draws a random n-qubit Clifford unitary by a lazy random
// walk over H, S and CNOT.
type GlobalClifford struct {
	// Depth is the walk length. Zero selects DefaultCliffordDepth.
	Depth int
}

func (g *GlobalClifford) Name() string {
	return GLOBAL_CLIFFORD
}

func (g *GlobalClifford) Sample(rng *rand.Rand, numQubits int) (core.Choice, error) {
	depth := g.Depth
	if depth == 0 {
		depth = DefaultCliffordDepth(numQubits)
	}
	dagger, err := sampleCliffordWalk(rng, numQubits, depth)
	if err != nil {
		return core.Choice{}, err
	}
	return core.Choice{Ensemble: GLOBAL_CLIFFORD, Dagger: dagger}, nil
}

func (g *GlobalClifford) Snapshot(outcome core.Outcome, choice core.Choice, numQubits int) (*linalg.Matrix, error) {
	return snapshot.BuildGlobalSnapshot(outcome, choice.Dagger, numQubits)
}

// DefaultCliffordDepth is 8n²+16 steps, enough for the walk to mix over the
// stabilizer states of n qubits.
func DefaultCliffordDepth(numQubits int) int {
	return 8*numQubits*numQubits + 16
}

// SampleGlobal returns the conjugate transpose of a random n-qubit Clifford
// unitary drawn with the default walk depth.
func SampleGlobal(rng *rand.Rand, numQubits int) (*linalg.Matrix, error) {
	if err := checkQubits(numQubits); err != nil {
		return nil, err
	}
	return sampleCliffordWalk(rng, numQubits, DefaultCliffordDepth(numQubits))
}

func sampleCliffordWalk(rng *rand.Rand, numQubits, depth int) (*linalg.Matrix, error) {
	if err := checkQubits(numQubits); err != nil {
		return nil, err
	}
	if depth < 1 {
		return nil, core.NewConfigError("clifford depth", "must be positive, got %d", depth)
	}
	u := linalg.Identity(1 << numQubits)
	moves := 2 * numQubits
	if numQubits > 1 {
		moves += numQubits * (numQubits - 1)
	}
	for step := 0; step < depth; step++ {
		// lazy step keeps the walk aperiodic
		if rng.IntN(4) == 0 {
			continue
		}
		m := rng.IntN(moves)
		switch {
		case m < numQubits:
			applyGate(u, gateH, m)
		case m < 2*numQubits:
			applyGate(u, gateS, m-numQubits)
		default:
			p := m - 2*numQubits
			control := p / (numQubits - 1)
			target := p % (numQubits - 1)
			if target >= control {
				target++
			}
			applyCX(u, control, target)
		}
	}
	return u.H(), nil
}

// applyGate left-multiplies u by g acting on qubit q.
func applyGate(u *linalg.Matrix, g gate2, q int) {
	rows, cols := u.Dims()
	data := u.RawData()
	mask := 1 << q
	for i := 0; i < rows; i++ {
		if i&mask != 0 {
			continue
		}
		r0 := data[i*cols : (i+1)*cols]
		r1 := data[(i|mask)*cols : ((i|mask)+1)*cols]
		for c := range r0 {
			a, b := r0[c], r1[c]
			r0[c] = g[0][0]*a + g[0][1]*b
			r1[c] = g[1][0]*a + g[1][1]*b
		}
	}
}

// applyCX left-multiplies u by a CNOT, which permutes rows.
func applyCX(u *linalg.Matrix, control, target int) {
	rows, cols := u.Dims()
	data := u.RawData()
	cm, tm := 1<<control, 1<<target
	for i := 0; i < rows; i++ {
		if i&cm == 0 || i&tm != 0 {
			continue
		}
		r0 := data[i*cols : (i+1)*cols]
		r1 := data[(i|tm)*cols : ((i|tm)+1)*cols]
		for c := range r0 {
			r0[c], r1[c] = r1[c], r0[c]
		}
	}
}
