//go:build unit
// +build unit

package ensemble

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/linalg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0x5eed))
}

// measureForTest applies the chosen unitary to psi and samples an outcome by
// the Born rule.
func measureForTest(t *testing.T, rng *rand.Rand, c core.Choice, psi linalg.Vector, n int) core.Outcome {
	t.Helper()
	var u *linalg.Matrix
	if c.IsFactored() {
		// qubit 0 is the least significant bit of the index
		u = c.Bases[n-1].Rotation().Clone()
		for q := n - 2; q >= 0; q-- {
			u = linalg.Kron(u, c.Bases[q].Rotation())
		}
	} else {
		u = c.Unitary()
	}
	amp := u.MulVec(psi)
	r := rng.Float64()
	acc := 0.0
	for i, a := range amp {
		acc += real(a)*real(a) + imag(a)*imag(a)
		if r < acc {
			return core.OutcomeFromIndex(i, n)
		}
	}
	return core.OutcomeFromIndex(len(amp)-1, n)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		ensemble string
		opts     Options
		wantType Ensemble
		wantErr  bool
	}{
		{name: "clifford", ensemble: GLOBAL_CLIFFORD, wantType: &GlobalClifford{}},
		{name: "clifford with depth", ensemble: GLOBAL_CLIFFORD, opts: Options{CliffordDepth: 5}, wantType: &GlobalClifford{Depth: 5}},
		{name: "haar", ensemble: GLOBAL_HAAR, wantType: &GlobalHaar{}},
		{name: "pauli", ensemble: PAULI, wantType: &PauliBasis{}},
		{name: "unknown", ensemble: "local_haar", wantErr: true},
		{name: "negative depth", ensemble: GLOBAL_CLIFFORD, opts: Options{CliffordDepth: -1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.ensemble, tt.opts)
			if tt.wantErr {
				assert.True(t, errors.Is(err, core.ErrConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, e)
			assert.Equal(t, tt.ensemble, e.Name())
		})
	}
	assert.Equal(t, []string{GLOBAL_CLIFFORD, GLOBAL_HAAR, PAULI}, Names())
}

func TestSampleRejectsNoQubits(t *testing.T) {
	for _, name := range Names() {
		e, err := New(name, Options{})
		require.NoError(t, err)
		_, err = e.Sample(newTestRand(1), 0)
		assert.True(t, errors.Is(err, core.ErrConfig), name)
	}
	_, err := SampleGlobal(newTestRand(1), 0)
	assert.True(t, errors.Is(err, core.ErrConfig))
	_, err = SamplePerQubitBasis(newTestRand(1), -1)
	assert.True(t, errors.Is(err, core.ErrConfig))
}

func TestGlobalSamplesAreUnitary(t *testing.T) {
	tests := []struct {
		name   string
		sample func(*rand.Rand, int) (*linalg.Matrix, error)
	}{
		{name: "clifford", sample: SampleGlobal},
		{name: "haar", sample: SampleHaar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := newTestRand(3)
			for n := 1; n <= 3; n++ {
				for i := 0; i < 20; i++ {
					dagger, err := tt.sample(rng, n)
					require.NoError(t, err)
					d := 1 << n
					r, c := dagger.Dims()
					require.Equal(t, d, r)
					require.Equal(t, d, c)
					assert.True(t, linalg.Mul(dagger, dagger.H()).EqualApprox(linalg.Identity(d), 1e-9))
				}
			}
		})
	}
}

func TestCliffordEntriesAreStabilizerAmplitudes(t *testing.T) {
	rng := newTestRand(4)
	for i := 0; i < 50; i++ {
		dagger, err := SampleGlobal(rng, 2)
		require.NoError(t, err)
		for _, v := range dagger.RawData() {
			a := cmplx.Abs(v)
			if a < 1e-9 {
				continue
			}
			// nonzero amplitudes of a 2-qubit stabilizer state are 2^{-k/2}
			k := -2 * math.Log2(a)
			assert.InDelta(t, math.Round(k), k, 1e-9)
		}
	}
}

func TestCliffordWalkCoversSingleQubitStabilizers(t *testing.T) {
	rng := newTestRand(5)
	const draws = 6000
	counts := map[[3]int]int{}
	for i := 0; i < draws; i++ {
		dagger, err := SampleGlobal(rng, 1)
		require.NoError(t, err)
		u := dagger.H()
		a, b := u.At(0, 0), u.At(1, 0)
		bloch := [3]int{
			int(math.Round(2 * real(cmplx.Conj(a)*b))),
			int(math.Round(2 * imag(cmplx.Conj(a)*b))),
			int(math.Round(real(cmplx.Conj(a)*a - cmplx.Conj(b)*b))),
		}
		counts[bloch]++
	}
	assert.Len(t, counts, 6)
	for axis, c := range counts {
		assert.InDelta(t, 1.0/6, float64(c)/draws, 0.03, "axis %v", axis)
	}
}

func TestSampleIsDeterministic(t *testing.T) {
	for _, name := range Names() {
		e, err := New(name, Options{})
		require.NoError(t, err)
		a, err := e.Sample(newTestRand(42), 2)
		require.NoError(t, err)
		b, err := e.Sample(newTestRand(42), 2)
		require.NoError(t, err)
		if a.IsFactored() {
			assert.Equal(t, a.Bases, b.Bases, name)
		} else {
			assert.True(t, a.Dagger.Equal(b.Dagger), name)
		}
		assert.Equal(t, name, a.Ensemble)
	}
}

func TestSamplePerQubitBasisFrequencies(t *testing.T) {
	rng := newTestRand(6)
	const n, draws = 3, 10000
	counts := map[core.Basis]int{}
	for i := 0; i < draws; i++ {
		bases, err := SamplePerQubitBasis(rng, n)
		require.NoError(t, err)
		require.NoError(t, bases.Validate(n))
		for _, b := range bases {
			counts[b]++
		}
	}
	for _, b := range []core.Basis{core.BasisX, core.BasisY, core.BasisZ} {
		assert.InDelta(t, 1.0/3, float64(counts[b])/(n*draws), 0.02, b.String())
	}
}

func TestPauliSnapshotRequiresBases(t *testing.T) {
	p := &PauliBasis{}
	_, err := p.Snapshot("0", core.Choice{Ensemble: GLOBAL_HAAR, Dagger: linalg.Identity(2)}, 1)
	assert.True(t, errors.Is(err, core.ErrShape))
}

func TestSnapshotsAreUnbiased(t *testing.T) {
	inv := complex(1/math.Sqrt2, 0)
	bell := linalg.Vector{inv, 0, 0, inv}
	plusI := linalg.Vector{inv, 1i * inv}
	tests := []struct {
		name     string
		ensemble string
		psi      linalg.Vector
		n        int
	}{
		{name: "pauli asymmetric", ensemble: PAULI, psi: linalg.OneHot(4, 1), n: 2},
		{name: "clifford 1 qubit", ensemble: GLOBAL_CLIFFORD, psi: plusI, n: 1},
		{name: "clifford bell", ensemble: GLOBAL_CLIFFORD, psi: bell, n: 2},
		{name: "haar 1 qubit", ensemble: GLOBAL_HAAR, psi: plusI, n: 1},
		{name: "haar bell", ensemble: GLOBAL_HAAR, psi: bell, n: 2},
		{name: "pauli bell", ensemble: PAULI, psi: bell, n: 2},
	}
	const shots = 10000
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.ensemble, Options{})
			require.NoError(t, err)
			rng := newTestRand(7)
			d := 1 << tt.n
			sum := linalg.NewMatrix(d, d)
			for i := 0; i < shots; i++ {
				c, err := e.Sample(rng, tt.n)
				require.NoError(t, err)
				outcome := measureForTest(t, rng, c, tt.psi, tt.n)
				s, err := e.Snapshot(outcome, c, tt.n)
				require.NoError(t, err)
				sum.Add(s)
			}
			mean := sum.Scale(complex(1.0/shots, 0))
			rho := linalg.OuterConj(tt.psi)
			if ReversedQubitOrder(e) {
				rho = rho.ReverseQubits()
			}
			assert.Less(t, mean.MaxAbsDiff(rho), 0.1)
		})
	}
}

func TestReversedQubitOrder(t *testing.T) {
	assert.True(t, ReversedQubitOrder(&PauliBasis{}))
	assert.False(t, ReversedQubitOrder(&GlobalClifford{}))
	assert.False(t, ReversedQubitOrder(&GlobalHaar{}))
}
