//go:build unit
// +build unit

package snapshot

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/linalg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productDagger(bases ...core.Basis) *linalg.Matrix {
	m := bases[0].Dagger().Clone()
	for _, b := range bases[1:] {
		m = linalg.Kron(m, b.Dagger())
	}
	return m
}

func TestBuildGlobalSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		outcome core.Outcome
		dagger  *linalg.Matrix
		n       int
		want    *linalg.Matrix
	}{
		{
			name:    "identity unitary, outcome 0",
			outcome: "0",
			dagger:  linalg.Identity(2),
			n:       1,
			want: linalg.NewMatrixFromRows([][]complex128{
				{2, 0},
				{0, -1},
			}),
		},
		{
			name:    "identity unitary, outcome 10",
			outcome: "10",
			dagger:  linalg.Identity(4),
			n:       2,
			want: linalg.NewMatrixFromRows([][]complex128{
				{-1, 0, 0, 0},
				{0, -1, 0, 0},
				{0, 0, 4, 0},
				{0, 0, 0, -1},
			}),
		},
		{
			name:    "hadamard, outcome 1",
			outcome: "1",
			dagger:  core.BasisX.Dagger(),
			n:       1,
			want: linalg.NewMatrixFromRows([][]complex128{
				{0.5, -1.5},
				{-1.5, 0.5},
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildGlobalSnapshot(tt.outcome, tt.dagger, tt.n)
			require.NoError(t, err)
			assert.True(t, got.EqualApprox(tt.want, 1e-12), "got %v", got)
		})
	}
}

func TestGlobalSnapshotUnitTraceHermitian(t *testing.T) {
	bases := []core.Basis{core.BasisY, core.BasisX, core.BasisY, core.BasisZ}
	for n := 1; n <= 4; n++ {
		dagger := productDagger(bases[:n]...)
		for idx := 0; idx < 1<<n; idx++ {
			s, err := BuildGlobalSnapshot(core.OutcomeFromIndex(idx, n), dagger, n)
			require.NoError(t, err)
			assert.True(t, s.IsHermitian(1e-9))
			assert.InDelta(t, 1.0, real(s.Trace()), 1e-9)
			assert.InDelta(t, 0.0, imag(s.Trace()), 1e-9)
		}
	}
}

func TestBuildGlobalSnapshotErrors(t *testing.T) {
	tests := []struct {
		name    string
		outcome core.Outcome
		dagger  *linalg.Matrix
		n       int
		wantErr error
	}{
		{name: "no qubits", outcome: "", dagger: linalg.Identity(1), n: 0, wantErr: core.ErrConfig},
		{name: "short outcome", outcome: "0", dagger: linalg.Identity(4), n: 2, wantErr: core.ErrShape},
		{name: "non-bit character", outcome: "0a", dagger: linalg.Identity(4), n: 2, wantErr: core.ErrShape},
		{name: "unitary too small", outcome: "01", dagger: linalg.Identity(2), n: 2, wantErr: core.ErrShape},
		{name: "non-square unitary", outcome: "0", dagger: linalg.NewMatrix(2, 4), n: 1, wantErr: core.ErrShape},
		{name: "missing unitary", outcome: "0", dagger: nil, n: 1, wantErr: core.ErrShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildGlobalSnapshot(tt.outcome, tt.dagger, tt.n)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestBuildFactoredSnapshot(t *testing.T) {
	zero := linalg.NewMatrixFromRows([][]complex128{
		{2, 0},
		{0, -1},
	})
	minus := linalg.NewMatrixFromRows([][]complex128{
		{0.5, -1.5},
		{-1.5, 0.5},
	})
	tests := []struct {
		name    string
		outcome core.Outcome
		bases   core.BasisAssignment
		want    *linalg.Matrix
	}{
		{
			name:    "single qubit Z",
			outcome: "0",
			bases:   core.BasisAssignment{core.BasisZ},
			want:    zero,
		},
		{
			name:    "single qubit X",
			outcome: "0",
			bases:   core.BasisAssignment{core.BasisX},
			want: linalg.NewMatrixFromRows([][]complex128{
				{0.5, 1.5},
				{1.5, 0.5},
			}),
		},
		{
			name:    "single qubit Y",
			outcome: "0",
			bases:   core.BasisAssignment{core.BasisY},
			want: linalg.NewMatrixFromRows([][]complex128{
				{0.5, -1.5i},
				{1.5i, 0.5},
			}),
		},
		{
			// qubit 0 reads the last character and is the leading factor
			name:    "two qubits in qubit order",
			outcome: "10",
			bases:   core.BasisAssignment{core.BasisZ, core.BasisX},
			want:    linalg.Kron(zero, minus),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildFactoredSnapshot(tt.outcome, tt.bases, len(tt.bases))
			require.NoError(t, err)
			assert.True(t, got.EqualApprox(tt.want, 1e-12), "got %v", got)
			assert.InDelta(t, 1.0, real(got.Trace()), 1e-9)
		})
	}
}

func TestFactoredMatchesGlobalProductUnitary(t *testing.T) {
	bases := core.BasisAssignment{core.BasisX, core.BasisY, core.BasisZ}
	// global dagger with qubit 0 as the least significant factor
	dagger := productDagger(bases[2], bases[1], bases[0])
	for idx := 0; idx < 8; idx++ {
		outcome := core.OutcomeFromIndex(idx, 3)
		f, err := BuildFactoredSnapshot(outcome, bases, 3)
		require.NoError(t, err)
		assert.True(t, f.IsHermitian(1e-9))
		// the product of per-qubit inverse channels differs from the global
		// one, but both keep unit trace
		g, err := BuildGlobalSnapshot(outcome, dagger, 3)
		require.NoError(t, err)
		assert.InDelta(t, real(g.Trace()), real(f.Trace()), 1e-9)
	}
}

func TestBuildFactoredSnapshotErrors(t *testing.T) {
	tests := []struct {
		name    string
		outcome core.Outcome
		bases   core.BasisAssignment
		n       int
		wantErr error
	}{
		{name: "no qubits", outcome: "", bases: core.BasisAssignment{}, n: 0, wantErr: core.ErrConfig},
		{name: "long outcome", outcome: "011", bases: core.BasisAssignment{core.BasisX, core.BasisX}, n: 2, wantErr: core.ErrShape},
		{name: "too few bases", outcome: "01", bases: core.BasisAssignment{core.BasisX}, n: 2, wantErr: core.ErrShape},
		{name: "invalid basis id", outcome: "01", bases: core.BasisAssignment{core.BasisX, core.Basis(7)}, n: 2, wantErr: core.ErrShape},
		{name: "non-bit character", outcome: "2", bases: core.BasisAssignment{core.BasisZ}, n: 1, wantErr: core.ErrShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildFactoredSnapshot(tt.outcome, tt.bases, tt.n)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
