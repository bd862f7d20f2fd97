package linalg

import (
	"fmt"

	"gonum.org/v1/gonum/blas/cblas128"
)

// Vector is a dense complex column vector (a ket).
type Vector []complex128

// OneHot returns the computational basis vector |i> of dimension d.
func OneHot(d, i int) Vector {
	if i < 0 || i >= d {
		panic(fmt.Sprintf("linalg: index %d out of range for dimension %d", i, d))
	}
	v := make(Vector, d)
	v[i] = 1
	return v
}

func (v Vector) blas() cblas128.Vector {
	return cblas128.Vector{N: len(v), Inc: 1, Data: v}
}

func (v Vector) Len() int {
	return len(v)
}

func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

// Dot returns the inner product <v|w>.
func (v Vector) Dot(w Vector) complex128 {
	mustSameLen(v, w)
	return cblas128.Dotc(v.blas(), w.blas())
}

func (v Vector) Norm() float64 {
	return cblas128.Nrm2(v.blas())
}

// Normalized returns a copy of v scaled to unit norm.
// The zero vector is returned unchanged.
func (v Vector) Normalized() Vector {
	c := v.Clone()
	n := c.Norm()
	if n == 0 {
		return c
	}
	cblas128.Dscal(1/n, c.blas())
	return c
}

func mustSameLen(v, w Vector) {
	if len(v) != len(w) {
		panic(fmt.Sprintf("linalg: vector length mismatch %d != %d", len(v), len(w)))
	}
}

// ReverseQubits permutes the amplitudes of a 2^n dimensional state so that
// qubit i moves to qubit n-1-i.
func (v Vector) ReverseQubits() Vector {
	n := qubitsOf(len(v))
	out := make(Vector, len(v))
	for i, a := range v {
		out[reverseBits(i, n)] = a
	}
	return out
}

func qubitsOf(d int) int {
	n := 0
	for 1<<n < d {
		n++
	}
	if 1<<n != d {
		panic(fmt.Sprintf("linalg: dimension %d is not a power of two", d))
	}
	return n
}

func reverseBits(i, n int) int {
	r := 0
	for k := 0; k < n; k++ {
		r = r<<1 | (i>>k)&1
	}
	return r
}
