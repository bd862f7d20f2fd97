// Package linalg is the small dense complex matrix layer the shadow pipeline
// is built on. Products and rank-1 updates go through gonum's complex BLAS;
// shape violations are programmer errors and panic, as in gonum/mat.
package linalg

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
)

// Matrix is a dense row-major complex matrix.
type Matrix struct {
	rows, cols int
	data       []complex128
}

func NewMatrix(r, c int) *Matrix {
	if r <= 0 || c <= 0 {
		panic(fmt.Sprintf("linalg: invalid shape %dx%d", r, c))
	}
	return &Matrix{rows: r, cols: c, data: make([]complex128, r*c)}
}

// NewMatrixFromRows is a convenience constructor for literals in tests and
// fixed gates.
func NewMatrixFromRows(rows [][]complex128) *Matrix {
	r := len(rows)
	if r == 0 {
		panic("linalg: no rows")
	}
	c := len(rows[0])
	m := NewMatrix(r, c)
	for i, row := range rows {
		if len(row) != c {
			panic(fmt.Sprintf("linalg: ragged row %d", i))
		}
		copy(m.data[i*c:(i+1)*c], row)
	}
	return m
}

func Identity(d int) *Matrix {
	m := NewMatrix(d, d)
	for i := 0; i < d; i++ {
		m.data[i*d+i] = 1
	}
	return m
}

func (m *Matrix) Dims() (int, int) {
	return m.rows, m.cols
}

func (m *Matrix) IsSquare() bool {
	return m.rows == m.cols
}

func (m *Matrix) At(i, j int) complex128 {
	m.checkIndex(i, j)
	return m.data[i*m.cols+j]
}

func (m *Matrix) Set(i, j int, v complex128) {
	m.checkIndex(i, j)
	m.data[i*m.cols+j] = v
}

// RawData exposes the row-major backing slice.
func (m *Matrix) RawData() []complex128 {
	return m.data
}

func (m *Matrix) Clone() *Matrix {
	c := &Matrix{rows: m.rows, cols: m.cols, data: make([]complex128, len(m.data))}
	copy(c.data, m.data)
	return c
}

func (m *Matrix) general() cblas128.General {
	return cblas128.General{Rows: m.rows, Cols: m.cols, Data: m.data, Stride: m.cols}
}

func (m *Matrix) flat() cblas128.Vector {
	return cblas128.Vector{N: len(m.data), Inc: 1, Data: m.data}
}

// MulVec returns m·v.
func (m *Matrix) MulVec(v Vector) Vector {
	if len(v) != m.cols {
		panic(fmt.Sprintf("linalg: cannot multiply %dx%d by vector of length %d", m.rows, m.cols, len(v)))
	}
	out := make(Vector, m.rows)
	cblas128.Gemv(blas.NoTrans, 1, m.general(), v.blas(), 0, out.blas())
	return out
}

// Mul returns a·b.
func Mul(a, b *Matrix) *Matrix {
	if a.cols != b.rows {
		panic(fmt.Sprintf("linalg: cannot multiply %dx%d by %dx%d", a.rows, a.cols, b.rows, b.cols))
	}
	c := NewMatrix(a.rows, b.cols)
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1, a.general(), b.general(), 0, c.general())
	return c
}

// OuterConj returns the projector-like outer product |v><v|.
func OuterConj(v Vector) *Matrix {
	d := len(v)
	m := NewMatrix(d, d)
	cblas128.Gerc(1, v.blas(), v.blas(), m.general())
	return m
}

// Kron returns the Kronecker product a⊗b. a is the most significant factor.
func Kron(a, b *Matrix) *Matrix {
	r, c := a.rows*b.rows, a.cols*b.cols
	k := NewMatrix(r, c)
	for i := 0; i < a.rows; i++ {
		for j := 0; j < a.cols; j++ {
			aij := a.data[i*a.cols+j]
			if aij == 0 {
				continue
			}
			for p := 0; p < b.rows; p++ {
				row := (i*b.rows + p) * c
				for q := 0; q < b.cols; q++ {
					k.data[row+j*b.cols+q] = aij * b.data[p*b.cols+q]
				}
			}
		}
	}
	return k
}

// H returns the conjugate transpose of m.
func (m *Matrix) H() *Matrix {
	h := NewMatrix(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			h.data[j*m.rows+i] = cmplx.Conj(m.data[i*m.cols+j])
		}
	}
	return h
}

// Scale multiplies m by alpha in place and returns m.
func (m *Matrix) Scale(alpha complex128) *Matrix {
	cblas128.Scal(alpha, m.flat())
	return m
}

// AddScaled adds alpha·b to m in place and returns m.
func (m *Matrix) AddScaled(alpha complex128, b *Matrix) *Matrix {
	m.mustSameShape(b)
	cblas128.Axpy(alpha, b.flat(), m.flat())
	return m
}

// Add adds b to m in place and returns m.
func (m *Matrix) Add(b *Matrix) *Matrix {
	return m.AddScaled(1, b)
}

// Sub subtracts b from m in place and returns m.
func (m *Matrix) Sub(b *Matrix) *Matrix {
	return m.AddScaled(-1, b)
}

func (m *Matrix) Trace() complex128 {
	if !m.IsSquare() {
		panic(fmt.Sprintf("linalg: trace of non-square %dx%d", m.rows, m.cols))
	}
	var t complex128
	for i := 0; i < m.rows; i++ {
		t += m.data[i*m.cols+i]
	}
	return t
}

// Equal reports bitwise equality of shape and entries.
func (m *Matrix) Equal(b *Matrix) bool {
	if m.rows != b.rows || m.cols != b.cols {
		return false
	}
	for i := range m.data {
		if m.data[i] != b.data[i] {
			return false
		}
	}
	return true
}

// EqualApprox reports whether every entry of m and b differs by at most tol.
func (m *Matrix) EqualApprox(b *Matrix, tol float64) bool {
	if m.rows != b.rows || m.cols != b.cols {
		return false
	}
	for i := range m.data {
		if cmplx.Abs(m.data[i]-b.data[i]) > tol {
			return false
		}
	}
	return true
}

func (m *Matrix) IsHermitian(tol float64) bool {
	if !m.IsSquare() {
		return false
	}
	for i := 0; i < m.rows; i++ {
		for j := i; j < m.cols; j++ {
			if cmplx.Abs(m.data[i*m.cols+j]-cmplx.Conj(m.data[j*m.cols+i])) > tol {
				return false
			}
		}
	}
	return true
}

// MaxAbsDiff returns the largest entrywise modulus of m-b.
func (m *Matrix) MaxAbsDiff(b *Matrix) float64 {
	m.mustSameShape(b)
	var d float64
	for i := range m.data {
		if x := cmplx.Abs(m.data[i] - b.data[i]); x > d {
			d = x
		}
	}
	return d
}

func (m *Matrix) String() string {
	return fmt.Sprintf("Matrix(%dx%d)%v", m.rows, m.cols, m.data)
}

func (m *Matrix) checkIndex(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("linalg: index (%d,%d) out of range for %dx%d", i, j, m.rows, m.cols))
	}
}

func (m *Matrix) mustSameShape(b *Matrix) {
	if m.rows != b.rows || m.cols != b.cols {
		panic(fmt.Sprintf("linalg: shape mismatch %dx%d != %dx%d", m.rows, m.cols, b.rows, b.cols))
	}
}

// ReverseQubits returns P·m·P where P maps qubit i to qubit n-1-i.
func (m *Matrix) ReverseQubits() *Matrix {
	if !m.IsSquare() {
		panic(fmt.Sprintf("linalg: cannot reorder qubits of non-square %dx%d", m.rows, m.cols))
	}
	n := qubitsOf(m.rows)
	out := NewMatrix(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		ri := reverseBits(i, n)
		for j := 0; j < m.cols; j++ {
			out.data[ri*m.cols+reverseBits(j, n)] = m.data[i*m.cols+j]
		}
	}
	return out
}
