package estimation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	jsoniter "github.com/json-iterator/go"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/linalg"
	"go.uber.org/zap"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

// Fidelity returns ρ ↦ <ψ|ρ|ψ> for estimators of numQubits qubits.
func Fidelity(psi linalg.Vector, numQubits int) (Functional, error) {
	d, err := dimension(numQubits)
	if err != nil {
		return nil, err
	}
	if len(psi) != d {
		return nil, core.NewShapeError("reference state", "%d amplitudes for %d qubits, want %d", len(psi), numQubits, d)
	}
	return func(rho *linalg.Matrix) complex128 {
		return psi.Dot(rho.MulVec(psi))
	}, nil
}

// Observable returns ρ ↦ tr(O·ρ) for estimators of numQubits qubits.
func Observable(o *linalg.Matrix, numQubits int) (Functional, error) {
	d, err := dimension(numQubits)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, core.NewShapeError("observable", "no operator for %d qubits", numQubits)
	}
	if r, c := o.Dims(); r != d || c != d {
		return nil, core.NewShapeError("observable", "%dx%d operator for %d qubits, want %dx%d", r, c, numQubits, d, d)
	}
	return func(rho *linalg.Matrix) complex128 {
		var t complex128
		for i := 0; i < d; i++ {
			for j := 0; j < d; j++ {
				t += o.At(i, j) * rho.At(j, i)
			}
		}
		return t
	}, nil
}

func dimension(numQubits int) (int, error) {
	if numQubits < 1 || numQubits > MaxQubits {
		return 0, core.NewConfigError("qubits", "must be in [1, %d], got %d", MaxQubits, numQubits)
	}
	return 1 << numQubits, nil
}

// PauliTerm is one weighted Pauli string such as "X0 Z2". Qubits left out
// carry the identity.
type PauliTerm struct {
	Pauli string  `json:"pauli"`
	CoEff float64 `json:"coeff"`
}

// PauliOperator is a real-weighted sum of Pauli strings.
type PauliOperator []PauliTerm

// ParsePauliOperator reads the operator JSON of an estimation request,
// e.g. [{"pauli":"X0 X1","coeff":1.5},{"pauli":"Y0 Z1","coeff":1.2}].
func ParsePauliOperator(s string) (PauliOperator, error) {
	op := PauliOperator{}
	if err := jsonIter.Unmarshal([]byte(s), &op); err != nil {
		zap.L().Error(fmt.Sprintf("failed to unmarshal operators from :%s/reason:%s", s, err))
		return nil, core.NewConfigError("operators", "%s", err)
	}
	if len(op) == 0 {
		return nil, core.NewConfigError("operators", "no Pauli terms")
	}
	return op, nil
}

func (p PauliOperator) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, term := range p {
		sb.WriteString(fmt.Sprintf("[\"%s\", %g]", term.Pauli, term.CoEff))
		if i != len(p)-1 {
			sb.WriteString(", ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Matrix builds the 2^n×2^n matrix of p. In index order qubit 0 is the least
// significant factor; with reversed it is the most significant one, matching
// ensembles whose snapshots are laid out that way.
func (p PauliOperator) Matrix(numQubits int, reversed bool) (*linalg.Matrix, error) {
	if numQubits < 1 {
		return nil, core.NewConfigError("qubits", "must be at least 1, got %d", numQubits)
	}
	d := 1 << numQubits
	sum := linalg.NewMatrix(d, d)
	for _, term := range p {
		factors, err := parsePauliString(term.Pauli, numQubits)
		if err != nil {
			return nil, err
		}
		var m *linalg.Matrix
		for k := 0; k < numQubits; k++ {
			q := numQubits - 1 - k
			if reversed {
				q = k
			}
			f := pauliMatrices[factors[q]]
			if m == nil {
				m = f.Clone()
				continue
			}
			m = linalg.Kron(m, f)
		}
		sum.AddScaled(complex(term.CoEff, 0), m)
	}
	return sum, nil
}

// Observable is shorthand for Observable(p.Matrix(numQubits, reversed), numQubits).
func (p PauliOperator) Observable(numQubits int, reversed bool) (Functional, error) {
	m, err := p.Matrix(numQubits, reversed)
	if err != nil {
		return nil, err
	}
	return Observable(m, numQubits)
}

var pauliMatrices = map[byte]*linalg.Matrix{
	'I': linalg.Identity(2),
	'X': linalg.NewMatrixFromRows([][]complex128{{0, 1}, {1, 0}}),
	'Y': linalg.NewMatrixFromRows([][]complex128{{0, -1i}, {1i, 0}}),
	'Z': linalg.NewMatrixFromRows([][]complex128{{1, 0}, {0, -1}}),
}

// parsePauliString maps "X0 Z2" to one Pauli letter per qubit.
func parsePauliString(s string, numQubits int) ([]byte, error) {
	factors := make([]byte, numQubits)
	for i := range factors {
		factors[i] = 'I'
	}
	for _, tok := range strings.Fields(s) {
		letter := byte(unicode.ToUpper(rune(tok[0])))
		if _, ok := pauliMatrices[letter]; !ok || len(tok) < 2 {
			return nil, core.NewConfigError("operators", "bad Pauli factor %q in %q", tok, s)
		}
		q, err := strconv.Atoi(tok[1:])
		if err != nil {
			return nil, core.NewConfigError("operators", "bad qubit index in %q: %s", tok, err)
		}
		if q < 0 || q >= numQubits {
			return nil, core.NewShapeError("operators", "qubit %d out of range for %d qubits", q, numQubits)
		}
		if factors[q] != 'I' {
			return nil, core.NewConfigError("operators", "qubit %d appears twice in %q", q, s)
		}
		factors[q] = letter
	}
	return factors, nil
}
