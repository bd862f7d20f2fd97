package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/mohae/deepcopy"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/linalg"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

// Outcome is a measured bitstring. Character 0 is the most significant bit,
// so qubit i is read from character len-1-i.
type Outcome string

func (o Outcome) Validate(numQubits int) error {
	if len(o) != numQubits {
		return NewShapeError("outcome", "length %d does not match %d qubits", len(o), numQubits)
	}
	for i, c := range o {
		if c != '0' && c != '1' {
			return NewShapeError("outcome", "character %q at position %d is not a bit", c, i)
		}
	}
	return nil
}

// Index is the integer value of the bitstring read as binary.
// The outcome must be valid.
func (o Outcome) Index() int {
	idx := 0
	for i := 0; i < len(o); i++ {
		idx <<= 1
		if o[i] == '1' {
			idx |= 1
		}
	}
	return idx
}

// QubitBit returns the measured bit of qubit i.
func (o Outcome) QubitBit(i int) int {
	if o[len(o)-1-i] == '1' {
		return 1
	}
	return 0
}

func OutcomeFromIndex(idx, numQubits int) Outcome {
	return Outcome(fmt.Sprintf("%0*b", numQubits, idx))
}

// Basis is the single-qubit measurement basis of the factored ensemble.
type Basis int

const (
	BasisX Basis = iota
	BasisY
	BasisZ
)

func (b Basis) String() string {
	switch b {
	case BasisX:
		return "X"
	case BasisY:
		return "Y"
	case BasisZ:
		return "Z"
	default:
		return "unknown"
	}
}

func (b Basis) Valid() bool {
	return b == BasisX || b == BasisY || b == BasisZ
}

// BasisAssignment maps qubit index to measurement basis.
type BasisAssignment []Basis

func (a BasisAssignment) String() string {
	var sb strings.Builder
	for _, b := range a {
		sb.WriteString(b.String())
	}
	return sb.String()
}

func (a BasisAssignment) Validate(numQubits int) error {
	if len(a) != numQubits {
		return NewShapeError("basis assignment", "%d bases for %d qubits", len(a), numQubits)
	}
	for i, b := range a {
		if !b.Valid() {
			return NewShapeError("basis assignment", "qubit %d has unknown basis id %d", i, int(b))
		}
	}
	return nil
}

// Choice is the random unitary drawn for one shot. Global ensembles fill
// Dagger (the conjugate transpose of the applied unitary); the factored
// ensemble fills Bases.
type Choice struct {
	Ensemble string
	Dagger   *linalg.Matrix
	Bases    BasisAssignment
}

func (c Choice) IsFactored() bool {
	return c.Bases != nil
}

// Unitary returns the unitary the oracle has to apply before measuring in
// the computational basis. Only defined for global choices.
func (c Choice) Unitary() *linalg.Matrix {
	return c.Dagger.H()
}

// Shot is one measurement request handed to the oracle.
type Shot struct {
	Index  int
	Qubits int
	Choice Choice
}

type Result struct {
	RunID         string          `json:"run_id"`
	Version       string          `json:"version"`
	Ensemble      string          `json:"ensemble"`
	Qubits        int             `json:"qubits"`
	Shots         int             `json:"shots"`
	Batches       int             `json:"batches"`
	BatchSize     int             `json:"batch_size"`
	Dropped       int             `json:"dropped"`
	Seed          uint64          `json:"seed"`
	Prediction    float64         `json:"prediction"`
	BatchValues   []float64       `json:"batch_values"`
	Message       string          `json:"message"`
	Started       strfmt.DateTime `json:"started"`
	Ended         strfmt.DateTime `json:"ended"`
	ExecutionTime time.Duration   `json:"execution_time"`
}

func NewResult() *Result {
	return &Result{
		RunID:       uuid.New().String(),
		Version:     Version,
		BatchValues: make([]float64, 0),
		Started:     strfmt.DateTime(time.Now()),
	}
}

func (r *Result) Finish() {
	r.Ended = strfmt.DateTime(time.Now())
	r.ExecutionTime = time.Time(r.Ended).Sub(time.Time(r.Started))
}

func (r *Result) Clone() *Result {
	c := deepcopy.Copy(r).(*Result)
	c.Started = *r.Started.DeepCopy()
	c.Ended = *r.Ended.DeepCopy()
	return c
}

func (r *Result) ToString() string {
	st, err := jsonIter.Marshal(r)
	if err != nil {
		zap.L().Error("Failed to marshal core.Result")
		return ""
	}
	st = pretty.Pretty(st)
	return string(st)
}
