package qpu

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/linalg"
	"go.uber.org/zap"
)

// mixed into the run seed so measurement draws differ from unitary draws
const oracleSeedSalt uint64 = 0x9e3779b97f4a7c15

// SimulatorQPU measures a fixed pure state by statevector simulation. Qubit i
// is bit i of the outcome index, so it is printed as character n-1-i.
type SimulatorQPU struct {
	state  linalg.Vector
	qubits int
	seed   uint64

	EnableLatencyInsertion bool
	Latency                time.Duration
	FailureRate            float64
}

// NewSimulatorQPU returns a ready simulator of state. Use it when the state
// does not come from a setting file.
func NewSimulatorQPU(state linalg.Vector, seed uint64) (*SimulatorQPU, error) {
	n := 0
	for 1<<n < len(state) {
		n++
	}
	if n < 1 || 1<<n != len(state) {
		return nil, core.NewShapeError("state", "length %d is not 2^n with n >= 1", len(state))
	}
	return &SimulatorQPU{
		state:  state.Normalized(),
		qubits: n,
		seed:   seed,
	}, nil
}

func (s *SimulatorQPU) Setup(conf *core.Conf, setting *core.Setting) error {
	zap.L().Debug("setting up simulator QPU")
	ss, err := LoadSimulatorSetting(setting)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to load simulator setting/reason:%s", err))
		return err
	}
	state, err := ss.StateVector(conf.Qubits)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to prepare state/reason:%s", err))
		return err
	}
	s.state = state
	s.qubits = conf.Qubits
	s.seed = ss.Seed
	if s.seed == 0 {
		s.seed = conf.Seed ^ oracleSeedSalt
	}
	s.FailureRate = ss.FailureRate
	s.EnableLatencyInsertion = conf.EnableOracleLatency
	s.Latency = time.Duration(conf.OracleLatency) * time.Millisecond
	return nil
}

func (s *SimulatorQPU) Measure(ctx context.Context, shot core.Shot) (core.Outcome, error) {
	if shot.Qubits != s.qubits {
		return "", core.NewShapeError("shot", "%d qubits requested from a %d qubit simulator", shot.Qubits, s.qubits)
	}
	if s.EnableLatencyInsertion && s.Latency > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.Latency):
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rng := rand.New(rand.NewPCG(s.seed, uint64(shot.Index)))
	if s.FailureRate > 0 && rng.Float64() < s.FailureRate {
		zap.L().Debug(fmt.Sprintf("[Simulator] injected failure at shot %d", shot.Index))
		return "", errors.Errorf("simulated measurement failure at shot %d", shot.Index)
	}

	amp, err := s.rotate(shot.Choice)
	if err != nil {
		return "", err
	}
	return core.OutcomeFromIndex(sampleBorn(rng, amp), s.qubits), nil
}

func (s *SimulatorQPU) TearDown() {}

// StateVector returns a copy of the simulated state.
func (s *SimulatorQPU) StateVector() linalg.Vector {
	return s.state.Clone()
}

func (s *SimulatorQPU) rotate(c core.Choice) (linalg.Vector, error) {
	if c.IsFactored() {
		if err := c.Bases.Validate(s.qubits); err != nil {
			return nil, err
		}
		amp := s.state.Clone()
		for q, b := range c.Bases {
			applyQubitRotation(amp, b.Rotation(), q)
		}
		return amp, nil
	}
	d := len(s.state)
	if c.Dagger == nil {
		return nil, core.NewShapeError("unitary", "shot carries neither unitary nor bases")
	}
	if r, cols := c.Dagger.Dims(); r != d || cols != d {
		return nil, core.NewShapeError("unitary", "%dx%d unitary for %d qubits", r, cols, s.qubits)
	}
	return c.Unitary().MulVec(s.state), nil
}

func applyQubitRotation(v linalg.Vector, g *linalg.Matrix, q int) {
	mask := 1 << q
	g00, g01, g10, g11 := g.At(0, 0), g.At(0, 1), g.At(1, 0), g.At(1, 1)
	for i := range v {
		if i&mask != 0 {
			continue
		}
		a, b := v[i], v[i|mask]
		v[i] = g00*a + g01*b
		v[i|mask] = g10*a + g11*b
	}
}

func sampleBorn(rng *rand.Rand, amp linalg.Vector) int {
	r := rng.Float64()
	acc := 0.0
	last := 0
	for i, a := range amp {
		p := real(a)*real(a) + imag(a)*imag(a)
		if p == 0 {
			continue
		}
		last = i
		acc += p
		if r < acc {
			return i
		}
	}
	// rounding left r above the accumulated mass
	return last
}
