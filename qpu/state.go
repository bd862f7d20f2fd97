package qpu

import (
	"fmt"
	"math"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/linalg"
	"go.uber.org/zap"
)

const (
	BELL = "bell"
	GHZ  = "ghz"
	ZERO = "zero"
	PLUS = "plus"
)

const SimulatorSettingName = "simulator"

type SimulatorSetting struct {
	// State names a prepared state. Ignored when Amplitudes is set.
	State string `toml:"state"`
	// Amplitudes lists (re, im) pairs in outcome index order.
	Amplitudes  [][]float64 `toml:"amplitudes"`
	FailureRate float64     `toml:"failure_rate"`
	// Seed of the measurement randomness. Zero derives it from the run seed.
	Seed uint64 `toml:"seed"`
}

func NewSimulatorSetting() *SimulatorSetting {
	return &SimulatorSetting{
		State: BELL,
	}
}

func LoadSimulatorSetting(setting *core.Setting) (*SimulatorSetting, error) {
	ss := NewSimulatorSetting()
	if setting == nil {
		return ss, nil
	}
	if err := setting.DecodeComponentSetting(SimulatorSettingName, ss); err != nil {
		return nil, err
	}
	if ss.FailureRate < 0 || ss.FailureRate > 1 {
		return nil, core.NewConfigError("failure_rate", "must be in [0, 1], got %v", ss.FailureRate)
	}
	return ss, nil
}

// StateVector returns the state the setting describes on numQubits qubits.
func (ss *SimulatorSetting) StateVector(numQubits int) (linalg.Vector, error) {
	if len(ss.Amplitudes) > 0 {
		return StateFromAmplitudes(ss.Amplitudes, numQubits)
	}
	return PrepareState(ss.State, numQubits)
}

// PrepareState returns a named n-qubit state. bell is (|0..0>+|1..1>)/√2 and
// therefore identical to ghz; it is only defined for two qubits.
func PrepareState(name string, numQubits int) (linalg.Vector, error) {
	if numQubits < 1 {
		return nil, core.NewConfigError("qubits", "must be at least 1, got %d", numQubits)
	}
	d := 1 << numQubits
	v := make(linalg.Vector, d)
	switch name {
	case BELL:
		if numQubits != 2 {
			return nil, core.NewConfigError("state", "bell state needs 2 qubits, got %d", numQubits)
		}
		fallthrough
	case GHZ:
		v[0] = complex(1/math.Sqrt2, 0)
		v[d-1] = complex(1/math.Sqrt2, 0)
	case ZERO:
		v[0] = 1
	case PLUS:
		a := complex(1/math.Sqrt(float64(d)), 0)
		for i := range v {
			v[i] = a
		}
	default:
		return nil, core.NewConfigError("state", "unknown state %q", name)
	}
	zap.L().Debug(fmt.Sprintf("prepared %s state on %d qubits", name, numQubits))
	return v, nil
}

// StateFromAmplitudes builds a normalized state from (re, im) pairs.
func StateFromAmplitudes(amps [][]float64, numQubits int) (linalg.Vector, error) {
	if numQubits < 1 {
		return nil, core.NewConfigError("qubits", "must be at least 1, got %d", numQubits)
	}
	d := 1 << numQubits
	if len(amps) != d {
		return nil, core.NewShapeError("amplitudes", "%d amplitudes for %d qubits, want %d", len(amps), numQubits, d)
	}
	v := make(linalg.Vector, d)
	for i, a := range amps {
		if len(a) != 2 {
			return nil, core.NewShapeError("amplitudes", "amplitude %d has %d parts, want (re, im)", i, len(a))
		}
		v[i] = complex(a[0], a[1])
	}
	if v.Norm() == 0 {
		return nil, errors.New("amplitudes describe the zero vector")
	}
	return v.Normalized(), nil
}
