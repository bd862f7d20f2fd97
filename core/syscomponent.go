package core

import (
	"context"
	"fmt"

	"github.com/oqtopus-team/oqtopus-engine/shadowapp/linalg"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

// MeasurementOracle turns one randomized measurement request into one
// sampled bitstring. Implementations own their randomness but must derive it
// from the shot so that reruns are reproducible. Errors are returned as-is;
// retries are up to the implementation.
type MeasurementOracle interface {
	Setup(*Conf, *Setting) error
	Measure(context.Context, Shot) (Outcome, error)
	TearDown()
}

// ReferenceState is an optional ground-truth provider used by validation
// functionals such as fidelity.
type ReferenceState interface {
	StateVector() linalg.Vector
}

type SystemComponents struct {
	*dig.Container
}

func NewSystemComponents(con *dig.Container) *SystemComponents {
	return &SystemComponents{con}
}

func (s *SystemComponents) Setup(conf *Conf, setting *Setting) error {
	zap.L().Debug("Setting up measurement oracle")
	err := s.Invoke(
		func(o MeasurementOracle) error {
			return o.Setup(conf, setting)
		})
	if err != nil {
		return err
	}
	return nil
}

func (s *SystemComponents) TearDown() {
	_ = s.Invoke(
		func(o MeasurementOracle) {
			o.TearDown()
		})
}

func (s *SystemComponents) Oracle() (MeasurementOracle, error) {
	var oracle MeasurementOracle
	err := s.Invoke(
		func(o MeasurementOracle) {
			oracle = o
		})
	if err != nil {
		return nil, err
	}
	return oracle, nil
}

// ReferenceState returns the reference state when the oracle knows one.
func (s *SystemComponents) ReferenceState() (ReferenceState, error) {
	oracle, err := s.Oracle()
	if err != nil {
		return nil, err
	}
	rs, ok := oracle.(ReferenceState)
	if !ok {
		return nil, fmt.Errorf("oracle %T does not provide a reference state", oracle)
	}
	return rs, nil
}
