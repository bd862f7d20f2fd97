package core

import (
	"context"
	"fmt"

	"go.uber.org/dig"
)

type UnimplementedOracle struct{}

func (u *UnimplementedOracle) Setup(*Conf, *Setting) error { return nil }

func (u *UnimplementedOracle) Measure(_ context.Context, s Shot) (Outcome, error) {
	return OutcomeFromIndex(0, s.Qubits), nil
}

func (u *UnimplementedOracle) TearDown() {}

type errorOracleForTest struct {
	UnimplementedOracle
}

func (errorOracleForTest) Measure(context.Context, Shot) (Outcome, error) {
	return "", fmt.Errorf("oracle error")
}

type failSetupOracleForTest struct {
	UnimplementedOracle
}

func (failSetupOracleForTest) Setup(*Conf, *Setting) error {
	return fmt.Errorf("setup error")
}

func SCWithOracle(o MeasurementOracle) *SystemComponents {
	c := dig.New()
	c.Provide(func() MeasurementOracle { return o })
	s := NewSystemComponents(c)
	s.Setup(&Conf{}, NewSetting())
	return s
}

func SCWithUnimplementedContainer() *SystemComponents {
	return SCWithOracle(&UnimplementedOracle{})
}
