//go:build unit
// +build unit

package core

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/linalg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"
)

type referenceOracleForTest struct {
	UnimplementedOracle
}

func (referenceOracleForTest) StateVector() linalg.Vector {
	return linalg.OneHot(2, 0)
}

func TestSystemComponentsOracle(t *testing.T) {
	s := SCWithUnimplementedContainer()
	defer s.TearDown()
	o, err := s.Oracle()
	require.NoError(t, err)
	out, err := o.Measure(context.Background(), Shot{Qubits: 3})
	require.NoError(t, err)
	assert.Equal(t, Outcome("000"), out)

	_, err = s.ReferenceState()
	assert.Error(t, err)
}

func TestSystemComponentsReferenceState(t *testing.T) {
	s := SCWithOracle(&referenceOracleForTest{})
	defer s.TearDown()
	rs, err := s.ReferenceState()
	require.NoError(t, err)
	assert.Equal(t, linalg.OneHot(2, 0), rs.StateVector())
}

func TestSystemComponentsSetup(t *testing.T) {
	tests := []struct {
		name    string
		oracle  MeasurementOracle
		wantErr bool
	}{
		{name: "ok", oracle: &UnimplementedOracle{}},
		{name: "setup fails", oracle: &failSetupOracleForTest{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := dig.New()
			require.NoError(t, c.Provide(func() MeasurementOracle { return tt.oracle }))
			s := NewSystemComponents(c)
			err := s.Setup(&Conf{}, NewSetting())
			if tt.wantErr {
				assert.EqualError(t, err, "setup error")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSystemComponentsWithMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := NewMockMeasurementOracle(ctrl)
	conf := &Conf{Qubits: 2}
	setting := NewSetting()
	m.EXPECT().Setup(conf, setting).Return(nil)
	m.EXPECT().TearDown()

	c := dig.New()
	require.NoError(t, c.Provide(func() MeasurementOracle { return m }))
	s := NewSystemComponents(c)
	require.NoError(t, s.Setup(conf, setting))
	s.TearDown()
}

func TestErrorOracle(t *testing.T) {
	s := SCWithOracle(&errorOracleForTest{})
	defer s.TearDown()
	o, err := s.Oracle()
	require.NoError(t, err)
	_, err = o.Measure(context.Background(), Shot{Qubits: 1})
	assert.EqualError(t, err, "oracle error")
}
