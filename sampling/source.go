// Package sampling turns shot indices into snapshots: draw the shot's
// unitary, ask the oracle for an outcome and invert the measurement channel.
package sampling

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/ensemble"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/linalg"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/oqtopus-team/oqtopus-engine/shadowapp/sampling"

var (
	tracer = otel.Tracer(instrumentationName)
	meter  = otel.Meter(instrumentationName)
)

// Source bundles everything one shot depends on. A Source is read-only while
// shots run.
type Source struct {
	Ensemble ensemble.Ensemble
	Oracle   core.MeasurementOracle
	Qubits   int
	Seed     uint64
	// Progress is optional.
	Progress *Progress
}

func (s *Source) Validate() error {
	if s.Ensemble == nil {
		return core.NewConfigError("ensemble", "no ensemble")
	}
	if s.Oracle == nil {
		return core.NewConfigError("oracle", "no measurement oracle")
	}
	if s.Qubits < 1 {
		return core.NewConfigError("qubits", "must be at least 1, got %d", s.Qubits)
	}
	return nil
}

// ShotRand returns the random stream of one shot. It depends only on the seed
// and the shot index, never on which worker runs the shot.
func ShotRand(seed uint64, shot int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(shot)))
}

// Snapshot runs shot i end to end.
func (s *Source) Snapshot(ctx context.Context, i int) (*linalg.Matrix, error) {
	ctx, span := tracer.Start(ctx, "shot", trace.WithAttributes(attribute.Int("shot", i)))
	defer span.End()

	choice, err := s.Ensemble.Sample(ShotRand(s.Seed, i), s.Qubits)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	outcome, err := s.Oracle.Measure(ctx, core.Shot{Index: i, Qubits: s.Qubits, Choice: choice})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "oracle failure")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		zap.L().Error(fmt.Sprintf("failed to measure shot %d/reason:%s", i, err))
		return nil, core.NewOracleFailure(i, err)
	}
	snap, err := s.Ensemble.Snapshot(outcome, choice, s.Qubits)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	s.Progress.done(ctx, s.Ensemble.Name())
	return snap, nil
}

// Progress counts finished shots. A nil Progress counts nothing.
type Progress struct {
	total     atomic.Int64
	completed atomic.Int64
	counter   metric.Int64Counter
}

func NewProgress() *Progress {
	p := &Progress{}
	c, err := meter.Int64Counter("shadow.shots.completed",
		metric.WithDescription("number of measured and inverted shots"))
	if err != nil {
		zap.L().Warn(fmt.Sprintf("failed to create shot counter/reason:%s", err))
	}
	p.counter = c
	return p
}

// Start resets the counters for a run of total shots.
func (p *Progress) Start(total int) {
	if p == nil {
		return
	}
	p.total.Store(int64(total))
	p.completed.Store(0)
}

func (p *Progress) done(ctx context.Context, ensembleName string) {
	if p == nil {
		return
	}
	p.completed.Add(1)
	if p.counter != nil {
		p.counter.Add(ctx, 1, metric.WithAttributes(attribute.String("ensemble", ensembleName)))
	}
}

func (p *Progress) Completed() int {
	if p == nil {
		return 0
	}
	return int(p.completed.Load())
}

func (p *Progress) Total() int {
	if p == nil {
		return 0
	}
	return int(p.total.Load())
}
