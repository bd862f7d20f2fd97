// Package estimation runs a classical shadow job end to end and reduces the
// shadow to a median-of-means prediction.
package estimation

import (
	"context"
	"fmt"
	"sync"

	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/ensemble"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/linalg"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/sampling"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/shadow"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	ESTIMATION_SETTING_KEY = "estimation"

	FIDELITY   = "fidelity"
	OBSERVABLE = "observable"
)

// MaxQubits bounds n. Every snapshot is a dense 4^n complex matrix.
const MaxQubits = 10

var tracer = otel.Tracer("github.com/oqtopus-team/oqtopus-engine/shadowapp/estimation")

type EstimationSetting struct {
	Functional string `toml:"functional"`
	// Operators is the Pauli operator JSON used by the observable functional.
	Operators string `toml:"operators"`
}

func NewEstimationSetting() *EstimationSetting {
	return &EstimationSetting{
		Functional: FIDELITY,
	}
}

func LoadEstimationSetting(setting *core.Setting) (*EstimationSetting, error) {
	es := NewEstimationSetting()
	if setting == nil {
		return es, nil
	}
	if err := setting.DecodeComponentSetting(ESTIMATION_SETTING_KEY, es); err != nil {
		return nil, err
	}
	return es, nil
}

// Build returns the functional the setting names for ensemble e. The
// fidelity functional needs a reference state.
func (es *EstimationSetting) Build(numQubits int, e ensemble.Ensemble, ref core.ReferenceState) (Functional, error) {
	reversed := ensemble.ReversedQubitOrder(e)
	switch es.Functional {
	case FIDELITY:
		if ref == nil {
			return nil, core.NewConfigError("functional", "fidelity needs an oracle with a reference state")
		}
		psi := ref.StateVector()
		if reversed && len(psi) == 1<<numQubits {
			psi = psi.ReverseQubits()
		}
		return Fidelity(psi, numQubits)
	case OBSERVABLE:
		op, err := ParsePauliOperator(es.Operators)
		if err != nil {
			return nil, err
		}
		zap.L().Debug(fmt.Sprintf("serialized operators:%s", op))
		return op.Observable(numQubits, reversed)
	default:
		return nil, core.NewConfigError("functional", "unknown functional %q", es.Functional)
	}
}

type Params struct {
	Qubits        int
	Shots         int
	Batches       int
	Ensemble      string
	Seed          uint64
	Workers       int
	CliffordDepth int
	// Stream builds the estimators from a lazy shot sequence on one
	// goroutine instead of keeping all snapshots. The result is identical.
	Stream bool
}

func ParamsFromConf(conf *core.Conf) Params {
	return Params{
		Qubits:        conf.Qubits,
		Shots:         conf.Shots,
		Batches:       conf.Batches,
		Ensemble:      conf.Ensemble,
		Seed:          conf.Seed,
		Workers:       conf.Workers,
		CliffordDepth: conf.CliffordDepth,
		Stream:        conf.Stream,
	}
}

// Validate returns every invalid parameter at once.
func (p Params) Validate() error {
	var err error
	if p.Qubits < 1 || p.Qubits > MaxQubits {
		err = multierr.Append(err, core.NewConfigError("qubits", "must be in [1, %d], got %d", MaxQubits, p.Qubits))
	}
	if p.Shots < 1 {
		err = multierr.Append(err, core.NewConfigError("shots", "must be at least 1, got %d", p.Shots))
	}
	if p.Batches < 1 {
		err = multierr.Append(err, core.NewConfigError("batches", "must be at least 1, got %d", p.Batches))
	} else if p.Shots >= 1 && p.Batches > p.Shots {
		err = multierr.Append(err, core.NewConfigError("batches", "%d batches need at least %d shots, got %d", p.Batches, p.Batches, p.Shots))
	}
	if p.Workers < 1 {
		err = multierr.Append(err, core.NewConfigError("workers", "must be at least 1, got %d", p.Workers))
	}
	if _, e := ensemble.New(p.Ensemble, ensemble.Options{CliffordDepth: p.CliffordDepth}); e != nil {
		err = multierr.Append(err, e)
	}
	return err
}

type Job struct {
	params   Params
	ensemble ensemble.Ensemble
	source   *sampling.Source

	mu   sync.Mutex
	last *core.Result
}

// NewJob validates params and binds them to oracle. progress may be nil.
func NewJob(params Params, oracle core.MeasurementOracle, progress *sampling.Progress) (*Job, error) {
	if err := params.Validate(); err != nil {
		zap.L().Error(fmt.Sprintf("invalid estimation parameters/reason:%s", err))
		return nil, err
	}
	if oracle == nil {
		return nil, core.NewConfigError("oracle", "no measurement oracle")
	}
	e, err := ensemble.New(params.Ensemble, ensemble.Options{CliffordDepth: params.CliffordDepth})
	if err != nil {
		return nil, err
	}
	return &Job{
		params:   params,
		ensemble: e,
		source: &sampling.Source{
			Ensemble: e,
			Oracle:   oracle,
			Qubits:   params.Qubits,
			Seed:     params.Seed,
			Progress: progress,
		},
	}, nil
}

func (j *Job) Ensemble() ensemble.Ensemble {
	return j.ensemble
}

func (j *Job) Params() Params {
	return j.params
}

// LastResult returns a copy of the result of the last successful Run, or nil.
func (j *Job) LastResult() *core.Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.last == nil {
		return nil
	}
	return j.last.Clone()
}

// Run measures exactly Shots shots, partitions them into Batches batches and
// returns the median-of-means prediction of f. Nothing is aggregated when any
// shot fails.
func (j *Job) Run(ctx context.Context, f Functional) (*core.Result, error) {
	if err := j.params.Validate(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, core.NewConfigError("functional", "no functional")
	}
	p := j.params
	res := core.NewResult()
	res.Ensemble = p.Ensemble
	res.Qubits = p.Qubits
	res.Shots = p.Shots
	res.Batches = p.Batches
	res.Seed = p.Seed

	ctx, span := tracer.Start(ctx, "estimate", trace.WithAttributes(
		attribute.String("run_id", res.RunID),
		attribute.String("ensemble", p.Ensemble),
		attribute.Int("qubits", p.Qubits),
		attribute.Int("shots", p.Shots),
		attribute.Int("batches", p.Batches),
	))
	defer span.End()

	zap.L().Info(fmt.Sprintf("starting shadow estimation %s/ensemble:%s/qubits:%d/shots:%d/batches:%d",
		res.RunID, p.Ensemble, p.Qubits, p.Shots, p.Batches))
	estimators, err := j.estimators(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "no estimators")
		zap.L().Error(fmt.Sprintf("failed to build estimators of %s/reason:%s", res.RunID, err))
		return nil, err
	}
	prediction, values, err := Estimate(ctx, estimators, f)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "estimation failed")
		return nil, err
	}

	m := p.Shots / p.Batches
	res.BatchSize = m
	res.Dropped = p.Shots - p.Batches*m
	res.Prediction = prediction
	res.BatchValues = make([]float64, len(values))
	for i, v := range values {
		res.BatchValues[i] = real(v)
	}
	res.Message = "success"
	res.Finish()
	j.mu.Lock()
	j.last = res.Clone()
	j.mu.Unlock()
	zap.L().Info(fmt.Sprintf("finished shadow estimation %s/prediction:%g/elapsed:%s",
		res.RunID, res.Prediction, res.ExecutionTime))
	return res, nil
}

func (j *Job) estimators(ctx context.Context) ([]*linalg.Matrix, error) {
	p := j.params
	if p.Stream {
		return shadow.BatchMeans(sampling.Sequence(ctx, j.source, p.Shots), p.Shots, p.Batches)
	}
	sh, err := sampling.Generate(ctx, j.source, p.Shots, p.Workers)
	if err != nil {
		return nil, err
	}
	return sh.Estimators(p.Batches)
}
