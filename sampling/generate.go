package sampling

import (
	"context"
	"fmt"
	"iter"

	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/linalg"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/scheduler"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/shadow"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Generate runs shots 0..shots-1 on workers goroutines and returns the full
// shadow in shot order. The first failing shot cancels the others and no
// shadow is returned.
func Generate(ctx context.Context, src *Source, shots, workers int) (*shadow.Shadow, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if shots < 1 {
		return nil, core.NewConfigError("shots", "must be at least 1, got %d", shots)
	}
	if workers < 1 {
		return nil, core.NewConfigError("workers", "must be at least 1, got %d", workers)
	}
	workers = min(workers, shots)

	ctx, span := tracer.Start(ctx, "generate", trace.WithAttributes(
		attribute.String("ensemble", src.Ensemble.Name()),
		attribute.Int("qubits", src.Qubits),
		attribute.Int("shots", shots),
		attribute.Int("workers", workers),
	))
	defer span.End()

	queue, err := scheduler.NewFilledShotQueue(shots)
	if err != nil {
		return nil, err
	}
	src.Progress.Start(shots)
	sh := shadow.New(shots)

	zap.L().Debug(fmt.Sprintf("generating %d shots with %d workers", shots, workers))
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				i, err := queue.Dequeue()
				if scheduler.IsEmpty(err) {
					return nil
				}
				if err != nil {
					return err
				}
				snap, err := src.Snapshot(gctx, i)
				if err != nil {
					return err
				}
				sh.Set(i, snap)
			}
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "shot generation aborted")
		zap.L().Error(fmt.Sprintf("failed to generate shadow/reason:%s", err))
		return nil, err
	}
	if err := sh.Complete(); err != nil {
		return nil, err
	}
	return sh, nil
}

// Sequence returns the snapshots of shots 0..shots-1 lazily, one shot at a
// time. Ranging over it twice runs the shots twice and yields the same
// snapshots. Iteration stops after the first error.
func Sequence(ctx context.Context, src *Source, shots int) iter.Seq2[*linalg.Matrix, error] {
	return func(yield func(*linalg.Matrix, error) bool) {
		if err := src.Validate(); err != nil {
			yield(nil, err)
			return
		}
		src.Progress.Start(shots)
		for i := 0; i < shots; i++ {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			snap, err := src.Snapshot(ctx, i)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(snap, nil) {
				return
			}
		}
	}
}
