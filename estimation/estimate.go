package estimation

import (
	"context"
	"runtime"

	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/linalg"
	"golang.org/x/sync/errgroup"
)

// Functional is a linear map from a density-matrix estimate to a number.
// It must not modify its argument.
type Functional func(rho *linalg.Matrix) complex128

// Estimate applies f to every estimator and returns the real part of the
// median together with the individual values in estimator order. The
// prediction is not clamped to any physical range.
func Estimate(ctx context.Context, estimators []*linalg.Matrix, f Functional) (float64, []complex128, error) {
	if len(estimators) == 0 {
		return 0, nil, core.NewConfigError("estimators", "no estimators")
	}
	if f == nil {
		return 0, nil, core.NewConfigError("functional", "no functional")
	}
	values := make([]complex128, len(estimators))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, est := range estimators {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			values[i] = f(est)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, nil, err
	}
	med, err := Median(values)
	if err != nil {
		return 0, nil, err
	}
	return real(med), values, nil
}
