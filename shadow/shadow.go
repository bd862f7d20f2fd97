// Package shadow collects snapshots and turns them into median-of-means
// estimators.
package shadow

import (
	"fmt"
	"iter"
	"runtime"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/linalg"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Shadow is an ordered sequence of snapshots. Slots created by New may be
// filled concurrently with Set as long as every goroutine writes its own
// index.
type Shadow struct {
	snapshots []*linalg.Matrix
}

// New returns a shadow with size empty slots.
func New(size int) *Shadow {
	return &Shadow{snapshots: make([]*linalg.Matrix, size)}
}

func (s *Shadow) Set(i int, snapshot *linalg.Matrix) {
	s.snapshots[i] = snapshot
}

func (s *Shadow) Len() int {
	return len(s.snapshots)
}

// Snapshots returns the snapshots in shot order. The slice is shared.
func (s *Shadow) Snapshots() []*linalg.Matrix {
	return s.snapshots
}

// Complete returns an error naming the first unfilled slot.
func (s *Shadow) Complete() error {
	snaps := s.Snapshots()
	for i, snap := range snaps {
		if snap == nil {
			return errors.Errorf("shadow is partial: snapshot %d of %d is missing", i, len(snaps))
		}
	}
	return nil
}

// Estimators partitions a complete shadow into k batch means.
func (s *Shadow) Estimators(k int) ([]*linalg.Matrix, error) {
	if err := s.Complete(); err != nil {
		return nil, err
	}
	return PartitionAndMean(s.Snapshots(), k)
}

// BatchSize returns floor(total/k) and validates the partition.
func BatchSize(total, k int) (int, error) {
	if k < 1 {
		return 0, core.NewConfigError("batches", "must be at least 1, got %d", k)
	}
	m := total / k
	if m < 1 {
		return 0, core.NewConfigError("batches", "%d batches need at least %d snapshots, got %d", k, k, total)
	}
	return m, nil
}

// PartitionAndMean splits snapshots into k contiguous batches of
// m = len/k snapshots and returns the mean of each. The trailing len-k·m
// snapshots are dropped.
func PartitionAndMean(snapshots []*linalg.Matrix, k int) ([]*linalg.Matrix, error) {
	m, err := BatchSize(len(snapshots), k)
	if err != nil {
		return nil, err
	}
	if err := checkShapes(snapshots[:k*m]); err != nil {
		return nil, err
	}
	if dropped := len(snapshots) - k*m; dropped > 0 {
		zap.L().Debug(fmt.Sprintf("dropping %d trailing snapshots of %d", dropped, len(snapshots)))
	}

	estimators := make([]*linalg.Matrix, k)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < k; i++ {
		g.Go(func() error {
			estimators[i] = mean(snapshots[i*m : (i+1)*m])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return estimators, nil
}

// BatchMeans is PartitionAndMean over a lazy sequence of total snapshots.
// It consumes all total snapshots, so a failing trailing shot fails the
// call, but only the first k·m enter a running sum.
func BatchMeans(seq iter.Seq2[*linalg.Matrix, error], total, k int) ([]*linalg.Matrix, error) {
	m, err := BatchSize(total, k)
	if err != nil {
		return nil, err
	}
	estimators := make([]*linalg.Matrix, 0, k)
	var sum *linalg.Matrix
	n := 0
	for snap, err := range seq {
		if err != nil {
			return nil, err
		}
		if snap == nil {
			return nil, core.NewShapeError("snapshot", "snapshot %d is missing", n)
		}
		if len(estimators) < k {
			if sum == nil {
				sum = snap.Clone()
			} else {
				if err := sameShape(sum, snap, n); err != nil {
					return nil, err
				}
				sum.Add(snap)
			}
			if (n+1)%m == 0 {
				estimators = append(estimators, sum.Scale(complex(1/float64(m), 0)))
				sum = nil
			}
		}
		n++
		if n == total {
			if dropped := total - k*m; dropped > 0 {
				zap.L().Debug(fmt.Sprintf("dropping %d trailing snapshots of %d", dropped, total))
			}
			return estimators, nil
		}
	}
	return nil, errors.Errorf("sequence ended after %d of %d snapshots", n, total)
}

func mean(batch []*linalg.Matrix) *linalg.Matrix {
	sum := batch[0].Clone()
	for _, s := range batch[1:] {
		sum.Add(s)
	}
	return sum.Scale(complex(1/float64(len(batch)), 0))
}

func checkShapes(snapshots []*linalg.Matrix) error {
	for i, s := range snapshots {
		if s == nil {
			return core.NewShapeError("snapshot", "snapshot %d is missing", i)
		}
		if err := sameShape(snapshots[0], s, i); err != nil {
			return err
		}
	}
	return nil
}

func sameShape(ref, s *linalg.Matrix, i int) error {
	r0, c0 := ref.Dims()
	r, c := s.Dims()
	if r != r0 || c != c0 {
		return core.NewShapeError("snapshot", "snapshot %d is %dx%d, want %dx%d", i, r, c, r0, c0)
	}
	return nil
}
