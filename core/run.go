package core

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/run"
	"go.uber.org/zap"
)

type RunContext struct {
	*run.Group
	context.Context
}

func NewRunContext(ctx context.Context) *RunContext {
	return &RunContext{
		Group:   &run.Group{},
		Context: ctx,
	}
}

type PeriodicTask struct {
	Period time.Duration
	PeriodicTaskImpl
}

type PeriodicTaskImpl interface {
	Setup() error
	RequirePeriodUpdate() (ok bool, duration time.Duration)
	Task()
	Cleanup()
}

type DefaultTaskImpl struct{}

func (v *DefaultTaskImpl) Setup() error {
	return nil
}

func (v *DefaultTaskImpl) RequirePeriodUpdate() (bool, time.Duration) {
	return false, 0
}

func (v *DefaultTaskImpl) Task() {}

func (v *DefaultTaskImpl) Cleanup() {}

func (rc *RunContext) AddPeriodicTask(t *PeriodicTask, taskName string) error {
	if t.Period <= 0 {
		return fmt.Errorf("period of %s must be positive, got %v", taskName, t.Period)
	}
	if err := t.Setup(); err != nil {
		zap.L().Error(fmt.Sprintf("failed to setup/name:%s/reason:%s", taskName, err.Error()))
		return err
	}
	ctx, cancel := context.WithCancel(rc.Context)
	lastPeriod := t.Period
	rc.Group.Add(
		func() error {
			ticker := time.NewTicker(t.Period)
			zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/Start]", taskName))
			t.PeriodicTaskImpl.Task()
			for {
				select {
				case <-ctx.Done():
					zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]Cleaning up periodic task", taskName))
					ticker.Stop()
					t.PeriodicTaskImpl.Cleanup()
					zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]Cleaned up periodic task", taskName))
					return ctx.Err()
				case <-ticker.C:
					t.PeriodicTaskImpl.Task()
					ok, newPeriod := t.RequirePeriodUpdate()
					if ok && newPeriod != lastPeriod {
						zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/ResetPeriod]Resetting periodic task. from %v to %v",
							taskName, lastPeriod, newPeriod))
						ticker.Reset(newPeriod)
						lastPeriod = newPeriod
					}
				}
			}
		},
		func(error) {
			zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]Cancelling periodic task", taskName))
			cancel()
		},
	)
	return nil
}

// AddJob runs fn once. The group stops as soon as fn returns, and fn's
// context is cancelled when any other actor of the group stops first.
func (rc *RunContext) AddJob(jobName string, fn func(context.Context) error) {
	ctx, cancel := context.WithCancel(rc.Context)
	rc.Group.Add(
		func() error {
			zap.L().Info(fmt.Sprintf("[Job/%s/Start]", jobName))
			err := fn(ctx)
			if err != nil {
				zap.L().Error(fmt.Sprintf("[Job/%s/Error]reason:%s", jobName, err))
				return err
			}
			zap.L().Info(fmt.Sprintf("[Job/%s/Finished]", jobName))
			return nil
		},
		func(error) {
			cancel()
		},
	)
}
