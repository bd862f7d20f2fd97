package qpu

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/common"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"go.uber.org/zap"
)

const ReplaySettingName = "replay"

type ReplaySetting struct {
	Outcomes []string `toml:"outcomes"`
	// OutcomesPath names a file with one bitstring per line. It is appended
	// to Outcomes.
	OutcomesPath string `toml:"outcomes_path"`
	Cyclic       bool   `toml:"cyclic"`
}

// ReplayQPU answers shot i with the i-th recorded outcome, ignoring the
// unitary. It feeds recorded hardware data through the estimator.
type ReplayQPU struct {
	outcomes []core.Outcome
	cyclic   bool
}

func NewReplayQPU(outcomes []core.Outcome, cyclic bool) *ReplayQPU {
	return &ReplayQPU{outcomes: outcomes, cyclic: cyclic}
}

func (r *ReplayQPU) Setup(conf *core.Conf, setting *core.Setting) error {
	zap.L().Debug("setting up replay QPU")
	rs := &ReplaySetting{}
	if setting != nil {
		if err := setting.DecodeComponentSetting(ReplaySettingName, rs); err != nil {
			return err
		}
	}
	lines := rs.Outcomes
	if rs.OutcomesPath != "" {
		blob, err := common.ReadFile(rs.OutcomesPath)
		if err != nil {
			zap.L().Error(fmt.Sprintf("failed to read outcomes file:%s/reason:%s", rs.OutcomesPath, err))
			return err
		}
		for _, l := range strings.Split(blob, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				lines = append(lines, l)
			}
		}
	}
	if len(lines) == 0 {
		return core.NewConfigError("replay outcomes", "no outcomes to replay")
	}
	r.outcomes = make([]core.Outcome, 0, len(lines))
	for _, l := range lines {
		o := core.Outcome(l)
		if err := o.Validate(conf.Qubits); err != nil {
			return err
		}
		r.outcomes = append(r.outcomes, o)
	}
	r.cyclic = rs.Cyclic
	zap.L().Info(fmt.Sprintf("replay QPU loaded %d outcomes (cyclic:%t)", len(r.outcomes), r.cyclic))
	return nil
}

func (r *ReplayQPU) Measure(ctx context.Context, shot core.Shot) (core.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	idx := shot.Index
	if r.cyclic && len(r.outcomes) > 0 {
		idx %= len(r.outcomes)
	}
	if idx < 0 || idx >= len(r.outcomes) {
		return "", errors.Errorf("no recorded outcome for shot %d (%d recorded)", shot.Index, len(r.outcomes))
	}
	o := r.outcomes[idx]
	if err := o.Validate(shot.Qubits); err != nil {
		return "", err
	}
	return o, nil
}

func (r *ReplayQPU) TearDown() {}
