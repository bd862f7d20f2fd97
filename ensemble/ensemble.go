// Package ensemble draws the random unitaries of a classical shadow and pairs
// every ensemble with the inverse channel that undoes it.
package ensemble

import (
	"math/rand/v2"
	"sort"

	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/linalg"
)

const (
	GLOBAL_CLIFFORD = "global_clifford"
	GLOBAL_HAAR     = "global_haar"
	PAULI           = "pauli"
)

// Ensemble is a distribution over measurement unitaries together with the
// matching snapshot construction. New ensembles plug in here without touching
// aggregation or estimation.
type Ensemble interface {
	Name() string
	Sample(rng *rand.Rand, numQubits int) (core.Choice, error)
	Snapshot(outcome core.Outcome, choice core.Choice, numQubits int) (*linalg.Matrix, error)
}

type Options struct {
	// CliffordDepth overrides the random walk length of the Clifford
	// sampler. Zero selects DefaultCliffordDepth.
	CliffordDepth int
}

var factories = map[string]func(Options) Ensemble{
	GLOBAL_CLIFFORD: func(o Options) Ensemble { return &GlobalClifford{Depth: o.CliffordDepth} },
	GLOBAL_HAAR:     func(Options) Ensemble { return &GlobalHaar{} },
	PAULI:           func(Options) Ensemble { return &PauliBasis{} },
}

func New(name string, opts Options) (Ensemble, error) {
	f, ok := factories[name]
	if !ok {
		return nil, core.NewConfigError("ensemble", "%q is not one of %v", name, Names())
	}
	if opts.CliffordDepth < 0 {
		return nil, core.NewConfigError("clifford depth", "must not be negative, got %d", opts.CliffordDepth)
	}
	return f(opts), nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for k := range factories {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func checkQubits(numQubits int) error {
	if numQubits < 1 {
		return core.NewConfigError("qubits", "must be at least 1, got %d", numQubits)
	}
	return nil
}

type qubitOrderer interface {
	ReversedQubitOrder() bool
}

// ReversedQubitOrder reports whether the snapshots of e place qubit 0 as the
// most significant tensor factor. Global snapshots follow the outcome index
// order instead, where qubit 0 is the least significant bit.
func ReversedQubitOrder(e Ensemble) bool {
	if o, ok := e.(qubitOrderer); ok {
		return o.ReversedQubitOrder()
	}
	return false
}
