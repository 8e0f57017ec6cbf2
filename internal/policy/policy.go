// Package policy maps a metric sample to a desired replica count.
//
// Policies are pure and deterministic: no I/O, no clocks, no state. All
// runtime inputs arrive through the Inputs struct, which makes every
// algorithm trivially table-testable.
package policy

import (
	"fmt"
	"math"
	"sync"

	"github.com/generalscaler/scale-intent-operator/api/v1alpha1"
)

// Inputs is everything a policy may consult for one decision.
type Inputs struct {
	CurrentReplicas int32
	CurrentMetric   float64
	TargetMetric    float64
	Min             int32
	Max             int32

	// ObservedLatencyMs and ObservedErrorRate are optional service-health
	// readings. Zero means "no observation", which never violates an SLO.
	ObservedLatencyMs float64
	ObservedErrorRate float64
}

// Policy computes the ideal replica count for one tick. The result is a
// recommendation; rate limiting and cooldowns are applied downstream.
type Policy interface {
	Name() string
	DesiredReplicas(in Inputs) (int32, error)
}

// BudgetReport describes how a spend budget constrained one decision.
type BudgetReport struct {
	// Capped is set when the budget reduced the computed replica count.
	Capped bool
	// BelowMin is set when the budget alone affords fewer replicas than
	// Min requires. Min wins; the overrun is surfaced as a condition.
	BelowMin bool
}

// BudgetChecker is implemented by policies with a spend budget.
type BudgetChecker interface {
	Budget(in Inputs) BudgetReport
}

// Builder constructs a Policy from a policy spec.
type Builder func(spec v1alpha1.PolicySpec) (Policy, error)

var (
	buildersMu sync.RWMutex
	builders   = map[v1alpha1.PolicyType]Builder{}
)

// Register installs a builder for the given policy type.
func Register(t v1alpha1.PolicyType, b Builder) {
	buildersMu.Lock()
	defer buildersMu.Unlock()
	builders[t] = b
}

// New constructs the policy selected by spec.Type. An unknown type is a
// configuration error.
func New(spec v1alpha1.PolicySpec) (Policy, error) {
	buildersMu.RLock()
	b, ok := builders[spec.Type]
	buildersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown policy type %q", spec.Type)
	}
	return b(spec)
}

func init() {
	Register(v1alpha1.PolicyProportional, newProportional)
	Register(v1alpha1.PolicySLO, newSLO)
	Register(v1alpha1.PolicyCostAware, newCostAware)
}

// clamp bounds n to [min, max].
func clamp(n, min, max int32) int32 {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// baseline is the shared proportional computation, unclamped so that
// derived policies can adjust it before bounding. A zero metric reads as
// "no load" and returns Min. roundDown floors the scaled count instead of
// ceiling it.
func baseline(in Inputs, roundDown bool) (int32, error) {
	if in.TargetMetric <= 0 {
		return 0, fmt.Errorf("target metric must be > 0, got %v", in.TargetMetric)
	}
	if in.CurrentMetric == 0 {
		return in.Min, nil
	}

	current := in.CurrentReplicas
	if current < 1 {
		current = 1
	}
	ratio := in.CurrentMetric / in.TargetMetric
	scaled := ratio * float64(current)
	if roundDown {
		return int32(math.Floor(scaled)), nil
	}
	return int32(math.Ceil(scaled)), nil
}
