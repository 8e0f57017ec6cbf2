package policy

import (
	"fmt"
	"math"
	"strconv"

	"github.com/generalscaler/scale-intent-operator/api/v1alpha1"
)

// slo is proportional scaling that escalates while a latency or error-rate
// objective is violated. Compliance never shrinks the proportional baseline.
type slo struct {
	targetLatencyMs float64
	targetErrorRate float64
	multiplier      float64
}

func newSLO(spec v1alpha1.PolicySpec) (Policy, error) {
	p := slo{
		targetLatencyMs: 100,
		targetErrorRate: 0.01,
		multiplier:      1.5,
	}
	params := spec.SLO
	if params == nil {
		return p, nil
	}
	if params.TargetLatencyMs > 0 {
		p.targetLatencyMs = float64(params.TargetLatencyMs)
	}
	if params.TargetErrorRate != "" {
		v, err := strconv.ParseFloat(params.TargetErrorRate, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing targetErrorRate %q: %w", params.TargetErrorRate, err)
		}
		p.targetErrorRate = v
	}
	if params.ViolationMultiplier != "" {
		v, err := strconv.ParseFloat(params.ViolationMultiplier, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing violationMultiplier %q: %w", params.ViolationMultiplier, err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("violationMultiplier must be > 0, got %v", v)
		}
		p.multiplier = v
	}
	return p, nil
}

func (slo) Name() string { return string(v1alpha1.PolicySLO) }

func (p slo) violated(in Inputs) bool {
	return in.ObservedLatencyMs > p.targetLatencyMs || in.ObservedErrorRate > p.targetErrorRate
}

func (p slo) DesiredReplicas(in Inputs) (int32, error) {
	desired, err := baseline(in, false)
	if err != nil {
		return 0, err
	}
	if p.violated(in) {
		desired = int32(math.Ceil(float64(desired) * p.multiplier))
	}
	return clamp(desired, in.Min, in.Max), nil
}
