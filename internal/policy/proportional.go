package policy

import (
	"github.com/generalscaler/scale-intent-operator/api/v1alpha1"
)

// proportional scales replicas in proportion to how far the sampled metric
// sits from its per-pod target.
type proportional struct{}

func newProportional(_ v1alpha1.PolicySpec) (Policy, error) {
	return proportional{}, nil
}

func (proportional) Name() string { return string(v1alpha1.PolicyProportional) }

func (proportional) DesiredReplicas(in Inputs) (int32, error) {
	desired, err := baseline(in, false)
	if err != nil {
		return 0, err
	}
	return clamp(desired, in.Min, in.Max), nil
}
