package policy

import (
	"fmt"
	"math"
	"strconv"

	"github.com/generalscaler/scale-intent-operator/api/v1alpha1"
)

// hoursPerMonth is the budgeting convention: 730 hours approximates one
// month of continuous operation.
const hoursPerMonth = 730.0

// costAware is proportional scaling capped by a monthly spend budget. The
// budget is advisory: when it would push the count below Min, Min wins and
// the overrun is reported through Budget.
type costAware struct {
	maxMonthlyCost    float64
	costPerPodPerHour float64
	direction         v1alpha1.ScaleDirection
}

func newCostAware(spec v1alpha1.PolicySpec) (Policy, error) {
	params := spec.CostAware
	if params == nil {
		return nil, fmt.Errorf("costAware parameters are required for policy type %q", spec.Type)
	}
	maxCost, err := strconv.ParseFloat(params.MaxMonthlyCost, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing maxMonthlyCost %q: %w", params.MaxMonthlyCost, err)
	}
	podCost, err := strconv.ParseFloat(params.CostPerPodPerHour, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing costPerPodPerHour %q: %w", params.CostPerPodPerHour, err)
	}
	if podCost <= 0 {
		return nil, fmt.Errorf("costPerPodPerHour must be > 0, got %v", podCost)
	}
	direction := params.PreferredScaleDirection
	if direction == "" {
		direction = v1alpha1.DirectionBalanced
	}
	return costAware{
		maxMonthlyCost:    maxCost,
		costPerPodPerHour: podCost,
		direction:         direction,
	}, nil
}

func (costAware) Name() string { return string(v1alpha1.PolicyCostAware) }

// maxAffordable is the largest replica count the monthly budget covers.
func (p costAware) maxAffordable() int32 {
	return int32(math.Floor(p.maxMonthlyCost / (p.costPerPodPerHour * hoursPerMonth)))
}

// MonthlyCost projects the monthly spend of running n replicas.
func (p costAware) MonthlyCost(n int32) float64 {
	return float64(n) * p.costPerPodPerHour * hoursPerMonth
}

func (p costAware) DesiredReplicas(in Inputs) (int32, error) {
	desired, err := baseline(in, p.direction == v1alpha1.DirectionDown)
	if err != nil {
		return 0, err
	}
	if affordable := p.maxAffordable(); desired > affordable {
		desired = affordable
	}
	return clamp(desired, in.Min, in.Max), nil
}

// Budget reports how the monthly budget constrained the decision for in.
func (p costAware) Budget(in Inputs) BudgetReport {
	affordable := p.maxAffordable()
	report := BudgetReport{BelowMin: affordable < in.Min}
	if desired, err := baseline(in, p.direction == v1alpha1.DirectionDown); err == nil && desired > affordable {
		report.Capped = true
	}
	return report
}
