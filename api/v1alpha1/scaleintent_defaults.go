package v1alpha1

import (
	"fmt"
	"strconv"
)

// Default fills unset behavior and interval fields in place. It is
// idempotent and never overwrites an explicitly set value.
func (s *ScaleIntent) Default() {
	spec := &s.Spec

	if spec.SyncIntervalSeconds <= 0 {
		spec.SyncIntervalSeconds = DefaultSyncIntervalSeconds
	}

	if spec.Behavior == nil {
		spec.Behavior = &Behavior{}
	}
	if spec.Behavior.ScaleUp == nil {
		spec.Behavior.ScaleUp = &ScaleUpRules{}
	}
	if spec.Behavior.ScaleDown == nil {
		spec.Behavior.ScaleDown = &ScaleDownRules{}
	}
	if spec.Behavior.ScaleUp.MaxIncrement == nil {
		spec.Behavior.ScaleUp.MaxIncrement = ptrTo(DefaultMaxScaleUpIncrement)
	}
	if spec.Behavior.ScaleUp.CooldownSeconds == nil {
		spec.Behavior.ScaleUp.CooldownSeconds = ptrTo(DefaultScaleUpCooldownSec)
	}
	if spec.Behavior.ScaleDown.MaxDecrement == nil {
		spec.Behavior.ScaleDown.MaxDecrement = ptrTo(DefaultMaxScaleDownDecrement)
	}
	if spec.Behavior.ScaleDown.CooldownSeconds == nil {
		spec.Behavior.ScaleDown.CooldownSeconds = ptrTo(DefaultScaleDownCooldownSec)
	}

	if spec.Metric.Type == MetricSourceRedis && spec.Metric.Redis != nil && spec.Metric.Redis.Port == 0 {
		spec.Metric.Redis.Port = 6379
	}
	if spec.Policy.Type == PolicySLO && spec.Policy.SLO != nil {
		slo := spec.Policy.SLO
		if slo.TargetLatencyMs == 0 {
			slo.TargetLatencyMs = 100
		}
		if slo.TargetErrorRate == "" {
			slo.TargetErrorRate = "0.01"
		}
		if slo.ViolationMultiplier == "" {
			slo.ViolationMultiplier = "1.5"
		}
	}
	if spec.Policy.Type == PolicyCostAware && spec.Policy.CostAware != nil &&
		spec.Policy.CostAware.PreferredScaleDirection == "" {
		spec.Policy.CostAware.PreferredScaleDirection = DirectionBalanced
	}
}

// ValidateSpec checks the cross-field constraints the CRD schema cannot
// express. A non-nil error means the intent cannot produce a working
// binding until the spec is edited.
func (s *ScaleIntent) ValidateSpec() error {
	spec := &s.Spec

	if spec.ScaleTargetRef.Name == "" {
		return fmt.Errorf("scaleTargetRef.name must be set")
	}
	if spec.MinReplicas < 1 {
		return fmt.Errorf("minReplicas must be >= 1, got %d", spec.MinReplicas)
	}
	if spec.MaxReplicas < spec.MinReplicas {
		return fmt.Errorf("maxReplicas (%d) must be >= minReplicas (%d)",
			spec.MaxReplicas, spec.MinReplicas)
	}

	target, err := spec.Metric.TargetValueFloat()
	if err != nil {
		return fmt.Errorf("metric.targetValue %q is not a number: %w", spec.Metric.TargetValue, err)
	}
	if target <= 0 {
		return fmt.Errorf("metric.targetValue must be > 0, got %s", spec.Metric.TargetValue)
	}

	switch spec.Metric.Type {
	case MetricSourcePrometheus:
		if spec.Metric.Prometheus == nil {
			return fmt.Errorf("metric.prometheus must be set when metric.type is %q", MetricSourcePrometheus)
		}
		if spec.Metric.Prometheus.ServerURL == "" || spec.Metric.Prometheus.Query == "" {
			return fmt.Errorf("metric.prometheus requires serverURL and query")
		}
	case MetricSourceRedis:
		if spec.Metric.Redis == nil {
			return fmt.Errorf("metric.redis must be set when metric.type is %q", MetricSourceRedis)
		}
		if spec.Metric.Redis.Host == "" || spec.Metric.Redis.QueueName == "" {
			return fmt.Errorf("metric.redis requires host and queueName")
		}
	case MetricSourcePubSub:
		if spec.Metric.PubSub == nil {
			return fmt.Errorf("metric.pubsub must be set when metric.type is %q", MetricSourcePubSub)
		}
		if spec.Metric.PubSub.ProjectID == "" || spec.Metric.PubSub.SubscriptionID == "" {
			return fmt.Errorf("metric.pubsub requires projectID and subscriptionID")
		}
	default:
		return fmt.Errorf("unknown metric type %q", spec.Metric.Type)
	}

	switch spec.Policy.Type {
	case PolicyProportional:
	case PolicySLO:
		if spec.Policy.SLO != nil {
			if err := validatePositiveFloat("policy.slo.violationMultiplier", spec.Policy.SLO.ViolationMultiplier, true); err != nil {
				return err
			}
			if err := validateUnitFloat("policy.slo.targetErrorRate", spec.Policy.SLO.TargetErrorRate); err != nil {
				return err
			}
		}
	case PolicyCostAware:
		if spec.Policy.CostAware == nil {
			return fmt.Errorf("policy.costAware must be set when policy.type is %q", PolicyCostAware)
		}
		if err := validatePositiveFloat("policy.costAware.maxMonthlyCost", spec.Policy.CostAware.MaxMonthlyCost, false); err != nil {
			return err
		}
		if err := validatePositiveFloat("policy.costAware.costPerPodPerHour", spec.Policy.CostAware.CostPerPodPerHour, true); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown policy type %q", spec.Policy.Type)
	}

	return nil
}

func validatePositiveFloat(field, value string, strict bool) error {
	if value == "" {
		return fmt.Errorf("%s must be set", field)
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%s %q is not a number: %w", field, value, err)
	}
	if strict && f <= 0 {
		return fmt.Errorf("%s must be > 0, got %s", field, value)
	}
	if !strict && f < 0 {
		return fmt.Errorf("%s must be >= 0, got %s", field, value)
	}
	return nil
}

func validateUnitFloat(field, value string) error {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%s %q is not a number: %w", field, value, err)
	}
	if f < 0 || f > 1 {
		return fmt.Errorf("%s must be within [0,1], got %s", field, value)
	}
	return nil
}

func ptrTo[T any](v T) *T { return &v }
