// Package scaler gates raw policy output behind rate limits and cooldowns.
package scaler

import (
	"fmt"
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/types"
	"k8s.io/utils/clock"

	"github.com/generalscaler/scale-intent-operator/api/v1alpha1"
)

// Decision is the gated outcome of one tick. When Act is false, Target is
// the current replica count, which is what status reports as desired.
type Decision struct {
	Act    bool
	Target int32
	Reason string
}

// SafeScaler decides whether a policy recommendation may be applied now.
// It tracks the last confirmed scale time per intent; callers mark a scale
// only after the workload write succeeded, so rejected or failed writes
// never start a cooldown.
type SafeScaler struct {
	clock clock.PassiveClock

	mu         sync.Mutex
	lastScaled map[types.NamespacedName]time.Time
}

// NewSafeScaler returns a SafeScaler on the real clock.
func NewSafeScaler() *SafeScaler {
	return NewSafeScalerWithClock(clock.RealClock{})
}

// NewSafeScalerWithClock injects the clock, for tests.
func NewSafeScalerWithClock(c clock.PassiveClock) *SafeScaler {
	return &SafeScaler{
		clock:      c,
		lastScaled: map[types.NamespacedName]time.Time{},
	}
}

// Decide gates desired against the behavior envelope. Checks run in a fixed
// order: no-op short-circuit, cooldown for the movement direction, step cap,
// bound clamp, then a final no-op check in case clamping swallowed the move.
func (s *SafeScaler) Decide(key types.NamespacedName, current, desired, min, max int32, behavior *v1alpha1.Behavior) Decision {
	if desired == current {
		return Decision{Act: false, Target: current, Reason: "already at desired replica count"}
	}

	scalingUp := desired > current
	cooldown := cooldownFor(behavior, scalingUp)

	s.mu.Lock()
	last, scaledBefore := s.lastScaled[key]
	s.mu.Unlock()

	if scaledBefore && cooldown > 0 {
		elapsed := s.clock.Now().Sub(last)
		if elapsed < cooldown {
			return Decision{
				Act:    false,
				Target: current,
				Reason: fmt.Sprintf("cooldown active for %s", (cooldown - elapsed).Round(time.Second)),
			}
		}
	}

	target := applyStepCap(behavior, current, desired, scalingUp)
	target = clampBounds(target, min, max)

	if target == current {
		return Decision{Act: false, Target: current, Reason: "step cap and bounds leave replica count unchanged"}
	}
	return Decision{Act: true, Target: target, Reason: fmt.Sprintf("scaling from %d to %d", current, target)}
}

// MarkScaled records a confirmed workload write for key. Only confirmed
// writes start a cooldown window.
func (s *SafeScaler) MarkScaled(key types.NamespacedName) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastScaled[key] = s.clock.Now()
}

// Forget drops all state for key. Called when the intent is deleted so a
// recreated intent starts with a clean slate.
func (s *SafeScaler) Forget(key types.NamespacedName) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lastScaled, key)
}

func cooldownFor(behavior *v1alpha1.Behavior, up bool) time.Duration {
	seconds := v1alpha1.DefaultScaleDownCooldownSec
	if up {
		seconds = v1alpha1.DefaultScaleUpCooldownSec
	}
	if behavior != nil {
		if up && behavior.ScaleUp != nil && behavior.ScaleUp.CooldownSeconds != nil {
			seconds = *behavior.ScaleUp.CooldownSeconds
		}
		if !up && behavior.ScaleDown != nil && behavior.ScaleDown.CooldownSeconds != nil {
			seconds = *behavior.ScaleDown.CooldownSeconds
		}
	}
	return time.Duration(seconds) * time.Second
}

// applyStepCap limits the per-tick replica delta. A cap of zero or less
// means the direction is uncapped.
func applyStepCap(behavior *v1alpha1.Behavior, current, desired int32, up bool) int32 {
	if up {
		step := v1alpha1.DefaultMaxScaleUpIncrement
		if behavior != nil && behavior.ScaleUp != nil && behavior.ScaleUp.MaxIncrement != nil {
			step = *behavior.ScaleUp.MaxIncrement
		}
		if step > 0 && desired > current+step {
			return current + step
		}
		return desired
	}
	step := v1alpha1.DefaultMaxScaleDownDecrement
	if behavior != nil && behavior.ScaleDown != nil && behavior.ScaleDown.MaxDecrement != nil {
		step = *behavior.ScaleDown.MaxDecrement
	}
	if step > 0 && desired < current-step {
		return current - step
	}
	return desired
}

func clampBounds(n, min, max int32) int32 {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
