// Package controller implements the Kubernetes controller for ScaleIntent resources.
//
// The controller package contains the reconciliation logic for managing
// ScaleIntent custom resources. It orchestrates metric sampling, policy
// evaluation, safety gating, and actuation to scale arbitrary workloads
// toward a declared target.
//
// # Architecture
//
// The ScaleIntentReconciler is the main controller that:
//   - Watches ScaleIntent resources and requeues each on its sync interval
//   - Samples the configured metric backend (Prometheus, Redis, Pub/Sub)
//   - Evaluates the configured policy to compute a desired replica count
//   - Gates the decision through per-direction cooldowns and step caps
//   - Writes the result through the scale subresource of the target
//   - Emits the scaleintent_desired_replicas gauge
//   - Updates ScaleIntent status with current and desired state
//
// # Reconciliation Flow
//
//  1. Fetch the ScaleIntent resource (NotFound tears down cached state)
//  2. Default and validate the spec
//  3. Ensure the metric source / policy binding matches the current spec
//  4. Read current replicas from the target's scale subresource
//  5. Sample the metric and evaluate the policy
//  6. Gate the decision through the safe scaler
//  7. Apply the new replica count and record the scale time
//  8. Patch status and schedule the next tick via RequeueAfter
//
// # Error Handling
//
// The controller reports state through conditions:
//   - Ready: overall health of the intent
//   - InvalidConfig: spec rejected by validation or binding construction
//   - TargetMissing: scale target not found
//   - MetricUnavailable: backend unreachable or returned garbage
//   - ScalingSucceeded / ScalingFailed: outcome of the last actuation attempt
//   - CostBudgetExceeded: the cost budget capped the desired count, or
//     affords fewer than minReplicas (the minReplicas floor still wins)
//
// Transient faults skip the tick and leave the workload untouched; the
// next tick starts clean.
//
// # Usage
//
// Controllers are registered in cmd/main.go:
//
//	if err := (&controller.ScaleIntentReconciler{
//		Client:   mgr.GetClient(),
//		Scheme:   mgr.GetScheme(),
//		// ... other fields
//	}).SetupWithManager(mgr); err != nil {
//		setupLog.Error(err, "unable to create controller", "controller", "ScaleIntent")
//		os.Exit(1)
//	}
//
// See also:
//   - internal/metrics: metric backend sampling
//   - internal/policy: replica computation
//   - internal/scaler: cooldown and step-cap gating
//   - internal/actuator: scale subresource access and metric emission
package controller
