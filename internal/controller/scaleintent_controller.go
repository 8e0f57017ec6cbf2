package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/generalscaler/scale-intent-operator/api/v1alpha1"
	"github.com/generalscaler/scale-intent-operator/internal/actuator"
	"github.com/generalscaler/scale-intent-operator/internal/binding"
	"github.com/generalscaler/scale-intent-operator/internal/config"
	"github.com/generalscaler/scale-intent-operator/internal/logging"
	"github.com/generalscaler/scale-intent-operator/internal/metrics"
	"github.com/generalscaler/scale-intent-operator/internal/policy"
	"github.com/generalscaler/scale-intent-operator/internal/scaler"
)

// ScaleIntentReconciler drives one scaling tick per reconcile call and
// schedules the next tick through RequeueAfter. controller-runtime
// guarantees at most one in-flight reconcile per intent, so ticks for the
// same intent never overlap.
type ScaleIntentReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Config   config.Operator
	Scaler   *scaler.SafeScaler
	Bindings *binding.Registry
	Adapter  *actuator.Adapter
}

// +kubebuilder:rbac:groups=autoscaling.generalscaler.io,resources=scaleintents,verbs=get;list;watch
// +kubebuilder:rbac:groups=autoscaling.generalscaler.io,resources=scaleintents/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=apps,resources=deployments,verbs=get;list;watch
// +kubebuilder:rbac:groups=apps,resources=deployments/scale,verbs=get;update;patch
// +kubebuilder:rbac:groups="",resources=secrets,verbs=get

// Reconcile runs one tick: sample the metric, compute the desired replica
// count, gate it, and apply it. Skipped ticks leave cooldown state and the
// workload untouched.
func (r *ScaleIntentReconciler) Reconcile(ctx context.Context, req ctrl.Request) (result ctrl.Result, retErr error) {
	logger := ctrl.LoggerFrom(ctx)

	// A panic in one tick must not take the worker down or poison the
	// binding; the tick fails and the next one starts clean.
	defer func() {
		if p := recover(); p != nil {
			logger.Error(fmt.Errorf("panic: %v", p), "reconcile tick panicked", "intent", req.NamespacedName)
			retErr = fmt.Errorf("reconcile tick panicked: %v", p)
		}
	}()

	intent := &v1alpha1.ScaleIntent{}
	if err := r.Get(ctx, req.NamespacedName, intent); err != nil {
		if apierrors.IsNotFound(err) {
			r.teardown(ctx, req.NamespacedName)
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, err
	}

	intervalUnset := intent.Spec.SyncIntervalSeconds <= 0
	intent.Default()
	original := intent.DeepCopy()

	if err := intent.ValidateSpec(); err != nil {
		logger.Info("intent spec is invalid", "intent", req.NamespacedName, "reason", err.Error())
		r.setInvalidConfig(intent, v1alpha1.ReasonInvalidSpec, err)
		return ctrl.Result{}, r.patchStatus(ctx, intent, original)
	}

	bnd, err := r.ensureBinding(ctx, intent)
	if err != nil {
		logger.Info("binding construction failed", "intent", req.NamespacedName, "reason", err.Error())
		r.setInvalidConfig(intent, v1alpha1.ReasonValidationFailed, err)
		return ctrl.Result{}, r.patchStatus(ctx, intent, original)
	}

	interval := time.Duration(intent.SyncIntervalOrDefault()) * time.Second
	if intervalUnset && r.Config.DefaultSyncInterval > 0 {
		interval = r.Config.DefaultSyncInterval
	}
	ref := actuator.RefFor(intent)

	current, err := r.getReplicas(ctx, ref)
	switch {
	case errors.Is(err, actuator.ErrTargetNotFound):
		meta.SetStatusCondition(&intent.Status.Conditions, metav1.Condition{
			Type:    v1alpha1.TypeTargetMissing,
			Status:  metav1.ConditionTrue,
			Reason:  v1alpha1.ReasonTargetNotFound,
			Message: err.Error(),
		})
		r.setReady(intent, false, v1alpha1.ReasonTargetNotFound, "scale target not found")
		return ctrl.Result{RequeueAfter: interval}, r.patchStatus(ctx, intent, original)
	case err != nil:
		logger.V(logging.DEBUG).Info("transient error reading replicas", "intent", req.NamespacedName, "error", err.Error())
		return ctrl.Result{RequeueAfter: interval}, r.patchStatus(ctx, intent, original)
	}
	meta.SetStatusCondition(&intent.Status.Conditions, metav1.Condition{
		Type:   v1alpha1.TypeTargetMissing,
		Status: metav1.ConditionFalse,
		Reason: v1alpha1.ReasonReconciled,
	})
	intent.Status.CurrentReplicas = current

	sample, err := bnd.Source.Sample(ctx)
	if err != nil {
		// Transient by contract: skip the tick, touch nothing.
		logger.V(logging.DEBUG).Info("metric sample unavailable", "intent", req.NamespacedName, "error", err.Error())
		meta.SetStatusCondition(&intent.Status.Conditions, metav1.Condition{
			Type:    v1alpha1.TypeMetricUnavailable,
			Status:  metav1.ConditionTrue,
			Reason:  v1alpha1.ReasonSampleFailed,
			Message: err.Error(),
		})
		return ctrl.Result{RequeueAfter: interval}, r.patchStatus(ctx, intent, original)
	}
	meta.SetStatusCondition(&intent.Status.Conditions, metav1.Condition{
		Type:   v1alpha1.TypeMetricUnavailable,
		Status: metav1.ConditionFalse,
		Reason: v1alpha1.ReasonReconciled,
	})
	intent.Status.CurrentMetricValue = strconv.FormatFloat(sample, 'f', 3, 64)

	in := r.policyInputs(ctx, intent, bnd, current, sample)

	desired, err := bnd.Policy.DesiredReplicas(in)
	if err != nil {
		r.setInvalidConfig(intent, v1alpha1.ReasonValidationFailed, err)
		return ctrl.Result{}, r.patchStatus(ctx, intent, original)
	}

	r.setBudgetCondition(intent, bnd.Policy, in)

	decision := r.Scaler.Decide(req.NamespacedName, current, desired, in.Min, in.Max, intent.Spec.Behavior)
	logger.V(logging.DEBUG).Info("tick decision",
		"intent", req.NamespacedName,
		"sample", sample,
		"current", current,
		"desired", desired,
		"act", decision.Act,
		"target", decision.Target,
		"reason", decision.Reason)

	if decision.Act {
		if err := r.setReplicas(ctx, ref, decision.Target); err != nil {
			logger.Info("scaling write failed", "intent", req.NamespacedName, "error", err.Error())
			meta.SetStatusCondition(&intent.Status.Conditions, metav1.Condition{
				Type:    v1alpha1.TypeScalingFailed,
				Status:  metav1.ConditionTrue,
				Reason:  v1alpha1.ReasonWriteRejected,
				Message: err.Error(),
			})
			meta.SetStatusCondition(&intent.Status.Conditions, metav1.Condition{
				Type:    v1alpha1.TypeScalingSucceeded,
				Status:  metav1.ConditionFalse,
				Reason:  v1alpha1.ReasonWriteRejected,
				Message: "latest scaling write was rejected",
			})
			r.setReady(intent, true, v1alpha1.ReasonReconciled, "tick completed with failed scaling write")
			return ctrl.Result{RequeueAfter: interval}, r.patchStatus(ctx, intent, original)
		}
		r.Scaler.MarkScaled(req.NamespacedName)
		now := metav1.Now()
		intent.Status.LastScaleTime = &now
		meta.SetStatusCondition(&intent.Status.Conditions, metav1.Condition{
			Type:    v1alpha1.TypeScalingSucceeded,
			Status:  metav1.ConditionTrue,
			Reason:  v1alpha1.ReasonScaleApplied,
			Message: decision.Reason,
		})
		meta.SetStatusCondition(&intent.Status.Conditions, metav1.Condition{
			Type:    v1alpha1.TypeScalingFailed,
			Status:  metav1.ConditionFalse,
			Reason:  v1alpha1.ReasonScaleApplied,
			Message: decision.Reason,
		})
	} else {
		meta.SetStatusCondition(&intent.Status.Conditions, metav1.Condition{
			Type:    v1alpha1.TypeScalingSucceeded,
			Status:  metav1.ConditionFalse,
			Reason:  v1alpha1.ReasonNoScalingNeeded,
			Message: decision.Reason,
		})
	}

	intent.Status.DesiredReplicas = decision.Target
	actuator.EmitDesiredReplicas(intent.Namespace, intent.TargetName(), intent.Name, decision.Target)
	r.setReady(intent, true, v1alpha1.ReasonReconciled, "tick completed")

	return ctrl.Result{RequeueAfter: interval}, r.patchStatus(ctx, intent, original)
}

// ensureBinding returns the live binding for the intent, rebuilding it when
// the spec changed since the binding was made.
func (r *ScaleIntentReconciler) ensureBinding(ctx context.Context, intent *v1alpha1.ScaleIntent) (*binding.Binding, error) {
	key := client.ObjectKeyFromObject(intent)
	hash, err := binding.SpecHash(&intent.Spec)
	if err != nil {
		return nil, err
	}
	if existing := r.Bindings.Get(key); existing != nil && existing.SpecHash == hash {
		return existing, nil
	}

	deps := metrics.Deps{SampleTimeout: r.Config.SampleTimeout}
	if redisSpec := intent.Spec.Metric.Redis; redisSpec != nil && redisSpec.PasswordSecretRef != nil {
		password, err := r.resolveSecret(ctx, intent.Namespace, redisSpec.PasswordSecretRef)
		if err != nil {
			return nil, err
		}
		deps.RedisPassword = password
	}

	source, err := metrics.New(intent.Spec.Metric, deps)
	if err != nil {
		return nil, err
	}
	if err := source.Validate(ctx); err != nil {
		_ = source.Close()
		return nil, fmt.Errorf("validating %s source: %w", source.Name(), err)
	}

	pol, err := policy.New(intent.Spec.Policy)
	if err != nil {
		_ = source.Close()
		return nil, err
	}

	bnd := &binding.Binding{Source: source, Policy: pol, SpecHash: hash}
	if err := r.Bindings.Swap(key, bnd); err != nil {
		ctrl.LoggerFrom(ctx).V(logging.DEBUG).Info("closing previous binding failed",
			"intent", key, "error", err.Error())
	}
	return bnd, nil
}

// policyInputs assembles the pure inputs for one decision. The absolute
// replica ceiling from operator config bounds every intent's max.
func (r *ScaleIntentReconciler) policyInputs(ctx context.Context, intent *v1alpha1.ScaleIntent, bnd *binding.Binding, current int32, sample float64) policy.Inputs {
	target, _ := intent.Spec.Metric.TargetValueFloat()

	max := intent.Spec.MaxReplicas
	if r.Config.AbsoluteMaxReplicas > 0 && max > r.Config.AbsoluteMaxReplicas {
		max = r.Config.AbsoluteMaxReplicas
	}

	in := policy.Inputs{
		CurrentReplicas: current,
		CurrentMetric:   sample,
		TargetMetric:    target,
		Min:             intent.Spec.MinReplicas,
		Max:             max,
	}
	if intent.Spec.Policy.Type == v1alpha1.PolicySLO {
		if observer, ok := bnd.Source.(metrics.Observer); ok {
			obs := observer.Observations(ctx)
			in.ObservedLatencyMs = obs.LatencyMs
			in.ObservedErrorRate = obs.ErrorRate
		}
	}
	return in
}

func (r *ScaleIntentReconciler) setBudgetCondition(intent *v1alpha1.ScaleIntent, pol policy.Policy, in policy.Inputs) {
	checker, ok := pol.(policy.BudgetChecker)
	if !ok {
		return
	}
	report := checker.Budget(in)
	switch {
	case report.BelowMin:
		meta.SetStatusCondition(&intent.Status.Conditions, metav1.Condition{
			Type:    v1alpha1.TypeCostBudgetExceeded,
			Status:  metav1.ConditionTrue,
			Reason:  v1alpha1.ReasonBudgetBelowMin,
			Message: fmt.Sprintf("budget affords fewer than minReplicas=%d; holding at minimum", in.Min),
		})
	case report.Capped:
		meta.SetStatusCondition(&intent.Status.Conditions, metav1.Condition{
			Type:    v1alpha1.TypeCostBudgetExceeded,
			Status:  metav1.ConditionTrue,
			Reason:  v1alpha1.ReasonBudgetCapped,
			Message: "budget capped the desired replica count",
		})
	default:
		meta.SetStatusCondition(&intent.Status.Conditions, metav1.Condition{
			Type:   v1alpha1.TypeCostBudgetExceeded,
			Status: metav1.ConditionFalse,
			Reason: v1alpha1.ReasonReconciled,
		})
	}
}

func (r *ScaleIntentReconciler) setInvalidConfig(intent *v1alpha1.ScaleIntent, reason string, err error) {
	meta.SetStatusCondition(&intent.Status.Conditions, metav1.Condition{
		Type:    v1alpha1.TypeInvalidConfig,
		Status:  metav1.ConditionTrue,
		Reason:  reason,
		Message: err.Error(),
	})
	r.setReady(intent, false, reason, "intent cannot be reconciled until the spec is fixed")
}

func (r *ScaleIntentReconciler) setReady(intent *v1alpha1.ScaleIntent, ready bool, reason, message string) {
	status := metav1.ConditionFalse
	if ready {
		status = metav1.ConditionTrue
		meta.SetStatusCondition(&intent.Status.Conditions, metav1.Condition{
			Type:   v1alpha1.TypeInvalidConfig,
			Status: metav1.ConditionFalse,
			Reason: v1alpha1.ReasonReconciled,
		})
	}
	meta.SetStatusCondition(&intent.Status.Conditions, metav1.Condition{
		Type:    v1alpha1.TypeReady,
		Status:  status,
		Reason:  reason,
		Message: message,
	})
}

func (r *ScaleIntentReconciler) patchStatus(ctx context.Context, intent, original *v1alpha1.ScaleIntent) error {
	return r.Status().Patch(ctx, intent, client.MergeFrom(original))
}

// teardown releases everything attached to a deleted intent.
func (r *ScaleIntentReconciler) teardown(ctx context.Context, key types.NamespacedName) {
	logger := ctrl.LoggerFrom(ctx)
	if err := r.Bindings.Delete(key); err != nil {
		logger.V(logging.DEBUG).Info("closing binding on teardown failed", "intent", key, "error", err.Error())
	}
	r.Scaler.Forget(key)
	actuator.ForgetDesiredReplicas(key.Namespace, key.Name)
	logger.Info("intent removed, binding and cooldown state released", "intent", key)
}

func (r *ScaleIntentReconciler) getReplicas(ctx context.Context, ref actuator.TargetRef) (int32, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Config.SampleTimeout)
	defer cancel()
	return r.Adapter.GetReplicas(ctx, ref)
}

func (r *ScaleIntentReconciler) setReplicas(ctx context.Context, ref actuator.TargetRef, n int32) error {
	ctx, cancel := context.WithTimeout(ctx, r.Config.SampleTimeout)
	defer cancel()
	return r.Adapter.SetReplicas(ctx, ref, n)
}

func (r *ScaleIntentReconciler) resolveSecret(ctx context.Context, namespace string, ref *v1alpha1.SecretKeyRef) (string, error) {
	secret := &corev1.Secret{}
	if err := r.Get(ctx, types.NamespacedName{Namespace: namespace, Name: ref.Name}, secret); err != nil {
		return "", fmt.Errorf("reading secret %s/%s: %w", namespace, ref.Name, err)
	}
	value, ok := secret.Data[ref.Key]
	if !ok {
		return "", fmt.Errorf("secret %s/%s has no key %q", namespace, ref.Name, ref.Key)
	}
	return string(value), nil
}

// SetupWithManager registers the reconciler with the manager.
func (r *ScaleIntentReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&v1alpha1.ScaleIntent{}).
		Named("scaleintent").
		Complete(r)
}
