package controller

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	appsv1 "k8s.io/api/apps/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	clocktesting "k8s.io/utils/clock/testing"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/generalscaler/scale-intent-operator/api/v1alpha1"
	"github.com/generalscaler/scale-intent-operator/internal/actuator"
	"github.com/generalscaler/scale-intent-operator/internal/binding"
	"github.com/generalscaler/scale-intent-operator/internal/config"
	"github.com/generalscaler/scale-intent-operator/internal/metrics"
	"github.com/generalscaler/scale-intent-operator/internal/policy"
	"github.com/generalscaler/scale-intent-operator/internal/scaler"
)

// stubSource feeds scripted samples into the tick pipeline.
type stubSource struct {
	value  float64
	err    error
	closed int
}

func (s *stubSource) Name() string                            { return "stub" }
func (s *stubSource) Sample(context.Context) (float64, error) { return s.value, s.err }
func (s *stubSource) Validate(context.Context) error          { return nil }
func (s *stubSource) Close() error                            { s.closed++; return nil }

var _ = Describe("ScaleIntent controller", func() {
	const (
		namespace  = "default"
		intentName = "worker-intent"
		targetName = "worker"
	)

	var (
		ctx        context.Context
		scheme     *runtime.Scheme
		k8sClient  client.Client
		reconciler *ScaleIntentReconciler
		fakeClock  *clocktesting.FakeClock
		source     *stubSource
		key        types.NamespacedName
	)

	newIntent := func(mutate func(*v1alpha1.ScaleIntent)) *v1alpha1.ScaleIntent {
		intent := &v1alpha1.ScaleIntent{
			ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: intentName},
			Spec: v1alpha1.ScaleIntentSpec{
				ScaleTargetRef: v1alpha1.CrossVersionObjectReference{
					APIVersion: "apps/v1",
					Kind:       "Deployment",
					Name:       targetName,
				},
				MinReplicas: 1,
				MaxReplicas: 10,
				Metric: v1alpha1.MetricSpec{
					Type:        v1alpha1.MetricSourcePrometheus,
					TargetValue: "100",
					Prometheus: &v1alpha1.PrometheusSource{
						ServerURL: "http://prometheus:9090",
						Query:     "queue_depth",
					},
				},
				Policy: v1alpha1.PolicySpec{Type: v1alpha1.PolicyProportional},
			},
		}
		if mutate != nil {
			mutate(intent)
		}
		return intent
	}

	newDeployment := func(replicas int32) *appsv1.Deployment {
		return &appsv1.Deployment{
			ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: targetName},
			Spec:       appsv1.DeploymentSpec{Replicas: &replicas},
		}
	}

	// installBinding pre-wires the registry with the stub source so the
	// reconciler reuses it instead of dialing a real backend.
	installBinding := func(intent *v1alpha1.ScaleIntent) {
		defaulted := intent.DeepCopy()
		defaulted.Default()
		hash, err := binding.SpecHash(&defaulted.Spec)
		Expect(err).NotTo(HaveOccurred())

		pol, err := policy.New(defaulted.Spec.Policy)
		Expect(err).NotTo(HaveOccurred())

		Expect(reconciler.Bindings.Swap(key, &binding.Binding{
			Source:   source,
			Policy:   pol,
			SpecHash: hash,
		})).To(Succeed())
	}

	setup := func(objs ...client.Object) {
		k8sClient = fake.NewClientBuilder().
			WithScheme(scheme).
			WithObjects(objs...).
			WithStatusSubresource(&v1alpha1.ScaleIntent{}).
			Build()

		reconciler = &ScaleIntentReconciler{
			Client: k8sClient,
			Scheme: scheme,
			Config: config.Operator{
				SampleTimeout:       10 * time.Second,
				AbsoluteMaxReplicas: 100,
				DefaultSyncInterval: 30 * time.Second,
			},
			Scaler:   scaler.NewSafeScalerWithClock(fakeClock),
			Bindings: binding.NewRegistry(),
			Adapter:  actuator.NewAdapter(k8sClient),
		}
	}

	reconcile := func() (ctrl.Result, error) {
		return reconciler.Reconcile(ctx, ctrl.Request{NamespacedName: key})
	}

	getIntent := func() *v1alpha1.ScaleIntent {
		intent := &v1alpha1.ScaleIntent{}
		Expect(k8sClient.Get(ctx, key, intent)).To(Succeed())
		return intent
	}

	getReplicas := func() int32 {
		d := &appsv1.Deployment{}
		Expect(k8sClient.Get(ctx, types.NamespacedName{Namespace: namespace, Name: targetName}, d)).To(Succeed())
		return *d.Spec.Replicas
	}

	condition := func(intent *v1alpha1.ScaleIntent, condType string) *metav1.Condition {
		return meta.FindStatusCondition(intent.Status.Conditions, condType)
	}

	BeforeEach(func() {
		ctx = context.Background()
		scheme = runtime.NewScheme()
		Expect(clientgoscheme.AddToScheme(scheme)).To(Succeed())
		Expect(v1alpha1.AddToScheme(scheme)).To(Succeed())
		fakeClock = clocktesting.NewFakeClock(time.Unix(1754000000, 0))
		source = &stubSource{}
		key = types.NamespacedName{Namespace: namespace, Name: intentName}
	})

	Describe("scaling up on high load", func() {
		It("applies the proportional decision and records status", func() {
			intent := newIntent(nil)
			setup(intent, newDeployment(2))
			installBinding(intent)
			source.value = 200 // double the target

			result, err := reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RequeueAfter).To(Equal(30 * time.Second))

			Expect(getReplicas()).To(Equal(int32(4)))

			updated := getIntent()
			Expect(updated.Status.CurrentReplicas).To(Equal(int32(2)))
			Expect(updated.Status.DesiredReplicas).To(Equal(int32(4)))
			Expect(updated.Status.CurrentMetricValue).To(Equal("200.000"))
			Expect(updated.Status.LastScaleTime).NotTo(BeNil())

			ready := condition(updated, v1alpha1.TypeReady)
			Expect(ready).NotTo(BeNil())
			Expect(ready.Status).To(Equal(metav1.ConditionTrue))

			scaling := condition(updated, v1alpha1.TypeScalingSucceeded)
			Expect(scaling).NotTo(BeNil())
			Expect(scaling.Status).To(Equal(metav1.ConditionTrue))
			Expect(scaling.Reason).To(Equal(v1alpha1.ReasonScaleApplied))
		})
	})

	Describe("cooldown", func() {
		It("blocks a second scale until the window expires", func() {
			intent := newIntent(nil)
			setup(intent, newDeployment(2))
			installBinding(intent)

			source.value = 200
			_, err := reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(getReplicas()).To(Equal(int32(4)))

			// Load rises again immediately: still inside the 60s up-cooldown.
			source.value = 400
			_, err = reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(getReplicas()).To(Equal(int32(4)), "cooldown must hold the replica count")

			updated := getIntent()
			scaling := condition(updated, v1alpha1.TypeScalingSucceeded)
			Expect(scaling.Reason).To(Equal(v1alpha1.ReasonNoScalingNeeded))

			fakeClock.Step(61 * time.Second)
			_, err = reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(getReplicas()).To(BeNumerically(">", 4))
		})
	})

	Describe("step caps", func() {
		It("limits one tick to the configured increment", func() {
			intent := newIntent(func(si *v1alpha1.ScaleIntent) {
				si.Spec.MaxReplicas = 50
				si.Spec.Behavior = &v1alpha1.Behavior{
					ScaleUp: &v1alpha1.ScaleUpRules{
						MaxIncrement:    ptr(int32(3)),
						CooldownSeconds: ptr(int32(0)),
					},
				}
			})
			setup(intent, newDeployment(2))
			installBinding(intent)
			source.value = 2000 // wants 40 replicas

			_, err := reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(getReplicas()).To(Equal(int32(5)), "one tick may add at most maxIncrement")
		})
	})

	Describe("cost budget", func() {
		It("holds at minReplicas and surfaces the budget condition", func() {
			intent := newIntent(func(si *v1alpha1.ScaleIntent) {
				si.Spec.MinReplicas = 8
				si.Spec.Policy = v1alpha1.PolicySpec{
					Type: v1alpha1.PolicyCostAware,
					CostAware: &v1alpha1.CostAwarePolicyParams{
						// 0.10/h * 730 = 73/month per pod; 365 affords 5 pods.
						MaxMonthlyCost:    "365",
						CostPerPodPerHour: "0.10",
					},
				}
			})
			setup(intent, newDeployment(8))
			installBinding(intent)
			source.value = 100

			_, err := reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(getReplicas()).To(Equal(int32(8)), "minReplicas wins over the budget")

			updated := getIntent()
			budget := condition(updated, v1alpha1.TypeCostBudgetExceeded)
			Expect(budget).NotTo(BeNil())
			Expect(budget.Status).To(Equal(metav1.ConditionTrue))
			Expect(budget.Reason).To(Equal(v1alpha1.ReasonBudgetBelowMin))
		})
	})

	Describe("metric unavailability", func() {
		It("skips the tick without touching the workload or cooldowns", func() {
			intent := newIntent(nil)
			setup(intent, newDeployment(2))
			installBinding(intent)
			source.err = metrics.ErrUnavailable

			result, err := reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RequeueAfter).To(Equal(30 * time.Second))
			Expect(getReplicas()).To(Equal(int32(2)))

			updated := getIntent()
			unavailable := condition(updated, v1alpha1.TypeMetricUnavailable)
			Expect(unavailable).NotTo(BeNil())
			Expect(unavailable.Status).To(Equal(metav1.ConditionTrue))

			// Recovery: the very next tick may scale, since skipped ticks
			// never started a cooldown.
			source.err = nil
			source.value = 200
			_, err = reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(getReplicas()).To(Equal(int32(4)))

			updated = getIntent()
			Expect(condition(updated, v1alpha1.TypeMetricUnavailable).Status).To(Equal(metav1.ConditionFalse))
		})
	})

	Describe("missing target", func() {
		It("reports TargetMissing and keeps ticking", func() {
			intent := newIntent(nil)
			setup(intent) // no deployment
			installBinding(intent)
			source.value = 200

			result, err := reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RequeueAfter).To(Equal(30 * time.Second))

			updated := getIntent()
			missing := condition(updated, v1alpha1.TypeTargetMissing)
			Expect(missing).NotTo(BeNil())
			Expect(missing.Status).To(Equal(metav1.ConditionTrue))
			Expect(condition(updated, v1alpha1.TypeReady).Status).To(Equal(metav1.ConditionFalse))
		})
	})

	Describe("invalid spec", func() {
		It("reports InvalidConfig and stops requeuing", func() {
			intent := newIntent(func(si *v1alpha1.ScaleIntent) {
				si.Spec.MinReplicas = 5
				si.Spec.MaxReplicas = 3
			})
			setup(intent, newDeployment(2))

			result, err := reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RequeueAfter).To(BeZero(), "invalid intents wait for a spec edit event")

			updated := getIntent()
			invalid := condition(updated, v1alpha1.TypeInvalidConfig)
			Expect(invalid).NotTo(BeNil())
			Expect(invalid.Status).To(Equal(metav1.ConditionTrue))
			Expect(condition(updated, v1alpha1.TypeReady).Status).To(Equal(metav1.ConditionFalse))
		})
	})

	Describe("deletion", func() {
		It("tears down the binding and cooldown state", func() {
			intent := newIntent(nil)
			setup(newDeployment(2)) // intent never stored: reconcile sees NotFound
			installBinding(intent)
			reconciler.Scaler.MarkScaled(key)

			_, err := reconcile()
			Expect(err).NotTo(HaveOccurred())

			Expect(reconciler.Bindings.Len()).To(BeZero())
			Expect(source.closed).To(Equal(1), "teardown closes the source exactly once")
		})
	})

	Describe("spec change", func() {
		It("rebuilds the binding when the spec hash differs", func() {
			intent := newIntent(nil)
			setup(intent, newDeployment(2))

			// Install a binding hashed from a different spec.
			stale := &stubSource{value: 100}
			pol, err := policy.New(v1alpha1.PolicySpec{Type: v1alpha1.PolicyProportional})
			Expect(err).NotTo(HaveOccurred())
			Expect(reconciler.Bindings.Swap(key, &binding.Binding{
				Source:   stale,
				Policy:   pol,
				SpecHash: "stale-hash",
			})).To(Succeed())

			// Reconcile rebuilds against the real prometheus builder; the
			// stale source must be closed in the swap.
			_, err = reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(stale.closed).To(Equal(1))

			fresh := reconciler.Bindings.Get(key)
			Expect(fresh).NotTo(BeNil())
			Expect(fresh.SpecHash).NotTo(Equal("stale-hash"))
		})
	})
})

func ptr[T any](v T) *T { return &v }
