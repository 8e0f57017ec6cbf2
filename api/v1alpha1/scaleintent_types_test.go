package v1alpha1

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// helper: build a valid ScaleIntent object
func makeValidIntent() *ScaleIntent {
	last := metav1.NewTime(time.Unix(1754000000, 0).UTC())
	return &ScaleIntent{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "autoscaling.generalscaler.io/v1alpha1",
			Kind:       "ScaleIntent",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      "si-sample",
			Namespace: "default",
			Labels: map[string]string{
				"app.kubernetes.io/name": "scale-intent-operator",
			},
		},
		Spec: ScaleIntentSpec{
			ScaleTargetRef: CrossVersionObjectReference{
				APIVersion: "apps/v1",
				Kind:       "Deployment",
				Name:       "si-sample",
			},
			MinReplicas: 2,
			MaxReplicas: 10,
			Metric: MetricSpec{
				Type:        MetricSourcePrometheus,
				TargetValue: "100",
				Prometheus: &PrometheusSource{
					ServerURL: "http://prometheus:9090",
					Query:     `sum(rate(http_requests_total{app="si-sample"}[1m]))`,
					Headers:   map[string]string{"Authorization": "Bearer token"},
				},
			},
			Policy: PolicySpec{
				Type: PolicyProportional,
			},
			SyncIntervalSeconds: 30,
		},
		Status: ScaleIntentStatus{
			CurrentReplicas:    2,
			DesiredReplicas:    4,
			CurrentMetricValue: "200.000",
			LastScaleTime:      &last,
		},
	}
}

func TestSchemeRegistration(t *testing.T) {
	s := runtime.NewScheme()
	if err := SchemeBuilder.AddToScheme(s); err != nil {
		t.Fatalf("AddToScheme failed: %v", err)
	}

	kinds, _, err := s.ObjectKinds(&ScaleIntent{})
	if err != nil {
		t.Fatalf("ObjectKinds for ScaleIntent failed: %v", err)
	}
	if len(kinds) == 0 {
		t.Fatalf("no GVK registered for ScaleIntent")
	}

	listKinds, _, err := s.ObjectKinds(&ScaleIntentList{})
	if err != nil {
		t.Fatalf("ObjectKinds for ScaleIntentList failed: %v", err)
	}
	if len(listKinds) == 0 {
		t.Fatalf("no GVK registered for ScaleIntentList")
	}
}

func TestDeepCopyIndependence(t *testing.T) {
	orig := makeValidIntent()
	cp := orig.DeepCopy()

	cp.Spec.MinReplicas = 5
	cp.Spec.Metric.Prometheus.Query = "up"
	cp.Spec.Metric.Prometheus.Headers["Authorization"] = "Bearer other"
	cp.Spec.ScaleTargetRef.Name = "other"

	if orig.Spec.MinReplicas == cp.Spec.MinReplicas {
		t.Errorf("DeepCopy did not create independent copy for Spec.MinReplicas")
	}
	if orig.Spec.Metric.Prometheus.Query == cp.Spec.Metric.Prometheus.Query {
		t.Errorf("DeepCopy did not create independent copy for Metric.Prometheus")
	}
	if orig.Spec.Metric.Prometheus.Headers["Authorization"] == cp.Spec.Metric.Prometheus.Headers["Authorization"] {
		t.Errorf("DeepCopy did not create independent copy for Prometheus.Headers")
	}
	if orig.Spec.ScaleTargetRef.Name == cp.Spec.ScaleTargetRef.Name {
		t.Errorf("DeepCopy did not create independent copy for ScaleTargetRef")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	orig := makeValidIntent()

	b, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var back ScaleIntent
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}

	ot := orig.Status.LastScaleTime.Time
	bt := back.Status.LastScaleTime.Time
	if !ot.Equal(bt) {
		t.Fatalf("LastScaleTime mismatch by instant: orig=%v back=%v", ot, bt)
	}

	back.Status.LastScaleTime = orig.Status.LastScaleTime

	if !reflect.DeepEqual(orig, &back) {
		t.Errorf("round-trip mismatch:\norig=%#v\nback=%#v", orig, &back)
	}
}

func TestListDeepCopyAndItemsIndependence(t *testing.T) {
	si1 := makeValidIntent()
	si2 := makeValidIntent()
	si2.Name = "si-other"
	list := &ScaleIntentList{
		Items: []ScaleIntent{*si1, *si2},
	}

	cp := list.DeepCopy()
	if len(cp.Items) != 2 {
		t.Fatalf("DeepCopy list items count mismatch: got %d", len(cp.Items))
	}
	cp.Items[0].Spec.ScaleTargetRef.Name = "changed"

	if list.Items[0].Spec.ScaleTargetRef.Name == cp.Items[0].Spec.ScaleTargetRef.Name {
		t.Errorf("DeepCopy did not isolate list items")
	}
}

func TestDefaultFillsBehaviorAndInterval(t *testing.T) {
	si := makeValidIntent()
	si.Spec.SyncIntervalSeconds = 0
	si.Spec.Behavior = nil

	si.Default()

	if si.Spec.SyncIntervalSeconds != DefaultSyncIntervalSeconds {
		t.Errorf("SyncIntervalSeconds = %d, want %d", si.Spec.SyncIntervalSeconds, DefaultSyncIntervalSeconds)
	}
	b := si.Spec.Behavior
	if b == nil || b.ScaleUp == nil || b.ScaleDown == nil {
		t.Fatalf("Default did not fill behavior blocks: %#v", b)
	}
	if got := *b.ScaleUp.MaxIncrement; got != DefaultMaxScaleUpIncrement {
		t.Errorf("ScaleUp.MaxIncrement = %d, want %d", got, DefaultMaxScaleUpIncrement)
	}
	if got := *b.ScaleUp.CooldownSeconds; got != DefaultScaleUpCooldownSec {
		t.Errorf("ScaleUp.CooldownSeconds = %d, want %d", got, DefaultScaleUpCooldownSec)
	}
	if got := *b.ScaleDown.MaxDecrement; got != DefaultMaxScaleDownDecrement {
		t.Errorf("ScaleDown.MaxDecrement = %d, want %d", got, DefaultMaxScaleDownDecrement)
	}
	if got := *b.ScaleDown.CooldownSeconds; got != DefaultScaleDownCooldownSec {
		t.Errorf("ScaleDown.CooldownSeconds = %d, want %d", got, DefaultScaleDownCooldownSec)
	}
}

func TestDefaultPreservesExplicitValues(t *testing.T) {
	si := makeValidIntent()
	si.Spec.SyncIntervalSeconds = 15
	si.Spec.Behavior = &Behavior{
		ScaleUp: &ScaleUpRules{MaxIncrement: ptrTo(int32(1))},
	}

	si.Default()

	if si.Spec.SyncIntervalSeconds != 15 {
		t.Errorf("SyncIntervalSeconds = %d, want 15", si.Spec.SyncIntervalSeconds)
	}
	if got := *si.Spec.Behavior.ScaleUp.MaxIncrement; got != 1 {
		t.Errorf("ScaleUp.MaxIncrement = %d, want 1", got)
	}
	if si.Spec.Behavior.ScaleUp.CooldownSeconds == nil {
		t.Errorf("Default did not fill ScaleUp.CooldownSeconds alongside explicit MaxIncrement")
	}
}

func TestValidateSpec(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ScaleIntent)
		wantErr string
	}{
		{
			name:   "valid prometheus proportional",
			mutate: func(si *ScaleIntent) {},
		},
		{
			name: "min below one",
			mutate: func(si *ScaleIntent) {
				si.Spec.MinReplicas = 0
			},
			wantErr: "minReplicas",
		},
		{
			name: "max below min",
			mutate: func(si *ScaleIntent) {
				si.Spec.MinReplicas = 5
				si.Spec.MaxReplicas = 3
			},
			wantErr: "maxReplicas",
		},
		{
			name: "zero target value",
			mutate: func(si *ScaleIntent) {
				si.Spec.Metric.TargetValue = "0"
			},
			wantErr: "targetValue",
		},
		{
			name: "non numeric target value",
			mutate: func(si *ScaleIntent) {
				si.Spec.Metric.TargetValue = "fast"
			},
			wantErr: "targetValue",
		},
		{
			name: "unknown metric type",
			mutate: func(si *ScaleIntent) {
				si.Spec.Metric.Type = "statsd"
			},
			wantErr: "unknown metric type",
		},
		{
			name: "prometheus block missing",
			mutate: func(si *ScaleIntent) {
				si.Spec.Metric.Prometheus = nil
			},
			wantErr: "metric.prometheus",
		},
		{
			name: "redis block missing",
			mutate: func(si *ScaleIntent) {
				si.Spec.Metric.Type = MetricSourceRedis
				si.Spec.Metric.Prometheus = nil
			},
			wantErr: "metric.redis",
		},
		{
			name: "redis without queue name",
			mutate: func(si *ScaleIntent) {
				si.Spec.Metric.Type = MetricSourceRedis
				si.Spec.Metric.Redis = &RedisSource{Host: "redis"}
			},
			wantErr: "queueName",
		},
		{
			name: "pubsub without subscription",
			mutate: func(si *ScaleIntent) {
				si.Spec.Metric.Type = MetricSourcePubSub
				si.Spec.Metric.PubSub = &PubSubSource{ProjectID: "p"}
			},
			wantErr: "metric.pubsub",
		},
		{
			name: "unknown policy type",
			mutate: func(si *ScaleIntent) {
				si.Spec.Policy.Type = "magic"
			},
			wantErr: "unknown policy type",
		},
		{
			name: "cost policy without params",
			mutate: func(si *ScaleIntent) {
				si.Spec.Policy.Type = PolicyCostAware
			},
			wantErr: "policy.costAware",
		},
		{
			name: "cost policy zero pod cost",
			mutate: func(si *ScaleIntent) {
				si.Spec.Policy.Type = PolicyCostAware
				si.Spec.Policy.CostAware = &CostAwarePolicyParams{
					MaxMonthlyCost:    "500",
					CostPerPodPerHour: "0",
				}
			},
			wantErr: "costPerPodPerHour",
		},
		{
			name: "slo error rate above one",
			mutate: func(si *ScaleIntent) {
				si.Spec.Policy.Type = PolicySLO
				si.Spec.Policy.SLO = &SLOPolicyParams{
					TargetErrorRate:     "1.5",
					ViolationMultiplier: "1.5",
				}
			},
			wantErr: "targetErrorRate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			si := makeValidIntent()
			tt.mutate(si)
			err := si.ValidateSpec()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateSpec() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateSpec() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateSpec() = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestTargetValueFloat(t *testing.T) {
	m := MetricSpec{TargetValue: "12.5"}
	v, err := m.TargetValueFloat()
	if err != nil {
		t.Fatalf("TargetValueFloat failed: %v", err)
	}
	if v != 12.5 {
		t.Errorf("TargetValueFloat = %v, want 12.5", v)
	}
}
