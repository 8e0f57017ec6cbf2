package v1alpha1

import (
	"strconv"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// MetricSourceType identifies the backend a metric is sampled from.
// +kubebuilder:validation:Enum=prometheus;redis;pubsub
type MetricSourceType string

const (
	// MetricSourcePrometheus samples the scalar result of a PromQL instant query.
	MetricSourcePrometheus MetricSourceType = "prometheus"
	// MetricSourceRedis samples the length of a Redis list or sorted set.
	MetricSourceRedis MetricSourceType = "redis"
	// MetricSourcePubSub samples the undelivered message backlog of a
	// Google Cloud Pub/Sub subscription.
	MetricSourcePubSub MetricSourceType = "pubsub"
)

// PolicyType identifies the algorithm that maps a metric sample to a replica count.
// +kubebuilder:validation:Enum=proportional;slo;costAware
type PolicyType string

const (
	// PolicyProportional scales replicas proportionally to metric/target.
	PolicyProportional PolicyType = "proportional"
	// PolicySLO is proportional scaling with an aggressive multiplier on SLO violation.
	PolicySLO PolicyType = "slo"
	// PolicyCostAware is proportional scaling capped by a monthly cost budget.
	PolicyCostAware PolicyType = "costAware"
)

// ScaleDirection expresses a cost policy's bias.
// +kubebuilder:validation:Enum=up;down;balanced
type ScaleDirection string

const (
	DirectionUp       ScaleDirection = "up"
	DirectionDown     ScaleDirection = "down"
	DirectionBalanced ScaleDirection = "balanced"
)

// Spec-level defaults. Applied by Default(); internal/config holds an
// operator-wide fallback for the sync interval only.
const (
	DefaultSyncIntervalSeconds   int32 = 30
	DefaultScaleUpCooldownSec    int32 = 60
	DefaultScaleDownCooldownSec  int32 = 300
	DefaultMaxScaleUpIncrement   int32 = 5
	DefaultMaxScaleDownDecrement int32 = 2
)

// ScaleIntentSpec declares which workload to scale, from what signal, and
// within which safety envelope.
type ScaleIntentSpec struct {
	// ScaleTargetRef references the target resource (Deployment) to scale.
	// +kubebuilder:validation:Required
	ScaleTargetRef CrossVersionObjectReference `json:"scaleTargetRef"`

	// MinReplicas is the lower replica bound. The controller never sets the
	// target below this value, regardless of policy or budget.
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Required
	MinReplicas int32 `json:"minReplicas"`

	// MaxReplicas is the upper replica bound. Must be >= minReplicas.
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Required
	MaxReplicas int32 `json:"maxReplicas"`

	// Metric selects and configures the load signal for this intent.
	// Exactly one backend block matching Type must be set.
	// +kubebuilder:validation:Required
	Metric MetricSpec `json:"metric"`

	// Policy selects and configures the replica-count algorithm.
	// +kubebuilder:validation:Required
	Policy PolicySpec `json:"policy"`

	// Behavior bounds the rate of change per direction. Defaults apply when absent.
	// +kubebuilder:validation:Optional
	Behavior *Behavior `json:"behavior,omitempty"`

	// SyncIntervalSeconds is the reconciliation period for this intent.
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:default=30
	// +optional
	SyncIntervalSeconds int32 `json:"syncIntervalSeconds,omitempty"`
}

// CrossVersionObjectReference contains enough information to let you identify
// the target resource. This is the same structure as used in HorizontalPodAutoscaler.
type CrossVersionObjectReference struct {
	// APIVersion is the API version of the target resource.
	// +kubebuilder:validation:MinLength=1
	// +optional
	APIVersion string `json:"apiVersion,omitempty"`

	// Kind is the kind of the target resource. Currently only "Deployment" is supported.
	// +kubebuilder:validation:Enum=Deployment
	// +kubebuilder:validation:Required
	Kind string `json:"kind"`

	// Name is the name of the target resource.
	// +kubebuilder:validation:MinLength=1
	// +kubebuilder:validation:Required
	Name string `json:"name"`
}

// MetricSpec is a tagged union: Type selects which backend block is consulted.
type MetricSpec struct {
	// Type is the metric backend.
	// +kubebuilder:validation:Required
	Type MetricSourceType `json:"type"`

	// TargetValue is the per-pod metric value the policy steers toward
	// (requests/sec/pod, items/pod, ...). Must be positive. Encoded as a
	// string because CRD schemas do not carry floats.
	// +kubebuilder:validation:Pattern=`^\d+(\.\d+)?$`
	// +kubebuilder:validation:Required
	TargetValue string `json:"targetValue"`

	// Prometheus configures the prometheus backend.
	// +optional
	Prometheus *PrometheusSource `json:"prometheus,omitempty"`

	// Redis configures the redis backend.
	// +optional
	Redis *RedisSource `json:"redis,omitempty"`

	// PubSub configures the pubsub backend.
	// +optional
	PubSub *PubSubSource `json:"pubsub,omitempty"`
}

// PrometheusSource configures an instant-query probe against a Prometheus API.
type PrometheusSource struct {
	// ServerURL is the base URL of the Prometheus API (e.g. "http://prometheus:9090").
	// +kubebuilder:validation:MinLength=1
	ServerURL string `json:"serverURL"`

	// Query is the PromQL expression. It must evaluate to a scalar or a
	// vector with at least one sample; the first sample is used.
	// +kubebuilder:validation:MinLength=1
	Query string `json:"query"`

	// Headers are added to every query request, e.g. an Authorization header.
	// +optional
	Headers map[string]string `json:"headers,omitempty"`

	// LatencyQuery optionally yields an observed latency in milliseconds,
	// consumed by the slo policy. Absent or failing queries degrade to 0.
	// +optional
	LatencyQuery string `json:"latencyQuery,omitempty"`

	// ErrorRateQuery optionally yields an observed error rate in [0,1],
	// consumed by the slo policy. Absent or failing queries degrade to 0.
	// +optional
	ErrorRateQuery string `json:"errorRateQuery,omitempty"`
}

// RedisSource configures a queue-depth probe against a Redis list or sorted set.
type RedisSource struct {
	// Host is the Redis server host.
	// +kubebuilder:validation:MinLength=1
	Host string `json:"host"`

	// Port is the Redis server port.
	// +kubebuilder:default=6379
	// +optional
	Port int32 `json:"port,omitempty"`

	// DB is the Redis logical database.
	// +kubebuilder:validation:Minimum=0
	// +optional
	DB int32 `json:"db,omitempty"`

	// PasswordSecretRef names a Secret key holding the Redis password.
	// +optional
	PasswordSecretRef *SecretKeyRef `json:"passwordSecretRef,omitempty"`

	// QueueName is the key whose length is the metric. Lists (LLEN) and
	// sorted sets (ZCARD) are supported; a missing key reads as 0.
	// +kubebuilder:validation:MinLength=1
	QueueName string `json:"queueName"`
}

// PubSubSource configures a subscription-backlog probe.
type PubSubSource struct {
	// ProjectID is the Google Cloud project owning the subscription.
	// +kubebuilder:validation:MinLength=1
	ProjectID string `json:"projectID"`

	// SubscriptionID is the Pub/Sub subscription whose undelivered message
	// count is the metric.
	// +kubebuilder:validation:MinLength=1
	SubscriptionID string `json:"subscriptionID"`

	// CredentialsPath points at a mounted service-account key file.
	// When empty, application-default credentials are used.
	// +optional
	CredentialsPath string `json:"credentialsPath,omitempty"`
}

// SecretKeyRef references a specific key within a Secret in the intent's namespace.
type SecretKeyRef struct {
	// Name is the name of the Secret.
	// +kubebuilder:validation:MinLength=1
	Name string `json:"name"`

	// Key is the key within the Secret.
	// +kubebuilder:validation:MinLength=1
	Key string `json:"key"`
}

// PolicySpec is a tagged union: Type selects which parameter block is consulted.
// The proportional policy takes no parameters.
type PolicySpec struct {
	// Type is the policy algorithm.
	// +kubebuilder:validation:Required
	Type PolicyType `json:"type"`

	// SLO configures the slo policy.
	// +optional
	SLO *SLOPolicyParams `json:"slo,omitempty"`

	// CostAware configures the costAware policy.
	// +optional
	CostAware *CostAwarePolicyParams `json:"costAware,omitempty"`
}

// SLOPolicyParams tunes the slo policy. SLO violation escalates scaling;
// SLO compliance never overrides the proportional baseline.
type SLOPolicyParams struct {
	// TargetLatencyMs is the latency objective in milliseconds.
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:default=100
	// +optional
	TargetLatencyMs int32 `json:"targetLatencyMs,omitempty"`

	// TargetErrorRate is the error-rate objective in [0,1].
	// +kubebuilder:validation:Pattern=`^(0(\.\d+)?|1(\.0+)?)$`
	// +kubebuilder:default="0.01"
	// +optional
	TargetErrorRate string `json:"targetErrorRate,omitempty"`

	// ViolationMultiplier is applied to the baseline desired count while the
	// objective is violated.
	// +kubebuilder:validation:Pattern=`^\d+(\.\d+)?$`
	// +kubebuilder:default="1.5"
	// +optional
	ViolationMultiplier string `json:"violationMultiplier,omitempty"`
}

// CostAwarePolicyParams tunes the costAware policy. The budget is advisory:
// minReplicas wins when the two conflict.
type CostAwarePolicyParams struct {
	// MaxMonthlyCost is the budget in currency units per month.
	// +kubebuilder:validation:Pattern=`^\d+(\.\d+)?$`
	MaxMonthlyCost string `json:"maxMonthlyCost"`

	// CostPerPodPerHour is the hourly cost of one replica.
	// +kubebuilder:validation:Pattern=`^\d+(\.\d+)?$`
	CostPerPodPerHour string `json:"costPerPodPerHour"`

	// PreferredScaleDirection biases rounding: "down" floors the baseline
	// instead of ceiling it.
	// +kubebuilder:default=balanced
	// +optional
	PreferredScaleDirection ScaleDirection `json:"preferredScaleDirection,omitempty"`
}

// Behavior bounds how fast the controller moves the replica count.
type Behavior struct {
	// +optional
	ScaleUp *ScaleUpRules `json:"scaleUp,omitempty"`

	// +optional
	ScaleDown *ScaleDownRules `json:"scaleDown,omitempty"`
}

// ScaleUpRules limits scale-up speed.
type ScaleUpRules struct {
	// MaxIncrement is the largest replica delta one tick may add.
	// +kubebuilder:validation:Minimum=0
	// +optional
	MaxIncrement *int32 `json:"maxIncrement,omitempty"`

	// CooldownSeconds is the minimum wait after any successful scale before
	// the next scale-up.
	// +kubebuilder:validation:Minimum=0
	// +optional
	CooldownSeconds *int32 `json:"cooldownSeconds,omitempty"`
}

// ScaleDownRules limits scale-down speed.
type ScaleDownRules struct {
	// MaxDecrement is the largest replica delta one tick may remove.
	// +kubebuilder:validation:Minimum=0
	// +optional
	MaxDecrement *int32 `json:"maxDecrement,omitempty"`

	// CooldownSeconds is the minimum wait after any successful scale before
	// the next scale-down.
	// +kubebuilder:validation:Minimum=0
	// +optional
	CooldownSeconds *int32 `json:"cooldownSeconds,omitempty"`
}

// ScaleIntentStatus is written exclusively by the controller and reflects the
// last fully observed tick.
type ScaleIntentStatus struct {
	// CurrentReplicas is the replica count read from the target this tick.
	// +optional
	CurrentReplicas int32 `json:"currentReplicas,omitempty"`

	// DesiredReplicas is the gated decision target of the last tick.
	// +optional
	DesiredReplicas int32 `json:"desiredReplicas,omitempty"`

	// CurrentMetricValue is the sample the last decision was based on,
	// formatted with three decimal places.
	// +optional
	CurrentMetricValue string `json:"currentMetricValue,omitempty"`

	// LastScaleTime is the wall-clock time of the last successful mutation.
	// +optional
	LastScaleTime *metav1.Time `json:"lastScaleTime,omitempty"`

	// Conditions represent the latest available observations of the intent's state.
	// +kubebuilder:validation:Optional
	// +patchMergeKey=type
	// +patchStrategy=merge
	// +listType=map
	// +listMapKey=type
	Conditions []metav1.Condition `json:"conditions,omitempty" patchStrategy:"merge" patchMergeKey:"type"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=si
// +kubebuilder:printcolumn:name="Target",type=string,JSONPath=".spec.scaleTargetRef.name"
// +kubebuilder:printcolumn:name="Min",type=integer,JSONPath=".spec.minReplicas"
// +kubebuilder:printcolumn:name="Max",type=integer,JSONPath=".spec.maxReplicas"
// +kubebuilder:printcolumn:name="Current",type=integer,JSONPath=".status.currentReplicas"
// +kubebuilder:printcolumn:name="Desired",type=integer,JSONPath=".status.desiredReplicas"
// +kubebuilder:printcolumn:name="Ready",type=string,JSONPath=".status.conditions[?(@.type=='Ready')].status"
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=".metadata.creationTimestamp"

// ScaleIntent is the Schema for the scaleintents API. It expresses a user's
// scaling goal for one workload: the signal to watch, the target to hold, and
// the envelope the controller may move within.
type ScaleIntent struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	// Spec defines the desired scaling behavior for the target workload.
	Spec ScaleIntentSpec `json:"spec,omitempty"`

	// Status represents the controller's latest observations.
	Status ScaleIntentStatus `json:"status,omitempty"`
}

// ScaleIntentList contains a list of ScaleIntent resources.
// +kubebuilder:object:root=true
type ScaleIntentList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	// Items is the list of ScaleIntent resources.
	Items []ScaleIntent `json:"items"`
}

func init() {
	SchemeBuilder.Register(&ScaleIntent{}, &ScaleIntentList{})
}

// Condition types for ScaleIntent.
const (
	// TypeReady indicates the binding is established and ticks are running.
	TypeReady = "Ready"
	// TypeInvalidConfig indicates the spec cannot produce a working binding.
	TypeInvalidConfig = "InvalidConfig"
	// TypeTargetMissing indicates the referenced workload was not found.
	TypeTargetMissing = "TargetMissing"
	// TypeMetricUnavailable indicates the metric backend failed transiently.
	TypeMetricUnavailable = "MetricUnavailable"
	// TypeScalingSucceeded indicates the latest actuation wrote cleanly.
	TypeScalingSucceeded = "ScalingSucceeded"
	// TypeScalingFailed indicates the latest actuation write was rejected.
	TypeScalingFailed = "ScalingFailed"
	// TypeCostBudgetExceeded is advisory: the budget capped the desired
	// count, or minReplicas overrode a budget that affords fewer replicas.
	TypeCostBudgetExceeded = "CostBudgetExceeded"
)

// Condition reasons.
const (
	ReasonReconciled        = "Reconciled"
	ReasonInvalidSpec       = "InvalidSpec"
	ReasonUnknownMetricType = "UnknownMetricType"
	ReasonUnknownPolicyType = "UnknownPolicyType"
	ReasonValidationFailed  = "ValidationFailed"
	ReasonTargetNotFound    = "TargetNotFound"
	ReasonSampleFailed      = "SampleFailed"
	ReasonScaleApplied      = "ScaleApplied"
	ReasonWriteRejected     = "WriteRejected"
	ReasonNoScalingNeeded   = "NoScalingNeeded"
	ReasonBudgetBelowMin    = "BudgetBelowMinReplicas"
	ReasonBudgetCapped      = "BudgetCapped"
)

// TargetValueFloat parses the string-encoded metric target.
func (m *MetricSpec) TargetValueFloat() (float64, error) {
	return strconv.ParseFloat(m.TargetValue, 64)
}

// TargetName returns the referenced workload name.
func (s *ScaleIntent) TargetName() string {
	return s.Spec.ScaleTargetRef.Name
}

// SyncIntervalOrDefault returns the effective reconciliation period, falling back to
// the default when the field is unset.
func (s *ScaleIntent) SyncIntervalOrDefault() int32 {
	if s.Spec.SyncIntervalSeconds <= 0 {
		return DefaultSyncIntervalSeconds
	}
	return s.Spec.SyncIntervalSeconds
}
