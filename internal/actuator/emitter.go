package actuator

import (
	"github.com/prometheus/client_golang/prometheus"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
)

var desiredReplicasGauge = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "scaleintent_desired_replicas",
		Help: "Desired replica count computed by the scale-intent controller.",
	},
	[]string{"namespace", "target", "intent"},
)

func init() {
	ctrlmetrics.Registry.MustRegister(desiredReplicasGauge)
}

// EmitDesiredReplicas publishes the decision target for one intent.
func EmitDesiredReplicas(namespace, target, intent string, replicas int32) {
	desiredReplicasGauge.WithLabelValues(namespace, target, intent).Set(float64(replicas))
}

// ForgetDesiredReplicas drops the gauge series of a deleted intent so stale
// values don't linger on the metrics endpoint. The target label is matched
// partially because the spec is gone by the time teardown runs.
func ForgetDesiredReplicas(namespace, intent string) {
	desiredReplicasGauge.DeletePartialMatch(prometheus.Labels{
		"namespace": namespace,
		"intent":    intent,
	})
}
