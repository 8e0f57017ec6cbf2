// Package actuator applies scaling decisions to workloads and emits them
// as metrics.
//
// The adapter reads and writes replica counts through the Deployment scale
// subresource, classifying Kubernetes API failures into the small error
// vocabulary the controller acts on (target missing, write conflict,
// transient fault).
//
// Alongside direct actuation, every decision whose tick completes is
// published as a scaleintent_desired_replicas gauge on the controller's
// /metrics endpoint (a tick whose scale write failed publishes nothing),
// so dashboards and external autoscalers can consume the controller's
// output without reading CRD status:
//
//	scaleintent_desired_replicas{
//	  namespace="payments",
//	  target="worker",
//	  intent="worker-queue-depth"
//	} = 5
package actuator
