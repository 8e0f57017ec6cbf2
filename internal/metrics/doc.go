// Package metrics provides pluggable metric sources for scaling decisions.
//
// A Source turns an external signal (a PromQL query result, a Redis queue
// length, a Pub/Sub subscription backlog) into a single float64 sample per
// tick. Sources are constructed through a registry keyed by the metric type
// declared in the ScaleIntent spec:
//
//	src, err := metrics.New(intent.Spec.Metric, deps)
//	value, err := src.Sample(ctx)
//
// # Error Contract
//
// Sources distinguish two failure classes:
//
//   - configuration errors: returned by the builder or Validate(); the spec
//     cannot produce a working source until it is edited.
//   - ErrUnavailable: the backend failed transiently or returned something
//     unusable (empty result, NaN, negative). The caller skips the tick and
//     retries on the next one.
//
// Any sample that is negative, NaN, or infinite is normalized to
// ErrUnavailable so policies only ever see usable numbers.
//
// # Supported Backends
//
//   - prometheus: instant query via the Prometheus HTTP API
//   - redis: LLEN / ZCARD of a queue key
//   - pubsub: num_undelivered_messages via the Cloud Monitoring API
package metrics
