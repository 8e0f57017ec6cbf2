/*
Copyright 2025 The generalscaler Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package metrics

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/generalscaler/scale-intent-operator/api/v1alpha1"
)

// Observations are optional service-health readings consumed by the slo
// policy. Missing or failing probes read as zero, which never counts as a
// violation.
type Observations struct {
	LatencyMs float64
	ErrorRate float64
}

// Observer is implemented by sources that can report Observations alongside
// the primary sample. Sources without the capability simply don't implement it.
type Observer interface {
	Observations(ctx context.Context) Observations
}

// prometheusSource samples the scalar result of a PromQL instant query.
type prometheusSource struct {
	api            promv1.API
	query          string
	latencyQuery   string
	errorRateQuery string
	timeout        time.Duration
}

// headerRoundTripper adds static headers to every request, e.g. an
// Authorization header for a secured Prometheus endpoint.
type headerRoundTripper struct {
	headers map[string]string
	next    http.RoundTripper
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range h.headers {
		r.Header.Set(k, v)
	}
	return h.next.RoundTrip(r)
}

func newPrometheusSource(spec v1alpha1.MetricSpec, deps Deps) (Source, error) {
	p := spec.Prometheus
	if p == nil {
		return nil, fmt.Errorf("prometheus block is required for metric type %q", spec.Type)
	}
	if _, err := url.Parse(p.ServerURL); err != nil || p.ServerURL == "" {
		return nil, fmt.Errorf("invalid prometheus server URL %q: %w", p.ServerURL, err)
	}
	if p.Query == "" {
		return nil, fmt.Errorf("prometheus query must not be empty")
	}

	cfg := api.Config{Address: p.ServerURL}
	if len(p.Headers) > 0 {
		cfg.RoundTripper = &headerRoundTripper{
			headers: p.Headers,
			next:    api.DefaultRoundTripper,
		}
	}
	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating prometheus client: %w", err)
	}

	return &prometheusSource{
		api:            promv1.NewAPI(client),
		query:          p.Query,
		latencyQuery:   p.LatencyQuery,
		errorRateQuery: p.ErrorRateQuery,
		timeout:        deps.timeout(),
	}, nil
}

func (s *prometheusSource) Name() string { return string(v1alpha1.MetricSourcePrometheus) }

func (s *prometheusSource) Sample(ctx context.Context) (float64, error) {
	v, err := s.eval(ctx, s.query)
	if err != nil {
		return 0, err
	}
	return sanitize(v)
}

// eval runs an instant query and extracts a single value: scalars directly,
// vectors through their first sample.
func (s *prometheusSource) eval(ctx context.Context, query string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, warnings, err := s.api.Query(ctx, query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("%w: prometheus query failed: %v", ErrUnavailable, err)
	}
	if len(warnings) > 0 {
		ctrl.LoggerFrom(ctx).V(1).Info("prometheus query returned warnings",
			"query", query, "warnings", warnings)
	}

	switch v := result.(type) {
	case *model.Scalar:
		return float64(v.Value), nil
	case model.Vector:
		if v.Len() == 0 {
			return 0, fmt.Errorf("%w: query %q returned an empty vector", ErrUnavailable, query)
		}
		return float64(v[0].Value), nil
	default:
		return 0, fmt.Errorf("%w: query %q returned unsupported result type %s",
			ErrUnavailable, query, result.Type())
	}
}

// Observations evaluates the optional latency and error-rate queries.
// Each probe degrades to zero independently.
func (s *prometheusSource) Observations(ctx context.Context) Observations {
	var obs Observations
	if s.latencyQuery != "" {
		if v, err := s.eval(ctx, s.latencyQuery); err == nil && v >= 0 {
			obs.LatencyMs = v
		}
	}
	if s.errorRateQuery != "" {
		if v, err := s.eval(ctx, s.errorRateQuery); err == nil && v >= 0 {
			obs.ErrorRate = v
		}
	}
	return obs
}

func (s *prometheusSource) Validate(ctx context.Context) error {
	// Construction already checked URL and query shape. Reachability is a
	// transient concern, probed at sample time.
	return nil
}

func (s *prometheusSource) Close() error { return nil }
