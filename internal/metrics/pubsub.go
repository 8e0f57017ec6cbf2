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
	"sync"
	"time"

	monitoring "cloud.google.com/go/monitoring/apiv3/v2"
	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/generalscaler/scale-intent-operator/api/v1alpha1"
)

const backlogMetricType = "pubsub.googleapis.com/subscription/num_undelivered_messages"

// backlogWindow is how far back the time-series query looks. The backlog
// metric is written roughly once a minute, so a few minutes always covers
// the latest point.
const backlogWindow = 5 * time.Minute

// pubsubSource samples the undelivered-message backlog of a Pub/Sub
// subscription through the Cloud Monitoring time-series API.
type pubsubSource struct {
	projectID       string
	subscriptionID  string
	credentialsPath string
	timeout         time.Duration

	mu     sync.Mutex
	client *monitoring.MetricClient
}

func newPubSubSource(spec v1alpha1.MetricSpec, deps Deps) (Source, error) {
	p := spec.PubSub
	if p == nil {
		return nil, fmt.Errorf("pubsub block is required for metric type %q", spec.Type)
	}
	if p.ProjectID == "" || p.SubscriptionID == "" {
		return nil, fmt.Errorf("pubsub projectID and subscriptionID must be set")
	}
	return &pubsubSource{
		projectID:       p.ProjectID,
		subscriptionID:  p.SubscriptionID,
		credentialsPath: p.CredentialsPath,
		timeout:         deps.timeout(),
	}, nil
}

func (s *pubsubSource) Name() string { return string(v1alpha1.MetricSourcePubSub) }

// ensureClient builds the Monitoring client on first use. Credential
// problems surface here, which makes them configuration errors.
func (s *pubsubSource) ensureClient(ctx context.Context) (*monitoring.MetricClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}
	var opts []option.ClientOption
	if s.credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(s.credentialsPath))
	}
	client, err := monitoring.NewMetricClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating monitoring client: %w", err)
	}
	s.client = client
	return client, nil
}

func (s *pubsubSource) Sample(ctx context.Context) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	client, err := s.ensureClient(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	now := time.Now()
	req := &monitoringpb.ListTimeSeriesRequest{
		Name: "projects/" + s.projectID,
		Filter: fmt.Sprintf(`metric.type=%q AND resource.labels.subscription_id=%q`,
			backlogMetricType, s.subscriptionID),
		Interval: &monitoringpb.TimeInterval{
			StartTime: timestamppb.New(now.Add(-backlogWindow)),
			EndTime:   timestamppb.New(now),
		},
		View: monitoringpb.ListTimeSeriesRequest_FULL,
	}

	it := client.ListTimeSeries(ctx, req)
	ts, err := it.Next()
	if err == iterator.Done {
		return 0, fmt.Errorf("%w: no backlog series for subscription %s", ErrUnavailable, s.subscriptionID)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: listing backlog series: %v", ErrUnavailable, err)
	}
	if len(ts.Points) == 0 {
		return 0, fmt.Errorf("%w: backlog series for %s has no points", ErrUnavailable, s.subscriptionID)
	}

	// Points are returned newest first.
	return sanitize(float64(ts.Points[0].GetValue().GetInt64Value()))
}

// Validate establishes the client so that credential and key-file problems
// are reported before the first tick.
func (s *pubsubSource) Validate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, err := s.ensureClient(ctx)
	return err
}

func (s *pubsubSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}
