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
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/generalscaler/scale-intent-operator/api/v1alpha1"
)

// redisSource samples the length of a Redis list or sorted set used as a
// work queue.
type redisSource struct {
	client  *redis.Client
	queue   string
	timeout time.Duration
}

func newRedisSource(spec v1alpha1.MetricSpec, deps Deps) (Source, error) {
	r := spec.Redis
	if r == nil {
		return nil, fmt.Errorf("redis block is required for metric type %q", spec.Type)
	}
	if r.Host == "" {
		return nil, fmt.Errorf("redis host must not be empty")
	}
	if r.QueueName == "" {
		return nil, fmt.Errorf("redis queueName must not be empty")
	}
	port := r.Port
	if port == 0 {
		port = 6379
	}

	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(r.Host, strconv.Itoa(int(port))),
		Password: deps.RedisPassword,
		DB:       int(r.DB),
	})

	return &redisSource{
		client:  client,
		queue:   r.QueueName,
		timeout: deps.timeout(),
	}, nil
}

func (s *redisSource) Name() string { return string(v1alpha1.MetricSourceRedis) }

// Sample reads the queue depth. A missing key is an empty queue, not an
// error. Keys of a type other than list or zset read as ErrUnavailable.
func (s *redisSource) Sample(ctx context.Context) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	keyType, err := s.client.Type(ctx, s.queue).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: redis TYPE %s: %v", ErrUnavailable, s.queue, err)
	}

	var n int64
	switch keyType {
	case "none":
		return 0, nil
	case "list":
		n, err = s.client.LLen(ctx, s.queue).Result()
	case "zset":
		n, err = s.client.ZCard(ctx, s.queue).Result()
	default:
		return 0, fmt.Errorf("%w: key %s has unsupported type %q", ErrUnavailable, s.queue, keyType)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: redis length of %s: %v", ErrUnavailable, s.queue, err)
	}
	return sanitize(float64(n))
}

// Validate pings the server once. An authentication failure is a
// configuration error; plain unreachability is left to sample time.
func (s *redisSource) Validate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	err := s.client.Ping(ctx).Err()
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "NOAUTH") || strings.Contains(msg, "WRONGPASS") || strings.Contains(msg, "invalid password") {
		return fmt.Errorf("redis authentication: %w", err)
	}
	return nil
}

func (s *redisSource) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}
