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
	"errors"
	"math"
	"time"
)

// ErrUnavailable signals a transient sampling failure. Callers skip the
// current tick without tearing down the source; the next tick retries.
var ErrUnavailable = errors.New("metric unavailable")

// DefaultSampleTimeout bounds a single backend call.
const DefaultSampleTimeout = 10 * time.Second

// Source produces one metric sample per call from an external backend.
//
// Sample returns ErrUnavailable (possibly wrapped) for transient faults.
// Validate reports configuration errors only; a source that validates
// cleanly may still fail transiently at sample time. Close is idempotent.
type Source interface {
	Name() string
	Sample(ctx context.Context) (float64, error)
	Validate(ctx context.Context) error
	Close() error
}

// Deps carries runtime inputs a builder may need beyond the spec itself.
type Deps struct {
	// SampleTimeout bounds each backend call. Zero means DefaultSampleTimeout.
	SampleTimeout time.Duration

	// RedisPassword is the resolved value of the spec's passwordSecretRef.
	// Empty when the spec names no secret.
	RedisPassword string
}

func (d Deps) timeout() time.Duration {
	if d.SampleTimeout <= 0 {
		return DefaultSampleTimeout
	}
	return d.SampleTimeout
}

// sanitize normalizes a raw backend value to the sample contract: negative,
// NaN, and infinite values read as ErrUnavailable.
func sanitize(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, ErrUnavailable
	}
	return v, nil
}
