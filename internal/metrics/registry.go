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
	"fmt"
	"sync"

	"github.com/generalscaler/scale-intent-operator/api/v1alpha1"
)

// Builder constructs a Source from a metric spec. Builders return
// configuration errors; transient backend faults belong to Sample.
type Builder func(spec v1alpha1.MetricSpec, deps Deps) (Source, error)

var (
	buildersMu sync.RWMutex
	builders   = map[v1alpha1.MetricSourceType]Builder{}
)

// Register installs a builder for the given metric type. Later
// registrations replace earlier ones.
func Register(t v1alpha1.MetricSourceType, b Builder) {
	buildersMu.Lock()
	defer buildersMu.Unlock()
	builders[t] = b
}

// New constructs the source selected by spec.Type. An unknown type is a
// configuration error.
func New(spec v1alpha1.MetricSpec, deps Deps) (Source, error) {
	buildersMu.RLock()
	b, ok := builders[spec.Type]
	buildersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown metric source type %q", spec.Type)
	}
	return b(spec, deps)
}

func init() {
	Register(v1alpha1.MetricSourcePrometheus, newPrometheusSource)
	Register(v1alpha1.MetricSourceRedis, newRedisSource)
	Register(v1alpha1.MetricSourcePubSub, newPubSubSource)
}
