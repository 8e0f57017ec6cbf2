// Package config loads operator-wide defaults and safety limits.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Operator holds the operator-wide settings. Per-intent values in the CRD
// spec always win; these are the fallbacks and hard limits around them.
type Operator struct {
	// WatchNamespace restricts the manager cache to one namespace. Empty
	// watches the whole cluster.
	WatchNamespace string `mapstructure:"watchNamespace"`

	// SampleTimeout bounds one metric backend call.
	SampleTimeout time.Duration `mapstructure:"sampleTimeout"`

	// AbsoluteMaxReplicas caps every intent's maxReplicas. A spec asking
	// for more is still honored only up to this ceiling.
	AbsoluteMaxReplicas int32 `mapstructure:"absoluteMaxReplicas"`

	// DefaultSyncInterval is the requeue period for intents that don't set
	// syncIntervalSeconds.
	DefaultSyncInterval time.Duration `mapstructure:"defaultSyncInterval"`

	// ZapDevel switches the logger to development mode.
	ZapDevel bool `mapstructure:"zapDevel"`
}

const envPrefix = "SCALE_INTENT"

// Load reads configuration from an optional YAML file and the environment.
// Environment variables use the SCALE_INTENT_ prefix
// followed by the upper-cased key (SCALE_INTENT_SAMPLETIMEOUT,
// SCALE_INTENT_WATCHNAMESPACE, ...) and
// override file values.
func Load(configFile string) (Operator, error) {
	v := viper.New()

	v.SetDefault("watchNamespace", "")
	v.SetDefault("sampleTimeout", 10*time.Second)
	v.SetDefault("absoluteMaxReplicas", 100)
	v.SetDefault("defaultSyncInterval", 30*time.Second)
	v.SetDefault("zapDevel", false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Operator{}, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	var cfg Operator
	if err := v.Unmarshal(&cfg); err != nil {
		return Operator{}, fmt.Errorf("unmarshaling operator config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Operator{}, err
	}
	return cfg, nil
}

// Validate rejects settings the controller cannot run with.
func (c Operator) Validate() error {
	if c.SampleTimeout <= 0 {
		return fmt.Errorf("sampleTimeout must be positive, got %s", c.SampleTimeout)
	}
	if c.AbsoluteMaxReplicas < 1 {
		return fmt.Errorf("absoluteMaxReplicas must be >= 1, got %d", c.AbsoluteMaxReplicas)
	}
	if c.DefaultSyncInterval <= 0 {
		return fmt.Errorf("defaultSyncInterval must be positive, got %s", c.DefaultSyncInterval)
	}
	return nil
}
