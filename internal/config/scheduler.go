package config

import (
	"fmt"
	"time"
)

// SchedulerConfig holds background task configuration.
type SchedulerConfig struct {
	// ExpiryInterval is how often overdue teams are swept.
	ExpiryInterval time.Duration
	// SnapshotInterval is how often the user snapshot cache is reloaded.
	SnapshotInterval time.Duration
}

// LoadSchedulerConfigFromEnv loads scheduler configuration from environment variables.
func LoadSchedulerConfigFromEnv() SchedulerConfig {
	return SchedulerConfig{
		ExpiryInterval:   GetEnvDuration("TEAM_EXPIRY_INTERVAL", time.Minute),
		SnapshotInterval: GetEnvDuration("USER_SNAPSHOT_INTERVAL", 30*time.Minute),
	}
}

// Validate validates scheduler configuration.
func (c SchedulerConfig) Validate() error {
	if c.ExpiryInterval <= 0 {
		return fmt.Errorf("TEAM_EXPIRY_INTERVAL must be greater than 0")
	}
	if c.SnapshotInterval <= 0 {
		return fmt.Errorf("USER_SNAPSHOT_INTERVAL must be greater than 0")
	}
	return nil
}
