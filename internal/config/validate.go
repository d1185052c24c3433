package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required for the postgres storage driver")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("storage.driver must be %q or %q (got %q)", StorageDriverPostgres, StorageDriverMemory, c.Storage.Driver)
	}

	if c.Auth.RequireAuth && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Annotation.validate(); err != nil {
		return fmt.Errorf("annotation: %w", err)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path)
	}

	return nil
}

func (a *AnnotationConfig) validate() error {
	if a.MaxHierarchyDepth <= 0 {
		return fmt.Errorf("max_hierarchy_depth must be > 0 (got %d)", a.MaxHierarchyDepth)
	}
	if a.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be > 0 (got %d)", a.HistoryLimit)
	}
	if a.AutoCompleteRuns && strings.TrimSpace(a.RunLabelSuffix) == "" {
		return fmt.Errorf("run_label_suffix must not be blank when auto_complete_runs is on")
	}
	return nil
}
