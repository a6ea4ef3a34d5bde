package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateSync() error {
	switch c.Sync.OutputPolicy {
	case OutputPolicyInPlace, OutputPolicySuffix:
	default:
		return fmt.Errorf("sync.output_policy must be %q or %q, got %q",
			OutputPolicyInPlace, OutputPolicySuffix, c.Sync.OutputPolicy)
	}
	allowed := make(map[string]struct{}, len(c.Sync.VideoExtensions))
	for _, ext := range c.Sync.VideoExtensions {
		allowed[ext] = struct{}{}
	}
	for _, ext := range c.Sync.ExtensionPriority {
		if _, ok := allowed[ext]; !ok {
			return fmt.Errorf("sync.extension_priority entry %q is not in sync.video_extensions", ext)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
