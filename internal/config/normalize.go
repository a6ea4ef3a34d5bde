package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSync()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSync() {
	c.Sync.VideoExtensions = normalizeExtensions(c.Sync.VideoExtensions)
	if len(c.Sync.VideoExtensions) == 0 {
		c.Sync.VideoExtensions = defaultVideoExtensions()
	}
	c.Sync.ExtensionPriority = normalizeExtensions(c.Sync.ExtensionPriority)
	c.Sync.OutputPolicy = strings.ToLower(strings.TrimSpace(c.Sync.OutputPolicy))
	if c.Sync.OutputPolicy == "" {
		c.Sync.OutputPolicy = defaultOutputPolicy
	}
	c.Sync.FFSubsyncBinary = strings.TrimSpace(c.Sync.FFSubsyncBinary)
	if c.Sync.SyncTimeout < 0 {
		c.Sync.SyncTimeout = 0
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.QueuePollInterval <= 0 {
		c.Workflow.QueuePollInterval = defaultQueuePollInterval
	}
	if c.Workflow.ScanInterval <= 0 {
		c.Workflow.ScanInterval = defaultScanInterval
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// normalizeExtensions lowercases entries, guarantees a leading dot, and drops
// blanks and duplicates while preserving order.
func normalizeExtensions(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		ext := strings.ToLower(strings.TrimSpace(value))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}
