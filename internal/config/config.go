package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LibraryDir string `toml:"library_dir"`
	LogDir     string `toml:"log_dir"`
}

// Sync contains configuration for subtitle synchronization behavior.
type Sync struct {
	// VideoExtensions is the allow-list of extensions treated as video files
	// when resolving a sibling for a subtitle.
	VideoExtensions []string `toml:"video_extensions"`
	// ExtensionPriority orders the tie-break when several sibling videos share
	// the subtitle's base name. Extensions not listed fall back to sorted
	// directory order.
	ExtensionPriority []string `toml:"extension_priority"`
	// OutputPolicy selects where the synced subtitle is written: "in_place"
	// overwrites the source file, "suffix" writes <base>.synced.srt alongside.
	OutputPolicy string `toml:"output_policy"`
	// BackupOriginals copies the subtitle to <name>.srt.bak before an
	// in-place overwrite.
	BackupOriginals bool `toml:"backup_originals"`
	// GoldenSection passes --gss to ffsubsync.
	GoldenSection bool `toml:"golden_section"`
	// SyncTimeout bounds a single ffsubsync run in seconds. Zero disables the
	// timeout.
	SyncTimeout int `toml:"sync_timeout"`
	// FFSubsyncBinary overrides the ffsubsync executable name.
	FFSubsyncBinary string `toml:"ffsubsync_binary"`
}

// Workflow contains configuration for daemon timing and intervals.
type Workflow struct {
	QueuePollInterval int `toml:"queue_poll_interval"`
	ScanInterval      int `toml:"scan_interval"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Output policy values accepted by Sync.OutputPolicy.
const (
	OutputPolicyInPlace = "in_place"
	OutputPolicySuffix  = "suffix"
)

// Config encapsulates all configuration values for subsync.
//
// Configuration sections by subsystem:
//   - Paths: library and log directories
//   - Sync: video extension allow-list, tie-break order, output policy,
//     and ffsubsync invocation knobs
//   - Workflow: daemon polling intervals
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Sync     Sync     `toml:"sync"`
	Workflow Workflow `toml:"workflow"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/subsync/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("subsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
// LibraryDir is created on a best-effort basis so the daemon can run when
// external storage is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		_ = os.MkdirAll(c.Paths.LibraryDir, 0o755)
	}
	return nil
}

// FFSubsyncBinary returns the ffsubsync executable name.
func (c *Config) FFSubsyncBinary() string {
	if name := strings.TrimSpace(c.Sync.FFSubsyncBinary); name != "" {
		return name
	}
	return defaultFFSubsyncBinary
}

// SampleConfig returns the annotated sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
