package config

const (
	defaultLibraryDir        = "~/library"
	defaultLogDir            = "~/.local/share/subsync/logs"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultQueuePollInterval = 5
	defaultScanInterval      = 300
	defaultOutputPolicy      = OutputPolicyInPlace
	defaultFFSubsyncBinary   = "ffsubsync"
)

func defaultVideoExtensions() []string {
	return []string{".mkv", ".mp4", ".avi", ".m4v", ".mov", ".webm"}
}

func defaultExtensionPriority() []string {
	return []string{".mkv", ".mp4"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
		},
		Sync: Sync{
			VideoExtensions:   defaultVideoExtensions(),
			ExtensionPriority: defaultExtensionPriority(),
			OutputPolicy:      defaultOutputPolicy,
			BackupOriginals:   false,
			GoldenSection:     true,
			SyncTimeout:       0,
			FFSubsyncBinary:   defaultFFSubsyncBinary,
		},
		Workflow: Workflow{
			QueuePollInterval: defaultQueuePollInterval,
			ScanInterval:      defaultScanInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
