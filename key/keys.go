// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Extraction Engine - these keys govern the yt-dlp binary invocation.
const (
	EnginePath    = "engine.path"
	EngineCommand = "engine.command"
)

// Download Behavior - these keys configure save-to-disk resolution.
const (
	DownloadsDir = "downloads.dir"
)

// Update Discovery - these keys manage the engine release check.
const (
	UpdaterEnable     = "updater.enable"
	UpdaterReleaseAPI = "updater.release_api"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// CLI Execution Environment - these flags and settings govern the application behavior.
const (
	CliColored = "cli.colored"
)
