// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 14

// Adaptive Selection - these keys govern the source-selection engine.
const (
	AdaptiveDisable   = "adaptive.disable"
	AdaptiveThreshold = "adaptive.threshold"
)

// Bandwidth Probe - these keys configure the one-shot throughput measurement.
const (
	ProbeURL     = "probe.url"
	ProbeTimeout = "probe.timeout"
)

// Quality Menu - these keys control the quality-selector presentation.
const (
	UIShow     = "ui.show"
	UIIconOnly = "ui.icon_only"
	UIMode     = "ui.mode"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Media Playback - these keys maintain the configuration for the external video player.
const (
	PlayerTitle = "player.title"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-interactive application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
