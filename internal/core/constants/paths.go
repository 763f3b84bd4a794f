package constants

// Default locations under the user's home directory
const (
	DefaultHomeDir   = "~/.go-focus-monitor"
	DefaultDataDir   = DefaultHomeDir + "/data"
	DefaultExportDir = DefaultHomeDir + "/exports"
	DefaultLogFile   = DefaultHomeDir + "/logs/app.log"

	// ExportFilePattern is the time layout of live-view export file names
	ExportFilePattern = "report-20060102-150405.txt"
)
