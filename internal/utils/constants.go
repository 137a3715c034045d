package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

const (
	// ConfigFileName is the name of the local and global configuration file.
	ConfigFileName = ".treedoc.yaml"
	// GlobalConfigDirectoryName is the directory below the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".treedoc"
	// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
	// DefaultReportFileName is the Markdown report written by the generate command.
	DefaultReportFileName = "README.md"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"

	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command failures.
	ApplicationExecutionFailedMessage = "treedoc failed"
)
