package utils

// Configuration file constants used across the project.
const (
	// LocalConfigFileName is the configuration file read from the working directory.
	LocalConfigFileName = ".collect.yaml"
	// GlobalConfigDirectoryName is the directory under the user home holding the global configuration.
	GlobalConfigDirectoryName = ".collect"
	// GlobalConfigFileName is the global configuration file name.
	GlobalConfigFileName = "config.yaml"
	// ConfigFileType is the viper decoder used for every configuration file.
	ConfigFileType = "yaml"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

// ErrorLogFormat defines the formatting string for error log messages.
const ErrorLogFormat = "Error: %v"
