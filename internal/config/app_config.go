// Package config loads the collect configuration files and assembles the
// ignore patterns for a run.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/tyemirov/collect/internal/utils"
)

const (
	errorWorkingDirectoryFormat = "determine working directory: %w"
	errorResolvePathFormat      = "resolve configuration path %s: %w"
	errorStatFormat             = "stat configuration %s: %w"
	errorDirectoryFormat        = "configuration path %s is a directory"
	errorReadFormat             = "read configuration from %s: %w"
	errorDecodeFormat           = "decode configuration from %s: %w"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// HomeDirectory overrides the user home directory used for the global file.
	HomeDirectory string
}

// ApplicationConfiguration holds the defaults of a collect run. Unset fields
// are nil or empty so a later source only overrides what it names.
type ApplicationConfiguration struct {
	Output    string             `mapstructure:"output" yaml:"output"`
	Tree      *bool              `mapstructure:"tree" yaml:"tree"`
	Clipboard *bool              `mapstructure:"clipboard" yaml:"clipboard"`
	Tokens    TokenConfiguration `mapstructure:"tokens" yaml:"tokens"`
	Paths     PathConfiguration  `mapstructure:"paths" yaml:"paths"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled" yaml:"enabled"`
	Model   string `mapstructure:"model" yaml:"model"`
}

// PathConfiguration configures inclusion and exclusion rules for path traversal.
type PathConfiguration struct {
	Exclude       []string `mapstructure:"exclude" yaml:"exclude"`
	UseGitignore  *bool    `mapstructure:"use_gitignore" yaml:"use_gitignore"`
	IgnoreFile    string   `mapstructure:"ignore_file" yaml:"ignore_file"`
	MaxFileSizeKB *int64   `mapstructure:"max_file_size_kb" yaml:"max_file_size_kb"`
	KeepEmpty     *bool    `mapstructure:"keep_empty" yaml:"keep_empty"`
	ShowExcluded  *bool    `mapstructure:"show_excluded" yaml:"show_excluded"`
}

// LoadApplicationConfiguration loads the global file and then the local one,
// the latter overriding the former field by field. Missing files are skipped.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf(errorWorkingDirectoryFormat, workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if globalPath := GlobalConfigurationPath(options.HomeDirectory); globalPath != "" {
		globalConfiguration, loadError := loadConfigurationFromPath(globalPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfiguration)
	}

	localPath, resolveError := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveError != nil {
		return ApplicationConfiguration{}, resolveError
	}
	localConfiguration, loadError := loadConfigurationFromPath(localPath)
	if loadError != nil {
		return ApplicationConfiguration{}, loadError
	}
	merged = merged.Merge(localConfiguration)

	merged.Paths.Exclude = utils.DeduplicatePatterns(merged.Paths.Exclude)
	return merged, nil
}

// GlobalConfigurationPath returns the global configuration file path under
// homeDirectory, or under the user home directory when homeDirectory is empty.
func GlobalConfigurationPath(homeDirectory string) string {
	if homeDirectory == "" {
		userHomeDirectory, homeError := os.UserHomeDir()
		if homeError != nil {
			return ""
		}
		homeDirectory = userHomeDirectory
	}
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolutePath, absoluteError := filepath.Abs(explicitPath)
			if absoluteError != nil {
				return "", fmt.Errorf(errorResolvePathFormat, explicitPath, absoluteError)
			}
			return absolutePath, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(errorStatFormat, path, statError)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(errorDirectoryFormat, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType(utils.ConfigFileType)
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorReadFormat, path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeFormat, path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Tree != nil {
		result.Tree = cloneBool(override.Tree)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	result.Paths = result.Paths.merge(override.Paths)
	return result
}

func (configuration TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := configuration
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (configuration PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := configuration
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.IgnoreFile != "" {
		result.IgnoreFile = override.IgnoreFile
	}
	if override.MaxFileSizeKB != nil {
		result.MaxFileSizeKB = cloneInt64(override.MaxFileSizeKB)
	}
	if override.KeepEmpty != nil {
		result.KeepEmpty = cloneBool(override.KeepEmpty)
	}
	if override.ShowExcluded != nil {
		result.ShowExcluded = cloneBool(override.ShowExcluded)
	}
	return result
}

// BoolValue returns the value behind pointer or fallback when it is nil.
func BoolValue(pointer *bool, fallback bool) bool {
	if pointer == nil {
		return fallback
	}
	return *pointer
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
