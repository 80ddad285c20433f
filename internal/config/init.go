package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tyemirov/collect/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	// DefaultOutputPath is the output file written when none is configured.
	DefaultOutputPath = "context.txt"
	// DefaultTokenModel selects the tokenizer when none is configured.
	DefaultTokenModel = "gpt-4o"

	configurationFileMode      = 0o600
	configurationDirectoryMode = 0o755
	yamlIndentation            = 2

	errorInitWorkingDirectoryFormat = "determine working directory for configuration: %w"
	errorInitHomeDirectoryFormat    = "resolve home directory for configuration: %w"
	errorInitCreateDirectoryFormat  = "create configuration directory %s: %w"
	errorInitUnsupportedTarget      = "unsupported init target %q"
	errorInitExistsFormat           = "configuration file already exists at %s"
	errorInitInspectFormat          = "inspect configuration path %s: %w"
	errorInitEncodeFormat           = "encode default configuration: %w"
	errorInitWriteFormat            = "write configuration to %s: %w"
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
	HomeDirectory    string
}

// DefaultConfiguration returns the built-in defaults with every field set.
func DefaultConfiguration() ApplicationConfiguration {
	return ApplicationConfiguration{
		Output:    DefaultOutputPath,
		Tree:      boolPointer(true),
		Clipboard: boolPointer(true),
		Tokens: TokenConfiguration{
			Enabled: boolPointer(false),
			Model:   DefaultTokenModel,
		},
		Paths: PathConfiguration{
			Exclude:       []string{},
			UseGitignore:  boolPointer(true),
			IgnoreFile:    "",
			MaxFileSizeKB: int64Pointer(0),
			KeepEmpty:     boolPointer(false),
			ShowExcluded:  boolPointer(true),
		},
	}
}

// RenderDefaultConfiguration encodes DefaultConfiguration as YAML.
func RenderDefaultConfiguration() ([]byte, error) {
	var encoded bytes.Buffer
	encoder := yaml.NewEncoder(&encoded)
	encoder.SetIndent(yamlIndentation)
	if encodeError := encoder.Encode(DefaultConfiguration()); encodeError != nil {
		return nil, fmt.Errorf(errorInitEncodeFormat, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return nil, fmt.Errorf(errorInitEncodeFormat, closeError)
	}
	return encoded.Bytes(), nil
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			currentDirectory, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return "", fmt.Errorf(errorInitWorkingDirectoryFormat, workingDirectoryError)
			}
			workingDirectory = currentDirectory
		}
		destinationPath = filepath.Join(workingDirectory, utils.LocalConfigFileName)
	case InitTargetGlobal:
		homeDirectory := options.HomeDirectory
		if homeDirectory == "" {
			userHomeDirectory, homeError := os.UserHomeDir()
			if homeError != nil {
				return "", fmt.Errorf(errorInitHomeDirectoryFormat, homeError)
			}
			homeDirectory = userHomeDirectory
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if directoryError := os.MkdirAll(configurationDirectory, configurationDirectoryMode); directoryError != nil {
			return "", fmt.Errorf(errorInitCreateDirectoryFormat, configurationDirectory, directoryError)
		}
		destinationPath = filepath.Join(configurationDirectory, utils.GlobalConfigFileName)
	default:
		return "", fmt.Errorf(errorInitUnsupportedTarget, target)
	}

	if _, statError := os.Stat(destinationPath); statError == nil {
		if !options.Force {
			return "", fmt.Errorf(errorInitExistsFormat, destinationPath)
		}
	} else if !os.IsNotExist(statError) {
		return "", fmt.Errorf(errorInitInspectFormat, destinationPath, statError)
	}

	content, renderError := RenderDefaultConfiguration()
	if renderError != nil {
		return "", renderError
	}
	if writeError := os.WriteFile(destinationPath, content, configurationFileMode); writeError != nil {
		return "", fmt.Errorf(errorInitWriteFormat, destinationPath, writeError)
	}

	return destinationPath, nil
}

func boolPointer(value bool) *bool {
	return &value
}

func int64Pointer(value int64) *int64 {
	return &value
}
