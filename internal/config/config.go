package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/tyemirov/collect/internal/ignore"
	"github.com/tyemirov/collect/internal/utils"
)

const (
	anchoredPatternPrefix = "/"
	parentDirectory       = ".."

	errorLoadIgnoreFileFormat = "loading %s: %w"
)

// PatternSources names every place ignore patterns come from for one run.
type PatternSources struct {
	// RootDirectory is the absolute directory being collected.
	RootDirectory string
	UseGitignore  bool
	// IgnoreFilePath replaces <root>/.gitignore when set. Relative paths
	// resolve against RootDirectory.
	IgnoreFilePath string
	// ExclusionPatterns are appended after the ignore file patterns.
	ExclusionPatterns []string
	// SelfExcludedPaths are absolute paths the run writes itself; the ones
	// inside RootDirectory are excluded through anchored patterns.
	SelfExcludedPaths []string
}

// ResolveIgnoreFilePath returns the ignore file a run reads, or an empty
// string when ignore files are disabled.
func (sources PatternSources) ResolveIgnoreFilePath() string {
	if sources.IgnoreFilePath != "" {
		if filepath.IsAbs(sources.IgnoreFilePath) {
			return sources.IgnoreFilePath
		}
		return filepath.Join(sources.RootDirectory, sources.IgnoreFilePath)
	}
	if !sources.UseGitignore || sources.RootDirectory == "" {
		return ""
	}
	return filepath.Join(sources.RootDirectory, ignore.GitIgnoreFileName)
}

// LoadCombinedIgnorePatterns reads the ignore file and appends the exclusion
// and self-exclusion patterns, dropping duplicates while keeping first
// occurrence order.
func LoadCombinedIgnorePatterns(fileSystem afero.Fs, sources PatternSources) ([]string, error) {
	var combinedPatterns []string

	if ignoreFilePath := sources.ResolveIgnoreFilePath(); ignoreFilePath != "" {
		filePatterns, loadError := ignore.LoadPatterns(fileSystem, ignoreFilePath)
		if loadError != nil {
			return nil, fmt.Errorf(errorLoadIgnoreFileFormat, ignoreFilePath, loadError)
		}
		combinedPatterns = append(combinedPatterns, filePatterns...)
	}

	for _, pattern := range sources.ExclusionPatterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		combinedPatterns = append(combinedPatterns, trimmedPattern)
	}

	for _, excludedPath := range sources.SelfExcludedPaths {
		if anchoredPattern, inside := anchoredPatternFor(sources.RootDirectory, excludedPath); inside {
			combinedPatterns = append(combinedPatterns, anchoredPattern)
		}
	}

	return utils.DeduplicatePatterns(combinedPatterns), nil
}

// anchoredPatternFor returns "/<relative path>" when targetPath lies inside
// rootDirectory. Glob metacharacters in the path are escaped.
func anchoredPatternFor(rootDirectory string, targetPath string) (string, bool) {
	if rootDirectory == "" || targetPath == "" {
		return "", false
	}
	relativePath, relativeError := filepath.Rel(rootDirectory, targetPath)
	if relativeError != nil || relativePath == "." || relativePath == parentDirectory ||
		strings.HasPrefix(relativePath, parentDirectory+string(filepath.Separator)) {
		return "", false
	}
	return anchoredPatternPrefix + escapeGlob(filepath.ToSlash(relativePath)), true
}

func escapeGlob(path string) string {
	var escapedBuilder strings.Builder
	for _, character := range path {
		switch character {
		case '*', '?', '[', ']', '{', '}', '\\':
			escapedBuilder.WriteRune('\\')
		}
		escapedBuilder.WriteRune(character)
	}
	return escapedBuilder.String()
}
