package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion       = "unknown"
	developmentVersion   = "(devel)"
	gitExecutable        = "git"
	errorAbsolutePath    = "failed to get absolute path for %s: %w"
	errorGitNotFoundText = ".git directory not found in or above %s"
)

// gitDescribeArguments are tried in order until one yields a version.
var gitDescribeArguments = [][]string{
	{"describe", "--tags", "--exact-match"},
	{"describe", "--tags", "--long", "--dirty"},
}

// GetApplicationVersion reports the module version from the build info, or
// the git description of the checkout around the working directory.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	var moduleVersion string
	if buildInfoAvailable {
		moduleVersion = buildInfo.Main.Version
	}
	return resolveVersion(moduleVersion, ".")
}

func resolveVersion(moduleVersion string, startDirectory string) string {
	if moduleVersion != "" && moduleVersion != developmentVersion {
		return moduleVersion
	}

	repositoryDirectory, findError := findGitDirectory(startDirectory)
	if findError != nil {
		return unknownVersion
	}
	for _, arguments := range gitDescribeArguments {
		// #nosec G204
		describeCommand := exec.Command(gitExecutable, arguments...)
		describeCommand.Dir = repositoryDirectory
		describeOutput, describeError := describeCommand.Output()
		if describeError == nil {
			if description := strings.TrimSpace(string(describeOutput)); description != "" {
				return description
			}
		}
	}
	return unknownVersion
}

// findGitDirectory searches upward from startDirectory for the directory
// holding the .git folder.
func findGitDirectory(startDirectory string) (string, error) {
	absoluteStartDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return "", fmt.Errorf(errorAbsolutePath, startDirectory, absoluteError)
	}

	for currentDirectory := absoluteStartDirectory; ; {
		fileInformation, statError := os.Stat(filepath.Join(currentDirectory, GitDirectoryName))
		if statError == nil && fileInformation.IsDir() {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", fmt.Errorf(errorGitNotFoundText, absoluteStartDirectory)
		}
		currentDirectory = parentDirectory
	}
}
