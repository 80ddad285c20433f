package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/afero"
)

// GitIgnoreFileName is the ignore file read from the root of a walk.
const GitIgnoreFileName = ".gitignore"

const (
	errorOpenIgnoreFileFormat = "opening ignore file %s: %w"
	errorScanIgnoreFileFormat = "reading ignore file %s: %w"
)

// LoadPatterns reads the raw pattern lines of ignoreFilePath. A missing file
// yields no patterns and no error. Comment and blank lines are kept out.
//
// #nosec G304
func LoadPatterns(fileSystem afero.Fs, ignoreFilePath string) ([]string, error) {
	if ignoreFilePath == "" {
		return nil, nil
	}
	fileHandle, openFileError := fileSystem.Open(ignoreFilePath)
	if openFileError != nil {
		if errors.Is(openFileError, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf(errorOpenIgnoreFileFormat, ignoreFilePath, openFileError)
	}
	defer fileHandle.Close()

	var patterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		patterns = append(patterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf(errorScanIgnoreFileFormat, ignoreFilePath, scanError)
	}
	return patterns, nil
}
