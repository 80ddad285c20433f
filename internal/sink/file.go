// Package sink delivers the aggregated document to its destinations.
package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const (
	// LockSuffix is appended to the output path to name its lock file.
	LockSuffix = ".lock"
	// FileSinkName identifies FileSink results.
	FileSinkName = "file"

	outputDirectoryMode  = 0o755
	outputFileMode       = 0o644
	temporaryFilePattern = ".collect-*.tmp"

	errorAcquireLockFormat     = "failed to acquire lock on %s: %w"
	errorReleaseLockFormat     = "failed to release lock on %s: %w"
	errorCreateDirectoryFormat = "failed to create directory %s: %w"
	errorCreateTemporaryFormat = "failed to create temp file in %s: %w"
	errorWriteTemporaryFormat  = "failed to write temp file %s: %w"
	errorSyncTemporaryFormat   = "failed to sync temp file %s: %w"
	errorCloseTemporaryFormat  = "failed to close temp file %s: %w"
	errorChmodTemporaryFormat  = "failed to set permissions on %s: %w"
	errorRenameTemporaryFormat = "failed to rename temp file to %s: %w"
)

// FileSink writes the document to Path while holding an exclusive lock on
// Path+LockSuffix, so concurrent runs never interleave their output.
type FileSink struct {
	Path string
}

// NewFileSink returns a FileSink for outputPath.
func NewFileSink(outputPath string) *FileSink {
	return &FileSink{Path: outputPath}
}

// Name identifies the sink in delivery results.
func (fileSink *FileSink) Name() string {
	return FileSinkName
}

// Deliver replaces the output file with text atomically.
func (fileSink *FileSink) Deliver(text string) (deliverError error) {
	lockPath := fileSink.Path + LockSuffix
	if directoryError := os.MkdirAll(filepath.Dir(fileSink.Path), outputDirectoryMode); directoryError != nil {
		return fmt.Errorf(errorCreateDirectoryFormat, filepath.Dir(fileSink.Path), directoryError)
	}

	fileLock := flock.New(lockPath)
	if lockError := fileLock.Lock(); lockError != nil {
		return fmt.Errorf(errorAcquireLockFormat, fileSink.Path, lockError)
	}
	defer func() {
		if unlockError := fileLock.Unlock(); unlockError != nil && deliverError == nil {
			deliverError = fmt.Errorf(errorReleaseLockFormat, fileSink.Path, unlockError)
		}
	}()

	return writeAtomically(fileSink.Path, []byte(text))
}

// writeAtomically writes into a temporary file next to targetPath and renames
// it over the target. Readers never observe a partial document.
func writeAtomically(targetPath string, data []byte) error {
	directory := filepath.Dir(targetPath)
	temporaryFile, createError := os.CreateTemp(directory, temporaryFilePattern)
	if createError != nil {
		return fmt.Errorf(errorCreateTemporaryFormat, directory, createError)
	}
	temporaryPath := temporaryFile.Name()

	renamed := false
	defer func() {
		if !renamed {
			temporaryFile.Close()
			os.Remove(temporaryPath)
		}
	}()

	if _, writeError := temporaryFile.Write(data); writeError != nil {
		return fmt.Errorf(errorWriteTemporaryFormat, temporaryPath, writeError)
	}
	if syncError := temporaryFile.Sync(); syncError != nil {
		return fmt.Errorf(errorSyncTemporaryFormat, temporaryPath, syncError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		return fmt.Errorf(errorCloseTemporaryFormat, temporaryPath, closeError)
	}
	if chmodError := os.Chmod(temporaryPath, outputFileMode); chmodError != nil {
		return fmt.Errorf(errorChmodTemporaryFormat, temporaryPath, chmodError)
	}
	if renameError := os.Rename(temporaryPath, targetPath); renameError != nil {
		return fmt.Errorf(errorRenameTemporaryFormat, targetPath, renameError)
	}
	renamed = true
	return nil
}
