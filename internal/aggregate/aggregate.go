// Package aggregate concatenates the included files of a walk into one document.
package aggregate

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/tyemirov/collect/internal/traversal"
	"github.com/tyemirov/collect/internal/tree"
	"github.com/tyemirov/collect/internal/types"
)

const (
	directoryStructureHeader = "Directory Structure:\n"
	fileContentsHeader       = "File Contents:\n"
	singleFileHeaderFormat   = "Processing single file: %s\n\n"
	sectionBoundary          = "================================================================================"
	sectionFileLabel         = "File: "
	readFailureFormat        = "Error reading file: %v"
	replacementCharacter     = "\uFFFD"

	warningReadFailedMessage = "Warning: failed to read file content"
)

// ErrBinaryContent marks a file whose content became binary after the walk.
var ErrBinaryContent = errors.New("content is binary")

// ReadError reports an included file whose content could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (readError *ReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", readError.Path, readError.Err)
}

func (readError *ReadError) Unwrap() error {
	return readError.Err
}

// Options controls the document layout.
type Options struct {
	// IncludeTree prepends the directory structure for directory roots.
	IncludeTree bool
	Tree        tree.Options
	Logger      *zap.Logger
}

// Aggregate builds the document for the included files of result, in walk
// order. A file that fails to read keeps its section with a placeholder body
// and is listed in Failures; aggregation never aborts.
func Aggregate(fileSystem afero.Fs, result types.WalkResult, options Options) types.OutputDocument {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var documentBuilder strings.Builder
	document := types.OutputDocument{}

	if result.RootKind == types.EntryKindFile {
		documentBuilder.WriteString(fmt.Sprintf(singleFileHeaderFormat, filepath.Base(result.Root)))
	} else {
		if options.IncludeTree {
			documentBuilder.WriteString(directoryStructureHeader)
			documentBuilder.WriteString(tree.Render(result, options.Tree))
			documentBuilder.WriteString("\n\n")
		}
		documentBuilder.WriteString(fileContentsHeader)
	}

	for _, entry := range result.IncludedFiles() {
		content, readError := readContent(fileSystem, entryPath(result, entry))
		if readError != nil {
			failure := &ReadError{Path: entry.RelativePath, Err: readError}
			logger.Warn(warningReadFailedMessage, zap.String("path", failure.Path), zap.Error(failure))
			content = fmt.Sprintf(readFailureFormat, readError)
			document.Failures = append(document.Failures, failure.Path)
		}
		writeSection(&documentBuilder, entry.RelativePath, content)
		document.Files = append(document.Files, entry.RelativePath)
	}

	document.Text = documentBuilder.String()
	return document
}

func writeSection(documentBuilder *strings.Builder, relativePath string, content string) {
	documentBuilder.WriteString("\n")
	documentBuilder.WriteString(sectionBoundary)
	documentBuilder.WriteString("\n")
	documentBuilder.WriteString(sectionFileLabel)
	documentBuilder.WriteString(relativePath)
	documentBuilder.WriteString("\n")
	documentBuilder.WriteString(sectionBoundary)
	documentBuilder.WriteString("\n")
	documentBuilder.WriteString(content)
	documentBuilder.WriteString("\n")
}

func entryPath(result types.WalkResult, entry types.Entry) string {
	if result.RootKind == types.EntryKindFile {
		return result.Root
	}
	return filepath.Join(result.Root, filepath.FromSlash(entry.RelativePath))
}

// readContent rechecks the binary heuristic on the current prefix and decodes
// the rest permissively.
func readContent(fileSystem afero.Fs, filePath string) (string, error) {
	prefix, truncated, sniffError := traversal.SniffFile(fileSystem, filePath)
	if sniffError != nil {
		return "", sniffError
	}
	if traversal.IsBinary(prefix, truncated) {
		return "", ErrBinaryContent
	}
	if !truncated {
		return string(prefix), nil
	}
	data, readError := afero.ReadFile(fileSystem, filePath)
	if readError != nil {
		return "", readError
	}
	return strings.ToValidUTF8(string(data), replacementCharacter), nil
}
