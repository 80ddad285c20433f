// Package traversal walks a root path and decides, for every visited entry,
// whether it belongs to the inclusion set.
package traversal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/tyemirov/collect/internal/ignore"
	"github.com/tyemirov/collect/internal/types"
)

const (
	hiddenPrefix = "."

	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	errorStatRootFormat     = "stat failed for '%s': %w"

	warningListDirectoryMessage = "Warning: skipping unreadable directory"
	warningOpenFileMessage      = "Warning: skipping unreadable file"
	warningSymlinkMessage       = "Warning: skipping unresolvable symlink"
)

// Options tunes the per-file heuristics of a walk.
type Options struct {
	// MaxFileSizeBytes excludes larger files. Zero disables the limit.
	MaxFileSizeBytes int64
	// SkipEmpty excludes files that are empty or hold only whitespace.
	SkipEmpty bool
	Logger    *zap.Logger
}

func (options Options) logger() *zap.Logger {
	if options.Logger == nil {
		return zap.NewNop()
	}
	return options.Logger
}

// directoryFrame is one level of the explicit traversal stack.
type directoryFrame struct {
	absolutePath string
	relativePath string
	depth        int
	children     []os.FileInfo
	nextIndex    int
}

type walker struct {
	fileSystem afero.Fs
	ignoreSet  *ignore.Set
	options    Options
	logger     *zap.Logger
	result     types.WalkResult
}

// Walk visits rootPath and returns its entries in pre-order with siblings
// sorted by name. A missing root fails with *NotFoundError; every failure
// below the root is recorded as a *PermissionError warning and the walk goes on.
func Walk(fileSystem afero.Fs, rootPath string, ignoreSet *ignore.Set, options Options) (types.WalkResult, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return types.WalkResult{}, fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}
	cleanedRootPath := filepath.Clean(absoluteRootPath)

	rootInfo, rootStatError := fileSystem.Stat(cleanedRootPath)
	if rootStatError != nil {
		if errors.Is(rootStatError, fs.ErrNotExist) {
			return types.WalkResult{}, &NotFoundError{Path: rootPath, Err: rootStatError}
		}
		return types.WalkResult{}, fmt.Errorf(errorStatRootFormat, rootPath, rootStatError)
	}

	walkState := &walker{
		fileSystem: fileSystem,
		ignoreSet:  ignoreSet,
		options:    options,
		logger:     options.logger(),
		result:     types.WalkResult{Root: cleanedRootPath},
	}

	if !rootInfo.IsDir() {
		walkState.result.RootKind = types.EntryKindFile
		walkState.walkSingleFile(cleanedRootPath, rootInfo)
		return walkState.result, nil
	}

	walkState.result.RootKind = types.EntryKindDirectory
	walkState.walkDirectory(cleanedRootPath)
	return walkState.result, nil
}

func (walkState *walker) walkSingleFile(filePath string, fileInfo os.FileInfo) {
	entry := types.Entry{
		RelativePath: fileInfo.Name(),
		Name:         fileInfo.Name(),
		Kind:         types.EntryKindFile,
		Depth:        0,
		SizeBytes:    fileInfo.Size(),
	}
	if isHidden(entry.Name) {
		entry.Reason = types.ReasonHidden
	} else {
		entry.Reason = walkState.classifyFile(filePath, fileInfo)
	}
	entry.Included = entry.Reason == types.ReasonNone
	walkState.result.Entries = append(walkState.result.Entries, entry)
}

func (walkState *walker) walkDirectory(rootPath string) {
	rootChildren, listed := walkState.listDirectory(rootPath)
	if !listed {
		return
	}
	stack := []*directoryFrame{{absolutePath: rootPath, depth: 0, children: rootChildren}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		if frame.nextIndex >= len(frame.children) {
			stack = stack[:len(stack)-1]
			continue
		}
		childInfo := frame.children[frame.nextIndex]
		frame.nextIndex++

		childAbsolutePath := filepath.Join(frame.absolutePath, childInfo.Name())
		entry := types.Entry{
			RelativePath: path.Join(frame.relativePath, childInfo.Name()),
			Name:         childInfo.Name(),
			Depth:        frame.depth + 1,
		}

		resolvedInfo, resolvedKind, kindReason := walkState.resolveKind(childAbsolutePath, childInfo)
		entry.Kind = resolvedKind
		descend := false

		switch {
		case isHidden(entry.Name):
			entry.Reason = types.ReasonHidden
		case walkState.ignoreSet.Matches(entry.RelativePath, entry.IsDirectory()):
			entry.Reason = types.ReasonIgnored
		case kindReason != types.ReasonNone:
			entry.Reason = kindReason
		case entry.IsDirectory():
			descend = true
		default:
			entry.SizeBytes = resolvedInfo.Size()
			entry.Reason = walkState.classifyFile(childAbsolutePath, resolvedInfo)
		}

		var grandchildren []os.FileInfo
		if descend {
			var listed bool
			grandchildren, listed = walkState.listDirectory(childAbsolutePath)
			if !listed {
				entry.Reason = types.ReasonUnreadable
				descend = false
			}
		}

		entry.Included = entry.Reason == types.ReasonNone
		walkState.result.Entries = append(walkState.result.Entries, entry)

		if descend {
			stack = append(stack, &directoryFrame{
				absolutePath: childAbsolutePath,
				relativePath: entry.RelativePath,
				depth:        entry.Depth,
				children:     grandchildren,
			})
		}
	}
}

// resolveKind follows symlinks one level. Symlinked directories are kept out
// of the walk so cycles cannot occur.
func (walkState *walker) resolveKind(absolutePath string, info os.FileInfo) (os.FileInfo, types.EntryKind, types.ExclusionReason) {
	if info.Mode()&os.ModeSymlink == 0 {
		if info.IsDir() {
			return info, types.EntryKindDirectory, types.ReasonNone
		}
		if !info.Mode().IsRegular() {
			return info, types.EntryKindFile, types.ReasonSpecial
		}
		return info, types.EntryKindFile, types.ReasonNone
	}

	targetInfo, statError := walkState.fileSystem.Stat(absolutePath)
	if statError != nil {
		walkState.recordPermissionError(warningSymlinkMessage, absolutePath, statError)
		return info, types.EntryKindFile, types.ReasonUnreadable
	}
	if targetInfo.IsDir() {
		return targetInfo, types.EntryKindDirectory, types.ReasonSymlink
	}
	if !targetInfo.Mode().IsRegular() {
		return targetInfo, types.EntryKindFile, types.ReasonSpecial
	}
	return targetInfo, types.EntryKindFile, types.ReasonNone
}

// classifyFile applies the size, binary and empty heuristics.
func (walkState *walker) classifyFile(filePath string, fileInfo os.FileInfo) types.ExclusionReason {
	if walkState.options.MaxFileSizeBytes > 0 && fileInfo.Size() > walkState.options.MaxFileSizeBytes {
		return types.ReasonTooLarge
	}
	prefix, truncated, sniffError := SniffFile(walkState.fileSystem, filePath)
	if sniffError != nil {
		walkState.recordPermissionError(warningOpenFileMessage, filePath, sniffError)
		return types.ReasonUnreadable
	}
	if IsBinary(prefix, truncated) {
		return types.ReasonBinary
	}
	if walkState.options.SkipEmpty && !truncated && strings.TrimSpace(string(prefix)) == "" {
		return types.ReasonEmpty
	}
	return types.ReasonNone
}

func (walkState *walker) listDirectory(directoryPath string) ([]os.FileInfo, bool) {
	children, listError := afero.ReadDir(walkState.fileSystem, directoryPath)
	if listError != nil {
		walkState.recordPermissionError(warningListDirectoryMessage, directoryPath, listError)
		return nil, false
	}
	sort.Slice(children, func(left, right int) bool {
		return children[left].Name() < children[right].Name()
	})
	return children, true
}

func (walkState *walker) recordPermissionError(message string, entryPath string, cause error) {
	permissionError := &PermissionError{Path: entryPath, Err: cause}
	walkState.result.Warnings = append(walkState.result.Warnings, permissionError.Error())
	walkState.logger.Warn(message, zap.String("path", entryPath), zap.Error(cause))
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, hiddenPrefix)
}
