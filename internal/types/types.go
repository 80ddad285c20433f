// Package types defines every cross‑package data structure used by the collect CLI.
package types

// EntryKind distinguishes files from directories in a walk.
type EntryKind string

const (
	EntryKindFile      EntryKind = "file"
	EntryKindDirectory EntryKind = "directory"
)

// ExclusionReason explains why an entry is not part of the inclusion set.
type ExclusionReason string

const (
	ReasonNone       ExclusionReason = ""
	ReasonHidden     ExclusionReason = "hidden"
	ReasonIgnored    ExclusionReason = "ignored"
	ReasonBinary     ExclusionReason = "binary"
	ReasonEmpty      ExclusionReason = "empty"
	ReasonTooLarge   ExclusionReason = "too_large"
	ReasonUnreadable ExclusionReason = "unreadable"
	ReasonSymlink    ExclusionReason = "symlink"
	ReasonSpecial    ExclusionReason = "special"
)

// Entry is one filesystem node visited during traversal.
type Entry struct {
	// RelativePath is slash separated and relative to the walk root.
	RelativePath string
	Name         string
	Kind         EntryKind
	Included     bool
	Reason       ExclusionReason
	// Depth is 1 for direct children of a directory root and 0 for a single-file root.
	Depth     int
	SizeBytes int64
}

// IsFile reports whether the entry is a file.
func (entry Entry) IsFile() bool {
	return entry.Kind == EntryKindFile
}

// IsDirectory reports whether the entry is a directory.
func (entry Entry) IsDirectory() bool {
	return entry.Kind == EntryKindDirectory
}

// WalkResult is the ordered outcome of a traversal.
type WalkResult struct {
	// Root is the absolute path the walk started from.
	Root     string
	RootKind EntryKind
	// Entries are in pre-order with siblings sorted by name.
	Entries  []Entry
	Warnings []string
}

// IncludedFiles returns the included file entries in walk order.
func (result WalkResult) IncludedFiles() []Entry {
	var includedFiles []Entry
	for _, entry := range result.Entries {
		if entry.IsFile() && entry.Included {
			includedFiles = append(includedFiles, entry)
		}
	}
	return includedFiles
}

// OutputDocument is the aggregated text handed to the sinks.
type OutputDocument struct {
	Text string
	// Files lists the relative path of every file section in order.
	Files []string
	// Failures lists files whose section holds a read failure placeholder.
	Failures []string
}
