// Package tree renders a walk result as an indented directory tree.
package tree

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tyemirov/collect/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directorySuffix      = "/"
	excludedMarkerFormat = " [excluded: %s]"
	lineSeparator        = "\n"
)

// Options controls which entries appear in the rendered tree.
type Options struct {
	// HideExcluded omits excluded entries instead of marking them.
	HideExcluded bool
}

// Render draws result as text lines without a trailing newline. The first line
// is the base name of the root directory.
func Render(result types.WalkResult, options Options) string {
	if result.RootKind == types.EntryKindFile {
		if len(result.Entries) == 0 {
			return filepath.Base(result.Root)
		}
		return result.Entries[0].Name
	}

	visibleEntries := make([]types.Entry, 0, len(result.Entries))
	for _, entry := range result.Entries {
		if options.HideExcluded && !entry.Included {
			continue
		}
		visibleEntries = append(visibleEntries, entry)
	}
	lastSiblingFlags := computeLastSiblingFlags(visibleEntries)

	lines := make([]string, 0, len(visibleEntries)+1)
	lines = append(lines, filepath.Base(result.Root))

	var ancestorIsLast []bool
	for entryIndex, entry := range visibleEntries {
		if entry.Depth < 1 {
			continue
		}
		if len(ancestorIsLast) >= entry.Depth {
			ancestorIsLast = ancestorIsLast[:entry.Depth-1]
		}

		var lineBuilder strings.Builder
		for _, ancestorLast := range ancestorIsLast {
			if ancestorLast {
				lineBuilder.WriteString(treeLastPadding)
			} else {
				lineBuilder.WriteString(treeBranchPadding)
			}
		}
		if lastSiblingFlags[entryIndex] {
			lineBuilder.WriteString(treeLastConnector)
		} else {
			lineBuilder.WriteString(treeBranchConnector)
		}
		lineBuilder.WriteString(entry.Name)
		if entry.IsDirectory() {
			lineBuilder.WriteString(directorySuffix)
		}
		if !entry.Included {
			lineBuilder.WriteString(fmt.Sprintf(excludedMarkerFormat, entry.Reason))
		}
		lines = append(lines, lineBuilder.String())

		ancestorIsLast = append(ancestorIsLast, lastSiblingFlags[entryIndex])
	}

	return strings.Join(lines, lineSeparator)
}

// computeLastSiblingFlags marks every entry that has no later sibling under
// the same parent. Entries must be in pre-order.
func computeLastSiblingFlags(entries []types.Entry) []bool {
	lastFlags := make([]bool, len(entries))
	var siblingFollows []bool
	for entryIndex := len(entries) - 1; entryIndex >= 0; entryIndex-- {
		depth := entries[entryIndex].Depth
		for len(siblingFollows) <= depth {
			siblingFollows = append(siblingFollows, false)
		}
		lastFlags[entryIndex] = !siblingFollows[depth]
		siblingFollows[depth] = true
		for deeperDepth := depth + 1; deeperDepth < len(siblingFollows); deeperDepth++ {
			siblingFollows[deeperDepth] = false
		}
	}
	return lastFlags
}
