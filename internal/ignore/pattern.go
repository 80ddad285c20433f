// Package ignore compiles .gitignore-style patterns into a path predicate.
//
// The supported subset covers comments, blank lines, root anchoring with a
// leading slash, directory-only rules with a trailing slash and segment
// wildcards. Negation patterns are parsed but never applied; they are
// surfaced through Set.Warnings so callers can report them.
package ignore

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	commentPrefix        = "#"
	negationPrefix       = "!"
	escapedCommentPrefix = `\#`
	escapedNegation      = `\!`
	pathSegmentSeparator = "/"

	reasonNegation     = "negation patterns are not supported"
	reasonEmptyPattern = "pattern has no path component"
	reasonInvalidGlob  = "pattern is not a valid glob"
)

// Rule is a single compiled ignore pattern.
type Rule struct {
	Raw           string
	Anchored      bool
	DirectoryOnly bool
	// HasSlash is set when the pattern body contains an inner separator and
	// therefore matches against the whole relative path.
	HasSlash          bool
	Unsupported       bool
	UnsupportedReason string
	glob              string
}

// Glob returns the pattern body evaluated against paths.
func (rule Rule) Glob() string {
	return rule.glob
}

func (rule Rule) matches(relativePath string, isDirectory bool) bool {
	if rule.Unsupported {
		return false
	}
	if rule.DirectoryOnly && !isDirectory {
		return false
	}
	candidate := relativePath
	if !rule.Anchored && !rule.HasSlash {
		candidate = path.Base(relativePath)
	}
	isMatched, matchError := doublestar.Match(rule.glob, candidate)
	return matchError == nil && isMatched
}

// Set is an ordered, immutable collection of rules.
type Set struct {
	rules    []Rule
	skipped  []Rule
	warnings []UnsupportedPatternWarning
}

// Build compiles raw pattern lines. Blank lines and comments are dropped.
func Build(patterns []string) *Set {
	set := &Set{}
	seenUnsupported := make(map[string]struct{})
	for _, rawPattern := range patterns {
		rule, keep := parseRule(rawPattern)
		if !keep {
			continue
		}
		set.rules = append(set.rules, rule)
		if !rule.Unsupported {
			continue
		}
		if _, seen := seenUnsupported[rule.Raw]; seen {
			continue
		}
		seenUnsupported[rule.Raw] = struct{}{}
		set.skipped = append(set.skipped, rule)
		set.warnings = append(set.warnings, UnsupportedPatternWarning{Pattern: rule.Raw, Reason: rule.UnsupportedReason})
	}
	return set
}

func parseRule(rawPattern string) (Rule, bool) {
	trimmedPattern := strings.TrimSpace(rawPattern)
	if trimmedPattern == "" || strings.HasPrefix(trimmedPattern, commentPrefix) {
		return Rule{}, false
	}

	rule := Rule{Raw: trimmedPattern}
	if strings.HasPrefix(trimmedPattern, negationPrefix) {
		rule.Unsupported = true
		rule.UnsupportedReason = reasonNegation
		return rule, true
	}

	body := trimmedPattern
	if strings.HasPrefix(body, escapedCommentPrefix) || strings.HasPrefix(body, escapedNegation) {
		body = body[1:]
	}
	if strings.HasSuffix(body, pathSegmentSeparator) {
		rule.DirectoryOnly = true
		body = strings.TrimSuffix(body, pathSegmentSeparator)
	}
	if strings.HasPrefix(body, pathSegmentSeparator) {
		rule.Anchored = true
		body = strings.TrimPrefix(body, pathSegmentSeparator)
	}
	if body == "" {
		rule.Unsupported = true
		rule.UnsupportedReason = reasonEmptyPattern
		return rule, true
	}
	if !doublestar.ValidatePattern(body) {
		rule.Unsupported = true
		rule.UnsupportedReason = reasonInvalidGlob
		return rule, true
	}
	rule.HasSlash = strings.Contains(body, pathSegmentSeparator)
	rule.glob = body
	return rule, true
}

// Rules returns every compiled rule, supported or not, in input order.
func (set *Set) Rules() []Rule {
	if set == nil {
		return nil
	}
	return append([]Rule(nil), set.rules...)
}

// Unsupported returns each unique skipped rule once, in first-seen order.
func (set *Set) Unsupported() []Rule {
	if set == nil {
		return nil
	}
	return append([]Rule(nil), set.skipped...)
}

// Warnings returns one diagnostic per unique skipped pattern.
func (set *Set) Warnings() []UnsupportedPatternWarning {
	if set == nil {
		return nil
	}
	return append([]UnsupportedPatternWarning(nil), set.warnings...)
}

// Matches reports whether relativePath is excluded by any supported rule.
// A path is also excluded when one of its ancestor directories matches, so the
// predicate stays consistent with traversal pruning.
func (set *Set) Matches(relativePath string, isDirectory bool) bool {
	if set == nil || len(set.rules) == 0 {
		return false
	}
	normalizedPath := normalizeRelativePath(relativePath)
	if normalizedPath == "" || normalizedPath == "." {
		return false
	}

	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)
	for segmentCount := 1; segmentCount < len(pathSegments); segmentCount++ {
		if set.matchesAny(strings.Join(pathSegments[:segmentCount], pathSegmentSeparator), true) {
			return true
		}
	}
	return set.matchesAny(normalizedPath, isDirectory)
}

func (set *Set) matchesAny(relativePath string, isDirectory bool) bool {
	for _, rule := range set.rules {
		if rule.matches(relativePath, isDirectory) {
			return true
		}
	}
	return false
}

func normalizeRelativePath(relativePath string) string {
	normalizedPath := strings.ReplaceAll(relativePath, `\`, pathSegmentSeparator)
	normalizedPath = strings.TrimPrefix(normalizedPath, "./")
	normalizedPath = strings.Trim(normalizedPath, pathSegmentSeparator)
	return normalizedPath
}
