package ignore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyemirov/collect/internal/ignore"
)

func TestMatches(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		patterns     []string
		relativePath string
		isDirectory  bool
		expected     bool
	}{
		{name: "basename wildcard at root", patterns: []string{"*.log"}, relativePath: "a.log", expected: true},
		{name: "basename wildcard nested", patterns: []string{"*.log"}, relativePath: "dir/b.log", expected: true},
		{name: "wildcard does not match longer suffix", patterns: []string{"*.log"}, relativePath: "a.log.txt", expected: false},
		{name: "anchored matches root entry", patterns: []string{"/build"}, relativePath: "build", isDirectory: true, expected: true},
		{name: "anchored ignores nested entry", patterns: []string{"/build"}, relativePath: "src/build", isDirectory: true, expected: false},
		{name: "anchored covers descendants", patterns: []string{"/build"}, relativePath: "build/out.o", expected: true},
		{name: "directory only matches directory", patterns: []string{"docs/"}, relativePath: "docs", isDirectory: true, expected: true},
		{name: "directory only skips file", patterns: []string{"docs/"}, relativePath: "docs", expected: false},
		{name: "directory only covers descendants", patterns: []string{"docs/"}, relativePath: "docs/guide/intro.md", expected: true},
		{name: "directory only nested directory", patterns: []string{"node_modules/"}, relativePath: "web/node_modules", isDirectory: true, expected: true},
		{name: "slash pattern matches full path", patterns: []string{"src/*.go"}, relativePath: "src/main.go", expected: true},
		{name: "slash pattern is rooted", patterns: []string{"src/*.go"}, relativePath: "lib/src/main.go", expected: false},
		{name: "star stays inside segment", patterns: []string{"src/*.go"}, relativePath: "src/pkg/main.go", expected: false},
		{name: "question mark", patterns: []string{"file?.txt"}, relativePath: "file1.txt", expected: true},
		{name: "plain name matches any depth", patterns: []string{"vendor"}, relativePath: "a/b/vendor", isDirectory: true, expected: true},
		{name: "escaped hash", patterns: []string{`\#notes`}, relativePath: "#notes", expected: true},
		{name: "no patterns", patterns: nil, relativePath: "main.go", expected: false},
		{name: "root itself never matches", patterns: []string{"*"}, relativePath: ".", isDirectory: true, expected: false},
		{name: "windows separators normalized", patterns: []string{"src/*.go"}, relativePath: `src\main.go`, expected: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			set := ignore.Build(testCase.patterns)
			assert.Equal(t, testCase.expected, set.Matches(testCase.relativePath, testCase.isDirectory))
		})
	}
}

func TestBuildSkipsCommentsAndBlankLines(t *testing.T) {
	t.Parallel()

	set := ignore.Build([]string{"", "   ", "# comment", "*.tmp"})
	rules := set.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, "*.tmp", rules[0].Raw)
	assert.Empty(t, set.Warnings())
}

func TestBuildRecordsRuleFlags(t *testing.T) {
	t.Parallel()

	set := ignore.Build([]string{"/out/", "pkg/*.pb.go"})
	rules := set.Rules()
	require.Len(t, rules, 2)

	assert.True(t, rules[0].Anchored)
	assert.True(t, rules[0].DirectoryOnly)
	assert.False(t, rules[0].HasSlash)
	assert.Equal(t, "out", rules[0].Glob())

	assert.False(t, rules[1].Anchored)
	assert.False(t, rules[1].DirectoryOnly)
	assert.True(t, rules[1].HasSlash)
}

func TestNegationIsReportedOnceAndHasNoEffect(t *testing.T) {
	t.Parallel()

	set := ignore.Build([]string{"*.log", "!keep.log", "!keep.log"})

	assert.True(t, set.Matches("keep.log", false), "negation must not re-include the file")
	assert.False(t, ignore.Build([]string{"!keep.log"}).Matches("keep.log", false))

	warnings := set.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "!keep.log", warnings[0].Pattern)
	assert.Contains(t, warnings[0].Error(), "!keep.log")

	unsupported := set.Unsupported()
	require.Len(t, unsupported, 1)
	assert.True(t, unsupported[0].Unsupported)
}

func TestInvalidAndEmptyPatternsAreUnsupported(t *testing.T) {
	t.Parallel()

	set := ignore.Build([]string{"[abc", "/"})
	warnings := set.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, "[abc", warnings[0].Pattern)
	assert.Equal(t, "/", warnings[1].Pattern)
	assert.False(t, set.Matches("a", false))
}

func TestNilSetMatchesNothing(t *testing.T) {
	t.Parallel()

	var set *ignore.Set
	assert.False(t, set.Matches("anything", false))
	assert.Nil(t, set.Rules())
	assert.Nil(t, set.Warnings())
}
