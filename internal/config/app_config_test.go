package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tyemirov/collect/internal/utils"
)

type configTestCase struct {
	name              string
	globalContent     string
	localContent      string
	explicitPath      string
	explicitContent   string
	expectOutput      string
	expectTree        *bool
	expectClipboard   *bool
	expectTokens      *bool
	expectModel       string
	expectExclude     []string
	expectMaxSizeKB   *int64
	expectShowExclude *bool
}

func writeConfigurationFile(testingHandle *testing.T, path string, content string) {
	testingHandle.Helper()
	if content == "" {
		return
	}
	if directoryError := os.MkdirAll(filepath.Dir(path), 0o755); directoryError != nil {
		testingHandle.Fatalf("create directory for %s: %v", path, directoryError)
	}
	if writeError := os.WriteFile(path, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("write %s: %v", path, writeError)
	}
}

func equalBoolPointers(left *bool, right *bool) bool {
	if left == nil || right == nil {
		return left == right
	}
	return *left == *right
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:            "local_overrides_global",
			globalContent:   "output: global.txt\ntree: false\nclipboard: false\ntokens:\n  enabled: true\n  model: gpt-4\n",
			localContent:    "tree: true\ntokens:\n  model: claude\npaths:\n  exclude:\n    - vendor/\n    - vendor/\n    - \"*.pb.go\"\n",
			expectOutput:    "global.txt",
			expectTree:      boolPointer(true),
			expectClipboard: boolPointer(false),
			expectTokens:    boolPointer(true),
			expectModel:     "claude",
			expectExclude:   []string{"vendor/", "*.pb.go"},
		},
		{
			name:              "explicit_path_replaces_local",
			localContent:      "output: local.txt\n",
			explicitPath:      "custom.yaml",
			explicitContent:   "output: custom.txt\npaths:\n  max_file_size_kb: 64\n  show_excluded: false\n",
			expectOutput:      "custom.txt",
			expectMaxSizeKB:   int64Pointer(64),
			expectShowExclude: boolPointer(false),
		},
		{
			name: "no_files",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			workingDirectory := t.TempDir()
			homeDirectory := t.TempDir()
			writeConfigurationFile(t, GlobalConfigurationPath(homeDirectory), testCase.globalContent)
			writeConfigurationFile(t, filepath.Join(workingDirectory, utils.LocalConfigFileName), testCase.localContent)
			if testCase.explicitPath != "" {
				writeConfigurationFile(t, filepath.Join(workingDirectory, testCase.explicitPath), testCase.explicitContent)
			}

			configuration, loadError := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: testCase.explicitPath,
				HomeDirectory:    homeDirectory,
			})
			if loadError != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", loadError)
			}

			if configuration.Output != testCase.expectOutput {
				t.Fatalf("output: got %q want %q", configuration.Output, testCase.expectOutput)
			}
			if !equalBoolPointers(configuration.Tree, testCase.expectTree) {
				t.Fatalf("tree: got %v want %v", configuration.Tree, testCase.expectTree)
			}
			if !equalBoolPointers(configuration.Clipboard, testCase.expectClipboard) {
				t.Fatalf("clipboard: got %v want %v", configuration.Clipboard, testCase.expectClipboard)
			}
			if !equalBoolPointers(configuration.Tokens.Enabled, testCase.expectTokens) {
				t.Fatalf("tokens: got %v want %v", configuration.Tokens.Enabled, testCase.expectTokens)
			}
			if configuration.Tokens.Model != testCase.expectModel {
				t.Fatalf("model: got %q want %q", configuration.Tokens.Model, testCase.expectModel)
			}
			if len(testCase.expectExclude) > 0 && !reflect.DeepEqual(configuration.Paths.Exclude, testCase.expectExclude) {
				t.Fatalf("exclude: got %v want %v", configuration.Paths.Exclude, testCase.expectExclude)
			}
			if testCase.expectMaxSizeKB != nil {
				if configuration.Paths.MaxFileSizeKB == nil || *configuration.Paths.MaxFileSizeKB != *testCase.expectMaxSizeKB {
					t.Fatalf("max size: got %v want %d", configuration.Paths.MaxFileSizeKB, *testCase.expectMaxSizeKB)
				}
			}
			if !equalBoolPointers(configuration.Paths.ShowExcluded, testCase.expectShowExclude) {
				t.Fatalf("show excluded: got %v want %v", configuration.Paths.ShowExcluded, testCase.expectShowExclude)
			}
		})
	}
}

func TestLoadApplicationConfigurationRejectsInvalidYAML(t *testing.T) {
	workingDirectory := t.TempDir()
	writeConfigurationFile(t, filepath.Join(workingDirectory, utils.LocalConfigFileName), "tree: [unclosed\n")

	_, loadError := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory, HomeDirectory: t.TempDir()})
	if loadError == nil {
		t.Fatalf("expected an error for malformed configuration")
	}
}

func TestLoadApplicationConfigurationRejectsDirectory(t *testing.T) {
	workingDirectory := t.TempDir()
	if directoryError := os.Mkdir(filepath.Join(workingDirectory, utils.LocalConfigFileName), 0o755); directoryError != nil {
		t.Fatalf("create directory: %v", directoryError)
	}

	_, loadError := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory, HomeDirectory: t.TempDir()})
	if loadError == nil {
		t.Fatalf("expected an error when the configuration path is a directory")
	}
}

func TestMergeKeepsUnsetFields(t *testing.T) {
	base := DefaultConfiguration()
	merged := base.Merge(ApplicationConfiguration{Clipboard: boolPointer(false)})

	if !BoolValue(merged.Tree, false) {
		t.Fatalf("expected tree to keep its default")
	}
	if BoolValue(merged.Clipboard, true) {
		t.Fatalf("expected clipboard override to apply")
	}
	if merged.Output != DefaultOutputPath {
		t.Fatalf("expected default output, got %q", merged.Output)
	}
	if !BoolValue(base.Clipboard, false) {
		t.Fatalf("merge must not mutate the receiver")
	}
}

func TestBoolValue(t *testing.T) {
	if !BoolValue(nil, true) {
		t.Fatalf("nil pointer should yield the fallback")
	}
	if BoolValue(boolPointer(false), true) {
		t.Fatalf("set pointer should win over the fallback")
	}
}
