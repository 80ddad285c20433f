package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tyemirov/collect/internal/utils"
)

func TestInitializeConfigurationCreatesLocalFile(t *testing.T) {
	workingDirectory := t.TempDir()
	path, initError := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal})
	if initError != nil {
		t.Fatalf("InitializeConfiguration error: %v", initError)
	}
	expectedPath := filepath.Join(workingDirectory, utils.LocalConfigFileName)
	if path != expectedPath {
		t.Fatalf("expected path %s, got %s", expectedPath, path)
	}
	info, statError := os.Stat(path)
	if statError != nil {
		t.Fatalf("stat config: %v", statError)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestInitializeConfigurationHonorsGlobalTarget(t *testing.T) {
	homeDirectory := t.TempDir()
	path, initError := InitializeConfiguration(InitOptions{Target: InitTargetGlobal, HomeDirectory: homeDirectory})
	if initError != nil {
		t.Fatalf("InitializeConfiguration error: %v", initError)
	}
	expectedPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
	if path != expectedPath {
		t.Fatalf("expected path %s, got %s", expectedPath, path)
	}
	if GlobalConfigurationPath(homeDirectory) != expectedPath {
		t.Fatalf("global path mismatch: %s", GlobalConfigurationPath(homeDirectory))
	}
}

func TestInitializeConfigurationRequiresForce(t *testing.T) {
	workingDirectory := t.TempDir()
	options := InitOptions{WorkingDirectory: workingDirectory}
	if _, initError := InitializeConfiguration(options); initError != nil {
		t.Fatalf("first initialization failed: %v", initError)
	}
	if _, initError := InitializeConfiguration(options); initError == nil {
		t.Fatalf("expected an error without force")
	}
	options.Force = true
	if _, initError := InitializeConfiguration(options); initError != nil {
		t.Fatalf("forced initialization failed: %v", initError)
	}
}

func TestInitializeConfigurationRejectsUnknownTarget(t *testing.T) {
	if _, initError := InitializeConfiguration(InitOptions{Target: "remote", WorkingDirectory: t.TempDir()}); initError == nil {
		t.Fatalf("expected an error for an unknown target")
	}
}

func TestRenderedDefaultsRoundTrip(t *testing.T) {
	workingDirectory := t.TempDir()
	if _, initError := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory}); initError != nil {
		t.Fatalf("InitializeConfiguration error: %v", initError)
	}
	content, readError := os.ReadFile(filepath.Join(workingDirectory, utils.LocalConfigFileName))
	if readError != nil {
		t.Fatalf("read config: %v", readError)
	}
	for _, key := range []string{"output: context.txt", "tree: true", "use_gitignore: true", "show_excluded: true"} {
		if !strings.Contains(string(content), key) {
			t.Fatalf("rendered configuration misses %q:\n%s", key, content)
		}
	}

	loaded, loadError := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory, HomeDirectory: t.TempDir()})
	if loadError != nil {
		t.Fatalf("LoadApplicationConfiguration error: %v", loadError)
	}
	defaults := DefaultConfiguration()
	if loaded.Output != defaults.Output || loaded.Tokens.Model != defaults.Tokens.Model {
		t.Fatalf("loaded defaults differ: %+v", loaded)
	}
	if !equalBoolPointers(loaded.Paths.UseGitignore, defaults.Paths.UseGitignore) ||
		!equalBoolPointers(loaded.Paths.KeepEmpty, defaults.Paths.KeepEmpty) {
		t.Fatalf("loaded path defaults differ: %+v", loaded.Paths)
	}
}
