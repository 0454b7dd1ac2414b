package walk_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/temirov/filestoprompt/internal/filter"
	"github.com/temirov/filestoprompt/internal/walk"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func collect(t *testing.T, options walk.Options) []walk.Event {
	t.Helper()
	var events []walk.Event
	if err := walk.Walk(options, func(event walk.Event) error {
		events = append(events, event)
		return nil
	}); err != nil {
		t.Fatalf("walk error: %v", err)
	}
	return events
}

func relativePaths(events []walk.Event) []string {
	paths := make([]string, 0, len(events))
	for _, event := range events {
		paths = append(paths, event.RelativePath)
	}
	return paths
}

func TestWalkOrdersFilesBeforeSubdirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "z.py"), "z")
	writeFile(t, filepath.Join(root, "a.py"), "a")
	writeFile(t, filepath.Join(root, "alpha", "inner.md"), "inner")
	writeFile(t, filepath.Join(root, "alpha", "deep", "leaf.ini"), "leaf")
	writeFile(t, filepath.Join(root, "beta", "b.yaml"), "b")
	writeFile(t, filepath.Join(root, "skip.txt"), "skip")

	events := collect(t, walk.Options{Root: root, Configuration: filter.NewConfiguration(filter.Options{})})

	expected := []string{".", "a.py", "z.py", "alpha", "alpha/inner.md", "alpha/deep", "alpha/deep/leaf.ini", "beta", "beta/b.yaml"}
	if result := relativePaths(events); !reflect.DeepEqual(result, expected) {
		t.Fatalf("expected %v, got %v", expected, result)
	}

	depths := map[string]int{}
	for _, event := range events {
		depths[event.RelativePath] = event.Depth
	}
	expectedDepths := map[string]int{".": 0, "a.py": 1, "alpha": 1, "alpha/inner.md": 2, "alpha/deep": 2, "alpha/deep/leaf.ini": 3}
	for path, depth := range expectedDepths {
		if depths[path] != depth {
			t.Fatalf("expected depth %d for %s, got %d", depth, path, depths[path])
		}
	}
	if events[0].Kind != walk.EventDirectory || events[1].Kind != walk.EventFile {
		t.Fatalf("unexpected event kinds: %+v", events[:2])
	}
}

func TestWalkPrunesExcludedDirectoriesAtAnyDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.py"), "k")
	writeFile(t, filepath.Join(root, "venv", "lib.py"), "v")
	writeFile(t, filepath.Join(root, "pkg", "__pycache__", "cached.py"), "c")
	writeFile(t, filepath.Join(root, "pkg", "build", "out.py"), "o")
	writeFile(t, filepath.Join(root, "pkg", "mod.py"), "m")

	configuration := filter.NewConfiguration(filter.Options{ExcludedDirectories: []string{"build"}})
	events := collect(t, walk.Options{Root: root, Configuration: configuration})

	expected := []string{".", "keep.py", "pkg", "pkg/mod.py"}
	if result := relativePaths(events); !reflect.DeepEqual(result, expected) {
		t.Fatalf("expected %v, got %v", expected, result)
	}
}

func TestWalkIsRestartable(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "one.md"), "1")
	writeFile(t, filepath.Join(root, "sub", "two.md"), "2")
	options := walk.Options{Root: root, Configuration: filter.NewConfiguration(filter.Options{})}

	first := relativePaths(collect(t, options))
	second := relativePaths(collect(t, options))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical walks, got %v and %v", first, second)
	}
}

func TestWalkStopsOnHandlerError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.py"), "a")
	writeFile(t, filepath.Join(root, "b.py"), "b")
	stopErr := errors.New("stop")

	visited := 0
	err := walk.Walk(walk.Options{Root: root, Configuration: filter.NewConfiguration(filter.Options{})}, func(event walk.Event) error {
		visited++
		if event.Kind == walk.EventFile {
			return stopErr
		}
		return nil
	})
	if !errors.Is(err, stopErr) {
		t.Fatalf("expected stop error, got %v", err)
	}
	if visited != 2 {
		t.Fatalf("expected walk to stop after first file, visited %d", visited)
	}
}

func TestWalkRejectsInvalidRoots(t *testing.T) {
	root := t.TempDir()
	filePath := filepath.Join(root, "file.py")
	writeFile(t, filePath, "x")
	noop := func(walk.Event) error { return nil }

	testCases := []struct {
		name    string
		options walk.Options
		handler func(walk.Event) error
	}{
		{name: "missing root", options: walk.Options{Root: filepath.Join(root, "missing")}, handler: noop},
		{name: "file root", options: walk.Options{Root: filePath}, handler: noop},
		{name: "nil handler", options: walk.Options{Root: root}, handler: nil},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if err := walk.Walk(testCase.options, testCase.handler); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestWalkDoesNotFollowDirectorySymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "outside.py"), "o")
	writeFile(t, filepath.Join(root, "real.py"), "r")
	if err := os.Symlink(outside, filepath.Join(root, "linked")); err != nil {
		t.Fatalf("symlink directory: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "real.py"), filepath.Join(root, "alias.py")); err != nil {
		t.Fatalf("symlink file: %v", err)
	}

	events := collect(t, walk.Options{Root: root, Configuration: filter.NewConfiguration(filter.Options{})})
	expected := []string{".", "alias.py", "real.py"}
	if result := relativePaths(events); !reflect.DeepEqual(result, expected) {
		t.Fatalf("expected %v, got %v", expected, result)
	}
}

func TestWalkWarnsOnUnreadableSubdirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "secret.py"), "s")
	writeFile(t, filepath.Join(root, "open.py"), "o")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	var warnings []string
	events := collect(t, walk.Options{
		Root:          root,
		Configuration: filter.NewConfiguration(filter.Options{}),
		Warn: func(path string, err error) {
			if err == nil {
				t.Fatalf("expected an error for %s", path)
			}
			warnings = append(warnings, path)
		},
	})
	expected := []string{".", "open.py"}
	if result := relativePaths(events); !reflect.DeepEqual(result, expected) {
		t.Fatalf("expected %v, got %v", expected, result)
	}
	if !reflect.DeepEqual(warnings, []string{locked}) {
		t.Fatalf("expected one warning for %s, got %v", locked, warnings)
	}
}
