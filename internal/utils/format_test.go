package utils_test

import (
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/temirov/filestoprompt/internal/utils"
)

func TestFormatFileSize(t *testing.T) {
	testCases := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "negative", bytes: -1, expected: "0b"},
		{name: "zero", bytes: 0, expected: "0b"},
		{name: "bytes", bytes: 512, expected: "512b"},
		{name: "one kilobyte", bytes: 1024, expected: "1kb"},
		{name: "fractional kilobyte", bytes: 1536, expected: "1.5kb"},
		{name: "default read cap", bytes: 1024 * 1024, expected: "1mb"},
		{name: "ten megabytes", bytes: 10 * 1024 * 1024, expected: "10mb"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.FormatFileSize(testCase.bytes)
			if result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}

func TestDeduplicateValues(t *testing.T) {
	result := utils.DeduplicateValues([]string{"build", "dist", "build", "venv", "dist"})
	expected := []string{"build", "dist", "venv"}
	if !reflect.DeepEqual(result, expected) {
		t.Fatalf("expected %v, got %v", expected, result)
	}
}

func TestRelativePathOrSelf(t *testing.T) {
	root := t.TempDir()
	testCases := []struct {
		name     string
		fullPath string
		expected string
	}{
		{name: "root itself", fullPath: root, expected: "."},
		{name: "direct child", fullPath: filepath.Join(root, "a.py"), expected: "a.py"},
		{name: "nested child", fullPath: filepath.Join(root, "pkg", "sub", "b.md"), expected: "pkg/sub/b.md"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if result := utils.RelativePathOrSelf(testCase.fullPath, root); result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}

func TestNewApplicationLogger(t *testing.T) {
	logger, err := utils.NewApplicationLogger()
	if err != nil {
		t.Fatalf("NewApplicationLogger error: %v", err)
	}
	if logger == nil {
		t.Fatalf("expected logger")
	}
	if logger.Core().Enabled(zapcore.DebugLevel) || !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("expected info level logger")
	}
	logger.Info("logger ready")
}
