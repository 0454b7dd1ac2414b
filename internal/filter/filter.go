// Package filter builds the immutable rules deciding which directories are
// pruned and which files are rendered.
package filter

import (
	"path/filepath"
	"sort"
	"strings"
)

const (
	// DefaultMaxFileSize is the per-file read cap in bytes.
	DefaultMaxFileSize int64 = 1024 * 1024

	extensionPrefix = "."
	listSeparator   = ","
)

var (
	defaultExcludedDirectories = []string{"env", ".env", "venv", ".venv", "__pycache__", "site-packages"}
	defaultAllowedExtensions   = []string{".py", ".md", ".ini", ".env", ".yaml"}
)

// Options carries the user-supplied inputs of a run.
type Options struct {
	ExcludedDirectories []string
	ExcludedExtensions  []string
	ProtectedExtensions []string
	MaxFileSize         int64
}

// Configuration is the filter applied to one run. It is safe for concurrent use
// because nothing mutates it after NewConfiguration returns.
type Configuration struct {
	excludedDirectories map[string]struct{}
	allowedExtensions   map[string]struct{}
	maxFileSize         int64
}

// DefaultExcludedDirectories returns the directory names pruned on every run.
func DefaultExcludedDirectories() []string {
	return append([]string(nil), defaultExcludedDirectories...)
}

// DefaultAllowedExtensions returns the extensions rendered when no protect list is given.
func DefaultAllowedExtensions() []string {
	return append([]string(nil), defaultAllowedExtensions...)
}

// NewConfiguration combines the defaults with options. A non-empty protect list
// replaces the default extensions; the exclude list is subtracted afterwards.
func NewConfiguration(options Options) Configuration {
	excluded := make(map[string]struct{}, len(defaultExcludedDirectories)+len(options.ExcludedDirectories))
	for _, directoryName := range defaultExcludedDirectories {
		excluded[directoryName] = struct{}{}
	}
	for _, directoryName := range options.ExcludedDirectories {
		trimmedName := strings.TrimSpace(directoryName)
		if trimmedName == "" {
			continue
		}
		excluded[trimmedName] = struct{}{}
	}

	baseExtensions := defaultAllowedExtensions
	if len(options.ProtectedExtensions) > 0 {
		baseExtensions = options.ProtectedExtensions
	}
	allowed := make(map[string]struct{}, len(baseExtensions))
	for _, extension := range baseExtensions {
		allowed[NormalizeExtension(extension)] = struct{}{}
	}
	for _, extension := range options.ExcludedExtensions {
		delete(allowed, NormalizeExtension(extension))
	}

	maxFileSize := options.MaxFileSize
	if maxFileSize < 0 {
		maxFileSize = 0
	}

	return Configuration{
		excludedDirectories: excluded,
		allowedExtensions:   allowed,
		maxFileSize:         maxFileSize,
	}
}

// NormalizeExtension lowercases and dot-prefixes an extension. Empty input
// becomes "." which matches no real file.
func NormalizeExtension(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if !strings.HasPrefix(normalized, extensionPrefix) {
		normalized = extensionPrefix + normalized
	}
	return normalized
}

// SplitList splits a comma-separated flag value, dropping blank items.
func SplitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, listSeparator) {
		trimmedItem := strings.TrimSpace(item)
		if trimmedItem != "" {
			items = append(items, trimmedItem)
		}
	}
	return items
}

// ExcludesDirectory reports whether a directory with this exact name is pruned.
func (configuration Configuration) ExcludesDirectory(name string) bool {
	_, excluded := configuration.excludedDirectories[name]
	return excluded
}

// AllowsFile reports whether the file name carries an allowed extension.
// An empty allowed set allows nothing.
func (configuration Configuration) AllowsFile(name string) bool {
	_, allowed := configuration.allowedExtensions[Extension(name)]
	return allowed
}

// Extension returns the lowercased extension of a file name. Leading dots are
// part of the name, so ".env" has no extension.
func Extension(name string) string {
	return strings.ToLower(filepath.Ext(strings.TrimLeft(name, extensionPrefix)))
}

// MaxFileSize returns the per-file read cap in bytes.
func (configuration Configuration) MaxFileSize() int64 {
	return configuration.maxFileSize
}

// ExcludedDirectories returns the pruned directory names in sorted order.
func (configuration Configuration) ExcludedDirectories() []string {
	return sortedKeys(configuration.excludedDirectories)
}

// AllowedExtensions returns the effective allowed extensions in sorted order.
func (configuration Configuration) AllowedExtensions() []string {
	return sortedKeys(configuration.allowedExtensions)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
