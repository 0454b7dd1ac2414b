// Package render turns the traversal into the prompt document: an indented
// structure listing followed by the content of every retained file.
package render

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/filestoprompt/internal/filter"
	"github.com/temirov/filestoprompt/internal/walk"
)

const (
	indentUnit         = "  "
	directorySuffix    = "/"
	pathFieldKey       = "path"
	walkWarningMessage = "skipping unreadable directory"
)

// Options configures both rendering passes.
type Options struct {
	Root          string
	Configuration filter.Configuration
	Logger        *zap.Logger
}

func (options Options) logger() *zap.Logger {
	if options.Logger == nil {
		return zap.NewNop()
	}
	return options.Logger
}

func (options Options) walkOptions() walk.Options {
	logger := options.logger()
	return walk.Options{
		Root:          options.Root,
		Configuration: options.Configuration,
		Warn: func(path string, err error) {
			logger.Warn(walkWarningMessage, zap.String(pathFieldKey, path), zap.Error(err))
		},
	}
}

// RootName returns the base name of the absolute root, as printed on the first structure line.
func RootName(root string) string {
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		absoluteRoot = filepath.Clean(root)
	}
	return filepath.Base(absoluteRoot)
}

// RenderStructure lists the retained tree. The root is printed with a trailing
// slash, every deeper directory is indented two spaces per level and files sit
// one level below their directory.
func RenderStructure(ctx context.Context, options Options) ([]string, error) {
	lines := []string{RootName(options.Root) + directorySuffix}
	err := walk.Walk(options.walkOptions(), func(event walk.Event) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		switch event.Kind {
		case walk.EventDirectory:
			if event.Depth > 0 {
				lines = append(lines, strings.Repeat(indentUnit, event.Depth)+event.Name+directorySuffix)
			}
		case walk.EventFile:
			lines = append(lines, strings.Repeat(indentUnit, event.Depth)+event.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}
