// Package walk performs the pruned depth-first traversal shared by the
// structure and content passes.
package walk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/filestoprompt/internal/filter"
	"github.com/temirov/filestoprompt/internal/utils"
)

const (
	errorRootNotDirectoryFormat = "%s is not a directory"
)

var errNilHandler = errors.New("walk handler is nil")

// EventKind distinguishes directory events from file events.
type EventKind int

const (
	EventDirectory EventKind = iota
	EventFile
)

// Event describes one retained node of the tree.
type Event struct {
	Kind EventKind
	// Path is the absolute path of the node.
	Path string
	// RelativePath is slash-separated and relative to the root; "." for the root.
	RelativePath string
	Name         string
	Depth        int
}

// Options configures a traversal.
type Options struct {
	Root          string
	Configuration filter.Configuration
	// Warn receives subdirectories that could not be listed; they are skipped.
	Warn func(path string, err error)
}

type walkContext struct {
	options Options
	handler func(Event) error
}

// Walk visits options.Root depth first. Each directory is reported before its
// files, files come sorted by name, then retained subdirectories are visited.
// Every call starts a fresh traversal.
func Walk(options Options, handler func(Event) error) error {
	if handler == nil {
		return errNilHandler
	}
	ctx := walkContext{options: options, handler: handler}
	if ctx.options.Warn == nil {
		ctx.options.Warn = func(string, error) {}
	}

	absoluteRoot, absoluteErr := filepath.Abs(options.Root)
	if absoluteErr != nil {
		return absoluteErr
	}
	info, statErr := os.Stat(absoluteRoot)
	if statErr != nil {
		return statErr
	}
	if !info.IsDir() {
		return fmt.Errorf(errorRootNotDirectoryFormat, options.Root)
	}
	return ctx.walkDirectory(absoluteRoot, absoluteRoot, 0)
}

func (ctx *walkContext) walkDirectory(path string, root string, depth int) error {
	entries, readErr := os.ReadDir(path)
	if readErr != nil {
		if depth == 0 {
			return readErr
		}
		ctx.options.Warn(path, readErr)
		return nil
	}

	if err := ctx.handler(Event{
		Kind:         EventDirectory,
		Path:         path,
		RelativePath: utils.RelativePathOrSelf(path, root),
		Name:         filepath.Base(path),
		Depth:        depth,
	}); err != nil {
		return err
	}

	var subdirectories []string
	for _, entry := range entries {
		childPath := filepath.Join(path, entry.Name())
		isDirectory, isRegular := ctx.classify(childPath, entry)
		if isDirectory {
			if !ctx.options.Configuration.ExcludesDirectory(entry.Name()) {
				subdirectories = append(subdirectories, childPath)
			}
			continue
		}
		if !isRegular || !ctx.options.Configuration.AllowsFile(entry.Name()) {
			continue
		}
		if err := ctx.handler(Event{
			Kind:         EventFile,
			Path:         childPath,
			RelativePath: utils.RelativePathOrSelf(childPath, root),
			Name:         entry.Name(),
			Depth:        depth + 1,
		}); err != nil {
			return err
		}
	}

	for _, subdirectory := range subdirectories {
		if err := ctx.walkDirectory(subdirectory, root, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// classify reports whether the entry is a directory to descend into or a file
// to consider. Symbolic links to directories and special files such as pipes
// are neither; links to files count as files.
func (ctx *walkContext) classify(path string, entry os.DirEntry) (bool, bool) {
	if entry.IsDir() {
		return true, false
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false, entry.Type().IsRegular()
	}
	targetInfo, statErr := os.Stat(path)
	if statErr != nil {
		// dangling links stay in the listing and fail at read time
		return false, true
	}
	if targetInfo.IsDir() {
		return false, false
	}
	return false, true
}
