package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/transform"

	"github.com/temirov/filestoprompt/internal/walk"
)

const (
	fileHeaderFormat      = "=== 文件: %s ==="
	unreadableFileFormat  = "# 无法读取 %s：%s"
	truncationMarker      = "...（文件内容过大，已截断）"
	unreadableFileMessage = "unable to read file"
)

// FileEntry is the content pass result for one file.
type FileEntry struct {
	// Path is slash-separated and relative to the root.
	Path      string
	Content   string
	SizeBytes int64
	Truncated bool
	// ReadError describes why the file could not be read; empty on success.
	ReadError string
}

// Segments returns the header followed by either the content (and the
// truncation marker when cut) or the unreadable-file marker.
func (entry FileEntry) Segments() []string {
	segments := []string{fmt.Sprintf(fileHeaderFormat, entry.Path)}
	if entry.ReadError != "" {
		return append(segments, fmt.Sprintf(unreadableFileFormat, entry.Path, entry.ReadError))
	}
	segments = append(segments, entry.Content)
	if entry.Truncated {
		segments = append(segments, truncationMarker)
	}
	return segments
}

// AggregateContent reads every retained file in traversal order. Per-file read
// failures are recorded on the entry and never abort the pass.
func AggregateContent(ctx context.Context, options Options) ([]FileEntry, error) {
	logger := options.logger()
	maxFileSize := options.Configuration.MaxFileSize()
	var entries []FileEntry
	err := walk.Walk(options.walkOptions(), func(event walk.Event) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if event.Kind != walk.EventFile {
			return nil
		}
		entry := readFileEntry(event, maxFileSize)
		if entry.ReadError != "" {
			logger.Warn(unreadableFileMessage, zap.String(pathFieldKey, event.Path), zap.String("error", entry.ReadError))
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func readFileEntry(event walk.Event, maxFileSize int64) FileEntry {
	entry := FileEntry{Path: event.RelativePath}

	info, statErr := os.Stat(event.Path)
	if statErr != nil {
		entry.ReadError = statErr.Error()
		return entry
	}
	entry.SizeBytes = info.Size()

	content, readErr := readLimitedText(event.Path, maxFileSize)
	if readErr != nil {
		entry.ReadError = readErr.Error()
		return entry
	}
	entry.Content = content
	entry.Truncated = info.Size() > maxFileSize
	return entry
}

// readLimitedText reads at most limit bytes and drops bytes that are not valid
// UTF-8. Well-formed U+FFFD characters are kept.
//
// #nosec G304
func readLimitedText(path string, limit int64) (string, error) {
	fileHandle, openErr := os.Open(path)
	if openErr != nil {
		return "", openErr
	}
	defer fileHandle.Close()

	decoder := transform.NewReader(io.LimitReader(fileHandle, limit), illFormedDropper{})
	data, readErr := io.ReadAll(decoder)
	if readErr != nil {
		return "", readErr
	}
	return string(data), nil
}

// illFormedDropper copies well-formed UTF-8 and skips every byte that does not
// start a valid encoding.
type illFormedDropper struct {
	transform.NopResetter
}

func (illFormedDropper) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		value, size := utf8.DecodeRune(src[nSrc:])
		if value == utf8.RuneError && size == 1 {
			nSrc++
			continue
		}
		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
		nSrc += size
	}
	return nDst, nSrc, nil
}
