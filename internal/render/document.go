package render

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	// StructureHeader opens every document.
	StructureHeader  = "项目结构："
	segmentSeparator = "\n"
)

// Document is the assembled prompt.
type Document struct {
	RootName  string
	Structure []string
	Files     []FileEntry
}

// Segments returns the header, the structure lines and every file segment in visit order.
func (document Document) Segments() []string {
	segments := make([]string, 0, 1+len(document.Structure)+3*len(document.Files))
	segments = append(segments, StructureHeader)
	segments = append(segments, document.Structure...)
	for _, entry := range document.Files {
		segments = append(segments, entry.Segments()...)
	}
	return segments
}

// String joins all segments with newlines.
func (document Document) String() string {
	return strings.Join(document.Segments(), segmentSeparator)
}

// TotalBytes sums the on-disk sizes of the files that were read.
func (document Document) TotalBytes() int64 {
	var total int64
	for _, entry := range document.Files {
		total += entry.SizeBytes
	}
	return total
}

// BuildDocument runs the structure and content passes concurrently and
// assembles them in fixed order. A failure in either pass cancels the other.
func BuildDocument(ctx context.Context, options Options) (Document, error) {
	group, groupCtx := errgroup.WithContext(ctx)

	var structure []string
	var files []FileEntry

	group.Go(func() error {
		lines, err := RenderStructure(groupCtx, options)
		structure = lines
		return err
	})
	group.Go(func() error {
		entries, err := AggregateContent(groupCtx, options)
		files = entries
		return err
	})

	if err := group.Wait(); err != nil {
		return Document{}, err
	}
	return Document{
		RootName:  RootName(options.Root),
		Structure: structure,
		Files:     files,
	}, nil
}
