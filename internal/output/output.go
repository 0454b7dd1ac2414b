// Package output serializes the assembled prompt document.
package output

import (
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/temirov/filestoprompt/internal/render"
	"github.com/temirov/filestoprompt/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	xmlHeader = xml.Header

	errorUnsupportedFormat = "unsupported output format '%s'"
	errorMarshalJSONFormat = "failed to marshal document to JSON: %w"
	errorMarshalXMLFormat  = "failed to marshal document to XML: %w"
)

// documentPayload is the structured form of a document used by JSON and XML.
type documentPayload struct {
	XMLName   xml.Name      `json:"-" xml:"prompt"`
	Root      string        `json:"root" xml:"root,attr"`
	Header    string        `json:"header" xml:"header"`
	Structure []string      `json:"structure" xml:"structure>line"`
	Files     []filePayload `json:"files" xml:"files>file"`
}

type filePayload struct {
	Path      string `json:"path" xml:"path,attr"`
	SizeBytes int64  `json:"sizeBytes" xml:"sizeBytes,attr"`
	Truncated bool   `json:"truncated" xml:"truncated,attr"`
	Content   string `json:"content,omitempty" xml:"content,omitempty"`
	Error     string `json:"error,omitempty" xml:"error,omitempty"`
}

func newDocumentPayload(document render.Document) documentPayload {
	payload := documentPayload{
		Root:      document.RootName,
		Header:    render.StructureHeader,
		Structure: append([]string{}, document.Structure...),
		Files:     make([]filePayload, 0, len(document.Files)),
	}
	for _, entry := range document.Files {
		payload.Files = append(payload.Files, filePayload{
			Path:      entry.Path,
			SizeBytes: entry.SizeBytes,
			Truncated: entry.Truncated,
			Content:   entry.Content,
			Error:     entry.ReadError,
		})
	}
	return payload
}

// Render returns the document in the requested format.
func Render(document render.Document, format string) (string, error) {
	switch format {
	case types.FormatRaw:
		return RenderRaw(document), nil
	case types.FormatJSON:
		return RenderJSON(document)
	case types.FormatXML:
		return RenderXML(document)
	default:
		return "", fmt.Errorf(errorUnsupportedFormat, format)
	}
}

// RenderRaw returns the newline-joined document segments.
func RenderRaw(document render.Document) string {
	return document.String()
}

// RenderJSON returns the document as indented JSON.
func RenderJSON(document render.Document) (string, error) {
	encoded, err := json.MarshalIndent(newDocumentPayload(document), indentPrefix, indentSpacer)
	if err != nil {
		return "", fmt.Errorf(errorMarshalJSONFormat, err)
	}
	return string(encoded), nil
}

// RenderXML returns the document as indented XML with a standard header.
func RenderXML(document render.Document) (string, error) {
	encoded, err := xml.MarshalIndent(newDocumentPayload(document), indentPrefix, indentSpacer)
	if err != nil {
		return "", fmt.Errorf(errorMarshalXMLFormat, err)
	}
	return xmlHeader + string(encoded), nil
}
