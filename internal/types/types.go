// Package types defines the data structures shared by the filestoprompt packages.
package types

const (
	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// ValidatedPath is an absolute directory path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
}

// SupportedFormats lists the output formats accepted by --format.
func SupportedFormats() []string {
	return []string{FormatRaw, FormatJSON, FormatXML}
}

// IsSupportedFormat reports whether the provided format is recognized.
func IsSupportedFormat(format string) bool {
	switch format {
	case FormatRaw, FormatJSON, FormatXML:
		return true
	default:
		return false
	}
}
