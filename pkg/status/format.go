package status

import (
	"fmt"
	"path/filepath"
)

// FileFormatter defines how copy results and progress should be formatted
type FileFormatter interface {
	// FormatFileOperation formats a copy result message
	FormatFileOperation(r Result) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOperation formats a copy result message
func (f *DefaultFileFormatter) FormatFileOperation(r Result) string {
	name := filepath.Base(r.Source)
	switch r.Status {
	case StatusNew:
		return fmt.Sprintf("copied %s to %s", name, filepath.Dir(r.Destination))
	case StatusOverwritten:
		return fmt.Sprintf("copied %s to %s (overwritten)", name, filepath.Dir(r.Destination))
	default:
		return fmt.Sprintf("error copying %s", r.Source)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	return fmt.Sprintf("progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("error: %v", err)
}
