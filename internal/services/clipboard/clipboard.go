// Package clipboard copies rendered prompts to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	systemclipboard "github.com/atotto/clipboard"
)

const copyFailedMessageFormat = "copy prompt to clipboard: %w"

// ErrUnsupported reports that no clipboard utility is available on this system.
var ErrUnsupported = errors.New("clipboard is not supported on this system")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier on top of the platform clipboard utilities.
type Service struct {
	write       func(string) error
	unsupported bool
}

// NewService constructs a clipboard service bound to the system clipboard.
func NewService() *Service {
	return &Service{write: systemclipboard.WriteAll, unsupported: systemclipboard.Unsupported}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if service.unsupported {
		return ErrUnsupported
	}
	if err := service.write(text); err != nil {
		return fmt.Errorf(copyFailedMessageFormat, err)
	}
	return nil
}

var _ Copier = (*Service)(nil)
