package render

import (
	"flashchat/flashchat/utils/logging"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// Clipboard writes raw code to the system clipboard. Failures are only
// logged; the user never sees them.
type Clipboard struct {
	write func(string) error
}

func NewClipboard() *Clipboard {
	return NewClipboardFunc(clipboard.WriteAll)
}

// NewClipboardFunc uses write instead of the system clipboard.
func NewClipboardFunc(write func(string) error) *Clipboard {
	return &Clipboard{write: write}
}

// Copy reports whether the write succeeded.
func (c *Clipboard) Copy(text string) bool {
	if err := c.write(text); err != nil {
		logging.AppLogger.Debug("clipboard write failed", zap.Error(err))
		return false
	}
	return true
}
