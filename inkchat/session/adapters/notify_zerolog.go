package adapters

import (
	"github.com/rs/zerolog"

	ports "github.com/inkwell-dev/inkchat/inkchat/session/ports"
)

// ZerologNotifier surfaces user-visible notices through the console logger.
// A terminal stands in for the editor's transient toast.
type ZerologNotifier struct {
	logger zerolog.Logger
}

// NewZerologNotifier creates a notifier writing to the given logger.
func NewZerologNotifier(logger zerolog.Logger) *ZerologNotifier {
	return &ZerologNotifier{logger: logger}
}

// Notify shows a transient notice to the user.
func (n *ZerologNotifier) Notify(message string) {
	n.logger.Warn().Msg(message)
}

// Ensure ZerologNotifier implements the Notifier port.
var _ ports.Notifier = (*ZerologNotifier)(nil)
