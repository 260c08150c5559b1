package notification

import (
	"context"
	"log/slog"
)

const (
	// KindPasswordReset asks the account owner to complete a password reset.
	KindPasswordReset = "password_reset"
)

// Message describes a notification payload.
type Message struct {
	Kind        string
	Destination string
	Subject     string
	Body        string
}

// Notifier delivers notifications to downstream systems such as a mail relay.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier records notifications in the structured log instead of delivering them.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message metadata to the logger. The body is left out since
// it may carry credentials.
func (n *LoggerNotifier) Send(ctx context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.InfoContext(ctx, "notification",
		slog.String("kind", message.Kind),
		slog.String("destination", message.Destination),
		slog.String("subject", message.Subject),
	)
	return nil
}
