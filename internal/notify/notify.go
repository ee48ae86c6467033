// Package notify holds outbound notification senders. The log sender is
// the default; an email or webhook sender can replace it behind the same
// interface without touching the booking flow.
package notify

import (
	"context"
	"log/slog"

	"github.com/ardenlx/book-go/internal/domain"
)

// LogNotifier writes notifications to the structured log instead of
// delivering them. Useful for local runs and as a stand-in until a real
// delivery channel is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendBookingConfirmation(ctx context.Context, b *domain.Booking) error {
	n.logger.InfoContext(ctx, "booking confirmation",
		"reference", b.Reference,
		"email", b.ClientEmail,
		"event_date", b.EventDate.Format(domain.DateFormat),
	)
	return nil
}

func (n *LogNotifier) SendAdminNotification(ctx context.Context, b *domain.Booking) error {
	n.logger.InfoContext(ctx, "new booking",
		"reference", b.Reference,
		"client", b.ClientName,
		"event_date", b.EventDate.Format(domain.DateFormat),
	)
	return nil
}
