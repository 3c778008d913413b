// Package notify forwards completed dialog records to the configured
// administrative chat. Delivery is fire-and-forget: failures are
// retried by the async sender and logged, never surfaced to the
// submitting user.
package notify

import (
	"context"
	"fmt"

	"github.com/dentaline/clinicbot/core/logger"
	"github.com/dentaline/clinicbot/core/telegram/sender"
	"github.com/dentaline/clinicbot/internal/dialog"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Submitter identifies the user behind a completed record.
type Submitter struct {
	FullName string
	Username string
}

// API is the subset of the bot client used for delivery.
type API interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Notifier delivers record summaries to the admin chat, through the
// async dispatcher when one is attached.
type Notifier struct {
	api         API
	queue       *sender.Dispatcher
	adminChatID int64
}

// New builds a Notifier. queue may be nil, in which case delivery is
// synchronous best-effort.
func New(api API, queue *sender.Dispatcher, adminChatID int64) *Notifier {
	return &Notifier{api: api, queue: queue, adminChatID: adminChatID}
}

// AppointmentBooked forwards a completed appointment to the admin chat.
func (n *Notifier) AppointmentBooked(ctx context.Context, rec dialog.AppointmentRecord, from Submitter) {
	n.deliver(ctx, "notify.appointment", FormatAppointment(rec, from))
}

// FeedbackLeft forwards a feedback submission to the admin chat.
func (n *Notifier) FeedbackLeft(ctx context.Context, rec dialog.FeedbackRecord, from Submitter) {
	n.deliver(ctx, "notify.feedback", FormatFeedback(rec, from))
}

func (n *Notifier) deliver(ctx context.Context, action, text string) {
	run := func() error {
		_, err := n.api.Send(tele.ChatID(n.adminChatID), text)
		return err
	}

	if n.queue != nil {
		if err := n.queue.Enqueue(ctx, action, "sendMessage", run); err == nil {
			return
		}
		// Queue closed or full: fall through to a direct attempt.
	}
	if err := run(); err != nil {
		logger.NTF.LogAttrs(ctx, slog.LevelError, "notify.failed",
			slog.String("status", "fail"),
			slog.String("action", action),
			slog.Int64("chat_id", n.adminChatID),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	}
}

// FormatAppointment renders the admin summary for a booked appointment.
func FormatAppointment(rec dialog.AppointmentRecord, from Submitter) string {
	msg := fmt.Sprintf(
		"🔔 Новая запись на приём!\n\nИмя: %s\nУслуга: %s\nДата: %s\nВремя: %s\n\nКлиент: %s",
		rec.Name, rec.Service, rec.Date, rec.Time, from.FullName,
	)
	if from.Username != "" {
		msg += fmt.Sprintf(" (@%s)", from.Username)
	}
	return msg
}

// FormatFeedback renders the admin summary for a feedback submission.
func FormatFeedback(rec dialog.FeedbackRecord, from Submitter) string {
	msg := fmt.Sprintf("💬 Новый отзыв!\n\nОт: %s", from.FullName)
	if from.Username != "" {
		msg += fmt.Sprintf(" (@%s)", from.Username)
	}
	msg += fmt.Sprintf("\n\nТекст: %s", rec.Text)
	return msg
}
