package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/dentaline/clinicbot/core/logger"
	"github.com/dentaline/clinicbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func currentDispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

func sendAsync(c tele.Context, action, endpoint string, run func() error) error {
	disp := currentDispatcher()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	if err := disp.Enqueue(ctx, action, endpoint, run); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("endpoint", endpoint),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

// SendText sends plain text to the current recipient, optionally with a keyboard.
func SendText(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	var rm *tele.ReplyMarkup
	if len(markup) > 0 {
		rm = markup[0]
	}
	return sendAsync(c, "send.text", "sendMessage", func() error {
		if rm != nil {
			return c.Send(text, rm)
		}
		return c.Send(text)
	})
}

// EditOrSend tries to edit the originating message or sends a new one if edit fails.
// It runs synchronously so menu screens replace each other in place.
func EditOrSend(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	var rm *tele.ReplyMarkup
	if len(markup) > 0 {
		rm = markup[0]
	}
	if rm != nil {
		return c.EditOrSend(text, rm)
	}
	return c.EditOrSend(text)
}

// SendPhotoOrText sends a photo by URL with a caption, degrading to a plain
// text send of the caption when photo delivery fails. Runs synchronously so
// a sequence of item sends keeps its order.
func SendPhotoOrText(c tele.Context, photoURL, caption string) error {
	if photoURL == "" {
		return c.Send(caption)
	}
	photo := &tele.Photo{File: tele.FromURL(photoURL), Caption: caption}
	if err := c.Send(photo); err != nil {
		ctx := BuildContext(c)
		logger.Warn(ctx, "tg", "photo.fallback",
			slog.String("err", err.Error()),
		)
		return c.Send(caption)
	}
	return nil
}
