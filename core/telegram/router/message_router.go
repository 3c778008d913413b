package router

import (
	"strings"
	"time"

	tg "github.com/dentaline/clinicbot/core/telegram"
	"github.com/dentaline/clinicbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Dialog defines the minimal interface for a dialog state manager.
type Dialog interface {
	InProgress(userID int64) bool
	HandleText(c tele.Context) error
}

// TextOptions controls fallback behaviour for text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoute builds the handler for text routing. Active dialogs take
// precedence over command lookup and the registry fallback, but
// command-shaped text never feeds a dialog: registered commands are
// dispatched by the bot before OnText fires, so a leading slash here
// means an unknown command and falls through to the lookup chain.
func TextRoute(dlg Dialog, reg *tg.Registry, opts TextOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()
		isCommand := strings.HasPrefix(strings.TrimSpace(text), "/")

		if dlg != nil && !isCommand && c.Sender() != nil && dlg.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "dialog", start, "", "", func() error {
				return dlg.HandleText(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	return tg.Route{
		Endpoint: tele.OnText,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
