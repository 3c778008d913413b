package bot

import (
	"strings"

	"github.com/dentaline/clinicbot/core/logger"
	coretelegram "github.com/dentaline/clinicbot/core/telegram"
	"github.com/dentaline/clinicbot/core/telegram/callbacks"
	"github.com/dentaline/clinicbot/core/telegram/commands"
	tghelpers "github.com/dentaline/clinicbot/core/telegram/helpers"
	"github.com/dentaline/clinicbot/internal/dialog"
	"github.com/dentaline/clinicbot/internal/notify"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

func (a *App) registerHandlers(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Главное меню",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     a.handleCancel,
		Description: "Отменить запись",
	})

	_ = reg.RegisterCallback(cbMain, a.handleStart)
	_ = reg.RegisterCallback(cbServices, a.handleServices)
	_ = reg.RegisterCallback(cbCategory, a.handleCategory)
	_ = reg.RegisterCallback(cbDoctors, a.handleDoctors)
	_ = reg.RegisterCallback(cbAppointment, a.handleAppointmentStart)
	_ = reg.RegisterCallback(cbPromos, a.handlePromos)
	_ = reg.RegisterCallback(cbAbout, a.handleAbout)
	_ = reg.RegisterCallback(cbFeedback, a.handleFeedbackStart)
}

// cancelActive drops any dialog in flight before a navigation render.
// Pressing a menu button mid-dialog counts as walking away from the form.
func (a *App) cancelActive(c tele.Context) {
	user := c.Sender()
	if user == nil {
		return
	}
	if a.engine.Cancel(user.ID) {
		logger.Debug(tghelpers.BuildContext(c), "dialog", "dialog.implicit_cancel",
			slog.Int64("user_id", user.ID),
		)
	}
}

func (a *App) handleStart(c tele.Context) error {
	a.cancelActive(c)
	screen := renderMainMenu(a.cat.Clinic())
	return tghelpers.EditOrSend(c, screen.Text, screen.Markup)
}

func (a *App) handleServices(c tele.Context) error {
	a.cancelActive(c)
	screen := renderCategories(a.cat)
	return tghelpers.EditOrSend(c, screen.Text, screen.Markup)
}

// handleCategory delivers one message per service item in catalog
// order, then a summary screen with navigation buttons. Items go out
// synchronously so the sequence stays intact.
func (a *App) handleCategory(c tele.Context) error {
	a.cancelActive(c)
	category := callbacks.CallbackPayload(c)
	msgs, summary := renderCategoryItems(a.cat, category)

	// The category list message is replaced by the item feed.
	_ = c.Delete()

	ctx := tghelpers.BuildContext(c)
	for _, m := range msgs {
		if err := tghelpers.SendPhotoOrText(c, m.Photo, m.Caption); err != nil {
			logger.Warn(ctx, "tg", "category.item.failed",
				slog.String("category", category),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		}
	}
	return c.Send(summary.Text, summary.Markup)
}

func (a *App) handleDoctors(c tele.Context) error {
	a.cancelActive(c)
	screen := renderDoctors(a.cat)
	return tghelpers.EditOrSend(c, screen.Text, screen.Markup)
}

func (a *App) handlePromos(c tele.Context) error {
	a.cancelActive(c)
	screen := renderPromos(a.cat)
	return tghelpers.EditOrSend(c, screen.Text, screen.Markup)
}

func (a *App) handleAbout(c tele.Context) error {
	a.cancelActive(c)
	screen := renderAbout(a.cat.Clinic())
	return tghelpers.EditOrSend(c, screen.Text, screen.Markup)
}

func (a *App) handleAppointmentStart(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	a.engine.StartAppointment(user.ID)
	return tghelpers.EditOrSend(c, appointmentIntro)
}

func (a *App) handleFeedbackStart(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	a.engine.StartFeedback(user.ID)
	return tghelpers.EditOrSend(c, feedbackIntro)
}

func (a *App) handleCancel(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	if !a.engine.Cancel(user.ID) {
		return nil
	}
	return tghelpers.SendText(c, cancelAck)
}

// HandleText feeds dialog input into the engine and renders the next
// prompt or the completion.
func (a *App) HandleText(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}

	res, ok := a.engine.Advance(user.ID, c.Text())
	if !ok {
		return nil
	}

	ctx := tghelpers.BuildContext(c)
	if res.Done {
		sub := submitterOf(user)
		switch {
		case res.Appointment != nil:
			if a.notifier != nil {
				a.notifier.AppointmentBooked(ctx, *res.Appointment, sub)
			}
			a.arch.SaveAppointment(ctx, *res.Appointment, sub)
			return tghelpers.SendText(c, renderConfirmation(*res.Appointment, a.cat.Clinic()), homeMarkup())

		case res.Feedback != nil:
			logger.Info(ctx, "dialog", "feedback.received",
				slog.Int64("user_id", user.ID),
				slog.String("text", logger.SanitizeLimit(res.Feedback.Text, 128)),
			)
			if a.notifier != nil {
				a.notifier.FeedbackLeft(ctx, *res.Feedback, sub)
			}
			a.arch.SaveFeedback(ctx, *res.Feedback, sub)
			return tghelpers.SendText(c, feedbackThanks, homeMarkup())
		}
		return nil
	}

	switch res.Next {
	case dialog.StateApptService:
		return tghelpers.SendText(c, renderServicePrompt(res.Echo, res.ServiceList))
	case dialog.StateApptDate:
		return tghelpers.SendText(c, renderDatePrompt(res.Echo))
	case dialog.StateApptTime:
		return tghelpers.SendText(c, renderTimePrompt(a.cat.Clinic()))
	}
	return nil
}

func submitterOf(user *tele.User) notify.Submitter {
	full := strings.TrimSpace(strings.TrimSpace(user.FirstName) + " " + strings.TrimSpace(user.LastName))
	return notify.Submitter{FullName: full, Username: user.Username}
}
