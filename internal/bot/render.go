package bot

import (
	"fmt"
	"strings"

	"github.com/dentaline/clinicbot/core/telegram/keyboard"
	"github.com/dentaline/clinicbot/internal/catalog"
	"github.com/dentaline/clinicbot/internal/dialog"

	tele "gopkg.in/telebot.v4"
)

// Callback keys for menu navigation.
const (
	cbMain        = "main"
	cbServices    = "services"
	cbCategory    = "svc"
	cbDoctors     = "doctors"
	cbAppointment = "appointment"
	cbPromos      = "promos"
	cbAbout       = "about"
	cbFeedback    = "feedback"
)

// ItemMessage is one planned outbound message for a category screen.
// Photo may be empty, in which case the caption goes out as plain text.
type ItemMessage struct {
	Photo   string
	Caption string
}

// Screen is a rendered menu screen: text plus inline navigation buttons.
type Screen struct {
	Text   string
	Markup *tele.ReplyMarkup
}

func renderMainMenu(clinic catalog.ClinicInfo) Screen {
	text := fmt.Sprintf("Добро пожаловать в %s!\n\nВыберите, что вас интересует:", clinic.Name)
	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "Услуги и цены", Unique: cbServices},
		{Text: "Наши врачи", Unique: cbDoctors},
		{Text: "Записаться на приём", Unique: cbAppointment},
		{Text: "Акции", Unique: cbPromos},
		{Text: "О клинике", Unique: cbAbout},
		{Text: "Оставить отзыв", Unique: cbFeedback},
	})
	return Screen{Text: text, Markup: markup}
}

func renderCategories(cat *catalog.Catalog) Screen {
	var btns []keyboard.InlineBtn
	for _, category := range cat.Categories() {
		btns = append(btns, keyboard.InlineBtn{Text: category, Unique: cbCategory, Data: category})
	}
	btns = append(btns, keyboard.InlineBtn{Text: "< Назад", Unique: cbMain})
	return Screen{Text: "Выберите категорию:", Markup: keyboard.InlineButtons(btns)}
}

// renderCategoryItems plans the ordered delivery for one category: one
// message per item followed by a summary screen with navigation.
func renderCategoryItems(cat *catalog.Catalog, category string) ([]ItemMessage, Screen) {
	items, _ := cat.Items(category)

	msgs := make([]ItemMessage, 0, len(items))
	for _, item := range items {
		msgs = append(msgs, ItemMessage{
			Photo:   item.Photo,
			Caption: fmt.Sprintf("%s\n%d руб. | %s", item.Name, item.Price, item.Duration),
		})
	}

	summary := Screen{
		Text: fmt.Sprintf("%s — выберите действие:", category),
		Markup: keyboard.InlineButtons([]keyboard.InlineBtn{
			{Text: "Записаться на приём", Unique: cbAppointment},
			{Text: "< К категориям", Unique: cbServices},
			{Text: "<< Главное меню", Unique: cbMain},
		}),
	}
	return msgs, summary
}

func renderDoctors(cat *catalog.Catalog) Screen {
	var b strings.Builder
	b.WriteString("Наши врачи:\n\n")
	for _, d := range cat.Doctors() {
		fmt.Fprintf(&b, "  %s — %s\n  %s\n\n", d.Name, d.Role, d.Experience)
	}
	return Screen{Text: b.String(), Markup: backToMainMarkup()}
}

func renderPromos(cat *catalog.Catalog) Screen {
	promos := cat.Promos()
	if len(promos) == 0 {
		return Screen{Text: "Сейчас акций нет, но скоро появятся!", Markup: backToMainMarkup()}
	}
	var b strings.Builder
	b.WriteString("Наши акции:\n\n")
	for _, p := range promos {
		fmt.Fprintf(&b, "  %s\n  %s\n\n", p.Title, p.Description)
	}
	return Screen{Text: b.String(), Markup: backToMainMarkup()}
}

func renderAbout(clinic catalog.ClinicInfo) Screen {
	text := fmt.Sprintf(
		"%s\n\n  Адрес: %s\n  Телефон: %s\n  Часы работы: %s\n\n%s",
		clinic.Name, clinic.Address, clinic.Phone, clinic.Hours, clinic.Description,
	)
	return Screen{Text: text, Markup: backToMainMarkup()}
}

func backToMainMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "Записаться на приём", Unique: cbAppointment},
		{Text: "< Назад", Unique: cbMain},
	})
}

func homeMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "На главную", Unique: cbMain},
	})
}

const appointmentIntro = "Давайте запишем вас на приём!\n\nВведите ваше имя:"

const feedbackIntro = "Будем рады вашему отзыву!\n\n" +
	"Напишите сообщение, и мы обязательно его прочитаем.\n" +
	"(Для отмены введите /cancel)"

const cancelAck = "Запись отменена."

const feedbackThanks = "Спасибо за ваш отзыв! Мы ценим каждое мнение."

func renderServicePrompt(name string, services []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Отлично, %s!\n\nКакая услуга вам нужна?\n\n", name)
	for i, svc := range services {
		fmt.Fprintf(&b, "%d. %s\n", i+1, svc)
	}
	b.WriteString("\nВведите номер или название услуги:")
	return b.String()
}

func renderDatePrompt(service string) string {
	return fmt.Sprintf("Услуга: %s\n\nНа какую дату записать? (например: 25.02.2026)", service)
}

func renderTimePrompt(clinic catalog.ClinicInfo) string {
	return fmt.Sprintf("На какое время? (например: 10:00)\n\nМы работаем: %s", clinic.Hours)
}

func renderConfirmation(rec dialog.AppointmentRecord, clinic catalog.ClinicInfo) string {
	return fmt.Sprintf(
		"Ваша запись:\n\n  Имя: %s\n  Услуга: %s\n  Дата: %s\n  Время: %s\n\n"+
			"Мы свяжемся с вами для подтверждения.\nИли позвоните нам: %s\n\nЖдём вас!",
		rec.Name, rec.Service, rec.Date, rec.Time, clinic.Phone,
	)
}
