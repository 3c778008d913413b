package notify

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/dentaline/clinicbot/internal/dialog"

	tele "gopkg.in/telebot.v4"
)

type fakeAPI struct {
	mu    sync.Mutex
	sent  []string
	chats []tele.Recipient
}

func (f *fakeAPI) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if text, ok := what.(string); ok {
		f.sent = append(f.sent, text)
	}
	f.chats = append(f.chats, to)
	return &tele.Message{}, nil
}

func TestFormatAppointmentWithUsername(t *testing.T) {
	rec := dialog.AppointmentRecord{
		Name:    "Анна",
		Service: "Консультация (500 руб.)",
		Date:    "25.02.2026",
		Time:    "10:00",
	}
	got := FormatAppointment(rec, Submitter{FullName: "Анна Иванова", Username: "anna"})

	if !strings.HasPrefix(got, "🔔 Новая запись на приём!") {
		t.Fatalf("missing header: %q", got)
	}
	for _, want := range []string{"Имя: Анна", "Услуга: Консультация (500 руб.)", "Дата: 25.02.2026", "Время: 10:00", "Клиент: Анна Иванова (@anna)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestFormatAppointmentWithoutUsername(t *testing.T) {
	got := FormatAppointment(dialog.AppointmentRecord{Name: "Олег"}, Submitter{FullName: "Олег Петров"})
	if strings.Contains(got, "@") {
		t.Fatalf("summary must omit handle when absent:\n%s", got)
	}
	if !strings.HasSuffix(got, "Клиент: Олег Петров") {
		t.Fatalf("unexpected tail:\n%s", got)
	}
}

func TestFormatFeedback(t *testing.T) {
	got := FormatFeedback(dialog.FeedbackRecord{Text: "Всё отлично"}, Submitter{FullName: "Мария", Username: "m"})
	if !strings.HasPrefix(got, "💬 Новый отзыв!") {
		t.Fatalf("missing header: %q", got)
	}
	if !strings.Contains(got, "От: Мария (@m)") || !strings.Contains(got, "Текст: Всё отлично") {
		t.Fatalf("unexpected summary:\n%s", got)
	}
}

func TestNotifierDeliversToAdminChat(t *testing.T) {
	api := &fakeAPI{}
	n := New(api, nil, 987654)

	n.AppointmentBooked(context.Background(), dialog.AppointmentRecord{Name: "Анна"}, Submitter{FullName: "Анна"})

	if len(api.sent) != 1 {
		t.Fatalf("expected exactly one send, got %d", len(api.sent))
	}
	if chat, ok := api.chats[0].(tele.ChatID); !ok || int64(chat) != 987654 {
		t.Fatalf("sent to wrong recipient: %#v", api.chats[0])
	}
}
