package bot

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dentaline/clinicbot/internal/catalog"
	"github.com/dentaline/clinicbot/internal/notify"

	tele "gopkg.in/telebot.v4"
)

// eventLog records outbound traffic across the fake bot client and
// the fake admin API so tests can assert ordering between them.
type eventLog struct {
	events []string
}

type fakeTeleContext struct {
	tele.Context
	user     *tele.User
	text     string
	cb       *tele.Callback
	photoErr error
	log      *eventLog
	values   map[string]interface{}
}

func newFakeTeleContext(user *tele.User, log *eventLog) *fakeTeleContext {
	return &fakeTeleContext{
		user:   user,
		log:    log,
		values: make(map[string]interface{}),
	}
}

func (c *fakeTeleContext) Update() tele.Update      { return tele.Update{ID: 9} }
func (c *fakeTeleContext) Sender() *tele.User       { return c.user }
func (c *fakeTeleContext) Chat() *tele.Chat         { return &tele.Chat{ID: c.user.ID} }
func (c *fakeTeleContext) Callback() *tele.Callback { return c.cb }
func (c *fakeTeleContext) Text() string             { return c.text }
func (c *fakeTeleContext) Delete() error            { return nil }

func (c *fakeTeleContext) Get(key string) interface{} { return c.values[key] }

func (c *fakeTeleContext) Set(key string, v interface{}) { c.values[key] = v }

func (c *fakeTeleContext) Send(what interface{}, opts ...interface{}) error {
	switch m := what.(type) {
	case *tele.Photo:
		c.log.events = append(c.log.events, "photo")
		return c.photoErr
	case string:
		c.log.events = append(c.log.events, "text:"+m)
	}
	return nil
}

type adminRecorder struct {
	log *eventLog
}

func (a *adminRecorder) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if text, ok := what.(string); ok {
		a.log.events = append(a.log.events, "admin:"+text)
	}
	return &tele.Message{}, nil
}

func loadTestCatalog(t *testing.T, yaml string) *catalog.Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	cat, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}

func TestAppointmentCompletionNotifiesThenConfirms(t *testing.T) {
	app := New(&Config{}, testCatalog(t), nil)
	log := &eventLog{}
	app.notifier = notify.New(&adminRecorder{log: log}, nil, 555)

	user := &tele.User{ID: 7, FirstName: "Анна", LastName: "Иванова", Username: "anna"}
	c := newFakeTeleContext(user, log)

	app.engine.StartAppointment(user.ID)
	for _, input := range []string{"Анна", "1", "25.02.2026", "10:00"} {
		c.text = input
		if err := app.HandleText(c); err != nil {
			t.Fatalf("step %q: %v", input, err)
		}
	}

	adminIdx, confirmIdx, adminCount := -1, -1, 0
	for i, ev := range log.events {
		switch {
		case strings.HasPrefix(ev, "admin:"):
			adminCount++
			adminIdx = i
		case strings.HasPrefix(ev, "text:Ваша запись:"):
			confirmIdx = i
		}
	}
	if adminCount != 1 {
		t.Fatalf("admin notifications = %d, want exactly 1\nevents: %v", adminCount, log.events)
	}
	if confirmIdx == -1 {
		t.Fatalf("no confirmation sent\nevents: %v", log.events)
	}
	if adminIdx > confirmIdx {
		t.Fatalf("admin notification must precede the confirmation\nevents: %v", log.events)
	}
	if !strings.Contains(log.events[adminIdx], "Услуга: Консультация (500 руб.)") {
		t.Fatalf("admin summary missing resolved service: %q", log.events[adminIdx])
	}
	if app.engine.InProgress(user.ID) {
		t.Fatal("session should be idle after completion")
	}
}

const photoCatalogYAML = `
clinic:
  name: "Дента-Люкс"
  phone: "+7 (900) 123-45-67"
  hours: "Пн-Сб 08:00-20:00"
category_order:
  - "Имплантация"
services:
  "Имплантация":
    - name: "Имплант под ключ"
      price: 45000
      duration: "90 мин"
      photo: "https://example.com/implant.jpg"
    - name: "Костная пластика"
      price: 30000
      duration: "60 мин"
      photo: "https://example.com/bone.jpg"
`

func TestCategoryUnreachablePhotosFallBackToText(t *testing.T) {
	app := New(&Config{}, loadTestCatalog(t, photoCatalogYAML), nil)
	log := &eventLog{}

	c := newFakeTeleContext(&tele.User{ID: 8}, log)
	c.cb = &tele.Callback{Data: "\fsvc|Имплантация"}
	c.photoErr = errors.New("telegram: failed to get HTTP URL content (400)")

	if err := app.handleCategory(c); err != nil {
		t.Fatalf("handleCategory: %v", err)
	}

	want := []string{
		"photo",
		"text:Имплант под ключ\n45000 руб. | 90 мин",
		"photo",
		"text:Костная пластика\n30000 руб. | 60 мин",
		"text:Имплантация — выберите действие:",
	}
	if len(log.events) != len(want) {
		t.Fatalf("events = %v, want %v", log.events, want)
	}
	for i := range want {
		if log.events[i] != want[i] {
			t.Fatalf("event %d = %q, want %q", i, log.events[i], want[i])
		}
	}
}
