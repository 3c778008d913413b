package router

import (
	"testing"

	tg "github.com/dentaline/clinicbot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

type stubDialog struct {
	active bool
	texts  []string
}

func (d *stubDialog) InProgress(userID int64) bool { return d.active }

func (d *stubDialog) HandleText(c tele.Context) error {
	d.texts = append(d.texts, c.Text())
	return nil
}

type stubContext struct {
	tele.Context
	updateID int
	text     string
	values   map[string]interface{}
}

func newStubContext(updateID int, text string) *stubContext {
	return &stubContext{
		updateID: updateID,
		text:     text,
		values:   make(map[string]interface{}),
	}
}

func (s *stubContext) Update() tele.Update      { return tele.Update{ID: s.updateID} }
func (s *stubContext) Sender() *tele.User       { return &tele.User{ID: 100} }
func (s *stubContext) Chat() *tele.Chat         { return &tele.Chat{ID: 100} }
func (s *stubContext) Callback() *tele.Callback { return nil }
func (s *stubContext) Text() string             { return s.text }

func (s *stubContext) Get(key string) interface{} { return s.values[key] }

func (s *stubContext) Set(key string, v interface{}) { s.values[key] = v }

func TestTextRouteFeedsDialogInput(t *testing.T) {
	dlg := &stubDialog{active: true}
	route := TextRoute(dlg, tg.NewRegistry(), TextOptions{})

	if err := route.Handler(newStubContext(1, "Анна")); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(dlg.texts) != 1 || dlg.texts[0] != "Анна" {
		t.Fatalf("dialog input = %v, want [Анна]", dlg.texts)
	}
}

func TestTextRouteSkipsCommandsDuringDialog(t *testing.T) {
	dlg := &stubDialog{active: true}
	route := TextRoute(dlg, tg.NewRegistry(), TextOptions{})

	if err := route.Handler(newStubContext(2, "/foo")); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(dlg.texts) != 0 {
		t.Fatalf("command text reached dialog: %v", dlg.texts)
	}
}

func TestTextRouteIgnoresTextWithoutDialog(t *testing.T) {
	dlg := &stubDialog{active: false}
	route := TextRoute(dlg, tg.NewRegistry(), TextOptions{})

	if err := route.Handler(newStubContext(3, "привет")); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(dlg.texts) != 0 {
		t.Fatalf("idle dialog received input: %v", dlg.texts)
	}
}
