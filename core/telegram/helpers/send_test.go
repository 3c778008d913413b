package helpers

import (
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"
)

type sendRecorder struct {
	tele.Context
	photoErr   error
	photoSends int
	texts      []string
	values     map[string]interface{}
}

func newSendRecorder(photoErr error) *sendRecorder {
	return &sendRecorder{photoErr: photoErr, values: make(map[string]interface{})}
}

func (r *sendRecorder) Update() tele.Update { return tele.Update{ID: 1} }
func (r *sendRecorder) Sender() *tele.User  { return &tele.User{ID: 42} }
func (r *sendRecorder) Chat() *tele.Chat    { return &tele.Chat{ID: 42} }

func (r *sendRecorder) Get(key string) interface{} { return r.values[key] }

func (r *sendRecorder) Set(key string, v interface{}) { r.values[key] = v }

func (r *sendRecorder) Send(what interface{}, opts ...interface{}) error {
	switch m := what.(type) {
	case *tele.Photo:
		r.photoSends++
		return r.photoErr
	case string:
		r.texts = append(r.texts, m)
		return nil
	}
	return nil
}

func TestSendPhotoOrTextFallsBackToText(t *testing.T) {
	rec := newSendRecorder(errors.New("telegram: wrong file identifier (400)"))

	err := SendPhotoOrText(rec, "https://example.com/item.jpg", "Лечение кариеса\n3500 руб. | 60 мин")
	if err != nil {
		t.Fatalf("fallback should swallow the photo error, got %v", err)
	}
	if rec.photoSends != 1 {
		t.Fatalf("photo sends = %d, want 1", rec.photoSends)
	}
	if len(rec.texts) != 1 || rec.texts[0] != "Лечение кариеса\n3500 руб. | 60 мин" {
		t.Fatalf("text sends = %v, want single caption", rec.texts)
	}
}

func TestSendPhotoOrTextDeliversPhoto(t *testing.T) {
	rec := newSendRecorder(nil)

	if err := SendPhotoOrText(rec, "https://example.com/item.jpg", "подпись"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if rec.photoSends != 1 || len(rec.texts) != 0 {
		t.Fatalf("photo=%d texts=%v, want one photo and no text", rec.photoSends, rec.texts)
	}
}

func TestSendPhotoOrTextWithoutURL(t *testing.T) {
	rec := newSendRecorder(nil)

	if err := SendPhotoOrText(rec, "", "подпись"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if rec.photoSends != 0 || len(rec.texts) != 1 {
		t.Fatalf("photo=%d texts=%v, want text only", rec.photoSends, rec.texts)
	}
}
