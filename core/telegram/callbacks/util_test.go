package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

type cbContext struct {
	tele.Context
	cb *tele.Callback
}

func (c *cbContext) Callback() *tele.Callback { return c.cb }

func TestParseCallbackData(t *testing.T) {
	key, payload := ParseCallbackData(&tele.Callback{Data: "\fsvc|Терапия"})
	if key != "svc" || payload != "Терапия" {
		t.Fatalf("parsed (%q, %q)", key, payload)
	}

	key, payload = ParseCallbackData(&tele.Callback{Data: "\fmain"})
	if key != "main" || payload != "" {
		t.Fatalf("parsed (%q, %q), want bare key", key, payload)
	}

	if key, _ := ParseCallbackData(nil); key != "" {
		t.Fatalf("nil callback yielded key %q", key)
	}
}

func TestCallbackKeyPrefersUnique(t *testing.T) {
	c := &cbContext{cb: &tele.Callback{Unique: "doctors", Data: "\fsvc|x"}}
	if got := CallbackKey(c); got != "doctors" {
		t.Fatalf("key = %q, want unique", got)
	}

	c = &cbContext{cb: &tele.Callback{Data: "\fsvc|Терапия"}}
	if got := CallbackKey(c); got != "svc" {
		t.Fatalf("key = %q, want parsed from data", got)
	}

	c = &cbContext{}
	if got := CallbackKey(c); got != "" {
		t.Fatalf("key = %q, want empty without callback", got)
	}
}
