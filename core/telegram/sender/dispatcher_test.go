package sender

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestDispatcherRunsJob(t *testing.T) {
	d := NewDispatcher(Options{QueueSize: 4, Workers: 1})
	var ran atomic.Bool
	if err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
		ran.Store(true)
		return nil
	}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	d.Close()
	if !ran.Load() {
		t.Fatal("job did not run")
	}
	if got := d.ErrorCount(); got != 0 {
		t.Fatalf("error count = %d, want 0", got)
	}
}

func TestDispatcherRetriesTransientErrors(t *testing.T) {
	d := NewDispatcher(Options{
		QueueSize:    4,
		Workers:      1,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	})
	var calls atomic.Int32
	if err := d.Enqueue(context.Background(), "notify.admin", "sendMessage", func() error {
		if calls.Add(1) < 3 {
			return timeoutErr{}
		}
		return nil
	}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	d.Close()
	if got := calls.Load(); got != 3 {
		t.Fatalf("calls = %d, want 3", got)
	}
	if got := d.ErrorCount(); got != 0 {
		t.Fatalf("error count = %d, want 0", got)
	}
}

func TestDispatcherDoesNotRetryPermanentErrors(t *testing.T) {
	d := NewDispatcher(Options{
		QueueSize:    4,
		Workers:      1,
		MaxRetries:   3,
		RetryBackoff: time.Millisecond,
	})
	var calls atomic.Int32
	if err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
		calls.Add(1)
		return errors.New("telegram: bad request (400)")
	}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	d.Close()
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
	if got := d.ErrorCount(); got != 1 {
		t.Fatalf("error count = %d, want 1", got)
	}
}

func TestDispatcherEnqueueAfterClose(t *testing.T) {
	d := NewDispatcher(Options{QueueSize: 1, Workers: 1})
	d.Close()
	err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error { return nil })
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("err = %v, want ErrQueueClosed", err)
	}
}

func TestSanitizeErrorMessage(t *testing.T) {
	err := errors.New("Post \"https://api.telegram.org/bot123456:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw/sendMessage\": EOF")
	got := sanitizeErrorMessage(err)
	if want := "bot<redacted>"; !strings.Contains(got, want) {
		t.Fatalf("sanitized message %q does not contain %q", got, want)
	}
	if strings.Contains(got, "AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw") {
		t.Fatalf("token leaked: %q", got)
	}
}
