package dialog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dentaline/clinicbot/internal/catalog"
	"github.com/dentaline/clinicbot/internal/session"
)

const testCatalogYAML = `
clinic:
  name: "Тестовая клиника"
  phone: "+7 (000) 000-00-00"
category_order:
  - "A"
  - "B"
services:
  "A":
    - name: "X"
      price: 10
  "B":
    - name: "Y"
      price: 20
`

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(testCatalogYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	cat, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}

func testEngine(t *testing.T) (*Engine, session.Store) {
	t.Helper()
	store := session.NewMemoryStore(time.Hour)
	return NewEngine(store, testCatalog(t)), store
}

func TestFlattenedServiceOrder(t *testing.T) {
	cat := testCatalog(t)

	got := cat.FlattenServices()
	want := []string{"X (10 руб.)", "Y (20 руб.)"}
	if len(got) != len(want) {
		t.Fatalf("list length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSelectServiceByIndex(t *testing.T) {
	list := []string{"X (10 руб.)", "Y (20 руб.)"}

	if got := SelectService(list, "1"); got != "X (10 руб.)" {
		t.Fatalf("index 1 = %q", got)
	}
	if got := SelectService(list, "2"); got != "Y (20 руб.)" {
		t.Fatalf("index 2 = %q", got)
	}
}

func TestSelectServiceOutOfRangeIsLiteral(t *testing.T) {
	list := []string{"X (10 руб.)", "Y (20 руб.)"}

	if got := SelectService(list, "9"); got != "9" {
		t.Fatalf("out-of-range selection = %q, want literal \"9\"", got)
	}
	if got := SelectService(list, "0"); got != "0" {
		t.Fatalf("zero selection = %q, want literal \"0\"", got)
	}
	if got := SelectService(list, "Имплантация"); got != "Имплантация" {
		t.Fatalf("free text selection = %q", got)
	}
}

func TestSelectServiceSignedNumberIsLiteral(t *testing.T) {
	list := []string{"X (10 руб.)", "Y (20 руб.)"}

	if got := SelectService(list, "+1"); got != "+1" {
		t.Fatalf("signed selection = %q, want literal \"+1\"", got)
	}
	if got := SelectService(list, "-1"); got != "-1" {
		t.Fatalf("negative selection = %q, want literal \"-1\"", got)
	}
	if got := SelectService(list, " 2 "); got != "Y (20 руб.)" {
		t.Fatalf("padded index = %q, want trimmed lookup", got)
	}
}

func TestAppointmentFullFlow(t *testing.T) {
	eng, store := testEngine(t)
	const user = int64(100)

	eng.StartAppointment(user)
	if !eng.InProgress(user) {
		t.Fatal("dialog should be in progress after entry")
	}

	res, ok := eng.Advance(user, "  Анна  ")
	if !ok || res.Next != StateApptService {
		t.Fatalf("after name: ok=%v next=%q", ok, res.Next)
	}
	if res.Echo != "Анна" {
		t.Fatalf("name should be trimmed, got %q", res.Echo)
	}
	if len(res.ServiceList) != 2 {
		t.Fatalf("service list should be recomputed, got %v", res.ServiceList)
	}

	res, ok = eng.Advance(user, "2")
	if !ok || res.Next != StateApptDate {
		t.Fatalf("after service: ok=%v next=%q", ok, res.Next)
	}
	if res.Echo != "Y (20 руб.)" {
		t.Fatalf("service echo = %q", res.Echo)
	}

	res, ok = eng.Advance(user, "25.02.2026")
	if !ok || res.Next != StateApptTime {
		t.Fatalf("after date: ok=%v next=%q", ok, res.Next)
	}

	res, ok = eng.Advance(user, "10:00")
	if !ok || !res.Done || res.Appointment == nil {
		t.Fatalf("after time: ok=%v done=%v rec=%v", ok, res.Done, res.Appointment)
	}

	rec := res.Appointment
	if rec.Name != "Анна" || rec.Service != "Y (20 руб.)" || rec.Date != "25.02.2026" || rec.Time != "10:00" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	if eng.InProgress(user) {
		t.Fatal("completion must return the session to no active dialog")
	}
	if len(store.Snapshot(user).Fields) != 0 {
		t.Fatal("collected fields must be cleared on completion")
	}
}

func TestDialogEntryClearsPreviousFields(t *testing.T) {
	eng, store := testEngine(t)
	const user = int64(5)

	eng.StartAppointment(user)
	if _, ok := eng.Advance(user, "Олег"); !ok {
		t.Fatal("advance failed")
	}

	eng.StartAppointment(user)
	sess := store.Snapshot(user)
	if len(sess.Fields) != 0 {
		t.Fatalf("restart must clear collected fields, got %v", sess.Fields)
	}
	if sess.State != StateApptName {
		t.Fatalf("restart must return to the name step, got %q", sess.State)
	}
}

func TestCancelInEveryAppointmentState(t *testing.T) {
	inputs := []string{"Анна", "1", "25.02.2026"}

	for steps := 0; steps <= len(inputs); steps++ {
		eng, _ := testEngine(t)
		const user = int64(9)

		eng.StartAppointment(user)
		for i := 0; i < steps; i++ {
			if res, ok := eng.Advance(user, inputs[i]); !ok || res.Done {
				t.Fatalf("step %d: ok=%v done=%v", i, ok, res.Done)
			}
		}

		if !eng.Cancel(user) {
			t.Fatalf("cancel after %d steps should report an active dialog", steps)
		}
		if eng.InProgress(user) {
			t.Fatalf("cancel after %d steps must clear the dialog", steps)
		}
		if _, ok := eng.Advance(user, "anything"); ok {
			t.Fatalf("advance after cancel must be a no-op")
		}
	}
}

func TestFeedbackSingleStep(t *testing.T) {
	eng, _ := testEngine(t)
	const user = int64(77)

	eng.StartFeedback(user)
	res, ok := eng.Advance(user, "Отличная клиника!")
	if !ok || !res.Done || res.Feedback == nil {
		t.Fatalf("feedback completion: ok=%v done=%v rec=%v", ok, res.Done, res.Feedback)
	}
	if res.Feedback.Text != "Отличная клиника!" {
		t.Fatalf("feedback text = %q", res.Feedback.Text)
	}
	if eng.InProgress(user) {
		t.Fatal("feedback completion must clear the dialog")
	}
}

func TestAdvanceWithoutDialogIsNoop(t *testing.T) {
	eng, _ := testEngine(t)

	if _, ok := eng.Advance(1, "hello"); ok {
		t.Fatal("advance with no active dialog must report ok=false")
	}
	if eng.Cancel(1) {
		t.Fatal("cancel with no active dialog must report false")
	}
}
