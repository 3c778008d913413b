// Package dialog implements the multi-step dialog state machines: the
// four-step appointment form and the single-step feedback form. Every
// text input is accepted as-is; the only quasi-validation is the
// numeric bounds check for service selection, which degrades to the
// literal text instead of rejecting. There is no retry state per field.
package dialog

import (
	"strconv"
	"strings"

	"github.com/dentaline/clinicbot/internal/catalog"
	"github.com/dentaline/clinicbot/internal/session"
)

// Kind names a dialog variant.
type Kind string

const (
	KindAppointment Kind = "appointment"
	KindFeedback    Kind = "feedback"
)

// Dialog step states.
const (
	StateApptName     session.State = "appt_name"
	StateApptService  session.State = "appt_service"
	StateApptDate     session.State = "appt_date"
	StateApptTime     session.State = "appt_time"
	StateFeedbackText session.State = "feedback_text"
)

// Collected field keys.
const (
	fieldName    = "name"
	fieldService = "service"
	fieldDate    = "date"
	fieldTime    = "time"
)

// AppointmentRecord is the completed appointment form. All values are
// free text; date and time are stored verbatim without format checks.
type AppointmentRecord struct {
	Name    string
	Service string
	Date    string
	Time    string
}

// FeedbackRecord is a completed feedback submission.
type FeedbackRecord struct {
	Text string
}

// StepResult describes the outcome of feeding one text input into an
// active dialog. Exactly one of the prompt states below applies: the
// dialog either advanced to Next, or completed with a record set.
type StepResult struct {
	Kind Kind
	// Next is the state the dialog advanced to; empty when Done.
	Next session.State
	// Echo is the value just accepted, for prompt rendering.
	Echo string
	// ServiceList is the numbered selection list, populated when the
	// dialog advanced into the service selection step.
	ServiceList []string

	Done        bool
	Appointment *AppointmentRecord
	Feedback    *FeedbackRecord
}

// Engine advances dialogs against the session store, recomputing the
// service selection list from the catalog on each entry into the
// service step.
type Engine struct {
	store session.Store
	cat   *catalog.Catalog
}

// NewEngine builds a dialog engine over the given store and catalog.
func NewEngine(store session.Store, cat *catalog.Catalog) *Engine {
	return &Engine{store: store, cat: cat}
}

// StartAppointment resets any collected fields for the user and enters
// the appointment dialog at the name step.
func (e *Engine) StartAppointment(userID int64) {
	e.store.StartDialog(userID, string(KindAppointment), StateApptName)
}

// StartFeedback resets any collected fields for the user and enters
// the feedback dialog.
func (e *Engine) StartFeedback(userID int64) {
	e.store.StartDialog(userID, string(KindFeedback), StateFeedbackText)
}

// InProgress reports whether the user has an active dialog.
func (e *Engine) InProgress(userID int64) bool {
	return e.store.InProgress(userID)
}

// Cancel terminates the active dialog without producing a record.
// It returns false when no dialog was active.
func (e *Engine) Cancel(userID int64) bool {
	if !e.store.InProgress(userID) {
		return false
	}
	e.store.ClearDialog(userID)
	return true
}

// Advance feeds one text input into the user's active dialog and
// returns the transition outcome. With no active dialog it returns ok
// false. Completion clears the dialog before returning the record.
func (e *Engine) Advance(userID int64, text string) (StepResult, bool) {
	sess := e.store.Snapshot(userID)
	if sess.Dialog == "" || sess.State == session.StateIdle {
		return StepResult{}, false
	}

	switch sess.State {
	case StateApptName:
		name := strings.TrimSpace(text)
		e.store.SetField(userID, fieldName, name)
		e.store.SetState(userID, StateApptService)
		return StepResult{
			Kind:        KindAppointment,
			Next:        StateApptService,
			Echo:        name,
			ServiceList: e.cat.FlattenServices(),
		}, true

	case StateApptService:
		service := SelectService(e.cat.FlattenServices(), text)
		e.store.SetField(userID, fieldService, service)
		e.store.SetState(userID, StateApptDate)
		return StepResult{
			Kind: KindAppointment,
			Next: StateApptDate,
			Echo: service,
		}, true

	case StateApptDate:
		e.store.SetField(userID, fieldDate, text)
		e.store.SetState(userID, StateApptTime)
		return StepResult{
			Kind: KindAppointment,
			Next: StateApptTime,
			Echo: text,
		}, true

	case StateApptTime:
		e.store.SetField(userID, fieldTime, text)
		rec := &AppointmentRecord{
			Name:    valueOf(e.store, userID, fieldName),
			Service: valueOf(e.store, userID, fieldService),
			Date:    valueOf(e.store, userID, fieldDate),
			Time:    text,
		}
		e.store.ClearDialog(userID)
		return StepResult{
			Kind:        KindAppointment,
			Done:        true,
			Appointment: rec,
		}, true

	case StateFeedbackText:
		e.store.ClearDialog(userID)
		return StepResult{
			Kind:     KindFeedback,
			Done:     true,
			Feedback: &FeedbackRecord{Text: text},
		}, true
	}

	return StepResult{}, false
}

// SelectService resolves a service selection input against the
// numbered list. A digits-only 1-based in-range index picks the list
// entry; any other input, including signed or out-of-range numbers,
// is taken literally as the service name.
func SelectService(list []string, input string) string {
	input = strings.TrimSpace(input)
	if isDigits(input) {
		if idx, err := strconv.Atoi(input); err == nil && idx >= 1 && idx <= len(list) {
			return list[idx-1]
		}
	}
	return input
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func valueOf(store session.Store, userID int64, key string) string {
	v, _ := store.Field(userID, key)
	return v
}
