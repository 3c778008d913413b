// Package session tracks per-user dialog progress. A session records
// which multi-step dialog is active, the current step, and the fields
// collected so far. Sessions live in memory only and are evicted after
// a period of inactivity.
package session

import "time"

// State identifies a dialog step.
type State string

// StateIdle indicates there is no active dialog with the user.
const StateIdle State = "idle"

// Session stores dialog state and collected fields for a user.
// Fields only ever contain values for steps already completed in the
// current dialog; starting a new dialog resets them.
type Session struct {
	Dialog  string
	State   State
	Fields  map[string]string
	Touched time.Time
}

// Store orchestrates user sessions and dialog state transitions.
type Store interface {
	// Snapshot returns a copy of the user's session, or a fresh idle
	// session if none exists. Mutating the copy does not affect the store.
	Snapshot(userID int64) Session

	// StartDialog resets any previously collected fields and puts the
	// user into the first step of the named dialog.
	StartDialog(userID int64, dialog string, st State)

	SetState(userID int64, st State)
	State(userID int64) State

	SetField(userID int64, key, value string)
	Field(userID int64, key string) (string, bool)

	// ClearDialog resets dialog, state, and fields but keeps the user entry.
	ClearDialog(userID int64)

	// InProgress reports whether the user has an active dialog.
	InProgress(userID int64) bool

	Len() int
}
