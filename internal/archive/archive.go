// Package archive persists completed appointment and feedback records
// to Postgres when a database is configured. The archive is a write
// only audit trail for clinic staff; failures are logged and swallowed
// so record delivery to the admin chat never depends on the database.
package archive

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dentaline/clinicbot/core/logger"
	"github.com/dentaline/clinicbot/internal/dialog"
	"github.com/dentaline/clinicbot/internal/notify"
	"log/slog"
)

const insertAppointment = `
INSERT INTO appointments (client_name, service, visit_date, visit_time, submitter_name, submitter_handle, created_at)
VALUES (:client_name, :service, :visit_date, :visit_time, :submitter_name, :submitter_handle, :created_at)`

const insertFeedback = `
INSERT INTO feedback (text, submitter_name, submitter_handle, created_at)
VALUES (:text, :submitter_name, :submitter_handle, :created_at)`

// Archive writes completed records into Postgres.
type Archive struct {
	db *sqlx.DB
}

// New wraps an open database handle. A nil db yields a disabled
// archive whose save methods are no-ops.
func New(db *sqlx.DB) *Archive {
	return &Archive{db: db}
}

// Enabled reports whether the archive has a database behind it.
func (a *Archive) Enabled() bool {
	return a != nil && a.db != nil
}

type appointmentRow struct {
	ClientName      string    `db:"client_name"`
	Service         string    `db:"service"`
	VisitDate       string    `db:"visit_date"`
	VisitTime       string    `db:"visit_time"`
	SubmitterName   string    `db:"submitter_name"`
	SubmitterHandle string    `db:"submitter_handle"`
	CreatedAt       time.Time `db:"created_at"`
}

type feedbackRow struct {
	Text            string    `db:"text"`
	SubmitterName   string    `db:"submitter_name"`
	SubmitterHandle string    `db:"submitter_handle"`
	CreatedAt       time.Time `db:"created_at"`
}

// SaveAppointment stores a booked appointment. Errors are logged, not returned.
func (a *Archive) SaveAppointment(ctx context.Context, rec dialog.AppointmentRecord, from notify.Submitter) {
	if !a.Enabled() {
		return
	}
	row := appointmentRow{
		ClientName:      rec.Name,
		Service:         rec.Service,
		VisitDate:       rec.Date,
		VisitTime:       rec.Time,
		SubmitterName:   from.FullName,
		SubmitterHandle: from.Username,
		CreatedAt:       time.Now().UTC(),
	}
	_, err := a.db.NamedExecContext(ctx, insertAppointment, row)
	a.logOutcome(ctx, "archive.appointment", err)
}

func (a *Archive) logOutcome(ctx context.Context, op string, err error) {
	attrs := []slog.Attr{slog.String("status", logger.Status(err))}
	level := slog.LevelDebug
	event := op + ".saved"
	if err != nil {
		level = slog.LevelError
		event = op + ".failed"
		attrs = append(attrs, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
	}
	logger.DB.LogAttrs(ctx, level, event, attrs...)
}

// SaveFeedback stores a feedback submission. Errors are logged, not returned.
func (a *Archive) SaveFeedback(ctx context.Context, rec dialog.FeedbackRecord, from notify.Submitter) {
	if !a.Enabled() {
		return
	}
	row := feedbackRow{
		Text:            rec.Text,
		SubmitterName:   from.FullName,
		SubmitterHandle: from.Username,
		CreatedAt:       time.Now().UTC(),
	}
	_, err := a.db.NamedExecContext(ctx, insertFeedback, row)
	a.logOutcome(ctx, "archive.feedback", err)
}
