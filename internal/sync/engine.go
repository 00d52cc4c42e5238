// Package sync reconciles the canonical tour database with the remote
// document store. Push regenerates the system-owned header of each
// tour document, pull harvests editable field blocks back into the
// database, and refresh replaces pricing rows from the reservation
// system. Every per-tour outcome is reported and appended to the sync
// log; a failure on one tour never stops the batch.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rimtours/toursync/internal/arctic"
	"github.com/rimtours/toursync/internal/model"
	"github.com/rimtours/toursync/internal/outline"
	"github.com/rimtours/toursync/internal/template"
)

// Store is the database surface the engine needs.
type Store interface {
	Tours(ctx context.Context) ([]model.Tour, error)
	ItineraryDays(ctx context.Context, tourID int) ([]model.ItineraryDay, error)
	Pricing(ctx context.Context, tourID int) ([]model.PricingEntry, error)
	Fees(ctx context.Context, tourID int) ([]model.FeeEntry, error)
	LinkDocument(ctx context.Context, tourID int, docID string) error
	ApplyPull(ctx context.Context, tourID int, fields map[string]string, days []model.ItineraryDay) (int, int, error)
	ReplacePricing(ctx context.Context, tourID int, pricing []model.PricingEntry, fees []model.FeeEntry) error
	UpdateSchedule(ctx context.Context, tourID int, scheduledDates string) error
	AppendSyncLog(ctx context.Context, e *model.SyncEntry) error
}

// DocStore is the document API surface the engine needs.
type DocStore interface {
	Get(ctx context.Context, id string) (*outline.Document, error)
	List(ctx context.Context, collectionID string) ([]outline.Document, error)
	Create(ctx context.Context, req outline.CreateRequest) (*outline.Document, error)
	Update(ctx context.Context, id, title, text string) (*outline.Document, error)
}

// Pricer fetches displayable pricing and upcoming departures from the
// reservation system.
type Pricer interface {
	Pricing(ctx context.Context, tripID int) (*arctic.PricingSummary, error)
	Schedule(ctx context.Context, tripID int, from time.Time) ([]arctic.Departure, error)
}

// Options control a run.
type Options struct {
	CollectionID   string
	DayToursDocID  string // parent document for day tours
	MultiDayDocID  string // parent document for multi-day tours
	BackupDir      string
	DryRun         bool
	Force          bool
	AssumeMultiDay bool // classify unknown tours as multi-day instead of skipping
}

// Per-tour outcomes.
const (
	ActionCreated   = "created"
	ActionPrepended = "prepended"
	ActionUpdated   = "updated"
	ActionSkipped   = "skipped"
	ActionError     = "error"
)

// Result is the outcome of one tour in a run.
type Result struct {
	TourID  int
	Title   string
	Slug    string
	Action  string
	Reason  string // set for skips; empty otherwise
	DocID   string
	Fields  int // pull: fields written; refresh: pricing rows
	Days    int // pull: day rows written; refresh: fee rows
	Planned bool
	Err     error
}

// Summary aggregates the results of a run.
type Summary struct {
	Created   int
	Prepended int
	Updated   int
	Skipped   int
	Failed    int

	// BackupHandle names the backup taken before force overwrites,
	// or is empty when nothing was snapshotted.
	BackupHandle string
}

func (s *Summary) add(r Result) {
	switch r.Action {
	case ActionCreated:
		s.Created++
	case ActionPrepended:
		s.Prepended++
	case ActionUpdated:
		s.Updated++
	case ActionSkipped:
		s.Skipped++
	case ActionError:
		s.Failed++
	}
}

// Failed reports whether any tour in the run errored.
func (s *Summary) Failures() bool { return s.Failed > 0 }

// Engine runs sync operations over all tours.
type Engine struct {
	Store  Store
	Docs   DocStore
	Pricer Pricer

	Renderer *template.Renderer
	Log      logrus.FieldLogger
	Opts     Options

	// Report, if set, is called with every per-tour result as it
	// happens.
	Report func(Result)

	// Now stamps backups; defaults to time.Now.
	Now func() time.Time

	// RunID tags log lines so one batch can be traced end to end.
	RunID string
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) log() logrus.FieldLogger {
	l := e.Log
	if l == nil {
		logger := logrus.New()
		logger.SetLevel(logrus.PanicLevel)
		l = logger
	}
	if e.RunID != "" {
		l = l.WithField("run_id", e.RunID)
	}
	return l
}

func (e *Engine) report(r Result) {
	if e.Report != nil {
		e.Report(r)
	}
}

// record appends one sync log row for a result. Dry runs leave no
// trace in the log.
func (e *Engine) record(ctx context.Context, syncType string, r Result) {
	if e.Opts.DryRun || r.Planned {
		return
	}
	entry := &model.SyncEntry{
		SyncType:        syncType,
		TourID:          r.TourID,
		Status:          model.StatusSuccess,
		RecordsAffected: r.Fields + r.Days,
	}
	switch r.Action {
	case ActionSkipped:
		entry.Status = model.StatusSkipped
		entry.Details = r.Reason
	case ActionError:
		entry.Status = model.StatusFailed
		entry.ErrorMessage = r.Err.Error()
	default:
		entry.Details = fmt.Sprintf("action=%s doc=%s", r.Action, r.DocID)
	}
	if err := e.Store.AppendSyncLog(ctx, entry); err != nil {
		e.log().WithError(err).WithField("tour_id", r.TourID).Warn("sync log append failed")
	}
}

// finish reports, logs, and records one result, then folds it into the
// summary.
func (e *Engine) finish(ctx context.Context, syncType string, r Result, sum *Summary) {
	fields := logrus.Fields{
		"tour_id": r.TourID,
		"slug":    r.Slug,
		"action":  r.Action,
	}
	if r.Reason != "" {
		fields["reason"] = r.Reason
	}
	if r.Err != nil {
		e.log().WithFields(fields).WithError(r.Err).Error("tour failed")
	} else {
		e.log().WithFields(fields).Debug("tour done")
	}
	e.record(ctx, syncType, r)
	e.report(r)
	sum.add(r)
}

func skipped(t *model.Tour, reason string) Result {
	return Result{TourID: t.ID, Title: t.Title, Slug: t.Slug, Action: ActionSkipped, Reason: reason}
}

func failed(t *model.Tour, err error) Result {
	return Result{TourID: t.ID, Title: t.Title, Slug: t.Slug, Action: ActionError, Err: err}
}
