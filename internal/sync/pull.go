package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rimtours/toursync/internal/model"
	"github.com/rimtours/toursync/internal/outline"
	"github.com/rimtours/toursync/internal/ownership"
	"github.com/rimtours/toursync/internal/template"
)

// Pull harvests editable field blocks and itinerary days from every
// linked document back into the database. Read-only and system fields
// found in a document are logged and discarded, never written.
func (e *Engine) Pull(ctx context.Context) (*Summary, error) {
	tours, err := e.Store.Tours(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tours: %w", err)
	}

	sum := &Summary{}
	for i := range tours {
		r := e.pullTour(ctx, &tours[i])
		e.finish(ctx, model.OpPull, r, sum)
	}
	return sum, nil
}

func (e *Engine) pullTour(ctx context.Context, t *model.Tour) Result {
	if !t.Linked() {
		return skipped(t, "not_linked")
	}

	doc, err := e.Docs.Get(ctx, t.OutlineDocID)
	if errors.Is(err, outline.ErrNotFound) {
		return skipped(t, "doc_missing")
	}
	if err != nil {
		return failed(t, err)
	}

	parsed := template.Parse(doc.Text)
	fields, dropped := ownership.FilterEditable(parsed.Fields)
	if len(dropped) > 0 {
		e.log().WithFields(logrus.Fields{
			"tour_id": t.ID,
			"fields":  dropped,
		}).Warn("discarding non-editable fields found in document")
	}

	if len(fields) == 0 && len(parsed.Days) == 0 {
		return skipped(t, "nothing_parsed")
	}

	if e.Opts.DryRun {
		return Result{
			TourID: t.ID, Title: t.Title, Slug: t.Slug,
			Action: ActionUpdated, DocID: doc.ID,
			Fields: len(fields), Days: len(parsed.Days),
			Planned: true,
		}
	}

	nf, nd, err := e.Store.ApplyPull(ctx, t.ID, fields, parsed.Days)
	if err != nil {
		return failed(t, err)
	}
	return Result{
		TourID: t.ID, Title: t.Title, Slug: t.Slug,
		Action: ActionUpdated, DocID: doc.ID,
		Fields: nf, Days: nd,
	}
}
