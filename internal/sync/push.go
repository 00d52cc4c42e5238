package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rimtours/toursync/internal/backup"
	"github.com/rimtours/toursync/internal/markers"
	"github.com/rimtours/toursync/internal/model"
	"github.com/rimtours/toursync/internal/outline"
	"github.com/rimtours/toursync/internal/template"
)

// Push reconciles every tour's document with the database. Unlinked
// tours first match against existing documents in the collection by
// slug title; matched documents are adopted and linked, the rest get a
// new document created under the parent matching their classification.
// Linked tours that predate the marker grammar get the structured
// header prepended above their existing content; documents that
// already carry markers are left alone unless Force is set, in which
// case they are snapshotted and fully regenerated.
func (e *Engine) Push(ctx context.Context) (*Summary, error) {
	tours, err := e.Store.Tours(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tours: %w", err)
	}
	existing, err := e.Docs.List(ctx, e.Opts.CollectionID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	byTitle := make(map[string]*outline.Document, len(existing))
	for i := range existing {
		byTitle[existing[i].Title] = &existing[i]
	}

	w := backup.NewWriter(e.Opts.BackupDir, e.now())
	sum := &Summary{}
	for i := range tours {
		r := e.pushTour(ctx, w, byTitle, &tours[i])
		e.finish(ctx, model.OpPush, r, sum)
	}
	sum.BackupHandle = w.Handle()
	return sum, nil
}

func (e *Engine) pushTour(ctx context.Context, w *backup.Writer, byTitle map[string]*outline.Document, t *model.Tour) Result {
	if t.Slug == "" {
		return skipped(t, "no_slug")
	}

	days, err := e.Store.ItineraryDays(ctx, t.ID)
	if err != nil {
		return failed(t, err)
	}
	pricing, err := e.Store.Pricing(ctx, t.ID)
	if err != nil {
		return failed(t, err)
	}
	fees, err := e.Store.Fees(ctx, t.ID)
	if err != nil {
		return failed(t, err)
	}

	var doc *outline.Document
	if t.Linked() {
		doc, err = e.Docs.Get(ctx, t.OutlineDocID)
		switch {
		case errors.Is(err, outline.ErrNotFound):
			// Stale link; fall through to slug matching.
			doc = nil
		case err != nil:
			return failed(t, err)
		}
	}

	if doc == nil {
		// Never linked, or the link went stale. An existing document
		// already titled by the slug is adopted rather than duplicated.
		doc = byTitle[t.Slug]
	}
	if doc == nil {
		return e.createDoc(ctx, t, days, pricing, fees)
	}

	if markers.HasMarkers(doc.Text) && !e.Opts.Force {
		return skipped(t, "markers_exist")
	}

	action := ActionPrepended
	if markers.HasMarkers(doc.Text) {
		action = ActionUpdated
	}
	if e.Opts.DryRun {
		return Result{TourID: t.ID, Title: t.Title, Slug: t.Slug, Action: action, DocID: doc.ID, Planned: true}
	}

	if action == ActionUpdated {
		// Snapshot before the overwrite destroys anything.
		if err := w.Add(*doc); err != nil {
			return failed(t, fmt.Errorf("backup before overwrite: %w", err))
		}
	}

	legacy := stripHeader(doc.Text)
	text := e.Renderer.Header(t, days, pricing, fees)
	if legacy != "" {
		text += "\n" + legacy
	}
	// Title stays under human control; only the text is rewritten.
	if _, err := e.Docs.Update(ctx, doc.ID, "", text); err != nil {
		return failed(t, err)
	}
	if err := e.Store.LinkDocument(ctx, t.ID, doc.ID); err != nil {
		return failed(t, err)
	}
	return Result{TourID: t.ID, Title: t.Title, Slug: t.Slug, Action: action, DocID: doc.ID}
}

func (e *Engine) createDoc(ctx context.Context, t *model.Tour, days []model.ItineraryDay, pricing []model.PricingEntry, fees []model.FeeEntry) Result {
	class := Classify(t)
	if class == ClassUnknown {
		if !e.Opts.AssumeMultiDay {
			return skipped(t, "unclassified")
		}
		class = ClassMultiDay
	}
	parent := e.Opts.DayToursDocID
	if class == ClassMultiDay {
		parent = e.Opts.MultiDayDocID
	}

	if e.Opts.DryRun {
		return Result{TourID: t.ID, Title: t.Title, Slug: t.Slug, Action: ActionCreated, Planned: true}
	}

	// Documents are titled by slug so they can be matched back to the
	// tour even if the link column is ever lost.
	doc, err := e.Docs.Create(ctx, outline.CreateRequest{
		Title:            t.Slug,
		Text:             e.Renderer.Document(t, days, pricing, fees),
		CollectionID:     e.Opts.CollectionID,
		ParentDocumentID: parent,
	})
	if err != nil {
		return failed(t, err)
	}
	if err := e.Store.LinkDocument(ctx, t.ID, doc.ID); err != nil {
		return failed(t, err)
	}
	return Result{TourID: t.ID, Title: t.Title, Slug: t.Slug, Action: ActionCreated, DocID: doc.ID}
}

// stripHeader returns the human-owned body of a document. For documents
// without markers that is the whole text. For marked documents it is
// whatever follows the legacy-content heading, minus the heading's own
// note line; a marked document without the heading has no legacy body.
func stripHeader(text string) string {
	if !markers.HasMarkers(text) {
		return strings.TrimSpace(text)
	}
	idx := strings.Index(text, template.LegacyHeading)
	if idx < 0 {
		return ""
	}
	body := text[idx+len(template.LegacyHeading):]
	lines := strings.Split(body, "\n")
	for len(lines) > 0 {
		l := strings.TrimSpace(lines[0])
		if l == "" || strings.HasPrefix(l, ">") {
			lines = lines[1:]
			continue
		}
		break
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
