package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/rimtours/toursync/internal/arctic"
	"github.com/rimtours/toursync/internal/model"
	"github.com/rimtours/toursync/internal/outline"
	"github.com/rimtours/toursync/internal/template"
)

type pullCall struct {
	tourID int
	fields map[string]string
	days   []model.ItineraryDay
}

type replaceCall struct {
	tourID  int
	pricing []model.PricingEntry
	fees    []model.FeeEntry
}

type fakeStore struct {
	tours   []model.Tour
	days    map[int][]model.ItineraryDay
	pricing map[int][]model.PricingEntry
	fees    map[int][]model.FeeEntry

	linked    map[int]string
	pulls     []pullCall
	replaced  []replaceCall
	schedules map[int]string
	logs      []model.SyncEntry
}

func (s *fakeStore) Tours(ctx context.Context) ([]model.Tour, error) { return s.tours, nil }

func (s *fakeStore) ItineraryDays(ctx context.Context, tourID int) ([]model.ItineraryDay, error) {
	return s.days[tourID], nil
}

func (s *fakeStore) Pricing(ctx context.Context, tourID int) ([]model.PricingEntry, error) {
	return s.pricing[tourID], nil
}

func (s *fakeStore) Fees(ctx context.Context, tourID int) ([]model.FeeEntry, error) {
	return s.fees[tourID], nil
}

func (s *fakeStore) LinkDocument(ctx context.Context, tourID int, docID string) error {
	if s.linked == nil {
		s.linked = map[int]string{}
	}
	s.linked[tourID] = docID
	return nil
}

func (s *fakeStore) ApplyPull(ctx context.Context, tourID int, fields map[string]string, days []model.ItineraryDay) (int, int, error) {
	s.pulls = append(s.pulls, pullCall{tourID: tourID, fields: fields, days: days})
	return len(fields), len(days), nil
}

func (s *fakeStore) ReplacePricing(ctx context.Context, tourID int, pricing []model.PricingEntry, fees []model.FeeEntry) error {
	s.replaced = append(s.replaced, replaceCall{tourID: tourID, pricing: pricing, fees: fees})
	return nil
}

func (s *fakeStore) UpdateSchedule(ctx context.Context, tourID int, scheduledDates string) error {
	if s.schedules == nil {
		s.schedules = map[int]string{}
	}
	s.schedules[tourID] = scheduledDates
	return nil
}

func (s *fakeStore) AppendSyncLog(ctx context.Context, e *model.SyncEntry) error {
	s.logs = append(s.logs, *e)
	return nil
}

type updateCall struct {
	id, title, text string
}

type fakeDocs struct {
	docs    map[string]*outline.Document
	created []outline.CreateRequest
	updated []updateCall
	getErr  map[string]error
}

func (d *fakeDocs) List(ctx context.Context, collectionID string) ([]outline.Document, error) {
	var out []outline.Document
	for _, doc := range d.docs {
		out = append(out, *doc)
	}
	return out, nil
}

func (d *fakeDocs) Get(ctx context.Context, id string) (*outline.Document, error) {
	if err := d.getErr[id]; err != nil {
		return nil, err
	}
	doc, ok := d.docs[id]
	if !ok {
		return nil, outline.ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (d *fakeDocs) Create(ctx context.Context, req outline.CreateRequest) (*outline.Document, error) {
	d.created = append(d.created, req)
	doc := &outline.Document{
		ID:               fmt.Sprintf("doc-%d", len(d.created)),
		Title:            req.Title,
		Text:             req.Text,
		ParentDocumentID: req.ParentDocumentID,
	}
	if d.docs == nil {
		d.docs = map[string]*outline.Document{}
	}
	d.docs[doc.ID] = doc
	return doc, nil
}

func (d *fakeDocs) Update(ctx context.Context, id, title, text string) (*outline.Document, error) {
	d.updated = append(d.updated, updateCall{id: id, title: title, text: text})
	doc, ok := d.docs[id]
	if !ok {
		return nil, outline.ErrNotFound
	}
	if title != "" {
		doc.Title = title
	}
	if text != "" {
		doc.Text = text
	}
	cp := *doc
	return &cp, nil
}

type fakePricer struct {
	summaries  map[int]*arctic.PricingSummary
	departures map[int][]arctic.Departure
	err        error
}

func (p *fakePricer) Pricing(ctx context.Context, tripID int) (*arctic.PricingSummary, error) {
	if p.err != nil {
		return nil, p.err
	}
	s, ok := p.summaries[tripID]
	if !ok {
		return nil, fmt.Errorf("unknown trip %d", tripID)
	}
	return s, nil
}

func (p *fakePricer) Schedule(ctx context.Context, tripID int, from time.Time) ([]arctic.Departure, error) {
	return p.departures[tripID], nil
}

func testNow() time.Time {
	return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
}

func dayTour() model.Tour {
	return model.Tour{
		ID:       42,
		Title:    "Moab Classic",
		Slug:     "moab-classic",
		TourType: "Day Tour",
		Duration: "Full Day",
	}
}

func testEngine(store *fakeStore, docs *fakeDocs, opts Options) *Engine {
	return &Engine{
		Store:    store,
		Docs:     docs,
		Renderer: &template.Renderer{Now: testNow},
		Opts:     opts,
		Now:      testNow,
	}
}
