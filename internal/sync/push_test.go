package sync

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/rimtours/toursync/internal/backup"
	"github.com/rimtours/toursync/internal/markers"
	"github.com/rimtours/toursync/internal/model"
	"github.com/rimtours/toursync/internal/outline"
	"github.com/rimtours/toursync/internal/template"
)

func TestPushCreatesAndLinks(t *testing.T) {
	tour := dayTour()
	store := &fakeStore{tours: []model.Tour{tour}}
	docs := &fakeDocs{}
	e := testEngine(store, docs, Options{
		CollectionID:  "col-1",
		DayToursDocID: "parent-day",
		MultiDayDocID: "parent-multi",
		BackupDir:     t.TempDir(),
	})

	sum, err := e.Push(context.Background())
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if sum.Created != 1 {
		t.Fatalf("expected 1 created, got %+v", sum)
	}
	if len(docs.created) != 1 {
		t.Fatalf("expected 1 create call, got %d", len(docs.created))
	}
	req := docs.created[0]
	if req.ParentDocumentID != "parent-day" {
		t.Fatalf("day tour filed under %q", req.ParentDocumentID)
	}
	if req.CollectionID != "col-1" {
		t.Fatalf("collection = %q", req.CollectionID)
	}
	if req.Title != tour.Slug {
		t.Fatalf("documents are titled by slug, got %q", req.Title)
	}
	if !markers.HasMarkers(req.Text) {
		t.Fatal("created document carries no markers")
	}
	if store.linked[tour.ID] != "doc-1" {
		t.Fatalf("tour not linked, got %q", store.linked[tour.ID])
	}
	if len(store.logs) != 1 || store.logs[0].Status != model.StatusSuccess {
		t.Fatalf("expected one success log entry, got %+v", store.logs)
	}
	if store.logs[0].SyncType != model.OpPush {
		t.Fatalf("sync type = %q", store.logs[0].SyncType)
	}
}

func TestPushSkipsMarkedDocumentWithoutForce(t *testing.T) {
	tour := dayTour()
	tour.OutlineDocID = "doc-x"
	r := &template.Renderer{Now: testNow}
	store := &fakeStore{tours: []model.Tour{tour}}
	docs := &fakeDocs{docs: map[string]*outline.Document{
		"doc-x": {ID: "doc-x", Title: tour.Title, Text: r.Document(&tour, nil, nil, nil)},
	}}
	e := testEngine(store, docs, Options{BackupDir: t.TempDir()})

	sum, err := e.Push(context.Background())
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if sum.Skipped != 1 || sum.Updated != 0 {
		t.Fatalf("expected skip, got %+v", sum)
	}
	if len(docs.updated) != 0 || len(docs.created) != 0 {
		t.Fatal("skip must not write to the document store")
	}
	if len(store.logs) != 1 || store.logs[0].Status != model.StatusSkipped {
		t.Fatalf("expected skipped log entry, got %+v", store.logs)
	}
	if store.logs[0].Details != "markers_exist" {
		t.Fatalf("skip reason = %q", store.logs[0].Details)
	}
}

func TestPushPrependsHeaderAndPreservesBody(t *testing.T) {
	tour := dayTour()
	tour.OutlineDocID = "doc-x"
	old := "# Moab Classic\n\nGuide notes written by hand.\n\n- bring water\n"
	store := &fakeStore{tours: []model.Tour{tour}}
	docs := &fakeDocs{docs: map[string]*outline.Document{
		"doc-x": {ID: "doc-x", Title: tour.Title, Text: old},
	}}
	e := testEngine(store, docs, Options{BackupDir: t.TempDir()})

	sum, err := e.Push(context.Background())
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if sum.Prepended != 1 {
		t.Fatalf("expected 1 prepended, got %+v", sum)
	}
	if len(docs.updated) != 1 {
		t.Fatalf("expected 1 update, got %d", len(docs.updated))
	}
	if docs.updated[0].title != "" {
		t.Fatalf("update must not retitle the document, got %q", docs.updated[0].title)
	}
	text := docs.updated[0].text
	if !strings.HasPrefix(text, markers.Version) {
		t.Fatal("header not prepended")
	}
	if !strings.Contains(text, template.LegacyHeading) {
		t.Fatal("legacy heading missing")
	}
	if !strings.Contains(text, "Guide notes written by hand.") {
		t.Fatal("pre-existing content lost")
	}
	if strings.Index(text, template.LegacyHeading) > strings.Index(text, "Guide notes written by hand.") {
		t.Fatal("legacy content not below the legacy heading")
	}
	if sum.BackupHandle != "" {
		t.Fatalf("prepend must not snapshot, got backup %q", sum.BackupHandle)
	}
}

func TestPushForceSnapshotsBeforeOverwrite(t *testing.T) {
	tour := dayTour()
	tour.OutlineDocID = "doc-x"
	r := &template.Renderer{Now: testNow}
	old := r.Header(&tour, nil, nil, nil) + "\nIrreplaceable notes.\n"
	store := &fakeStore{tours: []model.Tour{tour}}
	docs := &fakeDocs{docs: map[string]*outline.Document{
		"doc-x": {ID: "doc-x", Title: tour.Title, Text: old},
	}}
	dir := t.TempDir()
	e := testEngine(store, docs, Options{BackupDir: dir, Force: true})

	sum, err := e.Push(context.Background())
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if sum.Updated != 1 {
		t.Fatalf("expected 1 updated, got %+v", sum)
	}
	if sum.BackupHandle == "" {
		t.Fatal("force overwrite must leave a backup")
	}

	m, snaps, err := backup.Load(dir, sum.BackupHandle)
	if err != nil {
		t.Fatalf("loading backup: %v", err)
	}
	if m.Count != 1 || len(snaps) != 1 || snaps[0].ID != "doc-x" {
		t.Fatalf("unexpected backup: manifest %+v, %d snapshots", m, len(snaps))
	}
	if !strings.Contains(snaps[0].Text, "Irreplaceable notes.") {
		t.Fatal("snapshot does not hold the pre-overwrite text")
	}

	if !strings.Contains(docs.updated[0].text, "Irreplaceable notes.") {
		t.Fatal("force regenerate must keep the legacy body")
	}
}

func TestPushAdoptsExistingDocumentBySlug(t *testing.T) {
	tour := dayTour() // never linked
	old := "Hand-written trail notes.\n"
	store := &fakeStore{tours: []model.Tour{tour}}
	docs := &fakeDocs{docs: map[string]*outline.Document{
		"doc-x": {ID: "doc-x", Title: tour.Slug, Text: old},
	}}
	e := testEngine(store, docs, Options{
		CollectionID:  "col-1",
		DayToursDocID: "parent-day",
		BackupDir:     t.TempDir(),
	})

	sum, err := e.Push(context.Background())
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if sum.Created != 0 || sum.Prepended != 1 {
		t.Fatalf("existing document must be adopted, not duplicated: %+v", sum)
	}
	if len(docs.created) != 0 {
		t.Fatalf("expected no create calls, got %d", len(docs.created))
	}
	if store.linked[tour.ID] != "doc-x" {
		t.Fatalf("tour not linked to the matched document, got %q", store.linked[tour.ID])
	}
	if !strings.Contains(docs.updated[0].text, "Hand-written trail notes.") {
		t.Fatal("adopted document lost its original body")
	}
}

func TestPushDryRunWritesNothing(t *testing.T) {
	tour := dayTour()
	store := &fakeStore{tours: []model.Tour{tour}}
	docs := &fakeDocs{}
	dir := t.TempDir()
	e := testEngine(store, docs, Options{BackupDir: dir, DryRun: true})

	var planned []Result
	e.Report = func(r Result) { planned = append(planned, r) }

	sum, err := e.Push(context.Background())
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if sum.Created != 1 {
		t.Fatalf("dry run should still plan the create, got %+v", sum)
	}
	if len(docs.created) != 0 || len(docs.updated) != 0 {
		t.Fatal("dry run wrote to the document store")
	}
	if len(store.logs) != 0 {
		t.Fatal("dry run wrote to the sync log")
	}
	if len(store.linked) != 0 {
		t.Fatal("dry run linked a document")
	}
	if len(planned) != 1 || !planned[0].Planned {
		t.Fatalf("expected one planned result, got %+v", planned)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatal("dry run created backup files")
	}
}

func TestPushUnclassifiedTour(t *testing.T) {
	tour := dayTour()
	tour.TourType = "Adventure"
	tour.Duration = "Varies"
	store := &fakeStore{tours: []model.Tour{tour}}
	docs := &fakeDocs{}
	e := testEngine(store, docs, Options{
		DayToursDocID: "parent-day",
		MultiDayDocID: "parent-multi",
		BackupDir:     t.TempDir(),
	})

	sum, err := e.Push(context.Background())
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if sum.Skipped != 1 {
		t.Fatalf("unclassified tour must be skipped, got %+v", sum)
	}
	if store.logs[0].Details != "unclassified" {
		t.Fatalf("skip reason = %q", store.logs[0].Details)
	}

	e.Opts.AssumeMultiDay = true
	store.logs = nil
	sum, err = e.Push(context.Background())
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if sum.Created != 1 {
		t.Fatalf("expected create under assume-multiday, got %+v", sum)
	}
	if docs.created[0].ParentDocumentID != "parent-multi" {
		t.Fatalf("filed under %q", docs.created[0].ParentDocumentID)
	}
}

func TestPushSkipsTourWithoutSlug(t *testing.T) {
	tour := dayTour()
	tour.Slug = ""
	store := &fakeStore{tours: []model.Tour{tour}}
	docs := &fakeDocs{}
	e := testEngine(store, docs, Options{BackupDir: t.TempDir()})

	sum, err := e.Push(context.Background())
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if sum.Skipped != 1 {
		t.Fatalf("expected skip, got %+v", sum)
	}
	if store.logs[0].Details != "no_slug" {
		t.Fatalf("skip reason = %q", store.logs[0].Details)
	}
}

func TestPushStaleLinkRecreates(t *testing.T) {
	tour := dayTour()
	tour.OutlineDocID = "gone"
	store := &fakeStore{tours: []model.Tour{tour}}
	docs := &fakeDocs{}
	e := testEngine(store, docs, Options{DayToursDocID: "parent-day", BackupDir: t.TempDir()})

	sum, err := e.Push(context.Background())
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if sum.Created != 1 {
		t.Fatalf("stale link should recreate, got %+v", sum)
	}
	if store.linked[tour.ID] != "doc-1" {
		t.Fatalf("relink failed, got %q", store.linked[tour.ID])
	}
}

func TestPushContinuesAfterFailure(t *testing.T) {
	bad := dayTour()
	bad.ID = 1
	bad.Slug = "bad"
	bad.OutlineDocID = "doc-bad"
	good := dayTour()
	good.ID = 2
	good.Slug = "good"
	store := &fakeStore{tours: []model.Tour{bad, good}}
	docs := &fakeDocs{getErr: map[string]error{"doc-bad": errors.New("boom")}}
	e := testEngine(store, docs, Options{DayToursDocID: "parent-day", BackupDir: t.TempDir()})

	sum, err := e.Push(context.Background())
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if sum.Failed != 1 || sum.Created != 1 {
		t.Fatalf("expected 1 failed and 1 created, got %+v", sum)
	}
	if !sum.Failures() {
		t.Fatal("Failures() should report the error")
	}
	var failedLog *model.SyncEntry
	for i := range store.logs {
		if store.logs[i].Status == model.StatusFailed {
			failedLog = &store.logs[i]
		}
	}
	if failedLog == nil || failedLog.TourID != 1 || failedLog.ErrorMessage == "" {
		t.Fatalf("missing failure log entry: %+v", store.logs)
	}
}

func TestStripHeader(t *testing.T) {
	r := &template.Renderer{Now: testNow}
	tour := dayTour()

	plain := "Just some notes.\n\nMore notes.\n"
	if got := stripHeader(plain); got != strings.TrimSpace(plain) {
		t.Fatalf("unmarked document: got %q", got)
	}

	headerOnly := r.Header(&tour, nil, nil, nil)
	if got := stripHeader(headerOnly); got != "" {
		t.Fatalf("header-only document should have no body, got %q", got)
	}

	withBody := headerOnly + "\nOld guide wisdom.\n"
	if got := stripHeader(withBody); got != "Old guide wisdom." {
		t.Fatalf("got %q", got)
	}

	// Prepending twice must not stack headers.
	again := r.Header(&tour, nil, nil, nil)
	if legacy := stripHeader(withBody); legacy != "" {
		again += "\n" + legacy
	}
	if n := strings.Count(again, markers.Version); n != 1 {
		t.Fatalf("expected exactly one version marker, got %d", n)
	}
	if n := strings.Count(again, template.LegacyHeading); n != 1 {
		t.Fatalf("expected exactly one legacy heading, got %d", n)
	}
}
