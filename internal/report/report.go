// Package report audits the tour catalog for conditions that degrade
// or block syncing: tours that cannot be pushed, tours with no linked
// document, and itineraries with missing days.
package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/rimtours/toursync/internal/model"
	"github.com/rimtours/toursync/internal/sync"
)

// Issue kinds, roughly ordered by severity.
const (
	KindNoSlug       = "no_slug"
	KindNotLinked    = "not_linked"
	KindUnclassified = "unclassified"
	KindDayGap       = "day_gap"
)

// Issue is one problem found with one tour.
type Issue struct {
	TourID int
	Slug   string
	Title  string
	Kind   string
	Detail string
}

// Report is the outcome of a catalog audit.
type Report struct {
	Tours  int
	Linked int
	Issues []Issue
}

// Clean reports whether the audit found nothing to fix.
func (r *Report) Clean() bool { return len(r.Issues) == 0 }

// Store is the database surface the audit needs.
type Store interface {
	Tours(ctx context.Context) ([]model.Tour, error)
	ItineraryDays(ctx context.Context, tourID int) ([]model.ItineraryDay, error)
}

// Build audits every tour and returns the findings.
func Build(ctx context.Context, s Store) (*Report, error) {
	tours, err := s.Tours(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tours: %w", err)
	}

	r := &Report{Tours: len(tours)}
	for i := range tours {
		t := &tours[i]
		if t.Linked() {
			r.Linked++
		}

		if t.Slug == "" {
			r.add(t, KindNoSlug, "tour has no slug and can never be pushed")
			continue
		}
		if !t.Linked() {
			r.add(t, KindNotLinked, "tour has no linked document")
		}
		if sync.Classify(t) == sync.ClassUnknown {
			r.add(t, KindUnclassified, fmt.Sprintf("type %q and duration %q match neither day nor multi-day", t.TourType, t.Duration))
		}

		days, err := s.ItineraryDays(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("loading itinerary for tour %d: %w", t.ID, err)
		}
		for _, missing := range dayGaps(days) {
			r.add(t, KindDayGap, fmt.Sprintf("itinerary is missing day %d", missing))
		}
	}
	return r, nil
}

func (r *Report) add(t *model.Tour, kind, detail string) {
	r.Issues = append(r.Issues, Issue{
		TourID: t.ID,
		Slug:   t.Slug,
		Title:  t.Title,
		Kind:   kind,
		Detail: detail,
	})
}

// dayGaps returns the day numbers missing from an itinerary that should
// run contiguously from 1 to its highest day.
func dayGaps(days []model.ItineraryDay) []int {
	if len(days) == 0 {
		return nil
	}
	present := make(map[int]bool, len(days))
	max := 0
	for _, d := range days {
		present[d.DayNumber] = true
		if d.DayNumber > max {
			max = d.DayNumber
		}
	}
	var missing []int
	for n := 1; n <= max; n++ {
		if !present[n] {
			missing = append(missing, n)
		}
	}
	sort.Ints(missing)
	return missing
}
