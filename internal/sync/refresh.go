package sync

import (
	"context"
	"fmt"
	"strings"

	"github.com/rimtours/toursync/internal/arctic"
	"github.com/rimtours/toursync/internal/model"
)

// Refresh replaces each tour's pricing and fee rows with fresh data
// from the reservation system, and rewrites its scheduled-dates
// availability table from upcoming departures. Both are system-owned
// end to end, so the replacement is wholesale rather than a merge.
func (e *Engine) Refresh(ctx context.Context) (*Summary, error) {
	tours, err := e.Store.Tours(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tours: %w", err)
	}

	sum := &Summary{}
	for i := range tours {
		r := e.refreshTour(ctx, &tours[i])
		e.finish(ctx, model.OpRefresh, r, sum)
	}
	return sum, nil
}

func (e *Engine) refreshTour(ctx context.Context, t *model.Tour) Result {
	if t.ArcticID == 0 {
		return skipped(t, "no_arctic_id")
	}

	summary, err := e.Pricer.Pricing(ctx, t.ArcticID)
	if err != nil {
		return failed(t, err)
	}
	deps, err := e.Pricer.Schedule(ctx, t.ArcticID, e.now())
	if err != nil {
		return failed(t, err)
	}

	var pricing []model.PricingEntry
	for _, level := range summary.Levels {
		pricing = append(pricing, model.PricingEntry{
			TourID:        t.ID,
			PricingType:   snakeCase(level.Name),
			Variant:       "default",
			AmountDisplay: level.AmountDisplay,
		})
	}
	var fees []model.FeeEntry
	if summary.Deposit != nil {
		fees = append(fees, model.FeeEntry{
			TourID:        t.ID,
			FeeType:       "deposit",
			AmountDisplay: summary.Deposit.AmountDisplay,
		})
	}

	if len(pricing) == 0 && len(fees) == 0 && len(deps) == 0 {
		return skipped(t, "no_pricing")
	}

	if e.Opts.DryRun {
		return Result{
			TourID: t.ID, Title: t.Title, Slug: t.Slug,
			Action: ActionUpdated,
			Fields: len(pricing), Days: len(fees),
			Planned: true,
		}
	}

	if err := e.Store.ReplacePricing(ctx, t.ID, pricing, fees); err != nil {
		return failed(t, err)
	}
	if err := e.Store.UpdateSchedule(ctx, t.ID, arctic.FormatSchedule(deps)); err != nil {
		return failed(t, err)
	}
	return Result{
		TourID: t.ID, Title: t.Title, Slug: t.Slug,
		Action: ActionUpdated,
		Fields: len(pricing), Days: len(fees),
	}
}

func snakeCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '/':
			return '_'
		}
		return r
	}, s)
}
