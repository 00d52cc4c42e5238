package arctic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Departure is one scheduled instance of a trip type.
type Departure struct {
	TripID         int    `json:"id"`
	StartDate      string `json:"start"`
	EndDate        string `json:"end"`
	SpotsAvailable int    `json:"remainingopenings"`
	SpotsTotal     int    `json:"openings"`
	Canceled       bool   `json:"canceled"`
}

// queryPaginated walks a query endpoint with start/number pagination,
// which the trip listing uses instead of page numbers.
func (c *Client) queryPaginated(ctx context.Context, endpoint, query string) ([]json.RawMessage, error) {
	const pageSize = 50
	var all []json.RawMessage
	for start := 0; ; start += pageSize {
		params := url.Values{
			"query":  {query},
			"start":  {strconv.Itoa(start)},
			"number": {strconv.Itoa(pageSize)},
		}
		var p page
		if err := c.get(ctx, endpoint, params, &p); err != nil {
			return nil, err
		}
		all = append(all, p.Entries...)
		if len(p.Entries) < pageSize {
			return all, nil
		}
	}
}

// Schedule returns the future departures for a trip type, sorted by
// start date. Canceled, undated, and already-departed trips are
// dropped; from is compared by calendar date.
func (c *Client) Schedule(ctx context.Context, tripTypeID int, from time.Time) ([]Departure, error) {
	query := fmt.Sprintf("triptypeid = %d AND canceled = false", tripTypeID)
	raw, err := c.queryPaginated(ctx, "trip", query)
	if err != nil {
		return nil, err
	}

	day := from.Truncate(24 * time.Hour)
	var deps []Departure
	for _, entry := range raw {
		var d Departure
		if err := json.Unmarshal(entry, &d); err != nil {
			return nil, fmt.Errorf("arctic: decoding trip entry: %w", err)
		}
		if d.Canceled || d.StartDate == "" {
			continue
		}
		start, err := time.Parse("2006-01-02", d.StartDate)
		if err != nil {
			continue
		}
		if start.Before(day) {
			continue
		}
		deps = append(deps, d)
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].StartDate < deps[j].StartDate })
	return deps, nil
}

// FormatSchedule renders departures as the markdown availability table
// written into document schedule sections. The table caps at the next
// 30 dates.
func FormatSchedule(deps []Departure) string {
	if len(deps) == 0 {
		return "No upcoming dates scheduled."
	}

	lines := []string{
		"| Date | Spots | Status |",
		"|------|-------|--------|",
	}
	shown := deps
	if len(shown) > 30 {
		shown = shown[:30]
	}
	for _, d := range shown {
		date := d.StartDate
		if t, err := time.Parse("2006-01-02", d.StartDate); err == nil {
			date = t.Format("Jan 02, 2006")
		}
		booked := d.SpotsTotal - d.SpotsAvailable
		var status string
		switch {
		case d.SpotsAvailable == 0:
			status = "🔴 Full"
		case d.SpotsAvailable <= 3:
			status = "🟡 Limited"
		case booked == 0:
			status = "⚪ Open"
		default:
			status = "🟢 Available"
		}
		lines = append(lines, fmt.Sprintf("| %s | %d/%d | %s |", date, d.SpotsAvailable, d.SpotsTotal, status))
	}
	if len(deps) > 30 {
		lines = append(lines, fmt.Sprintf("| ... | +%d more | |", len(deps)-30))
	}
	return strings.Join(lines, "\n")
}
