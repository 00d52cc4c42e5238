package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rimtours/toursync/internal/model"
	"github.com/rimtours/toursync/internal/ownership"
)

const tourColumns = `
	t.id,
	COALESCE(t.website_id, 0) AS website_id,
	COALESCE(t.title, '') AS title,
	COALESCE(t.slug, '') AS slug,
	COALESCE(t.permalink, '') AS permalink,
	COALESCE(t.tour_type, '') AS tour_type,
	COALESCE(t.region, '') AS region,
	COALESCE(t.duration, '') AS duration,
	COALESCE(t.season, '') AS season,
	COALESCE(t.style, '') AS style,
	COALESCE(t.skill_level, '') AS skill_level,
	COALESCE(t.subtitle, '') AS subtitle,
	COALESCE(t.short_description, '') AS short_description,
	COALESCE(t.description, '') AS description,
	COALESCE(t.special_notes, '') AS special_notes,
	COALESCE(t.departs, '') AS departs,
	COALESCE(t.distance, '') AS distance,
	COALESCE(t.scheduled_dates, '') AS scheduled_dates,
	COALESCE(t.meeting_time, '') AS meeting_time,
	COALESCE(t.meeting_location, '') AS meeting_location,
	COALESCE(t.tour_rating, '') AS tour_rating,
	COALESCE(t.terrain, '') AS terrain,
	COALESCE(t.technical_difficulty, '') AS technical_difficulty,
	COALESCE(t.altitude, '') AS altitude,
	COALESCE(t.reservation_link, '') AS reservation_link,
	COALESCE(t.outline_doc_id, '') AS outline_doc_id,
	t.last_outline_sync,
	COALESCE(t.arctic_id, 0) AS arctic_id,
	COALESCE(t.arctic_shortname, '') AS arctic_shortname`

// Tours returns all tours ordered by title.
func (s *Store) Tours(ctx context.Context) ([]model.Tour, error) {
	tours := []model.Tour{}
	query := "SELECT" + tourColumns + " FROM tours t ORDER BY t.title"
	if err := s.db.SelectContext(ctx, &tours, query); err != nil {
		return nil, fmt.Errorf("fetching tours: %w", err)
	}
	return tours, nil
}

// ItineraryDays returns the itinerary for a tour ordered by day number.
func (s *Store) ItineraryDays(ctx context.Context, tourID int) ([]model.ItineraryDay, error) {
	days := []model.ItineraryDay{}
	err := s.db.SelectContext(ctx, &days, `
		SELECT tour_id, day_number,
		       COALESCE(miles, '') AS miles,
		       COALESCE(elevation, '') AS elevation,
		       COALESCE(trails_waypoints, '') AS trails_waypoints,
		       COALESCE(camp_lodging, '') AS camp_lodging,
		       COALESCE(meals, '') AS meals,
		       COALESCE(content, '') AS content,
		       COALESCE(source, '') AS source
		FROM tour_itinerary_days
		WHERE tour_id = $1
		ORDER BY day_number`, tourID)
	if err != nil {
		return nil, fmt.Errorf("fetching itinerary for tour %d: %w", tourID, err)
	}
	return days, nil
}

// Pricing returns the system-generated price rows for a tour.
func (s *Store) Pricing(ctx context.Context, tourID int) ([]model.PricingEntry, error) {
	entries := []model.PricingEntry{}
	err := s.db.SelectContext(ctx, &entries, `
		SELECT tour_id, pricing_type,
		       COALESCE(variant, '') AS variant,
		       COALESCE(amount_display, '') AS amount_display
		FROM tour_pricing
		WHERE tour_id = $1
		ORDER BY pricing_type, variant`, tourID)
	if err != nil {
		return nil, fmt.Errorf("fetching pricing for tour %d: %w", tourID, err)
	}
	return entries, nil
}

// Fees returns the system-generated fee rows for a tour.
func (s *Store) Fees(ctx context.Context, tourID int) ([]model.FeeEntry, error) {
	entries := []model.FeeEntry{}
	err := s.db.SelectContext(ctx, &entries, `
		SELECT tour_id, fee_type,
		       COALESCE(amount_display, '') AS amount_display
		FROM tour_fees
		WHERE tour_id = $1
		ORDER BY fee_type`, tourID)
	if err != nil {
		return nil, fmt.Errorf("fetching fees for tour %d: %w", tourID, err)
	}
	return entries, nil
}

// LinkDocument records the remote document id for a tour and stamps the
// sync time.
func (s *Store) LinkDocument(ctx context.Context, tourID int, docID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE tours
		SET outline_doc_id = $1, last_outline_sync = CURRENT_TIMESTAMP
		WHERE id = $2`, docID, tourID)
	if err != nil {
		return fmt.Errorf("linking tour %d to document %s: %w", tourID, docID, err)
	}
	return nil
}

// UpdateSchedule rewrites a tour's rendered availability table.
func (s *Store) UpdateSchedule(ctx context.Context, tourID int, scheduledDates string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE tours
		SET scheduled_dates = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2`, scheduledDates, tourID)
	if err != nil {
		return fmt.Errorf("updating schedule for tour %d: %w", tourID, err)
	}
	return nil
}

// ApplyPull writes pulled editable fields and itinerary days for one
// tour in a single transaction, so a mid-failure never leaves the tour
// half-updated. Field names that are not editable are ignored here as a
// second line of defense; the engine filters them first. Days are
// replaced whole by (tour, day number), never merged field by field.
func (s *Store) ApplyPull(ctx context.Context, tourID int, fields map[string]string, days []model.ItineraryDay) (fieldsUpdated, daysUpdated int, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("beginning pull transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	set := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields)+1)
	for name, value := range fields {
		if !ownership.IsEditable(name) {
			continue
		}
		set = append(set, fmt.Sprintf("%s = $%d", name, len(args)+1))
		args = append(args, value)
	}
	if len(set) > 0 {
		args = append(args, tourID)
		query := fmt.Sprintf(
			"UPDATE tours SET %s, last_outline_sync = CURRENT_TIMESTAMP WHERE id = $%d",
			strings.Join(set, ", "), len(args))
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return 0, 0, fmt.Errorf("updating tour %d fields: %w", tourID, err)
		}
		fieldsUpdated = len(set)
	}

	for _, d := range days {
		if d.DayNumber <= 0 {
			continue
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tour_itinerary_days (
				tour_id, day_number, miles, elevation,
				trails_waypoints, camp_lodging, meals, content, source
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'outline')
			ON CONFLICT (tour_id, day_number) DO UPDATE SET
				miles = EXCLUDED.miles,
				elevation = EXCLUDED.elevation,
				trails_waypoints = EXCLUDED.trails_waypoints,
				camp_lodging = EXCLUDED.camp_lodging,
				meals = EXCLUDED.meals,
				content = EXCLUDED.content,
				source = 'outline',
				updated_at = CURRENT_TIMESTAMP`,
			tourID, d.DayNumber, d.Miles, d.Elevation,
			d.TrailsWaypoints, d.CampLodging, d.Meals, d.Content)
		if err != nil {
			return 0, 0, fmt.Errorf("upserting tour %d day %d: %w", tourID, d.DayNumber, err)
		}
		daysUpdated++
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("committing pull for tour %d: %w", tourID, err)
	}
	return fieldsUpdated, daysUpdated, nil
}

// ReplacePricing swaps a tour's pricing and fee rows for the given set
// in one transaction. Refreshing is replace, not merge: rows no longer
// present in the reservation system disappear here too.
func (s *Store) ReplacePricing(ctx context.Context, tourID int, pricing []model.PricingEntry, fees []model.FeeEntry) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning pricing refresh: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM tour_pricing WHERE tour_id = $1", tourID); err != nil {
		return fmt.Errorf("clearing pricing for tour %d: %w", tourID, err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM tour_fees WHERE tour_id = $1", tourID); err != nil {
		return fmt.Errorf("clearing fees for tour %d: %w", tourID, err)
	}
	for _, p := range pricing {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tour_pricing (tour_id, pricing_type, variant, amount_display)
			VALUES ($1, $2, $3, $4)`,
			tourID, p.PricingType, p.Variant, p.AmountDisplay)
		if err != nil {
			return fmt.Errorf("inserting pricing for tour %d: %w", tourID, err)
		}
	}
	for _, f := range fees {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tour_fees (tour_id, fee_type, amount_display)
			VALUES ($1, $2, $3)`,
			tourID, f.FeeType, f.AmountDisplay)
		if err != nil {
			return fmt.Errorf("inserting fee for tour %d: %w", tourID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing pricing refresh for tour %d: %w", tourID, err)
	}
	return nil
}
