package model

import (
	"database/sql"
	"strconv"
)

// Tour is the canonical record for one bookable product. Classification
// attributes come from the website export; narrative attributes may be
// edited in the document store and synced back.
type Tour struct {
	ID        int    `db:"id"`
	WebsiteID int    `db:"website_id"`
	Title     string `db:"title"`
	Slug      string `db:"slug"`
	Permalink string `db:"permalink"`

	TourType   string `db:"tour_type"`
	Region     string `db:"region"`
	Duration   string `db:"duration"`
	Season     string `db:"season"`
	Style      string `db:"style"`
	SkillLevel string `db:"skill_level"`

	Subtitle            string `db:"subtitle"`
	ShortDescription    string `db:"short_description"`
	Description         string `db:"description"`
	SpecialNotes        string `db:"special_notes"`
	Departs             string `db:"departs"`
	Distance            string `db:"distance"`
	ScheduledDates      string `db:"scheduled_dates"`
	MeetingTime         string `db:"meeting_time"`
	MeetingLocation     string `db:"meeting_location"`
	TourRating          string `db:"tour_rating"`
	Terrain             string `db:"terrain"`
	TechnicalDifficulty string `db:"technical_difficulty"`
	Altitude            string `db:"altitude"`
	ReservationLink     string `db:"reservation_link"`

	OutlineDocID    string       `db:"outline_doc_id"`
	LastOutlineSync sql.NullTime `db:"last_outline_sync"`

	ArcticID        int    `db:"arctic_id"`
	ArcticShortname string `db:"arctic_shortname"`
}

// Linked reports whether the tour has a remote document.
func (t *Tour) Linked() bool {
	return t.OutlineDocID != ""
}

// Field returns the value of a named synchronizable attribute, or ""
// when the name is unknown. Names match the marker grammar, not Go
// field names.
func (t *Tour) Field(name string) string {
	switch name {
	case "title":
		return t.Title
	case "subtitle":
		return t.Subtitle
	case "short_description":
		return t.ShortDescription
	case "description":
		return t.Description
	case "special_notes":
		return t.SpecialNotes
	case "meeting_time":
		return t.MeetingTime
	case "meeting_location":
		return t.MeetingLocation
	case "tour_rating":
		return t.TourRating
	case "terrain":
		return t.Terrain
	case "technical_difficulty":
		return t.TechnicalDifficulty
	case "altitude":
		return t.Altitude
	case "website_id":
		if t.WebsiteID == 0 {
			return ""
		}
		return strconv.Itoa(t.WebsiteID)
	case "slug":
		return t.Slug
	case "permalink":
		return t.Permalink
	case "tour_type":
		return t.TourType
	case "region":
		return t.Region
	case "duration":
		return t.Duration
	case "season":
		return t.Season
	case "style":
		return t.Style
	case "skill_level":
		return t.SkillLevel
	case "departs":
		return t.Departs
	case "distance":
		return t.Distance
	}
	return ""
}

// ItineraryDay is one day of a multi-day tour, unique per (tour, day number).
// Source records which ingestion path last wrote the row.
type ItineraryDay struct {
	TourID          int    `db:"tour_id"`
	DayNumber       int    `db:"day_number"`
	Miles           string `db:"miles"`
	Elevation       string `db:"elevation"`
	TrailsWaypoints string `db:"trails_waypoints"`
	CampLodging     string `db:"camp_lodging"`
	Meals           string `db:"meals"`
	Content         string `db:"content"`
	Source          string `db:"source"`
}

// PricingEntry is one system-generated price row, refreshed from the
// reservation system and never written by document parsing.
type PricingEntry struct {
	TourID        int    `db:"tour_id"`
	PricingType   string `db:"pricing_type"`
	Variant       string `db:"variant"`
	AmountDisplay string `db:"amount_display"`
}

// FeeEntry is one system-generated additional fee row.
type FeeEntry struct {
	TourID        int    `db:"tour_id"`
	FeeType       string `db:"fee_type"`
	AmountDisplay string `db:"amount_display"`
}
