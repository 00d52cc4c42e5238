package template

import (
	"fmt"
	"strings"
	"time"

	"github.com/rimtours/toursync/internal/markers"
	"github.com/rimtours/toursync/internal/model"
)

// LegacyHeading separates the rendered header from pre-existing
// free-form content preserved below it.
const LegacyHeading = "## 📜 Legacy Content"

const legacyNote = "> Previous content preserved below. Move relevant info to editable fields above."

// Renderer produces document text for a tour. Rendering is deterministic
// given identical input; the generation timestamp is the only moving
// part and comes from Now so tests can pin it.
type Renderer struct {
	Now func() time.Time
}

func (r *Renderer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Document renders the complete document for a tour, including title,
// subtitle, and sync footer. Missing optional data degrades to
// placeholders, never to an error.
func (r *Renderer) Document(t *model.Tour, days []model.ItineraryDay, pricing []model.PricingEntry, fees []model.FeeEntry) string {
	var b builder

	b.line("# " + t.Title)
	b.blank()
	if t.Subtitle != "" {
		b.line("*" + t.Subtitle + "*")
		b.blank()
	}
	b.line(markers.Version)
	b.blank()

	r.sections(&b, t, days, pricing, fees)

	b.line("---")
	b.line("*This document is synced with the tour database.*")
	b.line("*Last sync: " + r.now().Format("2006-01-02 15:04") + "*")

	return b.String()
}

// Header renders only the structured marker header, ending with the
// legacy-content heading. Push splices it above the pre-existing body of
// a document that predates the markers.
func (r *Renderer) Header(t *model.Tour, days []model.ItineraryDay, pricing []model.PricingEntry, fees []model.FeeEntry) string {
	var b builder

	b.line(markers.Version)
	b.blank()

	r.sections(&b, t, days, pricing, fees)

	b.line("---")
	b.line(LegacyHeading)
	b.line(legacyNote)
	b.blank()

	return b.String()
}

func (r *Renderer) sections(b *builder, t *model.Tour, days []model.ItineraryDay, pricing []model.PricingEntry, fees []model.FeeEntry) {
	for _, s := range Schema() {
		switch s.Kind {
		case SectionReference:
			renderReference(b, s, t)
		case SectionInfo:
			renderInfo(b, s, t)
		case SectionPricing:
			renderPricing(b, s, pricing, fees)
		case SectionSchedule:
			renderSchedule(b, s, t)
		case SectionFields:
			renderFields(b, s, t)
		case SectionItinerary:
			renderItinerary(b, s, days)
		}
	}
}

func sectionHead(b *builder, s Section) {
	b.line("---")
	b.line(s.Title)
	if s.Note != "" {
		b.line(s.Note)
	}
	b.blank()
}

func renderReference(b *builder, s Section, t *model.Tour) {
	sectionHead(b, s)
	b.line(markers.SystemOpen("details"))
	b.line("| System | Identifier |")
	b.line("|--------|------------|")
	b.line(fmt.Sprintf("| **Title** | %s |", t.Title))
	if t.Slug != "" {
		b.line(fmt.Sprintf("| **Slug** | `%s` |", t.Slug))
	}
	if t.WebsiteID != 0 {
		b.line(fmt.Sprintf("| **Website ID** | %d |", t.WebsiteID))
	}
	if t.ArcticShortname != "" {
		b.line(fmt.Sprintf("| **Arctic Shortname** | `%s` |", t.ArcticShortname))
	}
	if t.ArcticID != 0 {
		b.line(fmt.Sprintf("| **Arctic ID** | %d |", t.ArcticID))
	}
	b.line(markers.SystemClose())
	b.blank()
}

func renderInfo(b *builder, s Section, t *model.Tour) {
	sectionHead(b, s)
	items := []struct{ label, value string }{
		{"Tour Type", t.TourType},
		{"Region", t.Region},
		{"Duration", t.Duration},
		{"Season", t.Season},
		{"Style", t.Style},
		{"Skill Level", t.SkillLevel},
		{"Departs From", t.Departs},
		{"Distance", t.Distance},
	}
	for _, it := range items {
		if it.value != "" {
			b.line(fmt.Sprintf("- **%s:** %s", it.label, it.value))
		}
	}
	if t.Permalink != "" {
		b.line(fmt.Sprintf("- **Website:** [%s](%s)", t.Permalink, t.Permalink))
	}
	b.blank()
}

func renderPricing(b *builder, s Section, pricing []model.PricingEntry, fees []model.FeeEntry) {
	if len(pricing) == 0 && len(fees) == 0 {
		return
	}
	sectionHead(b, s)
	b.line(markers.SystemOpen("pricing"))
	for _, p := range pricing {
		label := titleCase(p.PricingType)
		if p.Variant != "" && p.Variant != "default" {
			label += " (" + p.Variant + ")"
		}
		b.line(fmt.Sprintf("- **%s:** %s", label, p.AmountDisplay))
	}
	if len(fees) > 0 {
		b.blank()
		b.line("**Additional Fees:**")
		for _, f := range fees {
			b.line(fmt.Sprintf("- %s: %s", titleCase(f.FeeType), f.AmountDisplay))
		}
	}
	b.line(markers.SystemClose())
	b.blank()
}

func renderSchedule(b *builder, s Section, t *model.Tour) {
	if t.ScheduledDates == "" {
		return
	}
	sectionHead(b, s)
	b.line(markers.SystemOpen("schedule"))
	b.line(t.ScheduledDates)
	b.line(markers.SystemClose())
	b.blank()
}

func renderFields(b *builder, s Section, t *model.Tour) {
	sectionHead(b, s)
	for _, f := range s.Fields {
		if f.Heading != "" {
			b.line(f.Heading)
		}
		b.line(markers.FieldOpen(f.Name))
		value := t.Field(f.Name)
		if value == "" {
			value = f.Placeholder
		}
		if f.Label != "" {
			b.line(fmt.Sprintf("**%s:** %s", f.Label, value))
		} else {
			b.line(value)
		}
		b.line(markers.FieldClose(f.Name))
		b.blank()
	}
}

func renderItinerary(b *builder, s Section, days []model.ItineraryDay) {
	if len(days) == 0 {
		return
	}
	sectionHead(b, s)
	for _, d := range days {
		b.line(fmt.Sprintf("### Day %d", d.DayNumber))
		b.line(markers.DayOpen(d.DayNumber))
		b.blank()
		for _, spec := range DaySchema() {
			value := dayValue(&d, spec.Label)
			if value == "" {
				value = spec.Placeholder
			}
			b.line(fmt.Sprintf("**%s:** %s", spec.Label, value))
		}
		b.blank()
		if d.Content != "" {
			b.line(d.Content)
		} else {
			b.line(DayContentPlaceholder)
		}
		b.blank()
		b.line(markers.DayClose(d.DayNumber))
		b.blank()
	}
}

// dayValue maps a day sub-field label to its model value.
func dayValue(d *model.ItineraryDay, label string) string {
	switch label {
	case "Miles":
		return d.Miles
	case "Elevation":
		return d.Elevation
	case "Route":
		return d.TrailsWaypoints
	case "Lodging":
		return d.CampLodging
	case "Meals":
		return d.Meals
	}
	return ""
}

// setDayValue is the parse-side inverse of dayValue.
func setDayValue(d *model.ItineraryDay, label, value string) {
	switch label {
	case "Miles":
		d.Miles = value
	case "Elevation":
		d.Elevation = value
	case "Route":
		d.TrailsWaypoints = value
	case "Lodging":
		d.CampLodging = value
	case "Meals":
		d.Meals = value
	}
}

// titleCase turns snake_case identifiers into display labels
// ("per_person" -> "Per Person").
func titleCase(s string) string {
	words := strings.Split(strings.ReplaceAll(s, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

type builder struct {
	b strings.Builder
}

func (b *builder) line(s string) {
	b.b.WriteString(s)
	b.b.WriteByte('\n')
}

func (b *builder) blank() { b.b.WriteByte('\n') }

func (b *builder) String() string { return b.b.String() }
