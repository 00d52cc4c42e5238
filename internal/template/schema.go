// Package template defines the structured document model shared by the
// renderer and the parser: one ordered list of typed sections naming
// every field block, its label, and its placeholder. Both directions of
// the sync read this schema, so marker names can never drift apart.
package template

// SectionKind distinguishes how a section renders and who owns it.
type SectionKind int

const (
	// SectionReference renders the cross-system identifier table inside
	// the ARCTIC_SYNC:details markers.
	SectionReference SectionKind = iota
	// SectionInfo renders classification attributes as plain read-only
	// text with no markers, so a pull can never extract them.
	SectionInfo
	// SectionPricing renders pricing and fees inside ARCTIC_SYNC:pricing.
	SectionPricing
	// SectionSchedule renders scheduled dates inside ARCTIC_SYNC:schedule.
	SectionSchedule
	// SectionFields renders a group of editable field blocks.
	SectionFields
	// SectionItinerary renders the ordered itinerary day blocks.
	SectionItinerary
)

// FieldSpec describes one editable field block.
type FieldSpec struct {
	Name        string // marker name, e.g. "short_description"
	Heading     string // markdown heading rendered before the block, "" for none
	Label       string // bold label inside the block ("Time" -> "**Time:** value"), "" for bare prose
	Placeholder string // rendered when the value is absent; parsed back as absence
}

// Section is one ordered region of the rendered document.
type Section struct {
	Kind   SectionKind
	Title  string // markdown heading
	Note   string // blockquote instruction line under the heading
	Fields []FieldSpec
}

const editableNote = "> ✅ **Editable Section** - Edit content between the markers. Changes sync back to the database."

// Schema returns the canonical ordered document sections.
func Schema() []Section {
	return []Section{
		{
			Kind:  SectionReference,
			Title: "## 🔗 Reference IDs",
			Note:  "> ⚠️ **Read-Only** - Cross-system identifiers for this tour.",
		},
		{
			Kind:  SectionInfo,
			Title: "## 📋 Tour Information",
			Note:  "> ⚠️ **Read-Only Section** - This data comes from the website and cannot be edited here.",
		},
		{
			Kind:  SectionPricing,
			Title: "## 💰 Pricing",
			Note:  "> ⚠️ **Read-Only Section** - Pricing is managed in Arctic Reservations.",
		},
		{
			Kind:  SectionSchedule,
			Title: "## 🗓️ Schedule",
			Note:  "> ⚠️ **Read-Only Section** - Dates are managed in Arctic Reservations.",
		},
		{
			Kind:  SectionFields,
			Title: "## ✏️ Description",
			Note:  editableNote,
			Fields: []FieldSpec{
				{Name: "title", Heading: "### Title & Subtitle", Label: "Title", Placeholder: "_Not specified_"},
				{Name: "subtitle", Label: "Subtitle", Placeholder: "_Not specified_"},
				{Name: "short_description", Heading: "### Short Description", Placeholder: "_No short description yet._"},
				{Name: "description", Heading: "### Full Description", Placeholder: "_No description yet._"},
				{Name: "special_notes", Heading: "### Special Notes", Placeholder: "_Any special notes or requirements._"},
			},
		},
		{
			Kind:  SectionFields,
			Title: "## ✏️ Trip Details",
			Note:  editableNote,
			Fields: []FieldSpec{
				{Name: "meeting_time", Heading: "### Meeting Information", Label: "Time", Placeholder: "_Not specified_"},
				{Name: "meeting_location", Label: "Location", Placeholder: "_Not specified_"},
				{Name: "tour_rating", Heading: "### Difficulty & Terrain", Label: "Tour Rating", Placeholder: "_Not specified_"},
				{Name: "terrain", Label: "Terrain", Placeholder: "_Not specified_"},
				{Name: "technical_difficulty", Label: "Technical Difficulty", Placeholder: "_Not specified_"},
				{Name: "altitude", Label: "Altitude", Placeholder: "_Not specified_"},
			},
		},
		{
			Kind:  SectionItinerary,
			Title: "## ✏️ Day-by-Day Itinerary",
			Note:  editableNote,
		},
	}
}

// FieldByName looks a field spec up across all sections.
func FieldByName(name string) (FieldSpec, bool) {
	for _, s := range Schema() {
		for _, f := range s.Fields {
			if f.Name == name {
				return f, true
			}
		}
	}
	return FieldSpec{}, false
}

// DaySpec describes one labeled sub-field of an itinerary day block.
type DaySpec struct {
	Label       string // bold label, e.g. "Miles"
	Placeholder string
}

// DayContentPlaceholder fills an itinerary day block with no prose.
const DayContentPlaceholder = "_Day description._"

// DaySchema returns the ordered labeled sub-fields of a day block.
// Free prose inside the block that matches no label is the day content.
func DaySchema() []DaySpec {
	return []DaySpec{
		{Label: "Miles", Placeholder: "_TBD_"},
		{Label: "Elevation", Placeholder: "_TBD_"},
		{Label: "Route", Placeholder: "_TBD_"},
		{Label: "Lodging", Placeholder: "_TBD_"},
		{Label: "Meals", Placeholder: "_TBD_"},
	}
}
