// Package ownership classifies every synchronizable tour attribute by
// which side of the sync is allowed to write it. The registry is static:
// the renderer consults it to decide which fields get editable markers,
// and the pull path consults it to filter parsed values before anything
// is persisted.
package ownership

// Class is the ownership classification of a field.
type Class int

const (
	// System fields are machine-generated (pricing, schedule, reference
	// identifiers). They are never written by document parsing. Unknown
	// field names classify as System so they can never be persisted.
	System Class = iota
	// Editable fields may be changed in the document store and synced
	// back to the canonical store.
	Editable
	// ReadOnly fields are displayed in documents as plain text but owned
	// by another ingestion path.
	ReadOnly
)

func (c Class) String() string {
	switch c {
	case Editable:
		return "editable"
	case ReadOnly:
		return "read-only"
	default:
		return "system"
	}
}

var editable = map[string]bool{
	"title":                true,
	"subtitle":             true,
	"short_description":    true,
	"description":          true,
	"special_notes":        true,
	"meeting_time":         true,
	"meeting_location":     true,
	"tour_rating":          true,
	"terrain":              true,
	"technical_difficulty": true,
	"altitude":             true,
}

var readOnly = map[string]bool{
	"website_id":  true,
	"slug":        true,
	"permalink":   true,
	"tour_type":   true,
	"region":      true,
	"duration":    true,
	"season":      true,
	"style":       true,
	"skill_level": true,
	"departs":     true,
	"distance":    true,
}

// Classify returns the ownership class for a field name. Names not in
// the registry are System.
func Classify(field string) Class {
	if editable[field] {
		return Editable
	}
	if readOnly[field] {
		return ReadOnly
	}
	return System
}

// IsEditable reports whether a pull is allowed to write the field.
func IsEditable(field string) bool {
	return editable[field]
}

// FilterEditable returns the subset of fields that a pull may persist,
// plus the names that were dropped. Dropping is expected defensive
// behavior, not an error.
func FilterEditable(fields map[string]string) (map[string]string, []string) {
	kept := make(map[string]string, len(fields))
	var dropped []string
	for name, value := range fields {
		if editable[name] {
			kept[name] = value
		} else {
			dropped = append(dropped, name)
		}
	}
	return kept, dropped
}
