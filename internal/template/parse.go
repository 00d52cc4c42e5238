package template

import (
	"regexp"
	"strings"

	"github.com/rimtours/toursync/internal/markers"
	"github.com/rimtours/toursync/internal/model"
)

// ParsedDoc is the structured result of parsing document text. Fields
// holds every marker-recovered value keyed by field name; placeholder
// values are excluded so a pull never overwrites real data with a
// rendered default. Days appear in document order.
type ParsedDoc struct {
	Fields map[string]string
	Days   []model.ItineraryDay
}

var labelRe = regexp.MustCompile(`\*\*([^*]+):\*\*\s*(.+)`)

// Parse extracts editable field values and itinerary days from document
// text. Parsing is total: malformed input yields empty results, never an
// error. Ownership filtering is the caller's job; Parse returns whatever
// the markers recover, including field names the registry would reject.
func Parse(text string) *ParsedDoc {
	doc := &ParsedDoc{Fields: make(map[string]string)}
	for _, blk := range markers.Tokenize(text) {
		switch blk.Kind {
		case markers.KindField:
			if value, ok := parseField(blk); ok {
				doc.Fields[blk.Name] = value
			}
		case markers.KindDay:
			doc.Days = append(doc.Days, parseDay(blk))
		}
	}
	return doc
}

// parseField recovers a field value from its block body. Labeled fields
// take the text after their bold label; a value equal to the field's
// placeholder counts as not provided.
func parseField(blk markers.Block) (string, bool) {
	value := strings.TrimSpace(blk.Body)
	spec, known := FieldByName(blk.Name)
	if known && spec.Label != "" {
		if m := labelRe.FindStringSubmatch(value); m != nil {
			value = strings.TrimSpace(m[2])
		}
	}
	if value == "" {
		return "", false
	}
	if known && value == spec.Placeholder {
		return "", false
	}
	return value, true
}

// parseDay recovers an itinerary day from its block body. Labeled
// sub-values are matched by label, not position, since manual edits may
// reorder them; everything else becomes the day's free-text content.
func parseDay(blk markers.Block) model.ItineraryDay {
	day := model.ItineraryDay{DayNumber: blk.Day}
	placeholders := make(map[string]string, len(DaySchema()))
	labels := make(map[string]bool, len(DaySchema()))
	for _, spec := range DaySchema() {
		labels[spec.Label] = true
		placeholders[spec.Label] = spec.Placeholder
	}

	var content []string
	for _, line := range strings.Split(blk.Body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		// Older documents joined day stats on one line with " | ".
		var prose []string
		for _, segment := range strings.Split(trimmed, " | ") {
			segment = strings.TrimSpace(segment)
			if segment == "" {
				continue
			}
			m := labelRe.FindStringSubmatch(segment)
			if m != nil && labels[strings.TrimSpace(m[1])] {
				label := strings.TrimSpace(m[1])
				value := strings.TrimSpace(m[2])
				if value != "" && value != placeholders[label] {
					setDayValue(&day, label, value)
				}
				continue
			}
			prose = append(prose, segment)
		}
		if len(prose) > 0 {
			content = append(content, strings.Join(prose, " | "))
		}
	}

	text := strings.TrimSpace(strings.Join(content, "\n"))
	if text != DayContentPlaceholder {
		day.Content = text
	}
	return day
}
