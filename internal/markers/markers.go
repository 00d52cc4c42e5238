// Package markers tokenizes marker-delimited blocks in document text.
// The grammar is shared with legacy documents and must stay stable:
//
//	<!-- FIELD:{name} -->        ... <!-- /FIELD:{name} -->
//	<!-- ITINERARY_DAY:{n} -->   ... <!-- /ITINERARY_DAY:{n} -->
//	<!-- ARCTIC_SYNC:{section} --> ... <!-- /ARCTIC_SYNC -->
//
// Tokenizing is total: malformed, unterminated, or mismatched pairs
// yield no block rather than an error.
package markers

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies the marker pair a block was delimited by.
type Kind int

const (
	KindField Kind = iota
	KindDay
	KindSystem
)

// Block is one well-formed marker-delimited region.
type Block struct {
	Kind Kind
	Name string // field name or system section name
	Day  int    // day number, set for KindDay
	Body string // raw inner text, markers excluded
}

// Version is written by the renderer so later parses can detect
// pre-marker documents without heading-text heuristics.
const Version = "<!-- TOURSYNC:v2 -->"

// FieldOpen returns the opening marker for an editable field block.
func FieldOpen(name string) string { return "<!-- FIELD:" + name + " -->" }

// FieldClose returns the closing marker for an editable field block.
func FieldClose(name string) string { return "<!-- /FIELD:" + name + " -->" }

// DayOpen returns the opening marker for an itinerary day block.
func DayOpen(n int) string { return "<!-- ITINERARY_DAY:" + strconv.Itoa(n) + " -->" }

// DayClose returns the closing marker for an itinerary day block.
func DayClose(n int) string { return "<!-- /ITINERARY_DAY:" + strconv.Itoa(n) + " -->" }

// SystemOpen returns the opening marker for a machine-owned section.
// Valid sections are pricing, schedule, and details.
func SystemOpen(section string) string { return "<!-- ARCTIC_SYNC:" + section + " -->" }

// SystemClose returns the closing marker for a machine-owned section.
func SystemClose() string { return "<!-- /ARCTIC_SYNC -->" }

var (
	fieldOpenRe  = regexp.MustCompile(`^<!--\s*FIELD:(\w+)\s*-->$`)
	fieldCloseRe = regexp.MustCompile(`^<!--\s*/FIELD:(\w+)\s*-->$`)
	dayOpenRe    = regexp.MustCompile(`^<!--\s*ITINERARY_DAY:(\d+)\s*-->$`)
	dayCloseRe   = regexp.MustCompile(`^<!--\s*/ITINERARY_DAY:(\d+)\s*-->$`)
	sysOpenRe    = regexp.MustCompile(`^<!--\s*ARCTIC_SYNC:(\w+)\s*-->$`)
	sysCloseRe   = regexp.MustCompile(`^<!--\s*/ARCTIC_SYNC\s*-->$`)
)

// HasMarkers reports whether text was already structured by the renderer:
// either it carries the version marker, or it contains at least one
// well-formed field block (documents written before the version marker).
func HasMarkers(text string) bool {
	if strings.Contains(text, "<!-- TOURSYNC:") {
		return true
	}
	for _, b := range Tokenize(text) {
		if b.Kind == KindField {
			return true
		}
	}
	return false
}

type openMarker struct {
	kind Kind
	name string
	day  int
}

// matchOpen recognizes any opening marker on a trimmed line.
func matchOpen(line string) (openMarker, bool) {
	if m := fieldOpenRe.FindStringSubmatch(line); m != nil {
		return openMarker{kind: KindField, name: m[1]}, true
	}
	if m := dayOpenRe.FindStringSubmatch(line); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return openMarker{}, false
		}
		return openMarker{kind: KindDay, name: m[1], day: n}, true
	}
	if m := sysOpenRe.FindStringSubmatch(line); m != nil {
		return openMarker{kind: KindSystem, name: m[1]}, true
	}
	return openMarker{}, false
}

// matchClose reports whether a trimmed line closes the given open marker.
// The second result is true when the line is a close marker of the same
// kind but with a mismatched name, which invalidates the open block.
func matchClose(line string, open openMarker) (closed, mismatched bool) {
	switch open.kind {
	case KindField:
		if m := fieldCloseRe.FindStringSubmatch(line); m != nil {
			return m[1] == open.name, m[1] != open.name
		}
	case KindDay:
		if m := dayCloseRe.FindStringSubmatch(line); m != nil {
			return m[1] == open.name, m[1] != open.name
		}
	case KindSystem:
		if sysCloseRe.MatchString(line) {
			return true, false
		}
	}
	return false, false
}

// Tokenize extracts every well-formed marker block from text, in order
// of appearance. An opening marker encountered inside an unclosed block
// drops the unclosed block and starts a new one; a mismatched close
// marker drops the block it fails to close.
func Tokenize(text string) []Block {
	lines := strings.Split(text, "\n")
	var blocks []Block
	var open *openMarker
	var buf strings.Builder

	begin := func(m openMarker) {
		o := m
		open = &o
		buf.Reset()
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if open != nil {
			closed, mismatched := matchClose(trimmed, *open)
			if closed {
				blocks = append(blocks, Block{
					Kind: open.kind,
					Name: open.name,
					Day:  open.day,
					Body: buf.String(),
				})
				open = nil
				buf.Reset()
				continue
			}
			if mismatched {
				open = nil
				buf.Reset()
				continue
			}
			if m, ok := matchOpen(trimmed); ok {
				begin(m)
				continue
			}
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(line)
			continue
		}

		if m, ok := matchOpen(trimmed); ok {
			begin(m)
		}
	}

	return blocks
}
