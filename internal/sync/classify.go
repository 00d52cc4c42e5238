package sync

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rimtours/toursync/internal/model"
)

// Classification decides which parent document a new tour document is
// filed under.
type Classification int

const (
	ClassUnknown Classification = iota
	ClassDay
	ClassMultiDay
)

func (c Classification) String() string {
	switch c {
	case ClassDay:
		return "day"
	case ClassMultiDay:
		return "multi-day"
	}
	return "unknown"
}

var nDayRe = regexp.MustCompile(`(\d+)[ -]day`)

// Classify decides whether a tour is a day tour or a multi-day tour
// from its type and duration strings. Tours that match neither stay
// unclassified rather than being guessed at.
func Classify(t *model.Tour) Classification {
	tt := strings.ToLower(t.TourType)
	switch {
	case strings.Contains(tt, "multi-day"), strings.Contains(tt, "multi day"):
		return ClassMultiDay
	case strings.Contains(tt, "day tour"), strings.Contains(tt, "day-tour"):
		return ClassDay
	}

	dur := strings.ToLower(t.Duration)
	for _, hint := range []string{"half day", "half-day", "full day", "full-day", "1 day", "1-day"} {
		if strings.Contains(dur, hint) {
			return ClassDay
		}
	}
	if m := nDayRe.FindStringSubmatch(dur); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			if n >= 2 {
				return ClassMultiDay
			}
			return ClassDay
		}
	}
	return ClassUnknown
}
