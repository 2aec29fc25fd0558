// Package narrative mines journal transcripts for dates, biographical facts
// and health intents, and generates follow-up questions for the next turn of
// a reminiscence session. Rules are ordered tables; earlier entries win.
package narrative

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"memory-companion-go/internal/types"
)

const monthPattern = `January|February|March|April|May|June|July|August|September|October|November|December`

var (
	yearRe     = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	fullDateRe = regexp.MustCompile(`(?i)\b(` + monthPattern + `)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	relativeRe = regexp.MustCompile(`(?i)\b(?:in|during|around|by|before|after)\s+(\d{4})\b`)

	monthYearRe = regexp.MustCompile(`(?i)^(` + monthPattern + `)\s+(\d{4})$`)
	bareYearRe  = regexp.MustCompile(`^\d{4}$`)
)

// dateRule turns one regex match into an ExtractedDate.
type dateRule struct {
	re      *regexp.Regexp
	resolve func(m []string) types.ExtractedDate
}

// dateRules run in order; a later rule resolving to an already seen date is
// dropped, so the higher-confidence reading of a mention is kept.
var dateRules = []dateRule{
	{re: yearRe, resolve: func(m []string) types.ExtractedDate {
		return yearDate(m[0], m[1], types.ConfidenceHigh)
	}},
	{re: fullDateRe, resolve: func(m []string) types.ExtractedDate {
		t, ok := calendarDate(m[3], m[1], m[2])
		if !ok {
			return types.ExtractedDate{Text: m[0], Confidence: types.ConfidenceLow}
		}
		return types.ExtractedDate{Text: m[0], Date: &t, Confidence: types.ConfidenceHigh}
	}},
	{re: relativeRe, resolve: func(m []string) types.ExtractedDate {
		return yearDate(m[0], m[1], types.ConfidenceMedium)
	}},
}

// ExtractDates returns every date mentioned in text, deduplicated by resolved
// calendar day. Mentions that cannot be resolved are deduplicated by text.
func ExtractDates(text string) []types.ExtractedDate {
	seen := make(map[string]struct{})
	var out []types.ExtractedDate
	for _, rule := range dateRules {
		for _, m := range rule.re.FindAllStringSubmatch(text, -1) {
			d := rule.resolve(m)
			key := "text:" + strings.ToLower(d.Text)
			if d.Date != nil {
				key = d.Date.Format(time.DateOnly)
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, d)
		}
	}
	return out
}

// ParseUserDate parses a date typed or spoken by the user. It accepts a bare
// year, "Month Year" and "Month Day, Year", then a handful of common layouts.
// The second result is false when nothing parses.
func ParseUserDate(input string) (time.Time, bool) {
	s := strings.Join(strings.Fields(input), " ")
	if s == "" {
		return time.Time{}, false
	}
	if bareYearRe.MatchString(s) {
		y, _ := strconv.Atoi(s)
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), true
	}
	if m := monthYearRe.FindStringSubmatch(s); m != nil {
		return calendarDate(m[2], m[1], "1")
	}
	if m := fullDateRe.FindStringSubmatch(s); m != nil && m[0] == s {
		return calendarDate(m[3], m[1], m[2])
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var fallbackLayouts = []string{
	time.DateOnly,
	"01/02/2006",
	"1/2/2006",
	"2 January 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2006",
	time.RFC3339,
}

func yearDate(text, year string, c types.Confidence) types.ExtractedDate {
	y, _ := strconv.Atoi(year)
	t := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	return types.ExtractedDate{Text: text, Date: &t, Confidence: c}
}

// calendarDate builds a UTC date, rejecting days that do not exist in the
// month rather than letting time.Date roll them over.
func calendarDate(year, month, day string) (time.Time, bool) {
	y, errY := strconv.Atoi(year)
	d, errD := strconv.Atoi(day)
	mon, ok := monthNumber(month)
	if errY != nil || errD != nil || !ok || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, mon, d, 0, 0, 0, 0, time.UTC)
	if t.Month() != mon || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func monthNumber(name string) (time.Month, bool) {
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return m, true
		}
	}
	return 0, false
}

func isMonthName(word string) bool {
	_, ok := monthNumber(word)
	return ok
}
