package narrative

import (
	"regexp"
	"strings"

	"memory-companion-go/internal/types"
)

const (
	maxNames     = 10
	maxLocations = 5
	maxLessons   = 3

	minLessonLength = 10
)

var (
	capitalizedRunRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
	locationRe       = regexp.MustCompile(`\b(?:[Ii]n|[Aa]t|[Ff]rom|[Tt]o)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)
	lessonRe         = regexp.MustCompile(`(?i)\b(?:learned|taught|important|remember|always|never|should)\b`)
	factSentenceRe   = regexp.MustCompile(`[^.!?]+[.!?]*`)
)

// nameStoplist holds words that are capitalised because they open a sentence
// rather than because they are names.
var nameStoplist = wordSet(
	"the", "a", "an", "we", "my", "our", "he", "she", "they", "it", "this",
	"that", "these", "those", "then", "when", "and", "but", "so", "in", "at",
	"on", "from", "to", "his", "her", "their", "after", "before", "during",
	"yes", "no", "well", "oh", "there", "what", "where", "how", "why", "who",
	"i'm", "you", "your", "me", "us", "one", "every", "all", "some", "back",
)

var weekdays = wordSet("monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday")

// ExtractBiographicalFacts pulls dates, likely names, places and life lessons
// out of one transcript. Each list keeps first-seen order without duplicates
// and is empty, never nil, when nothing was found.
func ExtractBiographicalFacts(transcript string) types.BiographicalFacts {
	return types.BiographicalFacts{
		Dates:       nonNil(dateTexts(transcript)),
		Names:       nonNil(extractNames(transcript)),
		Locations:   nonNil(extractLocations(transcript)),
		LifeLessons: nonNil(extractLessons(transcript)),
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func dateTexts(transcript string) []string {
	var out orderedSet
	for _, d := range ExtractDates(transcript) {
		out.add(d.Text, 0)
	}
	return out.items
}

func extractNames(transcript string) []string {
	var out orderedSet
	for _, run := range capitalizedRunRe.FindAllString(transcript, -1) {
		words := strings.Fields(run)
		for len(words) > 0 && inSet(nameStoplist, words[0]) {
			words = words[1:]
		}
		if len(words) == 0 || (len(words) == 1 && isCalendarWord(words[0])) {
			continue
		}
		if !out.add(strings.Join(words, " "), maxNames) {
			break
		}
	}
	return out.items
}

func extractLocations(transcript string) []string {
	var out orderedSet
	for _, m := range locationRe.FindAllStringSubmatch(transcript, -1) {
		place := m[1]
		if first := strings.Fields(place)[0]; isCalendarWord(first) {
			continue
		}
		if !out.add(place, maxLocations) {
			break
		}
	}
	return out.items
}

func extractLessons(transcript string) []string {
	var out orderedSet
	for _, s := range factSentenceRe.FindAllString(transcript, -1) {
		s = strings.TrimSpace(s)
		if len(s) <= minLessonLength || !lessonRe.MatchString(s) {
			continue
		}
		if !out.add(s, maxLessons) {
			break
		}
	}
	return out.items
}

func isCalendarWord(w string) bool {
	return isMonthName(w) || inSet(weekdays, w)
}

// orderedSet is an insertion-ordered set of strings with an optional cap.
type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

// add inserts s unless already present and reports whether more items may
// still be added. A limit of 0 means unbounded.
func (o *orderedSet) add(s string, limit int) bool {
	if o.seen == nil {
		o.seen = make(map[string]struct{})
	}
	if _, ok := o.seen[s]; !ok {
		o.seen[s] = struct{}{}
		o.items = append(o.items, s)
	}
	return limit == 0 || len(o.items) < limit
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func inSet(set map[string]struct{}, word string) bool {
	_, ok := set[strings.ToLower(word)]
	return ok
}
