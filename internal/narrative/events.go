package narrative

import (
	"regexp"
	"strings"
)

// dateWindow is how many bytes either side of a life-event keyword are
// searched for a date.
const dateWindow = 100

var lifeEventKeywords = []string{
	"married", "graduated", "moved", "born", "retired", "started", "began",
	"joined", "met", "divorced", "died", "passed away", "bought", "opened",
	"served", "enlisted", "wedding", "graduation", "retirement",
}

var lifeEventRe = func() *regexp.Regexp {
	quoted := make([]string, len(lifeEventKeywords))
	for i, k := range lifeEventKeywords {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}()

// HasUndatedEvent reports whether text mentions a life event (a wedding, a
// move, a birth) with no date pattern within a hundred characters of it.
func HasUndatedEvent(text string) bool {
	for _, loc := range lifeEventRe.FindAllStringIndex(text, -1) {
		start := max(0, loc[0]-dateWindow)
		end := min(len(text), loc[1]+dateWindow)
		if !hasDatePattern(text[start:end]) {
			return true
		}
	}
	return false
}

func hasDatePattern(s string) bool {
	for _, rule := range dateRules {
		if rule.re.MatchString(s) {
			return true
		}
	}
	return false
}
