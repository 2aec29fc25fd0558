// Package normalize canonicalises free text so that semantically equivalent
// phrasings ("thirty yrs", "30 years") compare equal. Every function is total:
// input without anything to rewrite passes through unchanged apart from the
// documented case folding.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

type wordRule struct {
	re          *regexp.Regexp
	replacement string
}

var numberWords = []struct {
	word  string
	value int
}{
	{"zero", 0}, {"one", 1}, {"two", 2}, {"three", 3}, {"four", 4},
	{"five", 5}, {"six", 6}, {"seven", 7}, {"eight", 8}, {"nine", 9},
	{"ten", 10}, {"eleven", 11}, {"twelve", 12}, {"thirteen", 13},
	{"fourteen", 14}, {"fifteen", 15}, {"sixteen", 16}, {"seventeen", 17},
	{"eighteen", 18}, {"nineteen", 19}, {"twenty", 20}, {"thirty", 30},
	{"forty", 40}, {"fifty", 50}, {"sixty", 60}, {"seventy", 70},
	{"eighty", 80}, {"ninety", 90}, {"hundred", 100}, {"thousand", 1000},
}

var numberRules = func() []wordRule {
	rules := make([]wordRule, 0, len(numberWords))
	for _, nw := range numberWords {
		rules = append(rules, wordRule{
			re:          regexp.MustCompile(`\b` + nw.word + `\b`),
			replacement: strconv.Itoa(nw.value),
		})
	}
	return rules
}()

var hyphenCompound = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)

// Numbers lower-cases text and replaces whole-word number words with their
// digits. A "<digits>-<digits>" compound is then collapsed into the SUM of
// both sides, so "thirty-five" becomes "30-5" and then "35". The sum is
// applied to any hyphenated digit pair, including "1965-1970"; callers rely
// on the current output and it is kept as is.
func Numbers(text string) string {
	out := strings.ToLower(text)
	for _, r := range numberRules {
		out = r.re.ReplaceAllString(out, r.replacement)
	}
	return hyphenCompound.ReplaceAllStringFunc(out, func(m string) string {
		parts := hyphenCompound.FindStringSubmatch(m)
		a, errA := strconv.Atoi(parts[1])
		b, errB := strconv.Atoi(parts[2])
		if errA != nil || errB != nil {
			return m
		}
		return strconv.Itoa(a + b)
	})
}

// synonymGroups maps a canonical head word to the variants that fold into it.
// Groups are applied in order.
var synonymGroups = []struct {
	head     string
	variants []string
}{
	{"years", []string{"yrs", "yr", "year"}},
	{"months", []string{"mos", "mo", "month"}},
	{"weeks", []string{"wks", "wk", "week"}},
	{"days", []string{"day"}},
	{"hours", []string{"hrs", "hr", "hour"}},
	{"minutes", []string{"mins", "min", "minute"}},
	{"grandchildren", []string{"grandkids", "grandkid", "grandchild"}},
	{"children", []string{"kids", "kid", "child"}},
	{"grandmother", []string{"grandma", "granny", "nana"}},
	{"grandfather", []string{"grandpa", "granddad", "gramps"}},
	{"mother", []string{"mom", "mum", "mommy", "mama"}},
	{"father", []string{"dad", "daddy", "papa"}},
	{"brother", []string{"bro"}},
	{"sister", []string{"sis"}},
	{"dollars", []string{"bucks", "dollar", "usd"}},
	{"pounds", []string{"lbs", "lb", "pound"}},
	{"feet", []string{"ft", "foot"}},
	{"doctor", []string{"dr", "doc", "physician"}},
	{"television", []string{"tv", "telly"}},
}

var synonymRules = func() []wordRule {
	rules := make([]wordRule, 0, len(synonymGroups))
	for _, g := range synonymGroups {
		quoted := make([]string, len(g.variants))
		for i, v := range g.variants {
			quoted[i] = regexp.QuoteMeta(v)
		}
		rules = append(rules, wordRule{
			re:          regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`),
			replacement: g.head,
		})
	}
	return rules
}()

// Synonyms replaces known unit and kinship synonyms with their canonical head
// word. Matching is whole-word and case-insensitive.
func Synonyms(text string) string {
	out := text
	for _, r := range synonymRules {
		out = r.re.ReplaceAllString(out, r.replacement)
	}
	return out
}

// stopWords is the closed set of function words dropped by StopWords:
// articles, be/have/do forms and modal verbs.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"am": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "having": {},
	"do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "shall": {}, "should": {}, "can": {}, "could": {}, "may": {}, "might": {}, "must": {},
}

// StopWords drops every standalone stop-word token and joins the rest with
// single spaces. Contractions such as "can't" are not standalone and stay.
func StopWords(text string) string {
	fields := strings.Fields(text)
	kept := fields[:0]
	for _, f := range fields {
		if IsStopWord(f) {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// IsStopWord reports whether token, ignoring case and surrounding
// punctuation, is in the stop-word set.
func IsStopWord(token string) bool {
	_, ok := stopWords[strings.ToLower(strings.Trim(token, `.,;:!?"()`))]
	return ok
}

// Fold applies NFKC normalisation, lower-cases, trims and collapses runs of
// whitespace into single spaces.
func Fold(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(norm.NFKC.String(text))), " ")
}
