// Package answer grades a free-text answer against a canonical short answer.
//
// Matching is a graded-leniency cascade. Each stage normalises both sides a
// little further and the first stage that succeeds decides the result:
//
//  1. Exact equality after case folding and trimming.
//  2. Containment in either direction.
//  3. Equality or containment after number words become digits.
//  4. The same after unit and kinship synonyms are canonicalised.
//  5. Shared numbers, with short or matching non-numeric remainders.
//  6. Equality or containment after stop words are removed.
//  7. Word overlap of at least the configured threshold (0.70).
//  8. Single-word phonetic typo tolerance (Double Metaphone plus
//     Jaro-Winkler).
//
// The cascade favours recall over precision: an elderly user who answers
// "about thirty yrs" to "30 years" is graded correct. Testers should expect
// lenient matches such as containment ("paris" in "paris france") to pass.
package answer

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"

	"memory-companion-go/internal/normalize"
)

const (
	defaultOverlapThreshold  = 0.70
	defaultPhoneticThreshold = 0.90

	// numericRemainderMax is the length below which the non-numeric part of
	// an answer is treated as noise ("30!", "1965 ok").
	numericRemainderMax = 5

	// phoneticMinLetters keeps very short words out of the typo stage, where
	// Double Metaphone codes collide too easily.
	phoneticMinLetters = 4
)

var numberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Stage identifies which step of the cascade accepted an answer.
type Stage int

const (
	StageNone Stage = iota
	StageExact
	StageContains
	StageNumbers
	StageSynonyms
	StageNumeric
	StageStopWords
	StageOverlap
	StagePhonetic
)

func (s Stage) String() string {
	switch s {
	case StageExact:
		return "exact"
	case StageContains:
		return "contains"
	case StageNumbers:
		return "numbers"
	case StageSynonyms:
		return "synonyms"
	case StageNumeric:
		return "numeric"
	case StageStopWords:
		return "stop_words"
	case StageOverlap:
		return "overlap"
	case StagePhonetic:
		return "phonetic"
	default:
		return "none"
	}
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithOverlapThreshold sets the minimum word-overlap ratio accepted by the
// overlap stage. Default: 0.70.
func WithOverlapThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.overlapThreshold = threshold
	}
}

// WithPhoneticThreshold sets the minimum Jaro-Winkler score for the phonetic
// stage. Default: 0.90.
func WithPhoneticThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.phoneticThreshold = threshold
	}
}

// Matcher runs the answer cascade. It is read-only after construction and
// safe for concurrent use.
type Matcher struct {
	overlapThreshold  float64
	phoneticThreshold float64
}

// NewMatcher returns a Matcher with the default thresholds unless overridden.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		overlapThreshold:  defaultOverlapThreshold,
		phoneticThreshold: defaultPhoneticThreshold,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

var defaultMatcher = NewMatcher()

// Match reports whether user should be graded correct against correct using
// the default thresholds.
func Match(user, correct string) bool {
	return defaultMatcher.Match(user, correct)
}

// Match reports whether user should be graded correct against correct.
func (m *Matcher) Match(user, correct string) bool {
	ok, _ := m.Explain(user, correct)
	return ok
}

// Explain runs the cascade and returns the stage that accepted the answer,
// or (false, StageNone). Empty input on either side never matches.
func (m *Matcher) Explain(user, correct string) (bool, Stage) {
	u, c := normalize.Fold(user), normalize.Fold(correct)
	if u == "" || c == "" {
		return false, StageNone
	}
	if u == c {
		return true, StageExact
	}
	if equalOrContains(u, c) {
		return true, StageContains
	}

	nu, nc := normalize.Numbers(u), normalize.Numbers(c)
	if equalOrContains(nu, nc) {
		return true, StageNumbers
	}

	su, sc := normalize.Synonyms(nu), normalize.Synonyms(nc)
	if equalOrContains(su, sc) {
		return true, StageSynonyms
	}

	if numericMatch(su, sc) {
		return true, StageNumeric
	}

	wu, wc := normalize.StopWords(su), normalize.StopWords(sc)
	if equalOrContains(wu, wc) {
		return true, StageStopWords
	}

	if Overlap(overlapText(wu, su), overlapText(wc, sc)) >= m.overlapThreshold {
		return true, StageOverlap
	}

	if m.phoneticMatch(su, sc) {
		return true, StagePhonetic
	}
	return false, StageNone
}

// Overlap returns |A ∩ B| / max(|A|, |B|) over the unique words of a and b,
// ignoring surrounding punctuation. Either side empty yields 0.
func Overlap(a, b string) float64 {
	wa, wb := wordSet(a), wordSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	shared := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(max(len(wa), len(wb)))
}

// numericMatch accepts answers that share at least one number and whose
// remaining words are either negligible or equal after synonym folding.
func numericMatch(u, c string) bool {
	un, cn := numberRe.FindAllString(u, -1), numberRe.FindAllString(c, -1)
	if len(un) == 0 || len(cn) == 0 || !shareAny(un, cn) {
		return false
	}
	ru, rc := remainder(u), remainder(c)
	if len(ru) < numericRemainderMax || len(rc) < numericRemainderMax {
		return true
	}
	return equalOrContains(normalize.Synonyms(ru), normalize.Synonyms(rc))
}

func (m *Matcher) phoneticMatch(u, c string) bool {
	if strings.Contains(u, " ") || strings.Contains(c, " ") {
		return false
	}
	u, c = letters(u), letters(c)
	if len(u) < phoneticMinLetters || len(c) < phoneticMinLetters {
		return false
	}
	pu, _ := matchr.DoubleMetaphone(u)
	pc, _ := matchr.DoubleMetaphone(c)
	if pu == "" || pu != pc {
		return false
	}
	return matchr.JaroWinkler(u, c, false) >= m.phoneticThreshold
}

func equalOrContains(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

func remainder(s string) string {
	return strings.Join(strings.Fields(numberRe.ReplaceAllString(s, " ")), " ")
}

func shareAny(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// overlapText prefers the stop-word-free text and falls back to the full
// text when an answer consists only of stop words.
func overlapText(stripped, full string) string {
	if stripped == "" {
		return full
	}
	return stripped
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, f := range strings.Fields(s) {
		if w := strings.Trim(f, `.,;:!?"()'`); w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

func letters(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, s)
}
