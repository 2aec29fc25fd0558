// Package punctuation turns raw speech-recognizer text into capitalised,
// terminated prose and merges incremental recognizer output into a running
// transcript.
//
// The merge follows a two-tier model. Final fragments are punctuated once and
// appended to the committed text, which is never touched again. Interim
// fragments are appended verbatim for display only and are replaced on every
// call. Callers own the committed string and must serialise merges per
// transcript.
package punctuation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"memory-companion-go/internal/types"
)

const (
	// minWordsForSplit is the word count at which sentence boundaries are
	// searched for at all.
	minWordsForSplit = 10
	// minWordsPerSentence is the number of words that must precede a
	// boundary since the previous one.
	minWordsPerSentence = 5
)

var (
	trailingTerminal = regexp.MustCompile(`[.!?]+$`)
	pronounI         = regexp.MustCompile(`\bi\b`)
	spaceRun         = regexp.MustCompile(`\s+`)
	spaceBeforeMark  = regexp.MustCompile(`\s+([.!?,;:])`)
	afterTerminal    = regexp.MustCompile(`([.!?])\s*(\pL)`)
)

// connectives open a new sentence when they appear capitalised.
var connectives = wordSet(
	"but", "however", "therefore", "meanwhile", "moreover", "furthermore",
	"nevertheless", "nonetheless", "consequently", "afterwards", "anyway",
	"besides", "otherwise", "still",
)

// fillers close a sentence when the next word is capitalised.
var fillers = wordSet(
	"and", "so", "then", "well", "okay", "ok", "alright", "anyway", "right",
)

var questionWords = wordSet(
	"what", "where", "when", "who", "why", "how", "which", "whose", "whom",
)

var auxiliaries = wordSet(
	"is", "are", "was", "were", "do", "does", "did", "can", "could", "would",
	"should", "will", "have", "has", "had",
)

var questionTags = wordSet("right", "correct", "okay", "huh", "eh")

// Punctuate capitalises and terminates raw recognizer text. Trailing
// terminal punctuation is stripped first; inputs of ten words or more are
// split into sentences at capitalised connectives ("But", "However") or at a
// capitalised word following a filler ("and", "then"). Each sentence ends in
// "?" when it reads as a question and "." otherwise.
func Punctuate(text string) string {
	t := strings.TrimSpace(text)
	t = strings.TrimSpace(trailingTerminal.ReplaceAllString(t, ""))
	if t == "" {
		return ""
	}
	t = pronounI.ReplaceAllString(t, "I")
	t = capitalizeFirst(t)

	words := strings.Fields(t)
	sentences := []string{strings.Join(words, " ")}
	if len(words) >= minWordsForSplit {
		sentences = splitSentences(words)
	}
	for i, s := range sentences {
		sentences[i] = terminate(capitalizeFirst(s))
	}
	return tidy(strings.Join(sentences, " "))
}

// MergeSpeechResult appends a newly finalised fragment (punctuated) and the
// current interim fragment (verbatim) to existing. existing is returned
// unchanged when both fragments are blank. The interim tail is display-only:
// callers keep the committed text separately and recompute on every event.
func MergeSpeechResult(final, interim, existing string) string {
	out := existing
	if f := strings.TrimSpace(final); f != "" {
		out = joinText(out, Punctuate(f))
	}
	if in := strings.TrimSpace(interim); in != "" {
		out = joinText(out, in)
	}
	return out
}

// Transcript is a caller-held running transcript split into its committed
// and interim parts. It is a value; Apply returns a new Transcript.
type Transcript struct {
	Committed string `json:"committed"`
	Interim   string `json:"interim,omitempty"`
}

// Apply merges one recognizer fragment. A final fragment is committed and
// clears the interim tail; an interim fragment replaces the previous tail.
func (t Transcript) Apply(f types.TranscriptFragment) Transcript {
	if f.IsFinal {
		return Transcript{Committed: MergeSpeechResult(f.Text, "", t.Committed)}
	}
	return Transcript{Committed: t.Committed, Interim: strings.TrimSpace(f.Text)}
}

// Display is the committed text followed by the current interim tail.
func (t Transcript) Display() string {
	return MergeSpeechResult("", t.Interim, t.Committed)
}

func splitSentences(words []string) []string {
	var out []string
	start := 0
	for i := 1; i < len(words); i++ {
		if i-start < minWordsPerSentence {
			continue
		}
		if isBoundary(words[i-1], words[i]) {
			out = append(out, strings.Join(words[start:i], " "))
			start = i
		}
	}
	return append(out, strings.Join(words[start:], " "))
}

func isBoundary(prev, word string) bool {
	if !isCapitalized(word) {
		return false
	}
	if _, ok := connectives[bare(word)]; ok {
		return true
	}
	_, ok := fillers[bare(prev)]
	return ok
}

// IsQuestion reports whether a single sentence reads as a question: it opens
// with a question word, opens with an auxiliary followed by another word, or
// ends with a tag such as "right" or "huh".
func IsQuestion(sentence string) bool {
	words := strings.Fields(sentence)
	if len(words) == 0 {
		return false
	}
	first := bare(words[0])
	if _, ok := questionWords[first]; ok {
		return true
	}
	if _, ok := auxiliaries[first]; ok && len(words) >= 2 {
		return true
	}
	_, ok := questionTags[bare(words[len(words)-1])]
	return ok
}

func terminate(sentence string) string {
	s := strings.TrimRight(strings.TrimSpace(sentence), ",;: ")
	if s == "" || endsWithTerminal(s) {
		return s
	}
	if IsQuestion(s) {
		return s + "?"
	}
	return s + "."
}

func tidy(s string) string {
	s = spaceRun.ReplaceAllString(s, " ")
	s = spaceBeforeMark.ReplaceAllString(s, "$1")
	s = fixCommaSpacing(s)
	s = afterTerminal.ReplaceAllStringFunc(s, func(m string) string {
		mark, _ := utf8.DecodeRuneInString(m)
		letter, _ := utf8.DecodeLastRuneInString(m)
		return string(mark) + " " + string(unicode.ToUpper(letter))
	})
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// fixCommaSpacing removes space before commas and ensures one space after,
// leaving digit groups such as "1,000" intact.
func fixCommaSpacing(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+8)
	for i, r := range in {
		if r != ',' {
			out = append(out, r)
			continue
		}
		for len(out) > 0 && out[len(out)-1] == ' ' {
			out = out[:len(out)-1]
		}
		prevDigit := len(out) > 0 && unicode.IsDigit(out[len(out)-1])
		out = append(out, r)
		if i+1 >= len(in) || in[i+1] == ' ' {
			continue
		}
		if prevDigit && unicode.IsDigit(in[i+1]) {
			continue
		}
		out = append(out, ' ')
	}
	return string(out)
}

func joinText(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	last, _ := utf8.DecodeLastRuneInString(a)
	if unicode.IsSpace(last) {
		return a + b
	}
	return a + " " + b
}

func endsWithTerminal(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}

func capitalizeFirst(s string) string {
	for i, r := range s {
		if unicode.IsLetter(r) {
			return s[:i] + string(unicode.ToUpper(r)) + s[i+utf8.RuneLen(r):]
		}
		if !unicode.IsSpace(r) && !unicode.IsPunct(r) {
			return s
		}
	}
	return s
}

func isCapitalized(word string) bool {
	for _, r := range word {
		if unicode.IsLetter(r) {
			return unicode.IsUpper(r)
		}
	}
	return false
}

// bare lower-cases a token and strips surrounding punctuation.
func bare(word string) string {
	return strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	}))
}

func wordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
