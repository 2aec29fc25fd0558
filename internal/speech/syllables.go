package speech

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	silentSuffix = regexp.MustCompile(`(?:[^laeiouy]es|ed|[^laeiouy]e)$`)
	vowelGroup   = regexp.MustCompile(`[aeiouy]{1,2}`)
)

// Syllables estimates the syllable count of a single English word by counting
// vowel groups after dropping a silent trailing e, -es or -ed and a leading y.
// Words of three letters or fewer count as one syllable, as do tokens with no
// letters at all (numbers).
func Syllables(word string) int {
	w := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, strings.ToLower(word))
	if len(w) <= 3 {
		if w == "" && !strings.ContainsFunc(word, unicode.IsDigit) {
			return 0
		}
		return 1
	}
	w = silentSuffix.ReplaceAllString(w, "")
	w = strings.TrimPrefix(w, "y")
	if n := len(vowelGroup.FindAllString(w, -1)); n > 0 {
		return n
	}
	return 1
}

// FleschKincaid returns the Flesch-Kincaid grade level of text clamped to
// [0, 18]. Empty text scores 0.
func FleschKincaid(text string) float64 {
	words := tokenize(text)
	sentences := splitSentences(text)
	return fleschKincaid(words, len(sentences))
}

func fleschKincaid(words []string, sentenceCount int) float64 {
	if len(words) == 0 || sentenceCount == 0 {
		return 0
	}
	syllables := 0
	for _, w := range words {
		syllables += Syllables(w)
	}
	grade := 0.39*(float64(len(words))/float64(sentenceCount)) +
		11.8*(float64(syllables)/float64(len(words))) - 15.59
	return clamp(grade, 0, 18)
}
