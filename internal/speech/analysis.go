// Package speech computes readability, complexity, fluency and emotion
// metrics for a finished transcript. All functions are pure apart from the
// Analyzer clock used to stamp the time of day; zero-length transcripts and
// zero durations produce zero scores rather than NaN or Inf.
package speech

import (
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"memory-companion-go/internal/types"
)

var (
	wordRe     = regexp.MustCompile(`[A-Za-z0-9']+`)
	sentenceRe = regexp.MustCompile(`[.!?]+`)
)

// Analysis is the result of analysing one transcript.
type Analysis struct {
	Metrics         types.SpeechMetrics  `json:"metrics"`
	EmotionalState  types.EmotionalState `json:"emotional_state"`
	TimeOfDay       types.TimeOfDay      `json:"time_of_day"`
	WordCount       int                  `json:"word_count"`
	SentenceCount   int                  `json:"sentence_count"`
	ComplexityScore float64              `json:"complexity_score"`
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock overrides the clock used for TimeOfDay.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// Analyzer computes Analysis values. It is read-only after construction and
// safe for concurrent use.
type Analyzer struct {
	now func() time.Time
}

// NewAnalyzer returns an Analyzer using the wall clock unless overridden.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{now: time.Now}
	for _, o := range opts {
		o(a)
	}
	return a
}

var defaultAnalyzer = NewAnalyzer()

// Analyze analyses transcript spoken over durationSeconds using the wall
// clock for the time of day.
func Analyze(transcript string, durationSeconds float64) Analysis {
	return defaultAnalyzer.Analyze(transcript, durationSeconds)
}

// Analyze computes all metrics for transcript. Negative or NaN durations
// are treated as zero.
func (a *Analyzer) Analyze(transcript string, durationSeconds float64) Analysis {
	if math.IsNaN(durationSeconds) || math.IsInf(durationSeconds, 0) || durationSeconds < 0 {
		durationSeconds = 0
	}
	words := tokenize(transcript)
	sentences := splitSentences(transcript)
	minutes := durationSeconds / 60

	m := types.SpeechMetrics{
		SentenceLength:       round1(ratio(float64(len(words)), float64(len(sentences)))),
		VocabularyComplexity: round1(vocabularyComplexity(words)),
		GrammarConsistency:   round1(grammarConsistency(sentences)),
		RepetitionCount:      repetitionCount(sentences),
		PauseFrequency:       round1(ratio(float64(pauseCount(transcript)), minutes)),
		SpeechRate:           math.Round(ratio(float64(len(words)), minutes)),
		FleschKincaidGrade:   round1(fleschKincaid(words, len(sentences))),
	}
	return Analysis{
		Metrics:         m,
		EmotionalState:  DetectEmotion(transcript),
		TimeOfDay:       TimeOfDayAt(a.now()),
		WordCount:       len(words),
		SentenceCount:   len(sentences),
		ComplexityScore: ScoreComplexity(m),
	}
}

// TimeOfDayAt buckets a wall-clock time: 05–11 morning, 12–16 afternoon,
// 17–20 evening, otherwise night.
func TimeOfDayAt(t time.Time) types.TimeOfDay {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return types.Morning
	case h >= 12 && h < 17:
		return types.Afternoon
	case h >= 17 && h < 21:
		return types.Evening
	default:
		return types.Night
	}
}

func vocabularyComplexity(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	unique := make(map[string]struct{}, len(words))
	complexWords, letters := 0, 0
	for _, w := range words {
		lw := strings.ToLower(w)
		unique[lw] = struct{}{}
		letters += len(lw)
		if len(lw) > 6 && !isCommonWord(lw) {
			complexWords++
		}
	}
	n := float64(len(words))
	score := float64(len(unique))/n*30 + float64(complexWords)/n*40 + float64(letters)/n*5
	return clamp(score, 0, 100)
}

// grammarConsistency starts at 100 and subtracts 25 times the share of
// sentences that fail a basic check: leading capital, no double space, at
// least two words.
func grammarConsistency(sentences []string) float64 {
	if len(sentences) == 0 {
		return 0
	}
	issues := 0
	for _, s := range sentences {
		if !startsUpper(s) || strings.Contains(s, "  ") || len(strings.Fields(s)) < 2 {
			issues++
		}
	}
	return clamp(100-25*float64(issues)/float64(len(sentences)), 0, 100)
}

// repetitionCount slides a three-word window over every sentence and counts
// each re-occurrence of a phrase longer than five characters.
func repetitionCount(sentences []string) int {
	seen := make(map[string]struct{})
	count := 0
	for _, s := range sentences {
		words := tokenize(strings.ToLower(s))
		for i := 0; i+3 <= len(words); i++ {
			phrase := strings.Join(words[i:i+3], " ")
			if len(phrase) <= 5 {
				continue
			}
			if _, ok := seen[phrase]; ok {
				count++
				continue
			}
			seen[phrase] = struct{}{}
		}
	}
	return count
}

func pauseCount(text string) int {
	return strings.Count(text, "..") + strings.Count(text, ",") +
		strings.Count(text, "--") + strings.Count(text, "…")
}

func tokenize(text string) []string {
	return wordRe.FindAllString(text, -1)
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceRe.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
