package speech

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memory-companion-go/internal/types"
)

func fixedClock(hour int) func() time.Time {
	return func() time.Time { return time.Date(2024, 5, 1, hour, 30, 0, 0, time.UTC) }
}

func TestSyllables(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"the", 1},
		{"cat", 1},
		{"happy", 2},
		{"table", 2},
		{"jumped", 1},
		{"makes", 1},
		{"yellow", 2},
		{"Garden,", 2},
		{"1965", 1},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			require.Equal(t, tt.want, Syllables(tt.word))
		})
	}
}

func TestAnalyze_KnownTranscript(t *testing.T) {
	a := NewAnalyzer(WithClock(fixedClock(9)))
	got := a.Analyze("I feel happy. I feel happy.", 60)

	require.Equal(t, 6, got.WordCount)
	require.Equal(t, 2, got.SentenceCount)
	require.Equal(t, 3.0, got.Metrics.SentenceLength)
	require.Equal(t, 6.0, got.Metrics.SpeechRate)
	require.Equal(t, 1, got.Metrics.RepetitionCount)
	require.Equal(t, 100.0, got.Metrics.GrammarConsistency)
	require.Equal(t, 0.0, got.Metrics.PauseFrequency)
	require.Equal(t, 1.3, got.Metrics.FleschKincaidGrade)
	require.Equal(t, 31.7, got.Metrics.VocabularyComplexity)
	require.Equal(t, types.EmotionHappy, got.EmotionalState)
	require.Equal(t, types.Morning, got.TimeOfDay)
	require.Equal(t, 39.9, got.ComplexityScore)
}

func TestAnalyze_EmptyAndZeroDuration(t *testing.T) {
	got := NewAnalyzer(WithClock(fixedClock(22))).Analyze("", 0)

	require.Equal(t, 0.0, got.Metrics.SpeechRate)
	require.Equal(t, 0.0, got.Metrics.PauseFrequency)
	require.Equal(t, 0.0, got.Metrics.SentenceLength)
	require.Equal(t, 0.0, got.Metrics.VocabularyComplexity)
	require.Equal(t, 0.0, got.Metrics.GrammarConsistency)
	require.Equal(t, 0.0, got.Metrics.FleschKincaidGrade)
	require.Equal(t, types.EmotionNeutral, got.EmotionalState)
	require.Equal(t, types.Night, got.TimeOfDay)
	assertFinite(t, got)
}

func TestAnalyze_ZeroDurationWithWords(t *testing.T) {
	got := Analyze("We walked, slowly.. to the river -- and back.", 0)
	require.Equal(t, 0.0, got.Metrics.SpeechRate)
	require.Equal(t, 0.0, got.Metrics.PauseFrequency)
	assertFinite(t, got)
}

func TestAnalyze_NegativeDurationIsZero(t *testing.T) {
	got := Analyze("Hello there friend.", -30)
	require.Equal(t, 0.0, got.Metrics.SpeechRate)
	assertFinite(t, got)
}

func TestAnalyze_PauseFrequencyPerMinute(t *testing.T) {
	// One comma, one "..", one "--", one ellipsis over 30 seconds.
	got := Analyze("Well, I think.. maybe -- yes… we did.", 30)
	require.Equal(t, 8.0, got.Metrics.PauseFrequency)
}

func TestAnalyze_ScoreBounds(t *testing.T) {
	transcripts := []string{
		"",
		"a",
		"no caps here. another one",
		"Extraordinarily sophisticated multidimensional considerations notwithstanding, characterization remains indispensable.",
		"I I I I I I I I I I I I I I I I I I.",
		"The cat sat on the mat. The cat sat on the mat. The cat sat on the mat.",
	}
	for _, tr := range transcripts {
		for _, d := range []float64{0, 1, 45, 600} {
			got := Analyze(tr, d)
			m := got.Metrics
			assert.GreaterOrEqual(t, m.VocabularyComplexity, 0.0)
			assert.LessOrEqual(t, m.VocabularyComplexity, 100.0)
			assert.GreaterOrEqual(t, m.GrammarConsistency, 0.0)
			assert.LessOrEqual(t, m.GrammarConsistency, 100.0)
			assert.GreaterOrEqual(t, m.FleschKincaidGrade, 0.0)
			assert.LessOrEqual(t, m.FleschKincaidGrade, 18.0)
			assert.GreaterOrEqual(t, got.ComplexityScore, 0.0)
			assert.LessOrEqual(t, got.ComplexityScore, 100.0)
			assertFinite(t, got)
		}
	}
}

func TestGrammarConsistency(t *testing.T) {
	require.Equal(t, 100.0, grammarConsistency([]string{"We went home", "It rained"}))
	// One of two sentences is lower-case: 100 - 25*0.5.
	require.Equal(t, 87.5, grammarConsistency([]string{"We went home", "it rained"}))
	require.Equal(t, 75.0, grammarConsistency([]string{"Yes"}))
}

func TestRepetitionCount(t *testing.T) {
	require.Equal(t, 0, repetitionCount([]string{"We went to the park"}))
	// Every window of the second sentence is a re-occurrence.
	require.Equal(t, 3, repetitionCount([]string{"we went to the park", "we went to the park"}))
	// Short phrases are ignored.
	require.Equal(t, 0, repetitionCount([]string{"a b c", "a b c"}))
}

func TestDetectEmotion(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.EmotionalState
	}{
		{"single hit ties neutral", "I am happy", types.EmotionNeutral},
		{"anxious", "I was so worried and nervous", types.EmotionAnxious},
		{"agitated phrase", "I am fed up and angry", types.EmotionAgitated},
		{"sad", "I feel lonely and I cried", types.EmotionSad},
		{"tie goes to earlier emotion", "happy joyful calm peaceful", types.EmotionCalm},
		{"whole words only", "unhappyish calmness", types.EmotionNeutral},
		{"case insensitive", "HAPPY and GLAD", types.EmotionHappy},
		{"empty", "", types.EmotionNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DetectEmotion(tt.text))
		})
	}
}

func TestEmotionScores(t *testing.T) {
	scores := EmotionScores("sad and lonely but grateful")
	require.Equal(t, 1, scores[types.EmotionNeutral])
	require.Equal(t, 2, scores[types.EmotionSad])
	require.Equal(t, 1, scores[types.EmotionHappy])
	require.Equal(t, 0, scores[types.EmotionAgitated])
}

func TestTimeOfDayAt(t *testing.T) {
	cases := map[int]types.TimeOfDay{
		4: types.Night, 5: types.Morning, 11: types.Morning, 12: types.Afternoon,
		16: types.Afternoon, 17: types.Evening, 20: types.Evening, 21: types.Night, 0: types.Night,
	}
	for hour, want := range cases {
		require.Equal(t, want, TimeOfDayAt(fixedClock(hour)()), "hour %d", hour)
	}
}

func TestScoreComplexity(t *testing.T) {
	m := types.SpeechMetrics{
		VocabularyComplexity: 40,
		GrammarConsistency:   100,
		SpeechRate:           135,
		FleschKincaidGrade:   10,
	}
	// 40*.25 + 100*.20 + 100*.25 + 80*.30
	require.Equal(t, 79.0, ScoreComplexity(m))

	m.FleschKincaidGrade = 18
	m.PauseFrequency = 40
	// Complexity caps at 100 and fluency floors at 0.
	require.Equal(t, 60.0, ScoreComplexity(m))
	require.Equal(t, 0.0, Fluency(m))
}

func TestFleschKincaid(t *testing.T) {
	require.Equal(t, 0.0, FleschKincaid(""))
	require.Equal(t, 0.0, FleschKincaid("The cat sat on the mat."))
	require.LessOrEqual(t, FleschKincaid("Incomprehensibilities notwithstanding, institutionalization perseveres."), 18.0)
}

func assertFinite(t *testing.T, a Analysis) {
	t.Helper()
	m := a.Metrics
	for name, v := range map[string]float64{
		"sentence_length":       m.SentenceLength,
		"vocabulary_complexity": m.VocabularyComplexity,
		"grammar_consistency":   m.GrammarConsistency,
		"pause_frequency":       m.PauseFrequency,
		"speech_rate":           m.SpeechRate,
		"flesch_kincaid":        m.FleschKincaidGrade,
		"complexity_score":      a.ComplexityScore,
	} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s is not finite: %v", name, v)
	}
}
