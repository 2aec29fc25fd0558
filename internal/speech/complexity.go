package speech

import (
	"math"

	"memory-companion-go/internal/types"
)

// Weights of the blended language complexity score.
const (
	vocabularyWeight = 0.25
	grammarWeight    = 0.20
	fluencyWeight    = 0.25
	complexityWeight = 0.30

	// idealSpeechRate is the conversational words-per-minute rate that
	// scores full fluency.
	idealSpeechRate = 135
)

// Fluency scores speech rate and pauses: 100 minus half the distance from
// 135 wpm minus five points per pause per minute, floored at 0.
func Fluency(m types.SpeechMetrics) float64 {
	return clamp(100-0.5*math.Abs(m.SpeechRate-idealSpeechRate)-5*m.PauseFrequency, 0, 100)
}

// ScoreComplexity blends vocabulary, grammar, fluency and the Flesch-Kincaid
// grade (×8, capped at 100) into a single 0–100 score rounded to one decimal.
func ScoreComplexity(m types.SpeechMetrics) float64 {
	complexity := math.Min(100, m.FleschKincaidGrade*8)
	score := m.VocabularyComplexity*vocabularyWeight +
		m.GrammarConsistency*grammarWeight +
		Fluency(m)*fluencyWeight +
		complexity*complexityWeight
	return round1(clamp(score, 0, 100))
}
