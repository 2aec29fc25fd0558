// internal/types/language.go
package types

import "time"

// TranscriptFragment is one unit of speech-recognizer output.
type TranscriptFragment struct {
	Text    string `json:"text"`
	IsFinal bool   `json:"is_final"`
}

// --------------------------------------------
// Speech metrics
// --------------------------------------------
type SpeechMetrics struct {
	SentenceLength       float64 `json:"sentence_length"`
	VocabularyComplexity float64 `json:"vocabulary_complexity"` // 0–100
	GrammarConsistency   float64 `json:"grammar_consistency"`   // 0–100
	RepetitionCount      int     `json:"repetition_count"`
	PauseFrequency       float64 `json:"pause_frequency"`      // pauses per minute
	SpeechRate           float64 `json:"speech_rate"`          // words per minute
	FleschKincaidGrade   float64 `json:"flesch_kincaid_grade"` // 0–18
}

type EmotionalState string

const (
	EmotionCalm     EmotionalState = "calm"
	EmotionHappy    EmotionalState = "happy"
	EmotionAnxious  EmotionalState = "anxious"
	EmotionSad      EmotionalState = "sad"
	EmotionAgitated EmotionalState = "agitated"
	EmotionNeutral  EmotionalState = "neutral"
)

type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// --------------------------------------------
// Narrative extraction
// --------------------------------------------
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ExtractedDate is a date mention found in free text. Date is nil when the
// mention could not be resolved to a calendar day.
type ExtractedDate struct {
	Text       string     `json:"text"`
	Date       *time.Time `json:"date"`
	Confidence Confidence `json:"confidence"`
}

type BiographicalFacts struct {
	Dates       []string `json:"dates"`
	Names       []string `json:"names"`
	Locations   []string `json:"locations"`
	LifeLessons []string `json:"life_lessons"`
}

type HealthIntent string

const (
	IntentSymptom     HealthIntent = "symptom"
	IntentMedication  HealthIntent = "medication"
	IntentPain        HealthIntent = "pain"
	IntentAppointment HealthIntent = "appointment"
	IntentMood        HealthIntent = "mood"
	IntentSleep       HealthIntent = "sleep"
	IntentNutrition   HealthIntent = "nutrition"
	IntentGeneral     HealthIntent = "general"
)

// Life chapters used to select follow-up templates.
const (
	ChapterChildhood    = "childhood"
	ChapterCareer       = "career"
	ChapterMarriage     = "marriage"
	ChapterFamily       = "family"
	ChapterHobbies      = "hobbies"
	ChapterTravel       = "travel"
	ChapterAchievements = "achievements"
	ChapterLessons      = "lessons"
)
