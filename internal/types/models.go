package types

import "time"

// SessionRecord is one journaling session as delivered by the app layer or
// loaded from a dataset workbook.
type SessionRecord struct {
	SessionID       string    `json:"session_id"`
	UserID          string    `json:"user_id,omitempty"`
	Chapter         string    `json:"chapter,omitempty"`
	AudioURL        string    `json:"audio_url,omitempty"`
	Transcript      string    `json:"transcript"`
	DurationSeconds float64   `json:"duration_seconds"`
	RecordedAt      time.Time `json:"recorded_at,omitempty"`
	PriorResponses  []string  `json:"prior_responses,omitempty"`
}

// SessionReport is the full analysis of a SessionRecord.
type SessionReport struct {
	ReportID        string            `json:"report_id"`
	SessionID       string            `json:"session_id"`
	Chapter         string            `json:"chapter,omitempty"`
	Transcript      string            `json:"transcript"`
	Metrics         SpeechMetrics     `json:"metrics"`
	EmotionalState  EmotionalState    `json:"emotional_state"`
	TimeOfDay       TimeOfDay         `json:"time_of_day"`
	ComplexityScore float64           `json:"complexity_score"`
	Dates           []ExtractedDate   `json:"dates"`
	UndatedEvent    bool              `json:"undated_event"`
	Facts           BiographicalFacts `json:"facts"`
	HealthIntent    HealthIntent      `json:"health_intent,omitempty"`
	FollowUps       []string          `json:"follow_ups"`
	DurationMs      int64             `json:"duration_ms"`
	Error           string            `json:"error,omitempty"`
}

// QA is one asked question and the committed answer transcript.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
