// internal/processor/processor.go
package processor

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"memory-companion-go/internal/logger"
	"memory-companion-go/internal/narrative"
	"memory-companion-go/internal/observe"
	"memory-companion-go/internal/punctuation"
	"memory-companion-go/internal/speech"
	"memory-companion-go/internal/types"
)

// Transcriber turns a recording URL into raw transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) (string, error)
}

type Option func(*Processor)

func WithAnalyzer(a *speech.Analyzer) Option {
	return func(p *Processor) { p.analyzer = a }
}

func WithTranscriber(t Transcriber) Option {
	return func(p *Processor) { p.transcriber = t }
}

func WithMetrics(m *observe.Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

func WithLogger(l *logger.Logger) Option {
	return func(p *Processor) { p.log = l }
}

// WithIDGenerator replaces the uuid report ID generator.
func WithIDGenerator(f func() string) Option {
	return func(p *Processor) { p.newID = f }
}

// Processor turns journal sessions into SessionReports.
type Processor struct {
	analyzer    *speech.Analyzer
	transcriber Transcriber
	metrics     *observe.Metrics
	log         *logger.Logger
	newID       func() string
}

func New(opts ...Option) *Processor {
	p := &Processor{
		analyzer: speech.NewAnalyzer(),
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(p)
	}
	if p.metrics == nil {
		p.metrics = observe.DefaultMetrics()
	}
	if p.log == nil {
		p.log = logger.Discard()
	}
	p.log = p.log.Component("processor")
	return p
}

// ProcessSession analyses a session whose transcript is already known. Raw
// recognizer text without any sentence punctuation is punctuated first.
func (p *Processor) ProcessSession(ctx context.Context, rec types.SessionRecord) types.SessionReport {
	start := time.Now()
	transcript := strings.TrimSpace(rec.Transcript)
	if transcript != "" && !strings.ContainsAny(transcript, ".!?") {
		transcript = punctuation.Punctuate(transcript)
	}

	analysis := p.analyzer.Analyze(transcript, rec.DurationSeconds)
	if !rec.RecordedAt.IsZero() {
		analysis.TimeOfDay = speech.TimeOfDayAt(rec.RecordedAt)
	}

	res := types.SessionReport{
		ReportID:        p.newID(),
		SessionID:       rec.SessionID,
		Chapter:         rec.Chapter,
		Transcript:      transcript,
		Metrics:         analysis.Metrics,
		EmotionalState:  analysis.EmotionalState,
		TimeOfDay:       analysis.TimeOfDay,
		ComplexityScore: analysis.ComplexityScore,
		Dates:           narrative.ExtractDates(transcript),
		UndatedEvent:    narrative.HasUndatedEvent(transcript),
		Facts:           narrative.ExtractBiographicalFacts(transcript),
		FollowUps:       narrative.GenerateFollowUps(rec.Chapter, append(append([]string(nil), rec.PriorResponses...), transcript)),
	}
	if intent, ok := narrative.DetectHealthIntent(transcript); ok {
		res.HealthIntent = intent
		p.metrics.RecordHealthIntent(ctx, string(intent))
	}

	elapsed := time.Since(start)
	p.metrics.AnalysisDuration.Record(ctx, elapsed.Seconds())
	res.DurationMs = elapsed.Milliseconds()
	return res
}
