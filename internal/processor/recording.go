package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"memory-companion-go/internal/types"
)

// ErrNoTranscriber is returned when a record only carries an audio URL and
// the Processor has no Transcriber.
var ErrNoTranscriber = errors.New("processor: no transcriber configured")

// ProcessRecording transcribes rec.AudioURL when rec has no transcript yet and
// then analyses it. On failure the returned report carries the error text
// alongside the error.
func (p *Processor) ProcessRecording(ctx context.Context, rec types.SessionRecord) (types.SessionReport, error) {
	if rec.Transcript == "" && rec.AudioURL != "" {
		tr, err := p.transcribe(ctx, rec.AudioURL)
		if err != nil {
			return types.SessionReport{
				ReportID:  p.newID(),
				SessionID: rec.SessionID,
				Chapter:   rec.Chapter,
				Error:     fmt.Sprintf("transcription error: %v", err),
			}, err
		}
		rec.Transcript = tr
	}
	return p.ProcessSession(ctx, rec), nil
}

func (p *Processor) transcribe(ctx context.Context, audioURL string) (string, error) {
	if p.transcriber == nil {
		return "", ErrNoTranscriber
	}
	start := time.Now()
	tr, err := p.transcriber.Transcribe(ctx, audioURL)
	p.metrics.TranscriptionDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		p.log.WithError(err).WithField("audio_url", audioURL).Warn("transcription failed")
		return "", err
	}
	return tr, nil
}
