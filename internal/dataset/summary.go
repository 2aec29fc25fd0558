package dataset

import (
	"fmt"
	"sort"
	"strings"

	"memory-companion-go/internal/logger"
)

type DatasetSummary struct {
	TotalSessions      int            `json:"total_sessions"`
	ByChapter          map[string]int `json:"by_chapter"`
	WithAudio          int            `json:"with_audio"`
	WithTranscript     int            `json:"with_transcript"`
	Users              int            `json:"users"`
	AvgDurationSeconds float64        `json:"avg_duration_seconds"`
	TopChapters        []string       `json:"top_chapters"`
	ExampleTranscripts []string       `json:"example_transcripts"`
}

const maxExamples = 6

// LoadAndSummarize reads the journal workbook and produces a compact summary
// for the dashboard.
func LoadAndSummarize(path string, log *logger.Logger) (DatasetSummary, error) {
	l := log.Component("dataset.summary").WithField("path", path)
	l.Info("opening dataset for summarization")

	records, err := Load(path)
	if err != nil {
		l.WithError(err).Error("load failed")
		return DatasetSummary{}, fmt.Errorf("load: %w", err)
	}

	ds := DatasetSummary{
		TotalSessions: len(records),
		ByChapter:     map[string]int{},
	}
	users := map[string]struct{}{}
	var totalDuration float64
	timed := 0
	for _, r := range records {
		chapter := r.Chapter
		if chapter == "" {
			chapter = "unspecified"
		}
		ds.ByChapter[chapter]++
		if r.AudioURL != "" {
			ds.WithAudio++
		}
		if r.Transcript != "" {
			ds.WithTranscript++
			if len(ds.ExampleTranscripts) < maxExamples {
				ds.ExampleTranscripts = append(ds.ExampleTranscripts, r.Transcript)
			}
		}
		if r.UserID != "" {
			users[strings.ToLower(r.UserID)] = struct{}{}
		}
		if r.DurationSeconds > 0 {
			totalDuration += r.DurationSeconds
			timed++
		}
	}
	ds.Users = len(users)
	if timed > 0 {
		ds.AvgDurationSeconds = totalDuration / float64(timed)
	}
	ds.TopChapters = topChapters(ds.ByChapter, 3)

	l.WithFields(map[string]interface{}{
		"total_sessions": ds.TotalSessions,
		"chapters":       len(ds.ByChapter),
		"users":          ds.Users,
	}).Info("dataset summarization complete")
	return ds, nil
}

func topChapters(counts map[string]int, n int) []string {
	type pc struct {
		chapter string
		count   int
	}
	arr := make([]pc, 0, len(counts))
	for k, v := range counts {
		arr = append(arr, pc{k, v})
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].count != arr[j].count {
			return arr[i].count > arr[j].count
		}
		return arr[i].chapter < arr[j].chapter
	})
	top := []string{}
	for i := 0; i < len(arr) && i < n; i++ {
		top = append(top, arr[i].chapter)
	}
	return top
}
