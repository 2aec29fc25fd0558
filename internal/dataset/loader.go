package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"memory-companion-go/internal/narrative"
	"memory-companion-go/internal/types"
)

// ErrNoRows is returned for a workbook whose first sheet has no data rows.
var ErrNoRows = errors.New("dataset: no data rows")

// columns holds the detected index of each known column, -1 when absent.
type columns struct {
	session, user, chapter, audio, transcript, duration, recorded int
}

// detectColumns maps header cells to fields by keyword. The first matching
// column wins for each field.
func detectColumns(header []string) columns {
	c := columns{-1, -1, -1, -1, -1, -1, -1}
	set := func(dst *int, i int) {
		if *dst == -1 {
			*dst = i
		}
	}
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "session"):
			set(&c.session, i)
		case strings.Contains(l, "user") || strings.Contains(l, "member"):
			set(&c.user, i)
		case strings.Contains(l, "chapter") || strings.Contains(l, "topic"):
			set(&c.chapter, i)
		case strings.Contains(l, "audio") || strings.Contains(l, "recording") || strings.Contains(l, "url"):
			set(&c.audio, i)
		case strings.Contains(l, "transcript") || strings.Contains(l, "text"):
			set(&c.transcript, i)
		case strings.Contains(l, "duration") || strings.Contains(l, "seconds"):
			set(&c.duration, i)
		case strings.Contains(l, "date") || strings.Contains(l, "recorded") || strings.Contains(l, "time"):
			set(&c.recorded, i)
		case l == "id":
			set(&c.session, i)
		}
	}
	return c
}

// readRows returns the rows of the first sheet including the header.
func readRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, ErrNoRows
	}
	return rows, nil
}

// Load reads journal sessions from the first sheet of an xlsx workbook.
// Rows with neither a transcript nor an http(s) audio URL are skipped, and
// rows without a session ID get "row-<n>".
func Load(path string) ([]types.SessionRecord, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	c := detectColumns(rows[0])

	var out []types.SessionRecord
	for i, r := range rows[1:] {
		rec := types.SessionRecord{
			SessionID:  cell(r, c.session),
			UserID:     cell(r, c.user),
			Chapter:    strings.ToLower(cell(r, c.chapter)),
			Transcript: cell(r, c.transcript),
		}
		if audio := cell(r, c.audio); isHTTPURL(audio) {
			rec.AudioURL = audio
		}
		if rec.Transcript == "" && rec.AudioURL == "" {
			continue
		}
		if rec.SessionID == "" {
			rec.SessionID = "row-" + strconv.Itoa(i+2)
		}
		if d, err := strconv.ParseFloat(cell(r, c.duration), 64); err == nil && d > 0 {
			rec.DurationSeconds = d
		}
		if t, ok := parseTimestamp(cell(r, c.recorded)); ok {
			rec.RecordedAt = t
		}
		out = append(out, rec)
	}
	return out, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isHTTPURL(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

var timestampLayouts = []string{
	time.RFC3339,
	time.DateTime,
	"2006-01-02 15:04",
	"01/02/2006 15:04",
}

// parseTimestamp accepts full timestamps first so the time of day survives,
// then anything narrative.ParseUserDate understands.
func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return narrative.ParseUserDate(s)
}
