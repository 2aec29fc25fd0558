package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"memory-companion-go/internal/types"
)

const reportSheet = "Reports"

var reportHeader = []interface{}{
	"Report ID", "Session ID", "Chapter", "Transcript", "Emotion", "Time of Day",
	"Complexity", "Vocabulary", "Grammar", "Speech Rate", "Flesch-Kincaid",
	"Dates", "Undated Event", "Names", "Locations", "Health Intent",
	"Follow-ups", "Error",
}

// ExportReports writes reports to a new xlsx workbook at path, one row per
// report under a header row.
func ExportReports(path string, reports []types.SessionReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), reportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(reportSheet, "A1", &reportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range reports {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := reportRow(r)
		if err := f.SetSheetRow(reportSheet, cellRef, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func reportRow(r types.SessionReport) []interface{} {
	dates := make([]string, len(r.Dates))
	for i, d := range r.Dates {
		dates[i] = d.Text
	}
	return []interface{}{
		r.ReportID,
		r.SessionID,
		r.Chapter,
		r.Transcript,
		string(r.EmotionalState),
		string(r.TimeOfDay),
		r.ComplexityScore,
		r.Metrics.VocabularyComplexity,
		r.Metrics.GrammarConsistency,
		r.Metrics.SpeechRate,
		r.Metrics.FleschKincaidGrade,
		strings.Join(dates, "; "),
		strconv.FormatBool(r.UndatedEvent),
		strings.Join(r.Facts.Names, "; "),
		strings.Join(r.Facts.Locations, "; "),
		string(r.HealthIntent),
		strings.Join(r.FollowUps, " | "),
		r.Error,
	}
}
