package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"memory-companion-go/internal/narrative"
	"memory-companion-go/internal/types"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	rootCmd := newRootCommand()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPunctuateCommand(t *testing.T) {
	out, err := run(t, "", "punctuate", "hello", "there")
	require.NoError(t, err)
	assert.Equal(t, "Hello there.\n", out)

	out, err = run(t, "we went to the sea\n", "punctuate")
	require.NoError(t, err)
	assert.Equal(t, "We went to the sea.\n", out)
}

func TestAnalyzeCommand(t *testing.T) {
	out, err := run(t, "", "analyze", "--duration", "60", "I feel happy. I feel happy.")
	require.NoError(t, err)

	var got struct {
		WordCount      int                  `json:"word_count"`
		EmotionalState types.EmotionalState `json:"emotional_state"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 6, got.WordCount)
	assert.Equal(t, types.EmotionHappy, got.EmotionalState)
}

func TestMatchCommand(t *testing.T) {
	out, err := run(t, "", "match", "Paris", "paris")
	require.NoError(t, err)
	var got matchResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, matchResult{Matched: true, Stage: "exact"}, got)

	_, err = run(t, "", "match", "london", "paris")
	var noMatch *NoMatchError
	require.True(t, errors.As(err, &noMatch))

	_, err = run(t, "", "match", "only-one")
	require.Error(t, err)
}

func TestDatesAndFactsCommands(t *testing.T) {
	out, err := run(t, "", "dates", "We married in 1965 and moved in 1970.")
	require.NoError(t, err)
	var dates datesResult
	require.NoError(t, json.Unmarshal([]byte(out), &dates))
	require.Len(t, dates.Dates, 2)
	assert.False(t, dates.Undated)

	text := "I met Mary in Boston in 1962."
	out, err = run(t, text, "facts")
	require.NoError(t, err)
	var facts types.BiographicalFacts
	require.NoError(t, json.Unmarshal([]byte(out), &facts))
	assert.Equal(t, narrative.ExtractBiographicalFacts(text), facts)
}

func TestFollowUpsCommand(t *testing.T) {
	out, err := run(t, "", "followups", "--chapter", "career", "I worked at the mill.")
	require.NoError(t, err)
	want := narrative.GenerateFollowUps(types.ChapterCareer, []string{"I worked at the mill."})
	assert.Equal(t, strings.Join(want, "\n")+"\n", out)
}

func TestReportCommand(t *testing.T) {
	dir := t.TempDir()
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	rows := [][]interface{}{
		{"Session ID", "Chapter", "Audio URL", "Transcript", "Duration (s)"},
		{"s-1", "career", "", "I worked at the mill for thirty years.", "30"},
		{"s-2", "childhood", "https://audio.example.com/2.wav", "", "40"},
	}
	for i, row := range rows {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, ref, &row))
	}
	in := filepath.Join(dir, "journal.xlsx")
	require.NoError(t, wb.SaveAs(in))
	require.NoError(t, wb.Close())

	export := filepath.Join(dir, "reports.xlsx")
	out, err := run(t, "", "report", "--dataset", in, "--out", export, "--mock", "--workers", "2")
	require.NoError(t, err)

	var got reportOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.Insight.Sessions)
	assert.Equal(t, 0, got.Insight.Failed)
	assert.NotEmpty(t, got.Actions)
	assert.Equal(t, export, got.Export)
	assert.FileExists(t, export)
}

func TestReportCommand_MissingDataset(t *testing.T) {
	_, err := run(t, "", "report", "--dataset", filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading dataset")
}
