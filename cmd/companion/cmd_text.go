package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"memory-companion-go/internal/answer"
	"memory-companion-go/internal/narrative"
	"memory-companion-go/internal/punctuation"
	"memory-companion-go/internal/speech"
	"memory-companion-go/internal/types"
)

func newPunctuateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "punctuate [text...]",
		Short: "Capitalise and punctuate raw recognizer text",
		Long: `Punctuate raw speech-recognizer output.

Text is taken from the arguments, or from stdin when no arguments are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), punctuation.Punctuate(text))
			return nil
		},
	}
}

func newAnalyzeCommand() *cobra.Command {
	var duration float64
	cmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Compute speech metrics, emotion and complexity for a transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			return printJSON(cmd, speech.Analyze(text, duration))
		},
	}
	cmd.Flags().Float64Var(&duration, "duration", 60, "Recording length in seconds")
	return cmd
}

type matchResult struct {
	Matched bool   `json:"matched"`
	Stage   string `json:"stage"`
}

func newMatchCommand() *cobra.Command {
	var overlap, phonetic float64
	cmd := &cobra.Command{
		Use:   "match <user-answer> <correct-answer>",
		Short: "Grade a spoken quiz answer",
		Long: `Grade a spoken answer against the expected one.

Prints the verdict and the matching stage that accepted it. Exits with
status 1 when the answer does not match.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := answer.NewMatcher(
				answer.WithOverlapThreshold(overlap),
				answer.WithPhoneticThreshold(phonetic),
			)
			ok, stage := m.Explain(args[0], args[1])
			if err := printJSON(cmd, matchResult{Matched: ok, Stage: stage.String()}); err != nil {
				return err
			}
			if !ok {
				return &NoMatchError{Message: fmt.Sprintf("%q does not match %q", args[0], args[1])}
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&overlap, "overlap-threshold", 0.70, "Minimum word overlap ratio")
	cmd.Flags().Float64Var(&phonetic, "phonetic-threshold", 0.90, "Minimum Jaro-Winkler similarity for phonetic matches")
	return cmd
}

type datesResult struct {
	Dates   []types.ExtractedDate `json:"dates"`
	Undated bool                  `json:"undated_event"`
}

func newDatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dates [text...]",
		Short: "Extract date mentions and flag undated life events",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			dates := narrative.ExtractDates(text)
			if dates == nil {
				dates = []types.ExtractedDate{}
			}
			return printJSON(cmd, datesResult{Dates: dates, Undated: narrative.HasUndatedEvent(text)})
		},
	}
}

func newFactsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "facts [text...]",
		Short: "Extract names, places, dates and life lessons from a transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			return printJSON(cmd, narrative.ExtractBiographicalFacts(text))
		},
	}
}

func newFollowUpsCommand() *cobra.Command {
	var chapter string
	cmd := &cobra.Command{
		Use:   "followups [previous-answer...]",
		Short: "Suggest follow-up questions for a life chapter",
		Long: `Suggest follow-up questions.

Each argument is one previous answer, oldest first. The most recent answer
drives keyword-based questions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, q := range narrative.GenerateFollowUps(chapter, args) {
				fmt.Fprintln(cmd.OutOrStdout(), q)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&chapter, "chapter", "", "Life chapter: childhood | career | marriage | family | hobbies | travel")
	return cmd
}
