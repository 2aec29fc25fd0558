package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"memory-companion-go/internal/actionable"
	"memory-companion-go/internal/aggregator"
	"memory-companion-go/internal/config"
	"memory-companion-go/internal/dataset"
	"memory-companion-go/internal/pipeline"
	"memory-companion-go/internal/processor"
	"memory-companion-go/internal/transcription"
)

type reportOutput struct {
	Insight aggregator.Insight      `json:"insight"`
	Actions []actionable.ActionCard `json:"actions"`
	Export  string                  `json:"export,omitempty"`
}

func newReportCommand() *cobra.Command {
	var (
		datasetPath string
		exportPath  string
		workers     int
		timeout     time.Duration
		mock        bool
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Analyse a journal workbook and print caregiver insights",
		Long: `Analyse every session in a journal workbook.

Sessions are processed concurrently. Rows with only an audio URL are
transcribed first using TRANSCRIBE_URL, or a canned transcript with --mock.
Per-session reports can be written to a new workbook with --out.

Defaults come from the environment and CONFIG_FILE; flags override them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(os.LookupEnv)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("dataset") {
				datasetPath = cfg.Dataset.Path
			}
			if !cmd.Flags().Changed("out") {
				exportPath = cfg.Dataset.ExportPath
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Pipeline.Workers
			}
			if !cmd.Flags().Changed("timeout") {
				timeout = cfg.Pipeline.SessionTimeout
			}
			mock = mock || cfg.Transcription.Mock

			log := cmdLogger(cmd)
			records, err := dataset.Load(datasetPath)
			if err != nil {
				return fmt.Errorf("loading dataset: %w", err)
			}
			log.WithField("sessions", len(records)).Info("dataset loaded")

			proc := processor.New(
				processor.WithLogger(log),
				processor.WithTranscriber(transcription.New(cfg.Transcription.URL,
					transcription.WithMock(mock),
					transcription.WithTimeout(cfg.Transcription.Timeout),
					transcription.WithLogger(log),
				)),
			)
			reports, err := pipeline.Run(cmd.Context(), proc, records, pipeline.Options{
				Workers:        workers,
				SessionTimeout: timeout,
				Logger:         log,
			})
			if err != nil {
				return fmt.Errorf("processing sessions: %w", err)
			}

			out := reportOutput{Insight: aggregator.Aggregate(reports)}
			out.Actions = actionable.Generate(out.Insight)
			if exportPath != "" {
				if err := dataset.ExportReports(exportPath, reports); err != nil {
					return fmt.Errorf("exporting reports: %w", err)
				}
				out.Export = exportPath
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Journal workbook (.xlsx); defaults to DATASET_PATH")
	cmd.Flags().StringVarP(&exportPath, "out", "o", "", "Write per-session reports to this workbook")
	cmd.Flags().IntVar(&workers, "workers", 4, "Sessions processed in parallel")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Per-session timeout")
	cmd.Flags().BoolVar(&mock, "mock", false, "Use a canned transcript instead of calling the transcription service")
	return cmd
}
