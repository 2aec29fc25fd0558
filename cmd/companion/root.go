package main

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"memory-companion-go/internal/logger"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "companion",
		Short: "companion - offline tools for the memory companion text pipeline",
		Long: `companion runs the journaling pipeline from the command line.

It punctuates and analyses transcripts, grades quiz answers, extracts dates
and biographical facts, proposes follow-up questions and builds caregiver
reports from a journal workbook.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("log-level", "warn", "Log level: debug | info | warn | error")

	cmd.AddCommand(newPunctuateCommand())
	cmd.AddCommand(newAnalyzeCommand())
	cmd.AddCommand(newMatchCommand())
	cmd.AddCommand(newDatesCommand())
	cmd.AddCommand(newFactsCommand())
	cmd.AddCommand(newFollowUpsCommand())
	cmd.AddCommand(newReportCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}

// cmdLogger writes structured logs to the command's error stream.
func cmdLogger(cmd *cobra.Command) *logger.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logger.NewWithWriter(cmd.ErrOrStderr(), level)
}

// inputText joins args, or reads stdin when there are none.
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
