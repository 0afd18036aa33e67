package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "examiz",
	Short: "DP-600 practice exams in your terminal",
	Long: "Examiz runs practice tests for the Microsoft Fabric Analytics\n" +
		"Engineer (DP-600) exam, scores them by category and exports the results.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, appOptions{})
	},
}

// Execute runs the root command. ctx is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default: $XDG_CONFIG_HOME/examiz/examiz.yaml or ./examiz.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides EXAMIZ_DB)")
	pf.String("source", "", "Question source: embedded, dir, bank, sqlite or http")
	pf.String("bank", "", "Question bank file or test directory")
	pf.String("url", "", "Base URL of an examiz question server")
	pf.String("log-file", "", "Log file path")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.Bool("debug", false, "Log at debug level")
	pf.Uint64("seed", 0, "Fix question selection (0 picks a new selection each test)")
	pf.Int("threshold", 0, "Pass mark as a percentage")
	pf.String("llm", "", "Tutor LLM provider: anthropic, openai, gemini, openrouter or mock")

	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
