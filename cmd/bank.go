package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/examiz/internal/bank"
	"github.com/abhisek/examiz/internal/config"
	"github.com/abhisek/examiz/internal/question"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Validate, import and build question banks",
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a JSON or YAML question file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		qs, err := bank.DecodeFile(args[0])
		if err != nil {
			var verr *bank.ValidationError
			if errors.As(err, &verr) {
				fmt.Fprintf(out, "%s: %d problem(s)\n", args[0], len(verr.Problems))
				for _, p := range verr.Problems {
					fmt.Fprintln(out, "  -", p)
				}
			}
			return err
		}
		fmt.Fprintf(out, "%s: %d questions OK\n", args[0], len(qs))
		return nil
	},
}

var bankImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the questions in the database with a bank file",
	Long: "Replace the questions in the database with a bank file.\n" +
		"Use --source sqlite to take tests from the imported questions.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd, nil)
		if err != nil {
			return err
		}
		defer e.log.Sync() //nolint:errcheck

		qs, err := bank.DecodeFile(args[0])
		if err != nil {
			return err
		}
		st, err := e.openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.QuestionRepo().ReplaceAll(cmd.Context(), qs); err != nil {
			return err
		}
		e.log.Info("bank imported", zap.String("file", args[0]), zap.Int("questions", len(qs)))
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d questions from %s\n", len(qs), args[0])
		return nil
	},
}

var bankBuildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Write test_15/30/45.json and the category catalog",
	Long: "Draw one test per length from a bank file (or the configured source)\n" +
		"and write them with question_categories.json into --out. The result\n" +
		"can be served with 'examiz serve --bank <dir>'.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd, nil)
		if err != nil {
			return err
		}
		defer e.log.Sync() //nolint:errcheck

		pool, err := loadPool(cmd, e, args)
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("out")
		written, err := bank.Build(pool, dir, e.cfg.Weights(), e.cfg.Exam.Seed)
		for _, p := range written {
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", p)
		}
		return err
	},
}

var bankStatsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Show question counts by category and which test lengths fit",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd, nil)
		if err != nil {
			return err
		}
		defer e.log.Sync() //nolint:errcheck

		pool, err := loadPool(cmd, e, args)
		if err != nil {
			return err
		}
		w := e.cfg.Weights()
		s := bank.ComputeStats(pool, w)
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "%d questions", s.Total)
		if s.Ungradable > 0 {
			fmt.Fprintf(out, " (%d without a marked answer)", s.Ungradable)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, strings.Repeat("─", 56))

		weights := w.Map()
		for _, c := range s.Categories() {
			share := "-"
			if v, ok := weights[c]; ok {
				share = fmt.Sprintf("%.0f%%", v*100)
			}
			fmt.Fprintf(out, "%-36s  %6d  %6s\n", question.HumanizeCategory(c), s.PerCategory[c], share)
		}

		fmt.Fprintln(out, strings.Repeat("─", 56))
		for _, n := range question.Lengths {
			mark := "✓"
			if !s.Capacity[n] {
				mark = "✗ (topped up from other categories)"
			}
			fmt.Fprintf(out, "%2d questions  %s\n", n, mark)
		}
		return nil
	},
}

// loadPool reads the whole bank: the file argument when given, otherwise
// the configured bank file, the database, or the embedded sample.
func loadPool(cmd *cobra.Command, e *env, args []string) ([]question.Question, error) {
	if len(args) == 1 {
		return bank.DecodeFile(args[0])
	}
	switch e.cfg.Bank.Source {
	case config.SourceBank:
		return bank.DecodeFile(e.cfg.Bank.Path)
	case config.SourceSQLite:
		st, err := e.openStore()
		if err != nil {
			return nil, err
		}
		defer st.Close()
		return st.QuestionRepo().All(cmd.Context())
	case config.SourceEmbedded:
		return bank.EmbeddedBank()
	}
	return nil, fmt.Errorf("the %s source has no single bank; pass a bank file", e.cfg.Bank.Source)
}

func init() {
	bankBuildCmd.Flags().StringP("out", "o", "tests", "Output directory")

	bankCmd.AddCommand(bankValidateCmd)
	bankCmd.AddCommand(bankImportCmd)
	bankCmd.AddCommand(bankBuildCmd)
	bankCmd.AddCommand(bankStatsCmd)
}
