package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/examiz/internal/question"
)

var takeCmd = &cobra.Command{
	Use:   "take",
	Short: "Start a practice test straight away",
	Example: "  examiz take --length 30\n" +
		"  examiz take --bank ./tests --length 45",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("length")
		n, err := question.ParseLength(raw)
		if err != nil {
			return err
		}
		return runApp(cmd, appOptions{length: n})
	},
}

func init() {
	takeCmd.Flags().StringP("length", "n", question.LengthShort.String(),
		"Number of questions: "+question.LengthsString())
}
