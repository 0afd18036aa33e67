package cmd

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/examiz/internal/bank"
	"github.com/abhisek/examiz/internal/question"
	"github.com/abhisek/examiz/internal/report"
	"github.com/abhisek/examiz/internal/session"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a recorded answer file and write a report",
	Long: "Score a recorded answer file and write a report.\n\n" +
		"The answers file maps question IDs to option labels, e.g.\n" +
		"  {\"1\": \"A\", \"2\": \"C\"}\n" +
		"Missing IDs count as unanswered.",
	Example: "  examiz score --questions tests/test_15.json --answers answers.json --out results.pdf",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd, nil)
		if err != nil {
			return err
		}
		defer e.log.Sync() //nolint:errcheck

		qPath, _ := cmd.Flags().GetString("questions")
		aPath, _ := cmd.Flags().GetString("answers")
		outPath, _ := cmd.Flags().GetString("out")
		formatName, _ := cmd.Flags().GetString("format")

		qs, err := bank.DecodeFile(qPath)
		if err != nil {
			return err
		}
		answers, err := readAnswers(aPath)
		if err != nil {
			return err
		}

		format, outPath, err := reportTarget(formatName, outPath)
		if err != nil {
			return err
		}

		snap, rejected := replayAnswers(qs, answers)
		if len(rejected) > 0 {
			e.log.Warn("answers for unknown questions ignored", zap.Ints("ids", rejected))
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: ignored answers for question ids not in %s: %v\n", qPath, rejected)
		}

		res := e.cfg.Exam.Policy.Score(snap.Questions, snap.Answers)
		in := report.FromSnapshot(snap, res)
		in.GeneratedAt = time.Now()
		// Recorded answers carry no timing.
		in.Duration = 0
		if err := report.WriteFile(outPath, format, in); err != nil {
			return err
		}
		e.log.Info("report written",
			zap.String("path", outPath),
			zap.Int("correct", res.Overall.Correct),
			zap.Int("total", res.Overall.Total))

		label := "FAIL"
		if res.IsPassing {
			label = "PASS"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d/%d (%d%%) %s\nReport saved to %s\n",
			res.Overall.Correct, res.Overall.Total, res.Overall.Percentage, label, outPath)
		return nil
	},
}

// reportTarget resolves the output format and path. An explicit format
// wins; otherwise the extension decides, and with neither the report is a
// PDF under the default name.
func reportTarget(formatName, path string) (report.Format, string, error) {
	switch {
	case formatName != "":
		f, err := report.ParseFormat(formatName)
		if err != nil {
			return "", "", err
		}
		if path == "" {
			path = report.DefaultFileName(f)
		}
		return f, path, nil
	case path == "":
		return report.FormatPDF, report.DefaultFileName(report.FormatPDF), nil
	}
	f, err := report.FormatFromPath(path)
	return f, path, err
}

// replayAnswers records answers through a session so ids outside the
// question set are rejected the same way the TUI rejects them. It returns
// the finished snapshot and the rejected ids in ascending order.
func replayAnswers(qs []question.Question, answers question.AnswerMap) (session.Snapshot, []int) {
	st := session.New()
	st.Load(question.Length(len(qs)), qs)

	var rejected []int
	for _, id := range slices.Sorted(maps.Keys(answers)) {
		if err := st.RecordAnswer(id, answers[id]); err != nil {
			rejected = append(rejected, id)
		}
	}
	st.Finish()
	return st.Snapshot(), rejected
}

// readAnswers decodes a JSON or YAML id -> label map.
func readAnswers(path string) (question.AnswerMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	answers := question.AnswerMap{}
	if bank.FormatFromPath(path) == bank.FormatYAML {
		err = yaml.Unmarshal(data, &answers)
	} else {
		err = json.Unmarshal(data, &answers)
	}
	if err != nil {
		return nil, fmt.Errorf("decode answers %s: %w", path, err)
	}
	return answers, nil
}

func init() {
	f := scoreCmd.Flags()
	f.String("questions", "", "Question set the answers refer to (JSON or YAML)")
	f.String("answers", "", "Answers file (JSON or YAML)")
	f.StringP("out", "o", "", "Report path (default dp600-exam-results.pdf)")
	f.String("format", "", "Report format: pdf, md or json (default: from --out)")
	_ = scoreCmd.MarkFlagRequired("questions")
	_ = scoreCmd.MarkFlagRequired("answers")
}
