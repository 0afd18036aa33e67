package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

func renderMarkdown(w io.Writer, in Input) error {
	b := bufio.NewWriter(w)
	r := in.Result

	fmt.Fprintf(b, "# %s\n\n", in.Title)
	fmt.Fprintf(b, "_%s_\n\n", in.Subtitle)
	fmt.Fprintf(b, "Generated on: %s\n\n", in.GeneratedAt.Format("2006-01-02"))

	fmt.Fprintf(b, "## Overall Score\n\n")
	fmt.Fprintf(b, "- Score: %d/%d (%d%%)\n", r.Overall.Correct, r.Overall.Total, r.Overall.Percentage)
	fmt.Fprintf(b, "- Result: **%s** (pass mark %d%%)\n", passLabel(r), r.PassThreshold)
	if d := formatDuration(in.Duration); d != "" {
		fmt.Fprintf(b, "- Time taken: %s\n", d)
	}
	if in.AttemptID != "" {
		fmt.Fprintf(b, "- Attempt: `%s`\n", in.AttemptID)
	}

	fmt.Fprintf(b, "\n## Category Breakdown\n\n")
	fmt.Fprintf(b, "| Category | Score | Percentage |\n|---|---|---|\n")
	for _, c := range r.Categories {
		fmt.Fprintf(b, "| %s | %d/%d | %d%% |\n", cell(c.Label), c.Correct, c.Total, c.Percentage)
	}

	fmt.Fprintf(b, "\n## Question Analysis\n\n")
	fmt.Fprintf(b, "| # | Result | Your Answer | Correct Answer |\n|---|---|---|---|\n")
	for _, row := range Rows(in) {
		fmt.Fprintf(b, "| %d | %s %s | %s | %s |\n",
			row.Position, row.Status.Symbol(), row.Status,
			cell(row.YourAnswer), cell(row.CorrectAnswer))
	}

	return b.Flush()
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

func cell(s string) string {
	return cellEscaper.Replace(s)
}
