package tutor

import (
	"fmt"
	"strings"

	"github.com/abhisek/examiz/internal/question"
)

const systemPrompt = `You are a Microsoft Fabric and Power BI instructor helping a learner review a DP-600 practice exam. Be accurate and brief. Refer to options by their letter.`

func buildUserMessage(in Input) string {
	q := in.Question
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n\n", question.HumanizeCategory(q.Category))
	fmt.Fprintf(&b, "Question:\n%s\n\nOptions:\n", q.Text)
	for _, opt := range q.Options {
		fmt.Fprintf(&b, "%s. %s\n", opt.Label, opt.Text)
	}

	if ans, ok := q.Answer(); ok {
		fmt.Fprintf(&b, "\nMarked correct answer: %s\n", ans)
	} else {
		b.WriteString("\nMarked correct answer: none (the source did not mark one; say which option you believe is best and why)\n")
	}

	switch {
	case in.Selected == "":
		b.WriteString("Learner's answer: not answered\n")
	case q.Options.Has(in.Selected):
		fmt.Fprintf(&b, "Learner's answer: %s\n", in.Selected)
	default:
		fmt.Fprintf(&b, "Learner's answer: %s (not one of the options)\n", in.Selected)
	}

	if q.Explanation != "" {
		fmt.Fprintf(&b, "\nReference explanation:\n%s\n", q.Explanation)
	}

	b.WriteString(`
Instructions:
Explain the question for someone preparing for the exam. Keep each field under 80 words. Use plain text.`)
	return b.String()
}
