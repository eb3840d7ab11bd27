package llm

import (
	"context"
	"strings"

	"fincopilot/internal/analysis"
)

const systemPrompt = `You are a personal finance copilot. Answer using ONLY the data below.
Rules:
- ALWAYS use the exact numbers from the data. Never say "income isn't provided" if the data contains "Total income: ₹X".
- When asked about income, expenses, or money in hand: state the exact figures (Total income: ₹X, Total expenses: ₹Y, Net: ₹Z).
- Be brief and natural.
- No generic advice, motivational quotes, or vague language.`

// DataText renders the advisory output as the grounding block the model
// answers from.
func DataText(out analysis.AdvisoryOutput) string {
	parts := []string{"FINANCIAL DATA (use these exact numbers):"}
	for _, i := range out.KeyInsights {
		parts = append(parts, " - "+i)
	}
	parts = append(parts, "\nSummary: "+out.Summary, "\nRisks:")
	if len(out.RisksWarnings) == 0 {
		parts = append(parts, " - None")
	}
	for _, r := range out.RisksWarnings {
		parts = append(parts, " - "+r)
	}
	parts = append(parts, "\nActionable suggestions:")
	for _, s := range out.ActionableSuggestions {
		parts = append(parts, " - "+s)
	}
	return strings.Join(parts, "\n")
}

// AnswerWithData answers a free-form question grounded in the advisory
// output's exact figures.
func (c *Client) AnswerWithData(ctx context.Context, question string, out analysis.AdvisoryOutput) (string, error) {
	user := "Data about the user's finances:\n" + DataText(out) + "\n\nUser question: " + question
	return c.Complete(ctx, systemPrompt, user)
}
