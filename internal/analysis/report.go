package analysis

import "strings"

// FormatReport renders the advisory as a fixed four-section text report.
// The output is always well-formed regardless of upstream agent failures,
// since every list carries at least its placeholder line.
func FormatReport(output AdvisoryOutput) string {
	lines := []string{
		"## Summary",
		output.Summary,
		"",
		"## Key Insights",
	}
	for _, i := range output.KeyInsights {
		lines = append(lines, "- "+i)
	}
	lines = append(lines, "", "## Risks / Warnings")
	for _, r := range output.RisksWarnings {
		lines = append(lines, "- "+r)
	}
	lines = append(lines, "", "## Actionable Suggestions")
	for _, s := range output.ActionableSuggestions {
		lines = append(lines, "- "+s)
	}
	return strings.Join(lines, "\n")
}
