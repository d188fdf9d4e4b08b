package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/readpat/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordInput           = "input"
	wordInputs          = "inputs"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "12 values from 3 inputs, 1 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.InputsDiscovered == 0 {
		return s.Dim.Render("No inputs") + "\n"
	}

	parts := []string{fmt.Sprintf("%d %s from %d %s",
		stats.ValuesTotal, plural(stats.ValuesTotal, "value", "values"),
		stats.InputsDiscovered, plural(stats.InputsDiscovered, wordInput, wordInputs),
	)}

	if stats.InputsFailed > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.InputsFailed)))
	} else {
		parts[0] = s.Success.Render(parts[0])
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Inputs read:       " +
		s.SummaryValue.Render(strconv.Itoa(stats.InputsProcessed)) + "\n")

	if stats.InputsFailed > 0 {
		builder.WriteString("  Inputs failed:     " +
			s.Failure.Render(strconv.Itoa(stats.InputsFailed)) + "\n")
	}

	builder.WriteString("  Values extracted:  " +
		s.SummaryValue.Render(strconv.Itoa(stats.ValuesTotal)) + "\n")

	builder.WriteString("\n")

	switch {
	case stats.InputsFailed > 0:
		builder.WriteString(s.Failure.Render("Read failed"))
	case stats.ValuesTotal == 0:
		builder.WriteString(s.Warning.Render("Read completed with no values"))
	default:
		builder.WriteString(s.Success.Render("Read completed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
