package pretty

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/readpat/pkg/interp"
	"github.com/yaklabco/readpat/pkg/pattern"
)

// sourceIndent aligns source context under a diagnostic line.
const sourceIndent = "        "

// FormatSyntaxError formats a pattern syntax error with the offending
// pattern line and a caret under the reported column.
func (s *Styles) FormatSyntaxError(source string, err *pattern.SyntaxError) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		s.Location.Render("pattern:"+err.Pos.String()),
		s.Error.Render("error"),
		s.Message.Render(err.Message()),
	))

	if line, ok := sourceLine(source, err.Pos.Line); ok {
		builder.WriteString(s.FormatSourceContext(line, err.Pos.Column))
	}

	return builder.String()
}

// FormatInputError formats the failure of one input. When err locates the
// failing operation in the pattern, the pattern line is shown with a caret.
func (s *Styles) FormatInputError(path string, err error, source string) string {
	var builder strings.Builder

	var detailed *interp.DetailedError
	if !errors.As(err, &detailed) {
		builder.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			s.InputPath.Render(path),
			s.Error.Render("error"),
			s.Message.Render(err.Error()),
		))
		return builder.String()
	}

	location := fmt.Sprintf("%s:%s",
		s.InputPath.Render(path),
		s.Location.Render(fmt.Sprintf("@%d", detailed.Offset)),
	)
	builder.WriteString(fmt.Sprintf("  %s  %s  %s",
		location,
		s.Error.Render("error"),
		s.Message.Render(detailed.Err.Error()),
	))
	if detailed.Fragment != "" {
		builder.WriteString("  " + s.Fragment.Render("("+detailed.Fragment+")"))
	}
	builder.WriteString("\n")

	if detailed.PatternPos.IsValid() {
		if line, ok := sourceLine(source, detailed.PatternPos.Line); ok {
			builder.WriteString(s.FormatSourceContext(line, detailed.PatternPos.Column))
		}
	}

	return builder.String()
}

// FormatSourceContext formats the source line with a caret marker. column
// counts characters from 1.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	builder.WriteString(sourceIndent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := sourceIndent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatInputHeader formats an input header for grouped output.
func (s *Styles) FormatInputHeader(path string, valueCount int) string {
	header := s.InputPath.Render(path)
	switch valueCount {
	case 0:
	case 1:
		header += s.Dim.Render(" (1 value)")
	default:
		header += s.Dim.Render(fmt.Sprintf(" (%d values)", valueCount))
	}
	return header
}

// FormatValue formats one extracted value with its index.
func (s *Styles) FormatValue(index int, value string) string {
	return "  " + s.Index.Render(fmt.Sprintf("%d:", index)) + " " + s.Value.Render(fmt.Sprintf("%q", value))
}

// sourceLine returns the 1-based line of source. Line breaks follow the
// pattern cursor: LF, CRLF, or a lone CR.
func sourceLine(source string, line int) (string, bool) {
	if line < 1 {
		return "", false
	}
	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	lines := strings.Split(normalized, "\n")
	if line > len(lines) {
		return "", false
	}
	// Tabs would shift the caret.
	return strings.ReplaceAll(lines[line-1], "\t", " "), true
}
