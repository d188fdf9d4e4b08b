package pretty_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/readpat/internal/ui/pretty"
	"github.com/yaklabco/readpat/pkg/interp"
	"github.com/yaklabco/readpat/pkg/pattern"
)

func TestFormatSyntaxError(t *testing.T) {
	styles := pretty.NewStyles(false)

	source := "R.\n  R[0]"
	_, err := pattern.Compile(source, pattern.Options{})
	var syntaxErr *pattern.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)

	result := styles.FormatSyntaxError(source, syntaxErr)
	lines := strings.Split(strings.TrimRight(result, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "pattern:2:5")
	assert.Contains(t, lines[0], "error")
	assert.Contains(t, lines[0], "number must not be zero")
	assert.NotContains(t, lines[0], "at line", "the position is shown once")
	assert.Equal(t, "          R[0]", lines[1])
	assert.Equal(t, "            ^", lines[2])
}

func TestFormatInputError_Detailed(t *testing.T) {
	styles := pretty.NewStyles(false)

	err := &interp.DetailedError{
		Err:        interp.ErrEndOfStream,
		Fragment:   "R[5]",
		PatternPos: pattern.Position{Line: 1, Column: 4},
		Offset:     3,
	}

	result := styles.FormatInputError("in.txt", err, "S. R[5]")

	assert.Contains(t, result, "in.txt:@3")
	assert.Contains(t, result, "unexpected end of text")
	assert.Contains(t, result, "(R[5])")
	assert.Contains(t, result, "S. R[5]\n")
	assert.Contains(t, result, "\n           ^")
}

func TestFormatInputError_Plain(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatInputError("-", errors.New("boom"), "R.")

	assert.Equal(t, "  -  error  boom\n", result)
}

func TestFormatSourceContext_WithCaret(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSourceContext("test line", 5)

	lines := strings.Split(result, "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, strings.Index(lines[0], "line")-1, strings.Index(lines[1], "^"))
}

func TestFormatSourceContext_ZeroColumn(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSourceContext("test line", 0)

	assert.Contains(t, result, "test line")
	assert.NotContains(t, result, "^")
}

func TestFormatInputHeader(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		count int
		want  string
	}{
		{count: 0, want: "a.txt"},
		{count: 1, want: "a.txt (1 value)"},
		{count: 5, want: "a.txt (5 values)"},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.want, styles.FormatInputHeader("a.txt", testCase.count))
	}
}

func TestFormatValue(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t, `  2: "a\tb"`, styles.FormatValue(2, "a\tb"))
}
