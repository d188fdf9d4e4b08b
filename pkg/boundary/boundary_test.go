package boundary_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/yaklabco/readpat/pkg/boundary"
)

func mustLiteral(t *testing.T, value string, ignoreCase bool, opts boundary.Options) *boundary.Literal {
	t.Helper()
	lit, err := boundary.NewLiteral(value, ignoreCase, opts)
	require.NoError(t, err)
	return lit
}

func mustRegex(t *testing.T, expr string) *boundary.Regex {
	t.Helper()
	re, err := boundary.NewRegex(expr)
	require.NoError(t, err)
	return re
}

func TestLiteral_Match(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		value      string
		ignoreCase bool
		opts       boundary.Options
		window     string
		want       boundary.Match
	}{
		{
			name:   "ordinal hit",
			value:  "Bar",
			window: "FooBarBaz",
			want:   boundary.Match{Success: true, Text: "Bar", Index: 3},
		},
		{
			name:   "ordinal is case sensitive",
			value:  "bar",
			window: "FooBarBaz",
			want:   boundary.Match{},
		},
		{
			name:       "ordinal ignore case keeps window text",
			value:      "bar",
			ignoreCase: true,
			window:     "FooBarBaz",
			want:       boundary.Match{Success: true, Text: "Bar", Index: 3},
		},
		{
			name:   "index counts characters",
			value:  "x",
			window: "ąęx",
			want:   boundary.Match{Success: true, Text: "x", Index: 2},
		},
		{
			name:       "culture ignore case",
			value:      "BAR",
			ignoreCase: true,
			opts:       boundary.Options{Comparison: boundary.CultureSensitive, Language: language.English},
			window:     "FooBarBaz",
			want:       boundary.Match{Success: true, Text: "Bar", Index: 3},
		},
		{
			name:   "culture exact",
			value:  "Baz",
			opts:   boundary.Options{Comparison: boundary.CultureSensitive},
			window: "FooBarBaz",
			want:   boundary.Match{Success: true, Text: "Baz", Index: 6},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			lit := mustLiteral(t, testCase.value, testCase.ignoreCase, testCase.opts)
			assert.Equal(t, testCase.want, lit.Match(testCase.window))
		})
	}
}

func TestNewLiteral_Empty(t *testing.T) {
	t.Parallel()

	_, err := boundary.NewLiteral("", false, boundary.Options{})
	require.ErrorIs(t, err, boundary.ErrEmpty)
}

func TestRegex_Match(t *testing.T) {
	t.Parallel()

	re := mustRegex(t, "[Bb]a.")
	assert.Equal(t, boundary.Match{Success: true, Text: "Bar", Index: 3}, re.Match("FooBarBaz"))
	assert.False(t, re.Match("Foo").Success)

	_, err := boundary.NewRegex("(")
	require.Error(t, err)

	_, err = boundary.NewRegex("")
	require.ErrorIs(t, err, boundary.ErrEmpty)
}

func TestSequence_Find(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	opts := boundary.Options{}

	seq := boundary.Sequence{
		mustLiteral(t, "Baz", false, opts),
		mustLiteral(t, "Bar", false, opts),
		mustRegex(t, "o+"),
	}

	match, err := seq.Find(ctx, "FooBarBaz")
	require.NoError(t, err)
	assert.Equal(t, boundary.Match{Success: true, Text: "Baz", Index: 6}, match,
		"the first candidate in sequence order wins even if a later one matches earlier text")

	match, err = seq.Find(ctx, "FooBar")
	require.NoError(t, err)
	assert.Equal(t, "Bar", match.Text)

	match, err = seq.Find(ctx, "xyz")
	require.NoError(t, err)
	assert.False(t, match.Success)
}

func TestSequence_FindDeterministic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var seq boundary.Sequence
	for _, word := range strings.Fields("a b c d e f g h i j k l") {
		seq = append(seq, mustLiteral(t, word, false, boundary.Options{}))
	}

	for range 50 {
		match, err := seq.Find(ctx, "lkjihgfedcba")
		require.NoError(t, err)
		assert.Equal(t, "a", match.Text)
		assert.Equal(t, 11, match.Index)
	}
}

func TestSequence_FindCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	seq := boundary.Sequence{mustLiteral(t, "a", false, boundary.Options{})}
	_, err := seq.Find(ctx, "a")
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseComparison(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    boundary.Comparison
		wantErr bool
	}{
		{input: "", want: boundary.Ordinal},
		{input: "ordinal", want: boundary.Ordinal},
		{input: "Culture", want: boundary.CultureSensitive},
		{input: "culture-sensitive", want: boundary.CultureSensitive},
		{input: "binary", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()

			got, err := boundary.ParseComparison(testCase.input)
			if testCase.wantErr {
				require.ErrorIs(t, err, boundary.ErrUnknownComparison)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, name string) boundary.Comparison {
	t.Helper()
	c, err := boundary.ParseComparison(name)
	require.NoError(t, err)
	return c
}
