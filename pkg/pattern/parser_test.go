package pattern_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/readpat/pkg/boundary"
	"github.com/yaklabco/readpat/pkg/optree"
	"github.com/yaklabco/readpat/pkg/pattern"
)

func mustCompile(t *testing.T, source string) *pattern.Program {
	t.Helper()
	prog, err := pattern.Compile(source, pattern.Options{})
	require.NoError(t, err)
	return prog
}

func TestCompile_Leaves(t *testing.T) {
	t.Parallel()

	prog := mustCompile(t, "S. R[3] S> R|'x' S+~y~ R|/z/{&S}")
	children := prog.Tree.Children
	require.Len(t, children, 6)

	assert.Equal(t, &optree.OneChar{Kind: optree.Skip}, children[0])
	assert.Equal(t, &optree.CharBlock{Kind: optree.Read, Size: 3}, children[1])
	assert.Equal(t, &optree.RemainingLine{Kind: optree.Skip}, children[2])

	noOverstep, ok := children[3].(*optree.BoundaryOp)
	require.True(t, ok)
	assert.Equal(t, optree.NoOverstepping, noOverstep.Behavior)
	require.Len(t, noOverstep.Strings, 1)
	literal, ok := noOverstep.Strings[0].(*boundary.Literal)
	require.True(t, ok)
	assert.Equal(t, "x", literal.Value)
	assert.False(t, literal.IgnoreCase)

	overstep, ok := children[4].(*optree.BoundaryOp)
	require.True(t, ok)
	assert.Equal(t, optree.WithOverstepping, overstep.Behavior)
	folded, ok := overstep.Strings[0].(*boundary.Literal)
	require.True(t, ok)
	assert.True(t, folded.IgnoreCase)

	counterpart, ok := children[5].(*optree.BoundaryOp)
	require.True(t, ok)
	assert.Equal(t, optree.Read, counterpart.Kind)
	assert.Equal(t, optree.WithOversteppingFromCounterpart, counterpart.Behavior)
	regex, ok := counterpart.Strings[0].(*boundary.Regex)
	require.True(t, ok)
	assert.Equal(t, "z", regex.Source)
}

func TestCompile_Blocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		check func(t *testing.T, children []optree.Node)
	}{
		{
			name:  "single child unwrapped",
			input: "(R.)",
			check: func(t *testing.T, children []optree.Node) {
				t.Helper()
				assert.IsType(t, &optree.OneChar{}, children[0])
			},
		},
		{
			name:  "composite",
			input: "(R. S.)",
			check: func(t *testing.T, children []optree.Node) {
				t.Helper()
				composite, ok := children[0].(*optree.Composite)
				require.True(t, ok)
				assert.Len(t, composite.Children, 2)
			},
		},
		{
			name:  "count one elided",
			input: "(R.){1}",
			check: func(t *testing.T, children []optree.Node) {
				t.Helper()
				assert.IsType(t, &optree.OneChar{}, children[0])
			},
		},
		{
			name:  "repeat",
			input: "(R. S.){3}",
			check: func(t *testing.T, children []optree.Node) {
				t.Helper()
				repeat, ok := children[0].(*optree.Repeat)
				require.True(t, ok)
				assert.Equal(t, 3, repeat.Count)
				assert.IsType(t, &optree.Composite{}, repeat.Body)
			},
		},
		{
			name:  "operation repeat",
			input: "S.{3}",
			check: func(t *testing.T, children []optree.Node) {
				t.Helper()
				repeat, ok := children[0].(*optree.Repeat)
				require.True(t, ok)
				assert.Equal(t, 3, repeat.Count)
				assert.IsType(t, &optree.OneChar{}, repeat.Body)
			},
		},
		{
			name:  "overstepping boundary repeat",
			input: "R+'a'{2}",
			check: func(t *testing.T, children []optree.Node) {
				t.Helper()
				assert.IsType(t, &optree.Repeat{}, children[0])
			},
		},
		{
			name:  "until eof",
			input: "S. (R.)*",
			check: func(t *testing.T, children []optree.Node) {
				t.Helper()
				require.Len(t, children, 2)
				assert.IsType(t, &optree.UntilEOF{}, children[1])
			},
		},
		{
			name:  "sequence",
			input: "R|['a' ? ~b~ ? /c/]",
			check: func(t *testing.T, children []optree.Node) {
				t.Helper()
				op, ok := children[0].(*optree.BoundaryOp)
				require.True(t, ok)
				assert.Len(t, op.Strings, 3)
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			prog := mustCompile(t, testCase.input)
			testCase.check(t, prog.Tree.Children)
		})
	}
}

func TestCompile_Escapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "backslash", input: `R|'a\\b'`, want: `a\b`},
		{name: "quote", input: `R|'it\'s'`, want: `it's`},
		{name: "line breaks", input: `R|'\r\n'`, want: "\r\n"},
		{name: "fold quote", input: `R|~\~~`, want: `~`},
		{name: "whitespace kept", input: `R|'  a '`, want: `  a `},
		{name: "regex slash", input: `R|/a\/b/`, want: `a/b`},
		{name: "regex passthrough", input: `R|/\d+\./`, want: `\d+\.`},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			prog := mustCompile(t, testCase.input)
			op, ok := prog.Tree.Children[0].(*optree.BoundaryOp)
			require.True(t, ok)

			switch m := op.Strings[0].(type) {
			case *boundary.Literal:
				assert.Equal(t, testCase.want, m.Value)
			case *boundary.Regex:
				assert.Equal(t, testCase.want, m.Source)
			default:
				t.Fatalf("unexpected matcher %T", m)
			}
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
		wantPos pattern.Position
	}{
		{name: "blank", input: "  \n ", wantErr: pattern.ErrEmptyPattern, wantPos: pattern.Position{Line: 1, Column: 1}},
		{name: "unknown operation", input: "X.", wantErr: pattern.ErrUnexpectedToken, wantPos: pattern.Position{Line: 1, Column: 1}},
		{name: "unknown qualifier", input: "R?", wantErr: pattern.ErrUnexpectedToken, wantPos: pattern.Position{Line: 1, Column: 2}},
		{name: "missing qualifier", input: "R", wantErr: pattern.ErrUnexpectedEnd, wantPos: pattern.Position{Line: 1, Column: 2}},
		{name: "zero size", input: "R[0]", wantErr: pattern.ErrZeroNumber, wantPos: pattern.Position{Line: 1, Column: 3}},
		{name: "negative count", input: "(R.){-2}", wantErr: pattern.ErrNegativeNumber, wantPos: pattern.Position{Line: 1, Column: 6}},
		{name: "zero count", input: "R.{0}", wantErr: pattern.ErrZeroNumber},
		{name: "empty block", input: "R. ()", wantErr: pattern.ErrEmptyBlock, wantPos: pattern.Position{Line: 1, Column: 4}},
		{name: "unclosed block", input: "(R.", wantErr: pattern.ErrMissingScopeEnd},
		{name: "stray close", input: "R.)", wantErr: pattern.ErrUnexpectedToken, wantPos: pattern.Position{Line: 1, Column: 3}},
		{name: "empty literal", input: "R|''", wantErr: pattern.ErrEmptyBoundaryString, wantPos: pattern.Position{Line: 1, Column: 3}},
		{name: "empty regex", input: "R+//", wantErr: pattern.ErrEmptyBoundaryString},
		{name: "unterminated literal", input: "R|'abc", wantErr: pattern.ErrMissingScopeEnd},
		{name: "unknown escape", input: `R|'a\tb'`, wantErr: pattern.ErrUnrecognizedEscape, wantPos: pattern.Position{Line: 1, Column: 5}},
		{name: "invalid regex", input: "R|/a(/", wantErr: pattern.ErrInvalidRegex},
		{name: "empty sequence", input: "R|[]", wantErr: pattern.ErrEmptySequence},
		{name: "trailing separator", input: "R|['a' ?]", wantErr: pattern.ErrUnexpectedToken},
		{name: "same kind parameter", input: "R|'a'{&R}", wantErr: pattern.ErrInvalidParameter, wantPos: pattern.Position{Line: 1, Column: 8}},
		{name: "empty parameter", input: "S|'a'{&}", wantErr: pattern.ErrMissingToken},
		{name: "parameter without marker", input: "S|'a'{R}", wantErr: pattern.ErrUnexpectedToken},
		{name: "count after no overstep", input: "S|'a'{2}", wantErr: pattern.ErrUnexpectedToken},
		{name: "until eof not last", input: "(R.)* S.", wantErr: pattern.ErrUnexpectedToken, wantPos: pattern.Position{Line: 1, Column: 7}},
		{name: "nested until eof", input: "((R.)*)", wantErr: pattern.ErrUnexpectedToken},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := pattern.Compile(testCase.input, pattern.Options{})
			require.ErrorIs(t, err, testCase.wantErr)

			var syntaxErr *pattern.SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			if testCase.wantPos.IsValid() {
				assert.Equal(t, testCase.wantPos, syntaxErr.Pos)
			}
		})
	}
}

func TestSyntaxError_Message(t *testing.T) {
	t.Parallel()

	_, err := pattern.Compile("R.\n  R[0]", pattern.Options{})
	require.Error(t, err)
	assert.Equal(t, "number must not be zero at line 2, column 5", err.Error())
}

func TestCompile_InvalidRegexCause(t *testing.T) {
	t.Parallel()

	_, err := pattern.Compile("R|/[/", pattern.Options{})
	require.ErrorIs(t, err, pattern.ErrInvalidRegex)

	var syntaxErr *pattern.SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Error(t, syntaxErr.Cause)
}

func TestCompile_Registry(t *testing.T) {
	t.Parallel()

	prog := mustCompile(t, "S.\n  (R. S>){2}")
	children := prog.Tree.Children
	require.Len(t, children, 2)

	pos, ok := prog.Positions.Lookup(children[0])
	require.True(t, ok)
	assert.Equal(t, pattern.Position{Line: 1, Column: 1}, pos)

	pos, ok = prog.Positions.Lookup(children[1])
	require.True(t, ok)
	assert.Equal(t, pattern.Position{Line: 2, Column: 3}, pos, "blocks are recorded at their parenthesis")

	repeat, ok := children[1].(*optree.Repeat)
	require.True(t, ok)
	body, ok := repeat.Body.(*optree.Composite)
	require.True(t, ok)

	pos, ok = prog.Positions.Lookup(body.Children[1])
	require.True(t, ok)
	assert.Equal(t, pattern.Position{Line: 2, Column: 7}, pos)

	_, ok = prog.Positions.Lookup(&optree.OneChar{})
	assert.False(t, ok)
}
