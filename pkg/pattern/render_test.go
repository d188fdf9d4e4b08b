package pattern_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/readpat/pkg/optree"
	"github.com/yaklabco/readpat/pkg/pattern"
	"github.com/yaklabco/readpat/pkg/stream"
)

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "leaves", input: "S.R[3]  R>", want: "S. R[3] R>"},
		{name: "boundary", input: "S|'Bar'R+'Bar'", want: "S|'Bar' R+'Bar'"},
		{name: "counterpart", input: "S|/[Bb]a./ {&R}", want: "S|/[Bb]a./{&R}"},
		{name: "sequence", input: "R|['a'?~b~]", want: "R|['a' ? ~b~]"},
		{name: "literal escapes", input: `R|'a\\\'\r\n'`, want: `R|'a\\\'\r\n'`},
		{name: "regex slash", input: `R|/a\/b/`, want: `R|/a\/b/`},
		{name: "operation repeat", input: "S.{3}", want: "(S.){3}"},
		{name: "block repeat", input: "(S. R.){2}", want: "(S. R.){2}"},
		{name: "nested composite", input: "R. (S. R.)", want: "R. (S. R.)"},
		{name: "until eof", input: "S> (R> S.)*", want: "S> (R> S.)*"},
		{name: "nested repeat", input: "((R.){2} S.){3}", want: "((R.){2} S.){3}"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			prog := mustCompile(t, testCase.input)
			got, err := prog.Render(prog.Tree)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
			assert.Equal(t, testCase.want, prog.String())

			again := mustCompile(t, got)
			assert.Equal(t, got, again.String(), "rendering is a fixed point")
		})
	}
}

func TestRenderer_Subtree(t *testing.T) {
	t.Parallel()

	prog := mustCompile(t, "S. (R|'x' S.){4}")
	got, err := prog.Render(prog.Tree.Children[1])
	require.NoError(t, err)
	assert.Equal(t, "(R|'x' S.){4}", got)
}

type upperOp struct{}

func (upperOp) Execute(_ context.Context, _ *stream.Stream, _ optree.Kind, _ func(string)) error {
	return nil
}

type upperParser struct{}

func (upperParser) CanParse(c *pattern.Cursor) bool { return c.Is('^') }

func (upperParser) Parse(c *pattern.Cursor, kind optree.Kind) (optree.Node, error) {
	if err := c.Expect('^'); err != nil {
		return nil, err
	}
	return &optree.Custom{Kind: kind, Op: upperOp{}}, nil
}

type upperRenderer struct{}

func (upperRenderer) CanRender(n optree.Node) bool {
	custom, ok := n.(*optree.Custom)
	if !ok {
		return false
	}
	_, ok = custom.Op.(upperOp)
	return ok
}

func (upperRenderer) Render(n optree.Node) (string, error) {
	custom, _ := n.(*optree.Custom)
	return custom.Kind.String() + "^", nil
}

func TestCompile_CustomOperation(t *testing.T) {
	t.Parallel()

	opts := pattern.Options{
		OperationParsers: []pattern.OperationParser{upperParser{}},
		Renderers:        []pattern.NodeRenderer{upperRenderer{}},
	}

	prog, err := pattern.Compile("S. R^{2}", opts)
	require.NoError(t, err)

	repeat, ok := prog.Tree.Children[1].(*optree.Repeat)
	require.True(t, ok)
	assert.IsType(t, &optree.Custom{}, repeat.Body)

	pos, ok := prog.Positions.Lookup(repeat.Body)
	require.True(t, ok)
	assert.Equal(t, pattern.Position{Line: 1, Column: 4}, pos)

	assert.Equal(t, "S. (R^){2}", prog.String())
}

func TestCompile_CustomOperationAfterBuiltins(t *testing.T) {
	t.Parallel()

	opts := pattern.Options{OperationParsers: []pattern.OperationParser{dotParser{}}}

	prog, err := pattern.Compile("R.", opts)
	require.NoError(t, err)
	assert.IsType(t, &optree.OneChar{}, prog.Tree.Children[0])
}

type dotParser struct{}

func (dotParser) CanParse(c *pattern.Cursor) bool { return c.Is('.') }

func (dotParser) Parse(*pattern.Cursor, optree.Kind) (optree.Node, error) {
	return &optree.Custom{Op: upperOp{}}, nil
}

func TestRenderer_Unrenderable(t *testing.T) {
	t.Parallel()

	prog, err := pattern.Compile("R^", pattern.Options{
		OperationParsers: []pattern.OperationParser{upperParser{}},
	})
	require.NoError(t, err)

	_, err = prog.Render(prog.Tree)
	require.ErrorIs(t, err, pattern.ErrUnrenderable)
	assert.Equal(t, "R^", prog.String(), "falls back to the source text")
}
