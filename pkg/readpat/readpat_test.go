package readpat_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/yaklabco/readpat/pkg/boundary"
	"github.com/yaklabco/readpat/pkg/interp"
	"github.com/yaklabco/readpat/pkg/optree"
	"github.com/yaklabco/readpat/pkg/pattern"
	"github.com/yaklabco/readpat/pkg/readpat"
	"github.com/yaklabco/readpat/pkg/stream"
)

type closeTracker struct {
	*strings.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestReader_Read(t *testing.T) {
	t.Parallel()

	r, err := readpat.New(`S|'=' {&R} R>`)
	require.NoError(t, err)
	defer r.Close()

	src := &closeTracker{Reader: strings.NewReader("key=value\nrest")}
	got, err := r.Read(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, []string{"=", "value"}, got)
	assert.False(t, src.closed, "the caller owns the source")
}

func TestReader_Concurrent(t *testing.T) {
	t.Parallel()

	r, err := readpat.New("(R|',' S.)*")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]string, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = r.ReadString(context.Background(), "a,b,c,")
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, []string{"a", "b", "c"}, got)
	}
}

func TestReader_Close(t *testing.T) {
	t.Parallel()

	r, err := readpat.New("R.")
	require.NoError(t, err)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close(), "close is idempotent")

	_, err = r.ReadString(context.Background(), "abc")
	require.ErrorIs(t, err, readpat.ErrClosed)

	_, err = r.Read(context.Background(), strings.NewReader("abc"))
	require.ErrorIs(t, err, readpat.ErrClosed)
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := readpat.New("")
	require.ErrorIs(t, err, pattern.ErrEmptyPattern)

	_, err = readpat.New("(R.)* S.")
	var syntaxErr *pattern.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
}

func TestNew_Options(t *testing.T) {
	t.Parallel()

	r, err := readpat.New("R|~STRASSE~",
		readpat.WithComparison(boundary.CultureSensitive),
		readpat.WithCulture(language.German),
		readpat.WithPolicy(interp.Policy{interp.KindEndOfStream: interp.Suppress}),
	)
	require.NoError(t, err)
	assert.Equal(t, "R|~STRASSE~", r.String())

	got, err := r.ReadString(context.Background(), "Hauptstrasse 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Haupt"}, got)

	got, err = r.ReadString(context.Background(), "no match here")
	require.NoError(t, err, "suppressed")
	assert.Empty(t, got)
}

type tailOp struct{}

func (tailOp) Execute(ctx context.Context, s *stream.Stream, kind optree.Kind, emit func(string)) error {
	rest, err := s.ReadToEnd(ctx)
	if err != nil {
		return err
	}
	if kind == optree.Read {
		emit(rest)
	}
	return nil
}

type tailParser struct{}

func (tailParser) CanParse(c *pattern.Cursor) bool { return c.Is('$') }

func (tailParser) Parse(c *pattern.Cursor, kind optree.Kind) (optree.Node, error) {
	if err := c.Expect('$'); err != nil {
		return nil, err
	}
	return &optree.Custom{Kind: kind, Op: tailOp{}}, nil
}

type tailRenderer struct{}

func (tailRenderer) CanRender(n optree.Node) bool {
	custom, ok := n.(*optree.Custom)
	return ok && custom.Op == optree.CustomOp(tailOp{})
}

func (tailRenderer) Render(n optree.Node) (string, error) {
	return n.(*optree.Custom).Kind.String() + "$", nil
}

func TestNew_CustomOperation(t *testing.T) {
	t.Parallel()

	r, err := readpat.New("S[2] R$",
		readpat.WithOperationParsers(tailParser{}),
		readpat.WithRenderers(tailRenderer{}),
	)
	require.NoError(t, err)
	assert.Equal(t, "S[2] R$", r.String())

	got, err := r.ReadString(context.Background(), "abcdef")
	require.NoError(t, err)
	assert.Equal(t, []string{"cdef"}, got)
}

type hollowParser struct{}

func (hollowParser) CanParse(c *pattern.Cursor) bool { return c.Is('$') }

func (hollowParser) Parse(c *pattern.Cursor, kind optree.Kind) (optree.Node, error) {
	if err := c.Expect('$'); err != nil {
		return nil, err
	}
	return &optree.Custom{Kind: kind}, nil
}

func TestNew_CustomOperationWithoutImplementation(t *testing.T) {
	t.Parallel()

	_, err := readpat.New("R. R$", readpat.WithOperationParsers(hollowParser{}))
	require.ErrorIs(t, err, optree.ErrNilCustomOp)

	var validationErr *optree.ValidationError
	require.ErrorAs(t, err, &validationErr)
}
