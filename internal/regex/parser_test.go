package regex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileRoundTrip(t *testing.T) {
	t.Parallel()
	patterns := []string{
		``,
		`abc`,
		`^a.c$`,
		`[a-z0-9_]+`,
		`[^\d\s]`,
		`(a|b)*c`,
		`(?:ab){2,3}?`,
		`x{2,}`,
		`a{3}`,
		`a+?b??`,
		`\d\w\s\D\W\S`,
		`(a)\1`,
		`a\.b\*\(\)`,
		`\t`,
		`()`,
	}
	for _, pattern := range patterns {
		pattern := pattern
		t.Run(pattern, func(t *testing.T) {
			t.Parallel()
			re, err := Compile(pattern)
			require.NoError(t, err)
			assert.Equal(t, pattern, re.Root().String())
		})
	}
}

func TestCompileTree(t *testing.T) {
	t.Parallel()

	re := MustCompile(`a(b|cd)*[^x-z]\1`)
	root := re.Root()
	require.Len(t, root.Children, 4)

	assert.Equal(t, &Literal{Char: 'a'}, root.Children[0])

	q, ok := root.Children[1].(*Quantified)
	require.True(t, ok)
	assert.Equal(t, 0, q.Min)
	assert.Equal(t, -1, q.Max)
	assert.True(t, q.Greedy)

	g, ok := q.Inner.(*Group)
	require.True(t, ok)
	assert.Equal(t, 1, g.Index)
	require.Len(t, g.Children, 1)
	alt, ok := g.Children[0].(*Alternation)
	require.True(t, ok)
	require.Len(t, alt.Alternatives, 2)
	assert.Equal(t, "cd", alt.Alternatives[1].String())

	assert.Equal(t, &CharClass{Items: []ClassItem{{Lo: 'x', Hi: 'z'}}, Negated: true}, root.Children[2])
	assert.Equal(t, &Backreference{Index: 1}, root.Children[3])
}

func TestCompileCharClassMembers(t *testing.T) {
	t.Parallel()
	tests := []struct {
		pattern string
		want    *CharClass
	}{
		{`[]a]`, &CharClass{Items: []ClassItem{{Lo: ']', Hi: ']'}, {Lo: 'a', Hi: 'a'}}}},
		{`[^]a]`, &CharClass{Items: []ClassItem{{Lo: ']', Hi: ']'}, {Lo: 'a', Hi: 'a'}}, Negated: true}},
		{`[-a]`, &CharClass{Items: []ClassItem{{Lo: '-', Hi: '-'}, {Lo: 'a', Hi: 'a'}}}},
		{`[a-]`, &CharClass{Items: []ClassItem{{Lo: 'a', Hi: 'a'}, {Lo: '-', Hi: '-'}}}},
		{`[\]\\]`, &CharClass{Items: []ClassItem{{Lo: ']', Hi: ']'}, {Lo: '\\', Hi: '\\'}}}},
		{`[\w.]`, &CharClass{Items: []ClassItem{{Kind: ClassWord}, {Lo: '.', Hi: '.'}}}},
		{`[\S\t]`, &CharClass{Items: []ClassItem{{Kind: ClassSpace, Negated: true}, {Lo: '\t', Hi: '\t'}}}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()
			re, err := Compile(tt.pattern)
			require.NoError(t, err)
			require.Len(t, re.Root().Children, 1)
			assert.Equal(t, tt.want, re.Root().Children[0])
		})
	}
}

func TestCompileCaptureNumbering(t *testing.T) {
	t.Parallel()

	re := MustCompile(`((a)(b(c)))`)
	assert.Equal(t, 4, re.NumCaptures())

	r := re.Match("abc")
	require.True(t, r.Matched())
	for i, want := range []string{"abc", "abc", "a", "bc", "c"} {
		got, ok := r.GroupText(i)
		assert.True(t, ok, "group %d", i)
		assert.Equal(t, want, got, "group %d", i)
	}

	assert.Equal(t, 1, MustCompile(`(?:a)(b)(?:c)`).NumCaptures())
	assert.Equal(t, 0, MustCompile(`abc`).NumCaptures())
}

func TestCompileBackreferenceToOpenGroup(t *testing.T) {
	t.Parallel()

	re, err := Compile(`(a\1)`)
	require.NoError(t, err)
	// the group has no span yet when \1 is reached
	assert.False(t, re.MatchString("aa"))
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		pattern  string
		kind     ErrorKind
		sentinel error
		offset   int
	}{
		{`(abc`, UnbalancedGroup, ErrUnbalancedGroup, 0},
		{`a(b(c)`, UnbalancedGroup, ErrUnbalancedGroup, 1},
		{`abc)`, UnbalancedGroup, ErrUnbalancedGroup, 3},
		{`a**`, InvalidQuantifier, ErrInvalidQuantifier, 2},
		{`a+*`, InvalidQuantifier, ErrInvalidQuantifier, 2},
		{`a{2}{3}`, InvalidQuantifier, ErrInvalidQuantifier, 4},
		{`a+?+`, InvalidQuantifier, ErrInvalidQuantifier, 3},
		{`*a`, InvalidQuantifier, ErrInvalidQuantifier, 0},
		{`(+)`, InvalidQuantifier, ErrInvalidQuantifier, 1},
		{`a|?`, InvalidQuantifier, ErrInvalidQuantifier, 2},
		{`(?x)`, InvalidQuantifier, ErrInvalidQuantifier, 1},
		{`^*`, InvalidQuantifier, ErrInvalidQuantifier, 1},
		{`a{3,2}`, InvalidQuantifier, ErrInvalidQuantifier, 1},
		{`a{2`, InvalidQuantifier, ErrInvalidQuantifier, 1},
		{`a{2,`, InvalidQuantifier, ErrInvalidQuantifier, 1},
		{`a{1001}`, InvalidQuantifier, ErrInvalidQuantifier, 2},
		{`{2}`, InvalidQuantifier, ErrInvalidQuantifier, 0},
		{`\2(a)`, InvalidBackreference, ErrInvalidBackreference, 0},
		{`(a)\2`, InvalidBackreference, ErrInvalidBackreference, 3},
		{`\0`, InvalidBackreference, ErrInvalidBackreference, 0},
		{`[abc`, InvalidCharClass, ErrInvalidCharClass, 0},
		{`x[`, InvalidCharClass, ErrInvalidCharClass, 1},
		{`[]`, InvalidCharClass, ErrInvalidCharClass, 0},
		{`[z-a]`, InvalidCharClass, ErrInvalidCharClass, 1},
		{`[a-\d]`, InvalidCharClass, ErrInvalidCharClass, 1},
		{`[a\`, InvalidCharClass, ErrInvalidCharClass, 0},
		{`a|`, DanglingAlternation, ErrDanglingAlternation, 1},
		{`|a`, DanglingAlternation, ErrDanglingAlternation, 0},
		{`a||b`, DanglingAlternation, ErrDanglingAlternation, 1},
		{`(a|)`, DanglingAlternation, ErrDanglingAlternation, 2},
		{`abc\`, InvalidEscape, ErrInvalidEscape, 3},
		{`\q`, InvalidEscape, ErrInvalidEscape, 0},
		{`[\q]`, InvalidEscape, ErrInvalidEscape, 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()
			re, err := Compile(tt.pattern)
			require.Error(t, err)
			assert.Nil(t, re)

			var se *SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.kind, se.Kind)
			assert.Equal(t, tt.offset, se.Offset)
			assert.Equal(t, tt.pattern, se.Pattern)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestSyntaxErrorMessage(t *testing.T) {
	t.Parallel()

	_, err := Compile(`(abc`)
	require.Error(t, err)
	assert.Equal(t, `regex: unbalanced group at offset 0 in "(abc": missing )`, err.Error())
}

func TestBraceWithoutDigitIsLiteral(t *testing.T) {
	t.Parallel()

	re := MustCompile(`a{,2}`)
	assert.Equal(t, `a\{,2\}`, re.Root().String())
	assert.True(t, re.MatchString("xa{,2}"))
	assert.False(t, re.MatchString("aa"))
}

func TestMustCompilePanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { MustCompile(`(`) })
}

func TestCompileWithInvalidConfig(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	config.MaxSteps = -1
	_, err := CompileWithConfig(`a`, config)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
