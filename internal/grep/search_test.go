package grep

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/funkybooboo/mygrep/internal/regex"
)

func runStdin(t *testing.T, pattern string, opts Options, input string) (string, bool) {
	t.Helper()
	var out bytes.Buffer
	s := New(regex.MustCompile(pattern), opts, &out, nil)
	found, err := s.Run(context.Background(), strings.NewReader(input), nil)
	require.NoError(t, err)
	return out.String(), found
}

func TestScanStdin(t *testing.T) {
	t.Parallel()
	input := "a1\nbb\nc22\n"
	tests := []struct {
		name    string
		pattern string
		opts    Options
		want    string
		found   bool
	}{
		{"plain", `\d+`, Options{}, "a1\nc22\n", true},
		{"no match", `z`, Options{}, "", false},
		{"only matching", `\d+`, Options{OnlyMatching: true}, "1\n22\n", true},
		{"invert", `\d`, Options{Invert: true}, "bb\n", true},
		{"invert only matching prints nothing", `\d`, Options{Invert: true, OnlyMatching: true}, "", true},
		{"count", `\d`, Options{Count: true}, "2\n", true},
		{"count none", `z`, Options{Count: true}, "0\n", false},
		{"line numbers", `\d`, Options{LineNumbers: true}, "1:a1\n3:c22\n", true},
		{"anchored", `^b+$`, Options{}, "bb\n", true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, found := runStdin(t, tt.pattern, tt.opts, input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.found, found)
		})
	}
}

func TestScanColor(t *testing.T) {
	t.Parallel()

	match := newStyles(true).match
	got, found := runStdin(t, `\d+`, Options{Color: true}, "a1b22\nxyz\n")
	assert.True(t, found)
	assert.Equal(t, "a"+match.Sprint("1")+"b"+match.Sprint("22")+"\n", got)
	assert.Contains(t, got, "\x1b[")

	got, _ = runStdin(t, `\d+`, Options{Color: false}, "a1b22\n")
	assert.Equal(t, "a1b22\n", got)
}

func TestScanAbandonsPathologicalLine(t *testing.T) {
	t.Parallel()

	config := regex.DefaultConfig()
	config.MaxSteps = 10000
	re, err := regex.CompileWithConfig(`(a|aa)+$`, config)
	require.NoError(t, err)

	core, logs := observer.New(zap.WarnLevel)
	var out bytes.Buffer
	s := New(re, Options{}, &out, zap.New(core))

	input := strings.Repeat("a", 40) + "b\naaa\n"
	found, err := s.Run(context.Background(), strings.NewReader(input), nil)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "aaa\n", out.String())

	entries := logs.FilterMessage("Abandoned match").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["line"])
}

func TestScanAbandonsTooDeepLine(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	var out bytes.Buffer
	s := New(regex.MustCompile(`a*b`), Options{}, &out, zap.New(core))

	input := strings.Repeat("a", 300_000) + "b\naab\n"
	found, err := s.Run(context.Background(), strings.NewReader(input), nil)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "aab\n", out.String())

	entries := logs.FilterMessage("Abandoned match").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["line"])
	assert.Contains(t, entries[0].ContextMap()["error"], "depth")
}

func TestScanFlushesBeforeReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	reader := io.MultiReader(strings.NewReader("a1\nbb\nc2\n"), iotest.ErrReader(boom))

	var out bytes.Buffer
	s := New(regex.MustCompile(`\d`), Options{}, &out, nil)
	n, err := s.Scan(context.Background(), "input", reader, false)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, n)
	assert.Equal(t, "a1\nc2\n", out.String())
}

func TestScanLineTimeout(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	s := New(regex.MustCompile(`(a|aa)+$`), Options{Timeout: time.Nanosecond}, &out, nil)

	input := strings.Repeat("a", 40) + "b\naaa\n"
	found, err := s.Run(context.Background(), strings.NewReader(input), nil)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "aaa\n", out.String())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRunFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	writeFile(t, a, "apple\nbanana\n")
	writeFile(t, b, "cherry\napricot\n")

	var out bytes.Buffer
	s := New(regex.MustCompile(`^ap`), Options{}, &out, nil)

	found, err := s.Run(context.Background(), nil, []string{a, b})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, a+":apple\n"+b+":apricot\n", out.String())

	// a single file gets no prefix
	out.Reset()
	found, err = s.Run(context.Background(), nil, []string{b})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "apricot\n", out.String())
}

func TestRunRecursive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one.txt"), "pear\nplum\n")
	writeFile(t, filepath.Join(dir, "sub", "two.txt"), "peach\n")
	writeFile(t, filepath.Join(dir, "sub", "deeper", "three.txt"), "kiwi\n")

	var out bytes.Buffer
	s := New(regex.MustCompile(`^pe`), Options{Recursive: true}, &out, nil)

	found, err := s.Run(context.Background(), nil, []string{dir})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t,
		filepath.Join(dir, "one.txt")+":pear\n"+filepath.Join(dir, "sub", "two.txt")+":peach\n",
		out.String())

	out.Reset()
	s = New(regex.MustCompile(`banana`), Options{Recursive: true}, &out, nil)
	found, err = s.Run(context.Background(), nil, []string{dir})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, out.String())
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := New(regex.MustCompile(`x`), Options{}, &bytes.Buffer{}, nil)

	_, err := s.Run(context.Background(), nil, []string{filepath.Join(dir, "missing.txt")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = s.Run(context.Background(), nil, []string{dir})
	assert.ErrorContains(t, err, "is a directory")

	s = New(regex.MustCompile(`x`), Options{Recursive: true}, &bytes.Buffer{}, nil)
	_, err = s.Run(context.Background(), nil, []string{filepath.Join(dir, "missing")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
