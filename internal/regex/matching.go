// Package regex implements a backtracking regular-expression engine.
//
// Supported syntax:
//
//	c          literal character (\ escapes any punctuation)
//	.          any character except newline
//	[a-z] [^x] character class, with \d \w \s \D \W \S inside or outside
//	^ $        start / end of text
//	(re)       capturing group, numbered by its opening parenthesis
//	(?:re)     non-capturing group
//	a|b        ordered alternation
//	* + ? {m} {m,} {m,n}   greedy quantifiers, lazy with a trailing ?
//	\1 .. \9   backreference to an already opened group
//
// Matching is leftmost-first: start offsets are tried left to right and the
// first successful path of the backtracking search wins.
package regex

import (
	"context"
	"fmt"
)

// Regexp is a compiled pattern. It is immutable and safe for concurrent use.
type Regexp struct {
	expr        string
	root        *Concatenation
	numCaptures int
	anchored    bool
	config      Config
	prefilter   *prefilter
}

// Compile parses a pattern with the default configuration.
func Compile(pattern string) (*Regexp, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile is like Compile but panics if the pattern cannot be parsed.
func MustCompile(pattern string) *Regexp {
	re, err := Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("regex: Compile(%q): %v", pattern, err))
	}
	return re
}

// CompileWithConfig parses a pattern with a custom configuration.
func CompileWithConfig(pattern string, config Config) (*Regexp, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	p := newParser(pattern)
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	re := &Regexp{
		expr:        pattern,
		root:        root,
		numCaptures: p.groupCount,
		config:      config,
	}
	if len(root.Children) > 0 {
		if a, ok := root.Children[0].(*Anchor); ok && a.Kind == AnchorStart {
			re.anchored = true
		}
	}
	if config.EnablePrefilter && !config.IgnoreCase {
		re.prefilter = newPrefilter(root)
	}
	return re, nil
}

// String returns the source pattern.
func (re *Regexp) String() string { return re.expr }

// Root returns the syntax tree. Callers must not modify it.
func (re *Regexp) Root() *Concatenation { return re.root }

// NumCaptures returns the number of capturing groups.
func (re *Regexp) NumCaptures() int { return re.numCaptures }

func (re *Regexp) Config() Config { return re.config }

// Literals returns the prefilter literal set, or nil when no prefilter is
// in use.
func (re *Regexp) Literals() []string {
	if re.prefilter == nil {
		return nil
	}
	return re.prefilter.literals
}

// Match reports the leftmost match in text. A search that runs out of its
// step or depth budget is reported as a non-match; use MatchContext to tell
// the two apart.
func (re *Regexp) Match(text string) Result {
	r, _ := re.MatchContext(context.Background(), text)
	return r
}

// MatchString reports whether text contains a match.
func (re *Regexp) MatchString(text string) bool {
	return re.Match(text).Matched()
}

// MatchContext is like Match but stops with ErrStepLimit once Config.MaxSteps
// is spent, with ErrDepthLimit once the search nests too deep, or with
// ctx.Err() once ctx is done.
func (re *Regexp) MatchContext(ctx context.Context, text string) (Result, error) {
	if re.prefilter != nil && !re.prefilter.mayMatch(text) {
		return Result{}, nil
	}
	input := []rune(text)
	slots, err := re.search(ctx, input, 0)
	if err != nil || slots == nil {
		return Result{}, err
	}
	return Result{input: input, slots: slots}, nil
}

// FindAll returns up to n successive non-overlapping matches (all of them
// if n < 0). After an empty match the search resumes one character later.
// As in the standard regexp package, an empty match immediately after a
// preceding match is ignored.
func (re *Regexp) FindAll(text string, n int) []Result {
	out, _ := re.FindAllContext(context.Background(), text, n)
	return out
}

// FindAllContext is like FindAll; each search gets its own step budget. On
// error it returns the matches found so far.
func (re *Regexp) FindAllContext(ctx context.Context, text string, n int) ([]Result, error) {
	if re.prefilter != nil && !re.prefilter.mayMatch(text) {
		return nil, nil
	}
	input := []rune(text)
	var out []Result
	prevEnd := -1
	for at := 0; at <= len(input) && (n < 0 || len(out) < n); {
		slots, err := re.search(ctx, input, at)
		if err != nil {
			return out, err
		}
		if slots == nil {
			break
		}
		accept := true
		if slots[1] == slots[0] {
			// an empty match abutting the previous match is not reported
			accept = slots[0] != prevEnd
			at = slots[1] + 1
		} else {
			at = slots[1]
		}
		prevEnd = slots[1]
		if accept {
			out = append(out, Result{input: input, slots: slots})
		}
	}
	return out, nil
}

// search tries start offsets from..len(input) and returns the capture slots
// of the first successful attempt, or nil.
func (re *Regexp) search(ctx context.Context, input []rune, from int) ([]int, error) {
	m := &machine{
		ctx:   ctx,
		input: input,
		slots: make([]int, 2*(re.numCaptures+1)),
		fold:  re.config.IgnoreCase,
		limit: re.config.MaxSteps,
	}
	last := len(input)
	if re.anchored {
		if from > 0 {
			return nil, nil
		}
		last = 0
	}
	for start := from; start <= last; start++ {
		for i := range m.slots {
			m.slots[i] = -1
		}
		end := -1
		ok := m.match(re.root, start, func(pos int) bool {
			end = pos
			return true
		})
		if m.err != nil {
			return nil, m.err
		}
		if ok {
			m.slots[0], m.slots[1] = start, end
			return m.slots, nil
		}
	}
	return nil, nil
}
