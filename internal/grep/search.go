package grep

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/funkybooboo/mygrep/internal/regex"
)

type Options struct {
	Recursive    bool
	OnlyMatching bool
	Invert       bool
	Count        bool
	LineNumbers  bool
	Color        bool
	// Timeout bounds the matching time of a single line. Zero means none.
	Timeout time.Duration
}

// Searcher prints the lines of its inputs that the pattern selects.
type Searcher struct {
	re     *regex.Regexp
	opts   Options
	out    io.Writer
	logger *zap.Logger
	styles styles
}

func New(re *regex.Regexp, opts Options, out io.Writer, logger *zap.Logger) *Searcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Searcher{
		re:     re,
		opts:   opts,
		out:    out,
		logger: logger,
		styles: newStyles(opts.Color),
	}
}

// Scan reads reader line by line and prints the selected lines, prefixed
// with name when addPrefix is set. It returns the number of selected lines.
// Lines selected before a read error are still written out.
func (s *Searcher) Scan(ctx context.Context, name string, reader io.Reader, addPrefix bool) (int, error) {
	w := bufio.NewWriter(s.out)
	selected, err := s.scan(ctx, name, reader, addPrefix, w)
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = fmt.Errorf("writing output: %w", ferr)
	}
	return selected, err
}

func (s *Searcher) scan(ctx context.Context, name string, reader io.Reader, addPrefix bool, w *bufio.Writer) (int, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	selected := 0
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		s.logger.Debug("Scanning line", zap.String("source", name), zap.Int("line", lineNum), zap.String("text", line))

		matches, err := s.matchLine(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return selected, err
			}
			// budget exhausted: count the line as a non-match
			s.logger.Warn("Abandoned match",
				zap.String("source", name),
				zap.Int("line", lineNum),
				zap.String("pattern", s.re.String()),
				zap.Error(err))
			matches = nil
		}
		if (len(matches) > 0) == s.opts.Invert {
			continue
		}
		selected++
		if s.opts.Count {
			continue
		}
		s.printLine(w, name, addPrefix, lineNum, line, matches)
	}
	if err := scanner.Err(); err != nil {
		return selected, fmt.Errorf("reading %s: %w", name, err)
	}

	if s.opts.Count {
		if addPrefix {
			w.WriteString(s.styles.filename.Sprint(name) + s.styles.sep.Sprint(":"))
		}
		w.WriteString(strconv.Itoa(selected) + "\n")
	}
	return selected, nil
}

// matchLine returns the matches to report for line. Only the first match
// is computed unless the output needs every match.
func (s *Searcher) matchLine(ctx context.Context, line string) ([]regex.Result, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	all := !s.opts.Invert && !s.opts.Count && (s.opts.OnlyMatching || s.opts.Color)
	if all {
		matches, err := s.re.FindAllContext(ctx, line, -1)
		if err != nil {
			return nil, err
		}
		return matches, nil
	}

	r, err := s.re.MatchContext(ctx, line)
	if err != nil {
		return nil, err
	}
	if !r.Matched() {
		return nil, nil
	}
	return []regex.Result{r}, nil
}

func (s *Searcher) printLine(w *bufio.Writer, name string, addPrefix bool, lineNum int, line string, matches []regex.Result) {
	prefix := ""
	if addPrefix {
		prefix += s.styles.filename.Sprint(name) + s.styles.sep.Sprint(":")
	}
	if s.opts.LineNumbers {
		prefix += s.styles.lineNum.Sprint(lineNum) + s.styles.sep.Sprint(":")
	}

	if s.opts.OnlyMatching {
		// an inverted line has no matched parts to print
		for _, m := range matches {
			if m.Span().Len() == 0 {
				continue
			}
			w.WriteString(prefix + s.styles.match.Sprint(m.Text()) + "\n")
		}
		return
	}
	if s.opts.Color && !s.opts.Invert {
		line = s.styles.highlight(line, matches)
	}
	w.WriteString(prefix + line + "\n")
}
