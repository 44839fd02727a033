package grep

import (
	"strings"

	"github.com/fatih/color"

	"github.com/funkybooboo/mygrep/internal/regex"
)

// styles follow GNU grep's default GREP_COLORS.
type styles struct {
	match    *color.Color
	filename *color.Color
	lineNum  *color.Color
	sep      *color.Color
}

func newStyles(enabled bool) styles {
	s := styles{
		match:    color.New(color.FgRed, color.Bold),
		filename: color.New(color.FgMagenta),
		lineNum:  color.New(color.FgGreen),
		sep:      color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{s.match, s.filename, s.lineNum, s.sep} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// highlight wraps every non-empty match of line in the match style. The
// matches must come from one FindAll call on line.
func (s styles) highlight(line string, matches []regex.Result) string {
	runes := []rune(line)
	var sb strings.Builder
	last := 0
	for _, m := range matches {
		span := m.Span()
		if span.Len() == 0 {
			continue
		}
		sb.WriteString(string(runes[last:span.Start]))
		sb.WriteString(s.match.Sprint(string(runes[span.Start:span.End])))
		last = span.End
	}
	sb.WriteString(string(runes[last:]))
	return sb.String()
}
