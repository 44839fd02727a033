package regex

import "fmt"

// Span is a half-open [Start, End) range of rune offsets.
type Span struct {
	Start, End int
}

func (s Span) Len() int { return s.End - s.Start }

func (s Span) String() string { return fmt.Sprintf("[%d:%d]", s.Start, s.End) }

// Result is the outcome of one Match call. The zero value is a non-match.
type Result struct {
	input []rune
	// slots holds start/end pairs: slot 0/1 is the whole match, 2i/2i+1 is
	// group i. -1 marks an unset group.
	slots []int
}

func (r Result) Matched() bool { return r.slots != nil }

// Span returns the overall match span. It is the zero Span for a non-match.
func (r Result) Span() Span {
	if !r.Matched() {
		return Span{}
	}
	return Span{r.slots[0], r.slots[1]}
}

// Text returns the matched text.
func (r Result) Text() string {
	if !r.Matched() {
		return ""
	}
	return string(r.input[r.slots[0]:r.slots[1]])
}

// NumGroups returns the number of capture groups the pattern declares.
func (r Result) NumGroups() int {
	if !r.Matched() {
		return 0
	}
	return len(r.slots)/2 - 1
}

// Group returns the span captured by group i. Group 0 is the whole match.
// ok is false when the group did not take part in the match.
func (r Result) Group(i int) (span Span, ok bool) {
	if !r.Matched() || i < 0 || 2*i+1 >= len(r.slots) || r.slots[2*i] < 0 {
		return Span{}, false
	}
	return Span{r.slots[2*i], r.slots[2*i+1]}, true
}

// GroupText returns the text captured by group i.
func (r Result) GroupText(i int) (string, bool) {
	s, ok := r.Group(i)
	if !ok {
		return "", false
	}
	return string(r.input[s.Start:s.End]), true
}

func (r Result) String() string {
	if !r.Matched() {
		return "no match"
	}
	return fmt.Sprintf("%s %q", r.Span(), r.Text())
}
