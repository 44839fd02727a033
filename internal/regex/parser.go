package regex

import (
	"fmt"
	"strings"
)

// maxRepeat bounds the counts accepted in {m,n}.
const maxRepeat = 1000

type parser struct {
	src        string
	pattern    []rune
	pos        int
	groupCount int
}

func newParser(p string) *parser {
	return &parser{src: p, pattern: []rune(p)}
}

func (p *parser) errorf(kind ErrorKind, offset int, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Kind:    kind,
		Pattern: p.src,
		Offset:  offset,
		Msg:     fmt.Sprintf(format, args...),
	}
}

func (p *parser) more() bool { return p.pos < len(p.pattern) }

func (p *parser) peek() rune { return p.pattern[p.pos] }

func (p *parser) hasPrefix(s string) bool {
	return strings.HasPrefix(string(p.pattern[p.pos:]), s)
}

// parse compiles the whole pattern into the root concatenation.
func (p *parser) parse() (*Concatenation, error) {
	children, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if p.more() {
		// only a stray ')' stops the top-level alternation early
		return nil, p.errorf(UnbalancedGroup, p.pos, "unexpected )")
	}
	return &Concatenation{Children: children}, nil
}

// parseAlternation returns the node sequence of a group body: the single
// branch's children, or one Alternation holding every branch.
func (p *parser) parseAlternation() ([]Node, error) {
	first, err := p.parseConcatenation()
	if err != nil {
		return nil, err
	}
	alts := []*Concatenation{first}
	var bars []int
	for p.more() && p.peek() == '|' {
		bars = append(bars, p.pos)
		p.pos++
		next, err := p.parseConcatenation()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}
	if len(alts) == 1 {
		return first.Children, nil
	}
	for i, alt := range alts {
		if len(alt.Children) > 0 {
			continue
		}
		at := bars[0]
		if i > 0 {
			at = bars[i-1]
		}
		return nil, p.errorf(DanglingAlternation, at, "empty alternative")
	}
	return []Node{&Alternation{Alternatives: alts}}, nil
}

func (p *parser) parseConcatenation() (*Concatenation, error) {
	var parts []Node
	for p.more() {
		ch := p.peek()
		if ch == ')' || ch == '|' {
			break
		}
		n, err := p.parseQuantified()
		if err != nil {
			return nil, err
		}
		parts = append(parts, n)
	}
	return &Concatenation{Children: parts}, nil
}

// atQuantifier reports whether the cursor sits on a quantifier operator.
// A '{' only starts one when a digit follows; otherwise it is a literal.
func (p *parser) atQuantifier() bool {
	if !p.more() {
		return false
	}
	switch p.peek() {
	case '*', '+', '?':
		return true
	case '{':
		return p.pos+1 < len(p.pattern) && isDigit(p.pattern[p.pos+1])
	}
	return false
}

func (p *parser) parseQuantified() (Node, error) {
	if p.atQuantifier() {
		return nil, p.errorf(InvalidQuantifier, p.pos, "missing argument to repetition operator %q", p.peek())
	}
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if !p.atQuantifier() {
		return atom, nil
	}
	opAt := p.pos
	if _, ok := atom.(*Anchor); ok {
		return nil, p.errorf(InvalidQuantifier, opAt, "cannot repeat anchor %s", atom)
	}
	q, err := p.parseQuantifier(atom)
	if err != nil {
		return nil, err
	}
	if p.atQuantifier() {
		return nil, p.errorf(InvalidQuantifier, p.pos, "stacked repetition operator %q", p.peek())
	}
	return q, nil
}

// parseQuantifier consumes one quantifier (the cursor is on it) plus an
// optional trailing '?' for the non-greedy form.
func (p *parser) parseQuantifier(atom Node) (*Quantified, error) {
	q := &Quantified{Inner: atom, Greedy: true}
	switch p.peek() {
	case '*':
		q.Min, q.Max = 0, -1
		p.pos++
	case '+':
		q.Min, q.Max = 1, -1
		p.pos++
	case '?':
		q.Min, q.Max = 0, 1
		p.pos++
	case '{':
		min, max, err := p.parseBounds()
		if err != nil {
			return nil, err
		}
		q.Min, q.Max = min, max
	}
	if p.more() && p.peek() == '?' {
		p.pos++
		q.Greedy = false
	}
	return q, nil
}

// parseBounds parses {m}, {m,} and {m,n}.
func (p *parser) parseBounds() (int, int, error) {
	open := p.pos
	p.pos++ // '{'
	min, err := p.parseNumber()
	if err != nil {
		return 0, 0, err
	}
	max := min
	if p.more() && p.peek() == ',' {
		p.pos++
		switch {
		case p.more() && p.peek() == '}':
			max = -1
		case !p.more() || !isDigit(p.peek()):
			return 0, 0, p.errorf(InvalidQuantifier, open, "missing closing }")
		default:
			max, err = p.parseNumber()
			if err != nil {
				return 0, 0, err
			}
		}
	}
	if !p.more() || p.peek() != '}' {
		return 0, 0, p.errorf(InvalidQuantifier, open, "missing closing }")
	}
	p.pos++
	if max >= 0 && max < min {
		return 0, 0, p.errorf(InvalidQuantifier, open, "invalid repeat count {%d,%d}", min, max)
	}
	return min, max, nil
}

func (p *parser) parseNumber() (int, error) {
	start := p.pos
	n := 0
	for p.more() && isDigit(p.peek()) {
		n = n*10 + int(p.peek()-'0')
		if n > maxRepeat {
			return 0, p.errorf(InvalidQuantifier, start, "repeat count exceeds %d", maxRepeat)
		}
		p.pos++
	}
	if p.pos == start {
		return 0, p.errorf(InvalidQuantifier, start, "expected repeat count")
	}
	return n, nil
}

func (p *parser) parseAtom() (Node, error) {
	ch := p.peek()
	switch ch {
	case '(':
		open := p.pos
		p.pos++
		idx := 0
		if p.hasPrefix("?:") {
			p.pos += 2
		} else {
			// numbered at the opening parenthesis, so inner groups and
			// backreferences see it
			p.groupCount++
			idx = p.groupCount
		}
		children, err := p.parseAlternation()
		if err != nil {
			return nil, err
		}
		if !p.more() || p.peek() != ')' {
			return nil, p.errorf(UnbalancedGroup, open, "missing )")
		}
		p.pos++
		return &Group{Children: children, Index: idx}, nil

	case '.':
		p.pos++
		return &AnyChar{}, nil

	case '^':
		p.pos++
		return &Anchor{Kind: AnchorStart}, nil

	case '$':
		p.pos++
		return &Anchor{Kind: AnchorEnd}, nil

	case '[':
		return p.parseClass()

	case '\\':
		return p.parseEscape()

	default:
		p.pos++
		return &Literal{Char: ch}, nil
	}
}

func (p *parser) parseEscape() (Node, error) {
	start := p.pos
	p.pos++
	if !p.more() {
		return nil, p.errorf(InvalidEscape, start, "trailing backslash")
	}
	esc := p.peek()
	p.pos++
	switch {
	case esc >= '1' && esc <= '9':
		idx := int(esc - '0')
		if idx > p.groupCount {
			return nil, p.errorf(InvalidBackreference, start, "group %d is not defined before \\%d", idx, idx)
		}
		return &Backreference{Index: idx}, nil
	case esc == '0':
		return nil, p.errorf(InvalidBackreference, start, "group 0 cannot be referenced")
	}
	if item, ok := shorthandItem(esc); ok {
		return &CharClass{Items: []ClassItem{item}}, nil
	}
	if r, ok := controlEscape(esc); ok {
		return &Literal{Char: r}, nil
	}
	if isASCIIAlnum(esc) {
		return nil, p.errorf(InvalidEscape, start, "unknown escape \\%c", esc)
	}
	return &Literal{Char: esc}, nil
}

func (p *parser) parseClass() (Node, error) {
	open := p.pos
	p.pos++ // '['
	cc := &CharClass{}
	if p.more() && p.peek() == '^' {
		cc.Negated = true
		p.pos++
	}
	first := true
	for {
		if !p.more() {
			return nil, p.errorf(InvalidCharClass, open, "missing ]")
		}
		if p.peek() == ']' && !first {
			p.pos++
			break
		}
		first = false

		itemAt := p.pos
		lo, short, err := p.classAtom(open)
		if err != nil {
			return nil, err
		}
		if short.Kind != ClassNone {
			cc.Items = append(cc.Items, short)
			continue
		}
		// '-' followed by ']' is a literal dash, not a range
		if p.pos+1 < len(p.pattern) && p.peek() == '-' && p.pattern[p.pos+1] != ']' {
			p.pos++
			hi, short, err := p.classAtom(open)
			if err != nil {
				return nil, err
			}
			if short.Kind != ClassNone {
				return nil, p.errorf(InvalidCharClass, itemAt, "invalid range end %s", short)
			}
			if hi < lo {
				return nil, p.errorf(InvalidCharClass, itemAt, "reversed range %c-%c", lo, hi)
			}
			cc.Items = append(cc.Items, ClassItem{Lo: lo, Hi: hi})
			continue
		}
		cc.Items = append(cc.Items, ClassItem{Lo: lo, Hi: lo})
	}
	return cc, nil
}

// classAtom reads one class member: either a rune, or a shorthand item
// (Kind != ClassNone) for \d, \w, \s and their negations.
func (p *parser) classAtom(open int) (rune, ClassItem, error) {
	ch := p.peek()
	p.pos++
	if ch != '\\' {
		return ch, ClassItem{}, nil
	}
	if !p.more() {
		return 0, ClassItem{}, p.errorf(InvalidCharClass, open, "missing ]")
	}
	esc := p.peek()
	p.pos++
	if item, ok := shorthandItem(esc); ok {
		return 0, item, nil
	}
	if r, ok := controlEscape(esc); ok {
		return r, ClassItem{}, nil
	}
	if isASCIIAlnum(esc) {
		return 0, ClassItem{}, p.errorf(InvalidEscape, p.pos-2, "unknown escape \\%c in class", esc)
	}
	return esc, ClassItem{}, nil
}

func shorthandItem(c rune) (ClassItem, bool) {
	switch c {
	case 'd':
		return ClassItem{Kind: ClassDigit}, true
	case 'w':
		return ClassItem{Kind: ClassWord}, true
	case 's':
		return ClassItem{Kind: ClassSpace}, true
	case 'D':
		return ClassItem{Kind: ClassDigit, Negated: true}, true
	case 'W':
		return ClassItem{Kind: ClassWord, Negated: true}, true
	case 'S':
		return ClassItem{Kind: ClassSpace, Negated: true}, true
	}
	return ClassItem{}, false
}

func controlEscape(c rune) (rune, bool) {
	switch c {
	case 't':
		return '\t', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 'f':
		return '\f', true
	case 'v':
		return '\v', true
	}
	return 0, false
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isASCIIAlnum(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
