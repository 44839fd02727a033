package regex

import (
	"context"
	"unicode"
)

// ctxCheckInterval is how many steps pass between context polls.
const ctxCheckInterval = 1024

// maxDepth bounds the nesting of match calls. Every repetition and every
// continuation adds Go stack frames, and a stack overflow cannot be
// recovered, so a search this deep is abandoned with ErrDepthLimit.
const maxDepth = 1 << 18

// machine is the state of one matching call. It is never shared.
type machine struct {
	ctx   context.Context
	input []rune
	slots []int
	fold  bool
	limit int
	steps int
	depth int
	err   error
}

// step counts one node evaluation and reports whether matching may go on.
// Once the budget is spent or the context is done every path fails, which
// unwinds the whole backtracking stack.
func (m *machine) step() bool {
	if m.err != nil {
		return false
	}
	m.steps++
	if m.limit > 0 && m.steps > m.limit {
		m.err = ErrStepLimit
		return false
	}
	if m.steps%ctxCheckInterval == 0 {
		if err := m.ctx.Err(); err != nil {
			m.err = err
			return false
		}
	}
	return true
}

// match evaluates n at pos and, on success, hands the new position to the
// continuation k, which decides whether the rest of the pattern matches.
func (m *machine) match(n Node, pos int, k func(int) bool) bool {
	if !m.step() {
		return false
	}
	if m.depth >= maxDepth {
		m.err = ErrDepthLimit
		return false
	}
	m.depth++
	ok := m.eval(n, pos, k)
	m.depth--
	return ok
}

func (m *machine) eval(n Node, pos int, k func(int) bool) bool {
	switch x := n.(type) {
	case *Literal:
		if pos < len(m.input) && m.equal(m.input[pos], x.Char) {
			return k(pos + 1)
		}
	case *AnyChar:
		if pos < len(m.input) && m.input[pos] != '\n' {
			return k(pos + 1)
		}
	case *CharClass:
		if pos < len(m.input) && m.inClass(x, m.input[pos]) {
			return k(pos + 1)
		}
	case *Anchor:
		if (x.Kind == AnchorStart && pos == 0) || (x.Kind == AnchorEnd && pos == len(m.input)) {
			return k(pos)
		}
	case *Concatenation:
		return m.sequence(x.Children, pos, k)
	case *Group:
		return m.group(x, pos, k)
	case *Alternation:
		for _, alt := range x.Alternatives {
			if m.match(alt, pos, k) {
				return true
			}
			if m.err != nil {
				return false
			}
		}
	case *Quantified:
		return m.repeat(x, 0, pos, k)
	case *Backreference:
		return m.backref(x, pos, k)
	}
	return false
}

func (m *machine) sequence(nodes []Node, pos int, k func(int) bool) bool {
	if len(nodes) == 0 {
		return k(pos)
	}
	return m.match(nodes[0], pos, func(next int) bool {
		return m.sequence(nodes[1:], next, k)
	})
}

// group sets the capture span only once the body has matched, and puts the
// previous span back if the rest of the pattern then fails.
func (m *machine) group(g *Group, pos int, k func(int) bool) bool {
	if g.Index == 0 {
		return m.sequence(g.Children, pos, k)
	}
	lo, hi := 2*g.Index, 2*g.Index+1
	return m.sequence(g.Children, pos, func(end int) bool {
		oldStart, oldEnd := m.slots[lo], m.slots[hi]
		m.slots[lo], m.slots[hi] = pos, end
		if k(end) {
			return true
		}
		m.slots[lo], m.slots[hi] = oldStart, oldEnd
		return false
	})
}

// repeat matches q.Inner for iterations count+1 onwards.
func (m *machine) repeat(q *Quantified, count, pos int, k func(int) bool) bool {
	canMore := q.Max < 0 || count < q.Max
	iterate := func() bool {
		return m.match(q.Inner, pos, func(next int) bool {
			if next == pos && count >= q.Min {
				// zero-length iteration past the minimum: stop repeating
				return k(next)
			}
			return m.repeat(q, count+1, next, k)
		})
	}
	if q.Greedy {
		if canMore && iterate() {
			return true
		}
		return m.err == nil && count >= q.Min && k(pos)
	}
	if count >= q.Min && k(pos) {
		return true
	}
	return m.err == nil && canMore && iterate()
}

func (m *machine) backref(b *Backreference, pos int, k func(int) bool) bool {
	start, end := m.slots[2*b.Index], m.slots[2*b.Index+1]
	if start < 0 {
		return false
	}
	n := end - start
	if pos+n > len(m.input) {
		return false
	}
	for i := 0; i < n; i++ {
		if !m.equal(m.input[pos+i], m.input[start+i]) {
			return false
		}
	}
	return k(pos + n)
}

func (m *machine) equal(a, b rune) bool {
	if a == b {
		return true
	}
	if !m.fold {
		return false
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}

func (m *machine) inClass(cc *CharClass, c rune) bool {
	in := cc.contains(c)
	if !in && m.fold {
		for f := unicode.SimpleFold(c); f != c; f = unicode.SimpleFold(f) {
			if cc.contains(f) {
				in = true
				break
			}
		}
	}
	return in != cc.Negated
}

func (cc *CharClass) contains(c rune) bool {
	for _, it := range cc.Items {
		if it.matches(c) {
			return true
		}
	}
	return false
}

func (it ClassItem) matches(c rune) bool {
	switch it.Kind {
	case ClassDigit:
		return isDigit(c) != it.Negated
	case ClassWord:
		return isWordChar(c) != it.Negated
	case ClassSpace:
		return isSpace(c) != it.Negated
	}
	return c >= it.Lo && c <= it.Hi
}

func isWordChar(c rune) bool {
	return isASCIIAlnum(c) || c == '_'
}

func isSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
