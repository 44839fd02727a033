package regex

import (
	"strconv"
	"strings"
)

// Node is one element of a compiled pattern's syntax tree.
type Node interface {
	String() string
	node()
}

type Literal struct{ Char rune }

type AnyChar struct{}

// ClassKind names a predefined character class.
type ClassKind int

const (
	ClassNone ClassKind = iota
	ClassDigit
	ClassWord
	ClassSpace
)

// ClassItem is either a rune range (Lo..Hi inclusive) or a predefined class,
// possibly negated (\D, \W, \S).
type ClassItem struct {
	Lo, Hi  rune
	Kind    ClassKind
	Negated bool
}

type CharClass struct {
	Items   []ClassItem
	Negated bool
}

type AnchorKind int

const (
	AnchorStart AnchorKind = iota
	AnchorEnd
)

type Anchor struct{ Kind AnchorKind }

// Group is a parenthesized sequence. Index is the 1-based capture index,
// or 0 for a non-capturing group.
type Group struct {
	Children []Node
	Index    int
}

type Alternation struct {
	Alternatives []*Concatenation
}

// Quantified repeats Inner between Min and Max times. Max < 0 means
// unbounded.
type Quantified struct {
	Inner  Node
	Min    int
	Max    int
	Greedy bool
}

type Backreference struct{ Index int }

type Concatenation struct {
	Children []Node
}

func (*Literal) node()       {}
func (*AnyChar) node()       {}
func (*CharClass) node()     {}
func (*Anchor) node()        {}
func (*Group) node()         {}
func (*Alternation) node()   {}
func (*Quantified) node()    {}
func (*Backreference) node() {}
func (*Concatenation) node() {}

const metaChars = `\.+*?()|[]{}^$`

func quoteRune(sb *strings.Builder, r rune, meta string) {
	switch r {
	case '\t':
		sb.WriteString(`\t`)
	case '\n':
		sb.WriteString(`\n`)
	case '\r':
		sb.WriteString(`\r`)
	case '\f':
		sb.WriteString(`\f`)
	case '\v':
		sb.WriteString(`\v`)
	default:
		if strings.ContainsRune(meta, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
}

func (n *Literal) String() string {
	var sb strings.Builder
	quoteRune(&sb, n.Char, metaChars)
	return sb.String()
}

func (*AnyChar) String() string { return "." }

func (it ClassItem) String() string {
	if it.Kind != ClassNone {
		letter := map[ClassKind]byte{ClassDigit: 'd', ClassWord: 'w', ClassSpace: 's'}[it.Kind]
		if it.Negated {
			letter -= 'a' - 'A'
		}
		return `\` + string(letter)
	}
	var sb strings.Builder
	quoteRune(&sb, it.Lo, `\]^-[`)
	if it.Hi != it.Lo {
		sb.WriteByte('-')
		quoteRune(&sb, it.Hi, `\]^-[`)
	}
	return sb.String()
}

func (n *CharClass) String() string {
	// a lone predefined class prints as its shorthand
	if !n.Negated && len(n.Items) == 1 && n.Items[0].Kind != ClassNone {
		return n.Items[0].String()
	}
	var sb strings.Builder
	sb.WriteByte('[')
	if n.Negated {
		sb.WriteByte('^')
	}
	for _, it := range n.Items {
		sb.WriteString(it.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (n *Anchor) String() string {
	if n.Kind == AnchorStart {
		return "^"
	}
	return "$"
}

func (n *Group) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	if n.Index == 0 {
		sb.WriteString("?:")
	}
	for _, c := range n.Children {
		sb.WriteString(c.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

func (n *Alternation) String() string {
	parts := make([]string, len(n.Alternatives))
	for i, alt := range n.Alternatives {
		parts[i] = alt.String()
	}
	return strings.Join(parts, "|")
}

func (n *Quantified) String() string {
	var sb strings.Builder
	sb.WriteString(n.Inner.String())
	switch {
	case n.Min == 0 && n.Max < 0:
		sb.WriteByte('*')
	case n.Min == 1 && n.Max < 0:
		sb.WriteByte('+')
	case n.Min == 0 && n.Max == 1:
		sb.WriteByte('?')
	case n.Min == n.Max:
		sb.WriteString("{" + strconv.Itoa(n.Min) + "}")
	case n.Max < 0:
		sb.WriteString("{" + strconv.Itoa(n.Min) + ",}")
	default:
		sb.WriteString("{" + strconv.Itoa(n.Min) + "," + strconv.Itoa(n.Max) + "}")
	}
	if !n.Greedy {
		sb.WriteByte('?')
	}
	return sb.String()
}

func (n *Backreference) String() string { return `\` + strconv.Itoa(n.Index) }

func (n *Concatenation) String() string {
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(c.String())
	}
	return sb.String()
}
