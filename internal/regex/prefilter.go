package regex

import (
	"unicode/utf8"

	"github.com/coregx/ahocorasick"
	"golang.org/x/exp/slices"
)

// prefilter rejects texts that contain none of the literals every match
// must include.
type prefilter struct {
	literals  []string
	automaton *ahocorasick.Automaton
}

func newPrefilter(root *Concatenation) *prefilter {
	lits := requiredLiterals(root)
	if len(lits) == 0 {
		return nil
	}
	builder := ahocorasick.NewBuilder()
	for _, lit := range lits {
		builder.AddPattern([]byte(lit))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &prefilter{literals: lits, automaton: auto}
}

func (pf *prefilter) mayMatch(text string) bool {
	// invalid bytes become U+FFFD for the matcher but not for the automaton
	if !utf8.ValidString(text) {
		return true
	}
	return pf.automaton.IsMatch([]byte(text))
}

// requiredLiterals returns a set of strings at least one of which occurs in
// any text n matches, or nil when no such set is known.
func requiredLiterals(n Node) []string {
	switch x := n.(type) {
	case *Literal:
		return []string{string(x.Char)}
	case *Concatenation:
		return requiredInSequence(x.Children)
	case *Group:
		return requiredInSequence(x.Children)
	case *Alternation:
		var out []string
		for _, alt := range x.Alternatives {
			lits := requiredLiterals(alt)
			if lits == nil {
				return nil
			}
			out = append(out, lits...)
		}
		slices.Sort(out)
		return slices.Compact(out)
	case *Quantified:
		if x.Min >= 1 {
			return requiredLiterals(x.Inner)
		}
	}
	return nil
}

// requiredInSequence picks the most selective set among the members of a
// sequence. Adjacent literals are joined into one run.
func requiredInSequence(nodes []Node) []string {
	var best []string
	var run []rune
	consider := func(lits []string) {
		if lits != nil && (best == nil || shortest(lits) > shortest(best)) {
			best = lits
		}
	}
	for _, n := range nodes {
		if lit, ok := n.(*Literal); ok {
			run = append(run, lit.Char)
			continue
		}
		if len(run) > 0 {
			consider([]string{string(run)})
			run = run[:0]
		}
		consider(requiredLiterals(n))
	}
	if len(run) > 0 {
		consider([]string{string(run)})
	}
	return best
}

func shortest(lits []string) int {
	n := len(lits[0])
	for _, l := range lits[1:] {
		if len(l) < n {
			n = len(l)
		}
	}
	return n
}
