package regex

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pattern syntax error.
type ErrorKind int

const (
	UnbalancedGroup ErrorKind = iota + 1
	InvalidQuantifier
	InvalidBackreference
	InvalidCharClass
	DanglingAlternation
	InvalidEscape
)

var kindNames = map[ErrorKind]string{
	UnbalancedGroup:      "unbalanced group",
	InvalidQuantifier:    "invalid quantifier",
	InvalidBackreference: "invalid backreference",
	InvalidCharClass:     "invalid character class",
	DanglingAlternation:  "dangling alternation",
	InvalidEscape:        "invalid escape",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

var (
	ErrUnbalancedGroup      = errors.New("unbalanced group")
	ErrInvalidQuantifier    = errors.New("invalid quantifier")
	ErrInvalidBackreference = errors.New("invalid backreference")
	ErrInvalidCharClass     = errors.New("invalid character class")
	ErrDanglingAlternation  = errors.New("dangling alternation")
	ErrInvalidEscape        = errors.New("invalid escape")

	// ErrStepLimit is returned when a match exceeds Config.MaxSteps.
	ErrStepLimit = errors.New("regex: step limit exceeded")

	// ErrDepthLimit is returned when the backtracking search nests too deep
	// for the goroutine stack, e.g. a long line under an unbounded repeat.
	ErrDepthLimit = errors.New("regex: recursion depth limit exceeded")

	// ErrInvalidConfig indicates invalid configuration was provided
	ErrInvalidConfig = errors.New("regex: invalid configuration")
)

var kindErrors = map[ErrorKind]error{
	UnbalancedGroup:      ErrUnbalancedGroup,
	InvalidQuantifier:    ErrInvalidQuantifier,
	InvalidBackreference: ErrInvalidBackreference,
	InvalidCharClass:     ErrInvalidCharClass,
	DanglingAlternation:  ErrDanglingAlternation,
	InvalidEscape:        ErrInvalidEscape,
}

// SyntaxError reports a malformed pattern. Offset is the rune index into
// Pattern where the parser gave up.
type SyntaxError struct {
	Kind    ErrorKind
	Pattern string
	Offset  int
	Msg     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("regex: %s at offset %d in %q: %s", e.Kind, e.Offset, e.Pattern, e.Msg)
}

// Unwrap returns the sentinel error for the kind, so callers can use
// errors.Is(err, ErrUnbalancedGroup) and friends.
func (e *SyntaxError) Unwrap() error {
	return kindErrors[e.Kind]
}
