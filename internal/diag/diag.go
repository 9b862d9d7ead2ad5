// Package diag defines the typed error taxonomy shared by the lexer, parser
// and evaluator. Every failure carries a kind, a message and a source offset;
// line and column are derived from the offset against the original source.
package diag

import (
	"bytes"
	"fmt"

	"github.com/weft-lang/weft/internal/util"
)

type Kind string

const (
	KindLex             Kind = "LexError"
	KindParse           Kind = "ParseError"
	KindType            Kind = "TypeError"
	KindArithmetic      Kind = "ArithmeticError"
	KindMatch           Kind = "MatchError"
	KindArgumentType    Kind = "ArgumentTypeError"
	KindUnknownFunction Kind = "UnknownFunctionError"
	KindNotImplemented  Kind = "NotImplementedError"
	KindFormat          Kind = "FormatError"
	KindCancelled       Kind = "Cancelled"
)

// Lex failure reasons.
const (
	UnterminatedString        = "unterminated string"
	UnterminatedInterpolation = "unterminated interpolation"
	InvalidEscape             = "invalid escape"
)

type Error struct {
	Kind     Kind
	Reason   string // set for lex errors only
	Message  string
	Position int // byte offset into the source
	Line     int
	Column   int
}

func New(kind Kind, pos int, format string, args ...interface{}) *Error {
	return &Error{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
	}
}

func Lex(reason string, pos int, format string, args ...interface{}) *Error {
	e := New(KindLex, pos, format, args...)
	e.Reason = reason
	return e
}

// ArgumentType reports a builtin argument of the wrong kind. argPos is the
// 1-based argument position.
func ArgumentType(fn string, argPos int, expected, actual string, pos int) *Error {
	return New(KindArgumentType, pos,
		"%s: argument %d must be %s, got %s", fn, argPos, expected, actual)
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: [%3d:%2d] %s", e.Kind, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// At fills Line and Column from the error's offset against src.
func (e *Error) At(src string) *Error {
	e.Line, e.Column = util.GetLineAndColumn(src, e.Position)
	return e
}

// Render formats the error with the source lines around its position.
func Render(e *Error, src string) string {
	var buf bytes.Buffer
	if e.Line == 0 {
		e.At(src)
	}
	fmt.Fprintf(&buf, "%s\n", e.Error())
	buf.WriteString(util.GetContextLines(src, e.Line, e.Column))
	return buf.String()
}
