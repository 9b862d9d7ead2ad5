package lexer

import (
	"strings"

	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/token"
)

// StringTokenizer scans a string literal body. Escape sequences are decoded
// into literal segments; `$( ... )` spans are captured raw, undecoded, for
// the parser to re-lex as expressions.
type StringTokenizer struct {
	lexer   *Lexer
	openPos int // position of the opening quote
}

func NewStringTokenizer(lexer *Lexer, openPos int) *StringTokenizer {
	return &StringTokenizer{lexer: lexer, openPos: openPos}
}

func (s *StringTokenizer) NextToken() token.Token {
	l := s.lexer

	var result strings.Builder
	var segments []token.Segment
	interpolated := false
	litStart := l.position

	flushLiteral := func() {
		if result.Len() > 0 {
			segments = append(segments, token.Segment{
				Text:     result.String(),
				Position: l.base + litStart,
			})
			result.Reset()
		}
	}

	// the opening `"` has already been consumed

	for {
		if l.ch == 0 || l.ch == '\n' {
			return l.fail(diag.Lex(diag.UnterminatedString, l.base+s.openPos,
				"unterminated string literal"))
		}

		if l.ch == '"' {
			closePos := l.position
			l.readChar() // consume the closing `"`
			flushLiteral()
			l.setMode(NewGeneralTokenizer(l))

			tok := token.Token{
				Type:     token.STRING,
				Position: l.base + s.openPos,
			}
			if interpolated {
				tok.Literal = l.input[s.openPos+1 : closePos]
				tok.Segments = segments
			} else if len(segments) > 0 {
				tok.Literal = segments[0].Text
			}
			return tok
		}

		if l.ch == '\\' {
			escPos := l.position
			l.readChar() // move to the escaped character
			switch l.ch {
			case 'n':
				result.WriteRune('\n')
			case 't':
				result.WriteRune('\t')
			case 'r':
				result.WriteRune('\r')
			case '\\':
				result.WriteRune('\\')
			case '"':
				result.WriteRune('"')
			case '$':
				result.WriteRune('$')
			default:
				return l.fail(diag.Lex(diag.InvalidEscape, l.base+escPos,
					"invalid escape sequence '\\%c' in string literal", l.ch))
			}
			l.readChar()
			continue
		}

		if l.ch == '$' && l.peekChar() == '(' {
			dollarPos := l.position
			flushLiteral()
			l.readChar() // consume $
			l.readChar() // consume (
			seg, err := s.readInterpolation(dollarPos)
			if err != nil {
				return l.fail(err)
			}
			segments = append(segments, seg)
			interpolated = true
			litStart = l.position
			continue
		}

		result.WriteRune(l.ch)
		l.readChar()
	}
}

// readInterpolation captures the raw source between `$(` and its matching
// `)`. Parentheses nest; string literals inside the span are skipped so
// their parens and quotes do not confuse the depth counter.
func (s *StringTokenizer) readInterpolation(dollarPos int) (token.Segment, *diag.Error) {
	l := s.lexer
	exprStart := l.position
	depth := 1

	for {
		switch l.ch {
		case 0:
			return token.Segment{}, diag.Lex(diag.UnterminatedInterpolation,
				l.base+dollarPos, "unterminated interpolation in string literal")
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				seg := token.Segment{
					Expr:     true,
					Text:     l.input[exprStart:l.position],
					Position: l.base + exprStart,
				}
				l.readChar() // consume the closing )
				return seg, nil
			}
		case '"':
			l.readChar() // consume the opening "
			for l.ch != '"' {
				if l.ch == 0 {
					return token.Segment{}, diag.Lex(diag.UnterminatedInterpolation,
						l.base+dollarPos, "unterminated interpolation in string literal")
				}
				if l.ch == '\\' {
					l.readChar()
				}
				l.readChar()
			}
		}
		l.readChar()
	}
}
