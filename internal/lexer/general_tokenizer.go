package lexer

import (
	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/token"
)

type GeneralTokenizer struct {
	lexer *Lexer
}

func NewGeneralTokenizer(lexer *Lexer) *GeneralTokenizer {
	return &GeneralTokenizer{lexer: lexer}
}

func (g *GeneralTokenizer) NextToken() token.Token {
	var tok token.Token

	g.lexer.skipWhitespace()

	startPosition := g.lexer.position // Record the current position as the start of the token

	switch g.lexer.ch {
	case '=':
		tok = g.lexer.handleCompoundToken(token.ASSIGN, '=', token.EQ)
	case '+':
		tok = g.lexer.handleCompoundToken(token.PLUS, '+', token.CONCAT)
	case '-':
		tok = g.lexer.handleCompoundToken2(token.MINUS, '-', token.REMOVE, '>', token.ARROW)
	case '*':
		tok = g.lexer.newToken(token.ASTERISK, g.lexer.ch, startPosition)
	case '/':
		tok = g.lexer.newToken(token.SLASH, g.lexer.ch, startPosition)
	case '!':
		if g.lexer.peekChar() == '=' {
			g.lexer.readChar()
			tok = token.Token{Type: token.NOT_EQ, Literal: "!=", Position: g.lexer.base + startPosition}
		} else {
			tok = g.lexer.newToken(token.ILLEGAL, g.lexer.ch, startPosition)
		}
	case '?':
		if g.lexer.peekChar() == '.' {
			g.lexer.readChar()
			tok = token.Token{Type: token.SAFE_DOT, Literal: "?.", Position: g.lexer.base + startPosition}
		} else {
			tok = g.lexer.newToken(token.ILLEGAL, g.lexer.ch, startPosition)
		}
	case '<':
		tok = g.lexer.handleCompoundToken(token.LT, '=', token.LT_EQ)
	case '>':
		tok = g.lexer.handleCompoundToken(token.GT, '=', token.GT_EQ)
	case '.':
		tok = g.lexer.newToken(token.PERIOD, g.lexer.ch, startPosition)
	case ',':
		tok = g.lexer.newToken(token.COMMA, g.lexer.ch, startPosition)
	case ':':
		tok = g.lexer.newToken(token.COLON, g.lexer.ch, startPosition)
	case '(':
		tok = g.lexer.newToken(token.LPAREN, g.lexer.ch, startPosition)
	case ')':
		tok = g.lexer.newToken(token.RPAREN, g.lexer.ch, startPosition)
	case '{':
		tok = g.lexer.newToken(token.LBRACE, g.lexer.ch, startPosition)
	case '}':
		tok = g.lexer.newToken(token.RBRACE, g.lexer.ch, startPosition)
	case '[':
		tok = g.lexer.newToken(token.LBRACKET, g.lexer.ch, startPosition)
	case ']':
		tok = g.lexer.newToken(token.RBRACKET, g.lexer.ch, startPosition)
	case '|':
		return g.readDateTimeLiteral(startPosition)
	case '"':
		g.lexer.readChar() // consume the opening "
		g.lexer.setMode(NewStringTokenizer(g.lexer, startPosition))
		return g.lexer.currentMode.NextToken()
	case 0:
		tok.Literal = ""
		tok.Type = token.EOF
		tok.Position = g.lexer.base + startPosition
	default:
		if isLetter(g.lexer.ch) {
			tok.Literal = g.lexer.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			tok.Position = g.lexer.base + startPosition
			return tok
		} else if isDigit(g.lexer.ch) {
			tok.Type = token.NUMBER
			tok.Literal = g.lexer.readNumber()
			tok.Position = g.lexer.base + startPosition
			return tok
		} else {
			tok = g.lexer.newToken(token.ILLEGAL, g.lexer.ch, startPosition)
		}
	}

	g.lexer.readChar()
	return tok
}

// readDateTimeLiteral scans |...| and returns the enclosed text; the parser
// validates the timestamp format.
func (g *GeneralTokenizer) readDateTimeLiteral(startPosition int) token.Token {
	g.lexer.readChar() // consume the opening |
	start := g.lexer.position
	for g.lexer.ch != '|' {
		if g.lexer.ch == 0 || g.lexer.ch == '\n' {
			return g.lexer.fail(diag.New(diag.KindLex, g.lexer.base+startPosition,
				"unterminated datetime literal"))
		}
		g.lexer.readChar()
	}
	literal := g.lexer.input[start:g.lexer.position]
	g.lexer.readChar() // consume the closing |
	return token.Token{Type: token.DATETIME, Literal: literal, Position: g.lexer.base + startPosition}
}
