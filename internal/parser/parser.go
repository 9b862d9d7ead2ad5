package parser

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/weft-lang/weft/internal/ast"
	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/lexer"
	"github.com/weft-lang/weft/internal/token"
)

const (
	_           int = iota
	LOWEST          // entry
	DEFAULTING      // default
	LOGICAL_OR      // or
	LOGICAL_AND     // and
	EQUALS          // == !=
	COMPARISON      // > < >= <=
	SUM             // + - ++ --
	PRODUCT         // * /
	OPCALL          // subject map fn, subject match { ... }
	PREFIX          // -x, not x
	SELECTOR        // a.b, a?.b, a[i]
	CALL            // fn(x)
)

var precedences = map[token.TokenType]int{
	token.DEFAULT:  DEFAULTING,
	token.OR:       LOGICAL_OR,
	token.AND:      LOGICAL_AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       COMPARISON,
	token.LT_EQ:    COMPARISON,
	token.GT:       COMPARISON,
	token.GT_EQ:    COMPARISON,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.CONCAT:   SUM,
	token.REMOVE:   SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.MATCH:    OPCALL,
	token.PERIOD:   SELECTOR,
	token.SAFE_DOT: SELECTOR,
	token.LBRACKET: SELECTOR,
	token.LPAREN:   CALL,
}

// Identifiers usable in infix position: `subject map fn` and friends.
var infixOperators = map[string]bool{
	"map":        true,
	"filter":     true,
	"reduce":     true,
	"flatMap":    true,
	"groupBy":    true,
	"orderBy":    true,
	"distinctBy": true,
	"to":         true,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	src    string // the complete original source, for positions
	tokens []token.Token
	pos    int
	errors []*diag.Error

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func newParser(src string, tokens []token.Token) *Parser {
	p := &Parser{
		src:    src,
		tokens: tokens,
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.DATETIME, p.parseDateTimeLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.NULL, p.parseNull)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.NOT, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedOrFunction)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LBRACE, p.parseObjectLiteral)
	p.registerPrefix(token.IF, p.parseIfExpression)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	p.registerInfix(token.PLUS, p.parseInfixExpression)
	p.registerInfix(token.MINUS, p.parseInfixExpression)
	p.registerInfix(token.ASTERISK, p.parseInfixExpression)
	p.registerInfix(token.SLASH, p.parseInfixExpression)
	p.registerInfix(token.CONCAT, p.parseInfixExpression)
	p.registerInfix(token.REMOVE, p.parseInfixExpression)
	p.registerInfix(token.EQ, p.parseInfixExpression)
	p.registerInfix(token.NOT_EQ, p.parseInfixExpression)
	p.registerInfix(token.LT, p.parseInfixExpression)
	p.registerInfix(token.LT_EQ, p.parseInfixExpression)
	p.registerInfix(token.GT, p.parseInfixExpression)
	p.registerInfix(token.GT_EQ, p.parseInfixExpression)
	p.registerInfix(token.AND, p.parseInfixExpression)
	p.registerInfix(token.OR, p.parseInfixExpression)
	p.registerInfix(token.DEFAULT, p.parseDefaultExpression)
	p.registerInfix(token.IDENT, p.parseOperatorExpression)
	p.registerInfix(token.MATCH, p.parseMatchExpression)
	p.registerInfix(token.PERIOD, p.parseSelectorExpression)
	p.registerInfix(token.SAFE_DOT, p.parseSelectorExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)

	return p
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) tokenAt(i int) token.Token {
	if i >= len(p.tokens) {
		pos := 0
		if n := len(p.tokens); n > 0 {
			pos = p.tokens[n-1].Position
		}
		return token.Token{Type: token.EOF, Position: pos}
	}
	return p.tokens[i]
}

func (p *Parser) curToken() token.Token  { return p.tokenAt(p.pos) }
func (p *Parser) peekToken() token.Token { return p.tokenAt(p.pos + 1) }

func (p *Parser) nextToken() { p.pos++ }

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken().Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken().Type == t }

func (p *Parser) curPrecedence() int {
	return p.precedenceOf(p.curToken())
}

func (p *Parser) peekPrecedence() int {
	return p.precedenceOf(p.peekToken())
}

func (p *Parser) precedenceOf(tok token.Token) int {
	if tok.Type == token.IDENT {
		if infixOperators[tok.Literal] {
			return OPCALL
		}
		return LOWEST
	}
	if prec, ok := precedences[tok.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) addError(pos int, format string, args ...interface{}) {
	p.errors = append(p.errors, diag.New(diag.KindParse, pos, format, args...).At(p.src))
}

func (p *Parser) addDiag(e *diag.Error) {
	p.errors = append(p.errors, e.At(p.src))
}

func (p *Parser) firstError() *diag.Error {
	if len(p.errors) > 0 {
		return p.errors[0]
	}
	return nil
}

func (p *Parser) peekError(t token.TokenType) {
	p.addError(p.peekToken().Position,
		"expected next token to be %s, got %s instead", t, p.peekToken().Type)
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.addError(tok.Position, "unexpected token %s", tok.Type)
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken().Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken())
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken().Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken(), Value: p.curToken().Literal}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	tok := p.curToken()
	d, err := decimal.NewFromString(tok.Literal)
	if err != nil {
		p.addError(tok.Position, "could not parse %q as number", tok.Literal)
		return nil
	}
	return &ast.NumberLiteral{Token: tok, Value: d}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.curToken()
	if tok.Segments == nil {
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}
	}

	lit := &ast.InterpolatedString{Token: tok}
	for _, seg := range tok.Segments {
		if !seg.Expr {
			lit.Parts = append(lit.Parts, ast.StringPart{Text: seg.Text})
			continue
		}
		expr, err := parseExpressionSource(p.src, seg.Text, seg.Position)
		if err != nil {
			p.addDiag(err)
			return nil
		}
		lit.Parts = append(lit.Parts, ast.StringPart{Expr: expr})
	}
	return lit
}

func (p *Parser) parseDateTimeLiteral() ast.Expression {
	tok := p.curToken()
	t, err := time.Parse(time.RFC3339, tok.Literal)
	if err != nil {
		t, err = time.Parse("2006-01-02", tok.Literal)
	}
	if err != nil {
		p.addError(tok.Position, "could not parse %q as datetime", tok.Literal)
		return nil
	}
	return &ast.DateTimeLiteral{Token: tok, Value: t}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken(), Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNull() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken()}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken(),
		Operator: p.curToken().Literal,
	}
	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken(),
		Operator: p.curToken().Literal,
		Left:     left,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	return expression
}

func (p *Parser) parseDefaultExpression(left ast.Expression) ast.Expression {
	expression := &ast.DefaultExpression{
		Token: p.curToken(),
		Left:  left,
	}
	p.nextToken()
	expression.Right = p.parseExpression(DEFAULTING)
	return expression
}

// parseOperatorExpression handles identifiers in infix position: the
// collection operators `subject map fn` and friends.
func (p *Parser) parseOperatorExpression(left ast.Expression) ast.Expression {
	tok := p.curToken()
	if !infixOperators[tok.Literal] {
		p.addError(tok.Position, "unexpected identifier %q in operator position", tok.Literal)
		return nil
	}
	expression := &ast.InfixExpression{
		Token:    tok,
		Operator: tok.Literal,
		Left:     left,
	}
	p.nextToken()
	expression.Right = p.parseExpression(OPCALL)
	return expression
}

func (p *Parser) parseSelectorExpression(left ast.Expression) ast.Expression {
	tok := p.curToken()
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	return &ast.SelectorExpression{
		Token: tok,
		Left:  left,
		Key:   p.curToken().Literal,
		Safe:  tok.Type == token.SAFE_DOT,
	}
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	expression := &ast.IndexExpression{Token: p.curToken(), Left: left}

	p.nextToken()
	expression.Index = p.parseExpression(LOWEST)

	if !p.expectPeek(token.RBRACKET) {
		return nil
	}

	return expression
}

func (p *Parser) parseGroupedOrFunction() ast.Expression {
	if p.isFunctionLiteral() {
		return p.parseFunctionLiteral()
	}

	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

// isFunctionLiteral looks ahead from the current `(` for a matching `)`
// followed by `->`.
func (p *Parser) isFunctionLiteral() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				return p.tokenAt(i+1).Type == token.ARROW
			}
		case token.EOF:
			return false
		}
	}
	return false
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	lit := &ast.FunctionLiteral{Token: p.curToken()}

	for !p.peekTokenIs(token.RPAREN) {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		param := &ast.FunctionParameter{Token: p.curToken(), Name: p.curToken().Literal}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			param.Default = p.parseExpression(LOWEST)
		}
		lit.Parameters = append(lit.Parameters, param)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.ARROW) {
		return nil
	}

	p.nextToken()
	lit.Body = p.parseExpression(LOWEST)

	return lit
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	expression := &ast.CallExpression{Token: p.curToken(), Function: function}
	expression.Arguments = p.parseExpressionList(token.RPAREN)
	return expression
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	array := &ast.ArrayLiteral{Token: p.curToken()}
	array.Elements = p.parseExpressionList(token.RBRACKET)
	return array
}

func (p *Parser) parseExpressionList(end token.TokenType) []ast.Expression {
	list := []ast.Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(end) {
		return nil
	}

	return list
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	obj := &ast.ObjectLiteral{Token: p.curToken()}

	for !p.peekTokenIs(token.RBRACE) {
		entry := p.parseObjectEntry()
		if entry == nil {
			return nil
		}
		obj.Entries = append(obj.Entries, entry)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}

	return obj
}

func (p *Parser) parseObjectEntry() *ast.ObjectEntry {
	p.nextToken()

	entry := &ast.ObjectEntry{Token: p.curToken()}
	switch p.curToken().Type {
	case token.IDENT:
		entry.Key = p.curToken().Literal
	case token.STRING:
		if p.curToken().Segments != nil {
			p.addError(p.curToken().Position, "interpolation is not allowed in object keys")
			return nil
		}
		entry.Key = p.curToken().Literal
	default:
		p.addError(p.curToken().Position,
			"expected object key, got %s instead", p.curToken().Type)
		return nil
	}

	if !p.expectPeek(token.COLON) {
		return nil
	}

	p.nextToken()
	entry.Value = p.parseExpression(LOWEST)

	// presence guard: `key: value if condition`
	if p.peekTokenIs(token.IF) {
		p.nextToken()
		p.nextToken()
		entry.Guard = p.parseExpression(LOWEST)
	}

	return entry
}

func (p *Parser) parseIfExpression() ast.Expression {
	expression := &ast.IfExpression{Token: p.curToken()}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	p.nextToken()
	expression.Condition = p.parseExpression(LOWEST)

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	p.nextToken()
	expression.Consequence = p.parseExpression(LOWEST)

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		expression.Alternative = p.parseExpression(LOWEST)
	}

	return expression
}

func (p *Parser) parseMatchExpression(subject ast.Expression) ast.Expression {
	expression := &ast.MatchExpression{Token: p.curToken(), Subject: subject}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(token.RBRACE) {
		c := p.parseMatchCase()
		if c == nil {
			return nil
		}
		expression.Cases = append(expression.Cases, c)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}

	if len(expression.Cases) == 0 {
		p.addError(expression.Token.Position, "match expression has no cases")
		return nil
	}

	return expression
}

func (p *Parser) parseMatchCase() *ast.MatchCase {
	p.nextToken()

	c := &ast.MatchCase{Token: p.curToken()}
	switch p.curToken().Type {
	case token.CASE:
		if p.peekTokenIs(token.VAR) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			c.Binding = &ast.Identifier{Token: p.curToken(), Value: p.curToken().Literal}
		} else {
			p.nextToken()
			c.Pattern = p.parseExpression(LOWEST)
			if c.Pattern == nil {
				return nil
			}
		}
		if p.peekTokenIs(token.WHEN) {
			p.nextToken()
			p.nextToken()
			c.Guard = p.parseExpression(LOWEST)
		}
	case token.ELSE:
		c.IsElse = true
	default:
		p.addError(p.curToken().Position,
			"expected 'case' or 'else' in match expression, got %s instead", p.curToken().Type)
		return nil
	}

	if !p.expectPeek(token.ARROW) {
		return nil
	}

	p.nextToken()
	c.Body = p.parseExpression(LOWEST)

	return c
}

// parseExpressionSource lexes and parses a stand-alone expression slice.
// base is the slice's byte offset inside src, so every token and error keeps
// its absolute position.
func parseExpressionSource(src, text string, base int) (ast.Expression, *diag.Error) {
	tokens, lexErr := lexer.NewAt(text, base).Tokenize()
	if lexErr != nil {
		return nil, lexErr.At(src)
	}

	p := newParser(src, tokens)
	expr := p.parseExpression(LOWEST)
	if err := p.firstError(); err != nil {
		return nil, err
	}
	if !p.peekTokenIs(token.EOF) {
		p.addError(p.peekToken().Position, "unexpected token %s after expression", p.peekToken().Type)
		return nil, p.firstError()
	}
	return expr, nil
}
