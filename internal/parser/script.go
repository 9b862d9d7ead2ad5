package parser

import (
	"strings"

	"github.com/weft-lang/weft/internal/ast"
	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/lexer"
	"github.com/weft-lang/weft/internal/token"
)

// ParseScript parses a complete source: an optional directive header
// terminated by a `---` line, followed by the body expression. A source
// without a separator line is a bare body expression.
func ParseScript(src string) (*ast.Script, *diag.Error) {
	script := &ast.Script{}

	header, bodyOffset, hasHeader := splitHeader(src)
	if hasHeader {
		if err := parseHeader(src, header, script); err != nil {
			return nil, err
		}
	}

	body, err := parseExpressionSource(src, src[bodyOffset:], bodyOffset)
	if err != nil {
		return nil, err
	}
	script.Body = body

	return script, nil
}

// splitHeader finds the first line consisting of `---` and returns the
// header text plus the byte offset where the body starts.
func splitHeader(src string) (header string, bodyOffset int, ok bool) {
	offset := 0
	for _, line := range strings.SplitAfter(src, "\n") {
		if strings.TrimSpace(line) == "---" {
			return src[:offset], offset + len(line), true
		}
		offset += len(line)
	}
	return "", 0, false
}

func parseHeader(src, header string, script *ast.Script) *diag.Error {
	offset := 0
	sawVersion := false
	for _, line := range strings.SplitAfter(header, "\n") {
		lineOffset := offset
		offset += len(line)

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		indent := strings.Index(line, trimmed)

		switch {
		case strings.HasPrefix(trimmed, "%weft"):
			version := strings.TrimSpace(strings.TrimPrefix(trimmed, "%weft"))
			if version == "" {
				return diag.New(diag.KindParse, lineOffset+indent,
					"%%weft directive requires a version").At(src)
			}
			script.Version = version
			sawVersion = true

		case strings.HasPrefix(trimmed, "output"):
			if !sawVersion {
				return diag.New(diag.KindParse, lineOffset+indent,
					"header must start with a %%weft directive").At(src)
			}
			mime := strings.TrimSpace(strings.TrimPrefix(trimmed, "output"))
			if mime == "" {
				return diag.New(diag.KindParse, lineOffset+indent,
					"output directive requires a format").At(src)
			}
			script.Output = mime

		case strings.HasPrefix(trimmed, "var "):
			if !sawVersion {
				return diag.New(diag.KindParse, lineOffset+indent,
					"header must start with a %%weft directive").At(src)
			}
			v, err := parseVarDirective(src, line, lineOffset)
			if err != nil {
				return err
			}
			script.Vars = append(script.Vars, v)

		default:
			return diag.New(diag.KindParse, lineOffset+indent,
				"unknown header directive %q", firstWord(trimmed)).At(src)
		}
	}
	return nil
}

// parseVarDirective parses one `var name = expr` header line.
func parseVarDirective(src, line string, lineOffset int) (*ast.VarDirective, *diag.Error) {
	tokens, lexErr := tokenizeLine(line, lineOffset)
	if lexErr != nil {
		return nil, lexErr.At(src)
	}

	p := newParser(src, tokens)
	if !p.curTokenIs(token.VAR) {
		p.addError(p.curToken().Position, "expected 'var' directive")
		return nil, p.firstError()
	}
	v := &ast.VarDirective{Token: p.curToken()}

	if !p.expectPeek(token.IDENT) {
		return nil, p.firstError()
	}
	v.Name = p.curToken().Literal

	if !p.expectPeek(token.ASSIGN) {
		return nil, p.firstError()
	}

	p.nextToken()
	v.Value = p.parseExpression(LOWEST)
	if err := p.firstError(); err != nil {
		return nil, err
	}
	if !p.peekTokenIs(token.EOF) {
		p.addError(p.peekToken().Position,
			"unexpected token %s after var declaration", p.peekToken().Type)
		return nil, p.firstError()
	}

	return v, nil
}

func tokenizeLine(line string, base int) ([]token.Token, *diag.Error) {
	return lexer.NewAt(line, base).Tokenize()
}

func firstWord(s string) string {
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i]
	}
	return s
}
