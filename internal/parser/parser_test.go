package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/weft-lang/weft/internal/ast"
	"github.com/weft-lang/weft/internal/diag"
)

func parseBody(t *testing.T, src string) ast.Expression {
	t.Helper()
	script, err := ParseScript(src)
	require.Nil(t, err, "parse %q", src)
	return script.Body
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a ++ b -- c", "((a ++ b) -- c)"},
		{"-a.b", "(-(a.b))"},
		{"not a and b", "((not a) and b)"},
		{"x == 1 or y > 2 and z <= 3", "((x == 1) or ((y > 2) and (z <= 3)))"},
		{"a default b default c", "((a default b) default c)"},
		{`o.k default "X"`, `((o.k) default "X")`},
		{"a.b.c", "((a.b).c)"},
		{"a?.b", "(a?.b)"},
		{"payload.items[0]", "((payload.items)[0])"},
		{"items[-1]", "(items[(-1)])"},
		{"1 + 2 == 3", "((1 + 2) == 3)"},
		{"1 to 5 map f", "((1 to 5) map f)"},
		{"items map f filter g", "((items map f) filter g)"},
		{"items map (n) -> n * 2", "(items map (n) -> (n * 2))"},
		{"sum(items) + 1", "(sum(items) + 1)"},
		{"f(1, 2 + 3)", "f(1, (2 + 3))"},
		{"if (a) b else c + 1", "if (a) b else (c + 1)"},
	}

	for _, tt := range tests {
		body := parseBody(t, tt.input)
		require.Equal(t, tt.expected, body.String(), "input %q", tt.input)
	}
}

func TestLambdaVersusGrouping(t *testing.T) {
	body := parseBody(t, "(a)")
	_, ok := body.(*ast.Identifier)
	require.True(t, ok, "grouped identifier stays an identifier")

	body = parseBody(t, "(a) -> a + 1")
	fn, ok := body.(*ast.FunctionLiteral)
	require.True(t, ok)
	require.Len(t, fn.Parameters, 1)
	require.Equal(t, "a", fn.Parameters[0].Name)

	body = parseBody(t, "() -> 42")
	fn, ok = body.(*ast.FunctionLiteral)
	require.True(t, ok)
	require.Empty(t, fn.Parameters)
}

func TestLambdaParameterDefaults(t *testing.T) {
	body := parseBody(t, "(item, acc = 0) -> acc + item")
	fn, ok := body.(*ast.FunctionLiteral)
	require.True(t, ok)
	require.Len(t, fn.Parameters, 2)
	require.Nil(t, fn.Parameters[0].Default)
	require.NotNil(t, fn.Parameters[1].Default)
	require.Equal(t, "0", fn.Parameters[1].Default.String())
}

func TestObjectLiteral(t *testing.T) {
	body := parseBody(t, `{ a: 1, "b c": 2, d: x + 1 if flag, a: 3 }`)
	obj, ok := body.(*ast.ObjectLiteral)
	require.True(t, ok)
	require.Len(t, obj.Entries, 4)
	require.Equal(t, "a", obj.Entries[0].Key)
	require.Equal(t, "b c", obj.Entries[1].Key)
	require.NotNil(t, obj.Entries[2].Guard)
	require.Equal(t, "flag", obj.Entries[2].Guard.String())
	require.Equal(t, "a", obj.Entries[3].Key)
}

func TestObjectKeyInterpolationRejected(t *testing.T) {
	_, err := ParseScript(`{ "$(k)": 1 }`)
	require.NotNil(t, err)
	require.Equal(t, diag.KindParse, err.Kind)
}

func TestInterpolatedString(t *testing.T) {
	body := parseBody(t, `"Hello, $(payload.name)!"`)
	lit, ok := body.(*ast.InterpolatedString)
	require.True(t, ok)
	require.Len(t, lit.Parts, 3)
	require.Nil(t, lit.Parts[0].Expr)
	require.Equal(t, "Hello, ", lit.Parts[0].Text)
	require.NotNil(t, lit.Parts[1].Expr)
	require.Equal(t, "(payload.name)", lit.Parts[1].Expr.String())
	require.Equal(t, "!", lit.Parts[2].Text)
}

func TestInterpolatedSegmentsParseAsStandaloneExpressions(t *testing.T) {
	// an embedded segment must produce the same AST as the expression
	// parsed on its own
	exprs := []string{
		"payload.name",
		"1 + 2 * 3",
		"items map (n) -> n * 2",
		`upper("a") ++ "b"`,
		"if (flag) 1 else 2",
	}
	for _, src := range exprs {
		body := parseBody(t, `"v: $(`+src+`)"`)
		lit, ok := body.(*ast.InterpolatedString)
		require.True(t, ok, "parse %q", src)
		require.Len(t, lit.Parts, 2)
		embedded := lit.Parts[1].Expr
		require.NotNil(t, embedded)

		standalone, err := parseExpressionSource(src, src, 0)
		require.Nil(t, err, "parse %q", src)
		require.IsType(t, standalone, embedded, "parse %q", src)
		require.Equal(t, standalone.String(), embedded.String(), "parse %q", src)
	}
}

func TestInterpolationParseError(t *testing.T) {
	_, err := ParseScript(`"value: $(1 +)"`)
	require.NotNil(t, err)
	require.Equal(t, diag.KindParse, err.Kind)
}

func TestUnterminatedInterpolationSurfacesLexError(t *testing.T) {
	_, err := ParseScript(`"$(foo`)
	require.NotNil(t, err)
	require.Equal(t, diag.KindLex, err.Kind)
	require.Equal(t, diag.UnterminatedInterpolation, err.Reason)
}

func TestDateTimeLiteral(t *testing.T) {
	body := parseBody(t, "|2024-01-02T03:04:05Z|")
	lit, ok := body.(*ast.DateTimeLiteral)
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), lit.Value)

	body = parseBody(t, "|2024-01-02|")
	lit, ok = body.(*ast.DateTimeLiteral)
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), lit.Value)
}

func TestMatchExpression(t *testing.T) {
	body := parseBody(t, `payload.role match {
		case "admin" -> 1,
		case var n when n > 2 -> n,
		else -> 0
	}`)
	m, ok := body.(*ast.MatchExpression)
	require.True(t, ok)
	require.Len(t, m.Cases, 3)

	require.Equal(t, `"admin"`, m.Cases[0].Pattern.String())
	require.Nil(t, m.Cases[0].Guard)

	require.NotNil(t, m.Cases[1].Binding)
	require.Equal(t, "n", m.Cases[1].Binding.Value)
	require.Equal(t, "(n > 2)", m.Cases[1].Guard.String())

	require.True(t, m.Cases[2].IsElse)
}

func TestMatchWithoutCases(t *testing.T) {
	_, err := ParseScript("x match { }")
	require.NotNil(t, err)
	require.Equal(t, diag.KindParse, err.Kind)
}

func TestScriptHeader(t *testing.T) {
	src := `%weft 1.0
output json
var rate = 0.2
var label = "vat"
---
{ tax: payload.total * rate, label: label }`

	script, err := ParseScript(src)
	require.Nil(t, err)
	require.Equal(t, "1.0", script.Version)
	require.Equal(t, "json", script.Output)
	require.Len(t, script.Vars, 2)
	require.Equal(t, "rate", script.Vars[0].Name)
	require.Equal(t, "0.2", script.Vars[0].Value.String())
	require.Equal(t, "label", script.Vars[1].Name)
	require.NotNil(t, script.Body)
}

func TestHeaderMustStartWithVersion(t *testing.T) {
	_, err := ParseScript("output json\n---\n1")
	require.NotNil(t, err)
	require.Equal(t, diag.KindParse, err.Kind)
}

func TestUnknownHeaderDirective(t *testing.T) {
	_, err := ParseScript("%weft 1.0\nimport foo\n---\n1")
	require.NotNil(t, err)
	require.Equal(t, diag.KindParse, err.Kind)
}

func TestVarDirectiveTrailingTokens(t *testing.T) {
	_, err := ParseScript("%weft 1.0\nvar x = 1 2\n---\nx")
	require.NotNil(t, err)
	require.Equal(t, diag.KindParse, err.Kind)
}

func TestBodyWithoutHeader(t *testing.T) {
	script, err := ParseScript("1 + 2")
	require.Nil(t, err)
	require.Empty(t, script.Version)
	require.Equal(t, "(1 + 2)", script.Body.String())
}

func TestTrailingTokensAfterBody(t *testing.T) {
	_, err := ParseScript("1 + 2 )")
	require.NotNil(t, err)
	require.Equal(t, diag.KindParse, err.Kind)
}

func TestParseErrorPosition(t *testing.T) {
	_, err := ParseScript("1 +\n  *")
	require.NotNil(t, err)
	require.Equal(t, diag.KindParse, err.Kind)
	require.Equal(t, 2, err.Line)
}
